package hint

import (
	"fmt"
	"strings"
	"unicode"
)

// DefaultChars is the alphabet used when no configuration overrides it.
const DefaultChars = "abcdefghijklmnopqrstuvwxyz"

var builtinAlphabets = []struct {
	name  string
	chars string
}{
	{"latin", DefaultChars},
	{"numeric", "1234567890"},
	{"qwerty", "asdfqwerzxcvjklmiuopghtybn"},
	{"qwerty-homerow", "asdfjklgh"},
	{"qwerty-left-hand", "asdfqwerzcxv"},
	{"qwerty-right-hand", "jkluiopmyhn"},
	{"azerty", "qsdfazerwxcvjklmuiopghtybn"},
	{"azerty-homerow", "qsdfjkmgh"},
	{"dvorak", "aoeuqjkxpyhtnsgcrlmwvzfidb"},
	{"dvorak-homerow", "aoeuhtnsid"},
	{"colemak", "arstqwfpzxcvneioluymdhgjbk"},
	{"colemak-homerow", "arstneiodh"},
}

// Alphabet is an ordered set of distinct characters used to build hint
// labels. Order matters: earlier letters are handed out first, so they end
// up on earlier and shorter labels.
type Alphabet struct {
	letters []rune
}

// NewAlphabet builds an alphabet from the given characters. Input is
// lowercased and duplicate characters are dropped while preserving the
// order of first appearance.
func NewAlphabet(chars string) (*Alphabet, error) {
	seen := map[rune]bool{}
	letters := make([]rune, 0, len(chars))
	for _, r := range strings.ToLower(chars) {
		if unicode.IsSpace(r) || seen[r] {
			continue
		}
		seen[r] = true
		letters = append(letters, r)
	}
	if len(letters) == 0 {
		return nil, ErrEmptyAlphabet
	}
	return &Alphabet{letters: letters}, nil
}

// BuiltinAlphabet returns one of the named keyboard layouts.
func BuiltinAlphabet(name string) (*Alphabet, error) {
	for _, builtin := range builtinAlphabets {
		if builtin.name == name {
			return NewAlphabet(builtin.chars)
		}
	}
	return nil, fmt.Errorf("unknown alphabet %q", name)
}

// DefaultAlphabet returns the 26 lowercase Latin letters.
func DefaultAlphabet() *Alphabet {
	alphabet, err := NewAlphabet(DefaultChars)
	if err != nil {
		panic(err)
	}
	return alphabet
}

// Len reports the number of letters in the alphabet.
func (a *Alphabet) Len() int {
	return len(a.letters)
}

// String returns the letters in priority order.
func (a *Alphabet) String() string {
	return string(a.letters)
}
