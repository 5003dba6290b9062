package hint

import "errors"

var (
	// ErrInvalidCount is returned when a caller asks for fewer than one label.
	ErrInvalidCount = errors.New("hint: label count must be at least one")
	// ErrEmptyAlphabet is returned when no usable characters are available.
	ErrEmptyAlphabet = errors.New("hint: alphabet must not be empty")
	// ErrAlphabetTooNarrow is returned for multi-label requests against a
	// single-letter alphabet, where prefix-freedom permits only one label.
	ErrAlphabetTooNarrow = errors.New("hint: single-letter alphabet cannot label more than one target")
)

// Labels generates n unique labels over the alphabet. The result is
// deterministic and prefix-free: no label is a prefix of another, so a
// keystroke stream resolves character by character without a confirm key.
//
// The first letters of the alphabet are handed out as single-character
// labels; once those run out, the trailing letters become prefixes whose
// subtrees absorb the overflow, recursively, so label length grows only as
// far as the requested count demands. Label i corresponds to candidate i in
// the caller's order.
func Labels(n int, alphabet *Alphabet) ([]string, error) {
	if n <= 0 {
		return nil, ErrInvalidCount
	}
	if alphabet == nil || alphabet.Len() == 0 {
		return nil, ErrEmptyAlphabet
	}
	if n > 1 && alphabet.Len() == 1 {
		return nil, ErrAlphabetTooNarrow
	}
	labels := make([]string, 0, n)
	appendLabels(&labels, "", n, alphabet.letters)
	return labels, nil
}

func appendLabels(out *[]string, prefix string, n int, letters []rune) {
	k := len(letters)
	if n <= k {
		for i := 0; i < n; i++ {
			*out = append(*out, prefix+string(letters[i]))
		}
		return
	}

	// Expand as few trailing letters as possible: each expanded letter
	// trades its own label for up to k longer ones, so ceil((n-k)/(k-1))
	// expansions cover the overflow at this depth.
	expanded := (n - k + k - 2) / (k - 1)
	if expanded > k {
		expanded = k
	}
	singles := k - expanded
	for i := 0; i < singles; i++ {
		*out = append(*out, prefix+string(letters[i]))
	}

	// Spread the remainder across the expanded letters, heavier subtrees
	// on the later letters so earlier ones stay shorter.
	remaining := n - singles
	base := remaining / expanded
	extra := remaining % expanded
	for i := 0; i < expanded; i++ {
		size := base
		if i >= expanded-extra {
			size++
		}
		appendLabels(out, prefix+string(letters[singles+i]), size, letters)
	}
}
