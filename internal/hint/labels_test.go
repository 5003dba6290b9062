package hint

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustAlphabet(t *testing.T, chars string) *Alphabet {
	t.Helper()
	alphabet, err := NewAlphabet(chars)
	if err != nil {
		t.Fatalf("build alphabet %q: %v", chars, err)
	}
	return alphabet
}

func TestLabelsRejectsNonPositiveCount(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		if _, err := Labels(n, DefaultAlphabet()); !errors.Is(err, ErrInvalidCount) {
			t.Fatalf("Labels(%d) error = %v, want ErrInvalidCount", n, err)
		}
	}
}

func TestLabelsRejectsEmptyAlphabet(t *testing.T) {
	if _, err := Labels(3, nil); !errors.Is(err, ErrEmptyAlphabet) {
		t.Fatalf("nil alphabet error = %v, want ErrEmptyAlphabet", err)
	}
	if _, err := NewAlphabet("   "); !errors.Is(err, ErrEmptyAlphabet) {
		t.Fatalf("blank alphabet error = %v, want ErrEmptyAlphabet", err)
	}
}

func TestLabelsSingleLetterAlphabet(t *testing.T) {
	narrow := mustAlphabet(t, "a")
	labels, err := Labels(1, narrow)
	if err != nil {
		t.Fatalf("Labels(1): %v", err)
	}
	if len(labels) != 1 || labels[0] != "a" {
		t.Fatalf("Labels(1) = %v, want [a]", labels)
	}
	if _, err := Labels(2, narrow); !errors.Is(err, ErrAlphabetTooNarrow) {
		t.Fatalf("Labels(2) error = %v, want ErrAlphabetTooNarrow", err)
	}
}

func TestLabelsSingleCharactersInAlphabetOrder(t *testing.T) {
	labels, err := Labels(3, mustAlphabet(t, "abc"))
	if err != nil {
		t.Fatalf("Labels(3): %v", err)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(labels, want) {
		t.Fatalf("Labels(3, abc) = %v, want %v", labels, want)
	}
}

func TestLabelsExpandTrailingLetters(t *testing.T) {
	// 30 labels over 26 letters: a..y stay single, z absorbs the overflow.
	labels, err := Labels(30, DefaultAlphabet())
	if err != nil {
		t.Fatalf("Labels(30): %v", err)
	}
	if len(labels) != 30 {
		t.Fatalf("got %d labels, want 30", len(labels))
	}
	if labels[0] != "a" || labels[24] != "y" {
		t.Fatalf("leading singles wrong: first=%q twentyfifth=%q", labels[0], labels[24])
	}
	if want := []string{"za", "zb", "zc", "zd", "ze"}; !reflect.DeepEqual(labels[25:], want) {
		t.Fatalf("overflow labels = %v, want %v", labels[25:], want)
	}
}

func TestLabelsTwoLetterRegressionVector(t *testing.T) {
	cases := []struct {
		n    int
		want []string
	}{
		{1, []string{"a"}},
		{2, []string{"a", "b"}},
		{3, []string{"a", "ba", "bb"}},
		{4, []string{"aa", "ab", "ba", "bb"}},
		{5, []string{"aa", "ab", "ba", "bba", "bbb"}},
	}
	alphabet := mustAlphabet(t, "ab")
	for _, tc := range cases {
		labels, err := Labels(tc.n, alphabet)
		if err != nil {
			t.Fatalf("Labels(%d, ab): %v", tc.n, err)
		}
		if !reflect.DeepEqual(labels, tc.want) {
			t.Fatalf("Labels(%d, ab) = %v, want %v", tc.n, labels, tc.want)
		}
	}
}

func TestLabelsGrowthStaysShallow(t *testing.T) {
	labels, err := Labels(30, mustAlphabet(t, "ab"))
	if err != nil {
		t.Fatalf("Labels(30, ab): %v", err)
	}
	if len(labels) != 30 {
		t.Fatalf("got %d labels, want 30", len(labels))
	}
	// 2^5 = 32 covers 30, so no label should ever exceed five characters.
	for _, label := range labels {
		if len(label) > 5 {
			t.Fatalf("label %q longer than the minimal depth", label)
		}
	}
}

func TestLabelsUniqueAndPrefixFree(t *testing.T) {
	alphabets := []string{"ab", "abc", "asdfjklgh", DefaultChars}
	counts := []int{1, 2, 5, 26, 27, 30, 100, 677}
	for _, chars := range alphabets {
		alphabet := mustAlphabet(t, chars)
		for _, n := range counts {
			if alphabet.Len() == 1 && n > 1 {
				continue
			}
			labels, err := Labels(n, alphabet)
			if err != nil {
				t.Fatalf("Labels(%d, %q): %v", n, chars, err)
			}
			if len(labels) != n {
				t.Fatalf("Labels(%d, %q) returned %d labels", n, chars, len(labels))
			}
			seen := map[string]bool{}
			for _, label := range labels {
				if label == "" {
					t.Fatalf("empty label for n=%d chars=%q", n, chars)
				}
				if seen[label] {
					t.Fatalf("duplicate label %q for n=%d chars=%q", label, n, chars)
				}
				seen[label] = true
			}
			for _, x := range labels {
				for _, y := range labels {
					if x != y && strings.HasPrefix(y, x) {
						t.Fatalf("label %q is a prefix of %q (n=%d chars=%q)", x, y, n, chars)
					}
				}
			}
		}
	}
}

func TestLabelsDeterministic(t *testing.T) {
	alphabet := mustAlphabet(t, "asdfjklgh")
	first, err := Labels(50, alphabet)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := Labels(50, alphabet)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("generator not deterministic:\n%v\n%v", first, second)
	}
}
