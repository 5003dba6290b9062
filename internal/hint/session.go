package hint

import (
	"unicode"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Rect is a candidate's bounding geometry in the host's coordinate space,
// captured once at session start. Only Left and Top anchor markers; Width
// and Height are carried through for hosts that want them.
type Rect struct {
	Left   int
	Top    int
	Width  int
	Height int
}

// Candidate is an opaque handle to a clickable target plus its geometry.
// The engine never inspects Ref; it travels untouched into the Activate
// directive on a full match.
type Candidate struct {
	Ref  any
	Rect Rect
}

// Directive is a declarative UI instruction emitted by a session. The
// presentation layer consumes directives in order; the engine itself never
// touches any rendering state.
type Directive interface {
	directive()
}

// CreateMarker instructs the host to place a labelled marker at the
// candidate's captured geometry.
type CreateMarker struct {
	Label string
	At    Rect
}

// UpdateMarker restyles a surviving marker: the first MatchedLen characters
// of the label are the prefix the user has typed so far.
type UpdateMarker struct {
	Label      string
	MatchedLen int
}

// RemoveMarker removes a single marker eliminated by the latest keystroke.
type RemoveMarker struct {
	Label string
}

// RemoveAllMarkers tears down every marker. Emitted on every terminal
// transition before anything else.
type RemoveAllMarkers struct{}

// Activate hands the uniquely resolved candidate to the host's dispatch.
// Emitted at most once per session, always after RemoveAllMarkers.
type Activate struct {
	Candidate Candidate
}

func (CreateMarker) directive() {}
func (UpdateMarker) directive() {}
func (RemoveMarker) directive() {}
func (RemoveAllMarkers) directive() {}
func (Activate) directive() {}

// Session owns the label assignment for one hinting episode and resolves a
// serial keystroke stream to at most one activation. A session is not safe
// for concurrent use; callers feed it keystrokes one at a time.
type Session struct {
	trie  *patricia.Trie
	live  []string
	input string
	done  bool
}

// StartSession assigns a label to every candidate and returns the new
// session along with the CreateMarker directives, one per candidate in
// input order. An empty candidate list fails with ErrInvalidCount and
// leaves nothing behind.
func StartSession(candidates []Candidate, alphabet *Alphabet) (*Session, []Directive, error) {
	labels, err := Labels(len(candidates), alphabet)
	if err != nil {
		return nil, nil, err
	}
	s := &Session{
		trie: patricia.NewTrie(),
		live: make([]string, 0, len(candidates)),
	}
	directives := make([]Directive, 0, len(candidates))
	for i, candidate := range candidates {
		label := labels[i]
		s.trie.Insert(patricia.Prefix(label), candidate)
		s.live = append(s.live, label)
		directives = append(directives, CreateMarker{Label: label, At: candidate.Rect})
	}
	return s, directives, nil
}

// Done reports whether the session has reached its terminal state. A done
// session ignores all further input.
func (s *Session) Done() bool {
	return s.done
}

// Input returns the label prefix typed so far.
func (s *Session) Input() string {
	return s.input
}

// Cancel ends the session without an activation, regardless of how much of
// a label has been typed.
func (s *Session) Cancel() []Directive {
	if s.done {
		return nil
	}
	return s.teardown(nil)
}

// Key consumes one keystroke. Letter case is ignored. The returned
// directives describe every visual change the keystroke caused; when they
// include Activate or RemoveAllMarkers without updates, the session is over.
func (s *Session) Key(r rune) []Directive {
	if s.done {
		return nil
	}
	s.input += string(unicode.ToLower(r))

	matched := make(map[string]bool)
	_ = s.trie.VisitSubtree(patricia.Prefix(s.input), func(p patricia.Prefix, item patricia.Item) error {
		matched[string(p)] = true
		return nil
	})

	survivors := make([]string, 0, len(matched))
	eliminated := make([]string, 0, len(s.live)-len(matched))
	for _, label := range s.live {
		if matched[label] {
			survivors = append(survivors, label)
		} else {
			eliminated = append(eliminated, label)
		}
	}

	if len(survivors) == 0 {
		return s.teardown(nil)
	}

	if item := s.trie.Get(patricia.Prefix(s.input)); item != nil {
		// Prefix-free labels guarantee an exact match is unique: no longer
		// label can share the typed prefix.
		candidate := item.(Candidate)
		return s.teardown(&candidate)
	}

	// Labels are counted in runes so multibyte alphabets restyle exactly
	// the typed prefix.
	typed := len([]rune(s.input))
	directives := make([]Directive, 0, len(s.live))
	for _, label := range survivors {
		directives = append(directives, UpdateMarker{Label: label, MatchedLen: typed})
	}
	for _, label := range eliminated {
		s.trie.Delete(patricia.Prefix(label))
		directives = append(directives, RemoveMarker{Label: label})
	}
	s.live = survivors
	return directives
}

// teardown discards all session state and emits the terminal directives.
// Marker removal always precedes activation so a failing dispatch can never
// leave stale markers behind.
func (s *Session) teardown(match *Candidate) []Directive {
	s.done = true
	s.input = ""
	s.live = nil
	s.trie = patricia.NewTrie()
	directives := []Directive{RemoveAllMarkers{}}
	if match != nil {
		directives = append(directives, Activate{Candidate: *match})
	}
	return directives
}
