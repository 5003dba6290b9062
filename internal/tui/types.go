package tui

type stage int

const (
	stageHome stage = iota
	stageLoading
	stageDisplay
	stageSearch
	stagePalette
)

const heroTagline = "Hop through documents by typing two letters."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	maxRecentShown            = 9
)

const pathPlaceholder = "Path or URL of a markdown, text, or PDF document…"

// marker is a live hint label pinned to rendered document coordinates.
// MatchedLen counts the label characters the user has typed so far.
type marker struct {
	label      string
	line       int
	col        int
	matchedLen int
}
