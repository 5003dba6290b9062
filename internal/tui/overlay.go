package tui

import (
	"sort"
	"strings"
)

// overlayMarkers splices hint labels into a copy of the rendered lines.
// Markers on the same line are applied right to left so earlier splices
// never shift the columns of later ones.
func overlayMarkers(lines []string, markers []marker, styles markerStyles) []string {
	if len(markers) == 0 {
		return lines
	}
	byLine := make(map[int][]marker)
	for _, mk := range markers {
		byLine[mk.line] = append(byLine[mk.line], mk)
	}

	out := make([]string, len(lines))
	copy(out, lines)
	for line, group := range byLine {
		if line < 0 || line >= len(out) {
			continue
		}
		sort.Slice(group, func(i, j int) bool { return group[i].col > group[j].col })
		for _, mk := range group {
			out[line] = spliceMarker(out[line], mk, styles)
		}
	}
	return out
}

func spliceMarker(line string, mk marker, styles markerStyles) string {
	runes := []rune(line)
	labelRunes := []rune(mk.label)
	if mk.col > len(runes) {
		runes = append(runes, []rune(strings.Repeat(" ", mk.col-len(runes)))...)
	}

	var b strings.Builder
	b.WriteString(string(runes[:mk.col]))
	b.WriteString(renderMarker(mk, styles))
	if rest := mk.col + len(labelRunes); rest < len(runes) {
		b.WriteString(string(runes[rest:]))
	}
	return b.String()
}

func renderMarker(mk marker, styles markerStyles) string {
	runes := []rune(mk.label)
	matched := mk.matchedLen
	if matched > len(runes) {
		matched = len(runes)
	}
	if matched <= 0 {
		return styles.pending.Render(mk.label)
	}
	return styles.matched.Render(string(runes[:matched])) + styles.pending.Render(string(runes[matched:]))
}
