package doc

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

// Render lays the document out at the given width, filling Lines, Links,
// and the heading index. Link geometry is captured against this layout, so
// a hinting session started afterwards sees consistent coordinates until
// the next Render.
func (d *Document) Render(width int) {
	if width < 20 {
		width = 20
	}
	d.Lines = nil
	d.Links = nil
	d.headings = map[string]int{}

	for _, sourceLine := range strings.Split(d.Raw, "\n") {
		display, links := extractLinks(sourceLine)

		if matches := headingPattern.FindStringSubmatch(strings.TrimSpace(display)); len(matches) > 1 {
			d.headings[normalizeAnchor(matches[1])] = len(d.Lines)
		}

		wrapped := strings.Split(wordwrap.String(display, width), "\n")
		d.placeLinks(wrapped, links)
		d.Lines = append(d.Lines, wrapped...)
	}
}

// placeLinks pins each link to a (line, col) inside the wrapped block.
// Links that wordwrap split across lines anchor at their first word.
func (d *Document) placeLinks(wrapped []string, links []Link) {
	searchLine, searchCol := 0, 0
	for _, link := range links {
		line, col, ok := findFrom(wrapped, searchLine, searchCol, link.Text)
		if !ok {
			if first := firstWord(link.Text); first != "" {
				line, col, ok = findFrom(wrapped, searchLine, searchCol, first)
			}
		}
		if !ok {
			line, col = searchLine, 0
		}
		link.Line = len(d.Lines) + line
		link.Col = col
		d.Links = append(d.Links, link)
		searchLine, searchCol = line, col+len([]rune(link.Text))
	}
}

func findFrom(lines []string, fromLine, fromCol int, needle string) (int, int, bool) {
	for i := fromLine; i < len(lines); i++ {
		runes := []rune(lines[i])
		start := 0
		if i == fromLine {
			start = fromCol
			if start > len(runes) {
				start = len(runes)
			}
		}
		idx := strings.Index(string(runes[start:]), needle)
		if idx < 0 {
			continue
		}
		col := start + len([]rune(string(runes[start:])[:idx]))
		return i, col, true
	}
	return 0, 0, false
}

func firstWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
