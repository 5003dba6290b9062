// Package doc loads documents and exposes their links as hintable targets.
package doc

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// LinkKind classifies how a resolved link is activated.
type LinkKind int

const (
	// LinkInternal targets another document or heading in the local graph.
	LinkInternal LinkKind = iota
	// LinkExternal targets an http(s) URL opened outside the viewer.
	LinkExternal
	// LinkPlain is anything else; activation is a generic invoke.
	LinkPlain
)

// Link is a clickable target extracted from a document. Line and Col are
// filled in by Render and refer to the rendered coordinate space.
type Link struct {
	Text   string
	Target string
	Kind   LinkKind
	Line   int
	Col    int
}

// Document is a loaded document plus its rendered form.
type Document struct {
	Path  string
	Title string
	Raw   string

	// Populated by Render.
	Lines    []string
	Links    []Link
	headings map[string]int
}

var extraneousWhitespace = regexp.MustCompile(`\s+`)

// Load reads a document from a local path or an http(s) URL. PDF content is
// reduced to its plain text; everything else is treated as Markdown.
func Load(ctx context.Context, source string) (*Document, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		cache, err := newDocCache(nil)
		if err != nil {
			return nil, err
		}
		path, err := cache.Fetch(ctx, source)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", source, err)
		}
		return loadLocal(path, source)
	}
	absPath, err := filepath.Abs(source)
	if err != nil {
		return nil, err
	}
	return loadLocal(absPath, absPath)
}

func loadLocal(path, displayPath string) (*Document, error) {
	var raw string
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		text, err := readPDFText(path)
		if err != nil {
			return nil, err
		}
		raw = text
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		raw = string(data)
	}
	return &Document{
		Path:  displayPath,
		Title: deriveTitle(raw, displayPath),
		Raw:   raw,
	}, nil
}

func readPDFText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, content); err != nil {
		return "", err
	}
	return extraneousWhitespace.ReplaceAllString(strings.TrimSpace(builder.String()), " "), nil
}

var headingPattern = regexp.MustCompile(`^#{1,6}\s+(.+)$`)

func deriveTitle(raw, path string) string {
	for _, line := range strings.Split(raw, "\n") {
		if matches := headingPattern.FindStringSubmatch(strings.TrimSpace(line)); len(matches) > 1 {
			return strings.TrimSpace(matches[1])
		}
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LinksWhere returns the links satisfying the host's predicate, in document
// order. The viewer uses this to narrow hinting to the visible window.
func (d *Document) LinksWhere(pred func(Link) bool) []Link {
	var result []Link
	for _, link := range d.Links {
		if pred(link) {
			result = append(result, link)
		}
	}
	return result
}

// HeadingLines returns the rendered line of every heading in order. The
// viewer uses this for relative section jumps.
func (d *Document) HeadingLines() []int {
	lines := make([]int, 0, len(d.headings))
	for _, line := range d.headings {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// HeadingLine resolves a fragment such as "getting-started" to the rendered
// line of the matching heading, comparing decoded, case-folded text.
func (d *Document) HeadingLine(fragment string) (int, bool) {
	key := normalizeAnchor(fragment)
	line, ok := d.headings[key]
	return line, ok
}

func normalizeAnchor(fragment string) string {
	fragment = strings.TrimPrefix(fragment, "#")
	fragment = strings.ReplaceAll(fragment, "%20", " ")
	fragment = strings.ReplaceAll(fragment, "-", " ")
	fragment = extraneousWhitespace.ReplaceAllString(fragment, " ")
	return strings.ToLower(strings.TrimSpace(fragment))
}
