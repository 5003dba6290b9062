package doc

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	markdownLink = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	bareURL      = regexp.MustCompile(`https?://[^\s)\]>"']+`)
)

// extractLinks rewrites one source line to its display form and returns the
// links it contained, in left-to-right order. Markdown links collapse to
// their text; bare URLs stay verbatim.
func extractLinks(line string) (string, []Link) {
	var links []Link
	display := markdownLink.ReplaceAllStringFunc(line, func(match string) string {
		parts := markdownLink.FindStringSubmatch(match)
		text := parts[1]
		target := parts[2]
		links = append(links, Link{
			Text:   text,
			Target: target,
			Kind:   classify(target),
		})
		return text
	})

	for _, raw := range bareURL.FindAllString(display, -1) {
		if containsLinkText(links, raw) {
			continue
		}
		links = append(links, Link{
			Text:   raw,
			Target: raw,
			Kind:   classify(raw),
		})
	}
	return display, links
}

func containsLinkText(links []Link, text string) bool {
	for _, link := range links {
		if strings.Contains(link.Target, text) || strings.Contains(text, link.Target) {
			return true
		}
	}
	return false
}

func classify(target string) LinkKind {
	switch {
	case strings.HasPrefix(target, "http://"), strings.HasPrefix(target, "https://"):
		return LinkExternal
	case strings.HasPrefix(target, "#"):
		return LinkInternal
	case strings.Contains(target, "://"), strings.HasPrefix(target, "mailto:"):
		return LinkPlain
	default:
		return LinkInternal
	}
}

// ResolveInternal splits an internal target into the document path to load
// and the heading fragment to jump to. An empty path means the link stays
// within the current document.
func ResolveInternal(current *Document, target string) (path, fragment string) {
	if idx := strings.Index(target, "#"); idx >= 0 {
		fragment = target[idx+1:]
		target = target[:idx]
	}
	if target == "" {
		return "", fragment
	}
	if filepath.IsAbs(target) {
		return target, fragment
	}
	base := filepath.Dir(current.Path)
	return filepath.Join(base, target), fragment
}
