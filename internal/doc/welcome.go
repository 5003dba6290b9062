package doc

const welcomeMarkdown = `# Welcome to DocHop

DocHop is a keyboard-driven document browser. Open a Markdown, text, or PDF
document and activate any link without reaching for the mouse.

## Getting Around

Scroll with the arrow keys, jump between sections with [ and ], and press /
to search the current document.

## Link Hopping

Press f and every visible link grows a short label. Type the label to
follow the link; Esc backs out. Internal links such as
[Getting Around](#getting-around) jump within the document graph, while
external ones like [the project page](https://github.com/csheth/dochop)
open in your browser.

## Configuration

Hint characters and marker colors live in ~/.config/dochop/config.toml.
Try a home-row alphabet if the defaults feel like a stretch.
`

// Welcome returns the built-in guide shown when no document is given on
// the command line. Its links double as a hinting playground.
func Welcome() *Document {
	return &Document{
		Path:  "builtin:welcome",
		Title: "Welcome to DocHop",
		Raw:   welcomeMarkdown,
	}
}
