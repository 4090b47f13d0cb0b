package tui

import (
	"github.com/charmbracelet/glamour"
)

// HelpMarkdown documents the interactive key bindings.
const HelpMarkdown = `# Turing

A single-tape machine with **16** working states (a-p), three halting
states (H halt, A accept, R reject) and the alphabet ` + "`. X $ & 0 1`" + `.

## Running

| Key | Action |
|-----|--------|
| SPACE | run / pause |
| . | single tick (step, then move) |
| i | reset with the default table |
| r | reset with a random table |
| q | quit |

## Editing

| Key | Action |
|-----|--------|
| arrows, h j k l | move the rule cursor |
| tab | select the next rule field |
| n | cycle the next state of the selected rule |
| w | cycle the written symbol |
| d | toggle the direction |
| < > | move the head without stepping |
| c | cycle the tape cell under the head |
| ? | toggle this help |

Editing is allowed while paused or halted. Only a reset leaves a halting state.
`

// NewRenderer returns a function that renders markdown using glamour.
// A non-zero width wraps the output; style picks a glamour style name
// ("auto" detects light/dark backgrounds, "notty" renders plain text).
func NewRenderer(width int, style string) (func(string) (string, error), error) {
	opts := []glamour.TermRendererOption{}
	switch style {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	if width > 0 {
		opts = append(opts, glamour.WithWordWrap(width))
	}

	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}, nil
}

// RenderHelp renders HelpMarkdown for a terminal of the given width.
func RenderHelp(width int, style string) (string, error) {
	render, err := NewRenderer(width, style)
	if err != nil {
		return "", err
	}
	return render(HelpMarkdown)
}
