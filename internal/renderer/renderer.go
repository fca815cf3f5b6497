package renderer

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer turns the model's markdown analysis into styled terminal text.
type Renderer struct {
	tr *glamour.TermRenderer
}

// New creates a renderer with the given glamour style name. A failed init
// degrades to plain pass-through rather than erroring.
func New(theme string) *Renderer {
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(theme),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return &Renderer{}
	}
	return &Renderer{tr: tr}
}

// Markdown renders markdown for terminal display, falling back to the raw
// text on failure.
func (r *Renderer) Markdown(markdown string) string {
	if r.tr == nil {
		return markdown
	}
	rendered, err := r.tr.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimSpace(rendered)
}
