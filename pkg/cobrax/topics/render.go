package topics

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// Renderer formats a topic body for display. ext is the extension of the
// topic file, including the dot.
type Renderer interface {
	Render(content, ext string) string
}

// PlainRenderer prints topics verbatim.
type PlainRenderer struct{}

func (*PlainRenderer) Render(content, _ string) string { return content }

// GlamourRenderer renders markdown topics for the terminal and passes every
// other file through.
type GlamourRenderer struct {
	// Style is a glamour standard style ("dark", "light", "notty", "ascii")
	// or "auto" to follow the terminal background.
	Style string
	// Width wraps output at this column; 0 keeps glamour's default.
	Width int
}

func NewGlamourRenderer() *GlamourRenderer {
	return &GlamourRenderer{Style: "auto"}
}

// Render falls back to the raw markdown if glamour rejects the options or
// the document.
func (r *GlamourRenderer) Render(content, ext string) string {
	if !isMarkdown(ext) {
		return content
	}
	tr, err := glamour.NewTermRenderer(r.options()...)
	if err != nil {
		return content
	}
	out, err := tr.Render(content)
	if err != nil {
		return content
	}
	return out
}

func (r *GlamourRenderer) options() []glamour.TermRendererOption {
	var opts []glamour.TermRendererOption
	switch r.Style {
	case "", "auto":
		opts = append(opts, glamour.WithAutoStyle())
	default:
		opts = append(opts, glamour.WithStandardStyle(r.Style))
	}
	if r.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(r.Width))
	}
	return opts
}

func isMarkdown(ext string) bool {
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		return true
	}
	return false
}
