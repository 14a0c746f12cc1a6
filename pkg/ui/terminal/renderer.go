// Package terminal renders results with colour and styling for an
// interactive terminal.
package terminal

import (
	"io"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/ui/output"
)

// Renderer is the template renderer with styling enabled. The colour
// profile is taken from the writer, so a non-terminal writer degrades to
// plain text.
type Renderer struct {
	*output.Renderer
}

func New(w io.Writer) (*Renderer, error) {
	r, err := output.NewRenderer(w, false)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create terminal renderer")
	}
	return &Renderer{Renderer: r}, nil
}
