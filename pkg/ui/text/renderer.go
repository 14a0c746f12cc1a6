// Package text renders results as plain text for pipes, logs and NO_COLOR.
package text

import (
	"fmt"
	"io"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/ui/output"
)

// Renderer shares the terminal templates with every style tag stripped.
// Messages and errors are written verbatim.
type Renderer struct {
	*output.Renderer
	out io.Writer
}

func New(w io.Writer) (*Renderer, error) {
	r, err := output.NewRenderer(w, true)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create text renderer")
	}
	return &Renderer{Renderer: r, out: w}, nil
}

func (r *Renderer) RenderError(err error) error {
	_, werr := fmt.Fprintf(r.out, "Error: %v\n", err)
	return werr
}

func (r *Renderer) RenderMessage(msg string) error {
	_, err := fmt.Fprintln(r.out, msg)
	return err
}
