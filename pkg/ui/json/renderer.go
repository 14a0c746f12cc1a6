// Package json writes results as indented JSON for scripts and editor
// integrations.
package json

import (
	"encoding/json"
	"io"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
)

// Renderer encodes each result as one JSON document.
type Renderer struct {
	enc *json.Encoder
}

type errorDoc struct {
	Error   string                 `json:"error"`
	Code    errors.ErrorCode       `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type messageDoc struct {
	Message string `json:"message"`
}

func New(w io.Writer) (*Renderer, error) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return &Renderer{enc: enc}, nil
}

// RenderResult encodes result using its json tags.
func (r *Renderer) RenderResult(result interface{}) error {
	return r.enc.Encode(result)
}

// RenderError encodes err's message, code and details. Errors without a
// code report UNKNOWN.
func (r *Renderer) RenderError(err error) error {
	return r.enc.Encode(errorDoc{
		Error:   errors.Message(err),
		Code:    errors.GetErrorCode(err),
		Details: errors.GetErrorDetails(err),
	})
}

func (r *Renderer) RenderMessage(msg string) error {
	return r.enc.Encode(messageDoc{Message: msg})
}
