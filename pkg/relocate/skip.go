package relocate

import (
	"github.com/arthur-debert/buildexcluder/pkg/errors"
)

// Skip describes an asset that was left where it was.
type Skip struct {
	Path   string           `json:"path"`
	Code   errors.ErrorCode `json:"code"`
	Reason string           `json:"reason"`
}

// SkipFromError builds a Skip from a relocation error.
func SkipFromError(path string, err error) Skip {
	return Skip{
		Path:   path,
		Code:   errors.GetErrorCode(err),
		Reason: errors.Message(err),
	}
}

// IsWarning reports whether a skip is expected during normal operation, as
// opposed to a failure that needs attention.
func (s Skip) IsWarning() bool {
	return s.Code == errors.ErrSourceMissing || s.Code == errors.ErrConflict
}
