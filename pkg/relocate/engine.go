package relocate

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/arthur-debert/buildexcluder/pkg/paths"
	"github.com/arthur-debert/buildexcluder/pkg/types"
	"github.com/rs/zerolog"
)

// Direction names a relocation.
type Direction string

const (
	// Out moves an entry from the tree into holding.
	Out Direction = "exclude"
	// In moves an entry from holding back into the tree.
	In Direction = "restore"
)

// Engine relocates entries for one project layout.
type Engine struct {
	fs     types.FS
	layout *paths.Layout
	logger zerolog.Logger
}

// NewEngine creates an engine over fs.
func NewEngine(fs types.FS, layout *paths.Layout) *Engine {
	return &Engine{
		fs:     fs,
		layout: layout,
		logger: logging.GetLogger("relocate"),
	}
}

// Layout returns the engine's layout.
func (e *Engine) Layout() *paths.Layout {
	return e.layout
}

// Exclude moves logicalPath (and its sidecar) into the holding directory.
func (e *Engine) Exclude(logicalPath string) error {
	return e.move(logicalPath, Out)
}

// Restore moves logicalPath (and its sidecar) from holding back into the
// tree, recreating missing parent directories.
func (e *Engine) Restore(logicalPath string) error {
	err := e.move(logicalPath, In)
	if err == nil {
		if holdingPath, herr := e.layout.HoldingPath(logicalPath); herr == nil {
			e.pruneHolding(filepath.Dir(holdingPath))
		}
	}
	return err
}

func (e *Engine) endpoints(logicalPath string, dir Direction) (string, string, error) {
	treePath, err := e.layout.TreePath(logicalPath)
	if err != nil {
		return "", "", err
	}
	holdingPath, err := e.layout.HoldingPath(logicalPath)
	if err != nil {
		return "", "", err
	}
	if dir == Out {
		return treePath, holdingPath, nil
	}
	return holdingPath, treePath, nil
}

func (e *Engine) move(logicalPath string, dir Direction) error {
	logger := e.logger.With().Str("path", logicalPath).Str("direction", string(dir)).Logger()

	src, dst, err := e.endpoints(logicalPath, dir)
	if err != nil {
		logger.Error().Err(err).Msg("Rejected asset path")
		return err
	}

	srcExists, err := types.Exists(e.fs, src)
	if err != nil {
		return e.failed(logger, err, logicalPath, dir, "failed to inspect source %s", src)
	}
	if !srcExists {
		logger.Warn().Str("source", src).Msg("Nothing to move, source is missing")
		return errors.Newf(errors.ErrSourceMissing, "%s: source not found at %s", logicalPath, src).
			WithDetail("path", logicalPath).
			WithDetail("direction", string(dir))
	}

	dstExists, err := types.Exists(e.fs, dst)
	if err != nil {
		return e.failed(logger, err, logicalPath, dir, "failed to inspect destination %s", dst)
	}
	if dstExists {
		logger.Warn().Str("destination", dst).Msg("Destination already exists, leaving source in place")
		return errors.Newf(errors.ErrConflict, "%s: destination already exists at %s", logicalPath, dst).
			WithDetail("path", logicalPath).
			WithDetail("direction", string(dir))
	}

	var srcSidecar, dstSidecar string
	hasSidecar := false
	if e.layout.SidecarSuffix != "" {
		srcSidecar, dstSidecar = e.layout.SidecarPath(src), e.layout.SidecarPath(dst)
		hasSidecar, err = types.Exists(e.fs, srcSidecar)
		if err != nil {
			return e.failed(logger, err, logicalPath, dir, "failed to inspect sidecar %s", srcSidecar)
		}
		if hasSidecar {
			taken, err := types.Exists(e.fs, dstSidecar)
			if err != nil {
				return e.failed(logger, err, logicalPath, dir, "failed to inspect sidecar destination %s", dstSidecar)
			}
			if taken {
				logger.Warn().Str("destination", dstSidecar).Msg("Sidecar destination already exists, leaving source in place")
				return errors.Newf(errors.ErrConflict, "%s: sidecar destination already exists at %s", logicalPath, dstSidecar).
					WithDetail("path", logicalPath).
					WithDetail("direction", string(dir))
			}
		}
	}

	if err := e.fs.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return e.failed(logger, err, logicalPath, dir, "failed to create %s", filepath.Dir(dst))
	}

	if err := e.fs.Rename(src, dst); err != nil {
		if dir == Out {
			e.pruneHolding(filepath.Dir(dst))
		}
		return e.failed(logger, err, logicalPath, dir, "failed to move %s to %s", src, dst)
	}

	if hasSidecar {
		if err := e.fs.Rename(srcSidecar, dstSidecar); err != nil {
			// The entry already moved; orphan recovery reunites the pair.
			return e.failed(logger, err, logicalPath, dir, "moved entry but failed to move sidecar %s", srcSidecar).
				WithDetail("entry_moved", true)
		}
	}

	logger.Info().
		Str("source", src).
		Str("destination", dst).
		Bool("sidecar", hasSidecar).
		Msg("Moved asset")
	return nil
}

func (e *Engine) failed(logger zerolog.Logger, err error, logicalPath string, dir Direction, format string, args ...interface{}) *errors.ExcluderError {
	exErr := errors.Wrapf(err, errors.ErrMoveFailed, format, args...).
		WithDetail("path", logicalPath).
		WithDetail("direction", string(dir))
	logger.Error().Err(err).Msg(exErr.Message)
	return exErr
}

// pruneHolding removes empty directories from dir up to and including the
// holding root.
func (e *Engine) pruneHolding(dir string) {
	root := e.layout.HoldingRoot()
	for {
		rel, err := filepath.Rel(root, dir)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return
		}
		entries, err := e.fs.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			return
		}
		if err := e.fs.Remove(dir); err != nil {
			e.logger.Debug().Err(err).Str("holding", dir).Msg("Could not remove empty holding directory")
			return
		}
		if dir == root {
			return
		}
		dir = filepath.Dir(dir)
	}
}
