// Package recovery finds entries stranded in the holding directory and puts
// them back into the asset tree.
//
// Entries end up stranded when a build cycle never reached its post-build
// step (a crash, a killed editor, a lost session file). Holding keys encode
// the original subpath, so the holding directory alone is enough to rebuild
// the tree; no session data is needed.
package recovery

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/arthur-debert/buildexcluder/pkg/paths"
	"github.com/arthur-debert/buildexcluder/pkg/relocate"
	"github.com/arthur-debert/buildexcluder/pkg/types"
	"github.com/rs/zerolog"
)

// Orphan is a direct child of the holding directory.
type Orphan struct {
	// Key is the holding key, reassembled from chunk directories when long.
	Key string `json:"key"`
	// Path is the decoded logical path; empty when Err is set.
	Path string `json:"path,omitempty"`
	// Sidecar reports whether the entry is a sidecar without its entry.
	Sidecar bool `json:"sidecar,omitempty"`
	// Err explains why Key could not be decoded.
	Err error `json:"-"`
}

// Result summarises a sweep.
type Result struct {
	Recovered []string        `json:"recovered"`
	Skipped   []relocate.Skip `json:"skipped"`
}

// Sweeper restores orphans through a relocation engine.
type Sweeper struct {
	fs     types.FS
	engine *relocate.Engine
	layout *paths.Layout
	logger zerolog.Logger
}

// NewSweeper creates a sweeper sharing engine's layout.
func NewSweeper(fs types.FS, engine *relocate.Engine) *Sweeper {
	return &Sweeper{
		fs:     fs,
		engine: engine,
		layout: engine.Layout(),
		logger: logging.GetLogger("recovery"),
	}
}

// Scan lists orphans without moving anything. Sidecars whose entry is also
// in holding are folded into that entry. Long keys are read back from their
// nested chunk directories. A missing holding directory yields no orphans.
func (s *Sweeper) Scan() ([]Orphan, error) {
	root := s.layout.HoldingRoot()
	entries, err := s.fs.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrMoveFailed, "failed to list holding directory %s", root)
	}
	return s.collect(root, "", entries)
}

func (s *Sweeper) collect(dir, prefix string, entries []fs.DirEntry) ([]Orphan, error) {
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		present[e.Name()] = true
	}

	var orphans []Orphan
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() && paths.IsKeyChunk(name) {
			sub := filepath.Join(dir, name)
			children, err := s.fs.ReadDir(sub)
			if err != nil {
				return nil, errors.Wrapf(err, errors.ErrMoveFailed, "failed to list holding directory %s", sub)
			}
			nested, err := s.collect(sub, prefix+strings.TrimSuffix(name, paths.KeyChunkMarker), children)
			if err != nil {
				return nil, err
			}
			orphans = append(orphans, nested...)
			continue
		}

		sidecar := false
		if s.layout.IsSidecar(name) {
			if present[strings.TrimSuffix(name, s.layout.SidecarSuffix)] {
				continue
			}
			sidecar = true
		}
		key := prefix + name
		logical, err := s.layout.LogicalFromKey(key)
		orphans = append(orphans, Orphan{Key: key, Path: logical, Sidecar: sidecar, Err: err})
	}
	return orphans, nil
}

// SweepAndRestore restores every orphan whose tree location is free. An
// occupied location keeps the orphan in holding; the live asset wins.
// Orphans whose logical path is in attempted are left alone.
func (s *Sweeper) SweepAndRestore(attempted ...string) Result {
	var result Result
	seen := make(map[string]bool, len(attempted))
	for _, p := range attempted {
		seen[p] = true
	}

	orphans, err := s.Scan()
	if err != nil {
		s.logger.Error().Err(err).Msg("Orphan scan failed")
		result.Skipped = append(result.Skipped, relocate.SkipFromError(s.layout.HoldingDir, err))
		return result
	}
	if len(orphans) == 0 {
		s.logger.Debug().Msg("No orphaned entries in holding")
		return result
	}

	for _, o := range orphans {
		if o.Err != nil {
			s.logger.Warn().Err(o.Err).Str("key", o.Key).Msg("Skipping undecodable holding entry")
			result.Skipped = append(result.Skipped, relocate.SkipFromError(o.Key, o.Err))
			continue
		}
		if seen[o.Path] {
			s.logger.Debug().Str("path", o.Path).Msg("Already attempted this cycle, leaving in holding")
			continue
		}

		if err := s.engine.Restore(o.Path); err != nil {
			if errors.IsErrorCode(err, errors.ErrConflict) {
				s.logger.Warn().Str("path", o.Path).Msg("Tree location is occupied, keeping orphan in holding")
			}
			result.Skipped = append(result.Skipped, relocate.SkipFromError(o.Path, err))
			continue
		}
		result.Recovered = append(result.Recovered, o.Path)
	}

	s.logger.Info().
		Int("recovered", len(result.Recovered)).
		Int("skipped", len(result.Skipped)).
		Msg("Orphan sweep finished")
	return result
}
