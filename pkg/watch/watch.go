// Package watch reports changes to a single file, such as the rules file
// while a preview is on screen.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce batches the burst of events a single save produces.
const DefaultDebounce = 200 * time.Millisecond

// File watches one file. The parent directory is watched rather than the
// file itself because editors commonly save by writing a new file and
// renaming it over the old one.
type File struct {
	path     string
	debounce time.Duration
}

// NewFile returns a watcher for path.
func NewFile(path string, debounce time.Duration) *File {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &File{path: filepath.Clean(path), debounce: debounce}
}

// Run calls onChange after each debounced change until ctx is done. It
// returns nil when ctx is cancelled.
func (f *File) Run(ctx context.Context, onChange func()) error {
	logger := logging.GetLogger("watch")

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create file watcher")
	}
	defer func() {
		if err := w.Close(); err != nil {
			logger.Debug().Err(err).Msg("Error closing watcher")
		}
	}()

	dir := filepath.Dir(f.path)
	if err := w.Add(dir); err != nil {
		return errors.Wrapf(err, errors.ErrNotFound, "failed to watch %s", dir)
	}
	logger.Debug().Str("path", f.path).Msg("Watching file")

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != f.path || event.Op == fsnotify.Chmod {
				continue
			}
			logger.Trace().Str("op", event.Op.String()).Msg("File event")
			if timer == nil {
				timer = time.NewTimer(f.debounce)
			} else {
				timer.Reset(f.debounce)
			}
			fire = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")

		case <-fire:
			fire = nil
			onChange()
		}
	}
}
