package session

import (
	"bufio"
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
	"github.com/arthur-debert/buildexcluder/pkg/logging"
	"github.com/arthur-debert/buildexcluder/pkg/paths"
	"github.com/arthur-debert/buildexcluder/pkg/types"
	"github.com/google/uuid"
)

const runHeaderPrefix = "# run "

// File is a Tracker persisted to a single file. Every Record rewrites the
// file so a crash mid-build leaves an accurate list behind.
type File struct {
	fs    types.FS
	path  string
	runID string
}

// NewFile returns a tracker stored at path.
func NewFile(fs types.FS, path string) *File {
	return &File{fs: fs, path: path}
}

// NewProjectFile returns the tracker for projectRoot inside dir, or inside
// the XDG state sessions directory when dir is empty.
func NewProjectFile(fs types.FS, dir, projectRoot string) *File {
	return NewFile(fs, SessionPath(dir, projectRoot))
}

// SessionPath returns the session file location for a project. The name is
// derived from the project root so each project gets its own session.
func SessionPath(dir, projectRoot string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(projectRoot)))
	name := hex.EncodeToString(sum[:])[:16] + paths.SessionFileExt
	return filepath.Join(paths.SessionDir(dir), name)
}

// Path returns the session file location.
func (f *File) Path() string {
	return f.path
}

// Begin stamps a new run ID. It is written with the next Record and returned
// for log correlation.
func (f *File) Begin() string {
	f.runID = uuid.NewString()
	return f.runID
}

// RunID returns the current run ID, reading it from disk when this process
// did not start the run.
func (f *File) RunID() string {
	if f.runID != "" {
		return f.runID
	}
	runID, _, err := f.read()
	if err != nil {
		return ""
	}
	return runID
}

func (f *File) Record(path string) error {
	if strings.ContainsAny(path, "\n\r") {
		return errors.Newf(errors.ErrInvalidPath, "session paths cannot contain newlines: %q", path)
	}
	runID, existing, err := f.read()
	if err != nil {
		return err
	}
	if f.runID == "" {
		f.runID = runID
	}
	return f.write(append(existing, path))
}

func (f *File) Drain() ([]string, error) {
	_, recorded, err := f.read()
	if err != nil {
		return nil, err
	}
	if err := f.fs.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return recorded, errors.Wrapf(err, errors.ErrSessionStore, "failed to clear session %s", f.path)
	}
	logger := logging.GetLogger("session")
	logger.Debug().
		Str("session", f.path).
		Int("paths", len(recorded)).
		Msg("Drained session")
	f.runID = ""
	return recorded, nil
}

func (f *File) IsEmpty() (bool, error) {
	_, recorded, err := f.read()
	if err != nil {
		return false, err
	}
	return len(recorded) == 0, nil
}

func (f *File) Paths() ([]string, error) {
	_, recorded, err := f.read()
	return recorded, err
}

func (f *File) read() (string, []string, error) {
	data, err := f.fs.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, nil
		}
		return "", nil, errors.Wrapf(err, errors.ErrSessionStore, "failed to read session %s", f.path)
	}

	var runID string
	var recorded []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if id, ok := strings.CutPrefix(line, runHeaderPrefix); ok {
			runID = strings.TrimSpace(id)
			continue
		}
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		recorded = append(recorded, line)
	}
	if err := scanner.Err(); err != nil {
		return "", nil, errors.Wrapf(err, errors.ErrSessionStore, "failed to parse session %s", f.path)
	}
	return runID, recorded, nil
}

func (f *File) write(recorded []string) error {
	var buf bytes.Buffer
	if f.runID != "" {
		buf.WriteString(runHeaderPrefix + f.runID + "\n")
	}
	for _, p := range recorded {
		buf.WriteString(p)
		buf.WriteByte('\n')
	}

	if err := f.fs.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrSessionStore, "failed to create session directory for %s", f.path)
	}
	tmp := f.path + ".tmp"
	if err := f.fs.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return errors.Wrapf(err, errors.ErrSessionStore, "failed to write session %s", tmp)
	}
	if err := f.fs.Rename(tmp, f.path); err != nil {
		_ = f.fs.Remove(tmp)
		return errors.Wrapf(err, errors.ErrSessionStore, "failed to replace session %s", f.path)
	}
	return nil
}
