package paths

import (
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/buildexcluder/pkg/errors"
)

// MaxKeyName bounds a single holding directory entry name. Longer keys are
// split across nested chunk directories whose names end in KeyChunkMarker.
// An escaped key never ends in '%', so chunk names cannot collide with keys.
const (
	MaxKeyName     = 200
	KeyChunkMarker = "%"
)

// Layout maps logical asset paths to their tree and holding locations.
type Layout struct {
	// ProjectRoot is the absolute project directory.
	ProjectRoot string
	// TreeDir is the asset tree directory name, relative to ProjectRoot.
	TreeDir string
	// HoldingDir is the holding directory name, relative to ProjectRoot.
	HoldingDir string
	// SidecarSuffix names the companion file of every entry.
	SidecarSuffix string
}

// NewLayout returns a layout with default directory names.
func NewLayout(projectRoot string) (*Layout, error) {
	abs, err := filepath.Abs(ExpandHome(projectRoot))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "failed to get absolute path for project root %s", projectRoot)
	}
	return &Layout{
		ProjectRoot:   abs,
		TreeDir:       DefaultTreeDir,
		HoldingDir:    DefaultHoldingDir,
		SidecarSuffix: DefaultSidecarSuffix,
	}, nil
}

// TreeRoot returns the absolute asset tree directory.
func (l *Layout) TreeRoot() string {
	return filepath.Join(l.ProjectRoot, l.TreeDir)
}

// HoldingRoot returns the absolute holding directory.
func (l *Layout) HoldingRoot() string {
	return filepath.Join(l.ProjectRoot, l.HoldingDir)
}

// Validate rejects logical paths that cannot be relocated safely.
func (l *Layout) Validate(logical string) error {
	_, err := l.subpath(logical)
	return err
}

func (l *Layout) subpath(logical string) (string, error) {
	if logical == "" {
		return "", errors.New(errors.ErrInvalidPath, "asset path cannot be empty")
	}
	if strings.ContainsAny(logical, "\x00\n\r") {
		return "", errors.Newf(errors.ErrInvalidPath, "asset path contains control characters: %q", logical)
	}
	if strings.Contains(logical, `\`) {
		return "", errors.Newf(errors.ErrInvalidPath, "asset path must use '/' separators: %s", logical)
	}
	if path.Clean(logical) != logical {
		return "", errors.Newf(errors.ErrInvalidPath, "asset path is not clean: %s", logical).
			WithDetail("clean", path.Clean(logical))
	}

	sub, ok := strings.CutPrefix(logical, l.TreeDir+"/")
	if !ok {
		if logical == l.TreeDir {
			return "", errors.Newf(errors.ErrInvalidPath, "asset path names the tree root itself: %s", logical)
		}
		return "", errors.Newf(errors.ErrInvalidPath, "asset path must start with %s/: %s", l.TreeDir, logical)
	}
	for _, seg := range strings.Split(sub, "/") {
		if seg == ".." {
			return "", errors.Newf(errors.ErrInvalidPath, "asset path escapes the tree: %s", logical)
		}
	}
	return sub, nil
}

// TreePath returns the absolute tree location of a logical path.
func (l *Layout) TreePath(logical string) (string, error) {
	sub, err := l.subpath(logical)
	if err != nil {
		return "", err
	}
	return filepath.Join(l.TreeRoot(), filepath.FromSlash(sub)), nil
}

// HoldingKey returns the holding directory entry name for a logical path.
func (l *Layout) HoldingKey(logical string) (string, error) {
	sub, err := l.subpath(logical)
	if err != nil {
		return "", err
	}
	return url.PathEscape(sub), nil
}

// HoldingPath returns the absolute holding location of a logical path. A
// sidecar always lands next to its entry, whatever the key length.
func (l *Layout) HoldingPath(logical string) (string, error) {
	key, err := l.HoldingKey(logical)
	if err != nil {
		return "", err
	}
	suffix := ""
	if l.IsSidecar(key) {
		suffix = l.SidecarSuffix
		key = strings.TrimSuffix(key, suffix)
	}
	names := SplitKey(key)
	names[len(names)-1] += suffix
	return filepath.Join(append([]string{l.HoldingRoot()}, names...)...), nil
}

// SplitKey cuts key into entry names no longer than MaxKeyName. Every name
// but the last carries KeyChunkMarker. Cuts never split a %XX escape.
func SplitKey(key string) []string {
	var names []string
	for len(key) > MaxKeyName {
		cut := MaxKeyName - len(KeyChunkMarker)
		if i := strings.LastIndexByte(key[:cut], '%'); i >= cut-2 {
			cut = i
		}
		names = append(names, key[:cut]+KeyChunkMarker)
		key = key[cut:]
	}
	return append(names, key)
}

// IsKeyChunk reports whether a holding entry name continues into a nested
// chunk directory.
func IsKeyChunk(name string) bool {
	return len(name) > len(KeyChunkMarker) && strings.HasSuffix(name, KeyChunkMarker)
}

// LogicalFromKey decodes a holding directory entry name.
func (l *Layout) LogicalFromKey(key string) (string, error) {
	sub, err := url.PathUnescape(key)
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "undecodable holding key %q", key)
	}
	logical := l.TreeDir + "/" + sub
	if err := l.Validate(logical); err != nil {
		return "", err
	}
	if url.PathEscape(sub) != key {
		return "", errors.Newf(errors.ErrInvalidPath, "holding key %q is not canonical", key)
	}
	return logical, nil
}

// SidecarPath returns the sidecar companion of an absolute entry path.
func (l *Layout) SidecarPath(entry string) string {
	return entry + l.SidecarSuffix
}

// IsSidecar reports whether name carries the sidecar suffix.
func (l *Layout) IsSidecar(name string) bool {
	return l.SidecarSuffix != "" && strings.HasSuffix(name, l.SidecarSuffix) && name != l.SidecarSuffix
}

// Normalize turns user input into a logical path. Input may already be
// logical, or be a filesystem path (relative to the working directory or
// absolute) pointing inside the tree.
func (l *Layout) Normalize(input string) (string, error) {
	if input == "" {
		return "", errors.New(errors.ErrInvalidPath, "asset path cannot be empty")
	}
	slashed := strings.TrimSuffix(filepath.ToSlash(input), "/")
	if l.Validate(slashed) == nil {
		return slashed, nil
	}

	abs := input
	if !filepath.IsAbs(abs) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", errors.Wrap(err, errors.ErrInternal, "failed to get current directory")
		}
		abs = filepath.Join(cwd, input)
	}
	rel, err := filepath.Rel(l.ProjectRoot, filepath.Clean(abs))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrInvalidPath, "asset path %s is outside the project", input)
	}
	logical := filepath.ToSlash(rel)
	if err := l.Validate(logical); err != nil {
		return "", err
	}
	return logical, nil
}
