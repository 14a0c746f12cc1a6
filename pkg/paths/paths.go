package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/buildexcluder/pkg/errors"
)

// Environment variable names
const (
	// EnvProjectRoot pins the project root and disables discovery
	EnvProjectRoot = "BUILDEXCLUDER_PROJECT"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default names. Tree, holding and sidecar names are overridable through
// pkg/config; the rest are fixed.
const (
	DefaultTreeDir       = "Assets"
	DefaultHoldingDir    = "ExcludedAssets"
	DefaultSidecarSuffix = ".meta"

	// ProjectConfigFile marks a project root during discovery
	ProjectConfigFile = ".buildexcluder.toml"

	// AppDirName is the directory name for buildexcluder state
	AppDirName = "buildexcluder"

	// SessionsDir is the state subdirectory holding session files
	SessionsDir = "sessions"

	// SessionFileExt is the extension of session files
	SessionFileExt = ".session"

	// LogFileName is the name of the log file
	LogFileName = "buildexcluder.log"
)

// FindProjectRoot determines the project root using the following priority:
// 1. BUILDEXCLUDER_PROJECT environment variable (if set)
// 2. The nearest ancestor of start holding .buildexcluder.toml or an Assets dir
// 3. start itself (fallback)
//
// The bool result reports whether the fallback was used.
func FindProjectRoot(start string) (string, bool, error) {
	if root := os.Getenv(EnvProjectRoot); root != "" {
		abs, err := filepath.Abs(ExpandHome(root))
		if err != nil {
			return "", false, errors.Wrapf(err, errors.ErrInvalidInput, "invalid %s", EnvProjectRoot)
		}
		return abs, false, nil
	}

	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", false, errors.Wrap(err, errors.ErrInternal, "failed to get current directory")
		}
		start = cwd
	}
	start, err := filepath.Abs(ExpandHome(start))
	if err != nil {
		return "", false, errors.Wrapf(err, errors.ErrInvalidInput, "invalid start directory %s", start)
	}

	for dir := start; ; {
		if isProjectRoot(dir) {
			return dir, false, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return start, true, nil
}

func isProjectRoot(dir string) bool {
	if _, err := os.Stat(filepath.Join(dir, ProjectConfigFile)); err == nil {
		return true
	}
	info, err := os.Stat(filepath.Join(dir, DefaultTreeDir))
	return err == nil && info.IsDir()
}

// StateDir returns the buildexcluder state directory. XDG_STATE_HOME is read
// on every call so tests can redirect it.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppDirName)
	}
	return filepath.Join(xdg.StateHome, AppDirName)
}

// SessionDir returns the directory for session files, honouring an override.
func SessionDir(override string) string {
	if override != "" {
		return ExpandHome(override)
	}
	return filepath.Join(StateDir(), SessionsDir)
}

// LogFilePath returns the path of the log file.
func LogFilePath() string {
	return filepath.Join(StateDir(), LogFileName)
}

// ExpandHome expands a leading ~ to the home directory
func ExpandHome(path string) string {
	if path == "" || path[0] != '~' {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to HOME env var
		homeDir = os.Getenv(EnvHome)
		if homeDir == "" {
			return path
		}
	}

	if len(path) == 1 {
		return homeDir
	}

	// Handle both ~/ and ~\
	if path[1] == '/' || path[1] == filepath.Separator {
		return filepath.Join(homeDir, path[2:])
	}

	// ~something (not the user's home)
	return path
}

// ValidateDirName checks a configured tree or holding directory name. Names
// are single path elements relative to the project root.
func ValidateDirName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrInvalidInput, "directory name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return errors.Newf(errors.ErrInvalidInput, "directory name cannot contain path separators: %q", name)
	}
	if name == "." || name == ".." {
		return errors.Newf(errors.ErrInvalidInput, "directory name cannot be %q", name)
	}
	if strings.ContainsAny(name, "\x00\n\r") {
		return errors.Newf(errors.ErrInvalidInput, "directory name contains control characters: %q", name)
	}
	return nil
}
