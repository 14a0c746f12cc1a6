package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// CreateFile writes content to dir/name, creating parent directories. name
// uses forward slashes.
func CreateFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	must(t, os.MkdirAll(filepath.Dir(path), 0755), "create parents of", path)
	must(t, os.WriteFile(path, []byte(content), 0644), "write", path)
	return path
}

// CreateDir creates parent/name and any missing parents.
func CreateDir(t *testing.T, parent, name string) string {
	t.Helper()
	path := filepath.Join(parent, filepath.FromSlash(name))
	must(t, os.MkdirAll(path, 0755), "create", path)
	return path
}

// FileExists reports whether path is a regular file or a link to one.
func FileExists(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// DirExists reports whether path is a directory.
func DirExists(t *testing.T, path string) bool {
	t.Helper()
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// PathExists reports whether anything, including a dangling symlink, sits at
// path.
func PathExists(t *testing.T, path string) bool {
	t.Helper()
	_, err := os.Lstat(path)
	return err == nil
}

// ReadFile returns the contents of path.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	must(t, err, "read", path)
	return string(data)
}

func must(t *testing.T, err error, op, path string) {
	t.Helper()
	if err != nil {
		t.Fatalf("testutil: %s %s: %v", op, path, err)
	}
}
