package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSnapshot(t *testing.T) {
	dir := t.TempDir()
	CreateFile(t, dir, "a/b.txt", "hello")
	CreateDir(t, dir, "empty")

	assert.Equal(t, Tree{
		"a":       DirMarker,
		"a/b.txt": "hello",
		"empty":   DirMarker,
	}, Snapshot(t, dir))

	assert.Empty(t, Snapshot(t, filepath.Join(dir, "missing")))
}

func TestNewProject(t *testing.T) {
	p := NewProject(t).WithFiles(map[string]string{
		"Assets/DebugTools/tool.cs": "class Tool {}",
	})

	assert.True(t, DirExists(t, p.Layout.TreeRoot()))
	assert.True(t, FileExists(t, p.Path("Assets/DebugTools/tool.cs")))
	assert.Equal(t, "class Tool {}", ReadFile(t, p.Path("Assets/DebugTools/tool.cs")))
	assert.False(t, PathExists(t, p.Layout.HoldingRoot()))
	AssertTree(t, Tree{
		"DebugTools":         DirMarker,
		"DebugTools/tool.cs": "class Tool {}",
	}, p.Layout.TreeRoot())
}
