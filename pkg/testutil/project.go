// pkg/testutil/project.go
// DEPENDENCIES: pkg/paths, pkg/filesystem
// PURPOSE: Isolated on-disk projects for relocation and coordinator tests

package testutil

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/buildexcluder/pkg/filesystem"
	"github.com/arthur-debert/buildexcluder/pkg/paths"
	"github.com/arthur-debert/buildexcluder/pkg/types"
)

// Project is a temporary project directory with its layout.
type Project struct {
	Root     string
	StateDir string
	Layout   *paths.Layout
	FS       types.FS

	t *testing.T
}

// NewProject creates a project with an empty asset tree and points
// XDG_STATE_HOME at a private directory.
func NewProject(t *testing.T) *Project {
	t.Helper()

	base := t.TempDir()
	root := filepath.Join(base, "project")
	state := filepath.Join(base, "state")

	CreateDir(t, root, paths.DefaultTreeDir)
	CreateDir(t, state, "")
	t.Setenv("XDG_STATE_HOME", state)

	layout, err := paths.NewLayout(root)
	if err != nil {
		t.Fatalf("Failed to create layout: %v", err)
	}

	return &Project{
		Root:     root,
		StateDir: state,
		Layout:   layout,
		FS:       filesystem.NewOS(),
		t:        t,
	}
}

// WithFiles writes files given as project-relative slash paths.
func (p *Project) WithFiles(files map[string]string) *Project {
	p.t.Helper()
	for name, content := range files {
		CreateFile(p.t, p.Root, name, content)
	}
	return p
}

// Path joins slash-separated elements onto the project root.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// Tree snapshots the asset tree.
func (p *Project) Tree() Tree {
	p.t.Helper()
	return Snapshot(p.t, p.Layout.TreeRoot())
}

// Holding snapshots the holding directory.
func (p *Project) Holding() Tree {
	p.t.Helper()
	return Snapshot(p.t, p.Layout.HoldingRoot())
}
