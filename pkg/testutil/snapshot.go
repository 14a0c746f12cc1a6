package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// DirMarker is the snapshot value recorded for directories.
const DirMarker = "<dir>"

// Tree maps slash-separated relative paths to file contents, or DirMarker for
// directories.
type Tree map[string]string

// Snapshot records every entry below root. A missing root yields an empty
// tree.
func Snapshot(t *testing.T, root string) Tree {
	t.Helper()

	tree := Tree{}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return tree
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			tree[rel] = DirMarker
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		tree[rel] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("Failed to snapshot %s: %v", root, err)
	}
	return tree
}

// AssertTree fails the test with a diff when the tree under root differs
// from want.
func AssertTree(t *testing.T, want Tree, root string) {
	t.Helper()
	if diff := cmp.Diff(want, Snapshot(t, root)); diff != "" {
		t.Errorf("tree %s mismatch (-want +got):\n%s", root, diff)
	}
}
