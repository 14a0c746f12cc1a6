// Package testutil provides utilities for testing buildexcluder components.
//
// Key components:
//   - Project: a throwaway project on disk with an asset tree, a Layout and
//     an isolated XDG state directory
//   - Snapshot/AssertTree: whole-tree comparisons reported as go-cmp diffs
//   - CreateFile/CreateDir and friends: terse fixture helpers
//
// Relocation is rename based, so tests run against real temp directories
// rather than an in-memory filesystem.
package testutil
