// Package paths resolves the on-disk locations used by buildexcluder.
//
// A project has an asset tree (Assets by default) and a holding directory
// (ExcludedAssets) next to it. Rules and the session tracker refer to assets
// by logical path: a slash-separated path rooted at the tree directory, such
// as Assets/StoreSpecific/GooglePlay. Layout turns logical paths into:
//
//   - tree paths: <project>/Assets/StoreSpecific/GooglePlay
//   - holding keys: StoreSpecific%2FGooglePlay (the escaped subpath)
//   - holding paths: <project>/ExcludedAssets/StoreSpecific%2FGooglePlay
//   - sidecar paths: any of the above plus the sidecar suffix (.meta)
//
// Holding keys keep the holding directory flat while still recording where an
// entry came from, so two assets sharing a base name never collide and an
// orphaned entry can always be traced back to its tree location.
//
// # Environment Variables
//
//   - BUILDEXCLUDER_PROJECT: project root, skipping discovery
//   - XDG_STATE_HOME: base for logs and session files
//     (default: ~/.local/state)
package paths
