// Package excluder coordinates a build cycle.
//
// A cycle has two hooks. OnPreBuild evaluates the rules against the active
// conditions, moves every excluded asset into holding and records it in the
// session. OnPostBuild drains the session, moves everything back and sweeps
// the holding directory for anything the session missed. OnStartup runs the
// same restoration as OnPostBuild and is meant for editor launch, where it
// repairs the damage of a cycle that crashed before its post-build hook.
//
// Hooks never fail a build: problems with individual assets are logged and
// reported as skipped entries, and the remaining assets are still processed.
package excluder
