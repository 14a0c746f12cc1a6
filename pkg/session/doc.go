// Package session tracks which assets the current build cycle moved into
// holding, so the post-build hook knows what to put back.
//
// Memory keeps the list in process. File persists it per project under the
// XDG state directory, letting separate pre-build and post-build invocations
// share one session and letting a later run find the leftovers of a crash.
package session
