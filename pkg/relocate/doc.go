// Package relocate moves asset entries between the asset tree and the
// holding directory.
//
// Every move is a single rename of the entry followed by a rename of its
// sidecar, if one exists. Nothing is ever copied or overwritten: an occupied
// destination is reported as a conflict and the source is left in place.
package relocate
