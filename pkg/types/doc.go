// Package types defines the small set of interfaces shared across
// buildexcluder packages, most importantly the FS abstraction the relocation
// engine, session store and rule file loader operate on.
package types
