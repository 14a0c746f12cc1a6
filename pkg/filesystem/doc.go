// Package filesystem implements types.FS on top of afero. Production code
// uses the OS backend; tests layer read-only or in-memory backends over it
// to provoke failures the real filesystem rarely produces.
package filesystem
