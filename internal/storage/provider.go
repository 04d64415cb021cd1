// Package storage gives read access to the markdown source tree.
package storage

import "time"

// SourceFile describes one markdown file under the source root.
type SourceFile struct {
	Path       string    // relative to the root, slash-separated
	AbsPath    string    // absolute path on disk
	Size       int64     // bytes
	ModifiedAt time.Time // last modification time
}

// Provider is the interface for source tree access. Relative paths are
// resolved against the root and may not escape it.
type Provider interface {
	// Root returns the absolute source root.
	Root() string
	// List returns every file under the root that the include and exclude
	// patterns select, ordered by relative path.
	List() ([]SourceFile, error)
	// Stat describes a single file by relative path.
	Stat(path string) (SourceFile, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Rel converts an absolute path under the root to a relative one.
	Rel(abs string) (string, error)
	// Match reports whether a relative path is selected by the patterns.
	Match(path string) bool
}
