// Package apperr holds the sentinel errors shared across specpress packages.
// Callers match them with errors.Is; producers wrap them with context.
package apperr

import "errors"

var (
	ErrNotFound = errors.New("not found")

	// ErrFileNotFound means a source path does not resolve to a readable file.
	ErrFileNotFound = errors.New("file not found")
	// ErrRead means the path exists but its bytes could not be obtained.
	ErrRead = errors.New("read error")

	ErrDirectoryNotFound = errors.New("directory not found")
	ErrNoFiles           = errors.New("no markdown files found")
	ErrEmptyDocument     = errors.New("document has no content")
)
