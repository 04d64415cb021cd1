package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/starford/specpress/internal/apperr"
)

// DefaultInclude selects every markdown file.
var DefaultInclude = []string{"**/*.md"}

// FS implements Provider backed by the local file system.
type FS struct {
	root    string // absolute path to the source directory
	include []string
	exclude []string
}

// Option configures an FS.
type Option func(*FS)

// WithInclude replaces the include patterns. Patterns use doublestar
// syntax and match slash-separated relative paths.
func WithInclude(patterns ...string) Option {
	return func(f *FS) {
		if len(patterns) > 0 {
			f.include = patterns
		}
	}
}

// WithExclude sets patterns for files to skip even when included.
func WithExclude(patterns ...string) Option {
	return func(f *FS) {
		f.exclude = patterns
	}
}

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string, opts ...Option) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: %s: %w", abs, apperr.ErrDirectoryNotFound)
		}
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s: %w", abs, apperr.ErrDirectoryNotFound)
	}

	f := &FS{root: abs, include: DefaultInclude}
	for _, o := range opts {
		o(f)
	}
	for _, p := range append(append([]string{}, f.include...), f.exclude...) {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("storage: invalid pattern %q", p)
		}
	}
	return f, nil
}

// Root returns the absolute source root.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the source root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	// Ensure the resolved path is still under root.
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes source root: %s", rel)
	}
	return abs, nil
}

// Rel converts an absolute path under the root to a slash-separated
// relative path.
func (f *FS) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(f.root, abs)
	if err != nil {
		return "", fmt.Errorf("storage: rel: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("storage: path outside source root: %s", abs)
	}
	return filepath.ToSlash(rel), nil
}

// Match reports whether rel is selected by the include patterns and not
// rejected by an exclude pattern.
func (f *FS) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	if !matchAny(f.include, rel) {
		return false
	}
	return !matchAny(f.exclude, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// List walks the root and returns metadata for every selected file.
// Hidden directories are skipped.
func (f *FS) List() ([]SourceFile, error) {
	var out []SourceFile
	err := filepath.WalkDir(f.root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if p != f.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := f.Rel(p)
		if err != nil || !f.Match(rel) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, SourceFile{
			Path:       rel,
			AbsPath:    p,
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	return out, nil
}

// Stat describes the file at rel.
func (f *FS) Stat(rel string) (SourceFile, error) {
	abs, err := f.safePath(rel)
	if err != nil {
		return SourceFile{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SourceFile{}, fmt.Errorf("storage: %s: %w", rel, apperr.ErrFileNotFound)
		}
		return SourceFile{}, fmt.Errorf("storage: stat %s: %w", rel, err)
	}
	if info.IsDir() {
		return SourceFile{}, fmt.Errorf("storage: %s is a directory: %w", rel, apperr.ErrFileNotFound)
	}
	return SourceFile{
		Path:       filepath.ToSlash(filepath.Clean(filepath.FromSlash(rel))),
		AbsPath:    abs,
		Size:       info.Size(),
		ModifiedAt: info.ModTime(),
	}, nil
}

// Read returns the raw bytes of a source file.
func (f *FS) Read(rel string) ([]byte, error) {
	abs, err := f.safePath(rel)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: %s: %w", rel, apperr.ErrFileNotFound)
		}
		return nil, fmt.Errorf("storage: read %s: %w", rel, err)
	}
	return data, nil
}
