// Package parser turns markdown source files into models.Document values.
//
// Parsing is lenient: frontmatter that cannot be understood is dropped line
// by line, and classification and title resolution always fall back to a
// default. Only a missing or unreadable file is an error.
package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/starford/specpress/internal/apperr"
	"github.com/starford/specpress/internal/models"
)

// DefaultMarker is the directory name that anchors relative paths when no
// root is configured.
const DefaultMarker = "openspec"

// Parser builds documents. It holds no per-call state and is safe for
// concurrent use.
type Parser struct {
	root   string
	marker string
}

// Option configures a Parser.
type Option func(*Parser)

// WithRoot anchors relative paths at dir. Files outside dir fall back to
// marker matching.
func WithRoot(dir string) Option {
	return func(p *Parser) {
		if dir == "" {
			p.root = ""
			return
		}
		if abs, err := filepath.Abs(dir); err == nil {
			dir = abs
		}
		p.root = dir
	}
}

// WithMarker sets the directory segment used when no root applies. An empty
// marker disables the fallback.
func WithMarker(segment string) Option {
	return func(p *Parser) {
		p.marker = segment
	}
}

// New returns a Parser with the given options applied.
func New(opts ...Option) *Parser {
	p := &Parser{marker: DefaultMarker}
	for _, o := range opts {
		o(p)
	}
	return p
}

// ParseFile reads path and parses it. Failures wrap apperr.ErrFileNotFound
// when the path is missing or is a directory, and apperr.ErrRead otherwise.
func (p *Parser) ParseFile(path string) (models.Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.Document{}, fmt.Errorf("parser: %s: %w", path, apperr.ErrFileNotFound)
		}
		return models.Document{}, fmt.Errorf("parser: stat %s: %w: %v", path, apperr.ErrRead, err)
	}
	if info.IsDir() {
		return models.Document{}, fmt.Errorf("parser: %s is a directory: %w", path, apperr.ErrFileNotFound)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Document{}, fmt.Errorf("parser: read %s: %w: %v", path, apperr.ErrRead, err)
	}

	return p.Parse(data, path, info.ModTime()), nil
}

// Parse builds a document from raw bytes already read from path.
func (p *Parser) Parse(raw []byte, path string, modTime time.Time) models.Document {
	text := string(raw)
	fm, body := Split(text)
	rel := p.RelativePath(path)

	return models.Document{
		DocumentID:   DocumentID(rel),
		FilePath:     path,
		RelativePath: rel,
		Type:         Classify(fm, path),
		Title:        ResolveTitle(fm, body, path),
		Frontmatter:  fm,
		Content:      body,
		RawContent:   text,
		ModifiedAt:   modTime,
	}
}

// RelativePath applies the parser's root and marker to path.
func (p *Parser) RelativePath(path string) string {
	return RelativePath(path, p.root, p.marker)
}
