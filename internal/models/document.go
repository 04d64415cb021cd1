// Package models defines the domain types for specpress.
package models

import (
	"strings"
	"time"
)

// DocumentType classifies a document for grouping and presentation.
// The constants below are the conventional values; a frontmatter "phase"
// may introduce any other sanitized token.
type DocumentType string

const (
	TypeRequirements DocumentType = "requirements"
	TypeDesign       DocumentType = "design"
	TypeTasks        DocumentType = "tasks"
	TypeProposal     DocumentType = "proposal"
	TypeSpec         DocumentType = "spec"
	TypeResearch     DocumentType = "research"
	TypeChange       DocumentType = "change"
	TypeArchived     DocumentType = "archived"
	TypeDocument     DocumentType = "document"
)

// KnownTypes lists the conventional document types in presentation order.
var KnownTypes = []DocumentType{
	TypeRequirements,
	TypeDesign,
	TypeTasks,
	TypeProposal,
	TypeSpec,
	TypeResearch,
	TypeChange,
	TypeArchived,
	TypeDocument,
}

// Known reports whether t is one of the conventional types.
func (t DocumentType) Known() bool {
	for _, k := range KnownTypes {
		if t == k {
			return true
		}
	}
	return false
}

// Label returns the type with its first letter upper-cased, for badges.
func (t DocumentType) Label() string {
	s := string(t)
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Document is a parsed markdown source file. It is produced once by the
// parser and never mutated afterwards.
type Document struct {
	DocumentID   string         `json:"document_id"`
	FilePath     string         `json:"file_path"`
	RelativePath string         `json:"relative_path"`
	Type         DocumentType   `json:"type"`
	Title        string         `json:"title"`
	Frontmatter  map[string]any `json:"frontmatter"`
	Content      string         `json:"content"`
	RawContent   string         `json:"-"`
	ModifiedAt   time.Time      `json:"modified_at"`
}

// Empty reports whether the document has no body to render.
func (d *Document) Empty() bool {
	return d.Content == ""
}
