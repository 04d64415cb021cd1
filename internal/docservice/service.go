// Package docservice is the read and import façade shared by the HTTP API
// and the MCP server.
package docservice

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/starford/specpress/internal/importer"
	"github.com/starford/specpress/internal/index"
	"github.com/starford/specpress/internal/models"
	"github.com/starford/specpress/internal/render"
)

// DocumentDetail is the full representation of an indexed document.
type DocumentDetail struct {
	DocumentID   string         `json:"document_id"`
	FilePath     string         `json:"file_path"`
	RelativePath string         `json:"relative_path"`
	Type         string         `json:"type"`
	Project      string         `json:"project,omitempty"`
	Title        string         `json:"title"`
	Frontmatter  map[string]any `json:"frontmatter"`
	Content      string         `json:"content"`
	HTML         string         `json:"html"`
	Checksum     string         `json:"checksum"`
	ModifiedAt   time.Time      `json:"modified_at"`
	ImportedAt   time.Time      `json:"imported_at"`
}

// DocumentListItem is a lightweight item in a list response.
type DocumentListItem struct {
	DocumentID   string    `json:"document_id"`
	RelativePath string    `json:"relative_path"`
	Type         string    `json:"type"`
	Project      string    `json:"project,omitempty"`
	Title        string    `json:"title"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// SearchHit is one search result.
type SearchHit struct {
	DocumentID string `json:"document_id"`
	Title      string `json:"title"`
	Type       string `json:"type"`
	Snippet    string `json:"snippet"`
}

// Count is a grouped document count.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// ImportPublisher is told about finished import runs.
type ImportPublisher interface {
	PublishImportCompleted(summary any)
}

// Service coordinates the index and the importer.
type Service struct {
	db       index.DocumentIndex
	importer *importer.Importer
	events   ImportPublisher
}

// Option configures a Service.
type Option func(*Service)

// WithPublisher reports completed imports to p.
func WithPublisher(p ImportPublisher) Option {
	return func(s *Service) { s.events = p }
}

// NewService creates a document service.
func NewService(db index.DocumentIndex, im *importer.Importer, opts ...Option) *Service {
	s := &Service{db: db, importer: im}
	for _, o := range opts {
		o(s)
	}
	return s
}

// GetDocument returns one indexed document, or apperr.ErrNotFound.
func (s *Service) GetDocument(_ context.Context, id string) (*DocumentDetail, error) {
	r, err := s.db.GetDocument(id)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{
		DocumentID:   r.DocumentID,
		FilePath:     r.FilePath,
		RelativePath: r.RelativePath,
		Type:         r.Type,
		Project:      r.Project,
		Title:        r.Title,
		Frontmatter:  r.Frontmatter,
		Content:      r.Content,
		HTML:         r.HTML,
		Checksum:     r.Checksum,
		ModifiedAt:   r.ModifiedAt,
		ImportedAt:   r.ImportedAt,
	}, nil
}

// DocumentPage returns a standalone HTML page for a stored document: the
// stylesheet followed by its formatted HTML.
func (s *Service) DocumentPage(ctx context.Context, id string) (string, error) {
	d, err := s.GetDocument(ctx, id)
	if err != nil {
		return "", err
	}
	return Page(d.Title, d.HTML), nil
}

// Page wraps formatted document HTML in a minimal page carrying the
// stylesheet.
func Page(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString(render.StyleTag())
	b.WriteString("\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("\n</body>\n</html>\n")
	return b.String()
}

// ListDocuments returns one page of documents and the filtered total.
func (s *Service) ListDocuments(_ context.Context, f index.ListFilter) ([]DocumentListItem, int, error) {
	rows, total, err := s.db.ListDocuments(f)
	if err != nil {
		return nil, 0, err
	}
	items := make([]DocumentListItem, len(rows))
	for i, r := range rows {
		items[i] = DocumentListItem{
			DocumentID:   r.DocumentID,
			RelativePath: r.RelativePath,
			Type:         r.Type,
			Project:      r.Project,
			Title:        r.Title,
			ModifiedAt:   r.ModifiedAt,
		}
	}
	return items, total, nil
}

// Search delegates to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]SearchHit, error) {
	res, err := s.db.Search(query, limit)
	if err != nil {
		return nil, err
	}
	hits := make([]SearchHit, len(res))
	for i, r := range res {
		hits[i] = SearchHit(r)
	}
	return hits, nil
}

// Types returns document counts per type.
func (s *Service) Types(_ context.Context) ([]Count, error) {
	cs, err := s.db.TypeCounts()
	return counts(cs), err
}

// Projects returns document counts per project.
func (s *Service) Projects(_ context.Context) ([]Count, error) {
	cs, err := s.db.Projects()
	return counts(cs), err
}

func counts(in []index.Count) []Count {
	out := make([]Count, len(in))
	for i, c := range in {
		out[i] = Count(c)
	}
	return out
}

// Render converts a markdown body with the configured engine.
func (s *Service) Render(_ context.Context, content string) string {
	return s.importer.Engine().Render(content)
}

// Parse parses a source file without storing it.
func (s *Service) Parse(_ context.Context, rel string) (models.Document, error) {
	return s.importer.Parse(rel)
}

// Preview parses and formats a source file without storing it.
func (s *Service) Preview(_ context.Context, rel string) (*importer.Preview, error) {
	return s.importer.Preview(rel)
}

// Import runs an import and publishes its summary.
func (s *Service) Import(ctx context.Context, opts importer.Options) (*importer.Result, error) {
	res, err := s.importer.Import(ctx, opts)
	if err != nil {
		return nil, err
	}
	if s.events != nil {
		s.events.PublishImportCompleted(map[string]any{
			"run_id": res.RunID,
			"stats":  res.Stats,
			"pruned": len(res.Pruned),
		})
	}
	return res, nil
}
