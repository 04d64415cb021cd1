package importer

import (
	"fmt"

	"github.com/starford/specpress/internal/apperr"
	"github.com/starford/specpress/internal/models"
	"github.com/starford/specpress/internal/render"
	"github.com/starford/specpress/internal/yamlsubset"
)

// Preview is a parsed and rendered document that was not stored.
type Preview struct {
	Document    models.Document `json:"document"`
	Project     string          `json:"project,omitempty"`
	Frontmatter string          `json:"frontmatter_yaml"`
	Body        string          `json:"body_html"`
	HTML        string          `json:"html"`
}

// Preview parses and renders one file without persisting it. An empty rel
// picks the most recently modified source file. A file with no content
// yields apperr.ErrEmptyDocument.
func (im *Importer) Preview(rel string) (*Preview, error) {
	if rel == "" {
		latest, err := im.latest()
		if err != nil {
			return nil, err
		}
		rel = latest
	}

	doc, err := im.Parse(rel)
	if err != nil {
		return nil, err
	}
	if doc.Empty() {
		return nil, fmt.Errorf("importer: preview %s: %w", rel, apperr.ErrEmptyDocument)
	}

	return &Preview{
		Document:    doc,
		Project:     Project(doc.RelativePath),
		Frontmatter: yamlsubset.Encode(doc.Frontmatter),
		Body:        im.engine.Render(doc.Content),
		HTML:        render.Format(doc, im.engine),
	}, nil
}

func (im *Importer) latest() (string, error) {
	files, err := im.store.List()
	if err != nil {
		return "", fmt.Errorf("importer: list: %w", err)
	}
	if len(files) == 0 {
		return "", fmt.Errorf("importer: %s: %w", im.store.Root(), apperr.ErrNoFiles)
	}
	best := files[0]
	for _, f := range files[1:] {
		if f.ModifiedAt.After(best.ModifiedAt) {
			best = f
		}
	}
	return best.Path, nil
}
