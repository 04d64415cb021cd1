package render

import (
	"fmt"
	"html"
	"strings"

	"github.com/starford/specpress/internal/models"
	"github.com/starford/specpress/internal/yamlsubset"
)

var typeColors = map[models.DocumentType]string{
	models.TypeRequirements: "#2196f3",
	models.TypeDesign:       "#4caf50",
	models.TypeTasks:        "#ff9800",
	models.TypeProposal:     "#9c27b0",
	models.TypeSpec:         "#00bcd4",
	models.TypeResearch:     "#795548",
	models.TypeChange:       "#f44336",
	models.TypeArchived:     "#9e9e9e",
	models.TypeDocument:     "#607d8b",
}

// DefaultTypeColor is used for types outside the conventional set.
const DefaultTypeColor = "#607d8b"

// TypeColor returns the badge color for t.
func TypeColor(t models.DocumentType) string {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return DefaultTypeColor
}

// Format wraps a rendered body in the document layout: a metadata header
// with the type badge, relative path and collapsible frontmatter, then the
// content. A nil engine uses the built-in pipeline.
func Format(doc models.Document, engine Engine) string {
	if engine == nil {
		engine = OpenSpecEngine{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="openspec-document" data-type="%s">`, html.EscapeString(string(doc.Type)))
	b.WriteString(metadata(doc))
	b.WriteString(`<div class="openspec-content">`)
	b.WriteString(engine.Render(doc.Content))
	b.WriteString(`</div></div>`)
	return b.String()
}

func metadata(doc models.Document) string {
	var b strings.Builder
	b.WriteString(`<div class="openspec-metadata">`)
	fmt.Fprintf(&b, `<span class="openspec-type-badge" style="background: %s">%s</span>`,
		html.EscapeString(TypeColor(doc.Type)), html.EscapeString(doc.Type.Label()))

	if doc.RelativePath != "" {
		fmt.Fprintf(&b, `<p class="openspec-path"><strong>Path:</strong> <code>%s</code></p>`,
			html.EscapeString(doc.RelativePath))
	}

	if len(doc.Frontmatter) > 0 {
		b.WriteString(`<div class="openspec-frontmatter"><details><summary>Frontmatter</summary>`)
		fmt.Fprintf(&b, `<pre class="openspec-frontmatter-yaml">%s</pre>`,
			html.EscapeString(yamlsubset.Encode(doc.Frontmatter)))
		b.WriteString(`</details></div>`)
	}

	b.WriteString(`</div><hr class="openspec-divider">`)
	return b.String()
}
