package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/starford/specpress/internal/models"
)

func TestFormat(t *testing.T) {
	doc := models.Document{
		Type:         models.TypeDesign,
		RelativePath: "specs/auth/design",
		Frontmatter:  map[string]any{"title": "A: B"},
		Content:      "# Hello",
	}

	got := Format(doc, nil)

	assert.True(t, strings.HasPrefix(got, `<div class="openspec-document" data-type="design">`))
	assert.Contains(t, got, `<span class="openspec-type-badge" style="background: #4caf50">Design</span>`)
	assert.Contains(t, got, `<code>specs/auth/design</code>`)
	assert.Contains(t, got, `<pre class="openspec-frontmatter-yaml">title: &#34;A: B&#34;`+"\n</pre>")
	assert.Contains(t, got, `<hr class="openspec-divider"><div class="openspec-content"><h1 class="openspec-h1">Hello</h1></div></div>`)
}

func TestFormat_UnknownTypeAndNoFrontmatter(t *testing.T) {
	doc := models.Document{Type: "rollout", Content: "text"}

	got := Format(doc, OpenSpecEngine{})

	assert.Contains(t, got, `style="background: `+DefaultTypeColor+`">Rollout</span>`)
	assert.NotContains(t, got, "openspec-frontmatter")
	assert.NotContains(t, got, "openspec-path")
}

func TestTypeColor(t *testing.T) {
	assert.Equal(t, "#00bcd4", TypeColor(models.TypeSpec))
	assert.Equal(t, "#f44336", TypeColor(models.TypeChange))
	assert.Equal(t, DefaultTypeColor, TypeColor("anything-else"))
	for _, typ := range models.KnownTypes {
		assert.NotEmpty(t, TypeColor(typ))
	}
}

func TestCSS(t *testing.T) {
	assert.Contains(t, CSS(), ".openspec-h1")
	assert.Contains(t, CSS(), ".openspec-type-badge")
	assert.True(t, strings.HasPrefix(StyleTag(), "<style>\n"))
	assert.True(t, strings.HasSuffix(StyleTag(), "</style>"))
}
