package docservice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/specpress/internal/apperr"
	"github.com/starford/specpress/internal/importer"
	"github.com/starford/specpress/internal/index"
	"github.com/starford/specpress/internal/testutil"
)

type publisherStub struct {
	summaries []any
}

func (p *publisherStub) PublishImportCompleted(summary any) {
	p.summaries = append(p.summaries, summary)
}

func newService(t *testing.T) (*Service, *publisherStub) {
	t.Helper()
	_, store := testutil.TestSource(t, map[string]string{
		"specs/auth/design.md":       "---\ntitle: Auth Design\n---\n# Auth\n\nTokens are **signed**.\n",
		"specs/auth/requirements.md": "# Auth Requirements\n\n- must sign tokens\n",
		"changes/add-x/tasks.md":     "# Tasks\n\n- [ ] wire\n",
	})
	db := testutil.TestDB(t)
	pub := &publisherStub{}
	svc := NewService(db, importer.New(store, db), WithPublisher(pub))
	_, err := svc.Import(context.Background(), importer.Options{})
	require.NoError(t, err)
	return svc, pub
}

func TestImportPublishes(t *testing.T) {
	_, pub := newService(t)
	require.Len(t, pub.summaries, 1)
	summary, ok := pub.summaries[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, importer.Stats{Imported: 3}, summary["stats"])
	assert.NotEmpty(t, summary["run_id"])
}

func TestGetDocument(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	d, err := svc.GetDocument(ctx, "specs-auth-design")
	require.NoError(t, err)
	assert.Equal(t, "Auth Design", d.Title)
	assert.Equal(t, "design", d.Type)
	assert.Equal(t, "auth", d.Project)
	assert.Equal(t, map[string]any{"title": "Auth Design"}, d.Frontmatter)
	assert.Contains(t, d.HTML, "<strong>signed</strong>")

	_, err = svc.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestDocumentPage(t *testing.T) {
	svc, _ := newService(t)

	page, err := svc.DocumentPage(context.Background(), "specs-auth-design")
	require.NoError(t, err)
	assert.Contains(t, page, "<title>Auth Design</title>")
	assert.Contains(t, page, "<style>\n")
	assert.Contains(t, page, `<div class="openspec-document" data-type="design">`)
}

func TestPage_EscapesTitle(t *testing.T) {
	page := Page("<b>x</b>", "<p>body</p>")
	assert.Contains(t, page, "<title>&lt;b&gt;x&lt;/b&gt;</title>")
	assert.Contains(t, page, "<body>\n<p>body</p>\n</body>")
}

func TestListDocuments(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	items, total, err := svc.ListDocuments(ctx, index.ListFilter{Project: "auth"})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, items, 2)
	assert.Equal(t, "specs/auth/design", items[0].RelativePath)
	assert.Equal(t, "specs/auth/requirements", items[1].RelativePath)

	items, total, err = svc.ListDocuments(ctx, index.ListFilter{Type: "tasks"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, "changes-add-x-tasks", items[0].DocumentID)
}

func TestSearch(t *testing.T) {
	svc, _ := newService(t)

	hits, err := svc.Search(context.Background(), "tokens", 10)
	require.NoError(t, err)
	ids := make([]string, len(hits))
	for i, h := range hits {
		ids[i] = h.DocumentID
	}
	assert.ElementsMatch(t, []string{"specs-auth-design", "specs-auth-requirements"}, ids)
}

func TestTypesAndProjects(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	types, err := svc.Types(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Count{{"design", 1}, {"requirements", 1}, {"tasks", 1}}, types)

	projects, err := svc.Projects(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Count{{"add-x", 1}, {"auth", 2}}, projects)
}

func TestRenderAndPreview(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	assert.Equal(t, `<h2 class="openspec-h2">Hi</h2>`, svc.Render(ctx, "## Hi"))

	p, err := svc.Preview(ctx, "changes/add-x/tasks.md")
	require.NoError(t, err)
	assert.Equal(t, "add-x", p.Project)
	assert.Contains(t, p.Body, `<input type="checkbox" disabled>`)

	doc, err := svc.Parse(ctx, "specs/auth/requirements.md")
	require.NoError(t, err)
	assert.Equal(t, "Auth Requirements", doc.Title)
}
