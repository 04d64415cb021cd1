package index

import (
	"encoding/json"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/starford/specpress/internal/apperr"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "specpress-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func row(id, path, typ, project, title, content string) DocumentRow {
	return DocumentRow{
		DocumentID:   id,
		FilePath:     "/src/" + path + ".md",
		RelativePath: path,
		Type:         typ,
		Project:      project,
		Title:        title,
		Frontmatter:  map[string]any{"title": title},
		Content:      content,
		HTML:         "<p>" + content + "</p>",
		Checksum:     "sum-" + id,
		ModifiedAt:   time.Unix(1700000000, 0),
	}
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents`).Scan(&count); err != nil {
		t.Fatalf("documents table missing: %v", err)
	}
}

func TestUpsertAndGetDocument(t *testing.T) {
	db := testDB(t)
	in := row("specs-auth-design", "specs/auth/design", "design", "auth", "Auth Design", "hello world")
	in.Frontmatter = map[string]any{"title": "Auth Design", "version": int64(2), "tags": []any{"a", "b"}}
	if err := db.UpsertDocument(in); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	got, err := db.GetDocument("specs-auth-design")
	if err != nil {
		t.Fatalf("GetDocument: %v", err)
	}
	if got.Title != "Auth Design" || got.Type != "design" || got.Project != "auth" {
		t.Errorf("row = %+v", got)
	}
	if got.Content != "hello world" || got.HTML != "<p>hello world</p>" {
		t.Errorf("content = %q, html = %q", got.Content, got.HTML)
	}
	if !got.ModifiedAt.Equal(in.ModifiedAt) {
		t.Errorf("modified = %v, want %v", got.ModifiedAt, in.ModifiedAt)
	}
	if got.ImportedAt.IsZero() {
		t.Error("imported_at not set")
	}
	if v, ok := got.Frontmatter["version"].(json.Number); !ok || v.String() != "2" {
		t.Errorf("frontmatter version = %#v", got.Frontmatter["version"])
	}
	if tags, ok := got.Frontmatter["tags"].([]any); !ok || len(tags) != 2 {
		t.Errorf("frontmatter tags = %#v", got.Frontmatter["tags"])
	}
}

func TestGetDocument_NotFound(t *testing.T) {
	db := testDB(t)
	_, err := db.GetDocument("missing")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestGetState(t *testing.T) {
	db := testDB(t)
	_, found, err := db.GetState("x")
	if err != nil || found {
		t.Fatalf("GetState on empty db = %v, %v", found, err)
	}

	_ = db.UpsertDocument(row("x", "x", "document", "", "X", "body"))
	st, found, err := db.GetState("x")
	if err != nil || !found {
		t.Fatalf("GetState = %v, %v", found, err)
	}
	if st.Checksum != "sum-x" || st.ModifiedAt.Unix() != 1700000000 {
		t.Errorf("state = %+v", st)
	}
}

func TestUpsertUpdatesExisting(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(row("up", "up", "document", "", "Old", "old body"))
	next := row("up", "up", "tasks", "", "New", "new body")
	next.Checksum = "2"
	if err := db.UpsertDocument(next); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	got, _ := db.GetDocument("up")
	if got.Title != "New" || got.Type != "tasks" || got.Checksum != "2" {
		t.Errorf("row not updated: %+v", got)
	}
	if n, _ := db.Count(); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestDeleteDocument(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(row("del", "del", "document", "", "Del", "body"))

	if err := db.DeleteDocument("del"); err != nil {
		t.Fatalf("DeleteDocument: %v", err)
	}
	if _, found, _ := db.GetState("del"); found {
		t.Error("deleted document still indexed")
	}
	if err := db.DeleteDocument("del"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteByFilePath(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(row("a", "a", "document", "", "A", "body"))
	_ = db.UpsertDocument(row("b", "b", "document", "", "B", "body"))

	ids, err := db.DeleteByFilePath("/src/a.md")
	if err != nil {
		t.Fatalf("DeleteByFilePath: %v", err)
	}
	if len(ids) != 1 || ids[0] != "a" {
		t.Errorf("ids = %v, want [a]", ids)
	}
	if n, _ := db.Count(); n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestListDocuments(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(row("specs-auth-design", "specs/auth/design", "design", "auth", "Zeta", "x"))
	_ = db.UpsertDocument(row("specs-auth-tasks", "specs/auth/tasks", "tasks", "auth", "alpha", "x"))
	_ = db.UpsertDocument(row("changes-billing-proposal", "changes/billing/proposal", "proposal", "billing", "Mid", "x"))

	all, total, err := db.ListDocuments(ListFilter{})
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Fatalf("total = %d, len = %d", total, len(all))
	}
	if all[0].RelativePath != "changes/billing/proposal" {
		t.Errorf("default order starts with %q", all[0].RelativePath)
	}
	if all[0].Content != "" || all[0].HTML != "" {
		t.Error("list rows should not carry content")
	}

	byTitle, _, _ := db.ListDocuments(ListFilter{Sort: "title"})
	if byTitle[0].Title != "alpha" || byTitle[2].Title != "Zeta" {
		t.Errorf("title order = %q, %q, %q", byTitle[0].Title, byTitle[1].Title, byTitle[2].Title)
	}

	auth, total, _ := db.ListDocuments(ListFilter{Project: "auth", Limit: 1})
	if total != 2 || len(auth) != 1 {
		t.Errorf("project filter total = %d, len = %d", total, len(auth))
	}

	design, total, _ := db.ListDocuments(ListFilter{Type: "design"})
	if total != 1 || design[0].DocumentID != "specs-auth-design" {
		t.Errorf("type filter = %+v", design)
	}

	if _, _, err := db.ListDocuments(ListFilter{Sort: "random"}); err == nil {
		t.Error("expected error for unknown sort")
	}
}

func TestTypeCountsAndProjects(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(row("a", "a", "design", "auth", "A", "x"))
	_ = db.UpsertDocument(row("b", "b", "design", "", "B", "x"))
	_ = db.UpsertDocument(row("c", "c", "tasks", "auth", "C", "x"))

	types, err := db.TypeCounts()
	if err != nil {
		t.Fatalf("TypeCounts: %v", err)
	}
	if len(types) != 2 || types[0] != (Count{Name: "design", Count: 2}) || types[1] != (Count{Name: "tasks", Count: 1}) {
		t.Errorf("types = %+v", types)
	}

	projects, err := db.Projects()
	if err != nil {
		t.Fatalf("Projects: %v", err)
	}
	if len(projects) != 1 || projects[0] != (Count{Name: "auth", Count: 2}) {
		t.Errorf("projects = %+v", projects)
	}
}

func TestAllFilePathsAndPurge(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(row("a", "a", "document", "", "A", "x"))
	_ = db.UpsertDocument(row("b", "b", "document", "", "B", "x"))

	paths, err := db.AllFilePaths()
	if err != nil {
		t.Fatalf("AllFilePaths: %v", err)
	}
	if len(paths) != 2 || paths["/src/a.md"][0] != "a" {
		t.Errorf("paths = %v", paths)
	}

	n, err := db.Purge()
	if err != nil {
		t.Fatalf("Purge: %v", err)
	}
	if n != 2 {
		t.Errorf("purged %d, want 2", n)
	}
	if c, _ := db.Count(); c != 0 {
		t.Errorf("count after purge = %d", c)
	}
}

func TestSearch_Basic(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(row("s", "s", "spec", "", "Search Me", "uniqueword appears here"))
	_ = db.UpsertDocument(row("o", "o", "spec", "", "Other", "nothing to see"))

	results, err := db.Search("uniqueword", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].DocumentID != "s" || results[0].Type != "spec" {
		t.Errorf("search results = %+v, want 1 hit for s", results)
	}
}
