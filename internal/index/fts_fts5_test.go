//go:build sqlite_fts5

package index

import (
	"testing"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM documents_fts`).Scan(&count); err != nil {
		t.Fatalf("documents_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	if err := db.UpsertDocument(row("fts", "fts", "research", "", "FTS Doc", "The importer provides powerful full-text search capabilities.")); err != nil {
		t.Fatalf("UpsertDocument: %v", err)
	}

	results, err := db.Search("powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].DocumentID != "fts" || results[0].Type != "research" {
		t.Errorf("result = %+v", results[0])
	}
	// FTS5 snippet should contain bold markers.
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(row("gone", "gone", "document", "", "Gone", "vanishing content"))
	_ = db.DeleteDocument("gone")

	results, _ := db.Search("vanishing", 10)
	for _, r := range results {
		if r.DocumentID == "gone" {
			t.Error("deleted document still in FTS index")
		}
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(row("evo", "evo", "document", "", "Old", "original text"))
	_ = db.UpsertDocument(row("evo", "evo", "document", "", "New", "replacement text"))

	results, _ := db.Search("original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search("replacement", 10)
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}

func TestFTS5_PurgeClearsFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertDocument(row("p", "p", "document", "", "P", "purgeable words"))
	if _, err := db.Purge(); err != nil {
		t.Fatalf("Purge: %v", err)
	}
	results, _ := db.Search("purgeable", 10)
	if len(results) != 0 {
		t.Errorf("purged document still searchable: %+v", results)
	}
}
