package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/specpress/internal/apperr"
	"github.com/starford/specpress/internal/models"
)

const exampleSpec = "---\ntitle: Example Spec\nphase: design\n---\n# Hello\n\nThis is **bold** and `code`.\n"

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParseFile_ExampleSpec(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "openspec/changes/add-auth/notes.md", exampleSpec)

	doc, err := New().ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Frontmatter) != 2 || doc.Frontmatter["title"] != "Example Spec" || doc.Frontmatter["phase"] != "design" {
		t.Errorf("frontmatter = %v", doc.Frontmatter)
	}
	if doc.Type != models.TypeDesign {
		t.Errorf("type = %q, want %q", doc.Type, models.TypeDesign)
	}
	if doc.Title != "Example Spec" {
		t.Errorf("title = %q, want %q", doc.Title, "Example Spec")
	}
	if want := "# Hello\n\nThis is **bold** and `code`."; doc.Content != want {
		t.Errorf("content = %q, want %q", doc.Content, want)
	}
	if doc.RawContent != exampleSpec {
		t.Errorf("raw content not preserved: %q", doc.RawContent)
	}
	if doc.RelativePath != "changes/add-auth/notes" {
		t.Errorf("relative path = %q", doc.RelativePath)
	}
	if doc.DocumentID != "changes-add-auth-notes" {
		t.Errorf("document id = %q", doc.DocumentID)
	}
	if doc.FilePath != path {
		t.Errorf("file path = %q, want %q", doc.FilePath, path)
	}
	if doc.ModifiedAt.IsZero() {
		t.Error("expected modification time")
	}
}

func TestParseFile_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "empty-notes.md", "")

	doc, err := New().ParseFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Content != "" || !doc.Empty() {
		t.Errorf("content = %q, want empty", doc.Content)
	}
	if doc.Title != "Empty Notes" {
		t.Errorf("title = %q, want %q", doc.Title, "Empty Notes")
	}
	if doc.Type != models.TypeDocument {
		t.Errorf("type = %q, want %q", doc.Type, models.TypeDocument)
	}
}

func TestParseFile_Missing(t *testing.T) {
	_, err := New().ParseFile(filepath.Join(t.TempDir(), "nope.md"))
	if !errors.Is(err, apperr.ErrFileNotFound) {
		t.Fatalf("err = %v, want ErrFileNotFound", err)
	}
}

func TestParseFile_Directory(t *testing.T) {
	_, err := New().ParseFile(t.TempDir())
	if !errors.Is(err, apperr.ErrFileNotFound) {
		t.Fatalf("err = %v, want ErrFileNotFound", err)
	}
}

func TestParse_WithRoot(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "srv", "docs")
	p := New(WithRoot(root))

	doc := p.Parse([]byte("body"), filepath.Join(root, "specs", "auth", "Design.MD"), time.Time{})
	if doc.RelativePath != "specs/auth/Design" {
		t.Errorf("relative path = %q", doc.RelativePath)
	}
	if doc.DocumentID != "specs-auth-design" {
		t.Errorf("document id = %q", doc.DocumentID)
	}
}

func TestRelativePath(t *testing.T) {
	tests := []struct {
		name, path, root, marker, want string
	}{
		{"marker", "/root/openspec/specs/auth/design.md", "", "openspec", "specs/auth/design"},
		{"marker is case sensitive", "/root/OpenSpec/specs/a.md", "", "openspec", "/root/OpenSpec/specs/a"},
		{"no marker", "/root/docs/a.md", "", "openspec", "/root/docs/a"},
		{"markdown extension", "/x/openspec/readme.markdown", "", "openspec", "readme"},
		{"other extension kept", "/x/openspec/notes.txt", "", "openspec", "notes.txt"},
		{"root wins", "/a/openspec/b/openspec/c.md", "/a/openspec/b", "openspec", "openspec/c"},
		{"outside root falls back", "/other/openspec/c.md", "/a", "openspec", "c"},
		{"marker disabled", "/root/openspec/a.md", "", "", "/root/openspec/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RelativePath(filepath.FromSlash(tt.path), filepath.FromSlash(tt.root), tt.marker)
			if got != tt.want {
				t.Errorf("RelativePath = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDocumentID(t *testing.T) {
	tests := map[string]string{
		"specs/auth/design":         "specs-auth-design",
		"Changes/Add Auth/Tasks":    "changes-add-auth-tasks",
		"--weird//path!!--":         "weird-path",
		"snake_case/and-dash":       "snake_case-and-dash",
		"/root/docs/üник/file.name": "root-docs-file-name",
		"":                          "",
	}
	for in, want := range tests {
		if got := DocumentID(in); got != want {
			t.Errorf("DocumentID(%q) = %q, want %q", in, got, want)
		}
	}
}
