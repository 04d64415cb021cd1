package parser

import "testing"

func TestResolveTitle(t *testing.T) {
	tests := []struct {
		name    string
		fm      map[string]any
		content string
		path    string
		want    string
	}{
		{"frontmatter title", map[string]any{"title": "From FM", "name": "n"}, "# Heading", "/x/a.md", "From FM"},
		{"frontmatter name", map[string]any{"name": "Named"}, "# Heading", "/x/a.md", "Named"},
		{"numeric title", map[string]any{"title": int64(2024)}, "", "/x/a.md", "2024"},
		{"empty title skipped", map[string]any{"title": ""}, "# Heading", "/x/a.md", "Heading"},
		{"first h1", nil, "intro\n## Second\n# First  \n# Later", "/x/a.md", "First"},
		{"h2 when no h1", nil, "text\n## Second\n### Third", "/x/a.md", "Second"},
		{"hash without space is not a heading", nil, "#tag\n", "/x/my-file_name.md", "My File Name"},
		{"filename fallback", nil, "", "/x/add-user_auth.md", "Add User Auth"},
		{"filename keeps inner capitals", nil, "", "/x/api-SDK.md", "Api SDK"},
		{"hyphen only filename", nil, "", "/x/---.md", "Untitled"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveTitle(tt.fm, tt.content, tt.path); got != tt.want {
				t.Errorf("ResolveTitle = %q, want %q", got, tt.want)
			}
		})
	}
}
