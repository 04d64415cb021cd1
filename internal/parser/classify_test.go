package parser

import (
	"testing"

	"github.com/starford/specpress/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		fm   map[string]any
		path string
		want models.DocumentType
	}{
		{"phase wins", map[string]any{"phase": "Tasks", "spec": true}, "/x/design.md", "tasks"},
		{"phase sanitized", map[string]any{"phase": "Q3 Review!"}, "/x/a.md", "q3review"},
		{"phase unknown value kept", map[string]any{"phase": "rollout"}, "/x/a.md", "rollout"},
		{"phase empty ignored", map[string]any{"phase": ""}, "/x/design.md", models.TypeDesign},
		{"phase zero ignored", map[string]any{"phase": "0"}, "/x/a.md", models.TypeDocument},
		{"phase sanitizes to nothing", map[string]any{"phase": "!!!"}, "/x/tasks.md", models.TypeTasks},
		{"spec truthy", map[string]any{"spec": "auth"}, "/x/design.md", models.TypeSpec},
		{"spec false ignored", map[string]any{"spec": false}, "/x/a.md", models.TypeDocument},
		{"filename priority", nil, "/x/design-requirements.md", models.TypeRequirements},
		{"filename case insensitive", nil, "/x/DESIGN.md", models.TypeDesign},
		{"filename spec", nil, "/x/spec.md", models.TypeSpec},
		{"filename research", nil, "/x/research-notes.md", models.TypeResearch},
		{"path specs", nil, "/x/specs/auth/readme.md", models.TypeSpec},
		{"path changes", nil, "/x/changes/add-auth/readme.md", models.TypeChange},
		{"path proposals", nil, "/x/Proposals/readme.md", models.TypeProposal},
		{"path archive", nil, "/x/archive/readme.md", models.TypeArchived},
		{"filename beats path", nil, "/x/changes/add-auth/tasks.md", models.TypeTasks},
		{"default", nil, "/x/readme.md", models.TypeDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.fm, tt.path)
			if got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
			if again := Classify(tt.fm, tt.path); again != got {
				t.Errorf("Classify not stable: %q then %q", got, again)
			}
		})
	}
}

func TestSanitizeKey(t *testing.T) {
	if got := SanitizeKey("In-Progress_2 (draft)"); got != "in-progress_2draft" {
		t.Errorf("SanitizeKey = %q", got)
	}
}
