package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/starford/specpress/internal/models"
)

var filenameTypes = []models.DocumentType{
	models.TypeRequirements,
	models.TypeDesign,
	models.TypeTasks,
	models.TypeProposal,
	models.TypeSpec,
	models.TypeResearch,
}

var pathTypes = []struct {
	segment string
	typ     models.DocumentType
}{
	{"/specs/", models.TypeSpec},
	{"/changes/", models.TypeChange},
	{"/proposals/", models.TypeProposal},
	{"/archive/", models.TypeArchived},
}

// Classify derives a document type. First match wins: frontmatter "phase",
// a truthy frontmatter "spec", a keyword in the file name, a well-known
// directory in the path, then TypeDocument.
func Classify(fm map[string]any, filePath string) models.DocumentType {
	if phase, ok := fm["phase"]; ok && truthy(phase) {
		if s, ok := scalarString(phase); ok {
			if key := SanitizeKey(s); key != "" {
				return models.DocumentType(key)
			}
		}
	}

	if truthy(fm["spec"]) {
		return models.TypeSpec
	}

	slashed := filepath.ToSlash(filePath)
	name := strings.ToLower(baseName(slashed))
	for _, t := range filenameTypes {
		if strings.Contains(name, string(t)) {
			return t
		}
	}

	lower := strings.ToLower(slashed)
	for _, p := range pathTypes {
		if strings.Contains(lower, p.segment) {
			return p.typ
		}
	}

	return models.TypeDocument
}

// SanitizeKey lowercases s and drops every character outside [a-z0-9_-].
func SanitizeKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// truthy mirrors loose emptiness: nil, false, zero, "", "0" and empty
// containers are all false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != "" && t != "0"
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}

// scalarString stringifies a scalar frontmatter value. Containers are
// rejected.
func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case bool, int, int64, float64:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}

func baseName(slashed string) string {
	if i := strings.LastIndex(slashed, "/"); i >= 0 {
		return slashed[i+1:]
	}
	return slashed
}
