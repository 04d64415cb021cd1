package importer

import (
	"regexp"

	"github.com/starford/specpress/internal/parser"
)

var projectRe = regexp.MustCompile(`^(?:changes|specs)/([^/]+)/`)

// Project returns the project a document belongs to: the directory directly
// under "changes/" or "specs/", sanitized. Other paths have no project.
func Project(relativePath string) string {
	m := projectRe.FindStringSubmatch(relativePath)
	if m == nil {
		return ""
	}
	return parser.SanitizeKey(m[1])
}
