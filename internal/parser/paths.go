package parser

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	idInvalidRe = regexp.MustCompile(`[^a-z0-9_-]+`)
	idDashesRe  = regexp.MustCompile(`-{2,}`)
)

var markdownExts = []string{".md", ".markdown"}

// RelativePath returns filePath without its markdown extension, relative to
// root when the file lives under it. Otherwise, when marker is set and the
// path contains "/<marker>/", everything up to and including that segment
// is dropped. The result always uses forward slashes.
func RelativePath(filePath, root, marker string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, filePath); err == nil && rel != "." && !escapes(rel) {
			return stripExt(filepath.ToSlash(rel))
		}
	}

	p := stripExt(filepath.ToSlash(filePath))
	if marker != "" {
		seg := "/" + strings.Trim(marker, "/") + "/"
		if i := strings.Index(p, seg); i >= 0 {
			p = p[i+len(seg):]
		}
	}
	return p
}

// DocumentID slugs a relative path: lowercased, every run of characters
// outside [a-z0-9_-] (path separators included) becomes one "-", and
// leading or trailing dashes are trimmed. It is a pure function of its
// input.
func DocumentID(relativePath string) string {
	id := strings.ToLower(relativePath)
	id = idInvalidRe.ReplaceAllString(id, "-")
	id = idDashesRe.ReplaceAllString(id, "-")
	return strings.Trim(id, "-")
}

func stripExt(p string) string {
	lower := strings.ToLower(p)
	for _, ext := range markdownExts {
		if strings.HasSuffix(lower, ext) {
			return p[:len(p)-len(ext)]
		}
	}
	return p
}

func escapes(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel)
}
