package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	h1Re = regexp.MustCompile(`(?m)^#[ \t]+(\S.*?)[ \t\r]*$`)
	h2Re = regexp.MustCompile(`(?m)^##[ \t]+(\S.*?)[ \t\r]*$`)
)

const untitled = "Untitled"

// ResolveTitle picks a display title: frontmatter "title", then "name",
// then the first level-one heading, then the first level-two heading, then
// a title-cased form of the file name. The result is never empty.
func ResolveTitle(fm map[string]any, content, filePath string) string {
	for _, key := range []string{"title", "name"} {
		if v, ok := fm[key]; ok && truthy(v) {
			if s, ok := scalarString(v); ok {
				if s = strings.TrimSpace(s); s != "" {
					return s
				}
			}
		}
	}

	if m := h1Re.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if m := h2Re.FindStringSubmatch(content); m != nil {
		return m[1]
	}

	return titleFromFilename(filePath)
}

func titleFromFilename(filePath string) string {
	name := stripExt(baseName(strings.ReplaceAll(filePath, `\`, "/")))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)

	words := strings.Fields(name)
	if len(words) == 0 {
		return untitled
	}
	// Casers are stateful, so build one per call.
	return cases.Title(language.Und, cases.NoLower).String(strings.Join(words, " "))
}
