package parser

import (
	"regexp"
	"strings"

	"github.com/starford/specpress/internal/yamlsubset"
)

// frontmatterRe matches a leading block fenced by "---" lines. The closing
// fence may end the input. An empty block is allowed.
var frontmatterRe = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(?:(.*?)\r?\n)??---[ \t]*(?:\r?\n|\z)(.*)\z`)

// Split separates a leading frontmatter block from the markdown body.
// Without a block the whole input is body. The body is always trimmed.
func Split(raw string) (map[string]any, string) {
	raw = strings.TrimPrefix(raw, "\ufeff")

	m := frontmatterRe.FindStringSubmatch(raw)
	if m == nil {
		return map[string]any{}, strings.TrimSpace(raw)
	}
	return yamlsubset.Decode(m[1]), strings.TrimSpace(m[2])
}
