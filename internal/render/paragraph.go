package render

import (
	"regexp"
	"strings"
)

var (
	blankLineRe = regexp.MustCompile(`\n[ \t]*\n`)
	blockTagRe  = regexp.MustCompile(`^<(?:h[1-6]|ul|ol|li|table|pre|blockquote|hr|div)\b`)
)

// paragraphs splits on blank lines. Within each block, lines that already
// start with a block-level tag pass through and runs of other lines are
// wrapped in a paragraph, with single newlines turned into <br>.
func paragraphs(content string) string {
	var out []string

	for _, block := range blankLineRe.Split(content, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		var text []string
		flush := func() {
			if len(text) == 0 {
				return
			}
			out = append(out, `<p class="openspec-paragraph">`+strings.Join(text, "<br>\n")+`</p>`)
			text = text[:0]
		}

		for _, line := range strings.Split(block, "\n") {
			trimmed := strings.TrimSpace(line)
			switch {
			case trimmed == "":
				continue
			case blockTagRe.MatchString(trimmed), isBlockPlaceholder(trimmed):
				flush()
				out = append(out, trimmed)
			default:
				text = append(text, trimmed)
			}
		}
		flush()
	}

	return strings.Join(out, "\n")
}
