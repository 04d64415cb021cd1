package render

import (
	"fmt"
	"html"
	"regexp"
	"strings"
)

var (
	codeFenceRe  = regexp.MustCompile("(?s)```(\\w*)[ \\t]*\\n(.*?)```")
	inlineCodeRe = regexp.MustCompile("`([^`\\n]+)`")
	headerRe     = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*$`)
	tableRe      = regexp.MustCompile(`(?m)^\|(.+)\|[ \t]*\n\|[-: \t|]+\|[ \t]*\n((?:\|.*\|[ \t]*(?:\n|\z))+)`)
	ulItemRe     = regexp.MustCompile(`^[ \t]*[*-][ \t]+(.+)$`)
	olItemRe     = regexp.MustCompile(`^[ \t]*\d+\.[ \t]+(.+)$`)
	uncheckedRe  = regexp.MustCompile(`\[[ \t]*\]`)
	checkedRe    = regexp.MustCompile(`(?i)\[x\]`)
)

const defaultLanguage = "plaintext"

func codeBlocks(content string, s *stash) string {
	return codeFenceRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := codeFenceRe.FindStringSubmatch(m)
		lang := sub[1]
		if lang == "" {
			lang = defaultLanguage
		}
		code := html.EscapeString(sub[2])
		out := fmt.Sprintf(`<pre class="openspec-code"><code class="language-%s">%s</code></pre>`,
			html.EscapeString(lang), code)
		return s.put(kindBlock, out, code)
	})
}

func inlineCode(content string, s *stash) string {
	return inlineCodeRe.ReplaceAllStringFunc(content, func(m string) string {
		code := html.EscapeString(m[1 : len(m)-1])
		return s.put(kindInline, `<code class="openspec-inline-code">`+code+`</code>`, code)
	})
}

func headers(content string) string {
	return headerRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := headerRe.FindStringSubmatch(m)
		level := len(sub[1])
		return fmt.Sprintf(`<h%d class="openspec-h%d">%s</h%d>`, level, level, sub[2], level)
	})
}

// tables expects escaped input. Cells are trimmed; the outer pipes of each
// row are structural. Empty header cells are kept so columns line up.
func tables(content string) string {
	return tableRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := tableRe.FindStringSubmatch(m)

		var b strings.Builder
		b.WriteString(`<table class="openspec-table"><thead><tr>`)
		for _, cell := range splitRow(sub[1]) {
			b.WriteString("<th>" + cell + "</th>")
		}
		b.WriteString("</tr></thead><tbody>")
		for _, line := range strings.Split(sub[2], "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			b.WriteString("<tr>")
			for _, cell := range splitRow(strings.Trim(line, "|")) {
				b.WriteString("<td>" + cell + "</td>")
			}
			b.WriteString("</tr>")
		}
		b.WriteString("</tbody></table>")

		if strings.HasSuffix(m, "\n") {
			b.WriteByte('\n')
		}
		return b.String()
	})
}

func splitRow(row string) []string {
	cells := strings.Split(row, "|")
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

// lists wraps runs of consecutive items of one kind in a single container.
// Nested indentation is flattened.
func lists(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))

	var (
		kind  string
		items []string
	)
	flush := func() {
		if len(items) == 0 {
			return
		}
		out = append(out, fmt.Sprintf(`<%s class="openspec-list">%s</%s>`, kind, strings.Join(items, ""), kind))
		items = items[:0]
		kind = ""
	}

	for _, line := range lines {
		var k, text string
		if m := ulItemRe.FindStringSubmatch(line); m != nil {
			k, text = "ul", m[1]
		} else if m := olItemRe.FindStringSubmatch(line); m != nil {
			k, text = "ol", m[1]
		}
		if k == "" {
			flush()
			out = append(out, line)
			continue
		}
		if k != kind {
			flush()
			kind = k
		}
		items = append(items, "<li>"+strings.TrimRight(text, " \t")+"</li>")
	}
	flush()

	return strings.Join(out, "\n")
}

func checkboxes(content string) string {
	content = uncheckedRe.ReplaceAllString(content, `<input type="checkbox" disabled>`)
	return checkedRe.ReplaceAllString(content, `<input type="checkbox" disabled checked>`)
}
