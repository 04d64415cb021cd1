// Package render turns document bodies into HTML fragments.
//
// The built-in renderer is a fixed sequence of text transforms rather than a
// CommonMark parser: code blocks, headers, tables, lists, inline spans,
// paragraphs and line breaks, in that order. Inline patterns are
// non-greedy, so nested delimiters of the same kind close at the first
// match. Checkbox markers are replaced across the whole body, not only
// inside list items. Rendering never fails; anything unrecognized comes out
// as escaped text.
package render

import (
	"html"
	"strings"
)

// Markdown renders content to an HTML fragment. It is a pure function of its
// input and safe for concurrent use.
func Markdown(content string) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\x00", "")

	s := &stash{}
	content = codeBlocks(content, s)
	content = inlineCode(content, s)
	content = html.EscapeString(content)

	content = headers(content)
	content = tables(content)
	content = lists(content)
	content = checkboxes(content)
	content = inline(content, s)
	content = paragraphs(content)

	return s.restore(content)
}
