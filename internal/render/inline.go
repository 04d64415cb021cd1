package render

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	boldStarRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
	boldUnderRe    = regexp.MustCompile(`\b__(.+?)__\b`)
	italicStarRe   = regexp.MustCompile(`\*([^*\n]+)\*`)
	italicUnderRe  = regexp.MustCompile(`\b_([^_\n]+)_\b`)
	strikeRe       = regexp.MustCompile(`~~(.+?)~~`)
	imageRe        = regexp.MustCompile(`!\[([^\]\n]*)\]\(([^)\s]+)\)`)
	linkRe         = regexp.MustCompile(`\[([^\]\n]+)\]\(([^)\s]+)\)`)
	hrRe           = regexp.MustCompile(`(?m)^(?:-{3,}|\*{3,})[ \t]*$`)
	blockquoteRe   = regexp.MustCompile(`^&gt;[ \t]?(.*)$`)
	unsafeSchemeRe = regexp.MustCompile(`(?i)^[ \t]*(?:javascript|vbscript|data):`)
)

// inline applies span-level patterns. Image sources and link targets are
// parked first so emphasis markers inside a URL stay literal; link text
// still receives emphasis. Then strong, emphasis, deleted text, rules and
// quotes run in that order.
func inline(content string, s *stash) string {
	content = imageRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := imageRe.FindStringSubmatch(m)
		alt := s.flatten(sub[1])
		out := fmt.Sprintf(`<img src="%s" alt="%s" class="openspec-image">`, safeURL(s.flatten(sub[2])), alt)
		return s.put(kindInline, out, alt)
	})
	content = linkRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := linkRe.FindStringSubmatch(m)
		href := s.put(kindAttr, safeURL(s.flatten(sub[2])), "")
		return fmt.Sprintf(`<a href="%s" class="openspec-link">%s</a>`, href, sub[1])
	})

	content = boldStarRe.ReplaceAllString(content, "<strong>$1</strong>")
	content = boldUnderRe.ReplaceAllString(content, "<strong>$1</strong>")
	content = italicStarRe.ReplaceAllString(content, "<em>$1</em>")
	content = italicUnderRe.ReplaceAllString(content, "<em>$1</em>")
	content = strikeRe.ReplaceAllString(content, "<del>$1</del>")

	content = hrRe.ReplaceAllString(content, `<hr class="openspec-hr">`)
	return blockquotes(content)
}

func safeURL(u string) string {
	if unsafeSchemeRe.MatchString(u) {
		return "#"
	}
	return u
}

// blockquotes joins consecutive "> " lines into one quote element.
func blockquotes(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	var quoted []string

	flush := func() {
		if len(quoted) == 0 {
			return
		}
		out = append(out, `<blockquote class="openspec-quote">`+strings.Join(quoted, "<br>")+`</blockquote>`)
		quoted = quoted[:0]
	}

	for _, line := range lines {
		if m := blockquoteRe.FindStringSubmatch(line); m != nil {
			quoted = append(quoted, strings.TrimRight(m[1], " \t"))
			continue
		}
		flush()
		out = append(out, line)
	}
	flush()

	return strings.Join(out, "\n")
}
