package render

import (
	"regexp"
	"strconv"
	"strings"
)

// Rendered fragments that later passes must not touch are parked behind
// NUL-delimited placeholders and restored at the very end. Input NULs are
// stripped before any placeholder is created.

const (
	kindBlock  = "b"
	kindInline = "i"
	kindAttr   = "a"
)

var placeholderRe = regexp.MustCompile(`\x00([a-z])([0-9]+)\x00`)

type stash struct {
	html  []string
	plain []string
}

func (s *stash) put(kind, html, plain string) string {
	s.html = append(s.html, html)
	s.plain = append(s.plain, plain)
	return "\x00" + kind + strconv.Itoa(len(s.html)-1) + "\x00"
}

// restore swaps placeholders back for their HTML. Stashed fragments may hold
// placeholders themselves, so it repeats until none are left.
func (s *stash) restore(text string) string {
	for i := 0; i < 4 && strings.IndexByte(text, 0) >= 0; i++ {
		text = placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
			return s.lookup(m, s.html)
		})
	}
	return text
}

// flatten swaps placeholders for their escaped plain text, for use inside
// attribute values.
func (s *stash) flatten(text string) string {
	return placeholderRe.ReplaceAllStringFunc(text, func(m string) string {
		return s.lookup(m, s.plain)
	})
}

func (s *stash) lookup(m string, from []string) string {
	sub := placeholderRe.FindStringSubmatch(m)
	n, err := strconv.Atoi(sub[2])
	if err != nil || n >= len(from) {
		return ""
	}
	return from[n]
}

func isBlockPlaceholder(line string) bool {
	return strings.HasPrefix(line, "\x00"+kindBlock)
}
