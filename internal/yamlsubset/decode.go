// Package yamlsubset reads and writes the line-oriented YAML subset used in
// document frontmatter: top-level "key: value" pairs, "- item" lists under a
// key with no inline value, and inline "[a, b]" lists.
//
// Decoding is best-effort and never fails. Lines that match no rule are
// dropped. Values are string, int64, float64, bool, nil, []any or
// map[string]any.
package yamlsubset

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	listItemRe   = regexp.MustCompile(`^(\s*)-\s+(.+)$`)
	keyValueRe   = regexp.MustCompile(`^([^:]+):\s*(.*)$`)
	inlineListRe = regexp.MustCompile(`^\[(.*)\]$`)
	numberRe     = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][+-]?\d+)?$`)
)

// Decode parses text into a mapping. A key whose own line carries no value
// is bound to an empty list and stays open: following "- item" lines append
// to it until a key with an inline value closes it. List items seen while no
// key is open are dropped; nesting depth is not tracked.
func Decode(text string) map[string]any {
	out := make(map[string]any)
	open := ""

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if m := listItemRe.FindStringSubmatch(line); m != nil {
			if open == "" {
				continue
			}
			if list, ok := out[open].([]any); ok {
				out[open] = append(list, ParseScalar(strings.TrimSpace(m[2])))
			}
			continue
		}

		m := keyValueRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := unquote(strings.TrimSpace(m[1]))
		if key == "" {
			continue
		}
		value := strings.TrimSpace(m[2])
		if value == "" {
			out[key] = []any{}
			open = key
			continue
		}
		out[key] = ParseScalar(value)
		open = ""
	}

	return out
}

// ParseScalar converts a single trimmed value. Surrounding matching quotes
// are removed first, then the result is tried as null, boolean, number and
// inline list, falling back to the literal string.
func ParseScalar(value string) any {
	value = unquote(strings.TrimSpace(value))

	switch strings.ToLower(value) {
	case "true":
		return true
	case "false":
		return false
	case "null", "~":
		return nil
	}

	if numberRe.MatchString(value) {
		if n, ok := parseNumber(value); ok {
			return n
		}
	}

	if m := inlineListRe.FindStringSubmatch(value); m != nil {
		inner := strings.TrimSpace(m[1])
		if inner == "" {
			return []any{}
		}
		parts := strings.Split(inner, ",")
		items := make([]any, 0, len(parts))
		for _, p := range parts {
			items = append(items, ParseScalar(strings.TrimSpace(p)))
		}
		return items
	}

	return value
}

func parseNumber(s string) (any, bool) {
	if !strings.Contains(s, ".") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return f, true
}

// unquote strips one pair of matching surrounding quotes. Double-quoted
// values also resolve the \" \\ and \n escapes written by Encode.
func unquote(s string) string {
	if len(s) < 2 {
		return s
	}
	first, last := s[0], s[len(s)-1]
	if first != last || (first != '"' && first != '\'') {
		return s
	}
	inner := s[1 : len(s)-1]
	if first == '\'' {
		return inner
	}
	if !strings.Contains(inner, `\`) {
		return inner
	}
	var b strings.Builder
	b.Grow(len(inner))
	for i := 0; i < len(inner); i++ {
		c := inner[i]
		if c != '\\' || i+1 == len(inner) {
			b.WriteByte(c)
			continue
		}
		i++
		switch inner[i] {
		case 'n':
			b.WriteByte('\n')
		case '"', '\\':
			b.WriteByte(inner[i])
		default:
			b.WriteByte('\\')
			b.WriteByte(inner[i])
		}
	}
	return b.String()
}
