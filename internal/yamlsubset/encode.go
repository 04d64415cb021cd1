package yamlsubset

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Encode writes m back out in the indented form Decode reads, for human
// preview. Keys are emitted in sorted order. Lists become "- item" blocks,
// nested mappings are indented one level deeper. Strings containing a
// newline or a colon are double-quoted, as are empty strings and strings
// with surrounding whitespace.
//
// The output is lossy for shapes Decode cannot express (mappings inside
// lists, nested mappings); Encode itself never fails.
func Encode(m map[string]any) string {
	var b strings.Builder
	encodeMapping(&b, m, 0)
	return b.String()
}

func encodeMapping(b *strings.Builder, m map[string]any, indent int) {
	prefix := strings.Repeat("  ", indent)

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch v := normalize(m[key]).(type) {
		case []any:
			if len(v) == 0 {
				fmt.Fprintf(b, "%s%s: []\n", prefix, key)
				continue
			}
			fmt.Fprintf(b, "%s%s:\n", prefix, key)
			for _, item := range v {
				encodeListItem(b, item, indent)
			}
		case map[string]any:
			if len(v) == 0 {
				fmt.Fprintf(b, "%s%s: {}\n", prefix, key)
				continue
			}
			fmt.Fprintf(b, "%s%s:\n", prefix, key)
			encodeMapping(b, v, indent+1)
		default:
			fmt.Fprintf(b, "%s%s: %s\n", prefix, key, FormatScalar(v))
		}
	}
}

func encodeListItem(b *strings.Builder, item any, indent int) {
	prefix := strings.Repeat("  ", indent)
	switch v := normalize(item).(type) {
	case map[string]any:
		fmt.Fprintf(b, "%s  -\n", prefix)
		encodeMapping(b, v, indent+2)
	case []any:
		parts := make([]string, 0, len(v))
		for _, inner := range v {
			parts = append(parts, FormatScalar(normalize(inner)))
		}
		fmt.Fprintf(b, "%s  - [%s]\n", prefix, strings.Join(parts, ", "))
	default:
		fmt.Fprintf(b, "%s  - %s\n", prefix, FormatScalar(v))
	}
}

// normalize widens typed slices and maps produced outside this package
// (for example []string from callers) to the generic shapes.
func normalize(v any) any {
	switch t := v.(type) {
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case map[string]string:
		out := make(map[string]any, len(t))
		for k, s := range t {
			out[k] = s
		}
		return out
	}
	return v
}

// FormatScalar renders a single non-container value.
func FormatScalar(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		if t {
			return "true"
		}
		return "false"
	case string:
		if t == "" || strings.TrimSpace(t) != t || strings.ContainsAny(t, "\n:") {
			return quote(t)
		}
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		s := strconv.FormatFloat(t, 'f', -1, 64)
		if !math.IsInf(t, 0) && !math.IsNaN(t) && !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
