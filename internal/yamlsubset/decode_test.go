package yamlsubset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want map[string]any
	}{
		{
			name: "scalars",
			in:   "title: Example Spec\nphase: design\ncount: 3\nratio: 0.5\ndraft: TRUE\nhidden: false",
			want: map[string]any{
				"title":  "Example Spec",
				"phase":  "design",
				"count":  int64(3),
				"ratio":  0.5,
				"draft":  true,
				"hidden": false,
			},
		},
		{
			name: "block list under open key",
			in:   "tags:\n  - auth\n  - \"login flow\"\nowner: sam",
			want: map[string]any{
				"tags":  []any{"auth", "login flow"},
				"owner": "sam",
			},
		},
		{
			name: "list item after closed key is dropped",
			in:   "owner: sam\n- stray\n",
			want: map[string]any{"owner": "sam"},
		},
		{
			name: "list item before any key is dropped",
			in:   "- stray\ntitle: x",
			want: map[string]any{"title": "x"},
		},
		{
			name: "empty key without items stays an empty list",
			in:   "depends:\ntitle: x",
			want: map[string]any{"depends": []any{}, "title": "x"},
		},
		{
			name: "inline list",
			in:   "tags: [a, 2, true, 'q']",
			want: map[string]any{"tags": []any{"a", int64(2), true, "q"}},
		},
		{
			name: "empty inline list",
			in:   "tags: []",
			want: map[string]any{"tags": []any{}},
		},
		{
			name: "value keeps later colons",
			in:   "url: https://example.com:8080/x",
			want: map[string]any{"url": "https://example.com:8080/x"},
		},
		{
			name: "blank, comment and malformed lines ignored",
			in:   "\n# comment\nnot a pair\n  \ntitle: kept\r\n",
			want: map[string]any{"title": "kept"},
		},
		{
			name: "null",
			in:   "parent: null\nalias: ~",
			want: map[string]any{"parent": nil, "alias": nil},
		},
		{
			name: "empty input",
			in:   "",
			want: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decode(tt.in))
		})
	}
}

func TestParseScalar(t *testing.T) {
	tests := []struct {
		in   string
		want any
	}{
		{`"quoted"`, "quoted"},
		{`'single'`, "single"},
		{`"mismatched'`, `"mismatched'`},
		{`"true"`, true},
		{"False", false},
		{"42", int64(42)},
		{"-7", int64(-7)},
		{"3.0", 3.0},
		{"1e3", 1000.0},
		{"1.2.3", "1.2.3"},
		{"0x10", "0x10"},
		{"NaN", "NaN"},
		{`"a: b"`, "a: b"},
		{`"say \"hi\"\nbye"`, "say \"hi\"\nbye"},
		{"[ x , y ]", []any{"x", "y"}},
		{"plain text", "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseScalar(tt.in))
		})
	}
}
