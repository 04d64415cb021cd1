package render

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Engine names.
const (
	EngineOpenSpec = "openspec"
	EngineGoldmark = "goldmark"
)

// Engine renders a markdown body to an HTML fragment. Implementations never
// fail and are safe for concurrent use.
type Engine interface {
	Name() string
	Render(content string) string
}

// OpenSpecEngine is the built-in transform pipeline.
type OpenSpecEngine struct{}

func (OpenSpecEngine) Name() string { return EngineOpenSpec }

func (OpenSpecEngine) Render(content string) string { return Markdown(content) }

// GoldmarkEngine renders with goldmark and GitHub-flavoured extensions. Raw
// HTML in the source is not passed through.
type GoldmarkEngine struct {
	md goldmark.Markdown
}

// NewGoldmarkEngine builds a goldmark-backed engine.
func NewGoldmarkEngine() *GoldmarkEngine {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
	)
	return &GoldmarkEngine{md: md}
}

func (g *GoldmarkEngine) Name() string { return EngineGoldmark }

// Render converts content. A conversion error yields the escaped source in
// a preformatted block.
func (g *GoldmarkEngine) Render(content string) string {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(content), &buf); err != nil {
		return `<pre class="openspec-code">` + html.EscapeString(content) + `</pre>`
	}
	return strings.TrimRight(buf.String(), "\n")
}

// NewEngine returns the engine registered under name. An empty name selects
// the built-in pipeline.
func NewEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineOpenSpec:
		return OpenSpecEngine{}, nil
	case EngineGoldmark:
		return NewGoldmarkEngine(), nil
	default:
		return nil, fmt.Errorf("render: unknown engine %q", name)
	}
}

// Engines lists the accepted engine names.
func Engines() []string {
	return []string{EngineOpenSpec, EngineGoldmark}
}
