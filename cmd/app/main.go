package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/starford/specpress/internal"
	"github.com/starford/specpress/internal/docservice"
	"github.com/starford/specpress/internal/importer"
	pkgconfig "github.com/starford/specpress/pkg/config"
)

// Preview output formats.
const (
	formatHTML = "html"
	formatJSON = "json"
	formatYAML = "yaml"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// cliOptions sends logs to stderr so command output on stdout stays clean.
func cliOptions(cfg *internal.Config) []internal.Option {
	return []internal.Option{
		internal.WithConfig(cfg),
		internal.WithLogOutput(os.Stderr),
	}
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := internal.Import(ctx, importer.Options{
		Force: cmd.Bool("force"),
		Prune: cmd.Bool("prune"),
	}, cliOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return printImport(cmd.Root().Writer, res)
}

func printImport(w io.Writer, res *importer.Result) error {
	for _, d := range res.Details {
		line := fmt.Sprintf("%-8s %s", d.Status, d.FilePath)
		if d.Reason != "" {
			line += " (" + d.Reason + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	for _, id := range res.Pruned {
		if _, err := fmt.Fprintf(w, "%-8s %s\n", "pruned", id); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "imported=%d updated=%d skipped=%d errors=%d pruned=%d\n",
		res.Stats.Imported, res.Stats.Updated, res.Stats.Skipped, res.Stats.Errors, len(res.Pruned))
	return err
}

// previewYAML is the YAML shape of a preview.
type previewYAML struct {
	DocumentID   string         `yaml:"document_id"`
	RelativePath string         `yaml:"relative_path"`
	Type         string         `yaml:"type"`
	Project      string         `yaml:"project,omitempty"`
	Title        string         `yaml:"title"`
	Frontmatter  map[string]any `yaml:"frontmatter,omitempty"`
	Content      string         `yaml:"content"`
	HTML         string         `yaml:"html"`
}

func runPreview(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	switch format {
	case formatHTML, formatJSON, formatYAML:
	default:
		return fmt.Errorf("preview: unknown format %q (want html, json or yaml)", format)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	p, err := internal.Preview(ctx, cmd.Args().First(), cliOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("preview: %w", err)
	}

	w := cmd.Root().Writer
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(previewYAML{
			DocumentID:   p.Document.DocumentID,
			RelativePath: p.Document.RelativePath,
			Type:         string(p.Document.Type),
			Project:      p.Project,
			Title:        p.Document.Title,
			Frontmatter:  p.Document.Frontmatter,
			Content:      p.Document.Content,
			HTML:         p.Body,
		})
	default:
		_, err := io.WriteString(w, docservice.Page(p.Document.Title, p.HTML))
		return err
	}
}

func runPurge(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	n, err := internal.Purge(ctx, cliOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("purge: %w", err)
	}
	_, err = fmt.Fprintf(cmd.Root().Writer, "purged %d documents\n", n)
	return err
}

func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, internal.WithConfig(cfg))
}

func main() {
	cmd := &cli.Command{
		Name:   "specpress",
		Usage:  "Import, render and serve OpenSpec markdown documents",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API and watch the openspec directory",
				Action: serve,
			},
			{
				Name:   "import",
				Usage:  "Import markdown files into the index",
				Action: runImport,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Re-render files that are up to date"},
					&cli.BoolFlag{Name: "prune", Usage: "Remove documents whose file is gone"},
				},
			},
			{
				Name:      "preview",
				Usage:     "Parse and render one file without importing it",
				ArgsUsage: "[path relative to source root; newest file when omitted]",
				Action:    runPreview,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: formatHTML, Usage: "Output format: html, json or yaml"},
				},
			},
			{
				Name:   "purge",
				Usage:  "Delete every imported document from the index",
				Action: runPurge,
			},
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
