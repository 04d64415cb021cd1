// Package importer parses markdown files from the source tree, renders them
// and keeps the document index in step with the files on disk.
package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/starford/specpress/internal/apperr"
	"github.com/starford/specpress/internal/checksum"
	"github.com/starford/specpress/internal/index"
	"github.com/starford/specpress/internal/metrics"
	"github.com/starford/specpress/internal/models"
	"github.com/starford/specpress/internal/parser"
	"github.com/starford/specpress/internal/render"
	"github.com/starford/specpress/internal/storage"
)

// Status of one file in an import run.
type Status string

const (
	StatusImported Status = "imported"
	StatusUpdated  Status = "updated"
	StatusSkipped  Status = "skipped"
	StatusError    Status = "error"
)

// Skip reasons.
const (
	ReasonEmpty    = "Empty document"
	ReasonUpToDate = "Already up to date"
)

// Stats counts outcomes of an import run.
type Stats struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

func (s *Stats) add(st Status) {
	switch st {
	case StatusImported:
		s.Imported++
	case StatusUpdated:
		s.Updated++
	case StatusSkipped:
		s.Skipped++
	case StatusError:
		s.Errors++
	}
}

// Detail reports what happened to one file.
type Detail struct {
	Status     Status `json:"status"`
	FilePath   string `json:"file_path"`
	DocumentID string `json:"document_id,omitempty"`
	Title      string `json:"title,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

// Result summarises an import run.
type Result struct {
	RunID      string    `json:"run_id"`
	Stats      Stats     `json:"stats"`
	Details    []Detail  `json:"details"`
	Pruned     []string  `json:"pruned,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Options control an import run.
type Options struct {
	// Force re-renders files even when the index is up to date.
	Force bool
	// Prune removes index entries whose source file is gone.
	Prune bool
}

// Importer coordinates storage, parsing, rendering and the index.
type Importer struct {
	store    storage.Provider
	index    index.DocumentIndex
	parser   *parser.Parser
	engine   render.Engine
	logger   *slog.Logger
	recorder metrics.Recorder
	now      func() time.Time
}

// Option configures an Importer.
type Option func(*Importer)

// WithParser overrides the parser. The default anchors relative paths at the
// store root.
func WithParser(p *parser.Parser) Option {
	return func(im *Importer) { im.parser = p }
}

// WithEngine selects the render engine.
func WithEngine(e render.Engine) Option {
	return func(im *Importer) { im.engine = e }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(im *Importer) { im.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(im *Importer) { im.recorder = r }
}

// New creates an importer over store and idx.
func New(store storage.Provider, idx index.DocumentIndex, opts ...Option) *Importer {
	im := &Importer{
		store:    store,
		index:    idx,
		engine:   render.OpenSpecEngine{},
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(im)
	}
	if im.parser == nil {
		im.parser = parser.New(parser.WithRoot(store.Root()))
	}
	return im
}

// Engine returns the configured render engine.
func (im *Importer) Engine() render.Engine { return im.engine }

// Import imports every selected source file in path order. Per-file
// failures are recorded in the result; the run only fails when ctx is
// cancelled or there is nothing to import. With Prune set, an empty tree
// still prunes the index and is not an error.
func (im *Importer) Import(ctx context.Context, opts Options) (*Result, error) {
	res := &Result{RunID: uuid.NewString(), StartedAt: im.now(), Details: []Detail{}}

	files, err := im.store.List()
	if err != nil {
		return nil, fmt.Errorf("importer: list: %w", err)
	}
	if len(files) == 0 && !opts.Prune {
		return nil, fmt.Errorf("importer: %s: %w", im.store.Root(), apperr.ErrNoFiles)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			im.recorder.IncImportRun(metrics.OutcomeCanceled)
			return nil, err
		}
		d := im.importFile(f, opts.Force)
		res.Stats.add(d.Status)
		res.Details = append(res.Details, d)
	}

	if opts.Prune {
		pruned, err := im.Prune(ctx)
		if err != nil {
			im.recorder.IncImportRun(metrics.OutcomeFailed)
			return nil, err
		}
		res.Pruned = pruned
	}

	res.FinishedAt = im.now()
	im.recorder.IncImportRun(metrics.OutcomeSuccess)
	im.recorder.ObserveImportDuration(res.FinishedAt.Sub(res.StartedAt))
	im.logger.Info("importer: run finished",
		slog.String("run_id", res.RunID),
		slog.Int("imported", res.Stats.Imported),
		slog.Int("updated", res.Stats.Updated),
		slog.Int("skipped", res.Stats.Skipped),
		slog.Int("errors", res.Stats.Errors),
		slog.Int("pruned", len(res.Pruned)),
		slog.Duration("took", res.FinishedAt.Sub(res.StartedAt)))
	return res, nil
}

// Sync imports changed files and prunes entries for deleted ones.
func (im *Importer) Sync(ctx context.Context) (*Result, error) {
	return im.Import(ctx, Options{Prune: true})
}

// ImportFile imports one file given its path relative to the source root.
func (im *Importer) ImportFile(rel string, force bool) Detail {
	f, err := im.store.Stat(rel)
	if err != nil {
		im.recorder.IncFileResult(string(StatusError))
		return Detail{Status: StatusError, FilePath: rel, Reason: err.Error()}
	}
	return im.importFile(f, force)
}

func (im *Importer) importFile(f storage.SourceFile, force bool) Detail {
	d := im.processFile(f, force)
	im.recorder.IncFileResult(string(d.Status))
	return d
}

func (im *Importer) processFile(f storage.SourceFile, force bool) Detail {
	log := im.logger.With(slog.String("path", f.Path))

	doc, err := im.parser.ParseFile(f.AbsPath)
	if err != nil {
		log.Warn("importer: parse failed", slog.String("error", err.Error()))
		return Detail{Status: StatusError, FilePath: f.AbsPath, Reason: err.Error()}
	}
	d := Detail{FilePath: doc.FilePath, DocumentID: doc.DocumentID, Title: doc.Title}

	if doc.Empty() {
		d.Status, d.Reason = StatusSkipped, ReasonEmpty
		log.Debug("importer: skipped", slog.String("reason", d.Reason))
		return d
	}

	sum := checksum.Rendition([]byte(doc.RawContent), im.engine.Name(), render.StyleVersion)
	state, exists, err := im.index.GetState(doc.DocumentID)
	if err != nil {
		d.Status, d.Reason = StatusError, err.Error()
		return d
	}
	if exists && !force && doc.ModifiedAt.Unix() <= state.ModifiedAt.Unix() && sum == state.Checksum {
		d.Status, d.Reason = StatusSkipped, ReasonUpToDate
		log.Debug("importer: skipped", slog.String("reason", d.Reason))
		return d
	}

	err = im.index.UpsertDocument(index.DocumentRow{
		DocumentID:   doc.DocumentID,
		FilePath:     doc.FilePath,
		RelativePath: doc.RelativePath,
		Type:         string(doc.Type),
		Project:      Project(doc.RelativePath),
		Title:        doc.Title,
		Frontmatter:  doc.Frontmatter,
		Content:      doc.Content,
		HTML:         render.Format(doc, im.engine),
		Checksum:     sum,
		ModifiedAt:   doc.ModifiedAt,
		ImportedAt:   im.now(),
	})
	if err != nil {
		log.Error("importer: store failed", slog.String("error", err.Error()))
		d.Status, d.Reason = StatusError, err.Error()
		return d
	}

	d.Status = StatusImported
	if exists {
		d.Status = StatusUpdated
	}
	log.Debug("importer: stored", slog.String("document_id", doc.DocumentID), slog.String("status", string(d.Status)))
	return d
}

// Prune removes index entries whose source file no longer exists or is no
// longer selected by the include and exclude patterns. It returns the
// removed document IDs.
func (im *Importer) Prune(ctx context.Context) ([]string, error) {
	paths, err := im.index.AllFilePaths()
	if err != nil {
		return nil, fmt.Errorf("importer: prune: %w", err)
	}

	var removed []string
	for p := range paths {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if im.selected(p) {
			continue
		}
		ids, err := im.index.DeleteByFilePath(p)
		if err != nil {
			return removed, fmt.Errorf("importer: prune %s: %w", p, err)
		}
		im.logger.Debug("importer: pruned", slog.String("path", p), slog.Int("documents", len(ids)))
		removed = append(removed, ids...)
	}
	im.recorder.AddPruned(len(removed))
	return removed, nil
}

// selected reports whether an absolute path still names a selected file.
func (im *Importer) selected(abs string) bool {
	rel, err := im.store.Rel(abs)
	if err != nil || !im.store.Match(rel) {
		return false
	}
	_, err = im.store.Stat(rel)
	return err == nil
}

// Purge deletes every indexed document.
func (im *Importer) Purge() (int, error) {
	n, err := im.index.Purge()
	if err != nil {
		return 0, err
	}
	im.logger.Info("importer: purged", slog.Int("documents", n))
	return n, nil
}

// Parse parses one source file without touching the index.
func (im *Importer) Parse(rel string) (models.Document, error) {
	f, err := im.store.Stat(rel)
	if err != nil {
		return models.Document{}, err
	}
	return im.parser.ParseFile(f.AbsPath)
}
