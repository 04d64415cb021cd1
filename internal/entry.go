// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/starford/specpress/internal/api"
	"github.com/starford/specpress/internal/docservice"
	"github.com/starford/specpress/internal/importer"
	"github.com/starford/specpress/internal/index"
	"github.com/starford/specpress/internal/mcpserver"
	"github.com/starford/specpress/internal/metrics"
	"github.com/starford/specpress/internal/parser"
	"github.com/starford/specpress/internal/render"
	"github.com/starford/specpress/internal/sse"
	"github.com/starford/specpress/internal/storage"
)

// components are the pieces every command needs.
type components struct {
	logger   *slog.Logger
	db       *index.DB
	importer *importer.Importer
	registry *prom.Registry
}

func (c *components) Close() error {
	return c.db.Close()
}

func newApplication(opts []Option) (*application, error) {
	app := &application{logOutput: os.Stdout}
	for _, opt := range opts {
		opt(app)
	}
	if app.config == nil {
		return nil, fmt.Errorf("config is required")
	}
	return app, nil
}

// setup installs the logger and opens the source tree, index and importer.
func (a *application) setup() (*components, error) {
	cfg := a.config

	logger := slog.New(slog.NewJSONHandler(a.logOutput, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("source_root", cfg.Source.Root),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("render_engine", cfg.Render.Engine),
		slog.String("log_level", cfg.App.LogLevel.String()))

	store, err := storage.NewFS(cfg.Source.Root,
		storage.WithInclude(cfg.Source.Include...),
		storage.WithExclude(cfg.Source.Exclude...),
	)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	engine, err := render.NewEngine(cfg.Render.Engine)
	if err != nil {
		return nil, fmt.Errorf("init renderer: %w", err)
	}

	if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index dir: %w", err)
		}
	}
	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}

	var recorder metrics.Recorder = metrics.NoopRecorder{}
	var registry *prom.Registry
	if cfg.App.Metrics {
		registry = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(registry)
	}

	im := importer.New(store, db,
		importer.WithParser(parser.New(
			parser.WithRoot(store.Root()),
			parser.WithMarker(cfg.Source.Marker),
		)),
		importer.WithEngine(engine),
		importer.WithLogger(logger),
		importer.WithRecorder(recorder),
	)

	return &components{logger: logger, db: db, importer: im, registry: registry}, nil
}

// Run starts the HTTP server and the file watcher with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app, err := newApplication(opts)
	if err != nil {
		return err
	}
	cfg := app.config

	c, err := app.setup()
	if err != nil {
		return err
	}
	defer c.Close()
	logger := c.logger

	// Bring the index in line with the tree before serving.
	if _, err := c.importer.Sync(ctx); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	broker := sse.NewBroker(sse.DefaultIndexThrottle)
	defer broker.Close()

	svc := docservice.NewService(c.db, c.importer, docservice.WithPublisher(broker))
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if _, err := c.db.Count(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if c.registry != nil {
		r.Handle("/metrics", metrics.HTTPHandler(c.registry))
	}

	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gCtx := errgroup.WithContext(ctx)

	if cfg.Watch.Enabled {
		g.Go(func() error {
			err := c.importer.Watch(gCtx, cfg.Watch.Debounce, broker.PublishDocumentEvent)
			if err != nil {
				logger.Error("watcher failed", slog.String("error", err.Error()))
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group so the watcher stops with the server.
var errShutdown = errors.New("shutdown")

// Import runs one import pass over the source tree.
func Import(ctx context.Context, importOpts importer.Options, opts ...Option) (*importer.Result, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	c, err := app.setup()
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return c.importer.Import(ctx, importOpts)
}

// Preview parses and formats one source file without importing it. An empty
// rel picks the most recently modified file.
func Preview(_ context.Context, rel string, opts ...Option) (*importer.Preview, error) {
	app, err := newApplication(opts)
	if err != nil {
		return nil, err
	}
	c, err := app.setup()
	if err != nil {
		return nil, err
	}
	defer c.Close()

	return c.importer.Preview(rel)
}

// Purge deletes every imported document from the index.
func Purge(_ context.Context, opts ...Option) (int, error) {
	app, err := newApplication(opts)
	if err != nil {
		return 0, err
	}
	c, err := app.setup()
	if err != nil {
		return 0, err
	}
	defer c.Close()

	return c.importer.Purge()
}

// ServeMCP serves the MCP tools over stdin/stdout. Logs must not go to
// stdout, so the default log output is stderr here.
func ServeMCP(_ context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	c, err := app.setup()
	if err != nil {
		return err
	}
	defer c.Close()

	svc := docservice.NewService(c.db, c.importer)
	c.logger.Info("mcp: serving on stdio")
	return mcpserver.New(svc).ServeStdio()
}
