package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	httpadapter "resume-builder/internal/adapter/http"
	repo "resume-builder/internal/adapter/repository"
	"resume-builder/internal/config"
	"resume-builder/internal/editor"
	"resume-builder/internal/export"
	"resume-builder/internal/infrastructure/migration"
	"resume-builder/internal/model"
	"resume-builder/internal/sanitize"
	"resume-builder/internal/theme"
	"resume-builder/internal/usecase"
	"resume-builder/pkg/ai"
	infra "resume-builder/pkg/infrastructure"
)

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	ctx := context.Background()

	var store usecase.DocumentStore = repo.NewMemoryRepo()
	if cfg.DatabaseURL != "" {
		pool, err := infra.NewDocumentsPool(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("Documents DB not available", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := migration.RunMigrations(ctx, pool); err != nil {
			os.Exit(1)
		}
		store = repo.NewDocumentsRepo(pool)
	} else {
		slog.Warn("DATABASE_URL not set, documents are kept in memory")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := usecase.NewMetrics(reg)
	if err != nil {
		slog.Error("Register metrics", "err", err)
		os.Exit(1)
	}

	gate := sanitize.New()
	themes := theme.Default()
	if _, ok := themes.Lookup(cfg.DefaultTheme); !ok {
		slog.Warn("Unknown DEFAULT_THEME, using the first theme", "theme", cfg.DefaultTheme)
	}

	opts := usecase.Options{
		Store:          store,
		Editor:         editor.New(model.DefaultSchema()),
		Themes:         themes,
		Gate:           gate,
		PDF:            export.NewPDFExporter(infra.NewChromedpRenderer(cfg.ChromePath, cfg.PDFPaper), gate, cfg.PDFPaper, cfg.MinifyExport),
		AutosaveWindow: cfg.AutosaveWindow,
		Metrics:        metrics,
		Paper:          cfg.PDFPaper,
		DefaultTheme:   cfg.DefaultTheme,
	}
	if cfg.AIServiceURL != "" {
		opts.AI = ai.NewClient(ai.Options{
			BaseURL:      cfg.AIServiceURL,
			TemplatesURL: cfg.TemplatesURL,
			RetryMax:     cfg.AIRetryMax,
			Timeout:      cfg.AITimeout,
		})
	}
	ws := usecase.NewWorkspace(opts)

	app := httpadapter.NewApp(httpadapter.NewHandler(ws, reg), true)

	go func() {
		slog.Info("Listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			slog.Error("Server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("Shutdown failed", "err", err)
	}
	ws.Close()
}
