package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyentantai21042004/scribe/internal/broadcast"
	"github.com/nguyentantai21042004/scribe/internal/config"
	"github.com/nguyentantai21042004/scribe/internal/gemini"
	"github.com/nguyentantai21042004/scribe/internal/httpapi"
	"github.com/nguyentantai21042004/scribe/internal/ingest"
	"github.com/nguyentantai21042004/scribe/internal/logger"
	"github.com/nguyentantai21042004/scribe/internal/metrics"
	"github.com/nguyentantai21042004/scribe/internal/sequencer"
	"github.com/nguyentantai21042004/scribe/internal/store"
	"github.com/nguyentantai21042004/scribe/internal/summarizer"
	"github.com/nguyentantai21042004/scribe/internal/transcoder"
	"github.com/nguyentantai21042004/scribe/internal/transcriber"
	"github.com/nguyentantai21042004/scribe/internal/watcher"
	"github.com/nguyentantai21042004/scribe/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info(ctx, "========================================")
	log.Info(ctx, "Scribe transcript service")
	log.Info(ctx, "========================================")
	log.Info(ctx, "System: %s/%s, CPU cores: %d", runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info(ctx, "Database: %s", cfg.Database.Driver)
	log.Info(ctx, "Model: %s (summary: %s), %d API key(s)", cfg.Gemini.Model, cfg.Gemini.SummaryModel, len(cfg.Gemini.APIKeys))
	log.Info(ctx, "Max concurrent transcodes: %d", cfg.Performance.MaxConcurrent)

	if err := ensureDirectories(cfg); err != nil {
		log.Error(ctx, "Failed to create directories: %v", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		log.Error(ctx, "Failed to open database: %v", err)
		os.Exit(1)
	}
	defer st.Close()

	m := metrics.NewMetrics(prometheus.DefaultRegisterer)
	hub := broadcast.New(log, m)

	client, err := gemini.New(ctx, cfg.Gemini.APIKeys, log)
	if err != nil {
		log.Error(ctx, "Failed to create Gemini client: %v", err)
		os.Exit(1)
	}

	tc := transcoder.New(cfg.FFmpeg, cfg.Paths.Temp, cfg.Performance.MaxConcurrent, executor.New(), log)
	if err := tc.Check(ctx); err != nil {
		log.Error(ctx, "%v", err)
		os.Exit(1)
	}

	seq := sequencer.New(st)
	pipeline := ingest.New(st, seq, tc, transcriber.New(client, cfg.Gemini.Model, log), hub, m, log)
	sum := summarizer.New(st, client, hub, seq, m, cfg.Gemini.SummaryModel, cfg.Paths.Temp, log)

	srv := httpapi.New(cfg.Server, httpapi.Deps{
		Pipeline:    pipeline,
		Summarizer:  sum,
		Store:       st,
		Broadcaster: hub,
		Metrics:     m,
		Gatherer:    prometheus.DefaultGatherer,
		SendBuffer:  cfg.Broadcast.SendBuffer,
	}, log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 2)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			errChan <- fmt.Errorf("http server: %w", err)
		}
	}()

	watcherDone := make(chan struct{})
	if cfg.Paths.Spool != "" {
		w, err := watcher.New(cfg.Paths.Spool, cfg.Paths.Failed, pipeline, log, cfg.Performance.MaxConcurrent, watcher.DefaultSettle)
		if err != nil {
			log.Error(ctx, "Failed to create watcher: %v", err)
			os.Exit(1)
		}
		defer w.Stop()

		go func() {
			defer close(watcherDone)
			if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				errChan <- fmt.Errorf("watcher: %w", err)
			}
		}()
		log.Info(ctx, "Spool: %s (failed chunks: %s)", cfg.Paths.Spool, cfg.Paths.Failed)
	} else {
		close(watcherDone)
	}

	log.Info(ctx, "Listening on %s. Press Ctrl+C to stop", cfg.Server.Address)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "%v", err)
	}

	log.Info(ctx, "Shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(shutdownCtx, "Error stopping HTTP server: %v", err)
	}
	<-watcherDone

	log.Info(shutdownCtx, "Scribe stopped")
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{cfg.Paths.Temp, cfg.Paths.Spool, cfg.Paths.Failed}
	if dir := sqliteDir(cfg.Database); dir != "" {
		dirs = append(dirs, dir)
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// sqliteDir returns the directory holding a file-backed sqlite database.
func sqliteDir(db config.DatabaseConfig) string {
	if db.Driver != store.DriverSQLite || strings.HasPrefix(db.DSN, ":memory:") {
		return ""
	}
	path := strings.TrimPrefix(db.DSN, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return filepath.Dir(path)
}
