package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"ai-event-planner/internal/app"
	"ai-event-planner/internal/config"
	"ai-event-planner/internal/database"
	"ai-event-planner/internal/llm"
	"ai-event-planner/internal/logger"
	"ai-event-planner/internal/metrics"
	"ai-event-planner/internal/planner"
	"ai-event-planner/internal/storage"

	"go.uber.org/zap"
)

// deps is everything a command may need, built once per process.
type deps struct {
	cfg     *config.Config
	log     *zap.Logger
	client  llm.Client
	db      *database.DB
	metrics *metrics.Store
	plans   *storage.PlanStore
	app     *app.App
}

func (d *deps) Close() {
	if d.client != nil {
		d.client.Close()
	}
	if d.db != nil {
		d.db.Close()
	}
	if d.log != nil {
		_ = d.log.Sync()
	}
}

// loadConfig reads the configuration, including the model key, or exits with the error
// on stderr.
func loadConfig(path string) *config.Config {
	return mustConfig(config.Load(path))
}

// readConfig is loadConfig for commands that never call the model.
func readConfig(path string) *config.Config {
	return mustConfig(config.Read(path))
}

func mustConfig(cfg *config.Config, err error) *config.Config {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger builds the process logger. defaultPath is used when LOG_FILE is unset.
func newLogger(cfg *config.Config, defaultPath string) (*zap.Logger, error) {
	out := cfg.Log.File
	if out == "" {
		out = defaultPath
	}
	if out != "" && out != "stdout" && out != "stderr" {
		if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	return logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Encoding:   cfg.Log.Encoding,
		OutputPath: out,
	})
}

// openMetrics opens the SQLite database and its metrics store.
func openMetrics(cfg *config.Config) (*database.DB, *metrics.Store, error) {
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return db, metrics.NewStore(db.SQL), nil
}

// buildDeps wires the model client, metrics and export store into an App.
func buildDeps(ctx context.Context, cfg *config.Config, log *zap.Logger, exportDir string) (*deps, error) {
	d := &deps{cfg: cfg, log: log}

	client, err := llm.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	d.client = client

	d.db, d.metrics, err = openMetrics(cfg)
	if err != nil {
		d.Close()
		return nil, err
	}

	if exportDir != "" {
		d.plans, err = storage.NewPlanStore(exportDir)
		if err != nil {
			d.Close()
			return nil, err
		}
	}

	var exporter app.Exporter
	if d.plans != nil {
		exporter = d.plans
	}
	d.app = app.NewApp(planner.NewPlanner(client), d.metrics, exporter, log)

	log.Info("Event planner ready",
		zap.String("provider", cfg.Provider),
		zap.String("model", cfg.Model()),
		zap.String("database", cfg.DatabasePath),
	)
	return d, nil
}
