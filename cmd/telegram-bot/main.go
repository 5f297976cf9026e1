package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-event-planner/internal/app"
	"ai-event-planner/internal/config"
	"ai-event-planner/internal/database"
	"ai-event-planner/internal/llm"
	"ai-event-planner/internal/logger"
	"ai-event-planner/internal/metrics"
	"ai-event-planner/internal/planner"
	"ai-event-planner/internal/storage"
	"ai-event-planner/internal/telegram"

	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "", "TOML configuration file")
	flag.Parse()

	// 1. Load Configuration
	cfg, err := config.Load(*cfgPath)
	if err == nil {
		err = cfg.ValidateTelegram()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{Level: cfg.Log.Level, Encoding: cfg.Log.Encoding, OutputPath: cfg.Log.File})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	// 2. Model client
	client, err := llm.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to create LLM client", zap.Error(err))
	}
	defer client.Close()

	// 3. Metrics database
	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()
	metricsStore := metrics.NewStore(db.SQL)

	plans, err := storage.NewPlanStore(cfg.ExportDir)
	if err != nil {
		log.Fatal("Failed to initialize plan store", zap.Error(err))
	}

	// 4. Services
	application := app.NewApp(planner.NewPlanner(client), metricsStore, plans, log)

	bot, err := telegram.NewBot(cfg, application, metricsStore, log)
	if err != nil {
		log.Fatal("Failed to initialize Telegram Bot", zap.Error(err))
	}

	// 5. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:              ":" + cfg.Telegram.Port,
		Handler:           bot.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("Telegram Bot Server listening", zap.String("port", cfg.Telegram.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	go sweepSessions(bot, log)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exiting")
}

// sweepSessions drops idle chats periodically so memory does not grow with every visitor.
func sweepSessions(bot *telegram.Bot, log *zap.Logger) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		if n := bot.Sessions().Sweep(); n > 0 {
			log.Debug("Expired idle chats", zap.Int("count", n))
		}
	}
}
