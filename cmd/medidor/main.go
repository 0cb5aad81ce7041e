package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/dmaraschin/medidor/internal/config"
	"github.com/dmaraschin/medidor/internal/db"
	"github.com/dmaraschin/medidor/internal/extract/gemini"
	"github.com/dmaraschin/medidor/internal/logging"
	"github.com/dmaraschin/medidor/internal/service"
	stagelocal "github.com/dmaraschin/medidor/internal/stage/local"
	"github.com/dmaraschin/medidor/internal/store"
	"github.com/dmaraschin/medidor/internal/web"
)

func main() {
	cfg := config.Load()

	logger, cleanup, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer cleanup()

	if cfg.GeminiAPIKey == "" {
		logger.Error("GEMINI_API_KEY is required")
		return
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		return
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	stager, err := stagelocal.NewLocalStager(cfg.StagePath)
	if err != nil {
		logger.Error("failed to initialize stage directory", "error", err)
		return
	}

	measureStore := store.NewMeasureStore(database)
	extractor := gemini.NewClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	measureService := service.NewMeasureService(measureStore, extractor, stager, cfg.ExtractTimeout, logger)
	server := web.NewServer(measureService, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.ListenAndServe(ctx, cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
	}
}
