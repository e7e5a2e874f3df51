package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ccraze049/ai/internal/chat"
	"github.com/ccraze049/ai/internal/config"
	"github.com/ccraze049/ai/internal/knowledge"
	"github.com/ccraze049/ai/internal/learning"
	"github.com/ccraze049/ai/internal/logging"
	"github.com/ccraze049/ai/internal/logic"
	"github.com/ccraze049/ai/internal/scheduler"
	"github.com/ccraze049/ai/internal/storage"
	"github.com/ccraze049/ai/internal/telegram"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	cfg := config.New()
	if cfg.TelegramBotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	logger, err := logging.New(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Fatal("failed to open knowledge store", zap.Error(err))
	}
	defer closeStore()

	index := knowledge.NewIndex(store, cfg.IndexFreshness, time.Now)
	if err := index.Rebuild(); err != nil {
		logger.Fatal("failed to build search index", zap.Error(err))
	}
	base := knowledge.NewBase(store, index, logger)
	learner := learning.NewManager(base, logger)

	datasets := logic.NewDatasetCache(cfg.DatasetTTL, cfg.DatasetCapacity, nil)
	engine := chat.NewEngine(
		logic.New(datasets), base, learner, logger,
		chat.WithHistoryWindow(cfg.HistoryWindow),
	)

	var rec storage.Recorder
	if cfg.LogFilePath != "" {
		fr, err := storage.NewFileRecorder(cfg.LogFilePath)
		if err != nil {
			logger.Warn("failed to init interaction recorder", zap.Error(err))
		} else {
			rec = fr
		}
	}

	sched := scheduler.New(logger)
	if err := sched.AddSweep(cfg.SweepSchedule, datasets.Sweep); err != nil {
		logger.Fatal("failed to schedule dataset sweep", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	bot, err := telegram.New(cfg.TelegramBotToken, engine, rec, logger)
	if err != nil {
		logger.Fatal("failed to create bot", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("bot started")
	bot.Start(ctx)
	logger.Info("bot stopped")
}

func openStore(cfg *config.Config) (knowledge.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		s, err := knowledge.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case config.BackendFile:
		s, err := knowledge.NewFileStore(cfg.KnowledgeFilePath)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %q", cfg.StoreBackend)
	}
}
