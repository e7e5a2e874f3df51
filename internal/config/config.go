package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v6"
)

type StoreBackend string

const (
	BackendFile   StoreBackend = "file"
	BackendSQLite StoreBackend = "sqlite"
)

type Config struct {
	HTTPPort int  `env:"HTTP_PORT" envDefault:"8080"`
	Debug    bool `env:"DEBUG" envDefault:"false"`

	// Telegram gateway (cmd/bot only)
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`

	// Knowledge storage
	StoreBackend      StoreBackend `env:"STORE_BACKEND" envDefault:"file"`
	KnowledgeFilePath string       `env:"KNOWLEDGE_FILE_PATH" envDefault:"data/knowledge.json"`
	SQLitePath        string       `env:"SQLITE_PATH" envDefault:"data/knowledge.db"`

	// Interaction log (analytics source)
	LogFilePath string `env:"LOG_FILE_PATH" envDefault:"logs/interactions.jsonl"`

	// Engine tuning
	HistoryWindow   int           `env:"HISTORY_WINDOW" envDefault:"20"`
	IndexFreshness  time.Duration `env:"INDEX_FRESHNESS" envDefault:"5s"`
	DatasetTTL      time.Duration `env:"DATASET_TTL" envDefault:"30m"`
	DatasetCapacity int           `env:"DATASET_CAPACITY" envDefault:"1024"`

	// Maintenance
	SweepSchedule string `env:"SWEEP_SCHEDULE" envDefault:"@every 5m"`
}

func New() *Config {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	return cfg
}
