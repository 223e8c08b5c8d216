package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment.
type Config struct {
	API struct {
		Port     string
		BasePath string
	}
	DB struct {
		DSN string
	}
	Thresholds struct {
		Moderate int
		Critical int
	}
	Snooze struct {
		Duration time.Duration
	}
	Twilio struct {
		AccountSID          string
		AuthToken           string
		MessagingServiceSID string
	}
	Telegram struct {
		BotToken string
		ChatID   int64
	}
	Kafka struct {
		Broker  string
		Topic   string
		GroupID string
	}
	Dispatch struct {
		QueueSize  int
		MaxWorkers int
	}
	Logging struct {
		Dir   string
		Level string
	}
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	cfg.DB.DSN = os.Getenv("DATABASE_URL")

	cfg.Thresholds.Moderate = intEnv("THRESHOLD_MODERATE", 400)
	cfg.Thresholds.Critical = intEnv("THRESHOLD_CRITICAL", 700)
	cfg.Snooze.Duration = time.Duration(intEnv("SNOOZE_MINUTES", 45)) * time.Minute

	cfg.Twilio.AccountSID = os.Getenv("TWILIO_ACCOUNT_SID")
	cfg.Twilio.AuthToken = os.Getenv("TWILIO_AUTH_TOKEN")
	cfg.Twilio.MessagingServiceSID = os.Getenv("TWILIO_MESSAGING_SERVICE_SID")

	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if id, err := strconv.ParseInt(os.Getenv("TELEGRAM_CHAT_ID"), 10, 64); err == nil {
		cfg.Telegram.ChatID = id
	}

	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")
	cfg.Kafka.GroupID = os.Getenv("KAFKA_GROUP_ID")

	cfg.Dispatch.QueueSize = intEnv("QUEUE_SIZE", 500)
	cfg.Dispatch.MaxWorkers = intEnv("MAX_WORKERS", 10)

	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	// Validate required settings
	missing := []string{}
	if cfg.DB.DSN == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}
	if cfg.Thresholds.Moderate > cfg.Thresholds.Critical {
		return Config{}, fmt.Errorf("THRESHOLD_MODERATE (%d) must not exceed THRESHOLD_CRITICAL (%d)",
			cfg.Thresholds.Moderate, cfg.Thresholds.Critical)
	}

	// Apply defaults
	if cfg.API.Port == "" {
		cfg.API.Port = ":3000"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api"
	}
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "sensor_readings"
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = "auracheck-server"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}

// SMSConfigured reports whether the Twilio channel has everything it needs.
func (c Config) SMSConfigured() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" && c.Twilio.MessagingServiceSID != ""
}

func intEnv(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
