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
	DB struct {
		DSN string
	}
	Telegram struct {
		BotToken  string
		RateLimit int // messages per second
	}
	Kafka struct {
		Broker string
		Topic  string
	}
	API struct {
		Port     string
		BasePath string
	}
	Logging struct {
		Dir   string
		Level string
	}
	Alert struct {
		Ceiling        int           // max alerts inside the ceiling window
		CeilingWindow  time.Duration // trailing window for the ceiling count
		StaleThreshold time.Duration // age after which the sweeper closes an alert
	}
	// Location is the provider-local timezone; alert timestamps, page texts
	// and the sweeper all use it.
	Location *time.Location
}

// Load reads environment variables, applies defaults, and returns a Config.
func Load() (Config, error) {
	// Load .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config

	cfg.DB.DSN = os.Getenv("DB_DSN")
	cfg.Telegram.BotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	if rl, err := strconv.Atoi(os.Getenv("TELEGRAM_RATE_LIMIT")); err == nil {
		cfg.Telegram.RateLimit = rl
	}

	cfg.Kafka.Broker = os.Getenv("KAFKA_BROKER")
	cfg.Kafka.Topic = os.Getenv("KAFKA_TOPIC")

	cfg.API.Port = os.Getenv("API_PORT")
	cfg.API.BasePath = os.Getenv("API_BASE_PATH")

	cfg.Logging.Dir = os.Getenv("LOG_DIR")
	cfg.Logging.Level = os.Getenv("LOG_LEVEL")

	if c, err := strconv.Atoi(os.Getenv("ALERT_CEILING")); err == nil {
		cfg.Alert.Ceiling = c
	}
	if w, err := strconv.Atoi(os.Getenv("ALERT_WINDOW_MINUTES")); err == nil {
		cfg.Alert.CeilingWindow = time.Duration(w) * time.Minute
	}
	if s, err := strconv.Atoi(os.Getenv("ALERT_STALE_MINUTES")); err == nil {
		cfg.Alert.StaleThreshold = time.Duration(s) * time.Minute
	}

	// Validate required settings
	missing := []string{}
	if cfg.DB.DSN == "" {
		missing = append(missing, "DB_DSN")
	}
	if cfg.Telegram.BotToken == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if cfg.Kafka.Broker == "" {
		missing = append(missing, "KAFKA_BROKER")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required configurations: %v", missing)
	}

	// Timezone the paged audience lives in; the sweeper and all displayed
	// timestamps use it, never UTC.
	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		tz = "Local"
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return Config{}, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	// Apply defaults
	if cfg.Kafka.Topic == "" {
		cfg.Kafka.Topic = "alert_lifecycle"
	}
	if cfg.API.Port == "" {
		cfg.API.Port = ":8080"
	}
	if cfg.API.BasePath == "" {
		cfg.API.BasePath = "/api/v0"
	}
	if cfg.Logging.Dir == "" {
		cfg.Logging.Dir = "logs"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Telegram.RateLimit == 0 {
		cfg.Telegram.RateLimit = 25
	}
	if cfg.Alert.Ceiling == 0 {
		cfg.Alert.Ceiling = 2
	}
	if cfg.Alert.CeilingWindow == 0 {
		cfg.Alert.CeilingWindow = 30 * time.Minute
	}
	if cfg.Alert.StaleThreshold == 0 {
		cfg.Alert.StaleThreshold = 60 * time.Minute
	}

	return cfg, nil
}
