package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// ErrMissingSecret is returned when a required secret is absent from the environment.
var ErrMissingSecret = errors.New("missing required secret")

const (
	defaultOWMBaseURL       = "https://api.openweathermap.org/data/2.5/weather"
	defaultOWMLang          = "uz"
	defaultOWMTimeout       = 10 * time.Second
	defaultWorkerCount      = 5
	defaultDBName           = "weather_bot"
	defaultLookupCollection = "lookups"
	defaultHistoryRetention = 30 * 24 * time.Hour
)

// Config holds the application configuration
type Config struct {
	TelegramToken string
	TelegramDebug bool

	OWMAPIKey     string
	OWMAPIBaseURL string
	OWMLang       string
	OWMTimeout    time.Duration

	AppEnv      string
	LogLevel    slog.Level
	WorkerCount int
	HealthAddr  string

	MongoURI          string
	MongoAuthDB       string
	DBBot             string
	CollectionLookups string
	HistoryRetention  time.Duration
}

// HistoryEnabled reports whether a MongoDB host was configured.
func (c *Config) HistoryEnabled() bool {
	return c.MongoURI != ""
}

// Load reads the .env file (if any) and builds the configuration from the environment.
func Load() (*Config, error) {
	// .env is optional; deployments inject the environment directly
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current process environment only.
func FromEnv() (*Config, error) {
	token, err := requireEnv("TELEGRAM_TOKEN")
	if err != nil {
		return nil, err
	}
	apiKey, err := requireEnv("OWM_API_KEY")
	if err != nil {
		return nil, err
	}

	appEnv := envOr("APP_ENV", "dev")
	switch appEnv {
	case "dev", "prod":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q (allowed: dev, prod)", appEnv)
	}

	level, err := parseLogLevel(envOr("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}

	timeout, err := durationEnv("OWM_TIMEOUT", defaultOWMTimeout)
	if err != nil {
		return nil, err
	}
	retention, err := durationEnv("HISTORY_RETENTION", defaultHistoryRetention)
	if err != nil {
		return nil, err
	}

	workers := defaultWorkerCount
	if raw := envOr("WORKER_COUNT", ""); raw != "" {
		workers, err = strconv.Atoi(raw)
		if err != nil || workers <= 0 {
			return nil, fmt.Errorf("invalid WORKER_COUNT %q: must be a positive integer", raw)
		}
	}

	debug := false
	if raw := envOr("TELEGRAM_DEBUG", ""); raw != "" {
		debug, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_DEBUG %q: %w", raw, err)
		}
	}

	return &Config{
		TelegramToken:     token,
		TelegramDebug:     debug,
		OWMAPIKey:         apiKey,
		OWMAPIBaseURL:     envOr("OWM_API_BASE_URL", defaultOWMBaseURL),
		OWMLang:           envOr("OWM_LANG", defaultOWMLang),
		OWMTimeout:        timeout,
		AppEnv:            appEnv,
		LogLevel:          level,
		WorkerCount:       workers,
		HealthAddr:        envOr("HEALTH_ADDR", ""),
		MongoURI:          getMongoURI(),
		MongoAuthDB:       envOr("MONGO_AUTH_DB", ""),
		DBBot:             envOr("DB_BOT_NAME", defaultDBName),
		CollectionLookups: envOr("COLLECTION_LOOKUPS", defaultLookupCollection),
		HistoryRetention:  retention,
	}, nil
}

// getMongoURI constructs the MongoDB URI from environment variables.
// An empty MONGO_HOST disables history.
func getMongoURI() string {
	host := envOr("MONGO_HOST", "")
	if host == "" {
		return ""
	}
	port := envOr("MONGO_PORT", "27017")
	user := envOr("MONGO_USER", "")
	pass := envOr("MONGO_PASS", "")

	if user == "" {
		return "mongodb://" + host + ":" + port
	}
	return "mongodb://" + user + ":" + pass + "@" + host + ":" + port
}

func requireEnv(key string) (string, error) {
	v := envOr(key, "")
	if v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingSecret, key)
	}
	return v, nil
}

func envOr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := envOr(key, "")
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be positive", key, raw)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
