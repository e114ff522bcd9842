package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment variables.
type Config struct {
	Env               string
	HTTPPort          int
	ShutdownTimeout   time.Duration
	ReadHeaderTimeout time.Duration

	DataBackend string

	DatabaseDriver    string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnMaxIdleTime time.Duration

	GoogleAPIKey   string
	GeminiModel    string
	GeminiProModel string

	PipelineSchedule   string
	PipelineRunOnStart bool

	SessionCookieTTL time.Duration
}

const (
	defaultEnv               = "development"
	defaultHTTPPort          = 8080
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second

	defaultDataBackend = "memory"

	defaultDatabaseDriver    = "pgx"
	defaultDBMaxOpenConns    = 10
	defaultDBMaxIdleConns    = 5
	defaultDBConnMaxLifetime = time.Hour
	defaultDBConnMaxIdleTime = 30 * time.Minute

	defaultGeminiModel    = "gemini-1.5-flash"
	defaultGeminiProModel = "gemini-1.5-pro"

	defaultPipelineSchedule = "*/10 * * * *"

	defaultSessionCookieTTL = 30 * 24 * time.Hour
)

// Load reads configuration values from the environment, applying defaults
// where necessary. A .env file in the working directory is read first so a
// copied .env.example is enough to configure a local checkout.
func Load() (Config, error) {
	// Missing .env is fine: real deployments export variables directly.
	_ = godotenv.Load()

	cfg := Config{
		Env:               getEnv("APP_ENV", defaultEnv),
		HTTPPort:          getInt("HTTP_PORT", defaultHTTPPort),
		ShutdownTimeout:   getDuration("SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		ReadHeaderTimeout: getDuration("READ_HEADER_TIMEOUT", defaultReadHeaderTimeout),

		DataBackend: getEnv("DATA_BACKEND", defaultDataBackend),

		DatabaseDriver:    getEnv("DATABASE_DRIVER", defaultDatabaseDriver),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", defaultDBMaxOpenConns),
		DBMaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", defaultDBMaxIdleConns),
		DBConnMaxLifetime: getDuration("DB_CONN_MAX_LIFETIME", defaultDBConnMaxLifetime),
		DBConnMaxIdleTime: getDuration("DB_CONN_MAX_IDLE_TIME", defaultDBConnMaxIdleTime),

		GoogleAPIKey:   os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:    getEnv("GEMINI_MODEL", defaultGeminiModel),
		GeminiProModel: getEnv("GEMINI_PRO_MODEL", defaultGeminiProModel),

		PipelineSchedule:   getEnv("PIPELINE_SCHEDULE", defaultPipelineSchedule),
		PipelineRunOnStart: getBool("PIPELINE_RUN_ON_START", false),

		SessionCookieTTL: getDuration("SESSION_COOKIE_TTL", defaultSessionCookieTTL),
	}

	switch cfg.DataBackend {
	case "memory":
		// no-op
	case "postgres":
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when DATA_BACKEND=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown DATA_BACKEND value: %s", cfg.DataBackend)
	}

	return cfg, nil
}

// AIEnabled reports whether a Gemini API key is configured. Without a key the
// service runs with moderation passing through and the grouping pipeline idle.
func (c Config) AIEnabled() bool {
	return c.GoogleAPIKey != ""
}

func getEnv(key string, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}
