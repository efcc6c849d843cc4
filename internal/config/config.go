package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSessionSecret = "logineko-admin-dev-secret-change-me"

// Config holds application configuration
type Config struct {
	ServerPort      string
	APIBaseURL      string
	APITimeout      time.Duration
	DatabaseType    string // sqlite, postgres, mysql
	DatabasePath    string // sqlite file
	DatabaseURL     string // postgres/mysql DSN
	MigrationsPath  string
	TemplatesPath   string
	StaticFilesPath string
	SessionSecret   string
	UploadMaxSize   int64
	LoginRateLimit  int // attempts per minute per client IP
	TracingEnabled  bool
	StatsYear       int
}

// Load reads configuration from environment variables with sensible defaults.
// A .env and .env.local file in the working directory are loaded first when
// present; variables already set in the environment win.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		ServerPort:      getEnv("PORT", "8080"),
		APIBaseURL:      strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8081"), "/"),
		APITimeout:      getDuration("API_TIMEOUT", 30*time.Second),
		DatabaseType:    strings.ToLower(getEnv("DB_TYPE", "sqlite")),
		DatabasePath:    getEnv("DB_PATH", "./logineko-admin.db"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./migrations"),
		TemplatesPath:   getEnv("TEMPLATES_PATH", "./internal/templates"),
		StaticFilesPath: getEnv("STATIC_PATH", "./static"),
		SessionSecret:   getEnv("SESSION_SECRET", defaultSessionSecret),
		UploadMaxSize:   getInt64("UPLOAD_MAX_SIZE", 256*1024*1024), // 256MB, videos included
		LoginRateLimit:  int(getInt64("LOGIN_RATE_LIMIT", 10)),
		TracingEnabled:  getBool("TRACING_ENABLED", false),
		StatsYear:       int(getInt64("STATS_YEAR", int64(time.Now().Year()))),
	}

	u, err := url.Parse(cfg.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("API_BASE_URL must be an absolute URL, got %q", cfg.APIBaseURL)
	}

	switch cfg.DatabaseType {
	case "sqlite", "sqlite3":
	case "postgres", "postgresql", "mysql":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for DB_TYPE=%s", cfg.DatabaseType)
		}
	default:
		return nil, fmt.Errorf("unsupported DB_TYPE: %s", cfg.DatabaseType)
	}

	return cfg, nil
}

// UsesDefaultSecret reports whether SESSION_SECRET was left unset.
func (c *Config) UsesDefaultSecret() bool {
	return c.SessionSecret == defaultSessionSecret
}

func loadDotEnv() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", name, err)
		}
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
