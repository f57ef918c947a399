package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config holds every setting the server reads from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL takes precedence over the discrete DB_* variables when set.
	DatabaseURL    string `env:"DATABASE_URL"`
	DBHost         string `env:"DB_HOST" envDefault:"localhost"`
	DBPort         string `env:"DB_PORT" envDefault:"5432"`
	DBUser         string `env:"DB_USER" envDefault:"postgres"`
	DBPassword     string `env:"DB_PASSWORD" envDefault:"postgres"`
	DBName         string `env:"DB_NAME" envDefault:"fraud_report_db"`
	DBSSLMode      string `env:"DB_SSLMODE" envDefault:"disable"`
	DBSchemaPath   string `env:"DB_SCHEMA_PATH"`
	DBMaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	DBMaxIdleConns int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`

	SessionSecret        string        `env:"SESSION_SECRET"`
	SessionTTL           time.Duration `env:"SESSION_TTL" envDefault:"12h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"10m"`
	SessionMax           int           `env:"SESSION_MAX" envDefault:"1000"`

	// SearchResultLimit caps search results; 0 returns every match.
	SearchResultLimit int `env:"SEARCH_RESULT_LIMIT" envDefault:"0"`

	KeepAliveEnabled   bool          `env:"KEEPALIVE_ENABLED" envDefault:"true"`
	KeepAliveInterval  time.Duration `env:"KEEPALIVE_INTERVAL" envDefault:"1h"`
	KeepAliveMinGap    time.Duration `env:"KEEPALIVE_MIN_GAP" envDefault:"24h"`
	KeepAliveStatePath string        `env:"KEEPALIVE_STATE_PATH" envDefault:"data/keepalive.json"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// Load reads the optional .env files (defaults to ./.env) and then parses the process environment.
// Variables already present in the environment are never overridden by the files.
func Load(files ...string) (*Config, error) {
	// A missing .env is the normal case in deployed environments.
	_ = godotenv.Load(files...)

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.SearchResultLimit < 0 {
		return nil, fmt.Errorf("SEARCH_RESULT_LIMIT must not be negative, got %d", cfg.SearchResultLimit)
	}
	if cfg.SessionMax <= 0 {
		return nil, fmt.Errorf("SESSION_MAX must be positive, got %d", cfg.SessionMax)
	}
	if cfg.KeepAliveInterval <= 0 || cfg.KeepAliveMinGap <= 0 {
		return nil, fmt.Errorf("KEEPALIVE_INTERVAL and KEEPALIVE_MIN_GAP must be positive")
	}
	return cfg, nil
}

// DSN returns the lib/pq connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: url.Values{"sslmode": []string{c.DBSSLMode}}.Encode(),
	}
	return u.String()
}
