package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// MinSessionSecretLength is enforced outside development; the cookie store
// signs sessions with this key.
const MinSessionSecretLength = 32

// Config is read from the environment (and .env files, see Load).
type Config struct {
	DBDSN         string `env:"DB_DSN,notEmpty"`
	Port          string `env:"APP_PORT" envDefault:"8080"`
	Env           string `env:"APP_ENV" envDefault:"development"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`
	SessionSecret string `env:"SESSION_SECRET"`
	ViewsGlob     string `env:"VIEWS_GLOB" envDefault:"internal/views/**/*.tmpl"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	// Supabase auth (GoTrue). Without a URL every non-admin sign-in fails.
	SupabaseURL     string `env:"SUPABASE_URL"`
	SupabaseAnonKey string `env:"SUPABASE_ANON_KEY"`

	// Single administrator shortcut. Both must be set to enable it.
	AdminEmail        string `env:"ADMIN_EMAIL"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	RedisURL    string        `env:"REDIS_URL"`
	CachePrefix string        `env:"CACHE_PREFIX" envDefault:"roomify:"`
	CacheTTL    time.Duration `env:"CACHE_TTL" envDefault:"5m"`
}

func (c Config) IsDevelopment() bool { return c.Env == "development" }

func (c Config) Addr() string { return ":" + c.Port }

// AdminShortcutEnabled reports whether the configured admin pair may bypass
// the external auth service.
func (c Config) AdminShortcutEnabled() bool {
	return c.AdminEmail != "" && c.AdminPasswordHash != ""
}

func (c Config) UseRedisCache() bool { return c.RedisURL != "" }

// Load reads .env from the working directory and its parents (so the server
// can be started from cmd/server too) and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Overload(".env", "../.env", "../../.env")
	return Parse()
}

// Parse parses the process environment without touching .env files.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.SessionSecret == "" {
		if !c.IsDevelopment() {
			return errors.New("SESSION_SECRET is required outside development")
		}
		c.SessionSecret = "dev_fallback_secret_dev_fallback_"
	}
	if !c.IsDevelopment() && len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes long, got %d",
			MinSessionSecretLength, len(c.SessionSecret))
	}
	if (c.AdminEmail == "") != (c.AdminPasswordHash == "") {
		return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD_HASH must be set together")
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	return nil
}
