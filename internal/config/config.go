// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Mail drivers accepted by MAIL_DRIVER.
const (
	MailDriverLocal = "local"
	MailDriverSMTP  = "smtp"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Env is the deployment environment name. Logged at startup only.
	Env string `env:"APP_ENV" env-default:"development"`

	// Port is the TCP port the HTTP server listens on.
	Port string `env:"PORT" env-default:"8080"`

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string `env:"DATABASE_URL"`

	// LogLevel controls the minimum log level.
	// Valid values: debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" env-default:"info"`

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string `env:"CORS_ORIGINS" env-separator:"," env-default:"http://localhost:5173"`

	// MigrateOnStart applies pending goose migrations before serving.
	MigrateOnStart bool `env:"MIGRATE_ON_START" env-default:"true"`

	// MaxBodyBytes caps request bodies; larger requests get 413.
	MaxBodyBytes int64 `env:"MAX_BODY_BYTES" env-default:"1048576"`

	HTTP      HTTP
	RateLimit RateLimit
	Auth      Auth
	Mail      Mail
}

// HTTP holds http.Server timeouts.
type HTTP struct {
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"10s"`
	IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"15s"`
}

// RateLimit configures the per-IP limiter. Requests == 0 disables it.
type RateLimit struct {
	Requests int           `env:"RATE_LIMIT_REQUESTS" env-default:"100"`
	Window   time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"1m"`
}

// Auth configures bearer token validation on /api. An empty SecretForKey
// leaves the API open.
type Auth struct {
	SecretForKey string `env:"AUTH_SECRET_FOR_KEY"`
	Issuer       string `env:"AUTH_ISSUER"`
	Audience     string `env:"AUTH_AUDIENCE"`

	// RequiredCity, when set, requires the token's "city" claim to equal it.
	RequiredCity string `env:"AUTH_REQUIRED_CITY"`
}

// Enabled reports whether bearer token validation is configured.
func (a Auth) Enabled() bool { return a.SecretForKey != "" }

// Mail configures the notification channel.
type Mail struct {
	Driver   string `env:"MAIL_DRIVER" env-default:"local"`
	From     string `env:"MAIL_FROM" env-default:"noreply@cityinfo.local"`
	To       string `env:"MAIL_TO" env-default:"admin@cityinfo.local"`
	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort int    `env:"SMTP_PORT" env-default:"587"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("config.Load: %w", err)
	}
	cfg.CORSOrigins = trimAll(cfg.CORSOrigins)

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	switch cfg.Mail.Driver {
	case MailDriverLocal:
	case MailDriverSMTP:
		if cfg.Mail.SMTPHost == "" {
			missing = append(missing, "SMTP_HOST")
		}
	default:
		return Config{}, fmt.Errorf("config.Load: unknown MAIL_DRIVER %q (want %s or %s)",
			cfg.Mail.Driver, MailDriverLocal, MailDriverSMTP)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// trimAll trims every entry, dropping the empty ones.
func trimAll(parts []string) []string {
	var out []string
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
