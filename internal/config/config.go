package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(NewConfig),
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	ServerPort    int    `env:"PORT" envDefault:"8080"`
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:"0.0.0.0"`
	Environment   string `env:"ENVIRONMENT" envDefault:"local"`
	Debug         bool   `env:"DEBUG" envDefault:"false"`
	LogLevel      string `env:"LOG_LEVEL" envDefault:"info"`

	CORSOrigin string `env:"CORS_ORIGIN" envDefault:"*"`

	// HTTPAccessLogPath, when set, is where the HTTPLogger appends one
	// line per request in addition to the structured slog line. Blank
	// disables it.
	HTTPAccessLogPath string `env:"HTTP_ACCESS_LOG_PATH" envDefault:""`

	Database  DatabaseConfig
	Auth      AuthConfig
	LiveKit   LiveKitConfig
	RateLimit RateLimitConfig
	Mailgun   MailgunConfig
	Storage   StorageConfig
	Dialing   DialingConfig

	// Server timeouts
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string        `env:"POSTGRES_HOST" envDefault:"localhost"`
	Port         int           `env:"POSTGRES_PORT" envDefault:"5432"`
	User         string        `env:"POSTGRES_USER" envDefault:"dialer"`
	Password     string        `env:"POSTGRES_PASSWORD" envDefault:""`
	Database     string        `env:"POSTGRES_DB" envDefault:"dialer"`
	SSLMode      string        `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxIdleTime  time.Duration `env:"DB_MAX_IDLE_TIME" envDefault:"5m"`
	QueryDebug   bool          `env:"DB_QUERY_DEBUG" envDefault:"false"`
}

// DSN returns the PostgreSQL connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Database, d.SSLMode,
	)
}

// AuthConfig holds bearer-token verification settings.
type AuthConfig struct {
	// JWTPublicKey is the PEM-encoded RSA public key used to verify
	// inbound bearer tokens (RS256).
	JWTPublicKey string `env:"JWT_PUBLIC_KEY" envDefault:""`
	// SystemAdminAccountID is the well-known account id allowed to cross
	// tenant boundaries.
	SystemAdminAccountID string `env:"SYSTEM_ADMIN_ACCOUNT_ID" envDefault:"00000000-0000-0000-0000-00000000b40d"`
	// DebugToken, when set and Debug is enabled, bypasses verification —
	// local development only.
	DebugToken string `env:"AUTH_DEBUG_TOKEN" envDefault:""`
}

// LiveKitConfig holds telephony fabric credentials.
type LiveKitConfig struct {
	URL              string        `env:"LIVEKIT_URL" envDefault:""`
	APIKey           string        `env:"LIVEKIT_API_KEY" envDefault:""`
	APISecret        string        `env:"LIVEKIT_API_SECRET" envDefault:""`
	OutboundTrunkID  string        `env:"LIVEKIT_OUTBOUND_TRUNK_ID" envDefault:""`
	InboundTrunkID   string        `env:"LIVEKIT_INBOUND_TRUNK_ID" envDefault:""`
	CallTimeout      time.Duration `env:"LIVEKIT_CALL_TIMEOUT" envDefault:"30s"`
	DefaultAgentName string        `env:"LIVEKIT_DEFAULT_AGENT_NAME" envDefault:"system-default-agent"`
}

// RateLimitConfig configures the per-tenant API rate limiter.
type RateLimitConfig struct {
	WindowMS    int `env:"RATE_LIMIT_WINDOW_MS" envDefault:"60000"`
	MaxRequests int `env:"RATE_LIMIT_MAX_REQUESTS" envDefault:"600"`
}

// Window returns the configured rate-limit window as a Duration.
func (r RateLimitConfig) Window() time.Duration {
	return time.Duration(r.WindowMS) * time.Millisecond
}

// MailgunConfig configures campaign-completion email notifications.
type MailgunConfig struct {
	Domain    string `env:"MAILGUN_DOMAIN" envDefault:""`
	APIKey    string `env:"MAILGUN_API_KEY" envDefault:""`
	FromEmail string `env:"MAILGUN_FROM_EMAIL" envDefault:"campaigns@outboundhq.example"`
	FromName  string `env:"MAILGUN_FROM_NAME" envDefault:"Outbound Campaigns"`
	// NotifyEmail is the fallback operator mailbox used for
	// campaign-completed/campaign-failed notifications when the owning
	// tenant (tenants.Tenant.NotificationEmail) has not set its own.
	NotifyEmail string `env:"MAILGUN_NOTIFY_EMAIL" envDefault:""`
}

// Configured reports whether Mailgun credentials are present. A recipient
// (tenant or fallback) is resolved separately at send time.
func (m MailgunConfig) Configured() bool {
	return m.Domain != "" && m.APIKey != ""
}

// StorageConfig configures the optional S3-backed recording reference check.
type StorageConfig struct {
	RecordingsBucket string `env:"RECORDINGS_BUCKET" envDefault:""`
	Region           string `env:"AWS_REGION" envDefault:"us-east-1"`
}

// Configured reports whether a recordings bucket is set.
func (s StorageConfig) Configured() bool {
	return s.RecordingsBucket != ""
}

// DialingConfig holds destination-normalization policy: the
// default-country-code policy is made an explicit, fail-closed knob
// rather than a silent historical default.
type DialingConfig struct {
	// DefaultCountryCode is prepended to numbers that match none of the
	// explicit heuristics (leading "+", "91" national prefix, 10-digit
	// NANP). Empty means "fail closed": ambiguous numbers are rejected
	// as a Validation error instead of guessed at.
	DefaultCountryCode string `env:"DEFAULT_COUNTRY_CODE" envDefault:""`
}

// NewConfig loads configuration from environment variables
func NewConfig(log *slog.Logger) (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	log.Info("configuration loaded",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.ServerPort),
		slog.String("db_host", cfg.Database.Host),
	)

	return cfg, nil
}
