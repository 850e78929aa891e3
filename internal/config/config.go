// Package config loads the application configuration from environment variables.
package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	BackendURL    string `env:"MD_BACKEND_URL,required"`
	SessionSecret string `env:"MD_SESSION_SECRET,required"`
	DBPath        string `env:"MD_DB_PATH" envDefault:"./data/memberdesk.db"`
	ServerHost    string `env:"MD_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"MD_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"MD_ENV" envDefault:"development"`
	LogLevel      string `env:"MD_LOG_LEVEL" envDefault:"info"`

	// MembersPerPage is the page size used by the members moderation view.
	MembersPerPage int `env:"MD_MEMBERS_PER_PAGE" envDefault:"10"`

	// AuditRetentionDays controls how long audit log rows are kept.
	AuditRetentionDays int `env:"MD_AUDIT_RETENTION_DAYS" envDefault:"90"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	u, err := url.Parse(cfg.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("MD_BACKEND_URL must be an absolute URL, got %q", cfg.BackendURL)
	}
	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("MD_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("MD_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if cfg.MembersPerPage < 1 {
		cfg.MembersPerPage = 10
	}
	if cfg.AuditRetentionDays < 1 {
		cfg.AuditRetentionDays = 90
	}

	return cfg, nil
}
