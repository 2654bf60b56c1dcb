package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds runtime settings for the paperkeeper CLI.
type Config struct {
	// ServerBaseURL is the scheme://host[:port] of the papers API.
	ServerBaseURL string
	// IdentityEndpoint is the identity provider's account URL used to poll for
	// email verification. Polling is disabled when empty.
	IdentityEndpoint string
	// IDToken is the identity provider's token for the signed-in user.
	IDToken string

	PageSize        int
	SearchDebounce  time.Duration
	RefreshInterval time.Duration
	RequestTimeout  time.Duration

	// TrustServerOrder disables the client-side newest-first sort of list and
	// search responses.
	TrustServerOrder bool

	DBPath string

	LogFile    string
	LogLevel   string
	LogBackend string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:3000"
	c.PageSize = 10
	c.SearchDebounce = 500 * time.Millisecond
	c.RefreshInterval = 90 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.DBPath = "paperkeeper.db"
	c.LogLevel = "info"
	c.LogBackend = "slog"
}

// LoadConfig builds a Config from defaults, the optional config file,
// environment and the given command-line arguments (without the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that would make the client unusable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: server base url %q", ErrInvalidConfig, c.ServerBaseURL)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("%w: page size must be positive, got %d", ErrInvalidConfig, c.PageSize)
	}
	if c.SearchDebounce < 0 || c.RefreshInterval < 0 || c.RequestTimeout < 0 {
		return fmt.Errorf("%w: intervals must not be negative", ErrInvalidConfig)
	}
	if c.DBPath == "" {
		return fmt.Errorf("%w: db path is empty", ErrInvalidConfig)
	}
	return nil
}
