package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "PAPERKEEPER_"

// dotEnvFile is loaded before reading the environment. Variables already set
// in the process environment win over the file.
var dotEnvFile = ".env"

// parseEnv overlays cfg with PAPERKEEPER_* variables.
func parseEnv(cfg *Config) error {
	_ = godotenv.Load(dotEnvFile)

	lookupString(&cfg.ServerBaseURL, "BASE_URL")
	lookupString(&cfg.IdentityEndpoint, "IDENTITY_ENDPOINT")
	lookupString(&cfg.IDToken, "ID_TOKEN")
	lookupString(&cfg.DBPath, "DB_PATH")
	lookupString(&cfg.LogFile, "LOG_FILE")
	lookupString(&cfg.LogLevel, "LOG_LEVEL")
	lookupString(&cfg.LogBackend, "LOG_BACKEND")

	if v, ok := os.LookupEnv(envPrefix + "PAGE_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %sPAGE_SIZE: %v", ErrInvalidConfig, envPrefix, err)
		}
		cfg.PageSize = n
	}
	for name, dst := range map[string]*time.Duration{
		"SEARCH_DEBOUNCE":  &cfg.SearchDebounce,
		"REFRESH_INTERVAL": &cfg.RefreshInterval,
		"REQUEST_TIMEOUT":  &cfg.RequestTimeout,
	} {
		v, ok := os.LookupEnv(envPrefix + name)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s: %v", ErrInvalidConfig, envPrefix, name, err)
		}
		*dst = d
	}
	if v, ok := os.LookupEnv(envPrefix + "TRUST_SERVER_ORDER"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %sTRUST_SERVER_ORDER: %v", ErrInvalidConfig, envPrefix, err)
		}
		cfg.TrustServerOrder = b
	}
	return nil
}

func lookupString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}
