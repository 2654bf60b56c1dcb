package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/paperkeeper/internal/flagx"
	"github.com/dmitrijs2005/paperkeeper/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the DTO decoded from the config file. Pointer fields tell
// "absent" apart from zero values, so only keys present in the file override
// the defaults.
type FileConfig struct {
	ServerBaseURL    *string         `json:"server_base_url" yaml:"server_base_url"`
	IdentityEndpoint *string         `json:"identity_endpoint" yaml:"identity_endpoint"`
	IDToken          *string         `json:"id_token" yaml:"id_token"`
	PageSize         *int            `json:"page_size" yaml:"page_size"`
	SearchDebounce   *timex.Duration `json:"search_debounce" yaml:"search_debounce"`
	RefreshInterval  *timex.Duration `json:"refresh_interval" yaml:"refresh_interval"`
	RequestTimeout   *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	TrustServerOrder *bool           `json:"trust_server_order" yaml:"trust_server_order"`
	DBPath           *string         `json:"db_path" yaml:"db_path"`
	LogFile          *string         `json:"log_file" yaml:"log_file"`
	LogLevel         *string         `json:"log_level" yaml:"log_level"`
	LogBackend       *string         `json:"log_backend" yaml:"log_backend"`
}

// parseFile overlays cfg with the file named by -c/-config, if any.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidConfig, path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerBaseURL, fc.ServerBaseURL)
	setString(&cfg.IdentityEndpoint, fc.IdentityEndpoint)
	setString(&cfg.IDToken, fc.IDToken)
	setString(&cfg.DBPath, fc.DBPath)
	setString(&cfg.LogFile, fc.LogFile)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogBackend, fc.LogBackend)
	if fc.PageSize != nil {
		cfg.PageSize = *fc.PageSize
	}
	if fc.SearchDebounce != nil {
		cfg.SearchDebounce = fc.SearchDebounce.Duration
	}
	if fc.RefreshInterval != nil {
		cfg.RefreshInterval = fc.RefreshInterval.Duration
	}
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.TrustServerOrder != nil {
		cfg.TrustServerOrder = *fc.TrustServerOrder
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
