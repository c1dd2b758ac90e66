package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/sunnysdady/orderpulse/internal/core/columns"
)

// Config represents the top-level application config plus the resolved
// column aliases.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Upload    UploadConfig    `koanf:"upload"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Columns   ColumnsConfig   `koanf:"columns"`

	// ColumnAliases is populated by Load after parsing the alias file.
	ColumnAliases columns.Aliases `koanf:"-"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

type UploadConfig struct {
	MaxSizeMB   int `koanf:"max_size_mb"`
	PreviewRows int `koanf:"preview_rows"`
}

type AnalyticsConfig struct {
	// Day-over-day percentage beyond which the trend check flags a spike
	// or drop. Business rule carried over from the source system.
	AnomalyThresholdPct float64 `koanf:"anomaly_threshold_pct"`
}

type ColumnsConfig struct {
	// AliasPath points at an optional YAML file overriding the built-in
	// header aliases. Empty keeps the defaults.
	AliasPath string `koanf:"alias_path"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if c.Upload.MaxSizeMB <= 0 {
		return fmt.Errorf("upload.max_size_mb must be > 0")
	}
	if c.Upload.PreviewRows < 0 {
		return fmt.Errorf("upload.preview_rows must be >= 0")
	}

	if c.Analytics.AnomalyThresholdPct <= 0 {
		return fmt.Errorf("analytics.anomaly_threshold_pct must be > 0")
	}

	return nil
}

// Load parses config from file + env, validates it, then loads the column
// alias file.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port":                     8080,
		"server.host":                     "0.0.0.0",
		"server.mode":                     "release",
		"upload.max_size_mb":              25,
		"upload.preview_rows":             5,
		"analytics.anomaly_threshold_pct": 30.0,
		"columns.alias_path":              "",
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("ORDERPULSE_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "ORDERPULSE_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	aliases, err := columns.Load(cfg.Columns.AliasPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load column aliases: %w", err)
	}
	cfg.ColumnAliases = aliases

	return &cfg, nil
}
