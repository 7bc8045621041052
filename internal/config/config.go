// Package config loads sqlsandbox settings from an optional YAML file and
// SQLSANDBOX_* environment variables on top of built-in defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Storage struct {
		Backend   string `mapstructure:"backend"`
		Path      string `mapstructure:"path"`
		DSN       string `mapstructure:"dsn"`
		Namespace string `mapstructure:"namespace"`
	} `mapstructure:"storage"`

	Engine struct {
		HistoryLimit    int    `mapstructure:"history_limit"`
		DefaultDatabase string `mapstructure:"default_database"`
	} `mapstructure:"engine"`

	Server struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"server"`

	Log struct {
		Level  string `mapstructure:"level"`
		SeqURL string `mapstructure:"seq_url"`
	} `mapstructure:"log"`
}

// EnvPrefix is prepended to every environment override, e.g.
// SQLSANDBOX_STORAGE_BACKEND
const EnvPrefix = "SQLSANDBOX"

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "file")
	v.SetDefault("storage.path", "./data")
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.namespace", "sqlsandbox")
	v.SetDefault("engine.history_limit", 100)
	v.SetDefault("engine.default_database", "sample_db")
	v.SetDefault("server.port", 4444)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.seq_url", "")
}

// LoadConfig reads path (skipped when empty) and applies environment
// overrides
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Engine.HistoryLimit < 0 {
		return nil, fmt.Errorf("engine.history_limit must not be negative, got %d", cfg.Engine.HistoryLimit)
	}
	return &cfg, nil
}
