package config

import (
	"fmt"
	"strings"

	"github.com/ncobase/searchsync/version"
	"github.com/spf13/viper"
)

// Config represents the configuration implementation.
type Config struct {
	AppName string
	Version string
	Search  *Search
	Store   *Store
	Logger  *Logger
	Metrics *Metrics
	Tracer  *Tracer
	Viper   *viper.Viper
}

// LoadConfig loads the configuration from the file.
// An empty path searches the usual locations for config.yaml.
// Values may be overridden by SEARCHSYNC_* environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/searchsync")
		v.AddConfigPath("$HOME/.searchsync")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("searchsync")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := FromViper(v)
	if err := cfg.Search.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds a Config from an already populated viper instance.
// Sections that fail to decode are reported by their Validate method.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		AppName: getStringOrDefault(v, "app_name", "searchsync"),
		Version: getStringOrDefault(v, "version", version.Get().Version),
		Search:  getSearchConfig(v),
		Store:   getStoreConfig(v),
		Logger:  getLoggerConfig(v),
		Metrics: getMetricsConfig(v),
		Tracer:  getTracerConfig(v),
		Viper:   v,
	}
}
