package config

import "github.com/spf13/viper"

// Metrics metrics config struct
type Metrics struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Type      string `json:"type" yaml:"type"` // memory, prometheus
	Namespace string `json:"namespace" yaml:"namespace"`
}

// getMetricsConfig reads metrics configurations
func getMetricsConfig(v *viper.Viper) *Metrics {
	return &Metrics{
		Enabled:   v.GetBool("metrics.enabled"),
		Type:      getStringOrDefault(v, "metrics.type", "memory"),
		Namespace: getStringOrDefault(v, "metrics.namespace", "searchsync"),
	}
}
