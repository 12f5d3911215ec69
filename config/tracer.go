package config

import (
	"time"

	"github.com/spf13/viper"
)

// Tracer OpenTelemetry exporter config struct
type Tracer struct {
	Endpoint      string        `json:"endpoint" yaml:"endpoint"` // OTLP gRPC endpoint
	SamplingRate  float64       `json:"sampling_rate" yaml:"sampling_rate"`
	BatchTimeout  time.Duration `json:"batch_timeout" yaml:"batch_timeout"`
	ExportTimeout time.Duration `json:"export_timeout" yaml:"export_timeout"`
}

// getTracerConfig reads tracer configurations
func getTracerConfig(v *viper.Viper) *Tracer {
	rate := 1.0
	if v.IsSet("tracer.sampling_rate") {
		rate = v.GetFloat64("tracer.sampling_rate")
	}
	return &Tracer{
		Endpoint:      v.GetString("tracer.endpoint"),
		SamplingRate:  rate,
		BatchTimeout:  getDurationOrDefault(v, "tracer.batch_timeout", 5*time.Second),
		ExportTimeout: getDurationOrDefault(v, "tracer.export_timeout", 30*time.Second),
	}
}
