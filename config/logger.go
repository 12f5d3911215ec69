package config

import (
	"github.com/spf13/viper"
)

// Logger logger config struct
type Logger struct {
	Level           int              `json:"level" yaml:"level"`
	Format          string           `json:"format" yaml:"format"`
	Output          string           `json:"output" yaml:"output"`
	OutputFile      string           `json:"output_file" yaml:"output_file"`
	Desensitization *Desensitization `json:"desensitization" yaml:"desensitization"`
}

// Desensitization holds log masking settings
type Desensitization struct {
	Enabled         bool     `json:"enabled" yaml:"enabled"`
	SensitiveFields []string `json:"sensitive_fields" yaml:"sensitive_fields"`
	MaskChar        string   `json:"mask_char" yaml:"mask_char"`
	FixedMaskLength int      `json:"fixed_mask_length" yaml:"fixed_mask_length"`
	ExactFieldMatch bool     `json:"exact_field_match" yaml:"exact_field_match"`
}

var defaultSensitiveFields = []string{
	"password", "passwd", "pwd",
	"token", "secret", "api_key", "apikey",
}

// getLoggerConfig reads logger configurations
func getLoggerConfig(v *viper.Viper) *Logger {
	return &Logger{
		// logrus.InfoLevel
		Level:           getIntOrDefault(v, "logger.level", 4),
		Format:          getStringOrDefault(v, "logger.format", "json"),
		Output:          getStringOrDefault(v, "logger.output", "stdout"),
		OutputFile:      v.GetString("logger.output_file"),
		Desensitization: getDesensitizationConfig(v),
	}
}

// getDesensitizationConfig reads masking settings, enabled unless turned off
func getDesensitizationConfig(v *viper.Viper) *Desensitization {
	d := &Desensitization{
		Enabled:         getBoolOrDefault(v, "logger.desensitization.enabled", true),
		SensitiveFields: v.GetStringSlice("logger.desensitization.sensitive_fields"),
		MaskChar:        getStringOrDefault(v, "logger.desensitization.mask_char", "*"),
		FixedMaskLength: getIntOrDefault(v, "logger.desensitization.fixed_mask_length", 6),
		ExactFieldMatch: v.GetBool("logger.desensitization.exact_field_match"),
	}
	if len(d.SensitiveFields) == 0 {
		d.SensitiveFields = defaultSensitiveFields
	}
	return d
}
