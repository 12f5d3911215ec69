package logger

import (
	"strings"

	"github.com/ncobase/searchsync/config"
	"github.com/sirupsen/logrus"
)

const maxDepth = 10

// Desensitizer masks sensitive values in log fields, including
// nested payload maps.
type Desensitizer struct {
	config *config.Desensitization
	mask   string
}

// NewDesensitizer creates a new desensitizer instance
func NewDesensitizer(cfg *config.Desensitization) *Desensitizer {
	maskChar := cfg.MaskChar
	if maskChar == "" {
		maskChar = "*"
	}
	length := cfg.FixedMaskLength
	if length <= 0 {
		length = 6
	}
	return &Desensitizer{
		config: cfg,
		mask:   strings.Repeat(maskChar, length),
	}
}

// DesensitizeFields returns a masked copy of fields
func (d *Desensitizer) DesensitizeFields(fields logrus.Fields) logrus.Fields {
	if !d.config.Enabled {
		return fields
	}

	result := make(logrus.Fields, len(fields))
	for key, value := range fields {
		result[key] = d.desensitizeValue(key, value, 0)
	}
	return result
}

func (d *Desensitizer) desensitizeValue(key string, value any, depth int) any {
	if value == nil || depth > maxDepth {
		return value
	}
	if d.isSensitiveField(key) {
		return d.maskValue(value)
	}

	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = d.desensitizeValue(k, item, depth+1)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, item := range v {
			if d.isSensitiveField(k) && item != "" {
				out[k] = d.mask
				continue
			}
			out[k] = item
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = d.desensitizeValue("", item, depth+1)
		}
		return out
	default:
		return value
	}
}

// isSensitiveField checks if field name contains sensitive keywords
func (d *Desensitizer) isSensitiveField(fieldName string) bool {
	if fieldName == "" {
		return false
	}

	lowerName := strings.ToLower(fieldName)
	for _, sensitive := range d.config.SensitiveFields {
		sensitive = strings.ToLower(sensitive)
		if d.config.ExactFieldMatch {
			if lowerName == sensitive {
				return true
			}
		} else if strings.Contains(lowerName, sensitive) {
			return true
		}
	}
	return false
}

func (d *Desensitizer) maskValue(value any) any {
	if s, ok := value.(string); ok && s == "" {
		return s
	}
	return d.mask
}

// DesensitizeHook applies a Desensitizer to every entry before it is written.
type DesensitizeHook struct {
	d *Desensitizer
}

// NewDesensitizeHook creates a hook for the given desensitizer
func NewDesensitizeHook(d *Desensitizer) *DesensitizeHook {
	return &DesensitizeHook{d: d}
}

// Levels returns all log levels
func (h *DesensitizeHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire masks the entry data in place
func (h *DesensitizeHook) Fire(entry *logrus.Entry) error {
	entry.Data = h.d.DesensitizeFields(entry.Data)
	return nil
}
