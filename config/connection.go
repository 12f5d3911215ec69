package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Connection defaults, applied field by field.
const (
	DefaultHost          = "127.0.0.1:9200"
	DefaultIndex         = "search"
	DefaultSniffInterval = 5 * time.Minute
	DefaultSniffOnStart  = true
	DefaultLogLevel      = "error"
)

// Connection holds the search backend connection options.
type Connection struct {
	Host          string        `json:"host" yaml:"host"`
	Index         string        `json:"index" yaml:"index"`
	SniffInterval time.Duration `json:"sniff_interval" yaml:"sniff_interval"`
	// SniffOnStart is a pointer so that an explicit false survives defaulting.
	SniffOnStart *bool  `json:"sniff_on_start" yaml:"sniff_on_start"`
	Log          string `json:"log" yaml:"log"`
}

// ShouldSniffOnStart reports the effective sniff-on-start flag.
func (c *Connection) ShouldSniffOnStart() bool {
	if c == nil || c.SniffOnStart == nil {
		return DefaultSniffOnStart
	}
	return *c.SniffOnStart
}

// Address returns the host as a URL, adding the http scheme when absent.
func (c *Connection) Address() string {
	host := DefaultHost
	if c != nil && c.Host != "" {
		host = c.Host
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host
	}
	return "http://" + host
}

// ResolveConnection merges user-supplied options with the defaults.
// Each unset field is defaulted on its own; the input is never modified.
func ResolveConnection(user *Connection) *Connection {
	resolved := &Connection{}
	if user != nil {
		*resolved = *user
	}

	if resolved.Host == "" {
		resolved.Host = DefaultHost
	}
	if resolved.Index == "" {
		resolved.Index = DefaultIndex
	}
	if resolved.SniffInterval <= 0 {
		resolved.SniffInterval = DefaultSniffInterval
	}
	if resolved.SniffOnStart == nil {
		sniff := DefaultSniffOnStart
		resolved.SniffOnStart = &sniff
	}
	if resolved.Log == "" {
		resolved.Log = DefaultLogLevel
	}

	return resolved
}

// getConnectionConfig reads search.connection and applies defaults
func getConnectionConfig(v *viper.Viper) *Connection {
	return ResolveConnection(&Connection{
		Host:          v.GetString("search.connection.host"),
		Index:         v.GetString("search.connection.index"),
		SniffInterval: getMillisOrDefault(v, "search.connection.sniff_interval", 0),
		SniffOnStart:  getBoolPtr(v, "search.connection.sniff_on_start"),
		Log:           v.GetString("search.connection.log"),
	})
}
