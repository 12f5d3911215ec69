package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Supported store drivers
const (
	StoreMemory  = "memory"
	StoreMongoDB = "mongodb"
	StoreRedis   = "redis"
)

// Store authoritative entity store config struct
type Store struct {
	Driver  string   `json:"driver" yaml:"driver"`
	MongoDB *MongoDB `json:"mongodb" yaml:"mongodb"`
	Redis   *Redis   `json:"redis" yaml:"redis"`
}

// MongoDB mongodb config struct
type MongoDB struct {
	URI      string `json:"uri" yaml:"uri"`
	Database string `json:"database" yaml:"database"`
}

// Redis redis config struct
type Redis struct {
	Addr         string        `json:"addr" yaml:"addr"`
	Username     string        `json:"username" yaml:"username"`
	Password     string        `json:"password" yaml:"password"`
	DB           int           `json:"db" yaml:"db"`
	Prefix       string        `json:"prefix" yaml:"prefix"`
	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`
}

// getStoreConfig reads store configurations
func getStoreConfig(v *viper.Viper) *Store {
	return &Store{
		Driver: strings.ToLower(getStringOrDefault(v, "store.driver", StoreMemory)),
		MongoDB: &MongoDB{
			URI:      getStringOrDefault(v, "store.mongodb.uri", "mongodb://localhost:27017"),
			Database: getStringOrDefault(v, "store.mongodb.database", "searchsync"),
		},
		Redis: &Redis{
			Addr:         getStringOrDefault(v, "store.redis.addr", "127.0.0.1:6379"),
			Username:     v.GetString("store.redis.username"),
			Password:     v.GetString("store.redis.password"),
			DB:           v.GetInt("store.redis.db"),
			Prefix:       getStringOrDefault(v, "store.redis.prefix", "entity"),
			DialTimeout:  getDurationOrDefault(v, "store.redis.dial_timeout", 5*time.Second),
			ReadTimeout:  getDurationOrDefault(v, "store.redis.read_timeout", 3*time.Second),
			WriteTimeout: getDurationOrDefault(v, "store.redis.write_timeout", 3*time.Second),
		},
	}
}
