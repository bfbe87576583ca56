// Package config loads the nommie server's runtime configuration from
// environment variables and an optional config file, via viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully resolved, typed configuration for one server
// process.
type Config struct {
	ListenAddr string

	DatabaseDSN     string
	DatabaseMaxOpen int

	HeartbeatWrite time.Duration
	HeartbeatPong  time.Duration
	HeartbeatPing  time.Duration

	AIMaxIterations int

	LogLevel string
}

// Load reads configuration from (in increasing precedence) defaults, an
// optional config file named nommie.yaml on the given search paths, and
// NOMMIE_-prefixed environment variables.
func Load(searchPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("nommie")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvPrefix("NOMMIE")
	v.AutomaticEnv()

	v.SetDefault("listen_addr", ":7777")
	v.SetDefault("database_max_open", 10)
	v.SetDefault("heartbeat_write", 10*time.Second)
	v.SetDefault("heartbeat_pong", 40*time.Second)
	v.SetDefault("heartbeat_ping", 20*time.Second)
	v.SetDefault("ai_max_iterations", 2000)
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	cfg := &Config{
		ListenAddr:      v.GetString("listen_addr"),
		DatabaseDSN:     v.GetString("database_dsn"),
		DatabaseMaxOpen: v.GetInt("database_max_open"),
		HeartbeatWrite:  v.GetDuration("heartbeat_write"),
		HeartbeatPong:   v.GetDuration("heartbeat_pong"),
		HeartbeatPing:   v.GetDuration("heartbeat_ping"),
		AIMaxIterations: v.GetInt("ai_max_iterations"),
		LogLevel:        v.GetString("log_level"),
	}
	if cfg.DatabaseDSN == "" {
		return nil, fmt.Errorf("config: database_dsn is required (set NOMMIE_DATABASE_DSN)")
	}
	if cfg.HeartbeatPing >= cfg.HeartbeatPong {
		return nil, fmt.Errorf("config: heartbeat_ping (%s) must be less than heartbeat_pong (%s)", cfg.HeartbeatPing, cfg.HeartbeatPong)
	}
	return cfg, nil
}
