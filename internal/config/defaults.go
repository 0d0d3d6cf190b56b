package config

import (
	"time"

	"github.com/spf13/viper"
)

// SetDefaults registers a default for every key. Registering each key also
// lets AutomaticEnv pick up its environment variable during Unmarshal.
func SetDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.addr", ":5175")
	v.SetDefault("server.client_origin", "http://localhost:5173")
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.shutdown_timeout", 15*time.Second)
	v.SetDefault("server.rate_limit.rps", 20.0)
	v.SetDefault("server.rate_limit.burst", 40)

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Auth
	v.SetDefault("auth.token_secret", "dev_secret_change_me")
	v.SetDefault("auth.hash_cost", 10)

	// Store
	v.SetDefault("store.shards", 16)

	// History: archive on by default, next to the binary.
	v.SetDefault("history.path", "./data/results.db")

	// Metrics
	v.SetDefault("metrics.enabled", true)
}
