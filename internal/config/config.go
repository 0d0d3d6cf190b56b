package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "BATTLESHIP"

// Config is the main configuration struct combining all sub-configs
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Store   StoreConfig   `mapstructure:"store"`
	History HistoryConfig `mapstructure:"history"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Addr            string          `mapstructure:"addr" validate:"required"`
	ClientOrigin    string          `mapstructure:"client_origin"`
	RequestTimeout  time.Duration   `mapstructure:"request_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout" validate:"gt=0"`
	RateLimit       RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig is a per-client token bucket. RPS 0 disables limiting.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps" validate:"gte=0"`
	Burst int     `mapstructure:"burst" validate:"gte=0"`
}

// AuthConfig controls player token signing and hashing
type AuthConfig struct {
	TokenSecret string `mapstructure:"token_secret" validate:"required,min=8"`
	HashCost    int    `mapstructure:"hash_cost" validate:"min=4,max=31"`
}

// StoreConfig sizes the in-memory game store
type StoreConfig struct {
	Shards int `mapstructure:"shards" validate:"min=1,max=1024"`
}

// HistoryConfig locates the results archive. An empty path disables it.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// MetricsConfig toggles the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// legacyEnv maps the unprefixed variables older deployments set onto config
// keys. They only apply when the prefixed variable is absent.
var legacyEnv = map[string]string{
	"LOG_LEVEL":     "logging.level",
	"CLIENT_ORIGIN": "server.client_origin",
	"JWT_SECRET":    "auth.token_secret",
}

// Load reads configuration from multiple sources with priority:
// 1. Environment variables (highest priority)
// 2. Config file (config.yaml)
// 3. Defaults (lowest priority)
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	v := viper.New()
	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/battleship")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	for name, key := range legacyEnv {
		applyLegacy(v, name, key)
	}
	if port := os.Getenv("PORT"); port != "" && !prefixedSet("server.addr") {
		v.Set("server.addr", ":"+port)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func applyLegacy(v *viper.Viper, name, key string) {
	if val := os.Getenv(name); val != "" && !prefixedSet(key) {
		v.Set(key, val)
	}
}

func prefixedSet(key string) bool {
	_, ok := os.LookupEnv(envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_")))
	return ok
}
