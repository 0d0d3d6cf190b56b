package config

import (
	"io"
	"time"

	"github.com/rs/zerolog"
)

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	// Log level: trace, debug, info, warn, error
	Level string `mapstructure:"level" validate:"required,oneof=trace debug info warn error"`

	// Log format: json, or console for human-readable development output
	Format string `mapstructure:"format" validate:"required,oneof=json console"`
}

// NewLogger sets the global zerolog level and returns a logger writing to w
// in the configured format.
func (c LoggingConfig) NewLogger(w io.Writer) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		return zerolog.Logger{}, err
	}
	zerolog.SetGlobalLevel(lvl)

	if c.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).With().Timestamp().Logger(), nil
}
