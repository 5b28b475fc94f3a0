// Package logger wires up the single zerolog logger the rest of the
// process derives component-scoped sub-loggers from.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/pushchain/universal-faucet/internal/config"
)

// Init sets up the base zerolog logger from Config. Every component
// constructor that logs takes a zerolog.Logger and narrows it with
// .With().Str("component", ...) the way universalClient's clients do.
func Init(cfg config.Config) zerolog.Logger {
	var writer io.Writer = os.Stdout
	if cfg.LogFormat != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	}

	log := zerolog.New(writer).
		Level(zerolog.Level(cfg.LogLevel)).
		With().
		Timestamp().
		Logger()

	if cfg.LogSampler {
		log = log.Sample(&zerolog.BasicSampler{N: 5})
	}
	return log
}

// Component returns a sub-logger tagged with the given component name.
func Component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
