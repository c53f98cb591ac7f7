// Package logging builds the process logger.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"go.elastic.co/ecszerolog"
)

type Options struct {
	// Format is json, console or ecs. Development environments always get
	// console output.
	Format string
	Level  string
	Env    string
	App    string
	Out    io.Writer
}

func New(o Options) (zerolog.Logger, error) {
	out := o.Out
	if out == nil {
		out = os.Stdout
	}
	level := zerolog.InfoLevel
	if o.Level != "" {
		l, err := zerolog.ParseLevel(o.Level)
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", o.Level, err)
		}
		level = l
	}

	format := o.Format
	if o.Env == "development" {
		format = "console"
	}

	var logger zerolog.Logger
	switch format {
	case "", "json":
		logger = zerolog.New(out).With().Timestamp().Logger()
	case "console":
		logger = zerolog.New(zerolog.ConsoleWriter{Out: out}).With().Timestamp().Logger()
	case "ecs":
		logger = ecszerolog.New(out)
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", format)
	}

	logger = logger.Level(level)
	if o.App != "" {
		logger = logger.With().Str("app", o.App).Logger()
	}
	return logger, nil
}
