package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Logger receives diagnostics from all commands. Report output never goes
// through it.
var Logger = zerolog.Nop()

// NewLogger creates a logger writing to w. An empty level leaves the
// logger at info until a config file supplies one.
func NewLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl := zerolog.InfoLevel
	if level != "" {
		var err error
		lvl, err = zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid --log-level %q: %w", level, err)
		}
	}

	var logger zerolog.Logger
	switch format {
	case "json":
		logger = zerolog.New(w).With().Timestamp().Logger()
	case "console", "":
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.Kitchen,
		}).With().Timestamp().Logger()
	default:
		return zerolog.Nop(), fmt.Errorf("invalid --log-format %q (use console or json)", format)
	}

	return logger.Level(lvl), nil
}

// applyConfigLevel adopts the config file's log level unless --log-level
// was given on the command line.
func applyConfigLevel(cmd *cobra.Command, level zerolog.Level) {
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		return
	}
	Logger = Logger.Level(level)
}
