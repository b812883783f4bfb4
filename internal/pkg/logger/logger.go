// Package logger assembles the application's root zerolog logger.
// Components receive contextual children of it through injection; the
// same logger is installed as zerolog's global so packages without an
// injected logger share the configuration.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the root logger. level is a zerolog level name ("debug",
// "info", ...); unknown names fall back to info. format "text" selects
// the human-readable console writer, anything else emits JSON. out
// defaults to os.Stdout.
func New(level, format string, out io.Writer) zerolog.Logger {
	if out == nil {
		out = os.Stdout
	}

	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	writer := out
	if strings.EqualFold(format, "text") {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	root := zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
	log.Logger = root
	return root
}
