// Package logger builds the service's zerolog logger and routes gin's own
// startup output through it.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Service is attached to every log line.
const Service = "studysync"

// Setup builds the process logger on stdout and hooks gin's debug output
// into it.
//   - level: trace, debug, info, warn, error; anything else means info
//   - format: "pretty" for console output, anything else for JSON lines
func Setup(level, format string) zerolog.Logger {
	log := New(os.Stdout, level, format)
	zerolog.SetGlobalLevel(log.GetLevel())

	gin.DefaultWriter = GinWriter(log, zerolog.DebugLevel)
	gin.DefaultErrorWriter = GinWriter(log, zerolog.ErrorLevel)
	gin.DebugPrintRouteFunc = func(method, path, handler string, _ int) {
		log.Debug().Str("method", method).Str("path", path).Str("handler", handler).Msg("Route registered")
	}
	return log
}

// New builds a logger writing to w without touching global state.
func New(w io.Writer, level, format string) zerolog.Logger {
	if format == "pretty" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).
		Level(lvl).
		With().
		Timestamp().
		Str("service", Service).
		Logger()
}

// GinWriter adapts gin's plain-text writers to the structured logger. Each
// write becomes one event at lvl with the "[GIN-debug]" style prefix removed.
func GinWriter(log zerolog.Logger, lvl zerolog.Level) io.Writer {
	return ginWriter{log: log.With().Str("component", "gin").Logger(), level: lvl}
}

type ginWriter struct {
	log   zerolog.Logger
	level zerolog.Level
}

func (w ginWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if strings.HasPrefix(msg, "[GIN") {
		if end := strings.Index(msg, "]"); end >= 0 {
			msg = strings.TrimSpace(msg[end+1:])
		}
	}
	if msg != "" {
		w.log.WithLevel(w.level).Msg(msg)
	}
	return len(p), nil
}
