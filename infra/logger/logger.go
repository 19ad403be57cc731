package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	corelogger "github.com/kilianp07/caravail/core/logger"
)

// Logger mirrors the core logger interface.
type Logger = corelogger.Logger

// NopLogger implements Logger with no-op methods.
type NopLogger = corelogger.NopLogger

// Options controls every logger returned by New.
type Options struct {
	// Level is one of debug, info, warn or error.
	Level string
	// Format is json or console. APP_ENV=dev forces console.
	Format string
}

var (
	mu       sync.RWMutex
	defaults = Options{Level: "info", Format: "json"}
)

// Configure sets the options used by subsequent calls to New.
func Configure(opts Options) {
	mu.Lock()
	defaults = opts
	mu.Unlock()
}

// New returns a Logger for the given component.
func New(component string) Logger {
	mu.RLock()
	opts := defaults
	mu.RUnlock()
	if strings.EqualFold(os.Getenv("APP_ENV"), "dev") {
		opts.Format = "console"
	}
	return NewZerologLogger(os.Stderr, component, opts)
}

// ParseLevel maps a level name to zerolog. Unknown names fall back to info.
func ParseLevel(s string) zerolog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
