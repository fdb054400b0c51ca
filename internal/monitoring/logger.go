// Package monitoring provides the process-wide diagnostic logger.
//
// The engine logs through a single zerolog instance so that analysis runs
// emit structured events (level transitions, timings, escalation verdicts)
// without each package owning its own writer. Tests can swap or mute the
// logger via SetLogger.
package monitoring

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Config controls logger initialization.
type Config struct {
	// Level is the minimum level: debug, info, warn, error. Default: info.
	Level string
	// Console switches to human-readable console output. Default: JSON.
	Console bool
	// Output overrides the destination writer. Default: os.Stderr.
	Output io.Writer
}

// Init configures the package logger. Safe to call more than once; the last
// call wins.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	var w io.Writer = out
	if cfg.Console {
		w = zerolog.ConsoleWriter{Out: out}
	}

	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	mu.Lock()
	logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
	mu.Unlock()
}

// Logger returns the current package logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the package logger wholesale. Tests use this to capture
// or silence output.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Mute disables all log output until the next Init or SetLogger call.
func Mute() {
	SetLogger(zerolog.Nop())
}
