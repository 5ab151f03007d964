// Package bootstrap is the one-time process setup that runs before the
// configuration pipeline. Today that means the zerolog logger.
package bootstrap

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// EnvLogLevel overrides the log level when Config.Level is empty.
const EnvLogLevel = "FLIGHTPARSE_LOG_LEVEL"

// Config captures options for the launch step.
type Config struct {
	Level   string    // optional log level ("debug", "info", etc.)
	Output  io.Writer // optional writer (defaults to os.Stderr)
	Service string    // optional service name attached to every log entry
}

// Bootstrap performs launch exactly once. A process normally owns one.
type Bootstrap struct {
	cfg  Config
	once sync.Once

	mu   sync.RWMutex
	err  error
	base zerolog.Logger
}

// New returns a Bootstrap that has not launched yet.
func New(cfg Config) *Bootstrap {
	return &Bootstrap{
		cfg:  cfg,
		base: zerolog.Nop(),
	}
}

// Launch configures the logger on the first call. Later calls do nothing
// and return the first call's result.
func (b *Bootstrap) Launch() error {
	b.once.Do(func() {
		base, err := configure(b.cfg)

		b.mu.Lock()
		b.base, b.err = base, err
		b.mu.Unlock()
	})

	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.err
}

// Logger returns a child logger annotated with the given component name.
// Before a successful Launch it discards everything.
func (b *Bootstrap) Logger(component string) zerolog.Logger {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.base.With().Str("component", component).Logger()
}

func configure(cfg Config) (zerolog.Logger, error) {
	raw := cfg.Level
	if raw == "" {
		raw = os.Getenv(EnvLogLevel)
	}

	level := zerolog.InfoLevel
	if raw != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(raw))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", raw, err)
		}
		level = parsed
	}

	writer := cfg.Output
	if writer == nil {
		writer = os.Stderr
	}

	service := cfg.Service
	if service == "" {
		service = "flightparse"
	}

	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Str("service", service).
		Logger(), nil
}
