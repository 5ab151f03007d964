package config

import (
	"fmt"

	"flightparse/internal/schema"
	"flightparse/internal/version"

	"github.com/rs/zerolog"
)

// debugLiteral is the value Render always writes for logging.debug
const debugLiteral = "true"

// Launcher is the bootstrap step run once before rendering.
type Launcher interface {
	Launch() error
}

// LaunchFunc adapts a plain function to Launcher.
type LaunchFunc func() error

// Launch calls f.
func (f LaunchFunc) Launch() error {
	return f()
}

// Builder renders the configuration document from build constants,
// parses it back and validates it. It holds no mutable state and is safe
// for concurrent use.
type Builder struct {
	consts    version.Constants
	sentinels Sentinels
	launcher  Launcher
	logger    func() zerolog.Logger
}

// Option customizes a Builder.
type Option func(*Builder)

// WithSentinels replaces the expected values checked by validation.
func WithSentinels(s Sentinels) Option {
	return func(b *Builder) {
		b.sentinels = s
	}
}

// WithLauncher sets the bootstrap step Invoke runs first.
func WithLauncher(l Launcher) Option {
	return func(b *Builder) {
		b.launcher = l
	}
}

// WithLogger sets the logger used for stage tracing.
func WithLogger(l zerolog.Logger) Option {
	return WithLogSource(func() zerolog.Logger { return l })
}

// WithLogSource resolves the logger on every call, so a logger that only
// exists after launch can still be used.
func WithLogSource(fn func() zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = fn
	}
}

// NewBuilder returns a Builder for the given constants. Without options it
// asserts DefaultSentinels, launches nothing and logs nowhere.
func NewBuilder(consts version.Constants, opts ...Option) *Builder {
	b := &Builder{
		consts:    consts,
		sentinels: DefaultSentinels(),
		launcher:  LaunchFunc(func() error { return nil }),
		logger:    zerolog.Nop,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Constants returns the constants the builder renders from.
func (b *Builder) Constants() version.Constants {
	return b.consts
}

// Render produces the canonical configuration text.
func (b *Builder) Render() string {
	return fmt.Sprintf("version = %s\n\n[logging]\ndebug = '%s'\n", b.consts.Version, debugLiteral)
}

// ParseAndValidate deserializes text, checks it against the sentinels and
// returns the validated debug value. Errors are *ParseError or
// *ValidationError.
func (b *Builder) ParseAndValidate(text string) (string, error) {
	log := b.logger()

	cfg, err := schema.Parse(text)
	if err != nil {
		log.Warn().Err(err).Msg("config parse failed")
		return "", err
	}
	log.Debug().
		Str("version", cfg.Version).
		Str("debug", cfg.Logging.Debug).
		Msg("config parsed")

	if err := Validate(cfg, b.sentinels); err != nil {
		log.Warn().Err(err).Msg("config validation failed")
		return "", err
	}

	log.Debug().Str("debug", cfg.Logging.Debug).Msg("config validated")
	return cfg.Logging.Debug, nil
}

// Invoke runs the whole pipeline: launch, render, parse, validate.
func (b *Builder) Invoke() (string, error) {
	if err := b.launcher.Launch(); err != nil {
		return "", &LaunchError{Err: err}
	}

	text := b.Render()
	log := b.logger()
	log.Debug().Str("version", b.consts.Version).Int("bytes", len(text)).Msg("config rendered")

	return b.ParseAndValidate(text)
}
