package config

import "flightparse/internal/schema"

// Names carried by ValidationError.Field.
const (
	FieldVersion = "version"
	FieldDebug   = "debug"
)

// Sentinels are the values the parsed fields must equal.
type Sentinels struct {
	Version string
	Debug   string
}

// DefaultSentinels returns the sentinels the loader has always asserted.
// They do not match what Render writes; see DESIGN.md.
func DefaultSentinels() Sentinels {
	return Sentinels{
		Version: "true",
		Debug:   "t",
	}
}

// Validate checks version first, then debug, and stops at the first mismatch.
func Validate(cfg schema.RootConfig, s Sentinels) error {
	if cfg.Version != s.Version {
		return &ValidationError{
			Field: FieldVersion,
			Want:  s.Version,
			Got:   cfg.Version,
		}
	}

	if cfg.Logging.Debug != s.Debug {
		return &ValidationError{
			Field: FieldDebug,
			Want:  s.Debug,
			Got:   cfg.Logging.Debug,
		}
	}

	return nil
}
