package schema

// RootConfig is the top-level configuration document
type RootConfig struct {
	Version string        `yaml:"version"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig is the [logging] section
type LoggingConfig struct {
	Debug string `yaml:"debug"`
}

// Field paths used in errors.
const (
	FieldVersion = "version"
	FieldLogging = "logging"
	FieldDebug   = "logging.debug"
)
