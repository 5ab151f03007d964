package schema

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const canonical = "version = v0.0.5\n\n[logging]\ndebug = 'true'\n"

func TestParse_Canonical(t *testing.T) {
	cfg, err := Parse(canonical)
	require.NoError(t, err)

	want := RootConfig{Version: "v0.0.5", Logging: LoggingConfig{Debug: "true"}}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_ValueStyles(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  RootConfig
	}{
		{
			name:  "single quoted",
			input: "version = 'true'\n[logging]\ndebug = 't'\n",
			want:  RootConfig{Version: "true", Logging: LoggingConfig{Debug: "t"}},
		},
		{
			name:  "double quoted with escape",
			input: "version = \"a\\tb\"\n[logging]\ndebug = \"x\"\n",
			want:  RootConfig{Version: "a\tb", Logging: LoggingConfig{Debug: "x"}},
		},
		{
			name:  "literal keeps backslash",
			input: "version = 'C:\\dir'\n[logging]\ndebug = 'on'\n",
			want:  RootConfig{Version: `C:\dir`, Logging: LoggingConfig{Debug: "on"}},
		},
		{
			name:  "crlf and comments",
			input: "# header\r\nversion = v1\r\n\r\n  [ logging ]  \r\n  # note\r\ndebug='yes please'\r\n",
			want:  RootConfig{Version: "v1", Logging: LoggingConfig{Debug: "yes please"}},
		},
		{
			name:  "unknown keys and sections ignored",
			input: "version = v2\nname = 'x'\n[logging]\ndebug = 'f'\nlevel = 3\n[extra]\nk = 'v'\n",
			want:  RootConfig{Version: "v2", Logging: LoggingConfig{Debug: "f"}},
		},
		{
			name:  "quoted empty string",
			input: "version = ''\n[logging]\ndebug = \"\"\n",
			want:  RootConfig{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
		field string
		msg   string
	}{
		{"missing logging section", "version = v0.0.5\n", 0, FieldLogging, "missing required section"},
		{"missing version", "[logging]\ndebug = 'true'\n", 0, FieldVersion, "missing required field"},
		{"missing debug", "version = v1\n[logging]\nlevel = 'x'\n", 2, FieldDebug, "missing required field"},
		{"empty document", "", 0, FieldVersion, "missing required field"},
		{"bool version", "version = true\n[logging]\ndebug = 'true'\n", 1, FieldVersion, "expected string, got boolean"},
		{"int debug", "version = v1\n[logging]\ndebug = 1\n", 3, FieldDebug, "expected string, got integer"},
		{"float debug", "version = v1\n[logging]\ndebug = 1.5\n", 3, FieldDebug, "expected string, got float"},
		{"null debug", "version = v1\n[logging]\ndebug = null\n", 3, FieldDebug, "expected string, got null"},
		{"logging as scalar", "version = v1\nlogging = 'x'\n", 2, FieldLogging, "expected table, got string"},
		{"no equals", "version v1\n", 1, "", "expected 'key = value'"},
		{"missing value", "version =\n", 1, FieldVersion, "missing value"},
		{"bad key", "ver sion = v1\n", 1, "", "invalid key"},
		{"unterminated header", "[logging\n", 1, "", "unterminated section header"},
		{"bad section name", "[log ging]\n", 1, "", "invalid section name"},
		{"unterminated literal", "version = 'v1\n", 1, FieldVersion, "unterminated string"},
		{"unterminated basic", "version = \"v1\n", 1, FieldVersion, "unterminated string"},
		{"trailing garbage", "version = 'v1' x\n", 1, FieldVersion, "after string"},
		{"bare with space", "version = v 1\n", 1, FieldVersion, "invalid bare value"},
		{"bad escape", "version = \"\\q\"\n", 1, FieldVersion, "invalid escape"},
		{"duplicate key", "version = a\nversion = b\n", 2, FieldVersion, "duplicate key"},
		{"duplicate section", "version = a\n[logging]\n[logging]\n", 3, FieldLogging, "duplicate section"},
		{"section clashes with key", "logging = a\n[logging]\n", 2, FieldLogging, "redefines a top-level key"},
		{"invalid utf8 bare value", "version = \xff\xfe\n[logging]\ndebug = 'true'\n", 1, "", "invalid UTF-8"},
		{"invalid utf8 quoted value", "version = v1\n[logging]\ndebug = '\xc3'\n", 3, "", "invalid UTF-8"},
		{"invalid utf8 in comment", "# \x80\nversion = v1\n", 1, "", "invalid UTF-8"},
		{"nested duplicate key", "version = a\n[logging]\ndebug = 'x'\ndebug = 'y'\n", 4, FieldDebug, "duplicate key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			require.Error(t, err)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected *ParseError, got %T", err)
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, tt.field, perr.Field)
			assert.Contains(t, perr.Error(), tt.msg)
		})
	}
}

func TestParseError_Format(t *testing.T) {
	err := &ParseError{Line: 3, Field: FieldDebug, Msg: "expected string, got boolean"}
	assert.Equal(t, "parse error at line 3: logging.debug: expected string, got boolean", err.Error())

	inner := fmt.Errorf("boom")
	wrapped := &ParseError{Msg: "cannot decode document", Err: inner}
	assert.Equal(t, "parse error: cannot decode document: boom", wrapped.Error())
	assert.ErrorIs(t, wrapped, inner)
}

// Property: any single-quoted values without quotes or newlines survive parsing unchanged.
func TestParse_QuotedRoundTrip_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	literal := gen.AnyString().Map(func(s string) string {
		return strings.Map(func(r rune) rune {
			if r == '\'' || r == '\n' || r == '\r' {
				return -1
			}
			return r
		}, s)
	})

	properties.Property("quoted values round-trip", prop.ForAll(
		func(version, debug string) bool {
			text := fmt.Sprintf("version = '%s'\n\n[logging]\ndebug = '%s'\n", version, debug)
			cfg, err := Parse(text)
			if err != nil {
				t.Logf("Parse failed: %v", err)
				return false
			}
			return cfg.Version == version && cfg.Logging.Debug == debug
		},
		literal,
		literal,
	))

	properties.TestingRun(t)
}

// Property: bare semantic versions are typed as strings.
func TestParse_BareVersion_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("bare vX.Y.Z parses as string", prop.ForAll(
		func(major, minor, patch uint8) bool {
			v := fmt.Sprintf("v%d.%d.%d", major, minor, patch)
			cfg, err := Parse("version = " + v + "\n[logging]\ndebug = 'true'\n")
			return err == nil && cfg.Version == v
		},
		gen.UInt8(),
		gen.UInt8(),
		gen.UInt8(),
	))

	properties.TestingRun(t)
}

// Property: text without a [logging] header always fails with a ParseError.
func TestParse_MissingLoggingAlwaysParseError_Property(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("no logging section is a parse error", prop.ForAll(
		func(input string) bool {
			input = strings.ReplaceAll(input, "[", "")
			_, err := Parse("version = v1\n" + input)
			var perr *ParseError
			return errors.As(err, &perr)
		},
		gen.AnyString(),
	))

	properties.TestingRun(t)
}
