package schema

import (
	"fmt"
	"strings"
)

// ParseError reports text that does not fit the grammar or the schema.
type ParseError struct {
	Line  int    // 1-based line, 0 when the failure is not tied to a line
	Field string // dotted field path, e.g. "logging.debug"
	Msg   string
	Err   error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse error")
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": %s", e.Field)
	}
	fmt.Fprintf(&b, ": %s", e.Msg)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
