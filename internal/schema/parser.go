package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// keyRegex validates bare keys and section names: alphanumeric, hyphens, underscores
var keyRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// table is one key/value scope: the top level or a [section]
type table struct {
	name   string
	line   int
	keys   []string
	values map[string]*yaml.Node
}

func newTable(name string, line int) *table {
	return &table{
		name:   name,
		line:   line,
		values: make(map[string]*yaml.Node),
	}
}

// document is the raw result of reading the text, before schema checks
type document struct {
	root     *table
	sections map[string]*table
	order    []string
}

// Parse reads configuration text into a RootConfig.
//
// Grammar, one statement per line:
//
//	key = value
//	[section]
//
// Keys after a section header belong to that section. Values are
// 'literal', "escaped" or bare. Quoted values are always strings; bare
// values are typed with YAML core scalar resolution, so `v0.0.5` is a
// string while `true` or `42` are not. Blank lines and full-line #
// comments are skipped. Unknown keys and sections are ignored. The text
// must be valid UTF-8.
func Parse(text string) (RootConfig, error) {
	doc, err := readDocument(text)
	if err != nil {
		return RootConfig{}, err
	}

	if err := doc.checkShape(); err != nil {
		return RootConfig{}, err
	}

	var cfg RootConfig
	if err := doc.node().Decode(&cfg); err != nil {
		return RootConfig{}, &ParseError{Msg: "cannot decode document", Err: err}
	}
	return cfg, nil
}

// readDocument tokenizes the text line by line into tables
func readDocument(text string) (*document, error) {
	doc := &document{
		root:     newTable("", 0),
		sections: make(map[string]*table),
	}
	current := doc.root

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		if !utf8.ValidString(raw) {
			return nil, &ParseError{Line: lineNo, Msg: "invalid UTF-8"}
		}
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") {
			name, err := parseHeader(line, lineNo)
			if err != nil {
				return nil, err
			}
			if _, dup := doc.sections[name]; dup {
				return nil, &ParseError{Line: lineNo, Field: name, Msg: "duplicate section"}
			}
			if _, clash := doc.root.values[name]; clash {
				return nil, &ParseError{Line: lineNo, Field: name, Msg: "section redefines a top-level key"}
			}
			current = newTable(name, lineNo)
			doc.sections[name] = current
			doc.order = append(doc.order, name)
			continue
		}

		key, rawValue, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected 'key = value' or '[section]', got %q", line)}
		}
		key = strings.TrimSpace(key)
		if !keyRegex.MatchString(key) {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid key %q", key)}
		}

		path := joinPath(current.name, key)
		if _, dup := current.values[key]; dup {
			return nil, &ParseError{Line: lineNo, Field: path, Msg: "duplicate key"}
		}

		value, err := parseValue(strings.TrimSpace(rawValue), lineNo, path)
		if err != nil {
			return nil, err
		}
		current.keys = append(current.keys, key)
		current.values[key] = value
	}

	return doc, nil
}

// parseHeader extracts the name from a "[name]" line
func parseHeader(line string, lineNo int) (string, error) {
	if !strings.HasSuffix(line, "]") {
		return "", &ParseError{Line: lineNo, Msg: fmt.Sprintf("unterminated section header %q", line)}
	}
	name := strings.TrimSpace(line[1 : len(line)-1])
	if !keyRegex.MatchString(name) {
		return "", &ParseError{Line: lineNo, Msg: fmt.Sprintf("invalid section name %q", name)}
	}
	return name, nil
}

// parseValue turns the right-hand side of an assignment into a scalar node
func parseValue(raw string, lineNo int, path string) (*yaml.Node, error) {
	if raw == "" {
		return nil, &ParseError{Line: lineNo, Field: path, Msg: "missing value"}
	}

	node := &yaml.Node{Kind: yaml.ScalarNode, Line: lineNo}

	switch raw[0] {
	case '\'':
		end := strings.IndexByte(raw[1:], '\'')
		if end < 0 {
			return nil, &ParseError{Line: lineNo, Field: path, Msg: "unterminated string"}
		}
		if trailing := strings.TrimSpace(raw[end+2:]); trailing != "" {
			return nil, &ParseError{Line: lineNo, Field: path, Msg: fmt.Sprintf("unexpected %q after string", trailing)}
		}
		node.Value = raw[1 : end+1]
		node.Style = yaml.SingleQuotedStyle

	case '"':
		end := closingQuote(raw)
		if end < 0 {
			return nil, &ParseError{Line: lineNo, Field: path, Msg: "unterminated string"}
		}
		if trailing := strings.TrimSpace(raw[end+1:]); trailing != "" {
			return nil, &ParseError{Line: lineNo, Field: path, Msg: fmt.Sprintf("unexpected %q after string", trailing)}
		}
		value, err := strconv.Unquote(raw[:end+1])
		if err != nil {
			return nil, &ParseError{Line: lineNo, Field: path, Msg: "invalid escape in string", Err: err}
		}
		node.Value = value
		node.Style = yaml.DoubleQuotedStyle

	default:
		if strings.ContainsAny(raw, " \t'\"[]=") {
			return nil, &ParseError{Line: lineNo, Field: path, Msg: fmt.Sprintf("invalid bare value %q", raw)}
		}
		node.Value = raw
	}

	return node, nil
}

// closingQuote returns the index of the quote ending a double-quoted
// string that starts at s[0], or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// checkShape enforces the fixed schema: version and logging.debug must be
// present and both must be strings.
func (d *document) checkShape() error {
	version, ok := d.root.values["version"]
	if !ok {
		return &ParseError{Field: FieldVersion, Msg: "missing required field"}
	}
	if err := requireString(version, FieldVersion); err != nil {
		return err
	}

	if value, ok := d.root.values["logging"]; ok {
		return &ParseError{Line: value.Line, Field: FieldLogging, Msg: fmt.Sprintf("expected table, got %s", typeName(value))}
	}
	logging, ok := d.sections["logging"]
	if !ok {
		return &ParseError{Field: FieldLogging, Msg: "missing required section"}
	}

	debug, ok := logging.values["debug"]
	if !ok {
		return &ParseError{Line: logging.line, Field: FieldDebug, Msg: "missing required field"}
	}
	return requireString(debug, FieldDebug)
}

func requireString(n *yaml.Node, path string) error {
	if n.ShortTag() != "!!str" {
		return &ParseError{Line: n.Line, Field: path, Msg: fmt.Sprintf("expected string, got %s", typeName(n))}
	}
	return nil
}

// typeName describes a scalar's resolved type for error messages
func typeName(n *yaml.Node) string {
	switch n.ShortTag() {
	case "!!bool":
		return "boolean"
	case "!!int":
		return "integer"
	case "!!float":
		return "float"
	case "!!null":
		return "null"
	case "!!str":
		return "string"
	default:
		return strings.TrimPrefix(n.ShortTag(), "!!")
	}
}

// node assembles the yaml mapping the struct decoder consumes
func (d *document) node() *yaml.Node {
	root := d.root.mapping()
	for _, name := range d.order {
		section := d.sections[name]
		root.Content = append(root.Content, keyNode(name, section.line), section.mapping())
	}
	return root
}

func (t *table) mapping() *yaml.Node {
	m := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: t.line}
	for _, k := range t.keys {
		v := t.values[k]
		m.Content = append(m.Content, keyNode(k, v.Line), v)
	}
	return m
}

func keyNode(name string, line int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name, Line: line}
}

func joinPath(section, key string) string {
	if section == "" {
		return key
	}
	return section + "." + key
}
