package arff

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hupe1980/crossrank/model"
)

// ErrSyntax is wrapped by every parse error.
var ErrSyntax = errors.New("arff: syntax error")

const maxLineBytes = 64 << 20

// Dataset is a parsed ARFF file.
type Dataset struct {
	Schema  model.Schema
	Records []model.Record
}

type section uint8

const (
	sectionHeader section = iota
	sectionData
)

// Parse reads a complete ARFF document from r.
func Parse(r io.Reader) (*Dataset, error) {
	p := &parser{}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for sc.Scan() {
		p.line++
		if err := p.parseLine(sc.Text()); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("arff: line %d: %w", p.line+1, err)
	}
	if p.section != sectionData {
		return nil, p.errorf("missing @data section")
	}
	return &p.ds, nil
}

type parser struct {
	ds      Dataset
	section section
	line    int
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrSyntax, p.line, fmt.Sprintf(format, args...))
}

func (p *parser) parseLine(raw string) error {
	line := strings.TrimSpace(stripComment(raw))
	if line == "" {
		return nil
	}

	if p.section == sectionData {
		if line[0] == '{' {
			return p.parseSparse(line)
		}
		return p.parseDense(line)
	}

	if line[0] != '@' {
		return p.errorf("unexpected content before @data: %q", line)
	}

	keyword, rest := splitKeyword(line)
	switch strings.ToLower(keyword) {
	case "@relation":
		name, _, err := nextToken(rest)
		if err != nil {
			return p.errorf("%v", err)
		}
		p.ds.Schema.Relation = name
	case "@attribute":
		attr, err := parseAttribute(rest)
		if err != nil {
			return p.errorf("%v", err)
		}
		p.ds.Schema.Attributes = append(p.ds.Schema.Attributes, attr)
	case "@data":
		if len(p.ds.Schema.Attributes) == 0 {
			return p.errorf("@data without attributes")
		}
		p.section = sectionData
	default:
		return p.errorf("unknown declaration %q", keyword)
	}
	return nil
}

func splitKeyword(line string) (string, string) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimSpace(line[i+1:])
}

func parseAttribute(decl string) (model.Attribute, error) {
	name, rest, err := nextToken(decl)
	if err != nil {
		return model.Attribute{}, err
	}
	if name == "" {
		return model.Attribute{}, errors.New("attribute without name")
	}
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "{") {
		end := strings.LastIndexByte(rest, '}')
		if end < 0 {
			return model.Attribute{}, fmt.Errorf("attribute %q: unterminated nominal list", name)
		}
		labels, err := splitFields(rest[1:end], ',')
		if err != nil {
			return model.Attribute{}, fmt.Errorf("attribute %q: %w", name, err)
		}
		return model.Attribute{Name: name, Type: model.Nominal, Values: labels}, nil
	}

	kind, _ := splitKeyword(rest)
	switch strings.ToLower(kind) {
	case "numeric", "real", "integer":
		return model.Attribute{Name: name, Type: model.Numeric}, nil
	case "string":
		return model.Attribute{Name: name, Type: model.String}, nil
	case "date":
		return model.Attribute{Name: name, Type: model.Date}, nil
	case "":
		return model.Attribute{}, fmt.Errorf("attribute %q: missing type", name)
	default:
		return model.Attribute{}, fmt.Errorf("attribute %q: unsupported type %q", name, kind)
	}
}

func (p *parser) parseDense(line string) error {
	fields, missing, err := splitValues(line)
	if err != nil {
		return p.errorf("%v", err)
	}
	attrs := p.ds.Schema.Attributes
	if len(fields) != len(attrs) {
		return p.errorf("expected %d values, got %d", len(attrs), len(fields))
	}
	return p.appendRecord(fields, missing)
}

func (p *parser) parseSparse(line string) error {
	end := strings.LastIndexByte(line, '}')
	if end < 0 {
		return p.errorf("unterminated sparse row")
	}

	attrs := p.ds.Schema.Attributes
	tokens := make([]string, len(attrs))
	missing := make([]bool, len(attrs))
	for i, a := range attrs {
		tokens[i] = sparseDefault(a)
	}

	entries, err := splitRaw(line[1:end], ',')
	if err != nil {
		return p.errorf("%v", err)
	}
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		pos, value, err := nextToken(entry)
		if err != nil {
			return p.errorf("%v", err)
		}
		i, err := strconv.Atoi(pos)
		if err != nil || i < 0 || i >= len(attrs) {
			return p.errorf("invalid sparse index %q", pos)
		}
		value = strings.TrimSpace(value)
		missing[i] = value == model.MissingToken
		if tokens[i], err = unquote(value); err != nil {
			return p.errorf("%v", err)
		}
	}
	return p.appendRecord(tokens, missing)
}

func sparseDefault(a model.Attribute) string {
	switch a.Type {
	case model.Numeric:
		return "0"
	case model.Nominal:
		if len(a.Values) > 0 {
			return a.Values[0]
		}
	}
	return ""
}

func (p *parser) appendRecord(tokens []string, missing []bool) error {
	attrs := p.ds.Schema.Attributes
	values := make([]float64, len(attrs))
	for i, a := range attrs {
		tok := tokens[i]
		if missing[i] {
			values[i] = model.Missing
			continue
		}
		switch a.Type {
		case model.Numeric:
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return p.errorf("attribute %q: invalid number %q", a.Name, tok)
			}
			values[i] = v
		case model.Nominal:
			ord := a.IndexOfValue(tok)
			if ord < 0 {
				return p.errorf("attribute %q: undeclared label %q", a.Name, tok)
			}
			values[i] = float64(ord)
		default:
			values[i] = model.Missing
		}
	}
	p.ds.Records = append(p.ds.Records, model.NewRecordWithMissing(values, tokens, missing))
	return nil
}

// nextToken reads one possibly quoted token from s and returns the rest.
func nextToken(s string) (string, string, error) {
	s = strings.TrimLeft(s, " \t")
	if s == "" {
		return "", "", nil
	}
	if q := s[0]; q == '\'' || q == '"' {
		var b strings.Builder
		for i := 1; i < len(s); i++ {
			c := s[i]
			switch {
			case c == '\\' && i+1 < len(s):
				i++
				b.WriteByte(unescape(s[i]))
			case c == q:
				return b.String(), s[i+1:], nil
			default:
				b.WriteByte(c)
			}
		}
		return "", "", fmt.Errorf("unterminated quote in %q", s)
	}
	i := strings.IndexAny(s, " \t{")
	if i < 0 {
		return s, "", nil
	}
	return s[:i], s[i:], nil
}

// splitFields splits s on sep outside of quotes and unquotes every field.
func splitFields(s string, sep byte) ([]string, error) {
	raw, err := splitRaw(s, sep)
	if err != nil {
		return nil, err
	}
	for i, f := range raw {
		if raw[i], err = unquote(f); err != nil {
			return nil, err
		}
	}
	return raw, nil
}

// splitValues splits a dense data row into unquoted values and reports which
// of them are the unquoted missing marker.
func splitValues(s string) ([]string, []bool, error) {
	raw, err := splitRaw(s, ',')
	if err != nil {
		return nil, nil, err
	}
	missing := make([]bool, len(raw))
	for i, f := range raw {
		missing[i] = f == model.MissingToken
		if raw[i], err = unquote(f); err != nil {
			return nil, nil, err
		}
	}
	return raw, missing, nil
}

// stripComment cuts s at the first '%' outside of quotes.
func stripComment(s string) string {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
		case c == '\'' || c == '"':
			quote = c
		case c == '%':
			return s[:i]
		}
	}
	return s
}

// splitRaw splits s on sep outside of quotes, keeping quotes intact.
func splitRaw(s string, sep byte) ([]string, error) {
	var fields []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0 && c == '\\':
			i++
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
		case c == '\'' || c == '"':
			quote = c
		case c == sep:
			fields = append(fields, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote in %q", s)
	}
	return append(fields, strings.TrimSpace(s[start:])), nil
}

func unquote(f string) (string, error) {
	if f == "" || (f[0] != '\'' && f[0] != '"') {
		return f, nil
	}
	tok, rest, err := nextToken(f)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(rest) != "" {
		return "", fmt.Errorf("unexpected text after quoted value %q", f)
	}
	return tok, nil
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	default:
		return c
	}
}
