package als

import (
	"sort"
	"strconv"
	"strings"

	"github.com/als-project/als/escape"
)

// Serializer renders a Document to its ALS wire text.
type Serializer struct{}

func NewSerializer() Serializer { return Serializer{} }

// Serialize produces the wire text for doc.
func (Serializer) Serialize(doc *Document) string {
	var b strings.Builder
	s := Serializer{}
	s.serializeVersion(&b, doc)
	if len(doc.Dictionaries) > 0 {
		s.serializeDictionaries(&b, doc)
	}
	if len(doc.Schema) > 0 {
		s.serializeSchema(&b, doc)
	}
	if len(doc.Streams) > 0 {
		s.serializeStreams(&b, doc)
	}
	return b.String()
}

func (Serializer) serializeVersion(b *strings.Builder, doc *Document) {
	if doc.FormatIndicator == FormatCtx {
		b.WriteString("!ctx\n")
		return
	}
	b.WriteString("!v")
	b.WriteString(strconv.Itoa(int(doc.Version)))
	b.WriteByte('\n')
}

// serializeDictionaries sorts dictionary names for deterministic output.
func (s Serializer) serializeDictionaries(b *strings.Builder, doc *Document) {
	names := make([]string, 0, len(doc.Dictionaries))
	for name := range doc.Dictionaries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := doc.Dictionaries[name]
		b.WriteByte('$')
		b.WriteString(name)
		b.WriteByte(':')
		for i, value := range values {
			if i > 0 {
				b.WriteByte('|')
			}
			b.WriteString(escapeDictValue(value))
		}
		b.WriteByte('\n')
	}
}

func (s Serializer) serializeSchema(b *strings.Builder, doc *Document) {
	for i, name := range doc.Schema {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('#')
		b.WriteString(escapeSchemaName(name))
	}
	b.WriteByte('\n')
}

func (s Serializer) serializeStreams(b *strings.Builder, doc *Document) {
	for i, stream := range doc.Streams {
		if i > 0 {
			b.WriteByte('|')
		}
		s.serializeStream(b, stream)
	}
}

func (s Serializer) serializeStream(b *strings.Builder, stream ColumnStream) {
	for i, op := range stream.Operators {
		if i > 0 {
			b.WriteByte(' ')
		}
		s.serializeOperator(b, op)
	}
}

// serializeOperator renders a single operator. A Multiply's inner operator
// is parenthesized only when it isn't already unambiguous on its own (Raw
// and DictRef never need it).
func (s Serializer) serializeOperator(b *strings.Builder, op Operator) {
	switch op.Kind {
	case OpRaw:
		b.WriteString(escape.EncodeValue(&op.Raw))

	case OpRange:
		b.WriteString(strconv.FormatInt(op.Start, 10))
		b.WriteByte('>')
		b.WriteString(strconv.FormatInt(op.End, 10))
		defaultStep := int64(1)
		if op.End < op.Start {
			defaultStep = -1
		}
		if op.Step != defaultStep {
			b.WriteByte(':')
			b.WriteString(strconv.FormatInt(op.Step, 10))
		}

	case OpMultiply:
		inner := op.Value
		needsParens := inner != nil && (inner.Kind == OpRange || inner.Kind == OpToggle || inner.Kind == OpMultiply)
		if needsParens {
			b.WriteByte('(')
			s.serializeOperator(b, *inner)
			b.WriteByte(')')
		} else if inner != nil {
			s.serializeOperator(b, *inner)
		}
		b.WriteByte('*')
		b.WriteString(strconv.Itoa(op.Count))

	case OpToggle:
		for i, v := range op.Values {
			if i > 0 {
				b.WriteByte('~')
			}
			b.WriteString(escape.EncodeValue(&v))
		}
		b.WriteByte('*')
		b.WriteString(strconv.Itoa(op.Count))

	case OpDictRef:
		b.WriteByte('_')
		b.WriteString(strconv.Itoa(op.DictIndex))
	}
}

// escapeDictValue escapes a dictionary entry for the '$name:v1|v2' header
// form: '|' separates entries and '\n' terminates the header line, so both
// need escaping alongside the backslash itself.
func escapeDictValue(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for _, c := range s {
		switch c {
		case '|':
			b.WriteString(`\|`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// escapeSchemaName escapes a column name for the space-separated '#name'
// schema line.
func escapeSchemaName(s string) string {
	var b strings.Builder
	b.Grow(len(s) + len(s)/4)
	for _, c := range s {
		switch c {
		case ' ':
			b.WriteString(`\ `)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\\':
			b.WriteString(`\\`)
		case '#':
			b.WriteString(`\#`)
		default:
			b.WriteRune(c)
		}
	}
	return b.String()
}

// PrettyPrinter renders a Document as human-readable, commented ALS text
// for debugging and inspection; it is never fed back into Parser.
type PrettyPrinter struct {
	showExpanded bool
	indent       string
}

func NewPrettyPrinter() PrettyPrinter {
	return PrettyPrinter{indent: "  "}
}

func (p PrettyPrinter) WithExpandedComments(show bool) PrettyPrinter {
	p.showExpanded = show
	return p
}

func (p PrettyPrinter) WithIndent(indent string) PrettyPrinter {
	p.indent = indent
	return p
}

// Format renders doc with section headers and, optionally, comments showing
// what each operator expands to.
func (p PrettyPrinter) Format(doc *Document) string {
	var b strings.Builder

	b.WriteString("# ALS Document\n")
	b.WriteString("# =============\n\n")

	p.formatVersion(&b, doc)
	b.WriteByte('\n')

	if len(doc.Dictionaries) > 0 {
		b.WriteString("# Dictionaries\n")
		b.WriteString("# ------------\n")
		p.formatDictionaries(&b, doc)
		b.WriteByte('\n')
	}

	if len(doc.Schema) > 0 {
		b.WriteString("# Schema\n")
		b.WriteString("# ------\n")
		p.formatSchema(&b, doc)
		b.WriteByte('\n')
	}

	if len(doc.Streams) > 0 {
		b.WriteString("# Data Streams\n")
		b.WriteString("# ------------\n")
		p.formatStreams(&b, doc)
	}

	return b.String()
}

func (p PrettyPrinter) formatVersion(b *strings.Builder, doc *Document) {
	if doc.FormatIndicator == FormatCtx {
		b.WriteString("!ctx  # CTX fallback format\n")
		return
	}
	b.WriteString("!v")
	b.WriteString(strconv.Itoa(int(doc.Version)))
	b.WriteString("  # ALS format version ")
	b.WriteString(strconv.Itoa(int(doc.Version)))
	b.WriteByte('\n')
}

func (p PrettyPrinter) formatDictionaries(b *strings.Builder, doc *Document) {
	names := make([]string, 0, len(doc.Dictionaries))
	for name := range doc.Dictionaries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		values := doc.Dictionaries[name]
		b.WriteByte('$')
		b.WriteString(name)
		b.WriteByte(':')
		for i, value := range values {
			if i > 0 {
				b.WriteByte('|')
			}
			b.WriteString(escapeDictValue(value))
		}

		b.WriteString("  # indices: ")
		for i, value := range values {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteByte('_')
			b.WriteString(strconv.Itoa(i))
			b.WriteByte('=')
			b.WriteString(value)
		}
		b.WriteByte('\n')
	}
}

func (p PrettyPrinter) formatSchema(b *strings.Builder, doc *Document) {
	for i, name := range doc.Schema {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('#')
		b.WriteString(escapeSchemaName(name))
	}
	b.WriteString("  # ")
	b.WriteString(strconv.Itoa(len(doc.Schema)))
	b.WriteString(" columns\n")
}

func (p PrettyPrinter) formatStreams(b *strings.Builder, doc *Document) {
	defaultDict, hasDefault := doc.DefaultDictionary()

	for colIdx, stream := range doc.Streams {
		if colIdx > 0 {
			b.WriteString("\n|  # column separator\n\n")
		}

		colName := "?"
		if colIdx < len(doc.Schema) {
			colName = doc.Schema[colIdx]
		}
		b.WriteString("# Column ")
		b.WriteString(strconv.Itoa(colIdx))
		b.WriteString(": ")
		b.WriteString(colName)
		b.WriteByte('\n')

		var dict []string
		if hasDefault {
			dict = defaultDict
		}
		p.formatStream(b, stream, dict)
	}
}

func (p PrettyPrinter) formatStream(b *strings.Builder, stream ColumnStream, dictionary []string) {
	for i, op := range stream.Operators {
		if i > 0 {
			b.WriteByte(' ')
		}
		p.formatOperator(b, op, dictionary)
	}
	b.WriteByte('\n')
}

func (p PrettyPrinter) formatOperator(b *strings.Builder, op Operator, dictionary []string) {
	s := Serializer{}
	var opStr strings.Builder
	s.serializeOperator(&opStr, op)
	b.WriteString(opStr.String())

	if !p.showExpanded {
		return
	}
	expanded, err := op.Expand(dictionary)
	if err != nil {
		return
	}
	var preview string
	if len(expanded) <= 5 {
		preview = strings.Join(expanded, ", ")
	} else {
		preview = strings.Join(expanded[:2], ", ") + ", ..., " + expanded[len(expanded)-1] +
			" (" + strconv.Itoa(len(expanded)) + " values)"
	}
	b.WriteString("  /* ")
	b.WriteString(preview)
	b.WriteString(" */")
}
