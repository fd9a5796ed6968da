// Package ctx implements the CTX fallback wire format: a row-major textual
// encoding with no operator compression, used when ALS compression does not
// pay for itself on a given input.
package ctx

import (
	"strings"

	"github.com/als-project/als/alserr"
	"github.com/als-project/als/als"
	"github.com/als-project/als/escape"
)

// Serialize renders doc's schema and expanded rows as CTX text:
//
//	!ctx
//	#col1 #col2 #col3
//	val1 val2 val3
//	val4 val5 val6
//
// doc's streams are expected to hold only Raw operators (or be expandable
// without a dictionary); doc's FormatIndicator is ignored, since a caller
// choosing to call Serialize has already decided on CTX.
func Serialize(doc *als.Document) (string, error) {
	rows, err := rowsOf(doc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("!ctx\n")
	for i, name := range doc.Schema {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteByte('#')
		b.WriteString(escapeSchemaToken(name))
	}
	if len(doc.Schema) > 0 {
		b.WriteByte('\n')
	}

	for _, row := range rows {
		for i, value := range row {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(escape.Escape(value))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// rowsOf expands doc's column streams and transposes them into rows.
func rowsOf(doc *als.Document) ([][]string, error) {
	if len(doc.Streams) == 0 {
		return nil, nil
	}
	columns := make([][]string, len(doc.Streams))
	for i, stream := range doc.Streams {
		dict, _ := doc.DefaultDictionary()
		values, err := stream.Expand(dict)
		if err != nil {
			return nil, err
		}
		columns[i] = values
	}
	rowCount := len(columns[0])
	for _, col := range columns {
		if len(col) != rowCount {
			return nil, alserr.ColumnMismatch(rowCount, len(col))
		}
	}
	rows := make([][]string, rowCount)
	for r := 0; r < rowCount; r++ {
		row := make([]string, len(columns))
		for c := range columns {
			row[c] = columns[c][r]
		}
		rows[r] = row
	}
	return rows, nil
}

// escapeSchemaToken escapes a column name for the CTX schema line, using
// the same rule as the ALS schema line since CTX and ALS share the "#name"
// token and space-separated layout.
func escapeSchemaToken(s string) string {
	var b strings.Builder
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

// Parse reads CTX text back into a Document whose streams hold only Raw
// operators, one per row, per spec's "In CTX mode, streams contain only
// Raw operators" invariant.
func Parse(input string) (*als.Document, error) {
	lines := strings.Split(normalizeLineEndings(input), "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "!ctx" {
		return nil, alserr.New(alserr.KindSemantic, "ctx document must start with !ctx")
	}

	doc := als.NewDocument()
	doc.SetCtxFormat()
	if len(lines) < 2 {
		return doc, nil
	}

	schema, err := parseSchemaLine(lines[1])
	if err != nil {
		return nil, err
	}
	doc.Schema = schema
	for range schema {
		doc.AddStream(als.NewColumnStream())
	}

	for _, line := range lines[2:] {
		if line == "" {
			continue
		}
		tokens, err := splitEscaped(line)
		if err != nil {
			return nil, err
		}
		if len(tokens) != len(schema) {
			return nil, alserr.ColumnMismatch(len(schema), len(tokens))
		}
		for i, tok := range tokens {
			doc.Streams[i].Push(als.RawOp(tok))
		}
	}
	return doc, nil
}

func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func parseSchemaLine(line string) ([]string, error) {
	tokens, err := splitEscaped(line)
	if err != nil {
		return nil, err
	}
	schema := make([]string, len(tokens))
	for i, tok := range tokens {
		name := strings.TrimPrefix(tok, "#")
		if name == tok {
			return nil, alserr.New(alserr.KindSyntax, "ctx schema column missing '#' prefix: %q", tok)
		}
		schema[i] = name
	}
	return schema, nil
}

// splitEscaped splits line on unescaped spaces, honoring escape.Escape's
// two-character escapes so a raw value containing a literal space
// round-trips.
func splitEscaped(line string) ([]string, error) {
	var tokens []string
	var b strings.Builder
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case c == '\\':
			if i+1 >= len(runes) {
				return nil, alserr.New(alserr.KindEscape, "incomplete escape sequence at end of line")
			}
			b.WriteRune(c)
			i++
			b.WriteRune(runes[i])
		case c == ' ':
			tokens = append(tokens, b.String())
			b.Reset()
		default:
			b.WriteRune(c)
		}
	}
	tokens = append(tokens, b.String())

	decoded := make([]string, len(tokens))
	for i, tok := range tokens {
		unescaped, err := escape.Unescape(tok)
		if err != nil {
			return nil, err
		}
		decoded[i] = unescaped
	}
	return decoded, nil
}
