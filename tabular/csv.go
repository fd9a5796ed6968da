package tabular

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/als-project/als/alserr"
)

// FromCSV builds a Data from CSV text using the standard library's csv
// reader (surface parsing is delegated per spec §1). The first row is the
// header. Each field is typed narrowly: lexically-integer becomes Integer,
// lexically-float becomes Float, everything else (including an empty field,
// which is a value distinct from a missing one) becomes String.
func FromCSV(r io.Reader) (Data, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		wrapped := alserr.Wrap(alserr.KindSyntax, err, "CSV parse failure")
		if pe, ok := err.(*csv.ParseError); ok {
			wrapped.Line, wrapped.Column = pe.Line, pe.Column
		}
		return Data{}, wrapped
	}
	if len(records) == 0 {
		return Data{}, nil
	}
	header := records[0]
	columns := make([]Column, len(header))
	for i, name := range header {
		columns[i] = Column{Name: name}
	}
	for _, row := range records[1:] {
		for i := range columns {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			columns[i].Values = append(columns[i].Values, typeCSVField(cell))
		}
	}
	for i := range columns {
		columns[i].InferredType = InferType(columns[i].Values)
	}
	return New(columns)
}

func typeCSVField(s string) Value {
	if s == "" {
		return Str("")
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	return Str(s)
}

// ToCSV renders Data back to CSV text, one header row followed by one row
// per record. Null values render as an empty field, matching FromCSV's
// treatment of empty fields as the empty string (spec §6's documented
// line-ending/normalization relaxation covers the rest of round-tripping).
func ToCSV(w io.Writer, d Data) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.ColumnNames()); err != nil {
		return alserr.Wrap(alserr.KindIO, err, "CSV write failure")
	}
	for row := 0; row < d.RowCount; row++ {
		record := make([]string, len(d.Columns))
		for i, c := range d.Columns {
			v := c.Values[row]
			if v.IsNull() {
				record[i] = ""
				continue
			}
			record[i] = v.StringRepr()
		}
		if err := cw.Write(record); err != nil {
			return alserr.Wrap(alserr.KindIO, err, "CSV write failure")
		}
	}
	cw.Flush()
	return cw.Error()
}

// NormalizeLineEndings converts CRLF and lone CR to LF, per spec §6's
// line-ending policy.
func NormalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return s
}
