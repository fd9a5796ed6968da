package als

import "github.com/cespare/xxhash/v2"

// CurrentVersion is the ALS format version this package reads and writes.
const CurrentVersion uint8 = 1

// FormatIndicator distinguishes a full ALS-compressed document from a CTX
// fallback (spec §6).
type FormatIndicator uint8

const (
	FormatAls FormatIndicator = iota
	FormatCtx
)

// VersionPrefix is the wire-format prefix token for this indicator.
func (f FormatIndicator) VersionPrefix() string {
	if f == FormatCtx {
		return "!ctx"
	}
	return "!v"
}

// ColumnStream is one column's compressed representation: a sequence of
// operators that, concatenated, produce the column's values.
type ColumnStream struct {
	Operators []Operator
}

func NewColumnStream() ColumnStream                        { return ColumnStream{} }
func ColumnStreamFromOperators(ops []Operator) ColumnStream { return ColumnStream{Operators: ops} }

func (c *ColumnStream) Push(op Operator) { c.Operators = append(c.Operators, op) }
func (c ColumnStream) OperatorCount() int { return len(c.Operators) }
func (c ColumnStream) IsEmpty() bool      { return len(c.Operators) == 0 }

func (c ColumnStream) ExpandedCount() int {
	total := 0
	for _, op := range c.Operators {
		total += op.ExpandedCount()
	}
	return total
}

func (c ColumnStream) Expand(dictionary []string) ([]string, error) {
	result := make([]string, 0, c.ExpandedCount())
	for _, op := range c.Operators {
		values, err := op.Expand(dictionary)
		if err != nil {
			return nil, err
		}
		result = append(result, values...)
	}
	return result, nil
}

// Document is a complete ALS document: version, named dictionaries, column
// schema, per-column streams, and a format indicator.
type Document struct {
	Version         uint8
	Dictionaries    map[string][]string
	Schema          []string
	Streams         []ColumnStream
	FormatIndicator FormatIndicator
}

func NewDocument() *Document {
	return &Document{
		Version:         CurrentVersion,
		Dictionaries:    make(map[string][]string),
		FormatIndicator: FormatAls,
	}
}

func NewDocumentWithSchema(schema []string) *Document {
	d := NewDocument()
	d.Schema = append([]string(nil), schema...)
	return d
}

func (d *Document) AddDictionary(name string, entries []string) {
	d.Dictionaries[name] = entries
}

func (d *Document) AddStream(stream ColumnStream) {
	d.Streams = append(d.Streams, stream)
}

func (d *Document) ColumnCount() int { return len(d.Schema) }

// RowCount is derived from the first column stream's expanded length; 0 if
// the document has no streams.
func (d *Document) RowCount() int {
	if len(d.Streams) == 0 {
		return 0
	}
	return d.Streams[0].ExpandedCount()
}

func (d *Document) IsCtx() bool { return d.FormatIndicator == FormatCtx }
func (d *Document) IsAls() bool { return d.FormatIndicator == FormatAls }

func (d *Document) SetCtxFormat() { d.FormatIndicator = FormatCtx }
func (d *Document) SetAlsFormat() { d.FormatIndicator = FormatAls }

// DefaultDictionary returns the dictionary used by bare `_i` references.
func (d *Document) DefaultDictionary() ([]string, bool) {
	entries, ok := d.Dictionaries["default"]
	return entries, ok
}

// ContentHash returns a fast, non-cryptographic fingerprint of the
// serialized document, suitable for cache keys and dedup checks on repeated
// compress/decompress round trips. It is not part of the wire format.
func (d *Document) ContentHash() uint64 {
	return xxhash.Sum64String(Serializer{}.Serialize(d))
}

// IsValid checks schema/stream length parity and that every stream expands
// to the same row count.
func (d *Document) IsValid() bool {
	if len(d.Schema) != len(d.Streams) {
		return false
	}
	if len(d.Streams) == 0 {
		return true
	}
	expected := d.Streams[0].ExpandedCount()
	for _, s := range d.Streams[1:] {
		if s.ExpandedCount() != expected {
			return false
		}
	}
	return true
}
