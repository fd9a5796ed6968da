package tabular

// Column is a named, ordered sequence of Values plus an advisory inferred
// type. The pattern detectors do not consult InferredType; they validate
// each value themselves (see DESIGN.md's Open Question resolution #2).
type Column struct {
	Name         string
	Values       []Value
	InferredType InferredType
}

// NewColumn builds a Column, computing its inferred type from values.
func NewColumn(name string, values []Value) Column {
	return Column{Name: name, Values: values, InferredType: InferType(values)}
}

// StringValues renders every value's StringRepr, in order.
func (c Column) StringValues() []string {
	out := make([]string, len(c.Values))
	for i, v := range c.Values {
		out[i] = v.StringRepr()
	}
	return out
}

// Data is an ordered list of equal-length Columns (spec §3's TabularData).
type Data struct {
	Columns  []Column
	RowCount int
}

// New builds a Data from columns, validating that every column has the same
// length.
func New(columns []Column) (Data, error) {
	rowCount := 0
	if len(columns) > 0 {
		rowCount = len(columns[0].Values)
	}
	for _, c := range columns {
		if len(c.Values) != rowCount {
			return Data{}, errColumnLengthMismatch(c.Name, len(c.Values), rowCount)
		}
	}
	return Data{Columns: columns, RowCount: rowCount}, nil
}

func (d Data) IsEmpty() bool      { return d.RowCount == 0 }
func (d Data) ColumnCount() int   { return len(d.Columns) }
func (d Data) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the column with the given name, or false if absent.
func (d Data) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}
