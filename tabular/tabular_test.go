package tabular

import (
	"bytes"
	"strings"
	"testing"
)

func TestFromCSVBasic(t *testing.T) {
	d, err := FromCSV(strings.NewReader("id\n1\n2\n3\n4\n5\n"))
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}
	if d.ColumnCount() != 1 || d.RowCount != 5 {
		t.Fatalf("unexpected shape: %d columns, %d rows", d.ColumnCount(), d.RowCount)
	}
	col := d.Columns[0]
	if col.Name != "id" {
		t.Errorf("column name = %q, want id", col.Name)
	}
	for i, v := range col.Values {
		if v.Kind != TypeInteger || v.I != int64(i+1) {
			t.Errorf("value[%d] = %+v, want integer %d", i, v, i+1)
		}
	}
}

func TestFromCSVEmptyField(t *testing.T) {
	d, err := FromCSV(strings.NewReader("x\na\n\nb\n"))
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}
	col := d.Columns[0]
	if col.Values[1].Kind != TypeString || col.Values[1].S != "" {
		t.Errorf("row 2 = %+v, want empty string", col.Values[1])
	}
}

func TestCSVRoundTrip(t *testing.T) {
	input := "a,b\n1,x\n2,y\n3,z\n"
	d, err := FromCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("FromCSV: %v", err)
	}
	var buf bytes.Buffer
	if err := ToCSV(&buf, d); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}
	d2, err := FromCSV(&buf)
	if err != nil {
		t.Fatalf("FromCSV(round trip): %v", err)
	}
	if d2.RowCount != d.RowCount || d2.ColumnCount() != d.ColumnCount() {
		t.Fatalf("shape mismatch after round trip")
	}
}

func TestFromJSONNestedDotPath(t *testing.T) {
	input := `[{"a":{"b":1}},{"a":{"b":2}},{"a":{"b":3}}]`
	d, err := FromJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if d.ColumnCount() != 1 || d.Columns[0].Name != "a.b" {
		t.Fatalf("expected single column a.b, got %+v", d.Columns)
	}
	want := []int64{1, 2, 3}
	for i, v := range d.Columns[0].Values {
		if v.Kind != TypeInteger || v.I != want[i] {
			t.Errorf("value[%d] = %+v, want %d", i, v, want[i])
		}
	}
}

func TestFromJSONMissingKeysBecomeNull(t *testing.T) {
	input := `[{"a":1,"b":2},{"a":3}]`
	d, err := FromJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	bCol, ok := d.Column("b")
	if !ok {
		t.Fatal("expected column b")
	}
	if !bCol.Values[1].IsNull() {
		t.Errorf("bCol.Values[1] = %+v, want null", bCol.Values[1])
	}
}

func TestFromJSONColumnOrderFirstSeen(t *testing.T) {
	input := `[{"z":1,"a":2},{"z":3,"a":4}]`
	d, err := FromJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if d.Columns[0].Name != "z" || d.Columns[1].Name != "a" {
		t.Fatalf("column order = %v, want [z a]", d.ColumnNames())
	}
}

func TestJSONRoundTripNested(t *testing.T) {
	input := `[{"a":{"b":1}},{"a":{"b":2}}]`
	d, err := FromJSON(strings.NewReader(input))
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	var buf bytes.Buffer
	if err := ToJSON(&buf, d); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}
	d2, err := FromJSON(&buf)
	if err != nil {
		t.Fatalf("FromJSON(round trip): %v", err)
	}
	if d2.ColumnCount() != 1 || d2.Columns[0].Name != "a.b" {
		t.Fatalf("round trip lost nested shape: %+v", d2.Columns)
	}
}

func TestInferType(t *testing.T) {
	if got := InferType([]Value{Int(1), Int(2)}); got != InferredInteger {
		t.Errorf("InferType(ints) = %v, want integer", got)
	}
	if got := InferType([]Value{Int(1), Str("x")}); got != InferredMixed {
		t.Errorf("InferType(mixed) = %v, want mixed", got)
	}
	if got := InferType([]Value{Null(), Null()}); got != InferredMixed {
		t.Errorf("InferType(all null) = %v, want mixed", got)
	}
}

func TestParseBoolean(t *testing.T) {
	cases := map[string]bool{"true": true, "YES": true, "n": false, "F": false}
	for in, want := range cases {
		got, ok := ParseBoolean(in)
		if !ok || got != want {
			t.Errorf("ParseBoolean(%q) = %v, %v, want %v, true", in, got, ok, want)
		}
	}
	if _, ok := ParseBoolean("maybe"); ok {
		t.Error("ParseBoolean(maybe) should not match")
	}
}

func TestInferValueFromString(t *testing.T) {
	cases := []struct {
		in   string
		kind Type
	}{
		{"30", TypeInteger},
		{"3.5", TypeFloat},
		{"true", TypeBoolean},
		{"false", TypeBoolean},
		{"alice", TypeString},
		{"", TypeString},
	}
	for _, c := range cases {
		got := InferValueFromString(c.in)
		if got.Kind != c.kind {
			t.Errorf("InferValueFromString(%q).Kind = %v, want %v", c.in, got.Kind, c.kind)
		}
	}
	if v := InferValueFromString("30"); v.I != 30 {
		t.Errorf("InferValueFromString(30).I = %d, want 30", v.I)
	}
	if v := InferValueFromString("true"); !v.B {
		t.Error("InferValueFromString(true).B = false, want true")
	}
}
