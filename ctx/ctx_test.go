package ctx

import (
	"strings"
	"testing"

	"github.com/als-project/als/als"
)

func TestSerializeRowMajor(t *testing.T) {
	doc := als.NewDocumentWithSchema([]string{"col1", "col2", "col3"})
	doc.SetCtxFormat()
	doc.AddStream(als.ColumnStreamFromOperators([]als.Operator{als.RawOp("val1"), als.RawOp("val4")}))
	doc.AddStream(als.ColumnStreamFromOperators([]als.Operator{als.RawOp("val2"), als.RawOp("val5")}))
	doc.AddStream(als.ColumnStreamFromOperators([]als.Operator{als.RawOp("val3"), als.RawOp("val6")}))

	got, err := Serialize(doc)
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	want := "!ctx\n#col1 #col2 #col3\nval1 val2 val3\nval4 val5 val6\n"
	if got != want {
		t.Errorf("Serialize = %q, want %q", got, want)
	}
}

func TestParseRoundTrip(t *testing.T) {
	input := "!ctx\n#id #name\n1 alice\n2 bob\n"
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if !doc.IsCtx() {
		t.Error("parsed document should be CTX format")
	}
	if len(doc.Schema) != 2 || doc.Schema[0] != "id" || doc.Schema[1] != "name" {
		t.Errorf("schema = %v", doc.Schema)
	}
	if doc.RowCount() != 2 {
		t.Errorf("row count = %d, want 2", doc.RowCount())
	}

	got, err := Serialize(doc)
	if err != nil {
		t.Fatalf("re-serialize error: %v", err)
	}
	if got != input {
		t.Errorf("round trip = %q, want %q", got, input)
	}
}

func TestParseEscapedSpaceValue(t *testing.T) {
	input := "!ctx\n#col\nhello\\ world\n"
	doc, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	values, err := doc.Streams[0].Expand(nil)
	if err != nil {
		t.Fatalf("Expand error: %v", err)
	}
	if len(values) != 1 || values[0] != "hello world" {
		t.Errorf("expanded = %v, want [\"hello world\"]", values)
	}
}

func TestParseRejectsMissingHeader(t *testing.T) {
	if _, err := Parse("#col\nval\n"); err == nil {
		t.Error("expected error for missing !ctx header")
	}
}

func TestParseRejectsColumnMismatch(t *testing.T) {
	input := "!ctx\n#a #b\n1 2 3\n"
	if _, err := Parse(input); err == nil {
		t.Error("expected error for column count mismatch")
	}
}

func TestSerializeEmptyStreams(t *testing.T) {
	doc := als.NewDocumentWithSchema([]string{"a", "b"})
	doc.SetCtxFormat()
	doc.AddStream(als.NewColumnStream())
	doc.AddStream(als.NewColumnStream())

	got, err := Serialize(doc)
	if err != nil {
		t.Fatalf("Serialize error: %v", err)
	}
	if !strings.HasPrefix(got, "!ctx\n#a #b\n") {
		t.Errorf("Serialize = %q", got)
	}
}
