package main

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"

	"github.com/als-project/als/alserr"
	"github.com/als-project/als/compressor"
	"github.com/als-project/als/tabular"
)

func TestParseTabularAutoDetectsJSON(t *testing.T) {
	data, err := parseTabular(`[{"id":1,"name":"a"},{"id":2,"name":"b"}]`, "auto")
	if err != nil {
		t.Fatalf("parseTabular error: %v", err)
	}
	if data.RowCount != 2 || data.ColumnCount() != 2 {
		t.Errorf("expected 2 rows and 2 columns, got %d rows %d columns", data.RowCount, data.ColumnCount())
	}
}

func TestParseTabularAutoDetectsCSV(t *testing.T) {
	data, err := parseTabular("id,name\n1,alice\n2,bob\n", "auto")
	if err != nil {
		t.Fatalf("parseTabular error: %v", err)
	}
	if data.RowCount != 2 {
		t.Errorf("expected 2 rows, got %d", data.RowCount)
	}
}

func TestParseTabularUnknownFormat(t *testing.T) {
	_, err := parseTabular("x", "yaml")
	if err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestDecodeDocumentRoundTripsALS(t *testing.T) {
	data, err := parseTabular("id,name\n1,alice\n2,bob\n3,charlie\n", "csv")
	if err != nil {
		t.Fatalf("parseTabular error: %v", err)
	}
	_ = data

	als := "!v1\n#id #name\n1>3|alice bob charlie\n"
	decoded, doc, err := decodeDocument(als)
	if err != nil {
		t.Fatalf("decodeDocument error: %v", err)
	}
	if doc.IsCtx() {
		t.Error("expected an ALS document")
	}
	if decoded.RowCount != 3 {
		t.Errorf("expected 3 rows, got %d", decoded.RowCount)
	}
}

func TestDecodeDocumentRoundTripsCTX(t *testing.T) {
	text := "!ctx\n#id #name\n1 alice\n2 bob\n"
	decoded, doc, err := decodeDocument(text)
	if err != nil {
		t.Fatalf("decodeDocument error: %v", err)
	}
	if !doc.IsCtx() {
		t.Error("expected a CTX document")
	}
	if decoded.RowCount != 2 {
		t.Errorf("expected 2 rows, got %d", decoded.RowCount)
	}
}

func TestCompressDecompressJSONPreservesTypes(t *testing.T) {
	input := `[{"age":30,"active":true,"name":"alice"},{"age":41,"active":false,"name":"bob"}]`

	c := compressor.New()
	wire, err := c.CompressJSON(input)
	if err != nil {
		t.Fatalf("CompressJSON error: %v", err)
	}

	data, _, err := decodeDocument(wire)
	if err != nil {
		t.Fatalf("decodeDocument error: %v", err)
	}

	var buf bytes.Buffer
	if err := tabular.ToJSON(&buf, data); err != nil {
		t.Fatalf("ToJSON error: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if age, ok := rows[0]["age"].(float64); !ok || age != 30 {
		t.Errorf("age = %#v (%T), want numeric 30", rows[0]["age"], rows[0]["age"])
	}
	if active, ok := rows[0]["active"].(bool); !ok || active != true {
		t.Errorf("active = %#v (%T), want boolean true", rows[0]["active"], rows[0]["active"])
	}
	if name, ok := rows[0]["name"].(string); !ok || name != "alice" {
		t.Errorf("name = %#v (%T), want string alice", rows[0]["name"], rows[0]["name"])
	}
	if active, ok := rows[1]["active"].(bool); !ok || active != false {
		t.Errorf("active = %#v (%T), want boolean false", rows[1]["active"], rows[1]["active"])
	}
}

func TestExitCodeForIOError(t *testing.T) {
	err := alserr.Wrap(alserr.KindIO, io.EOF, "boom")
	if code := exitCodeFor(err); code != 2 {
		t.Errorf("expected exit code 2, got %d", code)
	}
}

func TestExitCodeForUserError(t *testing.T) {
	err := alserr.New(alserr.KindSyntax, "bad input")
	if code := exitCodeFor(err); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}
