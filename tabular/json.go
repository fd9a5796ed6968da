package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/als-project/als/alserr"
)

// ojKind is the ordered-JSON intermediate value kind used while decoding, so
// that object field order (needed for "first-seen" column ordering) survives
// the walk instead of being lost to Go map randomization.
type ojKind uint8

const (
	ojNull ojKind = iota
	ojBool
	ojNumber
	ojString
	ojObject
	ojArray
)

type ojField struct {
	key string
	val ojValue
}

type ojValue struct {
	kind ojKind
	b    bool
	num  json.Number
	s    string
	obj  []ojField
	arr  []ojValue
}

func decodeOJ(dec *json.Decoder) (ojValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return ojValue{}, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			var fields []ojField
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return ojValue{}, err
				}
				key, _ := keyTok.(string)
				v, err := decodeOJ(dec)
				if err != nil {
					return ojValue{}, err
				}
				fields = append(fields, ojField{key: key, val: v})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return ojValue{}, err
			}
			return ojValue{kind: ojObject, obj: fields}, nil
		case '[':
			var items []ojValue
			for dec.More() {
				v, err := decodeOJ(dec)
				if err != nil {
					return ojValue{}, err
				}
				items = append(items, v)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return ojValue{}, err
			}
			return ojValue{kind: ojArray, arr: items}, nil
		}
	case nil:
		return ojValue{kind: ojNull}, nil
	case bool:
		return ojValue{kind: ojBool, b: t}, nil
	case json.Number:
		return ojValue{kind: ojNumber, num: t}, nil
	case string:
		return ojValue{kind: ojString, s: t}, nil
	}
	return ojValue{}, fmt.Errorf("unexpected JSON token %v", tok)
}

func (v ojValue) toValue() (Value, error) {
	switch v.kind {
	case ojNull:
		return Null(), nil
	case ojBool:
		return Bool(v.b), nil
	case ojNumber:
		return numberToValue(v.num), nil
	case ojString:
		return Str(v.s), nil
	default:
		// Arrays and unflattened objects reaching here (e.g. an array
		// nested inside an object field) have no dot-path representation;
		// carry them through as their compact JSON text so the value is
		// still round-trippable as a String.
		b, err := v.toJSON()
		if err != nil {
			return Value{}, err
		}
		return Str(string(b)), nil
	}
}

func numberToValue(n json.Number) Value {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return Int(i)
		}
	}
	f, _ := n.Float64()
	return Float(f)
}

func (v ojValue) toJSON() ([]byte, error) {
	switch v.kind {
	case ojNull:
		return []byte("null"), nil
	case ojBool:
		if v.b {
			return []byte("true"), nil
		}
		return []byte("false"), nil
	case ojNumber:
		return []byte(v.num.String()), nil
	case ojString:
		return json.Marshal(v.s)
	case ojArray:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				buf.WriteByte(',')
			}
			b, err := item.toJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(b)
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	case ojObject:
		var buf bytes.Buffer
		buf.WriteByte('{')
		for i, f := range v.obj {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, _ := json.Marshal(f.key)
			buf.Write(kb)
			buf.WriteByte(':')
			vb, err := f.val.toJSON()
			if err != nil {
				return nil, err
			}
			buf.Write(vb)
		}
		buf.WriteByte('}')
		return buf.Bytes(), nil
	default:
		return []byte("null"), nil
	}
}

// flattenObject walks an object depth-first, calling add(path, value) for
// every leaf, using dot-path keys for nested objects (spec §4.2).
func flattenObject(prefix string, v ojValue, add func(path string, val Value) error) error {
	if v.kind != ojObject {
		val, err := v.toValue()
		if err != nil {
			return err
		}
		return add(prefix, val)
	}
	for _, f := range v.obj {
		path := f.key
		if prefix != "" {
			path = prefix + "." + f.key
		}
		if err := flattenObject(path, f.val, add); err != nil {
			return err
		}
	}
	return nil
}

// FromJSON builds a Data from a JSON array of objects. Column order is the
// union of keys across objects in first-seen order; missing keys yield
// Null; nested objects flatten via dot-path keys (spec §4.2).
func FromJSON(r io.Reader) (Data, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	root, err := decodeOJ(dec)
	if err != nil {
		return Data{}, alserr.Wrap(alserr.KindSyntax, err, "JSON parse failure")
	}
	if root.kind != ojArray {
		return Data{}, alserr.New(alserr.KindSyntax, "JSON input must be an array of objects")
	}
	var order []string
	seen := map[string]bool{}
	rows := make([]map[string]Value, len(root.arr))
	for i, item := range root.arr {
		row := map[string]Value{}
		err := flattenObject("", item, func(path string, val Value) error {
			if !seen[path] {
				seen[path] = true
				order = append(order, path)
			}
			row[path] = val
			return nil
		})
		if err != nil {
			return Data{}, alserr.Wrap(alserr.KindSyntax, err, "JSON parse failure at row %d", i)
		}
		rows[i] = row
	}
	columns := make([]Column, len(order))
	for ci, name := range order {
		vals := make([]Value, len(rows))
		for ri, row := range rows {
			v, ok := row[name]
			if !ok {
				v = Null()
			}
			vals[ri] = v
		}
		columns[ci] = NewColumn(name, vals)
	}
	return New(columns)
}

// ToJSON renders Data back to a JSON array of objects, reconstructing
// nested objects from dot-path column names.
func ToJSON(w io.Writer, d Data) error {
	rows := make([]map[string]any, d.RowCount)
	for i := range rows {
		rows[i] = map[string]any{}
	}
	for _, c := range d.Columns {
		parts := strings.Split(c.Name, ".")
		for row := 0; row < d.RowCount; row++ {
			setNested(rows[row], parts, valueToJSONAny(c.Values[row]))
		}
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(rows); err != nil {
		return alserr.Wrap(alserr.KindIO, err, "JSON write failure")
	}
	return nil
}

func setNested(m map[string]any, parts []string, v any) {
	if len(parts) == 1 {
		m[parts[0]] = v
		return
	}
	next, ok := m[parts[0]].(map[string]any)
	if !ok {
		next = map[string]any{}
		m[parts[0]] = next
	}
	setNested(next, parts[1:], v)
}

func valueToJSONAny(v Value) any {
	switch v.Kind {
	case TypeNull:
		return nil
	case TypeInteger:
		return v.I
	case TypeFloat:
		return v.F
	case TypeBoolean:
		return v.B
	default:
		return v.S
	}
}
