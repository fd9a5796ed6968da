// Package tabular implements the column-oriented in-memory data model
// (spec §3) that CSV/JSON adapters produce and the compressor consumes.
package tabular

import (
	"strconv"
	"strings"
)

// Type is the value's runtime kind.
type Type uint8

const (
	TypeNull Type = iota
	TypeInteger
	TypeFloat
	TypeString
	TypeBoolean
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeString:
		return "string"
	case TypeBoolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Value is a single cell. Exactly one of the typed fields is meaningful,
// selected by Kind.
type Value struct {
	Kind Type
	I    int64
	F    float64
	S    string
	B    bool
}

func Null() Value            { return Value{Kind: TypeNull} }
func Int(v int64) Value      { return Value{Kind: TypeInteger, I: v} }
func Float(v float64) Value  { return Value{Kind: TypeFloat, F: v} }
func Str(v string) Value     { return Value{Kind: TypeString, S: v} }
func Bool(v bool) Value      { return Value{Kind: TypeBoolean, B: v} }
func (v Value) IsNull() bool { return v.Kind == TypeNull }

// StringRepr renders the value the way it appears inside a stream before
// pattern detection or dictionary lookup: the exact decimal text for
// integers/floats, "true"/"false" for booleans, and the literal string for
// String values (escaping happens later, in the serializer).
func (v Value) StringRepr() string {
	switch v.Kind {
	case TypeNull:
		return ""
	case TypeInteger:
		return strconv.FormatInt(v.I, 10)
	case TypeFloat:
		return strconv.FormatFloat(v.F, 'g', -1, 64)
	case TypeBoolean:
		if v.B {
			return "true"
		}
		return "false"
	default:
		return v.S
	}
}

// InferredType categorizes a run of Values the way spec §3 defines it:
// narrowest consistent non-null category, Mixed on conflict, Mixed if all
// values are null.
type InferredType uint8

const (
	InferredMixed InferredType = iota
	InferredInteger
	InferredFloat
	InferredString
	InferredBoolean
)

func (t InferredType) String() string {
	switch t {
	case InferredInteger:
		return "integer"
	case InferredFloat:
		return "float"
	case InferredString:
		return "string"
	case InferredBoolean:
		return "boolean"
	default:
		return "mixed"
	}
}

// InferType scans values once and returns the narrowest consistent category.
func InferType(values []Value) InferredType {
	seen := InferredType(0)
	haveNonNull := false
	for _, v := range values {
		if v.Kind == TypeNull {
			continue
		}
		var cur InferredType
		switch v.Kind {
		case TypeInteger:
			cur = InferredInteger
		case TypeFloat:
			cur = InferredFloat
		case TypeBoolean:
			cur = InferredBoolean
		default:
			cur = InferredString
		}
		if !haveNonNull {
			seen = cur
			haveNonNull = true
			continue
		}
		if seen != cur {
			return InferredMixed
		}
	}
	if !haveNonNull {
		return InferredMixed
	}
	return seen
}

// ParseBoolean recognizes the reference implementation's accepted boolean
// spellings (SPEC_FULL.md's "boolean-value normalization" supplement),
// case-insensitively. Deliberately excludes "0"/"1", which the reference
// leaves to integer typing so a numeric column is never misread as boolean.
func ParseBoolean(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "t":
		return true, true
	case "false", "no", "n", "f":
		return false, true
	default:
		return false, false
	}
}

// InferValueFromString re-derives a typed Value from a plain string, the way
// the reference's to_csv/to_json re-infer a column's type on the way out of
// the wire format (Integer, then Float, then Boolean, then String; an empty
// string stays String, matching FromCSV's treatment of a present-but-empty
// field). Used when decoding ALS/CTX documents back to tabular data, where
// every expanded value arrives as a plain string and the original CSV/JSON
// typing has to be reconstructed.
func InferValueFromString(s string) Value {
	if s == "" {
		return Str("")
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(i)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	if b, ok := ParseBoolean(s); ok {
		return Bool(b)
	}
	return Str(s)
}
