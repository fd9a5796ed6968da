package dict

import (
	"sort"
	"strings"
)

// DefaultMaxDistinct bounds how many distinct values a column may have and
// still be considered "enum-like".
const DefaultMaxDistinct = 16

// EnumDetector flags columns with few enough distinct values to benefit
// from dictionary encoding or, in the boolean case, toggle encoding.
type EnumDetector struct {
	MaxDistinctValues int
}

func NewEnumDetector() EnumDetector {
	return EnumDetector{MaxDistinctValues: DefaultMaxDistinct}
}

func NewEnumDetectorWithMax(maxDistinct int) EnumDetector {
	return EnumDetector{MaxDistinctValues: maxDistinct}
}

// IsBooleanColumn reports whether values has exactly two distinct entries,
// returning them with the "true"-normalizing value first when both
// normalize; ordered lexically otherwise.
func (d EnumDetector) IsBooleanColumn(values []string) (first, second string, ok bool) {
	distinct := d.GetDistinctValues(values)
	if len(distinct) != 2 {
		return "", "", false
	}
	vals := append([]string(nil), distinct...)

	b1, ok1 := NormalizeBoolean(vals[0])
	b2, ok2 := NormalizeBoolean(vals[1])
	if ok1 && ok2 {
		if b1 {
			return vals[0], vals[1], true
		}
		if b2 {
			return vals[1], vals[0], true
		}
		return vals[0], vals[1], true
	}
	sort.Strings(vals)
	return vals[0], vals[1], true
}

// IsEnumColumn reports whether values has more than one and no more than
// MaxDistinctValues distinct entries, returning them in sorted order.
func (d EnumDetector) IsEnumColumn(values []string) ([]string, bool) {
	distinct := d.GetDistinctValues(values)
	if len(distinct) > 1 && len(distinct) <= d.MaxDistinctValues {
		sort.Strings(distinct)
		return distinct, true
	}
	return nil, false
}

func (d EnumDetector) GetDistinctValues(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	var distinct []string
	for _, v := range values {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			distinct = append(distinct, v)
		}
	}
	return distinct
}

func (d EnumDetector) CountDistinct(values []string) int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	return len(seen)
}

// NormalizeBoolean recognizes the same spellings tabular.ParseBoolean does,
// plus "1"/"0" — the reference's EnumDetector::normalize_boolean accepts
// them, unlike the CSV/JSON re-typing path in package tabular, which
// deliberately excludes them so a numeric column is never misread as
// boolean (see tabular.ParseBoolean). The distinction only matters here, where the
// caller already knows the column is enum-shaped with exactly two values.
func NormalizeBoolean(value string) (bool, bool) {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "y", "t":
		return true, true
	case "false", "0", "no", "n", "f":
		return false, true
	default:
		return false, false
	}
}

func IsBooleanValue(value string) bool {
	_, ok := NormalizeBoolean(value)
	return ok
}

func (d EnumDetector) AllBooleanValues(values []string) bool {
	for _, v := range values {
		if !IsBooleanValue(v) {
			return false
		}
	}
	return true
}

// BuildEnumDictionary is an alias for IsEnumColumn kept for symmetry with
// the reference's build_enum_dictionary, which is exactly is_enum_column
// under another name.
func (d EnumDetector) BuildEnumDictionary(values []string) ([]string, bool) {
	return d.IsEnumColumn(values)
}
