// Package als implements the ALS wire format: the operator tree, the
// document model, and the tokenizer/parser/serializer that convert between
// AlsDocument and its textual encoding.
package als

import (
	"strconv"

	"github.com/als-project/als/alserr"
)

// OperatorKind discriminates the Operator union.
type OperatorKind uint8

const (
	OpRaw OperatorKind = iota
	OpRange
	OpMultiply
	OpToggle
	OpDictRef
)

// Operator is a single ALS compression operator. Only the fields relevant
// to Kind are populated; this mirrors the reference's tagged enum
// (Raw/Range/Multiply/Toggle/DictRef) as a Go tagged struct rather than an
// interface hierarchy, since every consumer needs to switch on Kind anyway
// and a struct avoids one allocation per node in the tree.
type Operator struct {
	Kind OperatorKind

	Raw string // OpRaw

	Start, End, Step int64 // OpRange

	Value *Operator // OpMultiply: the repeated operator
	Count int       // OpMultiply, OpToggle

	Values []string // OpToggle

	DictIndex int // OpDictRef
}

func RawOp(value string) Operator { return Operator{Kind: OpRaw, Raw: value} }

// RangeOp builds a Range operator with step 1 (or -1 for descending).
func RangeOp(start, end int64) Operator {
	step := int64(1)
	if end < start {
		step = -1
	}
	return Operator{Kind: OpRange, Start: start, End: end, Step: step}
}

func RangeWithStepOp(start, end, step int64) Operator {
	if step == 0 {
		panic("als: range step cannot be zero")
	}
	return Operator{Kind: OpRange, Start: start, End: end, Step: step}
}

// RangeSafeOp validates that the range will not produce more than
// maxExpansion values before constructing it, guarding against memory
// exhaustion from untrusted input (spec §5).
func RangeSafeOp(start, end, step int64, maxExpansion int) (Operator, error) {
	if step == 0 {
		return Operator{}, alserr.RangeOverflow(start, end, step)
	}
	count := calculateRangeCount(start, end, step)
	if count > uint64(maxExpansion) {
		return Operator{}, alserr.RangeOverflow(start, end, step)
	}
	return Operator{Kind: OpRange, Start: start, End: end, Step: step}, nil
}

func MultiplyOp(value Operator, count int) Operator {
	return Operator{Kind: OpMultiply, Value: &value, Count: count}
}

func ToggleOp(values []string, count int) Operator {
	return Operator{Kind: OpToggle, Values: values, Count: count}
}

func DictRefOp(index int) Operator {
	return Operator{Kind: OpDictRef, DictIndex: index}
}

func (o Operator) IsRaw() bool      { return o.Kind == OpRaw }
func (o Operator) IsRange() bool    { return o.Kind == OpRange }
func (o Operator) IsMultiply() bool { return o.Kind == OpMultiply }
func (o Operator) IsToggle() bool   { return o.Kind == OpToggle }
func (o Operator) IsDictRef() bool  { return o.Kind == OpDictRef }

// calculateRangeCount returns the number of values a range would produce,
// saturating to a sentinel that will always exceed a real maxExpansion when
// step is 0. A step that points away from end gives 0 (Expand produces no
// values), except when start == end, which gives the single value start.
func calculateRangeCount(start, end, step int64) uint64 {
	if step == 0 {
		return ^uint64(0)
	}
	ascending := end >= start
	stepPositive := step > 0
	if ascending != stepPositive {
		if start == end {
			return 1
		}
		return 0
	}
	var span uint64
	if ascending {
		span = uint64(end - start)
	} else {
		span = uint64(start - end)
	}
	var absStep uint64
	if step > 0 {
		absStep = uint64(step)
	} else {
		absStep = uint64(-step)
	}
	return span/absStep + 1
}

// Expand recursively materializes this operator into its string values.
// dictionary resolves DictRef nodes; it may be nil if the tree contains
// none.
func (o Operator) Expand(dictionary []string) ([]string, error) {
	switch o.Kind {
	case OpRaw:
		return []string{o.Raw}, nil

	case OpRange:
		var values []string
		current := o.Start
		if o.Step > 0 {
			for current <= o.End {
				values = append(values, strconv.FormatInt(current, 10))
				next := current + o.Step
				if next < current { // overflow
					break
				}
				current = next
			}
		} else {
			for current >= o.End {
				values = append(values, strconv.FormatInt(current, 10))
				next := current + o.Step
				if next > current { // underflow
					break
				}
				current = next
			}
		}
		return values, nil

	case OpMultiply:
		expanded, err := o.Value.Expand(dictionary)
		if err != nil {
			return nil, err
		}
		result := make([]string, 0, len(expanded)*o.Count)
		for i := 0; i < o.Count; i++ {
			result = append(result, expanded...)
		}
		return result, nil

	case OpToggle:
		if len(o.Values) == 0 {
			return nil, nil
		}
		result := make([]string, o.Count)
		for i := 0; i < o.Count; i++ {
			result[i] = o.Values[i%len(o.Values)]
		}
		return result, nil

	case OpDictRef:
		if dictionary == nil {
			return nil, alserr.InvalidDictRef(o.DictIndex, 0)
		}
		if o.DictIndex < 0 || o.DictIndex >= len(dictionary) {
			return nil, alserr.InvalidDictRef(o.DictIndex, len(dictionary))
		}
		return []string{dictionary[o.DictIndex]}, nil

	default:
		return nil, alserr.New(alserr.KindSemantic, "unknown operator kind %d", o.Kind)
	}
}

// ExpandedCount returns the number of values Expand would produce, without
// materializing them.
func (o Operator) ExpandedCount() int {
	switch o.Kind {
	case OpRaw, OpDictRef:
		return 1
	case OpRange:
		return int(calculateRangeCount(o.Start, o.End, o.Step))
	case OpMultiply:
		return o.Value.ExpandedCount() * o.Count
	case OpToggle:
		return o.Count
	default:
		return 0
	}
}
