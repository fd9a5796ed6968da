package pattern

import (
	"testing"

	"github.com/als-project/als/als"
)

func TestCombinedDetectorRepeatedRange(t *testing.T) {
	d := NewCombinedDetector(3)
	result, ok := d.Detect([]string{"1", "2", "3", "1", "2", "3"})
	if !ok {
		t.Fatal("expected a repeated-range detection")
	}
	if result.PatternType != PatternRepeatedRange {
		t.Errorf("pattern type = %v, want repeated-range", result.PatternType)
	}
	if result.Operator.Kind != als.OpMultiply || result.Operator.Count != 2 {
		t.Errorf("operator = %+v, want Multiply count=2", result.Operator)
	}
	if result.Operator.Value.Start != 1 || result.Operator.Value.End != 3 {
		t.Errorf("inner range = %+v, want start=1 end=3", result.Operator.Value)
	}
}

func TestCombinedDetectorRejectsNonRepeating(t *testing.T) {
	d := NewCombinedDetector(3)
	if _, ok := d.Detect([]string{"1", "2", "3", "4", "5", "6"}); ok {
		t.Error("expected no repeated-range detection for a plain sequence")
	}
}

func TestEngineSelectsBestPattern(t *testing.T) {
	engine := NewEngine(3)

	if r := engine.Detect(nil); r.PatternType != PatternRaw {
		t.Errorf("empty column: pattern type = %v, want raw", r.PatternType)
	}

	if r := engine.Detect([]string{"a", "b"}); r.PatternType != PatternRaw {
		t.Errorf("short column: pattern type = %v, want raw", r.PatternType)
	}

	if r := engine.Detect([]string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}); r.PatternType != PatternSequential {
		t.Errorf("sequential column: pattern type = %v, want sequential", r.PatternType)
	}

	if r := engine.Detect([]string{"hello", "hello", "hello", "hello", "hello"}); r.PatternType != PatternRepeat {
		t.Errorf("repeated column: pattern type = %v, want repeat", r.PatternType)
	}

	if r := engine.Detect([]string{"true", "false", "true", "false", "true", "false"}); r.PatternType != PatternToggle {
		t.Errorf("toggle column: pattern type = %v, want toggle", r.PatternType)
	}

	repeatedRange := []string{
		"1", "2", "3", "4", "5",
		"1", "2", "3", "4", "5",
		"1", "2", "3", "4", "5",
	}
	if r := engine.Detect(repeatedRange); r.PatternType != PatternRepeatedRange {
		t.Errorf("repeated-range column: pattern type = %v, want repeated-range", r.PatternType)
	}

	if r := engine.Detect([]string{"apple", "banana", "cherry", "date", "elderberry"}); r.PatternType != PatternRaw {
		t.Errorf("unpatterned column: pattern type = %v, want raw", r.PatternType)
	}
}
