package pattern

import "testing"

func TestRepeatDetectorAllIdentical(t *testing.T) {
	d := NewRepeatDetector(3)
	result, ok := d.Detect([]string{"hello", "hello", "hello", "hello", "hello"})
	if !ok {
		t.Fatal("expected a repeat detection")
	}
	if result.PatternType != PatternRepeat {
		t.Errorf("pattern type = %v, want repeat", result.PatternType)
	}
	if result.Operator.Count != 5 || result.Operator.Value.Raw != "hello" {
		t.Errorf("operator = %+v, want count=5 value=hello", result.Operator)
	}
}

func TestRepeatDetectorRejectsMixed(t *testing.T) {
	d := NewRepeatDetector(3)
	if _, ok := d.Detect([]string{"a", "a", "b", "a"}); ok {
		t.Error("expected no detection for a non-uniform column")
	}
}

func TestRepeatDetectorRejectsShortInput(t *testing.T) {
	d := NewRepeatDetector(3)
	if _, ok := d.Detect([]string{"a", "a"}); ok {
		t.Error("expected no detection below min pattern length")
	}
}

func TestRunDetectorFindRuns(t *testing.T) {
	d := NewRunDetector(2)
	runs := d.FindRuns([]string{"a", "a", "b", "c", "c", "c"})
	if len(runs) != 2 {
		t.Fatalf("FindRuns() = %+v, want 2 runs", runs)
	}
	if runs[0].Value != "a" || runs[0].Count != 2 {
		t.Errorf("runs[0] = %+v, want a x2", runs[0])
	}
	if runs[1].Value != "c" || runs[1].Count != 3 {
		t.Errorf("runs[1] = %+v, want c x3", runs[1])
	}
}

func TestRunDetectorFindLongestRun(t *testing.T) {
	d := NewRunDetector(1)
	longest, ok := d.FindLongestRun([]string{"a", "b", "b", "b", "c"})
	if !ok {
		t.Fatal("expected a longest run")
	}
	if longest.Value != "b" || longest.Count != 3 {
		t.Errorf("longest = %+v, want b x3", longest)
	}
}
