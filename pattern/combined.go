package pattern

import (
	"math"

	"github.com/als-project/als/als"
)

// CombinedDetector finds a Range or Toggle pattern that itself repeats,
// e.g. 1,2,3,1,2,3 as (1>3)*2, or A,B,A,B,A,B,A,B as (A~B*4)*2.
type CombinedDetector struct {
	MinPatternLength int
	rangeDetector    RangeDetector
	toggleDetector   ToggleDetector
}

func NewCombinedDetector(minPatternLength int) CombinedDetector {
	return CombinedDetector{
		MinPatternLength: minPatternLength,
		// The reference allows shorter inner ranges/toggles for combined
		// patterns than a standalone RangeDetector/ToggleDetector would.
		rangeDetector:  NewRangeDetector(2),
		toggleDetector: NewToggleDetector(2),
	}
}

func (d CombinedDetector) Detect(values []string) (Result, bool) {
	if len(values) < d.MinPatternLength {
		return Result{}, false
	}
	var best Result
	haveBest := false

	if result, ok := d.detectRepeatedRange(values); ok && result.CompressionRatio > 1.0 {
		if !haveBest || result.CompressionRatio > best.CompressionRatio {
			best, haveBest = result, true
		}
	}
	if result, ok := d.detectRepeatedToggle(values); ok && result.CompressionRatio > 1.0 {
		if !haveBest || result.CompressionRatio > best.CompressionRatio {
			best, haveBest = result, true
		}
	}
	return best, haveBest
}

func (d CombinedDetector) detectRepeatedRange(values []string) (Result, bool) {
	if len(values) < 4 {
		return Result{}, false
	}

	if patternLen, ok := detectPatternLengthSmart(values); ok {
		if result, ok := d.tryRangeAtPatternLength(values, patternLen); ok {
			return result, true
		}
	}

	if patternLen, ok := findPatternLengthByRepetition(values); ok && patternLen >= 2 {
		if result, ok := d.tryRangeAtPatternLength(values, patternLen); ok {
			return result, true
		}
	}

	maxPatternLen := len(values) / 2
	if maxPatternLen > 100000 {
		maxPatternLen = 100000
	}
	for patternLen := 2; patternLen <= maxPatternLen; patternLen++ {
		if result, ok := d.tryRangeAtPatternLength(values, patternLen); ok {
			return result, true
		}
	}
	return Result{}, false
}

func (d CombinedDetector) tryRangeAtPatternLength(values []string, patternLen int) (Result, bool) {
	if patternLen <= 0 || len(values)%patternLen != 0 {
		return Result{}, false
	}
	repeatCount := len(values) / patternLen
	if repeatCount < 2 {
		return Result{}, false
	}
	pattern := values[:patternLen]
	if !chunksRepeat(values, pattern, repeatCount) {
		return Result{}, false
	}
	rangeResult, ok := d.rangeDetector.Detect(pattern)
	if !ok || rangeResult.Operator.Kind != als.OpRange {
		return Result{}, false
	}
	original := calculateOriginalLength(values)
	return RepeatedRangeResult(rangeResult.Operator.Start, rangeResult.Operator.End, rangeResult.Operator.Step, repeatCount, original), true
}

func chunksRepeat(values, pattern []string, repeatCount int) bool {
	patternLen := len(pattern)
	for i := 1; i < repeatCount; i++ {
		chunk := values[i*patternLen : (i+1)*patternLen]
		for j := range pattern {
			if chunk[j] != pattern[j] {
				return false
			}
		}
	}
	return true
}

// findPatternLengthByRepetition looks for the first index at which the
// first two values recur, treating that as a likely cycle boundary.
func findPatternLengthByRepetition(values []string) (int, bool) {
	if len(values) < 4 {
		return 0, false
	}
	first, second := values[0], values[1]
	searchLimit := len(values) / 2
	if searchLimit > 100000 {
		searchLimit = 100000
	}
	for i := 2; i <= searchLimit; i++ {
		if values[i] != first {
			continue
		}
		if i+1 < len(values) && values[i+1] == second {
			if len(values)%i == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// detectPatternLengthSmart finds where an arithmetic sequence resets back
// to its starting values, treating the reset point as the cycle length.
func detectPatternLengthSmart(values []string) (int, bool) {
	if len(values) < 4 {
		return 0, false
	}
	first, ok := parseInteger(values[0])
	if !ok {
		return 0, false
	}
	second, ok := parseInteger(values[1])
	if !ok {
		return 0, false
	}
	step := second - first
	if step == 0 {
		return 0, false
	}
	for i := 2; i < len(values); i++ {
		current, ok := parseInteger(values[i])
		if !ok {
			return 0, false
		}
		expected := first + int64(i)*step
		if current != expected {
			if i+1 < len(values) {
				next, ok := parseInteger(values[i+1])
				if ok && current == first && next == second {
					return i, true
				}
			}
			return 0, false
		}
	}
	return 0, false
}

func (d CombinedDetector) detectRepeatedToggle(values []string) (Result, bool) {
	if len(values) < 4 {
		return Result{}, false
	}
	maxPatternLen := len(values) / 2
	for patternLen := 2; patternLen <= maxPatternLen; patternLen++ {
		if len(values)%patternLen != 0 {
			continue
		}
		repeatCount := len(values) / patternLen
		if repeatCount < 2 {
			continue
		}
		pattern := values[:patternLen]
		if !chunksRepeat(values, pattern, repeatCount) {
			continue
		}
		toggleResult, ok := d.toggleDetector.Detect(pattern)
		if !ok || toggleResult.Operator.Kind != als.OpToggle {
			continue
		}
		inner := als.ToggleOp(toggleResult.Operator.Values, patternLen)
		op := als.MultiplyOp(inner, repeatCount)
		original := calculateOriginalLength(values)
		compressedLen := 10.0 + math.Log10(float64(repeatCount)) + 1.0
		ratio := float64(original) / compressedLen
		return Result{Operator: op, CompressionRatio: ratio, PatternType: PatternRepeatedToggle}, true
	}
	return Result{}, false
}
