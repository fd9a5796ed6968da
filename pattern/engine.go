package pattern

// Engine runs all detectors over a column's values and keeps whichever
// beats the others' compression ratio, matching the whole-column selection
// the reference compressor performs (see DESIGN.md's Open Question
// resolution on per-column segmentation).
type Engine struct {
	MinPatternLength int
	rangeDetector    RangeDetector
	repeatDetector   RepeatDetector
	toggleDetector   ToggleDetector
	combinedDetector CombinedDetector
}

func NewEngine(minPatternLength int) Engine {
	return Engine{
		MinPatternLength: minPatternLength,
		rangeDetector:    NewRangeDetector(minPatternLength),
		repeatDetector:   NewRepeatDetector(minPatternLength),
		toggleDetector:   NewToggleDetector(minPatternLength),
		combinedDetector: NewCombinedDetector(minPatternLength),
	}
}

// Detect returns the single best operator for the whole column: the
// highest-compression-ratio result across Range, Repeat, Toggle, and
// Combined detection, or a Raw fallback if none clears 1.0.
func (e Engine) Detect(values []string) Result {
	if len(values) == 0 {
		return RawEmpty()
	}
	if len(values) < e.MinPatternLength {
		return RawFromValues(values)
	}

	best := RawFromValues(values)

	if result, ok := e.rangeDetector.Detect(values); ok && result.CompressionRatio > best.CompressionRatio {
		best = result
	}
	if result, ok := e.repeatDetector.Detect(values); ok && result.CompressionRatio > best.CompressionRatio {
		best = result
	}
	if result, ok := e.toggleDetector.Detect(values); ok && result.CompressionRatio > best.CompressionRatio {
		best = result
	}
	if result, ok := e.combinedDetector.Detect(values); ok && result.CompressionRatio > best.CompressionRatio {
		best = result
	}

	return best
}
