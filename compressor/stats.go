package compressor

import (
	"sync/atomic"

	"github.com/als-project/als/pattern"
)

// Stats is a thread-safe compression statistics tracker. Every counter is
// updated with a lock-free atomic add so concurrent per-column compression
// (see Compressor.compressColumns) never contends on a mutex; all
// operations use relaxed-equivalent semantics (Go's atomics have no weaker
// ordering to opt into) since the counters are independent of one another.
type Stats struct {
	InputBytes  atomic.Uint64
	OutputBytes atomic.Uint64

	PatternsDetected atomic.Uint64
	RangesUsed       atomic.Uint64
	MultipliersUsed  atomic.Uint64
	TogglesUsed      atomic.Uint64
	DictRefsUsed     atomic.Uint64
	RawValues        atomic.Uint64

	ColumnsProcessed  atomic.Uint64
	ColumnsCompressed atomic.Uint64
}

func NewStats() *Stats { return &Stats{} }

func (s *Stats) Reset() {
	s.InputBytes.Store(0)
	s.OutputBytes.Store(0)
	s.PatternsDetected.Store(0)
	s.RangesUsed.Store(0)
	s.MultipliersUsed.Store(0)
	s.TogglesUsed.Store(0)
	s.DictRefsUsed.Store(0)
	s.RawValues.Store(0)
	s.ColumnsProcessed.Store(0)
	s.ColumnsCompressed.Store(0)
}

// CompressionRatio is input bytes over output bytes, or 0 if nothing has
// been recorded yet.
func (s *Stats) CompressionRatio() float64 {
	out := s.OutputBytes.Load()
	if out == 0 {
		return 0
	}
	return float64(s.InputBytes.Load()) / float64(out)
}

func (s *Stats) AddInputBytes(n uint64)  { s.InputBytes.Add(n) }
func (s *Stats) AddOutputBytes(n uint64) { s.OutputBytes.Add(n) }

// RecordPattern updates the per-operator-kind counters for a single
// column's chosen pattern type.
func (s *Stats) RecordPattern(pt pattern.PatternType) {
	s.PatternsDetected.Add(1)
	switch pt {
	case pattern.PatternSequential, pattern.PatternArithmetic:
		s.RangesUsed.Add(1)
	case pattern.PatternRepeat:
		s.MultipliersUsed.Add(1)
	case pattern.PatternToggle, pattern.PatternRepeatedToggle:
		s.TogglesUsed.Add(1)
	case pattern.PatternRepeatedRange:
		s.RangesUsed.Add(1)
		s.MultipliersUsed.Add(1)
	case pattern.PatternRaw:
		s.RawValues.Add(1)
	}
}

func (s *Stats) RecordDictRefs(n int)  { s.DictRefsUsed.Add(uint64(n)) }
func (s *Stats) RecordRawValues(n int) { s.RawValues.Add(uint64(n)) }

func (s *Stats) RecordColumnProcessed(wasCompressed bool) {
	s.ColumnsProcessed.Add(1)
	if wasCompressed {
		s.ColumnsCompressed.Add(1)
	}
}

// ColumnEffectiveness is the percentage of processed columns that
// benefited from compression.
func (s *Stats) ColumnEffectiveness() float64 {
	processed := s.ColumnsProcessed.Load()
	if processed == 0 {
		return 0
	}
	return float64(s.ColumnsCompressed.Load()) / float64(processed) * 100
}

// Snapshot is an immutable point-in-time copy of Stats, safe to pass around
// or log without holding a reference to the live atomics.
type Snapshot struct {
	InputBytes, OutputBytes                                       uint64
	PatternsDetected, RangesUsed, MultipliersUsed, TogglesUsed     uint64
	DictRefsUsed, RawValues, ColumnsProcessed, ColumnsCompressed   uint64
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		InputBytes:        s.InputBytes.Load(),
		OutputBytes:       s.OutputBytes.Load(),
		PatternsDetected:  s.PatternsDetected.Load(),
		RangesUsed:        s.RangesUsed.Load(),
		MultipliersUsed:   s.MultipliersUsed.Load(),
		TogglesUsed:       s.TogglesUsed.Load(),
		DictRefsUsed:      s.DictRefsUsed.Load(),
		RawValues:         s.RawValues.Load(),
		ColumnsProcessed:  s.ColumnsProcessed.Load(),
		ColumnsCompressed: s.ColumnsCompressed.Load(),
	}
}
