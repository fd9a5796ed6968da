// Package dict builds the global string dictionary ALS columns reference
// via DictRef operators, and detects enum/boolean-shaped columns that
// benefit from a fixed value set.
package dict

import (
	"math"
	"sort"

	"github.com/als-project/als/internal/adaptive"
)

const DefaultMaxEntries = 65_536

// Entry describes one candidate dictionary value: how often it occurs and
// how many bytes referencing it (instead of repeating it inline) is
// expected to save.
type Entry struct {
	Value      string
	Frequency  int
	BytesSaved int64
}

// NewEntry computes bytes-saved for a value at dictionary index 0; use
// NewEntryAt to size the reference for the value's eventual index.
func NewEntry(value string, frequency int) Entry {
	return NewEntryAt(value, frequency, 0)
}

// NewEntryAt computes bytes-saved for value assigned to dictionary index.
func NewEntryAt(value string, frequency, index int) Entry {
	return Entry{Value: value, Frequency: frequency, BytesSaved: calculateBytesSaved(value, frequency, index)}
}

// calculateBytesSaved compares the cost of inlining value `frequency` times
// against writing it once in the dictionary header plus a `_i` reference
// per occurrence.
func calculateBytesSaved(value string, frequency, index int) int64 {
	valueLen := int64(len(value))
	refLen := int64(referenceLength(index))

	originalCost := valueLen * int64(frequency)
	headerCost := valueLen + 1 // value + separator
	referenceCost := refLen * int64(frequency)
	dictionaryCost := headerCost + referenceCost

	return originalCost - dictionaryCost
}

// referenceLength is the rendered length of "_i".
func referenceLength(index int) int {
	if index == 0 {
		return 2
	}
	return 1 + int(math.Floor(math.Log10(float64(index))))+1
}

func (e Entry) ProvidesBenefit() bool { return e.BytesSaved > 0 }

// Builder tracks string frequencies across a document and, on Build,
// selects the subset worth referencing by index.
type Builder struct {
	frequencies *adaptive.Map
	maxEntries  int
}

func NewBuilder() *Builder {
	return NewBuilderWithMax(DefaultMaxEntries)
}

func NewBuilderWithMax(maxEntries int) *Builder {
	return &Builder{frequencies: adaptive.NewMap(), maxEntries: maxEntries}
}

func (b *Builder) Add(value string) {
	b.frequencies.Increment(value)
}

func (b *Builder) AddAll(values []string) {
	for _, v := range values {
		b.Add(v)
	}
}

// AddColumnValues is an alias for AddAll kept for symmetry with the
// reference's add_column_values, which callers use when the intent is
// specifically "track a column's string values".
func (b *Builder) AddColumnValues(values []string) { b.AddAll(values) }

func (b *Builder) Frequency(value string) int { return b.frequencies.Get(value) }
func (b *Builder) DistinctCount() int         { return b.frequencies.Len() }
func (b *Builder) IsEmpty() bool              { return b.frequencies.Len() == 0 }
func (b *Builder) Clear()                     { b.frequencies.Clear() }

// Build returns just the dictionary values, ordered by descending
// compression benefit.
func (b *Builder) Build() []string {
	entries := b.BuildEntries()
	values := make([]string, len(entries))
	for i, e := range entries {
		values[i] = e.Value
	}
	return values
}

// BuildEntries selects candidates (frequency > 1), assigns indices by
// descending frequency so common values get the shortest references, keeps
// only those with positive net benefit, re-sorts by benefit, and truncates
// to maxEntries.
func (b *Builder) BuildEntries() []Entry {
	type candidate struct {
		value string
		freq  int
	}
	var candidates []candidate
	b.frequencies.Range(func(value string, freq int) {
		if freq > 1 {
			candidates = append(candidates, candidate{value, freq})
		}
	})
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].freq > candidates[j].freq })

	entries := make([]Entry, 0, len(candidates))
	for index, c := range candidates {
		e := NewEntryAt(c.value, c.freq, index)
		if e.ProvidesBenefit() {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].BytesSaved > entries[j].BytesSaved })

	if len(entries) > b.maxEntries {
		entries = entries[:b.maxEntries]
	}
	return entries
}

// HasBenefit reports whether building a dictionary would help at all.
func (b *Builder) HasBenefit() bool {
	hasRepeat := false
	b.frequencies.Range(func(_ string, freq int) {
		if freq > 1 {
			hasRepeat = true
		}
	})
	if !hasRepeat {
		return false
	}
	for _, e := range b.BuildEntries() {
		if e.ProvidesBenefit() {
			return true
		}
	}
	return false
}

func (b *Builder) TotalBytesSaved() int64 {
	var total int64
	for _, e := range b.BuildEntries() {
		total += e.BytesSaved
	}
	return total
}
