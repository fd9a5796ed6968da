// Package config holds the tunable knobs shared by the compressor and the
// parser (spec §6, "Configuration options"), mirroring the reference
// implementation's CompressorConfig/ParserConfig split.
package config

// Default resource caps and thresholds (spec §5, §6).
const (
	DefaultCtxFallbackThreshold = 1.2
	DefaultMinPatternLength     = 3
	DefaultMaxRangeExpansion    = 10_000_000
	DefaultMaxDictionaryEntries = 65_536
	DefaultMaxInputSize         = 1 << 30 // 1 GiB
	DefaultHashmapThreshold     = 10_000
)

// Compressor holds the settings that only the compression path needs.
type Compressor struct {
	CtxFallbackThreshold float64
	MinPatternLength     int
	MaxRangeExpansion    int
	MaxDictionaryEntries int
	MaxInputSize         int
	Parallelism          int // 0 = auto
	SimdEnable           bool
	HashmapThreshold     int
}

// DefaultCompressor returns the reference-compatible default configuration.
func DefaultCompressor() Compressor {
	return Compressor{
		CtxFallbackThreshold: DefaultCtxFallbackThreshold,
		MinPatternLength:     DefaultMinPatternLength,
		MaxRangeExpansion:    DefaultMaxRangeExpansion,
		MaxDictionaryEntries: DefaultMaxDictionaryEntries,
		MaxInputSize:         DefaultMaxInputSize,
		Parallelism:          0,
		SimdEnable:           true,
		HashmapThreshold:     DefaultHashmapThreshold,
	}
}

func (c Compressor) WithCtxFallbackThreshold(v float64) Compressor {
	if v < 1.0 {
		panic("config: ctx fallback threshold must be >= 1.0")
	}
	c.CtxFallbackThreshold = v
	return c
}

func (c Compressor) WithMinPatternLength(v int) Compressor     { c.MinPatternLength = v; return c }
func (c Compressor) WithMaxRangeExpansion(v int) Compressor    { c.MaxRangeExpansion = v; return c }
func (c Compressor) WithMaxDictionaryEntries(v int) Compressor { c.MaxDictionaryEntries = v; return c }
func (c Compressor) WithMaxInputSize(v int) Compressor         { c.MaxInputSize = v; return c }
func (c Compressor) WithParallelism(v int) Compressor          { c.Parallelism = v; return c }
func (c Compressor) WithSimdEnable(v bool) Compressor          { c.SimdEnable = v; return c }
func (c Compressor) WithHashmapThreshold(v int) Compressor     { c.HashmapThreshold = v; return c }

// Parser holds the settings the parser/expansion path needs. It shares
// field names with Compressor for the caps both must enforce identically,
// but carries no compression-only fields (min pattern length, ctx
// threshold, hashmap threshold), matching the reference's ParserConfig.
type Parser struct {
	MaxRangeExpansion    int
	MaxDictionaryEntries int
	MaxInputSize         int
	Parallelism          int
	SimdEnable           bool
}

func DefaultParser() Parser {
	return Parser{
		MaxRangeExpansion:    DefaultMaxRangeExpansion,
		MaxDictionaryEntries: DefaultMaxDictionaryEntries,
		MaxInputSize:         DefaultMaxInputSize,
		Parallelism:          0,
		SimdEnable:           true,
	}
}

func (p Parser) WithMaxRangeExpansion(v int) Parser    { p.MaxRangeExpansion = v; return p }
func (p Parser) WithMaxDictionaryEntries(v int) Parser { p.MaxDictionaryEntries = v; return p }
func (p Parser) WithMaxInputSize(v int) Parser         { p.MaxInputSize = v; return p }
func (p Parser) WithParallelism(v int) Parser          { p.Parallelism = v; return p }
func (p Parser) WithSimdEnable(v bool) Parser          { p.SimdEnable = v; return p }
