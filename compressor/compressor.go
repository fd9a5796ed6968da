// Package compressor orchestrates pattern detection, dictionary building,
// and the ALS/CTX format decision into a single Compress entry point.
package compressor

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/als-project/als/als"
	"github.com/als-project/als/config"
	"github.com/als-project/als/ctx"
	"github.com/als-project/als/dict"
	"github.com/als-project/als/pattern"
	"github.com/als-project/als/tabular"
)

// parallelThreshold matches the parser's parallelExpandThreshold: below it,
// per-column work runs on the calling goroutine.
const parallelThreshold = 1000

// Compressor turns tabular.Data into an als.Document, choosing ALS or CTX
// encoding by estimated size.
type Compressor struct {
	config        config.Compressor
	patternEngine pattern.Engine
	enumDetector  dict.EnumDetector
	logger        *zap.Logger
	stats         *Stats
}

func New() *Compressor { return NewWithConfig(config.DefaultCompressor()) }

func NewWithConfig(c config.Compressor) *Compressor {
	return &Compressor{
		config:        c,
		patternEngine: pattern.NewEngine(c.MinPatternLength),
		enumDetector:  dict.NewEnumDetector(),
		logger:        zap.NewNop(),
		stats:         NewStats(),
	}
}

// WithLogger attaches a structured logger that records the ALS/CTX output
// format decision at debug level; the default is a no-op logger.
func (c *Compressor) WithLogger(logger *zap.Logger) *Compressor {
	if logger != nil {
		c.logger = logger
	}
	return c
}

func (c *Compressor) Config() config.Compressor { return c.config }
func (c *Compressor) Stats() *Stats             { return c.stats }

// Compress analyzes data, builds a dictionary, detects per-column patterns,
// and returns the resulting document in whichever of ALS or CTX format
// compresses better, per the ctx_fallback_threshold rule (spec §4.5).
func (c *Compressor) Compress(data tabular.Data) (*als.Document, error) {
	if data.IsEmpty() || data.ColumnCount() == 0 {
		return c.emptyDocument(data), nil
	}

	alsDoc, err := c.compressALS(data)
	if err != nil {
		return nil, err
	}

	rawLen := c.rawSize(data)
	alsLen := len(als.Serializer{}.Serialize(alsDoc))

	ctxDoc := c.compressCTX(data)
	ctxText, err := ctx.Serialize(ctxDoc)
	if err != nil {
		return nil, err
	}
	ctxLen := len(ctxText)

	c.stats.AddInputBytes(uint64(rawLen))

	useCTX := alsLen > 0 && float64(rawLen)/float64(alsLen) < c.config.CtxFallbackThreshold && ctxLen < alsLen
	if useCTX {
		c.logger.Debug("falling back to ctx format",
			zap.Int("raw_bytes", rawLen), zap.Int("als_bytes", alsLen), zap.Int("ctx_bytes", ctxLen))
		c.stats.AddOutputBytes(uint64(ctxLen))
		return ctxDoc, nil
	}

	c.logger.Debug("using als format",
		zap.Int("raw_bytes", rawLen), zap.Int("als_bytes", alsLen), zap.Int("ctx_bytes", ctxLen))
	c.stats.AddOutputBytes(uint64(alsLen))
	return alsDoc, nil
}

// CompressCSV parses csv text and serializes the compressed result.
func (c *Compressor) CompressCSV(input string) (string, error) {
	data, err := tabular.FromCSV(strings.NewReader(input))
	if err != nil {
		return "", err
	}
	doc, err := c.Compress(data)
	if err != nil {
		return "", err
	}
	return c.serialize(doc)
}

// CompressJSON parses JSON array-of-objects text and serializes the
// compressed result.
func (c *Compressor) CompressJSON(input string) (string, error) {
	data, err := tabular.FromJSON(strings.NewReader(input))
	if err != nil {
		return "", err
	}
	doc, err := c.Compress(data)
	if err != nil {
		return "", err
	}
	return c.serialize(doc)
}

func (c *Compressor) serialize(doc *als.Document) (string, error) {
	if doc.IsCtx() {
		return ctx.Serialize(doc)
	}
	return als.Serializer{}.Serialize(doc), nil
}

func (c *Compressor) emptyDocument(data tabular.Data) *als.Document {
	doc := als.NewDocumentWithSchema(data.ColumnNames())
	for range data.Columns {
		doc.AddStream(als.NewColumnStream())
	}
	return doc
}

func (c *Compressor) compressCTX(data tabular.Data) *als.Document {
	doc := als.NewDocumentWithSchema(data.ColumnNames())
	doc.SetCtxFormat()
	for _, column := range data.Columns {
		ops := make([]als.Operator, len(column.Values))
		for i, v := range column.Values {
			ops[i] = als.RawOp(v.StringRepr())
		}
		doc.AddStream(als.ColumnStreamFromOperators(ops))
	}
	return doc
}

func (c *Compressor) compressALS(data tabular.Data) (*als.Document, error) {
	doc := als.NewDocumentWithSchema(data.ColumnNames())
	doc.SetAlsFormat()

	dictionary := c.buildDictionary(data)
	if len(dictionary) > 0 {
		doc.AddDictionary("default", dictionary)
	}

	streams, err := c.compressColumns(data, dictionary)
	if err != nil {
		return nil, err
	}
	for _, stream := range streams {
		doc.AddStream(stream)
	}
	return doc, nil
}

func (c *Compressor) buildDictionary(data tabular.Data) []string {
	builder := dict.NewBuilderWithMax(c.config.MaxDictionaryEntries)
	for _, column := range data.Columns {
		if c.isEnumLike(column) {
			builder.AddColumnValues(column.StringValues())
			continue
		}
		for _, v := range column.Values {
			if v.Kind == tabular.TypeString {
				builder.Add(v.S)
			}
		}
	}
	return builder.Build()
}

// isEnumLike reports whether column has few enough distinct rendered values
// to be worth dictionary-encoding regardless of its underlying type. This
// catches boolean columns in particular: their values never hit the
// TypeString branch above, so without this a boolean column with no
// alternating cycle (see pattern.ToggleDetector) would fall through to a raw
// token per row.
func (c *Compressor) isEnumLike(column tabular.Column) bool {
	values := column.StringValues()
	if _, _, ok := c.enumDetector.IsBooleanColumn(values); ok {
		return true
	}
	_, ok := c.enumDetector.IsEnumColumn(values)
	return ok
}

func (c *Compressor) shouldParallelize(data tabular.Data) bool {
	if c.config.Parallelism == 1 {
		return false
	}
	return data.ColumnCount() > 1 && data.ColumnCount()*data.RowCount >= parallelThreshold
}

func (c *Compressor) compressColumns(data tabular.Data, dictionary []string) ([]als.ColumnStream, error) {
	streams := make([]als.ColumnStream, len(data.Columns))

	if !c.shouldParallelize(data) {
		for i, column := range data.Columns {
			stream, err := c.compressColumn(column, dictionary)
			if err != nil {
				return nil, err
			}
			streams[i] = stream
		}
		return streams, nil
	}

	g, _ := errgroup.WithContext(context.Background())
	if c.config.Parallelism > 1 {
		g.SetLimit(c.config.Parallelism)
	}
	for i, column := range data.Columns {
		i, column := i, column
		g.Go(func() error {
			stream, err := c.compressColumn(column, dictionary)
			if err != nil {
				return err
			}
			streams[i] = stream
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return streams, nil
}

// compressColumn runs pattern detection on a column and falls back to
// per-value dictionary references or raw tokens when no whole-column
// pattern beats the identity encoding.
func (c *Compressor) compressColumn(column tabular.Column, dictionary []string) (als.ColumnStream, error) {
	values := column.StringValues()

	detection := c.patternEngine.Detect(values)
	c.stats.RecordPattern(detection.PatternType)

	if detection.PatternType.IsCompressed() && detection.CompressionRatio > 1.0 {
		c.stats.RecordColumnProcessed(true)
		return als.ColumnStreamFromOperators([]als.Operator{detection.Operator}), nil
	}

	ops := c.encodeWithDictionary(values, dictionary)
	c.stats.RecordColumnProcessed(false)
	return als.ColumnStreamFromOperators(ops), nil
}

func (c *Compressor) encodeWithDictionary(values []string, dictionary []string) []als.Operator {
	lookup := make(map[string]int, len(dictionary))
	for i, v := range dictionary {
		lookup[v] = i
	}

	ops := make([]als.Operator, len(values))
	dictRefs := 0
	rawValues := 0
	for i, v := range values {
		if idx, ok := lookup[v]; ok {
			ops[i] = als.DictRefOp(idx)
			dictRefs++
			continue
		}
		ops[i] = als.RawOp(v)
		rawValues++
	}
	c.stats.RecordDictRefs(dictRefs)
	c.stats.RecordRawValues(rawValues)
	return ops
}

// rawSize is the length of the CSV-like "space-joined tokens, newline per
// row" rendering the ctx_fallback_threshold formula compares against
// (spec §4.5's L_raw).
func (c *Compressor) rawSize(data tabular.Data) int {
	total := 0
	for row := 0; row < data.RowCount; row++ {
		for i, column := range data.Columns {
			if i > 0 {
				total++
			}
			total += len(column.Values[row].StringRepr())
		}
		total++ // newline
	}
	return total
}
