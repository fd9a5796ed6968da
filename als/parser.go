package als

import (
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/als-project/als/alserr"
	"github.com/als-project/als/config"
)

// parallelExpandThreshold mirrors the reference's PARALLEL_EXPAND_THRESHOLD:
// below this estimated workload, sequential expansion avoids goroutine
// fan-out overhead.
const parallelExpandThreshold = 1000

// MaxSupportedVersion is the highest ALS format version this parser accepts.
const MaxSupportedVersion uint8 = 1

// Parser converts ALS wire text into a Document, and a Document into its
// expanded row-major values.
type Parser struct {
	config config.Parser
}

func NewParser() Parser              { return Parser{config: config.DefaultParser()} }
func NewParserWithConfig(c config.Parser) Parser { return Parser{config: c} }

// Parse converts ALS format text into a Document.
func (p Parser) Parse(input string) (*Document, error) {
	tok := NewTokenizer(input)
	return p.parseDocument(tok)
}

func (p Parser) parseDocument(tok *Tokenizer) (*Document, error) {
	doc := NewDocument()

	if err := p.skipNewlines(tok); err != nil {
		return nil, err
	}

	peeked, err := tok.PeekToken()
	if err != nil {
		return nil, err
	}
	if peeked.Kind == TokVersion {
		if _, err := tok.NextToken(); err != nil {
			return nil, err
		}
		switch peeked.VersionKind {
		case VersionAls:
			if peeked.VersionNum > MaxSupportedVersion {
				return nil, alserr.VersionMismatch(MaxSupportedVersion, peeked.VersionNum)
			}
			doc.Version = peeked.VersionNum
			doc.FormatIndicator = FormatAls
		case VersionCtx:
			doc.FormatIndicator = FormatCtx
		}
		if err := p.skipNewlines(tok); err != nil {
			return nil, err
		}
	}

	for {
		peeked, err = tok.PeekToken()
		if err != nil {
			return nil, err
		}
		if peeked.Kind != TokDictionaryHeader {
			break
		}
		if _, err := tok.NextToken(); err != nil {
			return nil, err
		}
		doc.Dictionaries[peeked.DictName] = peeked.DictValues
		if err := p.skipNewlines(tok); err != nil {
			return nil, err
		}
	}

	for {
		peeked, err = tok.PeekToken()
		if err != nil {
			return nil, err
		}
		if peeked.Kind != TokSchemaColumn {
			break
		}
		if _, err := tok.NextToken(); err != nil {
			return nil, err
		}
		doc.Schema = append(doc.Schema, peeked.SchemaName)
	}
	if err := p.skipNewlines(tok); err != nil {
		return nil, err
	}

	if len(doc.Schema) > 0 {
		streams, err := p.parseStreams(tok, len(doc.Schema))
		if err != nil {
			return nil, err
		}
		doc.Streams = streams
	}

	return doc, nil
}

func (p Parser) skipNewlines(tok *Tokenizer) error {
	for {
		peeked, err := tok.PeekToken()
		if err != nil {
			return err
		}
		if peeked.Kind != TokNewline {
			return nil
		}
		if _, err := tok.NextToken(); err != nil {
			return err
		}
	}
}

func (p Parser) parseStreams(tok *Tokenizer, expectedColumns int) ([]ColumnStream, error) {
	streams := make([]ColumnStream, 0, expectedColumns)
	current := NewColumnStream()

	for {
		token, err := tok.NextToken()
		if err != nil {
			return nil, err
		}
		switch token.Kind {
		case TokEOF:
			if !current.IsEmpty() || len(streams) == 0 {
				streams = append(streams, current)
			}
			goto done
		case TokColumnSeparator:
			streams = append(streams, current)
			current = NewColumnStream()
		case TokNewline:
			continue
		default:
			op, err := p.parseElement(tok, token)
			if err != nil {
				return nil, err
			}
			current.Push(op)
		}
	}
done:
	if expectedColumns > 0 && len(streams) != expectedColumns {
		return nil, alserr.ColumnMismatch(expectedColumns, len(streams))
	}
	return streams, nil
}

func (p Parser) parseElement(tok *Tokenizer, first Token) (Operator, error) {
	switch first.Kind {
	case TokInteger:
		return p.parseIntegerElement(tok, first.Int)
	case TokFloat:
		return p.parseFloatElement(tok, first.Float)
	case TokRawValue:
		return p.parseRawElement(tok, first.RawValue)
	case TokDictRef:
		return DictRefOp(first.DictIndex), nil
	case TokOpenParen:
		return p.parseGroupedElement(tok)
	default:
		return Operator{}, alserr.AtPosition(alserr.KindSyntax, tok.Position(), "unexpected token kind %d", first.Kind)
	}
}

func (p Parser) parseIntegerElement(tok *Tokenizer, start int64) (Operator, error) {
	peeked, err := tok.PeekToken()
	if err != nil {
		return Operator{}, err
	}
	switch peeked.Kind {
	case TokRangeOp:
		tok.NextToken()
		return p.parseRange(tok, start)
	case TokMultiplyOp:
		tok.NextToken()
		count, err := p.expectInteger(tok)
		if err != nil {
			return Operator{}, err
		}
		return MultiplyOp(RawOp(strconv.FormatInt(start, 10)), int(count)), nil
	case TokToggleOp:
		tok.NextToken()
		return p.parseToggle(tok, strconv.FormatInt(start, 10))
	default:
		return RawOp(strconv.FormatInt(start, 10)), nil
	}
}

func (p Parser) parseFloatElement(tok *Tokenizer, value float64) (Operator, error) {
	rendered := strconv.FormatFloat(value, 'g', -1, 64)
	peeked, err := tok.PeekToken()
	if err != nil {
		return Operator{}, err
	}
	switch peeked.Kind {
	case TokMultiplyOp:
		tok.NextToken()
		count, err := p.expectInteger(tok)
		if err != nil {
			return Operator{}, err
		}
		return MultiplyOp(RawOp(rendered), int(count)), nil
	case TokToggleOp:
		tok.NextToken()
		return p.parseToggle(tok, rendered)
	default:
		return RawOp(rendered), nil
	}
}

func (p Parser) parseRawElement(tok *Tokenizer, value string) (Operator, error) {
	peeked, err := tok.PeekToken()
	if err != nil {
		return Operator{}, err
	}
	switch peeked.Kind {
	case TokMultiplyOp:
		tok.NextToken()
		count, err := p.expectInteger(tok)
		if err != nil {
			return Operator{}, err
		}
		return MultiplyOp(RawOp(value), int(count)), nil
	case TokToggleOp:
		tok.NextToken()
		return p.parseToggle(tok, value)
	default:
		return RawOp(value), nil
	}
}

func (p Parser) parseRange(tok *Tokenizer, start int64) (Operator, error) {
	end, err := p.expectInteger(tok)
	if err != nil {
		return Operator{}, err
	}

	peeked, err := tok.PeekToken()
	if err != nil {
		return Operator{}, err
	}
	var step int64
	if peeked.Kind == TokStepSeparator {
		tok.NextToken()
		step, err = p.expectInteger(tok)
		if err != nil {
			return Operator{}, err
		}
	} else if end >= start {
		step = 1
	} else {
		step = -1
	}

	rangeOp, err := RangeSafeOp(start, end, step, p.config.MaxRangeExpansion)
	if err != nil {
		return Operator{}, err
	}

	peeked, err = tok.PeekToken()
	if err != nil {
		return Operator{}, err
	}
	if peeked.Kind == TokMultiplyOp {
		tok.NextToken()
		count, err := p.expectInteger(tok)
		if err != nil {
			return Operator{}, err
		}
		return MultiplyOp(rangeOp, int(count)), nil
	}
	return rangeOp, nil
}

func (p Parser) parseToggle(tok *Tokenizer, firstValue string) (Operator, error) {
	values := []string{firstValue}

	second, err := p.expectValue(tok)
	if err != nil {
		return Operator{}, err
	}
	values = append(values, second)

	for {
		peeked, err := tok.PeekToken()
		if err != nil {
			return Operator{}, err
		}
		if peeked.Kind != TokToggleOp {
			break
		}
		tok.NextToken()
		next, err := p.expectValue(tok)
		if err != nil {
			return Operator{}, err
		}
		values = append(values, next)
	}

	peeked, err := tok.PeekToken()
	if err != nil {
		return Operator{}, err
	}
	count := len(values)
	if peeked.Kind == TokMultiplyOp {
		tok.NextToken()
		n, err := p.expectInteger(tok)
		if err != nil {
			return Operator{}, err
		}
		count = int(n)
	}
	return ToggleOp(values, count), nil
}

func (p Parser) parseGroupedElement(tok *Tokenizer) (Operator, error) {
	innerToken, err := tok.NextToken()
	if err != nil {
		return Operator{}, err
	}
	inner, err := p.parseElement(tok, innerToken)
	if err != nil {
		return Operator{}, err
	}

	closing, err := tok.NextToken()
	if err != nil {
		return Operator{}, err
	}
	if closing.Kind != TokCloseParen {
		return Operator{}, alserr.AtPosition(alserr.KindSyntax, tok.Position(), "expected ')' but found token kind %d", closing.Kind)
	}

	peeked, err := tok.PeekToken()
	if err != nil {
		return Operator{}, err
	}
	if peeked.Kind == TokMultiplyOp {
		tok.NextToken()
		count, err := p.expectInteger(tok)
		if err != nil {
			return Operator{}, err
		}
		return MultiplyOp(inner, int(count)), nil
	}
	return inner, nil
}

func (p Parser) expectInteger(tok *Tokenizer) (int64, error) {
	token, err := tok.NextToken()
	if err != nil {
		return 0, err
	}
	if token.Kind != TokInteger {
		return 0, alserr.AtPosition(alserr.KindSyntax, tok.Position(), "expected integer but found token kind %d", token.Kind)
	}
	return token.Int, nil
}

func (p Parser) expectValue(tok *Tokenizer) (string, error) {
	token, err := tok.NextToken()
	if err != nil {
		return "", err
	}
	switch token.Kind {
	case TokInteger:
		return strconv.FormatInt(token.Int, 10), nil
	case TokFloat:
		return strconv.FormatFloat(token.Float, 'g', -1, 64), nil
	case TokRawValue:
		return token.RawValue, nil
	default:
		return "", alserr.AtPosition(alserr.KindSyntax, tok.Position(), "expected value but found token kind %d", token.Kind)
	}
}

// Expand materializes a Document's streams into row-major string values.
func (p Parser) Expand(doc *Document) ([][]string, error) {
	if len(doc.Streams) == 0 {
		return nil, nil
	}
	defaultDict, _ := doc.DefaultDictionary()

	columns, err := p.expandColumns(doc, defaultDict)
	if err != nil {
		return nil, err
	}

	rowCount := 0
	if len(columns) > 0 {
		rowCount = len(columns[0])
		for _, col := range columns {
			if len(col) != rowCount {
				return nil, alserr.ColumnMismatch(rowCount, len(col))
			}
		}
	}

	rows := make([][]string, rowCount)
	for r := 0; r < rowCount; r++ {
		row := make([]string, len(columns))
		for c, col := range columns {
			row[c] = col[r]
		}
		rows[r] = row
	}
	return rows, nil
}

// shouldUseParallelExpand decides between goroutine fan-out and a plain
// loop, mirroring the reference's Rayon-gated should_use_parallel_expand
// with errgroup replacing the thread pool.
func (p Parser) shouldUseParallelExpand(doc *Document) bool {
	if p.config.Parallelism == 1 {
		return false
	}
	if len(doc.Streams) < 2 {
		return false
	}
	estimated := 0
	for _, s := range doc.Streams {
		estimated += s.ExpandedCount()
	}
	estimated *= len(doc.Streams)
	return estimated >= parallelExpandThreshold
}

func (p Parser) expandColumns(doc *Document, defaultDict []string) ([][]string, error) {
	if !p.shouldUseParallelExpand(doc) {
		columns := make([][]string, len(doc.Streams))
		for i, s := range doc.Streams {
			values, err := s.Expand(defaultDict)
			if err != nil {
				return nil, err
			}
			columns[i] = values
		}
		return columns, nil
	}

	columns := make([][]string, len(doc.Streams))
	g := new(errgroup.Group)
	if p.config.Parallelism > 1 {
		g.SetLimit(p.config.Parallelism)
	}
	for i, s := range doc.Streams {
		i, s := i, s
		g.Go(func() error {
			values, err := s.Expand(defaultDict)
			if err != nil {
				return err
			}
			columns[i] = values
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return columns, nil
}

// WouldUseParallel reports whether Expand would fan out across goroutines
// for doc, useful for tests and diagnostics.
func (p Parser) WouldUseParallel(doc *Document) bool {
	return p.shouldUseParallelExpand(doc)
}

// ParseAndExpand parses input and immediately expands it to schema + rows.
func (p Parser) ParseAndExpand(input string) ([]string, [][]string, error) {
	doc, err := p.Parse(input)
	if err != nil {
		return nil, nil, err
	}
	rows, err := p.Expand(doc)
	if err != nil {
		return nil, nil, err
	}
	return doc.Schema, rows, nil
}
