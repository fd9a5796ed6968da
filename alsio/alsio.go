// Package alsio wraps ALS/CTX wire text in an optional outer transport
// compression layer for callers moving documents over a network or onto
// disk, where the textual codec's own compactness isn't the only cost that
// matters.
package alsio

import (
	"fmt"

	"github.com/als-project/als/als"
	"github.com/als-project/als/ctx"
)

// Algorithm identifies an outer transport compression codec.
type Algorithm uint8

const (
	AlgorithmNone Algorithm = iota
	AlgorithmZstd
	AlgorithmLZ4
)

func (a Algorithm) String() string {
	switch a {
	case AlgorithmZstd:
		return "zstd"
	case AlgorithmLZ4:
		return "lz4"
	default:
		return "none"
	}
}

// Codec compresses and decompresses arbitrary byte payloads. Wire bytes in
// this package are always UTF-8 ALS or CTX text; Codec treats them opaquely.
type Codec interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// NewCodec returns the Codec for algorithm, or an error for an unknown one.
func NewCodec(algorithm Algorithm) (Codec, error) {
	switch algorithm {
	case AlgorithmNone:
		return NoOpCodec{}, nil
	case AlgorithmZstd:
		return NewZstdCodec(), nil
	case AlgorithmLZ4:
		return LZ4Codec{}, nil
	default:
		return nil, fmt.Errorf("alsio: unknown compression algorithm %d", algorithm)
	}
}

// WriteCompressed serializes doc (ALS or CTX depending on its
// FormatIndicator) and compresses the result with algorithm.
func WriteCompressed(doc *als.Document, algorithm Algorithm) ([]byte, error) {
	var text string
	var err error
	if doc.IsCtx() {
		text, err = ctx.Serialize(doc)
	} else {
		text = als.Serializer{}.Serialize(doc)
	}
	if err != nil {
		return nil, err
	}

	codec, err := NewCodec(algorithm)
	if err != nil {
		return nil, err
	}
	return codec.Compress([]byte(text))
}

// ReadCompressed decompresses data with algorithm and parses the result as
// either ALS or CTX text, detecting which from its version prefix.
func ReadCompressed(data []byte, algorithm Algorithm) (*als.Document, error) {
	codec, err := NewCodec(algorithm)
	if err != nil {
		return nil, err
	}
	raw, err := codec.Decompress(data)
	if err != nil {
		return nil, err
	}

	text := string(raw)
	if isCtxText(text) {
		return ctx.Parse(text)
	}
	return als.NewParser().Parse(text)
}

func isCtxText(text string) bool {
	for i := 0; i < len(text) && i < 8; i++ {
		switch text[i] {
		case ' ', '\t':
			continue
		}
		return len(text) >= i+4 && text[i:i+4] == "!ctx"
	}
	return false
}
