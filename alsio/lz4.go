package alsio

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/pierrec/lz4/v4"
)

var lz4CompressorPool = sync.Pool{
	New: func() any { return new(lz4.Compressor) },
}

const lz4MaxDecompressBuffer = 128 << 20 // 128MB

// LZ4Codec compresses payloads with block-mode LZ4. The compressed frame is
// prefixed with the uncompressed length (uint32, little-endian) so
// Decompress can size its output buffer without guessing.
type LZ4Codec struct{}

func (LZ4Codec) Compress(data []byte) ([]byte, error) {
	c := lz4CompressorPool.Get().(*lz4.Compressor)
	defer lz4CompressorPool.Put(c)

	bound := lz4.CompressBlockBound(len(data))
	out := make([]byte, 4+bound)
	binary.LittleEndian.PutUint32(out[:4], uint32(len(data)))

	n, err := c.CompressBlock(data, out[4:])
	if err != nil {
		return nil, fmt.Errorf("alsio: lz4 compress: %w", err)
	}
	if n == 0 {
		// Incompressible input: lz4 declines to emit a block. Store it raw
		// with a sentinel length of zero handled in Decompress.
		raw := make([]byte, 4+len(data))
		binary.LittleEndian.PutUint32(raw[:4], 0)
		copy(raw[4:], data)
		return raw, nil
	}
	return out[:4+n], nil
}

func (LZ4Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("alsio: lz4 payload too short")
	}
	uncompressedLen := binary.LittleEndian.Uint32(data[:4])
	payload := data[4:]
	if uncompressedLen == 0 {
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}
	if uncompressedLen > lz4MaxDecompressBuffer {
		return nil, fmt.Errorf("alsio: lz4 declared length %d exceeds limit", uncompressedLen)
	}

	out := make([]byte, uncompressedLen)
	n, err := lz4.UncompressBlock(payload, out)
	if err != nil {
		return nil, fmt.Errorf("alsio: lz4 decompress: %w", err)
	}
	return out[:n], nil
}
