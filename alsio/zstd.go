package alsio

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
)

var (
	zstdEncoderPool = sync.Pool{
		New: func() any {
			enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
			if err != nil {
				panic(fmt.Sprintf("alsio: creating zstd encoder: %v", err))
			}
			return enc
		},
	}
	zstdDecoderPool = sync.Pool{
		New: func() any {
			dec, err := zstd.NewReader(nil)
			if err != nil {
				panic(fmt.Sprintf("alsio: creating zstd decoder: %v", err))
			}
			return dec
		},
	}
)

// ZstdCodec compresses payloads with zstd, borrowing encoder/decoder
// instances from a pool since both are expensive to construct and unsafe to
// share across goroutines while in use.
type ZstdCodec struct{}

func NewZstdCodec() ZstdCodec { return ZstdCodec{} }

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	enc := zstdEncoderPool.Get().(*zstd.Encoder)
	defer zstdEncoderPool.Put(enc)
	enc.Reset(nil)
	return enc.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func (ZstdCodec) Decompress(data []byte) ([]byte, error) {
	dec := zstdDecoderPool.Get().(*zstd.Decoder)
	defer zstdDecoderPool.Put(dec)
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("alsio: zstd decompress: %w", err)
	}
	return out, nil
}
