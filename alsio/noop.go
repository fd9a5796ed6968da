package alsio

// NoOpCodec passes data through unchanged. Useful when the caller already
// applies compression at a lower layer (e.g. a gzip-wrapped HTTP body) and
// wants alsio's framing without a second compression pass.
type NoOpCodec struct{}

func (NoOpCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoOpCodec) Decompress(data []byte) ([]byte, error) { return data, nil }
