package alsio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/als-project/als/als"
)

func TestNoOpCodecRoundTrip(t *testing.T) {
	codec := NoOpCodec{}
	in := []byte("!als v1\n#a\nhello\n")
	out, err := codec.Compress(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	back, err := codec.Decompress(out)
	require.NoError(t, err)
	assert.Equal(t, in, back)
}

func TestZstdCodecRoundTrip(t *testing.T) {
	codec := NewZstdCodec()
	in := []byte(strings.Repeat("als-project ", 200))

	compressed, err := codec.Compress(in)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(in))

	out, err := codec.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestZstdCodecEmptyInput(t *testing.T) {
	codec := NewZstdCodec()
	compressed, err := codec.Compress(nil)
	require.NoError(t, err)

	out, err := codec.Decompress(compressed)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestLZ4CodecRoundTrip(t *testing.T) {
	codec := LZ4Codec{}
	in := []byte(strings.Repeat("adaptive logic stream ", 200))

	compressed, err := codec.Compress(in)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(in))

	out, err := codec.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestLZ4CodecIncompressibleInput(t *testing.T) {
	codec := LZ4Codec{}
	in := []byte{0x00, 0x01, 0x02, 0x03}

	compressed, err := codec.Compress(in)
	require.NoError(t, err)

	out, err := codec.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestNewCodecUnknownAlgorithm(t *testing.T) {
	_, err := NewCodec(Algorithm(255))
	assert.Error(t, err)
}

func TestAlgorithmString(t *testing.T) {
	assert.Equal(t, "none", AlgorithmNone.String())
	assert.Equal(t, "zstd", AlgorithmZstd.String())
	assert.Equal(t, "lz4", AlgorithmLZ4.String())
}

func TestWriteReadCompressedRoundTripALS(t *testing.T) {
	doc := als.NewDocumentWithSchema([]string{"id"})
	doc.SetAlsFormat()
	doc.AddStream(als.ColumnStreamFromOperators([]als.Operator{als.RangeOp(1, 5)}))

	for _, algo := range []Algorithm{AlgorithmNone, AlgorithmZstd, AlgorithmLZ4} {
		compressed, err := WriteCompressed(doc, algo)
		require.NoError(t, err, "algorithm %s", algo)

		back, err := ReadCompressed(compressed, algo)
		require.NoError(t, err, "algorithm %s", algo)
		assert.True(t, back.IsAls())
		assert.Equal(t, doc.Schema, back.Schema)
	}
}

func TestWriteReadCompressedRoundTripCTX(t *testing.T) {
	doc := als.NewDocumentWithSchema([]string{"id", "name"})
	doc.SetCtxFormat()
	doc.AddStream(als.ColumnStreamFromOperators([]als.Operator{als.RawOp("1"), als.RawOp("2")}))
	doc.AddStream(als.ColumnStreamFromOperators([]als.Operator{als.RawOp("alice"), als.RawOp("bob")}))

	compressed, err := WriteCompressed(doc, AlgorithmZstd)
	require.NoError(t, err)

	back, err := ReadCompressed(compressed, AlgorithmZstd)
	require.NoError(t, err)
	assert.True(t, back.IsCtx())
	assert.Equal(t, doc.Schema, back.Schema)
}
