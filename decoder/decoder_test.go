package decoder_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora/decoder"
)

func TestBuildUnrecognisedFormatReturnsTypedError(t *testing.T) {
	garbage := bytes.NewReader([]byte("not any audio format, just filler bytes to probe against"))
	_, err := decoder.NewBuilder().WithData(garbage).Build()
	require.Error(t, err)

	var decErr *decoder.DecoderError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, decoder.ErrUnrecognisedFormat, decErr.Kind)
}

func TestBuildNoDataReturnsUnrecognisedFormat(t *testing.T) {
	_, err := decoder.NewBuilder().Build()
	require.Error(t, err)

	var decErr *decoder.DecoderError
	require.ErrorAs(t, err, &decErr)
	require.Equal(t, decoder.ErrUnrecognisedFormat, decErr.Kind)
}

func TestBuilderFluentSettersChain(t *testing.T) {
	garbage := bytes.NewReader([]byte("filler"))
	b := decoder.NewBuilder().
		WithData(garbage).
		WithByteLen(6).
		WithCoarseSeek(true).
		WithGapless(false).
		WithHint("wav").
		WithMimeType("audio/vnd.wav").
		WithSeekable(true)

	_, err := b.Build()
	require.Error(t, err) // still garbage bytes, just checking the chain compiles and runs
}
