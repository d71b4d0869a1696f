package source_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/source"
)

func TestUniformSourceIteratorPassesThroughWhenAlreadyUniform(t *testing.T) {
	buf := source.NewSamplesBuffer(2, 44100, []sonora.Sample{1, 2, 3, 4})
	called := false
	u := source.NewUniformSourceIterator(buf, 2, 44100, func(inner sonora.Source, from, to sonora.SampleRate, ch sonora.ChannelCount) source.Resampler {
		called = true
		return inner.(source.Resampler)
	})

	for _, want := range []sonora.Sample{1, 2, 3, 4} {
		got, ok := u.Next()
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	require.False(t, called) // rate already matches target, no resampler built
}

func TestUniformSourceIteratorConvertsChannelsWithoutResampling(t *testing.T) {
	buf := source.NewSamplesBuffer(1, 44100, []sonora.Sample{1, 2})
	u := source.NewUniformSourceIterator(buf, 2, 44100, nil)

	want := []sonora.Sample{1, 1, 2, 2}
	for _, w := range want {
		got, ok := u.Next()
		require.True(t, ok)
		require.Equal(t, w, got)
	}
}

func TestUniformSourceIteratorInvokesResamplerWhenRateDiffers(t *testing.T) {
	buf := source.NewSamplesBuffer(1, 8000, []sonora.Sample{1, 2, 3})
	calledWith := sonora.SampleRate(0)
	u := source.NewUniformSourceIterator(buf, 1, 16000, func(inner sonora.Source, from, to sonora.SampleRate, ch sonora.ChannelCount) source.Resampler {
		calledWith = from
		return inner.(source.Resampler)
	})

	_, ok := u.Next()
	require.True(t, ok)
	require.EqualValues(t, 8000, calledWith)
}
