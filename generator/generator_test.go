package generator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/generator"
)

func TestSineStartsAtZeroAndRisesFirst(t *testing.T) {
	g := generator.Sine(44100, 440)
	first, ok := g.Next()
	require.True(t, ok)
	require.InDelta(t, 0, float64(first), 1e-5)

	second, ok := g.Next()
	require.True(t, ok)
	require.Greater(t, second, sonora.Sample(0))
}

func TestSquareAlternatesAroundHalfPeriod(t *testing.T) {
	const rate sonora.SampleRate = 8
	const freq = 1.0 // one cycle per 8 samples
	g := generator.Square(rate, freq)

	var samples []sonora.Sample
	for i := 0; i < 8; i++ {
		s, ok := g.Next()
		require.True(t, ok)
		samples = append(samples, s)
	}

	for i := 0; i < 4; i++ {
		require.Equal(t, sonora.Sample(1), samples[i])
	}
	for i := 4; i < 8; i++ {
		require.Equal(t, sonora.Sample(-1), samples[i])
	}
}

func TestGeneratorsReportMonoInfiniteMetadata(t *testing.T) {
	for _, g := range []sonora.Source{
		generator.Sine(44100, 440),
		generator.Triangle(44100, 440),
		generator.Square(44100, 440),
		generator.Sawtooth(44100, 440),
	} {
		require.EqualValues(t, 1, g.Channels())
		require.Equal(t, sonora.SpanUnknown, g.CurrentSpanLen())
		_, known := g.TotalDuration()
		require.False(t, known)
	}
}

func TestNewSignalPanicsOnNonPositiveFrequency(t *testing.T) {
	require.Panics(t, func() { generator.Sine(44100, 0) })
	require.Panics(t, func() { generator.Sine(44100, -10) })
}

func TestLFSRNoiseStaysInRange(t *testing.T) {
	n := generator.White(44100, 1000)
	for i := 0; i < 1000; i++ {
		s, ok := n.Next()
		require.True(t, ok)
		require.LessOrEqual(t, math.Abs(float64(s)), 1.0)
	}
}

func TestPinkNoiseDeterministicWithSameSeed(t *testing.T) {
	a := generator.NewPinkNoise(44100, 42)
	b := generator.NewPinkNoise(44100, 42)

	for i := 0; i < 500; i++ {
		sa, _ := a.Next()
		sb, _ := b.Next()
		require.Equal(t, sa, sb)
	}
}

func TestPinkNoiseStaysInRange(t *testing.T) {
	p := generator.NewPinkNoise(44100, 7)
	for i := 0; i < 2000; i++ {
		s, ok := p.Next()
		require.True(t, ok)
		require.LessOrEqual(t, math.Abs(float64(s)), 1.0)
	}
}
