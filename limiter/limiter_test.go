package limiter_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/limiter"
	"github.com/zaynotley/sonora/source"
)

// sineSource is a minimal infinite sine generator local to this test, kept
// independent of the generator package to avoid a cross-package test
// dependency for a single fixture.
type sineSource struct {
	rate  sonora.SampleRate
	freq  float32
	phase float64
}

func (s *sineSource) Next() (sonora.Sample, bool) {
	v := math.Sin(2 * math.Pi * s.phase)
	s.phase += float64(s.freq) / float64(s.rate)
	if s.phase >= 1 {
		s.phase -= 1
	}
	return float32(v), true
}

func (s *sineSource) Channels() sonora.ChannelCount           { return 1 }
func (s *sineSource) SampleRate() sonora.SampleRate           { return s.rate }
func (s *sineSource) CurrentSpanLen() int                     { return sonora.SpanUnknown }
func (s *sineSource) TotalDuration() (time.Duration, bool)    { return 0, false }
func (s *sineSource) TrySeek(time.Duration) error             { return sonora.NotSupportedError("sineSource") }

func TestLimiterHitsMinus6dBFS(t *testing.T) {
	const rate sonora.SampleRate = 44100
	sine := &sineSource{rate: rate, freq: 440}
	amplified := source.NewAmplify(sine, 3.0)
	lim := limiter.New(amplified, limiter.Settings{
		Threshold: -6.0,
		KneeWidth: 0.5,
		Attack:    3 * time.Millisecond,
		Release:   12 * time.Millisecond,
	})

	for i := 0; i < 2000; i++ {
		_, ok := lim.Next()
		require.True(t, ok)
	}

	var peak sonora.Sample
	for i := 0; i < 4000; i++ {
		s, ok := lim.Next()
		require.True(t, ok)
		abs := s
		if abs < 0 {
			abs = -abs
		}
		if abs > peak {
			peak = abs
		}
	}
	require.GreaterOrEqualf(t, peak, sonora.Sample(0.4), "peak out of range: %v", peak)
	require.LessOrEqualf(t, peak, sonora.Sample(0.6), "peak out of range: %v", peak)
}
