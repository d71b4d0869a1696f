package source_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/source"
)

// onesSource is an infinite stereo source of 1.0 samples.
type onesSource struct{}

func (onesSource) Next() (sonora.Sample, bool)      { return 1, true }
func (onesSource) Channels() sonora.ChannelCount    { return 2 }
func (onesSource) SampleRate() sonora.SampleRate    { return 44100 }
func (onesSource) CurrentSpanLen() int              { return sonora.SpanUnknown }
func (onesSource) TotalDuration() (time.Duration, bool) { return 0, false }
func (onesSource) TrySeek(time.Duration) error      { return sonora.NotSupportedError("onesSource") }

func TestTakeDurationPadsOddSampleCountToFrameBoundary(t *testing.T) {
	const rate = 44100
	// Choose a duration whose raw sample count (rate*channels*seconds) is
	// exactly 5 — odd for a stereo source — so padding must add one more
	// equilibrium sample to reach the next even (frame-aligned) count.
	const rawSamples = 5
	seconds := float64(rawSamples) / 2 / rate
	d := time.Duration(seconds * float64(time.Second))

	td := source.NewTakeDuration(onesSource{}, d, false)

	var got []sonora.Sample
	for {
		s, ok := td.Next()
		if !ok {
			break
		}
		got = append(got, s)
	}

	require.Equal(t, 6, len(got))
	require.True(t, len(got)%2 == 0)
	require.Equal(t, sonora.EquilibriumSample, got[len(got)-1])
	for i := 0; i < len(got)-1; i++ {
		require.Equal(t, sonora.Sample(1), got[i])
	}
}

func TestAmplifyRoundTripIsIdentity(t *testing.T) {
	buf := source.NewSamplesBuffer(1, 48000, []sonora.Sample{0.25, -0.5, 0.75})
	up := source.NewAmplify(buf, 4.0)
	down := source.NewAmplify(up, 1.0/4.0)

	expect := []sonora.Sample{0.25, -0.5, 0.75}
	for _, want := range expect {
		got, ok := down.Next()
		require.True(t, ok)
		require.InDelta(t, float64(want), float64(got), 1e-6)
	}
}
