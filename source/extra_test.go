package source_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/source"
)

func TestBufferedClonesReplayFromSharedPoint(t *testing.T) {
	buf := source.NewSamplesBuffer(1, 44100, []sonora.Sample{1, 2, 3})
	b := source.NewBuffered(buf)

	s, ok := b.Next()
	require.True(t, ok)
	require.Equal(t, sonora.Sample(1), s)

	clone := b.Clone()

	// both cursors continue independently from the shared point
	for _, want := range []sonora.Sample{2, 3} {
		s, ok := b.Next()
		require.True(t, ok)
		require.Equal(t, want, s)
	}
	for _, want := range []sonora.Sample{2, 3} {
		s, ok := clone.Next()
		require.True(t, ok)
		require.Equal(t, want, s)
	}

	_, ok = b.Next()
	require.False(t, ok)
}

func TestBufferedReadsInnerOnlyOnce(t *testing.T) {
	reads := 0
	buf := source.NewSamplesBuffer(1, 44100, []sonora.Sample{1, 2})
	counting := &countingSource{Source: buf, reads: &reads}

	b := source.NewBuffered(counting)
	clone := b.Clone()

	for b.Channels() > 0 {
		if _, ok := b.Next(); !ok {
			break
		}
	}
	for clone.Channels() > 0 {
		if _, ok := clone.Next(); !ok {
			break
		}
	}

	require.Equal(t, 2, reads) // only the first cursor's pull actually touched the inner source
}

type countingSource struct {
	sonora.Source
	reads *int
}

func (c *countingSource) Next() (sonora.Sample, bool) {
	*c.reads++
	return c.Source.Next()
}

func TestLinearGainRampFadeInStartsSilentEndsUnity(t *testing.T) {
	data := make([]sonora.Sample, 10)
	for i := range data {
		data[i] = 1
	}
	buf := source.NewSamplesBuffer(1, 10, data)
	ramp := source.FadeIn(buf, time.Second)

	first, ok := ramp.Next()
	require.True(t, ok)
	require.InDelta(t, 0.0, float64(first), 1e-6)

	var last sonora.Sample
	for i := 0; i < 9; i++ {
		s, ok := ramp.Next()
		require.True(t, ok)
		last = s
	}
	require.InDelta(t, 0.9, float64(last), 1e-3)
}

func TestLinearGainRampFadeOutReachesSilenceAndStaysClamped(t *testing.T) {
	data := make([]sonora.Sample, 20)
	for i := range data {
		data[i] = 1
	}
	buf := source.NewSamplesBuffer(1, 10, data)
	ramp := source.FadeOut(buf, time.Second)

	var s sonora.Sample
	var ok bool
	for i := 0; i < 20; i++ {
		s, ok = ramp.Next()
		require.True(t, ok)
	}
	require.InDelta(t, 0.0, float64(s), 1e-6) // past the ramp's duration, clamped to end gain
}

func TestAutomaticGainControlConvergesTowardTarget(t *testing.T) {
	data := make([]sonora.Sample, 5000)
	for i := range data {
		data[i] = 0.1
	}
	buf := source.NewSamplesBuffer(1, 44100, data)
	agc := source.NewAutomaticGainControl(buf, 0.5, 0.01, 10.0)

	var last sonora.Sample
	for {
		s, ok := agc.Next()
		if !ok {
			break
		}
		last = s
	}
	require.Greater(t, float64(last), 0.1) // gain should have increased to push the quiet input up
}

func TestPeriodicAccessFiresOnConstructionAndEveryPeriod(t *testing.T) {
	buf := source.NewSamplesBuffer(1, 44100, make([]sonora.Sample, 20))
	var calls atomic.Int64
	p := source.NewPeriodicAccess(buf, 5, func(sonora.Source) { calls.Add(1) })
	require.Equal(t, int64(1), calls.Load()) // fired once immediately on construction

	for i := 0; i < 5; i++ {
		p.Next()
	}
	require.Equal(t, int64(1), calls.Load()) // since reaches period only after the 5th call; fires on the 6th

	p.Next()
	require.Equal(t, int64(2), calls.Load())

	for i := 0; i < 5; i++ {
		p.Next()
	}
	require.Equal(t, int64(3), calls.Load())
}
