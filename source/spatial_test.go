package source_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/source"
)

func TestSpatialCloserEarGetsMoreGain(t *testing.T) {
	buf := source.NewSamplesBuffer(1, 44100, []sonora.Sample{1, 1})
	sp := source.NewSpatial(buf, [3]float32{0, 0, 0}, [3]float32{-1, 0, 0}, [3]float32{5, 0, 0})

	left, ok := sp.Next()
	require.True(t, ok)
	right, ok := sp.Next()
	require.True(t, ok)

	require.Greater(t, float64(left), float64(right)) // left ear is much closer
	require.Equal(t, sonora.ChannelCount(2), sp.Channels())
}

func TestSpatialEqualDistanceGivesEqualGain(t *testing.T) {
	buf := source.NewSamplesBuffer(1, 44100, []sonora.Sample{2})
	sp := source.NewSpatial(buf, [3]float32{0, 0, 0}, [3]float32{-1, 0, 0}, [3]float32{1, 0, 0})

	left, _ := sp.Next()
	right, _ := sp.Next()
	require.InDelta(t, float64(left), float64(right), 1e-6)
}

func TestSpatialSetPositionsChangesSubsequentGains(t *testing.T) {
	data := make([]sonora.Sample, 4)
	for i := range data {
		data[i] = 1
	}
	buf := source.NewSamplesBuffer(1, 44100, data)
	sp := source.NewSpatial(buf, [3]float32{0, 0, 0}, [3]float32{-1, 0, 0}, [3]float32{1, 0, 0})

	l1, _ := sp.Next()
	r1, _ := sp.Next()
	require.InDelta(t, float64(l1), float64(r1), 1e-6)

	sp.SetPositions([3]float32{0, 0, 0}, [3]float32{-10, 0, 0}, [3]float32{1, 0, 0})
	l2, _ := sp.Next()
	r2, _ := sp.Next()
	require.Less(t, float64(l2), float64(r2)) // left ear now much farther away
}

func TestSpatialEndsWhenInnerEndsMidFrame(t *testing.T) {
	buf := source.NewSamplesBuffer(1, 44100, []sonora.Sample{1})
	sp := source.NewSpatial(buf, [3]float32{0, 0, 0}, [3]float32{-1, 0, 0}, [3]float32{1, 0, 0})

	_, ok := sp.Next() // left channel of the only frame
	require.True(t, ok)
	_, ok = sp.Next() // right channel of the only frame
	require.True(t, ok)
	_, ok = sp.Next() // inner exhausted
	require.False(t, ok)
}
