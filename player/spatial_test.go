package player_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/player"
)

func TestSpatialAppendProducesStereoPannedOutput(t *testing.T) {
	sp := player.NewSpatial([3]float32{0, 0, 0}, [3]float32{-1, 0, 0}, [3]float32{5, 0, 0})
	sp.Append(&fixedSource{data: []sonora.Sample{1, 1, 1, 1}})

	left, ok := sp.Output().Next()
	require.True(t, ok)
	right, ok := sp.Output().Next()
	require.True(t, ok)
	require.Greater(t, float64(left), float64(right))
	require.Equal(t, sonora.ChannelCount(2), sp.Output().Channels()) // current entry now resolved to the spatial chain
}

func TestSpatialExposesUnderlyingSinkControls(t *testing.T) {
	sp := player.NewSpatial([3]float32{0, 0, 0}, [3]float32{-1, 0, 0}, [3]float32{1, 0, 0})
	sp.SetVolume(0.5)
	require.Equal(t, float32(0.5), sp.Volume())
}
