package queue_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/queue"
	"github.com/zaynotley/sonora/source"
)

func TestIDQueueRemoveBeforePlaying(t *testing.T) {
	in, out := queue.NewID(false)
	in.Append(1, source.NewSamplesBuffer(1, 48000, []sonora.Sample{1, 1}))
	in.Append(2, source.NewSamplesBuffer(1, 48000, []sonora.Sample{2, 2}))

	require.True(t, in.Remove(2))

	var got []sonora.Sample
	for {
		s, ok := out.Next()
		if !ok {
			break
		}
		got = append(got, s)
	}
	require.Equal(t, []sonora.Sample{1, 1}, got)
}

func TestIDQueueSwapReordersPending(t *testing.T) {
	in, out := queue.NewID(false)
	in.Append(1, source.NewSamplesBuffer(1, 48000, []sonora.Sample{1}))
	in.Append(2, source.NewSamplesBuffer(1, 48000, []sonora.Sample{2}))

	require.True(t, in.Swap(1, 2))

	first, ok := out.Next()
	require.True(t, ok)
	require.Equal(t, sonora.Sample(2), first)
}

func TestIDQueueRemoveUnknownIDIsNoop(t *testing.T) {
	in, _ := queue.NewID(false)
	require.False(t, in.Remove(999))
}
