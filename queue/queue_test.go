package queue_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/queue"
	"github.com/zaynotley/sonora/source"
)

func TestQueueTwoSourcesDifferentFormats(t *testing.T) {
	in, out := queue.New(false)
	in.Append(source.NewSamplesBuffer(1, 48000, []sonora.Sample{10, -10, 10, -10}))
	in.Append(source.NewSamplesBuffer(2, 96000, []sonora.Sample{5, 5, 5, 5}))

	var got []sonora.Sample
	for i := 0; i < 4; i++ {
		s, ok := out.Next()
		require.True(t, ok)
		got = append(got, s)
	}
	require.Equal(t, []sonora.Sample{10, -10, 10, -10}, got)
	require.EqualValues(t, 1, out.Channels())
	require.EqualValues(t, 48000, out.SampleRate())

	got = got[:0]
	for i := 0; i < 4; i++ {
		s, ok := out.Next()
		require.True(t, ok)
		got = append(got, s)
	}
	require.Equal(t, []sonora.Sample{5, 5, 5, 5}, got)
	require.EqualValues(t, 2, out.Channels())
	require.EqualValues(t, 96000, out.SampleRate())

	_, ok := out.Next()
	require.False(t, ok)
}

func TestQueueKeepAliveEmitsSilence(t *testing.T) {
	in, out := queue.New(true)
	in.Append(source.NewSamplesBuffer(1, 48000, []sonora.Sample{1, 2}))

	s, ok := out.Next()
	require.True(t, ok)
	require.Equal(t, sonora.Sample(1), s)
	s, ok = out.Next()
	require.True(t, ok)
	require.Equal(t, sonora.Sample(2), s)

	for i := 0; i < queue.Threshold; i++ {
		s, ok := out.Next()
		require.True(t, ok)
		require.Equal(t, sonora.EquilibriumSample, s)
	}
}

func TestQueueAppendWithSignalClosesOnCompletion(t *testing.T) {
	in, out := queue.New(false)
	done := in.AppendWithSignal(source.NewSamplesBuffer(1, 48000, []sonora.Sample{1, 2}))

	select {
	case <-done:
		t.Fatal("signal closed before source finished")
	default:
	}

	for {
		if _, ok := out.Next(); !ok {
			break
		}
	}

	<-done // must be closed now
}

func TestQueueClearRemovesPending(t *testing.T) {
	in, _ := queue.New(false)
	in.Append(source.NewSamplesBuffer(1, 48000, []sonora.Sample{1}))
	in.Append(source.NewSamplesBuffer(1, 48000, []sonora.Sample{2}))

	n := in.Clear()
	require.Equal(t, 2, n)
}
