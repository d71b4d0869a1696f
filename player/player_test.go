package player_test

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/player"
)

// infiniteSine is a minimal always-available mono source, independent of
// the generator package to keep this control-plane test self-contained.
type infiniteSine struct{ phase float64 }

func (s *infiniteSine) Next() (sonora.Sample, bool) {
	v := math.Sin(2 * math.Pi * s.phase)
	s.phase += 440.0 / 44100.0
	if s.phase >= 1 {
		s.phase -= 1
	}
	return sonora.Sample(v), true
}

func (s *infiniteSine) Channels() sonora.ChannelCount        { return 1 }
func (s *infiniteSine) SampleRate() sonora.SampleRate        { return 44100 }
func (s *infiniteSine) CurrentSpanLen() int                  { return sonora.SpanUnknown }
func (s *infiniteSine) TotalDuration() (time.Duration, bool) { return 0, false }
func (s *infiniteSine) TrySeek(time.Duration) error          { return sonora.NotSupportedError("infiniteSine") }

func TestSinkVolumeResponsiveness(t *testing.T) {
	sink := player.New()
	sink.Append(&infiniteSine{})
	out := sink.Output()

	sink.SetVolume(0.0)

	// Pull roughly 10ms of audio at 44.1kHz to clear the periodic-access
	// control interval at least once.
	const samples = 441
	for i := 0; i < samples; i++ {
		_, ok := out.Next()
		require.True(t, ok)
	}

	for i := 0; i < 100; i++ {
		s, ok := out.Next()
		require.True(t, ok)
		require.InDelta(t, 0, float64(s), 1e-6)
	}
}

func TestSinkEmptyAfterExhaustionWhilePaused(t *testing.T) {
	sink := player.New()
	sink.Append(newFixedSource())
	out := sink.Output()

	// Drain well past the 4 real samples so the wrapped source reports
	// exhaustion and the sink's active count drops to zero; the queue's
	// keep-alive then supplies silence indefinitely, which must not count
	// as still-active.
	for i := 0; i < 16; i++ {
		_, ok := out.Next()
		require.True(t, ok)
	}

	sink.Pause()
	require.True(t, sink.Empty())
}

func newFixedSource() sonora.Source {
	return &fixedSource{data: []sonora.Sample{1, 1, 1, 1}}
}

type fixedSource struct {
	data []sonora.Sample
	pos  int
}

func (f *fixedSource) Next() (sonora.Sample, bool) {
	if f.pos >= len(f.data) {
		return 0, false
	}
	v := f.data[f.pos]
	f.pos++
	return v, true
}

func (f *fixedSource) Channels() sonora.ChannelCount        { return 1 }
func (f *fixedSource) SampleRate() sonora.SampleRate        { return 44100 }
func (f *fixedSource) CurrentSpanLen() int                  { return len(f.data) - f.pos }
func (f *fixedSource) TotalDuration() (time.Duration, bool) { return 0, false }
func (f *fixedSource) TrySeek(time.Duration) error          { return sonora.NotSupportedError("fixedSource") }
