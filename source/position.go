package source

import (
	"sync/atomic"
	"time"

	"github.com/zaynotley/sonora"
)

// TrackPosition records elapsed playback position into a shared handle the
// control plane can read without touching the hot path. A span boundary is
// detected only when the inner source reports SpanUnknown and its channel
// count or sample rate differs from the latched values; the finished span's
// elapsed time is then folded into the total before counting restarts.
// Declared span lengths are not used, so a format change at a declared
// boundary is not detected.
type TrackPosition struct {
	inner sonora.Source

	channels sonora.ChannelCount
	rate     sonora.SampleRate

	samplesInSpan uint64
	baseNanos     int64 // accumulated duration from completed spans, in nanoseconds

	positionNanos *atomic.Int64 // shared handle; nil means private storage only
	seekOffset    time.Duration
}

// NewTrackPosition wraps inner, optionally publishing elapsed position into
// handle (pass nil to just track internally and read via Position()).
func NewTrackPosition(inner sonora.Source, handle *atomic.Int64) *TrackPosition {
	t := &TrackPosition{inner: inner, positionNanos: handle}
	t.latch()
	return t
}

func (t *TrackPosition) latch() {
	t.channels = t.inner.Channels()
	t.rate = t.inner.SampleRate()
}

func (t *TrackPosition) publish() {
	elapsed := t.spanElapsed()
	total := time.Duration(t.baseNanos) + elapsed + t.seekOffset
	if t.positionNanos != nil {
		t.positionNanos.Store(int64(total))
	}
}

func (t *TrackPosition) spanElapsed() time.Duration {
	if t.rate <= 0 || t.channels <= 0 {
		return 0
	}
	frames := float64(t.samplesInSpan) / float64(t.channels)
	return time.Duration(frames / float64(t.rate) * float64(time.Second))
}

func (t *TrackPosition) Next() (sonora.Sample, bool) {
	s, ok := t.inner.Next()
	if !ok {
		return 0, false
	}

	if t.inner.CurrentSpanLen() == sonora.SpanUnknown {
		if t.inner.Channels() != t.channels || t.inner.SampleRate() != t.rate {
			t.baseNanos += int64(t.spanElapsed())
			t.samplesInSpan = 0
			t.latch()
		}
	}

	t.samplesInSpan++
	t.publish()
	return s, true
}

func (t *TrackPosition) Channels() sonora.ChannelCount { return t.inner.Channels() }
func (t *TrackPosition) SampleRate() sonora.SampleRate { return t.inner.SampleRate() }
func (t *TrackPosition) CurrentSpanLen() int           { return t.inner.CurrentSpanLen() }

func (t *TrackPosition) TotalDuration() (time.Duration, bool) { return t.inner.TotalDuration() }

// Position returns the last published playback position.
func (t *TrackPosition) Position() time.Duration {
	if t.positionNanos != nil {
		return time.Duration(t.positionNanos.Load())
	}
	return time.Duration(t.baseNanos) + t.spanElapsed() + t.seekOffset
}

// TrySeek forwards the seek and resets accumulated position to pos (minus
// whatever the inner source actually lands on is not observable here, so
// pos is taken as authoritative, matching rodio's offset_duration contract).
func (t *TrackPosition) TrySeek(pos time.Duration) error {
	if err := t.inner.TrySeek(pos); err != nil {
		return err
	}
	t.baseNanos = 0
	t.samplesInSpan = 0
	t.seekOffset = pos
	t.latch()
	t.publish()
	return nil
}
