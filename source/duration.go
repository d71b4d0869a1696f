package source

import (
	"math"
	"time"

	"github.com/zaynotley/sonora"
)

// TakeDuration yields samples for at most d of wall-clock audio, padding the
// final partial frame with equilibrium samples so the total emitted count is
// a multiple of the channel count, then terminates. With fadeOut enabled,
// sample k is scaled by the fraction of duration remaining.
type TakeDuration struct {
	inner       sonora.Source
	fadeOut     bool
	total       uint64 // total samples to emit, already frame-aligned
	raw         uint64 // samples taken from inner; the rest of total is padding
	emitted     uint64
	channels    sonora.ChannelCount
	rate        sonora.SampleRate
	exhausted   bool
}

// NewTakeDuration wraps inner to stop after duration d.
func NewTakeDuration(inner sonora.Source, d time.Duration, fadeOut bool) *TakeDuration {
	t := &TakeDuration{inner: inner, fadeOut: fadeOut}
	t.latch()
	t.recompute(d)
	return t
}

func (t *TakeDuration) latch() {
	t.channels = t.inner.Channels()
	t.rate = t.inner.SampleRate()
}

func (t *TakeDuration) recompute(d time.Duration) {
	raw := d.Seconds() * float64(t.rate) * float64(t.channels)
	total := uint64(math.Ceil(raw))
	t.raw = total
	t.total = uint64(sonora.CeilFrames(int(total), t.channels))
}

func (t *TakeDuration) Next() (sonora.Sample, bool) {
	if t.emitted >= t.total {
		return 0, false
	}

	if t.inner.CurrentSpanLen() == sonora.SpanUnknown &&
		(t.inner.Channels() != t.channels || t.inner.SampleRate() != t.rate) {
		t.latch()
	}

	s := sonora.EquilibriumSample
	if !t.exhausted && t.emitted < t.raw {
		if v, ok := t.inner.Next(); ok {
			s = v
		} else {
			t.exhausted = true
		}
	}

	if t.fadeOut && t.total > 0 {
		remaining := float32(t.total-t.emitted) / float32(t.total)
		s *= remaining
	}

	t.emitted++
	return s, true
}

func (t *TakeDuration) Channels() sonora.ChannelCount { return t.channels }
func (t *TakeDuration) SampleRate() sonora.SampleRate { return t.rate }

func (t *TakeDuration) CurrentSpanLen() int {
	remaining := int(t.total - t.emitted)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (t *TakeDuration) TotalDuration() (time.Duration, bool) {
	return time.Duration(float64(t.total) / float64(t.channels) / float64(t.rate) * float64(time.Second)), true
}

func (t *TakeDuration) TrySeek(pos time.Duration) error {
	if err := t.inner.TrySeek(pos); err != nil {
		return err
	}
	t.exhausted = false
	return nil
}

// SkipDuration consumes and discards samples representing d of audio from
// the current position, respecting span boundaries: the samples-per-second
// conversion is recomputed at every span boundary rather than once.
type SkipDuration struct {
	inner sonora.Source
}

// NewSkipDuration consumes d worth of samples from inner immediately and
// returns a source that yields whatever remains.
func NewSkipDuration(inner sonora.Source, d time.Duration) *SkipDuration {
	remaining := d
	for remaining > 0 {
		rate := inner.SampleRate()
		channels := inner.Channels()
		if rate <= 0 || channels <= 0 {
			break
		}
		spanLen := inner.CurrentSpanLen()
		var toSkip int
		wantFrames := int(remaining.Seconds() * float64(rate))
		wantSamples := wantFrames * int(channels)
		if spanLen == sonora.SpanUnknown || spanLen == 0 || wantSamples <= spanLen {
			toSkip = wantSamples
		} else {
			toSkip = spanLen
		}
		if toSkip <= 0 {
			break
		}
		skipped := 0
		for skipped < toSkip {
			if _, ok := inner.Next(); !ok {
				break
			}
			skipped++
		}
		consumedDuration := time.Duration(float64(skipped) / float64(channels) / float64(rate) * float64(time.Second))
		if consumedDuration <= 0 {
			break
		}
		remaining -= consumedDuration
		if skipped < toSkip {
			break // inner exhausted mid-skip
		}
	}
	return &SkipDuration{inner: inner}
}

func (s *SkipDuration) Next() (sonora.Sample, bool)         { return s.inner.Next() }
func (s *SkipDuration) Channels() sonora.ChannelCount       { return s.inner.Channels() }
func (s *SkipDuration) SampleRate() sonora.SampleRate       { return s.inner.SampleRate() }
func (s *SkipDuration) CurrentSpanLen() int                 { return s.inner.CurrentSpanLen() }
func (s *SkipDuration) TotalDuration() (time.Duration, bool) { return s.inner.TotalDuration() }
func (s *SkipDuration) TrySeek(pos time.Duration) error     { return s.inner.TrySeek(pos) }
