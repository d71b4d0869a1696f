package source

import (
	"sync/atomic"
	"time"

	"github.com/zaynotley/sonora"
)

// Pausable emits equilibrium samples in place of the inner source's output
// while paused, without consuming from the inner source. Resuming picks up
// exactly where playback left off.
type Pausable struct {
	inner  sonora.Source
	paused atomic.Bool
}

// NewPausable wraps inner, initially playing.
func NewPausable(inner sonora.Source) *Pausable {
	return &Pausable{inner: inner}
}

// SetPaused sets the paused state. Safe to call concurrently with Next.
func (p *Pausable) SetPaused(paused bool) { p.paused.Store(paused) }

// IsPaused reports the current paused state.
func (p *Pausable) IsPaused() bool { return p.paused.Load() }

func (p *Pausable) Next() (sonora.Sample, bool) {
	if p.paused.Load() {
		return sonora.EquilibriumSample, true
	}
	return p.inner.Next()
}

func (p *Pausable) Channels() sonora.ChannelCount        { return p.inner.Channels() }
func (p *Pausable) SampleRate() sonora.SampleRate        { return p.inner.SampleRate() }
func (p *Pausable) CurrentSpanLen() int                  { return p.inner.CurrentSpanLen() }
func (p *Pausable) TotalDuration() (time.Duration, bool) { return p.inner.TotalDuration() }
func (p *Pausable) TrySeek(pos time.Duration) error      { return p.inner.TrySeek(pos) }

// Stoppable terminates the stream early once Stop is called, regardless of
// how much the inner source has left.
type Stoppable struct {
	inner   sonora.Source
	stopped atomic.Bool
}

// NewStoppable wraps inner.
func NewStoppable(inner sonora.Source) *Stoppable {
	return &Stoppable{inner: inner}
}

// Stop causes all subsequent Next calls to report exhaustion.
func (s *Stoppable) Stop() { s.stopped.Store(true) }

// IsStopped reports whether Stop has been called.
func (s *Stoppable) IsStopped() bool { return s.stopped.Load() }

func (s *Stoppable) Next() (sonora.Sample, bool) {
	if s.stopped.Load() {
		return 0, false
	}
	return s.inner.Next()
}

func (s *Stoppable) Channels() sonora.ChannelCount        { return s.inner.Channels() }
func (s *Stoppable) SampleRate() sonora.SampleRate        { return s.inner.SampleRate() }
func (s *Stoppable) CurrentSpanLen() int                  { return s.inner.CurrentSpanLen() }
func (s *Stoppable) TotalDuration() (time.Duration, bool) { return s.inner.TotalDuration() }
func (s *Stoppable) TrySeek(pos time.Duration) error      { return s.inner.TrySeek(pos) }

// Skippable discards the remainder of the current span (or the whole stream,
// when span boundaries are unknown) the next time Skip is called.
type Skippable struct {
	inner     sonora.Source
	skipNow   atomic.Bool
	skippedAll bool
}

// NewSkippable wraps inner.
func NewSkippable(inner sonora.Source) *Skippable {
	return &Skippable{inner: inner}
}

// Skip discards whatever is currently playing, starting at the next Next
// call.
func (s *Skippable) Skip() { s.skipNow.Store(true) }

func (s *Skippable) Next() (sonora.Sample, bool) {
	if s.skippedAll {
		return 0, false
	}
	if s.skipNow.Load() {
		s.skipNow.Store(false)
		spanLen := s.inner.CurrentSpanLen()
		if spanLen == sonora.SpanUnknown {
			// No way to know how much remains: drain entirely.
			for {
				if _, ok := s.inner.Next(); !ok {
					break
				}
			}
		} else {
			for i := 0; i < spanLen; i++ {
				if _, ok := s.inner.Next(); !ok {
					break
				}
			}
		}
	}
	return s.inner.Next()
}

func (s *Skippable) Channels() sonora.ChannelCount        { return s.inner.Channels() }
func (s *Skippable) SampleRate() sonora.SampleRate        { return s.inner.SampleRate() }
func (s *Skippable) CurrentSpanLen() int                  { return s.inner.CurrentSpanLen() }
func (s *Skippable) TotalDuration() (time.Duration, bool) { return s.inner.TotalDuration() }
func (s *Skippable) TrySeek(pos time.Duration) error      { return s.inner.TrySeek(pos) }
