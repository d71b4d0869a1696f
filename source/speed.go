package source

import (
	"sync/atomic"
	"time"

	"github.com/zaynotley/sonora"
)

// Speed scales the effective sample rate reported downstream by a runtime-
// adjustable factor. It does not resample — it changes the rate at which
// upstream samples are consumed by whatever follows (typically a Resample
// combinator further down the chain), which is what makes playback speed up
// or slow down (and pitch shift with it).
type Speed struct {
	inner  sonora.Source
	factor atomic.Uint32
}

// NewSpeed wraps inner, reporting its sample rate scaled by factor.
func NewSpeed(inner sonora.Source, factor float32) *Speed {
	s := &Speed{inner: inner}
	s.SetFactor(factor)
	return s
}

func (s *Speed) SetFactor(factor float32) { s.factor.Store(float32bits(factor)) }
func (s *Speed) Factor() float32          { return float32frombits(s.factor.Load()) }

func (s *Speed) Inner() sonora.Source    { return s.inner }
func (s *Speed) InnerMut() sonora.Source { return s.inner }

func (s *Speed) Next() (sonora.Sample, bool) { return s.inner.Next() }

func (s *Speed) Channels() sonora.ChannelCount { return s.inner.Channels() }

func (s *Speed) SampleRate() sonora.SampleRate {
	rate := float32(s.inner.SampleRate()) * s.Factor()
	if rate < 1 {
		rate = 1
	}
	return sonora.SampleRate(rate)
}

func (s *Speed) CurrentSpanLen() int { return s.inner.CurrentSpanLen() }

func (s *Speed) TotalDuration() (time.Duration, bool) {
	d, ok := s.inner.TotalDuration()
	if !ok {
		return 0, false
	}
	factor := s.Factor()
	if factor <= 0 {
		return 0, false
	}
	return time.Duration(float64(d) / float64(factor)), true
}

func (s *Speed) TrySeek(pos time.Duration) error {
	factor := s.Factor()
	return s.inner.TrySeek(time.Duration(float64(pos) * float64(factor)))
}
