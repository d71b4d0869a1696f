package source

import (
	"time"

	"github.com/zaynotley/sonora"
)

// PeriodicAccess invokes access on the wrapped source every period samples,
// giving the control plane a chance to mutate combinators further down the
// chain (volume, speed, pause, pending seeks) without locking the hot path.
// period is rounded up to the nearest multiple of the channel count so the
// callback always lands on a frame boundary.
type PeriodicAccess struct {
	inner    sonora.Source
	period   uint64
	since    uint64
	access   func(sonora.Source)
}

// NewPeriodicAccess wraps inner, calling access(inner) every period samples
// and once immediately on construction.
func NewPeriodicAccess(inner sonora.Source, period uint64, access func(sonora.Source)) *PeriodicAccess {
	channels := uint64(inner.Channels())
	if channels > 0 && period%channels != 0 {
		period += channels - period%channels
	}
	if period == 0 {
		period = channels
	}
	p := &PeriodicAccess{inner: inner, period: period, access: access}
	if access != nil {
		access(inner)
	}
	return p
}

func (p *PeriodicAccess) Next() (sonora.Sample, bool) {
	if p.since >= p.period {
		p.since = 0
		if p.access != nil {
			p.access(p.inner)
		}
	}
	s, ok := p.inner.Next()
	p.since++
	return s, ok
}

func (p *PeriodicAccess) Channels() sonora.ChannelCount        { return p.inner.Channels() }
func (p *PeriodicAccess) SampleRate() sonora.SampleRate        { return p.inner.SampleRate() }
func (p *PeriodicAccess) CurrentSpanLen() int                  { return p.inner.CurrentSpanLen() }
func (p *PeriodicAccess) TotalDuration() (time.Duration, bool) { return p.inner.TotalDuration() }
func (p *PeriodicAccess) TrySeek(pos time.Duration) error      { return p.inner.TrySeek(pos) }

// Inner exposes the wrapped source, letting callers reach further down the
// chain from outside the access callback too (e.g. tests).
func (p *PeriodicAccess) Inner() sonora.Source { return p.inner }
