package source

import (
	"sync/atomic"
	"time"

	"github.com/zaynotley/sonora"
)

// Amplify multiplies each sample by a runtime-adjustable factor. Does not
// change any reported metadata.
type Amplify struct {
	inner  sonora.Source
	factor atomic.Uint32 // float32 bits, read/written via math.Float32bits
}

// NewAmplify wraps inner with a gain stage starting at factor.
func NewAmplify(inner sonora.Source, factor float32) *Amplify {
	a := &Amplify{inner: inner}
	a.SetFactor(factor)
	return a
}

// SetFactor changes the gain applied to every subsequent sample. Safe to
// call from a different goroutine than the one pulling samples — this is the
// single field the player's periodic-access callback latches each period.
func (a *Amplify) SetFactor(factor float32) {
	a.factor.Store(float32bits(factor))
}

// Factor returns the current gain.
func (a *Amplify) Factor() float32 {
	return float32frombits(a.factor.Load())
}

// Inner returns the wrapped source.
func (a *Amplify) Inner() sonora.Source { return a.inner }

// InnerMut returns the wrapped source for direct mutation by the control
// plane (mirrors rodio's `inner_mut()` used by Player::append's callback).
func (a *Amplify) InnerMut() sonora.Source { return a.inner }

func (a *Amplify) Next() (sonora.Sample, bool) {
	s, ok := a.inner.Next()
	if !ok {
		return 0, false
	}
	return s * a.Factor(), true
}

func (a *Amplify) Channels() sonora.ChannelCount       { return a.inner.Channels() }
func (a *Amplify) SampleRate() sonora.SampleRate       { return a.inner.SampleRate() }
func (a *Amplify) CurrentSpanLen() int                 { return a.inner.CurrentSpanLen() }
func (a *Amplify) TotalDuration() (time.Duration, bool) { return a.inner.TotalDuration() }
func (a *Amplify) TrySeek(pos time.Duration) error      { return a.inner.TrySeek(pos) }
