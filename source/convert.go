package source

import (
	"time"

	"github.com/zaynotley/sonora"
)

// ChannelCountConverter upmixes or downmixes a flat sample stream between
// channel counts. Upmixing from mono copies the sample into output channel 1
// and fills every further channel with equilibrium (other upmixes fill all
// added channels with equilibrium); downmixing keeps the leading channels and
// discards the trailing ones.
type ChannelCountConverter struct {
	inner sonora.Source
	from  sonora.ChannelCount
	to    sonora.ChannelCount

	sampleRepeat sonora.Sample
	outPos       int
}

// NewChannelCountConverter wraps inner, converting its channel count from
// `from` to `to`.
func NewChannelCountConverter(inner sonora.Source, from, to sonora.ChannelCount) *ChannelCountConverter {
	return &ChannelCountConverter{inner: inner, from: from, to: to}
}

func (c *ChannelCountConverter) Next() (sonora.Sample, bool) {
	if c.from == c.to {
		return c.inner.Next()
	}

	var result sonora.Sample
	var ok bool

	switch {
	case c.outPos == 0:
		result, ok = c.inner.Next()
		c.sampleRepeat = result
	case c.outPos < int(c.from):
		result, ok = c.inner.Next()
	case c.outPos == 1:
		result, ok = c.sampleRepeat, true
	default:
		result, ok = sonora.EquilibriumSample, true
	}

	if !ok {
		return 0, false
	}

	c.outPos++
	if c.outPos == int(c.to) {
		c.outPos = 0
		if c.from > c.to {
			for i := int(c.to); i < int(c.from); i++ {
				if _, more := c.inner.Next(); !more {
					break
				}
				_ = i
			}
		}
	}

	return result, true
}

func (c *ChannelCountConverter) Channels() sonora.ChannelCount { return c.to }
func (c *ChannelCountConverter) SampleRate() sonora.SampleRate { return c.inner.SampleRate() }

func (c *ChannelCountConverter) CurrentSpanLen() int {
	inner := c.inner.CurrentSpanLen()
	if inner == sonora.SpanUnknown {
		return sonora.SpanUnknown
	}
	if c.from == 0 {
		return inner
	}
	frames := inner / int(c.from)
	return frames * int(c.to)
}

func (c *ChannelCountConverter) TotalDuration() (time.Duration, bool) { return c.inner.TotalDuration() }
func (c *ChannelCountConverter) TrySeek(pos time.Duration) error      { return c.inner.TrySeek(pos) }

// InnerMut exposes the wrapped source.
func (c *ChannelCountConverter) InnerMut() sonora.Source { return c.inner }
