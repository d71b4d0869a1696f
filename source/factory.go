package source

import (
	"time"

	"github.com/zaynotley/sonora"
)

// fromFactoryFrameThreshold is reported as the span length when the current
// source can't tell us its own (unknown or ended), so downstream combinators that need a
// frame boundary (mixer append, channel conversion) still get one.
const fromFactoryFrameThreshold = 10240

// FromFactory chains sources produced by a factory function: whenever the
// current source is exhausted, factory is called again to produce the next
// one. Playback ends when factory returns ok=false.
type FromFactory struct {
	factory func() (sonora.Source, bool)
	current sonora.Source
	done    bool
}

// NewFromFactory builds a chained source from factory, calling it once
// immediately to obtain the first source. Panics if factory returns nothing
// on the very first call, mirroring the "must produce at least one source"
// contract.
func NewFromFactory(factory func() (sonora.Source, bool)) *FromFactory {
	first, ok := factory()
	if !ok {
		panic("source: FromFactory factory returned no source on first call")
	}
	return &FromFactory{factory: factory, current: first}
}

func (f *FromFactory) Next() (sonora.Sample, bool) {
	for {
		if f.done {
			return 0, false
		}
		if s, ok := f.current.Next(); ok {
			return s, true
		}
		next, ok := f.factory()
		if !ok {
			f.done = true
			return 0, false
		}
		f.current = next
	}
}

func (f *FromFactory) Channels() sonora.ChannelCount { return f.current.Channels() }
func (f *FromFactory) SampleRate() sonora.SampleRate { return f.current.SampleRate() }

func (f *FromFactory) CurrentSpanLen() int {
	if val := f.current.CurrentSpanLen(); val != 0 && val != sonora.SpanUnknown {
		return val
	}
	return fromFactoryFrameThreshold
}

func (f *FromFactory) TotalDuration() (time.Duration, bool) { return 0, false }

func (f *FromFactory) TrySeek(pos time.Duration) error {
	return sonora.NotSupportedError("FromFactory")
}
