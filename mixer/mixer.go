// Package mixer sums any number of sources, added at runtime, into one
// fixed-format stream. Sources are converted to the mixer's channel count
// and sample rate on arrival and appended only at a frame-aligned boundary,
// so stereo imaging survives a source joining mid-frame.
package mixer

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/resample"
	"github.com/zaynotley/sonora/source"
)

// Input is the producer-side handle: Add pushes a new source onto the
// mixer without blocking the audio thread.
type Input struct {
	shared *shared
}

type shared struct {
	hasPending     atomic.Bool
	pendingMu      sync.Mutex
	pendingSources []sonora.Source
	channels       sonora.ChannelCount
	sampleRate     sonora.SampleRate
	makeResampler  source.ResamplerFactory
}

// New builds a mixer fixed at channels/sampleRate. Every source added via
// the returned Input is converted to this format before mixing. With no
// sources, the Output behaves as an already-exhausted source — append a
// source promptly, or keep a silent placeholder alive, to avoid being
// dropped by an enclosing combinator that treats exhaustion as end-of-life.
func New(channels sonora.ChannelCount, sampleRate sonora.SampleRate) (Input, *Output) {
	s := &shared{
		channels:      channels,
		sampleRate:    sampleRate,
		makeResampler: defaultResamplerFactory,
	}
	return Input{shared: s}, &Output{
		shared:         s,
		currentSources: make([]sonora.Source, 0, 16),
	}
}

func defaultResamplerFactory(inner sonora.Source, from, to sonora.SampleRate, channels sonora.ChannelCount) source.Resampler {
	return resample.New(inner, to, resample.DefaultPolynomial())
}

// Add converts src to the mixer's channel count and sample rate and queues
// it to join the mix at the next frame-aligned opportunity.
func (in Input) Add(src sonora.Source) {
	uniform := source.NewUniformSourceIterator(src, in.shared.channels, in.shared.sampleRate, in.shared.makeResampler)
	in.shared.pendingMu.Lock()
	in.shared.pendingSources = append(in.shared.pendingSources, uniform)
	in.shared.pendingMu.Unlock()
	in.shared.hasPending.Store(true)
}

// Output is the consumer side: a Source that sums every active input.
type Output struct {
	shared         *shared
	currentSources []sonora.Source
	sampleCount    uint64

	stillPending []sonora.Source
	stillCurrent []sonora.Source
}

func (o *Output) Next() (sonora.Sample, bool) {
	if o.shared.hasPending.Load() {
		o.startPendingSources()
	}

	o.sampleCount++

	sum, anyActive := o.sumCurrentSources()
	if !anyActive {
		return 0, false
	}
	return sum, true
}

// startPendingSources admits pending sources whose channel count divides
// evenly into sample_count, so a stereo source always starts on what will
// become its left channel.
func (o *Output) startPendingSources() {
	o.shared.pendingMu.Lock()
	pending := o.shared.pendingSources
	o.shared.pendingSources = nil
	o.shared.pendingMu.Unlock()

	o.stillPending = o.stillPending[:0]
	for _, src := range pending {
		if o.sampleCount%uint64(src.Channels()) == 0 {
			o.currentSources = append(o.currentSources, src)
		} else {
			o.stillPending = append(o.stillPending, src)
		}
	}

	if len(o.stillPending) > 0 {
		o.shared.pendingMu.Lock()
		o.shared.pendingSources = append(o.stillPending, o.shared.pendingSources...)
		o.shared.pendingMu.Unlock()
		o.shared.hasPending.Store(true)
	} else {
		o.shared.hasPending.Store(false)
	}
}

func (o *Output) sumCurrentSources() (sonora.Sample, bool) {
	var sum sonora.Sample
	o.stillCurrent = o.stillCurrent[:0]
	for _, src := range o.currentSources {
		if v, ok := src.Next(); ok {
			sum += v
			o.stillCurrent = append(o.stillCurrent, src)
		}
	}
	o.currentSources, o.stillCurrent = o.stillCurrent, o.currentSources[:0]
	return sum, len(o.currentSources) > 0
}

func (o *Output) Channels() sonora.ChannelCount        { return o.shared.channels }
func (o *Output) SampleRate() sonora.SampleRate        { return o.shared.sampleRate }
func (o *Output) CurrentSpanLen() int                  { return sonora.SpanUnknown }
func (o *Output) TotalDuration() (time.Duration, bool) { return 0, false }

func (o *Output) TrySeek(pos time.Duration) error {
	return sonora.NotSupportedError("mixer.Output")
}
