// Package queue plays sources one after another in FIFO order, optionally
// filling the gap with silence instead of ending when it runs dry.
package queue

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zaynotley/sonora"
)

// Threshold is the span length reported for the silence filler, and the
// fallback span length when a source's own boundary can't be determined.
const Threshold = 512

// entry is one queued source plus the endpoint to notify on completion.
type entry struct {
	source sonora.Source
	done   chan<- struct{}
}

// Input is the producer side of a queue: Append/AppendWithSignal add
// sources to the end without touching the audio thread.
type Input struct {
	mu            sync.Mutex
	pending       []entry
	keepAliveFlag atomic.Bool
}

// NewInput creates a standalone queue input. Most callers obtain an Input
// bundled with an Output via New instead.
func NewInput(keepAliveIfEmpty bool) *Input {
	in := &Input{}
	in.keepAliveFlag.Store(keepAliveIfEmpty)
	return in
}

// Append adds src to the end of the queue.
func (in *Input) Append(src sonora.Source) {
	in.mu.Lock()
	in.pending = append(in.pending, entry{source: src})
	in.mu.Unlock()
}

// AppendWithSignal adds src to the end of the queue and returns a channel
// that is closed once src finishes playing (or is skipped). The channel is
// closed even if nothing ever receives from it.
func (in *Input) AppendWithSignal(src sonora.Source) <-chan struct{} {
	ch := make(chan struct{})
	in.mu.Lock()
	in.pending = append(in.pending, entry{source: src, done: ch})
	in.mu.Unlock()
	return ch
}

// SetKeepAliveIfEmpty changes whether the queue emits silence or terminates
// when it runs dry.
func (in *Input) SetKeepAliveIfEmpty(keepAlive bool) { in.keepAliveFlag.Store(keepAlive) }

// Clear removes every queued (not yet playing) source, closes their
// completion signals, and returns how many were removed.
func (in *Input) Clear() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := len(in.pending)
	for _, e := range in.pending {
		if e.done != nil {
			close(e.done)
		}
	}
	in.pending = nil
	return n
}

func (in *Input) hasNext() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.pending) > 0
}

func (in *Input) next() (entry, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.pending) == 0 {
		return entry{}, false
	}
	e := in.pending[0]
	in.pending = in.pending[1:]
	return e, true
}

func (in *Input) keepAliveIfEmpty() bool { return in.keepAliveFlag.Load() }

// Output is the consumer side: a Source that plays every queued entry in
// order, signalling completion endpoints as it goes.
type Output struct {
	current        sonora.Source
	signalAfterEnd chan<- struct{}
	input          sourceFeed
}

// sourceFeed is implemented by both Input and IDInput so Output can drive
// either queue flavor identically.
type sourceFeed interface {
	hasNext() bool
	next() (entry, bool)
	keepAliveIfEmpty() bool
}

// New builds a queue. If keepAliveIfEmpty is true, the output emits
// silence instead of ending when the queue runs dry.
func New(keepAliveIfEmpty bool) (*Input, *Output) {
	in := NewInput(keepAliveIfEmpty)
	out := &Output{current: emptySource{}, input: in}
	return in, out
}

func (o *Output) Next() (sonora.Sample, bool) {
	for {
		if s, ok := o.current.Next(); ok {
			return s, true
		}
		if !o.goNext() {
			return 0, false
		}
	}
}

func (o *Output) goNext() bool {
	if o.signalAfterEnd != nil {
		close(o.signalAfterEnd)
		o.signalAfterEnd = nil
	}

	e, ok := o.input.next()
	if !ok {
		if o.input.keepAliveIfEmpty() {
			o.current = newSilenceFiller(o.current.Channels(), o.current.SampleRate())
			return true
		}
		return false
	}

	o.current = e.source
	o.signalAfterEnd = e.done
	return true
}

func (o *Output) Channels() sonora.ChannelCount { return o.current.Channels() }
func (o *Output) SampleRate() sonora.SampleRate { return o.current.SampleRate() }

// CurrentSpanLen mirrors the queue's frame-boundary contract: the current
// source's own span length whenever it is non-zero (SpanUnknown included);
// once the current source has ended, Threshold, so downstream resamplers
// re-latch promptly.
func (o *Output) CurrentSpanLen() int {
	if val := o.current.CurrentSpanLen(); val != 0 {
		return val
	}
	if o.input.keepAliveIfEmpty() && o.input.hasNext() {
		return Threshold
	}
	return Threshold
}

func (o *Output) TotalDuration() (time.Duration, bool) { return 0, false }

func (o *Output) TrySeek(pos time.Duration) error {
	return sonora.NotSupportedError("queue.Output")
}

// emptySource is the initial current source before anything is appended.
type emptySource struct{}

func (emptySource) Next() (sonora.Sample, bool)         { return 0, false }
func (emptySource) Channels() sonora.ChannelCount       { return 1 }
func (emptySource) SampleRate() sonora.SampleRate       { return 44100 }
func (emptySource) CurrentSpanLen() int                 { return 0 }
func (emptySource) TotalDuration() (time.Duration, bool) { return 0, false }
func (emptySource) TrySeek(time.Duration) error         { return sonora.NotSupportedError("queue.emptySource") }

// silenceFiller emits exactly Threshold equilibrium samples, then ends,
// standing in for the gap between two queued sources when keep-alive is on.
type silenceFiller struct {
	channels   sonora.ChannelCount
	sampleRate sonora.SampleRate
	remaining  int
}

func newSilenceFiller(channels sonora.ChannelCount, rate sonora.SampleRate) *silenceFiller {
	return &silenceFiller{channels: channels, sampleRate: rate, remaining: Threshold}
}

func (s *silenceFiller) Next() (sonora.Sample, bool) {
	if s.remaining <= 0 {
		return 0, false
	}
	s.remaining--
	return sonora.EquilibriumSample, true
}

func (s *silenceFiller) Channels() sonora.ChannelCount        { return s.channels }
func (s *silenceFiller) SampleRate() sonora.SampleRate        { return s.sampleRate }
func (s *silenceFiller) CurrentSpanLen() int                  { return s.remaining }
func (s *silenceFiller) TotalDuration() (time.Duration, bool) { return 0, false }
func (s *silenceFiller) TrySeek(time.Duration) error {
	return sonora.NotSupportedError("queue.silenceFiller")
}
