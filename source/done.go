package source

import (
	"sync/atomic"
	"time"

	"github.com/zaynotley/sonora"
)

// Done wraps a source and decrements a shared counter exactly once, the
// first time the inner source reports exhaustion. The player package uses
// it, through onDone, to count how many of its sources are still in flight.
type Done struct {
	inner     sonora.Source
	counter   *atomic.Int64
	signaled  bool
	onDone    func()
}

// NewDone wraps inner, decrementing counter (if non-nil) and invoking onDone
// (if non-nil) the first time inner is exhausted.
func NewDone(inner sonora.Source, counter *atomic.Int64, onDone func()) *Done {
	return &Done{inner: inner, counter: counter, onDone: onDone}
}

func (d *Done) Next() (sonora.Sample, bool) {
	s, ok := d.inner.Next()
	if !ok && !d.signaled {
		d.signaled = true
		if d.counter != nil {
			d.counter.Add(-1)
		}
		if d.onDone != nil {
			d.onDone()
		}
	}
	return s, ok
}

func (d *Done) Channels() sonora.ChannelCount        { return d.inner.Channels() }
func (d *Done) SampleRate() sonora.SampleRate        { return d.inner.SampleRate() }
func (d *Done) CurrentSpanLen() int                  { return d.inner.CurrentSpanLen() }
func (d *Done) TotalDuration() (time.Duration, bool) { return d.inner.TotalDuration() }
func (d *Done) TrySeek(pos time.Duration) error      { return d.inner.TrySeek(pos) }
