package decoder

import (
	"time"

	"github.com/zaynotley/sonora"
)

// Decoder is a sonora.Source decoding one of the supported container/codec
// combinations, selected by Builder's fixed probing order.
type Decoder struct {
	impl sonoraDecoder
}

// New probes data with default settings and returns a Decoder.
func New(data ReadSeeker) (*Decoder, error) {
	return NewBuilder().WithData(data).Build()
}

func (d *Decoder) Next() (sonora.Sample, bool) { return d.impl.next() }

func (d *Decoder) Channels() sonora.ChannelCount { return sonora.ChannelCount(d.impl.channels()) }

func (d *Decoder) SampleRate() sonora.SampleRate { return sonora.SampleRate(d.impl.sampleRate()) }

func (d *Decoder) CurrentSpanLen() int { return d.impl.currentSpanLen() }

func (d *Decoder) TotalDuration() (time.Duration, bool) {
	nanos, ok := d.impl.totalDuration()
	if !ok {
		return 0, false
	}
	return time.Duration(nanos), true
}

func (d *Decoder) TrySeek(pos time.Duration) error {
	return d.impl.trySeek(int64(pos))
}

// LoopedDecoder wraps a Decoder so it rewinds to the start on end-of-stream
// instead of exhausting, caching the first pass's total duration (see
// LoopDuration). A decoder rebuilt for a later loop is not given the cached
// value; it derives its own duration again.
type LoopedDecoder struct {
	impl     sonoraDecoder
	rewind   ReadSeeker
	settings Settings

	cachedDurationNanos int64
	haveCachedDuration  bool
}

// NewLooped probes data with default settings and returns a LoopedDecoder.
func NewLooped(data ReadSeeker) (*LoopedDecoder, error) {
	return NewBuilder().WithData(data).BuildLooped()
}

func (l *LoopedDecoder) Next() (sonora.Sample, bool) {
	s, ok := l.impl.next()
	if ok {
		return s, true
	}

	if !l.haveCachedDuration {
		if nanos, ok := l.impl.totalDuration(); ok {
			l.cachedDurationNanos = nanos
			l.haveCachedDuration = true
		}
	}

	// Gapless + seekable: fast rewind via try_seek(0). Otherwise recreate
	// the decoder from a rewound stream.
	if l.settings.Gapless && l.settings.Seekable {
		if err := l.impl.trySeek(0); err == nil {
			return l.impl.next()
		}
	}

	if _, err := l.rewind.Seek(0, 0); err != nil {
		return 0, false
	}
	b := &Builder{data: l.rewind, settings: l.settings}
	fresh, err := b.Build()
	if err != nil {
		return 0, false
	}
	l.impl = fresh.impl
	return l.impl.next()
}

func (l *LoopedDecoder) Channels() sonora.ChannelCount { return sonora.ChannelCount(l.impl.channels()) }

func (l *LoopedDecoder) SampleRate() sonora.SampleRate { return sonora.SampleRate(l.impl.sampleRate()) }

func (l *LoopedDecoder) CurrentSpanLen() int { return l.impl.currentSpanLen() }

// TotalDuration is always unknown: the stream never ends.
func (l *LoopedDecoder) TotalDuration() (time.Duration, bool) { return 0, false }

// LoopDuration returns the length of a single pass through the underlying
// stream, cached from whichever loop iteration first exposed it (most
// containers only report their own duration once they've parsed far enough
// to know it). Returns false until a loop boundary has been crossed at
// least once.
func (l *LoopedDecoder) LoopDuration() (time.Duration, bool) {
	if !l.haveCachedDuration {
		return 0, false
	}
	return time.Duration(l.cachedDurationNanos), true
}

func (l *LoopedDecoder) TrySeek(pos time.Duration) error { return l.impl.trySeek(int64(pos)) }
