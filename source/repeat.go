package source

import (
	"time"

	"github.com/zaynotley/sonora"
)

// RepeatInfinite buffers the wrapped source's samples as they are first
// produced, grouped by declared span, then replays the buffered spans
// forever once the inner source is exhausted. Memory cost is proportional
// to the source's total length, so this combinator is only appropriate for
// short, boundedly-sized sources (sound effects, not streamed tracks).
type RepeatInfinite struct {
	spans   [][]sonora.Sample
	current []sonora.Sample

	spanIdx    int
	sampleIdx  int
	buffering  bool

	inner    sonora.Source
	channels sonora.ChannelCount
	rate     sonora.SampleRate
}

// NewRepeatInfinite wraps inner for infinite replay.
func NewRepeatInfinite(inner sonora.Source) *RepeatInfinite {
	return &RepeatInfinite{
		inner:     inner,
		buffering: true,
		channels:  inner.Channels(),
		rate:      inner.SampleRate(),
	}
}

func (r *RepeatInfinite) Next() (sonora.Sample, bool) {
	if r.buffering {
		s, ok := r.inner.Next()
		if !ok {
			r.buffering = false
			if len(r.current) > 0 {
				r.spans = append(r.spans, r.current)
				r.current = nil
			}
			if len(r.spans) == 0 {
				return 0, false
			}
			r.spanIdx = 0
			r.sampleIdx = 0
			return r.replayNext()
		}
		r.current = append(r.current, s)
		if spanLen := r.inner.CurrentSpanLen(); spanLen == 0 {
			r.spans = append(r.spans, r.current)
			r.current = nil
		}
		return s, true
	}
	return r.replayNext()
}

func (r *RepeatInfinite) replayNext() (sonora.Sample, bool) {
	if len(r.spans) == 0 {
		return 0, false
	}
	span := r.spans[r.spanIdx]
	if r.sampleIdx >= len(span) {
		r.spanIdx = (r.spanIdx + 1) % len(r.spans)
		r.sampleIdx = 0
		span = r.spans[r.spanIdx]
	}
	s := span[r.sampleIdx]
	r.sampleIdx++
	return s, true
}

func (r *RepeatInfinite) Channels() sonora.ChannelCount { return r.channels }
func (r *RepeatInfinite) SampleRate() sonora.SampleRate { return r.rate }

func (r *RepeatInfinite) CurrentSpanLen() int {
	if r.buffering {
		return sonora.SpanUnknown
	}
	if len(r.spans) == 0 {
		return 0
	}
	if n := len(r.spans[r.spanIdx]) - r.sampleIdx; n > 0 {
		return n
	}
	return len(r.spans[(r.spanIdx+1)%len(r.spans)])
}

func (r *RepeatInfinite) TotalDuration() (time.Duration, bool) { return 0, false }

func (r *RepeatInfinite) TrySeek(pos time.Duration) error {
	if pos != 0 {
		return sonora.NotSupportedError("RepeatInfinite")
	}
	r.spanIdx = 0
	r.sampleIdx = 0
	return nil
}
