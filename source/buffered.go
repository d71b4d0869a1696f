package source

import (
	"sync"
	"time"

	"github.com/zaynotley/sonora"
)

// bufferedFrame is one lazily-extracted chunk of a Buffered source's inner
// stream, plus a pointer to whatever comes after it. Frames are shared
// across every clone of a Buffered cursor so the inner source is only ever
// read once no matter how many independent replay cursors exist.
type bufferedFrame struct {
	data     []sonora.Sample
	channels sonora.ChannelCount
	rate     sonora.SampleRate
	end      bool

	mu   sync.Mutex
	next *bufferedFrame
	src  sonora.Source // nil once extracted
}

const bufferedFrameCap = 32768

func extractFrame(inner sonora.Source) *bufferedFrame {
	frameLen := inner.CurrentSpanLen()
	if frameLen == 0 {
		return &bufferedFrame{end: true}
	}

	channels := inner.Channels()
	rate := inner.SampleRate()

	cap := bufferedFrameCap
	if frameLen > 0 && frameLen < cap {
		cap = frameLen
	}
	data := make([]sonora.Sample, 0, cap)
	for len(data) < cap {
		s, ok := inner.Next()
		if !ok {
			break
		}
		data = append(data, s)
	}

	if len(data) == 0 {
		return &bufferedFrame{end: true}
	}

	return &bufferedFrame{
		data:     data,
		channels: channels,
		rate:     rate,
		next:     &bufferedFrame{src: inner},
	}
}

func (f *bufferedFrame) advance() *bufferedFrame {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.src != nil {
		// Copy field by field: assigning the whole struct would also
		// overwrite the mutex held here.
		e := extractFrame(f.src)
		f.data, f.channels, f.rate, f.end, f.next = e.data, e.channels, e.rate, e.end, e.next
		f.src = nil
	}
	return f
}

// Buffered wraps inner so that its output can be replayed any number of
// times via Clone (a clone starts at its parent's current position), while
// reading from inner at most once overall.
// Intended for short sources (sound effects, short clips) since the entire
// stream is buffered in memory as it is first consumed by any cursor.
type Buffered struct {
	frame    *bufferedFrame
	pos      int
	total    time.Duration
	hasTotal bool
}

// NewBuffered wraps inner for shared, replayable buffering.
func NewBuffered(inner sonora.Source) *Buffered {
	total, hasTotal := inner.TotalDuration()
	return &Buffered{
		frame:    extractFrame(inner),
		total:    total,
		hasTotal: hasTotal,
	}
}

// Clone returns an independent cursor over the same underlying buffer,
// starting from wherever this cursor currently is.
func (b *Buffered) Clone() *Buffered {
	return &Buffered{frame: b.frame, pos: b.pos, total: b.total, hasTotal: b.hasTotal}
}

func (b *Buffered) currentFrame() *bufferedFrame {
	if b.frame.src != nil {
		b.frame = b.frame.advance()
	}
	return b.frame
}

func (b *Buffered) Next() (sonora.Sample, bool) {
	f := b.currentFrame()
	if f.end {
		return 0, false
	}
	s := f.data[b.pos]
	b.pos++
	if b.pos >= len(f.data) {
		b.frame = f.next
		b.pos = 0
	}
	return s, true
}

func (b *Buffered) Channels() sonora.ChannelCount {
	f := b.currentFrame()
	if f.end {
		return 1
	}
	return f.channels
}

func (b *Buffered) SampleRate() sonora.SampleRate {
	f := b.currentFrame()
	if f.end {
		return 44100
	}
	return f.rate
}

func (b *Buffered) CurrentSpanLen() int {
	f := b.currentFrame()
	if f.end {
		return 0
	}
	return len(f.data) - b.pos
}

func (b *Buffered) TotalDuration() (time.Duration, bool) { return b.total, b.hasTotal }

func (b *Buffered) TrySeek(pos time.Duration) error {
	return sonora.NotSupportedError("Buffered")
}
