package source

import (
	"time"

	"github.com/zaynotley/sonora"
)

// SamplesBuffer treats an in-memory slice of samples as a finite, seekable
// Source. Useful for test fixtures and for any already-decoded clip that
// needs replaying without re-running a decoder.
type SamplesBuffer struct {
	data     []sonora.Sample
	pos      int
	channels sonora.ChannelCount
	rate     sonora.SampleRate
	duration time.Duration
}

// NewSamplesBuffer builds a buffer source over data, interpreted as
// interleaved frames at channels/rate.
func NewSamplesBuffer(channels sonora.ChannelCount, rate sonora.SampleRate, data []sonora.Sample) *SamplesBuffer {
	var duration time.Duration
	if rate > 0 && channels > 0 {
		duration = time.Duration(float64(len(data)) / float64(channels) / float64(rate) * float64(time.Second))
	}
	return &SamplesBuffer{data: data, channels: channels, rate: rate, duration: duration}
}

func (b *SamplesBuffer) Next() (sonora.Sample, bool) {
	if b.pos >= len(b.data) {
		return 0, false
	}
	s := b.data[b.pos]
	b.pos++
	return s, true
}

func (b *SamplesBuffer) Channels() sonora.ChannelCount { return b.channels }
func (b *SamplesBuffer) SampleRate() sonora.SampleRate { return b.rate }

func (b *SamplesBuffer) CurrentSpanLen() int {
	if b.pos >= len(b.data) {
		return 0
	}
	return len(b.data) - b.pos
}

func (b *SamplesBuffer) TotalDuration() (time.Duration, bool) { return b.duration, true }

// TrySeek jumps directly to the sample for pos, since every sample already
// lives in memory. The target is clamped to the end of the buffer, rounded
// up to a whole frame, then moved back by the cursor's current channel offset.
func (b *SamplesBuffer) TrySeek(pos time.Duration) error {
	if b.channels <= 0 || b.rate <= 0 {
		return nil
	}
	currentChannel := b.pos % int(b.channels)
	newPos := int(pos.Seconds() * float64(b.rate) * float64(b.channels))
	if newPos > len(b.data) {
		newPos = len(b.data)
	}
	newPos = sonora.CeilFrames(newPos, b.channels) - currentChannel
	if newPos < 0 {
		newPos = 0
	}
	b.pos = newPos
	return nil
}
