package device

import (
	"time"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/dither"
)

// DitherSetting configures whether samples are dithered before quantization
// to a fixed-point SampleFormat. It has no effect for the floating-point
// formats, which never quantize.
type DitherSetting struct {
	Enabled   bool
	Algorithm dither.Algorithm
	Seed      uint64
}

// BufferSize is the OS buffer size, expressed either as a fixed frame count
// or as a duration converted to frames at the chosen sample rate.
type BufferSize struct {
	frames   uint32
	duration time.Duration // zero means frames is authoritative
}

// FrameCount sizes the buffer to an exact number of frames.
func FrameCount(n uint32) BufferSize { return BufferSize{frames: n} }

// Duration sizes the buffer to hold d worth of audio at the eventual
// sample rate.
func Duration(d time.Duration) BufferSize { return BufferSize{duration: d} }

// DefaultBufferSize holds 50ms of audio, the same default the teacher's oto
// backend aims for with its small pre-allocated buffer.
func DefaultBufferSize() BufferSize { return Duration(50 * time.Millisecond) }

func (b BufferSize) frameCount(rate sonora.SampleRate) uint32 {
	if b.duration == 0 {
		return b.frames
	}
	return uint32(b.duration.Seconds() * float64(rate))
}

// Config describes the output stream: channel count, sample rate, buffer
// size and the device's native sample format.
type Config struct {
	ChannelCount sonora.ChannelCount
	SampleRate   sonora.SampleRate
	BufferSize   BufferSize
	SampleFormat SampleFormat
	Dither       DitherSetting
}

// DefaultConfig is stereo 44.1kHz float32 with a 50ms buffer and no dither
// (float32 never quantizes, so there is nothing to dither by default).
func DefaultConfig() Config {
	return Config{
		ChannelCount: 2,
		SampleRate:   44100,
		BufferSize:   DefaultBufferSize(),
		SampleFormat: FormatF32,
	}
}

// bufferFrames resolves BufferSize against this config's sample rate.
func (c Config) bufferFrames() uint32 { return c.BufferSize.frameCount(c.SampleRate) }

// Preference is one entry in a fallback list: the caller's first choice,
// second choice, and so on, tried in order against what the device
// actually reports supporting.
type Preference[T any] []T

// resolve returns the first preferred value the supported predicate
// accepts, or the fallback if none match — mirroring the builder's
// "preference list falls back to the default on no match" contract.
func resolve[T comparable](prefs Preference[T], fallback T, supported func(T) bool) T {
	for _, p := range prefs {
		if supported(p) {
			return p
		}
	}
	return fallback
}
