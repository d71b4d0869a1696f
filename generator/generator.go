// Package generator produces deterministic periodic test waveforms and
// noise sources, monoaural and in [-1.0, 1.0], for synthesis and test use.
package generator

import (
	"math"
	"time"

	"github.com/zaynotley/sonora"
)

// Function computes a waveform's level at a normalized phase in [0, 1).
type Function func(phase float32) float32

func sineFunc(phase float32) float32 {
	return float32(math.Sin(2 * math.Pi * float64(phase)))
}

func triangleFunc(phase float32) float32 {
	return 4*float32(math.Abs(float64(phase-float32(math.Floor(float64(phase)+0.5))))) - 1
}

func squareFunc(phase float32) float32 {
	if mod1(phase) < 0.5 {
		return 1
	}
	return -1
}

func sawtoothFunc(phase float32) float32 {
	return 2 * (phase - float32(math.Floor(float64(phase)+0.5)))
}

func mod1(x float32) float32 {
	m := float32(math.Mod(float64(x), 1.0))
	if m < 0 {
		m++
	}
	return m
}

// Signal is an infinite, monoaural source driven by a Function evaluated at
// a phase that advances by frequency/sampleRate each sample.
type Signal struct {
	sampleRate sonora.SampleRate
	fn         Function
	phase      float32
	phaseStep  float32
	period     float32
}

// NewSignal builds a generator at frequency Hz using fn, sampled at rate.
// Panics if frequency is not positive, matching the teacher's generator
// preconditions for every oscillator.
func NewSignal(rate sonora.SampleRate, frequency float32, fn Function) *Signal {
	if frequency <= 0 {
		panic("generator: frequency must be greater than zero")
	}
	period := float32(rate) / frequency
	return &Signal{sampleRate: rate, fn: fn, phaseStep: 1.0 / period, period: period}
}

// Sine builds a sine wave generator at frequency Hz.
func Sine(rate sonora.SampleRate, frequency float32) *Signal {
	return NewSignal(rate, frequency, sineFunc)
}

// Triangle builds a triangle wave generator at frequency Hz.
func Triangle(rate sonora.SampleRate, frequency float32) *Signal {
	return NewSignal(rate, frequency, triangleFunc)
}

// Square builds a square wave generator (50% duty, rising edge at phase 0)
// at frequency Hz.
func Square(rate sonora.SampleRate, frequency float32) *Signal {
	return NewSignal(rate, frequency, squareFunc)
}

// Sawtooth builds a rising sawtooth generator at frequency Hz.
func Sawtooth(rate sonora.SampleRate, frequency float32) *Signal {
	return NewSignal(rate, frequency, sawtoothFunc)
}

func (s *Signal) Next() (sonora.Sample, bool) {
	v := s.fn(s.phase)
	s.phase = mod1(s.phase + s.phaseStep)
	return v, true
}

func (s *Signal) Channels() sonora.ChannelCount { return 1 }
func (s *Signal) SampleRate() sonora.SampleRate { return s.sampleRate }
func (s *Signal) CurrentSpanLen() int           { return sonora.SpanUnknown }

func (s *Signal) TotalDuration() (time.Duration, bool) { return 0, false }

func (s *Signal) TrySeek(pos time.Duration) error {
	seek := float32(pos.Seconds()) * float32(s.sampleRate) / s.period
	s.phase = mod1(seek)
	return nil
}
