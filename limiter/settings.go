// Package limiter implements a feedforward soft-knee peak limiter, based on
// Giannoulis, Massberg & Reiss, "Digital Dynamic Range Compressor Design, A
// Tutorial and Analysis" (JAES 60, 2012). It prevents peaks from exceeding a
// configured threshold while keeping stereo (and wider) imaging intact by
// coupling gain reduction across channels.
package limiter

import (
	"math"
	"time"
)

// Settings configures a Limiter: when it starts acting (Threshold), how
// gradually (KneeWidth), and how quickly it reacts and recovers (Attack,
// Release).
type Settings struct {
	// Threshold is the level, in dBFS, where limiting begins. Must be
	// negative: 0 dBFS is full scale, so a positive threshold can never
	// prevent clipping.
	Threshold float32
	// KneeWidth is the range in dB over which limiting gradually ramps in
	// around Threshold. 0 is a hard knee; larger values sound more
	// transparent at the cost of a less decisive ceiling.
	KneeWidth float32
	Attack    time.Duration
	Release   time.Duration
}

// DefaultSettings returns general-purpose limiting: -1 dBFS, 4 dB knee,
// 5ms attack, 100ms release.
func DefaultSettings() Settings {
	return Settings{
		Threshold: -1.0,
		KneeWidth: 4.0,
		Attack:    5 * time.Millisecond,
		Release:   100 * time.Millisecond,
	}
}

// DynamicContent favors transparency for music and sound effects with
// occasional loud peaks: -3 dBFS threshold, wide 6 dB knee.
func DynamicContent() Settings {
	s := DefaultSettings()
	s.Threshold = -3.0
	s.KneeWidth = 6.0
	return s
}

// Broadcast favors consistent loudness for streaming and voice chat:
// narrower knee, faster attack and release than the default.
func Broadcast() Settings {
	s := DefaultSettings()
	s.KneeWidth = 2.0
	s.Attack = 3 * time.Millisecond
	s.Release = 50 * time.Millisecond
	return s
}

// Mastering favors tight peak control for final production: -0.5 dBFS,
// narrow 1 dB knee, 1ms attack, 200ms release.
func Mastering() Settings {
	return Settings{
		Threshold: -0.5,
		KneeWidth: 1.0,
		Attack:    1 * time.Millisecond,
		Release:   200 * time.Millisecond,
	}
}

// LivePerformance favors fast protection for real-time applications:
// -2 dBFS, 3 dB knee, 0.5ms attack, 30ms release.
func LivePerformance() Settings {
	return Settings{
		Threshold: -2.0,
		KneeWidth: 3.0,
		Attack:    500 * time.Microsecond,
		Release:   30 * time.Millisecond,
	}
}

// Gaming favors responsive dynamics for interactive audio: -3 dBFS, 3 dB
// knee, 2ms attack, 75ms release.
func Gaming() Settings {
	return Settings{
		Threshold: -3.0,
		KneeWidth: 3.0,
		Attack:    2 * time.Millisecond,
		Release:   75 * time.Millisecond,
	}
}

// WithThreshold returns a copy of s with Threshold set.
func (s Settings) WithThreshold(threshold float32) Settings { s.Threshold = threshold; return s }

// WithKneeWidth returns a copy of s with KneeWidth set.
func (s Settings) WithKneeWidth(kneeWidth float32) Settings { s.KneeWidth = kneeWidth; return s }

// WithAttack returns a copy of s with Attack set.
func (s Settings) WithAttack(attack time.Duration) Settings { s.Attack = attack; return s }

// WithRelease returns a copy of s with Release set.
func (s Settings) WithRelease(release time.Duration) Settings { s.Release = release; return s }

func durationToCoefficient(d time.Duration, sampleRate int) float32 {
	if d <= 0 || sampleRate <= 0 {
		return 0
	}
	secs := d.Seconds()
	return float32(math.Exp(-1.0 / (secs * float64(sampleRate))))
}
