package limiter

import (
	"math"
	"time"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/internal/dsp"
)

// base holds the parameters and the per-channel envelope logic shared by
// every channel of a Limiter.
type base struct {
	threshold float32
	kneeWidth float32
	invKnee8  float32
	attack    float32
	release   float32
}

func newBase(threshold, kneeWidth, attack, release float32) base {
	return base{
		threshold: threshold,
		kneeWidth: kneeWidth,
		invKnee8:  1.0 / (8.0 * kneeWidth),
		attack:    attack,
		release:   release,
	}
}

// gainReductionDB computes the soft-knee gain reduction, in dB, for one
// sample, whose magnitude is converted to dB and taken relative to threshold.
// Below threshold-knee/2 no compression applies; within the knee region the
// transition is quadratic; above threshold+knee/2 it is linear (1:1 minus
// the bias, i.e. a hard ceiling at threshold).
func gainReductionDB(sample sonora.Sample, threshold, kneeWidth, invKnee8 float32) float32 {
	magnitude := sample
	if magnitude < 0 {
		magnitude = -magnitude
	}
	biasDB := dsp.LinearToDB(magnitude+math.SmallestNonzeroFloat32) - threshold
	kneeBoundaryDB := biasDB * 2.0

	switch {
	case kneeBoundaryDB < -kneeWidth:
		return 0.0
	case float32(math.Abs(float64(kneeBoundaryDB))) <= kneeWidth:
		x := kneeBoundaryDB + kneeWidth
		return x * x * invKnee8
	default:
		return biasDB
	}
}

// processChannel updates one channel's envelope-detector state (a decoupled
// peak detector followed by an attack-smoothed follower) given one sample.
// Gain is not applied here so callers can couple gain reduction across
// channels before applying it.
func (b base) processChannel(sample sonora.Sample, integrator, peak *float32) {
	limiterDB := gainReductionDB(sample, b.threshold, b.kneeWidth, b.invKnee8)

	*integrator = dsp.MaxF32(limiterDB, b.release**integrator+(1.0-b.release)*limiterDB)
	*peak = b.attack**peak + (1.0-b.attack)**integrator
}

// Limiter wraps a source, applying peak limiting with per-channel envelope
// state held in slices sized once at construction. Mono and stereo use the
// same slice-based path as wider layouts; there are no separate variants.
type Limiter struct {
	inner sonora.Source
	base  base

	channels    sonora.ChannelCount
	integrators []float32
	peaks       []float32
	position    int
}

// New wraps inner with a limiter configured by settings. The channel count
// is latched from inner at construction; if inner changes channel count
// mid-stream the limiter keeps functioning but its per-channel state no
// longer lines up with the new layout (recreate the limiter in that case).
func New(inner sonora.Source, settings Settings) *Limiter {
	channels := inner.Channels()
	n := int(channels)
	if n < 1 {
		n = 1
	}
	attack := durationToCoefficient(settings.Attack, int(inner.SampleRate()))
	release := durationToCoefficient(settings.Release, int(inner.SampleRate()))

	return &Limiter{
		inner:       inner,
		base:        newBase(settings.Threshold, settings.KneeWidth, attack, release),
		channels:    channels,
		integrators: make([]float32, n),
		peaks:       make([]float32, n),
	}
}

func (l *Limiter) Next() (sonora.Sample, bool) {
	sample, ok := l.inner.Next()
	if !ok {
		return 0, false
	}

	n := len(l.integrators)
	channel := l.position
	l.position = (l.position + 1) % n

	l.base.processChannel(sample, &l.integrators[channel], &l.peaks[channel])

	maxPeak := l.peaks[0]
	for _, p := range l.peaks[1:] {
		maxPeak = dsp.MaxF32(maxPeak, p)
	}

	return sample * dsp.DBToLinear(-maxPeak), true
}

func (l *Limiter) Channels() sonora.ChannelCount        { return l.inner.Channels() }
func (l *Limiter) SampleRate() sonora.SampleRate        { return l.inner.SampleRate() }
func (l *Limiter) CurrentSpanLen() int                  { return l.inner.CurrentSpanLen() }
func (l *Limiter) TotalDuration() (time.Duration, bool) { return l.inner.TotalDuration() }

// TrySeek forwards the seek and resets envelope state so a jump doesn't
// leave stale gain reduction artifacts from the old position.
func (l *Limiter) TrySeek(pos time.Duration) error {
	if err := l.inner.TrySeek(pos); err != nil {
		return err
	}
	for i := range l.integrators {
		l.integrators[i] = 0
		l.peaks[i] = 0
	}
	l.position = 0
	return nil
}

// Inner returns the wrapped source.
func (l *Limiter) Inner() sonora.Source { return l.inner }
