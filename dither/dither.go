// Package dither adds quantization dither noise to a source ahead of
// conversion to a lower bit depth, trading a small noise floor for removal
// of quantization distortion.
package dither

import (
	"math/rand"
	"time"

	"github.com/zaynotley/sonora"
)

// Algorithm selects the probability density function of the dither noise.
type Algorithm int

const (
	// TPDF (triangular PDF) is the default: it fully decorrelates
	// quantization error from the signal and is the standard choice for
	// general-purpose audio dithering.
	TPDF Algorithm = iota
	// RPDF (rectangular PDF) uses uniform noise spanning ±1 LSB; simpler
	// than TPDF, with twice TPDF's noise power at these amplitudes, and it
	// leaves some signal/error correlation at low levels.
	RPDF
	// GPDF (Gaussian PDF) uses normally-distributed noise with a standard
	// deviation of 1/3 LSB, closer to the dither naturally present in analog
	// circuits; its noise power is below TPDF's, but it is unbounded.
	GPDF
	// HighPass pushes dither energy toward high frequencies (differentiated
	// white noise), reducing audible low-frequency modulation artifacts.
	HighPass
)

// noiseSource yields successive dither noise samples in roughly [-1, 1]
// before LSB scaling.
type noiseSource interface {
	sample() float32
}

type uniformNoise struct{ rng *rand.Rand }

func (u *uniformNoise) sample() float32 { return u.rng.Float32()*2 - 1 }

// triangularNoise sums two independent uniform samples, the standard
// construction for TPDF dither.
type triangularNoise struct{ rng *rand.Rand }

func (t *triangularNoise) sample() float32 {
	a := t.rng.Float32() - 0.5
	b := t.rng.Float32() - 0.5
	return a + b
}

type gaussianNoise struct{ rng *rand.Rand }

func (g *gaussianNoise) sample() float32 {
	return float32(g.rng.NormFloat64()) / 3
}

// highPassNoise differentiates consecutive uniform samples, shaping the
// noise floor toward higher frequencies where it is less audible.
type highPassNoise struct {
	rng  *rand.Rand
	prev float32
}

func (h *highPassNoise) sample() float32 {
	cur := h.rng.Float32()*2 - 1
	out := cur - h.prev
	h.prev = cur
	return out / 2
}

func newNoise(algo Algorithm, seed uint64) noiseSource {
	rng := rand.New(rand.NewSource(int64(seed)))
	switch algo {
	case RPDF:
		return &uniformNoise{rng: rng}
	case GPDF:
		return &gaussianNoise{rng: rng}
	case HighPass:
		return &highPassNoise{rng: rng}
	default:
		return &triangularNoise{rng: rng}
	}
}

// Dither wraps a source, adding noise scaled to the target bit depth's
// least-significant-bit amplitude on every sample.
type Dither struct {
	input        sonora.Source
	noise        noiseSource
	targetBits   int
	lsbAmplitude float32
}

// New wraps input with dither noise of the given algorithm, sized for a
// later requantization to targetBits. Apply this before any subsequent
// volume change so the signal and its dither noise continue to scale
// together. seed makes the noise sequence reproducible; pass a fresh value
// per call site that needs independent noise.
func New(input sonora.Source, targetBits int, algo Algorithm, seed uint64) *Dither {
	lsb := float32(1.0 / float64(int64(1)<<(targetBits-1)))
	return &Dither{
		input:        input,
		noise:        newNoise(algo, seed),
		targetBits:   targetBits,
		lsbAmplitude: lsb,
	}
}

func (d *Dither) Next() (sonora.Sample, bool) {
	s, ok := d.input.Next()
	if !ok {
		return 0, false
	}
	return s + d.noise.sample()*d.lsbAmplitude, true
}

func (d *Dither) Channels() sonora.ChannelCount        { return d.input.Channels() }
func (d *Dither) SampleRate() sonora.SampleRate        { return d.input.SampleRate() }
func (d *Dither) CurrentSpanLen() int                  { return d.input.CurrentSpanLen() }
func (d *Dither) TotalDuration() (time.Duration, bool) { return d.input.TotalDuration() }
func (d *Dither) TrySeek(pos time.Duration) error      { return d.input.TrySeek(pos) }

// TargetBits reports the bit depth this dither was sized for.
func (d *Dither) TargetBits() int { return d.targetBits }
