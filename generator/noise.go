package generator

import (
	"math/rand"
	"time"

	"github.com/zaynotley/sonora"
)

// LFSR tap positions and sizing, carried over unchanged from the chip's
// noise channel: a 23-bit Fibonacci LFSR, tapped at two bit positions per
// noise mode to trade sequence length for tonal character.
const (
	noiseTap1     = 22
	noiseTap2     = 17
	metalTap1     = 22
	metalTap2     = 14
	noiseLFSRSeed = 0x7FFFFF
	noiseLFSRMask = 0x7FFFFF
	noiseLFSRBits = 23
	noiseBitScale = 2.0
	noiseBias     = 1.0
	lsbMask       = 1

	noiseFilterOld = 0.95
	noiseFilterNew = 0.05
)

// NoiseMode selects which LFSR feedback taps drive LFSRNoise.
type NoiseMode int

const (
	// NoiseWhite is a maximal-length sequence (period 2^23-1) via taps 22/17.
	NoiseWhite NoiseMode = iota
	// NoisePeriodic rotates the register instead of feeding back, producing
	// a short repeating pattern.
	NoisePeriodic
	// NoiseMetallic uses taps 22/14 for a longer-period, more tonal noise.
	NoiseMetallic
)

// LFSRNoise is a monoaural noise source driven by a linear feedback shift
// register clocked at frequency Hz, one-pole filtered the same way the
// chip's noise channel smooths its raw bitstream.
type LFSRNoise struct {
	sampleRate  sonora.SampleRate
	frequency   float32
	mode        NoiseMode
	sr          uint32
	phase       float32
	filterState float32
}

// NewLFSRNoise builds a noise source clocked at frequency Hz and sampled at
// rate. Panics if frequency is not positive.
func NewLFSRNoise(rate sonora.SampleRate, frequency float32, mode NoiseMode) *LFSRNoise {
	if frequency <= 0 {
		panic("generator: frequency must be greater than zero")
	}
	return &LFSRNoise{sampleRate: rate, frequency: frequency, mode: mode, sr: noiseLFSRSeed}
}

// White builds a white-noise LFSR source clocked at frequency Hz.
func White(rate sonora.SampleRate, frequency float32) *LFSRNoise {
	return NewLFSRNoise(rate, frequency, NoiseWhite)
}

// Metallic builds a metallic-noise LFSR source clocked at frequency Hz.
func Metallic(rate sonora.SampleRate, frequency float32) *LFSRNoise {
	return NewLFSRNoise(rate, frequency, NoiseMetallic)
}

func (n *LFSRNoise) step() {
	switch n.mode {
	case NoiseWhite:
		newBit := ((n.sr >> noiseTap1) ^ (n.sr >> noiseTap2)) & 1
		n.sr = ((n.sr << lsbMask) | newBit) & noiseLFSRMask
	case NoisePeriodic:
		n.sr = ((n.sr >> lsbMask) | ((n.sr & 1) << (noiseLFSRBits - 1))) & noiseLFSRMask
	case NoiseMetallic:
		newBit := ((n.sr >> metalTap1) ^ (n.sr >> metalTap2)) & 1
		n.sr = ((n.sr << lsbMask) | newBit) & noiseLFSRMask
	}
}

func (n *LFSRNoise) Next() (sonora.Sample, bool) {
	inc := n.frequency / float32(n.sampleRate)
	n.phase += inc
	steps := int(n.phase)
	n.phase -= float32(steps)

	for i := 0; i < steps; i++ {
		n.step()
	}

	raw := float32(n.sr&lsbMask)*noiseBitScale - noiseBias
	n.filterState = noiseFilterOld*n.filterState + noiseFilterNew*raw
	return n.filterState, true
}

func (n *LFSRNoise) Channels() sonora.ChannelCount           { return 1 }
func (n *LFSRNoise) SampleRate() sonora.SampleRate           { return n.sampleRate }
func (n *LFSRNoise) CurrentSpanLen() int                     { return sonora.SpanUnknown }
func (n *LFSRNoise) TotalDuration() (time.Duration, bool)    { return 0, false }

// TrySeek is unsupported: the LFSR's state at an arbitrary future position
// can only be reached by stepping through it, which TrySeek's contract
// forbids doing synchronously.
func (n *LFSRNoise) TrySeek(time.Duration) error {
	return sonora.NotSupportedError("generator.LFSRNoise")
}

// pinkRows is the number of Voss-McCartney generators summed per sample.
// Sixteen rows cover the full audible range (down to roughly sampleRate/2^16 Hz);
// the highest-index row refreshes only once every 2^15 samples.
const pinkRows = 16

// PinkNoise generates noise with a -3dB/octave spectral slope via the
// Voss-McCartney algorithm: pinkRows independent white generators are
// summed, each updated only when its corresponding bit of an incrementing
// counter flips, so lower-index rows update (and thus contribute
// higher-frequency content) far more often than higher-index ones.
type PinkNoise struct {
	sampleRate sonora.SampleRate
	rng        *rand.Rand
	rows       [pinkRows]float32
	runningSum float32
	counter    uint32
}

// NewPinkNoise builds a pink noise source sampled at rate, seeded for
// reproducible output.
func NewPinkNoise(rate sonora.SampleRate, seed uint64) *PinkNoise {
	p := &PinkNoise{sampleRate: rate, rng: rand.New(rand.NewSource(int64(seed)))}
	for i := range p.rows {
		p.rows[i] = p.whiteSample()
		p.runningSum += p.rows[i]
	}
	return p
}

func (p *PinkNoise) whiteSample() float32 {
	return p.rng.Float32()*2 - 1
}

func (p *PinkNoise) Next() (sonora.Sample, bool) {
	p.counter++
	// The index of the lowest set bit in counter tells us which single row
	// must refresh this step; every other row carries its previous value
	// forward unchanged.
	idx := 0
	c := p.counter
	for c&1 == 0 && idx < pinkRows-1 {
		c >>= 1
		idx++
	}

	p.runningSum -= p.rows[idx]
	p.rows[idx] = p.whiteSample()
	p.runningSum += p.rows[idx]

	white := p.whiteSample()
	sum := p.runningSum + white
	return sum / (pinkRows + 1), true
}

func (p *PinkNoise) Channels() sonora.ChannelCount        { return 1 }
func (p *PinkNoise) SampleRate() sonora.SampleRate        { return p.sampleRate }
func (p *PinkNoise) CurrentSpanLen() int                  { return sonora.SpanUnknown }
func (p *PinkNoise) TotalDuration() (time.Duration, bool) { return 0, false }

// TrySeek is unsupported: Voss-McCartney's row state depends on the full
// history of counter bit-flips, which cannot be reconstructed from a target
// position alone.
func (p *PinkNoise) TrySeek(time.Duration) error {
	return sonora.NotSupportedError("generator.PinkNoise")
}
