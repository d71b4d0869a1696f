// Package resample converts a Source's sample rate to a target rate while
// preserving channel count and frame alignment. Two configuration families
// are supported: cheap non-anti-aliased polynomial interpolation, and
// windowed-sinc interpolation for anti-aliased, higher-quality conversion.
package resample

// MaxFixedRatio bounds the target:source ratio (reduced to lowest terms)
// below which the sinc engine is built with its oversampling factor forced
// to the ratio itself and nearest-entry table lookup, covering the common
// 44.1/48/96/192/384 kHz family with an exact (not interpolated) kernel
// read. Ratios above this bound fall back to the configured
// Oversampling/Intermediate settings on the same kernel.
const MaxFixedRatio = 1280

// Degree selects the polynomial interpolation family.
type Degree int

const (
	DegreeNearest Degree = iota
	DegreeLinear
	DegreeCubic
	DegreeQuintic
	DegreeSeptic
)

// pointCount is the number of neighboring input frames the degree's Lagrange
// interpolation reads around the fractional position.
func (d Degree) pointCount() int {
	switch d {
	case DegreeNearest:
		return 1
	case DegreeLinear:
		return 2
	case DegreeCubic:
		return 4
	case DegreeQuintic:
		return 6
	case DegreeSeptic:
		return 8
	default:
		return 2
	}
}

// Window selects the window function applied to the sinc kernel.
type Window int

const (
	WindowHann Window = iota
	WindowHann2
	WindowBlackman
	WindowBlackman2
	WindowBlackmanHarris
	WindowBlackmanHarris2
)

// Interp selects how a value is read between two adjacent oversampled sinc
// table entries.
type Interp int

const (
	InterpNearest Interp = iota
	InterpLinear
	InterpQuadratic
	InterpCubic
)

// Config describes either a Polynomial or a Sinc resampler. Kind selects
// which fields are meaningful.
type Config struct {
	Kind Kind

	// Polynomial family.
	Degree    Degree
	ChunkSize int // 0 means a sensible default

	// Sinc family.
	SincLen      int
	Oversampling int
	Intermediate Interp
	WindowFunc   Window
	Cutoff       float32 // relative to Nyquist, in (0, 1]; 0 means auto
}

// Kind distinguishes the two configuration families.
type Kind int

const (
	KindPolynomial Kind = iota
	KindSinc
)

// DefaultPolynomial is a linear interpolator with no anti-aliasing, the
// cheapest useful option.
func DefaultPolynomial() Config {
	return Config{Kind: KindPolynomial, Degree: DegreeLinear, ChunkSize: 1024}
}

// VeryFast trades quality for speed: the shortest filter (64 taps), 1024x
// oversampling, linear intermediate interpolation, Hann² window.
func VeryFast() Config {
	return Config{
		Kind: KindSinc, SincLen: 64, Oversampling: 1024,
		Intermediate: InterpLinear, WindowFunc: WindowHann2,
	}
}

// Fast is a modest step up from VeryFast: longer filter, Blackman² window.
func Fast() Config {
	return Config{
		Kind: KindSinc, SincLen: 128, Oversampling: 1024,
		Intermediate: InterpLinear, WindowFunc: WindowBlackman2,
	}
}

// Balanced favors quality over raw speed: longer filter, quadratic
// intermediate interpolation, Blackman-Harris² window.
func Balanced() Config {
	return Config{
		Kind: KindSinc, SincLen: 192, Oversampling: 512,
		Intermediate: InterpQuadratic, WindowFunc: WindowBlackmanHarris2,
	}
}

// Accurate is the highest-quality preset: long filter, cubic intermediate
// interpolation, Blackman-Harris² window.
func Accurate() Config {
	return Config{
		Kind: KindSinc, SincLen: 256, Oversampling: 256,
		Intermediate: InterpCubic, WindowFunc: WindowBlackmanHarris2,
	}
}
