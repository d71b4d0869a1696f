package resample

import "math"

func sinc(x float64) float64 {
	if x == 0 {
		return 1
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

func windowValue(w Window, n, length int) float64 {
	// n in [0, length-1]
	N := float64(length - 1)
	if N <= 0 {
		return 1
	}
	x := float64(n) / N

	hann := func(x float64) float64 { return 0.5 - 0.5*math.Cos(2*math.Pi*x) }
	blackman := func(x float64) float64 {
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	}
	blackmanHarris := func(x float64) float64 {
		return 0.35875 - 0.48829*math.Cos(2*math.Pi*x) + 0.14128*math.Cos(4*math.Pi*x) - 0.01168*math.Cos(6*math.Pi*x)
	}

	switch w {
	case WindowHann:
		return hann(x)
	case WindowHann2:
		v := hann(x)
		return v * v
	case WindowBlackman:
		return blackman(x)
	case WindowBlackman2:
		v := blackman(x)
		return v * v
	case WindowBlackmanHarris:
		return blackmanHarris(x)
	case WindowBlackmanHarris2:
		v := blackmanHarris(x)
		return v * v
	default:
		return hann(x)
	}
}

// sincKernel is a precomputed windowed-sinc filter, oversampled by a factor
// so that fractional delays can be read by indexing into the table instead
// of evaluating sinc() on the hot path.
type sincKernel struct {
	taps         int // number of input samples the kernel spans
	oversampling int
	cutoff       float64
	table        []float64 // length taps*oversampling + 1
	delay        int       // taps/2; the driver skips delay-1 warmup frames on the first chunk
}

func newSincKernel(cfg Config) *sincKernel {
	taps := cfg.SincLen
	if taps < 2 {
		taps = 2
	}
	oversampling := cfg.Oversampling
	if oversampling < 1 {
		oversampling = 1
	}
	cutoff := float64(cfg.Cutoff)
	if cutoff <= 0 || cutoff > 1 {
		// Automatic cutoff: rises linearly with filter length from 0.5 of
		// Nyquist, reaching 0.95 at 256 taps and staying there (64 taps:
		// 0.6125, 128: 0.725, 192: 0.8375). The window does not enter it.
		cutoff = 0.5 + 0.45*math.Min(1.0, float64(taps)/256.0)
	}

	k := &sincKernel{taps: taps, oversampling: oversampling, cutoff: cutoff, delay: taps / 2}
	tableLen := taps*oversampling + 1
	k.table = make([]float64, tableLen)

	half := float64(taps) / 2.0
	for i := 0; i < tableLen; i++ {
		// Position within the kernel, in input-sample units, centered at 0.
		pos := float64(i)/float64(oversampling) - half
		windowed := windowValue(cfg.WindowFunc, i, tableLen)
		k.table[i] = cutoff * sinc(cutoff*pos) * windowed
	}
	return k
}

// at evaluates the kernel at a fractional offset (in input-sample units)
// from the kernel center, using the configured intermediate interpolation
// to read between oversampled table entries.
func (k *sincKernel) at(offset float64, interp Interp) float64 {
	half := float64(k.taps) / 2.0
	tablePos := (offset + half) * float64(k.oversampling)
	if tablePos < 0 || tablePos > float64(len(k.table)-1) {
		return 0
	}

	idx := int(tablePos)
	frac := tablePos - float64(idx)

	switch interp {
	case InterpNearest:
		if frac >= 0.5 && idx+1 < len(k.table) {
			return k.table[idx+1]
		}
		return k.table[idx]
	case InterpCubic, InterpQuadratic:
		// Both read four neighbors via Catmull-Rom; quadratic is kept as a
		// distinct preset value (Balanced) without a separate code path.
		i0 := idx - 1
		i1 := idx
		i2 := idx + 1
		i3 := idx + 2
		return catmullRom(k.sample(i0), k.sample(i1), k.sample(i2), k.sample(i3), frac)
	default: // InterpLinear
		if idx+1 >= len(k.table) {
			return k.table[idx]
		}
		return k.table[idx]*(1-frac) + k.table[idx+1]*frac
	}
}

func (k *sincKernel) sample(i int) float64 {
	if i < 0 || i >= len(k.table) {
		return 0
	}
	return k.table[i]
}

func catmullRom(p0, p1, p2, p3, t float64) float64 {
	t2 := t * t
	t3 := t2 * t
	return 0.5 * ((2 * p1) +
		(-p0+p2)*t +
		(2*p0-5*p1+4*p2-p3)*t2 +
		(-p0+3*p1-3*p2+p3)*t3)
}

// lagrange interpolates points (evenly spaced at integer offsets starting at
// 0) at fractional position t in [0, len(points)-1), used by the polynomial
// degree family (nearest/linear/cubic/quintic/septic).
func lagrange(points []float64, t float64) float64 {
	n := len(points)
	if n == 1 {
		return points[0]
	}
	var result float64
	for i := 0; i < n; i++ {
		term := points[i]
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			term *= (t - float64(j)) / float64(i-j)
		}
		result += term
	}
	return result
}
