// Package device owns the OS audio callback: it pulls sample-by-sample
// from a mixer, quantizes to the configured device sample format (applying
// dither if configured), and converts back to the float32 wire format the
// underlying transport (ebitengine/oto) requires.
package device

// SampleFormat is the device's configured native precision. oto/v3's
// transport is fixed at 32-bit float, so SampleFormat does not change the
// bytes handed to oto — it selects the quantization step (and therefore the
// equilibrium value and dither target) applied before re-expanding to
// float32, matching what a real fixed-point device would have imposed.
type SampleFormat int

const (
	FormatF32 SampleFormat = iota
	FormatF64
	FormatI8
	FormatI16
	FormatI24
	FormatI32
	FormatI64
	FormatU8
	FormatU16
	FormatU24
	FormatU32
	FormatU64
)

// Equilibrium is the zero-signal value for format, in the float32 domain
// fed to oto. Signed and unsigned formats both equilibrate at 0.0 here:
// Quantize rounds every fixed-point format on the signed range, so the
// unsigned offset never appears in the float32 domain.
func (f SampleFormat) Equilibrium() float32 { return 0 }

// maxValue returns the full-scale magnitude for a fixed-point format, or 0
// for the floating-point formats (which do not quantize).
func (f SampleFormat) maxValue() float64 {
	switch f {
	case FormatI8, FormatU8:
		return 1 << 7
	case FormatI16, FormatU16:
		return 1 << 15
	case FormatI24, FormatU24:
		return 1 << 23
	case FormatI32, FormatU32:
		return 1 << 31
	case FormatI64, FormatU64:
		return 1 << 63
	default:
		return 0 // F32, F64: no quantization
	}
}

// BitDepth returns the format's precision in bits, or 0 for floating point.
func (f SampleFormat) BitDepth() int {
	switch f {
	case FormatI8, FormatU8:
		return 8
	case FormatI16, FormatU16:
		return 16
	case FormatI24, FormatU24:
		return 24
	case FormatI32, FormatU32:
		return 32
	case FormatI64, FormatU64:
		return 64
	default:
		return 0
	}
}

// Quantize rounds s to the nearest representable value of format, returning
// a value still in the float32 domain [-1, 1] (clamped). Floating-point
// formats are a no-op.
func (f SampleFormat) Quantize(s float32) float32 {
	max := f.maxValue()
	if max == 0 {
		return s
	}
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	scaled := float64(s) * max
	rounded := float64(int64(scaled + signOf(scaled)*0.5))
	return float32(rounded / max)
}

func signOf(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
