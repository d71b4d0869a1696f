package device_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zaynotley/sonora/device"
)

func TestFloatFormatsDoNotQuantize(t *testing.T) {
	require.Equal(t, float32(0.33333), device.FormatF32.Quantize(0.33333))
	require.Equal(t, float32(0.33333), device.FormatF64.Quantize(0.33333))
}

func TestQuantizeClampsToUnitRange(t *testing.T) {
	require.Equal(t, float32(1), device.FormatI16.Quantize(5))
	require.Equal(t, float32(-1), device.FormatI16.Quantize(-5))
}

func TestQuantizeRoundsToNearestRepresentableStep(t *testing.T) {
	// At 8-bit depth the step is 1/128; a value already on a step should
	// round-trip unchanged.
	exact := float32(3) / 128
	got := device.FormatI8.Quantize(exact)
	require.InDelta(t, float64(exact), float64(got), 1e-6)
}

func TestBitDepthPerFormat(t *testing.T) {
	require.Equal(t, 0, device.FormatF32.BitDepth())
	require.Equal(t, 8, device.FormatI8.BitDepth())
	require.Equal(t, 16, device.FormatI16.BitDepth())
	require.Equal(t, 24, device.FormatI24.BitDepth())
	require.Equal(t, 32, device.FormatI32.BitDepth())
	require.Equal(t, 64, device.FormatI64.BitDepth())
}

func TestQuantizeNeverExceedsUnitMagnitude(t *testing.T) {
	for _, f := range []device.SampleFormat{
		device.FormatI8, device.FormatI16, device.FormatI24, device.FormatI32,
		device.FormatU8, device.FormatU16, device.FormatU24, device.FormatU32,
	} {
		got := f.Quantize(0.999999)
		require.LessOrEqual(t, math.Abs(float64(got)), 1.0)
	}
}
