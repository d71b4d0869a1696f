package mixer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/mixer"
	"github.com/zaynotley/sonora/source"
)

func drain(t *testing.T, src sonora.Source, max int) []sonora.Sample {
	t.Helper()
	var out []sonora.Sample
	for i := 0; i < max; i++ {
		s, ok := src.Next()
		if !ok {
			return out
		}
		out = append(out, s)
	}
	t.Fatalf("source did not end within %d samples", max)
	return out
}

func TestMonoMixerTwoSources(t *testing.T) {
	in, out := mixer.New(1, 48000)
	a := source.NewSamplesBuffer(1, 48000, []sonora.Sample{10, -10, 10, -10})
	b := source.NewSamplesBuffer(1, 48000, []sonora.Sample{5, 5, 5, 5})
	in.Add(a)
	in.Add(b)

	got := drain(t, out, 16)
	require.Equal(t, []sonora.Sample{15, -5, 15, -5}, got)
}

func TestStereoMixerFromMonoInputs(t *testing.T) {
	in, out := mixer.New(2, 48000)
	a := source.NewSamplesBuffer(1, 48000, []sonora.Sample{10, -10, 10, -10})
	b := source.NewSamplesBuffer(1, 48000, []sonora.Sample{5, 5, 5, 5})
	in.Add(a)
	in.Add(b)

	got := drain(t, out, 16)
	require.Equal(t, []sonora.Sample{15, 15, -5, -5, 15, 15, -5, -5}, got)
}

// TestMixerAssociativity checks mix(mix(a,b),c) == mix(a,mix(b,c)) sample by
// sample, up to float round-off, for three equal-format sources built from
// randomly drawn sample sequences on every run.
func TestMixerAssociativity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		gen := rapid.SliceOfN(rapid.Float32Range(-100, 100), 1, 20)
		aVals := gen.Draw(rt, "a")
		bVals := gen.Draw(rt, "b")
		cVals := gen.Draw(rt, "c")
		n := min(len(aVals), min(len(bVals), len(cVals)))
		aVals, bVals, cVals = aVals[:n], bVals[:n], cVals[:n]

		newSource := func(vals []float32) sonora.Source {
			samples := make([]sonora.Sample, len(vals))
			for i, v := range vals {
				samples[i] = sonora.Sample(v)
			}
			return source.NewSamplesBuffer(1, 48000, samples)
		}

		leftIn, leftOut := mixer.New(1, 48000)
		innerLeftIn, innerLeftOut := mixer.New(1, 48000)
		innerLeftIn.Add(newSource(aVals))
		innerLeftIn.Add(newSource(bVals))
		leftIn.Add(innerLeftOut)
		leftIn.Add(newSource(cVals))

		rightIn, rightOut := mixer.New(1, 48000)
		innerRightIn, innerRightOut := mixer.New(1, 48000)
		innerRightIn.Add(newSource(bVals))
		innerRightIn.Add(newSource(cVals))
		rightIn.Add(newSource(aVals))
		rightIn.Add(innerRightOut)

		bound := n + 8
		var left, right []sonora.Sample
		for i := 0; i < bound; i++ {
			if s, ok := leftOut.Next(); ok {
				left = append(left, s)
			}
			if s, ok := rightOut.Next(); ok {
				right = append(right, s)
			}
		}

		require.Equal(rt, len(left), len(right))
		for i := range left {
			require.InDelta(rt, float64(left[i]), float64(right[i]), 1e-3)
		}
	})
}

func TestMixerEmptyOutputIsExhausted(t *testing.T) {
	_, out := mixer.New(1, 48000)
	_, ok := out.Next()
	require.False(t, ok)
}
