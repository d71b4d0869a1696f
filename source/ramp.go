package source

import (
	"time"

	"github.com/zaynotley/sonora"
)

// LinearGainRamp linearly interpolates gain from start to end over duration,
// then emits samples scaled by end (if clampEnd) or at unity gain
// thereafter. FadeIn and FadeOut are built on top of this.
type LinearGainRamp struct {
	inner        sonora.Source
	totalSamples uint64
	samplesDone  uint64
	startGain    float32
	endGain      float32
	clampEnd     bool

	channels       sonora.ChannelCount
	samplesPerSec  sonora.SampleRate
}

// NewLinearGainRamp builds a ramp over duration from startGain to endGain.
func NewLinearGainRamp(inner sonora.Source, duration time.Duration, startGain, endGain float32, clampEnd bool) *LinearGainRamp {
	r := &LinearGainRamp{
		inner:     inner,
		startGain: startGain,
		endGain:   endGain,
		clampEnd:  clampEnd,
	}
	r.latchParams()
	r.recompute(duration)
	return r
}

func (r *LinearGainRamp) latchParams() {
	r.channels = r.inner.Channels()
	r.samplesPerSec = r.inner.SampleRate()
}

func (r *LinearGainRamp) recompute(duration time.Duration) {
	framesTotal := uint64(duration.Seconds() * float64(r.samplesPerSec))
	r.totalSamples = framesTotal * uint64(r.channels)
	r.samplesDone = 0
}

func (r *LinearGainRamp) maybeBoundary() {
	if r.inner.CurrentSpanLen() != sonora.SpanUnknown {
		return
	}
	if r.inner.Channels() != r.channels || r.inner.SampleRate() != r.samplesPerSec {
		// Parameters changed mid-stream with unknown span boundaries:
		// re-latch but keep progress (duration already elapsed stands).
		r.latchParams()
	}
}

func (r *LinearGainRamp) Next() (sonora.Sample, bool) {
	s, ok := r.inner.Next()
	if !ok {
		return 0, false
	}
	r.maybeBoundary()

	if r.samplesDone >= r.totalSamples {
		if r.clampEnd {
			return s * r.endGain, true
		}
		r.samplesDone++
		return s, true
	}

	t := float32(r.samplesDone) / float32(r.totalSamples)
	gain := r.startGain + (r.endGain-r.startGain)*t
	r.samplesDone++
	return s * gain, true
}

func (r *LinearGainRamp) Channels() sonora.ChannelCount        { return r.inner.Channels() }
func (r *LinearGainRamp) SampleRate() sonora.SampleRate        { return r.inner.SampleRate() }
func (r *LinearGainRamp) CurrentSpanLen() int                  { return r.inner.CurrentSpanLen() }
func (r *LinearGainRamp) TotalDuration() (time.Duration, bool) { return r.inner.TotalDuration() }

func (r *LinearGainRamp) TrySeek(pos time.Duration) error {
	if err := r.inner.TrySeek(pos); err != nil {
		return err
	}
	r.samplesDone = 0
	return nil
}

// FadeIn ramps linearly from silence to unity gain over duration.
func FadeIn(inner sonora.Source, duration time.Duration) *LinearGainRamp {
	return NewLinearGainRamp(inner, duration, 0.0, 1.0, true)
}

// FadeOut ramps linearly from unity gain to silence over duration, then
// continues at zero gain (clampEnd=true keeps emitting silence rather than
// terminating; callers typically compose with TakeDuration to also stop the
// stream at that point).
func FadeOut(inner sonora.Source, duration time.Duration) *LinearGainRamp {
	return NewLinearGainRamp(inner, duration, 1.0, 0.0, true)
}
