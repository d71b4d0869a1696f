package source

import (
	"math"
	"time"

	"github.com/zaynotley/sonora"
)

// spatialMinDistance floors the emitter-to-ear distance used for gain
// calculation, so a source placed exactly on an ear doesn't produce
// unbounded gain.
const spatialMinDistance = 0.1

// Spatial turns a mono inner source into a stereo pair by applying an
// inverse-distance gain to each ear, computed from an emitter position and
// two ear positions in 3-D space. Distances are recomputed whenever
// SetPositions is called; the audio thread itself just applies the last
// latched gains.
type Spatial struct {
	inner sonora.Source

	emitter  [3]float32
	leftEar  [3]float32
	rightEar [3]float32

	leftGain  float32
	rightGain float32

	haveLeft bool
	left     sonora.Sample
}

// NewSpatial wraps inner (expected mono) with stereo positional panning.
func NewSpatial(inner sonora.Source, emitter, leftEar, rightEar [3]float32) *Spatial {
	s := &Spatial{inner: inner, emitter: emitter, leftEar: leftEar, rightEar: rightEar}
	s.recomputeGains()
	return s
}

func distance3(a, b [3]float32) float32 {
	dx, dy, dz := a[0]-b[0], a[1]-b[1], a[2]-b[2]
	return float32(math.Sqrt(float64(dx*dx + dy*dy + dz*dz)))
}

func (s *Spatial) recomputeGains() {
	dl := distance3(s.emitter, s.leftEar)
	dr := distance3(s.emitter, s.rightEar)
	if dl < spatialMinDistance {
		dl = spatialMinDistance
	}
	if dr < spatialMinDistance {
		dr = spatialMinDistance
	}
	s.leftGain = 1.0 / dl
	s.rightGain = 1.0 / dr
}

// SetPositions updates the emitter and ear positions, re-deriving the gains
// applied to the next samples pulled.
func (s *Spatial) SetPositions(emitter, leftEar, rightEar [3]float32) {
	s.emitter, s.leftEar, s.rightEar = emitter, leftEar, rightEar
	s.recomputeGains()
}

func (s *Spatial) Next() (sonora.Sample, bool) {
	if s.haveLeft {
		s.haveLeft = false
		return s.left * s.rightGain, true
	}
	v, ok := s.inner.Next()
	if !ok {
		return 0, false
	}
	s.left = v
	s.haveLeft = true
	return v * s.leftGain, true
}

func (s *Spatial) Channels() sonora.ChannelCount { return 2 }
func (s *Spatial) SampleRate() sonora.SampleRate { return s.inner.SampleRate() }

func (s *Spatial) CurrentSpanLen() int {
	inner := s.inner.CurrentSpanLen()
	if inner == sonora.SpanUnknown {
		return sonora.SpanUnknown
	}
	return inner * 2
}

func (s *Spatial) TotalDuration() (time.Duration, bool) { return s.inner.TotalDuration() }
func (s *Spatial) TrySeek(pos time.Duration) error      { return s.inner.TrySeek(pos) }
