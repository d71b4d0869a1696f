package player

import (
	"sync"
	"time"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/source"
)

// spatialUpdatePeriod is how often an appended spatial source re-latches the
// emitter/ear positions, mirroring rodio's spatial player/sink.
const spatialUpdatePeriod = 10 * time.Millisecond

// soundPositions is the shared, lock-guarded emitter/ear state a Spatial
// sink exposes to the application thread; the audio thread only reads it
// through the periodic-access callback installed in Append.
type soundPositions struct {
	mu                         sync.Mutex
	emitter, leftEar, rightEar [3]float32
}

func (p *soundPositions) get() (emitter, left, right [3]float32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.emitter, p.leftEar, p.rightEar
}

func (p *soundPositions) set(emitter, left, right [3]float32) {
	p.mu.Lock()
	p.emitter, p.leftEar, p.rightEar = emitter, left, right
	p.mu.Unlock()
}

// Spatial is a Sink that additionally pans every appended source between a
// left and right ear based on distance from a shared emitter position. It is
// purely an arrangement of source.Spatial and the Sink's existing control
// chain — there is no separate DSP core for it.
type Spatial struct {
	*Sink
	positions *soundPositions
}

// NewSpatial builds an empty spatial sink with the given initial emitter and
// ear positions.
func NewSpatial(emitterPosition, leftEarPosition, rightEarPosition [3]float32) *Spatial {
	return &Spatial{
		Sink: New(),
		positions: &soundPositions{
			emitter:  emitterPosition,
			leftEar:  leftEarPosition,
			rightEar: rightEarPosition,
		},
	}
}

// SetEmitterPosition moves the sound source in 3-D space.
func (s *Spatial) SetEmitterPosition(pos [3]float32) {
	_, left, right := s.positions.get()
	s.positions.set(pos, left, right)
}

// SetLeftEarPosition moves the left ear in 3-D space.
func (s *Spatial) SetLeftEarPosition(pos [3]float32) {
	emitter, _, right := s.positions.get()
	s.positions.set(emitter, pos, right)
}

// SetRightEarPosition moves the right ear in 3-D space.
func (s *Spatial) SetRightEarPosition(pos [3]float32) {
	emitter, left, _ := s.positions.get()
	s.positions.set(emitter, left, pos)
}

// Append spatializes src (expected mono) around the sink's current
// emitter/ear positions and queues it for playback, same as Sink.Append.
// Position updates made via SetEmitterPosition/SetLeftEarPosition/
// SetRightEarPosition after this call still reach the source, re-latched
// every spatialUpdatePeriod.
func (s *Spatial) Append(src sonora.Source) {
	emitter, left, right := s.positions.get()
	spatial := source.NewSpatial(src, emitter, left, right)

	frames := int64(spatial.SampleRate()) * int64(spatialUpdatePeriod) / int64(time.Second)
	periodSamples := uint64(frames) * uint64(spatial.Channels())

	wrapped := source.NewPeriodicAccess(spatial, periodSamples, func(sonora.Source) {
		emitter, left, right := s.positions.get()
		spatial.SetPositions(emitter, left, right)
	})
	s.Sink.Append(wrapped)
}
