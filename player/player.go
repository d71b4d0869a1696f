// Package player provides the Sink control surface: a handle that drives a
// chain of combinators via a periodic-access control channel, carrying
// volume, speed, pause, stop, seek, skip, and position reads from the
// controlling goroutine to the real-time pulling goroutine without locks on
// the hot path.
package player

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/queue"
	"github.com/zaynotley/sonora/source"
)

// controlPeriod is how often the periodic-access adapter samples the
// control block, per spec: roughly 5ms of audio.
const controlPeriod = 5 * time.Millisecond

// seekOrder is published by TrySeek into the controls' seek slot and
// consumed by the periodic-access callback on the audio thread.
type seekOrder struct {
	pos    time.Duration
	result chan error
}

// controls is the single shared mutable structure per active player. The
// control thread (application) writes; the audio thread (periodic-access
// callback) reads and clears on its own cadence.
type controls struct {
	paused  atomic.Bool
	stopped atomic.Bool

	mu           sync.Mutex
	volume       float32
	speed        float32
	toClear      int
	pendingSeek  *seekOrder
	lastPosition time.Duration
}

func newControls() *controls {
	return &controls{volume: 1.0, speed: 1.0}
}

func (c *controls) setVolume(v float32) { c.mu.Lock(); c.volume = v; c.mu.Unlock() }
func (c *controls) getVolume() float32  { c.mu.Lock(); defer c.mu.Unlock(); return c.volume }

func (c *controls) setSpeed(v float32) { c.mu.Lock(); c.speed = v; c.mu.Unlock() }
func (c *controls) getSpeed() float32  { c.mu.Lock(); defer c.mu.Unlock(); return c.speed }

func (c *controls) addToClear(n int) { c.mu.Lock(); c.toClear += n; c.mu.Unlock() }

func (c *controls) takeToClear() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.toClear
	c.toClear = 0
	return n
}

func (c *controls) submitSeek(pos time.Duration) error {
	order := &seekOrder{pos: pos, result: make(chan error, 1)}
	c.mu.Lock()
	c.pendingSeek = order
	c.mu.Unlock()

	select {
	case err := <-order.result:
		return err
	case <-time.After(controlPeriod):
		return sonora.OtherSeekError(errSeekTimeout{})
	}
}

type errSeekTimeout struct{}

func (errSeekTimeout) Error() string { return "player: seek did not complete within control interval" }

func (c *controls) takeSeek() *seekOrder {
	c.mu.Lock()
	defer c.mu.Unlock()
	order := c.pendingSeek
	c.pendingSeek = nil
	return order
}

func (c *controls) setPosition(pos time.Duration) {
	c.mu.Lock()
	c.lastPosition = pos
	c.mu.Unlock()
}

func (c *controls) getPosition() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastPosition
}

// chain is the fixed transform stack wrapped around every appended source,
// outer to inner: stoppable -> skippable -> amplify -> pausable ->
// track_position -> speed -> user source.
type chain struct {
	stoppable *source.Stoppable
	skippable *source.Skippable
	amplify   *source.Amplify
	pausable  *source.Pausable
	position  *source.TrackPosition
	speed     *source.Speed
}

func buildChain(inner sonora.Source, controls *controls) (sonora.Source, *chain) {
	sp := source.NewSpeed(inner, 1.0)
	pos := source.NewTrackPosition(sp, nil)
	pa := source.NewPausable(pos)
	am := source.NewAmplify(pa, controls.getVolume())
	sk := source.NewSkippable(am)
	st := source.NewStoppable(sk)

	c := &chain{stoppable: st, skippable: sk, amplify: am, pausable: pa, position: pos, speed: sp}

	access := func(sonora.Source) {
		if controls.stopped.Load() {
			st.Stop()
			controls.setPosition(0)
		}
		if n := controls.takeToClear(); n > 0 {
			sk.Skip()
			controls.setPosition(0)
		}

		am.SetFactor(controls.getVolume())
		pa.SetPaused(controls.paused.Load())
		sp.SetFactor(controls.getSpeed())

		if order := controls.takeSeek(); order != nil {
			err := st.TrySeek(order.pos)
			if err == nil {
				controls.setPosition(order.pos)
			}
			order.result <- err
		} else {
			controls.setPosition(c.position.Position())
		}
	}

	frames := int64(inner.SampleRate()) * int64(controlPeriod) / int64(time.Second)
	periodSamples := uint64(frames) * uint64(inner.Channels())
	wrapped := source.NewPeriodicAccess(st, periodSamples, access)
	return wrapped, c
}

// Sink is the application-facing handle onto one queue of sources playing
// through a shared transform chain and control block.
type Sink struct {
	controls *controls

	queueIn  *queue.Input
	queueOut *queue.Output

	mu       sync.Mutex
	active   int
	detached bool

	endMu sync.Mutex
	ends  []<-chan struct{} // end-of-source notifications drained by SleepUntilEnd
}

// New creates an empty sink. Append a source before pulling from it, or
// keep keepAliveIfEmpty semantics in mind — an empty queue with keep-alive
// off reports exhausted immediately.
func New() *Sink {
	qin, qout := queue.New(true)
	return &Sink{
		controls: newControls(),
		queueIn:  qin,
		queueOut: qout,
	}
}

// Output returns the Source to hand to a device sink or mixer input. It is
// the queue output directly: the transform stack lives inside each queued
// entry, not around the queue as a whole, since volume/speed/pause are
// per-sink (shared across every queued entry) but the skip/stop plumbing
// needs access to each entry's own chain.
func (s *Sink) Output() sonora.Source { return s.queueOut }

// Append queues src, wrapped in the sink's control chain, to play after
// whatever is already queued. If the sink was stopped, this first waits
// (via SleepUntilEnd) for every previously appended source to end, then
// clears the stopped flag so playback resumes with the new source.
func (s *Sink) Append(src sonora.Source) {
	if s.controls.stopped.Load() {
		s.SleepUntilEnd()
		s.controls.stopped.Store(false)
	}

	s.mu.Lock()
	s.active++
	s.mu.Unlock()

	wrapped, _ := buildChain(src, s.controls)
	done := source.NewDone(wrapped, nil, func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	})

	signal := s.queueIn.AppendWithSignal(done)
	s.endMu.Lock()
	s.ends = append(s.ends, signal)
	s.endMu.Unlock()
}

// SleepUntilEnd blocks until every source appended so far has finished
// playing (or been skipped/cleared). Sources appended after this call
// begins are not waited on.
func (s *Sink) SleepUntilEnd() {
	s.endMu.Lock()
	pending := s.ends
	s.ends = nil
	s.endMu.Unlock()

	for _, ch := range pending {
		<-ch
	}
}

// SetVolume sets playback gain, taking effect within one control interval.
func (s *Sink) SetVolume(v float32) { s.controls.setVolume(v) }

// Volume returns the last volume set via SetVolume.
func (s *Sink) Volume() float32 { return s.controls.getVolume() }

// SetSpeed sets the playback speed multiplier (and therefore pitch),
// taking effect within one control interval.
func (s *Sink) SetSpeed(v float32) { s.controls.setSpeed(v) }

// Speed returns the last speed set via SetSpeed.
func (s *Sink) Speed() float32 { return s.controls.getSpeed() }

// Play resumes playback if paused.
func (s *Sink) Play() { s.controls.paused.Store(false) }

// Pause suspends playback; the audio thread keeps pulling equilibrium
// samples in place of real output, so position tracking does not advance.
func (s *Sink) Pause() { s.controls.paused.Store(true) }

// IsPaused reports the last pause state requested.
func (s *Sink) IsPaused() bool { return s.controls.paused.Load() }

// Stop halts playback within one control interval. The queue itself is
// left intact; Append will wait for it to drain before resuming.
func (s *Sink) Stop() {
	s.controls.stopped.Store(true)
}

// SkipOne discards the currently playing source and advances to the next
// queued one, within one control interval.
func (s *Sink) SkipOne() { s.controls.addToClear(1) }

// Clear discards every source, current and queued: it sets the to-clear
// counter to the current source count, waits for them to finish unwinding,
// then pauses.
func (s *Sink) Clear() {
	n := s.queueIn.Clear()
	s.mu.Lock()
	s.active -= n
	s.mu.Unlock()
	s.controls.addToClear(n + 1)
	s.SleepUntilEnd()
	s.Pause()
}

// TrySeek requests a seek on the currently playing source, blocking until
// the audio thread applies it (or until one control interval elapses
// without a response).
func (s *Sink) TrySeek(pos time.Duration) error {
	return s.controls.submitSeek(pos)
}

// Position returns the last position published by the audio thread.
func (s *Sink) Position() time.Duration { return s.controls.getPosition() }

// Empty reports whether the sink has nothing left to play: no active
// source and nothing queued. A paused sink whose source has exhausted
// still reports true, matching the pull-based exhaustion contract.
func (s *Sink) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active <= 0
}

// Len returns the number of sources currently active or queued.
func (s *Sink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Detach marks the sink so Close does not stop the queue — playback
// continues unattended after the handle is discarded.
func (s *Sink) Detach() { s.mu.Lock(); s.detached = true; s.mu.Unlock() }

// Close is Go's stand-in for Rust's Drop: unless Detach was called, it
// stops playback and clears the queue's keep-alive flag so the audio
// thread observes end-of-stream on its next pull.
func (s *Sink) Close() error {
	s.mu.Lock()
	detached := s.detached
	s.mu.Unlock()

	if detached {
		return nil
	}
	s.controls.stopped.Store(true)
	s.queueIn.SetKeepAliveIfEmpty(false)
	return nil
}
