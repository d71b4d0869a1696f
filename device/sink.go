package device

import (
	"context"
	"encoding/binary"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
	"golang.org/x/sync/semaphore"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/dither"
)

// deviceStartupLock serializes opening and closing OS audio contexts:
// oto's underlying platform backends are not guaranteed safe to initialize
// or tear down concurrently from two Sinks at once.
var deviceStartupLock = semaphore.NewWeighted(1)

// Sink holds the source installed by SetSource (typically a mixer output)
// and an OS audio callback that pulls sample-by-sample from it, quantizes to the configured device format, and
// writes float32 bytes into oto's output buffer. Missing samples (source
// exhausted) are the format's equilibrium value.
type Sink struct {
	cfg Config
	ctx *oto.Context

	player *oto.Player
	source atomic.Pointer[sonora.Source] // lock-free hot-path read, mirrors the teacher's chip pointer

	mu      sync.Mutex
	started bool
}

func newSink(cfg Config) (*Sink, error) {
	if err := deviceStartupLock.Acquire(context.Background(), 1); err != nil {
		return nil, &SinkError{Kind: ErrBuildStream, Cause: err}
	}
	defer deviceStartupLock.Release(1)

	opts := &oto.NewContextOptions{
		SampleRate:   int(cfg.SampleRate),
		ChannelCount: int(cfg.ChannelCount),
		Format:       oto.FormatFloat32LE,
		BufferSize:   time.Duration(cfg.bufferFrames()) * time.Second / time.Duration(cfg.SampleRate),
	}

	ctx, ready, err := oto.NewContext(opts)
	if err != nil {
		return nil, &SinkError{Kind: ErrBuildStream, Cause: err}
	}
	<-ready

	s := &Sink{cfg: cfg, ctx: ctx}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

// SetSource installs src as the stream the audio callback pulls from.
// Passing nil makes the callback emit equilibrium until a source is set.
// If the sink's configuration enables dither for a fixed-point
// SampleFormat, src is wrapped with dither noise sized to that format's bit
// depth before being installed.
func (s *Sink) SetSource(src sonora.Source) {
	if src == nil {
		s.source.Store(nil)
		return
	}
	if s.cfg.Dither.Enabled {
		if bits := s.cfg.SampleFormat.BitDepth(); bits > 0 {
			src = dither.New(src, bits, s.cfg.Dither.Algorithm, s.cfg.Dither.Seed)
		}
	}
	s.source.Store(&src)
}

// Read implements io.Reader for oto's Player: it is called on the
// real-time audio thread. It must never block on allocation or I/O beyond
// what's already pre-sized here.
func (s *Sink) Read(p []byte) (int, error) {
	srcPtr := s.source.Load()
	numSamples := len(p) / 4

	if srcPtr == nil {
		equilibrium := s.cfg.SampleFormat.Equilibrium()
		var buf [4]byte
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(equilibrium))
		for i := 0; i < numSamples; i++ {
			copy(p[i*4:i*4+4], buf[:])
		}
		return len(p), nil
	}

	src := *srcPtr
	format := s.cfg.SampleFormat
	for i := 0; i < numSamples; i++ {
		v, ok := src.Next()
		if !ok {
			v = format.Equilibrium()
		} else {
			v = format.Quantize(v)
		}
		binary.LittleEndian.PutUint32(p[i*4:i*4+4], math.Float32bits(v))
	}
	return len(p), nil
}

// Start begins playback, opening the OS stream if not already started.
func (s *Sink) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.player.Play()
		s.started = true
	}
}

// Stop pauses the OS stream without tearing down the underlying player.
func (s *Sink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		s.player.Pause()
		s.started = false
	}
}

// Close tears down the stream. Dropping a Sink without calling Close leaks
// the underlying oto player, matching oto/v3's own resource contract.
func (s *Sink) Close() error {
	if err := deviceStartupLock.Acquire(context.Background(), 1); err != nil {
		return err
	}
	defer deviceStartupLock.Release(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.player != nil {
		err := s.player.Close()
		s.player = nil
		return err
	}
	return nil
}

// Config returns the resolved configuration this sink was built with.
func (s *Sink) Config() Config { return s.cfg }
