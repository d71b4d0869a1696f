package resample

import (
	"time"

	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/internal/dsp"
)

// engine is the narrow interface the chunked driver needs from whichever
// interpolation family (polynomial or sinc) is in play.
type engine interface {
	// process consumes real (non-padding) input frames from in (frames,
	// channels floats each) and appends interpolated output frames to out.
	// realFrames may be less than len(in)/channels when the input ran dry
	// mid-chunk; frames beyond realFrames are zero-padding.
	// Returns the number of input frames actually consumed.
	process(in []sonora.Sample, channels int, realFrames int, out *[]sonora.Sample) int
	// delay is the engine's warmup length in output frames; the driver
	// discards delay-1 frames from the very first chunk so the first emitted
	// frame aligns with input frame 0.
	delay() int
}

// polynomialEngine implements chunk-based Lagrange interpolation with no
// anti-aliasing filter — cheap, appropriate when source and target rates
// are close or anti-aliasing doesn't matter (e.g. speed changes for short
// sound effects).
type polynomialEngine struct {
	degree     Degree
	from, to   int // reduced ratio
	points     int
	history    []sonora.Sample // channels * points, the last `points` input frames
	channels   int
	historyLen int // number of valid frames currently in history (<= points)
	framePos   float64
}

func newPolynomialEngine(degree Degree, from, to int) *polynomialEngine {
	return &polynomialEngine{degree: degree, from: from, to: to, points: degree.pointCount()}
}

func (e *polynomialEngine) delay() int { return 0 }

func (e *polynomialEngine) process(in []sonora.Sample, channels int, realFrames int, out *[]sonora.Sample) int {
	if e.channels == 0 {
		e.channels = channels
		e.history = make([]sonora.Sample, e.points*channels)
	}
	totalFrames := len(in) / channels
	consumedFrames := 0

	step := float64(e.from) / float64(e.to)

	pushFrame := func(frameIdx int) {
		copy(e.history, e.history[channels:])
		copy(e.history[(e.points-1)*channels:], in[frameIdx*channels:frameIdx*channels+channels])
		if e.historyLen < e.points {
			e.historyLen++
		}
	}

	for e.historyLen < e.points && consumedFrames < totalFrames {
		pushFrame(consumedFrames)
		consumedFrames++
	}

	for e.framePos < float64(totalFrames-e.points+1) {
		frac := e.framePos - float64(int(e.framePos))
		for c := 0; c < channels; c++ {
			pts := make([]float64, e.points)
			for p := 0; p < e.points; p++ {
				pts[p] = float64(e.history[p*channels+c])
			}
			*out = append(*out, sonora.Sample(lagrange(pts, frac+float64(e.points)/2.0-0.5)))
		}
		e.framePos += step
		for int(e.framePos) > consumedFrames-e.points+1 && consumedFrames < totalFrames {
			pushFrame(consumedFrames)
			consumedFrames++
		}
	}

	if realFrames < totalFrames {
		// Don't report padding frames as consumed.
		if consumedFrames > realFrames {
			consumedFrames = realFrames
		}
	}
	e.framePos -= float64(consumedFrames)
	return consumedFrames
}

// sincEngine implements windowed-sinc interpolation for anti-aliased
// resampling, using a precomputed oversampled kernel table.
type sincEngine struct {
	kernel   *sincKernel
	interp   Interp
	history  []sonora.Sample
	channels int
	framePos float64
	ratio    float64 // to/from
}

func newSincEngine(cfg Config, from, to int) *sincEngine {
	// Fixed-ratio dispatch: within MaxFixedRatio, force the kernel's
	// oversampling factor to the reduced output term `to` and read it with
	// nearest-entry lookup. Output positions advance by from/to input frames,
	// so every fractional position is a multiple of 1/to and lands exactly on
	// a table entry: there is no interpolation error despite never doing an
	// actual FFT convolution.
	if from <= MaxFixedRatio && to <= MaxFixedRatio {
		cfg.Oversampling = to
		cfg.Intermediate = InterpNearest
	}
	return &sincEngine{
		kernel: newSincKernel(cfg),
		interp: cfg.Intermediate,
		ratio:  float64(to) / float64(from),
	}
}

func (e *sincEngine) delay() int { return e.kernel.delay }

func (e *sincEngine) process(in []sonora.Sample, channels int, realFrames int, out *[]sonora.Sample) int {
	if e.channels == 0 {
		e.channels = channels
		// Seed the history with zero frames so the first outputs are the
		// filter's ramp-up: output frame delay-1 sits exactly on input frame 0.
		warmup := float64(e.kernel.delay-1) / e.ratio
		pad := e.kernel.taps/2 + int(warmup) + 1
		e.history = make([]sonora.Sample, pad*channels, (e.kernel.taps*2+pad)*channels)
		e.framePos = float64(pad) - warmup
	}
	totalFrames := len(in) / channels
	e.history = append(e.history, in...)
	availableFrames := len(e.history) / channels

	invRatio := 1.0 / e.ratio
	taps := e.kernel.taps
	consumedThrough := 0

	for {
		center := e.framePos
		lo := int(center) - taps/2
		hi := lo + taps
		if hi > availableFrames {
			break
		}
		if lo < 0 {
			e.framePos += invRatio
			continue
		}
		for c := 0; c < channels; c++ {
			var acc float64
			for k := lo; k < hi; k++ {
				offset := float64(k) - center
				w := e.kernel.at(offset, e.interp)
				acc += float64(e.history[k*channels+c]) * w
			}
			*out = append(*out, sonora.Sample(acc))
		}
		e.framePos += invRatio
		consumedThrough = lo
	}

	if consumedThrough > 0 {
		drop := consumedThrough * channels
		if drop > len(e.history) {
			drop = len(e.history)
		}
		e.history = append([]sonora.Sample{}, e.history[drop:]...)
		e.framePos -= float64(consumedThrough)
	}

	consumed := totalFrames
	if realFrames < totalFrames {
		consumed = realFrames
	}
	return consumed
}

// Resampler converts an inner source's sample rate to target, dispatching
// to a passthrough when rates already match, otherwise driving a chunked
// interpolation engine per the configured family.
type Resampler struct {
	inner  sonora.Source
	target sonora.SampleRate
	cfg    Config

	channels sonora.ChannelCount
	fromRate sonora.SampleRate

	eng engine

	outputBuffer []sonora.Sample
	outPos       int

	totalInputFrames   uint64
	expectedOutput     uint64
	totalOutputEmitted uint64
	inputExhausted     bool
	firstChunk         bool

	chunkSize int
}

// New wraps inner, converting its sample rate to target using cfg. If
// inner's rate already equals target, Next is a passthrough.
func New(inner sonora.Source, target sonora.SampleRate, cfg Config) *Resampler {
	r := &Resampler{
		inner:      inner,
		target:     target,
		cfg:        cfg,
		channels:   inner.Channels(),
		fromRate:   inner.SampleRate(),
		firstChunk: true,
		chunkSize:  cfg.ChunkSize,
	}
	if r.chunkSize <= 0 {
		r.chunkSize = 1024
	}
	r.buildEngine()
	return r
}

func (r *Resampler) buildEngine() {
	if r.fromRate == r.target {
		r.eng = nil
		return
	}
	from, to := int(r.fromRate), int(r.target)
	g := dsp.GCD(from, to)
	from, to = from/g, to/g

	switch r.cfg.Kind {
	case KindSinc:
		r.eng = newSincEngine(r.cfg, from, to)
	default:
		r.eng = newPolynomialEngine(r.cfg.Degree, from, to)
	}
	r.firstChunk = true
}

func (r *Resampler) ratio() float64 { return float64(r.target) / float64(r.fromRate) }

func (r *Resampler) Next() (sonora.Sample, bool) {
	if r.eng == nil {
		return r.inner.Next()
	}

	for {
		// Checked before buffered output too, so the zero-padded tail of the
		// final chunk is cut at exactly ceil(input_frames × ratio) × channels.
		if r.inputExhausted {
			if r.expectedOutput == 0 {
				r.expectedOutput = uint64(float64(r.totalInputFrames)*r.ratio()+0.999999) * uint64(r.channels)
			}
			if r.totalOutputEmitted >= r.expectedOutput {
				return 0, false
			}
		}

		if r.outPos < len(r.outputBuffer) {
			s := r.outputBuffer[r.outPos]
			r.outPos++
			r.totalOutputEmitted++
			return s, true
		}

		r.fillChunk()
		if len(r.outputBuffer) == 0 {
			return 0, false
		}
	}
}

func (r *Resampler) fillChunk() {
	channels := int(r.channels)
	needed := r.chunkSize * channels
	buf := make([]sonora.Sample, 0, needed)
	realFrames := 0
	for len(buf) < needed {
		s, ok := r.inner.Next()
		if !ok {
			r.inputExhausted = true
			break
		}
		buf = append(buf, s)
		if len(buf)%channels == 0 {
			realFrames++
		}
	}
	for len(buf) < needed {
		buf = append(buf, sonora.EquilibriumSample)
	}

	var produced []sonora.Sample
	consumedFrames := r.eng.process(buf, channels, realFrames, &produced)
	r.totalInputFrames += uint64(consumedFrames)

	if r.firstChunk {
		skip := (r.eng.delay() - 1) * channels
		if skip < 0 {
			skip = 0
		}
		if skip > len(produced) {
			skip = len(produced)
		}
		produced = produced[skip:]
		r.firstChunk = false
	}

	r.outputBuffer = produced
	r.outPos = 0
}

func (r *Resampler) Channels() sonora.ChannelCount { return r.channels }
func (r *Resampler) SampleRate() sonora.SampleRate { return r.target }

// CurrentSpanLen implements the three/four regimes from the per-sample
// contract: known input span scales by the ratio; otherwise it reports
// buffered output remaining, zero on exhaustion with nothing buffered, or
// unknown when a fresh chunk is about to be pulled.
func (r *Resampler) CurrentSpanLen() int {
	if r.eng == nil {
		return r.inner.CurrentSpanLen()
	}
	if r.outPos < len(r.outputBuffer) {
		n := len(r.outputBuffer) - r.outPos
		if r.inputExhausted {
			expected := int(float64(r.totalInputFrames)*r.ratio()+0.999999) * int(r.channels)
			if left := expected - int(r.totalOutputEmitted); left < n {
				n = left
			}
			if n < 0 {
				n = 0
			}
		}
		return n
	}
	if r.inputExhausted {
		return 0
	}
	innerSpan := r.inner.CurrentSpanLen()
	if innerSpan == sonora.SpanUnknown {
		return sonora.SpanUnknown
	}
	frames := innerSpan / int(r.channels)
	outFrames := int(float64(frames) * r.ratio())
	return outFrames * int(r.channels)
}

// TotalDuration is rate-independent: resampling changes the sample count,
// not the wall-clock length, so it's forwarded unchanged.
func (r *Resampler) TotalDuration() (time.Duration, bool) { return r.inner.TotalDuration() }

func (r *Resampler) TrySeek(pos time.Duration) error {
	if err := r.inner.TrySeek(pos); err != nil {
		return err
	}
	r.outputBuffer = nil
	r.outPos = 0
	r.totalInputFrames = 0
	r.totalOutputEmitted = 0
	r.expectedOutput = 0
	r.inputExhausted = false
	r.fromRate = r.inner.SampleRate()
	r.channels = r.inner.Channels()
	r.buildEngine()
	return nil
}

// Inner returns the wrapped source.
func (r *Resampler) Inner() sonora.Source { return r.inner }
