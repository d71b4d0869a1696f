// Package decoder turns a seekable byte-stream into a sonora.Source,
// probing a fixed sequence of container/codec formats and restoring the
// stream position after each failed probe so the next one starts clean.
package decoder

import (
	"bytes"
	"context"
	"io"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// sniffHeaderLen is how many leading bytes are read once per Build call to
// cheaply rank candidate probes by magic number before the (more expensive)
// sequential decode-attempt phase. Large enough to cover every format's
// magic bytes (RIFF/WAVE's 12, the others' 3-4).
const sniffHeaderLen = 16

// sniffConcurrency caps how many probe magic-byte checks run at once. Its
// weight equals the number of probes, so every check may run concurrently;
// sniffOrder starts one goroutine per probe.
var sniffConcurrency = semaphore.NewWeighted(int64(len(probeOrder())))

// ReadSeeker is the input every decoder consumes: random-access reads plus
// the ability to report/adjust position.
type ReadSeeker interface {
	io.Reader
	io.Seeker
}

// Settings configures probing and decode behavior. Only some fields are
// consulted by every codec; unsupported combinations are ignored rather
// than rejected, matching the underlying libraries' own tolerance.
type Settings struct {
	// ByteLen is the total stream length, enabling duration calculation for
	// formats that lack embedded timing information and more reliable
	// seeking. Zero means unknown.
	ByteLen int64

	// CoarseSeek records a preference for fast, imprecise seeking. None of
	// the codecs in this package reads it.
	CoarseSeek bool

	// Gapless, together with Seekable, makes LoopedDecoder rewind by seeking
	// to zero instead of rebuilding the decoder. None of the codecs in this
	// package trims encoder padding or priming samples.
	Gapless bool

	// Hint is a format extension hint ("mp3", "wav", "flac", "ogg") that
	// reorders the probe sequence to try the hinted format first.
	Hint string

	// MimeType is a MIME hint, used the same way as Hint.
	MimeType string

	// Seekable declares whether the caller's stream supports seeking at
	// all; some containers only support forward seeks without byte_len.
	Seekable bool
}

// DefaultSettings returns the zero-value settings with Gapless enabled,
// matching the convention that most containers benefit from gapless
// trimming by default.
func DefaultSettings() Settings { return Settings{Gapless: true} }

// Builder configures and constructs a Decoder or LoopedDecoder.
type Builder struct {
	data     ReadSeeker
	settings Settings
}

// NewBuilder creates a builder with default settings and no data.
func NewBuilder() *Builder { return &Builder{settings: DefaultSettings()} }

// WithData sets the input stream to decode.
func (b *Builder) WithData(data ReadSeeker) *Builder { b.data = data; return b }

// WithByteLen sets the stream's total length, enabling reliable seeking and
// duration calculation, and marks the stream seekable.
func (b *Builder) WithByteLen(n int64) *Builder {
	b.settings.ByteLen = n
	b.settings.Seekable = true
	return b
}

// WithCoarseSeek sets Settings.CoarseSeek.
func (b *Builder) WithCoarseSeek(coarse bool) *Builder { b.settings.CoarseSeek = coarse; return b }

// WithGapless sets Settings.Gapless.
func (b *Builder) WithGapless(gapless bool) *Builder { b.settings.Gapless = gapless; return b }

// WithHint sets a format extension hint.
func (b *Builder) WithHint(hint string) *Builder { b.settings.Hint = hint; return b }

// WithMimeType sets a MIME type hint.
func (b *Builder) WithMimeType(mime string) *Builder { b.settings.MimeType = mime; return b }

// WithSeekable declares whether the stream supports seeking.
func (b *Builder) WithSeekable(seekable bool) *Builder { b.settings.Seekable = seekable; return b }

// probe is one entry in the fixed probing order: a format name (matched
// against Hint/MimeType to reorder) and a constructor.
type probe struct {
	name    string
	mime    string
	factory func(ReadSeeker, Settings) (sonoraDecoder, error)
}

// sonoraDecoder is the minimal per-codec surface Decoder dispatches to.
// Each concrete *XxxDecoder in this package implements it as well as the
// full sonora.Source interface.
type sonoraDecoder interface {
	next() (float32, bool)
	channels() int
	sampleRate() int
	currentSpanLen() int
	totalDuration() (int64, bool) // nanoseconds
	trySeek(posNanos int64) error
}

func probeOrder() []probe {
	return []probe{
		{name: "wav", mime: "audio/vnd.wav", factory: newWavDecoder},
		{name: "flac", mime: "audio/flac", factory: newFlacDecoder},
		{name: "ogg", mime: "audio/ogg", factory: newVorbisDecoder},
		{name: "mp3", mime: "audio/mpeg", factory: newMp3Decoder},
	}
}

// orderedProbes returns the probe list with the hinted format (by extension
// or MIME type) moved to the front, since a correct hint nearly always
// succeeds and skips the other probes' failed-attempt cost.
func (b *Builder) orderedProbes() []probe {
	probes := probeOrder()
	hint := b.settings.Hint
	mime := b.settings.MimeType
	if hint == "" && mime == "" {
		return probes
	}
	for i, p := range probes {
		if (hint != "" && p.name == hint) || (mime != "" && p.mime == mime) {
			reordered := make([]probe, 0, len(probes))
			reordered = append(reordered, p)
			reordered = append(reordered, probes[:i]...)
			reordered = append(reordered, probes[i+1:]...)
			return reordered
		}
	}
	return probes
}

// magicMatch reports whether header begins with the given format's magic
// bytes. mp3 has no fixed magic number (elementary streams can start
// straight on a frame sync), so it never matches and always falls back to
// its position in the default probe order.
func magicMatch(name string, header []byte) bool {
	switch name {
	case "wav":
		return len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE"))
	case "flac":
		return len(header) >= 4 && bytes.Equal(header[0:4], []byte("fLaC"))
	case "ogg":
		return len(header) >= 4 && bytes.Equal(header[0:4], []byte("OggS"))
	default:
		return false
	}
}

// sniffOrder moves whichever probe's magic bytes actually match header to
// the front of probes, checking every candidate concurrently (bounded by
// sniffConcurrency) since the probe list is fixed and small but the check
// should still not block on a single slow goroutine scheduling.
func sniffOrder(probes []probe, header []byte) []probe {
	matched := make([]bool, len(probes))

	g, ctx := errgroup.WithContext(context.Background())
	for i, p := range probes {
		i, p := i, p
		g.Go(func() error {
			if err := sniffConcurrency.Acquire(ctx, 1); err != nil {
				return err
			}
			defer sniffConcurrency.Release(1)
			matched[i] = magicMatch(p.name, header)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return probes
	}

	for i, ok := range matched {
		if ok {
			reordered := make([]probe, 0, len(probes))
			reordered = append(reordered, probes[i])
			reordered = append(reordered, probes[:i]...)
			reordered = append(reordered, probes[i+1:]...)
			return reordered
		}
	}
	return probes
}

// buildImpl runs the probe sequence, restoring the stream's read position
// after every failed attempt so the next probe starts at the same offset.
func (b *Builder) buildImpl() (sonoraDecoder, error) {
	if b.data == nil {
		return nil, unrecognisedFormat()
	}

	start, err := b.data.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, ioError(err)
	}

	probes := b.orderedProbes()
	if b.settings.Hint == "" && b.settings.MimeType == "" {
		header := make([]byte, sniffHeaderLen)
		n, _ := io.ReadFull(b.data, header)
		if _, seekErr := b.data.Seek(start, io.SeekStart); seekErr != nil {
			return nil, ioError(seekErr)
		}
		probes = sniffOrder(probes, header[:n])
	}

	for _, p := range probes {
		dec, err := p.factory(b.data, b.settings)
		if err == nil {
			return dec, nil
		}
		if _, seekErr := b.data.Seek(start, io.SeekStart); seekErr != nil {
			return nil, ioError(seekErr)
		}
	}

	return nil, unrecognisedFormat()
}

// Build constructs a Decoder, probing formats in a fixed order until one
// matches.
func (b *Builder) Build() (*Decoder, error) {
	impl, err := b.buildImpl()
	if err != nil {
		return nil, err
	}
	return &Decoder{impl: impl}, nil
}

// BuildLooped constructs a LoopedDecoder, which rewinds instead of ending.
func (b *Builder) BuildLooped() (*LoopedDecoder, error) {
	impl, err := b.buildImpl()
	if err != nil {
		return nil, err
	}
	return &LoopedDecoder{impl: impl, rewind: b.data, settings: b.settings}, nil
}
