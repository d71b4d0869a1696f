package decoder

import (
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/zaynotley/sonora"
)

// wavReadFrames is the number of frames pulled from the underlying decoder
// per refill, chosen to keep PCMBuffer calls infrequent without holding a
// large buffer.
const wavReadFrames = 4096

// WavDecoder decodes RIFF/WAVE PCM via go-audio/wav.
type WavDecoder struct {
	dec      *wav.Decoder
	chans    int
	rate     int
	maxValue float64

	buffer []int
	pos    int
	done   bool

	byteLen int64
}

func newWavDecoder(r ReadSeeker, settings Settings) (sonoraDecoder, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, unrecognisedFormat()
	}
	dec.ReadInfo()
	if dec.NumChans == 0 {
		return nil, noStreams()
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	maxValue := float64(int64(1) << uint(bitDepth-1))

	return &WavDecoder{
		dec:      dec,
		chans:    int(dec.NumChans),
		rate:     int(dec.SampleRate),
		maxValue: maxValue,
		byteLen:  settings.ByteLen,
	}, nil
}

func (w *WavDecoder) refill() {
	buf := &goaudio.IntBuffer{
		Data:   make([]int, wavReadFrames*w.chans),
		Format: &goaudio.Format{NumChannels: w.chans, SampleRate: w.rate},
	}
	n, err := w.dec.PCMBuffer(buf)
	if n == 0 || (err != nil && err != io.EOF) {
		w.done = true
		w.buffer = nil
		w.pos = 0
		return
	}
	w.buffer = buf.Data[:n]
	w.pos = 0
}

func (w *WavDecoder) next() (float32, bool) {
	if w.pos >= len(w.buffer) {
		if w.done {
			return 0, false
		}
		w.refill()
		if len(w.buffer) == 0 {
			return 0, false
		}
	}
	v := w.buffer[w.pos]
	w.pos++
	return float32(float64(v) / w.maxValue), true
}

func (w *WavDecoder) channels() int   { return w.chans }
func (w *WavDecoder) sampleRate() int { return w.rate }

func (w *WavDecoder) currentSpanLen() int { return 0 } // single span for the file's lifetime

func (w *WavDecoder) totalDuration() (int64, bool) {
	d, err := w.dec.Duration()
	if err != nil || d <= 0 {
		return 0, false
	}
	return int64(d), true
}

// trySeek is unsupported: go-audio/wav exposes a forward-only PCM reader
// with no public seek-by-time API.
func (w *WavDecoder) trySeek(posNanos int64) error {
	return sonora.NotSupportedError("decoder.WavDecoder")
}
