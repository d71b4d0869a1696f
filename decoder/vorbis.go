package decoder

import (
	"github.com/jfreymuth/oggvorbis"

	"github.com/zaynotley/sonora"
)

// vorbisReadSamples is the number of interleaved float32 values pulled per
// refill.
const vorbisReadSamples = 4096

// VorbisDecoder decodes Ogg/Vorbis via jfreymuth/oggvorbis, which already
// produces float32 samples so no normalization is needed.
type VorbisDecoder struct {
	r     *oggvorbis.Reader
	chans int
	rate  int

	buffer []float32
	pos    int
	done   bool
}

func newVorbisDecoder(rs ReadSeeker, settings Settings) (sonoraDecoder, error) {
	r, err := oggvorbis.NewReader(rs)
	if err != nil {
		return nil, unrecognisedFormat()
	}
	if r.Channels() == 0 {
		return nil, noStreams()
	}
	return &VorbisDecoder{r: r, chans: r.Channels(), rate: r.SampleRate()}, nil
}

func (v *VorbisDecoder) refill() {
	buf := make([]float32, vorbisReadSamples)
	n, err := v.r.Read(buf)
	if n == 0 || err != nil {
		v.done = true
		v.buffer = nil
		v.pos = 0
		return
	}
	v.buffer = buf[:n]
	v.pos = 0
}

func (v *VorbisDecoder) next() (float32, bool) {
	if v.pos >= len(v.buffer) {
		if v.done {
			return 0, false
		}
		v.refill()
		if len(v.buffer) == 0 {
			return 0, false
		}
	}
	s := v.buffer[v.pos]
	v.pos++
	return s, true
}

func (v *VorbisDecoder) channels() int       { return v.chans }
func (v *VorbisDecoder) sampleRate() int     { return v.rate }
func (v *VorbisDecoder) currentSpanLen() int { return 0 }

func (v *VorbisDecoder) totalDuration() (int64, bool) {
	length := v.r.Length()
	if length <= 0 || v.rate == 0 {
		return 0, false
	}
	seconds := float64(length) / float64(v.rate)
	return int64(seconds * 1e9), true
}

func (v *VorbisDecoder) trySeek(posNanos int64) error {
	target := int64(float64(posNanos) / 1e9 * float64(v.rate))
	if err := v.r.SetPosition(target); err != nil {
		return sonora.OtherSeekError(err)
	}
	v.buffer = nil
	v.pos = 0
	v.done = false
	return nil
}
