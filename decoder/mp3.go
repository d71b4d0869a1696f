package decoder

import (
	"encoding/binary"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/zaynotley/sonora"
)

// mp3ReadBytes is the number of raw PCM bytes pulled per refill; go-mp3
// always emits 16-bit signed stereo, 4 bytes per frame.
const mp3ReadBytes = 4096 * 4

// Mp3Decoder decodes MPEG audio via hajimehoshi/go-mp3, which always
// produces 16-bit signed little-endian stereo PCM regardless of the
// source's original channel count.
type Mp3Decoder struct {
	dec  *mp3.Decoder
	rate int

	raw  []byte
	pos  int
	done bool

	byteLength int64 // -1 if unknown
}

func newMp3Decoder(r ReadSeeker, settings Settings) (sonoraDecoder, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, unrecognisedFormat()
	}
	return &Mp3Decoder{dec: dec, rate: dec.SampleRate(), byteLength: dec.Length()}, nil
}

func (m *Mp3Decoder) refill() {
	buf := make([]byte, mp3ReadBytes)
	n, err := io.ReadFull(m.dec, buf)
	if n == 0 || (err != nil && err != io.ErrUnexpectedEOF) {
		m.done = true
		m.raw = nil
		m.pos = 0
		return
	}
	// Truncate to a whole number of stereo frames (4 bytes each).
	n -= n % 4
	m.raw = buf[:n]
	m.pos = 0
}

func (m *Mp3Decoder) next() (float32, bool) {
	if m.pos+2 > len(m.raw) {
		if m.done {
			return 0, false
		}
		m.refill()
		if m.pos+2 > len(m.raw) {
			return 0, false
		}
	}
	v := int16(binary.LittleEndian.Uint16(m.raw[m.pos : m.pos+2]))
	m.pos += 2
	return float32(v) / 32768.0, true
}

func (m *Mp3Decoder) channels() int       { return 2 }
func (m *Mp3Decoder) sampleRate() int     { return m.rate }
func (m *Mp3Decoder) currentSpanLen() int { return 0 }

func (m *Mp3Decoder) totalDuration() (int64, bool) {
	if m.byteLength <= 0 || m.rate == 0 {
		return 0, false
	}
	frames := m.byteLength / 4
	seconds := float64(frames) / float64(m.rate)
	return int64(seconds * 1e9), true
}

func (m *Mp3Decoder) trySeek(posNanos int64) error {
	frame := int64(float64(posNanos) / 1e9 * float64(m.rate))
	bytePos := frame * 4
	if _, err := m.dec.Seek(bytePos, io.SeekStart); err != nil {
		return sonora.OtherSeekError(err)
	}
	m.raw = nil
	m.pos = 0
	m.done = false
	return nil
}
