package decoder

import (
	"io"

	"github.com/mewkiz/flac"

	"github.com/zaynotley/sonora"
)

// FlacDecoder decodes FLAC via mewkiz/flac, reading one frame at a time and
// interleaving its subframes into the shared pull-based Next() contract.
type FlacDecoder struct {
	stream   *flac.Stream
	seekable bool

	chans    int
	rate     int
	maxValue float64
	nSamples uint64

	frameBuf []int32 // interleaved samples from the current frame
	pos      int
	done     bool
}

func newFlacDecoder(r ReadSeeker, settings Settings) (sonoraDecoder, error) {
	var stream *flac.Stream
	var err error
	seekable := settings.Seekable
	if seekable {
		stream, err = flac.NewSeek(r)
	} else {
		stream, err = flac.New(r)
	}
	if err != nil {
		return nil, unrecognisedFormat()
	}
	if stream.Info.NChannels == 0 {
		return nil, noStreams()
	}

	bps := int(stream.Info.BitsPerSample)
	if bps == 0 {
		bps = 16
	}

	return &FlacDecoder{
		stream:   stream,
		seekable: seekable,
		chans:    int(stream.Info.NChannels),
		rate:     int(stream.Info.SampleRate),
		maxValue: float64(int64(1) << uint(bps-1)),
		nSamples: stream.Info.NSamples,
	}, nil
}

// refill parses the next FLAC frame. A malformed frame (checksum mismatch,
// truncated subframe) is skipped and retried up to maxConsecutiveDecodeErrors
// times before giving up entirely; reaching io.EOF always ends the stream
// immediately regardless of how many retries remain.
func (f *FlacDecoder) refill() {
	for attempt := 0; attempt <= maxConsecutiveDecodeErrors; attempt++ {
		frame, err := f.stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		blockSize := len(frame.Subframes[0].Samples)
		buf := make([]int32, 0, blockSize*f.chans)
		for i := 0; i < blockSize; i++ {
			for _, sub := range frame.Subframes {
				buf = append(buf, sub.Samples[i])
			}
		}
		f.frameBuf = buf
		f.pos = 0
		return
	}
	f.done = true
	f.frameBuf = nil
	f.pos = 0
}

func (f *FlacDecoder) next() (float32, bool) {
	if f.pos >= len(f.frameBuf) {
		if f.done {
			return 0, false
		}
		f.refill()
		if len(f.frameBuf) == 0 {
			return 0, false
		}
	}
	v := f.frameBuf[f.pos]
	f.pos++
	return float32(float64(v) / f.maxValue), true
}

func (f *FlacDecoder) channels() int       { return f.chans }
func (f *FlacDecoder) sampleRate() int     { return f.rate }
func (f *FlacDecoder) currentSpanLen() int { return 0 }

func (f *FlacDecoder) totalDuration() (int64, bool) {
	if f.nSamples == 0 || f.rate == 0 {
		return 0, false
	}
	seconds := float64(f.nSamples) / float64(f.rate)
	return int64(seconds * 1e9), true
}

func (f *FlacDecoder) trySeek(posNanos int64) error {
	if !f.seekable {
		return sonora.NotSupportedError("decoder.FlacDecoder")
	}
	target := uint64(float64(posNanos) / 1e9 * float64(f.rate))
	if _, err := f.stream.Seek(target); err != nil {
		return sonora.OtherSeekError(err)
	}
	f.frameBuf = nil
	f.pos = 0
	f.done = false
	return nil
}
