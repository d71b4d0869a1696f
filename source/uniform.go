package source

import (
	"time"

	"github.com/zaynotley/sonora"
)

// spanLimited truncates the inner source to at most n samples when n is
// known, otherwise passes every sample through unchanged.
type spanLimited struct {
	inner     sonora.Source
	remaining int // -1 means unlimited
}

func (s *spanLimited) Next() (sonora.Sample, bool) {
	if s.remaining == 0 {
		return 0, false
	}
	v, ok := s.inner.Next()
	if !ok {
		return 0, false
	}
	if s.remaining > 0 {
		s.remaining--
	}
	return v, true
}

func (s *spanLimited) Channels() sonora.ChannelCount        { return s.inner.Channels() }
func (s *spanLimited) SampleRate() sonora.SampleRate        { return s.inner.SampleRate() }
func (s *spanLimited) CurrentSpanLen() int                  { return s.remaining }
func (s *spanLimited) TotalDuration() (time.Duration, bool) { return s.inner.TotalDuration() }
func (s *spanLimited) TrySeek(pos time.Duration) error      { return s.inner.TrySeek(pos) }

// Resampler is the narrow interface UniformSourceIterator needs from the
// resample package, kept here so that source does not import resample
// (resample depends on nothing in source).
type Resampler interface {
	sonora.Source
}

// ResamplerFactory builds a rate converter for one bootstrap span.
type ResamplerFactory func(inner sonora.Source, from, to sonora.SampleRate, channels sonora.ChannelCount) Resampler

// UniformSourceIterator re-chunks an inner source's samples, which may
// change channel count or sample rate at every span boundary, into a single
// uniform stream at a fixed target channel count and sample rate. It
// bootstraps a fresh rate/channel conversion pipeline for each span: when
// the current pipeline is exhausted, it re-reads the inner source's (now
// possibly different) channel count and sample rate and rebuilds the
// pipeline, the way the inner source's span boundaries are meant to be
// consumed.
type UniformSourceIterator struct {
	inner           sonora.Source
	targetChannels  sonora.ChannelCount
	targetRate      sonora.SampleRate
	makeResampler   ResamplerFactory
	pipeline        sonora.Source
}

// NewUniformSourceIterator wraps inner, converting every span to
// targetChannels/targetRate via makeResampler.
func NewUniformSourceIterator(inner sonora.Source, targetChannels sonora.ChannelCount, targetRate sonora.SampleRate, makeResampler ResamplerFactory) *UniformSourceIterator {
	u := &UniformSourceIterator{
		inner:          inner,
		targetChannels: targetChannels,
		targetRate:     targetRate,
		makeResampler:  makeResampler,
	}
	u.pipeline = u.bootstrap()
	return u
}

func (u *UniformSourceIterator) bootstrap() sonora.Source {
	frameLen := u.inner.CurrentSpanLen()
	fromChannels := u.inner.Channels()
	fromRate := u.inner.SampleRate()

	limited := &spanLimited{inner: u.inner, remaining: frameLen}

	var rateConverted sonora.Source = limited
	if fromRate != u.targetRate {
		rateConverted = u.makeResampler(limited, fromRate, u.targetRate, fromChannels)
	}

	var channelConverted sonora.Source = rateConverted
	if fromChannels != u.targetChannels {
		channelConverted = NewChannelCountConverter(rateConverted, fromChannels, u.targetChannels)
	}

	return channelConverted
}

func (u *UniformSourceIterator) Next() (sonora.Sample, bool) {
	if v, ok := u.pipeline.Next(); ok {
		return v, true
	}
	u.pipeline = u.bootstrap()
	return u.pipeline.Next()
}

func (u *UniformSourceIterator) Channels() sonora.ChannelCount { return u.targetChannels }
func (u *UniformSourceIterator) SampleRate() sonora.SampleRate { return u.targetRate }
func (u *UniformSourceIterator) CurrentSpanLen() int           { return sonora.SpanUnknown }
func (u *UniformSourceIterator) TotalDuration() (time.Duration, bool) {
	return u.inner.TotalDuration()
}
func (u *UniformSourceIterator) TrySeek(pos time.Duration) error {
	if err := u.inner.TrySeek(pos); err != nil {
		return err
	}
	u.pipeline = u.bootstrap()
	return nil
}
