// Package sonora defines the core types shared by every layer of the audio
// engine: the sample primitive, channel/rate metadata, the pull-based Source
// abstraction and its seek error taxonomy.
package sonora

import (
	"fmt"
	"time"
)

// Sample is a single audio value. Nominally in [-1.0, 1.0]; combinators may
// produce transient excursions outside that range (the limiter assumes this).
type Sample = float32

// ChannelCount is the number of interleaved channels in a frame.
type ChannelCount int

// SampleRate is samples per second, per channel.
type SampleRate int

// BitDepth describes a source's original precision. Informational only;
// consumed by the dither package.
type BitDepth int

// EquilibriumSample is the zero-signal value for the float sample domain.
const EquilibriumSample Sample = 0.0

// Source is the core polymorphic abstraction: a finite-or-infinite lazy
// sequence of samples plus format metadata. Every combinator wraps exactly
// one inner Source and owns it exclusively.
type Source interface {
	// Next returns the next sample, or ok=false when the source is
	// exhausted. Exhaustion is permanent: once Next returns false, later
	// calls must keep returning false (unless explicitly reset by a seek).
	Next() (Sample, bool)

	// Channels returns the number of interleaved channels. Constant across
	// any span this source declares via CurrentSpanLen.
	Channels() ChannelCount

	// SampleRate returns samples per second per channel.
	SampleRate() SampleRate

	// CurrentSpanLen returns:
	//   n > 0: exactly n samples remain in the current span
	//   0:     the source is exhausted
	//   -1:    span boundaries are unknown (sentinel for "None")
	CurrentSpanLen() int

	// TotalDuration returns the source's total duration, or false if
	// infinite or unknown.
	TotalDuration() (time.Duration, bool)

	// TrySeek attempts to move the read position to pos.
	TrySeek(pos time.Duration) error
}

// SpanUnknown is the sentinel CurrentSpanLen value meaning span boundaries
// are not known ahead of time; combinators that care must poll Channels/
// SampleRate after every sample to detect a boundary.
const SpanUnknown = -1

// SeekErrorKind tags the variant of a SeekError.
type SeekErrorKind int

const (
	// SeekNotSupported means the underlying source cannot seek at all.
	SeekNotSupported SeekErrorKind = iota
	// SeekForwardOnly means the source can only seek forward.
	SeekForwardOnly
	// SeekOther wraps an opaque failure from a seekable source.
	SeekOther
)

// SeekError is the tagged error type returned by TrySeek.
type SeekError struct {
	Kind       SeekErrorKind
	SourceType string // for SeekNotSupported: identifies the offending source
	Cause      error  // for SeekOther
}

func (e *SeekError) Error() string {
	switch e.Kind {
	case SeekNotSupported:
		return fmt.Sprintf("sonora: seek not supported by %s", e.SourceType)
	case SeekForwardOnly:
		return "sonora: source only supports seeking forward"
	default:
		if e.Cause != nil {
			return fmt.Sprintf("sonora: seek failed: %v", e.Cause)
		}
		return "sonora: seek failed"
	}
}

func (e *SeekError) Unwrap() error { return e.Cause }

// NotSupportedError builds a SeekError for a source with no seek support.
func NotSupportedError(sourceType string) *SeekError {
	return &SeekError{Kind: SeekNotSupported, SourceType: sourceType}
}

// ForwardOnlyError builds a SeekError for a source that can only seek ahead.
func ForwardOnlyError() *SeekError {
	return &SeekError{Kind: SeekForwardOnly}
}

// OtherSeekError wraps an opaque seek failure.
func OtherSeekError(cause error) *SeekError {
	return &SeekError{Kind: SeekOther, Cause: cause}
}

// FrameAligned reports whether n is a whole number of frames for the given
// channel count.
func FrameAligned(n int, channels ChannelCount) bool {
	return n%int(channels) == 0
}

// CeilFrames rounds n up to the next multiple of channels.
func CeilFrames(n int, channels ChannelCount) int {
	c := int(channels)
	if c <= 0 {
		return n
	}
	rem := n % c
	if rem == 0 {
		return n
	}
	return n + (c - rem)
}
