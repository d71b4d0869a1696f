package device

import "fmt"

// ErrorKind tags the variant of a SinkError.
type ErrorKind int

const (
	// ErrNoDevice means no output device is available on the system.
	ErrNoDevice ErrorKind = iota
	// ErrDefaultConfig means the device's default output configuration
	// could not be retrieved.
	ErrDefaultConfig
	// ErrBuildStream means the platform audio layer refused to open a
	// stream with the resolved configuration.
	ErrBuildStream
	// ErrUnsupportedSampleFormat means the requested SampleFormat has no
	// representation the transport can carry.
	ErrUnsupportedSampleFormat
	// ErrUnsupportedByDevice means a fully-specified configuration
	// (channel count, rate, buffer size, format) is not offered by the
	// selected device.
	ErrUnsupportedByDevice
)

// SinkError is the tagged error type returned by the device builder.
type SinkError struct {
	Kind  ErrorKind
	Cause error
}

func (e *SinkError) Error() string {
	switch e.Kind {
	case ErrNoDevice:
		return "device: no output device available"
	case ErrDefaultConfig:
		return fmt.Sprintf("device: could not get default output configuration: %v", e.Cause)
	case ErrBuildStream:
		return fmt.Sprintf("device: failed to open output stream: %v", e.Cause)
	case ErrUnsupportedSampleFormat:
		return "device: sample format not supported by the transport"
	case ErrUnsupportedByDevice:
		return "device: requested configuration not supported by this device"
	default:
		return "device: unknown error"
	}
}

func (e *SinkError) Unwrap() error { return e.Cause }
