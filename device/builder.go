package device

import (
	"github.com/zaynotley/sonora"
	"github.com/zaynotley/sonora/dither"
)

// Builder composes a device sink: a device must be chosen (only "default"
// is available — oto/v3 has no device enumeration API, unlike cpal) and a
// configuration must be chosen, optionally adjusted by preference lists
// that fall back to the default value on no match.
type Builder struct {
	config Config

	channelPrefs Preference[sonora.ChannelCount]
	ratePrefs    Preference[sonora.SampleRate]
	bufferPrefs  Preference[BufferSize]
}

// NewBuilder starts from DefaultConfig.
func NewBuilder() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithDefaultDevice is a no-op placeholder: oto/v3 always opens the
// platform's default output device. Kept so call sites read the same way
// they would against a backend with real device enumeration.
func (b *Builder) WithDefaultDevice() *Builder { return b }

// WithConfig replaces the configuration outright.
func (b *Builder) WithConfig(cfg Config) *Builder { b.config = cfg; return b }

// WithDither enables dithering for sources installed via Sink.SetSource,
// applied only when SampleFormat is a fixed-point format. seed makes the
// dither noise reproducible across runs.
func (b *Builder) WithDither(algo dither.Algorithm, seed uint64) *Builder {
	b.config.Dither = DitherSetting{Enabled: true, Algorithm: algo, Seed: seed}
	return b
}

// WithChannelCountPreference tries each count in order, falling back to the
// current config's channel count if none are accepted by supported.
func (b *Builder) WithChannelCountPreference(prefs Preference[sonora.ChannelCount]) *Builder {
	b.channelPrefs = prefs
	return b
}

// WithSampleRatePreference tries each rate in order, falling back to the
// current config's sample rate if none are accepted by supported.
func (b *Builder) WithSampleRatePreference(prefs Preference[sonora.SampleRate]) *Builder {
	b.ratePrefs = prefs
	return b
}

// WithBufferSizePreference tries each size in order, falling back to the
// current config's buffer size if none are accepted by supported.
func (b *Builder) WithBufferSizePreference(prefs Preference[BufferSize]) *Builder {
	b.bufferPrefs = prefs
	return b
}

// supportedChannelCount, supportedSampleRate and supportedBufferSize
// describe what oto's Float32LE transport accepts: any positive channel
// count and sample rate, and any buffer size, since oto itself re-buffers
// internally. A real hardware-enumerating backend would narrow these to
// what the device reports.
func (b *Builder) supportedChannelCount(c sonora.ChannelCount) bool { return c >= 1 }
func (b *Builder) supportedSampleRate(r sonora.SampleRate) bool     { return r >= 1 }
func (b *Builder) supportedBufferSize(BufferSize) bool              { return true }

func (b *Builder) resolve() Config {
	cfg := b.config
	if len(b.channelPrefs) > 0 {
		cfg.ChannelCount = resolve(b.channelPrefs, cfg.ChannelCount, b.supportedChannelCount)
	}
	if len(b.ratePrefs) > 0 {
		cfg.SampleRate = resolve(b.ratePrefs, cfg.SampleRate, b.supportedSampleRate)
	}
	if len(b.bufferPrefs) > 0 {
		cfg.BufferSize = resolve(b.bufferPrefs, cfg.BufferSize, b.supportedBufferSize)
	}
	return cfg
}

// Build resolves preferences against the (nominal) device and opens a
// Sink backed by that configuration.
func (b *Builder) Build() (*Sink, error) {
	cfg := b.resolve()
	if cfg.ChannelCount < 1 || cfg.SampleRate < 1 {
		return nil, &SinkError{Kind: ErrUnsupportedByDevice}
	}
	return newSink(cfg)
}
