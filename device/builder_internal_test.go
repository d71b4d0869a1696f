package device

import (
	"testing"

	"github.com/zaynotley/sonora"
)

func TestResolvePreferenceFallsBackWhenNoneSupported(t *testing.T) {
	prefs := Preference[sonora.ChannelCount]{0, -1}
	got := resolve(prefs, sonora.ChannelCount(2), func(c sonora.ChannelCount) bool { return c >= 1 })
	if got != 2 {
		t.Fatalf("expected fallback 2, got %d", got)
	}
}

func TestResolvePreferencePicksFirstSupported(t *testing.T) {
	prefs := Preference[sonora.SampleRate]{0, 48000, 44100}
	got := resolve(prefs, sonora.SampleRate(44100), func(r sonora.SampleRate) bool { return r >= 1 })
	if got != 48000 {
		t.Fatalf("expected 48000, got %d", got)
	}
}

func TestBuilderResolveAppliesChannelPreference(t *testing.T) {
	b := NewBuilder().WithChannelCountPreference(Preference[sonora.ChannelCount]{0, 6, 2})
	cfg := b.resolve()
	if cfg.ChannelCount != 6 {
		t.Fatalf("expected channel count 6, got %d", cfg.ChannelCount)
	}
}

func TestBuilderResolveLeavesConfigWhenNoPreferences(t *testing.T) {
	b := NewBuilder()
	cfg := b.resolve()
	if cfg != DefaultConfig() {
		t.Fatalf("expected default config unchanged")
	}
}
