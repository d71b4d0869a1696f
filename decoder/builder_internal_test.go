package decoder

import "testing"

func TestOrderedProbesMovesHintToFront(t *testing.T) {
	b := &Builder{settings: Settings{Hint: "flac"}}
	probes := b.orderedProbes()
	if probes[0].name != "flac" {
		t.Fatalf("expected flac first, got %s", probes[0].name)
	}
	if len(probes) != len(probeOrder()) {
		t.Fatalf("expected %d probes, got %d", len(probeOrder()), len(probes))
	}
}

func TestOrderedProbesMovesMimeHintToFront(t *testing.T) {
	b := &Builder{settings: Settings{MimeType: "audio/mpeg"}}
	probes := b.orderedProbes()
	if probes[0].name != "mp3" {
		t.Fatalf("expected mp3 first, got %s", probes[0].name)
	}
}

func TestSniffOrderMovesMagicMatchToFront(t *testing.T) {
	header := append([]byte("fLaC"), make([]byte, 12)...)
	probes := sniffOrder(probeOrder(), header)
	if probes[0].name != "flac" {
		t.Fatalf("expected flac first from fLaC magic, got %s", probes[0].name)
	}
	if len(probes) != len(probeOrder()) {
		t.Fatalf("expected %d probes, got %d", len(probeOrder()), len(probes))
	}
}

func TestSniffOrderLeavesDefaultOrderWhenNoMagicMatches(t *testing.T) {
	header := []byte("not a known magic number")
	probes := sniffOrder(probeOrder(), header)
	want := probeOrder()
	for i := range want {
		if probes[i].name != want[i].name {
			t.Fatalf("order mismatch at %d: got %s want %s", i, probes[i].name, want[i].name)
		}
	}
}

func TestMagicMatchRecognisesEachFormat(t *testing.T) {
	riff := append([]byte("RIFF"), append(make([]byte, 4), []byte("WAVE")...)...)
	if !magicMatch("wav", riff) {
		t.Fatalf("expected wav to match RIFF/WAVE header")
	}
	if !magicMatch("flac", []byte("fLaC")) {
		t.Fatalf("expected flac to match fLaC header")
	}
	if !magicMatch("ogg", []byte("OggS")) {
		t.Fatalf("expected ogg to match OggS header")
	}
	if magicMatch("mp3", []byte{0x00, 0x00}) {
		t.Fatalf("mp3 has no fixed magic number, expected no match")
	}
}

func TestOrderedProbesNoHintKeepsDefaultOrder(t *testing.T) {
	b := &Builder{}
	probes := b.orderedProbes()
	want := probeOrder()
	if len(probes) != len(want) {
		t.Fatalf("length mismatch")
	}
	for i := range want {
		if probes[i].name != want[i].name {
			t.Fatalf("order mismatch at %d: got %s want %s", i, probes[i].name, want[i].name)
		}
	}
}
