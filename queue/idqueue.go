package queue

import (
	"sync"

	"github.com/zaynotley/sonora"
)

// idEntry is one queued source tagged with a caller-assigned id, so it can
// be removed or reordered before it starts playing.
type idEntry struct {
	id     uint64
	source sonora.Source
	done   chan<- struct{}
}

// IDInput is a queue input whose entries can be removed or swapped by id
// while still pending, useful for playlists where the caller needs to drop
// or reorder a not-yet-played track.
type IDInput struct {
	mu            sync.Mutex
	pending       []idEntry
	keepAliveFlag boolFlag
}

type boolFlag struct {
	v bool
	m sync.Mutex
}

func (b *boolFlag) set(v bool) { b.m.Lock(); b.v = v; b.m.Unlock() }
func (b *boolFlag) get() bool  { b.m.Lock(); defer b.m.Unlock(); return b.v }

// NewID builds an id-addressable queue.
func NewID(keepAliveIfEmpty bool) (*IDInput, *Output) {
	in := &IDInput{}
	in.keepAliveFlag.set(keepAliveIfEmpty)
	out := &Output{current: emptySource{}, input: in}
	return in, out
}

// Append adds src to the end of the queue under id.
func (in *IDInput) Append(id uint64, src sonora.Source) {
	in.mu.Lock()
	in.pending = append(in.pending, idEntry{id: id, source: src})
	in.mu.Unlock()
}

// AppendWithSignal adds src to the end of the queue under id and returns a
// channel closed once src finishes playing (or is removed before it starts).
func (in *IDInput) AppendWithSignal(id uint64, src sonora.Source) <-chan struct{} {
	ch := make(chan struct{})
	in.mu.Lock()
	in.pending = append(in.pending, idEntry{id: id, source: src, done: ch})
	in.mu.Unlock()
	return ch
}

// Remove drops the pending entry with the given id, if any, and reports
// whether one was found. Removing the currently-playing entry is not
// supported; use Skippable upstream of the queue for that.
func (in *IDInput) Remove(id uint64) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	for i, e := range in.pending {
		if e.id == id {
			if e.done != nil {
				close(e.done)
			}
			in.pending = append(in.pending[:i], in.pending[i+1:]...)
			return true
		}
	}
	return false
}

// Swap exchanges the queue positions of the entries with ids a and b. It
// reports false if either id isn't found among the pending entries.
func (in *IDInput) Swap(a, b uint64) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	ia, ib := -1, -1
	for i, e := range in.pending {
		switch e.id {
		case a:
			ia = i
		case b:
			ib = i
		}
	}
	if ia < 0 || ib < 0 {
		return false
	}
	in.pending[ia], in.pending[ib] = in.pending[ib], in.pending[ia]
	return true
}

// SetKeepAliveIfEmpty changes whether the queue emits silence or terminates
// when it runs dry.
func (in *IDInput) SetKeepAliveIfEmpty(keepAlive bool) { in.keepAliveFlag.set(keepAlive) }

// Clear removes every queued (not yet playing) source and returns how many
// were removed.
func (in *IDInput) Clear() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	n := len(in.pending)
	for _, e := range in.pending {
		if e.done != nil {
			close(e.done)
		}
	}
	in.pending = nil
	return n
}

func (in *IDInput) hasNext() bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.pending) > 0
}

func (in *IDInput) next() (entry, bool) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.pending) == 0 {
		return entry{}, false
	}
	e := in.pending[0]
	in.pending = in.pending[1:]
	return entry{source: e.source, done: e.done}, true
}

func (in *IDInput) keepAliveIfEmpty() bool { return in.keepAliveFlag.get() }
