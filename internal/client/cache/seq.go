package cache

import "sync"

// SeqTracker issues monotonically increasing sequence numbers per cache key.
// A fetch takes a number before going to the network and applies its result
// only if it is still the latest issued for that key; a slow stale response
// can then never overwrite a fresher one.
type SeqTracker struct {
	mu     sync.Mutex
	latest map[string]uint64
}

// NewSeqTracker returns an empty tracker.
func NewSeqTracker() *SeqTracker {
	return &SeqTracker{latest: make(map[string]uint64)}
}

// Begin issues the next sequence number for key.
func (t *SeqTracker) Begin(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest[key]++
	return t.latest[key]
}

// Latest reports whether seq is still the most recent number issued for key.
func (t *SeqTracker) Latest(key string, seq uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest[key] == seq
}
