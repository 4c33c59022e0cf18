package client

import (
	"encoding/json"
	"hash/fnv"
	"sync"
	"time"

	"github.com/google/uuid"
)

const defaultSubmissionTTL = time.Minute

// submissionKeys hands out idempotency keys for form submissions. Repeats of
// the same payload within the TTL get the SAME key back, so a double-fired
// submit reaches the server as one logical request and the second response
// is replayed from the dedup window rather than re-executed. A changed
// payload or an expired window gets a fresh key.
type submissionKeys struct {
	mu  sync.Mutex
	ttl time.Duration
	// keyed by payload content hash
	entries map[uint64]submissionEntry
}

type submissionEntry struct {
	key      string
	issuedAt time.Time
}

func newSubmissionKeys(ttl time.Duration) *submissionKeys {
	return &submissionKeys{
		ttl:     ttl,
		entries: make(map[uint64]submissionEntry),
	}
}

// KeyFor returns the idempotency key for the payload at the given time.
func (s *submissionKeys) KeyFor(payload any, now time.Time) string {
	data, err := json.Marshal(payload)
	if err != nil {
		// Unhashable payload; a fresh key just means no client-side reuse.
		return uuid.NewString()
	}

	h := fnv.New64a()
	_, _ = h.Write(data)
	sum := h.Sum64()

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.entries[sum]; ok && now.Sub(entry.issuedAt) < s.ttl {
		return entry.key
	}

	key := uuid.NewString()
	s.entries[sum] = submissionEntry{key: key, issuedAt: now}

	// Drop stale entries while we hold the lock; the map only ever holds a
	// handful of recent submissions.
	for k, e := range s.entries {
		if now.Sub(e.issuedAt) >= s.ttl {
			delete(s.entries, k)
		}
	}

	return key
}
