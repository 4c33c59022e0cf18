package client

import (
	"hash/fnv"
	"sync"
	"time"
)

const defaultNoticeTTL = 3 * time.Second

// noticeDeduper suppresses repeats of the same notification content within a
// short window, keyed by a content hash rather than process-wide last-toast
// state, so unrelated notices never suppress each other.
type noticeDeduper struct {
	mu       sync.Mutex
	ttl      time.Duration
	lastHash uint64
	lastAt   time.Time
}

func newNoticeDeduper(ttl time.Duration) *noticeDeduper {
	return &noticeDeduper{ttl: ttl}
}

// Allow reports whether content should be shown at the given time. The first
// occurrence always passes; an identical repeat passes only after the TTL.
func (d *noticeDeduper) Allow(content string, now time.Time) bool {
	h := fnv.New64a()
	_, _ = h.Write([]byte(content))
	sum := h.Sum64()

	d.mu.Lock()
	defer d.mu.Unlock()

	if sum == d.lastHash && now.Sub(d.lastAt) < d.ttl {
		return false
	}
	d.lastHash = sum
	d.lastAt = now
	return true
}
