package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyKeyHeader is the client-generated request id used to deduplicate
// repeated submissions of the same operation within a short window.
const IdempotencyKeyHeader = "X-Idempotency-Key"

// StoredResponse is the replayable result of a completed request.
type StoredResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// IdempotencyStore persists completed responses keyed by idempotency key.
// Implementations must be safe for concurrent use.
type IdempotencyStore interface {
	// Get returns the stored response for the key, or found=false.
	Get(ctx context.Context, key string) (resp *StoredResponse, found bool, err error)
	// Set stores the response for the key for the store's TTL window.
	Set(ctx context.Context, key string, resp *StoredResponse) error
}

// MemoryIdempotencyStore is an in-memory IdempotencyStore. Suitable for
// development and single-instance deployments. Entries expire after the
// configured TTL and are lazily cleaned up on access.
type MemoryIdempotencyStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
}

type memoryEntry struct {
	resp    StoredResponse
	savedAt time.Time
}

// NewMemoryIdempotencyStore creates an in-memory store with the given TTL.
func NewMemoryIdempotencyStore(ttl time.Duration) *MemoryIdempotencyStore {
	return &MemoryIdempotencyStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
	}
}

// Get returns the stored response if present and not expired.
func (s *MemoryIdempotencyStore) Get(_ context.Context, key string) (*StoredResponse, bool, error) {
	s.mu.RLock()
	entry, exists := s.entries[key]
	s.mu.RUnlock()

	if !exists {
		return nil, false, nil
	}

	if time.Since(entry.savedAt) > s.ttl {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false, nil
	}

	resp := entry.resp
	return &resp, true, nil
}

// Set stores the response with the current timestamp.
func (s *MemoryIdempotencyStore) Set(_ context.Context, key string, resp *StoredResponse) error {
	s.mu.Lock()
	s.entries[key] = memoryEntry{resp: *resp, savedAt: time.Now()}
	s.mu.Unlock()
	return nil
}

// Len returns the number of entries in the store (including expired ones).
func (s *MemoryIdempotencyStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RedisIdempotencyStore is a Redis-backed IdempotencyStore for multi-instance
// deployments.
type RedisIdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisIdempotencyStore creates a Redis-backed store with the given TTL.
func NewRedisIdempotencyStore(client *redis.Client, ttl time.Duration) *RedisIdempotencyStore {
	return &RedisIdempotencyStore{
		client: client,
		ttl:    ttl,
		prefix: "idempotency:",
	}
}

// Get fetches and decodes the stored response for the key.
func (s *RedisIdempotencyStore) Get(ctx context.Context, key string) (*StoredResponse, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var resp StoredResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, false, err
	}
	return &resp, true, nil
}

// Set encodes and stores the response under the key with the configured TTL.
func (s *RedisIdempotencyStore) Set(ctx context.Context, key string, resp *StoredResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.prefix+key, data, s.ttl).Err()
}

// recordingResponseWriter buffers the response so it can be stored for replay.
type recordingResponseWriter struct {
	http.ResponseWriter
	statusCode int
	buf        bytes.Buffer
}

func (rw *recordingResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recordingResponseWriter) Write(b []byte) (int, error) {
	rw.buf.Write(b)
	return rw.ResponseWriter.Write(b)
}

// Idempotency returns middleware that deduplicates requests carrying an
// X-Idempotency-Key header. The first request with a given key is processed
// normally and its response is stored; repeats within the store's TTL window
// replay the stored response instead of re-executing the handler. Requests
// without the header pass through untouched, so the uniqueness constraints
// underneath remain the actual safety net.
func Idempotency(store IdempotencyStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(IdempotencyKeyHeader)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			stored, found, err := store.Get(r.Context(), key)
			if err != nil {
				// On store failure, process the request rather than block it.
				logger.WarnContext(r.Context(), "idempotency store lookup failed, processing anyway",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			if found {
				logger.DebugContext(r.Context(), "replaying idempotent response",
					slog.String("key", key),
					slog.Int("status", stored.Status),
				)
				if stored.ContentType != "" {
					w.Header().Set("Content-Type", stored.ContentType)
				}
				w.Header().Set("X-Idempotency-Replayed", "true")
				w.WriteHeader(stored.Status)
				_, _ = w.Write(stored.Body)
				return
			}

			rw := &recordingResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r)

			resp := &StoredResponse{
				Status:      rw.statusCode,
				ContentType: rw.Header().Get("Content-Type"),
				Body:        rw.buf.Bytes(),
			}
			if err := store.Set(r.Context(), key, resp); err != nil {
				logger.WarnContext(r.Context(), "failed to store idempotent response",
					slog.String("key", key),
					slog.String("error", err.Error()),
				)
			}
		})
	}
}
