package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/quizmed/leadgen/internal/infra/http/middleware"
)

const (
	// KeyPrefix namespaces every cache entry.
	KeyPrefix = "cached_"

	// SchemaVersion is bumped whenever the shape of a cached payload
	// changes; older entries are treated as misses.
	SchemaVersion = 2

	// DefaultTTL is how long an entry stays fresh.
	DefaultTTL = 24 * time.Hour
)

var (
	ErrNotFound = errors.New("cache: key not found")

	// ErrStorageFull is returned by a KV when the backend refuses the
	// write for capacity reasons.
	ErrStorageFull = errors.New("cache: storage full")
)

// KV is the minimal backend contract: Redis in production, the in-memory
// implementation when Redis is not configured and in tests.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// envelope wraps a cached payload with the bookkeeping needed to expire
// it: write time and schema version.
type envelope struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // unix milliseconds
	Version   int             `json:"version"`
}

type FetchFunc func(ctx context.Context) ([]byte, error)

type Store struct {
	kv  KV
	ttl time.Duration
	now func() time.Time
}

func NewStore(kv KV) *Store {
	return &Store{
		kv:  kv,
		ttl: DefaultTTL,
		now: time.Now,
	}
}

// GetOrFetch returns the cached payload for key when it is younger than
// the TTL and carries the current schema version; otherwise it invokes
// fetch, stores the result and returns it. A failing cache write never
// fails the call, the fresh data is returned regardless.
func (s *Store) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	fullKey := KeyPrefix + key

	if raw, err := s.kv.Get(ctx, fullKey); err == nil {
		var env envelope
		if err := json.Unmarshal([]byte(raw), &env); err == nil && s.fresh(env) {
			middleware.RecordCacheLookup("hit")
			return env.Data, nil
		}
		// Stale or unreadable entry, drop it and fall through to fetch.
		_ = s.kv.Delete(ctx, fullKey)
	}

	middleware.RecordCacheLookup("miss")

	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.put(ctx, fullKey, data)
	return data, nil
}

func (s *Store) fresh(env envelope) bool {
	if env.Version != SchemaVersion {
		return false
	}
	age := s.now().Sub(time.UnixMilli(env.Timestamp))
	return age >= 0 && age < s.ttl
}

func (s *Store) put(ctx context.Context, fullKey string, data []byte) {
	env := envelope{
		Data:      data,
		Timestamp: s.now().UnixMilli(),
		Version:   SchemaVersion,
	}

	raw, err := json.Marshal(env)
	if err != nil {
		log.Printf("⚠️ cache: failed to marshal entry %s: %v", fullKey, err)
		return
	}

	err = s.kv.Set(ctx, fullKey, string(raw), s.ttl)
	if errors.Is(err, ErrStorageFull) {
		// One sweep, one retry, then give up. The caller already has the
		// data in hand.
		if _, serr := s.Sweep(ctx); serr != nil {
			log.Printf("⚠️ cache: sweep after full storage failed: %v", serr)
		}
		err = s.kv.Set(ctx, fullKey, string(raw), s.ttl)
	}
	if err != nil {
		log.Printf("⚠️ cache: failed to store %s: %v", fullKey, err)
	}
}

// Refetch bypasses the cache, stores the fresh result and returns it.
func (s *Store) Refetch(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	data, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	s.put(ctx, KeyPrefix+key, data)
	return data, nil
}

// Invalidate removes a single entry.
func (s *Store) Invalidate(ctx context.Context, key string) error {
	return s.kv.Delete(ctx, KeyPrefix+key)
}

// DoctorKeys lists the five per-doctor cache keys the dashboard uses.
func DoctorKeys(doctorID string) []string {
	return []string{
		"leads_" + doctorID,
		"analytics_" + doctorID,
		"trends_" + doctorID,
		"contacts_" + doctorID,
		"profile_" + doctorID,
	}
}

// InvalidateDoctor removes exactly that doctor's five keys and nothing
// else.
func (s *Store) InvalidateDoctor(ctx context.Context, doctorID string) error {
	keys := DoctorKeys(doctorID)
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = KeyPrefix + k
	}
	return s.kv.Delete(ctx, full...)
}

// Sweep walks every namespaced entry and deletes the expired and
// version-mismatched ones. Returns how many entries were removed.
func (s *Store) Sweep(ctx context.Context) (int, error) {
	keys, err := s.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		raw, err := s.kv.Get(ctx, key)
		if err != nil {
			continue
		}

		var env envelope
		if err := json.Unmarshal([]byte(raw), &env); err == nil && s.fresh(env) {
			continue
		}

		if err := s.kv.Delete(ctx, key); err == nil {
			removed++
		}
	}

	return removed, nil
}
