package store

import (
	"sync"
	"time"
)

// entry pairs a value with its optional absolute expiration time. When
// hasTTL is false the key never expires and expiresAt is ignored.
type entry struct {
	value     Value
	expiresAt time.Time
	hasTTL    bool
}

// isExpired reports whether e's TTL has been reached as of now.
func (e entry) isExpired(now time.Time) bool {
	return e.hasTTL && !now.Before(e.expiresAt)
}

// Keyspace is the single in-memory map backing the whole store. Every
// operation runs to completion under one mutex, so no two Keyspace method
// calls are ever interleaved. The mutex covers only the map itself: the
// values returned by Get and the GetOrCreate* methods are read and mutated
// by the caller after it is released, and internal/server runs one command
// at a time across all connections. Expiration is lazy — a key
// past its TTL is deleted the next time it is looked up, read, or checked
// for existence, matching the reference Database's erase-on-access design
// (there is no active expiration sweep; see Non-goals).
type Keyspace struct {
	mu   sync.Mutex
	data map[string]entry
}

// NewKeyspace returns an empty Keyspace.
func NewKeyspace() *Keyspace {
	return &Keyspace{data: make(map[string]entry)}
}

// lookup returns key's entry if present and unexpired, deleting it first if
// its TTL has passed. Callers must hold mu.
func (k *Keyspace) lookup(key string, now time.Time) (entry, bool) {
	e, ok := k.data[key]
	if !ok {
		return entry{}, false
	}
	if e.isExpired(now) {
		delete(k.data, key)
		return entry{}, false
	}
	return e, true
}

// Set stores value for key with no expiration, replacing any existing
// value (of any shape) and clearing any TTL it carried.
func (k *Keyspace) Set(key string, value Value) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = entry{value: value}
}

// SetWithTTL stores value for key with an absolute expiration of
// ttlSeconds from now. A ttlSeconds of zero expires the key immediately on
// the next access, preserving the reference's accept-unsigned-zero
// behavior for SET ... EX 0 (see SPEC_FULL.md §9).
func (k *Keyspace) SetWithTTL(key string, value Value, ttlSeconds uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data[key] = entry{
		value:     value,
		expiresAt: time.Now().Add(time.Duration(ttlSeconds) * time.Second),
		hasTTL:    true,
	}
}

// Get returns key's value and whether it is present (and unexpired).
func (k *Keyspace) Get(key string) (Value, bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.lookup(key, time.Now())
	if !ok {
		return nil, false
	}
	return e.value, true
}

// MGet returns the current value for each of keys, in the same order, with
// nil standing in for a missing or expired key.
func (k *Keyspace) MGet(keys []string) []Value {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := time.Now()
	out := make([]Value, len(keys))
	for i, key := range keys {
		if e, ok := k.lookup(key, now); ok {
			out[i] = e.value
		}
	}
	return out
}

// Keys returns every candidate from candidates that names a present,
// unexpired key. Per spec.md §9's preserved reference behavior, this is
// literal-candidate membership testing, not glob matching: KEYS takes a
// list of exact names to test rather than a pattern.
func (k *Keyspace) Keys(candidates []string) []string {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := time.Now()
	var out []string
	for _, c := range candidates {
		if _, ok := k.lookup(c, now); ok {
			out = append(out, c)
		}
	}
	return out
}

// Contains reports whether key is present and unexpired.
func (k *Keyspace) Contains(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.lookup(key, time.Now())
	return ok
}

// Erase removes key unconditionally and reports whether it had been
// present (and unexpired).
func (k *Keyspace) Erase(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	_, ok := k.lookup(key, time.Now())
	if ok {
		delete(k.data, key)
	}
	return ok
}

// ExpireAt sets key's expiration to ttlSeconds from now, returning false if
// key is absent. A ttlSeconds of zero expires it immediately, as with
// SetWithTTL.
func (k *Keyspace) ExpireAt(key string, ttlSeconds int64) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.lookup(key, time.Now())
	if !ok {
		return false
	}
	e.hasTTL = true
	e.expiresAt = time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	k.data[key] = e
	return true
}

// TTL reports the seconds remaining before key expires. It returns
// (-2, false) if key is absent, and (-1, false) if key exists but carries no
// expiration.
func (k *Keyspace) TTL(key string) (seconds int64, hasTTL bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.lookup(key, time.Now())
	if !ok {
		return -2, false
	}
	if !e.hasTTL {
		return -1, false
	}
	remaining := time.Until(e.expiresAt)
	if remaining < 0 {
		remaining = 0
	}
	return int64(remaining / time.Second), true
}

// Persist strips key's expiration, if any. It reports whether a TTL was
// actually removed.
func (k *Keyspace) Persist(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	e, ok := k.lookup(key, time.Now())
	if !ok || !e.hasTTL {
		return false
	}
	e.hasTTL = false
	e.expiresAt = time.Time{}
	k.data[key] = e
	return true
}

// Size reports the number of keys currently tracked, including any not yet
// lazily reaped past their TTL (matching the reference dbsize, which counts
// the raw map size rather than forcing an expiration sweep).
func (k *Keyspace) Size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.data)
}

// Flush removes every key synchronously.
func (k *Keyspace) Flush() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.data = make(map[string]entry)
}

// FlushAsync swaps in a fresh, empty map under the lock and hands the old
// one to a detached goroutine to be dropped, so FLUSHDB ASYNC returns
// immediately even when the keyspace is large. This mirrors the reference's
// flush_async, which moves the old map out and destroys it off the request
// path.
func (k *Keyspace) FlushAsync() {
	k.mu.Lock()
	old := k.data
	k.data = make(map[string]entry)
	k.mu.Unlock()

	go func(discarded map[string]entry) {
		for key := range discarded {
			delete(discarded, key)
		}
	}(old)
}

// GetOrCreateHash returns key's HashValue, creating an empty one (with no
// TTL) if key is absent. It returns an error-shaped bool, wrongType, if key
// holds a different value shape.
func (k *Keyspace) GetOrCreateHash(key string) (h HashValue, wrongType bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := time.Now()
	e, ok := k.lookup(key, now)
	if !ok {
		h = make(HashValue)
		k.data[key] = entry{value: h}
		return h, false
	}
	hv, isHash := e.value.(HashValue)
	if !isHash {
		return nil, true
	}
	return hv, false
}

// GetOrCreateList returns key's ListValue, creating an empty one if key is
// absent.
func (k *Keyspace) GetOrCreateList(key string) (l *ListValue, wrongType bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := time.Now()
	e, ok := k.lookup(key, now)
	if !ok {
		l = NewListValue()
		k.data[key] = entry{value: l}
		return l, false
	}
	lv, isList := e.value.(*ListValue)
	if !isList {
		return nil, true
	}
	return lv, false
}

// GetOrCreateSortedSet returns key's SortedSetValue, creating an empty one
// if key is absent.
func (k *Keyspace) GetOrCreateSortedSet(key string) (s *SortedSetValue, wrongType bool) {
	k.mu.Lock()
	defer k.mu.Unlock()
	now := time.Now()
	e, ok := k.lookup(key, now)
	if !ok {
		s = NewSortedSetValue()
		k.data[key] = entry{value: s}
		return s, false
	}
	sv, isSet := e.value.(*SortedSetValue)
	if !isSet {
		return nil, true
	}
	return sv, false
}
