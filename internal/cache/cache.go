package cache

// Memo is a generic LRU memo table with a soft limit.
// When the table grows past the soft limit, the least recently used
// quarter of the entries is evicted.
//
// Memo is owned by a single goroutine and does no locking. It must not be
// copied after creation.
type Memo[K comparable, V any] struct {
	entries   map[K]*memoEntry[K, V]
	order     lruList[K, V]
	softLimit int

	hits      uint64
	misses    uint64
	evictions uint64
}

// memoEntry is both the map value and the LRU list node.
type memoEntry[K comparable, V any] struct {
	key   K
	value V
	prev  *memoEntry[K, V]
	next  *memoEntry[K, V]
}

// New creates a memo table with the given soft limit.
// A softLimit of 0 means unlimited.
func New[K comparable, V any](softLimit int) *Memo[K, V] {
	return &Memo[K, V]{
		entries:   make(map[K]*memoEntry[K, V]),
		softLimit: softLimit,
	}
}

// Get retrieves a value and marks it most recently used.
// Returns (value, true) if found, (zero, false) otherwise.
func (m *Memo[K, V]) Get(key K) (V, bool) {
	e, ok := m.entries[key]
	if !ok {
		m.misses++
		var zero V
		return zero, false
	}
	m.hits++
	m.order.moveToFront(e)
	return e.value, true
}

// Set stores a value, replacing any previous value for key.
func (m *Memo[K, V]) Set(key K, value V) {
	if e, ok := m.entries[key]; ok {
		e.value = value
		m.order.moveToFront(e)
		return
	}
	e := &memoEntry[K, V]{key: key, value: value}
	m.entries[key] = e
	m.order.pushFront(e)

	if m.softLimit > 0 && len(m.entries) > m.softLimit {
		m.evictOldest()
	}
}

// GetOrCreate returns the cached value for key, calling create and storing
// its result on a miss.
func (m *Memo[K, V]) GetOrCreate(key K, create func() V) V {
	if v, ok := m.Get(key); ok {
		return v
	}
	v := create()
	m.Set(key, v)
	return v
}

// Delete removes an entry. Returns true if the entry was present.
func (m *Memo[K, V]) Delete(key K) bool {
	e, ok := m.entries[key]
	if !ok {
		return false
	}
	m.order.unlink(e)
	delete(m.entries, key)
	return true
}

// Clear removes all entries. Statistics are kept.
func (m *Memo[K, V]) Clear() {
	clear(m.entries)
	m.order = lruList[K, V]{}
}

// Len returns the number of entries.
func (m *Memo[K, V]) Len() int {
	return len(m.entries)
}

// Stats returns memo statistics.
func (m *Memo[K, V]) Stats() Stats {
	s := Stats{
		Len:       len(m.entries),
		Capacity:  m.softLimit,
		Hits:      m.hits,
		Misses:    m.misses,
		Evictions: m.evictions,
	}
	if total := m.hits + m.misses; total > 0 {
		s.HitRate = float64(m.hits) / float64(total)
	}
	return s
}

// evictOldest drops least recently used entries until the table is at
// three quarters of the soft limit.
func (m *Memo[K, V]) evictOldest() {
	target := m.softLimit * 3 / 4
	if target < 1 {
		target = 1
	}
	for len(m.entries) > target {
		e := m.order.tail
		if e == nil {
			return
		}
		m.order.unlink(e)
		delete(m.entries, e.key)
		m.evictions++
	}
}

// Stats contains memo statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the soft limit (0 means unlimited).
	Capacity int
	// Hits is the number of successful lookups.
	Hits uint64
	// Misses is the number of failed lookups.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 when there were no lookups.
	HitRate float64
	// Evictions is the number of entries dropped by the soft limit.
	Evictions uint64
}
