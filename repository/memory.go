package repository

import "sync"

// Memory is a generic in-memory primary store mapping a comparable key to an
// entity. Attached indexers are refreshed inside the same critical section
// as the primary write, so from the caller's point of view primary record
// and secondary indexes always move together.
type Memory[K comparable, T Cloneable[T]] struct {
	mu       sync.RWMutex
	records  map[K]T
	indexers []Indexer[T]
}

// NewMemory creates a primary store with the supplied indexers.
func NewMemory[K comparable, T Cloneable[T]](indexers ...Indexer[T]) *Memory[K, T] {
	return &Memory[K, T]{
		records:  make(map[K]T),
		indexers: indexers,
	}
}

// Get returns an owned copy of the record, if present.
func (m *Memory[K, T]) Get(key K) (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.records[key]
	if !ok {
		var zero T
		return zero, false
	}
	return value.Clone(), true
}

// List returns owned copies of all records.
func (m *Memory[K, T]) List() []T {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]T, 0, len(m.records))
	for _, value := range m.records {
		out = append(out, value.Clone())
	}
	return out
}

// Len returns the number of stored records.
func (m *Memory[K, T]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Insert stores an owned copy of value under key and refreshes every
// attached index with the previous/current pair. It returns the previous
// value, if any.
func (m *Memory[K, T]) Insert(key K, value T) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	previous, hadPrevious := m.records[key]
	stored := value.Clone()
	m.records[key] = stored
	for _, indexer := range m.indexers {
		indexer.Refresh(previous, stored)
	}
	if !hadPrevious {
		var zero T
		return zero, false
	}
	return previous, true
}

// Remove deletes the record under key, cleans up its index entries and
// returns the previous value, if any.
func (m *Memory[K, T]) Remove(key K) (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	previous, hadPrevious := m.records[key]
	if !hadPrevious {
		var zero T
		return zero, false
	}
	delete(m.records, key)
	var zero T
	for _, indexer := range m.indexers {
		indexer.Refresh(previous, zero)
	}
	return previous, true
}
