package repository

import (
	"sort"
	"sync"
)

// Entry is a composite secondary-index key: a grouping field (e.g. identity,
// name, approver id) paired with the member's primary key.
type Entry[G comparable, K comparable] struct {
	Group G
	Key   K
}

// Index is a range-queryable secondary index. Entries are kept ordered by
// (group, key) so a criteria lookup scans the closed interval
// [(group, MIN), (group, MAX)] instead of the whole index.
type Index[G comparable, K comparable] struct {
	mu           sync.RWMutex
	entries      []Entry[G, K]
	compareGroup func(a, b G) int
	compareKey   func(a, b K) int
}

// NewIndex creates an index with the supplied comparators.
func NewIndex[G comparable, K comparable](compareGroup func(a, b G) int, compareKey func(a, b K) int) *Index[G, K] {
	return &Index[G, K]{
		compareGroup: compareGroup,
		compareKey:   compareKey,
	}
}

func (i *Index[G, K]) compare(a, b Entry[G, K]) int {
	if by := i.compareGroup(a.Group, b.Group); by != 0 {
		return by
	}
	return i.compareKey(a.Key, b.Key)
}

// search returns the insertion position of entry and whether it is present.
func (i *Index[G, K]) search(entry Entry[G, K]) (int, bool) {
	at := sort.Search(len(i.entries), func(n int) bool {
		return i.compare(i.entries[n], entry) >= 0
	})
	return at, at < len(i.entries) && i.entries[at] == entry
}

// Exists reports whether the entry is present.
func (i *Index[G, K]) Exists(entry Entry[G, K]) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	_, ok := i.search(entry)
	return ok
}

// Insert adds the entry; inserting an existing entry is a no-op.
func (i *Index[G, K]) Insert(entry Entry[G, K]) {
	i.mu.Lock()
	defer i.mu.Unlock()
	at, ok := i.search(entry)
	if ok {
		return
	}
	i.entries = append(i.entries, entry)
	copy(i.entries[at+1:], i.entries[at:])
	i.entries[at] = entry
}

// Remove deletes the entry and reports whether it was present.
func (i *Index[G, K]) Remove(entry Entry[G, K]) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	at, ok := i.search(entry)
	if !ok {
		return false
	}
	i.entries = append(i.entries[:at], i.entries[at+1:]...)
	return true
}

// FindByGroup returns the member keys of all entries under group, in key
// order.
func (i *Index[G, K]) FindByGroup(group G) []K {
	i.mu.RLock()
	defer i.mu.RUnlock()
	start := sort.Search(len(i.entries), func(n int) bool {
		return i.compareGroup(i.entries[n].Group, group) >= 0
	})
	var out []K
	for at := start; at < len(i.entries); at++ {
		if i.compareGroup(i.entries[at].Group, group) != 0 {
			break
		}
		out = append(out, i.entries[at].Key)
	}
	return out
}

// Len returns the number of index entries.
func (i *Index[G, K]) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.entries)
}

// entryIndexer adapts an Index to the Indexer contract via a derivation
// function mapping an entity to its index entries. On refresh it removes
// entries no longer derived and inserts the current ones.
type entryIndexer[T any, G comparable, K comparable] struct {
	index     *Index[G, K]
	entriesOf func(T) []Entry[G, K]
}

// ByEntries binds an index to an entity-to-entries derivation.
func ByEntries[T any, G comparable, K comparable](index *Index[G, K], entriesOf func(T) []Entry[G, K]) Indexer[T] {
	return &entryIndexer[T, G, K]{index: index, entriesOf: entriesOf}
}

func (x *entryIndexer[T, G, K]) Refresh(previous, current T) {
	previousEntries := x.entriesOf(previous)
	currentEntries := x.entriesOf(current)
	kept := make(map[Entry[G, K]]struct{}, len(currentEntries))
	for _, entry := range currentEntries {
		kept[entry] = struct{}{}
	}
	for _, entry := range previousEntries {
		if _, ok := kept[entry]; !ok {
			x.index.Remove(entry)
		}
	}
	for _, entry := range currentEntries {
		x.index.Insert(entry)
	}
}
