// Package repository provides the durable key/value stores backing the
// engine, each optionally paired with range-queryable secondary indexes that
// are kept consistent on every mutation. Stores own their bytes: readers
// always receive deep copies, so mutation can only happen through Insert.
package repository

// Cloneable is implemented by every stored entity; Clone must return an
// owned deep copy.
type Cloneable[T any] interface {
	Clone() T
}

// Indexer keeps one secondary index consistent with the primary store. It is
// invoked under the primary store's lock with the previous and current value
// of the mutated record; either side may be the type's zero value (nil for
// pointer entities) when the record is being created or removed.
type Indexer[T any] interface {
	Refresh(previous, current T)
}
