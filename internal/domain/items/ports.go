package items

import (
	"context"
)

// RecordStore is the persistent keyed mapping holding item records.
// Records are stored by value: every mutation reads the whole record and
// writes the whole record back.
type RecordStore interface {
	// Get returns the record at key, or nil if there is none
	Get(ctx context.Context, key uint64) (*Item, error)

	// Insert writes the full record at key and returns the previous record, if any.
	// It fails without writing when the serialized item exceeds the size bound.
	Insert(ctx context.Context, key uint64, item *Item) (*Item, error)

	// Iterate calls fn for every record in ascending key order until fn returns false
	Iterate(ctx context.Context, fn func(key uint64, item *Item) bool) error

	// Count returns the number of stored records
	Count(ctx context.Context) (uint64, error)
}

// Journal receives an event for every committed mutation
type Journal interface {
	Append(ctx context.Context, event *Event) error
}

type nopJournal struct{}

func (nopJournal) Append(context.Context, *Event) error { return nil }
