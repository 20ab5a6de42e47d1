package items

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// EventType represents the type of ledger journal event
type EventType string

const (
	EventTypeItemCreated  EventType = "item.created"
	EventTypeItemEdited   EventType = "item.edited"
	EventTypeItemUnlisted EventType = "item.unlisted"
	EventTypeBidPlaced    EventType = "bid.placed"
)

// String returns the string representation of the event type
func (e EventType) String() string {
	return string(e)
}

// IsValid checks if the event type is valid
func (e EventType) IsValid() bool {
	switch e {
	case EventTypeItemCreated, EventTypeItemEdited, EventTypeItemUnlisted, EventTypeBidPlaced:
		return true
	default:
		return false
	}
}

// Event records one committed mutation
type Event struct {
	ID        uuid.UUID
	Type      EventType
	ItemKey   uint64
	Caller    Identity
	Amount    uint64   // bid.placed: the accepted amount; item.unlisted: the winning amount
	Owner     Identity // owner after the mutation
	CreatedAt time.Time
}

const (
	fieldEventID        protowire.Number = 1
	fieldEventType      protowire.Number = 2
	fieldEventItemKey   protowire.Number = 3
	fieldEventCaller    protowire.Number = 4
	fieldEventAmount    protowire.Number = 5
	fieldEventOwner     protowire.Number = 6
	fieldEventTimestamp protowire.Number = 7 // unix nanoseconds
)

// MarshalEvent serializes an event for the journal
func MarshalEvent(e *Event) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldEventID, protowire.BytesType)
	b = protowire.AppendBytes(b, e.ID[:])
	b = protowire.AppendTag(b, fieldEventType, protowire.BytesType)
	b = protowire.AppendString(b, e.Type.String())
	b = protowire.AppendTag(b, fieldEventItemKey, protowire.VarintType)
	b = protowire.AppendVarint(b, e.ItemKey)
	b = protowire.AppendTag(b, fieldEventCaller, protowire.BytesType)
	b = protowire.AppendBytes(b, e.Caller[:])
	if e.Amount != 0 {
		b = protowire.AppendTag(b, fieldEventAmount, protowire.VarintType)
		b = protowire.AppendVarint(b, e.Amount)
	}
	b = protowire.AppendTag(b, fieldEventOwner, protowire.BytesType)
	b = protowire.AppendBytes(b, e.Owner[:])
	b = protowire.AppendTag(b, fieldEventTimestamp, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.CreatedAt.UnixNano()))
	return b
}

// UnmarshalEvent parses a journal event payload
func UnmarshalEvent(b []byte) (*Event, error) {
	e := &Event{}
	uuidField := func(dst *uuid.UUID, b []byte) (int, error) {
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return n, nil
		}
		id, err := uuid.FromBytes(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", ErrCorruptRecord, err)
		}
		*dst = id
		return n, nil
	}
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldEventID && typ == protowire.BytesType:
			return uuidField(&e.ID, b)
		case num == fieldEventType && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			e.Type = EventType(v)
			return n, nil
		case num == fieldEventItemKey && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			e.ItemKey = v
			return n, nil
		case num == fieldEventCaller && typ == protowire.BytesType:
			return uuidField(&e.Caller, b)
		case num == fieldEventAmount && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			e.Amount = v
			return n, nil
		case num == fieldEventOwner && typ == protowire.BytesType:
			return uuidField(&e.Owner, b)
		case num == fieldEventTimestamp && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			e.CreatedAt = time.Unix(0, int64(v)).UTC()
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
	})
	if err != nil {
		return nil, err
	}
	if !e.Type.IsValid() {
		return nil, fmt.Errorf("%w: unknown event type %q", ErrCorruptRecord, e.Type)
	}
	return e, nil
}
