package items

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "bid.placed", EventTypeBidPlaced.String())
}

func TestEventType_IsValid(t *testing.T) {
	tests := []struct {
		name      string
		eventType EventType
		want      bool
	}{
		{name: "item.created", eventType: EventTypeItemCreated, want: true},
		{name: "item.edited", eventType: EventTypeItemEdited, want: true},
		{name: "item.unlisted", eventType: EventTypeItemUnlisted, want: true},
		{name: "bid.placed", eventType: EventTypeBidPlaced, want: true},
		{name: "unknown", eventType: EventType("unknown.event"), want: false},
		{name: "empty", eventType: EventType(""), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.eventType.IsValid())
		})
	}
}

func TestEvent_PayloadRoundTrip(t *testing.T) {
	event := &Event{
		ID:        uuid.New(),
		Type:      EventTypeItemUnlisted,
		ItemKey:   1 << 50,
		Caller:    uuid.New(),
		Amount:    20,
		Owner:     uuid.New(),
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 500, time.UTC),
	}

	got, err := UnmarshalEvent(MarshalEvent(event))
	require.NoError(t, err)
	assert.Equal(t, event, got)
}

func TestUnmarshalEvent_UnknownType(t *testing.T) {
	event := &Event{ID: uuid.New(), Type: EventType("item.deleted"), CreatedAt: time.Unix(0, 0)}

	_, err := UnmarshalEvent(MarshalEvent(event))
	assert.ErrorIs(t, err, ErrCorruptRecord)
}
