package items

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestRecordCodec_RoundTrip(t *testing.T) {
	codec := NewRecordCodec(1024)
	item := &Item{
		Name:        "Guitar",
		Description: "A beautiful 1960s guitar",
		IsListed:    true,
		Bids: []Bidder{
			{Identity: uuid.New(), Amount: 10},
			{Identity: uuid.New(), Amount: 1 << 40},
		},
		Owner: uuid.New(),
	}

	data, err := codec.Encode(item)
	require.NoError(t, err)

	got, err := codec.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestNewRecordCodec_Default(t *testing.T) {
	assert.Equal(t, DefaultMaxRecordSize, NewRecordCodec(0).MaxSize)
	assert.Equal(t, DefaultMaxRecordSize, NewRecordCodec(-1).MaxSize)
	assert.Equal(t, 512, NewRecordCodec(512).MaxSize)
}

func TestRecordCodec_SizeBound(t *testing.T) {
	item := &Item{Name: "Lamp", Description: "Brass", IsListed: true, Owner: uuid.New()}
	size := len(MarshalItem(item))

	_, err := RecordCodec{MaxSize: size}.Encode(item)
	assert.NoError(t, err, "a record exactly at the bound is accepted")

	_, err = RecordCodec{MaxSize: size - 1}.Encode(item)
	assert.ErrorIs(t, err, ErrRecordTooLarge)
}

func TestUnmarshalItem_SkipsUnknownFields(t *testing.T) {
	item := &Item{Name: "Lamp", Owner: uuid.New()}
	data := MarshalItem(item)
	data = protowire.AppendTag(data, 99, protowire.VarintType)
	data = protowire.AppendVarint(data, 7)

	got, err := UnmarshalItem(data)
	require.NoError(t, err)
	assert.Equal(t, item, got)
}

func TestUnmarshalItem_Corrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "truncated tag", data: []byte{0x80}},
		{name: "truncated string", data: []byte{0x0a, 0x05, 'a'}},
		{name: "short owner", data: append(protowire.AppendTag(nil, fieldOwner, protowire.BytesType), 0x02, 0x01, 0x02)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalItem(tt.data)
			assert.ErrorIs(t, err, ErrCorruptRecord)
		})
	}
}
