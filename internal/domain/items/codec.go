package items

import (
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// DefaultMaxRecordSize is the serialized size bound applied when none is configured
const DefaultMaxRecordSize = 100

// Item record fields
const (
	fieldName        protowire.Number = 1
	fieldDescription protowire.Number = 2
	fieldIsListed    protowire.Number = 3
	fieldBid         protowire.Number = 4
	fieldOwner       protowire.Number = 5
)

// Bidder sub-message fields
const (
	fieldBidIdentity protowire.Number = 1
	fieldBidAmount   protowire.Number = 2
)

// RecordCodec encodes items in protobuf wire format and enforces the
// maximum serialized record size.
type RecordCodec struct {
	MaxSize int
}

// NewRecordCodec creates a codec bounded to maxSize bytes.
// A non-positive maxSize selects DefaultMaxRecordSize.
func NewRecordCodec(maxSize int) RecordCodec {
	if maxSize <= 0 {
		maxSize = DefaultMaxRecordSize
	}
	return RecordCodec{MaxSize: maxSize}
}

// Encode serializes the item, failing with ErrRecordTooLarge when the
// result would exceed the bound. Nothing is truncated.
func (c RecordCodec) Encode(item *Item) ([]byte, error) {
	b := MarshalItem(item)
	if c.MaxSize > 0 && len(b) > c.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrRecordTooLarge, len(b), c.MaxSize)
	}
	return b, nil
}

// Decode parses a stored record
func (c RecordCodec) Decode(b []byte) (*Item, error) {
	return UnmarshalItem(b)
}

// MarshalItem serializes an item without applying any size bound
func MarshalItem(item *Item) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldName, protowire.BytesType)
	b = protowire.AppendString(b, item.Name)
	b = protowire.AppendTag(b, fieldDescription, protowire.BytesType)
	b = protowire.AppendString(b, item.Description)
	b = protowire.AppendTag(b, fieldIsListed, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(item.IsListed))
	for _, bid := range item.Bids {
		b = protowire.AppendTag(b, fieldBid, protowire.BytesType)
		b = protowire.AppendBytes(b, marshalBidder(bid))
	}
	b = protowire.AppendTag(b, fieldOwner, protowire.BytesType)
	b = protowire.AppendBytes(b, item.Owner[:])
	return b
}

func marshalBidder(bid Bidder) []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldBidIdentity, protowire.BytesType)
	b = protowire.AppendBytes(b, bid.Identity[:])
	b = protowire.AppendTag(b, fieldBidAmount, protowire.VarintType)
	b = protowire.AppendVarint(b, bid.Amount)
	return b
}

// UnmarshalItem parses an item record. Unknown fields are skipped.
func UnmarshalItem(b []byte) (*Item, error) {
	item := &Item{}
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			item.Name = v
			return n, nil
		case num == fieldDescription && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			item.Description = v
			return n, nil
		case num == fieldIsListed && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			item.IsListed = protowire.DecodeBool(v)
			return n, nil
		case num == fieldBid && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			bid, err := unmarshalBidder(v)
			if err != nil {
				return 0, err
			}
			item.Bids = append(item.Bids, bid)
			return n, nil
		case num == fieldOwner && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			id, err := uuid.FromBytes(v)
			if err != nil {
				return 0, fmt.Errorf("%w: owner: %w", ErrCorruptRecord, err)
			}
			item.Owner = id
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func unmarshalBidder(b []byte) (Bidder, error) {
	var bid Bidder
	err := consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == fieldBidIdentity && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return n, nil
			}
			id, err := uuid.FromBytes(v)
			if err != nil {
				return 0, fmt.Errorf("%w: bidder: %w", ErrCorruptRecord, err)
			}
			bid.Identity = id
			return n, nil
		case num == fieldBidAmount && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			bid.Amount = v
			return n, nil
		default:
			return protowire.ConsumeFieldValue(num, typ, b), nil
		}
	})
	return bid, err
}

// consumeFields walks a wire-format message, handing each field value to fn.
// fn returns the number of bytes it consumed, or a negative protowire error code.
func consumeFields(b []byte, fn func(protowire.Number, protowire.Type, []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrCorruptRecord, protowire.ParseError(n))
		}
		b = b[n:]

		n, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("%w: field %d: %w", ErrCorruptRecord, num, protowire.ParseError(n))
		}
		b = b[n:]
	}
	return nil
}
