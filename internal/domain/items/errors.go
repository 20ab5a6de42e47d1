package items

import (
	"errors"
	"fmt"
)

// Service errors
var (
	ErrNoSuchItem         = errors.New("no such item")
	ErrAccessRejected     = errors.New("access rejected: only the owner can perform this action")
	ErrItemNotListed      = errors.New("item is not listed")
	ErrBidMoreForThisItem = errors.New("bid amount must be higher than current highest bid")
	ErrUpdateError        = errors.New("item could not be updated")

	// ErrAlreadyBid is part of the error vocabulary but no operation returns it.
	// Repeat bids from the same identity are accepted.
	ErrAlreadyBid = errors.New("already bid on this item")
)

// Store errors
var (
	ErrRecordTooLarge = errors.New("record exceeds maximum size")
	ErrCorruptRecord  = errors.New("corrupt record")
)

// Error kinds as exposed to callers
const (
	KindAlreadyBid         = "AlreadyBid"
	KindNoSuchItem         = "NoSuchItem"
	KindAccessRejected     = "AccessRejected"
	KindUpdateError        = "UpdateError"
	KindItemNotListed      = "ItemNotListed"
	KindBidMoreForThisItem = "BidMoreForThisItem"
)

var errorKinds = []struct {
	err  error
	kind string
}{
	{ErrNoSuchItem, KindNoSuchItem},
	{ErrAccessRejected, KindAccessRejected},
	{ErrItemNotListed, KindItemNotListed},
	{ErrBidMoreForThisItem, KindBidMoreForThisItem},
	{ErrUpdateError, KindUpdateError},
	{ErrAlreadyBid, KindAlreadyBid},
}

// ErrorKind returns the vocabulary name of a service error, or "" if err is
// not one of them
func ErrorKind(err error) string {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return ""
}

// updateError wraps a failed store write so it matches both ErrUpdateError
// and the underlying cause
func updateError(cause error) error {
	return fmt.Errorf("%w: %w", ErrUpdateError, cause)
}
