package items

import (
	"github.com/google/uuid"
)

// Identity is the opaque, comparable token of an authenticated caller.
// The ledger only ever compares identities for equality and records them
// on bids; it never looks inside.
type Identity = uuid.UUID

// Bidder is one bid event recorded against an item
type Bidder struct {
	Identity Identity
	Amount   uint64
}

// Item is an auctionable listing and its bid history
type Item struct {
	Name        string
	Description string
	IsListed    bool
	Bids        []Bidder // insertion order
	Owner       Identity
}

// CreateItem is the caller-supplied input for creating or editing an item
type CreateItem struct {
	Name        string
	Description string
	IsListed    bool
}

// HighestBid returns the bid with the largest amount, or false if there are no bids
func (i *Item) HighestBid() (Bidder, bool) {
	var (
		best  Bidder
		found bool
	)
	for _, b := range i.Bids {
		if !found || b.Amount >= best.Amount {
			best = b
			found = true
		}
	}
	return best, found
}

// HighestBidAmount returns the largest bid amount, 0 if there are no bids
func (i *Item) HighestBidAmount() uint64 {
	best, ok := i.HighestBid()
	if !ok {
		return 0
	}
	return best.Amount
}

// IsOwnedBy checks if the given identity is the current owner
func (i *Item) IsOwnedBy(caller Identity) bool {
	return i.Owner == caller
}
