package api

import (
	"github.com/floroz/ledger/internal/domain/items"
)

// Bidder is the wire form of one bid
type Bidder struct {
	Identity string `json:"identity"`
	Amount   uint64 `json:"amount"`
}

// Item is the wire form of a ledger item
type Item struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	IsListed    bool     `json:"is_listed"`
	Bids        []Bidder `json:"bids"`
	Owner       string   `json:"owner"`
}

// ItemInput carries the caller-editable fields of an item
type ItemInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	IsListed    bool   `json:"is_listed"`
}

type GetAllItemsRequest struct{}

type GetAllItemsResponse struct {
	Items []*Item `json:"items"`
}

type GetListedItemsCountRequest struct{}

type GetListedItemsCountResponse struct {
	Count uint64 `json:"count"`
}

type GetItemsCountRequest struct{}

type GetItemsCountResponse struct {
	Count uint64 `json:"count"`
}

type GetItemRequest struct {
	Key uint64 `json:"key"`
}

// ItemResponse is returned by the queries that may find no item.
// Item is nil when there is none.
type ItemResponse struct {
	Item *Item `json:"item,omitempty"`
}

type GetItemSoldForMostRequest struct{}

type GetItemBidOnMostRequest struct{}

type CreateItemRequest struct {
	Key  uint64    `json:"key"`
	Item ItemInput `json:"item"`
}

type EditItemRequest struct {
	Key  uint64    `json:"key"`
	Item ItemInput `json:"item"`
}

type UnlistItemRequest struct {
	Key uint64 `json:"key"`
}

type BidRequest struct {
	Key    uint64 `json:"key"`
	Amount uint64 `json:"amount"`
}

// Empty is the response of every mutation
type Empty struct{}

// mapItemToWire converts a domain Item to its wire form
func mapItemToWire(item *items.Item) *Item {
	if item == nil {
		return nil
	}
	bids := make([]Bidder, len(item.Bids))
	for i, b := range item.Bids {
		bids[i] = Bidder{
			Identity: b.Identity.String(),
			Amount:   b.Amount,
		}
	}
	return &Item{
		Name:        item.Name,
		Description: item.Description,
		IsListed:    item.IsListed,
		Bids:        bids,
		Owner:       item.Owner.String(),
	}
}

func (in ItemInput) toDomain() items.CreateItem {
	return items.CreateItem{
		Name:        in.Name,
		Description: in.Description,
		IsListed:    in.IsListed,
	}
}
