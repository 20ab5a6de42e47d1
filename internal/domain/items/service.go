package items

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// validateBidAmount checks if the bid amount is higher than the current highest bid
func validateBidAmount(bidAmount, currentHighest uint64) error {
	if bidAmount <= currentHighest {
		return ErrBidMoreForThisItem
	}
	return nil
}

// Service implements the auction ledger.
//
// Every operation, query or mutation, runs under one mutex so that no two
// operations interleave their reads and writes. A mutation fetches the
// whole record, validates it against the caller, and writes the whole
// record back; it either commits that single write or fails before it.
type Service struct {
	mu      sync.Mutex
	store   RecordStore
	journal Journal
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a new ledger service.
// journal and logger may be nil.
func NewService(store RecordStore, journal Journal, logger *slog.Logger) *Service {
	if journal == nil {
		journal = nopJournal{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		journal: journal,
		logger:  logger,
		now:     time.Now,
	}
}

// GetAllItems returns every stored item in key order
func (s *Service) GetAllItems(ctx context.Context) ([]*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []*Item
	err := s.store.Iterate(ctx, func(_ uint64, item *Item) bool {
		all = append(all, item)
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return all, nil
}

// GetItem returns the item at key, or nil if there is none
func (s *Service) GetItem(ctx context.Context, key uint64) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// GetItemsCount returns the number of stored items, listed or not
func (s *Service) GetItemsCount(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return n, nil
}

// GetListedItemsCount returns the number of items currently accepting bids
func (s *Service) GetListedItemsCount(ctx context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count uint64
	err := s.store.Iterate(ctx, func(_ uint64, item *Item) bool {
		if item.IsListed {
			count++
		}
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count listed items: %w", err)
	}
	return count, nil
}

// GetItemSoldForMost returns the unlisted item whose highest bid is the
// largest. Ties go to the first item in key order. Items without bids
// never qualify.
func (s *Service) GetItemSoldForMost(ctx context.Context) (*Item, error) {
	return s.mostAmongUnlisted(ctx, func(item *Item) uint64 {
		return item.HighestBidAmount()
	})
}

// GetItemBidOnMost returns the unlisted item with the most bids.
// Ties go to the first item in key order.
func (s *Service) GetItemBidOnMost(ctx context.Context) (*Item, error) {
	return s.mostAmongUnlisted(ctx, func(item *Item) uint64 {
		return uint64(len(item.Bids))
	})
}

// mostAmongUnlisted scans unlisted items for the one with the strictly
// greatest score, starting from zero
func (s *Service) mostAmongUnlisted(ctx context.Context, score func(*Item) uint64) (*Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var (
		best      *Item
		bestScore uint64
	)
	err := s.store.Iterate(ctx, func(_ uint64, item *Item) bool {
		if item.IsListed {
			return true
		}
		if v := score(item); v > bestScore {
			bestScore = v
			best = item
		}
		return true
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan items: %w", err)
	}
	return best, nil
}

// CreateItem stores a new item owned by the caller with no bids.
// An existing record at key is overwritten.
func (s *Service) CreateItem(ctx context.Context, caller Identity, key uint64, in CreateItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &Item{
		Name:        in.Name,
		Description: in.Description,
		IsListed:    in.IsListed,
		Bids:        nil,
		Owner:       caller,
	}

	if _, err := s.store.Insert(ctx, key, item); err != nil {
		return updateError(err)
	}

	s.record(ctx, EventTypeItemCreated, key, caller, 0, item.Owner)
	return nil
}

// EditItem replaces the name, description and listing state of an item the
// caller owns. Bids and owner are preserved.
func (s *Service) EditItem(ctx context.Context, caller Identity, key uint64, in CreateItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.fetchOwned(ctx, caller, key)
	if err != nil {
		return err
	}

	edited := &Item{
		Name:        in.Name,
		Description: in.Description,
		IsListed:    in.IsListed,
		Bids:        item.Bids,
		Owner:       item.Owner,
	}

	if _, err := s.store.Insert(ctx, key, edited); err != nil {
		return updateError(err)
	}

	s.record(ctx, EventTypeItemEdited, key, caller, 0, edited.Owner)
	return nil
}

// UnlistItem closes an item the caller owns and transfers ownership to the
// highest bidder. An item without bids cannot be unlisted and is left as is.
func (s *Service) UnlistItem(ctx context.Context, caller Identity, key uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.fetchOwned(ctx, caller, key)
	if err != nil {
		return err
	}

	// The winner must be known before anything is committed.
	winner, ok := item.HighestBid()
	if !ok {
		return updateError(fmt.Errorf("item %d has no bids", key))
	}

	item.IsListed = false
	item.Owner = winner.Identity

	if _, err := s.store.Insert(ctx, key, item); err != nil {
		return updateError(err)
	}

	s.record(ctx, EventTypeItemUnlisted, key, caller, winner.Amount, item.Owner)
	return nil
}

// Bid appends a bid by the caller to a listed item. The amount must exceed
// every earlier bid on the item.
func (s *Service) Bid(ctx context.Context, caller Identity, key uint64, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, err := s.fetch(ctx, key)
	if err != nil {
		return err
	}

	if !item.IsListed {
		return ErrItemNotListed
	}

	if err := validateBidAmount(amount, item.HighestBidAmount()); err != nil {
		return err
	}

	item.Bids = append(item.Bids, Bidder{
		Identity: caller,
		Amount:   amount,
	})

	if _, err := s.store.Insert(ctx, key, item); err != nil {
		return updateError(err)
	}

	s.record(ctx, EventTypeBidPlaced, key, caller, amount, item.Owner)
	return nil
}

func (s *Service) fetch(ctx context.Context, key uint64) (*Item, error) {
	item, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, updateError(fmt.Errorf("failed to get item: %w", err))
	}
	if item == nil {
		return nil, ErrNoSuchItem
	}
	return item, nil
}

func (s *Service) fetchOwned(ctx context.Context, caller Identity, key uint64) (*Item, error) {
	item, err := s.fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	if !item.IsOwnedBy(caller) {
		return nil, ErrAccessRejected
	}
	return item, nil
}

// record appends a journal event for a committed mutation. The record is
// already durable, so a journal failure is only logged.
func (s *Service) record(ctx context.Context, typ EventType, key uint64, caller Identity, amount uint64, owner Identity) {
	event := &Event{
		ID:        uuid.New(),
		Type:      typ,
		ItemKey:   key,
		Caller:    caller,
		Amount:    amount,
		Owner:     owner,
		CreatedAt: s.now(),
	}
	if err := s.journal.Append(ctx, event); err != nil {
		s.logger.Warn("Failed to append journal event",
			"event_type", typ.String(), "item_key", key, "error", err)
	}
}
