package items

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestItem_HighestBid(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	tests := []struct {
		name      string
		bids      []Bidder
		wantFound bool
		want      Bidder
	}{
		{name: "no bids", bids: nil, wantFound: false},
		{name: "single bid", bids: []Bidder{{Identity: a, Amount: 5}}, wantFound: true, want: Bidder{Identity: a, Amount: 5}},
		{name: "last is highest", bids: []Bidder{{Identity: a, Amount: 5}, {Identity: b, Amount: 9}}, wantFound: true, want: Bidder{Identity: b, Amount: 9}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &Item{Bids: tt.bids}
			got, ok := item.HighestBid()
			assert.Equal(t, tt.wantFound, ok)
			if tt.wantFound {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, tt.want.Amount, item.HighestBidAmount())
			} else {
				assert.Zero(t, item.HighestBidAmount())
			}
		})
	}
}

func TestItem_IsOwnedBy(t *testing.T) {
	owner := uuid.New()
	item := &Item{Owner: owner}

	assert.True(t, item.IsOwnedBy(owner))
	assert.False(t, item.IsOwnedBy(uuid.New()))
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNoSuchItem, KindNoSuchItem},
		{ErrAccessRejected, KindAccessRejected},
		{ErrItemNotListed, KindItemNotListed},
		{ErrBidMoreForThisItem, KindBidMoreForThisItem},
		{updateError(ErrRecordTooLarge), KindUpdateError},
		{ErrAlreadyBid, KindAlreadyBid},
		{assert.AnError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}
