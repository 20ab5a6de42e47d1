package api

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/floroz/ledger/internal/domain/items"
	"github.com/floroz/ledger/pkg/auth"
)

// ErrorKindHeader carries the ledger error kind of a failed call
const ErrorKindHeader = "Ledger-Error-Kind"

type LedgerServiceHandler struct {
	service *items.Service
}

func NewLedgerServiceHandler(service *items.Service) *LedgerServiceHandler {
	return &LedgerServiceHandler{service: service}
}

// GetAllItems returns every item in key order
func (h *LedgerServiceHandler) GetAllItems(
	ctx context.Context,
	_ *connect.Request[GetAllItemsRequest],
) (*connect.Response[GetAllItemsResponse], error) {
	all, err := h.service.GetAllItems(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}

	res := &GetAllItemsResponse{Items: make([]*Item, len(all))}
	for i, item := range all {
		res.Items[i] = mapItemToWire(item)
	}
	return connect.NewResponse(res), nil
}

func (h *LedgerServiceHandler) GetListedItemsCount(
	ctx context.Context,
	_ *connect.Request[GetListedItemsCountRequest],
) (*connect.Response[GetListedItemsCountResponse], error) {
	count, err := h.service.GetListedItemsCount(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetListedItemsCountResponse{Count: count}), nil
}

// GetItemsCount returns the number of stored items, listed or not
func (h *LedgerServiceHandler) GetItemsCount(
	ctx context.Context,
	_ *connect.Request[GetItemsCountRequest],
) (*connect.Response[GetItemsCountResponse], error) {
	count, err := h.service.GetItemsCount(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetItemsCountResponse{Count: count}), nil
}

func (h *LedgerServiceHandler) GetItem(
	ctx context.Context,
	req *connect.Request[GetItemRequest],
) (*connect.Response[ItemResponse], error) {
	item, err := h.service.GetItem(ctx, req.Msg.Key)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ItemResponse{Item: mapItemToWire(item)}), nil
}

func (h *LedgerServiceHandler) GetItemSoldForMost(
	ctx context.Context,
	_ *connect.Request[GetItemSoldForMostRequest],
) (*connect.Response[ItemResponse], error) {
	item, err := h.service.GetItemSoldForMost(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ItemResponse{Item: mapItemToWire(item)}), nil
}

func (h *LedgerServiceHandler) GetItemBidOnMost(
	ctx context.Context,
	_ *connect.Request[GetItemBidOnMostRequest],
) (*connect.Response[ItemResponse], error) {
	item, err := h.service.GetItemBidOnMost(ctx)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ItemResponse{Item: mapItemToWire(item)}), nil
}

// CreateItem stores a new item owned by the caller
func (h *LedgerServiceHandler) CreateItem(
	ctx context.Context,
	req *connect.Request[CreateItemRequest],
) (*connect.Response[Empty], error) {
	// Identity is guaranteed by the auth interceptor on mutation routes
	caller, err := callerIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.service.CreateItem(ctx, caller, req.Msg.Key, req.Msg.Item.toDomain()); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (h *LedgerServiceHandler) EditItem(
	ctx context.Context,
	req *connect.Request[EditItemRequest],
) (*connect.Response[Empty], error) {
	caller, err := callerIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.service.EditItem(ctx, caller, req.Msg.Key, req.Msg.Item.toDomain()); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (h *LedgerServiceHandler) UnlistItem(
	ctx context.Context,
	req *connect.Request[UnlistItemRequest],
) (*connect.Response[Empty], error) {
	caller, err := callerIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.service.UnlistItem(ctx, caller, req.Msg.Key); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func (h *LedgerServiceHandler) Bid(
	ctx context.Context,
	req *connect.Request[BidRequest],
) (*connect.Response[Empty], error) {
	caller, err := callerIdentity(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.service.Bid(ctx, caller, req.Msg.Key, req.Msg.Amount); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&Empty{}), nil
}

func callerIdentity(ctx context.Context) (items.Identity, error) {
	id, ok := auth.GetIdentity(ctx)
	if !ok {
		return items.Identity{}, connect.NewError(connect.CodeUnauthenticated, errors.New("missing caller identity"))
	}
	return id, nil
}

// toConnectError maps a service error to a ConnectRPC error. Ledger errors
// also carry their kind in the ErrorKindHeader metadata.
func toConnectError(err error) *connect.Error {
	kind := items.ErrorKind(err)

	var code connect.Code
	switch kind {
	case items.KindNoSuchItem:
		code = connect.CodeNotFound
	case items.KindAccessRejected:
		code = connect.CodePermissionDenied
	case items.KindItemNotListed, items.KindBidMoreForThisItem, items.KindUpdateError:
		code = connect.CodeFailedPrecondition
	case items.KindAlreadyBid:
		code = connect.CodeAlreadyExists
	default:
		return connect.NewError(connect.CodeInternal, err)
	}

	connectErr := connect.NewError(code, err)
	connectErr.Meta().Set(ErrorKindHeader, kind)
	return connectErr
}

// ErrorKindOf recovers the ledger error kind from an error returned by a
// LedgerServiceClient, or "" if it carries none
func ErrorKindOf(err error) string {
	var connectErr *connect.Error
	if !errors.As(err, &connectErr) {
		return ""
	}
	return connectErr.Meta().Get(ErrorKindHeader)
}
