package api

import (
	"net/http"

	"connectrpc.com/connect"

	"github.com/floroz/ledger/pkg/auth"
)

// LedgerServiceName is the fully-qualified name of the ledger service
const LedgerServiceName = "ledger.v1.LedgerService"

// Procedure paths
const (
	LedgerServiceGetAllItemsProcedure         = "/" + LedgerServiceName + "/GetAllItems"
	LedgerServiceGetListedItemsCountProcedure = "/" + LedgerServiceName + "/GetListedItemsCount"
	LedgerServiceGetItemsCountProcedure       = "/" + LedgerServiceName + "/GetItemsCount"
	LedgerServiceGetItemProcedure             = "/" + LedgerServiceName + "/GetItem"
	LedgerServiceGetItemSoldForMostProcedure  = "/" + LedgerServiceName + "/GetItemSoldForMost"
	LedgerServiceGetItemBidOnMostProcedure    = "/" + LedgerServiceName + "/GetItemBidOnMost"
	LedgerServiceCreateItemProcedure          = "/" + LedgerServiceName + "/CreateItem"
	LedgerServiceEditItemProcedure            = "/" + LedgerServiceName + "/EditItem"
	LedgerServiceUnlistItemProcedure          = "/" + LedgerServiceName + "/UnlistItem"
	LedgerServiceBidProcedure                 = "/" + LedgerServiceName + "/Bid"
)

// NewLedgerServiceRoutes builds the HTTP handler for every ledger procedure.
// Queries are open; mutations require a valid bearer token.
// It returns the path prefix to mount the handler on.
func NewLedgerServiceRoutes(h *LedgerServiceHandler, signer *auth.Signer, opts ...connect.HandlerOption) (string, http.Handler) {
	public := append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	authenticated := append([]connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(auth.NewAuthInterceptor(signer)),
	}, opts...)

	mux := http.NewServeMux()

	// Queries
	mux.Handle(LedgerServiceGetAllItemsProcedure, connect.NewUnaryHandler(
		LedgerServiceGetAllItemsProcedure, h.GetAllItems, public...))
	mux.Handle(LedgerServiceGetListedItemsCountProcedure, connect.NewUnaryHandler(
		LedgerServiceGetListedItemsCountProcedure, h.GetListedItemsCount, public...))
	mux.Handle(LedgerServiceGetItemsCountProcedure, connect.NewUnaryHandler(
		LedgerServiceGetItemsCountProcedure, h.GetItemsCount, public...))
	mux.Handle(LedgerServiceGetItemProcedure, connect.NewUnaryHandler(
		LedgerServiceGetItemProcedure, h.GetItem, public...))
	mux.Handle(LedgerServiceGetItemSoldForMostProcedure, connect.NewUnaryHandler(
		LedgerServiceGetItemSoldForMostProcedure, h.GetItemSoldForMost, public...))
	mux.Handle(LedgerServiceGetItemBidOnMostProcedure, connect.NewUnaryHandler(
		LedgerServiceGetItemBidOnMostProcedure, h.GetItemBidOnMost, public...))

	// Mutations
	mux.Handle(LedgerServiceCreateItemProcedure, connect.NewUnaryHandler(
		LedgerServiceCreateItemProcedure, h.CreateItem, authenticated...))
	mux.Handle(LedgerServiceEditItemProcedure, connect.NewUnaryHandler(
		LedgerServiceEditItemProcedure, h.EditItem, authenticated...))
	mux.Handle(LedgerServiceUnlistItemProcedure, connect.NewUnaryHandler(
		LedgerServiceUnlistItemProcedure, h.UnlistItem, authenticated...))
	mux.Handle(LedgerServiceBidProcedure, connect.NewUnaryHandler(
		LedgerServiceBidProcedure, h.Bid, authenticated...))

	return "/" + LedgerServiceName + "/", mux
}
