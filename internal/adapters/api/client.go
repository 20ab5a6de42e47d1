package api

import (
	"context"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceClient is a typed client for the ledger service.
// Mutations must carry an Authorization header; see WithBearerToken.
type LedgerServiceClient struct {
	getAllItems         *connect.Client[GetAllItemsRequest, GetAllItemsResponse]
	getListedItemsCount *connect.Client[GetListedItemsCountRequest, GetListedItemsCountResponse]
	getItemsCount       *connect.Client[GetItemsCountRequest, GetItemsCountResponse]
	getItem             *connect.Client[GetItemRequest, ItemResponse]
	getItemSoldForMost  *connect.Client[GetItemSoldForMostRequest, ItemResponse]
	getItemBidOnMost    *connect.Client[GetItemBidOnMostRequest, ItemResponse]
	createItem          *connect.Client[CreateItemRequest, Empty]
	editItem            *connect.Client[EditItemRequest, Empty]
	unlistItem          *connect.Client[UnlistItemRequest, Empty]
	bid                 *connect.Client[BidRequest, Empty]
}

func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &LedgerServiceClient{
		getAllItems:         connect.NewClient[GetAllItemsRequest, GetAllItemsResponse](httpClient, baseURL+LedgerServiceGetAllItemsProcedure, opts...),
		getListedItemsCount: connect.NewClient[GetListedItemsCountRequest, GetListedItemsCountResponse](httpClient, baseURL+LedgerServiceGetListedItemsCountProcedure, opts...),
		getItemsCount:       connect.NewClient[GetItemsCountRequest, GetItemsCountResponse](httpClient, baseURL+LedgerServiceGetItemsCountProcedure, opts...),
		getItem:             connect.NewClient[GetItemRequest, ItemResponse](httpClient, baseURL+LedgerServiceGetItemProcedure, opts...),
		getItemSoldForMost:  connect.NewClient[GetItemSoldForMostRequest, ItemResponse](httpClient, baseURL+LedgerServiceGetItemSoldForMostProcedure, opts...),
		getItemBidOnMost:    connect.NewClient[GetItemBidOnMostRequest, ItemResponse](httpClient, baseURL+LedgerServiceGetItemBidOnMostProcedure, opts...),
		createItem:          connect.NewClient[CreateItemRequest, Empty](httpClient, baseURL+LedgerServiceCreateItemProcedure, opts...),
		editItem:            connect.NewClient[EditItemRequest, Empty](httpClient, baseURL+LedgerServiceEditItemProcedure, opts...),
		unlistItem:          connect.NewClient[UnlistItemRequest, Empty](httpClient, baseURL+LedgerServiceUnlistItemProcedure, opts...),
		bid:                 connect.NewClient[BidRequest, Empty](httpClient, baseURL+LedgerServiceBidProcedure, opts...),
	}
}

// WithBearerToken sets the Authorization header on a request
func WithBearerToken[T any](req *connect.Request[T], token string) *connect.Request[T] {
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func (c *LedgerServiceClient) GetAllItems(ctx context.Context, req *connect.Request[GetAllItemsRequest]) (*connect.Response[GetAllItemsResponse], error) {
	return c.getAllItems.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetListedItemsCount(ctx context.Context, req *connect.Request[GetListedItemsCountRequest]) (*connect.Response[GetListedItemsCountResponse], error) {
	return c.getListedItemsCount.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetItemsCount(ctx context.Context, req *connect.Request[GetItemsCountRequest]) (*connect.Response[GetItemsCountResponse], error) {
	return c.getItemsCount.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetItem(ctx context.Context, req *connect.Request[GetItemRequest]) (*connect.Response[ItemResponse], error) {
	return c.getItem.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetItemSoldForMost(ctx context.Context, req *connect.Request[GetItemSoldForMostRequest]) (*connect.Response[ItemResponse], error) {
	return c.getItemSoldForMost.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) GetItemBidOnMost(ctx context.Context, req *connect.Request[GetItemBidOnMostRequest]) (*connect.Response[ItemResponse], error) {
	return c.getItemBidOnMost.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) CreateItem(ctx context.Context, req *connect.Request[CreateItemRequest]) (*connect.Response[Empty], error) {
	return c.createItem.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) EditItem(ctx context.Context, req *connect.Request[EditItemRequest]) (*connect.Response[Empty], error) {
	return c.editItem.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) UnlistItem(ctx context.Context, req *connect.Request[UnlistItemRequest]) (*connect.Response[Empty], error) {
	return c.unlistItem.CallUnary(ctx, req)
}

func (c *LedgerServiceClient) Bid(ctx context.Context, req *connect.Request[BidRequest]) (*connect.Response[Empty], error) {
	return c.bid.CallUnary(ctx, req)
}
