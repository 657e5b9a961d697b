package wish

import (
	"context"
	"net/http"
)

// GetOrder retrieves an order by id
func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	env, err := c.Do(ctx, http.MethodGet, "order", Params{"id": id})
	if err != nil {
		return nil, err
	}

	var order Order
	if err := decodeData(env, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetAllChangedOrdersSince retrieves orders changed since the given time
// (YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS). An empty since returns all orders.
func (c *Client) GetAllChangedOrdersSince(ctx context.Context, since string) ([]Order, error) {
	return Collect(ctx, c, http.MethodGet, "order/multi-get", sinceParams(since), recordDecoder[Order]())
}

// GetAllUnfulfilledOrdersSince retrieves orders awaiting fulfillment
func (c *Client) GetAllUnfulfilledOrdersSince(ctx context.Context, since string) ([]Order, error) {
	return Collect(ctx, c, http.MethodGet, "order/get-fulfill", sinceParams(since), recordDecoder[Order]())
}

func sinceParams(since string) Params {
	params := Params{}
	if since != "" {
		params["since"] = since
	}
	return params
}

// FulfillOrder marks an order shipped. A second fulfillment of the same
// order fails with KindOrderAlreadyFulfilled.
func (c *Client) FulfillOrder(ctx context.Context, id string, tracker Tracker) error {
	return c.withTracker(ctx, "order/fulfill-one", id, tracker)
}

// UpdateTrackingInfo replaces the tracking information of a shipped order
func (c *Client) UpdateTrackingInfo(ctx context.Context, id string, tracker Tracker) error {
	return c.withTracker(ctx, "order/modify-tracking", id, tracker)
}

func (c *Client) withTracker(ctx context.Context, path, id string, tracker Tracker) error {
	params, err := structParams(tracker)
	if err != nil {
		return err
	}
	params["id"] = id
	return c.exec(ctx, path, params)
}

// RefundOrder refunds an order. note is optional.
func (c *Client) RefundOrder(ctx context.Context, id string, reasonCode int, note string) error {
	params := Params{
		"id":          id,
		"reason_code": reasonCode,
	}
	if note != "" {
		params["reason_note"] = note
	}
	return c.exec(ctx, "order/refund", params)
}

// UpdateShippingInfo changes the shipping address of an order
func (c *Client) UpdateShippingInfo(ctx context.Context, id string, address Address) error {
	params, err := structParams(address)
	if err != nil {
		return err
	}
	params["id"] = id
	return c.exec(ctx, "order/change-shipping", params)
}
