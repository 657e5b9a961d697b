package wish

import (
	"context"
	"net/http"
)

// GetTicket retrieves a ticket by id
func (c *Client) GetTicket(ctx context.Context, id string) (*Ticket, error) {
	env, err := c.Do(ctx, http.MethodGet, "ticket", Params{"id": id})
	if err != nil {
		return nil, err
	}

	var ticket Ticket
	if err := decodeData(env, &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

// GetAllActionRequiredTickets retrieves tickets awaiting a merchant reply
func (c *Client) GetAllActionRequiredTickets(ctx context.Context) ([]Ticket, error) {
	return Collect(ctx, c, http.MethodGet, "ticket/get-action-required", nil, recordDecoder[Ticket]())
}

// ReplyToTicket posts a reply
func (c *Client) ReplyToTicket(ctx context.Context, id, reply string) error {
	return c.exec(ctx, "ticket/reply", Params{"id": id, "reply": reply})
}

// CloseTicket closes a ticket
func (c *Client) CloseTicket(ctx context.Context, id string) error {
	return c.exec(ctx, "ticket/close", Params{"id": id})
}

// AppealTicket escalates a ticket to Wish support
func (c *Client) AppealTicket(ctx context.Context, id string) error {
	return c.exec(ctx, "ticket/appeal-to-wish-support", Params{"id": id})
}

// ReopenTicket reopens a closed ticket with a reply
func (c *Client) ReopenTicket(ctx context.Context, id, reply string) error {
	return c.exec(ctx, "ticket/re-open", Params{"id": id, "reply": reply})
}
