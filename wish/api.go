package wish

import (
	"context"
)

// MerchantAPI defines the merchant operations used by consumers of the client
type MerchantAPI interface {
	// AuthTest verifies the session credentials
	AuthTest(ctx context.Context) (string, error)

	// GetAllProducts retrieves every product
	GetAllProducts(ctx context.Context) ([]Product, error)

	// GetAllVariations retrieves every variation
	GetAllVariations(ctx context.Context) ([]Variation, error)

	// GetAllChangedOrdersSince retrieves orders changed since a date
	GetAllChangedOrdersSince(ctx context.Context, since string) ([]Order, error)

	// GetAllUnfulfilledOrdersSince retrieves orders awaiting fulfillment
	GetAllUnfulfilledOrdersSince(ctx context.Context, since string) ([]Order, error)

	// GetAllActionRequiredTickets retrieves tickets awaiting a reply
	GetAllActionRequiredTickets(ctx context.Context) ([]Ticket, error)

	// GetUnviewedNotifications retrieves unseen notifications
	GetUnviewedNotifications(ctx context.Context) ([]Notification, error)
}

// TokenExchanger performs OAuth token exchanges
type TokenExchanger interface {
	GetToken(ctx context.Context, code, redirectURI string) (*Token, error)
	RefreshToken(ctx context.Context, refreshToken string) (*Token, error)
}

var (
	_ MerchantAPI    = (*Client)(nil)
	_ TokenExchanger = (*Auth)(nil)
)
