package wish

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tidwall/gjson"
)

// GetUnviewedNotifications retrieves notifications the merchant has not seen
func (c *Client) GetUnviewedNotifications(ctx context.Context) ([]Notification, error) {
	env, err := c.Do(ctx, http.MethodGet, "noti/fetch-unviewed", nil)
	if err != nil {
		return nil, err
	}

	data := env.DataResult()
	if !data.Exists() || data.Type == gjson.Null {
		return []Notification{}, nil
	}
	if !data.IsArray() {
		return nil, newError(KindDecode, "expected a list", env.Request, env, nil)
	}

	decode := recordDecoder[Notification]()
	notifications := make([]Notification, 0, len(data.Array()))
	for _, raw := range data.Array() {
		n, err := decode(raw)
		if err != nil {
			return nil, newError(KindDecode, err.Error(), env.Request, env, err)
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}

// MarkNotificationViewed marks one notification as viewed
func (c *Client) MarkNotificationViewed(ctx context.Context, id string) error {
	return c.exec(ctx, "noti/mark-as-viewed", Params{"id": id})
}

// GetUnviewedNotificationCount returns the number of unviewed notifications
func (c *Client) GetUnviewedNotificationCount(ctx context.Context) (int, error) {
	data, err := c.get(ctx, http.MethodGet, "noti/get-unviewed-count", nil)
	if err != nil {
		return 0, err
	}
	if data.IsObject() {
		return int(data.Get("count").Int()), nil
	}
	return int(data.Int()), nil
}

// GetBDAnnouncements returns business development announcements as raw JSON
func (c *Client) GetBDAnnouncements(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, "fetch-bd-announcement")
}

// GetSystemUpdateNotifications returns system update notices as raw JSON
func (c *Client) GetSystemUpdateNotifications(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, "fetch-sys-updates-noti")
}

// GetInfractionCount returns the number of open infractions
func (c *Client) GetInfractionCount(ctx context.Context) (int, error) {
	data, err := c.get(ctx, http.MethodGet, "count/infractions", nil)
	if err != nil {
		return 0, err
	}
	if data.IsObject() {
		return int(data.Get("count").Int()), nil
	}
	return int(data.Int()), nil
}

// GetInfractionLinks returns links to open infractions as raw JSON
func (c *Client) GetInfractionLinks(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, "get/infractions")
}

// GetShippingCarriers returns the accepted shipping providers as raw JSON
func (c *Client) GetShippingCarriers(ctx context.Context) (json.RawMessage, error) {
	return c.raw(ctx, "get-shipping-carriers")
}

func (c *Client) raw(ctx context.Context, path string) (json.RawMessage, error) {
	env, err := c.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}
