package wish

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Client is a Wish merchant API client bound to one session.
// Calls are synchronous; a Client may be shared between goroutines.
type Client struct {
	session         Session
	builder         *RequestBuilder
	httpClient      *http.Client
	userAgent       string
	pageSize        int
	pageConcurrency int
	logger          zerolog.Logger
}

// NewClient creates a new client for session. It fails with a
// configuration error when the session's environment has no base URL.
func NewClient(session Session, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	builder := NewRequestBuilder(o.baseURLs)
	if _, err := builder.BaseURL(session.Environment()); err != nil {
		return nil, err
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = newHTTPClient(o.connectTimeout)
	}

	return &Client{
		session:         session,
		builder:         builder,
		httpClient:      httpClient,
		userAgent:       o.userAgent,
		pageSize:        o.pageSize,
		pageConcurrency: o.pageConcurrency,
		logger:          o.logger,
	}, nil
}

// Session returns the session the client was created with
func (c *Client) Session() Session {
	return c.session
}

// Do builds, sends, parses, and classifies one call. A nil error means
// the envelope reported success.
func (c *Client) Do(ctx context.Context, method, path string, params Params) (*Envelope, error) {
	return c.call(ctx, method, path, params, generalCodes)
}

func (c *Client) call(ctx context.Context, method, path string, params Params, table codeTable) (*Envelope, error) {
	req, err := c.builder.Build(c.session, method, path, params)
	if err != nil {
		return nil, err
	}

	env, err := c.execute(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := classify(env, req, table); err != nil {
		c.logger.Debug().
			Err(err).
			Str("path", path).
			Int("code", env.Code).
			Msg("Wish API returned an error")
		return nil, err
	}

	return env, nil
}

// get performs a successful call and returns its payload
func (c *Client) get(ctx context.Context, method, path string, params Params) (gjson.Result, error) {
	env, err := c.Do(ctx, method, path, params)
	if err != nil {
		return gjson.Result{}, err
	}
	return env.DataResult(), nil
}

// exec performs a call whose payload is not needed
func (c *Client) exec(ctx context.Context, path string, params Params) error {
	_, err := c.Do(ctx, http.MethodPost, path, params)
	return err
}

// decodeData materializes the payload of env into out
func decodeData(env *Envelope, out any) error {
	if err := decodeRecord(env.DataResult(), out); err != nil {
		return newError(KindDecode, err.Error(), env.Request, env, err)
	}
	return nil
}

// AuthTest verifies the session's credentials and returns the service's
// reply (typically the merchant id).
func (c *Client) AuthTest(ctx context.Context) (string, error) {
	data, err := c.get(ctx, http.MethodGet, "auth_test", nil)
	if err != nil {
		return "", err
	}
	if data.IsObject() {
		if id := data.Get("merchant_id"); id.Exists() {
			return id.String(), nil
		}
		return data.Raw, nil
	}
	return data.String(), nil
}
