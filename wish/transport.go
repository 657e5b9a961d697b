package wish

import (
	"context"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultConnectTimeout bounds connection establishment only
	DefaultConnectTimeout = 30 * time.Second
	// DefaultUserAgent identifies the SDK to the service
	DefaultUserAgent = "wish-go-sdk"
)

// newHTTPClient builds the default client: a connect timeout on the dialer
// and no overall deadline, leaving per-call limits to the caller's context.
func newHTTPClient(connectTimeout time.Duration) *http.Client {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	return &http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: connectTimeout,
			MaxIdleConns:        10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// execute performs the network call for req and parses the response.
// Transport faults become KindConnection errors and are never classified.
func (c *Client) execute(ctx context.Context, req *Request) (*Envelope, error) {
	var (
		httpReq *http.Request
		err     error
	)

	encoded := req.params.Encode()
	if req.Method == http.MethodGet {
		target := req.URL
		if encoded != "" {
			target += "?" + encoded
		}
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	} else {
		httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, req.URL, strings.NewReader(encoded))
		if err == nil {
			httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return nil, newError(KindConfiguration, "failed to create request", req, nil, err)
	}

	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Str("environment", string(req.Environment)).
		Msg("Making Wish API request")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, newError(KindConnection, "request failed", req, nil, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(KindConnection, "failed to read response body", req, nil, err)
	}

	env := parseEnvelope(body, resp.StatusCode)
	env.Request = req
	return env, nil
}
