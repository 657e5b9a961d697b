package wish

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	httpClient      *http.Client
	connectTimeout  time.Duration
	userAgent       string
	pageSize        int
	pageConcurrency int
	baseURLs        map[Environment]string
	logger          zerolog.Logger
}

func defaultOptions() clientOptions {
	return clientOptions{
		connectTimeout:  DefaultConnectTimeout,
		userAgent:       DefaultUserAgent,
		pageSize:        DefaultPageSize,
		pageConcurrency: 1,
		baseURLs:        make(map[Environment]string),
		logger:          zerolog.Nop(),
	}
}

// WithHTTPClient replaces the HTTP client. The connect timeout option is
// ignored when a custom client is supplied.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithConnectTimeout sets the dial and TLS handshake timeout.
func WithConnectTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.connectTimeout = timeout
		}
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		o.userAgent = userAgent
	}
}

// WithPageSize sets the limit sent with every page request.
func WithPageSize(size int) Option {
	return func(o *clientOptions) {
		if size > 0 {
			o.pageSize = size
		}
	}
}

// WithPageConcurrency fetches up to n pages at once after the first page.
// Results keep offset order and any failure still aborts the whole call.
func WithPageConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.pageConcurrency = n
		}
	}
}

// WithBaseURL overrides the base path used for one environment.
// The API version segment is still appended.
func WithBaseURL(env Environment, baseURL string) Option {
	return func(o *clientOptions) {
		o.baseURLs[env] = baseURL
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}
