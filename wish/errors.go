package wish

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so callers can branch without type switches.
type Kind int

const (
	// KindUnknownService is a nonzero status code missing from the classification table
	KindUnknownService Kind = iota
	// KindConfiguration is a client-side setup problem detected before any I/O
	KindConfiguration
	// KindConnection is a transport failure; it never carries a status code
	KindConnection
	// KindUnauthorized means the credentials were rejected (4000)
	KindUnauthorized
	// KindTokenExpired means the access token expired (1015)
	KindTokenExpired
	// KindTokenRevoked means the access token was revoked (1016 on regular calls)
	KindTokenRevoked
	// KindAuthorizationCodeExpired means the OAuth code expired (1016 on the code exchange)
	KindAuthorizationCodeExpired
	// KindInvalidParameter means the service rejected the parameters (1000)
	KindInvalidParameter
	// KindOrderAlreadyFulfilled is the fulfillment conflict (1002)
	KindOrderAlreadyFulfilled
	// KindDecode means a successful envelope carried data of an unexpected shape
	KindDecode
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindConnection:
		return "connection"
	case KindUnauthorized:
		return "unauthorized"
	case KindTokenExpired:
		return "token_expired"
	case KindTokenRevoked:
		return "token_revoked"
	case KindAuthorizationCodeExpired:
		return "authorization_code_expired"
	case KindInvalidParameter:
		return "invalid_parameter"
	case KindOrderAlreadyFulfilled:
		return "order_already_fulfilled"
	case KindDecode:
		return "decode"
	default:
		return "unknown_service_error"
	}
}

// Sentinel errors, one per kind. An *Error matches its kind's sentinel
// through errors.Is.
var (
	ErrConfiguration            = errors.New("wish: configuration error")
	ErrConnection               = errors.New("wish: connection error")
	ErrUnauthorized             = errors.New("wish: unauthorized")
	ErrTokenExpired             = errors.New("wish: access token expired")
	ErrTokenRevoked             = errors.New("wish: access token revoked")
	ErrAuthorizationCodeExpired = errors.New("wish: authorization code expired")
	ErrInvalidParameter         = errors.New("wish: invalid parameter")
	ErrOrderAlreadyFulfilled    = errors.New("wish: order already fulfilled")
	ErrUnknownService           = errors.New("wish: unknown service error")
	ErrDecode                   = errors.New("wish: unexpected response data")
)

var kindSentinels = map[Kind]error{
	KindConfiguration:            ErrConfiguration,
	KindConnection:               ErrConnection,
	KindUnauthorized:             ErrUnauthorized,
	KindTokenExpired:             ErrTokenExpired,
	KindTokenRevoked:             ErrTokenRevoked,
	KindAuthorizationCodeExpired: ErrAuthorizationCodeExpired,
	KindInvalidParameter:         ErrInvalidParameter,
	KindOrderAlreadyFulfilled:    ErrOrderAlreadyFulfilled,
	KindUnknownService:           ErrUnknownService,
	KindDecode:                   ErrDecode,
}

// Error is returned for every failed call.
type Error struct {
	Kind    Kind
	Message string
	// Request is the call that failed; nil for errors raised before a request existed.
	Request *Request
	// Envelope is the parsed response; nil for configuration and connection errors.
	Envelope *Envelope
	Err      error
}

func newError(kind Kind, msg string, req *Request, env *Envelope, cause error) *Error {
	return &Error{
		Kind:     kind,
		Message:  msg,
		Request:  req,
		Envelope: env,
		Err:      cause,
	}
}

// Error implements the error interface
func (e *Error) Error() string {
	s := "wish " + e.Kind.String() + ": " + e.Message
	if code, ok := e.StatusCode(); ok {
		s += fmt.Sprintf(" (code %d", code)
		if msg := e.ServiceMessage(); msg != "" {
			s += ": " + msg
		}
		s += ")"
	}
	if e.Request != nil {
		s += " [" + e.Request.Method + " " + e.Request.Path + "]"
	}
	if e.Err != nil && e.Kind == KindConnection {
		s += ": " + e.Err.Error()
	}
	return s
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind.
// Every credential failure also matches ErrUnauthorized.
func (e *Error) Is(target error) bool {
	if target == ErrUnauthorized && e.IsUnauthorized() {
		return true
	}
	return kindSentinels[e.Kind] == target
}

// StatusCode returns the service status code, if the response carried one
func (e *Error) StatusCode() (int, bool) {
	if e.Envelope == nil || !e.Envelope.HasCode {
		return 0, false
	}
	return e.Envelope.Code, true
}

// ServiceMessage returns the message the service attached to the response
func (e *Error) ServiceMessage() string {
	if e.Envelope == nil {
		return ""
	}
	return e.Envelope.Message
}

// IsUnauthorized reports whether the error is any of the auth failure kinds
func (e *Error) IsUnauthorized() bool {
	switch e.Kind {
	case KindUnauthorized, KindTokenExpired, KindTokenRevoked, KindAuthorizationCodeExpired:
		return true
	}
	return false
}

// KindOf returns the Kind of err if it is an *Error.
func KindOf(err error) (Kind, bool) {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind, true
	}
	return 0, false
}

// classification is one row of a code table
type classification struct {
	kind    Kind
	message string
}

// codeTable maps service status codes to error kinds for one call context.
type codeTable map[int]classification

var (
	// generalCodes applies to every regular API call
	generalCodes = codeTable{
		4000: {KindUnauthorized, "Unauthorized access"},
		1015: {KindTokenExpired, "Access Token expired"},
		1016: {KindTokenRevoked, "Access Token revoked"},
		1000: {KindInvalidParameter, "Invalid parameter"},
		1002: {KindOrderAlreadyFulfilled, "Order has been fulfilled"},
	}

	// authCodeExchangeCodes applies to oauth/access_token, where 1016 means
	// the authorization code expired rather than a revoked token
	authCodeExchangeCodes = codeTable{
		4000: {KindUnauthorized, "Unauthorized access"},
		1016: {KindAuthorizationCodeExpired, "Access code expired"},
	}

	// refreshCodes applies to oauth/refresh_token
	refreshCodes = codeTable{
		4000: {KindUnauthorized, "Unauthorized access"},
	}
)

// classify passes successful envelopes through and turns every other
// status code into an *Error. Envelopes without a code (the non-JSON
// fallback) are treated as successful.
func classify(env *Envelope, req *Request, table codeTable) error {
	if !env.HasCode || env.Code == 0 {
		return nil
	}
	if c, ok := table[env.Code]; ok {
		return newError(c.kind, c.message, req, env, nil)
	}
	return newError(KindUnknownService, "Unknown error", req, env, nil)
}
