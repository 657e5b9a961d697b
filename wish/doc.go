// Package wish provides a client for the Wish merchant API.
//
// Every call goes through the same pipeline: a Request is built from the
// client's Session (access_token and merchant_id are injected after the
// caller's parameters, so they always win), sent over HTTP to the base URL
// of the session's environment, parsed into an Envelope, and classified.
// A zero status code returns the payload; any other code becomes an *Error
// whose Kind callers can branch on.
//
// # Usage
//
//	session := wish.NewSession(token, wish.EnvProduction, "")
//	client, err := wish.NewClient(session, wish.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	orders, err := client.GetAllUnfulfilledOrdersSince(ctx, "2024-01-01")
//	if errors.Is(err, wish.ErrTokenExpired) {
//		// refresh and retry
//	}
//
// # Pagination
//
// Multi-record endpoints are read with Collect, which sends start/limit
// pairs (limit 50 by default) until the service reports no further pages.
// The result is complete and ordered; a failure on any page discards
// everything fetched so far. WithPageConcurrency fetches later pages in
// parallel without changing that contract.
//
// # Error Handling
//
// All failures are *Error values:
//
//   - KindConfiguration: bad environment or parameters, raised before any I/O
//   - KindConnection: transport failures, never carrying a status code
//   - KindUnauthorized, KindTokenExpired, KindTokenRevoked,
//     KindAuthorizationCodeExpired: credential problems (4000, 1015, 1016)
//   - KindInvalidParameter (1000), KindOrderAlreadyFulfilled (1002)
//   - KindUnknownService: any other nonzero code, passed through unchanged
//
// Each kind has a sentinel (ErrTokenExpired, ...) usable with errors.Is.
// ErrUnauthorized matches every credential failure kind.
package wish
