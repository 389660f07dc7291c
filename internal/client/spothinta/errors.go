package spothinta

import "errors"

var (
	// ErrTransport covers network failures, timeouts and non-2xx responses.
	// Never retried here; the next scheduled poll is the retry.
	ErrTransport = errors.New("spot-hinta API request failed")
	// ErrDecode means the response body is not a structurally parseable
	// JSON array.
	ErrDecode = errors.New("spot-hinta API response is not decodable")
	// ErrRateLimited marks the HTTP 429 case of ErrTransport. The provider
	// permits roughly one request per minute per IP.
	ErrRateLimited = errors.New("spot-hinta API rate limit exceeded")
)
