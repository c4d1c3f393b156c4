package constants

import "time"

// Credential lifecycle.
const (
	// AssertionClockDrift is subtracted from the issued-at claim to tolerate
	// clock skew between us and the remote service.
	AssertionClockDrift = 60 * time.Second

	// AssertionLifetime is the validity window of a signed app assertion,
	// measured from the (backdated) issued-at claim.
	AssertionLifetime = 10 * time.Minute

	// SessionMaxAge is how long an installation session is used before a
	// fresh token exchange. Installation tokens live for an hour; staying
	// well under that avoids racing the server-side expiry.
	SessionMaxAge = 45 * time.Minute
)

// Rate limiting.
const (
	// RateLimitSlack is added to every computed reset wait as a safety
	// margin against clock skew.
	RateLimitSlack = 2 * time.Second

	// SecondaryRateLimitCooldown is the fixed wait applied when the remote
	// service reports a secondary (abuse) rate limit.
	SecondaryRateLimitCooldown = 60 * time.Second
)

// Retry defaults.
const (
	// DefaultRetryMaxAttempts is the default total attempt budget per call.
	DefaultRetryMaxAttempts = 10

	// DefaultRetryBaseDelay is the default delay between attempts.
	DefaultRetryBaseDelay = 3 * time.Second

	// RetryMaxInterval caps the exponential backoff interval. Kept far above
	// anything a realistic attempt budget can reach so the doubling sequence
	// is never truncated.
	RetryMaxInterval = 24 * time.Hour
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second

	// ShortHTTPTimeout is used for quick operations.
	ShortHTTPTimeout = 10 * time.Second
)

// Pagination.
const (
	// DefaultPageSize is the page size requested when auto-pagination is on.
	DefaultPageSize = 100
)
