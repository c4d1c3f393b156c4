package ghapp

import "time"

// Config represents the wrapper configuration for building a ghapp.Client.
//
// # Identity inputs
//
// AppID and InstallationID are required. PrivateKey accepts three forms,
// resolved once at construction:
//  1. A path ending in ".pem" or ".key": the file is read; a missing file or
//     empty content is a ConfigurationError.
//  2. Inline PEM text: literal "\n" escape sequences are normalized into
//     real line breaks, so keys copied out of environment files work as-is.
//  3. Empty: the GITHUB_APP_PRIVATE_KEY environment variable is required; if
//     it is absent construction fails with a ConfigurationError.
//
// # Resilience
//
// RetryMaxAttempts, RetryBaseDelay, and RetryExponential configure the retry
// engine applied to every dispatched operation (defaults: 10 attempts, 3s,
// fixed delay). Rate-limit waiting is always on and not configurable.
type Config struct {
	// AppID is the numeric GitHub App identifier.
	AppID int64
	// InstallationID is the numeric installation the minted tokens are
	// scoped to.
	InstallationID int64
	// PrivateKey is the app's signing key: a file path, inline PEM text, or
	// empty to fall back to GITHUB_APP_PRIVATE_KEY.
	PrivateKey string
	// SigningAlgorithm names the JWT signing algorithm. Defaults to RS256.
	SigningAlgorithm string

	// BaseURL is the API root. Defaults to https://api.github.com. ghclient
	// normalizes this value by trimming a trailing slash and adding
	// "https://" if no scheme is present.
	BaseURL string

	// RetryMaxAttempts is the total attempt budget per call. Defaults to 10.
	RetryMaxAttempts int
	// RetryBaseDelay is the delay before the first retry. Defaults to 3s.
	RetryBaseDelay time.Duration
	// RetryExponential doubles the delay before each successive retry.
	// Defaults to fixed delay.
	RetryExponential bool

	// HTTPTimeout is the per-request transport timeout. Most callers should
	// rely on context deadlines instead.
	HTTPTimeout time.Duration
	// UserAgent overrides the default User-Agent header.
	UserAgent string
	// Debug enables verbose HTTP request/response logging when a Logger is
	// provided. Sensitive values are never logged.
	Debug bool
	// Logger is an optional structured logger.
	Logger Logger
}

// RetryPolicy builds the effective retry policy, applying the given
// defaults for unset fields.
func (c *Config) RetryPolicy(defaultAttempts int, defaultDelay time.Duration) RetryPolicy {
	policy := RetryPolicy{
		MaxAttempts: c.RetryMaxAttempts,
		BaseDelay:   c.RetryBaseDelay,
		Exponential: c.RetryExponential,
	}

	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = defaultAttempts
	}

	if policy.BaseDelay <= 0 {
		policy.BaseDelay = defaultDelay
	}

	return policy
}
