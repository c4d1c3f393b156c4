package ghapp

import (
	"context"
	"time"
)

// Rate-limit categories tracked independently by the remote service.
const (
	CategoryCore    = "core"
	CategorySearch  = "search"
	CategoryGraphQL = "graphql"
)

// Client is the wrapper around a GitHub App installation. Operations are
// dispatched by name through the underlying transport, gated by the
// rate-limit governor and the retry engine.
type Client interface {
	// Do dispatches a named operation with positional arguments. The
	// operation is classified into a rate-limit category, the governor
	// blocks until a request is safe to issue, and failures are retried up
	// to the configured attempt budget unless WithoutRetry is passed.
	Do(ctx context.Context, operation string, args []any, opts ...CallOption) (*Response, error)

	// Supports reports whether the underlying transport can perform the
	// named operation. The wrapper supports exactly what its transport
	// supports.
	Supports(operation string) bool

	// Operations lists the operation names the underlying transport can
	// perform, sorted.
	Operations() []string

	// RateLimits returns the current rate-limit snapshot, fetching one from
	// the remote service if the cache is cold.
	RateLimits(ctx context.Context) (RateLimitSnapshot, error)

	// InstallationToken mints and returns a fresh installation access token
	// together with its expiry, without dispatching an operation. Useful
	// for handing tokens to external tools.
	InstallationToken(ctx context.Context) (string, time.Time, error)
}

// Response is the parsed result of a dispatched operation.
type Response struct {
	StatusCode int
	Headers    map[string][]string
	Body       []byte
}

// RateLimitStatus is the quota state of a single category.
type RateLimitStatus struct {
	Limit     int       `json:"limit"     yaml:"limit"`
	Used      int       `json:"used"      yaml:"used"`
	Remaining int       `json:"remaining" yaml:"remaining"`
	Reset     time.Time `json:"reset"     yaml:"reset"`
}

// RateLimitSnapshot maps rate-limit categories to their quota state.
type RateLimitSnapshot map[string]RateLimitStatus

// RetryPolicy controls the retry engine. Immutable once set on a Config.
type RetryPolicy struct {
	// MaxAttempts is the total attempt budget per call, including the first.
	MaxAttempts int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// Exponential doubles the delay before each successive retry. When
	// false, BaseDelay is used between every attempt.
	Exponential bool
}

// CallOption adjusts a single dispatched operation.
type CallOption func(*CallSettings)

// CallSettings is the resolved per-call configuration. Consumed by the
// dispatcher; never forwarded to the transport.
type CallSettings struct {
	NoRetry bool
	Params  map[string]any
	OnPage  func(*Response) error
}

// WithoutRetry bypasses the retry engine: the operation is invoked exactly
// once and any failure is returned immediately.
func WithoutRetry() CallOption {
	return func(s *CallSettings) { s.NoRetry = true }
}

// WithParams attaches keyword arguments to the operation, such as a request
// body or query values.
func WithParams(params map[string]any) CallOption {
	return func(s *CallSettings) { s.Params = params }
}

// WithPageFunc registers a callback invoked once per fetched page when the
// transport auto-paginates. Returning an error stops pagination.
func WithPageFunc(fn func(*Response) error) CallOption {
	return func(s *CallSettings) { s.OnPage = fn }
}

// ApplyCallOptions resolves a set of CallOptions into CallSettings.
func ApplyCallOptions(opts []CallOption) *CallSettings {
	settings := &CallSettings{}
	for _, opt := range opts {
		opt(settings)
	}

	return settings
}
