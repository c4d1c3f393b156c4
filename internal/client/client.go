// Package client implements the ghapp.Client wrapper: lazy installation
// sessions, rate-limit governance, and retry around a generic transport.
package client

import (
	"context"
	"time"

	"github.com/fivetwenty-io/ghapp/internal/auth"
	"github.com/fivetwenty-io/ghapp/internal/constants"
	"github.com/fivetwenty-io/ghapp/internal/transport"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
)

// Transport is what the wrapper requires from the underlying REST client.
// Satisfied by *transport.Client.
type Transport interface {
	Invoke(ctx context.Context, operation string, call *transport.Call) (*ghapp.Response, error)
	Supports(operation string) bool
	Operations() []string
	CreateInstallationToken(ctx context.Context, installationID int64) (*transport.InstallationToken, error)
	RateLimit(ctx context.Context) (ghapp.RateLimitSnapshot, error)
}

// Client implements the ghapp.Client interface.
//
// A Client targets one logical flow: the session and rate-limit snapshot are
// shared mutable state without internal locking, so concurrent use of one
// instance requires external mutual exclusion.
type Client struct {
	creds    auth.AppCredentials
	logger   ghapp.Logger
	session  *session
	governor *governor
	retry    *retrier

	// Transport construction, injectable for tests.
	newBootstrap    func(assertion string) Transport
	newInstallation func(token string) Transport
	// capabilities answers Supports/Operations before any session exists;
	// every transport instance carries the same operation table.
	capabilities Transport

	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a wrapper from the given config. No network call is made
// until the first dispatched operation.
func New(config *ghapp.Config) (*Client, error) {
	if config == nil {
		return nil, ghapp.ErrConfigRequired
	}

	if config.AppID == 0 {
		return nil, &ghapp.ConfigurationError{Field: "app_id", Reason: "required"}
	}

	if config.InstallationID == 0 {
		return nil, &ghapp.ConfigurationError{Field: "installation_id", Reason: "required"}
	}

	privateKey, err := auth.ResolvePrivateKey(config.PrivateKey)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = ghapp.NopLogger{}
	}

	client := &Client{
		creds: auth.AppCredentials{
			AppID:          config.AppID,
			InstallationID: config.InstallationID,
			PrivateKey:     privateKey,
			Algorithm:      config.SigningAlgorithm,
		},
		logger: logger,
		retry: &retrier{
			policy: config.RetryPolicy(constants.DefaultRetryMaxAttempts, constants.DefaultRetryBaseDelay),
			sleep:  time.Sleep,
			logger: logger,
		},
		now:   time.Now,
		sleep: time.Sleep,
	}

	baseOpts := transportOptions(config, logger)

	client.newBootstrap = func(assertion string) Transport {
		return transport.New(config.BaseURL, transport.BearerCredential{Assertion: assertion}, baseOpts...)
	}
	client.newInstallation = func(token string) Transport {
		opts := append([]transport.Option{}, baseOpts...)
		opts = append(opts, transport.WithAutoPagination(constants.DefaultPageSize))

		return transport.New(config.BaseURL, transport.TokenCredential{Token: token}, opts...)
	}
	client.capabilities = transport.New(config.BaseURL, nil)

	client.governor = newGovernor(client.fetchRateLimits, logger)

	return client, nil
}

// transportOptions builds transport options from config.
func transportOptions(config *ghapp.Config, logger ghapp.Logger) []transport.Option {
	opts := []transport.Option{transport.WithLogger(logger)}

	if config.Debug {
		opts = append(opts, transport.WithDebug(true))
	}

	if config.UserAgent != "" {
		opts = append(opts, transport.WithUserAgent(config.UserAgent))
	}

	if config.HTTPTimeout > 0 {
		opts = append(opts, transport.WithTimeout(config.HTTPTimeout))
	}

	return opts
}

// fetchRateLimits retrieves a snapshot through the current session. The
// fetch itself bypasses the governor and does not count against any quota.
func (c *Client) fetchRateLimits(ctx context.Context) (ghapp.RateLimitSnapshot, error) {
	t, err := c.activeTransport(ctx)
	if err != nil {
		return nil, err
	}

	return t.RateLimit(ctx)
}

// RateLimits implements ghapp.Client.RateLimits.
func (c *Client) RateLimits(ctx context.Context) (ghapp.RateLimitSnapshot, error) {
	return c.governor.Current(ctx)
}

// Supports implements ghapp.Client.Supports: the wrapper supports exactly
// what its transport supports.
func (c *Client) Supports(operation string) bool {
	if c.session != nil {
		return c.session.transport.Supports(operation)
	}

	return c.capabilities.Supports(operation)
}

// Operations implements ghapp.Client.Operations.
func (c *Client) Operations() []string {
	if c.session != nil {
		return c.session.transport.Operations()
	}

	return c.capabilities.Operations()
}
