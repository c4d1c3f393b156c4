package client

import (
	"context"
	"time"

	"github.com/fivetwenty-io/ghapp/internal/auth"
	"github.com/fivetwenty-io/ghapp/internal/constants"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
)

// session is one live installation-scoped transport. Replaced wholesale on
// expiry, never mutated.
type session struct {
	transport Transport
	mintedAt  time.Time
}

// expired reports whether a fresh token exchange is needed: no session yet,
// or the current one is older than the conservative 45-minute margin under
// the server-side token lifetime.
func (c *Client) expired() bool {
	return c.session == nil || c.now().Sub(c.session.mintedAt) > constants.SessionMaxAge
}

// activeTransport returns a ready-to-use transport, transparently refreshing
// the session when expired.
func (c *Client) activeTransport(ctx context.Context) (Transport, error) {
	if c.expired() {
		if err := c.refreshSession(ctx); err != nil {
			return nil, err
		}
	}

	return c.session.transport, nil
}

// refreshSession mints a fresh assertion, exchanges it for an installation
// access token, and installs a new session. On failure no partial session is
// installed; the prior one (if any) stays in place.
func (c *Client) refreshSession(ctx context.Context) error {
	assertion, err := auth.MintAssertion(c.creds, c.now())
	if err != nil {
		return err
	}

	bootstrap := c.newBootstrap(assertion.Token)

	token, err := bootstrap.CreateInstallationToken(ctx, c.creds.InstallationID)
	if err != nil {
		return &ghapp.AuthenticationError{Err: err}
	}

	c.session = &session{
		transport: c.newInstallation(token.Token),
		mintedAt:  c.now(),
	}

	c.logger.Info("installation session refreshed", map[string]interface{}{
		"app_id":          c.creds.AppID,
		"installation_id": c.creds.InstallationID,
		"token_expires":   token.ExpiresAt,
	})

	return nil
}

// InstallationToken implements ghapp.Client.InstallationToken: it mints and
// returns a fresh token without touching the cached session.
func (c *Client) InstallationToken(ctx context.Context) (string, time.Time, error) {
	assertion, err := auth.MintAssertion(c.creds, c.now())
	if err != nil {
		return "", time.Time{}, err
	}

	bootstrap := c.newBootstrap(assertion.Token)

	token, err := bootstrap.CreateInstallationToken(ctx, c.creds.InstallationID)
	if err != nil {
		return "", time.Time{}, &ghapp.AuthenticationError{Err: err}
	}

	return token.Token, token.ExpiresAt, nil
}
