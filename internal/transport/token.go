package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// InstallationToken is a scoped, short-lived access credential tied to a
// specific app installation.
type InstallationToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateInstallationToken exchanges the client's credential (a signed app
// assertion in bearer mode) for an installation access token.
func (c *Client) CreateInstallationToken(ctx context.Context, installationID int64) (*InstallationToken, error) {
	path := fmt.Sprintf("/app/installations/%d/access_tokens", installationID)

	resp, err := c.Post(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("creating installation token: %w", err)
	}

	var token InstallationToken

	err = json.Unmarshal(resp.Body, &token)
	if err != nil {
		return nil, fmt.Errorf("parsing installation token response: %w", err)
	}

	return &token, nil
}
