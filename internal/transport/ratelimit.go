package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
)

// rateLimitResponse is the wire shape of the /rate_limit endpoint.
type rateLimitResponse struct {
	Resources map[string]rateLimitResource `json:"resources"`
}

type rateLimitResource struct {
	Limit     int   `json:"limit"`
	Used      int   `json:"used"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
}

// RateLimit fetches the current quota snapshot for every category. The
// endpoint itself does not count against any quota.
func (c *Client) RateLimit(ctx context.Context) (ghapp.RateLimitSnapshot, error) {
	resp, err := c.Get(ctx, "/rate_limit", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching rate limit: %w", err)
	}

	var parsed rateLimitResponse

	err = json.Unmarshal(resp.Body, &parsed)
	if err != nil {
		return nil, fmt.Errorf("parsing rate limit response: %w", err)
	}

	snapshot := make(ghapp.RateLimitSnapshot, len(parsed.Resources))
	for category, resource := range parsed.Resources {
		snapshot[category] = ghapp.RateLimitStatus{
			Limit:     resource.Limit,
			Used:      resource.Used,
			Remaining: resource.Remaining,
			Reset:     time.Unix(resource.Reset, 0),
		}
	}

	return snapshot, nil
}
