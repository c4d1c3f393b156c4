package client

import (
	"context"
	"strings"

	"github.com/fivetwenty-io/ghapp/internal/constants"
	"github.com/fivetwenty-io/ghapp/internal/transport"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
)

// classifyOperation maps an operation to its rate-limit category. First
// match wins: search-prefixed names, graphql-prefixed names, then a generic
// post whose target path references the graphql endpoint; everything else
// draws from the core quota.
func classifyOperation(operation string, args []any) string {
	switch {
	case strings.HasPrefix(operation, "search"):
		return ghapp.CategorySearch
	case strings.HasPrefix(operation, "graphql"):
		return ghapp.CategoryGraphQL
	case operation == "post" && len(args) > 0:
		if path, ok := args[0].(string); ok && strings.Contains(path, "/graphql") {
			return ghapp.CategoryGraphQL
		}
	}

	return ghapp.CategoryCore
}

// Do implements ghapp.Client.Do: classify, block on the governor, invoke on
// the current session transport, retried under the configured policy.
func (c *Client) Do(ctx context.Context, operation string, args []any, opts ...ghapp.CallOption) (*ghapp.Response, error) {
	settings := ghapp.ApplyCallOptions(opts)
	category := classifyOperation(operation, args)

	call := &transport.Call{
		Args:   args,
		Params: settings.Params,
		OnPage: settings.OnPage,
	}

	// Session freshness is checked per attempt, after any governor wait, so
	// a request never goes out on a session past its age margin. Credential
	// and authentication failures abort the retry loop immediately.
	run := func() (*ghapp.Response, error) {
		if err := c.governor.Await(ctx, category); err != nil {
			return nil, err
		}

		t, err := c.activeTransport(ctx)
		if err != nil {
			return nil, err
		}

		return t.Invoke(ctx, operation, call)
	}

	var (
		resp *ghapp.Response
		err  error
	)

	if settings.NoRetry {
		resp, err = run()
	} else {
		resp, err = c.retry.execute(run)
	}

	if err != nil && operation == "search_issues" && ghapp.IsSecondaryRateLimit(err) {
		// Cool down, then surface the original error; the caller decides
		// whether to invoke again.
		c.logger.Warn("secondary rate limit reported, cooling down", map[string]interface{}{
			"operation": operation,
			"cooldown":  constants.SecondaryRateLimitCooldown.String(),
		})
		c.sleep(constants.SecondaryRateLimitCooldown)

		return nil, err
	}

	return resp, err
}
