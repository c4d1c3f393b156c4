package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fivetwenty-io/ghapp/internal/transport"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyOperation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		operation string
		args      []any
		want      string
	}{
		{"search issues", "search_issues", nil, ghapp.CategorySearch},
		{"search repositories", "search_repositories", nil, ghapp.CategorySearch},
		{"graphql", "graphql", nil, ghapp.CategoryGraphQL},
		{"post to graphql endpoint", "post", []any{"/graphql", `{"query":"{}"}`}, ghapp.CategoryGraphQL},
		{"post elsewhere", "post", []any{"/repos/o/r/issues"}, ghapp.CategoryCore},
		{"post without args", "post", nil, ghapp.CategoryCore},
		{"post with non-string arg", "post", []any{42}, ghapp.CategoryCore},
		{"plain get", "get", []any{"/zen"}, ghapp.CategoryCore},
		{"named operation", "get_repository", []any{"o", "r"}, ghapp.CategoryCore},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, classifyOperation(tt.operation, tt.args))
		})
	}
}

func TestDoForwardsArgsAndParams(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	resp, err := f.client.Do(context.Background(), "list_issues", []any{"octo", "hello"},
		ghapp.WithParams(map[string]any{"state": "open"}))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	require.Equal(t, []string{"list_issues"}, f.fake.invocations)
	require.NotNil(t, f.fake.lastCall)
	assert.Equal(t, []any{"octo", "hello"}, f.fake.lastCall.Args)
	assert.Equal(t, map[string]any{"state": "open"}, f.fake.lastCall.Params)
}

func TestDoRetriesFailedInvocations(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &ghapp.Config{RetryMaxAttempts: 5})

	failures := 2
	f.fake.invokeFunc = func(ctx context.Context, operation string, call *transport.Call) (*ghapp.Response, error) {
		if failures > 0 {
			failures--

			return nil, errors.New("connection reset")
		}

		return &ghapp.Response{StatusCode: 200}, nil
	}

	resp, err := f.client.Do(context.Background(), "get", []any{"/zen"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Len(t, f.fake.invocations, 3)
	assert.Len(t, f.retrySleep, 2)
}

func TestDoWithoutRetrySingleAttempt(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &ghapp.Config{RetryMaxAttempts: 5})

	invokeErr := errors.New("connection reset")
	f.fake.invokeFunc = func(ctx context.Context, operation string, call *transport.Call) (*ghapp.Response, error) {
		return nil, invokeErr
	}

	_, err := f.client.Do(context.Background(), "get", []any{"/zen"}, ghapp.WithoutRetry())
	require.ErrorIs(t, err, invokeErr)

	assert.Len(t, f.fake.invocations, 1)
	assert.Empty(t, f.retrySleep)
	// The retry toggle is consumed by the dispatcher, not forwarded.
	assert.Nil(t, f.fake.lastCall.Params)
}

func TestDoReturnsFinalErrorUnchanged(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &ghapp.Config{RetryMaxAttempts: 2})

	apiErr := &ghapp.APIError{StatusCode: 404, Message: "Not Found"}
	f.fake.invokeFunc = func(ctx context.Context, operation string, call *transport.Call) (*ghapp.Response, error) {
		return nil, apiErr
	}

	_, err := f.client.Do(context.Background(), "get", []any{"/missing"})
	assert.Same(t, apiErr, err)
	assert.True(t, ghapp.IsNotFound(err))
}

func TestDoSearchIssuesSecondaryRateLimitCoolsDown(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &ghapp.Config{RetryMaxAttempts: 2})

	apiErr := &ghapp.APIError{
		StatusCode: 403,
		Message:    "You have exceeded a secondary rate limit. Please wait a few minutes before you try again.",
	}
	f.fake.invokeFunc = func(ctx context.Context, operation string, call *transport.Call) (*ghapp.Response, error) {
		return nil, apiErr
	}

	resp, err := f.client.Do(context.Background(), "search_issues", []any{"is:open"})

	assert.Nil(t, resp)
	// Cool down for a minute, then surface the original error.
	assert.Same(t, apiErr, err)
	assert.Equal(t, []time.Duration{60 * time.Second}, f.dispatchSleep)
}

func TestDoSecondaryRateLimitOnlyCoolsDownSearchIssues(t *testing.T) {
	t.Parallel()

	f := newFixture(t, &ghapp.Config{RetryMaxAttempts: 2})

	apiErr := &ghapp.APIError{StatusCode: 403, Message: "You have exceeded a secondary rate limit."}
	f.fake.invokeFunc = func(ctx context.Context, operation string, call *transport.Call) (*ghapp.Response, error) {
		return nil, apiErr
	}

	_, err := f.client.Do(context.Background(), "search_code", []any{"needle"})

	assert.Same(t, apiErr, err)
	assert.Empty(t, f.dispatchSleep)
}

func TestDoPageCallbackForwarded(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	pages := 0
	_, err := f.client.Do(context.Background(), "list_issues", []any{"octo", "hello"},
		ghapp.WithPageFunc(func(resp *ghapp.Response) error {
			pages++

			return nil
		}))
	require.NoError(t, err)

	require.NotNil(t, f.fake.lastCall.OnPage)
	require.NoError(t, f.fake.lastCall.OnPage(&ghapp.Response{}))
	assert.Equal(t, 1, pages)
}
