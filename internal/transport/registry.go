package transport

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
)

// Call carries the arguments of a dispatched operation: positional args,
// keyword params, and an optional per-page callback honored by paginating
// operations.
type Call struct {
	Args   []any
	Params map[string]any
	OnPage func(*ghapp.Response) error
}

// OperationFunc performs one named operation against the client.
type OperationFunc func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error)

// Invoke performs the named operation. Unknown names fail with
// ghapp.ErrOperationNotSupported.
func (c *Client) Invoke(ctx context.Context, operation string, call *Call) (*ghapp.Response, error) {
	if call == nil {
		call = &Call{}
	}

	fn, ok := c.operations[operation]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ghapp.ErrOperationNotSupported, operation)
	}

	return fn(ctx, c, call)
}

// Supports reports whether the client can perform the named operation.
func (c *Client) Supports(operation string) bool {
	_, ok := c.operations[operation]

	return ok
}

// Operations returns the sorted operation names this client can perform.
func (c *Client) Operations() []string {
	names := make([]string, 0, len(c.operations))
	for name := range c.operations {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Register adds or replaces a named operation. Supports and Invoke are
// backed by the same table, so the two cannot drift apart.
func (c *Client) Register(operation string, fn OperationFunc) {
	c.operations[operation] = fn
}

// builtinOperations is the default capability table: generic verbs, the
// GraphQL endpoint, the search operations, and a few common REST shortcuts.
func builtinOperations() map[string]OperationFunc {
	return map[string]OperationFunc{
		"get": func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
			path, err := stringArg(call, 0, "path")
			if err != nil {
				return nil, err
			}

			return c.getAll(ctx, path, queryFromParams(call.Params), call.OnPage)
		},
		"post": func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
			path, err := stringArg(call, 0, "path")
			if err != nil {
				return nil, err
			}

			return c.Post(ctx, path, bodyFromParams(call.Params))
		},
		"put": func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
			path, err := stringArg(call, 0, "path")
			if err != nil {
				return nil, err
			}

			return c.Put(ctx, path, bodyFromParams(call.Params))
		},
		"patch": func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
			path, err := stringArg(call, 0, "path")
			if err != nil {
				return nil, err
			}

			return c.Patch(ctx, path, bodyFromParams(call.Params))
		},
		"delete": func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
			path, err := stringArg(call, 0, "path")
			if err != nil {
				return nil, err
			}

			return c.Delete(ctx, path)
		},
		"graphql": func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
			query, err := stringArg(call, 0, "query")
			if err != nil {
				return nil, err
			}

			body := map[string]any{"query": query}
			if variables, ok := call.Params["variables"]; ok {
				body["variables"] = variables
			}

			return c.Post(ctx, "/graphql", body)
		},
		"search_issues":       searchOperation("issues"),
		"search_repositories": searchOperation("repositories"),
		"search_code":         searchOperation("code"),
		"search_users":        searchOperation("users"),
		"rate_limit": func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
			return c.Get(ctx, "/rate_limit", nil)
		},
		"get_repository": func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
			owner, repo, err := ownerRepoArgs(call)
			if err != nil {
				return nil, err
			}

			return c.Get(ctx, "/repos/"+owner+"/"+repo, nil)
		},
		"list_issues": func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
			owner, repo, err := ownerRepoArgs(call)
			if err != nil {
				return nil, err
			}

			return c.getAll(ctx, "/repos/"+owner+"/"+repo+"/issues", queryFromParams(call.Params), call.OnPage)
		},
		"create_issue": func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
			owner, repo, err := ownerRepoArgs(call)
			if err != nil {
				return nil, err
			}

			return c.Post(ctx, "/repos/"+owner+"/"+repo+"/issues", bodyFromParams(call.Params))
		},
	}
}

// searchOperation builds the operation for one search index: first argument
// is the query string, remaining params become query values.
func searchOperation(index string) OperationFunc {
	return func(ctx context.Context, c *Client, call *Call) (*ghapp.Response, error) {
		query, err := stringArg(call, 0, "query")
		if err != nil {
			return nil, err
		}

		values := queryFromParams(call.Params)
		values.Set("q", query)

		return c.getAll(ctx, "/search/"+index, values, call.OnPage)
	}
}

// stringArg extracts a required positional string argument.
func stringArg(call *Call, index int, name string) (string, error) {
	if index >= len(call.Args) {
		return "", fmt.Errorf("%w: missing %s argument", ghapp.ErrInvalidArgument, name)
	}

	value, ok := call.Args[index].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s argument must be a string", ghapp.ErrInvalidArgument, name)
	}

	return value, nil
}

// ownerRepoArgs extracts the leading owner/repo argument pair.
func ownerRepoArgs(call *Call) (string, string, error) {
	owner, err := stringArg(call, 0, "owner")
	if err != nil {
		return "", "", err
	}

	repo, err := stringArg(call, 1, "repo")
	if err != nil {
		return "", "", err
	}

	return owner, repo, nil
}

// queryFromParams renders keyword params as URL query values.
func queryFromParams(params map[string]any) url.Values {
	if len(params) == 0 {
		return nil
	}

	values := url.Values{}
	for key, value := range params {
		values.Set(key, fmt.Sprintf("%v", value))
	}

	return values
}

// bodyFromParams passes keyword params through as the JSON request body.
func bodyFromParams(params map[string]any) interface{} {
	if len(params) == 0 {
		return nil
	}

	return params
}
