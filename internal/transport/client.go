// Package transport implements the generic REST client the wrapper
// dispatches through: named operations over HTTP with bearer-assertion and
// installation-token construction modes, installation-token exchange, and
// configurable auto-pagination.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/fivetwenty-io/ghapp/internal/constants"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the public API root.
const DefaultBaseURL = "https://api.github.com"

const defaultUserAgent = "ghapp-go"

// Credential supplies the Authorization header value for every request.
type Credential interface {
	AuthorizationHeader() string
}

// BearerCredential authenticates with a signed app assertion. Used only for
// the bootstrap token exchange.
type BearerCredential struct {
	Assertion string
}

// AuthorizationHeader implements Credential.
func (c BearerCredential) AuthorizationHeader() string {
	return "Bearer " + c.Assertion
}

// TokenCredential authenticates with an installation access token.
type TokenCredential struct {
	Token string
}

// AuthorizationHeader implements Credential.
func (c TokenCredential) AuthorizationHeader() string {
	return "token " + c.Token
}

// Request represents a single HTTP request against the API.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Client is a generic REST client for the GitHub API.
type Client struct {
	baseURL      string
	httpClient   *retryablehttp.Client
	credential   Credential
	logger       ghapp.Logger
	debug        bool
	userAgent    string
	autoPaginate bool
	perPage      int
	operations   map[string]OperationFunc
}

// Option configures the client.
type Option func(*Client)

// WithLogger sets a structured logger.
func WithLogger(logger ghapp.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithRetryConfig enables connection-level retries in the HTTP layer. Off by
// default: request resilience is owned by the wrapper's retry engine, and
// double-retrying would multiply the attempt budget.
func WithRetryConfig(retryMax int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = retryMax
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.HTTPClient.Timeout = timeout
	}
}

// WithAutoPagination makes every GET-backed operation follow Link headers
// and merge pages, requesting perPage items per page.
func WithAutoPagination(perPage int) Option {
	return func(c *Client) {
		c.autoPaginate = true
		c.perPage = perPage
	}
}

// New creates a transport client. The credential decides the construction
// mode: a BearerCredential for the bootstrap exchange, a TokenCredential for
// installation-scoped requests.
func New(baseURL string, credential Credential, opts ...Option) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = 0
	httpClient.Logger = nil
	httpClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout

	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		credential: credential,
		logger:     ghapp.NopLogger{},
		userAgent:  defaultUserAgent,
		perPage:    constants.DefaultPageSize,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.operations = builtinOperations()

	return client
}

// Do performs a single HTTP request and parses the response. Non-2xx
// responses return both the response and an *ghapp.APIError.
func (c *Client) Do(ctx context.Context, req *Request) (*ghapp.Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var rawBody []byte

	if req.Body != nil {
		encoded, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		rawBody = encoded
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, rawBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/vnd.github+json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if rawBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	if c.credential != nil {
		httpReq.Header.Set("Authorization", c.credential.AuthorizationHeader())
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"path":   req.Path,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &ghapp.Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"method":      req.Method,
			"path":        req.Path,
			"status_code": resp.StatusCode,
		})
	}

	if httpResp.StatusCode >= 400 {
		return resp, ghapp.ParseAPIError(httpResp.StatusCode, body)
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*ghapp.Response, error) {
	return c.Do(ctx, &Request{Method: "GET", Path: path, Query: query})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*ghapp.Response, error) {
	return c.Do(ctx, &Request{Method: "POST", Path: path, Body: body})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*ghapp.Response, error) {
	return c.Do(ctx, &Request{Method: "PUT", Path: path, Body: body})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*ghapp.Response, error) {
	return c.Do(ctx, &Request{Method: "PATCH", Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*ghapp.Response, error) {
	return c.Do(ctx, &Request{Method: "DELETE", Path: path})
}
