package ghapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Static errors for err113 compliance.
var (
	ErrConfigRequired         = errors.New("config is required")
	ErrAppIDRequired          = errors.New("app ID is required")
	ErrInstallationIDRequired = errors.New("installation ID is required")
	ErrOperationNotSupported  = errors.New("operation not supported")
	ErrInvalidArgument        = errors.New("invalid operation argument")
)

// ConfigurationError reports a missing or invalid identity input: an absent
// required value, or an empty or missing key file. Configuration errors are
// never retried.
type ConfigurationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// CredentialError reports a malformed private key or a signing failure while
// minting an assertion. Credential errors are never retried.
type CredentialError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *CredentialError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("credential error: %s: %v", e.Reason, e.Err)
	}

	return fmt.Sprintf("credential error: %s", e.Reason)
}

// Unwrap returns the underlying cause.
func (e *CredentialError) Unwrap() error {
	return e.Err
}

// AuthenticationError reports a failure during the assertion-for-token
// exchange. Authentication errors are never retried.
type AuthenticationError struct {
	Err error
}

// Error implements the error interface.
func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication error: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// APIError represents an error response from the remote service.
type APIError struct {
	StatusCode       int    `json:"-"                           yaml:"-"`
	Message          string `json:"message"                     yaml:"message"`
	DocumentationURL string `json:"documentation_url,omitempty" yaml:"documentation_url,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status: %d)", e.Message, e.StatusCode)
}

// secondaryRateLimitMarker is the message fragment the remote service uses to
// signal an abuse-prevention (secondary) rate limit, as opposed to the
// primary quota.
const secondaryRateLimitMarker = "secondary rate limit"

// IsConfigurationError checks if the error is a configuration error.
func IsConfigurationError(err error) bool {
	cfgErr := &ConfigurationError{}

	return errors.As(err, &cfgErr)
}

// IsCredentialError checks if the error is a credential error.
func IsCredentialError(err error) bool {
	credErr := &CredentialError{}

	return errors.As(err, &credErr)
}

// IsAuthenticationError checks if the error is an authentication error.
func IsAuthenticationError(err error) bool {
	authErr := &AuthenticationError{}

	return errors.As(err, &authErr)
}

// IsSecondaryRateLimit checks if the error indicates a secondary rate-limit
// violation, detected by message content.
func IsSecondaryRateLimit(err error) bool {
	if err == nil {
		return false
	}

	return strings.Contains(strings.ToLower(err.Error()), secondaryRateLimitMarker)
}

// IsNotFound checks if the error is a not-found response.
func IsNotFound(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}

	return false
}

// IsUnauthorized checks if the error is an unauthorized response.
func IsUnauthorized(err error) bool {
	apiErr := &APIError{}
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401
	}

	return false
}

// ParseAPIError parses an error response body from JSON. The status code is
// attached separately since it is not part of the payload.
func ParseAPIError(statusCode int, data []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	err := json.Unmarshal(data, apiErr)
	if err != nil || apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = "unknown error"
		}
	}

	return apiErr
}
