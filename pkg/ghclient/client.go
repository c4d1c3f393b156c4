// Package ghclient provides the entry point for constructing GitHub App
// installation clients that implement the ghapp.Client interface.
package ghclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/ghapp/internal/client"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
)

// New creates a new installation client wrapper. Construction resolves the
// private key and validates identity inputs but performs no network call;
// the first dispatched operation establishes the session lazily.
func New(config *ghapp.Config) (ghapp.Client, error) {
	if config == nil {
		return nil, ghapp.ErrConfigRequired
	}

	if config.BaseURL != "" {
		baseURL := strings.TrimSuffix(config.BaseURL, "/")
		if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			baseURL = "https://" + baseURL
		}

		config.BaseURL = baseURL
	}

	wrapper, err := client.New(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create new client: %w", err)
	}

	return wrapper, nil
}
