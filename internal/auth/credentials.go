// Package auth resolves app signing credentials and mints the short-lived
// signed assertions exchanged for installation access tokens.
package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
)

// AppCredentials identifies the calling GitHub App. Immutable after
// construction.
type AppCredentials struct {
	AppID          int64
	InstallationID int64
	// PrivateKey is normalized PEM text.
	PrivateKey string
	// Algorithm is the JWT signing algorithm, e.g. "RS256".
	Algorithm string
}

// keyFileSuffixes are the file extensions recognized as private-key paths.
var keyFileSuffixes = []string{".pem", ".key"}

// envCredentials is the environment fallback for the private key, parsed
// once during resolution.
type envCredentials struct {
	PrivateKey string `env:"GITHUB_APP_PRIVATE_KEY"`
}

// ResolvePrivateKey normalizes a private signing key from a file path,
// inline PEM text, or the GITHUB_APP_PRIVATE_KEY environment fallback.
//
// A value ending in a recognized key-file suffix is read from disk; a
// missing file or whitespace-trimmed-empty content is a ConfigurationError.
// Any other non-empty value is treated as inline key material, with literal
// "\n" sequences replaced by real line breaks. An empty value falls back to
// the environment; an absent variable is a ConfigurationError.
func ResolvePrivateKey(value string) (string, error) {
	if isKeyFilePath(value) {
		return readKeyFile(value)
	}

	if value != "" {
		// Literal substitution, not a regex: keys pasted out of env files
		// carry escaped newlines, and ReplaceAll cannot backtrack.
		return strings.ReplaceAll(value, `\n`, "\n"), nil
	}

	var envCreds envCredentials
	if err := env.Parse(&envCreds); err != nil {
		return "", &ghapp.ConfigurationError{Field: "private_key", Reason: fmt.Sprintf("parsing environment: %v", err)}
	}

	if envCreds.PrivateKey == "" {
		return "", &ghapp.ConfigurationError{Field: "private_key", Reason: "no key provided and GITHUB_APP_PRIVATE_KEY is not set"}
	}

	return strings.ReplaceAll(envCreds.PrivateKey, `\n`, "\n"), nil
}

// isKeyFilePath reports whether the value looks like a path to a key file.
func isKeyFilePath(value string) bool {
	for _, suffix := range keyFileSuffixes {
		if strings.HasSuffix(value, suffix) {
			return true
		}
	}

	return false
}

// readKeyFile reads key material from disk verbatim.
func readKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is caller-provided configuration
	if err != nil {
		return "", &ghapp.ConfigurationError{Field: "private_key", Reason: fmt.Sprintf("reading key file %s: %v", path, err)}
	}

	if strings.TrimSpace(string(data)) == "" {
		return "", &ghapp.ConfigurationError{Field: "private_key", Reason: fmt.Sprintf("key file %s is empty", path)}
	}

	return string(data), nil
}
