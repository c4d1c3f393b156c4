package auth

import (
	"strconv"
	"strings"
	"time"

	"github.com/fivetwenty-io/ghapp/internal/constants"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultSigningAlgorithm is used when the config does not name one.
const DefaultSigningAlgorithm = "RS256"

// SignedAssertion is a signed, time-boxed claim set proving application
// identity. Ephemeral: minted fresh for every token exchange, never cached.
type SignedAssertion struct {
	Token     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// MintAssertion builds and signs an assertion for the app at the given
// time. The issued-at claim is backdated by the clock-drift tolerance and
// the expiry sits ten minutes after it.
func MintAssertion(creds AppCredentials, now time.Time) (*SignedAssertion, error) {
	algorithm := creds.Algorithm
	if algorithm == "" {
		algorithm = DefaultSigningAlgorithm
	}

	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, &ghapp.CredentialError{Reason: "unknown signing algorithm " + algorithm}
	}

	issuedAt := now.Add(-constants.AssertionClockDrift)
	expiresAt := issuedAt.Add(constants.AssertionLifetime)

	claims := &jwt.RegisteredClaims{
		Issuer:    strconv.FormatInt(creds.AppID, 10),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	key, err := parseSigningKey(algorithm, creds.PrivateKey)
	if err != nil {
		return nil, err
	}

	token := jwt.NewWithClaims(method, claims)

	signed, err := token.SignedString(key)
	if err != nil {
		return nil, &ghapp.CredentialError{Reason: "signing assertion", Err: err}
	}

	return &SignedAssertion{
		Token:     signed,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// parseSigningKey parses the PEM key material for the algorithm family.
func parseSigningKey(algorithm, pemText string) (any, error) {
	switch {
	case strings.HasPrefix(algorithm, "RS"), strings.HasPrefix(algorithm, "PS"):
		key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemText))
		if err != nil {
			return nil, &ghapp.CredentialError{Reason: "parsing RSA private key", Err: err}
		}

		return key, nil
	case strings.HasPrefix(algorithm, "ES"):
		key, err := jwt.ParseECPrivateKeyFromPEM([]byte(pemText))
		if err != nil {
			return nil, &ghapp.CredentialError{Reason: "parsing EC private key", Err: err}
		}

		return key, nil
	default:
		return nil, &ghapp.CredentialError{Reason: "unsupported signing algorithm " + algorithm}
	}
}
