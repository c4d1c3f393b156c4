package auth_test

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/fivetwenty-io/ghapp/internal/auth"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testSigningKey generates a throwaway RSA key pair for assertion tests.
func testSigningKey(t *testing.T) (string, *rsa.PublicKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemText := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})

	return string(pemText), &key.PublicKey
}

func TestMintAssertion(t *testing.T) {
	t.Parallel()

	t.Run("claims are time-boxed and identify the app", func(t *testing.T) {
		t.Parallel()

		pemText, publicKey := testSigningKey(t)
		now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

		assertion, err := auth.MintAssertion(auth.AppCredentials{
			AppID:      12345,
			PrivateKey: pemText,
		}, now)
		require.NoError(t, err)

		assert.Equal(t, now.Add(-60*time.Second), assertion.IssuedAt)
		assert.Equal(t, now.Add(-60*time.Second).Add(10*time.Minute), assertion.ExpiresAt)

		claims := &jwt.RegisteredClaims{}
		parsed, err := jwt.ParseWithClaims(assertion.Token, claims, func(token *jwt.Token) (any, error) {
			return publicKey, nil
		}, jwt.WithValidMethods([]string{"RS256"}))
		require.NoError(t, err)
		assert.True(t, parsed.Valid)

		assert.Equal(t, "12345", claims.Issuer)
		assert.Equal(t, assertion.IssuedAt.Unix(), claims.IssuedAt.Unix())
		assert.Equal(t, assertion.ExpiresAt.Unix(), claims.ExpiresAt.Unix())
	})

	t.Run("each mint produces a fresh assertion", func(t *testing.T) {
		t.Parallel()

		pemText, _ := testSigningKey(t)
		creds := auth.AppCredentials{AppID: 1, PrivateKey: pemText}

		first, err := auth.MintAssertion(creds, time.Now())
		require.NoError(t, err)

		second, err := auth.MintAssertion(creds, time.Now().Add(time.Second))
		require.NoError(t, err)

		assert.NotEqual(t, first.Token, second.Token)
	})

	t.Run("malformed key is a credential error", func(t *testing.T) {
		t.Parallel()

		_, err := auth.MintAssertion(auth.AppCredentials{
			AppID:      1,
			PrivateKey: "not a pem key",
		}, time.Now())
		require.Error(t, err)
		assert.True(t, ghapp.IsCredentialError(err))
	})

	t.Run("unknown algorithm is a credential error", func(t *testing.T) {
		t.Parallel()

		pemText, _ := testSigningKey(t)

		_, err := auth.MintAssertion(auth.AppCredentials{
			AppID:      1,
			PrivateKey: pemText,
			Algorithm:  "XX999",
		}, time.Now())
		require.Error(t, err)
		assert.True(t, ghapp.IsCredentialError(err))
	})
}
