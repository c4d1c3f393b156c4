package client

import (
	"context"
	"testing"

	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresConfig(t *testing.T) {
	t.Parallel()

	client, err := New(nil)
	require.ErrorIs(t, err, ghapp.ErrConfigRequired)
	assert.Nil(t, client)
}

func TestNewRequiresAppID(t *testing.T) {
	t.Parallel()

	_, err := New(&ghapp.Config{InstallationID: 678901, PrivateKey: testKeyPEM(t)})
	require.Error(t, err)
	assert.True(t, ghapp.IsConfigurationError(err))

	var configErr *ghapp.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "app_id", configErr.Field)
}

func TestNewRequiresInstallationID(t *testing.T) {
	t.Parallel()

	_, err := New(&ghapp.Config{AppID: 12345, PrivateKey: testKeyPEM(t)})
	require.Error(t, err)
	assert.True(t, ghapp.IsConfigurationError(err))

	var configErr *ghapp.ConfigurationError
	require.ErrorAs(t, err, &configErr)
	assert.Equal(t, "installation_id", configErr.Field)
}

func TestNewRequiresPrivateKeyWhenEnvUnset(t *testing.T) {
	t.Setenv("GITHUB_APP_PRIVATE_KEY", "")

	_, err := New(&ghapp.Config{AppID: 12345, InstallationID: 678901})
	require.Error(t, err)
	assert.True(t, ghapp.IsConfigurationError(err))
}

func TestNewPerformsNoExchange(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	assert.Nil(t, f.client.session)
	assert.Zero(t, f.fake.exchanges)
}

func TestSupportsBeforeAndAfterSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	// Before any session the builtin operation table answers.
	assert.True(t, f.client.Supports("get_repository"))
	assert.False(t, f.client.Supports("teleport"))
	assert.Zero(t, f.fake.exchanges)

	f.fake.ops = map[string]bool{"teleport": true}

	_, err := f.client.Do(context.Background(), "get", []any{"/zen"})
	require.NoError(t, err)

	// After the session exists, the live transport answers.
	assert.True(t, f.client.Supports("teleport"))
	assert.Contains(t, f.client.Operations(), "teleport")
}

func TestRateLimitsBypassesGovernor(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	snapshot, err := f.client.RateLimits(context.Background())
	require.NoError(t, err)

	require.Contains(t, snapshot, ghapp.CategoryCore)
	assert.Equal(t, 5000, snapshot[ghapp.CategoryCore].Remaining)
	assert.Empty(t, f.governorSleep)
}

func TestInstallationTokenDoesNotCacheSession(t *testing.T) {
	t.Parallel()

	f := newFixture(t, nil)

	token, expiresAt, err := f.client.InstallationToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ghs_test", token)
	assert.False(t, expiresAt.IsZero())
	assert.Equal(t, 1, f.fake.exchanges)
	assert.Nil(t, f.client.session)
}
