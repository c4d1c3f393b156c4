package client

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sort"
	"testing"
	"time"

	"github.com/fivetwenty-io/ghapp/internal/transport"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
	"github.com/stretchr/testify/require"
)

// testKeyPEM generates a throwaway RSA signing key.
func testKeyPEM(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return string(pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	}))
}

// recordingLogger captures log entries for assertions.
type recordingLogger struct {
	entries []logEntry
}

type logEntry struct {
	level   string
	message string
	fields  map[string]interface{}
}

func (l *recordingLogger) Debug(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{level: "debug", message: msg, fields: fields})
}

func (l *recordingLogger) Info(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{level: "info", message: msg, fields: fields})
}

func (l *recordingLogger) Warn(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{level: "warn", message: msg, fields: fields})
}

func (l *recordingLogger) Error(msg string, fields map[string]interface{}) {
	l.entries = append(l.entries, logEntry{level: "error", message: msg, fields: fields})
}

// fakeTransport is a scripted Transport double shared by the bootstrap and
// installation factories.
type fakeTransport struct {
	invokeFunc    func(ctx context.Context, operation string, call *transport.Call) (*ghapp.Response, error)
	rateLimitFunc func(ctx context.Context) (ghapp.RateLimitSnapshot, error)
	tokenErr      error
	ops           map[string]bool

	exchanges   int
	invocations []string
	lastCall    *transport.Call
}

func (f *fakeTransport) Invoke(ctx context.Context, operation string, call *transport.Call) (*ghapp.Response, error) {
	f.invocations = append(f.invocations, operation)
	f.lastCall = call

	if f.invokeFunc != nil {
		return f.invokeFunc(ctx, operation, call)
	}

	return &ghapp.Response{StatusCode: 200}, nil
}

func (f *fakeTransport) Supports(operation string) bool {
	if f.ops != nil {
		return f.ops[operation]
	}

	return true
}

func (f *fakeTransport) Operations() []string {
	names := make([]string, 0, len(f.ops))
	for name := range f.ops {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func (f *fakeTransport) CreateInstallationToken(ctx context.Context, installationID int64) (*transport.InstallationToken, error) {
	f.exchanges++

	if f.tokenErr != nil {
		return nil, f.tokenErr
	}

	return &transport.InstallationToken{Token: "ghs_test", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (f *fakeTransport) RateLimit(ctx context.Context) (ghapp.RateLimitSnapshot, error) {
	if f.rateLimitFunc != nil {
		return f.rateLimitFunc(ctx)
	}

	reset := time.Now().Add(time.Hour)

	return ghapp.RateLimitSnapshot{
		ghapp.CategoryCore:    {Limit: 5000, Remaining: 5000, Reset: reset},
		ghapp.CategorySearch:  {Limit: 30, Remaining: 30, Reset: reset},
		ghapp.CategoryGraphQL: {Limit: 5000, Remaining: 5000, Reset: reset},
	}, nil
}

// fixture is a fully wired Client with a fake transport, a controllable
// clock, and recorded sleeps instead of real ones.
type fixture struct {
	client *Client
	fake   *fakeTransport

	clock         time.Time
	dispatchSleep []time.Duration
	governorSleep []time.Duration
	retrySleep    []time.Duration
}

func newFixture(t *testing.T, config *ghapp.Config) *fixture {
	t.Helper()

	if config == nil {
		config = &ghapp.Config{}
	}

	if config.AppID == 0 {
		config.AppID = 12345
	}

	if config.InstallationID == 0 {
		config.InstallationID = 678901
	}

	if config.PrivateKey == "" {
		config.PrivateKey = testKeyPEM(t)
	}

	if config.RetryBaseDelay == 0 {
		config.RetryBaseDelay = time.Millisecond
	}

	client, err := New(config)
	require.NoError(t, err)

	f := &fixture{
		client: client,
		fake:   &fakeTransport{},
		clock:  time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC),
	}

	client.newBootstrap = func(assertion string) Transport { return f.fake }
	client.newInstallation = func(token string) Transport { return f.fake }
	client.now = func() time.Time { return f.clock }
	client.sleep = func(d time.Duration) { f.dispatchSleep = append(f.dispatchSleep, d) }
	client.governor.now = client.now
	client.governor.sleep = func(d time.Duration) { f.governorSleep = append(f.governorSleep, d) }
	client.retry.sleep = func(d time.Duration) { f.retrySleep = append(f.retrySleep, d) }

	return f
}
