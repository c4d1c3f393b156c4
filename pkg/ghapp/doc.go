// Package ghapp provides types, interfaces, and helpers for the GitHub App
// installation client wrapper.
//
// # Overview
//
// The ghapp package defines the public contract of the wrapper: the Client
// interface (operation dispatch with rate-limit governance and retry), the
// Config struct, the error taxonomy (ConfigurationError, CredentialError,
// AuthenticationError, APIError), call options, and the Logger interface. A
// concrete implementation is provided by the ghclient package, which wires
// credential resolution, assertion minting, the installation-token session,
// and the HTTP transport. Most consumers should import ghclient to construct
// a client and then dispatch operations through the Client interface exposed
// here.
//
// Getting a client
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/ghapp/pkg/ghapp"
//	  "github.com/fivetwenty-io/ghapp/pkg/ghclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := ghclient.New(&ghapp.Config{
//	    AppID:          12345,
//	    InstallationID: 678901,
//	    PrivateKey:     "/etc/ghapp/signing-key.pem",
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  resp, err := cli.Do(ctx, "get", []any{"/repos/acme/widgets"})
//	  if err != nil { log.Fatal(err) }
//	  _ = resp
//	}
//
// # Sessions and credentials
//
// Construction performs no network calls. On the first dispatched operation
// the wrapper mints a short-lived signed assertion from the app's private
// key, exchanges it for an installation access token, and caches the
// resulting transport for up to 45 minutes before transparently refreshing.
//
// # Rate limiting and retries
//
// Every dispatched operation is classified into a rate-limit category
// (core, search, graphql) and blocks until the cached quota snapshot says a
// request is safe to issue. Failed operations are retried up to the
// configured attempt budget with a fixed or exponential delay; the final
// attempt's error is returned unchanged so callers can branch on its type.
//
// # Concurrency
//
// A Client targets one logical flow at a time: session and rate-limit state
// are shared without internal locking, so concurrent use of a single
// instance requires external mutual exclusion.
package ghapp
