package client

import (
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fivetwenty-io/ghapp/internal/constants"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
)

// retrier runs an operation under a bounded attempt budget with fixed or
// exponential delays between attempts.
type retrier struct {
	policy ghapp.RetryPolicy
	sleep  func(time.Duration)
	logger ghapp.Logger
}

// execute runs op until it succeeds, fails in a way retrying cannot cure,
// or the attempt budget is spent. The final attempt's error is returned
// unchanged, never wrapped, so callers can branch on the original error
// type.
func (r *retrier) execute(op func() (*ghapp.Response, error)) (*ghapp.Response, error) {
	delays := delaySource(r.policy)

	var lastErr error

	for attempt := 1; attempt <= r.policy.MaxAttempts; attempt++ {
		resp, err := op()
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !retryable(err) {
			return nil, err
		}

		if attempt < r.policy.MaxAttempts {
			delay := delays.NextBackOff()

			r.logger.Warn("operation failed, retrying", map[string]interface{}{
				"attempt": attempt,
				"of":      r.policy.MaxAttempts,
				"delay":   delay.String(),
				"error":   err.Error(),
			})

			r.sleep(delay)
		}
	}

	return nil, lastErr
}

// retryable reports whether another attempt could cure the error.
// Configuration, credential, and authentication failures cannot.
func retryable(err error) bool {
	return !ghapp.IsConfigurationError(err) &&
		!ghapp.IsCredentialError(err) &&
		!ghapp.IsAuthenticationError(err)
}

// delaySource builds the backoff sequence for a policy: a constant interval,
// or BaseDelay doubling per retry with no randomization so the sequence is
// exactly BaseDelay * 2^(k-1).
func delaySource(policy ghapp.RetryPolicy) backoff.BackOff {
	if !policy.Exponential {
		return backoff.NewConstantBackOff(policy.BaseDelay)
	}

	source := backoff.NewExponentialBackOff()
	source.InitialInterval = policy.BaseDelay
	source.RandomizationFactor = 0
	source.Multiplier = 2
	source.MaxInterval = constants.RetryMaxInterval
	source.MaxElapsedTime = 0
	source.Reset()

	return source
}
