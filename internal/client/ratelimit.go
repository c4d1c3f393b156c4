package client

import (
	"context"
	"math"
	"time"

	"github.com/fivetwenty-io/ghapp/internal/constants"
	"github.com/fivetwenty-io/ghapp/pkg/ghapp"
)

// governor tracks per-category quota state and blocks callers until a
// request of a given category is safe to issue. Waiting never fails by
// itself; only snapshot fetches can return an error.
type governor struct {
	snapshot ghapp.RateLimitSnapshot
	fetch    func(ctx context.Context) (ghapp.RateLimitSnapshot, error)
	logger   ghapp.Logger

	now   func() time.Time
	sleep func(time.Duration)
}

func newGovernor(fetch func(ctx context.Context) (ghapp.RateLimitSnapshot, error), logger ghapp.Logger) *governor {
	return &governor{
		fetch:  fetch,
		logger: logger,
		now:    time.Now,
		sleep:  time.Sleep,
	}
}

// Await blocks until one request of the given category may be issued.
//
// The check is two-phase: a stale cache showing an exhausted quota triggers
// a refetch before any sleep, since the real quota may have already
// replenished. Only when the fresh snapshot still shows no remaining calls
// does the governor sleep through to the reset timestamp.
func (g *governor) Await(ctx context.Context, category string) error {
	if g.snapshot == nil {
		if err := g.refetch(ctx); err != nil {
			return err
		}
	}

	if status, ok := g.snapshot[category]; ok && status.Remaining > 0 {
		g.RecordUse(category)

		return nil
	}

	// Exhausted, negative (defensive), or reset already in the past.
	if err := g.refetch(ctx); err != nil {
		return err
	}

	status, ok := g.snapshot[category]
	if !ok {
		// Category the service does not report; nothing to govern.
		return nil
	}

	if status.Remaining > 0 {
		g.RecordUse(category)

		return nil
	}

	wait := status.Reset.Sub(g.now())
	if wait < 0 {
		wait = 0
	}

	pause := time.Duration(math.Ceil(wait.Seconds()))*time.Second + constants.RateLimitSlack

	g.logger.Info("rate limit exhausted, waiting for reset", map[string]interface{}{
		"category": category,
		"reset":    status.Reset,
		"wait":     pause.String(),
	})

	g.sleep(pause)

	return nil
}

// RecordUse optimistically decrements the cached remaining count for the
// category, avoiding a snapshot round-trip per request.
func (g *governor) RecordUse(category string) {
	status, ok := g.snapshot[category]
	if !ok {
		return
	}

	status.Remaining--
	status.Used++
	g.snapshot[category] = status
}

// Current returns the cached snapshot, fetching one if the cache is cold.
func (g *governor) Current(ctx context.Context) (ghapp.RateLimitSnapshot, error) {
	if g.snapshot == nil {
		if err := g.refetch(ctx); err != nil {
			return nil, err
		}
	}

	return g.snapshot, nil
}

// refetch replaces the snapshot wholesale.
func (g *governor) refetch(ctx context.Context) error {
	snapshot, err := g.fetch(ctx)
	if err != nil {
		return err
	}

	g.snapshot = snapshot

	return nil
}
