package session

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

const monitorConcurrency = 4

// Monitor periodically re-verifies sessions whose last backend check is
// older than the interval and drops expired sessions.
type Monitor struct {
	store    *Store
	interval time.Duration
}

// NewMonitor builds a Monitor for store. A non-positive interval disables it.
func NewMonitor(store *Store, interval time.Duration) *Monitor {
	return &Monitor{store: store, interval: interval}
}

// Run ticks until ctx ends.
func (m *Monitor) Run(ctx context.Context) {
	if m == nil || m.store == nil || m.interval <= 0 {
		return
	}
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Tick(ctx)
		}
	}
}

// Tick performs one pass and returns the number of sessions it logged out.
func (m *Monitor) Tick(ctx context.Context) int {
	ended := m.store.sweepExpired(ctx)
	ids := m.store.staleIDs(m.store.now().Add(-m.interval))
	if len(ids) == 0 {
		return ended
	}

	outcomes := make([]Outcome, len(ids))
	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(monitorConcurrency)
	for i, id := range ids {
		group.Go(func() error {
			outcome, err := m.store.Verify(gctx, id)
			if err != nil {
				return err
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		log.Printf("web: session monitor stopped err=%v", err)
	}
	for _, outcome := range outcomes {
		if outcome.Failed() {
			ended++
		}
	}
	return ended
}
