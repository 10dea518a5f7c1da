package events

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/oggyb/muzz-match/internal/logger"
	"github.com/oggyb/muzz-match/internal/metrics"
)

// BreakerSettings configures a BreakerPublisher.
type BreakerSettings struct {
	Failures uint32        // consecutive failures that open the breaker
	Timeout  time.Duration // how long the breaker stays open
	Publish  time.Duration // per-publish deadline
}

// BreakerPublisher stops calling a failing transport for a while so that
// match creation never waits on a dead broker.
type BreakerPublisher struct {
	next    Publisher
	cb      *gobreaker.CircuitBreaker[struct{}]
	timeout time.Duration
}

func NewBreakerPublisher(next Publisher, s BreakerSettings) *BreakerPublisher {
	if s.Failures == 0 {
		s.Failures = 5
	}
	if s.Timeout <= 0 {
		s.Timeout = 30 * time.Second
	}

	name := "events." + next.Transport()
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= s.Failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
	metrics.BreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))

	return &BreakerPublisher{next: next, cb: cb, timeout: s.Publish}
}

func (b *BreakerPublisher) Publish(ctx context.Context, ev MatchEvent) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		pctx := ctx
		if b.timeout > 0 {
			var cancel context.CancelFunc
			pctx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}
		return struct{}{}, b.next.Publish(pctx, ev)
	})
	return err
}

func (b *BreakerPublisher) Transport() string { return b.next.Transport() }

// State reports the breaker state, e.g. "closed" or "open".
func (b *BreakerPublisher) State() string { return b.cb.State().String() }
