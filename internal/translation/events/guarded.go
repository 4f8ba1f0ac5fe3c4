package events

import (
	"context"
	"errors"
	"log/slog"

	"docflow/pkg/platform/circuit"
)

// ErrCircuitOpen is returned while the primary publisher is being skipped.
var ErrCircuitOpen = errors.New("event publisher circuit open")

// Guarded sends events to a primary publisher behind a circuit breaker.
// While the breaker is open events go to the fallback and Publish returns
// ErrCircuitOpen, so callers still count them as undelivered.
type Guarded struct {
	primary  Publisher
	fallback Publisher
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewGuarded(primary, fallback Publisher, breaker *circuit.Breaker, logger *slog.Logger) *Guarded {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guarded{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (g *Guarded) Publish(ctx context.Context, event TransitionEvent) error {
	if !g.breaker.Allow() {
		_ = g.fallback.Publish(ctx, event)
		return ErrCircuitOpen
	}

	err := g.primary.Publish(ctx, event)
	if err != nil {
		if _, change := g.breaker.RecordFailure(); change.Opened {
			g.logger.WarnContext(ctx, "event publisher circuit opened",
				"breaker", g.breaker.Name(),
				"error", err,
			)
		}
		_ = g.fallback.Publish(ctx, event)
		return err
	}
	if _, change := g.breaker.RecordSuccess(); change.Closed {
		g.logger.InfoContext(ctx, "event publisher circuit closed", "breaker", g.breaker.Name())
	}
	return nil
}
