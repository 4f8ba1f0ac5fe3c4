package events

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/translation/models"
	"docflow/pkg/platform/circuit"
)

func TestGuardedPublisher(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	primary := NewMemory()
	fallback := NewMemory()
	breaker := circuit.New("events", circuit.WithFailureThreshold(2))
	g := NewGuarded(primary, fallback, breaker, logger)
	event := TransitionEvent{DocumentID: "doc-1", To: models.StatusPending}

	require.NoError(t, g.Publish(ctx, event))
	assert.Len(t, primary.Events(), 1)

	down := errors.New("broker down")
	primary.FailWith(down)
	assert.ErrorIs(t, g.Publish(ctx, event), down)
	assert.ErrorIs(t, g.Publish(ctx, event), down)
	assert.True(t, breaker.IsOpen())

	assert.ErrorIs(t, g.Publish(ctx, event), ErrCircuitOpen)
	assert.Len(t, fallback.Events(), 3, "every undelivered event reaches the fallback")
}
