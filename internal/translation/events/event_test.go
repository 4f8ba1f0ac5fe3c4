package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docflow/internal/translation/models"
)

func TestToCloudEvent(t *testing.T) {
	occurred := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	event := TransitionEvent{
		DocumentID: "4f1c5d7e-0000-4000-8000-000000000001",
		Operation:  "confirm",
		From:       models.StatusTranslated,
		To:         models.StatusUserConfirmed,
		UserEmail:  "ana@example.com",
		OccurredAt: occurred,
	}

	ce, err := event.ToCloudEvent()
	require.NoError(t, err)
	require.NoError(t, ce.Validate())
	assert.Equal(t, TypeTransition, ce.Type())
	assert.Equal(t, Source, ce.Source())
	assert.Equal(t, event.DocumentID, ce.Subject())
	assert.True(t, occurred.Equal(ce.Time()))

	var payload TransitionEvent
	require.NoError(t, json.Unmarshal(ce.Data(), &payload))
	assert.Equal(t, models.StatusUserConfirmed, payload.To)
	assert.Equal(t, "ana@example.com", payload.UserEmail)
}

func TestSubmissionType(t *testing.T) {
	event := TransitionEvent{DocumentID: "x", To: models.StatusPending}
	assert.Equal(t, TypeSubmitted, event.Type())
}

func TestMemoryPublisher(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, TransitionEvent{DocumentID: "a"}))
	m.FailWith(errors.New("broker down"))
	require.Error(t, m.Publish(ctx, TransitionEvent{DocumentID: "b"}))
	m.FailWith(nil)
	require.NoError(t, m.Publish(ctx, TransitionEvent{DocumentID: "c"}))

	got := m.Events()
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].DocumentID)
	assert.Equal(t, "c", got[1].DocumentID)
}
