// Package events publishes translation workflow transitions to the
// notification pipeline. Publishing is best-effort: callers log and count
// failures but never roll back a committed transition.
package events

import (
	"context"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/google/uuid"

	"docflow/internal/translation/models"
)

const (
	// Source is the CloudEvents source attribute for every emitted event.
	Source = "docflow/translation"

	TypeSubmitted  = "docflow.translation.submitted"
	TypeTransition = "docflow.translation.transitioned"
)

// TransitionEvent describes one accepted change of a document's status.
// From is empty for submissions.
type TransitionEvent struct {
	DocumentID string        `json:"document_id"`
	Operation  string        `json:"operation"`
	From       models.Status `json:"from,omitempty"`
	To         models.Status `json:"to"`
	UserEmail  string        `json:"user_email"`
	Actor      string        `json:"actor,omitempty"`
	RequestID  string        `json:"request_id,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	OccurredAt time.Time     `json:"occurred_at"`
}

// Type returns the CloudEvents type of the event.
func (e TransitionEvent) Type() string {
	if e.From == "" {
		return TypeSubmitted
	}
	return TypeTransition
}

// ToCloudEvent wraps the event in a CloudEvents envelope with a JSON payload.
func (e TransitionEvent) ToCloudEvent() (cloudevents.Event, error) {
	ce := cloudevents.NewEvent()
	ce.SetID(uuid.NewString())
	ce.SetSource(Source)
	ce.SetType(e.Type())
	ce.SetSubject(e.DocumentID)
	ce.SetTime(e.OccurredAt)
	if err := ce.SetData(cloudevents.ApplicationJSON, e); err != nil {
		return ce, err
	}
	return ce, nil
}

// Publisher delivers transition events.
type Publisher interface {
	Publish(ctx context.Context, event TransitionEvent) error
}
