package events

import (
	"context"
	"log/slog"
	"sync"
)

// Memory records published events in order. Used in development and tests.
type Memory struct {
	mu     sync.Mutex
	events []TransitionEvent
	err    error
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Publish(_ context.Context, event TransitionEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, event)
	return nil
}

// FailWith makes subsequent Publish calls return err. Pass nil to recover.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Events returns a copy of everything published so far.
func (m *Memory) Events() []TransitionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]TransitionEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Log writes events to a structured logger instead of a broker.
type Log struct {
	logger *slog.Logger
}

func NewLog(logger *slog.Logger) *Log {
	return &Log{logger: logger}
}

func (l *Log) Publish(ctx context.Context, event TransitionEvent) error {
	l.logger.InfoContext(ctx, event.Type(),
		"document_id", event.DocumentID,
		"operation", event.Operation,
		"from", string(event.From),
		"to", string(event.To),
		"request_id", event.RequestID,
		"log_type", "event",
	)
	return nil
}
