package audit

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"voterfinder/pkg/requestcontext"
)

// Publisher delivers audit events to a sink.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// Stamp fills in the ID, timestamp and request ID when missing.
func Stamp(ctx context.Context, event Event) Event {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	return event
}

// LogPublisher writes events to a structured logger.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Emit(ctx context.Context, event Event) error {
	event = Stamp(ctx, event)
	p.logger.InfoContext(ctx, "audit",
		"event_id", event.ID,
		"action", event.Action,
		"client_id", event.ClientID,
		"user_id", event.UserID,
		"term", event.Term,
		"result_count", event.ResultCount,
		"voter_id", event.VoterID,
		"request_id", event.RequestID,
		"timestamp", event.Timestamp.Format(time.RFC3339Nano),
	)
	return nil
}

// MemoryPublisher keeps events in memory, newest last.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (p *MemoryPublisher) Emit(ctx context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Stamp(ctx, event))
	return nil
}

// Events returns a copy of everything emitted so far.
func (p *MemoryPublisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.events)
}

// ListByClient returns events for one client.
func (p *MemoryPublisher) ListByClient(clientID string) []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []Event
	for _, e := range p.events {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out
}
