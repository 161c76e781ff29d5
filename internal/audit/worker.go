package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

const defaultBuffer = 256

// Async accepts events without blocking the request path and hands them to a
// sink from a background worker. When the buffer is full the event is
// dropped and logged.
type Async struct {
	sink    Publisher
	inbox   chan Event
	logger  *slog.Logger
	dropped atomic.Int64
}

// NewAsync creates an async publisher in front of sink. Call Run to start
// delivery.
func NewAsync(sink Publisher, buffer int, logger *slog.Logger) *Async {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Async{sink: sink, inbox: make(chan Event, buffer), logger: logger}
}

// Emit enqueues the event. It never blocks and never fails.
func (a *Async) Emit(ctx context.Context, event Event) error {
	event = Stamp(ctx, event)
	select {
	case a.inbox <- event:
	default:
		a.dropped.Add(1)
		a.logger.WarnContext(ctx, "audit buffer full, dropping event",
			"action", event.Action,
			"event_id", event.ID,
		)
	}
	return nil
}

// Dropped reports how many events were discarded.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Run delivers events until ctx is done, then drains what is already queued.
func (a *Async) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			a.drain(context.WithoutCancel(ctx))
			return ctx.Err()
		case event := <-a.inbox:
			a.deliver(ctx, event)
		}
	}
}

func (a *Async) drain(ctx context.Context) {
	for {
		select {
		case event := <-a.inbox:
			a.deliver(ctx, event)
		default:
			return
		}
	}
}

func (a *Async) deliver(ctx context.Context, event Event) {
	if err := a.sink.Emit(ctx, event); err != nil {
		a.logger.ErrorContext(ctx, "audit delivery failed",
			"action", event.Action,
			"event_id", event.ID,
			"error", err,
		)
	}
}
