package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"voterfinder/internal/search/models"
	"voterfinder/internal/transliteration"
)

// Transliterator converts Latin text to Devanagari. It never fails; failures
// surface as a fallback Result.
type Transliterator interface {
	Transliterate(ctx context.Context, text string) transliteration.Result
}

// Scheduler delays work per key until input goes quiet.
type Scheduler interface {
	Trigger(key string, fn func())
	Cancel(key string)
}

// Typeahead holds the search box of every client and transliterates input
// once typing pauses.
type Typeahead struct {
	engine    Transliterator
	scheduler Scheduler
	logger    *slog.Logger

	mu    sync.Mutex
	terms map[string]*models.SearchTerm
	// seq outlives Clear so a request issued before a clear can never match
	// a term created after it.
	seq uint64
}

// TypeaheadOption configures a Typeahead.
type TypeaheadOption func(*Typeahead)

func WithTypeaheadLogger(logger *slog.Logger) TypeaheadOption {
	return func(t *Typeahead) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// NewTypeahead creates a typeahead that runs engine through scheduler.
func NewTypeahead(engine Transliterator, scheduler Scheduler, opts ...TypeaheadOption) *Typeahead {
	t := &Typeahead{
		engine:    engine,
		scheduler: scheduler,
		logger:    slog.Default(),
		terms:     make(map[string]*models.SearchTerm),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Type records raw as the client's latest input and schedules its
// transliteration. Blank input clears the Devanagari form immediately.
func (t *Typeahead) Type(ctx context.Context, clientID, raw string) models.SearchTerm {
	t.mu.Lock()
	defer t.mu.Unlock()

	term := t.termFor(clientID)
	term.Raw = raw
	term.Seq = t.nextSeq()
	t.rearm(ctx, clientID, term)
	return *term
}

// Toggle switches between submitting the Devanagari form and the raw input.
// Turning transliteration back on re-resolves the current input.
func (t *Typeahead) Toggle(ctx context.Context, clientID string, on bool) models.SearchTerm {
	t.mu.Lock()
	defer t.mu.Unlock()

	term := t.termFor(clientID)
	if term.UseTransliteration == on {
		return *term
	}
	term.UseTransliteration = on
	term.Seq = t.nextSeq()
	t.rearm(ctx, clientID, term)
	return *term
}

// Current returns a snapshot of the client's term. Unknown clients get an
// empty term with transliteration on.
func (t *Typeahead) Current(clientID string) models.SearchTerm {
	t.mu.Lock()
	defer t.mu.Unlock()
	if term, ok := t.terms[clientID]; ok {
		return *term
	}
	return models.NewSearchTerm()
}

// Clear discards the client's term and any pending transliteration.
func (t *Typeahead) Clear(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.scheduler.Cancel(clientID)
	delete(t.terms, clientID)
}

// rearm must be called with t.mu held so timers are armed in Seq order.
func (t *Typeahead) rearm(ctx context.Context, clientID string, term *models.SearchTerm) {
	text := strings.TrimSpace(term.Raw)
	if text == "" || !term.UseTransliteration {
		t.scheduler.Cancel(clientID)
		term.Pending = false
		if text == "" {
			term.Devanagari = ""
			term.Source = ""
			term.Notice = ""
		}
		return
	}

	term.Pending = true
	seq := term.Seq
	detached := context.WithoutCancel(ctx)
	t.scheduler.Trigger(clientID, func() {
		t.resolve(detached, clientID, seq, text)
	})
}

func (t *Typeahead) resolve(ctx context.Context, clientID string, seq uint64, text string) {
	result := t.engine.Transliterate(ctx, text)

	t.mu.Lock()
	defer t.mu.Unlock()
	term, ok := t.terms[clientID]
	if !ok || term.Seq != seq || strings.TrimSpace(term.Raw) != text {
		t.logger.DebugContext(ctx, "discarding stale transliteration",
			"client_id", clientID,
			"seq", seq,
		)
		return
	}
	term.Devanagari = result.Text
	term.Source = string(result.Source)
	term.Notice = result.Notice
	term.Pending = false
}

func (t *Typeahead) nextSeq() uint64 {
	t.seq++
	return t.seq
}

func (t *Typeahead) termFor(clientID string) *models.SearchTerm {
	term, ok := t.terms[clientID]
	if !ok {
		fresh := models.NewSearchTerm()
		term = &fresh
		t.terms[clientID] = term
	}
	return term
}
