package transliteration

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"

	"voterfinder/internal/platform/kv"
	"voterfinder/internal/transliteration/metrics"
	"voterfinder/pkg/platform/circuit"
	"voterfinder/pkg/platform/sentinel"
)

// Source tells where a result came from.
type Source string

const (
	SourceNone     Source = "none"
	SourceRemote   Source = "remote"
	SourceCache    Source = "cache"
	SourceFallback Source = "fallback"
)

// FallbackNotice is shown to the user whenever the primary path failed.
const FallbackNotice = "Transliteration API error: falling back to basic transliteration"

const (
	cacheKeyPrefix        = "voter-finder-translit:"
	defaultPrimaryTimeout = 3 * time.Second
	defaultCacheTTL       = 24 * time.Hour
)

// Primary produces ranked Devanagari candidates for Latin text.
type Primary interface {
	Suggest(ctx context.Context, text string) ([]string, error)
}

// Result is the outcome of a transliteration. Text is never empty unless the
// input was.
type Result struct {
	Input       string   `json:"input"`
	Text        string   `json:"text"`
	Suggestions []string `json:"suggestions,omitempty"`
	Source      Source   `json:"source"`
	Notice      string   `json:"notice,omitempty"`
}

// Engine converts Latin input to Devanagari, preferring the primary service
// and degrading to the local table.
type Engine struct {
	table    *Table
	primary  Primary
	cache    kv.Store
	cacheTTL time.Duration
	limiter  *rate.Limiter
	breaker  *circuit.Breaker
	timeout  time.Duration
	group    singleflight.Group
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithPrimary sets the remote transliteration service. Without one every
// request uses the table.
func WithPrimary(p Primary) Option {
	return func(e *Engine) {
		e.primary = p
	}
}

// WithCache stores successful primary results in store for ttl.
func WithCache(store kv.Store, ttl time.Duration) Option {
	return func(e *Engine) {
		e.cache = store
		if ttl > 0 {
			e.cacheTTL = ttl
		}
	}
}

// WithRateLimit bounds outbound primary calls. Requests over the limit use
// the fallback instead of waiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(e *Engine) {
		if rps <= 0 {
			return
		}
		if burst < 1 {
			burst = 1
		}
		e.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithBreaker overrides the circuit breaker guarding the primary.
func WithBreaker(b *circuit.Breaker) Option {
	return func(e *Engine) {
		if b != nil {
			e.breaker = b
		}
	}
}

// WithPrimaryTimeout bounds a single primary call.
func WithPrimaryTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.timeout = d
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates an engine over table. A nil table uses DefaultTable.
func NewEngine(table *Table, opts ...Option) *Engine {
	if table == nil {
		table = DefaultTable()
	}
	e := &Engine{
		table:    table,
		cacheTTL: defaultCacheTTL,
		timeout:  defaultPrimaryTimeout,
		breaker:  circuit.New("transliteration", circuit.WithCooldown(30*time.Second)),
		logger:   slog.Default(),
		tracer:   otel.Tracer("voterfinder/transliteration"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Table returns the fallback table.
func (e *Engine) Table() *Table {
	return e.table
}

// Transliterate never fails: any primary problem yields the table rendering
// with FallbackNotice set.
func (e *Engine) Transliterate(ctx context.Context, text string) Result {
	text = norm.NFC.String(strings.TrimSpace(text))
	if text == "" {
		return Result{Source: SourceNone}
	}

	ctx, span := e.tracer.Start(ctx, "transliteration.Transliterate",
		trace.WithAttributes(attribute.Int("input.runes", len([]rune(text)))))
	defer span.End()

	res := e.transliterate(ctx, text)
	span.SetAttributes(attribute.String("result.source", string(res.Source)))
	e.metrics.IncrementRequest(string(res.Source))
	return res
}

func (e *Engine) transliterate(ctx context.Context, text string) Result {
	if e.primary == nil {
		return Result{Input: text, Text: e.table.Fallback(text), Source: SourceFallback}
	}

	if candidates, ok := e.cached(ctx, text); ok {
		return Result{Input: text, Text: candidates[0], Suggestions: candidates, Source: SourceCache}
	}

	candidates, err := e.callPrimary(ctx, text)
	if err != nil {
		category := CategoryOf(err)
		e.metrics.IncrementPrimaryFailure(string(category))
		trace.SpanFromContext(ctx).SetStatus(codes.Error, string(category))
		e.logger.WarnContext(ctx, "transliteration primary failed, using fallback",
			"category", category,
			"error", err,
		)
		return Result{
			Input:  text,
			Text:   e.table.Fallback(text),
			Source: SourceFallback,
			Notice: FallbackNotice,
		}
	}

	e.store(ctx, text, candidates)
	return Result{Input: text, Text: candidates[0], Suggestions: candidates, Source: SourceRemote}
}

func (e *Engine) callPrimary(ctx context.Context, text string) ([]string, error) {
	if e.limiter != nil && !e.limiter.Allow() {
		return nil, newProviderError(ErrorRateLimited, "outbound rate limit reached", nil)
	}
	// Checked last: a granted probe must reach the call that records it.
	if !e.breaker.AllowPrimary() {
		return nil, newProviderError(ErrorCircuitOpen, "primary temporarily disabled", nil)
	}

	// Identical in-flight inputs share one call. The shared call must not be
	// cut short by whichever caller happened to start it.
	v, err, _ := e.group.Do(text, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
		defer cancel()

		start := time.Now()
		candidates, err := e.primary.Suggest(callCtx, text)
		e.metrics.ObservePrimary(start)
		if err != nil {
			if opened, change := e.breaker.RecordFailure(); opened && change.Opened {
				e.logger.WarnContext(ctx, "transliteration circuit opened", "breaker", e.breaker.Name())
			}
			return nil, err
		}
		if _, change := e.breaker.RecordSuccess(); change.Closed {
			e.logger.InfoContext(ctx, "transliteration circuit closed", "breaker", e.breaker.Name())
		}
		return candidates, nil
	})
	if err != nil {
		var pe *ProviderError
		if !errors.As(err, &pe) {
			err = newProviderError(ErrorInternal, "primary failed", err)
		}
		return nil, err
	}
	candidates, _ := v.([]string)
	if len(candidates) == 0 || candidates[0] == "" {
		return nil, newProviderError(ErrorBadData, "no candidates", nil)
	}
	return candidates, nil
}

func (e *Engine) cached(ctx context.Context, text string) ([]string, bool) {
	if e.cache == nil {
		return nil, false
	}
	raw, err := e.cache.Get(ctx, cacheKeyPrefix+text)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			e.logger.WarnContext(ctx, "transliteration cache read failed", "error", err)
		}
		return nil, false
	}
	var candidates []string
	if err := json.Unmarshal(raw, &candidates); err != nil || len(candidates) == 0 || candidates[0] == "" {
		return nil, false
	}
	return candidates, true
}

func (e *Engine) store(ctx context.Context, text string, candidates []string) {
	if e.cache == nil {
		return
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, cacheKeyPrefix+text, raw, e.cacheTTL); err != nil {
		e.logger.WarnContext(ctx, "transliteration cache write failed", "error", err)
	}
}
