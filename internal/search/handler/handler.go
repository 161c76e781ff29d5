package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"voterfinder/internal/search/models"
	"voterfinder/internal/search/service"
	"voterfinder/internal/transliteration"
	votermodels "voterfinder/internal/voter/models"
	"voterfinder/internal/voter/pager"
	voterservice "voterfinder/internal/voter/service"
	dErrors "voterfinder/pkg/domain-errors"
	"voterfinder/pkg/platform/httputil"
	"voterfinder/pkg/requestcontext"
)

// Submitter runs and records searches.
type Submitter interface {
	Submit(ctx context.Context, clientID, term string) service.Submission
}

// Typeahead holds each client's search box.
type Typeahead interface {
	Type(ctx context.Context, clientID, raw string) models.SearchTerm
	Toggle(ctx context.Context, clientID string, on bool) models.SearchTerm
	Current(clientID string) models.SearchTerm
	Clear(clientID string)
}

// RecentLog lists and clears a client's recent searches.
type RecentLog interface {
	List(ctx context.Context, clientID string) ([]string, error)
	Clear(ctx context.Context, clientID string) error
}

// Handler serves the search, typeahead and transliteration endpoints.
type Handler struct {
	submitter Submitter
	typeahead Typeahead
	engine    service.Transliterator
	recent    RecentLog
	logger    *slog.Logger
}

// New creates a search Handler.
func New(submitter Submitter, typeahead Typeahead, engine service.Transliterator, recent RecentLog, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		submitter: submitter,
		typeahead: typeahead,
		engine:    engine,
		recent:    recent,
		logger:    logger,
	}
}

// Register registers the search routes. Callers are expected to wrap r with
// the session guard.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/voters", h.handleSearch)
	r.Get("/api/transliterate", h.handleTransliterate)
	r.Route("/api/typeahead", func(r chi.Router) {
		r.Get("/", h.handleGetTerm)
		r.Put("/", h.handleType)
		r.Delete("/", h.handleClearTerm)
		r.Put("/mode", h.handleToggle)
	})
	r.Get("/api/recent", h.handleListRecent)
	r.Delete("/api/recent", h.handleClearRecent)
}

// SearchResponse is one rendered result page.
type SearchResponse struct {
	Term     string              `json:"term"`
	Searched bool                `json:"searched"`
	Voters   []votermodels.Voter `json:"voters"`
	Pager    pager.State         `json:"pager"`
	Warning  string              `json:"warning,omitempty"`
	Recent   []string            `json:"recent,omitempty"`
}

// TypeRequest carries one keystroke's worth of raw input.
type TypeRequest struct {
	Raw string `json:"raw"`
}

// ModeRequest switches the active form of the search term.
type ModeRequest struct {
	UseTransliteration bool `json:"useTransliteration"`
}

type recentResponse struct {
	Terms []string `json:"terms"`
}

// handleSearch submits q, or the client's typeahead term when q is absent,
// and returns the requested page of results.
func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := requestcontext.ClientID(ctx)
	query := r.URL.Query()

	p, err := pagerFromQuery(query.Get("size"), query.Get("view"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	term := query.Get("q")
	if !query.Has("q") {
		term = h.typeahead.Current(clientID).Active()
	}

	sub := h.submitter.Submit(ctx, clientID, term)
	p.SetTotal(len(sub.Voters))
	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "page must be a number"))
			return
		}
		p.GoTo(page)
	}

	resp := SearchResponse{
		Term:     sub.Term,
		Searched: sub.Searched,
		Voters:   pager.Slice(p, sub.Voters),
		Pager:    p.State(),
		Recent:   sub.Recent,
	}
	if sub.Failure == voterservice.FailureStore {
		resp.Warning = voterservice.ConnectivityWarning
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func pagerFromQuery(size, view string) (*pager.Pager, error) {
	p := pager.New()
	if size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, pager.ErrInvalidSize.Error())
		}
		if err := p.SetSize(n); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, err.Error())
		}
	}
	if view != "" {
		if err := p.SetView(pager.View(view)); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, err.Error())
		}
	}
	return p, nil
}

func (h *Handler) handleTransliterate(w http.ResponseWriter, r *http.Request) {
	result := h.engine.Transliterate(r.Context(), r.URL.Query().Get("text"))
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) handleGetTerm(w http.ResponseWriter, r *http.Request) {
	clientID := requestcontext.ClientID(r.Context())
	httputil.WriteJSON(w, http.StatusOK, h.typeahead.Current(clientID))
}

func (h *Handler) handleType(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[TypeRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	term := h.typeahead.Type(ctx, requestcontext.ClientID(ctx), req.Raw)
	httputil.WriteJSON(w, http.StatusAccepted, term)
}

func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[ModeRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	term := h.typeahead.Toggle(ctx, requestcontext.ClientID(ctx), req.UseTransliteration)
	httputil.WriteJSON(w, http.StatusOK, term)
}

func (h *Handler) handleClearTerm(w http.ResponseWriter, r *http.Request) {
	h.typeahead.Clear(requestcontext.ClientID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	terms, err := h.recent.List(ctx, requestcontext.ClientID(ctx))
	if err != nil {
		h.logger.WarnContext(ctx, "listing recent searches failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		terms = []string{}
	}
	httputil.WriteJSON(w, http.StatusOK, recentResponse{Terms: terms})
}

func (h *Handler) handleClearRecent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.recent.Clear(ctx, requestcontext.ClientID(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "clearing recent searches failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "recent searches unavailable"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

var _ service.Transliterator = (*transliteration.Engine)(nil)
