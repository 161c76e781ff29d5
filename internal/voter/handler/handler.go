package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voterfinder/internal/audit"
	"voterfinder/internal/voter/models"
	"voterfinder/internal/voter/service"
	dErrors "voterfinder/pkg/domain-errors"
	"voterfinder/pkg/platform/httputil"
	"voterfinder/pkg/requestcontext"
)

// Service looks up single voters.
type Service interface {
	Lookup(ctx context.Context, id string) service.LookupOutcome
}

// AuditPublisher records detail views.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Handler serves voter detail endpoints.
type Handler struct {
	voters  Service
	auditor AuditPublisher
	logger  *slog.Logger
}

// New creates a voter Handler. auditor may be nil.
func New(voters Service, auditor AuditPublisher, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{voters: voters, auditor: auditor, logger: logger}
}

// Register registers the voter routes. Callers are expected to wrap r with
// the session guard.
func (h *Handler) Register(r chi.Router) {
	r.Get("/api/voters/{id}", h.handleGetVoter)
	r.Get("/voter/{id}", h.handleVoterPage)
}

type voterPage struct {
	Voter *models.Voter `json:"voter"`
	Back  string        `json:"back"`
}

func (h *Handler) handleGetVoter(w http.ResponseWriter, r *http.Request) {
	v, ok := h.lookup(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

// handleVoterPage is the detail view reached from a result card.
func (h *Handler) handleVoterPage(w http.ResponseWriter, r *http.Request) {
	v, ok := h.lookup(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if h.auditor != nil {
		event := audit.Event{
			Action:   audit.ActionVoterViewed,
			ClientID: requestcontext.ClientID(ctx),
			UserID:   requestcontext.UserID(ctx),
			VoterID:  v.VoterID,
		}
		if err := h.auditor.Emit(ctx, event); err != nil {
			h.logger.WarnContext(ctx, "audit emit failed",
				"action", event.Action,
				"request_id", requestcontext.RequestID(ctx),
				"error", err,
			)
		}
	}
	httputil.WriteJSON(w, http.StatusOK, voterPage{Voter: v, Back: "/dashboard"})
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*models.Voter, bool) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	out := h.voters.Lookup(ctx, id)
	switch out.Failure {
	case service.FailureNone:
		return out.Voter, true
	case service.FailureNotFound:
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "voter not found"))
	default:
		h.logger.WarnContext(ctx, "voter lookup degraded",
			"id", id,
			"failure", out.Failure.String(),
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, service.ConnectivityWarning))
	}
	return nil, false
}
