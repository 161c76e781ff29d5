package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"voterfinder/internal/search/models"
	sessionmodels "voterfinder/internal/session/models"
	voterservice "voterfinder/internal/voter/service"
	dErrors "voterfinder/pkg/domain-errors"
	"voterfinder/pkg/platform/httputil"
	"voterfinder/pkg/requestcontext"
)

// SessionReader returns the client's current session.
type SessionReader interface {
	Current(ctx context.Context, clientID string) (*sessionmodels.Session, bool)
}

// ConnectivityChecker probes the voter roll.
type ConnectivityChecker interface {
	CheckConnectivity(ctx context.Context) voterservice.Connectivity
}

// Dashboard serves the landing view after login.
type Dashboard struct {
	sessions     SessionReader
	connectivity ConnectivityChecker
	recent       RecentLog
	typeahead    Typeahead
	logger       *slog.Logger
}

// NewDashboard creates the dashboard handler.
func NewDashboard(sessions SessionReader, connectivity ConnectivityChecker, recent RecentLog, typeahead Typeahead, logger *slog.Logger) *Dashboard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		sessions:     sessions,
		connectivity: connectivity,
		recent:       recent,
		typeahead:    typeahead,
		logger:       logger,
	}
}

// Register registers GET /dashboard. Callers wrap r with the session guard.
func (d *Dashboard) Register(r chi.Router) {
	r.Get("/dashboard", d.handleDashboard)
}

// DashboardResponse is everything the dashboard renders on load.
type DashboardResponse struct {
	User         *sessionmodels.User       `json:"user"`
	Device       string                    `json:"device,omitempty"`
	Connectivity voterservice.Connectivity `json:"connectivity"`
	Recent       []string                  `json:"recent"`
	Term         models.SearchTerm         `json:"term"`
}

func (d *Dashboard) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	clientID := requestcontext.ClientID(ctx)
	requestID := requestcontext.RequestID(ctx)

	session, ok := d.sessions.Current(ctx, clientID)
	if !ok || !session.Authenticated() {
		// The guard admitted the request, so the session vanished in between.
		d.logger.WarnContext(ctx, "session missing behind guard", "request_id", requestID)
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "login required"))
		return
	}

	recent, err := d.recent.List(ctx, clientID)
	if err != nil {
		d.logger.WarnContext(ctx, "listing recent searches failed",
			"request_id", requestID,
			"error", err,
		)
		recent = []string{}
	}

	httputil.WriteJSON(w, http.StatusOK, DashboardResponse{
		User:         session.User,
		Device:       session.Device,
		Connectivity: d.connectivity.CheckConnectivity(ctx),
		Recent:       recent,
		Term:         d.typeahead.Current(clientID),
	})
}
