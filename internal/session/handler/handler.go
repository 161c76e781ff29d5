package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"voterfinder/internal/platform/middleware"
	"voterfinder/internal/session/models"
	"voterfinder/internal/session/service"
	dErrors "voterfinder/pkg/domain-errors"
	"voterfinder/pkg/platform/httputil"
	"voterfinder/pkg/requestcontext"
)

const (
	DashboardPath = "/dashboard"

	loginFailedMessage = "Please check your username and password"
	welcomeMessage     = "Welcome back to Voter Swift Finder!"
	logoutMessage      = "You have been successfully logged out"
	loginHint          = "For demo purposes, enter any username and password"
)

// Gate is the session gate the handler drives.
type Gate interface {
	Login(ctx context.Context, clientID, username, password, userAgent string) (*models.Session, error)
	Logout(ctx context.Context, clientID string) error
	Authenticate(ctx context.Context, clientID string) (string, bool)
}

// Handler serves the login and logout surfaces.
type Handler struct {
	gate   Gate
	logger *slog.Logger
}

// New creates a session Handler.
func New(gate Gate, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{gate: gate, logger: logger}
}

// Register registers the session routes. None of them require a session.
func (h *Handler) Register(r chi.Router) {
	r.With(middleware.RedirectIfAuthenticated(h.gate, DashboardPath)).Get(middleware.LoginPath, h.handleLoginPage)
	r.Post(middleware.LoginPath, h.handleLogin)
	r.Post("/logout", h.handleLogout)
}

// LoginRequest is accepted as JSON or as a form post.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginPage struct {
	Title  string   `json:"title"`
	Hint   string   `json:"hint"`
	Fields []string `json:"fields"`
}

type loginResponse struct {
	User    *models.User `json:"user"`
	Device  string       `json:"device,omitempty"`
	Message string       `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, loginPage{
		Title:  "VoteSwiftFinder",
		Hint:   loginHint,
		Fields: []string{"username", "password"},
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, err := decodeLogin(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid login request",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	clientID := requestcontext.ClientID(ctx)
	session, err := h.gate.Login(ctx, clientID, strings.TrimSpace(req.Username), req.Password, requestcontext.UserAgent(ctx))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, loginFailedMessage))
		case errors.Is(err, context.Canceled):
			h.logger.InfoContext(ctx, "login abandoned", "request_id", requestID)
		default:
			h.logger.ErrorContext(ctx, "login failed",
				"request_id", requestID,
				"error", err,
			)
			httputil.WriteError(w, err)
		}
		return
	}

	if !httputil.WantsJSON(r) {
		http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, loginResponse{
		User:    session.User,
		Device:  session.Device,
		Message: welcomeMessage,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.gate.Logout(ctx, requestcontext.ClientID(ctx)); err != nil {
		h.logger.ErrorContext(ctx, "logout failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	if !httputil.WantsJSON(r) {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, messageResponse{Message: logoutMessage})
}

func decodeLogin(r *http.Request) (LoginRequest, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		return httputil.DecodeJSON[LoginRequest](r)
	}
	if err := r.ParseForm(); err != nil {
		return LoginRequest{}, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid form body")
	}
	return LoginRequest{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}, nil
}
