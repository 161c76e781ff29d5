package middleware

import (
	"context"
	"log/slog"
	"net/http"

	dErrors "voterfinder/pkg/domain-errors"
	"voterfinder/pkg/platform/httputil"
	"voterfinder/pkg/requestcontext"
)

// LoginPath is where unauthenticated page requests are sent.
const LoginPath = "/login"

// SessionChecker reports whether a client has a live session.
type SessionChecker interface {
	Authenticate(ctx context.Context, clientID string) (userID string, ok bool)
}

// RequireSession guards protected surfaces. Page requests without a session
// are redirected to LoginPath; API requests get a 401 envelope.
func RequireSession(checker SessionChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientID := requestcontext.ClientID(ctx)
			userID, ok := checker.Authenticate(ctx, clientID)
			if !ok {
				logger.InfoContext(ctx, "unauthenticated access",
					"path", r.URL.Path,
					"client_id", clientID,
					"request_id", requestcontext.RequestID(ctx),
				)
				if httputil.WantsJSON(r) || isAPI(r) {
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "login required"))
					return
				}
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}
			ctx = requestcontext.WithUserID(ctx, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RedirectIfAuthenticated sends clients that already have a session to
// target instead of the wrapped handler.
func RedirectIfAuthenticated(checker SessionChecker, target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := checker.Authenticate(r.Context(), requestcontext.ClientID(r.Context())); ok {
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func isAPI(r *http.Request) bool {
	return len(r.URL.Path) >= 5 && r.URL.Path[:5] == "/api/"
}
