// Package device identifies the browser or API client that owns session and
// recent-search state.
package device

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"voterfinder/pkg/requestcontext"
)

// CookieName holds the client identifier for browser callers.
const CookieName = "vf_client"

const cookieMaxAge = 365 * 24 * time.Hour

// TokenResolver maps a bearer token to the client it was issued to.
type TokenResolver interface {
	ClientIDFromToken(token string) (string, error)
}

// Middleware resolves the client identifier and stores it in the request
// context. A valid bearer token wins; otherwise the cookie is used, and a
// new identifier is issued when the cookie is missing or malformed.
func Middleware(resolver TokenResolver, secure bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID := fromBearer(r, resolver)
			if clientID == "" {
				clientID = fromCookie(r)
			}
			if clientID == "" {
				clientID = uuid.NewString()
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    clientID,
					Path:     "/",
					MaxAge:   int(cookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}
			ctx := requestcontext.WithClientID(r.Context(), clientID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func fromBearer(r *http.Request, resolver TokenResolver) string {
	if resolver == nil {
		return ""
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || token == "" {
		return ""
	}
	clientID, err := resolver.ClientIDFromToken(token)
	if err != nil {
		return ""
	}
	return clientID
}

func fromCookie(r *http.Request) string {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}
