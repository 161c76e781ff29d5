package device

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voterfinder/pkg/requestcontext"
)

type stubResolver map[string]string

func (s stubResolver) ClientIDFromToken(token string) (string, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return "", errors.New("invalid token")
}

func serve(t *testing.T, resolver TokenResolver, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()
	var seen string
	h := Middleware(resolver, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.ClientID(r.Context())
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return seen, rec
}

func TestMiddleware(t *testing.T) {
	resolver := stubResolver{"good-token": "token-client"}

	t.Run("issues a cookie to new clients", func(t *testing.T) {
		clientID, rec := serve(t, resolver, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(clientID)
		require.NoError(t, err)
		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, CookieName, cookies[0].Name)
		assert.Equal(t, clientID, cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("reuses an existing cookie", func(t *testing.T) {
		existing := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: existing})

		clientID, rec := serve(t, resolver, req)
		assert.Equal(t, existing, clientID)
		assert.Empty(t, rec.Result().Cookies())
	})

	t.Run("replaces a malformed cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: CookieName, Value: "not-a-uuid"})

		clientID, rec := serve(t, resolver, req)
		assert.NotEqual(t, "not-a-uuid", clientID)
		assert.Len(t, rec.Result().Cookies(), 1)
	})

	t.Run("bearer token wins over cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good-token")
		req.AddCookie(&http.Cookie{Name: CookieName, Value: uuid.NewString()})

		clientID, _ := serve(t, resolver, req)
		assert.Equal(t, "token-client", clientID)
	})

	t.Run("invalid bearer token falls back to cookie", func(t *testing.T) {
		existing := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer forged")
		req.AddCookie(&http.Cookie{Name: CookieName, Value: existing})

		clientID, _ := serve(t, resolver, req)
		assert.Equal(t, existing, clientID)
	})
}
