package transliteration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInputToolsServer(t *testing.T, status int, body string) (*httptest.Server, <-chan url.Values) {
	t.Helper()
	queries := make(chan url.Values, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case queries <- r.URL.Query():
		default:
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, queries
}

func TestInputToolsClient_Suggest(t *testing.T) {
	t.Run("returns candidates in order", func(t *testing.T) {
		srv, queries := newInputToolsServer(t, http.StatusOK,
			`["SUCCESS",[["ram",["राम","रम","रामा"],[],{"candidate_type":[0,0,0]}]]]`)
		client := NewInputToolsClient(srv.URL)

		got, err := client.Suggest(context.Background(), "ram")
		require.NoError(t, err)
		assert.Equal(t, []string{"राम", "रम", "रामा"}, got)

		q := <-queries
		assert.Equal(t, "ram", q.Get("text"))
		assert.Equal(t, "hi-t-i0-und", q.Get("itc"))
		assert.Equal(t, "5", q.Get("num"))
		assert.Equal(t, "0", q.Get("cp"))
		assert.Equal(t, "1", q.Get("cs"))
		assert.Equal(t, "utf-8", q.Get("ie"))
		assert.Equal(t, "utf-8", q.Get("oe"))
		assert.Equal(t, "demopage", q.Get("app"))
	})

	t.Run("encodes spaces and punctuation", func(t *testing.T) {
		srv, queries := newInputToolsServer(t, http.StatusOK, `["SUCCESS",[["a b",["अ ब"]]]]`)
		client := NewInputToolsClient(srv.URL)

		_, err := client.Suggest(context.Background(), "a b&c")
		require.NoError(t, err)
		assert.Equal(t, "a b&c", (<-queries).Get("text"))
	})

	shapeTests := []struct {
		name     string
		status   int
		body     string
		category ErrorCategory
	}{
		{name: "server error", status: http.StatusBadGateway, body: ``, category: ErrorProviderOutage},
		{name: "throttled", status: http.StatusTooManyRequests, body: ``, category: ErrorRateLimited},
		{name: "client error", status: http.StatusBadRequest, body: ``, category: ErrorBadStatus},
		{name: "not json", status: http.StatusOK, body: `<html>`, category: ErrorBadData},
		{name: "object instead of array", status: http.StatusOK, body: `{"status":"SUCCESS"}`, category: ErrorBadData},
		{name: "wrapper too short", status: http.StatusOK, body: `["SUCCESS"]`, category: ErrorBadData},
		{name: "no groups", status: http.StatusOK, body: `["SUCCESS",[]]`, category: ErrorBadData},
		{name: "group without candidates", status: http.StatusOK, body: `["SUCCESS",[["ram"]]]`, category: ErrorBadData},
		{name: "candidates not strings", status: http.StatusOK, body: `["SUCCESS",[["ram",[1,2]]]]`, category: ErrorBadData},
		{name: "empty candidate list", status: http.StatusOK, body: `["SUCCESS",[["ram",[]]]]`, category: ErrorBadData},
		{name: "empty first candidate", status: http.StatusOK, body: `["SUCCESS",[["ram",[""]]]]`, category: ErrorBadData},
	}
	for _, tt := range shapeTests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newInputToolsServer(t, tt.status, tt.body)
			client := NewInputToolsClient(srv.URL)

			got, err := client.Suggest(context.Background(), "ram")
			require.Error(t, err)
			assert.Nil(t, got)
			assert.Equal(t, tt.category, CategoryOf(err))
		})
	}

	t.Run("slow service times out", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
		}))
		t.Cleanup(srv.Close)
		client := NewInputToolsClient(srv.URL, WithTimeout(20*time.Millisecond))

		_, err := client.Suggest(context.Background(), "ram")
		require.Error(t, err)
		assert.Equal(t, ErrorTimeout, CategoryOf(err))
	})

	t.Run("unreachable service", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		endpoint := srv.URL
		srv.Close()
		client := NewInputToolsClient(endpoint)

		_, err := client.Suggest(context.Background(), "ram")
		require.Error(t, err)
		assert.Equal(t, ErrorProviderOutage, CategoryOf(err))
	})
}

func TestCategoryOf(t *testing.T) {
	assert.Equal(t, ErrorInternal, CategoryOf(assert.AnError))
	err := newProviderError(ErrorBadData, "x", assert.AnError)
	assert.Equal(t, ErrorBadData, CategoryOf(err))
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "bad_data")
}
