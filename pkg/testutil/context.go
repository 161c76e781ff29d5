package testutil

import (
	"net/http"

	"voterfinder/pkg/requestcontext"
)

// WithClient attaches a client identifier, as the device middleware would.
func WithClient(req *http.Request, clientID string) *http.Request {
	return req.WithContext(requestcontext.WithClientID(req.Context(), clientID))
}

// WithSession attaches a client and the user admitted by the session guard.
func WithSession(req *http.Request, clientID, userID string) *http.Request {
	ctx := requestcontext.WithClientID(req.Context(), clientID)
	ctx = requestcontext.WithUserID(ctx, userID)
	return req.WithContext(ctx)
}
