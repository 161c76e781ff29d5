package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mssola/useragent"

	"voterfinder/internal/audit"
	"voterfinder/internal/session/models"
	"voterfinder/pkg/platform/sentinel"
	"voterfinder/pkg/requestcontext"
)

// ErrInvalidCredentials rejects a login with an empty username or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

const (
	staffUserID     = "1"
	staffName       = "Election Staff"
	staffRole       = "staff"
	defaultDelay    = time.Second
	defaultTokenTTL = 12 * time.Hour
)

// Store persists sessions between restarts.
type Store interface {
	Save(ctx context.Context, session *models.Session) error
	Load(ctx context.Context, clientID string) (*models.Session, error)
	Delete(ctx context.Context, clientID string) error
}

// TokenIssuer signs the bearer handle carried by a session.
type TokenIssuer interface {
	GenerateSessionToken(userID, clientID, role string, expiresIn time.Duration) (string, error)
}

// AuditPublisher records login activity.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Gate is the boolean authentication gate. Logins are a stub: any non-empty
// username and password pair is accepted.
type Gate struct {
	store    Store
	tokens   TokenIssuer
	auditor  AuditPublisher
	logger   *slog.Logger
	delay    time.Duration
	tokenTTL time.Duration

	mu       sync.RWMutex
	sessions map[string]*models.Session
}

// Option configures a Gate.
type Option func(*Gate)

// WithLoginDelay sets the artificial delay before a login is answered.
func WithLoginDelay(d time.Duration) Option {
	return func(g *Gate) {
		if d >= 0 {
			g.delay = d
		}
	}
}

// WithTokenTTL sets the lifetime of issued bearer tokens.
func WithTokenTTL(d time.Duration) Option {
	return func(g *Gate) {
		if d > 0 {
			g.tokenTTL = d
		}
	}
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(g *Gate) {
		g.auditor = p
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a gate persisting sessions to store.
func New(store Store, tokens TokenIssuer, opts ...Option) (*Gate, error) {
	if store == nil {
		return nil, errors.New("session store is required")
	}
	if tokens == nil {
		return nil, errors.New("token issuer is required")
	}
	g := &Gate{
		store:    store,
		tokens:   tokens,
		logger:   slog.Default(),
		delay:    defaultDelay,
		tokenTTL: defaultTokenTTL,
		sessions: make(map[string]*models.Session),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Login waits for the login delay, then accepts any non-empty credentials.
func (g *Gate) Login(ctx context.Context, clientID, username, password, userAgent string) (*models.Session, error) {
	if clientID == "" {
		return nil, fmt.Errorf("login: %w", sentinel.ErrInvalidState)
	}

	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if username == "" || password == "" {
		g.emit(ctx, audit.Event{Action: audit.ActionLoginFailed, ClientID: clientID})
		g.logger.InfoContext(ctx, "login rejected", "client_id", clientID)
		return nil, ErrInvalidCredentials
	}

	token, err := g.tokens.GenerateSessionToken(staffUserID, clientID, staffRole, g.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}
	session := &models.Session{
		User: &models.User{
			ID:       staffUserID,
			Username: username,
			Name:     staffName,
			Role:     staffRole,
			Token:    token,
		},
		ClientID:  clientID,
		Device:    DeviceName(userAgent),
		CreatedAt: requestcontext.Now(ctx),
	}

	if err := g.store.Save(ctx, session); err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.sessions[clientID] = session
	g.mu.Unlock()

	g.emit(ctx, audit.Event{Action: audit.ActionLogin, ClientID: clientID, UserID: staffUserID})
	g.logger.InfoContext(ctx, "login succeeded", "client_id", clientID, "device", session.Device)
	return session, nil
}

// Restore loads a persisted session into memory without re-validating it.
// Returns sentinel.ErrNotFound when nothing is stored.
func (g *Gate) Restore(ctx context.Context, clientID string) (*models.Session, error) {
	session, err := g.store.Load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	g.mu.Lock()
	g.sessions[clientID] = session
	g.mu.Unlock()
	return session, nil
}

// Current returns the client's session, restoring it from the store when it
// is not in memory yet.
func (g *Gate) Current(ctx context.Context, clientID string) (*models.Session, bool) {
	if clientID == "" {
		return nil, false
	}
	g.mu.RLock()
	session, ok := g.sessions[clientID]
	g.mu.RUnlock()
	if ok {
		return session, true
	}

	session, err := g.Restore(ctx, clientID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			g.logger.WarnContext(ctx, "session restore failed", "client_id", clientID, "error", err)
		}
		return nil, false
	}
	return session, true
}

// Authenticate reports the user behind the client's session.
func (g *Gate) Authenticate(ctx context.Context, clientID string) (string, bool) {
	session, ok := g.Current(ctx, clientID)
	if !ok || !session.Authenticated() {
		return "", false
	}
	return session.User.ID, true
}

// Logout clears persisted and in-memory state for the client. When the
// persisted copy cannot be removed the in-memory session is kept, so the
// client stays logged in rather than being restored later.
func (g *Gate) Logout(ctx context.Context, clientID string) error {
	if err := g.store.Delete(ctx, clientID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	g.mu.Lock()
	session := g.sessions[clientID]
	delete(g.sessions, clientID)
	g.mu.Unlock()

	event := audit.Event{Action: audit.ActionLogout, ClientID: clientID}
	if session.Authenticated() {
		event.UserID = session.User.ID
	}
	g.emit(ctx, event)
	return nil
}

func (g *Gate) emit(ctx context.Context, event audit.Event) {
	if g.auditor == nil {
		return
	}
	if err := g.auditor.Emit(ctx, event); err != nil {
		g.logger.WarnContext(ctx, "audit emit failed", "action", event.Action, "error", err)
	}
}

// DeviceName renders a short browser/OS label from a User-Agent header.
func DeviceName(userAgent string) string {
	if userAgent == "" {
		return "Unknown device"
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	platform := ua.OS()
	switch {
	case browser != "" && platform != "":
		return browser + " on " + platform
	case browser != "":
		return browser
	case platform != "":
		return platform
	default:
		return "Unknown device"
	}
}
