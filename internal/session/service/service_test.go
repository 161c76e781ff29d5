package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,TokenIssuer,AuditPublisher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"voterfinder/internal/audit"
	"voterfinder/internal/platform/kv"
	"voterfinder/internal/session/models"
	"voterfinder/internal/session/service/mocks"
	sessionstore "voterfinder/internal/session/store"
	"voterfinder/pkg/platform/sentinel"
	"voterfinder/pkg/requestcontext"
)

const firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0"

// =============================================================================
// Gate Test Suite
// =============================================================================
// Login, restore and logout run against the real KV-backed store so the
// persisted shape is exercised; mocks cover failure paths.

type GateSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	tokens  *mocks.MockTokenIssuer
	kv      *kv.InMemoryStore
	store   *sessionstore.KVStore
	auditor *audit.MemoryPublisher
	logger  *slog.Logger
	gate    *Gate
}

func TestGateSuite(t *testing.T) {
	suite.Run(t, new(GateSuite))
}

func (s *GateSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.tokens = mocks.NewMockTokenIssuer(s.ctrl)
	s.kv = kv.NewInMemory()
	s.store = sessionstore.New(s.kv, 0)
	s.auditor = audit.NewMemoryPublisher()
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.gate = s.newGate(s.store)
}

func (s *GateSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *GateSuite) newGate(store Store, opts ...Option) *Gate {
	base := []Option{WithLoginDelay(0), WithLogger(s.logger), WithAuditPublisher(s.auditor)}
	gate, err := New(store, s.tokens, append(base, opts...)...)
	s.Require().NoError(err)
	return gate
}

func (s *GateSuite) TestNew() {
	_, err := New(nil, s.tokens)
	s.Error(err)
	_, err = New(s.store, nil)
	s.Error(err)
}

func (s *GateSuite) TestLogin() {
	ctx := context.Background()

	s.Run("any non-empty credentials succeed", func() {
		s.tokens.EXPECT().GenerateSessionToken("1", "client-1", "staff", defaultTokenTTL).Return("signed-token", nil)

		session, err := s.gate.Login(ctx, "client-1", "officer", "secret", firefoxUA)
		s.Require().NoError(err)
		s.Equal(&models.User{
			ID:       "1",
			Username: "officer",
			Name:     "Election Staff",
			Role:     "staff",
			Token:    "signed-token",
		}, session.User)
		s.Equal("client-1", session.ClientID)
		s.Contains(session.Device, "Firefox on Linux")

		current, ok := s.gate.Current(ctx, "client-1")
		s.True(ok)
		s.Same(session, current)

		persisted, err := s.store.Load(ctx, "client-1")
		s.Require().NoError(err)
		s.Equal("officer", persisted.User.Username)
	})

	s.Run("empty username or password is rejected", func() {
		for _, creds := range [][2]string{{"", "secret"}, {"officer", ""}, {"", ""}} {
			_, err := s.gate.Login(ctx, "client-2", creds[0], creds[1], "")
			s.ErrorIs(err, ErrInvalidCredentials)
		}
		_, ok := s.gate.Current(ctx, "client-2")
		s.False(ok)
	})

	s.Run("audit trail records both outcomes", func() {
		var actions []audit.Action
		for _, e := range s.auditor.Events() {
			actions = append(actions, e.Action)
		}
		s.Equal([]audit.Action{
			audit.ActionLogin,
			audit.ActionLoginFailed, audit.ActionLoginFailed, audit.ActionLoginFailed,
		}, actions)
	})

	s.Run("missing client id", func() {
		_, err := s.gate.Login(ctx, "", "officer", "secret", "")
		s.ErrorIs(err, sentinel.ErrInvalidState)
	})
}

func (s *GateSuite) TestLoginDelay() {
	gate := s.newGate(s.store, WithLoginDelay(30*time.Millisecond))

	s.Run("waits before answering", func() {
		s.tokens.EXPECT().GenerateSessionToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("t", nil)
		start := time.Now()
		_, err := gate.Login(context.Background(), "client-1", "a", "b", "")
		s.Require().NoError(err)
		s.GreaterOrEqual(time.Since(start), 30*time.Millisecond)
	})

	s.Run("cancelled context aborts the wait", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := gate.Login(ctx, "client-1", "a", "b", "")
		s.ErrorIs(err, context.Canceled)
	})
}

func (s *GateSuite) TestRestoreAcrossProcesses() {
	ctx := context.Background()
	s.tokens.EXPECT().GenerateSessionToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("t", nil)
	_, err := s.gate.Login(ctx, "client-1", "officer", "secret", "")
	s.Require().NoError(err)

	// A fresh gate over the same store stands in for a restarted process.
	restarted := s.newGate(s.store)
	session, ok := restarted.Current(ctx, "client-1")
	s.Require().True(ok)
	s.Equal("officer", session.User.Username)

	_, err = restarted.Restore(ctx, "nobody")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *GateSuite) TestLogout() {
	ctx := context.Background()
	s.tokens.EXPECT().GenerateSessionToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("t", nil)
	_, err := s.gate.Login(ctx, "client-1", "officer", "secret", "")
	s.Require().NoError(err)

	s.Require().NoError(s.gate.Logout(ctx, "client-1"))

	_, ok := s.gate.Current(ctx, "client-1")
	s.False(ok)
	_, err = s.kv.Get(ctx, sessionstore.Key("client-1"))
	s.ErrorIs(err, sentinel.ErrNotFound)

	events := s.auditor.ListByClient("client-1")
	s.Require().Len(events, 2)
	s.Equal(audit.ActionLogout, events[1].Action)
	s.Equal("1", events[1].UserID)
}

func (s *GateSuite) TestStoreFailures() {
	ctx := context.Background()
	store := mocks.NewMockStore(s.ctrl)
	gate := s.newGate(store)

	s.Run("save failure fails the login", func() {
		s.tokens.EXPECT().GenerateSessionToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("t", nil)
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

		_, err := gate.Login(ctx, "client-1", "a", "b", "")
		s.Error(err)
		_, ok := gate.sessions["client-1"]
		s.False(ok)
	})

	s.Run("load failure reads as logged out", func() {
		store.EXPECT().Load(gomock.Any(), "client-1").Return(nil, errors.New("redis down"))
		_, ok := gate.Current(ctx, "client-1")
		s.False(ok)
	})

	s.Run("delete failure keeps the client logged in", func() {
		s.tokens.EXPECT().GenerateSessionToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("t", nil)
		store.EXPECT().Save(gomock.Any(), gomock.Any()).Return(nil)
		_, err := gate.Login(ctx, "client-2", "a", "b", "")
		s.Require().NoError(err)

		store.EXPECT().Delete(gomock.Any(), "client-2").Return(errors.New("redis down"))
		s.Error(gate.Logout(ctx, "client-2"))

		session, ok := gate.Current(ctx, "client-2")
		s.Require().True(ok)
		s.Equal("a", session.User.Username)
		for _, event := range s.auditor.ListByClient("client-2") {
			s.NotEqual(audit.ActionLogout, event.Action)
		}

		store.EXPECT().Delete(gomock.Any(), "client-2").Return(nil)
		s.Require().NoError(gate.Logout(ctx, "client-2"))
		store.EXPECT().Load(gomock.Any(), "client-2").Return(nil, sentinel.ErrNotFound)
		_, ok = gate.Current(ctx, "client-2")
		s.False(ok)
	})

	s.Run("token failure fails the login", func() {
		s.tokens.EXPECT().GenerateSessionToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("no key"))
		_, err := gate.Login(ctx, "client-1", "a", "b", "")
		s.Error(err)
	})
}

func (s *GateSuite) TestCreatedAtUsesRequestTime() {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	s.tokens.EXPECT().GenerateSessionToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("t", nil)

	session, err := s.gate.Login(ctx, "client-1", "a", "b", "")
	s.Require().NoError(err)
	s.Equal(now, session.CreatedAt)
}

func (s *GateSuite) TestDeviceName() {
	s.Equal("Unknown device", DeviceName(""))
	s.Contains(DeviceName(firefoxUA), "Firefox on Linux")
}

func (s *GateSuite) TestAuthenticate() {
	ctx := context.Background()
	_, ok := s.gate.Authenticate(ctx, "client-1")
	s.False(ok)

	s.tokens.EXPECT().GenerateSessionToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("t", nil)
	_, err := s.gate.Login(ctx, "client-1", "a", "b", "")
	s.Require().NoError(err)

	userID, ok := s.gate.Authenticate(ctx, "client-1")
	s.True(ok)
	s.Equal("1", userID)
}
