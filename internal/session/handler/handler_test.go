package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Gate

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"voterfinder/internal/session/handler/mocks"
	"voterfinder/internal/session/models"
	"voterfinder/internal/session/service"
	"voterfinder/pkg/requestcontext"
	"voterfinder/pkg/testutil"
)

type SessionHandlerSuite struct {
	suite.Suite
	ctrl   *gomock.Controller
	gate   *mocks.MockGate
	router chi.Router
}

func TestSessionHandlerSuite(t *testing.T) {
	suite.Run(t, new(SessionHandlerSuite))
}

func (s *SessionHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.gate = mocks.NewMockGate(s.ctrl)
	s.router = chi.NewRouter()
	New(s.gate, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *SessionHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *SessionHandlerSuite) serve(req *http.Request) *httptest.ResponseRecorder {
	ctx := requestcontext.WithClientID(req.Context(), "c1")
	ctx = requestcontext.WithClientMetadata(ctx, "127.0.0.1", "test-agent")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req.WithContext(ctx))
	return rec
}

func formLogin(username, password string) *http.Request {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonLogin(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

var staffSession = &models.Session{
	User:     &models.User{ID: "1", Username: "asha", Name: "Election Staff", Role: "staff", Token: "tok"},
	ClientID: "c1",
	Device:   "Firefox on Linux",
}

// =============================================================================
// GET /login
// =============================================================================

func (s *SessionHandlerSuite) TestLoginPage() {
	s.gate.EXPECT().Authenticate(gomock.Any(), "c1").Return("", false)

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/login", nil))
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "enter any username and password")
}

func (s *SessionHandlerSuite) TestLoginPageRedirectsWhenAuthenticated() {
	s.gate.EXPECT().Authenticate(gomock.Any(), "c1").Return("1", true)

	rec := s.serve(httptest.NewRequest(http.MethodGet, "/login", nil))
	testutil.AssertRedirect(s.T(), rec, DashboardPath)
}

// =============================================================================
// POST /login
// =============================================================================

func (s *SessionHandlerSuite) TestFormLoginRedirects() {
	s.gate.EXPECT().Login(gomock.Any(), "c1", "asha", "secret", "test-agent").Return(staffSession, nil)

	rec := s.serve(formLogin(" asha ", "secret"))
	testutil.AssertRedirect(s.T(), rec, DashboardPath)
}

func (s *SessionHandlerSuite) TestJSONLoginReturnsUser() {
	s.gate.EXPECT().Login(gomock.Any(), "c1", "asha", "secret", "test-agent").Return(staffSession, nil)

	rec := s.serve(jsonLogin(`{"username":"asha","password":"secret"}`))
	s.Equal(http.StatusOK, rec.Code)
	var resp struct {
		User    models.User `json:"user"`
		Message string      `json:"message"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Election Staff", resp.User.Name)
	s.Equal("tok", resp.User.Token)
	s.Equal(welcomeMessage, resp.Message)
}

func (s *SessionHandlerSuite) TestRejectedLogin() {
	s.gate.EXPECT().Login(gomock.Any(), "c1", "", "secret", "test-agent").Return(nil, service.ErrInvalidCredentials)

	rec := s.serve(formLogin("", "secret"))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.JSONEq(`{"error":"unauthorized","error_description":"Please check your username and password"}`, rec.Body.String())
}

func (s *SessionHandlerSuite) TestMalformedJSON() {
	rec := s.serve(jsonLogin(`{"username":`))
	testutil.AssertError(s.T(), rec, http.StatusBadRequest, "bad_request")
}

func (s *SessionHandlerSuite) TestLoginStoreFailureIsInternal() {
	s.gate.EXPECT().Login(gomock.Any(), "c1", "asha", "secret", "test-agent").Return(nil, errors.New("redis down"))

	rec := s.serve(jsonLogin(`{"username":"asha","password":"secret"}`))
	s.Equal(http.StatusInternalServerError, rec.Code)
	s.NotContains(rec.Body.String(), "redis")
}

// =============================================================================
// POST /logout
// =============================================================================

func (s *SessionHandlerSuite) TestLogoutRedirects() {
	s.gate.EXPECT().Logout(gomock.Any(), "c1").Return(nil)

	rec := s.serve(httptest.NewRequest(http.MethodPost, "/logout", nil))
	testutil.AssertRedirect(s.T(), rec, "/login")
}

func (s *SessionHandlerSuite) TestLogoutJSON() {
	s.gate.EXPECT().Logout(gomock.Any(), "c1").Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.Header.Set("Accept", "application/json")
	rec := s.serve(req)
	s.Equal(http.StatusOK, rec.Code)
	s.JSONEq(`{"message":"You have been successfully logged out"}`, rec.Body.String())
}
