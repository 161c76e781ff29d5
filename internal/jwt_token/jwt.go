package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "voterfinder/pkg/domain-errors"
)

// Claims identify the staff user and the browser session a token acts for.
type Claims struct {
	UserID   string `json:"uid"`
	ClientID string `json:"cid"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// JWTService signs and checks HS256 session tokens for the lookup API.
type JWTService struct {
	key      []byte
	issuer   string
	audience string
	leeway   time.Duration
	now      func() time.Time
}

// Option configures a JWTService.
type Option func(*JWTService)

// WithClock replaces time.Now for issuing and validating.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLeeway tolerates clock skew between replicas when checking exp and iat.
func WithLeeway(d time.Duration) Option {
	return func(s *JWTService) { s.leeway = d }
}

func NewJWTService(signingKey, issuer, audience string, opts ...Option) *JWTService {
	s := &JWTService{
		key:      []byte(signingKey),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateSessionToken issues a token bound to clientID, valid for ttl.
func (s *JWTService) GenerateSessionToken(userID, clientID, role string, ttl time.Duration) (string, error) {
	issued := s.now()
	claims := Claims{UserID: userID, ClientID: clientID, Role: role}
	claims.Issuer = s.issuer
	claims.Audience = jwt.ClaimStrings{s.audience}
	claims.IssuedAt = jwt.NewNumericDate(issued)
	claims.ExpiresAt = jwt.NewNumericDate(issued.Add(ttl))
	claims.ID = uuid.NewString()

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

func (s *JWTService) keyFunc(token *jwt.Token) (any, error) {
	if token.Method != jwt.SigningMethodHS256 {
		return nil, jwt.ErrTokenUnverifiable
	}
	return s.key, nil
}

// ValidateToken verifies signature, issuer, audience and expiry.
func (s *JWTService) ValidateToken(raw string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(raw, claims, s.keyFunc,
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
		jwt.WithLeeway(s.leeway),
		jwt.WithExpirationRequired(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	case err != nil:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	case !parsed.Valid:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// ClientIDFromToken returns the client a valid token was issued to.
func (s *JWTService) ClientIDFromToken(raw string) (string, error) {
	claims, err := s.ValidateToken(raw)
	if err != nil {
		return "", err
	}
	if claims.ClientID == "" {
		return "", dErrors.New(dErrors.CodeUnauthorized, "token has no client")
	}
	return claims.ClientID, nil
}
