package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "voterfinder/pkg/domain-errors"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)

const (
	userID   = "1"
	clientID = "client-123"
	role     = "staff"
)

var expiresIn = time.Hour

func Test_GenerateSessionToken(t *testing.T) {
	token, err := jwtService.GenerateSessionToken(userID, clientID, role, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, clientID, claims.ClientID)
	assert.Equal(t, role, claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "invalid token")
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateSessionToken(userID, clientID, role, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token has expired")
}

func Test_ValidateToken_WrongKeyOrAudience(t *testing.T) {
	other := NewJWTService("another-key", "test-issuer", "test-audience")
	token, err := other.GenerateSessionToken(userID, clientID, role, expiresIn)
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

	elsewhere := NewJWTService("test-signing-key", "test-issuer", "other-audience")
	token, err = elsewhere.GenerateSessionToken(userID, clientID, role, expiresIn)
	require.NoError(t, err)
	_, err = jwtService.ValidateToken(token)
	assert.Error(t, err)
}

func Test_ValidateToken_RejectsNoneAlgorithm(t *testing.T) {
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{ClientID: clientID})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.Error(t, err)
}

func Test_ClientIDFromToken(t *testing.T) {
	token, err := jwtService.GenerateSessionToken(userID, clientID, role, expiresIn)
	require.NoError(t, err)

	got, err := jwtService.ClientIDFromToken(token)
	require.NoError(t, err)
	assert.Equal(t, clientID, got)

	token, err = jwtService.GenerateSessionToken(userID, "", role, expiresIn)
	require.NoError(t, err)
	_, err = jwtService.ClientIDFromToken(token)
	assert.Error(t, err)
}

func Test_ClockAndLeeway(t *testing.T) {
	issued := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	now := issued
	clock := func() time.Time { return now }

	strict := NewJWTService("k", "iss", "aud", WithClock(clock))
	lenient := NewJWTService("k", "iss", "aud", WithClock(clock), WithLeeway(time.Minute))

	token, err := strict.GenerateSessionToken(userID, clientID, role, time.Hour)
	require.NoError(t, err)

	now = issued.Add(time.Hour + 30*time.Second)
	_, err = strict.ValidateToken(token)
	assert.ErrorContains(t, err, "token has expired")

	claims, err := lenient.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, clientID, claims.ClientID)
}

func Test_ValidateToken_RequiresExpiry(t *testing.T) {
	claims := Claims{ClientID: clientID}
	claims.Issuer = "test-issuer"
	claims.Audience = jwt.ClaimStrings{"test-audience"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.Error(t, err)
}
