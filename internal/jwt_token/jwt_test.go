package jwttoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "docflow/pkg/domain-errors"
	"docflow/pkg/requestcontext"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)
var expiresIn = time.Hour

func Test_GenerateAccessToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken("Ana@Example.com", requestcontext.RoleAdmin, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := jwtService.GenerateAccessToken("ana@example.com", requestcontext.RoleUser, -time.Hour)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token has expired")
}

func Test_ValidateToken_WrongAudience(t *testing.T) {
	other := NewJWTService("test-signing-key", "test-issuer", "other-audience")
	token, err := other.GenerateAccessToken("ana@example.com", requestcontext.RoleUser, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("another-key", "test-issuer", "test-audience")
	token, err := other.GenerateAccessToken("ana@example.com", requestcontext.RoleUser, expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_Claims(t *testing.T) {
	sign := func(claims Claims) string {
		claims.Issuer = "test-issuer"
		claims.Audience = jwt.ClaimStrings{"test-audience"}
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-signing-key"))
		require.NoError(t, err)
		return token
	}

	t.Run("missing email", func(t *testing.T) {
		_, err := jwtService.ValidateToken(sign(Claims{Role: "user"}))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
	t.Run("unknown role", func(t *testing.T) {
		_, err := jwtService.ValidateToken(sign(Claims{Email: "ana@example.com", Role: "root"}))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	})
	t.Run("missing role defaults to user", func(t *testing.T) {
		claims, err := jwtService.ValidateToken(sign(Claims{Email: "ana@example.com"}))
		require.NoError(t, err)
		assert.Equal(t, "user", claims.Role)
	})
}

func Test_Adapter(t *testing.T) {
	token, err := jwtService.GenerateAccessToken("ana@example.com", requestcontext.RoleUser, expiresIn)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(jwtService).ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, requestcontext.RoleUser, claims.Role)
	assert.NotEmpty(t, claims.JTI)
}
