package auth

import (
	"testing"
	"time"

	"project-tracker-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService() *Service {
	return NewService(
		config.JWTConfig{Secret: "test-secret", Issuer: "iss", Audience: "aud", TTL: time.Minute},
		config.BcryptConfig{Cost: bcrypt.MinCost},
	)
}

func TestIssueAndVerifyToken(t *testing.T) {
	s := newTestService()
	token, err := s.IssueToken("a@b.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := s.VerifyToken(token)
	require.NoError(t, err)
	require.Equal(t, "a@b.com", claims.Subject)
}

func TestVerifyToken_Invalid(t *testing.T) {
	_, err := newTestService().VerifyToken("invalid.token")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_Expired(t *testing.T) {
	s := newTestService()
	base := time.Now()
	s.now = func() time.Time { return base }
	token, err := s.IssueToken("a@b.com")
	require.NoError(t, err)

	s.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = s.VerifyToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyToken_WrongAudienceOrSecret(t *testing.T) {
	s := newTestService()
	other := NewService(
		config.JWTConfig{Secret: "test-secret", Issuer: "iss", Audience: "someone-else", TTL: time.Minute},
		config.BcryptConfig{Cost: bcrypt.MinCost},
	)
	token, err := other.IssueToken("a@b.com")
	require.NoError(t, err)
	_, err = s.VerifyToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "a@b.com", Issuer: "iss", Audience: jwt.ClaimStrings{"aud"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
	}})
	signed, err := forged.SignedString([]byte("wrong-secret"))
	require.NoError(t, err)
	_, err = s.VerifyToken(signed)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestHashAndVerifyPassword(t *testing.T) {
	s := newTestService()
	hash, err := s.HashPassword("pw123")
	require.NoError(t, err)
	require.NotEqual(t, "pw123", hash)
	require.True(t, s.VerifyPassword("pw123", hash))
	require.False(t, s.VerifyPassword("nope", hash))
	require.False(t, s.VerifyPassword("pw123", "not-a-hash"))
}
