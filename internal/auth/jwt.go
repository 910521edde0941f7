// Package auth implements the security port: password hashing with bcrypt and
// HS256 access tokens whose subject is the user's email.
package auth

import (
	"errors"
	"fmt"
	"time"

	"project-tracker-api/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidToken is returned for any token that fails verification.
var ErrInvalidToken = errors.New("invalid token")

// Claims represents the JWT claims
type Claims struct {
	jwt.RegisteredClaims
}

// Service hashes passwords and issues/verifies tokens. It is immutable after
// construction and safe for concurrent use.
type Service struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	cost     int
	now      func() time.Time
}

// NewService builds a Service from the JWT and bcrypt sections of the config.
func NewService(jwtCfg config.JWTConfig, bcryptCfg config.BcryptConfig) *Service {
	return &Service{
		secret:   []byte(jwtCfg.Secret),
		issuer:   jwtCfg.Issuer,
		audience: jwtCfg.Audience,
		ttl:      jwtCfg.TTL,
		cost:     bcryptCfg.Cost,
		now:      time.Now,
	}
}

// HashPassword returns the bcrypt hash of password.
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches hash.
func (s *Service) VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// IssueToken generates a signed access token for subject.
func (s *Service) IssueToken(subject string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return tokenString, nil
}

// VerifyToken validates signature, expiry, issuer and audience and returns the
// claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
