// Package usecase orchestrates repository calls, authorization checks and
// view assembly for each inbound operation. Services hold no state between
// calls and are cheap to construct per request.
package usecase

import (
	"context"
	"errors"
	"strings"

	"project-tracker-api/internal/domain"
	"project-tracker-api/internal/models"
	"project-tracker-api/internal/repository"
	"project-tracker-api/internal/view"

	log "github.com/sirupsen/logrus"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// Security is the password and token capability the auth use cases consume.
type Security interface {
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool
	IssueToken(subject string) (string, error)
}

// RegisterInput represents the registration payload
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// LoginInput represents the login payload
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token is an issued bearer access token
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthService struct {
	users    repository.UserRepository
	security Security
}

func NewAuthService(users repository.UserRepository, security Security) *AuthService {
	return &AuthService{users: users, security: security}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user. A duplicate email yields domain.ErrUserAlreadyExists.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (view.UserView, error) {
	email := normalizeEmail(in.Email)
	if in.Password == "" {
		return view.UserView{}, domain.Invalid("password", "is required")
	}
	if len(in.Password) > maxPasswordBytes {
		return view.UserView{}, domain.Invalid("password", "must be at most 72 bytes")
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return view.UserView{}, domain.ErrUserAlreadyExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return view.UserView{}, err
	}

	hash, err := s.security.HashPassword(in.Password)
	if err != nil {
		return view.UserView{}, err
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     strings.TrimSpace(in.FullName),
		IsActive:     true,
	}
	if err := user.Validate(); err != nil {
		return view.UserView{}, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		// a concurrent registration may have won the unique index
		if _, lookupErr := s.users.GetByEmail(ctx, email); lookupErr == nil {
			return view.UserView{}, domain.ErrUserAlreadyExists
		}
		return view.UserView{}, err
	}

	log.WithField("user", user.ID).Info("user registered")
	return view.User(user), nil
}

// Login checks the credentials and issues a token whose subject is the email.
// Unknown emails, inactive users and wrong passwords all yield
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (Token, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Token{}, domain.ErrInvalidCredentials
		}
		return Token{}, err
	}
	if !user.IsActive || !s.security.VerifyPassword(in.Password, user.PasswordHash) {
		return Token{}, domain.ErrInvalidCredentials
	}

	token, err := s.security.IssueToken(user.Email)
	if err != nil {
		return Token{}, err
	}
	return Token{AccessToken: token, TokenType: "bearer"}, nil
}

// Me returns the public view of the authenticated user.
func (s *AuthService) Me(ctx context.Context, userID uint) (view.UserView, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return view.UserView{}, domain.ErrUserNotFound
		}
		return view.UserView{}, err
	}
	return view.User(user), nil
}

// ListUsers returns every user, for assignee selection.
func (s *AuthService) ListUsers(ctx context.Context) ([]view.UserView, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return view.Users(users), nil
}
