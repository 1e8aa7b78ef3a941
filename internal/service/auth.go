package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Skotchmaster/furniture_shop/internal/events"
	"github.com/Skotchmaster/furniture_shop/internal/hash"
	"github.com/Skotchmaster/furniture_shop/internal/models"
	"github.com/Skotchmaster/furniture_shop/internal/repo"
	"github.com/Skotchmaster/furniture_shop/internal/revoke"
	"github.com/Skotchmaster/furniture_shop/internal/tokens"
)

const minPasswordLen = 6

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

type AuthService struct {
	Repo        repo.Users
	Tokens      *tokens.Issuer
	Revoked     revoke.Store
	Events      events.Publisher
	AdminEmails []string
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email required: %w", ErrValidation)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("password must be at least %d characters: %w", minPasswordLen, ErrValidation)
	}

	passwordHash, err := hash.HashPassword(in.Password)
	if errors.Is(err, hash.ErrTooLong) {
		return nil, fmt.Errorf("password must be at most 72 bytes: %w", ErrValidation)
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := models.RoleUser
	if slices.Contains(s.AdminEmails, email) {
		role = models.RoleAdmin
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		PasswordHash: passwordHash,
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, fmt.Errorf("user already exists: %w", ErrConflict)
		}
		return nil, err
	}

	events.Emit(ctx, s.Events, events.TopicUser, user.ID.String(), "user_registered", map[string]any{
		"userId": user.ID,
		"email":  user.Email,
	})

	return s.issue(user)
}

// Login answers with the same error whether the email is unknown or the
// password is wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password required: %w", ErrValidation)
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			hash.Burn(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, claims, err := s.Tokens.Sign(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &AuthResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *tokens.AccessClaims) error {
	if claims == nil || claims.ID == "" {
		return ErrUnauthorized
	}
	if s.Revoked == nil {
		return nil
	}

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	return s.Revoked.Revoke(ctx, claims.ID, ttl)
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user %s", userID)
	}
	return user, nil
}
