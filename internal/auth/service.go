// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/salonbook/internal/logging"
	"github.com/tomtom215/salonbook/internal/metrics"
	"github.com/tomtom215/salonbook/internal/models"
	"github.com/tomtom215/salonbook/internal/store"
)

// Token is an issued access token.
type Token struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// RegisterInput holds the fields of a new customer account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Service implements account and session operations.
type Service struct {
	users    store.Users
	jwt      *JWTManager
	sessions SessionStore
	now      func() time.Time
}

// NewService creates an auth service.
func NewService(users store.Users, jwt *JWTManager, sessions SessionStore) *Service {
	return &Service{users: users, jwt: jwt, sessions: sessions, now: time.Now}
}

// NormalizeEmail lowercases and trims an address for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer account and logs it in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, *Token, error) {
	user, err := s.createUser(ctx, in, models.RoleCustomer)
	metrics.RecordAuthAttempt("register", err == nil)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("User registered")
	return user, token, nil
}

func (s *Service) createUser(ctx context.Context, in RegisterInput, role string) (*models.User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Email:        NormalizeEmail(in.Email),
		Phone:        in.Phone,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login checks credentials and issues a token. Unknown emails and wrong
// passwords both return models.ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, *Token, error) {
	user, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if errors.Is(err, models.ErrNotFound) {
		metrics.RecordAuthAttempt("login", false)
		return nil, nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, nil, fmt.Errorf("lookup user: %w", err)
	}
	if !CheckPassword(user.PasswordHash, password) {
		metrics.RecordAuthAttempt("login", false)
		logging.Ctx(ctx).Warn().Str("user_id", user.ID).Msg("Login failed: wrong password")
		return nil, nil, models.ErrInvalidCredentials
	}

	token, err := s.issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	metrics.RecordAuthAttempt("login", true)
	return user, token, nil
}

// Logout revokes the session behind claims.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims == nil || claims.SessionID() == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, claims.SessionID()); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Me returns the user behind claims.
func (s *Service) Me(ctx context.Context, claims *Claims) (*models.User, error) {
	return s.users.GetUserByID(ctx, claims.UserID)
}

// BootstrapAdmin creates the configured admin account when it does not exist.
func (s *Service) BootstrapAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	_, err := s.users.GetUserByEmail(ctx, NormalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("lookup admin: %w", err)
	}

	user, err := s.createUser(ctx, RegisterInput{Name: "Administrator", Email: email, Password: password}, models.RoleAdmin)
	if errors.Is(err, models.ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	logging.Info().Str("user_id", user.ID).Str("email", user.Email).Msg("Bootstrapped admin account")
	return nil
}

func (s *Service) issue(ctx context.Context, user *models.User) (*Token, error) {
	now := s.now()
	session := &Session{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now.UTC(),
		ExpiresAt: now.Add(s.jwt.Timeout()).UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	signed, expires, err := s.jwt.GenerateToken(user, session.ID)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: signed, TokenType: "Bearer", ExpiresAt: expires}, nil
}
