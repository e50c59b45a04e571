// Salonbook - Salon Appointment Booking and Walk-in Queue Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/salonbook

package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/salonbook/internal/models"
)

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, RegisterInput{Name: " Ann ", Email: "Ann@Example.com ", Password: "password123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if user.Email != "ann@example.com" || user.Name != "Ann" {
		t.Errorf("user = %+v, want normalized email and trimmed name", user)
	}
	if user.Role != models.RoleCustomer {
		t.Errorf("Role = %q, want customer", user.Role)
	}
	if user.PasswordHash == "" || user.PasswordHash == "password123" {
		t.Error("password not hashed")
	}
	if token.AccessToken == "" || token.TokenType != "Bearer" {
		t.Errorf("token = %+v", token)
	}

	if _, _, err := svc.Register(ctx, RegisterInput{Name: "Ann", Email: "ann@example.com", Password: "password123"}); !errors.Is(err, models.ErrEmailTaken) {
		t.Errorf("Register(duplicate) = %v, want ErrEmailTaken", err)
	}

	if _, _, err := svc.Login(ctx, "ANN@example.com", "password123"); err != nil {
		t.Errorf("Login() error = %v", err)
	}
	if _, _, err := svc.Login(ctx, "ann@example.com", "nope-nope"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("Login(wrong password) = %v, want ErrInvalidCredentials", err)
	}
	if _, _, err := svc.Login(ctx, "who@example.com", "password123"); !errors.Is(err, models.ErrInvalidCredentials) {
		t.Errorf("Login(unknown) = %v, want ErrInvalidCredentials", err)
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	_, token, err := svc.Register(ctx, RegisterInput{Name: "Ben", Email: "ben@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	claims, err := svc.jwt.ValidateToken(token.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if _, err := svc.sessions.Get(ctx, claims.SessionID()); err != nil {
		t.Fatalf("session missing before logout: %v", err)
	}

	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if _, err := svc.sessions.Get(ctx, claims.SessionID()); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("session after logout = %v, want ErrSessionNotFound", err)
	}

	me, err := svc.Me(ctx, claims)
	if err != nil || me.Email != "ben@example.com" {
		t.Errorf("Me() = %v, %v", me, err)
	}
}

func TestBootstrapAdmin(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	if err := svc.BootstrapAdmin(ctx, "", ""); err != nil {
		t.Errorf("BootstrapAdmin(unset) = %v, want nil", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.BootstrapAdmin(ctx, "Admin@Salon.test", "adminpass1"); err != nil {
			t.Fatalf("BootstrapAdmin() pass %d error = %v", i, err)
		}
	}
	admin, err := st.GetUserByEmail(ctx, "admin@salon.test")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if admin.Role != models.RoleAdmin {
		t.Errorf("Role = %q, want admin", admin.Role)
	}
}
