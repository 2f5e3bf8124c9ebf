package service

import (
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/repository"
	"debate_backend/internal/testutil"
	"debate_backend/internal/util"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := testutil.SetupTestDB(t)
	s := NewAuthService(repository.NewAdminUserRepository(db), testutil.TestConfig(t))
	s.BcryptCost = bcrypt.MinCost
	if err := s.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin: %v", err)
	}
	return s
}

func TestEnsureAdminIdempotent(t *testing.T) {
	s := newAuthService(t)
	if err := s.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("second EnsureAdmin: %v", err)
	}
	var count int64
	s.AdminRepo.DB.Model(&model.AdminUser{}).Count(&count)
	if count != 1 {
		t.Errorf("expected exactly one admin, got %d", count)
	}
}

func TestAuthenticate(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	resp, err := s.Authenticate(ctx, " admin ", "Admin@2026")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if !resp.Success || resp.Token == "" || resp.User.Username != "admin" {
		t.Errorf("unexpected login response %+v", resp)
	}

	claims, err := s.Verify(resp.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !claims.IsAdmin() || claims.Subject != "admin" {
		t.Errorf("unexpected claims %+v", claims)
	}

	tests := []struct {
		name, username, password string
	}{
		{"wrong password", "admin", "wrong"},
		{"unknown user", "nobody", "Admin@2026"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Authenticate(ctx, tt.username, tt.password)
			if !errors.Is(err, util.ErrInvalidCredentials) {
				t.Errorf("expected ErrInvalidCredentials, got %v", err)
			}
		})
	}
}

func TestVerifyAdmin(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	resp, err := s.Authenticate(ctx, "admin", "Admin@2026")
	if err != nil {
		t.Fatal(err)
	}
	admin, err := s.VerifyAdmin(ctx, resp.Token)
	if err != nil || admin.Username != "admin" {
		t.Fatalf("VerifyAdmin: %v", err)
	}

	userToken := testutil.Token(t, util.Principal{Subject: "u@example.com", UserID: "u1", Kind: model.PrincipalUser}, time.Hour)
	if _, err := s.VerifyAdmin(ctx, userToken); !errors.Is(err, util.ErrInvalidToken) {
		t.Errorf("user token: expected ErrInvalidToken, got %v", err)
	}

	expired := testutil.Token(t, util.Principal{Subject: "admin", UserID: admin.ID, Kind: model.PrincipalAdmin}, -time.Minute)
	if _, err := s.VerifyAdmin(ctx, expired); !errors.Is(err, util.ErrExpiredToken) {
		t.Errorf("expired token: expected ErrExpiredToken, got %v", err)
	}

	ghost := testutil.Token(t, util.Principal{Subject: "ghost", UserID: "missing", Kind: model.PrincipalAdmin}, time.Hour)
	if _, err := s.VerifyAdmin(ctx, ghost); !errors.Is(err, util.ErrInvalidToken) {
		t.Errorf("unknown admin: expected ErrInvalidToken, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	s := newAuthService(t)
	ctx := context.Background()

	if err := s.ResetPassword(ctx, "admin", "short"); !errors.Is(err, util.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
	if err := s.ResetPassword(ctx, "nobody", "long-enough-password"); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := s.ResetPassword(ctx, "admin", "N3w-Password!"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, err := s.Authenticate(ctx, "admin", "Admin@2026"); !errors.Is(err, util.ErrInvalidCredentials) {
		t.Errorf("old password must stop working, got %v", err)
	}
	if _, err := s.Authenticate(ctx, "admin", "N3w-Password!"); err != nil {
		t.Errorf("new password rejected: %v", err)
	}
}
