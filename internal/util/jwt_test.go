package util

import (
	"debate_backend/internal/model"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "unit-test-secret"

func TestGenerateAndParseJWT(t *testing.T) {
	token, err := GenerateJWT(Principal{Subject: "admin", UserID: "a1", Kind: model.PrincipalAdmin, Email: "a@example.com"}, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT: %v", err)
	}
	claims, err := ParseJWT(token, testSecret)
	if err != nil {
		t.Fatalf("ParseJWT: %v", err)
	}
	if claims.Subject != "admin" || claims.UserID != "a1" || !claims.IsAdmin() {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestParseJWTFailures(t *testing.T) {
	valid := Principal{Subject: "u", UserID: "u1", Kind: model.PrincipalUser}
	sign := func(p Principal, secret string, ttl time.Duration) string {
		tok, err := GenerateJWT(p, secret, ttl)
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}
	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: "u1", Kind: model.PrincipalUser}).SignedString([]byte(testSecret))
	hs512, _ := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		UserID: "u1", Kind: model.PrincipalUser,
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(testSecret))

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"expired", sign(valid, testSecret, -time.Minute), ErrExpiredToken},
		{"wrong secret", sign(valid, "other-secret", time.Hour), ErrInvalidToken},
		{"unknown kind", sign(Principal{Subject: "x", Kind: "robot"}, testSecret, time.Hour), ErrInvalidToken},
		{"missing exp", noExp, ErrInvalidToken},
		{"other algorithm", hs512, ErrInvalidToken},
		{"garbage", "not.a.token", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJWT(tt.token, testSecret)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrUnauthorized) {
				t.Errorf("token errors must wrap ErrUnauthorized")
			}
		})
	}
}

func TestBearerToken(t *testing.T) {
	tests := map[string]string{
		"Bearer abc":   "abc",
		"Bearer  abc ": "abc",
		"bearer abc":   "",
		"Basic abc":    "",
		"":             "",
	}
	for header, want := range tests {
		if got := BearerToken(header); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}
