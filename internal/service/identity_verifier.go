package service

import (
	"context"
	"debate_backend/pkg/logger"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"google.golang.org/api/idtoken"
	"go.uber.org/zap"
)

// ExternalIdentity 外部身份提供方验证通过后的用户信息
type ExternalIdentity struct {
	Subject string
	Email   string
	Name    string
	Picture string
}

// IdentityVerifier 验证外部签发的 ID token
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*ExternalIdentity, error)
}

var errIdentityIncomplete = errors.New("identity token missing subject or email")

// GoogleIdentityVerifier 使用 Google 公钥校验签名、过期时间和 audience
type GoogleIdentityVerifier struct {
	Audiences []string
	validate  func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewGoogleIdentityVerifier(audiences []string) *GoogleIdentityVerifier {
	return &GoogleIdentityVerifier{Audiences: audiences, validate: idtoken.Validate}
}

// Verify 任一 audience 校验通过即可
func (v *GoogleIdentityVerifier) Verify(ctx context.Context, token string) (*ExternalIdentity, error) {
	var lastErr error
	for _, aud := range v.Audiences {
		payload, err := v.validate(ctx, token, aud)
		if err != nil {
			lastErr = err
			continue
		}
		return identityFromClaims(payload.Subject, payload.Claims)
	}
	if lastErr == nil {
		lastErr = errors.New("no audience configured")
	}
	return nil, fmt.Errorf("google id token rejected: %w", lastErr)
}

// UnverifiedIdentityVerifier 开发模式：未配置 client id 时只解码不验签
type UnverifiedIdentityVerifier struct{}

func (UnverifiedIdentityVerifier) Verify(ctx context.Context, token string) (*ExternalIdentity, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil && exp.Before(time.Now()) {
		return nil, errors.New("identity token expired")
	}
	sub, _ := claims.GetSubject()
	return identityFromClaims(sub, claims)
}

func identityFromClaims(subject string, claims map[string]interface{}) (*ExternalIdentity, error) {
	str := func(key string) string {
		s, _ := claims[key].(string)
		return s
	}
	ident := &ExternalIdentity{
		Subject: subject,
		Email:   str("email"),
		Name:    str("name"),
		Picture: str("picture"),
	}
	if ident.Subject == "" || ident.Email == "" {
		return nil, errIdentityIncomplete
	}
	if ident.Name == "" {
		ident.Name = ident.Email
	}
	return ident, nil
}

// NewIdentityVerifier 根据是否配置 client id 选择校验方式
func NewIdentityVerifier(clientIDs []string) IdentityVerifier {
	if len(clientIDs) == 0 {
		logger.Log.Warn("GOOGLE_CLIENT_ID not configured, Google ID tokens are decoded WITHOUT signature verification")
		return UnverifiedIdentityVerifier{}
	}
	logger.Log.Info("Google ID token verification enabled", zap.Int("audiences", len(clientIDs)))
	return NewGoogleIdentityVerifier(clientIDs)
}
