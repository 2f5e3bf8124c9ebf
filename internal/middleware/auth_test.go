package middleware

import (
	"debate_backend/internal/model"
	"debate_backend/internal/testutil"
	"debate_backend/internal/util"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testutil.TestConfig(t)

	r := gin.New()
	whoami := func(c *gin.Context) {
		subject := ""
		if u := util.GetUserFromContext(c); u != nil {
			subject = u.Subject
		}
		util.Success(c, gin.H{"subject": subject})
	}
	r.GET("/admin", AuthMiddleware(cfg), RequireKind(model.PrincipalAdmin), whoami)
	r.GET("/user", AuthMiddleware(cfg), RequireKind(model.PrincipalUser), whoami)
	r.GET("/optional", TryAuthMiddleware(cfg), whoami)
	return r
}

func TestAuthMiddleware(t *testing.T) {
	r := newTestRouter(t)
	admin := testutil.Token(t, util.Principal{Subject: "admin", UserID: "a1", Kind: model.PrincipalAdmin}, time.Hour)
	user := testutil.Token(t, util.Principal{Subject: "ada@example.com", UserID: "u1", Kind: model.PrincipalUser}, time.Hour)
	expired := testutil.Token(t, util.Principal{Subject: "admin", UserID: "a1", Kind: model.PrincipalAdmin}, -time.Minute)

	tests := []struct {
		name    string
		path    string
		headers map[string]string
		want    int
	}{
		{"missing token", "/admin", nil, http.StatusUnauthorized},
		{"malformed header", "/admin", map[string]string{"Authorization": "Token " + admin}, http.StatusUnauthorized},
		{"expired", "/admin", testutil.AuthHeader(expired), http.StatusUnauthorized},
		{"garbage", "/admin", testutil.AuthHeader("abc"), http.StatusUnauthorized},
		{"admin ok", "/admin", testutil.AuthHeader(admin), http.StatusOK},
		{"query token", "/admin?token=" + admin, nil, http.StatusOK},
		{"user on admin route", "/admin", testutil.AuthHeader(user), http.StatusForbidden},
		{"admin on user route", "/user", testutil.AuthHeader(admin), http.StatusForbidden},
		{"user ok", "/user", testutil.AuthHeader(user), http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.Serve(r, testutil.MakeRequest(http.MethodGet, tt.path, nil, tt.headers))
			testutil.AssertStatus(t, w, tt.want)
		})
	}
}

func TestTryAuthMiddleware(t *testing.T) {
	r := newTestRouter(t)
	user := testutil.Token(t, util.Principal{Subject: "ada@example.com", UserID: "u1", Kind: model.PrincipalUser}, time.Hour)

	tests := []struct {
		name    string
		headers map[string]string
		subject string
	}{
		{"anonymous", nil, ""},
		{"invalid token ignored", testutil.AuthHeader("garbage"), ""},
		{"valid token", testutil.AuthHeader(user), "ada@example.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := testutil.Serve(r, testutil.MakeRequest(http.MethodGet, "/optional", nil, tt.headers))
			testutil.AssertStatus(t, w, http.StatusOK)
			var data struct {
				Subject string `json:"subject"`
			}
			testutil.DecodeData(t, w, &data)
			if data.Subject != tt.subject {
				t.Errorf("subject = %q, want %q", data.Subject, tt.subject)
			}
		})
	}
}
