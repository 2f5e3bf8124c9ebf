package testutil

import (
	"bytes"
	"debate_backend/internal/config"
	"debate_backend/internal/model"
	"debate_backend/internal/util"
	"debate_backend/pkg/database"
	"debate_backend/pkg/logger"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/gorm"
)

// TestJWTSecret 测试配置使用的签名密钥
const TestJWTSecret = "test-secret-for-debate-arena-unit-tests"

// SetupTestDB 在临时目录创建 sqlite 数据库并完成迁移，测试结束自动删除
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	logger.InitNop()

	cfg := &config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	}
	db, err := database.InitDB(cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// TestConfig 返回可直接用于 app.New 的配置，本地存储指向临时目录
func TestConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.Port = "0"
	cfg.Database.Driver = "sqlite"
	cfg.JWT.Secret = TestJWTSecret
	cfg.JWT.ExpireHours = 1
	cfg.JWT.ExpireTime = time.Hour
	cfg.Admin.Username = "admin"
	cfg.Admin.Password = "Admin@2026"
	cfg.Admin.Email = "admin@example.com"
	cfg.Admin.FullName = "Test Admin"
	cfg.Storage.Type = util.StorageLocal
	cfg.Storage.LocalPath = t.TempDir()
	cfg.Storage.MaxFileSize = 1 << 20
	cfg.Redis.TTL = 60
	cfg.CORS.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.RateLimit.MaxRequests = 100000
	cfg.RateLimit.WindowMinutes = 1
	return cfg
}

// Token 签发测试令牌
func Token(t *testing.T, p util.Principal, ttl time.Duration) string {
	t.Helper()
	token, err := util.GenerateJWT(p, TestJWTSecret, ttl)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return token
}

func AuthHeader(token string) map[string]string {
	return map[string]string{"Authorization": util.BearerPrefix + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// Serve 执行请求并返回记录器
func Serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// DecodeData 解析统一响应结构，把 data 字段解码到 v（v 为 nil 时跳过）
func DecodeData(t *testing.T, w *httptest.ResponseRecorder, v interface{}) util.Response {
	t.Helper()
	var envelope struct {
		util.Response
		Data json.RawMessage `json:"data"`
	}
	AssertJSON(t, w, &envelope)
	if v != nil {
		if err := json.Unmarshal(envelope.Data, v); err != nil {
			t.Fatalf("Failed to decode data %s: %v", envelope.Data, err)
		}
	}
	return envelope.Response
}

// CreateTopic 直接写库的辩题夹具
func CreateTopic(t *testing.T, db *gorm.DB, title string) *model.Topic {
	t.Helper()
	topic := &model.Topic{
		Title:      title,
		LeftLabel:  "Pro",
		RightLabel: "Con",
		IsActive:   true,
	}
	if err := db.Create(topic).Error; err != nil {
		t.Fatalf("Failed to create topic: %v", err)
	}
	return topic
}

func CreateQuestion(t *testing.T, db *gorm.DB, topicID string, side model.Side) *model.Question {
	t.Helper()
	q := &model.Question{
		DebateTopicID: topicID,
		Text:          "Is it worth it?",
		Side:          side,
		Author:        model.DefaultAuthor,
	}
	if err := db.Create(q).Error; err != nil {
		t.Fatalf("Failed to create question: %v", err)
	}
	return q
}

// CreateReply parent 为问题时 depth=0，否则为父回复 depth+1
func CreateReply(t *testing.T, db *gorm.DB, parent model.ParentRef, depth int, side model.Side) *model.Reply {
	t.Helper()
	r := &model.Reply{
		Text:   "Because " + string(side),
		Side:   side,
		Author: model.DefaultAuthor,
		Depth:  depth,
	}
	r.QuestionID, r.ParentReplyID = parent.Columns()
	if err := db.Create(r).Error; err != nil {
		t.Fatalf("Failed to create reply: %v", err)
	}
	return r
}

func CreateAttachment(t *testing.T, db *gorm.DB, owner model.ParentRef, order int) *model.Attachment {
	t.Helper()
	key := model.GenerateUUID() + ".txt"
	a := &model.Attachment{
		FileName:        "notes.txt",
		FileSize:        4,
		FileType:        "text/plain",
		StorageURL:      "/uploads/" + key,
		StorageProvider: util.StorageLocal,
		StorageKey:      key,
		DisplayOrder:    order,
	}
	a.QuestionID, a.ReplyID = owner.Columns()
	if err := db.Create(a).Error; err != nil {
		t.Fatalf("Failed to create attachment: %v", err)
	}
	return a
}

func CreateEvidence(t *testing.T, db *gorm.DB, owner model.ParentRef, order int) *model.EvidenceURL {
	t.Helper()
	e := &model.EvidenceURL{
		URL:          "https://example.com/source",
		Title:        "Source",
		DisplayOrder: order,
	}
	e.QuestionID, e.ReplyID = owner.Columns()
	if err := db.Create(e).Error; err != nil {
		t.Fatalf("Failed to create evidence: %v", err)
	}
	return e
}
