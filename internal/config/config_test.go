package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE_LOCAL_PATH", filepath.Join(t.TempDir(), "uploads"))

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Database.Driver != "mysql" {
		t.Errorf("unexpected defaults: port=%s driver=%s", cfg.Server.Port, cfg.Database.Driver)
	}
	if cfg.JWT.ExpireTime != 24*time.Hour {
		t.Errorf("expected 24h expiry, got %v", cfg.JWT.ExpireTime)
	}
	if cfg.Storage.MaxFileSize != 10<<20 {
		t.Errorf("expected 10MB limit, got %d", cfg.Storage.MaxFileSize)
	}
	if _, err := os.Stat(cfg.Storage.LocalPath); err != nil {
		t.Errorf("local storage dir should be created: %v", err)
	}
	if cfg.ConfigFile != "" {
		t.Errorf("no config file expected, got %q", cfg.ConfigFile)
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: "9090"
database:
  driver: sqlite
  dsn: debate.db
rate_limit:
  max_requests: 10
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STORAGE_LOCAL_PATH", t.TempDir())
	t.Setenv("JWT_EXPIRE_HOURS", "2")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("PORT", "7070")

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("env must override file, got port %s", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" || cfg.Database.DSN != "debate.db" {
		t.Errorf("unexpected database config %+v", cfg.Database)
	}
	if cfg.RateLimit.MaxRequests != 10 {
		t.Errorf("expected rate limit from file, got %d", cfg.RateLimit.MaxRequests)
	}
	if cfg.JWT.ExpireTime != 2*time.Hour {
		t.Errorf("expected 2h expiry, got %v", cfg.JWT.ExpireTime)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[0] != want[0] || cfg.CORS.AllowedOrigins[1] != want[1] {
		t.Errorf("unexpected origins %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.ConfigFile != filepath.Join(dir, "config.yaml") {
		t.Errorf("unexpected config file %q", cfg.ConfigFile)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Mode: "release"},
			Database: DatabaseConfig{Driver: "postgres"},
			JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef", ExpireTime: time.Hour},
			Google:   GoogleConfig{ClientID: "web.apps.googleusercontent.com"},
			Storage:  StorageConfig{Type: "minio", MaxFileSize: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"short secret in release", func(c *Config) { c.JWT.Secret = "short" }, true},
		{"short secret in debug", func(c *Config) { c.JWT.Secret = "short"; c.Server.Mode = "debug" }, false},
		{"no google client in release", func(c *Config) { c.Google.ClientID = " , " }, true},
		{"no google client in debug", func(c *Config) { c.Google.ClientID = ""; c.Server.Mode = "debug" }, false},
		{"zero expiry", func(c *Config) { c.JWT.ExpireTime = 0 }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "oracle" }, true},
		{"unknown storage", func(c *Config) { c.Storage.Type = "ftp" }, true},
		{"zero file size", func(c *Config) { c.Storage.MaxFileSize = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			if err := c.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoogleClientIDs(t *testing.T) {
	ids := GoogleConfig{ClientID: " web.apps , ,android.apps"}.ClientIDs()
	if len(ids) != 2 || ids[0] != "web.apps" || ids[1] != "android.apps" {
		t.Errorf("unexpected ids %v", ids)
	}
	if ids := (GoogleConfig{}).ClientIDs(); len(ids) != 0 {
		t.Errorf("expected no ids, got %v", ids)
	}
}
