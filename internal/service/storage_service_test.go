package service

import (
	"context"
	"debate_backend/internal/config"
	"debate_backend/internal/util"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStorageProvider(t *testing.T) {
	cfg := &config.StorageConfig{LocalPath: t.TempDir()}
	p := &LocalStorageProvider{Config: cfg}
	ctx := context.Background()

	url, err := p.Upload(ctx, "abc.txt", strings.NewReader("hi"), 2, "text/plain")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if url != "/uploads/abc.txt" {
		t.Errorf("unexpected url %q", url)
	}
	if _, err := os.Stat(filepath.Join(cfg.LocalPath, "abc.txt")); err != nil {
		t.Errorf("file not written: %v", err)
	}

	// 路径穿越
	if _, err := p.Upload(ctx, "../evil.txt", strings.NewReader("x"), 1, "text/plain"); err == nil {
		t.Error("expected error for key with path components")
	}

	if err := p.Delete(ctx, "abc.txt"); err != nil {
		t.Errorf("Delete: %v", err)
	}
	if err := p.Delete(ctx, "abc.txt"); err != nil {
		t.Errorf("deleting a missing object must succeed, got %v", err)
	}

	cfg.PublicBaseURL = "https://cdn.example.com/"
	if got := p.GetURL("k.png"); got != "https://cdn.example.com/k.png" {
		t.Errorf("unexpected public url %q", got)
	}
}

func TestStorageServiceFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = util.StorageMinio
	cfg.Storage.LocalPath = t.TempDir()
	// 非法 endpoint 使 MinIO 客户端初始化失败
	cfg.Storage.MinioEndpoint = "http://bad endpoint"

	s := NewStorageService(cfg)
	if s.ProviderName() != util.StorageLocal {
		t.Errorf("expected fallback to local, got %s", s.ProviderName())
	}
}

func TestDeleteQuietlyNilSafe(t *testing.T) {
	var s *StorageService
	s.DeleteQuietly(context.Background(), []string{"a"})
}
