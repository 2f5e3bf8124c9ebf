package service

import (
	"bytes"
	"context"
	"debate_backend/internal/model"
	"debate_backend/internal/testutil"
	"debate_backend/internal/util"
	"errors"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fileHeader 构造一个真实的 multipart 文件头
func fileHeader(t *testing.T, name, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatal(err)
	}
	fh := req.MultipartForm.File["file"][0]
	if contentType != "" {
		fh.Header.Set("Content-Type", contentType)
	}
	return fh
}

func TestUploadToLocalStorage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := testutil.CreateTopic(t, f.db, "Uploads")
	q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)

	content := []byte("hello evidence")
	view, err := f.attachment.Upload(ctx, UploadRequest{QuestionID: q.ID}, fileHeader(t, "../../Report.PDF", "", content))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if view.FileName != "Report.PDF" {
		t.Errorf("expected sanitized file name, got %q", view.FileName)
	}
	if view.UploadedBy != model.DefaultAuthor {
		t.Errorf("expected default uploader, got %q", view.UploadedBy)
	}
	if view.StorageProvider != util.StorageLocal {
		t.Errorf("expected local provider, got %q", view.StorageProvider)
	}
	if !strings.HasPrefix(view.StorageURL, "/uploads/") || !strings.HasSuffix(view.StorageURL, ".pdf") {
		t.Errorf("unexpected storage url %q", view.StorageURL)
	}

	key := strings.TrimPrefix(view.StorageURL, "/uploads/")
	stored, err := os.ReadFile(filepath.Join(f.cfg.Storage.LocalPath, key))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if !bytes.Equal(stored, content) {
		t.Errorf("stored content mismatch")
	}

	if err := f.attachment.DeleteAttachment(ctx, view.ID); err != nil {
		t.Fatalf("DeleteAttachment: %v", err)
	}
	if _, err := os.Stat(filepath.Join(f.cfg.Storage.LocalPath, key)); !os.IsNotExist(err) {
		t.Errorf("expected stored file removed, stat err = %v", err)
	}
}

func TestUploadRejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := testutil.CreateTopic(t, f.db, "Rejections")
	q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)
	r := testutil.CreateReply(t, f.db, model.ParentRef{Kind: model.ParentQuestion, ID: q.ID}, 0, model.SideRight)
	small := []byte("data")

	tests := []struct {
		name string
		req  UploadRequest
		file *multipart.FileHeader
		want error
	}{
		{"both owners", UploadRequest{QuestionID: q.ID, ReplyID: r.ID}, fileHeader(t, "a.txt", "text/plain", small), util.ErrValidation},
		{"no owner", UploadRequest{}, fileHeader(t, "a.txt", "text/plain", small), util.ErrValidation},
		{"missing owner", UploadRequest{ReplyID: "missing"}, fileHeader(t, "a.txt", "text/plain", small), util.ErrNotFound},
		{"too large", UploadRequest{QuestionID: q.ID}, fileHeader(t, "big.bin", "", make([]byte, f.cfg.Storage.MaxFileSize+1)), util.ErrValidation},
		{"empty", UploadRequest{QuestionID: q.ID}, fileHeader(t, "empty.txt", "", nil), util.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.attachment.Upload(ctx, tt.req, tt.file); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}

	entries, _ := os.ReadDir(f.cfg.Storage.LocalPath)
	if len(entries) != 0 {
		t.Errorf("rejected uploads must not reach storage, found %d files", len(entries))
	}
}

func TestEvidence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	topic := testutil.CreateTopic(t, f.db, "Evidence")
	q := testutil.CreateQuestion(t, f.db, topic.ID, model.SideLeft)
	r := testutil.CreateReply(t, f.db, model.ParentRef{Kind: model.ParentQuestion, ID: q.ID}, 0, model.SideRight)

	bad := []EvidenceRequest{
		{URL: "javascript:alert(1)", ReplyID: r.ID},
		{URL: "not a url", ReplyID: r.ID},
		{URL: "https://example.com", QuestionID: q.ID, ReplyID: r.ID},
		{URL: "https://example.com"},
	}
	for _, req := range bad {
		if _, err := f.attachment.AddEvidence(ctx, req); !errors.Is(err, util.ErrValidation) {
			t.Errorf("AddEvidence(%+v): expected ErrValidation, got %v", req, err)
		}
	}

	ev, err := f.attachment.AddEvidence(ctx, EvidenceRequest{URL: " https://example.com/study ", Title: " Study ", ReplyID: r.ID})
	if err != nil {
		t.Fatalf("AddEvidence: %v", err)
	}
	if ev.URL != "https://example.com/study" || ev.Title != "Study" {
		t.Errorf("expected trimmed url and title, got %+v", ev)
	}

	list, err := f.attachment.ListEvidence(ctx, "", r.ID)
	if err != nil || len(list) != 1 {
		t.Fatalf("ListEvidence: %v, %d items", err, len(list))
	}

	if err := f.attachment.DeleteEvidence(ctx, ev.ID); err != nil {
		t.Fatalf("DeleteEvidence: %v", err)
	}
	if err := f.attachment.DeleteEvidence(ctx, ev.ID); !errors.Is(err, util.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}
