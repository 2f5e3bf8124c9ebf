package util

import (
	"regexp"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := map[string]string{
		"report.pdf":          "report.pdf",
		"../../etc/passwd":    "passwd",
		`C:\Users\ada\cv.doc`: "cv.doc",
		"bad\x00name\n.txt":   "badname.txt",
		"  ":                  "file",
		"..":                  "file",
	}
	for in, want := range tests {
		if got := SanitizeFilename(in); got != want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestStorageKey(t *testing.T) {
	uuidPattern := `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`
	tests := []struct {
		name    string
		pattern string
	}{
		{"Photo.JPG", `^` + uuidPattern + `\.jpg$`},
		{"noext", `^` + uuidPattern + `$`},
		{"weird.extensionthatistoolong", `^` + uuidPattern + `$`},
	}
	for _, tt := range tests {
		got := StorageKey(tt.name)
		if !regexp.MustCompile(tt.pattern).MatchString(got) {
			t.Errorf("StorageKey(%q) = %q", tt.name, got)
		}
	}
	if StorageKey("a.txt") == StorageKey("a.txt") {
		t.Error("storage keys must be unique")
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := map[int64]string{
		0:               "0 B",
		1023:            "1023 B",
		1024:            "1.0 KB",
		1536:            "1.5 KB",
		5 * 1024 * 1024: "5.0 MB",
		3 << 30:         "3.0 GB",
	}
	for size, want := range tests {
		if got := FormatFileSize(size); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", size, got, want)
		}
	}
}

func TestDetectMimeType(t *testing.T) {
	got, err := DetectMimeType(strings.NewReader("%PDF-1.7 rest"))
	if err != nil || got != MimePDF {
		t.Errorf("expected pdf, got %q (%v)", got, err)
	}
	got, _ = DetectMimeType(strings.NewReader(""))
	if got != "text/plain; charset=utf-8" {
		t.Errorf("empty input: got %q", got)
	}
}

func TestParseOptionalBool(t *testing.T) {
	if v, err := ParseOptionalBool(""); v != nil || err != nil {
		t.Errorf("empty: %v %v", v, err)
	}
	if v, err := ParseOptionalBool("true"); err != nil || v == nil || !*v {
		t.Errorf("true: %v %v", v, err)
	}
	if _, err := ParseOptionalBool("maybe"); err == nil {
		t.Error("expected error for invalid boolean")
	}
}
