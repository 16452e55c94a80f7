package files

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestClassifyByMime(t *testing.T) {
	cases := []struct {
		filename string
		mime     string
		want     Category
	}{
		{"photo.bin", "image/png", CategoryImage},
		{"report", "application/pdf", CategoryDocument},
		{"sheet", "text/csv; charset=utf-8", CategorySpreadsheet},
		{"deck", "application/vnd.ms-powerpoint", CategoryPresentation},
		{"song.dat", "audio/mpeg", CategoryAudio},
		{"clip.dat", "video/mp4", CategoryVideo},
		{"bundle", "application/zip", CategoryArchive},
		{"conf", "application/json", CategoryCode},
		{"notes", "text/plain", CategoryText},
		{"readme", "text/x-unknown-subtype", CategoryText},
	}
	for _, tc := range cases {
		if got := Classify(tc.filename, tc.mime); got != tc.want {
			t.Errorf("Classify(%q, %q) = %q, want %q", tc.filename, tc.mime, got, tc.want)
		}
	}
}

func TestClassifyByExtensionFallback(t *testing.T) {
	cases := []struct {
		filename string
		want     Category
	}{
		{"logo.SVG", CategoryImage},
		{"paper.docx", CategoryDocument},
		{"budget.xlsx", CategorySpreadsheet},
		{"talk.pptx", CategoryPresentation},
		{"voice.flac", CategoryAudio},
		{"demo.mkv", CategoryVideo},
		{"backup.tar", CategoryArchive},
		{"main.go", CategoryCode},
		{"notes.md", CategoryText},
		{"blob.xyz", CategoryOther},
		{"noextension", CategoryOther},
	}
	for _, tc := range cases {
		if got := Classify(tc.filename, "application/octet-stream"); got != tc.want {
			t.Errorf("Classify(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestStoreSaveOpenRoundTrip(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()

	info, err := s.Save(ctx, "report.pdf", "application/pdf", strings.NewReader("pdf bytes"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if info.ID == "" || info.Filename != "report.pdf" || info.Size != int64(len("pdf bytes")) {
		t.Errorf("unexpected file info: %+v", info)
	}
	if info.Category != CategoryDocument {
		t.Errorf("expected document category, got %q", info.Category)
	}

	rc, got, err := s.Open(ctx, info.ID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if string(content) != "pdf bytes" {
		t.Errorf("content mismatch: %q", content)
	}
	if got.ContentType != "application/pdf" {
		t.Errorf("metadata mismatch: %+v", got)
	}
}

func TestStoreListAndDelete(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()

	a, err := s.Save(ctx, "a.txt", "text/plain", strings.NewReader("a"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := s.Save(ctx, "b.txt", "text/plain", strings.NewReader("b")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	infos, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(infos))
	}

	deleted, err := s.Delete(ctx, a.ID)
	if err != nil || !deleted {
		t.Fatalf("Delete failed: deleted=%v err=%v", deleted, err)
	}
	if again, err := s.Delete(ctx, a.ID); err != nil || again {
		t.Errorf("expected second delete to report missing, got deleted=%v err=%v", again, err)
	}

	infos, err = s.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(infos) != 1 {
		t.Errorf("expected 1 upload after delete, got %d", len(infos))
	}
}

func TestStoreMissingUpload(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}
	ctx := context.Background()

	if _, err := s.Stat(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stat: expected ErrNotFound, got %v", err)
	}
	if _, _, err := s.Open(ctx, "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Open: expected ErrNotFound, got %v", err)
	}
	deleted, err := s.Delete(ctx, "no-such-id")
	if err != nil || deleted {
		t.Errorf("Delete: expected (false, nil) for missing id, got deleted=%v err=%v", deleted, err)
	}
}

func TestSanitizeFilename(t *testing.T) {
	s, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore failed: %v", err)
	}

	info, err := s.Save(context.Background(), "../../etc/passwd", "text/plain", strings.NewReader("x"))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if info.Filename != "passwd" {
		t.Errorf("expected path components stripped, got %q", info.Filename)
	}
}
