package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"studysync/internal/config"

	"github.com/google/uuid"
)

func TestLocalStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	ws := uuid.New()

	key, err := s.Save(ctx, ws, "notes.txt", strings.NewReader("lecture notes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(key, "uploads/"+ws.String()+"/") || !strings.HasSuffix(key, "/notes.txt") {
		t.Fatalf("key: got=%q", key)
	}

	rc, err := s.Open(ctx, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	b, _ := io.ReadAll(rc)
	rc.Close()
	if string(b) != "lecture notes" {
		t.Fatalf("content: want=%q got=%q", "lecture notes", string(b))
	}

	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Open(ctx, key); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Open after delete: want=%v got=%v", ErrNotFound, err)
	}
	if err := s.Delete(ctx, key); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
}

func TestLocalStoreSameNameTwice(t *testing.T) {
	ctx := context.Background()
	s, _ := NewLocalStore(t.TempDir())
	ws := uuid.New()

	k1, err := s.Save(ctx, ws, "notes.txt", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Save 1: %v", err)
	}
	k2, err := s.Save(ctx, ws, "notes.txt", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Save 2: %v", err)
	}
	if k1 == k2 {
		t.Fatalf("keys: want distinct got=%q", k1)
	}
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	s, _ := NewLocalStore(t.TempDir())
	for _, key := range []string{"../etc/passwd", "uploads/../../x", "/abs", "uploads//x"} {
		if _, err := s.Open(context.Background(), key); !errors.Is(err, ErrNotFound) {
			t.Fatalf("%q: want=%v got=%v", key, ErrNotFound, err)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"notes.txt":          "notes.txt",
		"../../etc/passwd":   "passwd",
		`C:\Users\me\a.md`:   "a.md",
		"what?.docx":         "what_.docx",
		"":                   "upload",
		"..":                 "upload",
		"dir/":               "dir",
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Fatalf("sanitizeFilename(%q): want=%q got=%q", in, want, got)
		}
	}
}

func TestNewFromConfigFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{UploadDir: t.TempDir()}
	fs, err := NewFromConfig(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	if _, ok := fs.(*LocalStore); !ok {
		t.Fatalf("store: want *LocalStore got=%T", fs)
	}
}

func TestNewR2StoreRequiresConfig(t *testing.T) {
	if _, err := NewR2Store(context.Background(), config.R2Config{Bucket: "b"}); err == nil {
		t.Fatalf("want error for incomplete R2 config")
	}
}
