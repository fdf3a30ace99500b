package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/kbukum/formkit/storage"
)

func TestSaveAndDownload(t *testing.T) {
	s := New("")
	ctx := context.Background()
	if err := s.Save(ctx, "a/b.txt", strings.NewReader("hi")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rc, err := s.Download(ctx, "a/b.txt")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := io.ReadAll(rc)
	if string(data) != "hi" {
		t.Errorf("expected hi, got %q", data)
	}
	if _, err := s.Download(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestURLFor(t *testing.T) {
	s := New("https://cdn.example.com/")
	u, err := s.URLFor(context.Background(), "a b/c.png", map[string]string{"v": "2"})
	if err != nil {
		t.Fatalf("URLFor: %v", err)
	}
	if u != "https://cdn.example.com/a%20b/c.png?v=2" {
		t.Errorf("unexpected url %s", u)
	}
}

func TestURLForDefaultScheme(t *testing.T) {
	u, err := New("").URLFor(context.Background(), "a/b.png", nil)
	if err != nil || u != "memory://a/b.png" {
		t.Errorf("URLFor = %q, %v", u, err)
	}
}

func TestFailSaves(t *testing.T) {
	s := New("")
	s.FailSaves(errors.New("disk full"))
	if err := s.Save(context.Background(), "x", strings.NewReader("")); err == nil {
		t.Fatal("expected configured failure")
	}
	s.FailSaves(nil)
	if err := s.Save(context.Background(), "x", strings.NewReader("")); err != nil {
		t.Fatalf("expected success after reset, got %v", err)
	}
}

func TestDeleteAndPaths(t *testing.T) {
	s := New("")
	ctx := context.Background()
	_ = s.Save(ctx, "b", strings.NewReader("1"))
	_ = s.Save(ctx, "a", strings.NewReader("2"))
	if got := s.Paths(); len(got) != 2 || got[0] != "a" {
		t.Errorf("unexpected paths %v", got)
	}
	_ = s.Delete(ctx, "a")
	if ok, _ := s.Exists(ctx, "a"); ok {
		t.Error("expected a to be deleted")
	}
}

func TestRegisteredFactorySharesInstance(t *testing.T) {
	shared := New("")
	reg := storage.NewRegistry(nil, nil)
	reg.Configure(storage.ProviderMemory, shared)
	b, err := reg.New(storage.ProviderMemory)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if b != shared {
		t.Error("expected configured instance")
	}
}
