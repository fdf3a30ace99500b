package s3

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/formkit/storage"
)

// fakeS3 serves the path-style object API for a single bucket.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := strings.TrimPrefix(r.URL.Path, "/bucket/")
	switch r.Method {
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[key] = data
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)
			return
		}
		_, _ = w.Write(data)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStorage(t *testing.T, cfg Config) *Storage {
	t.Helper()
	if cfg.Bucket == "" {
		cfg.Bucket = "bucket"
	}
	cfg.AccessKey, cfg.SecretKey = "test", "secret"
	s, err := New(context.Background(), &cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Bucket: "b", Region: "eu-west-1"}, false},
		{"missing bucket", Config{Region: "eu-west-1"}, true},
		{"half credentials", Config{Bucket: "b", Region: "r", AccessKey: "k"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		path string
		want string
	}{
		{"virtual hosted", Config{Region: "eu-west-1"}, "a/b c.png", "https://bucket.s3.eu-west-1.amazonaws.com/a/b%20c.png"},
		{"path style", Config{Region: "eu-west-1", ForcePathStyle: true}, "x.png", "https://s3.eu-west-1.amazonaws.com/bucket/x.png"},
		{"custom endpoint", Config{Endpoint: "http://minio:9000"}, "x.png", "http://minio:9000/bucket/x.png"},
		{"public url and prefix", Config{PublicURL: "https://cdn.example.com/", Prefix: "media/"}, "x.png", "https://cdn.example.com/media/x.png"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestStorage(t, tc.cfg)
			got, err := s.URLFor(context.Background(), tc.path, nil)
			if err != nil {
				t.Fatalf("URLFor: %v", err)
			}
			if got != tc.want {
				t.Errorf("URLFor() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestPresignedURL(t *testing.T) {
	s := newTestStorage(t, Config{Region: "us-east-1"})
	u, err := s.URLFor(context.Background(), "doc.pdf", map[string]string{ParamExpires: "10m"})
	if err != nil {
		t.Fatalf("URLFor: %v", err)
	}
	if !strings.Contains(u, "X-Amz-Signature=") || !strings.Contains(u, "X-Amz-Expires=600") {
		t.Errorf("expected presigned url, got %s", u)
	}

	if _, err := s.URLFor(context.Background(), "doc.pdf", map[string]string{ParamExpires: "soon"}); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestRoundTripAgainstFakeServer(t *testing.T) {
	srv := httptest.NewServer(&fakeS3{objects: make(map[string][]byte)})
	defer srv.Close()

	s := newTestStorage(t, Config{Endpoint: srv.URL})
	ctx := context.Background()

	if err := s.Save(ctx, "a/b.txt", strings.NewReader("payload")); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ok, err := s.Exists(ctx, "a/b.txt")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v", ok, err)
	}
	rc, err := s.Download(ctx, "a/b.txt")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "payload" {
		t.Errorf("expected payload, got %q", data)
	}

	if err := s.Delete(ctx, "a/b.txt"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	ok, err = s.Exists(ctx, "a/b.txt")
	if err != nil || ok {
		t.Errorf("expected missing after delete, got %v, %v", ok, err)
	}
	if _, err := s.Download(ctx, "a/b.txt"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFactoryRequiresConfig(t *testing.T) {
	reg := storage.NewRegistry(nil, nil)
	if _, err := reg.New(storage.ProviderS3); err == nil {
		t.Error("expected error without provider config")
	}
}
