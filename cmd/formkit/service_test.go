package main

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/storage/memory"
	"github.com/kbukum/formkit/util"
)

func newTestService(t *testing.T, mutate func(*Config)) (*service, http.Handler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &Config{}
	cfg.Storage.BasePath = t.TempDir()
	cfg.Forms.UUIDPrefixes = util.Ptr(false)
	cfg.Forms.AllowedExtensions = []string{"pdf", "png"}
	if mutate != nil {
		mutate(cfg)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	svc := newService(cfg, logger.Nop(), nil)
	if err := svc.storage.Start(context.Background()); err != nil {
		t.Fatalf("storage start: %v", err)
	}
	return svc, svc.server.Handler()
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if filename != "" {
		part, err := w.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		_, _ = part.Write([]byte(content))
	} else {
		_ = w.WriteField("note", content)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/files", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

type errorBody struct {
	Error struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func TestUploadStoresAndServesFile(t *testing.T) {
	svc, h := newTestService(t, nil)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, uploadField, "My Report.PDF", "%PDF-1.7"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data uploadResponse `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.Path != "My_Report.PDF" {
		t.Errorf("path = %q", resp.Data.Path)
	}
	if resp.Data.URL != "/uploads/My_Report.PDF" {
		t.Errorf("url = %q", resp.Data.URL)
	}
	if loc := rr.Header().Get("Location"); loc != resp.Data.URL {
		t.Errorf("Location = %q, want %q", loc, resp.Data.URL)
	}
	onDisk, err := os.ReadFile(filepath.Join(svc.cfg.Storage.BasePath, "My_Report.PDF"))
	if err != nil || string(onDisk) != "%PDF-1.7" {
		t.Fatalf("stored file = %q, %v", onDisk, err)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, resp.Data.URL, http.NoBody))
	if rr.Code != http.StatusOK || rr.Body.String() != "%PDF-1.7" {
		t.Errorf("GET %s = %d %q", resp.Data.URL, rr.Code, rr.Body.String())
	}
}

func TestUploadMemoryProviderServesFile(t *testing.T) {
	svc, h := newTestService(t, func(c *Config) {
		c.Storage.Provider = "memory"
		c.Forms.Backend = "memory"
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, uploadField, "a.png", "png-bytes"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "memory://a.png" {
		t.Errorf("Location = %q", loc)
	}

	store, ok := svc.storage.Backend().(*memory.Storage)
	if !ok {
		t.Fatalf("default backend = %T, want *memory.Storage", svc.storage.Backend())
	}
	if data, ok := store.Bytes("a.png"); !ok || string(data) != "png-bytes" {
		t.Fatalf("stored bytes = %q, %v", data, ok)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/uploads/a.png", http.NoBody))
	if rr.Code != http.StatusOK || rr.Body.String() != "png-bytes" {
		t.Errorf("GET /uploads/a.png = %d %q", rr.Code, rr.Body.String())
	}
}

func TestUploadRateLimited(t *testing.T) {
	_, h := newTestService(t, func(c *Config) {
		c.Server.UploadRateLimit.RequestsPerMinute = 1
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, uploadField, "a.png", "png"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("first upload = %d: %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, uploadField, "b.png", "png"))
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second upload = %d, want 429", rr.Code)
	}
	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil || body.Error.Code != "RATE_LIMITED" {
		t.Errorf("body = %s (%v)", rr.Body.String(), err)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

func TestUploadRejections(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		filename string
		wantMsg  string
	}{
		{"missing file", uploadField, "", "This field is required."},
		{"wrong field", "attachment", "a.pdf", "This field is required."},
		{"disallowed extension", uploadField, "run.exe", "File type not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, h := newTestService(t, nil)

			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, uploadRequest(t, tt.field, tt.filename, "data"))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rr.Code, rr.Body.String())
			}
			var body errorBody
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != "INVALID_INPUT" {
				t.Errorf("code = %q", body.Error.Code)
			}
			fields, _ := body.Error.Details["fields"].([]any)
			if len(fields) != 1 || !strings.Contains(rr.Body.String(), tt.wantMsg) {
				t.Errorf("fields = %v", fields)
			}

			entries, _ := os.ReadDir(svc.cfg.Storage.BasePath)
			if len(entries) != 0 {
				t.Errorf("rejected upload left %d entries on disk", len(entries))
			}
		})
	}
}

func TestUploadNotMultipart(t *testing.T) {
	_, h := newTestService(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/files", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestUploadWithSubfolders(t *testing.T) {
	svc, h := newTestService(t, func(c *Config) {
		c.Forms.Subfolders = util.Ptr(true)
	})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, uploadRequest(t, uploadField, "scan.png", "png"))
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if _, err := os.Stat(filepath.Join(svc.cfg.Storage.BasePath, "s", "c", "a", "n", "scan.png")); err != nil {
		t.Errorf("expected sharded file: %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.Forms.UploadDir = "media"
	cfg.ApplyDefaults()

	if cfg.Name != serviceName {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Storage.BasePath != "media" {
		t.Errorf("storage base path = %q, want forms upload dir", cfg.Storage.BasePath)
	}
	if cfg.Storage.Provider != "local" || cfg.Forms.Backend != "local" {
		t.Errorf("provider = %q, backend = %q", cfg.Storage.Provider, cfg.Forms.Backend)
	}
	if cfg.Tracing.ServiceName != serviceName {
		t.Errorf("tracing service = %q", cfg.Tracing.ServiceName)
	}

	s3cfg := &Config{}
	s3cfg.Storage.Provider = "s3"
	s3cfg.ApplyDefaults()
	if s3cfg.Forms.Backend != "s3" {
		t.Errorf("backend should follow provider, got %q", s3cfg.Forms.Backend)
	}
	if err := s3cfg.Validate(); err == nil {
		t.Error("expected s3 validation error without bucket")
	}
}

func TestConfigValidateStructTags(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantMsg string
	}{
		{"sample rate", func(c *Config) { c.Tracing.SampleRate = 2 }, "must be at most 1"},
		{"extension with slash", func(c *Config) { c.Forms.AllowedExtensions = []string{"png", "../x"} }, "must not contain /"},
		{"empty extension", func(c *Config) { c.Forms.AllowedExtensions = []string{""} }, "is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Validate() = %v, want message %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "formkit.yaml")
	yaml := `
name: uploads-api
server:
  port: 9090
storage:
  provider: local
  local:
    root: /srv/files
forms:
  upload_uuid_prefixes: false
  upload_subfolders: true
  allowed_extensions: [pdf, png]
`
	if err := os.WriteFile(file, []byte(yaml), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := loadConfig(file, filepath.Join(dir, "missing.env"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	cfg.ApplyDefaults()
	if cfg.Name != "uploads-api" || cfg.Server.Port != 9090 {
		t.Errorf("unexpected service config %+v %+v", cfg.ServiceConfig, cfg.Server)
	}
	if cfg.Storage.Local.Root != "/srv/files" {
		t.Errorf("local root = %q", cfg.Storage.Local.Root)
	}
	p := cfg.Forms.Policy()
	if p.UUIDPrefix || !p.KeepFilename || !p.Subfolders {
		t.Errorf("policy = %+v", p)
	}
	if len(cfg.Forms.AllowedExtensions) != 2 {
		t.Errorf("allowed extensions = %v", cfg.Forms.AllowedExtensions)
	}
}

func TestURLCommand(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "formkit.yaml")
	if err := os.WriteFile(file, []byte("server:\n  base_url: https://files.example.com\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"url", "--config", file, "a/b.png", "--param", "v=2"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "https://files.example.com/uploads/a/b.png?v=2" {
		t.Errorf("url = %q", got)
	}
}
