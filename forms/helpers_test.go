package forms

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/storage"
	"github.com/kbukum/formkit/storage/memory"
)

type upload struct {
	field    string
	filename string
	content  string
}

// newMultipartRequest builds a POST request carrying the given files and
// text values.
func newMultipartRequest(t *testing.T, files []upload, texts map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.filename)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write([]byte(f.content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	for k, v := range texts {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// parseMultipart returns the parsed form of a request built by
// newMultipartRequest.
func parseMultipart(t *testing.T, files []upload, texts map[string]string) *multipart.Form {
	t.Helper()
	req := newMultipartRequest(t, files, texts)
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	t.Cleanup(func() { _ = req.MultipartForm.RemoveAll() })
	return req.MultipartForm
}

// memoryEnv returns an Env whose default backend is a shared memory store.
func memoryEnv(opts Options) (Env, *memory.Storage) {
	store := memory.New("https://cdn.test")
	reg := storage.NewRegistry(&storage.Config{Provider: storage.ProviderMemory}, logger.Nop())
	reg.Configure(storage.ProviderMemory, store)
	if opts.Backend == "" {
		opts.Backend = storage.ProviderMemory
	}
	return Env{Options: opts, Backends: reg, Log: logger.Nop()}, store
}
