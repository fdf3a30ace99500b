// Package supabase stores uploads through the Supabase Storage REST API.
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/kbukum/formkit/errors"
	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/storage"
)

// ParamExpires selects a signed URL in URLFor. Its value is a Go duration.
const ParamExpires = "expires"

func init() {
	storage.RegisterFactory(storage.ProviderSupabase, func(_ *storage.Config, providerCfg any, _ *logger.Logger) (storage.Backend, error) {
		c, ok := providerCfg.(*Config)
		if !ok || c == nil {
			return nil, fmt.Errorf("supabase: expected *supabase.Config, got %T", providerCfg)
		}
		return New(*c)
	})
}

// Storage implements storage.Storage against /storage/v1.
type Storage struct {
	baseURL    string
	bucket     string
	serviceKey string
	httpClient *http.Client
}

var _ storage.Storage = (*Storage)(nil)

// New creates a Supabase backend.
func New(cfg Config) (*Storage, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Storage{
		baseURL:    strings.TrimRight(cfg.URL, "/") + "/storage/v1",
		bucket:     cfg.Bucket,
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Describe is used in the startup summary.
func (s *Storage) Describe() string { return "bucket=" + s.bucket }

func (s *Storage) objectURL(kind, p string) string {
	parts := []string{s.baseURL, "object"}
	if kind != "" {
		parts = append(parts, kind)
	}
	parts = append(parts, url.PathEscape(s.bucket), escapePath(p))
	return strings.Join(parts, "/")
}

func (s *Storage) newRequest(ctx context.Context, method, u string, body io.Reader, contentType string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("storage: supabase create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

func (s *Storage) do(ctx context.Context, method, u string, body io.Reader, contentType string) (*http.Response, error) {
	req, err := s.newRequest(ctx, method, u, body, contentType)
	if err != nil {
		return nil, err
	}
	return s.httpClient.Do(req)
}

// responseError reads at most 4KiB of the error body. Gateway failures
// become SERVICE_UNAVAILABLE so clients know to retry.
func responseError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	err := fmt.Errorf("storage: supabase %s failed (status %d): %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
	switch resp.StatusCode {
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return apperrors.ServiceUnavailable("supabase storage").WithCause(err)
	}
	return err
}

// Save uploads r to path, replacing any existing object.
func (s *Storage) Save(ctx context.Context, p string, r io.Reader) error {
	req, err := s.newRequest(ctx, http.MethodPost, s.objectURL("", p), r, "application/octet-stream")
	if err != nil {
		return err
	}
	req.Header.Set("x-upsert", "true")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("storage: supabase upload: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return responseError("upload", resp)
	}
	return nil
}

// URLFor returns the public object URL. With params["expires"] it asks the
// API for a signed URL valid for that duration instead.
func (s *Storage) URLFor(ctx context.Context, p string, params map[string]string) (string, error) {
	raw, signed := params[ParamExpires]
	if !signed {
		return s.objectURL("public", p), nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < time.Second {
		return "", fmt.Errorf("storage: supabase invalid %s %q", ParamExpires, raw)
	}

	body := strings.NewReader(fmt.Sprintf(`{"expiresIn": %d}`, int(d.Seconds())))
	resp, err := s.do(ctx, http.MethodPost, s.objectURL("sign", p), body, "application/json")
	if err != nil {
		return "", fmt.Errorf("storage: supabase sign: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return "", responseError("sign", resp)
	}

	var result struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("storage: supabase decode sign response: %w", err)
	}
	if result.SignedURL == "" {
		return "", fmt.Errorf("storage: supabase sign returned empty URL")
	}
	if strings.HasPrefix(result.SignedURL, "http") {
		return result.SignedURL, nil
	}
	return s.baseURL + "/" + strings.TrimLeft(result.SignedURL, "/"), nil
}

// Download streams the object at path.
func (s *Storage) Download(ctx context.Context, p string) (io.ReadCloser, error) {
	resp, err := s.do(ctx, http.MethodGet, s.objectURL("", p), nil, "")
	if err != nil {
		return nil, fmt.Errorf("storage: supabase download: %w", err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		// The API answers 400 with "Object not found" for missing keys.
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, p)
	case resp.StatusCode >= 400:
		defer resp.Body.Close()
		return nil, responseError("download", resp)
	}
	return resp.Body, nil
}

// Delete removes the object at path. Missing objects are ignored.
func (s *Storage) Delete(ctx context.Context, p string) error {
	resp, err := s.do(ctx, http.MethodDelete, s.objectURL("", p), nil, "")
	if err != nil {
		return fmt.Errorf("storage: supabase delete: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusNotFound {
		return responseError("delete", resp)
	}
	return nil
}

// Exists issues a HEAD request for the object.
func (s *Storage) Exists(ctx context.Context, p string) (bool, error) {
	resp, err := s.do(ctx, http.MethodHead, s.objectURL("", p), nil, "")
	if err != nil {
		return false, fmt.Errorf("storage: supabase head: %w", err)
	}
	defer resp.Body.Close()
	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest:
		return false, nil
	case resp.StatusCode >= 400:
		return false, fmt.Errorf("storage: supabase exists check failed (status %d)", resp.StatusCode)
	}
	return true, nil
}

func escapePath(p string) string {
	parts := strings.Split(strings.TrimLeft(p, "/"), "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
