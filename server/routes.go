package server

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/formkit/storage"
)

// Routes maps route names to gin path patterns and builds URLs for them.
// It implements storage.URLBuilder so backends can link to handlers by name.
type Routes struct {
	mu       sync.RWMutex
	baseURL  string
	patterns map[string]string
}

var _ storage.URLBuilder = (*Routes)(nil)

// NewRoutes creates an empty route table. baseURL, when set, prefixes every
// built URL.
func NewRoutes(baseURL string) *Routes {
	return &Routes{
		baseURL:  strings.TrimRight(baseURL, "/"),
		patterns: make(map[string]string),
	}
}

// Add names a path pattern such as "/uploads/*filename". A later Add with
// the same name replaces the pattern.
func (r *Routes) Add(name, pattern string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patterns[name] = pattern
}

// Pattern returns the pattern registered under name.
func (r *Routes) Pattern(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patterns[name]
	return p, ok
}

// Names returns the registered route names in sorted order.
func (r *Routes) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.patterns))
	for name := range r.patterns {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build fills the :param and *param segments of the named route from params
// and appends the remaining params as a query string sorted by key. A
// catch-all value keeps its slashes.
func (r *Routes) Build(name string, params map[string]string) (string, error) {
	pattern, ok := r.Pattern(name)
	if !ok {
		return "", fmt.Errorf("server: no route named %q", name)
	}

	used := make(map[string]bool)
	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if seg == "" || (seg[0] != ':' && seg[0] != '*') {
			continue
		}
		key := seg[1:]
		value, ok := params[key]
		if !ok {
			return "", fmt.Errorf("server: route %q needs parameter %q", name, key)
		}
		used[key] = true
		if seg[0] == '*' {
			segments[i] = escapeSegments(strings.TrimPrefix(value, "/"))
		} else {
			segments[i] = url.PathEscape(value)
		}
	}

	u := r.baseURL + strings.Join(segments, "/")
	query := url.Values{}
	for k, v := range params {
		if !used[k] {
			query.Set(k, v)
		}
	}
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u, nil
}

func escapeSegments(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
