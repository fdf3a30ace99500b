package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "invalid-level", Format: "json", Output: "stdout"}, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestJSONOutputWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: "json"}, "svc", &buf)
	l.WithComponent("storage").Info("backend initialized", Fields("backend", "local"))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	if entry[FieldComponent] != "storage" {
		t.Errorf("expected component=storage, got %v", entry[FieldComponent])
	}
	if entry["backend"] != "local" {
		t.Errorf("expected backend=local, got %v", entry["backend"])
	}
	if entry["message"] != "backend initialized" {
		t.Errorf("unexpected message %v", entry["message"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: "json"}, "svc", &buf)
	l.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("expected warn entry, got %q", buf.String())
	}
}

func TestWithErrorField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "svc", &buf)
	l.WithError(fmt.Errorf("boom")).Error("save failed")
	if !strings.Contains(buf.String(), `"error":"boom"`) {
		t.Errorf("expected error field, got %q", buf.String())
	}
}

func TestConsoleLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "formkit", &buf)
	l.Info("hello")
	if !strings.Contains(buf.String(), "[FOR][INF]") {
		t.Errorf("expected service tag and level, got %q", buf.String())
	}
}

func TestInitSetsGlobal(t *testing.T) {
	Init(&Config{Level: "info", Format: "json", Output: "stdout", ServiceName: "formkit"})
	gl := GetGlobalLogger()
	if gl == nil || gl.service != "formkit" {
		t.Fatalf("expected global logger for formkit, got %+v", gl)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}

	mixed := Config{Level: "DEBUG", Format: "JSON"}
	mixed.ApplyDefaults()
	if mixed.Level != "debug" || mixed.Format != "json" {
		t.Errorf("expected lowercased settings, got %+v", mixed)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"pretty alias", Config{Level: "warn", Format: "pretty"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRegisterAndGet(t *testing.T) {
	l := Nop()
	Register("forms", l)
	if got := Get("forms"); got != l {
		t.Error("expected registered logger")
	}
	t.Cleanup(func() { Unregister("forms") })

	fallback := Get("unregistered")
	if fallback == nil {
		t.Fatal("expected fallback logger for unregistered name")
	}
	if Get("unregistered") != fallback {
		t.Error("expected fallback logger to be cached")
	}

	Unregister("forms")
	if Get("forms") == l {
		t.Error("expected binding to be dropped")
	}
}
