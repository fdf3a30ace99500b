package forms

import (
	"path"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestGenerateFilenameUUIDOnly(t *testing.T) {
	p := Policy{UUIDPrefix: true, KeepFilename: false}
	tests := []struct {
		in      string
		wantExt string
	}{
		{"photo.jpg", ".jpg"},
		{"archive.tar.gz", ".gz"},
		{"My Report.PDF", ".PDF"},
		{"noext", ""},
		{"../../etc/passwd.conf", ".conf"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := GenerateFilename(tt.in, p)
			ext := path.Ext(got)
			if ext != tt.wantExt {
				t.Errorf("ext = %q, want %q (got %q)", ext, tt.wantExt, got)
			}
			if _, err := uuid.Parse(strings.TrimSuffix(got, ext)); err != nil {
				t.Errorf("base of %q is not a uuid: %v", got, err)
			}
		})
	}
}

func TestGenerateFilenameSanitized(t *testing.T) {
	p := Policy{UUIDPrefix: false, KeepFilename: true}
	tests := []struct {
		in   string
		want string
	}{
		{"My Report.PDF", "My_Report.PDF"},
		{"../../etc/passwd", "etc_passwd"},
		{`C:\Windows\system32.dll`, "C_Windows_system32.dll"},
		{"résumé.txt", "resume.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := GenerateFilename(tt.in, p)
			if got != tt.want {
				t.Errorf("GenerateFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if strings.ContainsAny(got, `/\`) {
				t.Errorf("%q contains a path separator", got)
			}
			// Sanitizing is deterministic.
			if again := GenerateFilename(tt.in, p); again != got {
				t.Errorf("second call = %q, want %q", again, got)
			}
		})
	}
}

func TestGenerateFilenameUUIDOnlyExtension(t *testing.T) {
	p := Policy{UUIDPrefix: true, KeepFilename: false}
	tests := []struct {
		in      string
		wantExt string
	}{
		{"photo.PNG", ".PNG"},
		{"archive.tar.gz", ".gz"},
		{"x.jpé", ".jpe"},
		{"x.con", ".con"},
		{"x.日本", ""},
		{"noext", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := GenerateFilename(tt.in, p)
			if len(got) != 36+len(tt.wantExt) || !strings.HasSuffix(got, tt.wantExt) {
				t.Errorf("GenerateFilename(%q) = %q, want uuid + %q", tt.in, got, tt.wantExt)
			}
		})
	}
}

func TestGenerateFilenameUUIDAndName(t *testing.T) {
	got := GenerateFilename("My Report.PDF", Policy{UUIDPrefix: true, KeepFilename: true})
	id, rest, ok := strings.Cut(got, "-My_Report")
	if !ok || rest != ".PDF" {
		t.Fatalf("expected <uuid>-My_Report.PDF, got %q", got)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("prefix %q is not a uuid: %v", id, err)
	}
}

func TestGenerateFilenameEmptyAfterSanitizing(t *testing.T) {
	got := GenerateFilename("日本語", Policy{KeepFilename: true})
	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("expected uuid fallback, got %q", got)
	}
}

func TestShardDirs(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		byDash bool
		want   []string
	}{
		{"dash segments", "abcd-1234-xyz9-foo", true, []string{"abcd", "1234", "xyz9", "foo"}},
		{"dash more segments", "a-b-c-d-e-f", true, []string{"a", "b", "c", "d"}},
		{"dash fewer segments", "ab-cd", true, []string{"ab", "cd"}},
		{"characters", "report.pdf", false, []string{"r", "e", "p", "o"}},
		{"short name", "ab", false, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := shardDirs(tt.in, tt.byDash)
			if strings.Join(got, "/") != strings.Join(tt.want, "/") {
				t.Errorf("shardDirs(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestGenerateFilenameSubfolders(t *testing.T) {
	got := GenerateFilename("report.pdf", Policy{KeepFilename: true, Subfolders: true})
	if got != "r/e/p/o/report.pdf" {
		t.Errorf("got %q, want r/e/p/o/report.pdf", got)
	}

	got = GenerateFilename("x.png", Policy{UUIDPrefix: true, Subfolders: true})
	dirs := strings.Split(got, "/")
	if len(dirs) != 5 {
		t.Fatalf("expected four uuid folders and a leaf, got %q", got)
	}
	leaf := dirs[4]
	if !strings.HasPrefix(leaf, strings.Join(dirs[:4], "-")+"-") {
		t.Errorf("folders %v are not the leading segments of %q", dirs[:4], leaf)
	}
}

func TestToggleResolve(t *testing.T) {
	tests := []struct {
		toggle    Toggle
		inherited bool
		want      bool
	}{
		{Inherit, true, true},
		{Inherit, false, false},
		{Enabled, false, true},
		{Disabled, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.toggle.String(), func(t *testing.T) {
			if got := tt.toggle.Resolve(tt.inherited); got != tt.want {
				t.Errorf("Resolve(%v) = %v, want %v", tt.inherited, got, tt.want)
			}
		})
	}
	if ToggleOf(true) != Enabled || ToggleOf(false) != Disabled {
		t.Error("ToggleOf mismatch")
	}
}

func TestOptionsDefaults(t *testing.T) {
	var o Options
	p := o.Policy()
	if !p.UUIDPrefix || !p.KeepFilename || p.Subfolders {
		t.Errorf("unexpected default policy %+v", p)
	}
	o.ApplyDefaults()
	if o.Backend != DefaultBackend || o.UploadDir != DefaultUploadDir {
		t.Errorf("unexpected defaults %+v", o)
	}
	if err := (&Options{AllowedExtensions: []string{"jpg", ".png"}}).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	for ext, want := range map[string]string{"": "is required", "../x": "must not contain /"} {
		err := (&Options{AllowedExtensions: []string{"jpg", ext}}).Validate()
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("Validate(%q) = %v, want message %q", ext, err, want)
		}
	}
}
