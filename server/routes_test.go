package server

import "testing"

func TestRoutesBuild(t *testing.T) {
	routes := NewRoutes("")
	routes.Add("static_upload", "/uploads/*filename")
	routes.Add("file", "/files/:id/meta")

	tests := []struct {
		name   string
		route  string
		params map[string]string
		want   string
	}{
		{"catch-all keeps slashes", "static_upload", map[string]string{"filename": "a/b/My_Report.PDF"}, "/uploads/a/b/My_Report.PDF"},
		{"catch-all leading slash", "static_upload", map[string]string{"filename": "/x.txt"}, "/uploads/x.txt"},
		{"escaped segment", "static_upload", map[string]string{"filename": "dir/a b.txt"}, "/uploads/dir/a%20b.txt"},
		{"named param", "file", map[string]string{"id": "42"}, "/files/42/meta"},
		{"extra params sorted", "static_upload", map[string]string{"filename": "x.txt", "v": "2", "a": "1"}, "/uploads/x.txt?a=1&v=2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := routes.Build(tt.route, tt.params)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if got != tt.want {
				t.Errorf("Build = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRoutesBuildErrors(t *testing.T) {
	routes := NewRoutes("")
	routes.Add("file", "/files/:id")

	if _, err := routes.Build("missing", nil); err == nil {
		t.Error("expected error for unknown route")
	}
	if _, err := routes.Build("file", map[string]string{"other": "x"}); err == nil {
		t.Error("expected error for missing parameter")
	}
}

func TestRoutesBaseURL(t *testing.T) {
	routes := NewRoutes("https://files.example.com/")
	routes.Add("static_upload", "/uploads/*filename")

	got, err := routes.Build("static_upload", map[string]string{"filename": "a.png"})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got != "https://files.example.com/uploads/a.png" {
		t.Errorf("Build = %q", got)
	}
	if names := routes.Names(); len(names) != 1 || names[0] != "static_upload" {
		t.Errorf("Names = %v", names)
	}
}
