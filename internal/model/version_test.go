package model

import (
	"strings"
	"testing"

	"verwatch/internal/util"
)

func TestVersionDescriptor_MarshalOrder(t *testing.T) {
	t.Parallel()

	d := VersionDescriptor{
		Version:   "1.2.3",
		BuildTime: "2026-01-02T03:04:05.000Z",
		Extra: map[string]any{
			"commit":  "abc123",
			"branch":  "main",
			"version": "ignored",
		},
	}

	got, err := util.MarshalJSON(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"version":"1.2.3","buildTime":"2026-01-02T03:04:05.000Z","branch":"main","commit":"abc123"}`
	if string(got) != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestVersionDescriptor_UnmarshalExtra(t *testing.T) {
	t.Parallel()

	var d VersionDescriptor
	err := util.UnmarshalJSON([]byte(`{"version":"2.0.0","buildTime":"t","env":"prod","build":42}`), &d)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Version != "2.0.0" || d.BuildTime != "t" {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
	if d.Extra["env"] != "prod" {
		t.Fatalf("extra env=%v", d.Extra["env"])
	}
	if _, ok := d.Extra["version"]; ok {
		t.Fatal("reserved field leaked into Extra")
	}
}

func TestVersionDescriptor_UnmarshalRejectsBadShape(t *testing.T) {
	t.Parallel()

	tests := []string{
		`{"version":123}`,
		`[1,2]`,
		`null`,
		`{`,
	}
	for _, body := range tests {
		var d VersionDescriptor
		if err := util.UnmarshalJSON([]byte(body), &d); err == nil {
			t.Fatalf("expected error for %s", body)
		}
	}
}

func TestCheckResult_UpdateInfo(t *testing.T) {
	t.Parallel()

	cur := "1.0.0"
	r := &CheckResult{HasUpdate: true, CurrentVersion: &cur, LatestVersion: "1.0.1", BuildTime: "t"}
	info := r.UpdateInfo()
	if info.CurrentVersion != "1.0.0" || info.LatestVersion != "1.0.1" || info.BuildTime != "t" {
		t.Fatalf("unexpected info: %+v", info)
	}

	b, err := util.MarshalJSON(&CheckResult{LatestVersion: "1.0.0"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"currentVersion":null`) {
		t.Fatalf("expected null currentVersion, got %s", b)
	}
}

func TestMetadata_Version(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		meta   Metadata
		want   string
		wantOK bool
	}{
		{"string", Metadata{"version": "1.0.0"}, "1.0.0", true},
		{"yaml number", Metadata{"version": 1.5}, "1.5", true},
		{"empty", Metadata{"version": ""}, "", false},
		{"null", Metadata{"version": nil}, "", false},
		{"missing", Metadata{"name": "app"}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.meta.Version()
			if got != tt.want || ok != tt.wantOK {
				t.Fatalf("Version()=(%q,%v), want (%q,%v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
