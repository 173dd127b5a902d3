package util

import (
	"encoding/json"
	"testing"
)

func TestMarshalIndentJSON_SortedTwoSpace(t *testing.T) {
	t.Parallel()

	got, err := MarshalIndentJSON(map[string]any{"version": "1.0.0", "buildTime": "t"}, "  ")
	if err != nil {
		t.Fatalf("MarshalIndentJSON: %v", err)
	}
	want := "{\n  \"buildTime\": \"t\",\n  \"version\": \"1.0.0\"\n}"
	if string(got) != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestUnmarshalJSON_Error(t *testing.T) {
	t.Parallel()

	var v map[string]any
	if err := UnmarshalJSON([]byte("{"), &v); err == nil {
		t.Fatal("expected error on truncated json")
	}
}

func TestUnmarshalJSONNumber_KeepsText(t *testing.T) {
	t.Parallel()

	var v map[string]any
	if err := UnmarshalJSONNumber([]byte(`{"version":1.10}`), &v); err != nil {
		t.Fatalf("UnmarshalJSONNumber: %v", err)
	}
	n, ok := v["version"].(json.Number)
	if !ok || n.String() != "1.10" {
		t.Fatalf("version=%#v, want json.Number 1.10", v["version"])
	}
}
