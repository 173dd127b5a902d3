package testutil_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"verwatch/internal/testutil"
)

func TestSetupTestStore_CreatesValidStore(t *testing.T) {
	store, cleanup := testutil.SetupTestStore(t)
	defer cleanup()

	ctx := context.Background()
	if err := store.SetItem(ctx, "k", "v"); err != nil {
		t.Fatalf("SetItem failed: %v", err)
	}
	v, ok, err := store.GetItem(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("GetItem = (%q, %v, %v)", v, ok, err)
	}
}

func TestFailingStore(t *testing.T) {
	want := errors.New("boom")
	s := testutil.FailingStore{Err: want}
	if _, _, err := s.GetItem(context.Background(), "k"); !errors.Is(err, want) {
		t.Fatalf("GetItem err=%v", err)
	}
	if err := s.SetItem(context.Background(), "k", "v"); !errors.Is(err, want) {
		t.Fatalf("SetItem err=%v", err)
	}
}

func TestDescriptorServer(t *testing.T) {
	ds := testutil.NewDescriptorServer(t, "1.0.0")

	get := func() (int, string) {
		resp, err := http.Get(ds.DescriptorURL())
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		defer func() { _ = resp.Body.Close() }()
		b, _ := io.ReadAll(resp.Body)
		return resp.StatusCode, string(b)
	}

	status, body := get()
	if status != http.StatusOK || body != `{"version":"1.0.0","buildTime":"2025-01-01T00:00:00.000Z"}` {
		t.Fatalf("got (%d, %s)", status, body)
	}

	ds.SetStatus(http.StatusInternalServerError)
	if status, _ := get(); status != http.StatusInternalServerError {
		t.Fatalf("status=%d, want 500", status)
	}

	if ds.Requests() != 2 {
		t.Fatalf("Requests()=%d, want 2", ds.Requests())
	}
	if ds.LastRequest() == nil {
		t.Fatal("LastRequest() is nil")
	}
}

func TestRoundTripFunc(t *testing.T) {
	client := testutil.NewClient(func(req *http.Request) (*http.Response, error) {
		return testutil.TextResponse(req, http.StatusTeapot, "x"), nil
	})
	resp, err := client.Get("http://example.invalid/version.json")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusTeapot {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}
