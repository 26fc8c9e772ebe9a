package client

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/banter-app/banter-cli/pkg/session"
)

func fakeProvider(id session.Identity) Provider {
	return ProviderFunc(func() session.Identity { return id })
}

// TestIdentityHeaderInjection verifies every request carries identity headers
func TestIdentityHeaderInjection(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g := New(server.URL, 5*time.Second, fakeProvider(session.Identity{
		UserID:   "user-42",
		Token:    "tok-abc",
		DeviceID: "dev-7",
	}))

	if _, err := g.JSON().R().Get("/anything"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if got.Get("X-User-ID") != "user-42" {
		t.Errorf("Expected X-User-ID user-42, got %q", got.Get("X-User-ID"))
	}
	if got.Get("Authorization") != "Bearer tok-abc" {
		t.Errorf("Expected bearer token, got %q", got.Get("Authorization"))
	}
	if got.Get("X-Device-ID") != "dev-7" {
		t.Errorf("Expected X-Device-ID dev-7, got %q", got.Get("X-Device-ID"))
	}
}

// TestMultipartClientSharesInjection verifies both instances inject identically
func TestMultipartClientSharesInjection(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g := New(server.URL, 5*time.Second, fakeProvider(session.Identity{
		UserID: "user-42",
		Token:  "tok-abc",
	}))

	if _, err := g.Multipart().R().
		SetFileReader("media", "story.png", strings.NewReader("png-bytes")).
		Post("/upload-story"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if got.Get("X-User-ID") != "user-42" {
		t.Errorf("Multipart client missing X-User-ID, got %q", got.Get("X-User-ID"))
	}
	if got.Get("Authorization") != "Bearer tok-abc" {
		t.Errorf("Multipart client missing Authorization, got %q", got.Get("Authorization"))
	}
}

// TestAnonymousIdentitySkipsHeaders leaves headers off rather than empty
func TestAnonymousIdentitySkipsHeaders(t *testing.T) {
	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	g := New(server.URL, 5*time.Second, fakeProvider(session.Identity{}))

	if _, err := g.JSON().R().Post("/send-otp"); err != nil {
		t.Fatalf("Request failed: %v", err)
	}

	if _, present := got["X-User-Id"]; present {
		t.Error("Anonymous request should not carry X-User-ID")
	}
	if _, present := got["Authorization"]; present {
		t.Error("Anonymous request should not carry Authorization")
	}
}

// TestErrorsPropagateUnchanged verifies the gateway adds no error handling
func TestErrorsPropagateUnchanged(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := New(server.URL, 5*time.Second, fakeProvider(session.Identity{}))

	resp, err := g.JSON().R().Get("/boom")
	if err != nil {
		t.Fatalf("Transport error not expected here: %v", err)
	}
	if resp.StatusCode() != http.StatusInternalServerError {
		t.Errorf("Expected 500 to reach the caller, got %d", resp.StatusCode())
	}
}
