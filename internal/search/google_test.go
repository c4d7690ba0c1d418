package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGoogle_Search_ParsesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("key") != "k" || q.Get("cx") != "c" || q.Get("q") != "go cache" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"kind": "customsearch#search",
			"items": [
				{"title": " Go ", "link": "https://go.dev/", "snippet": "x"},
				{"title": "no link"},
				{"title": "Cache", "link": "https://example.com/cache"}
			]
		}`))
	}))
	defer srv.Close()

	g := &Google{Config: GoogleConfig{APIKey: "k", CX: "c", Endpoint: srv.URL}}
	got, err := g.Search(context.Background(), "go cache")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	want := []Result{{Link: "https://go.dev/", Title: "Go"}, {Link: "https://example.com/cache", Title: "Cache"}}
	if len(got) != len(want) {
		t.Fatalf("got %d results, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("result %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestGoogle_Search_NoItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"kind": "customsearch#search"}`))
	}))
	defer srv.Close()

	g := &Google{Config: GoogleConfig{APIKey: "k", CX: "c", Endpoint: srv.URL}}
	got, err := g.Search(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %d", len(got))
	}
}

func TestGoogle_Search_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "quota exceeded"}}`))
	}))
	defer srv.Close()

	g := &Google{Config: GoogleConfig{APIKey: "k", CX: "c", Endpoint: srv.URL}}
	_, err := g.Search(context.Background(), "q")
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("expected API error message, got %v", err)
	}
}

func TestNewProvider_Selection(t *testing.T) {
	p, err := NewProvider(Options{Google: GoogleConfig{APIKey: "k", CX: "c"}, SearxURL: "http://searx"})
	if err != nil || p.Name() != "google" {
		t.Fatalf("expected google provider, got %v err=%v", p, err)
	}
	p, err = NewProvider(Options{Google: GoogleConfig{APIKey: "k"}, SearxURL: "http://searx"})
	if err != nil || p.Name() != "searxng" {
		t.Fatalf("expected searxng fallback, got %v err=%v", p, err)
	}
	if _, err := NewProvider(Options{}); err != ErrNoProvider {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
}
