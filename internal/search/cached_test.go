package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperifyio/webcache/internal/cache"
)

type stubProvider struct {
	calls   int
	results []Result
	err     error
}

func (s *stubProvider) Name() string { return "stub" }

func (s *stubProvider) Search(context.Context, string) ([]Result, error) {
	s.calls++
	return s.results, s.err
}

func newCached(t *testing.T, p Provider) *Cached {
	t.Helper()
	return &Cached{
		Cache:    cache.New(&cache.Store{Dir: t.TempDir(), Ext: ".json"}, nil, true),
		Provider: p,
	}
}

func TestCached_SearchPopulatesJSONEntry(t *testing.T) {
	p := &stubProvider{results: []Result{{Link: "https://a.example/?x=1&y=2", Title: "A <b>"}}}
	c := newCached(t, p)
	ctx := context.Background()

	got, err := c.Search(ctx, "hello world")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0] != p.results[0] {
		t.Fatalf("unexpected results: %+v", got)
	}
	raw, err := os.ReadFile(filepath.Join(c.Cache.Store.Dir, "hello+world.json"))
	if err != nil {
		t.Fatalf("expected cache file: %v", err)
	}
	want := `[{"link":"https://a.example/?x=1&y=2","title":"A <b>"}]`
	if string(raw) != want {
		t.Fatalf("cache file = %s, want %s", raw, want)
	}

	if _, err := c.Search(ctx, "hello world"); err != nil {
		t.Fatalf("second search: %v", err)
	}
	if p.calls != 1 {
		t.Fatalf("provider called %d times, want 1", p.calls)
	}
}

func TestCached_ProviderFailureYieldsEmptyList(t *testing.T) {
	p := &stubProvider{err: errors.New("unreachable")}
	c := newCached(t, p)
	ctx := context.Background()

	got, err := c.Search(ctx, "q")
	if err == nil {
		t.Fatalf("expected error")
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", got)
	}
	// Sticky: the failure is now a cached empty entry.
	got, err = c.Search(ctx, "q")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected cached empty list, got %+v err=%v", got, err)
	}
	if p.calls != 1 {
		t.Fatalf("provider called %d times, want 1", p.calls)
	}
}

func TestCached_URLQueryShortCircuits(t *testing.T) {
	p := &stubProvider{}
	c := newCached(t, p)
	got, err := c.Search(context.Background(), "http://example.com/page")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Link != "http://example.com/page" {
		t.Fatalf("unexpected results: %+v", got)
	}
	if p.calls != 0 {
		t.Fatalf("provider must not be called for a URL query")
	}
}

func TestCached_LookupNeverFetches(t *testing.T) {
	p := &stubProvider{results: []Result{{Link: "x", Title: "y"}}}
	c := newCached(t, p)
	_, ok, err := c.Lookup(context.Background(), "absent")
	if err != nil || ok {
		t.Fatalf("expected miss, ok=%v err=%v", ok, err)
	}
	if p.calls != 0 {
		t.Fatalf("lookup must not call the provider")
	}
}

func TestCached_NoProvider(t *testing.T) {
	c := newCached(t, nil)
	if _, err := c.Search(context.Background(), "q"); !errors.Is(err, ErrNoProvider) {
		t.Fatalf("expected ErrNoProvider, got %v", err)
	}
	if _, ok, _ := c.Lookup(context.Background(), "q"); ok {
		t.Fatalf("missing provider must not leave a cached entry")
	}
}

func TestEncodeDecode(t *testing.T) {
	b, err := Encode(nil)
	if err != nil || string(b) != "[]" {
		t.Fatalf("Encode(nil) = %s err=%v", b, err)
	}
	got, err := Decode([]byte("  \n"))
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("Decode(blank) = %#v err=%v", got, err)
	}
	got, err = Decode([]byte("null"))
	if err != nil || got == nil {
		t.Fatalf("Decode(null) = %#v err=%v", got, err)
	}
	if _, err := Decode([]byte("{not json")); err == nil {
		t.Fatalf("expected decode error")
	}
}
