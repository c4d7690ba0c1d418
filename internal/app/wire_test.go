package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperifyio/webcache/internal/cache"
)

func testConfig(t *testing.T) Config {
	t.Helper()
	base := t.TempDir()
	cfg := Defaults()
	cfg.PageCacheDir = filepath.Join(base, "web.cache")
	cfg.SearchCacheDir = filepath.Join(base, "google.cache")
	cfg.FakeSearchCacheDir = filepath.Join(base, "fake.cache")
	return cfg
}

func TestOpenPageCache_KeyEncoding(t *testing.T) {
	cfg := testConfig(t)
	cfg.KeyEncoding = cache.EncodingSHA1
	fc, err := OpenPageCache(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := fc.Key("hello world"); got != "2aae6c35c94fcfb415dbe95f408b9ce91ee846ed" {
		t.Fatalf("key = %q", got)
	}
	if fc.Store.Ext != PageExt || fc.Store.Dir != cfg.PageCacheDir {
		t.Fatalf("unexpected store: %+v", fc.Store)
	}

	cfg.KeyEncoding = "rot13"
	if _, err := OpenPageCache(cfg); err == nil {
		t.Fatalf("expected error for unknown encoding")
	}
}

func TestOpenPageCache_PurgesExpired(t *testing.T) {
	cfg := testConfig(t)
	fc, err := OpenPageCache(cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	ctx := context.Background()
	if err := fc.Store.Put(ctx, "stale", []byte("x")); err != nil {
		t.Fatalf("put: %v", err)
	}
	past := time.Now().Add(-72 * time.Hour)
	if err := os.Chtimes(fc.Store.Path("stale"), past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	cfg.CacheMaxAge = 24 * time.Hour
	if _, err := OpenPageCache(cfg); err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if _, ok, _ := fc.LookupByKey(ctx, "stale"); ok {
		t.Fatalf("expected stale entry purged on open")
	}
}

func TestNewSearcher_WithoutProviderServesCache(t *testing.T) {
	cfg := testConfig(t)
	s, err := NewSearcher(cfg)
	if err != nil {
		t.Fatalf("new searcher: %v", err)
	}
	if s.Provider != nil {
		t.Fatalf("expected no provider, got %v", s.Provider.Name())
	}
	ctx := context.Background()
	if err := s.Cache.Store.Put(ctx, "hello+world", []byte(`[{"link":"https://a","title":"A"}]`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := s.Search(ctx, "hello world")
	if err != nil || len(got) != 1 || got[0].Link != "https://a" {
		t.Fatalf("cached search: %+v err=%v", got, err)
	}
}

func TestNewSearcher_PicksConfiguredProvider(t *testing.T) {
	cfg := testConfig(t)
	cfg.SearxURL = "http://searx.invalid"
	s, err := NewSearcher(cfg)
	if err != nil {
		t.Fatalf("new searcher: %v", err)
	}
	if s.Provider == nil || s.Provider.Name() != "searxng" {
		t.Fatalf("expected searxng provider")
	}
	cfg.GoogleAPIKey, cfg.GoogleCX = "k", "cx"
	s, err = NewSearcher(cfg)
	if err != nil || s.Provider.Name() != "google" {
		t.Fatalf("expected google provider, err=%v", err)
	}
}

func TestNewFakeSearcher_UsesFakeDir(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheMaxAge = time.Hour
	if err := os.MkdirAll(cfg.FakeSearchCacheDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	p := filepath.Join(cfg.FakeSearchCacheDir, "old+query.json")
	if err := os.WriteFile(p, []byte("[]"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	past := time.Now().Add(-100 * time.Hour)
	if err := os.Chtimes(p, past, past); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	s := NewFakeSearcher(cfg)
	b, ok, err := s.Lookup(context.Background(), "old query")
	if err != nil || !ok || string(b) != "[]" {
		t.Fatalf("fake lookup: %q ok=%v err=%v", b, ok, err)
	}
}

func TestNewFetchClient(t *testing.T) {
	cfg := testConfig(t)
	cfg.UserAgent = "ua"
	cfg.RedirectMaxHops = 3
	c := NewFetchClient(cfg)
	if c.UserAgent != "ua" || c.RedirectMaxHops != 3 || c.PerRequestTimeout != cfg.HTTPTimeout {
		t.Fatalf("unexpected client: %+v", c)
	}
}
