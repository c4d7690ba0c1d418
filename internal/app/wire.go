package app

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/webcache/internal/cache"
	"github.com/hyperifyio/webcache/internal/fetch"
	"github.com/hyperifyio/webcache/internal/search"
)

// File extensions per namespace.
const (
	PageExt   = ".body"
	SearchExt = ".json"
)

func (c Config) store(dir, ext string) *cache.Store {
	return &cache.Store{Dir: dir, Ext: ext, StrictPerms: c.CacheStrictPerms, Shard: c.CacheShard}
}

func purge(s *cache.Store, maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}
	n, err := s.PurgeOlderThan(maxAge)
	if err != nil {
		log.Warn().Err(err).Str("dir", s.Dir).Msg("cache purge failed")
		return
	}
	if n > 0 {
		log.Info().Int("removed", n).Str("dir", s.Dir).Dur("maxAge", maxAge).Msg("purged expired cache entries")
	}
}

// OpenPageCache returns the web page cache described by cfg.
func OpenPageCache(cfg Config) (*cache.FetchCache, error) {
	enc, err := cache.NewKeyEncoder(cfg.KeyEncoding)
	if err != nil {
		return nil, err
	}
	s := cfg.store(cfg.PageCacheDir, PageExt)
	purge(s, cfg.CacheMaxAge)
	return cache.New(s, enc, cfg.CacheFailures), nil
}

// OpenSearchCache returns a search result cache rooted at dir. Search caches
// are always keyed by the escaped query text.
func OpenSearchCache(cfg Config, dir string) *cache.FetchCache {
	s := cfg.store(dir, SearchExt)
	purge(s, cfg.CacheMaxAge)
	return cache.New(s, cache.EscapeEncoder{}, cfg.CacheFailures)
}

// NewFetchClient returns the page fetcher described by cfg.
func NewFetchClient(cfg Config) *fetch.Client {
	return &fetch.Client{
		HTTPClient:        newHTTPClient(cfg),
		UserAgent:         cfg.UserAgent,
		PerRequestTimeout: cfg.HTTPTimeout,
		RedirectMaxHops:   cfg.RedirectMaxHops,
		MaxBodyBytes:      cfg.MaxBodyBytes,
	}
}

// NewSearcher returns a cache-backed searcher using the provider cfg selects.
// Without a configured provider only cached queries can be answered.
func NewSearcher(cfg Config) (*search.Cached, error) {
	p, err := search.NewProvider(search.Options{
		Google:     search.GoogleConfig{APIKey: cfg.GoogleAPIKey, CX: cfg.GoogleCX},
		SearxURL:   cfg.SearxURL,
		SearxKey:   cfg.SearxKey,
		UserAgent:  cfg.UserAgent,
		HTTPClient: newHTTPClient(cfg),
	})
	if err != nil && !errors.Is(err, search.ErrNoProvider) {
		return nil, err
	}
	if p == nil {
		log.Debug().Msg("no search provider configured; serving cached results only")
	}
	return &search.Cached{Cache: OpenSearchCache(cfg, cfg.SearchCacheDir), Provider: p}, nil
}

// NewFakeSearcher returns a read-only view of the pre-populated search cache.
// It is never purged.
func NewFakeSearcher(cfg Config) *search.Cached {
	s := cfg.store(cfg.FakeSearchCacheDir, SearchExt)
	return &search.Cached{Cache: cache.New(s, cache.EscapeEncoder{}, false)}
}
