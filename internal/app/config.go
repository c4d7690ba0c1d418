package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/hyperifyio/webcache/internal/cache"
)

// Defaults. The cache directory names match the ones older tooling created
// so existing caches keep working.
const (
	DefaultPageCacheDir       = "web.cache"
	DefaultSearchCacheDir     = "google.cache"
	DefaultFakeSearchCacheDir = "fake-google-search.cache"
	DefaultUserAgent          = "webcache/1.0 (+https://github.com/hyperifyio/webcache)"
	DefaultHTTPTimeout        = 30 * time.Second
)

// Config holds runtime configuration for the command-line tools. It is
// built once per invocation and passed explicitly to constructors.
type Config struct {
	// Cache locations, one directory per namespace.
	PageCacheDir       string
	SearchCacheDir     string
	FakeSearchCacheDir string

	// KeyEncoding selects the page cache key scheme: escape, sha1, sha256 or
	// blake3. Search caches are always keyed by the escaped query text.
	KeyEncoding      string
	CacheFailures    bool
	CacheStrictPerms bool
	CacheShard       bool
	// CacheMaxAge purges older entries before a run; 0 disables.
	CacheMaxAge time.Duration

	// HTTP
	UserAgent       string
	HTTPTimeout     time.Duration
	RedirectMaxHops int
	MaxBodyBytes    int64

	// Search
	GoogleAPIKey string
	GoogleCX     string
	SearxURL     string
	SearxKey     string

	Verbose bool
}

// Defaults returns a Config with every field at its default.
func Defaults() Config {
	return Config{
		PageCacheDir:       DefaultPageCacheDir,
		SearchCacheDir:     DefaultSearchCacheDir,
		FakeSearchCacheDir: DefaultFakeSearchCacheDir,
		KeyEncoding:        cache.EncodingEscape,
		CacheFailures:      true,
		UserAgent:          DefaultUserAgent,
		HTTPTimeout:        DefaultHTTPTimeout,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if _, err := cache.NewKeyEncoder(c.KeyEncoding); err != nil {
		return err
	}
	for name, dir := range map[string]string{
		"page cache dir":        c.PageCacheDir,
		"search cache dir":      c.SearchCacheDir,
		"fake search cache dir": c.FakeSearchCacheDir,
	} {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("%s is empty", name)
		}
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("http timeout must not be negative: %s", c.HTTPTimeout)
	}
	if c.CacheMaxAge < 0 {
		return fmt.Errorf("cache max age must not be negative: %s", c.CacheMaxAge)
	}
	if c.MaxBodyBytes < 0 {
		return fmt.Errorf("max body bytes must not be negative: %d", c.MaxBodyBytes)
	}
	return nil
}
