package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/webcache/internal/cache"
)

// Cached serves search results through a FetchCache. Each entry holds the
// JSON array of results for one query text.
type Cached struct {
	Cache    *cache.FetchCache
	Provider Provider
}

// IsURL reports whether query is a bare page URL rather than search text.
func IsURL(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	return strings.HasPrefix(q, "http://") || strings.HasPrefix(q, "https://")
}

// Search returns the results for query, fetching them from the provider on a
// cache miss. A URL query yields a single result for that URL. When the
// provider fails, an empty list is returned together with the error.
func (c *Cached) Search(ctx context.Context, query string) ([]Result, error) {
	if IsURL(query) {
		return []Result{{Link: strings.TrimSpace(query)}}, nil
	}
	body, err := c.Cache.FetchWithCache(ctx, query, c.fetch)
	if err != nil {
		return []Result{}, err
	}
	return Decode(body)
}

// Lookup returns the raw cached JSON for query without ever calling the
// provider.
func (c *Cached) Lookup(ctx context.Context, query string) ([]byte, bool, error) {
	return c.Cache.Lookup(ctx, query)
}

func (c *Cached) fetch(ctx context.Context, query string) ([]byte, error) {
	if c.Provider == nil {
		return nil, fmt.Errorf("%w: %w", cache.ErrUncacheable, ErrNoProvider)
	}
	results, err := c.Provider.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("provider", c.Provider.Name()).Str("query", query).Int("results", len(results)).Msg("search")
	return Encode(results)
}

// Encode renders results as a compact JSON array. A nil slice encodes as [].
func Encode(results []Result) ([]byte, error) {
	if results == nil {
		results = []Result{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Decode parses a cached entry. An empty entry, such as a cached failure,
// decodes to an empty list.
func Decode(b []byte) ([]Result, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return []Result{}, nil
	}
	var out []Result
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("decode cached results: %w", err)
	}
	if out == nil {
		out = []Result{}
	}
	return out, nil
}
