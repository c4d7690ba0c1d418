package cache

import (
	"context"
	"errors"
	"net"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrUncacheable marks fetch errors that must never be stored as sticky
// failures, such as missing configuration. Wrap it alongside the cause.
var ErrUncacheable = errors.New("uncacheable failure")

// FetchFunc retrieves the response for a request from its origin.
type FetchFunc func(ctx context.Context, request string) ([]byte, error)

// FetchCache provides fetch-with-cache semantics over a Store. Entries are
// written once and never refreshed; removing the file is the only way to force
// a new fetch.
type FetchCache struct {
	Store *Store
	// Encoder derives keys from requests. Nil means EscapeEncoder.
	Encoder KeyEncoder
	// CacheFailures persists a failed fetch as an empty entry so later runs
	// return it without touching the network. Such failures are sticky until
	// the entry is removed.
	CacheFailures bool

	group singleflight.Group
}

// New returns a FetchCache over store.
func New(store *Store, enc KeyEncoder, cacheFailures bool) *FetchCache {
	return &FetchCache{Store: store, Encoder: enc, CacheFailures: cacheFailures}
}

// Key returns the cache key for request.
func (c *FetchCache) Key(request string) string {
	if c.Encoder == nil {
		return EscapeEncoder{}.Encode(request)
	}
	return c.Encoder.Encode(request)
}

// Lookup returns the cached body for request, if any.
func (c *FetchCache) Lookup(ctx context.Context, request string) ([]byte, bool, error) {
	return c.LookupByKey(ctx, c.Key(request))
}

// LookupByKey is Lookup for callers that already hold a key, such as a
// hashcode printed by an earlier run.
func (c *FetchCache) LookupByKey(ctx context.Context, key string) ([]byte, bool, error) {
	return c.Store.Get(ctx, key)
}

// Invalidate removes the entry for request so the next fetch goes to origin.
func (c *FetchCache) Invalidate(ctx context.Context, request string) error {
	return c.Store.Remove(ctx, c.Key(request))
}

// FetchWithCache returns the cached body for request, or calls fetch on a
// miss and stores its result before returning it. Concurrent callers asking
// for the same key share a single fetch.
//
// When fetch fails the error is returned. With CacheFailures set the failure
// is also stored as an empty entry, so a later call returns an empty body and
// no error. A failure to persist is logged and does not hide a good result.
func (c *FetchCache) FetchWithCache(ctx context.Context, request string, fetch FetchFunc) ([]byte, error) {
	key := c.Key(request)
	b, ok, err := c.LookupByKey(ctx, key)
	switch {
	case errors.Is(err, ErrInvalidKey):
		return nil, err
	case err != nil:
		// An unreadable entry, such as a name the filesystem cannot hold,
		// is treated as a miss.
		log.Warn().Err(err).Str("key", key).Str("dir", c.Store.Dir).Msg("cache lookup failed")
	case ok:
		log.Debug().Str("key", key).Str("dir", c.Store.Dir).Msg("cache hit")
		return b, nil
	}
	// Waiters share the first caller's fetch, including its context: when
	// that caller is canceled every waiter receives the cancellation error.
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another caller may have populated the entry while we waited.
		if b, ok, err := c.LookupByKey(ctx, key); err == nil && ok {
			return b, nil
		}
		return c.populate(ctx, key, request, fetch)
	})
	b, _ = v.([]byte)
	return b, err
}

func (c *FetchCache) populate(ctx context.Context, key, request string, fetch FetchFunc) ([]byte, error) {
	log.Debug().Str("key", key).Str("request", request).Msg("cache miss")
	body, ferr := fetch(ctx, request)
	if ferr != nil {
		if !c.CacheFailures || ctx.Err() != nil || transient(ferr) {
			return nil, ferr
		}
		body = []byte{}
		log.Warn().Err(ferr).Str("key", key).Msg("caching failed fetch as empty entry")
	}
	if err := c.Store.Put(ctx, key, body); err != nil {
		log.Warn().Err(err).Str("key", key).Str("dir", c.Store.Dir).Msg("cache persist failed")
	}
	if ferr != nil {
		return nil, ferr
	}
	return body, nil
}

// transient reports whether a fetch error must never be stored as a sticky
// failure: interruptions, timeouts and errors marked ErrUncacheable.
func transient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrUncacheable) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
