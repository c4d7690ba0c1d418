package search

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Result is a single search hit. It serializes as {"link": ..., "title": ...}.
type Result struct {
	Link  string `json:"link"`
	Title string `json:"title"`
}

// Provider is a minimal interface for search providers.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
	Name() string
}

// ErrNoProvider is returned when neither Google credentials nor a SearxNG
// instance are configured.
var ErrNoProvider = errors.New("no search provider configured")

// Options selects and configures a provider.
type Options struct {
	Google     GoogleConfig
	SearxURL   string
	SearxKey   string
	UserAgent  string
	HTTPClient *http.Client
}

// NewProvider prefers Google Custom Search when both an API key and a CX are
// set, and falls back to an unauthenticated SearxNG instance otherwise.
func NewProvider(opts Options) (Provider, error) {
	if opts.Google.Enabled() {
		return &Google{Config: opts.Google, HTTPClient: opts.HTTPClient, UserAgent: opts.UserAgent}, nil
	}
	if strings.TrimSpace(opts.SearxURL) != "" {
		return &SearxNG{BaseURL: opts.SearxURL, APIKey: opts.SearxKey, HTTPClient: opts.HTTPClient, UserAgent: opts.UserAgent}, nil
	}
	return nil, ErrNoProvider
}
