package search

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const defaultGoogleEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleConfig holds Custom Search credentials. It is passed explicitly to
// the provider; nothing reads keys from package state.
type GoogleConfig struct {
	APIKey string
	CX     string
	// Endpoint overrides the API URL (tests, proxies).
	Endpoint string
}

// Enabled reports whether both credentials are present.
func (c GoogleConfig) Enabled() bool {
	return strings.TrimSpace(c.APIKey) != "" && strings.TrimSpace(c.CX) != ""
}

// Google implements Provider with the Custom Search JSON API. Only the first
// page of results is requested.
type Google struct {
	Config     GoogleConfig
	HTTPClient *http.Client
	UserAgent  string
}

func (g *Google) Name() string { return "google" }

func (g *Google) Search(ctx context.Context, query string) ([]Result, error) {
	if !g.Config.Enabled() {
		return nil, fmt.Errorf("google custom search requires an API key and CX")
	}
	endpoint := g.Config.Endpoint
	if endpoint == "" {
		endpoint = defaultGoogleEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("key", g.Config.APIKey)
	q.Set("cx", g.Config.CX)
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	if g.UserAgent != "" {
		req.Header.Set("User-Agent", g.UserAgent)
	}
	hc := g.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg := gjson.GetBytes(b, "error.message").String(); msg != "" {
			return nil, fmt.Errorf("google status %d: %s", resp.StatusCode, msg)
		}
		return nil, fmt.Errorf("google status: %d", resp.StatusCode)
	}
	if !gjson.ValidBytes(b) {
		return nil, fmt.Errorf("google: invalid JSON response")
	}
	items := gjson.GetBytes(b, "items").Array()
	out := make([]Result, 0, len(items))
	for _, it := range items {
		link := strings.TrimSpace(it.Get("link").String())
		if link == "" {
			continue
		}
		out = append(out, Result{Link: link, Title: strings.TrimSpace(it.Get("title").String())})
	}
	return out, nil
}
