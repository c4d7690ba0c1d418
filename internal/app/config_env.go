package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides overrides cfg fields with environment variables when the
// corresponding variables are set. Env sits above the config file and below
// explicit flags.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	setStr := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(os.Getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}
	setStr(&cfg.PageCacheDir, "CACHE_DIR")
	setStr(&cfg.SearchCacheDir, "SEARCH_CACHE_DIR")
	setStr(&cfg.FakeSearchCacheDir, "FAKE_SEARCH_CACHE_DIR")
	setStr(&cfg.KeyEncoding, "KEY_ENCODING")
	setStr(&cfg.UserAgent, "USER_AGENT")
	setStr(&cfg.GoogleAPIKey, "GOOGLE_API_KEY")
	setStr(&cfg.GoogleCX, "GOOGLE_CX")
	// Support both SEARX_URL and SEARXNG_URL; prefer SEARX_URL if set
	setStr(&cfg.SearxURL, "SEARX_URL", "SEARXNG_URL")
	setStr(&cfg.SearxKey, "SEARX_KEY", "SEARXNG_KEY")

	setDur := func(dst *time.Duration, key string) {
		if s := strings.TrimSpace(os.Getenv(key)); s != "" {
			if d, err := time.ParseDuration(s); err == nil {
				*dst = d
			}
		}
	}
	setDur(&cfg.HTTPTimeout, "HTTP_TIMEOUT")
	setDur(&cfg.CacheMaxAge, "CACHE_MAX_AGE")

	if s := strings.TrimSpace(os.Getenv("MAX_BODY_BYTES")); s != "" {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil && n >= 0 {
			cfg.MaxBodyBytes = n
		}
	}

	// Booleans override when env present and truthy/falsey
	setBool := func(dst *bool, key string) {
		switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
		case "1", "true", "yes", "on":
			*dst = true
		case "0", "false", "no", "off":
			*dst = false
		}
	}
	setBool(&cfg.CacheFailures, "CACHE_FAILURES")
	setBool(&cfg.CacheStrictPerms, "CACHE_STRICT_PERMS")
	setBool(&cfg.CacheShard, "CACHE_SHARD")
	setBool(&cfg.Verbose, "VERBOSE")
}
