package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig represents the single-file configuration schema.
// Nested sections map naturally to flags and env.
type FileConfig struct {
	Cache struct {
		PageDir       string   `yaml:"pageDir" json:"pageDir"`
		SearchDir     string   `yaml:"searchDir" json:"searchDir"`
		FakeSearchDir string   `yaml:"fakeSearchDir" json:"fakeSearchDir"`
		KeyEncoding   string   `yaml:"keyEncoding" json:"keyEncoding"`
		Failures      *bool    `yaml:"failures" json:"failures"`
		StrictPerms   bool     `yaml:"strictPerms" json:"strictPerms"`
		Shard         bool     `yaml:"shard" json:"shard"`
		MaxAge        Duration `yaml:"maxAge" json:"maxAge"`
	} `yaml:"cache" json:"cache"`

	HTTP struct {
		UserAgent       string   `yaml:"userAgent" json:"userAgent"`
		Timeout         Duration `yaml:"timeout" json:"timeout"`
		RedirectMaxHops int      `yaml:"redirectMaxHops" json:"redirectMaxHops"`
		MaxBodyBytes    int64    `yaml:"maxBodyBytes" json:"maxBodyBytes"`
	} `yaml:"http" json:"http"`

	Google struct {
		APIKey string `yaml:"key" json:"key"`
		CX     string `yaml:"cx" json:"cx"`
	} `yaml:"google" json:"google"`

	Searx struct {
		URL string `yaml:"url" json:"url"`
		Key string `yaml:"key" json:"key"`
	} `yaml:"searx" json:"searx"`

	Verbose bool `yaml:"verbose" json:"verbose"`
}

// Duration is a time.Duration written as a string such as "30s" or "24h" in
// both YAML and JSON config files. Plain integers are read as nanoseconds.
type Duration time.Duration

func parseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Duration(n), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, err
	}
	return Duration(d), nil
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		var n int64
		if nerr := json.Unmarshal(b, &n); nerr != nil {
			return fmt.Errorf("invalid duration %s", b)
		}
		*d = Duration(n)
		return nil
	}
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// UnmarshalYAML accepts the same forms as UnmarshalJSON.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := parseDuration(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("parse json: %w", err)
		}
	default:
		// Try YAML then JSON
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays every value set in fc onto cfg. It runs before env
// and flags, so those keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	setStr := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setStr(&cfg.PageCacheDir, fc.Cache.PageDir)
	setStr(&cfg.SearchCacheDir, fc.Cache.SearchDir)
	setStr(&cfg.FakeSearchCacheDir, fc.Cache.FakeSearchDir)
	setStr(&cfg.KeyEncoding, fc.Cache.KeyEncoding)
	if fc.Cache.Failures != nil {
		cfg.CacheFailures = *fc.Cache.Failures
	}
	if fc.Cache.StrictPerms {
		cfg.CacheStrictPerms = true
	}
	if fc.Cache.Shard {
		cfg.CacheShard = true
	}
	if fc.Cache.MaxAge > 0 {
		cfg.CacheMaxAge = time.Duration(fc.Cache.MaxAge)
	}

	setStr(&cfg.UserAgent, fc.HTTP.UserAgent)
	if fc.HTTP.Timeout > 0 {
		cfg.HTTPTimeout = time.Duration(fc.HTTP.Timeout)
	}
	if fc.HTTP.RedirectMaxHops > 0 {
		cfg.RedirectMaxHops = fc.HTTP.RedirectMaxHops
	}
	if fc.HTTP.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = fc.HTTP.MaxBodyBytes
	}

	setStr(&cfg.GoogleAPIKey, fc.Google.APIKey)
	setStr(&cfg.GoogleCX, fc.Google.CX)
	setStr(&cfg.SearxURL, fc.Searx.URL)
	setStr(&cfg.SearxKey, fc.Searx.Key)

	if fc.Verbose {
		cfg.Verbose = true
	}
}
