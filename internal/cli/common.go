// Package cli holds the cobra commands behind the get-webpage, google-search
// and fake-google-search binaries.
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hyperifyio/webcache/internal/app"
)

// commonFlags are shared by every command. Values only override the
// configuration when the flag was set explicitly.
type commonFlags struct {
	configFile    string
	envFiles      []string
	cacheDir      string
	cacheFailures bool
	userAgent     string
	timeout       time.Duration
	verbose       bool
}

func (f *commonFlags) register(cmd *cobra.Command, dirUsage string) {
	fs := cmd.Flags()
	fs.StringVar(&f.configFile, "config", "", "YAML or JSON config file")
	fs.StringArrayVar(&f.envFiles, "env-file", []string{".env"}, "dotenv file to load (repeatable; missing files are skipped)")
	fs.StringVarP(&f.cacheDir, "cache-directory", "d", "", dirUsage)
	fs.BoolVar(&f.cacheFailures, "cache-failures", true, "store failed fetches as empty entries so they are not retried")
	fs.StringVar(&f.userAgent, "user-agent", "", "User-Agent for outgoing requests")
	fs.DurationVar(&f.timeout, "timeout", 0, "per-request timeout (e.g. 30s)")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "verbose logging")
}

// loadConfig resolves the configuration with precedence
// flags > environment > config file > defaults, and sets up logging.
// dir points at the Config field that --cache-directory controls.
func (f *commonFlags) loadConfig(cmd *cobra.Command, dir func(*app.Config) *string) (app.Config, error) {
	if err := app.LoadEnvFiles(f.envFiles...); err != nil {
		return app.Config{}, fmt.Errorf("load env files: %w", err)
	}
	cfg := app.Defaults()
	if f.configFile != "" {
		fc, err := app.LoadConfigFile(f.configFile)
		if err != nil {
			return app.Config{}, fmt.Errorf("load config: %w", err)
		}
		app.ApplyFileConfig(&cfg, fc)
	}
	app.ApplyEnvOverrides(&cfg)

	changed := cmd.Flags().Changed
	if changed("cache-directory") && dir != nil {
		*dir(&cfg) = f.cacheDir
	}
	if changed("cache-failures") {
		cfg.CacheFailures = f.cacheFailures
	}
	if changed("user-agent") {
		cfg.UserAgent = f.userAgent
	}
	if changed("timeout") {
		cfg.HTTPTimeout = f.timeout
	}
	if changed("verbose") {
		cfg.Verbose = f.verbose
	}

	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	app.SetupLogging(cmd.ErrOrStderr(), cfg.Verbose)
	return cfg, nil
}
