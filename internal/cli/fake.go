package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/webcache/internal/app"
)

type fakeSearchOptions struct {
	common commonFlags
}

// NewFakeGoogleSearchCmd returns the fake-google-search command. It answers
// from a pre-populated cache only and never touches the network.
func NewFakeGoogleSearchCmd() *cobra.Command {
	o := &fakeSearchOptions{}
	cmd := &cobra.Command{
		Use:   "fake-google-search QUERY...",
		Short: "Replay cached search results for a query.",
		Long: `fake-google-search prints the cached JSON results for the query formed by
joining all arguments with spaces, or an empty line when the query is not in
the cache. It is meant for reproducing runs against a frozen set of results.`,
		Version:      app.Version(),
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	o.common.register(cmd, "cache directory to replay (default \"fake-google-search.cache\")")
	return cmd
}

func (o *fakeSearchOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.common.loadConfig(cmd, func(c *app.Config) *string { return &c.FakeSearchCacheDir })
	if err != nil {
		return err
	}
	query := strings.Join(args, " ")
	b, ok, err := app.NewFakeSearcher(cfg).Lookup(cmd.Context(), query)
	if err != nil {
		// Unreadable entries replay as absent.
		log.Warn().Err(err).Str("query", query).Msg("cache lookup failed")
	}
	if !ok {
		log.Debug().Str("query", query).Msg("query not in cache")
		b = nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
