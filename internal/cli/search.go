package cli

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/webcache/internal/app"
	"github.com/hyperifyio/webcache/internal/search"
)

type searchOptions struct {
	common  commonFlags
	refresh bool
}

// NewGoogleSearchCmd returns the google-search command.
func NewGoogleSearchCmd() *cobra.Command {
	o := &searchOptions{}
	cmd := &cobra.Command{
		Use:   "google-search QUERY...",
		Short: "Print first-page search results as JSON, cached per query.",
		Long: `google-search prints a JSON array of {"link", "title"} objects for the
query formed by joining all arguments with spaces. Google Custom Search is
used when GOOGLE_API_KEY and GOOGLE_CX are configured, otherwise the SearxNG
instance at SEARX_URL. Results are cached per query text; a failed search
prints [].`,
		Version:      app.Version(),
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	o.common.register(cmd, "search cache directory (default \"google.cache\")")
	cmd.Flags().BoolVar(&o.refresh, "refresh", false, "drop the cached results and search again")
	return cmd
}

func (o *searchOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.common.loadConfig(cmd, func(c *app.Config) *string { return &c.SearchCacheDir })
	if err != nil {
		return err
	}
	s, err := app.NewSearcher(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	query := strings.Join(args, " ")
	if o.refresh && !search.IsURL(query) {
		if err := s.Cache.Invalidate(ctx, query); err != nil {
			return err
		}
	}
	results, err := s.Search(ctx, query)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("search failed")
	}
	b, err := search.Encode(results)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return nil
}
