package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hyperifyio/webcache/internal/app"
	"github.com/hyperifyio/webcache/internal/cache"
)

// errorSentinel is printed when no page body is available.
const errorSentinel = "ERROR"

type webpageOptions struct {
	common      commonFlags
	hashcode    string
	keyEncoding string
	refresh     bool
	printKey    bool
	stats       bool
}

// NewGetWebpageCmd returns the get-webpage command.
func NewGetWebpageCmd() *cobra.Command {
	o := &webpageOptions{}
	cmd := &cobra.Command{
		Use:   "get-webpage [-d DIR] [-H HASH] URL",
		Short: "Print a web page, from the local cache when possible.",
		Long: `get-webpage prints the body of a web page to standard output. Pages are
cached on disk the first time they are fetched and served from the cache on
every later run. With -H the page is read from the cache by its key and the
network is never used. ERROR is printed when no body is available.`,
		Version:      app.Version(),
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	o.common.register(cmd, "page cache directory (default \"web.cache\")")
	fs := cmd.Flags()
	fs.StringVarP(&o.hashcode, "hashcode", "H", "", "read the page stored under this key instead of fetching a URL")
	fs.StringVar(&o.keyEncoding, "key-encoding", "", "page key scheme: escape, sha1, sha256 or blake3")
	fs.BoolVar(&o.refresh, "refresh", false, "drop the cached entry and fetch again")
	fs.BoolVar(&o.printKey, "key", false, "print the cache key for URL and exit")
	fs.BoolVar(&o.stats, "stats", false, "print page cache statistics and exit")
	return cmd
}

func (o *webpageOptions) run(cmd *cobra.Command, args []string) error {
	cfg, err := o.common.loadConfig(cmd, func(c *app.Config) *string { return &c.PageCacheDir })
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("key-encoding") {
		cfg.KeyEncoding = o.keyEncoding
	}
	fc, err := app.OpenPageCache(cfg)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if o.stats {
		st, err := fc.Store.Stats()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "dir: %s\nentries: %d\nsize: %s\n", fc.Store.Dir, st.Entries, humanize.Bytes(uint64(st.Bytes)))
		return nil
	}

	if o.hashcode != "" {
		body, ok, err := fc.LookupByKey(ctx, o.hashcode)
		if err != nil {
			if !errors.Is(err, cache.ErrInvalidKey) {
				return err
			}
			log.Error().Err(err).Msg("lookup by hashcode")
		}
		if !ok {
			log.Debug().Str("key", o.hashcode).Msg("no cached page for hashcode")
		}
		printBody(out, body)
		return nil
	}

	if len(args) == 0 {
		return errors.New("a URL or --hashcode is required")
	}
	url := args[0]
	if o.printKey {
		fmt.Fprintln(out, fc.Key(url))
		return nil
	}
	if o.refresh {
		if err := fc.Invalidate(ctx, url); err != nil {
			return err
		}
	}

	client := app.NewFetchClient(cfg)
	body, err := fc.FetchWithCache(ctx, url, client.Fetch)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("fetch failed")
	} else {
		log.Debug().Str("url", url).Str("key", fc.Key(url)).Str("size", humanize.Bytes(uint64(len(body)))).Msg("page ready")
	}
	printBody(out, body)
	return nil
}

func printBody(w io.Writer, body []byte) {
	if len(body) == 0 {
		fmt.Fprintln(w, errorSentinel)
		return
	}
	fmt.Fprintln(w, string(body))
}
