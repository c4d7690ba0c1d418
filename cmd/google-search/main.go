// Command google-search prints search results as JSON, caching them on disk by query.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hyperifyio/webcache/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewGoogleSearchCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
