// Command fake-google-search replays search results from a pre-populated cache.
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
	err := cli.NewFakeGoogleSearchCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
