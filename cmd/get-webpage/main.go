// Command get-webpage prints a web page, caching it on disk by URL.
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
	err := cli.NewGetWebpageCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
