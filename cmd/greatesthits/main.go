// Command greatesthits generates the Greatest Hits musicL playlist from the
// hand-maintained source playlists.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ChadFarrow/greatesthits/internal/cmd"
	"github.com/ChadFarrow/greatesthits/internal/errors"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cmd.Execute(ctx)
	stop()

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	if errors.IsFatal(err) {
		os.Exit(1)
	}
}
