// Command rawline decodes records of STEP/IFC files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	root := newRootCmd(os.Stdin)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		FormatError(os.Stderr, err, ShouldUseColor(noColorFlag(root)))
		os.Exit(1)
	}
}
