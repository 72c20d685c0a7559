// Command nsi checks and canonicalizes name suggestion index dataset files.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/1-Byte/name-suggestion-index/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand().ExecuteContext(ctx)
	stop()
	os.Exit(cli.GetExitCode(err))
}
