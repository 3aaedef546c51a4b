package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/menta2k/image-synth/internal/cli"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(Version, GitCommit, BuildTime)
	if err := cli.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
