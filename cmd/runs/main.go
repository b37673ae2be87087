// Package main lists and shows recorded lift model runs.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	runscmd "github.com/louisbranch/airfoil/internal/cmd/runs"
	"github.com/louisbranch/airfoil/internal/platform/config"
)

func main() {
	cfg, err := runscmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runscmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
