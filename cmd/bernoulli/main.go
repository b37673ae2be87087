// Package main evaluates lift force from the pressure difference across an airfoil.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	liftcmd "github.com/louisbranch/airfoil/internal/cmd/lift"
	"github.com/louisbranch/airfoil/internal/lift"
	"github.com/louisbranch/airfoil/internal/platform/config"
)

func main() {
	cfg, err := liftcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := liftcmd.Run(ctx, cfg, lift.ModelBernoulli, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
