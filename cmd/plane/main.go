// Package main evaluates lift force with the lift equation and an empirical lift coefficient.
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

	if err := liftcmd.Run(ctx, cfg, lift.ModelLiftEquation, os.Stdout, os.Stderr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
