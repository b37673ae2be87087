// Package cmd holds the startup plumbing shared by the airfoil commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/louisbranch/airfoil/internal/platform/config"
	"github.com/louisbranch/airfoil/internal/platform/otel"
	"github.com/louisbranch/airfoil/internal/platform/timeouts"
)

// Command identifiers for startup telemetry and CLI naming consistency.
const (
	ServiceBernoulli = "bernoulli"
	ServicePlane     = "plane"
	ServiceRuns      = "runs"
)

// RunOptions controls shared entrypoint behavior for commands.
type RunOptions struct {
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
	// Logger receives telemetry shutdown failures. Defaults to the log package.
	Logger *log.Logger
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
// Flags must be registered against cfg fields after env parsing, so
// register is called between the two steps.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string, register func(*flag.FlagSet, *T)) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	if register != nil && fs != nil {
		register(fs, cfg)
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry configures observability and executes a command run.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions configures observability and executes a command run.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = timeouts.TelemetryShutdown
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			if options.Logger != nil {
				options.Logger.Printf("%s otel shutdown: %v", service, err)
			} else {
				log.Printf("%s otel shutdown: %v", service, err)
			}
		}
	}()
	return run(ctx)
}
