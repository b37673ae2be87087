// Package runs parses run-history command configuration and prints
// recorded model runs.
package runs

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/louisbranch/airfoil/internal/lift"
	entrypoint "github.com/louisbranch/airfoil/internal/platform/cmd"
	"github.com/louisbranch/airfoil/internal/storage"
	"github.com/louisbranch/airfoil/internal/storage/backend"
)

// Config holds run-history command configuration.
type Config struct {
	DBPath string `env:"DB_PATH" envDefault:"airfoil.db"`
	Limit  int    `env:"RUNS_LIMIT" envDefault:"20"`
	ID     string
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "database file holding recorded runs (.bolt for BoltDB, otherwise SQLite)")
	fs.IntVar(&cfg.Limit, "limit", cfg.Limit, "maximum number of runs to list")
	fs.StringVar(&cfg.ID, "id", cfg.ID, "show one run in detail")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run lists recorded runs, or prints one run when cfg.ID is set.
func Run(ctx context.Context, cfg Config, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return errors.New("db path is required")
	}
	logger := log.New(errOut, "", 0)
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceRuns, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		store, err := backend.Open(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open run store: %w", err)
		}
		defer store.Close()

		if id := strings.TrimSpace(cfg.ID); id != "" {
			return showRun(ctx, store, id, out)
		}
		return listRuns(ctx, store, cfg.Limit, out)
	})
}

func listRuns(ctx context.Context, store storage.RunStore, limit int, out io.Writer) error {
	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMODEL\tCREATED\tSAMPLES\tTREND\tP(INCREASING)")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%.1f%%\n",
			run.ID, run.Model, run.CreatedAt.Format(time.RFC3339), run.SampleSize, run.Trend, 100*run.ProbIncreasing)
	}
	return tw.Flush()
}

func showRun(ctx context.Context, store storage.RunStore, id string, out io.Writer) error {
	run, err := store.GetRun(ctx, id)
	if err != nil {
		return fmt.Errorf("get run %s: %w", id, err)
	}
	title := run.Model
	if model, err := lift.ParseModel(run.Model); err == nil {
		title = model.Title()
	}
	fmt.Fprintln(out, title)
	fmt.Fprintf(out, "run %s recorded %s, seed = %d, samples = %d\n",
		run.ID, run.CreatedAt.Format(time.RFC3339), run.Seed, run.SampleSize)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "QUANTITY\tUNIT\tMEAN\tSTDDEV\tP05\tP50\tP95")
	for _, q := range run.Quantities {
		fmt.Fprintf(tw, "%s\t%s\t%.4g\t%.4g\t%.4g\t%.4g\t%.4g\n", q.Symbol, q.Unit, q.Mean, q.StdDev, q.P05, q.P50, q.P95)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s (P(increasing) = %.1f%%)\n", lift.ParseTrend(run.Trend), 100*run.ProbIncreasing)
	return nil
}
