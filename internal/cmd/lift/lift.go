// Package lift parses model command configuration and prints one lift
// evaluation.
package lift

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/louisbranch/airfoil/internal/lift"
	entrypoint "github.com/louisbranch/airfoil/internal/platform/cmd"
	"github.com/louisbranch/airfoil/internal/platform/i18n/catalog"
	"github.com/louisbranch/airfoil/internal/random"
	"github.com/louisbranch/airfoil/internal/uncertain"
	"golang.org/x/text/language"
)

// Config holds model command configuration.
type Config struct {
	Samples       int     `env:"SAMPLES"        envDefault:"10000"`
	Seed          int64   `env:"SEED"`
	SkipWarn      float64 `env:"SKIP_WARN"      envDefault:"0.01"`
	DBPath        string  `env:"DB_PATH"`
	Locale        string  `env:"LOCALE"         envDefault:"en"`
	HistogramBins int     `env:"HISTOGRAM_BINS"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfigFromArgs(&cfg, fs, args, registerFlags); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func registerFlags(fs *flag.FlagSet, cfg *Config) {
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "canonical sample count for sampled operations")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed for reproducibility (0 = random)")
	fs.Float64Var(&cfg.SkipWarn, "skip-warn", cfg.SkipWarn, "skipped-pair fraction above which a warning is logged")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "record the run in this database file (.bolt for BoltDB, otherwise SQLite)")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "locale used for report text and numbers")
	fs.IntVar(&cfg.HistogramBins, "histogram", cfg.HistogramBins, "print a histogram of the adjusted lift with N bins")
}

// Run evaluates model and writes the report to out. Warnings go to errOut.
func Run(ctx context.Context, cfg Config, model lift.Model, out io.Writer, errOut io.Writer) error {
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	service, err := serviceName(model)
	if err != nil {
		return err
	}
	logger := log.New(errOut, "", 0)
	return entrypoint.RunWithTelemetryAndOptions(ctx, service, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		return run(ctx, cfg, model, out, logger)
	})
}

func run(ctx context.Context, cfg Config, model lift.Model, out io.Writer, logger *log.Logger) error {
	if cfg.HistogramBins < 0 {
		return errors.New("histogram bins must not be negative")
	}
	tag, err := language.Parse(strings.TrimSpace(cfg.Locale))
	if err != nil {
		return fmt.Errorf("parse locale %q: %w", cfg.Locale, err)
	}
	seed, err := random.ResolveSeed(cfg.Seed)
	if err != nil {
		return err
	}
	engine, err := uncertain.NewEngine(
		uncertain.WithSampleSize(cfg.Samples),
		uncertain.WithSeed(seed),
		uncertain.WithSkipWarnThreshold(cfg.SkipWarn),
		uncertain.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("configure engine: %w", err)
	}

	res, err := lift.Evaluate(ctx, engine, model)
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", model, err)
	}

	bundle := catalog.Default()
	r := newReporter(bundle, bundle.Printer(tag), out)
	r.writeReport(res, engine)
	if cfg.HistogramBins > 0 {
		if err := r.writeHistogram(res.Adjusted, cfg.HistogramBins); err != nil {
			return err
		}
	}
	if strings.TrimSpace(cfg.DBPath) != "" {
		runID, err := record(ctx, cfg.DBPath, res, engine)
		if err != nil {
			return err
		}
		r.line("report.recorded", runID)
	}
	return nil
}

func serviceName(model lift.Model) (string, error) {
	switch model {
	case lift.ModelBernoulli:
		return entrypoint.ServiceBernoulli, nil
	case lift.ModelLiftEquation:
		return entrypoint.ServicePlane, nil
	default:
		return "", fmt.Errorf("unknown model %q", model)
	}
}
