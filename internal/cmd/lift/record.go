package lift

import (
	"context"
	"fmt"
	"time"

	"github.com/louisbranch/airfoil/internal/lift"
	"github.com/louisbranch/airfoil/internal/platform/id"
	"github.com/louisbranch/airfoil/internal/storage"
	"github.com/louisbranch/airfoil/internal/storage/backend"
	"github.com/louisbranch/airfoil/internal/uncertain"
)

var openRunStore = backend.Open

// record stores res in the run store at path and returns the new run ID.
// A failed close is reported since it can lose the write.
func record(ctx context.Context, path string, res lift.Result, engine *uncertain.Engine) (runID string, err error) {
	run, err := newRun(res, engine, time.Now())
	if err != nil {
		return "", err
	}
	store, err := openRunStore(path)
	if err != nil {
		return "", fmt.Errorf("open run store: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil && err == nil {
			runID, err = "", fmt.Errorf("close run store: %w", closeErr)
		}
	}()

	if err := store.PutRun(ctx, run); err != nil {
		return "", fmt.Errorf("record run: %w", err)
	}
	return run.ID, nil
}

// newRun summarizes res into a storable run.
func newRun(res lift.Result, engine *uncertain.Engine, now time.Time) (storage.Run, error) {
	runID, err := id.NewID()
	if err != nil {
		return storage.Run{}, err
	}
	run := storage.Run{
		ID:             runID,
		Model:          string(res.Model),
		Seed:           engine.Seed(),
		SampleSize:     engine.SampleSize(),
		Trend:          res.Trend.Key(),
		ProbIncreasing: res.ProbIncreasing,
		CreatedAt:      now.UTC(),
	}
	quantities := make([]lift.Quantity, 0, len(res.Inputs)+len(res.Outputs))
	quantities = append(quantities, res.Inputs...)
	quantities = append(quantities, res.Outputs...)
	for _, q := range quantities {
		s := q.Value.Summary()
		run.Quantities = append(run.Quantities, storage.QuantityStat{
			Symbol: q.Symbol,
			Unit:   q.Unit,
			Mean:   s.Mean,
			StdDev: s.StdDev,
			P05:    s.P05,
			P50:    s.P50,
			P95:    s.P95,
		})
	}
	return run, nil
}
