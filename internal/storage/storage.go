// Package storage defines persistence contracts for recorded model runs.
package storage

import (
	"context"
	"time"

	apperrors "github.com/louisbranch/airfoil/internal/platform/errors"
)

var (
	// ErrNotFound indicates a requested run is missing.
	ErrNotFound = apperrors.New(apperrors.CodeNotFound, "run not found")
	// ErrAlreadyExists indicates a run with the same ID was already recorded.
	ErrAlreadyExists = apperrors.New(apperrors.CodeAlreadyExists, "run already exists")
)

// QuantityStat is the summary of one quantity at the time a run was recorded.
type QuantityStat struct {
	Symbol string
	Unit   string
	Mean   float64
	StdDev float64
	P05    float64
	P50    float64
	P95    float64
}

// Run is one recorded model evaluation.
type Run struct {
	ID             string
	Model          string
	Seed           int64
	SampleSize     int
	Trend          string
	ProbIncreasing float64
	// Quantities keep the report order: inputs first, then outputs.
	Quantities []QuantityStat
	CreatedAt  time.Time
}

// RunStore persists model runs.
type RunStore interface {
	PutRun(ctx context.Context, run Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)
}
