package uncertain

import (
	"fmt"
	"log"
	"math/rand"
	"sync"
)

const (
	// DefaultSampleSize is the canonical number of Monte Carlo samples.
	DefaultSampleSize = 10000
	// DefaultSeed seeds engines built without WithSeed.
	DefaultSeed int64 = 1
	// DefaultSkipWarnThreshold is the skipped-pair fraction above which a
	// degraded-precision warning is logged.
	DefaultSkipWarnThreshold = 0.01
)

// Option configures an Engine.
type Option func(*Engine)

// WithSampleSize sets the canonical sample size S.
func WithSampleSize(n int) Option {
	return func(e *Engine) { e.size = n }
}

// WithSeed sets the seed of the engine's seed source.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.seed = seed }
}

// WithSkipWarnThreshold sets the skipped-pair fraction that triggers a warning.
func WithSkipWarnThreshold(fraction float64) Option {
	return func(e *Engine) { e.skipWarn = fraction }
}

// WithLogger routes skip warnings to logger instead of the log package.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// Engine builds uncertain values that share a sample size and a seed source.
//
// Every Gaussian or uniform value created through an engine receives its own
// seed, drawn from the engine's source at construction time. Materializing a value always
// yields the same samples, and two engines with the same seed produce
// identical values when the same constructors and operators are called in
// the same order.
//
// An Engine is safe for concurrent use; values are immutable.
type Engine struct {
	size     int
	seed     int64
	skipWarn float64
	logger   *log.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewEngine returns an engine configured by opts.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		size:     DefaultSampleSize,
		seed:     DefaultSeed,
		skipWarn: DefaultSkipWarnThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.size <= 0 {
		return nil, invalidParameter(fmt.Sprintf("sample size must be positive, got %d", e.size))
	}
	if e.skipWarn < 0 || e.skipWarn > 1 {
		return nil, invalidParameter("skip warning threshold must be within [0, 1]", e.skipWarn)
	}
	e.rng = rand.New(rand.NewSource(e.seed))
	return e, nil
}

var defaultEngine = mustEngine()

func mustEngine() *Engine {
	e, err := NewEngine()
	if err != nil {
		// Unreachable: the defaults are valid.
		panic(err)
	}
	return e
}

// Default returns the engine used by the package-level constructors.
func Default() *Engine {
	return defaultEngine
}

// SampleSize returns the canonical sample size S.
func (e *Engine) SampleSize() int {
	return e.size
}

// Seed returns the seed the engine was built with.
func (e *Engine) Seed() int64 {
	return e.seed
}

func (e *Engine) nextSeed() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Int63()
}

// resampleSeed seeds the index map used to resample empirical values of
// size n. Every value of that size shares it.
func (e *Engine) resampleSeed(n int) int64 {
	return e.seed ^ int64(n)*0x5DEECE66D
}

func (e *Engine) warnf(format string, args ...any) {
	if e.logger != nil {
		e.logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}
