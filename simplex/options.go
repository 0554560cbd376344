package simplex

import "q.log/boundsimplex/basis"

const (
	DefaultFeasibilityTolerance = 1e-7
	DefaultOptimalityTolerance  = 1e-7
	DefaultBlandAfter           = 50

	// default iteration limit per variable
	iterationsPerVar = 20
)

type Options struct {
	//PivotTolerance smallest pivot magnitude accepted
	PivotTolerance float64

	//FeasibilityTolerance allowed bound violation of a basic variable
	FeasibilityTolerance float64

	//OptimalityTolerance reduced costs below it are not improving
	OptimalityTolerance float64

	//RefactorEvery pivots between refactorizations of the basis
	RefactorEvery int

	//BlandAfter consecutive degenerate pivots before switching to Bland's rule
	BlandAfter int

	//IterationLimit zero means 20*(rows+columns)
	IterationLimit int

	Logger  Logger
	Verbose bool
}

type Option func(*Options)

func DefaultOptions() Options {
	return Options{
		PivotTolerance:       basis.DefaultPivotTolerance,
		FeasibilityTolerance: DefaultFeasibilityTolerance,
		OptimalityTolerance:  DefaultOptimalityTolerance,
		RefactorEvery:        basis.DefaultRefactorEvery,
		BlandAfter:           DefaultBlandAfter,
		Logger:               noopLogger{},
	}
}

func WithPivotTolerance(tol float64) Option {
	return func(o *Options) {
		o.PivotTolerance = tol
	}
}

func WithFeasibilityTolerance(tol float64) Option {
	return func(o *Options) {
		o.FeasibilityTolerance = tol
	}
}

func WithOptimalityTolerance(tol float64) Option {
	return func(o *Options) {
		o.OptimalityTolerance = tol
	}
}

func WithRefactorEvery(k int) Option {
	return func(o *Options) {
		o.RefactorEvery = k
	}
}

func WithBlandAfter(n int) Option {
	return func(o *Options) {
		o.BlandAfter = n
	}
}

func WithIterationLimit(n int) Option {
	return func(o *Options) {
		o.IterationLimit = n
	}
}

// WithLogger sends diagnostics to logger, a nil logger silences them
func WithLogger(logger Logger) Option {
	return func(o *Options) {
		if logger == nil {
			logger = noopLogger{}
		}
		o.Logger = logger
	}
}

// WithVerbose enables a trace line per iteration on the logger
func WithVerbose(verbose bool) Option {
	return func(o *Options) {
		o.Verbose = verbose
	}
}

func (o Options) basis() basis.Options {
	return basis.Options{
		PivotTolerance: o.PivotTolerance,
		RefactorEvery:  o.RefactorEvery,
	}
}

func (o Options) iterationLimit(vars int) int {
	if o.IterationLimit > 0 {
		return o.IterationLimit
	}
	return iterationsPerVar * vars
}
