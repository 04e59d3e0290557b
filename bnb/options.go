package bnb

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// DefaultEps is the default integrality and gap tolerance.
const DefaultEps = 1e-3

// Options configures a branch-and-bound run.
//
// Eps          – integrality tolerance and gap tolerance (default 1e-3, must be > 0).
// MaxNodes     – stop after processing this many nodes (0 = unlimited).
// TimeLimit    – stop once this much wall time has elapsed (0 = unlimited).
// InitialLower – global lower bound before any incumbent exists (default 0).
// BoundPruning – also prune fractional nodes whose relaxation cannot beat the incumbent.
// Logger       – structured logger; nil means zap.NewNop().
// Observer     – optional hook receiving search events.
type Options struct {
	Eps          float64
	MaxNodes     int
	TimeLimit    time.Duration
	InitialLower float64
	BoundPruning bool
	Logger       *zap.Logger
	Observer     Observer
}

// Option represents a functional option for configuring Solve.
type Option func(*Options)

// WithEps sets the integrality/gap tolerance.
func WithEps(eps float64) Option {
	return func(o *Options) { o.Eps = eps }
}

// WithMaxNodes caps the number of processed nodes (0 = unlimited).
func WithMaxNodes(n int) Option {
	return func(o *Options) { o.MaxNodes = n }
}

// WithTimeLimit caps the wall time of the search (0 = unlimited).
func WithTimeLimit(d time.Duration) Option {
	return func(o *Options) { o.TimeLimit = d }
}

// WithInitialLower sets the lower bound used before any incumbent exists.
func WithInitialLower(lb float64) Option {
	return func(o *Options) { o.InitialLower = lb }
}

// WithBoundPruning enables pruning of nodes whose relaxation objective does
// not exceed the incumbent by more than Eps.
func WithBoundPruning() Option {
	return func(o *Options) { o.BoundPruning = true }
}

// WithLogger attaches a zap logger. Per-node decisions are logged at Debug.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithObserver attaches an event hook.
func WithObserver(obs Observer) Option {
	return func(o *Options) { o.Observer = obs }
}

// DefaultOptions returns the defaults: Eps=1e-3, no limits, InitialLower=0,
// no bound pruning, no-op logger, no observer.
func DefaultOptions() Options {
	return Options{
		Eps:          DefaultEps,
		InitialLower: 0,
		Logger:       zap.NewNop(),
	}
}

// validate checks option consistency and fills the logger default.
func (o *Options) validate() error {
	if math.IsNaN(o.Eps) || o.Eps <= 0 || math.IsInf(o.Eps, 0) {
		return ErrBadOptions
	}
	if o.MaxNodes < 0 || o.TimeLimit < 0 {
		return ErrBadOptions
	}
	if math.IsNaN(o.InitialLower) {
		return ErrBadOptions
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	return nil
}
