// Package epitab decides satisfiability of multiagent epistemic formulas
// with common knowledge C_A and distributed knowledge D_A over arbitrary
// coalitions. The decision procedure is a three-phase tableau: pretableau
// construction (rules SR and DR), prestate elimination (PR), and state
// elimination (E1 and E2 with eventuality realization), driven by a
// fixpoint expansion engine with an analytic cut rule restricted by
// coalition side-conditions.
//
// Formulas come from package logic; results are the graph artifacts of
// package tableau, suitable for external rendering. The procedure is
// deterministic, single-threaded, and performs no I/O.
package epitab

import (
	"context"

	"github.com/epitab/epitab/internal/engine"
	"github.com/epitab/epitab/pkg/logic"
	"github.com/epitab/epitab/pkg/tableau"
)

// ErrCanceled is returned by Decide when the context ends before a verdict
// is reached.
var ErrCanceled = engine.ErrCanceled

// Solver runs the decision procedure under a fixed set of options. The
// zero-configuration solver uses restricted cuts, no precheck, no limits
// and a silent tracer.
type Solver struct {
	opts engine.Options
}

// Option configures a Solver.
type Option func(s *Solver) error

// New returns a Solver with the given options applied over the defaults.
func New(options ...Option) (*Solver, error) {
	s := &Solver{
		opts: engine.Options{
			Expand: engine.ExpandOptions{Cuts: true, RestrictedCuts: true},
		},
	}
	for _, option := range append(options, defaults...) {
		if err := option(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

var defaults = []Option{
	func(s *Solver) error {
		if s.opts.Tracer == nil {
			s.opts.Tracer = tableau.DefaultTracer{}
		}
		return nil
	},
}

// WithCuts toggles the analytic cut rule. Disabling cuts loses
// completeness: unsatisfiable inputs may fail to close.
func WithCuts(enabled bool) Option {
	return func(s *Solver) error {
		s.opts.Expand.Cuts = enabled
		return nil
	}
}

// WithRestrictedCuts toggles the coalition side-conditions on cuts.
// Restricted and unrestricted cuts agree on the verdict; restriction only
// contains the graph size.
func WithRestrictedCuts(enabled bool) Option {
	return func(s *Solver) error {
		s.opts.Expand.RestrictedCuts = enabled
		return nil
	}
}

// WithTracer installs a progress observer.
func WithTracer(t tableau.Tracer) Option {
	return func(s *Solver) error {
		s.opts.Tracer = t
		return nil
	}
}

// WithPropositionalPrecheck enables the SAT abstraction precheck. When it
// refutes the input, Decide returns an unsatisfiable result with empty
// graphs and an empty trace.
func WithPropositionalPrecheck() Option {
	return func(s *Solver) error {
		s.opts.Precheck = true
		return nil
	}
}

// WithStateLimit caps states and prestates; exceeding the cap returns a
// *tableau.LimitError.
func WithStateLimit(n int) Option {
	return func(s *Solver) error {
		s.opts.StateLimit = n
		s.opts.PrestateLimit = n
		return nil
	}
}

// WithEdgeLimit caps the total number of edges; exceeding the cap returns
// a *tableau.LimitError.
func WithEdgeLimit(n int) Option {
	return func(s *Solver) error {
		s.opts.EdgeLimit = n
		return nil
	}
}

// Decide runs the full pipeline on f.
func (s *Solver) Decide(ctx context.Context, f *logic.Formula) (*tableau.Result, error) {
	return engine.Decide(ctx, f, s.opts)
}

// Expand saturates a formula set into its family of fully expanded sets
// under the solver's cut options.
func (s *Solver) Expand(set *logic.Set) []*logic.Set {
	return engine.Expand(set, s.opts.Expand)
}

// Decide is the package-level convenience: decide f under the given
// options.
func Decide(ctx context.Context, f *logic.Formula, options ...Option) (*tableau.Result, error) {
	s, err := New(options...)
	if err != nil {
		return nil, err
	}
	return s.Decide(ctx, f)
}

// Expand saturates set under the given options.
func Expand(set *logic.Set, options ...Option) ([]*logic.Set, error) {
	s, err := New(options...)
	if err != nil {
		return nil, err
	}
	return s.Expand(set), nil
}

// Valid reports whether f holds in every model: f is valid iff ¬f is
// unsatisfiable.
func Valid(ctx context.Context, f *logic.Formula, options ...Option) (bool, error) {
	res, err := Decide(ctx, logic.Not(f), options...)
	if err != nil {
		return false, err
	}
	return !res.Satisfiable, nil
}
