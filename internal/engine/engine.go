package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/epitab/epitab/internal/propa"
	"github.com/epitab/epitab/pkg/logic"
	"github.com/epitab/epitab/pkg/tableau"
)

// ErrCanceled is returned when the context ends before a verdict is
// reached. Cancellation never masquerades as a verdict.
var ErrCanceled = errors.New("cancelled before a verdict could be reached")

// Options configures one decision run.
type Options struct {
	Expand ExpandOptions

	// Precheck runs the propositional abstraction before building the
	// tableau; when it refutes the input, the result carries empty graphs.
	Precheck bool

	// Limits are defensive caps, disabled at zero.
	StateLimit    int
	PrestateLimit int
	EdgeLimit     int

	Tracer tableau.Tracer
}

// Decide runs the full three-phase procedure on input and aggregates the
// artifacts. The input is satisfiable iff a state of the final tableau
// contains it.
func Decide(ctx context.Context, input *logic.Formula, opts Options) (*tableau.Result, error) {
	if input == nil {
		panic(&logic.InvariantError{Reason: "decide requires a non-nil formula"})
	}
	if opts.Tracer == nil {
		opts.Tracer = tableau.DefaultTracer{}
	}

	res := &tableau.Result{RunID: uuid.New(), Input: input}

	if opts.Precheck {
		unsat, err := propa.Unsatisfiable(input)
		if err != nil {
			return nil, fmt.Errorf("propositional precheck: %w", err)
		}
		if unsat {
			res.Pretableau = tableau.NewPretableau()
			res.InitialTableau = tableau.NewTableau()
			res.FinalTableau = tableau.NewTableau()
			stage(opts.Tracer, tableau.StageVerdict)
			return res, nil
		}
	}

	stage(opts.Tracer, tableau.StageConstruction)
	b := newBuilder(opts)
	if err := b.construct(ctx, input); err != nil {
		return nil, fmt.Errorf("pretableau construction: %w", err)
	}
	res.Pretableau = b.pre

	stage(opts.Tracer, tableau.StagePrestateElim)
	res.InitialTableau = prestateElim(b.pre)

	stage(opts.Tracer, tableau.StageStateElim)
	final, trace, err := stateElim(ctx, res.InitialTableau)
	if err != nil {
		return nil, fmt.Errorf("state elimination: %w", err)
	}
	res.FinalTableau = final
	res.Trace = trace

	stage(opts.Tracer, tableau.StageVerdict)
	res.Satisfiable = final.AnyStateContaining(input.Key()) != nil
	res.Stats = stats(res)
	return res, nil
}

func stats(res *tableau.Result) tableau.Stats {
	s := tableau.Stats{
		Prestates:   len(res.Pretableau.Prestates),
		States:      len(res.Pretableau.States),
		DashedEdges: len(res.Pretableau.Dashed),
		SolidEdges:  len(res.Pretableau.Solid),
		FinalStates: len(res.FinalTableau.States),
	}
	for _, rec := range res.Trace {
		switch rec.Rule {
		case tableau.RuleE1:
			s.E1Removals++
		case tableau.RuleE2:
			s.E2Removals++
		}
	}
	return s
}

// stage notifies the tracer, swallowing any panic: observation must not
// propagate into the core.
func stage(t tableau.Tracer, s tableau.Stage) {
	defer func() {
		_ = recover()
	}()
	t.Stage(s)
}
