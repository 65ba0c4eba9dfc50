package tableau

import (
	"fmt"
	"io"
)

// Stage tags a phase of the decision pipeline as it begins.
type Stage string

const (
	StageConstruction Stage = "construction"
	StagePrestateElim Stage = "prestate-elim"
	StageStateElim    Stage = "state-elim"
	StageVerdict      Stage = "verdict"
)

// Tracer observes pipeline progress. Implementations should be cheap; the
// engine suppresses panics from tracers so observation can never corrupt a
// run.
type Tracer interface {
	Stage(s Stage)
}

// DefaultTracer observes nothing.
type DefaultTracer struct{}

func (DefaultTracer) Stage(_ Stage) {
}

// LoggingTracer writes one line per stage to Writer.
type LoggingTracer struct {
	Writer io.Writer
}

func (t LoggingTracer) Stage(s Stage) {
	fmt.Fprintf(t.Writer, "stage: %s\n", s)
}
