package tableau

import (
	"github.com/google/uuid"

	"github.com/epitab/epitab/pkg/logic"
)

// Rule names a state-elimination rule in the trace.
type Rule string

const (
	// RuleE1 removes a state with an unsatisfied diamond.
	RuleE1 Rule = "E1"
	// RuleE2 removes a state with an unrealizable eventuality.
	RuleE2 Rule = "E2"
)

// EliminationRecord documents one state removal during phase 3: the state,
// the rule, the formula that triggered it, and a snapshot of the state's
// formulas for diagnostic rendering.
type EliminationRecord struct {
	StateID  NodeID
	Rule     Rule
	Formula  *logic.Formula
	Snapshot *logic.Set
}

// Stats summarizes graph cardinalities and elimination activity of one run.
type Stats struct {
	Prestates   int
	States      int
	DashedEdges int
	SolidEdges  int
	E1Removals  int
	E2Removals  int
	FinalStates int
}

// Result bundles the artifacts of one decision run. The graphs are owned by
// the result and must be treated as frozen; the trace preserves removal
// order. RunID is per-call metadata; everything else is a deterministic
// function of the input and options.
type Result struct {
	RunID          uuid.UUID
	Satisfiable    bool
	Input          *logic.Formula
	Pretableau     *Pretableau
	InitialTableau *Tableau
	FinalTableau   *Tableau
	Trace          []EliminationRecord
	Stats          Stats
}
