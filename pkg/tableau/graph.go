package tableau

import (
	"github.com/epitab/epitab/pkg/logic"
)

// NodeID identifies a node within one decision run. IDs come from a per-run
// monotonic counter; they carry no meaning across runs.
type NodeID int

// NodeKind distinguishes prestates from states.
type NodeKind int

const (
	// KindPrestate marks a raw formula set awaiting expansion.
	KindPrestate NodeKind = iota
	// KindState marks a fully expanded, non-contradictory formula set.
	KindState
)

func (k NodeKind) String() string {
	if k == KindPrestate {
		return "prestate"
	}
	return "state"
}

// Node is a prestate or state of the graph. Formula sets are frozen once
// the node is minted.
type Node struct {
	ID       NodeID
	Kind     NodeKind
	Formulas *logic.Set
}

// DashedEdge is a pure search edge from a prestate to one of the states its
// expansion produced.
type DashedEdge struct {
	From NodeID
	To   NodeID
}

// SolidEdge is a transition edge labeled by the diamond formula ¬D_A φ that
// demanded it. In the pretableau it runs state → prestate; after prestate
// elimination it runs state → state.
type SolidEdge struct {
	From  NodeID
	To    NodeID
	Label *logic.Formula
}

// Pretableau is the phase-1 graph: prestates and states connected by dashed
// search edges and solid transition edges.
type Pretableau struct {
	Prestates map[NodeID]*Node
	States    map[NodeID]*Node
	Dashed    []DashedEdge
	Solid     []SolidEdge
}

// NewPretableau returns an empty pretableau.
func NewPretableau() *Pretableau {
	return &Pretableau{
		Prestates: make(map[NodeID]*Node),
		States:    make(map[NodeID]*Node),
	}
}

// Tableau is a state-only graph: the initial tableau after prestate
// elimination, and the final tableau after state elimination.
type Tableau struct {
	States map[NodeID]*Node
	Edges  []SolidEdge
}

// NewTableau returns an empty tableau.
func NewTableau() *Tableau {
	return &Tableau{States: make(map[NodeID]*Node)}
}

// Clone returns an independent copy of t. Nodes are shared (they are
// frozen); the state map and edge list are fresh.
func (t *Tableau) Clone() *Tableau {
	out := &Tableau{
		States: make(map[NodeID]*Node, len(t.States)),
		Edges:  make([]SolidEdge, len(t.Edges)),
	}
	for id, n := range t.States {
		out.States[id] = n
	}
	copy(out.Edges, t.Edges)
	return out
}

// RemoveState deletes the state and prunes every edge touching it.
func (t *Tableau) RemoveState(id NodeID) {
	delete(t.States, id)
	kept := t.Edges[:0]
	for _, e := range t.Edges {
		if e.From == id || e.To == id {
			continue
		}
		kept = append(kept, e)
	}
	t.Edges = kept
}

// AnyStateContaining returns some state whose formula set holds the formula
// with the given key, or nil.
func (t *Tableau) AnyStateContaining(key string) *Node {
	for _, n := range t.States {
		if n.Formulas.ContainsKey(key) {
			return n
		}
	}
	return nil
}
