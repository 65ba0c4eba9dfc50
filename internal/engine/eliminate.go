package engine

import (
	"context"
	"sort"

	"github.com/epitab/epitab/pkg/logic"
	"github.com/epitab/epitab/pkg/tableau"
)

// prestateElim applies rule PR: every solid edge Δ →χ Γ is rerouted to each
// state Γ expanded into, prestates and dashed edges are discarded. A barren
// prestate contributes no edges, leaving its predecessors without that
// successor for E1 to judge.
func prestateElim(pre *tableau.Pretableau) *tableau.Tableau {
	t := tableau.NewTableau()
	for id, n := range pre.States {
		t.States[id] = n
	}
	expansion := make(map[tableau.NodeID][]tableau.NodeID, len(pre.Prestates))
	for _, de := range pre.Dashed {
		expansion[de.From] = append(expansion[de.From], de.To)
	}
	for _, se := range pre.Solid {
		for _, st := range expansion[se.To] {
			t.Edges = append(t.Edges, tableau.SolidEdge{From: se.From, To: st, Label: se.Label})
		}
	}
	return t
}

// eliminator runs phase 3 over a mutable copy of the initial tableau,
// recording every removal.
type eliminator struct {
	t     *tableau.Tableau
	trace []tableau.EliminationRecord
}

// stateElim dovetails rules E1 and E2: E1 to fixpoint, then per eventuality
// (in canonical key order) E2 followed by E1 to fixpoint, repeating the
// full pass until a pass removes nothing.
func stateElim(ctx context.Context, initial *tableau.Tableau) (*tableau.Tableau, []tableau.EliminationRecord, error) {
	e := &eliminator{t: initial.Clone()}
	evs := eventualities(initial)
	e.e1Fixpoint()
	for {
		select {
		case <-ctx.Done():
			return nil, nil, ErrCanceled
		default:
		}
		before := len(e.trace)
		for _, ev := range evs {
			e.applyE2(ev)
			e.e1Fixpoint()
		}
		if len(e.trace) == before {
			return e.t, e.trace, nil
		}
	}
}

// eventualities collects every ¬C_A φ occurring in some state, ordered by
// canonical key so elimination order is reproducible.
func eventualities(t *tableau.Tableau) []*logic.Formula {
	byKey := make(map[string]*logic.Formula)
	for _, id := range sortedStateIDs(t) {
		for _, f := range t.States[id].Formulas.Formulas() {
			if logic.IsEventuality(f) {
				byKey[f.Key()] = f
			}
		}
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*logic.Formula, len(keys))
	for i, k := range keys {
		out[i] = byKey[k]
	}
	return out
}

func sortedStateIDs(t *tableau.Tableau) []tableau.NodeID {
	ids := make([]tableau.NodeID, 0, len(t.States))
	for id := range t.States {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// e1Fixpoint applies rule E1 until stable: a state with a diamond that has
// no surviving successor edge is removed.
func (e *eliminator) e1Fixpoint() {
	for {
		changed := false
		for _, id := range sortedStateIDs(e.t) {
			n := e.t.States[id]
			for _, f := range n.Formulas.Formulas() {
				if !logic.IsDiamond(f) {
					continue
				}
				if !e.hasSuccessor(id, f) {
					e.remove(id, tableau.RuleE1, f)
					changed = true
					break
				}
			}
		}
		if !changed {
			return
		}
	}
}

func (e *eliminator) hasSuccessor(from tableau.NodeID, diamond *logic.Formula) bool {
	key := diamond.Key()
	for _, edge := range e.t.Edges {
		if edge.From != from || edge.Label.Key() != key {
			continue
		}
		if _, ok := e.t.States[edge.To]; ok {
			return true
		}
	}
	return false
}

// applyE2 realizes one eventuality ζ = ¬C_A φ. States holding ¬φ are marked
// outright; marking then flows backwards along edges labeled ¬D_B ψ with
// B ∩ A ≠ ∅ into states holding ζ, to fixpoint. Unmarked states holding ζ
// cannot realize it and are removed.
func (e *eliminator) applyE2(ev *logic.Formula) {
	coalition := ev.Sub().Coalition()
	negPhiKey := logic.Not(ev.Sub().Sub()).Key()
	evKey := ev.Key()

	marked := make(map[tableau.NodeID]struct{})
	for id, n := range e.t.States {
		if n.Formulas.ContainsKey(negPhiKey) {
			marked[id] = struct{}{}
		}
	}

	for {
		changed := false
		for _, edge := range e.t.Edges {
			if _, ok := marked[edge.From]; ok {
				continue
			}
			if _, ok := marked[edge.To]; !ok {
				continue
			}
			from, ok := e.t.States[edge.From]
			if !ok || !from.Formulas.ContainsKey(evKey) {
				continue
			}
			if edge.Label.Sub().Coalition().Intersects(coalition) {
				marked[edge.From] = struct{}{}
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for _, id := range sortedStateIDs(e.t) {
		if _, ok := marked[id]; ok {
			continue
		}
		if e.t.States[id].Formulas.ContainsKey(evKey) {
			e.remove(id, tableau.RuleE2, ev)
		}
	}
}

func (e *eliminator) remove(id tableau.NodeID, rule tableau.Rule, f *logic.Formula) {
	e.trace = append(e.trace, tableau.EliminationRecord{
		StateID:  id,
		Rule:     rule,
		Formula:  f,
		Snapshot: e.t.States[id].Formulas.Clone(),
	})
	e.t.RemoveState(id)
}
