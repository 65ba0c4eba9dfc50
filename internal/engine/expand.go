// Package engine implements the tableau decision procedure: fixpoint
// expansion of formula sets, the three-phase graph construction, and result
// aggregation.
package engine

import (
	"github.com/epitab/epitab/pkg/logic"
)

// ExpandOptions selects the analytic cut behavior of the expansion engine.
type ExpandOptions struct {
	// Cuts enables the analytic cut rule. Completeness of the decision
	// procedure requires it.
	Cuts bool
	// RestrictedCuts limits cuts by the coalition side-conditions
	// C11/C12/C21/C22, containing blow-up without losing completeness.
	RestrictedCuts bool
}

// Expand saturates gamma into the family of fully expanded,
// non-contradictory sets reachable by the alpha, beta, special ¬C and cut
// rules. A patently inconsistent gamma yields nil. The family is
// deduplicated by canonical set key and ordered deterministically.
func Expand(gamma *logic.Set, opts ExpandOptions) []*logic.Set {
	if logic.PatentlyInconsistent(gamma) {
		return nil
	}
	e := &expander{
		opts:      opts,
		rule3Seen: make(map[rule3Site]struct{}),
		visited:   make(map[string]struct{}),
		outSeen:   make(map[string]struct{}),
	}
	for _, f := range gamma.Formulas() {
		if logic.IsEventuality(f) {
			e.seedEventualities = append(e.seedEventualities, f)
		}
	}
	e.pending = []*logic.Set{gamma.Clone()}
	e.run()
	return e.out
}

// rule3Site memoizes one application of the special ¬C rule, keyed by the
// set and formula it fired on. Without the memo the rule re-fires on its
// own output and never terminates.
type rule3Site struct {
	setKey     string
	formulaKey string
}

type expander struct {
	opts              ExpandOptions
	seedEventualities []*logic.Formula

	pending   []*logic.Set
	visited   map[string]struct{}
	rule3Seen map[rule3Site]struct{}

	out     []*logic.Set
	outSeen map[string]struct{}
}

func (e *expander) run() {
	for len(e.pending) > 0 {
		d := e.pending[0]
		e.pending = e.pending[1:]
		if logic.PatentlyInconsistent(d) {
			continue
		}
		k := d.Key()
		if _, ok := e.visited[k]; ok {
			continue
		}
		e.visited[k] = struct{}{}
		e.saturate(d)
	}
}

// saturate drives one set to a rule application. Alpha rewrites in place
// and retries; beta and cut branch, replacing the set; the special ¬C rule
// adds siblings and keeps going. A set no rule touches is fully expanded
// and joins the output family.
func (e *expander) saturate(d *logic.Set) {
	for {
		if logic.PatentlyInconsistent(d) {
			return
		}
		if e.applyAlpha(d) {
			continue
		}
		if branches := e.applyBeta(d); branches != nil {
			e.pending = append(e.pending, branches...)
			return
		}
		if e.applyRule3(d) {
			continue
		}
		if branches := e.applyCut(d); branches != nil {
			e.pending = append(e.pending, branches...)
			return
		}
		k := d.Key()
		if _, ok := e.outSeen[k]; !ok {
			e.outSeen[k] = struct{}{}
			e.out = append(e.out, d)
		}
		return
	}
}

// scanOrder iterates d with the eventualities of the original input first,
// then the remaining members in insertion order. Realizing seeded
// eventualities early keeps witness paths short and traces reproducible.
func (e *expander) scanOrder(d *logic.Set) []*logic.Formula {
	if len(e.seedEventualities) == 0 {
		return d.Formulas()
	}
	first := make([]*logic.Formula, 0, len(e.seedEventualities))
	seen := make(map[string]struct{}, len(e.seedEventualities))
	for _, f := range e.seedEventualities {
		if d.Contains(f) {
			first = append(first, f)
			seen[f.Key()] = struct{}{}
		}
	}
	if len(first) == 0 {
		return d.Formulas()
	}
	out := first
	for _, f := range d.Formulas() {
		if _, ok := seen[f.Key()]; ok {
			continue
		}
		out = append(out, f)
	}
	return out
}

// applyAlpha adds the missing components of the first alpha formula that
// has any, reporting whether it fired.
func (e *expander) applyAlpha(d *logic.Set) bool {
	for _, f := range e.scanOrder(d) {
		cl := logic.Classify(f)
		if cl.Category != logic.Alpha {
			continue
		}
		added := false
		for _, c := range cl.Components {
			if !d.Contains(c) {
				d.Add(c)
				added = true
			}
		}
		if added {
			return true
		}
	}
	return false
}

// applyBeta branches on the first beta formula none of whose components is
// present, returning one descendant per component, or nil.
func (e *expander) applyBeta(d *logic.Set) []*logic.Set {
	for _, f := range e.scanOrder(d) {
		cl := logic.Classify(f)
		if cl.Category != logic.Beta {
			continue
		}
		present := false
		for _, c := range cl.Components {
			if d.Contains(c) {
				present = true
				break
			}
		}
		if present {
			continue
		}
		branches := make([]*logic.Set, 0, len(cl.Components))
		for _, c := range cl.Components {
			b := d.Clone()
			b.Add(c)
			branches = append(branches, b)
		}
		return branches
	}
	return nil
}

// applyRule3 handles the special ¬C rule: for an eventuality ¬C_A ψ whose
// first component ¬ψ is absent while some other beta component is present,
// a sibling set with ¬ψ added is emitted alongside the unchanged d. Each
// (set, formula) site fires at most once.
func (e *expander) applyRule3(d *logic.Set) bool {
	fired := false
	for _, f := range d.Formulas() {
		if !logic.IsEventuality(f) {
			continue
		}
		cl := logic.Classify(f)
		negSub := cl.Components[0]
		if d.Contains(negSub) {
			continue
		}
		other := false
		for _, c := range cl.Components[1:] {
			if d.Contains(c) {
				other = true
				break
			}
		}
		if !other {
			continue
		}
		site := rule3Site{setKey: d.Key(), formulaKey: f.Key()}
		if _, ok := e.rule3Seen[site]; ok {
			continue
		}
		e.rule3Seen[site] = struct{}{}
		sibling := d.Clone()
		sibling.Add(negSub)
		e.pending = append(e.pending, sibling)
		fired = true
	}
	return fired
}

// applyCut branches d on χ versus ¬χ for the first undetermined epistemic
// subformula χ = D_A φ or C_A φ of some member, subject to the coalition
// side-conditions when cuts are restricted. Returns the two branches or
// nil.
func (e *expander) applyCut(d *logic.Set) []*logic.Set {
	if !e.opts.Cuts {
		return nil
	}
	for _, psi := range d.Formulas() {
		for _, chi := range logic.Subformulas(psi).Formulas() {
			if !logic.IsBox(chi) && chi.Op() != logic.OpCommon {
				continue
			}
			if d.Contains(chi) || d.Contains(logic.Not(chi)) {
				continue
			}
			if e.opts.RestrictedCuts && !cutEnabled(d, psi, chi) {
				continue
			}
			pos := d.Clone()
			pos.Add(chi)
			neg := d.Clone()
			neg.Add(logic.Not(chi))
			return []*logic.Set{pos, neg}
		}
	}
	return nil
}

// cutEnabled evaluates the restricted-cut side-conditions for cutting on
// chi inside the ambient formula psi, over the current set d:
//
//	C11  chi = D_A φ, psi = D_B δ or ¬D_B δ:  ∃ ¬D_E ε ∈ d, A ⊆ E ∧ B ⊆ E
//	C12  chi = D_A φ, psi = ¬C_B δ:           ∃ ¬D_E ε ∈ d, A ⊆ E ∧ B ∩ E ≠ ∅
//	C21  chi = C_A φ, psi = D_B δ or ¬D_B δ:  ∃ ¬D_E ε ∈ d, B ⊆ E ∧ A ∩ E ≠ ∅
//	C22  chi = C_A φ, psi = ¬C_B δ:           ∃ ¬D_E ε ∈ d, A ∩ E ≠ ∅ ∧ B ∩ E ≠ ∅
//
// Ambient formulas of any other shape never enable a restricted cut.
func cutEnabled(d *logic.Set, psi, chi *logic.Formula) bool {
	a := chi.Coalition()

	var b logic.Coalition
	switch {
	case logic.IsBox(psi):
		b = psi.Coalition()
	case logic.IsDiamond(psi):
		b = psi.Sub().Coalition()
	case logic.IsEventuality(psi):
		b = psi.Sub().Coalition()
	default:
		return false
	}

	boxCut := logic.IsBox(chi)
	eventualityAmbient := logic.IsEventuality(psi)

	for _, f := range d.Formulas() {
		if !logic.IsDiamond(f) {
			continue
		}
		e := f.Sub().Coalition()
		switch {
		case boxCut && !eventualityAmbient: // C11
			if a.SubsetOf(e) && b.SubsetOf(e) {
				return true
			}
		case boxCut && eventualityAmbient: // C12
			if a.SubsetOf(e) && b.Intersects(e) {
				return true
			}
		case !boxCut && !eventualityAmbient: // C21
			if b.SubsetOf(e) && a.Intersects(e) {
				return true
			}
		default: // C22
			if a.Intersects(e) && b.Intersects(e) {
				return true
			}
		}
	}
	return false
}
