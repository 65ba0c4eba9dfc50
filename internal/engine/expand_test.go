package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/epitab/epitab/internal/engine"
	"github.com/epitab/epitab/pkg/logic"
)

func setKeys(family []*logic.Set) []string {
	keys := make([]string, 0, len(family))
	for _, s := range family {
		keys = append(keys, s.Key())
	}
	return keys
}

func TestExpandAlphaSaturation(t *testing.T) {
	p := logic.Atom("p")
	q := logic.Atom("q")

	family := engine.Expand(logic.NewSet(logic.And(p, q)), engine.ExpandOptions{})
	assert.Len(t, family, 1)
	for _, key := range []string{"(p&q)", "p", "q"} {
		assert.True(t, family[0].ContainsKey(key), key)
	}
}

func TestExpandBetaBranching(t *testing.T) {
	p := logic.Atom("p")
	q := logic.Atom("q")

	// Or(p, q) = ¬(¬p ∧ ¬q): two branches, each saturating its double
	// negation down to the atom.
	family := engine.Expand(logic.NewSet(logic.Or(p, q)), engine.ExpandOptions{})
	assert.Len(t, family, 2)
	assert.True(t, family[0].ContainsKey("p"))
	assert.False(t, family[0].ContainsKey("q"))
	assert.True(t, family[1].ContainsKey("q"))
	assert.False(t, family[1].ContainsKey("p"))
}

func TestExpandInconsistentInput(t *testing.T) {
	p := logic.Atom("p")

	assert.Nil(t, engine.Expand(logic.NewSet(p, logic.Not(p)), engine.ExpandOptions{}))
	// Inconsistency reached through saturation also empties the family.
	assert.Empty(t, engine.Expand(logic.NewSet(logic.And(p, logic.Not(p))), engine.ExpandOptions{}))
}

func TestExpandDiscardsContradictoryBranches(t *testing.T) {
	p := logic.Atom("p")
	q := logic.Atom("q")

	// ¬(p ∧ q) with p forces the ¬q branch; the ¬p branch contradicts.
	family := engine.Expand(logic.NewSet(logic.Not(logic.And(p, q)), p), engine.ExpandOptions{})
	assert.Len(t, family, 1)
	assert.True(t, family[0].ContainsKey("~q"))
}

func TestExpandSpecialNotCRule(t *testing.T) {
	p := logic.Atom("p")
	ev := logic.Not(logic.C(logic.NewCoalition("a"), p))

	// Branching on ¬C_a p yields {¬p} and {¬D_a C_a p}; the special rule
	// then adds a sibling of the second branch that carries ¬p as well.
	family := engine.Expand(logic.NewSet(ev), engine.ExpandOptions{})
	assert.Equal(t, []string{
		"~C{a}p|~p",
		"~C{a}p|~D{a}C{a}p",
		"~C{a}p|~D{a}C{a}p|~p",
	}, setKeys(family))
}

func TestExpandOutputsAreFullyExpandedAndConsistent(t *testing.T) {
	type tc struct {
		Name  string
		Input *logic.Set
	}

	p := logic.Atom("p")
	q := logic.Atom("q")
	ab := logic.NewCoalition("a", "b")

	for _, tt := range []tc{
		{
			Name:  "conjunction of knowledge",
			Input: logic.NewSet(logic.And(logic.K("a", p), logic.Not(logic.K("b", p)))),
		},
		{
			Name:  "common knowledge",
			Input: logic.NewSet(logic.C(ab, logic.And(p, q))),
		},
		{
			Name:  "negated common knowledge",
			Input: logic.NewSet(logic.Not(logic.C(ab, p)), logic.Not(logic.D(ab, q))),
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			for _, cuts := range []engine.ExpandOptions{
				{},
				{Cuts: true},
				{Cuts: true, RestrictedCuts: true},
			} {
				for _, s := range engine.Expand(tt.Input, cuts) {
					assert.True(t, logic.FullyExpanded(s), s.Key())
					assert.False(t, logic.PatentlyInconsistent(s), s.Key())
					assert.True(t, tt.Input.SubsetOf(s))
				}
			}
		})
	}
}

func TestExpandRestrictedCutNeedsAWitnessDiamond(t *testing.T) {
	p := logic.Atom("p")
	box := logic.D(logic.NewCoalition("a"), logic.Or(p, logic.D(logic.NewCoalition("b"), p)))

	// D_a (p ∨ D_b p): no diamond is present anywhere, so no restricted
	// cut is enabled and only the disjunction branches.
	restricted := engine.Expand(logic.NewSet(box), engine.ExpandOptions{Cuts: true, RestrictedCuts: true})
	assert.Len(t, restricted, 2)

	// Unrestricted cuts additionally branch on the undetermined D_b p in
	// the branch that settled the disjunction through p alone.
	unrestricted := engine.Expand(logic.NewSet(box), engine.ExpandOptions{Cuts: true})
	assert.Greater(t, len(unrestricted), len(restricted))
}

func TestExpandRestrictedCutFires(t *testing.T) {
	p := logic.Atom("p")
	a := logic.NewCoalition("a")
	ab := logic.NewCoalition("a", "b")
	ac := logic.NewCoalition("a", "c")

	// ¬D_{a,c} ¬D_a p licenses the C11 cut on D_a p: the ambient formula
	// is a diamond over {a,c} ⊇ {a}.
	input := logic.NewSet(logic.Not(logic.D(ab, p)), logic.Not(logic.D(ac, logic.Not(logic.D(a, p)))))
	family := engine.Expand(input, engine.ExpandOptions{Cuts: true, RestrictedCuts: true})

	sawPositive, sawNegative := false, false
	for _, s := range family {
		if s.ContainsKey("D{a}p") {
			sawPositive = true
		}
		if s.ContainsKey("~D{a}p") {
			sawNegative = true
		}
	}
	assert.True(t, sawPositive)
	assert.True(t, sawNegative)
}
