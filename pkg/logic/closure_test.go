package logic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/epitab/epitab/pkg/logic"
)

func TestPredicates(t *testing.T) {
	p := logic.Atom("p")
	a := logic.NewCoalition("a")

	assert.True(t, logic.IsBox(logic.D(a, p)))
	assert.False(t, logic.IsBox(logic.C(a, p)))

	assert.True(t, logic.IsDiamond(logic.Not(logic.D(a, p))))
	assert.False(t, logic.IsDiamond(logic.D(a, p)))
	assert.False(t, logic.IsDiamond(logic.Not(p)))

	assert.True(t, logic.IsEventuality(logic.Not(logic.C(a, p))))
	assert.False(t, logic.IsEventuality(logic.Not(logic.D(a, p))))
}

func TestPatentlyInconsistent(t *testing.T) {
	p := logic.Atom("p")
	q := logic.Atom("q")

	assert.False(t, logic.PatentlyInconsistent(logic.NewSet(p, q)))
	assert.True(t, logic.PatentlyInconsistent(logic.NewSet(p, logic.Not(p))))

	conj := logic.And(p, q)
	assert.True(t, logic.PatentlyInconsistent(logic.NewSet(logic.Not(conj), conj)))

	// ¬p and ¬¬p contradict; p and ¬¬p do not patently.
	assert.True(t, logic.PatentlyInconsistent(logic.NewSet(logic.Not(p), logic.Not(logic.Not(p)))))
	assert.False(t, logic.PatentlyInconsistent(logic.NewSet(p, logic.Not(logic.Not(p)))))
}

func TestSubformulas(t *testing.T) {
	p := logic.Atom("p")
	q := logic.Atom("q")
	f := logic.D(logic.NewCoalition("a"), logic.And(p, q))

	sub := logic.Subformulas(f)
	for _, key := range []string{"D{a}(p&q)", "(p&q)", "p", "q"} {
		assert.True(t, sub.ContainsKey(key), key)
	}
	assert.Equal(t, 4, sub.Len())
}

func TestClosure(t *testing.T) {
	p := logic.Atom("p")
	a := logic.NewCoalition("a")

	t.Run("diamond closure adds the negated operand", func(t *testing.T) {
		f := logic.Not(logic.D(a, p))
		cl := logic.Closure(f)
		assert.True(t, cl.ContainsKey("~D{a}p"))
		assert.True(t, cl.ContainsKey("~p"))
	})

	t.Run("common knowledge closure holds its unfolding", func(t *testing.T) {
		f := logic.C(logic.NewCoalition("a", "b"), p)
		cl := logic.Closure(f)
		for _, key := range []string{"C{a,b}p", "p", "D{a}C{a,b}p", "D{b}C{a,b}p"} {
			assert.True(t, cl.ContainsKey(key), key)
		}
	})

	t.Run("closure is contained in the extended closure", func(t *testing.T) {
		f := logic.Not(logic.C(a, logic.And(p, logic.Atom("q"))))
		cl := logic.Closure(f)
		ecl := logic.ExtendedClosure(f)
		assert.True(t, cl.SubsetOf(ecl))
		for _, g := range cl.Formulas() {
			assert.True(t, ecl.Contains(logic.Not(g)), g.Key())
		}
	})
}

func TestFullyExpanded(t *testing.T) {
	p := logic.Atom("p")
	q := logic.Atom("q")
	conj := logic.And(p, q)

	assert.False(t, logic.FullyExpanded(logic.NewSet(conj)))
	assert.False(t, logic.FullyExpanded(logic.NewSet(conj, p)))
	assert.True(t, logic.FullyExpanded(logic.NewSet(conj, p, q)))

	disj := logic.Not(conj)
	assert.False(t, logic.FullyExpanded(logic.NewSet(disj)))
	assert.True(t, logic.FullyExpanded(logic.NewSet(disj, logic.Not(q))))
}
