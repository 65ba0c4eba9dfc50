// Package propa prechecks satisfiability through propositional
// abstraction: atoms and epistemic subformulas D_A φ, C_A φ become opaque
// SAT variables and the boolean skeleton is handed to a SAT solver. An
// unsatisfiable abstraction refutes the input in the full logic; a
// satisfiable one proves nothing.
package propa

import (
	"fmt"
	"strings"

	"github.com/go-air/gini"
	glogic "github.com/go-air/gini/logic"
	"github.com/go-air/gini/z"

	"github.com/epitab/epitab/pkg/logic"
)

const (
	satisfiable   = 1
	unsatisfiable = -1
)

// abstraction lowers a formula into a gini circuit, keeping one literal per
// opaque subformula key. Internal inconsistencies are collected rather than
// returned at each call site.
type abstraction struct {
	c    *glogic.C
	lits map[string]z.Lit
	errs []error
}

func (m *abstraction) litFor(f *logic.Formula) z.Lit {
	if lit, ok := m.lits[f.Key()]; ok {
		return lit
	}
	lit := m.c.Lit()
	m.lits[f.Key()] = lit
	return lit
}

func (m *abstraction) lower(f *logic.Formula) z.Lit {
	switch f.Op() {
	case logic.OpAtom, logic.OpDist, logic.OpCommon:
		return m.litFor(f)
	case logic.OpNot:
		return m.lower(f.Sub()).Not()
	case logic.OpAnd:
		return m.c.And(m.lower(f.Left()), m.lower(f.Right()))
	}
	m.errs = append(m.errs, fmt.Errorf("unknown operator in %s", f.Key()))
	return z.LitNull
}

// Error aggregates every inconsistency seen while lowering; non-nil means
// a bug, not an unsatisfiable input.
func (m *abstraction) Error() error {
	if len(m.errs) == 0 {
		return nil
	}
	s := make([]string, len(m.errs))
	for i, err := range m.errs {
		s[i] = err.Error()
	}
	return fmt.Errorf("%d errors encountered: %s", len(s), strings.Join(s, ", "))
}

// Unsatisfiable reports whether the propositional abstraction of f is
// unsatisfiable.
func Unsatisfiable(f *logic.Formula) (bool, error) {
	m := &abstraction{c: glogic.NewC(), lits: make(map[string]z.Lit)}
	root := m.lower(f)
	if err := m.Error(); err != nil {
		return false, err
	}
	g := gini.New()
	m.c.ToCnf(g)
	g.Assume(root)
	return g.Solve() == unsatisfiable, nil
}
