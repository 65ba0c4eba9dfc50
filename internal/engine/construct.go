package engine

import (
	"context"

	"github.com/epitab/epitab/pkg/logic"
	"github.com/epitab/epitab/pkg/tableau"
)

// drItem is one pending application of rule DR: a state paired with one of
// its diamond formulas. Diamonds are enqueued exactly once, when their
// state is minted, so each (state, diamond) pair is processed once.
type drItem struct {
	state   tableau.NodeID
	diamond *logic.Formula
}

// builder runs phase 1. Node reuse is enforced per kind through digest
// indexes over canonical set keys.
type builder struct {
	opts   Options
	nextID tableau.NodeID
	pre    *tableau.Pretableau

	prestateIndex map[[32]byte]tableau.NodeID
	stateIndex    map[[32]byte]tableau.NodeID

	srQueue []tableau.NodeID
	drQueue []drItem
}

func newBuilder(opts Options) *builder {
	return &builder{
		opts:          opts,
		pre:           tableau.NewPretableau(),
		prestateIndex: make(map[[32]byte]tableau.NodeID),
		stateIndex:    make(map[[32]byte]tableau.NodeID),
	}
}

// construct builds the pretableau for input: a single seed prestate {θ},
// then SR and DR alternate until both queues drain. Every formula the rules
// introduce lives in ecl(θ) and nodes are reused by key, so the loop
// terminates.
func (b *builder) construct(ctx context.Context, input *logic.Formula) error {
	b.mintPrestate(logic.NewSet(input))
	for len(b.srQueue) > 0 || len(b.drQueue) > 0 {
		select {
		case <-ctx.Done():
			return ErrCanceled
		default:
		}
		if len(b.srQueue) > 0 {
			id := b.srQueue[0]
			b.srQueue = b.srQueue[1:]
			if err := b.applySR(id); err != nil {
				return err
			}
			continue
		}
		item := b.drQueue[0]
		b.drQueue = b.drQueue[1:]
		if err := b.applyDR(item); err != nil {
			return err
		}
	}
	return nil
}

// applySR expands a prestate into its family of fully expanded sets and
// connects it to the corresponding states by dashed edges. An empty family
// simply leaves the prestate barren.
func (b *builder) applySR(preID tableau.NodeID) error {
	pre := b.pre.Prestates[preID]
	for _, delta := range Expand(pre.Formulas, b.opts.Expand) {
		stID, err := b.stateFor(delta)
		if err != nil {
			return err
		}
		b.pre.Dashed = append(b.pre.Dashed, tableau.DashedEdge{From: preID, To: stID})
		if err := b.checkEdgeLimit(); err != nil {
			return err
		}
	}
	return nil
}

// applyDR builds the successor prestate demanded by one diamond
// χ = ¬D_A φ of a state Δ:
//
//	{ ¬φ } ∪ { D_A′ ψ ∈ Δ : A′ ⊆ A }
//	      ∪ { ¬D_A′ ψ ∈ Δ : A′ ⊆ A, ¬D_A′ ψ ≠ χ }
//	      ∪ { ¬C_A′ ψ ∈ Δ : A′ ∩ A ≠ ∅ }
//
// and connects Δ to it with a solid edge labeled χ.
func (b *builder) applyDR(item drItem) error {
	delta := b.pre.States[item.state]
	chi := item.diamond
	coalition := chi.Sub().Coalition()

	gamma := logic.NewSet(logic.Not(chi.Sub().Sub()))
	for _, f := range delta.Formulas.Formulas() {
		switch {
		case logic.IsBox(f) && f.Coalition().SubsetOf(coalition):
			gamma.Add(f)
		case logic.IsDiamond(f) && f.Key() != chi.Key() && f.Sub().Coalition().SubsetOf(coalition):
			gamma.Add(f)
		case logic.IsEventuality(f) && f.Sub().Coalition().Intersects(coalition):
			gamma.Add(f)
		}
	}

	preID, err := b.prestateFor(gamma)
	if err != nil {
		return err
	}
	b.pre.Solid = append(b.pre.Solid, tableau.SolidEdge{From: item.state, To: preID, Label: chi})
	return b.checkEdgeLimit()
}

// prestateFor returns the prestate holding gamma, minting one if needed.
func (b *builder) prestateFor(gamma *logic.Set) (tableau.NodeID, error) {
	digest := gamma.Digest()
	if id, ok := b.prestateIndex[digest]; ok {
		return id, nil
	}
	if b.opts.PrestateLimit > 0 && len(b.pre.Prestates) >= b.opts.PrestateLimit {
		return 0, &tableau.LimitError{Kind: "prestates", Limit: b.opts.PrestateLimit}
	}
	return b.mintPrestate(gamma), nil
}

func (b *builder) mintPrestate(gamma *logic.Set) tableau.NodeID {
	id := b.nextID
	b.nextID++
	b.pre.Prestates[id] = &tableau.Node{ID: id, Kind: tableau.KindPrestate, Formulas: gamma}
	b.prestateIndex[gamma.Digest()] = id
	b.srQueue = append(b.srQueue, id)
	return id
}

// stateFor returns the state holding delta, minting one if needed. A fresh
// state has each of its diamonds queued for DR.
func (b *builder) stateFor(delta *logic.Set) (tableau.NodeID, error) {
	digest := delta.Digest()
	if id, ok := b.stateIndex[digest]; ok {
		return id, nil
	}
	if b.opts.StateLimit > 0 && len(b.pre.States) >= b.opts.StateLimit {
		return 0, &tableau.LimitError{Kind: "states", Limit: b.opts.StateLimit}
	}
	id := b.nextID
	b.nextID++
	b.pre.States[id] = &tableau.Node{ID: id, Kind: tableau.KindState, Formulas: delta}
	b.stateIndex[digest] = id
	for _, f := range delta.Formulas() {
		if logic.IsDiamond(f) {
			b.drQueue = append(b.drQueue, drItem{state: id, diamond: f})
		}
	}
	return id, nil
}

func (b *builder) checkEdgeLimit() error {
	if b.opts.EdgeLimit > 0 && len(b.pre.Dashed)+len(b.pre.Solid) > b.opts.EdgeLimit {
		return &tableau.LimitError{Kind: "edges", Limit: b.opts.EdgeLimit}
	}
	return nil
}
