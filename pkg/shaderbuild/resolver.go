// SPDX-License-Identifier: MPL-2.0

package shaderbuild

import (
	"errors"

	"github.com/invowk/modglsl/internal/dag"
)

// Resolve returns target and every module it transitively references, in
// concatenation order: each module after all of its dependencies, shared
// dependencies once at their first position. The order is deterministic for
// a given store.
func (b *Builder) Resolve(target string) ([]string, error) {
	if !b.store.Has(target) {
		return nil, &ModuleNotFoundError{Name: target}
	}

	order, err := dag.Walk(target, b.refsOf)
	if err != nil {
		var cycleErr *dag.CycleError
		if errors.As(err, &cycleErr) {
			return nil, &CyclicDependencyError{Cycle: cycleErr.Cycle}
		}
		return nil, err
	}
	return order, nil
}

// Graph builds the reference graph of every stored module. References to
// modules missing from the store become nodes without dependencies.
func (b *Builder) Graph() *dag.Graph {
	g := dag.New()
	for _, name := range b.store.Names() {
		g.AddNode(name)
		m, err := b.store.Get(name)
		if err != nil {
			continue
		}
		for _, ref := range m.Refs {
			g.AddEdge(name, ref)
		}
	}
	return g
}

// refsOf returns the references of a module that is known to exist, checking
// that its directives are well formed and that every reference is stored.
func (b *Builder) refsOf(name string) ([]string, error) {
	m, err := b.store.Get(name)
	if err != nil {
		return nil, &ModuleNotFoundError{Name: name}
	}
	if len(m.DirectiveErrs) > 0 {
		return nil, &DirectiveSyntaxError{Module: name, Errs: m.DirectiveErrs}
	}
	for _, ref := range m.Refs {
		if !b.store.Has(ref) {
			return nil, &ModuleNotFoundError{Name: ref, ReferencedBy: name}
		}
	}
	return m.Refs, nil
}
