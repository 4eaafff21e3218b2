// SPDX-License-Identifier: MPL-2.0

package shadermod

import (
	"fmt"
	"maps"
	"slices"
)

// Store owns the set of known modules, keyed by name.
//
// Store is not safe for concurrent use; it belongs to a single builder.
type Store struct {
	modules map[string]*Module
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{modules: make(map[string]*Module)}
}

// Put inserts m or replaces the module with the same name. It reports whether
// the stored module changed: a new name, a different origin or a signature
// that differs in any field.
func (s *Store) Put(m *Module) bool {
	prev, ok := s.modules[m.Name]
	s.modules[m.Name] = m
	if !ok {
		return true
	}
	return prev.Origin != m.Origin || !prev.Signature.Equal(m.Signature, SignatureStrict)
}

// Get returns the module called name, or an error wrapping ErrModuleNotFound.
func (s *Store) Get(name string) (*Module, error) {
	m, ok := s.modules[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrModuleNotFound, name)
	}
	return m, nil
}

// SignatureOf returns the cached signature of name without touching its body.
func (s *Store) SignatureOf(name string) (Signature, bool) {
	m, ok := s.modules[name]
	if !ok {
		return Signature{}, false
	}
	return m.Signature, true
}

// Has reports whether name is stored.
func (s *Store) Has(name string) bool {
	_, ok := s.modules[name]
	return ok
}

// Names returns all module names in sorted order.
func (s *Store) Names() []string {
	return slices.Sorted(maps.Keys(s.modules))
}

// Len returns the number of stored modules.
func (s *Store) Len() int {
	return len(s.modules)
}
