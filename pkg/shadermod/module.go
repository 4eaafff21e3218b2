// SPDX-License-Identifier: MPL-2.0

package shadermod

import (
	"errors"
	"fmt"
	"regexp"
)

// OriginInline is the origin recorded for modules declared inline in a manifest.
const OriginInline = "inline"

var (
	// ErrModuleNotFound is returned when a module name is not in the store.
	ErrModuleNotFound = errors.New("module not found")
	// ErrInvalidModuleName is the sentinel error wrapped by InvalidModuleNameError.
	ErrInvalidModuleName = errors.New("invalid module name")

	namePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)
)

type (
	// Module is a named, reusable fragment of shader source.
	// A Module must not be mutated after it has been handed to a Store.
	Module struct {
		// Name is the unique, case-sensitive module identity.
		Name string
		// Source is the raw module text.
		Source string
		// Origin is the file the source was read from, or OriginInline.
		Origin string
		// Signature fingerprints Source at the time it was read.
		Signature Signature
		// Refs lists the directly referenced module names in declaration order,
		// without duplicates.
		Refs []string
		// DirectiveErrs holds malformed @use directives found in Source.
		DirectiveErrs []DirectiveError
	}

	// InvalidModuleNameError is returned when a module name does not match the
	// identifier grammar. It wraps ErrInvalidModuleName for errors.Is().
	InvalidModuleNameError struct {
		Value string
	}
)

// New builds a Module and scans its source for @use directives.
func New(name, source, origin string, sig Signature) *Module {
	refs, errs := ScanDirectives(source)
	return &Module{
		Name:          name,
		Source:        source,
		Origin:        origin,
		Signature:     sig,
		Refs:          refs,
		DirectiveErrs: errs,
	}
}

// IsInline reports whether the module was declared inline in a manifest.
func (m *Module) IsInline() bool {
	return m.Origin == OriginInline
}

// ValidateName checks name against the module identifier grammar:
// a letter or underscore followed by letters, digits, '_', '.' or '-'.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return &InvalidModuleNameError{Value: name}
	}
	return nil
}

// Error implements the error interface for InvalidModuleNameError.
func (e *InvalidModuleNameError) Error() string {
	return fmt.Sprintf("invalid module name %q: must match %s", e.Value, namePattern.String())
}

// Unwrap returns ErrInvalidModuleName for errors.Is() compatibility.
func (e *InvalidModuleNameError) Unwrap() error { return ErrInvalidModuleName }
