// SPDX-License-Identifier: MPL-2.0

package shaderbuild

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invowk/modglsl/pkg/shadermod"
)

const (
	// KindUnknown is reported for errors outside the taxonomy.
	KindUnknown Kind = "unknown"
	// KindManifestRead means the manifest file is missing or unreadable.
	KindManifestRead Kind = "manifest_read"
	// KindManifestParse means the manifest has a malformed entry.
	KindManifestParse Kind = "manifest_parse"
	// KindModuleRead means a manifest entry's file could not be found or read.
	KindModuleRead Kind = "module_read"
	// KindDuplicateModule means a module name was declared twice with
	// different locations.
	KindDuplicateModule Kind = "duplicate_module"
	// KindModuleNotFound means a target or reference names an unknown module.
	KindModuleNotFound Kind = "module_not_found"
	// KindCyclicDependency means module references form a cycle.
	KindCyclicDependency Kind = "cyclic_dependency"
	// KindDirectiveSyntax means a reachable module has a malformed @use line.
	KindDirectiveSyntax Kind = "directive_syntax"
	// KindBuild wraps any failure surfaced from Build or HotRebuild.
	KindBuild Kind = "build"
)

var (
	// ErrManifestRead is the sentinel error wrapped by ManifestReadError.
	ErrManifestRead = errors.New("cannot read manifest")
	// ErrManifestParse is the sentinel error wrapped by ManifestParseError.
	ErrManifestParse = errors.New("cannot parse manifest")
	// ErrModuleRead is the sentinel error wrapped by ModuleReadError.
	ErrModuleRead = errors.New("cannot read module")
	// ErrDuplicateModule is the sentinel error wrapped by DuplicateModuleError.
	ErrDuplicateModule = errors.New("duplicate module")
	// ErrModuleNotFound is the sentinel error wrapped by ModuleNotFoundError.
	// It is the same value as shadermod.ErrModuleNotFound.
	ErrModuleNotFound = shadermod.ErrModuleNotFound
	// ErrCyclicDependency is the sentinel error wrapped by CyclicDependencyError.
	ErrCyclicDependency = errors.New("cyclic dependency")
	// ErrDirectiveSyntax is the sentinel error wrapped by DirectiveSyntaxError.
	ErrDirectiveSyntax = errors.New("invalid @use directive")

	// kindOrder lists the specific kinds from innermost to outermost cause.
	kindOrder = []struct {
		kind Kind
		err  error
	}{
		{KindCyclicDependency, ErrCyclicDependency},
		{KindDirectiveSyntax, ErrDirectiveSyntax},
		{KindModuleNotFound, ErrModuleNotFound},
		{KindDuplicateModule, ErrDuplicateModule},
		{KindModuleRead, ErrModuleRead},
		{KindManifestParse, ErrManifestParse},
		{KindManifestRead, ErrManifestRead},
	}
)

type (
	// Kind is a machine-readable error category.
	Kind string

	// ManifestReadError is returned when the manifest cannot be located or read.
	ManifestReadError struct {
		Path string
		Err  error
	}

	// ManifestParseError is returned when the manifest is malformed. Err is
	// usually a *manifest.ParseError carrying the line.
	ManifestParseError struct {
		Path string
		Err  error
	}

	// ModuleReadError reports a manifest entry whose file could not be found
	// or read. It also unwraps to the underlying OS error.
	ModuleReadError struct {
		Name string
		Path string
		Line int
		Err  error
	}

	// DuplicateModuleError reports a name declared again with a different
	// location. The first declaration wins.
	DuplicateModuleError struct {
		Name   string
		First  string
		Second string
		Line   int
	}

	// ModuleNotFoundError reports an unknown module. ReferencedBy is empty
	// when the missing module is the build target itself.
	ModuleNotFoundError struct {
		Name         string
		ReferencedBy string
	}

	// CyclicDependencyError reports a reference cycle as a closed path.
	CyclicDependencyError struct {
		Cycle []string
	}

	// DirectiveSyntaxError reports malformed @use lines in a module.
	DirectiveSyntaxError struct {
		Module string
		Errs   []shadermod.DirectiveError
	}

	// BuildError wraps a failure of Build or HotRebuild for one target.
	BuildError struct {
		Target string
		Err    error
	}
)

// KindOf returns the most specific Kind found in err's chain, KindBuild for a
// bare BuildError, or KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	for _, k := range kindOrder {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	var be *BuildError
	if errors.As(err, &be) {
		return KindBuild
	}
	return KindUnknown
}

// Kinds lists every Kind in the taxonomy.
func Kinds() []Kind {
	return []Kind{
		KindManifestRead, KindManifestParse, KindModuleRead, KindDuplicateModule,
		KindModuleNotFound, KindCyclicDependency, KindDirectiveSyntax, KindBuild,
	}
}

// String returns the kind name.
func (k Kind) String() string { return string(k) }

// Error implements the error interface for ManifestReadError.
func (e *ManifestReadError) Error() string {
	return fmt.Sprintf("cannot read manifest %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrManifestRead and the cause.
func (e *ManifestReadError) Unwrap() []error { return []error{ErrManifestRead, e.Err} }

// Kind returns KindManifestRead.
func (e *ManifestReadError) Kind() Kind { return KindManifestRead }

// Error implements the error interface for ManifestParseError.
func (e *ManifestParseError) Error() string {
	return fmt.Sprintf("cannot parse manifest: %v", e.Err)
}

// Unwrap returns ErrManifestParse and the cause.
func (e *ManifestParseError) Unwrap() []error { return []error{ErrManifestParse, e.Err} }

// Kind returns KindManifestParse.
func (e *ManifestParseError) Kind() Kind { return KindManifestParse }

// Error implements the error interface for ModuleReadError.
func (e *ModuleReadError) Error() string {
	return fmt.Sprintf("module %q (%s): %v", e.Name, e.Path, e.Err)
}

// Unwrap returns ErrModuleRead and the cause.
func (e *ModuleReadError) Unwrap() []error { return []error{ErrModuleRead, e.Err} }

// Kind returns KindModuleRead.
func (e *ModuleReadError) Kind() Kind { return KindModuleRead }

// Error implements the error interface for DuplicateModuleError.
func (e *DuplicateModuleError) Error() string {
	return fmt.Sprintf("module %q declared again with location %s (first declared as %s)", e.Name, e.Second, e.First)
}

// Unwrap returns ErrDuplicateModule.
func (e *DuplicateModuleError) Unwrap() error { return ErrDuplicateModule }

// Kind returns KindDuplicateModule.
func (e *DuplicateModuleError) Kind() Kind { return KindDuplicateModule }

// Error implements the error interface for ModuleNotFoundError.
func (e *ModuleNotFoundError) Error() string {
	if e.ReferencedBy == "" {
		return fmt.Sprintf("module %q not found", e.Name)
	}
	return fmt.Sprintf("module %q not found (referenced by %q)", e.Name, e.ReferencedBy)
}

// Unwrap returns ErrModuleNotFound.
func (e *ModuleNotFoundError) Unwrap() error { return ErrModuleNotFound }

// Kind returns KindModuleNotFound.
func (e *ModuleNotFoundError) Kind() Kind { return KindModuleNotFound }

// Error implements the error interface for CyclicDependencyError.
func (e *CyclicDependencyError) Error() string {
	return "cyclic dependency: " + strings.Join(e.Cycle, " -> ")
}

// Unwrap returns ErrCyclicDependency.
func (e *CyclicDependencyError) Unwrap() error { return ErrCyclicDependency }

// Kind returns KindCyclicDependency.
func (e *CyclicDependencyError) Kind() Kind { return KindCyclicDependency }

// Error implements the error interface for DirectiveSyntaxError.
func (e *DirectiveSyntaxError) Error() string {
	msgs := make([]string, len(e.Errs))
	for i, d := range e.Errs {
		msgs[i] = d.Error()
	}
	return fmt.Sprintf("module %q: %s", e.Module, strings.Join(msgs, "; "))
}

// Unwrap returns ErrDirectiveSyntax.
func (e *DirectiveSyntaxError) Unwrap() error { return ErrDirectiveSyntax }

// Kind returns KindDirectiveSyntax.
func (e *DirectiveSyntaxError) Kind() Kind { return KindDirectiveSyntax }

// Error implements the error interface for BuildError.
func (e *BuildError) Error() string {
	return fmt.Sprintf("build %q: %v", e.Target, e.Err)
}

// Unwrap returns the cause.
func (e *BuildError) Unwrap() error { return e.Err }

// Kind returns KindBuild.
func (e *BuildError) Kind() Kind { return KindBuild }
