// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/fang"

	"github.com/invowk/modglsl/internal/dag"
	"github.com/invowk/modglsl/internal/issue"
	"github.com/invowk/modglsl/pkg/shaderbuild"
)

// suggestions holds the first-line advice for each builder error kind; the
// explain command carries the long form.
var suggestions = map[shaderbuild.Kind][]string{
	shaderbuild.KindManifestRead: {
		"Check the --manifest value and the include directories (-I)",
	},
	shaderbuild.KindManifestParse: {
		"Fix the manifest line reported above",
	},
	shaderbuild.KindModuleRead: {
		"Check that the module path exists relative to an include directory or the manifest",
	},
	shaderbuild.KindDuplicateModule: {
		"Give each module a unique name in the manifest",
	},
	shaderbuild.KindModuleNotFound: {
		"Declare the module in the manifest or fix the @use directive that names it",
	},
	shaderbuild.KindCyclicDependency: {
		"Remove one of the @use directives along the reported cycle",
	},
	shaderbuild.KindDirectiveSyntax: {
		"Use the form '// @use name[, name...]' with valid module names",
	},
}

// describe wraps a builder error with the operation that failed and the
// advice for its kind.
func describe(err error, operation, resource string) error {
	kind := shaderbuild.KindOf(err)
	ctx := issue.NewErrorContext().
		WithOperation(operation).
		WithResource(resource).
		WithSuggestions(suggestions[kind]...).
		Wrap(err)

	var cycleErr *dag.CycleError
	if errors.As(err, &cycleErr) {
		kind = shaderbuild.KindCyclicDependency
		ctx.WithSuggestions(suggestions[kind]...)
	}

	if _, ok := issue.Lookup(kind.String()); ok {
		ctx.WithSuggestion(fmt.Sprintf("Run 'modglsl explain %s' for details", kind))
	}
	return ctx.BuildError()
}

// errorHandler renders actionable errors with their suggestions and leaves
// everything else to fang.
func errorHandler(verbose *bool) fang.ErrorHandler {
	return func(w io.Writer, styles fang.Styles, err error) {
		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			fmt.Fprintln(w, ErrorStyle.Render("Error:"), ae.Format(*verbose))
			return
		}
		fang.DefaultErrorHandler(w, styles, err)
	}
}

// formatErrorForDisplay formats an error for the log or the terminal.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
