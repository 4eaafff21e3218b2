// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  *ActionableError
		want string
	}{
		{"operation only", &ActionableError{Operation: "build target"}, "failed to build target"},
		{"with resource", &ActionableError{Operation: "build target", Resource: "main"}, "failed to build target: main"},
		{
			"with cause",
			&ActionableError{Operation: "import modules", Resource: "glslmodules", Cause: errors.New("boom")},
			"failed to import modules: glslmodules: boom",
		},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("%s: Error() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestActionableError_Unwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("sentinel")
	err := WrapWithContext(fmt.Errorf("wrapped: %w", sentinel), "write output", "shader.glsl")
	if !errors.Is(err, sentinel) {
		t.Error("errors.Is should reach the wrapped sentinel")
	}
	if WrapWithContext(nil, "x", "y") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	base := errors.New("root cause")
	multi := errors.Join(errors.New("first"), fmt.Errorf("second: %w", base))
	err := NewErrorContext().
		WithOperation("build target").
		WithResource("main").
		WithSuggestions("Check the manifest", "", "Run with --verbose").
		Wrap(multi).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "\n  • Check the manifest") || !strings.Contains(short, "\n  • Run with --verbose") {
		t.Errorf("suggestions missing:\n%s", short)
	}
	if strings.Count(short, "•") != 2 {
		t.Errorf("empty suggestion should be dropped:\n%s", short)
	}
	if strings.Contains(short, "Error chain") {
		t.Error("non-verbose output should not include the chain")
	}

	long := err.Format(true)
	if !strings.Contains(long, "Error chain:") || !strings.Contains(long, "3. root cause") {
		t.Errorf("verbose chain incomplete:\n%s", long)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError without operation should return a nil interface, got %v", err)
	}

	ctx := NewErrorContext().WithOperation("load configuration").WithSuggestion("one")
	first := ctx.Build()
	ctx.WithSuggestion("two")
	if len(first.Suggestions) != 1 {
		t.Errorf("built error shares suggestions with the builder: %v", first.Suggestions)
	}
	if !first.HasSuggestions() {
		t.Error("HasSuggestions() = false")
	}
}
