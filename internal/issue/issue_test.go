// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	t.Parallel()

	vals := Values()
	if len(vals) != len(issues) {
		t.Fatalf("Values() returned %d issues, want %d", len(vals), len(issues))
	}
	names := make(map[string]bool)
	for i, v := range vals {
		if v.Id() != Id(i+1) {
			t.Errorf("Values()[%d].Id() = %d", i, v.Id())
		}
		if v.Name() == "" || names[v.Name()] {
			t.Errorf("issue %d has empty or duplicate name %q", v.Id(), v.Name())
		}
		names[v.Name()] = true
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %s has no message", v.Name())
		}
	}
}

func TestGet(t *testing.T) {
	t.Parallel()

	if got := Get(CyclicDependencyId); got == nil || got.Name() != "cyclic_dependency" {
		t.Errorf("Get(CyclicDependencyId) = %v", got)
	}
	if Get(Id(999)) != nil {
		t.Error("unknown id should return nil")
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want Id
		ok   bool
	}{
		{"module_not_found", ModuleNotFoundId, true},
		{"Module-Not-Found", ModuleNotFoundId, true},
		{"manifest_parse", ManifestParseId, true},
		{"config", ConfigLoadFailedId, true},
		{"nope", 0, false},
	}
	for _, tt := range tests {
		got, ok := Lookup(tt.in)
		if ok != tt.ok || (ok && got.Id() != tt.want) {
			t.Errorf("Lookup(%q) = %v, %v", tt.in, got, ok)
		}
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(ModuleNotFoundId).Render("notty")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(out, "Module not found") || !strings.Contains(out, "modglsl graph --all") {
		t.Errorf("rendered output missing content:\n%s", out)
	}
}

func TestIssue_RenderError(t *testing.T) {
	t.Parallel()

	_, err := Get(BuildFailedId).Render("/nonexistent/style.json")
	if err == nil {
		t.Error("expected an error for a missing style file")
	}
}
