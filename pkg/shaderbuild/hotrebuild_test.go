// SPDX-License-Identifier: MPL-2.0

package shaderbuild

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/invowk/modglsl/pkg/shadermod"
)

func TestHotRebuild_Idempotent(t *testing.T) {
	t.Parallel()

	_, m := diamondFixture(t)
	b := New()
	mustImport(t, b, m)

	first, changed, err := b.HotRebuild("T")
	if err != nil || !changed {
		t.Fatalf("first HotRebuild: changed=%v err=%v", changed, err)
	}
	mustImport(t, b, m)
	second, changed, err := b.HotRebuild("T")
	if err != nil || changed {
		t.Fatalf("second HotRebuild: changed=%v err=%v", changed, err)
	}
	if first != second {
		t.Error("text differs between idempotent rebuilds")
	}
}

func TestHotRebuild_ChangePropagation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		edit        string
		wantChanged bool
	}{
		{"transitive dependency", "c.glsl", true},
		{"direct dependency", "a.glsl", true},
		{"target itself", "t.glsl", true},
		{"unrelated module", "other.glsl", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir, m := diamondFixture(t)
			b := New()
			mustImport(t, b, m)
			if _, err := b.Build("T"); err != nil {
				t.Fatalf("Build: %v", err)
			}

			path := filepath.Join(dir, tt.edit)
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			writeFile(t, dir, tt.edit, string(data)+"// edited\n", time.Minute)
			mustImport(t, b, m)

			text, changed, err := b.HotRebuild("T")
			if err != nil {
				t.Fatalf("HotRebuild: %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if tt.wantChanged != strings.Contains(text, "// edited") {
				t.Errorf("edit visibility mismatch in %q", text)
			}
		})
	}
}

func TestHotRebuild_TouchOnly(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode        shadermod.SignatureMode
		wantChanged bool
	}{
		{shadermod.SignatureStrict, true},
		{shadermod.SignatureContent, false},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			t.Parallel()

			dir, m := diamondFixture(t)
			b := New(WithSignatureMode(tt.mode))
			mustImport(t, b, m)
			if _, _, err := b.HotRebuild("T"); err != nil {
				t.Fatalf("HotRebuild: %v", err)
			}

			touch(t, filepath.Join(dir, "c.glsl"), time.Hour)
			mustImport(t, b, m)
			_, changed, err := b.HotRebuild("T")
			if err != nil {
				t.Fatalf("HotRebuild: %v", err)
			}
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestHotRebuild_MissingModuleKeepsLastText(t *testing.T) {
	t.Parallel()

	dir, m := diamondFixture(t)
	b := New()
	logs := collectLogs(b)
	mustImport(t, b, m)
	good, _, err := b.HotRebuild("T")
	if err != nil {
		t.Fatalf("HotRebuild: %v", err)
	}

	writeFile(t, dir, "a.glsl", "// @use C, missing_helper\nfloat a();\n", time.Minute)
	mustImport(t, b, m)
	text, changed, err := b.HotRebuild("T")
	if changed || text != good {
		t.Errorf("failed rebuild should return last good text unchanged (changed=%v)", changed)
	}
	var be *BuildError
	var nf *ModuleNotFoundError
	if !errors.As(err, &be) || !errors.As(err, &nf) || nf.Name != "missing_helper" || nf.ReferencedBy != "A" {
		t.Fatalf("unexpected error %v", err)
	}
	if !strings.Contains(strings.Join(*logs, "\n"), "missing_helper") {
		t.Errorf("failure was not logged: %v", *logs)
	}

	writeFile(t, dir, "a.glsl", "// @use C\nfloat a() { return c(); }\n", 2*time.Minute)
	mustImport(t, b, m)
	_, changed, err = b.HotRebuild("T")
	if err != nil || !changed {
		t.Errorf("recovery: changed=%v err=%v", changed, err)
	}
}

func TestHotRebuild_CycleProducesNoOutput(t *testing.T) {
	t.Parallel()

	b := New(WithStore(storeOf("A", "// @use B\n", "B", "// @use A\n")))
	text, changed, err := b.HotRebuild("A")
	if text != "" || changed {
		t.Errorf("text=%q changed=%v", text, changed)
	}
	if KindOf(err) != KindCyclicDependency {
		t.Errorf("KindOf = %s (%v)", KindOf(err), err)
	}
	if _, ok := b.LastBuild("A"); ok {
		t.Error("a failed build must not create a record")
	}
}

func TestHotRebuild_NewModuleSatisfiesReference(t *testing.T) {
	t.Parallel()

	store := storeOf("main", "// @use late\nvoid main();\n")
	b := New(WithStore(store), WithProvenanceMarkers(false))
	if _, _, err := b.HotRebuild("main"); err == nil {
		t.Fatal("expected missing module error")
	}

	store.Put(inline("late", "float late();\n"))
	text, changed, err := b.HotRebuild("main")
	if err != nil || !changed || !strings.HasPrefix(text, "float late();\n") {
		t.Errorf("text=%q changed=%v err=%v", text, changed, err)
	}
}

func TestHotRebuild_RepointedEntryWithSameContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	body := "vec3 red() { return vec3(1.0, 0.0, 0.0); }\n"
	writeFile(t, dir, "colors.glsl", body, 0)
	writeFile(t, dir, "palette.glsl", body, 0)
	writeFile(t, dir, "main.glsl", "// @use colors\nvoid main() {}\n", 0)
	m := writeFile(t, dir, "glslmodules", "colors colors.glsl\nmain main.glsl\n", 0)

	b := New(WithSignatureMode(shadermod.SignatureContent))
	mustImport(t, b, m)
	if _, _, err := b.HotRebuild("main"); err != nil {
		t.Fatalf("HotRebuild: %v", err)
	}

	writeFile(t, dir, "glslmodules", "colors palette.glsl\nmain main.glsl\n", time.Minute)
	mustImport(t, b, m)
	text, changed, err := b.HotRebuild("main")
	if err != nil {
		t.Fatalf("HotRebuild: %v", err)
	}
	if !changed {
		t.Fatal("changed = false after the entry moved to another file")
	}
	if want := "// --- module: colors (" + filepath.Join(dir, "palette.glsl") + ") ---"; !strings.Contains(text, want) {
		t.Errorf("text missing marker %q:\n%s", want, text)
	}

	rec, ok := b.LastBuild("main")
	if !ok || rec.Origins["colors"] != filepath.Join(dir, "palette.glsl") {
		t.Errorf("LastBuild origins = %v", rec.Origins)
	}
}
