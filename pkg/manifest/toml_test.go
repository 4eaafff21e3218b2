// SPDX-License-Identifier: MPL-2.0

package manifest

import "testing"

func TestParseTOML(t *testing.T) {
	t.Parallel()

	data := []byte(`
# shader modules
[[module]]
name = "colors"
path = "colors.glsl"

[[module]]
name = "main"
path = "main.glsl"

[[module]]
name = "tint"
source = """
vec3 tint() { return vec3(1.0); }
"""
`)
	got, err := Parse("modules.toml", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sameEntries(t, got, []Entry{
		{Name: "colors", Path: "colors.glsl"},
		{Name: "main", Path: "main.glsl"},
		{Name: "tint", Source: "vec3 tint() { return vec3(1.0); }\n", Inline: true},
	})
}

func TestParseTOML_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		wantLine int
		wantMsg  string
	}{
		{"unknown field", "[[module]]\nname = \"a\"\nfile = \"a.glsl\"\n", -1, "unknown field"},
		{"syntax", "[[module]]\nname = \n", -1, "modules.toml"},
		{"missing location", "[[module]]\nname = \"a\"\n", 0, "module[0]: module \"a\": one of path or source is required"},
		{"empty path", "[[module]]\nname = \"a\"\npath = \"\"\n", 0, "empty path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse("modules.toml", []byte(tt.data))
			pe := requireParseError(t, err, tt.wantMsg)
			if tt.wantLine >= 0 && pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}
