// SPDX-License-Identifier: MPL-2.0

package manifest

import "testing"

func TestParsePlain(t *testing.T) {
	t.Parallel()

	data := []byte(`# palette and entry point

colors   colors.glsl
// the fragment shader
main	main.glsl   # fragment entry
tint     "vec3 tint() { return vec3(1.0); }\n" // inline
spaced   lib/my shader.glsl
`)
	got, err := Parse("glslmodules", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sameEntries(t, got, []Entry{
		{Name: "colors", Path: "colors.glsl"},
		{Name: "main", Path: "main.glsl"},
		{Name: "tint", Source: "vec3 tint() { return vec3(1.0); }\n", Inline: true},
		{Name: "spaced", Path: "lib/my shader.glsl"},
	})
	if got[0].Line != 3 || got[1].Line != 5 {
		t.Errorf("lines = %d, %d; want 3, 5", got[0].Line, got[1].Line)
	}
}

func TestParsePlain_Empty(t *testing.T) {
	t.Parallel()

	got, err := Parse("glslmodules", []byte("\n   \n# nothing\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no entries, got %+v", got)
	}
}

func TestParsePlain_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		data     string
		wantLine int
		wantMsg  string
	}{
		{"missing location", "colors colors.glsl\nmain\n", 2, "has no location"},
		{"bad name", "1colors colors.glsl\n", 1, "invalid module name"},
		{"unterminated literal", "tint \"vec3\n", 1, "unterminated"},
		{"trailing text", "tint \"a\" b\n", 1, "unexpected text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse("glslmodules", []byte(tt.data))
			pe := requireParseError(t, err, tt.wantMsg)
			if pe.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", pe.Line, tt.wantLine)
			}
		})
	}
}
