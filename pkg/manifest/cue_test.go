// SPDX-License-Identifier: MPL-2.0

package manifest

import "testing"

func TestParseCUE(t *testing.T) {
	t.Parallel()

	data := []byte(`
modules: [
	{name: "colors", path: "colors.glsl"},
	{name: "main", path: "main.glsl"},
	{name: "tint", source: "vec3 tint();\n"},
]
`)
	got, err := Parse("modules.cue", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	sameEntries(t, got, []Entry{
		{Name: "colors", Path: "colors.glsl"},
		{Name: "main", Path: "main.glsl"},
		{Name: "tint", Source: "vec3 tint();\n", Inline: true},
	})
}

func TestParseCUE_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantMsg string
	}{
		{"bad name", `modules: [{name: "9x", path: "a.glsl"}]`, "modules.cue"},
		{"unknown field", `modules: [{name: "a", file: "a.glsl"}]`, "modules.cue"},
		{"both path and source", `modules: [{name: "a", path: "a.glsl", source: "x"}]`, "modules[0]: module \"a\": path and source are mutually exclusive"},
		{"neither", `modules: [{name: "a"}, {name: "b"}]`, "modules[0]"},
		{"syntax", `modules: [`, "modules.cue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse("modules.cue", []byte(tt.data))
			requireParseError(t, err, tt.wantMsg)
		})
	}
}
