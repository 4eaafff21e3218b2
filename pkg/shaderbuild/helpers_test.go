// SPDX-License-Identifier: MPL-2.0

package shaderbuild

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// baseTime is an arbitrary fixed mtime so tests never depend on the
// filesystem clock resolution.
var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// writeFile writes content to dir/rel with the given mtime offset from
// baseTime and returns the full path.
func writeFile(t *testing.T, dir, rel, content string, offset time.Duration) string {
	t.Helper()

	path := filepath.Join(dir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	touch(t, path, offset)
	return path
}

func touch(t *testing.T, path string, offset time.Duration) {
	t.Helper()

	mt := baseTime.Add(offset)
	if err := os.Chtimes(path, mt, mt); err != nil {
		t.Fatalf("chtimes %s: %v", path, err)
	}
}

// mustImport imports the manifest and fails on a top-level error.
func mustImport(t *testing.T, b *Builder, manifestPath string) ImportResult {
	t.Helper()

	res, err := b.ImportModulesFromFile(manifestPath)
	if err != nil {
		t.Fatalf("ImportModulesFromFile(%s): %v", manifestPath, err)
	}
	return res
}

// collectLogs installs a sink that appends to the returned slice.
func collectLogs(b *Builder) *[]string {
	var msgs []string
	b.RegisterLogCallback(func(msg string) { msgs = append(msgs, msg) })
	return &msgs
}

// diamondFixture writes T -> A, B; A -> C; B -> C plus an unrelated module.
func diamondFixture(t *testing.T) (string, string) {
	t.Helper()

	dir := t.TempDir()
	writeFile(t, dir, "c.glsl", "float c() { return 1.0; }\n", 0)
	writeFile(t, dir, "a.glsl", "// @use C\nfloat a() { return c(); }\n", 0)
	writeFile(t, dir, "b.glsl", "// @use C\nfloat b() { return c() * 2.0; }\n", 0)
	writeFile(t, dir, "t.glsl", "// @use A, B\nvoid main() { a(); b(); }\n", 0)
	writeFile(t, dir, "other.glsl", "float other() { return 0.0; }\n", 0)
	manifestPath := writeFile(t, dir, "glslmodules", "T t.glsl\nA a.glsl\nB b.glsl\nC c.glsl\nother other.glsl\n", 0)
	return dir, manifestPath
}
