// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

// startWatcher runs w in the background and returns a stop function that
// cancels it and reports the Run error.
func startWatcher(t *testing.T, w *Watcher) func() error {
	t.Helper()

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	// fsnotify registers watches in New, but give the goroutine a moment to
	// enter its select loop before the first write.
	time.Sleep(20 * time.Millisecond)

	return func() error {
		cancel()
		return <-errCh
	}
}

func receive(t *testing.T, w *Watcher, timeout time.Duration) []string {
	t.Helper()

	select {
	case batch := <-w.C():
		return batch
	case <-time.After(timeout):
		t.Fatal("timed out waiting for a batch")
		return nil
	}
}

func expectQuiet(t *testing.T, w *Watcher, wait time.Duration) {
	t.Helper()

	select {
	case batch := <-w.C():
		t.Fatalf("unexpected batch %v", batch)
	case <-time.After(wait):
	}
}

func write(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{Roots: []string{dir}, Debounce: 100 * time.Millisecond, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)

	for _, name := range []string{"a.glsl", "b.glsl", "c.glsl"} {
		write(t, filepath.Join(dir, name), "void f() {}\n")
		time.Sleep(10 * time.Millisecond)
	}

	batch := receive(t, w, 5*time.Second)
	for _, name := range []string{"a.glsl", "b.glsl", "c.glsl"} {
		if !slices.Contains(batch, filepath.Join(dir, name)) {
			t.Errorf("batch %v missing %s", batch, name)
		}
	}
	if !slices.IsSorted(batch) {
		t.Errorf("batch not sorted: %v", batch)
	}
	expectQuiet(t, w, 300*time.Millisecond)

	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
}

func TestWatcherPatternFiltering(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{
		Roots:    []string{dir},
		Patterns: []string{"**/*.glsl", "**/glslmodules"},
		Debounce: 50 * time.Millisecond,
		Stderr:   &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer func() { _ = stop() }()

	write(t, filepath.Join(dir, "notes.txt"), "ignored")
	expectQuiet(t, w, 300*time.Millisecond)

	write(t, filepath.Join(dir, "glslmodules"), "main main.glsl\n")
	batch := receive(t, w, 5*time.Second)
	if want := []string{filepath.Join(dir, "glslmodules")}; !slices.Equal(batch, want) {
		t.Errorf("batch = %v, want %v", batch, want)
	}
}

func TestWatcherIgnorePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{
		Roots:    []string{dir},
		Ignore:   []string{"build/**"},
		Debounce: 50 * time.Millisecond,
		Stderr:   &bytes.Buffer{},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer func() { _ = stop() }()

	write(t, filepath.Join(dir, "main.glsl~"), "backup")
	write(t, filepath.Join(dir, ".modglsl-123.tmp"), "partial")
	expectQuiet(t, w, 300*time.Millisecond)

	write(t, filepath.Join(dir, "main.glsl"), "void main() {}\n")
	batch := receive(t, w, 5*time.Second)
	if len(batch) != 1 || filepath.Base(batch[0]) != "main.glsl" {
		t.Errorf("batch = %v, want only main.glsl", batch)
	}
}

func TestWatcherMultipleRoots(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	lib := filepath.Join(base, "lib")
	app := filepath.Join(base, "app")
	for _, d := range []string{lib, app} {
		if err := os.Mkdir(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	stderr := &bytes.Buffer{}
	w, err := New(Config{
		Roots:    []string{lib, filepath.Join(base, "missing"), app, lib},
		Patterns: []string{"**/*.glsl"},
		Debounce: 50 * time.Millisecond,
		Stderr:   stderr,
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := w.Roots(); !slices.Equal(got, []string{lib, app}) {
		t.Errorf("Roots() = %v, want [%s %s]", got, lib, app)
	}
	if !strings.Contains(stderr.String(), "missing") {
		t.Errorf("expected warning about missing root, got %q", stderr.String())
	}

	stop := startWatcher(t, w)
	defer func() { _ = stop() }()

	write(t, filepath.Join(app, "main.glsl"), "void main() {}\n")
	if batch := receive(t, w, 5*time.Second); !slices.Contains(batch, filepath.Join(app, "main.glsl")) {
		t.Errorf("batch = %v, want app/main.glsl", batch)
	}

	write(t, filepath.Join(lib, "noise.glsl"), "float n;\n")
	if batch := receive(t, w, 5*time.Second); !slices.Contains(batch, filepath.Join(lib, "noise.glsl")) {
		t.Errorf("batch = %v, want lib/noise.glsl", batch)
	}
}

func TestWatcherNewSubdirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{Roots: []string{dir}, Patterns: []string{"**/*.glsl"}, Debounce: 50 * time.Millisecond, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer func() { _ = stop() }()

	sub := filepath.Join(dir, "lighting")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)

	write(t, filepath.Join(sub, "phong.glsl"), "vec3 phong();\n")
	deadline := time.After(5 * time.Second)
	for {
		select {
		case batch := <-w.C():
			if slices.Contains(batch, filepath.Join(sub, "phong.glsl")) {
				return
			}
		case <-deadline:
			t.Fatal("never saw event from newly created directory")
		}
	}
}

func TestWatcherBatchDroppedWhenQueued(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := New(Config{Roots: []string{dir}, Debounce: 30 * time.Millisecond, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer func() { _ = stop() }()

	write(t, filepath.Join(dir, "a.glsl"), "1")
	time.Sleep(200 * time.Millisecond)
	write(t, filepath.Join(dir, "b.glsl"), "2")
	time.Sleep(200 * time.Millisecond)

	first := receive(t, w, time.Second)
	if !slices.Contains(first, filepath.Join(dir, "a.glsl")) {
		t.Errorf("first batch = %v, want a.glsl", first)
	}
	expectQuiet(t, w, 200*time.Millisecond)
}

func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(t.Context())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcherDoubleRunError(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}, Stderr: &bytes.Buffer{}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := startWatcher(t, w)
	defer func() { _ = stop() }()

	if err := w.Run(t.Context()); err == nil || !strings.Contains(err.Error(), "more than once") {
		t.Errorf("second Run() = %v, want 'more than once' error", err)
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "main.glsl")
	write(t, file, "")

	tests := []struct {
		name    string
		cfg     Config
		wantErr error
		wantMsg string
	}{
		{name: "no roots", cfg: Config{}, wantErr: ErrNoRoots},
		{name: "only missing roots", cfg: Config{Roots: []string{filepath.Join(dir, "nope")}}, wantErr: ErrNoRoots},
		{name: "root is a file", cfg: Config{Roots: []string{file}}, wantErr: ErrNoRoots},
		{name: "bad watch pattern", cfg: Config{Roots: []string{dir}, Patterns: []string{"[unclosed"}}, wantMsg: "invalid watch pattern"},
		{name: "bad ignore pattern", cfg: Config{Roots: []string{dir}, Ignore: []string{"[unclosed"}}, wantMsg: "invalid ignore pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tt.cfg.Stderr = &bytes.Buffer{}
			_, err := New(tt.cfg)
			if err == nil {
				t.Fatal("New() = nil error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("New() = %v, want %v", err, tt.wantErr)
			}
			if tt.wantMsg != "" && !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("New() = %v, want message containing %q", err, tt.wantMsg)
			}
		})
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	ignores := DefaultIgnores()
	ignores[0] = "mutated"
	if DefaultIgnores()[0] == "mutated" {
		t.Error("DefaultIgnores returned a shared slice")
	}

	cases := map[string]bool{
		".git/objects/ab":   true,
		"shaders/.git/HEAD": true,
		"main.glsl.swp":     true,
		"main.glsl~":        true,
		".modglsl-42.tmp":   true,
		"main.glsl":         false,
		"lib/noise.glsl":    false,
		"glslmodules":       false,
	}
	for rel, want := range cases {
		if got := matchAny(defaultIgnores, rel); got != want {
			t.Errorf("ignored(%q) = %v, want %v", rel, got, want)
		}
	}
}
