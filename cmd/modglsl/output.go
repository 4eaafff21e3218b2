// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/invowk/modglsl/internal/issue"
)

// writeOutput replaces path with text atomically: the text is written to a
// temp file in the same directory which is then renamed over path, so
// readers never see a partial shader.
func writeOutput(path, text string) (err error) {
	fail := func(cause error) error {
		return issue.NewErrorContext().
			WithOperation("write shader").
			WithResource(path).
			WithSuggestion("Check that the output directory exists and is writable").
			WithSuggestion("Run 'modglsl explain output_write' for details").
			Wrap(cause).
			BuildError()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".modglsl-*.tmp")
	if err != nil {
		return fail(err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.WriteString(text); err != nil {
		_ = tmp.Close()
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		return fail(err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fail(err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fail(fmt.Errorf("replace output: %w", err))
	}
	return nil
}
