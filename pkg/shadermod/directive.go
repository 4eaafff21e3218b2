// SPDX-License-Identifier: MPL-2.0

package shadermod

import (
	"fmt"
	"regexp"
	"strings"
)

var usePattern = regexp.MustCompile(`^\s*//\s*@use\b(.*)$`)

// DirectiveError describes a malformed @use directive.
type DirectiveError struct {
	// Line is the 1-based line number of the directive.
	Line int
	// Text is the offending line, trimmed.
	Text string
	// Reason explains what is wrong with it.
	Reason string
}

// Error implements the error interface.
func (e DirectiveError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

// ScanDirectives returns the module names referenced by @use directives in
// src, in first-seen order and without duplicates, together with any
// malformed directives. Lines inside /* */ comments are skipped.
func ScanDirectives(src string) ([]string, []DirectiveError) {
	var (
		refs    []string
		errs    []DirectiveError
		seen    = make(map[string]bool)
		inBlock bool
	)

	for i, line := range strings.Split(src, "\n") {
		startsInBlock := inBlock
		inBlock = blockCommentState(line, inBlock)
		if startsInBlock {
			continue
		}

		m := usePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		lineNo := i + 1
		text := strings.TrimSpace(line)
		list := strings.TrimSpace(m[1])
		if list == "" {
			errs = append(errs, DirectiveError{Line: lineNo, Text: text, Reason: "missing module name"})
			continue
		}

		for _, part := range strings.Split(list, ",") {
			name := strings.TrimSpace(part)
			if name == "" {
				errs = append(errs, DirectiveError{Line: lineNo, Text: text, Reason: "empty module name in list"})
				continue
			}
			if err := ValidateName(name); err != nil {
				errs = append(errs, DirectiveError{Line: lineNo, Text: text, Reason: fmt.Sprintf("invalid module name %q", name)})
				continue
			}
			if seen[name] {
				continue
			}
			seen[name] = true
			refs = append(refs, name)
		}
	}

	return refs, errs
}

// blockCommentState returns whether a /* */ comment is still open at the end
// of line, given whether one was open at its start. Text after // is ignored.
func blockCommentState(line string, open bool) bool {
	for i := 0; i < len(line)-1; i++ {
		pair := line[i : i+2]
		if open {
			if pair == "*/" {
				open = false
				i++
			}
			continue
		}
		switch pair {
		case "//":
			return false
		case "/*":
			open = true
			i++
		}
	}
	return open
}
