// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// trailingComment matches a comment that follows a location after whitespace.
var trailingComment = regexp.MustCompile(`\s+(#|//).*$`)

func parsePlain(path string, data []byte) ([]Entry, error) {
	var entries []Entry

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		e, err := parsePlainLine(path, lineNo, line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, &ParseError{Path: path, Line: lineNo + 1, Err: err}
	}
	return entries, nil
}

func parsePlainLine(path string, lineNo int, line string) (Entry, error) {
	sep := strings.IndexFunc(line, unicode.IsSpace)
	if sep < 0 {
		return Entry{}, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("module %q has no location", line)}
	}
	name := line[:sep]
	rest := strings.TrimSpace(line[sep:])

	if !strings.HasPrefix(rest, `"`) {
		rest = trailingComment.ReplaceAllString(rest, "")
		return checkEntry(path, lineNo, "", name, &rest, nil)
	}

	quoted, err := strconv.QuotedPrefix(rest)
	if err != nil {
		return Entry{}, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("module %q: unterminated or invalid inline source", name), Err: err}
	}
	trailing := strings.TrimSpace(rest[len(quoted):])
	if trailing != "" && !strings.HasPrefix(trailing, "#") && !strings.HasPrefix(trailing, "//") {
		return Entry{}, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("module %q: unexpected text after inline source: %q", name, trailing)}
	}
	src, err := strconv.Unquote(quoted)
	if err != nil {
		return Entry{}, &ParseError{Path: path, Line: lineNo, Msg: fmt.Sprintf("module %q: invalid inline source", name), Err: err}
	}
	return checkEntry(path, lineNo, "", name, nil, &src)
}
