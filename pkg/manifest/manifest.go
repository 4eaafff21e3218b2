// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/invowk/modglsl/pkg/shadermod"
)

const (
	// FormatPlain is the line-oriented "name location" format.
	FormatPlain Format = "plain"
	// FormatCUE is a CUE document validated against the #Manifest schema.
	FormatCUE Format = "cue"
	// FormatTOML is a TOML document of [[module]] tables.
	FormatTOML Format = "toml"
	// FormatHCL is an HCL document of module blocks.
	FormatHCL Format = "hcl"
)

var (
	// ErrInvalidManifest is the sentinel error wrapped by ParseError.
	ErrInvalidManifest = errors.New("invalid manifest")
	// ErrUnknownFormat is returned by ParseFormat for an unsupported Format.
	ErrUnknownFormat = errors.New("unknown manifest format")
)

type (
	// Format identifies a manifest syntax.
	Format string

	// Entry is one declared module.
	Entry struct {
		// Name is the module name.
		Name string
		// Path is the source location for file-backed modules.
		Path string
		// Source is the literal body of an inline module.
		Source string
		// Inline is true when the entry carries Source instead of Path.
		Inline bool
		// Line is the 1-based line of the declaration, or 0 when the format
		// does not expose positions.
		Line int
	}

	// ParseError describes a malformed manifest. It wraps ErrInvalidManifest
	// and, when present, the underlying decoder error.
	ParseError struct {
		Path string
		Line int
		Msg  string
		Err  error
	}
)

// FormatFor picks the manifest format from path's extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cue":
		return FormatCUE
	case ".toml":
		return FormatTOML
	case ".hcl":
		return FormatHCL
	default:
		return FormatPlain
	}
}

// Parse decodes data using the format implied by path.
func Parse(path string, data []byte) ([]Entry, error) {
	return ParseFormat(FormatFor(path), path, data)
}

// ParseFormat decodes data as format f. path is used for error messages.
func ParseFormat(f Format, path string, data []byte) ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)
	switch f {
	case FormatPlain:
		entries, err = parsePlain(path, data)
	case FormatCUE:
		entries, err = parseCUE(path, data)
	case FormatTOML:
		entries, err = parseTOML(path, data)
	case FormatHCL:
		entries, err = parseHCL(path, data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Location returns the entry's path, or "inline" for inline entries.
func (e Entry) Location() string {
	if e.Inline {
		return shadermod.OriginInline
	}
	return e.Path
}

// Error implements the error interface for ParseError.
func (e *ParseError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Path)
	if e.Line > 0 {
		fmt.Fprintf(&sb, ":%d", e.Line)
	}
	sb.WriteString(": ")
	if e.Msg == "" && e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString(e.Msg)
	}
	return sb.String()
}

// Unwrap returns ErrInvalidManifest and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidManifest}
	}
	return []error{ErrInvalidManifest, e.Err}
}

// checkEntry applies the rules shared by all formats: a valid name and
// exactly one of path or source. where prefixes error messages for formats
// without line positions.
func checkEntry(path string, line int, where, name string, p, src *string) (Entry, error) {
	fail := func(msg string, err error) (Entry, error) {
		if where != "" {
			msg = where + ": " + msg
		}
		return Entry{}, &ParseError{Path: path, Line: line, Msg: msg, Err: err}
	}
	if err := shadermod.ValidateName(name); err != nil {
		return fail(err.Error(), err)
	}
	switch {
	case p != nil && src != nil:
		return fail(fmt.Sprintf("module %q: path and source are mutually exclusive", name), nil)
	case p == nil && src == nil:
		return fail(fmt.Sprintf("module %q: one of path or source is required", name), nil)
	case p != nil:
		if strings.TrimSpace(*p) == "" {
			return fail(fmt.Sprintf("module %q: empty path", name), nil)
		}
		return Entry{Name: name, Path: *p, Line: line}, nil
	default:
		return Entry{Name: name, Source: *src, Inline: true, Line: line}, nil
	}
}
