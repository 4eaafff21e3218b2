// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

type (
	tomlManifest struct {
		Module []tomlModule `toml:"module"`
	}

	tomlModule struct {
		Name   string  `toml:"name"`
		Path   *string `toml:"path"`
		Source *string `toml:"source"`
	}
)

func parseTOML(path string, data []byte) ([]Entry, error) {
	var doc tomlManifest
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, tomlParseError(path, err)
	}

	entries := make([]Entry, 0, len(doc.Module))
	for i, m := range doc.Module {
		e, err := checkEntry(path, 0, fmt.Sprintf("module[%d]", i), m.Name, m.Path, m.Source)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func tomlParseError(path string, err error) error {
	var strict *toml.StrictMissingError
	if errors.As(err, &strict) && len(strict.Errors) > 0 {
		first := strict.Errors[0]
		row, _ := first.Position()
		return &ParseError{Path: path, Line: row, Msg: fmt.Sprintf("unknown field %q", first.Key()), Err: err}
	}
	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, _ := de.Position()
		return &ParseError{Path: path, Line: row, Msg: de.Error(), Err: err}
	}
	return &ParseError{Path: path, Err: err}
}
