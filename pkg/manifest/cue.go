// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/invowk/modglsl/pkg/cueutil"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

type (
	cueManifest struct {
		Modules []cueModule `json:"modules"`
	}

	cueModule struct {
		Name   string  `json:"name"`
		Path   *string `json:"path,omitempty"`
		Source *string `json:"source,omitempty"`
	}
)

func parseCUE(path string, data []byte) ([]Entry, error) {
	doc, err := cueutil.Decode[cueManifest](manifestSchema, "#Manifest", data, cueutil.WithFilename(path))
	if err != nil {
		return nil, &ParseError{Path: path, Msg: strings.TrimPrefix(err.Error(), path+": "), Err: err}
	}

	entries := make([]Entry, 0, len(doc.Modules))
	for i, m := range doc.Modules {
		e, err := checkEntry(path, 0, fmt.Sprintf("modules[%d]", i), m.Name, m.Path, m.Source)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}
