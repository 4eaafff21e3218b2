// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

var hclManifestSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "module", LabelNames: []string{"name"}},
	},
}

type hclModule struct {
	Path   *string `hcl:"path,optional"`
	Source *string `hcl:"source,optional"`
}

func parseHCL(path string, data []byte) ([]Entry, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, hclParseError(path, diags)
	}

	content, diags := file.Body.Content(hclManifestSchema)
	if diags.HasErrors() {
		return nil, hclParseError(path, diags)
	}

	entries := make([]Entry, 0, len(content.Blocks))
	for _, blk := range content.Blocks {
		var m hclModule
		if diags := gohcl.DecodeBody(blk.Body, nil, &m); diags.HasErrors() {
			return nil, hclParseError(path, diags)
		}
		e, err := checkEntry(path, blk.DefRange.Start.Line, "", blk.Labels[0], m.Path, m.Source)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func hclParseError(path string, diags hcl.Diagnostics) error {
	pe := &ParseError{Path: path, Err: diags}
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		pe.Msg = d.Summary
		if d.Detail != "" {
			pe.Msg += ": " + d.Detail
		}
		if d.Subject != nil {
			pe.Line = d.Subject.Start.Line
		}
		break
	}
	return pe
}
