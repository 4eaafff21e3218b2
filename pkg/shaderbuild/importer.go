// SPDX-License-Identifier: MPL-2.0

package shaderbuild

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/invowk/modglsl/pkg/manifest"
	"github.com/invowk/modglsl/pkg/shadermod"
)

// ImportModulesFromFile reads the manifest at path and loads every entry into
// the store.
//
// path is used as given when it exists; otherwise each include directory is
// searched for it. Relative module paths are looked up in the include
// directories first and then next to the manifest.
//
// Only a manifest that cannot be read or parsed yields a non-nil error, and
// then the store is left untouched. Per-entry failures are logged and
// collected in ImportResult.Errors while the remaining entries are imported.
func (b *Builder) ImportModulesFromFile(path string) (ImportResult, error) {
	res := ImportResult{Manifest: path}

	resolved, entries, err := b.loadManifest(path)
	if err != nil {
		b.logf("%v", err)
		return res, err
	}
	res.Manifest = resolved
	manifestDir := filepath.Dir(resolved)

	declared := make(map[string]manifest.Entry, len(entries))
	for _, e := range entries {
		if first, ok := declared[e.Name]; ok {
			if first.Path == e.Path && first.Source == e.Source && first.Inline == e.Inline {
				b.logf("%s:%d: module %q declared twice, ignoring repeat", resolved, e.Line, e.Name)
				continue
			}
			dupErr := &DuplicateModuleError{Name: e.Name, First: first.Location(), Second: e.Location(), Line: e.Line}
			b.logf("%s: %v", resolved, dupErr)
			res.Errors = append(res.Errors, dupErr)
			continue
		}
		declared[e.Name] = e

		m, err := b.loadEntry(e, manifestDir)
		if err != nil {
			b.logf("%s: %v", resolved, err)
			res.Errors = append(res.Errors, err)
			continue
		}
		if b.store.Put(m) {
			res.Updated++
		}
		res.Imported++
	}

	if res.Updated > 0 || len(res.Errors) > 0 {
		b.logf("imported %d modules from %s (%d updated, %d errors)", res.Imported, resolved, res.Updated, len(res.Errors))
	}
	return res, nil
}

// loadManifest locates, reads and parses the manifest, reusing the previous
// parse when the file signature is unchanged.
func (b *Builder) loadManifest(path string) (string, []manifest.Entry, error) {
	resolved, info, err := b.findManifest(path)
	if err != nil {
		return "", nil, &ManifestReadError{Path: path, Err: err}
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return "", nil, &ManifestReadError{Path: resolved, Err: err}
	}
	sig := shadermod.Sign(data, info.ModTime())

	if cached, ok := b.manifests[resolved]; ok && cached.sig.Equal(sig, shadermod.SignatureStrict) {
		return resolved, cached.entries, nil
	}

	entries, err := manifest.Parse(resolved, data)
	if err != nil {
		return "", nil, &ManifestParseError{Path: resolved, Err: err}
	}
	b.manifests[resolved] = &parsedManifest{sig: sig, entries: entries}
	return resolved, entries, nil
}

func (b *Builder) findManifest(path string) (string, fs.FileInfo, error) {
	info, err := os.Stat(path)
	if err == nil {
		if info.IsDir() {
			return "", nil, fmt.Errorf("%s is a directory", path)
		}
		return path, info, nil
	}
	if filepath.IsAbs(path) || !errors.Is(err, fs.ErrNotExist) {
		return "", nil, err
	}

	for _, dir := range b.includeDirs {
		candidate := filepath.Join(dir, path)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, info, nil
		}
	}
	return "", nil, fmt.Errorf("not found in working directory or include directories [%s]: %w",
		strings.Join(b.includeDirs, ", "), fs.ErrNotExist)
}

func (b *Builder) loadEntry(e manifest.Entry, manifestDir string) (*shadermod.Module, error) {
	if e.Inline {
		return shadermod.New(e.Name, e.Source, shadermod.OriginInline, shadermod.SignString(e.Source)), nil
	}

	path, info, err := b.locateModule(e.Path, manifestDir)
	if err != nil {
		return nil, &ModuleReadError{Name: e.Name, Path: e.Path, Line: e.Line, Err: err}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ModuleReadError{Name: e.Name, Path: path, Line: e.Line, Err: err}
	}
	return shadermod.New(e.Name, string(data), path, shadermod.Sign(data, info.ModTime())), nil
}

// locateModule returns the first existing regular file for rel across the
// include directories and then manifestDir.
func (b *Builder) locateModule(rel, manifestDir string) (string, fs.FileInfo, error) {
	if filepath.IsAbs(rel) {
		info, err := os.Stat(rel)
		if err != nil {
			return "", nil, err
		}
		return rel, info, nil
	}

	searched := make([]string, 0, len(b.includeDirs)+1)
	for _, dir := range append(b.IncludeDirs(), manifestDir) {
		candidate := filepath.Join(dir, rel)
		if slices.Contains(searched, candidate) {
			continue
		}
		searched = append(searched, candidate)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, info, nil
		}
	}
	return "", nil, fmt.Errorf("searched %s: %w", strings.Join(searched, ", "), fs.ErrNotExist)
}
