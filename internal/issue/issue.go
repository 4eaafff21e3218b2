// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
)

const (
	ManifestReadId Id = iota + 1
	ManifestParseId
	ModuleReadId
	DuplicateModuleId
	ModuleNotFoundId
	CyclicDependencyId
	DirectiveSyntaxId
	BuildFailedId
	ConfigLoadFailedId
	OutputWriteFailedId
)

type (
	Id int

	MarkdownMsg string

	// Issue is a catalog entry with Markdown guidance for one kind of failure.
	Issue struct {
		id    Id
		name  string // matches the error kind reported by the builder
		mdMsg MarkdownMsg
	}
)

func (i *Issue) Id() Id {
	return i.id
}

// Name is the machine-readable kind, e.g. "module_not_found".
func (i *Issue) Name() string {
	return i.name
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render formats the guidance for a terminal. style is a glamour style
// name ("dark", "light", "notty", "auto") or a path to a JSON style file.
func (i *Issue) Render(style string) (string, error) {
	return render(string(i.mdMsg), style)
}

var (
	render = glamour.Render

	manifestReadIssue = &Issue{
		id:   ManifestReadId,
		name: "manifest_read",
		mdMsg: `
# Manifest not found

The manifest could not be opened. It is looked up as given first, then inside
each include directory in order.

## Things you can try:
- Check the manifest name:
~~~
$ modglsl build --manifest shaders/glslmodules
~~~
- Register the directory that holds it:
~~~
$ modglsl build -I ./shaders/
~~~
- Run ` + "`modglsl config show`" + ` to see the effective include_dirs and manifest`,
	}

	manifestParseIssue = &Issue{
		id:   ManifestParseId,
		name: "manifest_parse",
		mdMsg: `
# Malformed manifest

A manifest entry could not be parsed, so nothing from this manifest was
imported and the previously imported modules are kept.

## Formats
Plain manifests have one entry per line:
~~~
# name    location
colors    colors.glsl
tint      "vec3 tint() { return vec3(1.0); }\n"
~~~
Manifests ending in .cue, .toml or .hcl use those syntaxes with the fields
name, path and source. Every entry needs exactly one of path or source.

## Things you can try:
- Go to the line named in the error
- Make sure module names start with a letter or underscore`,
	}

	moduleReadIssue = &Issue{
		id:   ModuleReadId,
		name: "module_read",
		mdMsg: `
# Module file not found

A manifest entry points at a file that does not exist in any include
directory or next to the manifest. The other entries were imported.

## Things you can try:
- Check the path in the manifest entry
- Add the directory that holds the file with -I
- Include directories are searched in order; the first match wins`,
	}

	duplicateModuleIssue = &Issue{
		id:   DuplicateModuleId,
		name: "duplicate_module",
		mdMsg: `
# Duplicate module name

The same module name is declared twice with different locations. The first
declaration is used and the later one is ignored.

## Things you can try:
- Rename one of the modules
- Remove the stale entry from the manifest`,
	}

	moduleNotFoundIssue = &Issue{
		id:   ModuleNotFoundId,
		name: "module_not_found",
		mdMsg: `
# Module not found

The target, or a module referenced with ` + "`// @use`" + `, is not in the manifest.
The last successful output is kept.

## Things you can try:
- Add the module to the manifest
- Check the spelling; module names are case-sensitive
- List what was imported:
~~~
$ modglsl graph --all
~~~`,
	}

	cyclicDependencyIssue = &Issue{
		id:   CyclicDependencyId,
		name: "cyclic_dependency",
		mdMsg: `
# Cyclic module references

Modules reference each other in a loop, so there is no order in which they
can be concatenated. No output was produced for this build.

## Things you can try:
- Follow the cycle printed in the error, e.g. ` + "`a -> b -> a`" + `
- Move the shared declarations into a new module that both can ` + "`@use`",
	}

	directiveSyntaxIssue = &Issue{
		id:   DirectiveSyntaxId,
		name: "directive_syntax",
		mdMsg: `
# Malformed @use directive

A module reachable from the target has a ` + "`// @use`" + ` line without module names
or with an invalid name.

## Syntax
~~~glsl
// @use colors, lighting
~~~
Directives inside /* */ comments are ignored.`,
	}

	buildFailedIssue = &Issue{
		id:   BuildFailedId,
		name: "build",
		mdMsg: `
# Build failed

The target could not be assembled. The wrapped error names the cause; the
previous output stays in place while watching.

## Things you can try:
- Run with --verbose to see the full error chain
- Run ` + "`modglsl explain <kind>`" + ` for the kind shown in the error`,
	}

	configLoadFailedIssue = &Issue{
		id:   ConfigLoadFailedId,
		name: "config",
		mdMsg: `
# Configuration could not be loaded

The config file failed CUE validation or an environment variable or flag has
an invalid value.

## Things you can try:
- Show the effective configuration:
~~~
$ modglsl config show
~~~
- Generate a fresh file to compare with:
~~~
$ modglsl config init --path /tmp/modglsl.cue
~~~`,
	}

	outputWriteFailedIssue = &Issue{
		id:   OutputWriteFailedId,
		name: "output_write",
		mdMsg: `
# Output could not be written

The assembled source could not be written to the output file.

## Things you can try:
- Check that the directory exists and is writable
- Pass a different path with --output`,
	}

	issues = map[Id]*Issue{
		manifestReadIssue.Id():      manifestReadIssue,
		manifestParseIssue.Id():     manifestParseIssue,
		moduleReadIssue.Id():        moduleReadIssue,
		duplicateModuleIssue.Id():   duplicateModuleIssue,
		moduleNotFoundIssue.Id():    moduleNotFoundIssue,
		cyclicDependencyIssue.Id():  cyclicDependencyIssue,
		directiveSyntaxIssue.Id():   directiveSyntaxIssue,
		buildFailedIssue.Id():       buildFailedIssue,
		configLoadFailedIssue.Id():  configLoadFailedIssue,
		outputWriteFailedIssue.Id(): outputWriteFailedIssue,
	}
)

// Values returns every issue ordered by Id.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, id := range slices.Sorted(maps.Keys(issues)) {
		out = append(out, issues[id])
	}
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}

// Lookup finds an issue by name, ignoring case and treating '-' as '_'.
func Lookup(name string) (*Issue, bool) {
	name = strings.ReplaceAll(strings.ToLower(name), "-", "_")
	for _, i := range issues {
		if i.name == name {
			return i, true
		}
	}
	return nil, false
}
