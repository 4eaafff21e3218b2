// SPDX-License-Identifier: MPL-2.0

// Package manifest parses module manifests: files that map module names to
// a source location or to an inline source literal.
//
// The format is chosen from the file extension:
//
//	.cue   modules: [{name: "colors", path: "colors.glsl"}]
//	.toml  [[module]] tables with name and path or source
//	.hcl   module "colors" { path = "colors.glsl" }
//	other  plain text, one "name location" pair per line
//
// Plain manifests accept '#' and '//' line comments and blank lines. A
// location is either a path token or a double-quoted Go string literal, the
// latter declaring an inline module:
//
//	# palette
//	colors  colors.glsl
//	main    main.glsl
//	tint    "vec3 tint() { return vec3(1.0, 0.5, 0.2); }\n"
//
// Parsing is strict: a malformed entry fails the whole manifest with a
// *ParseError. Problems with the locations themselves (missing files) are
// the importer's business.
package manifest
