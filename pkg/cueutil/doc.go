// SPDX-License-Identifier: MPL-2.0

// Package cueutil decodes CUE documents against an embedded schema.
//
// Both the .cue manifest format and the modglsl configuration file go through
// the same three steps:
//
//  1. Compile the embedded schema and look up its root definition
//  2. Compile the user document and unify it with that definition
//  3. Validate and decode into a Go value
//
// Errors carry the file name and a JSON-style path to the offending value,
// e.g. "shaders.cue: modules[2].name: invalid value".
package cueutil
