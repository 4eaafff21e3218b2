// SPDX-License-Identifier: MPL-2.0

// Package shadermod holds the module store: named fragments of shader source,
// their origin, a comparable content signature and the module references
// declared in their bodies.
//
// A module references another module with a line comment of the form
//
//	// @use colors, noise
//
// so bodies stay valid GLSL and can be concatenated verbatim. References are
// scanned once, when the module is created, and kept on the Module value.
//
// Modules are immutable once stored. Re-importing a name swaps the stored
// pointer, so readers never observe a partially updated module.
package shadermod
