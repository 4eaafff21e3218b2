// SPDX-License-Identifier: MPL-2.0

// Package shaderbuild assembles shader source from named modules.
//
// A Builder owns a module store, an ordered list of include directories, a
// per-target cache of build records and an optional log sink. The intended
// use is a polling loop:
//
//	b := shaderbuild.New()
//	b.AddIncludeDir("./shaders/")
//	b.RegisterLogCallback(func(msg string) { fmt.Println(msg) })
//	b.ImportModulesFromFile("glslmodules")
//	text, err := b.Build("main")
//	for {
//		b.ImportModulesFromFile("glslmodules")
//		text, changed, err := b.HotRebuild("main")
//		...
//	}
//
// Import refreshes the store and is cheap when the manifest did not change.
// HotRebuild compares the signatures of the target's current dependency
// closure with those recorded at the last successful build and only
// re-concatenates when they differ. Failures never discard the last good
// output.
//
// A Builder is single-threaded: it starts no goroutines and is not safe for
// concurrent use.
package shaderbuild
