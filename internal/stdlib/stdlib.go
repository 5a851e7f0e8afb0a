// Package stdlib embeds the ADL standard library modules that spec.md
// §6 requires be "always on the search path": sys.types, sys.adlast,
// sys.annotations, and sys.dynamic. They are bundled into the compiler
// binary via go:embed rather than shipped as loose files next to it,
// grounded on teranos-QNTX's embed_prod.go pattern for bundling static
// assets directly into a service binary.
package stdlib

import (
	"embed"
	"strings"
)

//go:embed adl/sys/*.adl
var files embed.FS

// Modules maps each standard-library module's dotted name (e.g.
// "sys.types") to its embedded ADL source text.
var Modules map[string]string

func init() {
	entries, err := files.ReadDir("adl/sys")
	if err != nil {
		panic(err)
	}
	Modules = make(map[string]string, len(entries))
	for _, e := range entries {
		data, err := files.ReadFile("adl/sys/" + e.Name())
		if err != nil {
			panic(err)
		}
		name := "sys." + strings.TrimSuffix(e.Name(), ".adl")
		Modules[name] = string(data)
	}
}

// Lookup returns the embedded source for a standard-library module
// name, and whether it exists. The module loader consults this before
// ever touching the filesystem, per spec.md §6: sys.* names never
// resolve to a file on the configured search path.
func Lookup(moduleName string) (string, bool) {
	src, ok := Modules[moduleName]
	return src, ok
}
