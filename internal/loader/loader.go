// Package loader implements spec.md §4.2: turning a set of root .adl
// files into a fully resolved internal/resolved.LoadedAdl. It parses a
// module, discovers and merges its sidecars, recurses into its imports,
// then resolves it — each module visited exactly once, in an order
// that guarantees every import is fully resolved before its importer
// is resolved.
//
// Grounded on the teacher's (now-removed) internal/compiler/registry.go,
// whose BFS-over-dependencies-plus-cycle-detecting-topological-sort
// shape this package generalises from Intent's flat target registry to
// ADL's module-import graph; in-progress/done per-module state is
// additionally cross-checked against
// original_source/rust/compiler/src/processing/resolver.rs's module
// discovery loop.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/diagnostic"
	"github.com/adl-lang/adlc/internal/parser"
	"github.com/adl-lang/adlc/internal/resolved"
	"github.com/adl-lang/adlc/internal/resolver"
	"github.com/adl-lang/adlc/internal/sidecar"
	"github.com/adl-lang/adlc/internal/stdlib"
)

// sysAnnotationsModule is implicitly loaded for every module except
// itself, mirroring the original compiler's add_default_imports:
// internal/resolver's wildcard-injection into every module's import
// table only takes effect once sys.annotations is actually present in
// available, which requires it to have been loaded here first.
var sysAnnotationsModule = ast.ModuleName{"sys", "annotations"}

// Options configures a Loader.
type Options struct {
	// SearchPath is the ordered list of directories consulted to locate
	// a non-stdlib module's .adl file, first hit wins.
	SearchPath []string
	// MergeExtensions lists sidecar suffixes to merge onto every parsed
	// module, in search-path (precedence) order.
	MergeExtensions []string
}

type moduleState int

const (
	unseen moduleState = iota
	inProgress
	done
)

// Loader walks the module-import graph rooted at a set of entry
// modules, parsing, sidecar-merging, and resolving each exactly once.
type Loader struct {
	opts  Options
	diags *diagnostic.Diagnostics

	state     map[string]moduleState
	available map[string]*resolved.Module
	allDecls  map[resolved.ScopedName]*resolved.Decl
	order     []*resolved.Module

	// path remembers which .adl file backed a module, for error
	// messages and Resolve's own diagnostics.
	path map[string]string
	// stack tracks the in-progress import chain, for cycle reporting.
	stack []string
}

// New returns a Loader configured with opts. diags accumulates sidecar
// soft-warnings across every module visited; it may be nil.
func New(opts Options, diags *diagnostic.Diagnostics) *Loader {
	if diags == nil {
		diags = diagnostic.New()
	}
	return &Loader{
		opts:      opts,
		diags:     diags,
		state:     make(map[string]moduleState),
		available: make(map[string]*resolved.Module),
		allDecls:  make(map[resolved.ScopedName]*resolved.Decl),
		path:      make(map[string]string),
	}
}

// LoadFile parses the .adl file at path as a root module and loads its
// full transitive import closure into the Loader; LoadedAdl returns
// the accumulated result. It may be called multiple times on the same
// Loader to load several root files into one shared LoadedAdl.
func (l *Loader) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return diagnostic.Errorf(diagnostic.FileNotFound, path, 0, 0, "reading module: %v", err)
	}
	mod, err := parser.Parse(path, string(data))
	if err != nil {
		return err
	}
	return l.loadModule(mod.Name, path, mod)
}

// LoadModule loads modName (and its transitive imports) by locating it
// on the search path (or the stdlib), if it has not already been
// loaded. This is the entry point import resolution recurses through.
func (l *Loader) LoadModule(modName ast.ModuleName) error {
	key := modName.String()
	switch l.state[key] {
	case done:
		return nil
	case inProgress:
		return l.cycleError(key)
	}

	if src, ok := stdlib.Lookup(key); ok {
		mod, err := parser.Parse("<stdlib>/"+key+".adl", src)
		if err != nil {
			return err
		}
		return l.loadModule(modName, "<stdlib>/"+key+".adl", mod)
	}

	path, err := l.findOnSearchPath(modName)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return diagnostic.Errorf(diagnostic.FileNotFound, path, 0, 0, "reading module %s: %v", key, err)
	}
	mod, err := parser.Parse(path, string(data))
	if err != nil {
		return err
	}
	return l.loadModule(modName, path, mod)
}

func (l *Loader) loadModule(modName ast.ModuleName, path string, mod *ast.Module) error {
	key := modName.String()
	if mod.Name.String() != key {
		line, col := mod.Pos()
		return diagnostic.Errorf(diagnostic.ParseError, path, line, col,
			"file declares module %q but was loaded as %q", mod.Name, modName)
	}

	l.state[key] = inProgress
	l.stack = append(l.stack, key)
	l.path[key] = path

	if len(l.opts.MergeExtensions) > 0 {
		if err := sidecar.Merge(mod, path, l.opts.MergeExtensions, l.diags); err != nil {
			return err
		}
	}

	if key != sysAnnotationsModule.String() {
		if err := l.LoadModule(sysAnnotationsModule); err != nil {
			return err
		}
	}

	for _, imp := range mod.Imports {
		if err := l.LoadModule(imp.ModuleName); err != nil {
			return err
		}
	}

	resolvedMod, err := resolver.Resolve(path, mod, l.available, l.allDecls, l.diags)
	if err != nil {
		return err
	}

	l.available[key] = resolvedMod
	l.order = append(l.order, resolvedMod)
	l.stack = l.stack[:len(l.stack)-1]
	l.state[key] = done
	return nil
}

func (l *Loader) cycleError(key string) error {
	start := 0
	for i, s := range l.stack {
		if s == key {
			start = i
			break
		}
	}
	cycle := append(append([]string{}, l.stack[start:]...), key)
	path := l.path[l.stack[len(l.stack)-1]]
	return diagnostic.Errorf(diagnostic.ImportCycle, path, 0, 0, "import cycle: %s", strings.Join(cycle, " -> "))
}

// findOnSearchPath checks each configured search directory in order
// for modName's dotted-path-as-slashes .adl file; first hit wins, per
// SPEC_FULL.md §4.2.
func (l *Loader) findOnSearchPath(modName ast.ModuleName) (string, error) {
	rel := filepath.Join(strings.Split(modName.String(), ".")...) + ".adl"
	for _, dir := range l.opts.SearchPath {
		candidate := filepath.Join(dir, rel)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", diagnostic.Errorf(diagnostic.ModuleNotFound, rel, 0, 0, "module %q not found on search path", modName)
}

// LoadedAdl returns the accumulated result: every module loaded so
// far, in topological (dependencies-first) order.
func (l *Loader) LoadedAdl() *resolved.LoadedAdl {
	return &resolved.LoadedAdl{Modules: l.order, AllDecls: l.allDecls}
}

// Diagnostics returns the soft-warning accumulator shared across every
// module this Loader has processed.
func (l *Loader) Diagnostics() *diagnostic.Diagnostics {
	return l.diags
}
