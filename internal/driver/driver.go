// Package driver defines the backend driver interface of spec.md §4.7:
// the contract a code-generation backend is handed once a LoadedAdl is
// fully resolved. It supplies ordered iteration over modules and decls,
// a total ScopedName resolver, package-path mapping, and annotation
// accessor convenience methods — everything a backend needs without
// ever touching internal/resolver or internal/loader directly.
//
// Grounded on the teacher's internal/backend/backend.go (the Backend
// interface shape) and internal/compiler/target.go's getBackend /
// EmitToTarget dispatch, generalised from Intent's IR-node backends to
// ADL's resolved-decl backends.
package driver

import (
	"fmt"
	"strings"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/filewriter"
	"github.com/adl-lang/adlc/internal/resolved"
)

// PackageMapping maps a module name to the backend-specific package
// path its generated code should live under. RootPackage is used for
// any module with no entry in PerModule.
type PackageMapping struct {
	RootPackage string
	PerModule   map[string]string
}

// PackageFor returns the mapped package path for mod, falling back to
// RootPackage joined with the module's path (dots replaced by slashes)
// when no explicit override is configured, or to the plain dotted
// module name when RootPackage is empty.
func (m PackageMapping) PackageFor(mod ast.ModuleName) string {
	key := mod.String()
	if p, ok := m.PerModule[key]; ok {
		return p
	}
	if m.RootPackage == "" {
		return key
	}
	return m.RootPackage + "/" + strings.ReplaceAll(key, ".", "/")
}

// Backend is the contract every code-generation target implements.
// Emit is handed a fully populated Context and writes whatever files
// it produces through ctx.Writer.
type Backend interface {
	// Name identifies the backend for CLI selection and log messages.
	Name() string
	// Emit generates output for every module in ctx.Loaded.Modules.
	Emit(ctx *Context) error
}

// Context is everything a Backend needs to generate output for one
// compiler invocation.
type Context struct {
	Loaded   *resolved.LoadedAdl
	Packages PackageMapping
	Writer   *filewriter.Writer
}

// Resolve is the "total function ScopedName -> Decl that errors on
// unknown names" spec.md §3 requires LoadedAdl's resolver to be,
// exposed through the driver context so backends never reach past it
// into internal/resolved directly.
func (c *Context) Resolve(sn resolved.ScopedName) (*resolved.Decl, error) {
	return c.Loaded.Resolve(sn)
}

// Modules returns every loaded module in topological (dependencies
// first) order.
func (c *Context) Modules() []*resolved.Module {
	return c.Loaded.Modules
}

// Annotation returns the literal attached to d under name, if any.
func Annotation(d *resolved.Decl, name resolved.ScopedName) (*ast.Literal, bool) {
	return d.Annotations.Get(name)
}

// StringAnnotation returns the string value of the annotation named by
// name on d, if present and JSON-decodes to a string.
func StringAnnotation(d *resolved.Decl, name resolved.ScopedName) (string, bool) {
	lit, ok := Annotation(d, name)
	if !ok {
		return "", false
	}
	s, ok := lit.Value.(string)
	return s, ok
}

// BoolAnnotation returns the bool value of the annotation named by
// name on d, if present and JSON-decodes to a bool.
func BoolAnnotation(d *resolved.Decl, name resolved.ScopedName) (bool, bool) {
	lit, ok := Annotation(d, name)
	if !ok {
		return false, false
	}
	b, ok := lit.Value.(bool)
	return b, ok
}

// DocString returns the sys.annotations.Doc text attached to d, if any.
func DocString(d *resolved.Decl) (string, bool) {
	return StringAnnotation(d, resolved.ScopedName{
		ModuleName: ast.ModuleName{"sys", "annotations"},
		Name:       "Doc",
	})
}

// Registry maps a backend's Name() to itself, grounded on the
// teacher's internal/compiler/target.go getBackend lookup.
type Registry struct {
	backends map[string]Backend
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

// Register adds b under b.Name(), overwriting any previous
// registration under the same name.
func (r *Registry) Register(b Backend) {
	r.backends[b.Name()] = b
}

// Get returns the backend registered under name.
func (r *Registry) Get(name string) (Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("driver: unknown backend %q", name)
	}
	return b, nil
}

// EmitTo resolves name to a registered backend and runs it against
// ctx, mirroring the teacher's EmitToTarget entry point.
func (r *Registry) EmitTo(name string, ctx *Context) error {
	b, err := r.Get(name)
	if err != nil {
		return err
	}
	return b.Emit(ctx)
}
