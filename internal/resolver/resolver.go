// Package resolver implements spec.md §4.4: name/type resolution,
// kind (arity) checking, and default-value checking, turning an
// annotation-merged internal/ast.Module into a canonical
// internal/resolved.Module. It runs one module at a time, in the
// topological order internal/loader already established, so every
// name a module's imports can reach is already fully resolved and
// present in allDecls by the time that module is processed.
//
// Grounded on internal/checker/checker.go's overall Checker shape
// (local binding table, then a pass resolving every reference against
// it) and cross-checked for exact lookup-order semantics against
// original_source/rust/compiler/src/processing/resolver.rs's
// resolve_type_ref.
package resolver

import (
	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/diagnostic"
	"github.com/adl-lang/adlc/internal/resolved"
)

// docAnnotation is the well-known scoped name triple-slash doc
// comments sugar to.
var docAnnotation = resolved.ScopedName{
	ModuleName: ast.ModuleName{"sys", "annotations"},
	Name:       "Doc",
}

// sysAnnotationsModule is implicitly imported (whole-module) into
// every module except itself, mirroring the original compiler's
// add_default_imports.
var sysAnnotationsModule = ast.ModuleName{"sys", "annotations"}

// Resolver holds the shared state across a single module's
// resolution pass: the modules already fully resolved (keyed by
// dotted module name) and the running allDecls table that both this
// module's own decls get registered into and that cross-module
// references are checked against.
type Resolver struct {
	file      string
	mod       *ast.Module
	available map[string]*resolved.Module
	allDecls  map[resolved.ScopedName]*resolved.Decl
	diags     *diagnostic.Diagnostics

	localDecls map[ast.Identifier]*ast.Decl
	imports    importTable
}

// Resolve resolves a single annotation-merged module. available must
// contain every module mod (transitively) imports, already resolved.
// allDecls accumulates this module's own declarations as a side
// effect, ready for the next module in topological order to look up.
// diags receives any sidecar/import soft warnings accumulated for
// this module; it may be nil.
func Resolve(file string, mod *ast.Module, available map[string]*resolved.Module, allDecls map[resolved.ScopedName]*resolved.Decl, diags *diagnostic.Diagnostics) (*resolved.Module, error) {
	if diags == nil {
		diags = diagnostic.New()
	}
	r := &Resolver{file: file, mod: mod, available: available, allDecls: allDecls, diags: diags}

	if err := r.buildLocalDecls(); err != nil {
		return nil, err
	}
	if err := r.buildImportTable(); err != nil {
		return nil, err
	}

	modAnns, err := r.resolveAnnotations(mod.ModuleAnnotations, nil)
	if err != nil {
		return nil, err
	}

	out := &resolved.Module{
		Name:        mod.Name,
		Decls:       make(map[ast.Identifier]*resolved.Decl, len(mod.Decls)),
		DeclOrder:   make([]ast.Identifier, 0, len(mod.Decls)),
		Annotations: modAnns,
		Doc:         mod.Doc,
	}
	for _, imp := range mod.Imports {
		out.Imports = append(out.Imports, resolved.Import{
			ModuleName: imp.ModuleName,
			Wildcard:   imp.Wildcard,
			Name:       imp.Name,
			Alias:      imp.Alias,
		})
	}

	// Pass 1: resolve every type expression and annotation, without
	// checking default literals yet (defaults may reference sibling
	// decls in this same module whose own type expressions need to be
	// resolved first).
	for _, d := range mod.Decls {
		rd, err := r.resolveDecl(d)
		if err != nil {
			return nil, err
		}
		out.Decls[d.Name] = rd
		out.DeclOrder = append(out.DeclOrder, d.Name)
		allDecls[resolved.ScopedName{ModuleName: mod.Name, Name: d.Name}] = rd
	}

	// Apply standalone `annotation ref Name value;` statements now
	// that every decl/field exists in out.
	if err := r.applyStandaloneAnnotations(out); err != nil {
		return nil, err
	}

	// Invariant 4's alias half: with this module's own decls now merged
	// into allDecls, a cycle introduced entirely within this module (or
	// closed by it across modules already resolved) is detectable here.
	// It runs before pass 2, whose alias expansion relies on the alias
	// graph being acyclic.
	if msg := resolved.DetectAliasCycle(r.allDecls); msg != "" {
		line, col := mod.Pos()
		return nil, diagnostic.Errorf(diagnostic.TypeAliasCycle, r.file, line, col, "%s", msg)
	}

	// Pass 2: check default literals against their now-fully-resolved
	// types.
	for _, d := range mod.Decls {
		rd := out.Decls[d.Name]
		if err := r.checkDecl(d, rd); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func (r *Resolver) buildLocalDecls() error {
	r.localDecls = make(map[ast.Identifier]*ast.Decl, len(r.mod.Decls))
	for _, d := range r.mod.Decls {
		if _, dup := r.localDecls[d.Name]; dup {
			line, col := d.Pos()
			return diagnostic.Errorf(diagnostic.DuplicateDecl, r.file, line, col, "declaration %q already defined in module %s", d.Name, r.mod.Name)
		}
		r.localDecls[d.Name] = d
	}
	return nil
}

func (r *Resolver) resolveDecl(d *ast.Decl) (*resolved.Decl, error) {
	anns, err := r.resolveAnnotations(d.Annotations, d.TypeParams)
	if err != nil {
		return nil, err
	}
	if len(d.Doc.Lines) > 0 {
		docLit, err := ast.NewLiteral(d.Doc.String(), d.Line, d.Col)
		if err != nil {
			return nil, err
		}
		anns.Set(docAnnotation, docLit)
	}

	rd := &resolved.Decl{
		ModuleName:  r.mod.Name,
		Name:        d.Name,
		TypeParams:  d.TypeParams,
		Annotations: anns,
		Doc:         d.Doc,
	}

	switch body := d.Body.(type) {
	case *ast.StructBody:
		fields, err := r.resolveFields(body.Fields, d.TypeParams)
		if err != nil {
			return nil, err
		}
		rd.Body = &resolved.StructBody{Fields: fields}
	case *ast.UnionBody:
		fields, err := r.resolveFields(body.Fields, d.TypeParams)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			line, col := d.Pos()
			return nil, diagnostic.Errorf(diagnostic.ParseError, r.file, line, col, "union %q must declare at least one field", d.Name)
		}
		rd.Body = &resolved.UnionBody{Fields: fields}
	case *ast.TypeAliasBody:
		te, err := r.resolveTypeExpr(body.Type, d.TypeParams)
		if err != nil {
			return nil, err
		}
		if err := r.checkFreeTypeParams(te, d.TypeParams, d); err != nil {
			return nil, err
		}
		rd.Body = &resolved.TypeDefBody{Type: te}
	case *ast.NewTypeBody:
		te, err := r.resolveTypeExpr(body.Type, d.TypeParams)
		if err != nil {
			return nil, err
		}
		rd.Body = &resolved.NewTypeBody{Type: te, Default: body.Default}
	}
	return rd, nil
}

func (r *Resolver) resolveFields(fields []*ast.Field, typeParams ast.TypeParams) ([]*resolved.Field, error) {
	out := make([]*resolved.Field, 0, len(fields))
	seen := make(map[ast.Identifier]bool, len(fields))
	for _, f := range fields {
		if seen[f.Name] {
			line, col := f.Pos()
			return nil, diagnostic.Errorf(diagnostic.DuplicateDecl, r.file, line, col, "duplicate field %q", f.Name)
		}
		seen[f.Name] = true

		te, err := r.resolveTypeExpr(f.Type, typeParams)
		if err != nil {
			return nil, err
		}
		anns, err := r.resolveAnnotations(f.Annotations, typeParams)
		if err != nil {
			return nil, err
		}
		if len(f.Doc.Lines) > 0 {
			docLit, err := ast.NewLiteral(f.Doc.String(), f.Line, f.Col)
			if err != nil {
				return nil, err
			}
			anns.Set(docAnnotation, docLit)
		}
		out = append(out, &resolved.Field{
			Name:        f.Name,
			Type:        te,
			Default:     f.Default,
			Annotations: anns,
			Doc:         f.Doc,
		})
	}
	return out, nil
}

func (r *Resolver) resolveAnnotations(anns ast.Annotations, typeParams ast.TypeParams) (resolved.Annotations, error) {
	var out resolved.Annotations
	for _, a := range anns {
		sn, err := r.resolveScopedNameRef(a.Name, a.Line, a.Col)
		if err != nil {
			return nil, err
		}
		out.Set(sn, a.Value)
	}
	return out, nil
}

// checkFreeTypeParams enforces invariant: every free type variable of
// a type-alias RHS must appear in its own typeParams list.
func (r *Resolver) checkFreeTypeParams(te *resolved.TypeExpr, typeParams ast.TypeParams, d *ast.Decl) error {
	declared := make(map[ast.Identifier]bool, len(typeParams))
	for _, tp := range typeParams {
		declared[tp] = true
	}
	var walk func(t *resolved.TypeExpr) error
	walk = func(t *resolved.TypeExpr) error {
		if t == nil {
			return nil
		}
		if t.Kind == resolved.RefTypeParam && !declared[t.TypeParam] {
			line, col := d.Pos()
			return diagnostic.Errorf(diagnostic.UnknownType, r.file, line, col, "type parameter %q in alias %q is not declared by it", t.TypeParam, d.Name)
		}
		for _, p := range t.Parameters {
			if err := walk(p); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(te)
}
