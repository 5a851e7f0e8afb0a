package resolver

import (
	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/diagnostic"
	"github.com/adl-lang/adlc/internal/resolved"
)

// importTable is the per-module view built from §4.4 step 2: single
// (possibly aliased) scoped imports keyed by the local name they bind,
// plus the ordered list of whole-module wildcard imports consulted in
// source order as a fallback.
type importTable struct {
	single    map[ast.Identifier]resolved.ScopedName
	wildcards []ast.ModuleName
}

func (r *Resolver) buildImportTable() error {
	r.imports = importTable{single: make(map[ast.Identifier]resolved.ScopedName)}

	for _, imp := range r.mod.Imports {
		modKey := imp.ModuleName.String()
		target, ok := r.available[modKey]
		if !ok {
			line, col := imp.Pos()
			return diagnostic.Errorf(diagnostic.UnknownImport, r.file, line, col, "unknown module %q", imp.ModuleName)
		}
		if imp.Wildcard {
			r.imports.wildcards = append(r.imports.wildcards, imp.ModuleName)
			continue
		}
		if _, ok := target.Decls[imp.Name]; !ok {
			line, col := imp.Pos()
			return diagnostic.Errorf(diagnostic.UnknownImport, r.file, line, col, "module %q has no declaration %q", imp.ModuleName, imp.Name)
		}
		local := imp.Name
		if imp.Alias != "" {
			local = imp.Alias
		}
		r.imports.single[local] = resolved.ScopedName{ModuleName: imp.ModuleName, Name: imp.Name}
	}

	// Every module except sys.annotations itself implicitly sees it as
	// a whole-module import, so triple-slash docs and the handful of
	// other sys.annotations entries resolve without an explicit import.
	if r.mod.Name.String() != sysAnnotationsModule.String() {
		if _, ok := r.available[sysAnnotationsModule.String()]; ok {
			r.imports.wildcards = append([]ast.ModuleName{sysAnnotationsModule}, r.imports.wildcards...)
		}
	}
	return nil
}

// resolveScopedNameRef resolves a possibly-qualified name written in
// source (an annotation name, or the head of a type expression when
// it already carries an explicit module qualifier) into a canonical
// resolved.ScopedName, without any arity checking.
func (r *Resolver) resolveScopedNameRef(name ast.ScopedName, line, col int) (resolved.ScopedName, error) {
	if len(name.ModuleName) > 0 {
		target, ok := r.available[name.ModuleName.String()]
		if !ok {
			return resolved.ScopedName{}, diagnostic.Errorf(diagnostic.UnknownType, r.file, line, col, "unknown module %q", name.ModuleName)
		}
		if _, ok := target.Decls[name.Name]; !ok {
			return resolved.ScopedName{}, diagnostic.Errorf(diagnostic.UnknownType, r.file, line, col, "module %q has no declaration %q", name.ModuleName, name.Name)
		}
		return resolved.ScopedName{ModuleName: name.ModuleName, Name: name.Name}, nil
	}

	if _, ok := r.localDecls[name.Name]; ok {
		return resolved.ScopedName{ModuleName: r.mod.Name, Name: name.Name}, nil
	}
	if sn, ok := r.imports.single[name.Name]; ok {
		return sn, nil
	}
	for _, wm := range r.imports.wildcards {
		if target, ok := r.available[wm.String()]; ok {
			if _, ok := target.Decls[name.Name]; ok {
				return resolved.ScopedName{ModuleName: wm, Name: name.Name}, nil
			}
		}
	}
	return resolved.ScopedName{}, diagnostic.Errorf(diagnostic.UnknownType, r.file, line, col, "unknown name %q", name.Name)
}

// resolveTypeExpr resolves one node of a raw type expression plus its
// parameters, per the lookup order in SPEC_FULL.md §4.4: enclosing
// decl's type params -> primitive table -> local decls -> imports
// (single then wildcard). Also performs the arity (kind) check for
// this node.
func (r *Resolver) resolveTypeExpr(te *ast.TypeExpr, typeParams ast.TypeParams) (*resolved.TypeExpr, error) {
	line, col := te.Pos()
	out := &resolved.TypeExpr{}

	switch {
	case len(te.Name.ModuleName) == 0 && containsIdent(typeParams, te.Name.Name):
		out.Kind = resolved.RefTypeParam
		out.TypeParam = te.Name.Name

	case len(te.Name.ModuleName) == 0:
		if prim, ok := resolved.LookupPrimitive(string(te.Name.Name)); ok {
			out.Kind = resolved.RefPrimitive
			out.Primitive = prim
		} else if _, ok := r.localDecls[te.Name.Name]; ok {
			out.Kind = resolved.RefDecl
			out.Decl = resolved.ScopedName{ModuleName: r.mod.Name, Name: te.Name.Name}
		} else if sn, ok := r.imports.single[te.Name.Name]; ok {
			out.Kind = resolved.RefDecl
			out.Decl = sn
		} else {
			found := false
			for _, wm := range r.imports.wildcards {
				if target, ok := r.available[wm.String()]; ok {
					if _, ok := target.Decls[te.Name.Name]; ok {
						out.Kind = resolved.RefDecl
						out.Decl = resolved.ScopedName{ModuleName: wm, Name: te.Name.Name}
						found = true
						break
					}
				}
			}
			if !found {
				return nil, diagnostic.Errorf(diagnostic.UnknownType, r.file, line, col, "unknown type %q", te.Name.Name)
			}
		}

	default:
		sn, err := r.resolveScopedNameRef(te.Name, line, col)
		if err != nil {
			return nil, err
		}
		out.Kind = resolved.RefDecl
		out.Decl = sn
	}

	for _, p := range te.Parameters {
		rp, err := r.resolveTypeExpr(p, typeParams)
		if err != nil {
			return nil, err
		}
		out.Parameters = append(out.Parameters, rp)
	}

	arity := out.HeadArity(func(sn resolved.ScopedName) int {
		if d, ok := r.allDecls[sn]; ok {
			return len(d.TypeParams)
		}
		if d, ok := r.localDecls[sn.Name]; ok && sn.ModuleName.String() == r.mod.Name.String() {
			return len(d.TypeParams)
		}
		return len(out.Parameters) // unresolvable; arity already reported via UnknownType elsewhere
	})
	if len(out.Parameters) != arity {
		head := te.Name.String()
		return nil, diagnostic.Errorf(diagnostic.ArityMismatch, r.file, line, col, "%s expects %d type parameter(s), got %d", head, arity, len(out.Parameters))
	}

	return out, nil
}

func containsIdent(ids ast.TypeParams, name ast.Identifier) bool {
	for _, id := range ids {
		if id == name {
			return true
		}
	}
	return false
}
