package resolver

import (
	"strings"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/diagnostic"
	"github.com/adl-lang/adlc/internal/resolved"
)

// applyStandaloneAnnotations attaches each top-level `annotation <ref>
// <Name> <value>;` statement to the module, decl, or field it
// targets, per its Ref shape ("" = module, "Decl" = decl, "Decl::field"
// = field). Unlike sidecar overlays, an unresolvable ref here is a
// hard AnnotationShapeError failure: the statement lives in the same file
// as its target, so a dangling ref is an authoring mistake, not a
// cross-file ambiguity.
func (r *Resolver) applyStandaloneAnnotations(out *resolved.Module) error {
	for _, sa := range r.mod.StandaloneAnnotations {
		sn, err := r.resolveScopedNameRef(sa.Name, sa.Line, sa.Col)
		if err != nil {
			return err
		}

		if sa.Ref == "" {
			out.Annotations.Set(sn, sa.Value)
			continue
		}

		declName, fieldName, hasField := strings.Cut(sa.Ref, "::")
		d, ok := out.Decls[ast.Identifier(declName)]
		if !ok {
			return diagnostic.Errorf(diagnostic.AnnotationShapeError, r.file, sa.Line, sa.Col, "annotation targets unknown declaration %q", declName)
		}
		if !hasField {
			d.Annotations.Set(sn, sa.Value)
			continue
		}

		fields := declFields(d)
		found := false
		for _, f := range fields {
			if string(f.Name) == fieldName {
				f.Annotations.Set(sn, sa.Value)
				found = true
				break
			}
		}
		if !found {
			return diagnostic.Errorf(diagnostic.AnnotationShapeError, r.file, sa.Line, sa.Col, "annotation targets unknown field %q on %q", fieldName, declName)
		}
	}
	return nil
}

// declFields returns the fields of d if it is a struct or union,
// otherwise nil.
func declFields(d *resolved.Decl) []*resolved.Field {
	switch body := d.Body.(type) {
	case *resolved.StructBody:
		return body.Fields
	case *resolved.UnionBody:
		return body.Fields
	default:
		return nil
	}
}
