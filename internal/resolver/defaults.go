package resolver

import (
	"encoding/base64"
	"fmt"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/diagnostic"
	"github.com/adl-lang/adlc/internal/resolved"
	"github.com/adl-lang/adlc/internal/typeutil"
)

// checkDecl runs spec.md §4.4 step 6 (default-value checking) over
// every default literal a decl carries: struct/union field defaults
// and a newtype's own default.
func (r *Resolver) checkDecl(d *ast.Decl, rd *resolved.Decl) error {
	switch body := rd.Body.(type) {
	case *resolved.StructBody:
		for _, f := range body.Fields {
			if f.Default == nil {
				continue
			}
			if err := r.checkLiteral(f.Default, f.Type, string(d.Name)+"."+string(f.Name)); err != nil {
				return err
			}
		}
	case *resolved.UnionBody:
		for _, f := range body.Fields {
			if f.Default == nil {
				continue
			}
			if err := r.checkLiteral(f.Default, f.Type, string(d.Name)+"."+string(f.Name)); err != nil {
				return err
			}
		}
	case *resolved.NewTypeBody:
		if body.Default == nil {
			return nil
		}
		if err := r.checkLiteral(body.Default, body.Type, string(d.Name)); err != nil {
			return err
		}
	}
	return nil
}

// loadedAdlView is the minimal *resolved.LoadedAdl typeutil's
// expansion helpers need: they only read AllDecls.
func (r *Resolver) loadedAdlView() *resolved.LoadedAdl {
	return &resolved.LoadedAdl{AllDecls: r.allDecls}
}

// checkLiteral implements spec.md §4.4 step 6's per-kind rules,
// recursively, against te after alias and newtype expansion to a
// fixed point (newtype expansion is not named in spec.md's prose but
// is required: otherwise no field typed as a newtype could ever carry
// a literal default, since JSON never spells a wrapper).
func (r *Resolver) checkLiteral(lit *ast.Literal, te *resolved.TypeExpr, path string) error {
	expanded := typeutil.ExpandTypes(te, typeutil.ExpandOptions{Aliases: true, NewTypes: true}, r.loadedAdlView())
	return r.checkLiteralAgainst(lit, expanded, path)
}

func (r *Resolver) mismatch(lit *ast.Literal, path, expected string) error {
	line, col := lit.Pos()
	return diagnostic.Errorf(diagnostic.DefaultValueMismatch, r.file, line, col, "%s: expected %s, got %s", path, expected, describeValue(lit.Value))
}

func describeValue(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

func (r *Resolver) checkLiteralAgainst(lit *ast.Literal, te *resolved.TypeExpr, path string) error {
	switch te.Kind {
	case resolved.RefPrimitive:
		return r.checkPrimitiveLiteral(lit, te, path)
	case resolved.RefTypeParam:
		// A generic decl's own field defaults are only meaningful once
		// monomorphised; at the parametric level any JSON shape is
		// provisionally accepted.
		return nil
	case resolved.RefDecl:
		d, ok := r.allDecls[te.Decl]
		if !ok {
			return nil
		}
		switch body := d.Body.(type) {
		case *resolved.StructBody:
			return r.checkStructLiteral(lit, body.Fields, path)
		case *resolved.UnionBody:
			return r.checkUnionLiteral(lit, body.Fields, path)
		default:
			return nil
		}
	}
	return nil
}

func (r *Resolver) checkPrimitiveLiteral(lit *ast.Literal, te *resolved.TypeExpr, path string) error {
	switch te.Primitive {
	case resolved.Void:
		if lit.Value != nil {
			return r.mismatch(lit, path, "null")
		}
		return nil
	case resolved.Bool:
		if _, ok := lit.Value.(bool); !ok {
			return r.mismatch(lit, path, "boolean")
		}
		return nil
	case resolved.Int8, resolved.Int16, resolved.Int32, resolved.Int64,
		resolved.Word8, resolved.Word16, resolved.Word32, resolved.Word64:
		n, ok := lit.Value.(float64)
		if !ok || n != float64(int64(n)) {
			return r.mismatch(lit, path, "integer")
		}
		lo, hi := intBounds(te.Primitive)
		if n < lo || n > hi {
			line, col := lit.Pos()
			return diagnostic.Errorf(diagnostic.DefaultValueMismatch, r.file, line, col, "%s: integer %v out of range for %s", path, n, te.Primitive)
		}
		return nil
	case resolved.Float, resolved.Double:
		if _, ok := lit.Value.(float64); !ok {
			return r.mismatch(lit, path, "number")
		}
		return nil
	case resolved.String, resolved.TypeToken:
		if _, ok := lit.Value.(string); !ok {
			return r.mismatch(lit, path, "string")
		}
		return nil
	case resolved.Bytes:
		s, ok := lit.Value.(string)
		if !ok {
			return r.mismatch(lit, path, "base64 string")
		}
		if _, err := base64.StdEncoding.DecodeString(s); err != nil {
			line, col := lit.Pos()
			return diagnostic.Errorf(diagnostic.DefaultValueMismatch, r.file, line, col, "%s: invalid base64: %v", path, err)
		}
		return nil
	case resolved.Json:
		return nil
	case resolved.Vector:
		elems, ok := lit.Value.([]any)
		if !ok {
			return r.mismatch(lit, path, "array")
		}
		for i, e := range elems {
			elit, err := ast.NewLiteral(e, lit.Line, lit.Col)
			if err != nil {
				return err
			}
			if err := r.checkLiteral(elit, te.Parameters[0], fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		return nil
	case resolved.StringMap:
		obj, ok := lit.Value.(map[string]any)
		if !ok {
			return r.mismatch(lit, path, "object")
		}
		for k, v := range obj {
			vlit, err := ast.NewLiteral(v, lit.Line, lit.Col)
			if err != nil {
				return err
			}
			if err := r.checkLiteral(vlit, te.Parameters[0], fmt.Sprintf("%s.%s", path, k)); err != nil {
				return err
			}
		}
		return nil
	case resolved.Nullable:
		if lit.Value == nil {
			return nil
		}
		return r.checkLiteral(lit, te.Parameters[0], path)
	default:
		return nil
	}
}

func intBounds(p resolved.Primitive) (float64, float64) {
	switch p {
	case resolved.Int8:
		return -128, 127
	case resolved.Int16:
		return -32768, 32767
	case resolved.Int32:
		return -2147483648, 2147483647
	case resolved.Int64:
		return -9223372036854775808, 9223372036854775807
	case resolved.Word8:
		return 0, 255
	case resolved.Word16:
		return 0, 65535
	case resolved.Word32:
		return 0, 4294967295
	case resolved.Word64:
		return 0, 18446744073709551615
	default:
		return 0, 0
	}
}

// checkStructLiteral implements spec.md §4.4 step 6's struct rule:
// every present key must name a field, every absent field must have
// its own default, and each present value is checked recursively.
func (r *Resolver) checkStructLiteral(lit *ast.Literal, fields []*resolved.Field, path string) error {
	obj, ok := lit.Value.(map[string]any)
	if !ok {
		return r.mismatch(lit, path, "object")
	}
	byName := make(map[string]*resolved.Field, len(fields))
	for _, f := range fields {
		byName[string(f.Name)] = f
	}
	for k := range obj {
		if _, ok := byName[k]; !ok {
			line, col := lit.Pos()
			return diagnostic.Errorf(diagnostic.DefaultValueMismatch, r.file, line, col, "%s: struct has no field %q", path, k)
		}
	}
	for _, f := range fields {
		v, present := obj[string(f.Name)]
		if !present {
			if f.Default == nil {
				line, col := lit.Pos()
				return diagnostic.Errorf(diagnostic.DefaultValueMismatch, r.file, line, col, "%s: missing value for field %q, which has no default", path, f.Name)
			}
			continue
		}
		vlit, err := ast.NewLiteral(v, lit.Line, lit.Col)
		if err != nil {
			return err
		}
		if err := r.checkLiteral(vlit, f.Type, path+"."+string(f.Name)); err != nil {
			return err
		}
	}
	return nil
}

// checkUnionLiteral implements spec.md §4.4 step 6's union rule and
// the Open Question resolution in spec.md §9: accept a bare string
// naming a Void-typed field (enum shorthand), an object with exactly
// one key mapping that same field to null (the object-form shorthand),
// or an object with exactly one key whose value matches that field's
// type.
func (r *Resolver) checkUnionLiteral(lit *ast.Literal, fields []*resolved.Field, path string) error {
	byName := make(map[string]*resolved.Field, len(fields))
	for _, f := range fields {
		byName[string(f.Name)] = f
	}

	if s, ok := lit.Value.(string); ok {
		f, ok := byName[s]
		if !ok {
			return r.mismatch(lit, path, "a field name of this union")
		}
		if f.Type.Kind != resolved.RefPrimitive || f.Type.Primitive != resolved.Void {
			line, col := lit.Pos()
			return diagnostic.Errorf(diagnostic.DefaultValueMismatch, r.file, line, col, "%s: bare-string union default requires field %q to be Void-typed", path, s)
		}
		return nil
	}

	obj, ok := lit.Value.(map[string]any)
	if !ok {
		return r.mismatch(lit, path, "object with exactly one key, or a field name string")
	}
	if len(obj) != 1 {
		line, col := lit.Pos()
		return diagnostic.Errorf(diagnostic.DefaultValueMismatch, r.file, line, col, "%s: union literal must have exactly one key, got %d", path, len(obj))
	}
	var key string
	var val any
	for k, v := range obj {
		key, val = k, v
	}
	f, ok := byName[key]
	if !ok {
		line, col := lit.Pos()
		return diagnostic.Errorf(diagnostic.DefaultValueMismatch, r.file, line, col, "%s: union has no field %q", path, key)
	}
	if val == nil && f.Type.Kind == resolved.RefPrimitive && f.Type.Primitive == resolved.Void {
		return nil
	}
	vlit, err := ast.NewLiteral(val, lit.Line, lit.Col)
	if err != nil {
		return err
	}
	return r.checkLiteral(vlit, f.Type, path+"."+key)
}
