// Package textdump implements the one demonstration backend spec.md
// §4.7 requires this repo carry: a plain-text outline renderer that
// exercises every facet of the driver.Backend contract (module/decl
// iteration order, the resolver total function, package-path mapping,
// annotation accessors) without being a real target-language emitter.
// It backs `adlc dump`.
//
// Grounded on the teacher's internal/backend/js.go and rust.go — each a
// minimal, concrete Backend implementation whose only job is to prove
// the interface is exercisable — generalised here from Intent's
// IR-node walk to ADL's resolved-decl walk.
package textdump

import (
	"fmt"
	"strings"

	"github.com/adl-lang/adlc/internal/driver"
	"github.com/adl-lang/adlc/internal/resolved"
	"github.com/adl-lang/adlc/internal/typeutil"
)

// Backend is the textdump driver.Backend implementation.
type Backend struct{}

// New returns a ready-to-use textdump Backend.
func New() *Backend { return &Backend{} }

// Name identifies this backend for CLI/registry selection.
func (*Backend) Name() string { return "textdump" }

// Emit renders every module in ctx, one file per module at
// "<package-path>/<ModuleName>.txt".
func (b *Backend) Emit(ctx *driver.Context) error {
	for _, mod := range ctx.Modules() {
		pkg := ctx.Packages.PackageFor(mod.Name)
		var sb strings.Builder
		fmt.Fprintf(&sb, "module %s (package %s)\n", mod.Name, pkg)
		if doc := mod.Doc.String(); doc != "" {
			fmt.Fprintf(&sb, "  doc: %s\n", doc)
		}
		for _, d := range mod.DeclsInOrder() {
			renderDecl(&sb, d, ctx)
		}
		path := pkg + "/" + mod.Name.String() + ".txt"
		if err := ctx.Writer.Write(path, []byte(sb.String())); err != nil {
			return err
		}
	}
	return nil
}

func renderDecl(sb *strings.Builder, d *resolved.Decl, ctx *driver.Context) {
	fmt.Fprintf(sb, "  decl %s", d.Name)
	if len(d.TypeParams) > 0 {
		names := make([]string, len(d.TypeParams))
		for i, tp := range d.TypeParams {
			names[i] = string(tp)
		}
		fmt.Fprintf(sb, "<%s>", strings.Join(names, ","))
	}
	sb.WriteString("\n")

	if doc, ok := driver.DocString(d); ok {
		fmt.Fprintf(sb, "    doc: %s\n", doc)
	}

	switch body := d.Body.(type) {
	case *resolved.StructBody:
		sb.WriteString("    struct\n")
		renderFields(sb, body.Fields)
	case *resolved.UnionBody:
		sb.WriteString("    union\n")
		renderFields(sb, body.Fields)
	case *resolved.TypeDefBody:
		fmt.Fprintf(sb, "    typedef = %s\n", typeutil.TypeExprToString(body.Type))
	case *resolved.NewTypeBody:
		fmt.Fprintf(sb, "    newtype = %s\n", typeutil.TypeExprToString(body.Type))
	}

	// Exercise the resolver total function: for every RefDecl head in
	// this decl's own type, confirm it resolves (panics become a
	// driver-level error via the caller in a real backend; here we
	// just touch ctx.Resolve to prove the accessor is reachable).
	_ = walkReferences(d, func(sn resolved.ScopedName) error {
		_, err := ctx.Resolve(sn)
		return err
	})
}

func renderFields(sb *strings.Builder, fields []*resolved.Field) {
	for _, f := range fields {
		fmt.Fprintf(sb, "      %s: %s", f.Name, typeutil.TypeExprToString(f.Type))
		if f.Default != nil {
			fmt.Fprintf(sb, " = %s", f.Default.Raw)
		}
		sb.WriteString("\n")
	}
}

func walkReferences(d *resolved.Decl, visit func(resolved.ScopedName) error) error {
	var walkType func(t *resolved.TypeExpr) error
	walkType = func(t *resolved.TypeExpr) error {
		if t == nil {
			return nil
		}
		if t.Kind == resolved.RefDecl {
			if err := visit(t.Decl); err != nil {
				return err
			}
		}
		for _, p := range t.Parameters {
			if err := walkType(p); err != nil {
				return err
			}
		}
		return nil
	}
	switch body := d.Body.(type) {
	case *resolved.StructBody:
		for _, f := range body.Fields {
			if err := walkType(f.Type); err != nil {
				return err
			}
		}
	case *resolved.UnionBody:
		for _, f := range body.Fields {
			if err := walkType(f.Type); err != nil {
				return err
			}
		}
	case *resolved.TypeDefBody:
		return walkType(body.Type)
	case *resolved.NewTypeBody:
		return walkType(body.Type)
	}
	return nil
}
