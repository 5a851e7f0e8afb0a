package ast

import (
	"fmt"
	"strings"
)

// Print renders a Module back to ADL source text. It is used by the
// parser's round-trip test to check that printed output reparses, and
// by the merge-preview command; it is not itself part of any compiler
// pipeline stage.
func Print(m *Module) string {
	p := &printer{}
	p.printModule(m)
	return p.sb.String()
}

type printer struct {
	sb     strings.Builder
	indent int
}

func (p *printer) emit(s string)                       { p.sb.WriteString(s) }
func (p *printer) emitf(format string, args ...any)     { p.sb.WriteString(fmt.Sprintf(format, args...)) }
func (p *printer) emitLine(s string) {
	if s == "" {
		p.sb.WriteString("\n")
		return
	}
	p.sb.WriteString(p.indentStr())
	p.sb.WriteString(s)
	p.sb.WriteString("\n")
}
func (p *printer) emitLinef(format string, args ...any) {
	p.emitLine(fmt.Sprintf(format, args...))
}
func (p *printer) incIndent() { p.indent++ }
func (p *printer) decIndent() { p.indent-- }
func (p *printer) indentStr() string {
	return strings.Repeat("    ", p.indent)
}
func (p *printer) blankLine() { p.sb.WriteString("\n") }

func (p *printer) printDoc(doc DocComment) {
	for _, line := range doc.Lines {
		p.emitLinef("/// %s", line)
	}
}

func (p *printer) printAnnotations(anns Annotations) {
	for _, a := range anns {
		if a.Value == nil {
			p.emitLinef("@%s", a.Name.String())
		} else {
			p.emitLinef("@%s %s", a.Name.String(), a.Value.Raw)
		}
	}
}

func (p *printer) printModule(m *Module) {
	p.printDoc(m.Doc)
	p.printAnnotations(m.ModuleAnnotations)
	p.emitLinef("module %s {", m.Name.String())
	p.incIndent()

	for _, imp := range m.Imports {
		p.printImport(imp)
	}
	if len(m.Imports) > 0 {
		p.blankLine()
	}

	for i, d := range m.Decls {
		if i > 0 {
			p.blankLine()
		}
		p.printDecl(d)
	}

	for _, sa := range m.StandaloneAnnotations {
		p.printStandaloneAnnotation(sa)
	}

	p.decIndent()
	p.emitLine("}")
}

func (p *printer) printImport(imp *Import) {
	if imp.Wildcard {
		p.emitLinef("import %s.*;", imp.ModuleName.String())
		return
	}
	name := imp.ModuleName.String() + "." + string(imp.Name)
	if imp.Alias != "" {
		p.emitLinef("import %s as %s;", name, imp.Alias)
		return
	}
	p.emitLinef("import %s;", name)
}

func (p *printer) printStandaloneAnnotation(sa *StandaloneAnnotation) {
	val := ""
	if sa.Value != nil {
		val = " " + sa.Value.Raw
	}
	p.emitLinef("annotation %s %s%s;", sa.Ref, sa.Name.String(), val)
}

func (p *printer) printDecl(d *Decl) {
	p.printDoc(d.Doc)
	p.printAnnotations(d.Annotations)

	switch body := d.Body.(type) {
	case *StructBody:
		p.emitLinef("struct %s%s {", d.Name, printTypeParams(d.TypeParams))
		p.incIndent()
		for _, f := range body.Fields {
			p.printField(f)
		}
		p.decIndent()
		p.emitLine("};")
	case *UnionBody:
		p.emitLinef("union %s%s {", d.Name, printTypeParams(d.TypeParams))
		p.incIndent()
		for _, f := range body.Fields {
			p.printField(f)
		}
		p.decIndent()
		p.emitLine("};")
	case *TypeAliasBody:
		p.emitLinef("type %s%s = %s;", d.Name, printTypeParams(d.TypeParams), printTypeExpr(body.Type))
	case *NewTypeBody:
		if body.Default != nil {
			p.emitLinef("newtype %s%s = %s = %s;", d.Name, printTypeParams(d.TypeParams), printTypeExpr(body.Type), body.Default.Raw)
		} else {
			p.emitLinef("newtype %s%s = %s;", d.Name, printTypeParams(d.TypeParams), printTypeExpr(body.Type))
		}
	}
}

func (p *printer) printField(f *Field) {
	p.printDoc(f.Doc)
	p.printAnnotations(f.Annotations)
	if f.Default != nil {
		p.emitLinef("%s %s = %s;", printTypeExpr(f.Type), f.Name, f.Default.Raw)
	} else {
		p.emitLinef("%s %s;", printTypeExpr(f.Type), f.Name)
	}
}

func printTypeParams(tp TypeParams) string {
	if len(tp) == 0 {
		return ""
	}
	parts := make([]string, len(tp))
	for i, id := range tp {
		parts[i] = string(id)
	}
	return "<" + strings.Join(parts, ",") + ">"
}

func printTypeExpr(t *TypeExpr) string {
	if t == nil {
		return ""
	}
	if len(t.Parameters) == 0 {
		return t.Name.String()
	}
	parts := make([]string, len(t.Parameters))
	for i, p := range t.Parameters {
		parts[i] = printTypeExpr(p)
	}
	return t.Name.String() + "<" + strings.Join(parts, ",") + ">"
}
