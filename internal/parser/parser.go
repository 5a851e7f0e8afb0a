// Package parser implements a recursive-descent parser from an ADL
// token stream (internal/lexer) into the unresolved syntax tree
// (internal/ast). One Parser handles exactly one source file and
// returns the first error it hits; there is no error recovery.
package parser

import (
	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/lexer"
)

// Parse lexes and parses a single ADL source file. file is used only
// for diagnostic locations.
func Parse(file, source string) (*ast.Module, error) {
	toks := lexer.New(source).Tokenize()
	p := newParser(file, toks)
	return p.parseModule()
}

func (p *Parser) parseModule() (*ast.Module, error) {
	doc, anns, err := p.parseTrivia()
	if err != nil {
		return nil, err
	}

	tok, err := p.expect(lexer.MODULE)
	if err != nil {
		return nil, err
	}
	name, err := p.parseModuleName()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	m := &ast.Module{
		Name:              name,
		ModuleAnnotations: anns,
		Doc:               doc,
		Line:              tok.Line,
		Col:               tok.Column,
	}

	for !p.check(lexer.RBRACE) && !p.check(lexer.EOF) {
		itemDoc, itemAnns, err := p.parseTrivia()
		if err != nil {
			return nil, err
		}
		switch p.current().Type {
		case lexer.IMPORT:
			imp, err := p.parseImport()
			if err != nil {
				return nil, err
			}
			m.Imports = append(m.Imports, imp)
		case lexer.STRUCT, lexer.UNION:
			d, err := p.parseStructOrUnion(itemDoc, itemAnns)
			if err != nil {
				return nil, err
			}
			m.Decls = append(m.Decls, d)
		case lexer.TYPE:
			d, err := p.parseTypeAlias(itemDoc, itemAnns)
			if err != nil {
				return nil, err
			}
			m.Decls = append(m.Decls, d)
		case lexer.NEWTYPE:
			d, err := p.parseNewType(itemDoc, itemAnns)
			if err != nil {
				return nil, err
			}
			m.Decls = append(m.Decls, d)
		case lexer.ANNOTATION:
			sa, err := p.parseStandaloneAnnotation()
			if err != nil {
				return nil, err
			}
			m.StandaloneAnnotations = append(m.StandaloneAnnotations, sa)
		default:
			return nil, p.errorf(p.current(), "expected import or declaration, got %s", p.current().Type)
		}
	}

	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	p.match(lexer.SEMI) // tolerate an optional trailing ';' after the module body

	if _, err := p.expect(lexer.EOF); err != nil {
		return nil, err
	}
	return m, nil
}

// parseTrivia consumes any run of leading doc lines and inline
// annotations immediately preceding the next real token.
func (p *Parser) parseTrivia() (ast.DocComment, ast.Annotations, error) {
	var doc ast.DocComment
	var anns ast.Annotations
	for {
		switch p.current().Type {
		case lexer.DOC_LINE:
			tok := p.advance()
			doc.Lines = append(doc.Lines, tok.Literal)
		case lexer.AT:
			a, err := p.parseInlineAnnotation()
			if err != nil {
				return doc, anns, err
			}
			anns = append(anns, a)
		default:
			return doc, anns, nil
		}
	}
}

func (p *Parser) parseInlineAnnotation() (*ast.Annotation, error) {
	tok, err := p.expect(lexer.AT)
	if err != nil {
		return nil, err
	}
	name, err := p.parseScopedName()
	if err != nil {
		return nil, err
	}
	ann := &ast.Annotation{Name: name, Line: tok.Line, Col: tok.Column}
	if p.startsJSONLiteral() {
		val, err := p.parseJSONLiteral()
		if err != nil {
			return nil, err
		}
		ann.Value = val
	}
	return ann, nil
}

func (p *Parser) startsJSONLiteral() bool {
	switch p.current().Type {
	case lexer.NULL, lexer.TRUE, lexer.FALSE, lexer.STRING_LIT, lexer.INT_LIT, lexer.FLOAT_LIT, lexer.LBRACE, lexer.LBRACKET:
		return true
	default:
		return false
	}
}

// parseModuleName parses a dotted sequence of identifiers.
func (p *Parser) parseModuleName() (ast.ModuleName, error) {
	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	name := ast.ModuleName{ast.Identifier(first)}
	for p.check(lexer.DOT) && p.peek().Type == lexer.IDENT {
		p.advance()
		id, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		name = append(name, ast.Identifier(id))
	}
	return name, nil
}

// parseScopedName parses a dotted sequence of identifiers into a
// ScopedName, the last segment being the Name and everything before
// it being the ModuleName (empty when there is only one segment).
func (p *Parser) parseScopedName() (ast.ScopedName, error) {
	first, err := p.expectIdent()
	if err != nil {
		return ast.ScopedName{}, err
	}
	return p.finishScopedName(first)
}

// finishScopedName completes scoped-name parsing given an already
// consumed leading identifier.
func (p *Parser) finishScopedName(first string) (ast.ScopedName, error) {
	parts := []ast.Identifier{ast.Identifier(first)}
	for p.check(lexer.DOT) && p.peek().Type == lexer.IDENT {
		p.advance()
		id, err := p.expectIdent()
		if err != nil {
			return ast.ScopedName{}, err
		}
		parts = append(parts, ast.Identifier(id))
	}
	if len(parts) == 1 {
		return ast.ScopedName{Name: parts[0]}, nil
	}
	return ast.ScopedName{ModuleName: ast.ModuleName(parts[:len(parts)-1]), Name: parts[len(parts)-1]}, nil
}

func (p *Parser) parseImport() (*ast.Import, error) {
	tok, err := p.expect(lexer.IMPORT)
	if err != nil {
		return nil, err
	}

	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	parts := []ast.Identifier{ast.Identifier(first)}
	wildcard := false
	for p.check(lexer.DOT) {
		p.advance()
		if p.check(lexer.STARTOK) {
			p.advance()
			wildcard = true
			break
		}
		id, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		parts = append(parts, ast.Identifier(id))
	}

	imp := &ast.Import{Wildcard: wildcard, Line: tok.Line, Col: tok.Column}
	if wildcard {
		imp.ModuleName = ast.ModuleName(parts)
	} else {
		if len(parts) < 2 {
			return nil, p.errorf(tok, "import must name a module-qualified declaration or a module.* wildcard")
		}
		imp.ModuleName = ast.ModuleName(parts[:len(parts)-1])
		imp.Name = parts[len(parts)-1]
	}

	if p.check(lexer.IDENT) && p.current().Literal == "as" {
		p.advance()
		alias, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		imp.Alias = ast.Identifier(alias)
	}

	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return imp, nil
}

func (p *Parser) parseTypeParams() (ast.TypeParams, error) {
	if !p.check(lexer.LANGLE) {
		return nil, nil
	}
	p.advance()
	var params ast.TypeParams
	for {
		id, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Identifier(id))
		if p.match(lexer.COMMA) {
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RANGLE); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseTypeExpr() (*ast.TypeExpr, error) {
	line, col := p.current().Line, p.current().Column
	name, err := p.parseScopedName()
	if err != nil {
		return nil, err
	}
	te := &ast.TypeExpr{Name: name, Line: line, Col: col}
	if p.check(lexer.LANGLE) {
		p.advance()
		for {
			param, err := p.parseTypeExpr()
			if err != nil {
				return nil, err
			}
			te.Parameters = append(te.Parameters, param)
			if p.match(lexer.COMMA) {
				continue
			}
			break
		}
		if _, err := p.expect(lexer.RANGLE); err != nil {
			return nil, err
		}
	}
	return te, nil
}

func (p *Parser) parseStructOrUnion(doc ast.DocComment, anns ast.Annotations) (*ast.Decl, error) {
	kindTok := p.advance() // STRUCT or UNION
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	typeParams, err := p.parseTypeParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}

	var fields []*ast.Field
	for !p.check(lexer.RBRACE) {
		f, err := p.parseField()
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}

	if kindTok.Type == lexer.UNION && len(fields) == 0 {
		return nil, p.errorf(kindTok, "union %s must declare at least one field", name)
	}

	var body ast.DeclBody
	if kindTok.Type == lexer.STRUCT {
		body = &ast.StructBody{Fields: fields}
	} else {
		body = &ast.UnionBody{Fields: fields}
	}

	return &ast.Decl{
		Name:        ast.Identifier(name),
		TypeParams:  typeParams,
		Body:        body,
		Annotations: anns,
		Doc:         doc,
		Line:        kindTok.Line,
		Col:         kindTok.Column,
	}, nil
}

func (p *Parser) parseField() (*ast.Field, error) {
	doc, anns, err := p.parseTrivia()
	if err != nil {
		return nil, err
	}
	te, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.IDENT)
	if err != nil {
		return nil, err
	}

	f := &ast.Field{
		Name:        ast.Identifier(nameTok.Literal),
		Type:        te,
		Annotations: anns,
		Doc:         doc,
		Line:        te.Line,
		Col:         te.Col,
	}

	if p.match(lexer.EQUALS) {
		lit, err := p.parseJSONLiteral()
		if err != nil {
			return nil, err
		}
		f.Default = lit
	}

	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return f, nil
}

func (p *Parser) parseTypeAlias(doc ast.DocComment, anns ast.Annotations) (*ast.Decl, error) {
	tok, err := p.expect(lexer.TYPE)
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	typeParams, err := p.parseTypeParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.EQUALS); err != nil {
		return nil, err
	}
	te, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.Decl{
		Name:        ast.Identifier(name),
		TypeParams:  typeParams,
		Body:        &ast.TypeAliasBody{Type: te},
		Annotations: anns,
		Doc:         doc,
		Line:        tok.Line,
		Col:         tok.Column,
	}, nil
}

func (p *Parser) parseNewType(doc ast.DocComment, anns ast.Annotations) (*ast.Decl, error) {
	tok, err := p.expect(lexer.NEWTYPE)
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	typeParams, err := p.parseTypeParams()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.EQUALS); err != nil {
		return nil, err
	}
	te, err := p.parseTypeExpr()
	if err != nil {
		return nil, err
	}

	body := &ast.NewTypeBody{Type: te}
	if p.match(lexer.EQUALS) {
		lit, err := p.parseJSONLiteral()
		if err != nil {
			return nil, err
		}
		body.Default = lit
	}

	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.Decl{
		Name:        ast.Identifier(name),
		TypeParams:  typeParams,
		Body:        body,
		Annotations: anns,
		Doc:         doc,
		Line:        tok.Line,
		Col:         tok.Column,
	}, nil
}

// parseStandaloneAnnotation parses `annotation <ref>? <scopedname> <jsonLiteral>;`.
// ref is absent for a module-level annotation, a bare decl name for a
// decl-level one, or "Decl::field" for a field-level one. A "::" makes
// the ref unambiguous; a bare identifier is only a ref if a second
// identifier (the annotation name) follows it.
func (p *Parser) parseStandaloneAnnotation() (*ast.StandaloneAnnotation, error) {
	tok, err := p.expect(lexer.ANNOTATION)
	if err != nil {
		return nil, err
	}

	first, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	var ref string
	var name ast.ScopedName
	switch {
	case p.check(lexer.COLONCOLON):
		p.advance()
		field, err := p.expectIdent()
		if err != nil {
			return nil, err
		}
		ref = first + "::" + field
		name, err = p.parseScopedName()
		if err != nil {
			return nil, err
		}
	case p.check(lexer.IDENT):
		// first was a bare decl ref; the annotation name follows.
		ref = first
		name, err = p.parseScopedName()
		if err != nil {
			return nil, err
		}
	default:
		// first is itself the (unqualified) leading identifier of the
		// annotation's own name; no ref was written.
		name, err = p.finishScopedName(first)
		if err != nil {
			return nil, err
		}
	}

	val, err := p.parseJSONLiteral()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.SEMI); err != nil {
		return nil, err
	}
	return &ast.StandaloneAnnotation{Ref: ref, Name: name, Value: val, Line: tok.Line, Col: tok.Column}, nil
}
