package parser

import (
	"strconv"

	"github.com/adl-lang/adlc/internal/ast"
	"github.com/adl-lang/adlc/internal/lexer"
)

// parseJSONLiteral parses one JSON value from the token stream and
// wraps it as an ast.Literal. The lexer has already done the low-level
// escape decoding for strings. Numbers are converted here to float64
// with strconv.ParseFloat, so their exact decimal text is not kept:
// integers beyond 2^53 and long fractions are rounded.
func (p *Parser) parseJSONLiteral() (*ast.Literal, error) {
	line, col := p.current().Line, p.current().Column
	v, err := p.parseJSONValue()
	if err != nil {
		return nil, err
	}
	return ast.NewLiteral(v, line, col)
}

func (p *Parser) parseJSONValue() (any, error) {
	tok := p.current()
	switch tok.Type {
	case lexer.NULL:
		p.advance()
		return nil, nil
	case lexer.TRUE:
		p.advance()
		return true, nil
	case lexer.FALSE:
		p.advance()
		return false, nil
	case lexer.STRING_LIT:
		p.advance()
		return tok.Literal, nil
	case lexer.INT_LIT, lexer.FLOAT_LIT:
		p.advance()
		f, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, p.errorf(tok, "invalid numeric literal %q: %v", tok.Literal, err)
		}
		return f, nil
	case lexer.LBRACKET:
		return p.parseJSONArray()
	case lexer.LBRACE:
		return p.parseJSONObject()
	default:
		return nil, p.errorf(tok, "expected JSON literal, got %s", tok.Type)
	}
}

func (p *Parser) parseJSONArray() (any, error) {
	if _, err := p.expect(lexer.LBRACKET); err != nil {
		return nil, err
	}
	elems := []any{}
	if !p.check(lexer.RBRACKET) {
		for {
			v, err := p.parseJSONValue()
			if err != nil {
				return nil, err
			}
			elems = append(elems, v)
			if p.match(lexer.COMMA) {
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RBRACKET); err != nil {
		return nil, err
	}
	return elems, nil
}

func (p *Parser) parseJSONObject() (any, error) {
	if _, err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	obj := map[string]any{}
	if !p.check(lexer.RBRACE) {
		for {
			keyTok, err := p.expect(lexer.STRING_LIT)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.COLON); err != nil {
				return nil, err
			}
			v, err := p.parseJSONValue()
			if err != nil {
				return nil, err
			}
			obj[keyTok.Literal] = v
			if p.match(lexer.COMMA) {
				continue
			}
			break
		}
	}
	if _, err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return obj, nil
}
