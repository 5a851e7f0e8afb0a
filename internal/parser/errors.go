package parser

import (
	"github.com/adl-lang/adlc/internal/diagnostic"
	"github.com/adl-lang/adlc/internal/lexer"
)

// Parser holds the state for a single single-pass, single-file parse.
// Unlike the teacher's parser, it does not attempt error recovery: the
// spec calls for one error per invocation, so the first malformed
// token unwinds immediately rather than synchronizing to a recovery
// point and continuing.
type Parser struct {
	file   string
	tokens []lexer.Token
	pos    int
}

func newParser(file string, tokens []lexer.Token) *Parser {
	return &Parser{file: file, tokens: tokens}
}

func (p *Parser) current() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() lexer.Token {
	tok := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.current().Type == tt
}

func (p *Parser) match(tt lexer.TokenType) bool {
	if p.check(tt) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the current token if it matches tt, otherwise
// returns a ParseError.
func (p *Parser) expect(tt lexer.TokenType) (lexer.Token, error) {
	tok := p.current()
	if tok.Type != tt {
		return tok, p.errorf(tok, "expected %s, got %s", tt, tok.Type)
	}
	return p.advance(), nil
}

// expectIdent consumes an IDENT token and returns its literal. Keyword
// tokens are rejected; "as" is not a keyword and lexes as an IDENT.
func (p *Parser) expectIdent() (string, error) {
	tok := p.current()
	if tok.Type != lexer.IDENT {
		return "", p.errorf(tok, "expected identifier, got %s", tok.Type)
	}
	p.advance()
	return tok.Literal, nil
}

func (p *Parser) errorf(tok lexer.Token, format string, args ...any) error {
	return diagnostic.Errorf(diagnostic.ParseError, p.file, tok.Line, tok.Column, format, args...)
}
