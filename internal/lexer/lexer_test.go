package lexer

import "testing"

func TestNextTokenPunctuationAndKeywords(t *testing.T) {
	input := `module foo.bar {
	import sys.types.*;
	import baz.Qux as Quux;

	struct Point {
		Int16 x = 0;
		Int16 y;
	};

	@Doc "a point"
	union Shape<T> {
		Point circle;
		Void empty;
	};
};`

	tests := []struct {
		wantType    TokenType
		wantLiteral string
	}{
		{MODULE, "module"},
		{IDENT, "foo"},
		{DOT, "."},
		{IDENT, "bar"},
		{LBRACE, "{"},
		{IMPORT, "import"},
		{IDENT, "sys"},
		{DOT, "."},
		{IDENT, "types"},
		{DOT, "."},
		{STARTOK, "*"},
		{SEMI, ";"},
		{IMPORT, "import"},
		{IDENT, "baz"},
		{DOT, "."},
		{IDENT, "Qux"},
		{IDENT, "as"},
		{IDENT, "Quux"},
		{SEMI, ";"},
		{STRUCT, "struct"},
		{IDENT, "Point"},
		{LBRACE, "{"},
		{IDENT, "Int16"},
		{IDENT, "x"},
		{EQUALS, "="},
		{INT_LIT, "0"},
		{SEMI, ";"},
		{IDENT, "Int16"},
		{IDENT, "y"},
		{SEMI, ";"},
		{RBRACE, "}"},
		{SEMI, ";"},
		{AT, "@"},
		{IDENT, "Doc"},
		{STRING_LIT, "a point"},
		{UNION, "union"},
		{IDENT, "Shape"},
		{LANGLE, "<"},
		{IDENT, "T"},
		{RANGLE, ">"},
		{LBRACE, "{"},
		{IDENT, "Point"},
		{IDENT, "circle"},
		{SEMI, ";"},
		{IDENT, "Void"},
		{IDENT, "empty"},
		{SEMI, ";"},
		{RBRACE, "}"},
		{SEMI, ";"},
		{RBRACE, "}"},
		{SEMI, ";"},
		{EOF, ""},
	}

	l := New(input)
	for i, tt := range tests {
		tok := l.NextToken()
		if tok.Type != tt.wantType {
			t.Fatalf("token[%d] - wrong type. got=%s, want=%s (literal=%q)", i, tok.Type, tt.wantType, tok.Literal)
		}
		if tok.Literal != tt.wantLiteral {
			t.Fatalf("token[%d] - wrong literal. got=%q, want=%q", i, tok.Literal, tt.wantLiteral)
		}
	}
}

func TestNestedBlockComments(t *testing.T) {
	input := `/* outer /* inner */ still outer */ module`
	l := New(input)
	tok := l.NextToken()
	if tok.Type != MODULE {
		t.Fatalf("expected MODULE after nested block comment, got %s %q", tok.Type, tok.Literal)
	}
	if tok := l.NextToken(); tok.Type != EOF {
		t.Fatalf("expected EOF, got %s", tok.Type)
	}
}

func TestDocLineAggregation(t *testing.T) {
	input := "/// first line\n/// second line\nstruct"
	l := New(input)

	tok := l.NextToken()
	if tok.Type != DOC_LINE || tok.Literal != "first line" {
		t.Fatalf("unexpected first doc line: %s %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != DOC_LINE || tok.Literal != "second line" {
		t.Fatalf("unexpected second doc line: %s %q", tok.Type, tok.Literal)
	}
	tok = l.NextToken()
	if tok.Type != STRUCT {
		t.Fatalf("expected STRUCT after doc lines, got %s", tok.Type)
	}
}

func TestStringEscapes(t *testing.T) {
	input := `"line one\nline two\t\"quoted\" A"`
	l := New(input)
	tok := l.NextToken()
	if tok.Type != STRING_LIT {
		t.Fatalf("expected STRING_LIT, got %s", tok.Type)
	}
	want := "line one\nline two\t\"quoted\" A"
	if tok.Literal != want {
		t.Fatalf("got %q, want %q", tok.Literal, want)
	}
}

func TestNumberLiterals(t *testing.T) {
	tests := []struct {
		input    string
		wantType TokenType
		wantLit  string
	}{
		{"123", INT_LIT, "123"},
		{"-45", INT_LIT, "-45"},
		{"1.5", FLOAT_LIT, "1.5"},
		{"-0.25", FLOAT_LIT, "-0.25"},
		{"1e10", FLOAT_LIT, "1e10"},
		{"2.5e-3", FLOAT_LIT, "2.5e-3"},
	}
	for _, tt := range tests {
		l := New(tt.input)
		tok := l.NextToken()
		if tok.Type != tt.wantType || tok.Literal != tt.wantLit {
			t.Errorf("input %q: got %s %q, want %s %q", tt.input, tok.Type, tok.Literal, tt.wantType, tt.wantLit)
		}
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	input := "module a {\n  struct B\n}"
	l := New(input)

	tok := l.NextToken() // module
	if tok.Line != 1 {
		t.Fatalf("expected line 1, got %d", tok.Line)
	}
	l.NextToken() // a
	l.NextToken() // {
	tok = l.NextToken() // struct
	if tok.Line != 2 {
		t.Fatalf("expected struct on line 2, got %d", tok.Line)
	}
}

func TestIllegalCharacter(t *testing.T) {
	l := New("#")
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("expected ILLEGAL, got %s", tok.Type)
	}
}

func TestTokenizeReachesEOF(t *testing.T) {
	toks := New("module x {};").Tokenize()
	if len(toks) == 0 || toks[len(toks)-1].Type != EOF {
		t.Fatalf("Tokenize did not terminate with EOF: %v", toks)
	}
}
