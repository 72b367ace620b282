package lexer

import (
	"testing"

	"github.com/dr8co/t3c/token"
)

func TestNextTokenPunctuation(t *testing.T) {
	input:= `+-*/%(){}[];:,.@?`

	expected:= []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.LParen, token.RParen, token.LBrace, token.RBrace,
		token.LBracket, token.RBracket, token.Semi, token.Colon, token.Comma,
		token.Dot, token.At, token.Question, token.EOF,
	}

	l:= New(input, 0)
	for i, want:= range expected {
		tok:= l.NextToken()
		if tok.Kind != want {
			t.Fatalf("token[%d] kind = %v, want %v (literal %q)", i, tok.Kind, want, tok.Literal)
		}
	}
}

func TestNextTokenKeywordsAndIdents(t *testing.T) {
	input:= `class modify replace object myObj transient`

	expected:= []struct {
		kind token.Kind
		literal string
	}{
		{token.KwClass, "class"},
		{token.KwModify, "modify"},
		{token.KwReplace, "replace"},
		{token.KwObject, "object"},
		{token.Ident, "myObj"},
		{token.KwTransient, "transient"},
		{token.EOF, ""},
	}

	l:= New(input, 0)
	for i, tt:= range expected {
		tok:= l.NextToken()
		if tok.Kind != tt.kind {
			t.Fatalf("token[%d] kind = %v, want %v", i, tok.Kind, tt.kind)
		}
		if tt.kind != token.EOF && tok.Literal != tt.literal {
			t.Fatalf("token[%d] literal = %q, want %q", i, tok.Literal, tt.literal)
		}
	}
}

func TestNextTokenIntAndFloat(t *testing.T) {
	l:= New(`42 3.14 0`, 0)

	tok:= l.NextToken()
	if tok.Kind != token.Int || tok.Literal != "42" {
		t.Fatalf("got %+v", tok)
	}
	tok = l.NextToken()
	if tok.Kind != token.Float || tok.Literal != "3.14" {
		t.Fatalf("got %+v", tok)
	}
	tok = l.NextToken()
	if tok.Kind != token.Int || tok.Literal != "0" {
		t.Fatalf("got %+v", tok)
	}
}

func TestNextTokenSingleQuotedVocab(t *testing.T) {
	l:= New(`'a rock' 'another\'s'`, 0)

	tok:= l.NextToken()
	if tok.Kind != token.SStr || tok.Literal != "a rock" {
		t.Fatalf("got %+v", tok)
	}
	tok = l.NextToken()
	if tok.Kind != token.SStr || tok.Literal != "another's" {
		t.Fatalf("got %+v", tok)
	}
}

func TestNextTokenPlainDoubleQuoted(t *testing.T) {
	l:= New(`"hello world"`, 0)
	tok:= l.NextToken()
	if tok.Kind != token.DStr || tok.Literal != "hello world" {
		t.Fatalf("got %+v", tok)
	}
	if l.NextToken().Kind != token.EOF {
		t.Fatal("expected EOF")
	}
}

func TestNextTokenEmbeddedExpression(t *testing.T) {
	// "You see <<name>> here."
	l:= New(`"You see <<name>> here."`, 0)

	tok:= l.NextToken()
	if tok.Kind != token.DstrStart || tok.Literal != "You see " {
		t.Fatalf("DstrStart: got %+v", tok)
	}

	tok = l.NextToken()
	if tok.Kind != token.Ident || tok.Literal != "name" {
		t.Fatalf("embedded ident: got %+v", tok)
	}

	tok = l.NextToken()
	if tok.Kind != token.DstrEnd || tok.Literal != " here." {
		t.Fatalf("DstrEnd: got %+v", tok)
	}
}

func TestNextTokenOperators(t *testing.T) {
	input:= `== != <= >= && || << -> ...`
	expected:= []token.Kind{
		token.Eq, token.Ne, token.Le, token.Ge, token.AndAnd, token.OrOr,
		token.ShL, token.Arrow, token.DotDotDot, token.EOF,
	}
	l:= New(input, 0)
	for i, want:= range expected {
		tok:= l.NextToken()
		if tok.Kind != want {
			t.Fatalf("token[%d] kind = %v, want %v", i, tok.Kind, want)
		}
	}
}

func TestNextTokenLineAndBlockComments(t *testing.T) {
	input:= "a // line comment\nb /* block\ncomment */ c"
	l:= New(input, 0)

	for _, want:= range []string{"a", "b", "c"} {
		tok:= l.NextToken()
		if tok.Kind != token.Ident || tok.Literal != want {
			t.Fatalf("got %+v, want ident %q", tok, want)
		}
	}
	if l.NextToken().Kind != token.EOF {
		t.Fatal("expected EOF")
	}
}

func TestNextTokenTracksLineNumbers(t *testing.T) {
	input:= "a\nb\n\nc"
	l:= New(input, 3)

	want:= []int{1, 2, 4}
	for i, line:= range want {
		tok:= l.NextToken()
		if tok.Pos.Line != line || tok.Pos.File != 3 {
			t.Fatalf("token[%d] pos = %+v, want line %d file 3", i, tok.Pos, line)
		}
	}
}
