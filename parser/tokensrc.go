package parser

import "github.com/dr8co/t3c/token"

// RawTokenSource is the minimal iterator a lexer (or any synthetic token
// producer, such as a propertyset substitution pass) must implement to
// feed the [TokenSource] adapter.
type RawTokenSource interface {
	NextToken() token.Token
}

// sourceFrame is one entry of the pushSource stack: a secondary iterator
// drained before control returns to the frame beneath it.
type sourceFrame struct {
	src RawTokenSource
}

// TokenSource adapts a [RawTokenSource] into the one-token-lookahead,
// single-token-pushback, external-source-stack interface the rest of the
// parser depends on.
type TokenSource struct {
	primary RawTokenSource
	stack []sourceFrame

	cur token.Token
	havePeek bool
	peeked token.Token
	unget []token.Token // pushback buffer, popped before drawing a new token

	lastFile int
	lastLine int
}

// NewTokenSource wraps primary (ordinarily a *lexer.Lexer).
func NewTokenSource(primary RawTokenSource) *TokenSource {
	return &TokenSource{primary: primary}
}

// nextRaw draws the next token from the external-source stack if one is
// active and not yet exhausted, else from the primary source, advancing to
// the frame beneath once a pushed source reports EOF.
func (t *TokenSource) nextRaw() token.Token {
	for len(t.stack) > 0 {
		top:= t.stack[len(t.stack)-1]
		tok:= top.src.NextToken()
		if tok.Kind == token.EOF {
			t.stack = t.stack[:len(t.stack)-1]
			continue
		}
		return tok
	}
	return t.primary.NextToken()
}

// Advance consumes and returns the next token, preferring the pushback
// buffer, then a previously computed lookahead, then a fresh draw.
func (t *TokenSource) Advance() token.Token {
	var tok token.Token
	switch {
	case len(t.unget) > 0:
		tok = t.unget[len(t.unget)-1]
		t.unget = t.unget[:len(t.unget)-1]
	case t.havePeek:
		tok = t.peeked
		t.havePeek = false
	default:
		tok = t.nextRaw()
	}
	t.cur = tok
	t.lastFile = tok.Pos.File
	t.lastLine = tok.Pos.Line
	return tok
}

// Peek returns the next token without consuming it.
func (t *TokenSource) Peek() token.Token {
	if len(t.unget) > 0 {
		return t.unget[len(t.unget)-1]
	}
	if !t.havePeek {
		t.peeked = t.nextRaw()
		t.havePeek = true
	}
	return t.peeked
}

// Unget pushes tok back so the next Advance returns it again. Only a
// single level of pushback is guaranteed by the grammar, but a slice lets
// pushSource fixups unget more than one token without surprising callers.
func (t *TokenSource) Unget(tok token.Token) {
	t.unget = append(t.unget, tok)
}

// PushSource installs src as a secondary iterator drained before the
// current source resumes; used by propertyset expansion to splice a
// synthetic formal-list token stream ahead of the real one.
func (t *TokenSource) PushSource(src RawTokenSource) {
	t.stack = append(t.stack, sourceFrame{src: src})
}

// StoreSource copies tok into a fresh value, detached from the lexer's
// line buffer, so the parser may retain it past the lexer's lifetime (e.g.
// to fabricate a decorated multi-method name token).
func StoreSource(tok token.Token) token.Token {
	cp:= tok
	return cp
}

// Current returns the most recently consumed token.
func (t *TokenSource) Current() token.Token { return t.cur }

// LastFileDescriptor returns the file index of the most recently consumed
// token.
func (t *TokenSource) LastFileDescriptor() int { return t.lastFile }

// LastLineNumber returns the line number of the most recently consumed
// token.
func (t *TokenSource) LastLineNumber() int { return t.lastLine }

// sliceTokenSource is a RawTokenSource over a fixed, pre-built token list,
// used to synthesize the substituted formal-parameter list a propertyset
// pushes ahead of the real source.
type sliceTokenSource struct {
	toks []token.Token
	pos int
}

// NewSliceTokenSource builds a RawTokenSource that yields toks in order,
// then EOF tokens forever after.
func NewSliceTokenSource(toks []token.Token) RawTokenSource {
	return &sliceTokenSource{toks: toks}
}

func (s *sliceTokenSource) NextToken() token.Token {
	if s.pos >= len(s.toks) {
		pos:= token.Pos{}
		if len(s.toks) > 0 {
			pos = s.toks[len(s.toks)-1].Pos
		}
		return token.Token{Kind: token.EOF, Pos: pos}
	}
	tok:= s.toks[s.pos]
	s.pos++
	return tok
}
