// Package parser implements the t3c program-level parser: the token
// source adapter (C1 lookahead/pushback/external-source stack), the
// expression/statement parser (C3), the top-level dispatch loop (C4), and
// the object-body parser (C5) that together turn a token stream into an
// [ir.Program] and a populated [symtab.SymbolTable].
//
// A single Parser struct threads current/peek tokens and an error log
// through a set of mutually recursive parseX methods, generalized from
// a flat statement grammar to t3c's program-level declarations.
package parser

import (
	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

// Parser is the arena owner for one translation unit: it holds the token
// source, the global symbol table, the error sink, and the per-compile
// handle arenas that [symtab.Handle] values index into.
type Parser struct {
	ts *TokenSource

	curTok token.Token
	peekTok token.Token

	Syms *symtab.SymbolTable
	Errs *ErrorSink

	// objArena and codeArena are the two handle-indexed arenas
	// [symtab.Handle] values index into; index 0 is never assigned so
	// symtab.NoHandle stays a valid "no node" sentinel, the same
	// convention the object-file writer reuses for its own indices.
	objArena []*ir.ObjectStmt
	codeArena []*ir.CodeBody

	locals *symtab.LocalTable

	// plusStack holds, at index d, the most recently defined top-level
	// non-class object at `+` nesting depth d.
	plusStack []*symtab.ObjectSymbol

	// propertysets is the bounded propertyset stack.
	propertysets []*propertysetFrame

	sourceTextCounter int
	sourceTextGroup *symtab.ObjectSymbol

	// propIDCounter and enumIDCounter assign dense, never-reused IDs,
	// kept as Parser fields rather than package globals so a Parser
	// stays the only mutable state.
	propIDCounter uint16
	enumIDCounter int

	// unterminated records the outermost object body currently being
	// parsed, so a statement-starter encountered mid-property-list can
	// report UnterminatedObject at the object's own position.
	unterminated *terminationInfo

	fileIdx int
}

type terminationInfo struct {
	pos token.Pos
	fired bool
}

const maxPropertysetDepth = 10

// New creates a Parser reading from ts, reporting into errs and mutating
// syms. fileIdx identifies the source file for position reporting.
func New(ts *TokenSource, syms *symtab.SymbolTable, errs *ErrorSink, fileIdx int) *Parser {
	p:= &Parser{
		ts: ts,
		Syms: syms,
		Errs: errs,
		fileIdx: fileIdx,
		objArena: []*ir.ObjectStmt{nil}, // index 0 reserved
		codeArena: []*ir.CodeBody{nil},
		locals: symtab.NewLocalTable(),
		propIDCounter: 1,
		enumIDCounter: 1,
	}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.ts.Advance()
}

func (p *Parser) curIs(k token.Kind) bool { return p.curTok.Kind == k }
func (p *Parser) peekIs(k token.Kind) bool { return p.peekTok.Kind == k }

func (p *Parser) expectPeek(k token.Kind, code Code) bool {
	if p.peekIs(k) {
		p.nextToken()
		return true
	}
	p.Errs.Report(p.peekTok.Pos, SevError, code, p.peekTok.Literal)
	return false
}

// storeObjectStmt appends stmt to the object arena and returns its handle.
func (p *Parser) storeObjectStmt(stmt *ir.ObjectStmt) symtab.Handle {
	p.objArena = append(p.objArena, stmt)
	return symtab.Handle(len(p.objArena) - 1)
}

// ObjectStmt dereferences an object-arena handle, or nil for NoHandle.
func (p *Parser) ObjectStmt(h symtab.Handle) *ir.ObjectStmt {
	if h == symtab.NoHandle {
		return nil
	}
	return p.objArena[h]
}

// storeCodeBody appends body to the code arena and returns its handle.
func (p *Parser) storeCodeBody(body *ir.CodeBody) symtab.Handle {
	p.codeArena = append(p.codeArena, body)
	return symtab.Handle(len(p.codeArena) - 1)
}

// CodeBody dereferences a code-arena handle, or nil for NoHandle.
func (p *Parser) CodeBody(h symtab.Handle) *ir.CodeBody {
	if h == symtab.NoHandle {
		return nil
	}
	return p.codeArena[h]
}

// ParseProgram parses a complete translation unit.
func (p *Parser) ParseProgram() *ir.Program {
	prog:= &ir.Program{}
	for !p.curIs(token.EOF) {
		if p.Errs.IsFatal() {
			break
		}
		if tl:= p.parseTopLevel(); tl != nil {
			prog.TopLevels = append(prog.TopLevels, tl)
		}
	}
	return prog
}

func (p *Parser) pos() token.Pos { return p.curTok.Pos }
