package parser

import (
	"strings"

	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

// propertysetFrame tracks one active `propertyset` block: the wildcard
// pattern its members substitute into, so nested blocks can be
// depth-bounded.
type propertysetFrame struct {
	pattern string
	pos token.Pos
}

// parsePropertysetBlock parses `propertyset 'pattern*' [(formals)] {
// member... }`: pattern is a single-quoted string containing exactly one
// `*`, and each member's name is substituted for that `*` to produce the
// actual property name (`propertyset 'verb*' { Do(dobj) {...} }` defines
// `verbDo`).
//
// curTok is on `propertyset` when this is called.
func (p *Parser) parsePropertysetBlock(sym *symtab.ObjectSymbol) []*ir.ObjectProp {
	startPos:= p.curTok.Pos
	if len(p.propertysets) >= maxPropertysetDepth {
		p.Errs.Report(startPos, SevError, CodeExpectedRBrace, "propertyset nesting too deep")
		skipBalancedBraces(p)
		return nil
	}

	if !p.expectPeek(token.SStr, CodeExpectedPropertysetPattern) {
		return nil
	}
	pattern:= p.curTok.Literal
	if strings.Count(pattern, "*") != 1 {
		p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedPropertysetPattern, pattern)
	}
	p.nextToken()

	var sharedFormals []*ir.Identifier
	if p.curIs(token.LParen) {
		sharedFormals, _ = p.parseTypedFormals()
		p.nextToken()
	}

	frame:= &propertysetFrame{pattern: pattern, pos: startPos}
	p.propertysets = append(p.propertysets, frame)
	defer func() { p.propertysets = p.propertysets[:len(p.propertysets)-1] }()

	var props []*ir.ObjectProp
	if !p.curIs(token.LBrace) {
		p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedRBrace, p.curTok.Literal)
		return props
	}
	p.nextToken()

	for !p.curIs(token.RBrace) && !p.curIs(token.EOF) {
		if p.curIs(token.Semi) {
			p.nextToken()
			continue
		}
		if p.curIs(token.KwPropertyset) {
			props = append(props, p.parsePropertysetBlock(sym)...)
			continue
		}
		if !p.curIs(token.Ident) {
			p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedIdent, p.curTok.Literal)
			p.nextToken()
			continue
		}

		memberName:= p.curTok.Literal
		memberPos:= p.curTok.Pos

		var value ir.PropValue
		switch {
		case p.peekIs(token.LParen):
			p.nextToken()
			formals, _:= p.parseTypedFormals()
			if len(formals) == 0 {
				formals = sharedFormals
			}
			value = ir.PropValue{Code: p.parseCodeBodyFromFormals(formals)}

		case p.peekIs(token.LBrace):
			p.nextToken()
			cb:= &ir.CodeBody{Params: sharedFormals, Body: p.parseBlockStatement()}
			value = ir.PropValue{Code: cb}

		case p.peekIs(token.Assign):
			p.nextToken()
			p.nextToken()
			val:= p.parseExprOrDstr()
			value = ir.PropValue{Const: foldConstants(val, p.Syms)}
			if p.peekIs(token.Semi) {
				p.nextToken()
			}

		default:
			p.Errs.Report(p.peekTok.Pos, SevError, CodeExpectedColon, p.peekTok.Literal)
			p.nextToken()
			continue
		}

		fullName:= substitutePropertysetName(pattern, memberName)
		propSym:= p.defineOrUpgradeProperty(fullName, memberPos)
		props = addProp(props, &ir.ObjectProp{Prop: propSym, Value: value})
		p.nextToken()
	}
	if p.curIs(token.RBrace) {
		p.nextToken()
	}
	return props
}

// substitutePropertysetName replaces pattern's single `*` wildcard with
// memberName to produce the expanded property name.
func substitutePropertysetName(pattern, memberName string) string {
	return strings.Replace(pattern, "*", memberName, 1)
}

// skipBalancedBraces consumes tokens up through the closing brace matching
// the next opening brace, used to recover from a propertyset nesting-depth
// error without cascading further diagnostics.
func skipBalancedBraces(p *Parser) {
	for !p.curIs(token.LBrace) && !p.curIs(token.EOF) {
		p.nextToken()
	}
	depth:= 0
	for !p.curIs(token.EOF) {
		if p.curIs(token.LBrace) {
			depth++
		}
		if p.curIs(token.RBrace) {
			depth--
			if depth == 0 {
				p.nextToken()
				return
			}
		}
		p.nextToken()
	}
}
