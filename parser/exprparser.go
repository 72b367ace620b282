package parser

import (
	"strconv"

	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

// Precedence levels for the Pratt expression parser, lowest first.
// Extended with the ternary, bitwise, and shift levels the richer
// grammar needs beyond a plain arithmetic precedence table.
const (
	_ int = iota
	precLowest
	precAssign
	precTernary
	precOrOr
	precAndAnd
	precBitOr
	precBitXor
	precBitAnd
	precEquals
	precLessGreater
	precShift
	precSum
	precProduct
	precPrefix
	precCallIndexDot
)

var binaryPrecedence = map[token.Kind]int{
	token.Assign: precAssign,
	token.Question: precTernary,
	token.OrOr: precOrOr,
	token.AndAnd: precAndAnd,
	token.Pipe: precBitOr,
	token.Caret: precBitXor,
	token.Amp: precBitAnd,
	token.Eq: precEquals,
	token.Ne: precEquals,
	token.Lt: precLessGreater,
	token.Gt: precLessGreater,
	token.Le: precLessGreater,
	token.Ge: precLessGreater,
	token.ShL: precShift,
	token.ShR: precShift,
	token.Plus: precSum,
	token.Minus: precSum,
	token.Star: precProduct,
	token.Slash: precProduct,
	token.Percent: precProduct,
	token.LParen: precCallIndexDot,
	token.LBracket: precCallIndexDot,
	token.Dot: precCallIndexDot,
}

func (p *Parser) peekPrecedence() int {
	if pr, ok:= binaryPrecedence[p.peekTok.Kind]; ok {
		return pr
	}
	return precLowest
}

// parseExpression is the Pratt-parser core: a null denotation dispatch
// followed by a loop of left denotations while the next operator binds
// tighter than precedence.
func (p *Parser) parseExpression(precedence int) ir.Expression {
	left:= p.parsePrefix()
	if left == nil {
		return nil
	}
	for !p.peekIs(token.Semi) && precedence < p.peekPrecedence() {
		switch p.peekTok.Kind {
		case token.LParen:
			p.nextToken()
			left = p.parseCallExpression(left)
		case token.LBracket:
			p.nextToken()
			left = p.parseIndexExpression(left)
		case token.Dot:
			p.nextToken()
			left = p.parsePropertyExpression(left)
		case token.Question:
			p.nextToken()
			left = p.parseTernaryExpression(left)
		default:
			p.nextToken()
			left = p.parseInfixExpression(left)
		}
	}
	return left
}

func (p *Parser) parsePrefix() ir.Expression {
	switch p.curTok.Kind {
	case token.Ident:
		return &ir.Identifier{Value: p.curTok.Literal}
	case token.Int:
		return p.parseIntegerLiteral()
	case token.Float:
		return p.parseFloatLiteral()
	case token.KwTrue:
		return &ir.BoolLiteral{Value: true}
	case token.KwNil:
		return &ir.NilLiteral{}
	case token.SStr:
		return &ir.VocabLiteral{Value: p.curTok.Literal}
	case token.DStr:
		return &ir.StringLiteral{Value: p.curTok.Literal}
	case token.DstrStart:
		return p.parseDstrExpression()
	case token.Bang, token.Minus, token.Tilde:
		return p.parsePrefixExpression()
	case token.LParen:
		return p.parseGroupedExpression()
	case token.KwList, token.LBracket:
		return p.parseListLiteral()
	case token.KwSelf:
		return &ir.SelfExpression{}
	case token.KwInherited:
		return p.parseInheritedExpression()
	case token.KwDelegated:
		return p.parseDelegatedExpression()
	case token.KwNew:
		return p.parseNewExpression()
	case token.KwFunction:
		return p.parseAnonFuncExpression()
	default:
		p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedIdent, p.curTok.Literal)
		return nil
	}
}

func (p *Parser) parseIntegerLiteral() ir.Expression {
	v, err:= strconv.ParseInt(p.curTok.Literal, 0, 64)
	if err != nil {
		p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedIdent, "malformed integer "+p.curTok.Literal)
		return nil
	}
	lit:= &ir.IntegerLiteral{Value: v}
	lit.Token = p.curTok
	return lit
}

func (p *Parser) parseFloatLiteral() ir.Expression {
	v, err:= strconv.ParseFloat(p.curTok.Literal, 64)
	if err != nil {
		p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedIdent, "malformed float "+p.curTok.Literal)
		return nil
	}
	lit:= &ir.FloatLiteral{Value: v}
	lit.Token = p.curTok
	return lit
}

// parseDstrExpression consumes a DstrStart/(expr DstrMid)*.../expr DstrEnd
// sequence, collecting the literal segments and embedded expressions.
func (p *Parser) parseDstrExpression() ir.Expression {
	expr:= &ir.DstrExpression{}
	expr.Token = p.curTok
	expr.Segments = append(expr.Segments, p.curTok.Literal)
	for {
		p.nextToken()
		embed:= p.parseExpression(precLowest)
		expr.Embeds = append(expr.Embeds, embed)
		if !p.peekIs(token.DstrMid) && !p.peekIs(token.DstrEnd) {
			p.Errs.Fatal(p.peekTok.Pos, CodeUnexpectedEOF, "unterminated string embedding")
			return expr
		}
		p.nextToken()
		expr.Segments = append(expr.Segments, p.curTok.Literal)
		if p.curIs(token.DstrEnd) {
			break
		}
	}
	return expr
}

func (p *Parser) parsePrefixExpression() ir.Expression {
	tok:= p.curTok
	op:= p.curTok.Literal
	p.nextToken()
	right:= p.parseExpression(precPrefix)
	e:= &ir.PrefixExpression{Operator: op, Right: right}
	e.Token = tok
	return e
}

func (p *Parser) parseInfixExpression(left ir.Expression) ir.Expression {
	tok:= p.curTok
	op:= p.curTok.Literal
	prec:= binaryPrecedence[p.curTok.Kind]
	p.nextToken()
	right:= p.parseExpression(prec)
	e:= &ir.InfixExpression{Left: left, Operator: op, Right: right}
	e.Token = tok
	return e
}

func (p *Parser) parseTernaryExpression(cond ir.Expression) ir.Expression {
	tok:= p.curTok
	p.nextToken()
	then:= p.parseExpression(precTernary)
	if !p.expectPeek(token.Colon, CodeExpectedColon) {
		return nil
	}
	p.nextToken()
	els:= p.parseExpression(precTernary)
	e:= &ir.TernaryExpression{Cond: cond, Then: then, Else: els}
	e.Token = tok
	return e
}

func (p *Parser) parseGroupedExpression() ir.Expression {
	p.nextToken()
	e:= p.parseExpression(precLowest)
	if !p.expectPeek(token.RParen, CodeExpectedRParen) {
		return nil
	}
	return e
}

// parseList parses a comma-separated expression list terminated by end,
// consuming end.
func (p *Parser) parseList(end token.Kind) []ir.Expression {
	var list []ir.Expression
	if p.peekIs(end) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(precLowest))
	for p.peekIs(token.Comma) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(precLowest))
	}
	if !p.expectPeek(end, CodeExpectedRParen) {
		return nil
	}
	return list
}

func (p *Parser) parseListLiteral() ir.Expression {
	tok:= p.curTok
	if p.curIs(token.KwList) {
		if !p.expectPeek(token.LBracket, CodeExpectedRParen) {
			return nil
		}
	}
	lit:= &ir.ListLiteral{Elements: p.parseList(token.RBracket)}
	lit.Token = tok
	return lit
}

func (p *Parser) parseCallExpression(fn ir.Expression) ir.Expression {
	tok:= p.curTok
	e:= &ir.CallExpression{Function: fn, Arguments: p.parseList(token.RParen)}
	e.Token = tok
	return e
}

func (p *Parser) parseIndexExpression(left ir.Expression) ir.Expression {
	tok:= p.curTok
	p.nextToken()
	idx:= p.parseExpression(precLowest)
	if !p.expectPeek(token.RBracket, CodeExpectedRParen) {
		return nil
	}
	e:= &ir.IndexExpression{Left: left, Index: idx}
	e.Token = tok
	return e
}

func (p *Parser) parsePropertyExpression(obj ir.Expression) ir.Expression {
	tok:= p.curTok
	p.nextToken()

	var propExpr ir.Expression
	if p.curIs(token.LParen) {
		p.nextToken()
		propExpr = p.parseExpression(precLowest)
		if !p.expectPeek(token.RParen, CodeExpectedRParen) {
			return nil
		}
	} else {
		propExpr = &ir.Identifier{Value: p.curTok.Literal}
		propExpr.(*ir.Identifier).Token = p.curTok
	}

	e:= &ir.PropertyExpression{Object: obj, Prop: propExpr}
	e.Token = tok
	if p.peekIs(token.LParen) {
		p.nextToken()
		e.HasCall = true
		e.Args = p.parseList(token.RParen)
	}
	return e
}

func (p *Parser) parseInheritedExpression() ir.Expression {
	tok:= p.curTok
	e:= &ir.InheritedExpression{}
	e.Token = tok
	if p.peekIs(token.Ident) {
		p.nextToken()
		e.Class = &ir.Identifier{Value: p.curTok.Literal}
		e.Class.Token = p.curTok
	}
	if p.peekIs(token.Dot) {
		p.nextToken()
		p.nextToken()
		e.Prop = &ir.Identifier{Value: p.curTok.Literal}
		if p.peekIs(token.LParen) {
			p.nextToken()
			e.Args = p.parseList(token.RParen)
		}
	}
	return e
}

func (p *Parser) parseDelegatedExpression() ir.Expression {
	tok:= p.curTok
	if !p.expectPeek(token.Ident, CodeExpectedIdent) {
		return nil
	}
	class:= &ir.Identifier{Value: p.curTok.Literal}
	class.Token = p.curTok
	e:= &ir.DelegatedExpression{Class: class}
	e.Token = tok
	if !p.expectPeek(token.Dot, CodeExpectedColon) {
		return e
	}
	p.nextToken()
	e.Prop = &ir.Identifier{Value: p.curTok.Literal}
	if p.peekIs(token.LParen) {
		p.nextToken()
		e.Args = p.parseList(token.RParen)
	}
	return e
}

func (p *Parser) parseNewExpression() ir.Expression {
	tok:= p.curTok
	p.nextToken()
	class:= p.parseExpression(precCallIndexDot - 1)
	e:= &ir.NewExpression{Class: class}
	e.Token = tok
	if p.peekIs(token.LParen) {
		p.nextToken()
		e.Args = p.parseList(token.RParen)
	}
	return e
}

func (p *Parser) parseAnonFuncExpression() ir.Expression {
	tok:= p.curTok
	if !p.expectPeek(token.LParen, CodeExpectedIdent) {
		return nil
	}
	params:= p.parseFormals()
	if !p.expectPeek(token.LBrace, CodeExpectedRBrace) {
		return nil
	}
	body:= p.parseBlockStatement()
	e:= &ir.AnonFuncExpression{Params: params, Body: body}
	e.Token = tok
	return e
}

// parseFormals parses a `(a, b, c)` parameter list with curTok on `(`,
// leaving curTok on the closing `)`. Varargs (`...`) handling is left to
// [Parser.parseCodeBody()], which needs to know whether the trailing
// ellipsis was present.
func (p *Parser) parseFormals() []*ir.Identifier {
	var params []*ir.Identifier
	if p.peekIs(token.RParen) {
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		if p.curIs(token.DotDotDot) {
			break
		}
		id:= &ir.Identifier{Value: p.curTok.Literal}
		id.Token = p.curTok
		params = append(params, id)
		if p.peekIs(token.Comma) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RParen, CodeExpectedRParen) {
		return params
	}
	return params
}

// parseCodeBody parses `'(' formals ')' '{' statements '}'`, optionally a
// `= expr` short form in place of the brace block.
func (p *Parser) parseCodeBody() *ir.CodeBody {
	tok:= p.curTok
	varargs:= false
	var params []*ir.Identifier

	if p.curIs(token.LParen) {
		if p.peekIs(token.RParen) {
			p.nextToken()
		} else {
			p.nextToken()
			for {
				if p.curIs(token.DotDotDot) {
					varargs = true
					p.nextToken()
					break
				}
				id:= &ir.Identifier{Value: p.curTok.Literal}
				id.Token = p.curTok
				params = append(params, id)
				if p.peekIs(token.Comma) {
					p.nextToken()
					p.nextToken()
					continue
				}
				break
			}
			if !p.expectPeek(token.RParen, CodeExpectedRParen) {
				return nil
			}
		}
	}

	cb:= &ir.CodeBody{Params: params, Varargs: varargs}
	cb.Token = tok

	self:= p.locals
	p.locals = symtab.NewEnclosedLocalTable(self)
	p.locals.DefineSelf(tok.Pos)
	for _, fp:= range params {
		p.locals.DefineParam(fp.Value, fp.Pos())
	}

	if p.peekIs(token.Assign) {
		p.nextToken()
		p.nextToken()
		expr:= p.parseExpression(precLowest)
		cb.Body = &ir.BlockStatement{Statements: []ir.Statement{
			&ir.ReturnStatement{Value: expr},
		}}
	} else if p.expectPeek(token.LBrace, CodeExpectedRBrace) {
		cb.Body = p.parseBlockStatement()
	}

	cb.NumLocals = p.locals.NumDefinitions()
	p.locals = self
	return cb
}

func (p *Parser) parseBlockStatement() *ir.BlockStatement {
	tok:= p.curTok
	block:= &ir.BlockStatement{}
	block.Token = tok
	p.nextToken()
	for !p.curIs(token.RBrace) && !p.curIs(token.EOF) {
		if stmt:= p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.nextToken()
	}
	return block
}

func (p *Parser) parseStatement() ir.Statement {
	switch p.curTok.Kind {
	case token.KwLocal:
		return p.parseLocalStatement()
	case token.KwReturn:
		return p.parseReturnStatement()
	case token.KwIf:
		return p.parseIfStatement()
	case token.KwWhile:
		return p.parseWhileStatement()
	case token.KwDo:
		return p.parseDoWhileStatement()
	case token.KwFor:
		return p.parseForStatement()
	case token.KwForeach:
		return p.parseForeachStatement()
	case token.KwBreak:
		s:= &ir.BreakStatement{}
		s.Token = p.curTok
		if p.peekIs(token.Semi) {
			p.nextToken()
		}
		return s
	case token.KwContinue:
		s:= &ir.ContinueStatement{}
		s.Token = p.curTok
		if p.peekIs(token.Semi) {
			p.nextToken()
		}
		return s
	case token.LBrace:
		return p.parseBlockStatement()
	case token.DstrStart, token.DStr:
		return p.parseDstrStatement()
	case token.Semi:
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

// parseExprOrDstr parses either a value expression or a double-quoted
// embedded-expression string, which prints rather than evaluates to a
// value.
func (p *Parser) parseExprOrDstr() ir.Expression {
	if p.curIs(token.DStr) {
		return &ir.StringLiteral{Value: p.curTok.Literal}
	}
	if p.curIs(token.DstrStart) {
		return p.parseDstrExpression()
	}
	return p.parseExpression(precLowest)
}

func (p *Parser) parseDstrStatement() ir.Statement {
	tok:= p.curTok
	val:= p.parseExprOrDstr()
	s:= &ir.DstrStatement{Value: val}
	s.Token = tok
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	return s
}

func (p *Parser) parseLocalStatement() ir.Statement {
	tok:= p.curTok
	stmt:= &ir.LocalStatement{}
	stmt.Token = tok

	for {
		if !p.expectPeek(token.Ident, CodeExpectedIdent) {
			return stmt
		}
		name:= &ir.Identifier{Value: p.curTok.Literal}
		name.Token = p.curTok
		stmt.Names = append(stmt.Names, name)
		p.locals.Define(name.Value, name.Pos())

		if p.peekIs(token.Assign) {
			p.nextToken()
			p.nextToken()
			stmt.Values = append(stmt.Values, p.parseExpression(precLowest))
		} else {
			stmt.Values = append(stmt.Values, nil)
		}

		if p.peekIs(token.Comma) {
			p.nextToken()
			continue
		}
		break
	}
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	return stmt
}

func (p *Parser) parseReturnStatement() ir.Statement {
	tok:= p.curTok
	s:= &ir.ReturnStatement{}
	s.Token = tok
	if !p.peekIs(token.Semi) {
		p.nextToken()
		s.Value = p.parseExprOrDstr()
	}
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	return s
}

func (p *Parser) parseIfStatement() ir.Statement {
	tok:= p.curTok
	if !p.expectPeek(token.LParen, CodeExpectedRParen) {
		return nil
	}
	p.nextToken()
	cond:= p.parseExpression(precLowest)
	if !p.expectPeek(token.RParen, CodeExpectedRParen) {
		return nil
	}
	p.nextToken()
	then:= p.parseStatement()
	s:= &ir.IfStatement{Cond: cond, Then: then}
	s.Token = tok
	if p.peekIs(token.KwElse) {
		p.nextToken()
		p.nextToken()
		s.Else = p.parseStatement()
	}
	return s
}

func (p *Parser) parseWhileStatement() ir.Statement {
	tok:= p.curTok
	if !p.expectPeek(token.LParen, CodeExpectedRParen) {
		return nil
	}
	p.nextToken()
	cond:= p.parseExpression(precLowest)
	if !p.expectPeek(token.RParen, CodeExpectedRParen) {
		return nil
	}
	p.nextToken()
	body:= p.parseStatement()
	s:= &ir.WhileStatement{Cond: cond, Body: body}
	s.Token = tok
	return s
}

func (p *Parser) parseDoWhileStatement() ir.Statement {
	tok:= p.curTok
	p.nextToken()
	body:= p.parseStatement()
	if !p.expectPeek(token.KwWhile, CodeExpectedIdent) {
		return nil
	}
	if !p.expectPeek(token.LParen, CodeExpectedRParen) {
		return nil
	}
	p.nextToken()
	cond:= p.parseExpression(precLowest)
	if !p.expectPeek(token.RParen, CodeExpectedRParen) {
		return nil
	}
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	s:= &ir.DoWhileStatement{Body: body, Cond: cond}
	s.Token = tok
	return s
}

func (p *Parser) parseForStatement() ir.Statement {
	tok:= p.curTok
	if !p.expectPeek(token.LParen, CodeExpectedRParen) {
		return nil
	}
	p.nextToken()
	var init ir.Statement
	if !p.curIs(token.Semi) {
		init = p.parseStatement()
	}
	if !p.curIs(token.Semi) && !p.expectPeek(token.Semi, CodeExpectedSemi) {
		return nil
	}
	p.nextToken()
	var cond ir.Expression
	if !p.curIs(token.Semi) {
		cond = p.parseExpression(precLowest)
	}
	if !p.expectPeek(token.Semi, CodeExpectedSemi) {
		return nil
	}
	p.nextToken()
	var post ir.Statement
	if !p.curIs(token.RParen) {
		post = &ir.ExpressionStatement{Expression: p.parseExpression(precLowest)}
	}
	if !p.expectPeek(token.RParen, CodeExpectedRParen) {
		return nil
	}
	p.nextToken()
	body:= p.parseStatement()
	s:= &ir.ForStatement{Init: init, Cond: cond, Post: post, Body: body}
	s.Token = tok
	return s
}

// parseForeachStatement parses `foreach (local x in expr) body`. The `in`
// separator is not a reserved word (spec's keyword list has no entry for
// it), so it is matched as a plain identifier with literal "in".
func (p *Parser) parseForeachStatement() ir.Statement {
	tok:= p.curTok
	if !p.expectPeek(token.LParen, CodeExpectedRParen) {
		return nil
	}
	varIsLocal:= false
	if p.peekIs(token.KwLocal) {
		varIsLocal = true
		p.nextToken()
	}
	if !p.expectPeek(token.Ident, CodeExpectedIdent) {
		return nil
	}
	v:= &ir.Identifier{Value: p.curTok.Literal}
	v.Token = p.curTok
	if varIsLocal {
		p.locals.Define(v.Value, v.Pos())
	}
	if !p.expectPeek(token.Ident, CodeExpectedIdent) { // the "in" separator
		return nil
	}
	if p.curTok.Literal != "in" {
		p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedIdent, p.curTok.Literal)
		return nil
	}
	p.nextToken()
	collection:= p.parseExpression(precLowest)
	if !p.expectPeek(token.RParen, CodeExpectedRParen) {
		return nil
	}
	p.nextToken()
	body:= p.parseStatement()
	s:= &ir.ForeachStatement{Var: v, VarIsLocal: varIsLocal, Collection: collection, Body: body}
	s.Token = tok
	return s
}

func (p *Parser) parseExpressionStatement() ir.Statement {
	tok:= p.curTok
	expr:= p.parseExpression(precLowest)
	s:= &ir.ExpressionStatement{Expression: expr}
	s.Token = tok
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	return s
}

// foldConstants folds constant-shaped subtrees of expr after parsing:
// `+ - * / %` on two integer literals (division or remainder by zero is
// left unfolded) and `+` on two plain string literals. Float operands are
// not folded, and syms is not consulted.
func foldConstants(expr ir.Expression, syms *symtab.SymbolTable) ir.Expression {
	infix, ok:= expr.(*ir.InfixExpression)
	if !ok {
		return expr
	}
	left:= foldConstants(infix.Left, syms)
	right:= foldConstants(infix.Right, syms)
	infix.Left, infix.Right = left, right

	li, lok:= left.(*ir.IntegerLiteral)
	ri, rok:= right.(*ir.IntegerLiteral)
	if lok && rok {
		if v, ok:= foldIntOp(infix.Operator, li.Value, ri.Value); ok {
			out:= &ir.IntegerLiteral{Value: v}
			out.Token = infix.Token
			return out
		}
	}
	ls, lsok:= left.(*ir.StringLiteral)
	rs, rsok:= right.(*ir.StringLiteral)
	if lsok && rsok && infix.Operator == "+" {
		out:= &ir.StringLiteral{Value: ls.Value + rs.Value}
		out.Token = infix.Token
		return out
	}
	return infix
}

func foldIntOp(op string, a, b int64) (int64, bool) {
	switch op {
	case "+":
		return a + b, true
	case "-":
		return a - b, true
	case "*":
		return a * b, true
	case "/":
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case "%":
		if b == 0 {
			return 0, false
		}
		return a % b, true
	default:
		return 0, false
	}
}
