package parser

import (
	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

// operatorArities maps each overloadable operator token to the formal
// counts a definition may declare: most are strictly binary (one rhs
// formal), `-` also allows the zero-formal unary form, and `~` takes only
// the zero-formal unary form.
var operatorArities = map[token.Kind][]int{
	token.Plus: {1},
	token.Minus: {0, 1},
	token.Star: {1},
	token.Slash: {1},
	token.Percent: {1},
	token.Amp: {1},
	token.Pipe: {1},
	token.Caret: {1},
	token.Tilde: {0},
	token.ShL: {1},
	token.ShR: {1},
	token.Lt: {1},
	token.Gt: {1},
	token.Le: {1},
	token.Ge: {1},
	token.LBracket: {1}, // operator []
}

func operatorTokenName(k token.Kind) string {
	switch k {
	case token.Plus:
		return "+"
	case token.Minus:
		return "-"
	case token.Star:
		return "*"
	case token.Slash:
		return "/"
	case token.Percent:
		return "%"
	case token.Amp:
		return "&"
	case token.Pipe:
		return "|"
	case token.Caret:
		return "^"
	case token.Tilde:
		return "~"
	case token.ShL:
		return "<<"
	case token.ShR:
		return ">>"
	case token.Lt:
		return "<"
	case token.Gt:
		return ">"
	case token.Le:
		return "<="
	case token.Ge:
		return ">="
	case token.LBracket:
		return "[]"
	default:
		return "?"
	}
}

// parseOperatorProp parses `operator <op> (formals) { ... }`, validating
// the formal count against the operator's allowed arity.
//
// curTok is on `operator` when this is called.
func (p *Parser) parseOperatorProp(sym *symtab.ObjectSymbol) *ir.ObjectProp {
	p.nextToken()
	opKind:= p.curTok.Kind
	opPos:= p.curTok.Pos
	arities, known:= operatorArities[opKind]
	if !known {
		p.Errs.Report(opPos, SevError, CodeBadOperatorArity, p.curTok.Literal)
		p.nextToken()
		return nil
	}

	opName:= "operator" + operatorTokenName(opKind)
	propSym:= p.defineOrUpgradeProperty(opName, opPos)

	if opKind == token.LBracket {
		p.expectPeek(token.RBracket, CodeExpectedRBrace)
	}
	if !p.expectPeek(token.LParen, CodeExpectedRParen) {
		return nil
	}
	formals, _:= p.parseTypedFormals()

	arityOK:= false
	for _, n:= range arities {
		if n == len(formals) {
			arityOK = true
			break
		}
	}
	if !arityOK {
		p.Errs.Report(opPos, SevError, CodeBadOperatorArity, opName)
	}

	cb:= p.parseCodeBodyFromFormals(formals)
	return &ir.ObjectProp{Prop: propSym, Value: ir.PropValue{Code: cb}}
}
