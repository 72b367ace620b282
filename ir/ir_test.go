package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

func ident(name string) *Identifier {
	return &Identifier{base: base{Token: token.Token{Kind: token.Ident, Literal: name}}, Value: name}
}

func TestInfixExpressionString(t *testing.T) {
	ie := &InfixExpression{
		Left:     &IntegerLiteral{base: base{Token: token.Token{Literal: "1"}}, Value: 1},
		Operator: "+",
		Right:    &IntegerLiteral{base: base{Token: token.Token{Literal: "2"}}, Value: 2},
	}
	assert.Equal(t, "(1 + 2)", ie.String())
}

func TestTernaryExpressionString(t *testing.T) {
	te := &TernaryExpression{
		Cond: ident("ok"),
		Then: &IntegerLiteral{base: base{Token: token.Token{Literal: "1"}}, Value: 1},
		Else: &IntegerLiteral{base: base{Token: token.Token{Literal: "0"}}, Value: 0},
	}
	assert.Equal(t, "(ok ? 1: 0)", te.String())
}

func TestDstrExpressionStringInterleavesSegmentsAndEmbeds(t *testing.T) {
	d := &DstrExpression{
		Segments: []string{"hello, ", "!"},
		Embeds:   []Expression{ident("name")},
	}
	assert.Equal(t, "\"hello, <<name>>!\"", d.String())
}

func TestPropertyExpressionStringWithAndWithoutCall(t *testing.T) {
	noCall := &PropertyExpression{Object: ident("self"), Prop: ident("desc")}
	assert.Equal(t, "self.desc", noCall.String())

	withCall := &PropertyExpression{
		Object:  ident("self"),
		Prop:    ident("addToScore"),
		Args:    []Expression{&IntegerLiteral{base: base{Token: token.Token{Literal: "5"}}, Value: 5}},
		HasCall: true,
	}
	assert.Equal(t, "self.addToScore(5)", withCall.String())
}

func TestInheritedExpressionStringWithClassAndProp(t *testing.T) {
	ie := &InheritedExpression{Class: ident("Thing"), Prop: ident("dobjFor")}
	assert.Equal(t, "inherited Thing.dobjFor", ie.String())

	bare := &InheritedExpression{}
	assert.Equal(t, "inherited", bare.String())
}

func TestLocalStatementStringWithMixedInitializers(t *testing.T) {
	ls := &LocalStatement{
		Names:  []*Identifier{ident("a"), ident("b")},
		Values: []Expression{nil, &IntegerLiteral{base: base{Token: token.Token{Literal: "3"}}, Value: 3}},
	}
	assert.Equal(t, "local a, b = 3;", ls.String())
}

func TestIfStatementStringWithElse(t *testing.T) {
	is := &IfStatement{
		Cond: ident("cond"),
		Then: &ExpressionStatement{Expression: ident("a")},
		Else: &ExpressionStatement{Expression: ident("b")},
	}
	assert.Equal(t, "if (cond) a; else b;", is.String())
}

func TestObjectStmtStringRendersSuperclassesAndProps(t *testing.T) {
	sym := &symtab.ObjectSymbol{Header: symtab.Header{SymName: "lamp", SymKind: symtab.KindObject}}
	stmt := &ObjectStmt{
		Sym:          sym,
		Superclasses: []*Identifier{ident("Thing")},
		Props: []*ObjectProp{
			{Prop: &symtab.PropertySymbol{Header: symtab.Header{SymName: "desc"}}, Value: PropValue{Const: &StringLiteral{Value: "a lamp"}}},
		},
	}
	assert.Equal(t, `lamp: Thing { desc = "a lamp"; }`, stmt.String())
}

func TestObjectStmtStringAnonymousHasNoName(t *testing.T) {
	stmt := &ObjectStmt{}
	assert.Contains(t, stmt.String(), "<anon>")
}

func TestFunctionStmtStringExternHasNoBody(t *testing.T) {
	sym := &symtab.FunctionSymbol{Header: symtab.Header{SymName: "foo", SymKind: symtab.KindFunction}}
	fs := &FunctionStmt{Sym: sym, IsExtern: true}
	assert.Equal(t, "extern function foo;", fs.String())
}

func TestEnumStmtStringMarksTokenEnums(t *testing.T) {
	es := &EnumStmt{Names: []*Identifier{ident("north"), ident("south")}, IsToken: true}
	assert.Equal(t, "enum token north, south;", es.String())
}

func TestExportStringWithAsClause(t *testing.T) {
	e := &Export{Internal: ident("score"), External: "totalScore"}
	assert.Equal(t, "export score as totalScore;", e.String())

	same := &Export{Internal: ident("score"), External: "score"}
	assert.Equal(t, "export score;", same.String())
}

func TestProgramPosDelegatesToFirstTopLevel(t *testing.T) {
	pos := token.Pos{File: 1, Line: 7}
	obj := &ObjectStmt{base: base{Token: token.Token{Pos: pos}}}
	prog := &Program{TopLevels: []TopLevel{obj}}
	assert.Equal(t, pos, prog.Pos())

	empty := &Program{}
	assert.Equal(t, token.Pos{}, empty.Pos())
}

func TestCodeBodyStringRendersParamsAndBody(t *testing.T) {
	cb := &CodeBody{
		Params: []*Identifier{ident("actor"), ident("item")},
		Body:   &BlockStatement{Statements: []Statement{&ReturnStatement{}}},
	}
	assert.Equal(t, "(actor, item) { return; }", cb.String())
}
