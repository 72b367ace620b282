package ir

import (
	"strings"

	"github.com/dr8co/t3c/token"
)

// base carries the leading token shared by most leaf/operator nodes, giving
// every concrete node a Token field to derive TokenLiteral and Pos from.
type base struct {
	Token token.Token
}

func (b base) TokenLiteral() string { return b.Token.Literal }
func (b base) Pos() token.Pos { return b.Token.Pos }

// Identifier names a local, property, object, function, or enumerator.
type Identifier struct {
	base
	Value string
}

func (*Identifier) expressionNode() {}
func (id *Identifier) String() string { return id.Value }

// IntegerLiteral is an integer constant.
type IntegerLiteral struct {
	base
	Value int64
}

func (*IntegerLiteral) expressionNode() {}
func (il *IntegerLiteral) String() string { return il.Token.Literal }

// FloatLiteral is a floating-point constant.
type FloatLiteral struct {
	base
	Value float64
}

func (*FloatLiteral) expressionNode() {}
func (fl *FloatLiteral) String() string { return fl.Token.Literal }

// BoolLiteral is the `true` truth-value constant (TADS3 has no `false`;
// `nil`, a [NilLiteral], doubles as both "no value" and "false").
type BoolLiteral struct {
	base
	Value bool
}

func (*BoolLiteral) expressionNode() {}
func (b *BoolLiteral) String() string { return b.Token.Literal }

// NilLiteral is the `nil` constant, distinct from BoolLiteral so constant
// folding and template matching can tell "false" from "no value" when a
// property is explicitly assigned `nil`.
type NilLiteral struct{ base }

func (*NilLiteral) expressionNode() {}
func (*NilLiteral) String() string { return "nil" }

// StringLiteral is a plain (non-embedding) double-quoted string. Plain
// double-quoted strings are statements with side-effecting print semantics,
// not values — see [DstrStatement].
type StringLiteral struct {
	base
	Value string
}

func (*StringLiteral) expressionNode() {}
func (sl *StringLiteral) String() string { return "\"" + sl.Value + "\"" }

// VocabLiteral is a single-quoted string used as a dictionary vocabulary
// word, either standalone or inside a vocabulary property's bare word list.
type VocabLiteral struct {
	base
	Value string
}

func (*VocabLiteral) expressionNode() {}
func (vl *VocabLiteral) String() string { return "'" + vl.Value + "'" }

// DstrExpression is a double-quoted string containing one or more
// `<<expr>>` embeddings, represented as alternating literal segments and
// parsed embedded expressions.
type DstrExpression struct {
	base
	// Segments are the literal text runs, Segments[i] preceding
	// Embeds[i] for i < len(Embeds), with a trailing Segments entry after
	// the last embed.
	Segments []string
	Embeds []Expression
}

func (*DstrExpression) expressionNode() {}
func (d *DstrExpression) String() string {
	var out strings.Builder
	for i, s:= range d.Segments {
		out.WriteString(s)
		if i < len(d.Embeds) {
			out.WriteString("<<")
			out.WriteString(d.Embeds[i].String())
			out.WriteString(">>")
		}
	}
	return "\"" + out.String() + "\""
}

// PrefixExpression is a unary prefix operator applied to Right.
type PrefixExpression struct {
	base
	Operator string
	Right Expression
}

func (*PrefixExpression) expressionNode() {}
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression is a binary operator applied to Left and Right.
type InfixExpression struct {
	base
	Left Expression
	Operator string
	Right Expression
}

func (*InfixExpression) expressionNode() {}
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// TernaryExpression is the `cond ? a: b` conditional operator.
type TernaryExpression struct {
	base
	Cond, Then, Else Expression
}

func (*TernaryExpression) expressionNode() {}
func (te *TernaryExpression) String() string {
	return "(" + te.Cond.String() + " ? " + te.Then.String() + ": " + te.Else.String() + ")"
}

// CallExpression is a function or method call.
type CallExpression struct {
	base
	Function Expression
	Arguments []Expression
}

func (*CallExpression) expressionNode() {}
func (ce *CallExpression) String() string {
	args:= make([]string, 0, len(ce.Arguments))
	for _, a:= range ce.Arguments {
		args = append(args, a.String())
	}
	return ce.Function.String() + "(" + strings.Join(args, ", ") + ")"
}

// PropertyExpression is `obj.prop` or `obj.(exprProp)` property access; when
// HasCall is set it is a method call `obj.prop(args)` with its arguments in
// Args.
type PropertyExpression struct {
	base
	Object Expression
	Prop Expression // Identifier, or an arbitrary expression for obj.(expr)
	Args []Expression
	HasCall bool
}

func (*PropertyExpression) expressionNode() {}
func (pe *PropertyExpression) String() string {
	var out strings.Builder
	out.WriteString(pe.Object.String())
	out.WriteString(".")
	out.WriteString(pe.Prop.String())
	if pe.HasCall {
		args:= make([]string, 0, len(pe.Args))
		for _, a:= range pe.Args {
			args = append(args, a.String())
		}
		out.WriteString("(")
		out.WriteString(strings.Join(args, ", "))
		out.WriteString(")")
	}
	return out.String()
}

// IndexExpression is `array[index]`.
type IndexExpression struct {
	base
	Left Expression
	Index Expression
}

func (*IndexExpression) expressionNode() {}
func (ie *IndexExpression) String() string {
	return "(" + ie.Left.String() + "[" + ie.Index.String() + "])"
}

// ListLiteral is a `[a, b, c]` list constant.
type ListLiteral struct {
	base
	Elements []Expression
}

func (*ListLiteral) expressionNode() {}
func (ll *ListLiteral) String() string {
	elems:= make([]string, 0, len(ll.Elements))
	for _, e:= range ll.Elements {
		elems = append(elems, e.String())
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// SelfExpression is the `self` keyword.
type SelfExpression struct{ base }

func (*SelfExpression) expressionNode() { }
func (*SelfExpression) String() string { return "self" }

// InheritedExpression is `inherited` or `inherited <class>`, optionally
// followed by a property/method call.
type InheritedExpression struct {
	base
	Class *Identifier // nil unless `inherited <class>.prop(...)`
	Prop Expression
	Args []Expression
}

func (*InheritedExpression) expressionNode() {}
func (ie *InheritedExpression) String() string {
	var out strings.Builder
	out.WriteString("inherited")
	if ie.Class != nil {
		out.WriteString(" ")
		out.WriteString(ie.Class.Value)
	}
	if ie.Prop != nil {
		out.WriteString(".")
		out.WriteString(ie.Prop.String())
	}
	return out.String()
}

// DelegatedExpression is `delegated <class>.prop(...)`.
type DelegatedExpression struct {
	base
	Class *Identifier
	Prop Expression
	Args []Expression
}

func (*DelegatedExpression) expressionNode() {}
func (de *DelegatedExpression) String() string {
	return "delegated " + de.Class.Value + "." + de.Prop.String()
}

// NewExpression is `new <class>(args)`.
type NewExpression struct {
	base
	Class Expression
	Args []Expression
}

func (*NewExpression) expressionNode() {}
func (ne *NewExpression) String() string { return "new " + ne.Class.String() }

// AnonFuncExpression is an anonymous function literal `function(params) { ... }`
// usable as an expression (e.g. as a callback argument).
type AnonFuncExpression struct {
	base
	Params []*Identifier
	Body *BlockStatement
}

func (*AnonFuncExpression) expressionNode() {}
func (af *AnonFuncExpression) String() string {
	params:= make([]string, 0, len(af.Params))
	for _, p:= range af.Params {
		params = append(params, p.Value)
	}
	return "function(" + strings.Join(params, ", ") + ") " + af.Body.String()
}

// -- Statements --------------------------------------------------------

// BlockStatement is a `{ ... }` statement sequence.
type BlockStatement struct {
	base
	Statements []Statement
}

func (*BlockStatement) statementNode() {}
func (bs *BlockStatement) String() string {
	var out strings.Builder
	out.WriteString("{ ")
	for _, s:= range bs.Statements {
		out.WriteString(s.String())
		out.WriteString(" ")
	}
	out.WriteString("}")
	return out.String()
}

// ExpressionStatement wraps a bare expression used as a statement.
type ExpressionStatement struct {
	base
	Expression Expression
}

func (*ExpressionStatement) statementNode() {}
func (es *ExpressionStatement) String() string {
	if es.Expression != nil {
		return es.Expression.String() + ";"
	}
	return ";"
}

// DstrStatement is a double-quoted string (plain or embedding) used as a
// statement: it has side-effecting print semantics and no return value.
type DstrStatement struct {
	base
	Value Expression // *StringLiteral or *DstrExpression
}

func (*DstrStatement) statementNode() {}
func (ds *DstrStatement) String() string { return ds.Value.String() + ";" }

// LocalStatement declares one or more locals: `local a, b = 1;`.
type LocalStatement struct {
	base
	Names []*Identifier
	Values []Expression // parallel to Names; nil entry means no initializer
}

func (*LocalStatement) statementNode() {}
func (ls *LocalStatement) String() string {
	var out strings.Builder
	out.WriteString("local ")
	for i, n:= range ls.Names {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(n.Value)
		if ls.Values[i] != nil {
			out.WriteString(" = ")
			out.WriteString(ls.Values[i].String())
		}
	}
	out.WriteString(";")
	return out.String()
}

// ReturnStatement is `return expr;` or a bare `return;`.
type ReturnStatement struct {
	base
	Value Expression
}

func (*ReturnStatement) statementNode() {}
func (rs *ReturnStatement) String() string {
	if rs.Value != nil {
		return "return " + rs.Value.String() + ";"
	}
	return "return;"
}

// IfStatement is `if (cond) then [else alt]`.
type IfStatement struct {
	base
	Cond Expression
	Then Statement
	Else Statement
}

func (*IfStatement) statementNode() {}
func (is *IfStatement) String() string {
	var out strings.Builder
	out.WriteString("if (")
	out.WriteString(is.Cond.String())
	out.WriteString(") ")
	out.WriteString(is.Then.String())
	if is.Else != nil {
		out.WriteString(" else ")
		out.WriteString(is.Else.String())
	}
	return out.String()
}

// WhileStatement is `while (cond) body`.
type WhileStatement struct {
	base
	Cond Expression
	Body Statement
}

func (*WhileStatement) statementNode() {}
func (ws *WhileStatement) String() string {
	return "while (" + ws.Cond.String() + ") " + ws.Body.String()
}

// DoWhileStatement is `do body while (cond);`.
type DoWhileStatement struct {
	base
	Body Statement
	Cond Expression
}

func (*DoWhileStatement) statementNode() {}
func (dw *DoWhileStatement) String() string {
	return "do " + dw.Body.String() + " while (" + dw.Cond.String() + ");"
}

// ForStatement is a C-style `for (init; cond; post) body`.
type ForStatement struct {
	base
	Init Statement
	Cond Expression
	Post Statement
	Body Statement
}

func (*ForStatement) statementNode() {}
func (fs *ForStatement) String() string { return "for (...) " + fs.Body.String() }

// ForeachStatement is `foreach (local x in expr) body`.
type ForeachStatement struct {
	base
	Var *Identifier
	VarIsLocal bool
	Collection Expression
	Body Statement
}

func (*ForeachStatement) statementNode() {}
func (fe *ForeachStatement) String() string {
	return "foreach (local " + fe.Var.Value + " in " + fe.Collection.String() + ") " + fe.Body.String()
}

// BreakStatement is `break;`.
type BreakStatement struct{ base }

func (*BreakStatement) statementNode() {}
func (*BreakStatement) String() string { return "break;" }

// ContinueStatement is `continue;`.
type ContinueStatement struct{ base }

func (*ContinueStatement) statementNode() {}
func (*ContinueStatement) String() string { return "continue;" }
