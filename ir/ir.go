// Package ir defines the intermediate representation the t3c parser builds:
// the expression/statement tree for code bodies, and the program-level
// nodes (objects, properties, templates, grammar productions, exports)
// that the object-body parser and program-level parser emit.
//
// [Node] is the common interface, [Statement] and [Expression] mark the two
// node families, and [Program] is the parse root. Beyond a flat
// statement/expression split, t3c's program level also produces nodes that
// are neither — [ObjectStmt], [GrammarProd], [Export] — which
// are linked directly into [Program] in source order.
package ir

import (
	"strings"

	"github.com/dr8co/t3c/token"
)

// Node is the base interface implemented by every IR node.
type Node interface {
	// TokenLiteral returns the literal of the node's leading token, for
	// diagnostics.
	TokenLiteral() string
	// String renders the node for debugging and golden-output tests.
	String() string
	// Pos returns the node's source position.
	Pos() token.Pos
}

// Statement is a code-body node that performs an action.
type Statement interface {
	Node
	statementNode
}

// Expression is a code-body node that produces a value.
type Expression interface {
	Node
	expressionNode
}

// TopLevel is a node that can appear directly in a [Program]: code-level
// statements never do (they only occur inside a [CodeBody]); top-level
// productions are object/function/grammar/enum/export definitions.
type TopLevel interface {
	Node
	topLevelNode
}

// Program is the root of a parsed translation unit: every top-level
// definition, in source order.
type Program struct {
	TopLevels []TopLevel
}

func (p *Program) TokenLiteral() string {
	if len(p.TopLevels) > 0 {
		return p.TopLevels[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Pos() token.Pos {
	if len(p.TopLevels) > 0 {
		return p.TopLevels[0].Pos()
	}
	return token.Pos{}
}

func (p *Program) String() string {
	var out strings.Builder
	for _, t:= range p.TopLevels {
		out.WriteString(t.String())
		out.WriteString("\n")
	}
	return out.String()
}
