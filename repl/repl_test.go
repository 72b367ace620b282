package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dr8co/t3c/parser"
	"github.com/dr8co/t3c/token"
)

func TestIsBalancedTracksBracketsBracesAndParens(t *testing.T) {
	assert.True(t, isBalanced(""))
	assert.True(t, isBalanced("foo(1, [2, 3], {a: 1})"))
	assert.False(t, isBalanced("foo("))
	assert.False(t, isBalanced("foo)"))
	assert.False(t, isBalanced("{ [ ) ] }"))
}

func TestIsKeywordKindCoversReservedWordRange(t *testing.T) {
	assert.True(t, isKeywordKind(token.KwFunction))
	assert.True(t, isKeywordKind(token.KwThrow))
	assert.True(t, isKeywordKind(token.KwObject))
	assert.False(t, isKeywordKind(token.Ident))
	assert.False(t, isKeywordKind(token.EOF))
}

func TestIsOperatorKindMatchesOperatorsOnly(t *testing.T) {
	assert.True(t, isOperatorKind(token.Plus))
	assert.True(t, isOperatorKind(token.ShL))
	assert.False(t, isOperatorKind(token.LParen))
	assert.False(t, isOperatorKind(token.Ident))
}

func TestIsDelimiterKindMatchesDelimitersOnly(t *testing.T) {
	assert.True(t, isDelimiterKind(token.LParen))
	assert.True(t, isDelimiterKind(token.Semi))
	assert.False(t, isDelimiterKind(token.Plus))
	assert.False(t, isDelimiterKind(token.Ident))
}

func TestHighlightCodeWithNoColorReturnsPlainSpacedTokens(t *testing.T) {
	m:= initialModel("", Options{NoColor: true})
	got:= m.highlightCode(`lamp.desc = "a lamp";`)
	// Double-quoted literals render without their surrounding quotes; only
	// the single-quoted vocabulary-word case re-adds delimiters.
	assert.Equal(t, `lamp . desc = a lamp ;`, got)
}

func TestHighlightCodeEmptyInputIsEmpty(t *testing.T) {
	m:= initialModel("", Options{NoColor: true})
	assert.Equal(t, "", m.highlightCode(""))
}

func TestFormatDiagnosticsNumbersEachLine(t *testing.T) {
	got:= formatDiagnostics(nil)
	assert.Equal(t, "", got)

	diags:= []parser.Diagnostic{
		{Pos: token.Pos{File: 0, Line: 3}, Severity: parser.SevError, Code: parser.CodeExpectedSemi},
		{Pos: token.Pos{File: 0, Line: 7}, Severity: parser.SevWarning, Code: parser.CodeUndescribedTemplate, Args: []any{"lamp"}},
	}
	assert.Equal(t, " 1. 0:3: error: ExpectedSemi []\n 2. 0:7: warning: UndescribedTemplate [lamp]\n", formatDiagnostics(diags))
}
