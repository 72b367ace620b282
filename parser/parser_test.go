package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/lexer"
	"github.com/dr8co/t3c/symtab"
)

// parseSource lexes and parses src into a Program, returning the parser so
// tests can inspect its symbol table and error sink.
func parseSource(t *testing.T, src string) (*ir.Program, *Parser) {
	t.Helper()
	lx := lexer.New(src, 0)
	ts := NewTokenSource(lx)
	syms := symtab.New()
	errs := NewErrorSink()
	p := New(ts, syms, errs, 0)
	prog := p.ParseProgram()
	return prog, p
}

func TestParseForwardReferencedObjectUpgradesExternalStub(t *testing.T) {
	src := `
flashlight: Lamp { }
Lamp: object { isOn = nil; }
`
	_, p := parseSource(t, src)
	require.False(t, p.Errs.HasErrors())

	sym, ok := p.Syms.Find("Lamp").(*symtab.ObjectSymbol)
	require.True(t, ok)
	assert.False(t, sym.IsExternal(), "a real definition must clear the external forward-reference flag")
}

func TestParseModifyObjectChainsPreviousDefinition(t *testing.T) {
	src := `
lamp: object { desc = "a lamp"; }
modify lamp { desc = "a shiny lamp"; }
`
	_, p := parseSource(t, src)
	require.False(t, p.Errs.HasErrors())

	sym, ok := p.Syms.Find("lamp").(*symtab.ObjectSymbol)
	require.True(t, ok)
	assert.True(t, sym.Modified)
	require.NotNil(t, sym.ModBase)
	assert.Equal(t, " lamp", sym.ModBase.Name())
}

func TestParseCircularClassIsReported(t *testing.T) {
	src := `
class A: B { }
class B: A { }
`
	_, p := parseSource(t, src)
	require.True(t, p.Errs.HasErrors())

	var sawCircular bool
	for _, d := range p.Errs.Diagnostics() {
		if d.Code == CodeCircularClass {
			sawCircular = true
		}
	}
	assert.True(t, sawCircular, "expected a CodeCircularClass diagnostic")
}

func TestParseMultiMethodFunctionGroupSharesBase(t *testing.T) {
	src := `
function describe(obj: Thing) { }
function describe(obj: Actor) { }
`
	_, p := parseSource(t, src)
	require.False(t, p.Errs.HasErrors())

	base, ok := p.Syms.Find("describe").(*symtab.FunctionSymbol)
	require.True(t, ok)
	assert.True(t, base.IsMultimethodBase)
}

func TestParsePropertysetExpandsWildcardPattern(t *testing.T) {
	src := `
lamp: object {
	propertyset 'prop*' {
		Desc = "a lamp";
	}
}
`
	prog, p := parseSource(t, src)
	require.False(t, p.Errs.HasErrors())
	require.Len(t, prog.TopLevels, 1)

	obj, ok := prog.TopLevels[0].(*ir.ObjectStmt)
	require.True(t, ok)
	require.Len(t, obj.Props, 2) // propDesc plus the implicit sourceTextOrder slot
	assert.Equal(t, "propDesc", obj.Props[0].Prop.Name())
}

func TestParseSuperclassForwardReferenceDeclaresExternalStub(t *testing.T) {
	src := `lamp: Thing { }`
	_, p := parseSource(t, src)
	require.False(t, p.Errs.HasErrors())

	sym, ok := p.Syms.Find("Thing").(*symtab.ObjectSymbol)
	require.True(t, ok)
	assert.True(t, sym.IsExternal())
}

func TestParsePlusNestingSetsLocationProperty(t *testing.T) {
	src := `
room: object { }
+ lamp: object { }
`
	prog, p := parseSource(t, src)
	require.False(t, p.Errs.HasErrors())
	require.Len(t, prog.TopLevels, 2)

	lampStmt, ok := prog.TopLevels[1].(*ir.ObjectStmt)
	require.True(t, ok)

	var found bool
	for _, prop := range lampStmt.Props {
		if prop.Prop != nil && prop.Prop.Name() == "location" {
			found = true
			id, ok := prop.Value.Const.(*ir.Identifier)
			require.True(t, ok)
			assert.Equal(t, "room", id.Value)
		}
	}
	assert.True(t, found, "expected a synthesized location property")
}

func TestParseExpressionPrecedence(t *testing.T) {
	src := `function f() { return 1 + 2 * 3; }`
	prog, p := parseSource(t, src)
	require.False(t, p.Errs.HasErrors())
	require.Len(t, prog.TopLevels, 1)

	fn, ok := prog.TopLevels[0].(*ir.FunctionStmt)
	require.True(t, ok)
	require.NotNil(t, fn.Body)
	require.Len(t, fn.Body.Body.Statements, 1)

	ret, ok := fn.Body.Body.Statements[0].(*ir.ReturnStatement)
	require.True(t, ok)
	assert.Equal(t, "(1 + (2 * 3))", ret.Value.String())
}

func TestParseDuplicatePropertyIsReported(t *testing.T) {
	src := `lamp: object { desc = "a"; desc = "b"; }`
	_, p := parseSource(t, src)
	require.True(t, p.Errs.HasErrors())

	var sawDup bool
	for _, d := range p.Errs.Diagnostics() {
		if d.Code == CodeDuplicateProperty {
			sawDup = true
		}
	}
	assert.True(t, sawDup)
}

func TestParseExportWithAsClause(t *testing.T) {
	src := `export main as entryPoint;`
	prog, p := parseSource(t, src)
	require.False(t, p.Errs.HasErrors())
	require.Len(t, prog.TopLevels, 1)

	e, ok := prog.TopLevels[0].(*ir.Export)
	require.True(t, ok)
	assert.Equal(t, "main", e.Internal.Value)
	assert.Equal(t, "entryPoint", e.External)
}
