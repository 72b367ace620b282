package objfile

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/symtab"
)

func TestWriteThenReadSymbolsRoundTrips(t *testing.T) {
	syms := symtab.New()

	obj := &symtab.ObjectSymbol{
		Header:       symtab.Header{SymName: "lamp", SymKind: symtab.KindObject},
		IsClass:      false,
		Transient:    true,
		Superclasses: []string{"Thing"},
	}
	require.NoError(t, syms.Add(obj))

	prop := &symtab.PropertySymbol{
		Header: symtab.Header{SymName: "desc", SymKind: symtab.KindProperty},
		PropID: 5,
		Vocab:  true,
	}
	require.NoError(t, syms.Add(prop))

	fn := &symtab.FunctionSymbol{
		Header:          symtab.Header{SymName: "main", SymKind: symtab.KindFunction, External: false},
		NumFixedArgs:    1,
		NumOptionalArgs: 2,
		HasReturn:       true,
	}
	require.NoError(t, syms.Add(fn))

	enum := &symtab.EnumSymbol{
		Header: symtab.Header{SymName: "north", SymKind: symtab.KindEnum},
		EnumID: 3,
	}
	require.NoError(t, syms.Add(enum))

	meta := &symtab.MetaclassSymbol{
		Header: symtab.Header{SymName: "Dictionary", SymKind: symtab.KindMetaclass},
		Tag:    symtab.DictionaryMeta,
	}
	require.NoError(t, syms.Add(meta))

	prog := &ir.Program{}
	cfg := &BuildConfig{BuildID: uuid.New(), CompilerVersion: "t3c-test"}
	resolveStmt := func(h symtab.Handle) *ir.ObjectStmt { return nil }

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, prog, syms, resolveStmt, cfg, []string{"fnset1"}, []string{"meta1"}))

	out := symtab.New()
	warnings, err := ReadSymbols(&buf, out)
	require.NoError(t, err)
	assert.Empty(t, warnings)

	gotObj, ok := out.Find("lamp").(*symtab.ObjectSymbol)
	require.True(t, ok)
	assert.True(t, gotObj.Transient)
	assert.Equal(t, []string{"Thing"}, gotObj.Superclasses)

	gotProp, ok := out.Find("desc").(*symtab.PropertySymbol)
	require.True(t, ok)
	assert.EqualValues(t, 5, gotProp.PropID)
	assert.True(t, gotProp.Vocab)

	gotFn, ok := out.Find("main").(*symtab.FunctionSymbol)
	require.True(t, ok)
	assert.Equal(t, 1, gotFn.NumFixedArgs)
	assert.Equal(t, 2, gotFn.NumOptionalArgs)
	assert.True(t, gotFn.HasReturn)

	gotEnum, ok := out.Find("north").(*symtab.EnumSymbol)
	require.True(t, ok)
	assert.Equal(t, 3, gotEnum.EnumID)

	gotMeta, ok := out.Find("Dictionary").(*symtab.MetaclassSymbol)
	require.True(t, ok)
	assert.Equal(t, symtab.DictionaryMeta, gotMeta.Tag)
}

func TestReadSymbolsRejectsUnrecognizedMagic(t *testing.T) {
	buf := bytes.NewBufferString("not-an-object-file-at-all!!")
	_, err := ReadSymbols(buf, symtab.New())
	assert.Error(t, err)
}

func TestMergeImportedSymbolDowngradesIdempotentReimportToPedantic(t *testing.T) {
	syms := symtab.New()
	first := &symtab.FunctionSymbol{Header: symtab.Header{SymName: "foo", SymKind: symtab.KindFunction}}
	require.NoError(t, syms.Add(first))

	second := &symtab.FunctionSymbol{Header: symtab.Header{SymName: "foo", SymKind: symtab.KindFunction}}
	warnings := mergeImportedSymbol(syms, second)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Message, "pedantic")
}

func TestMergeImportedSymbolSurfacesKindMismatchAsWarning(t *testing.T) {
	syms := symtab.New()
	require.NoError(t, syms.Add(&symtab.ObjectSymbol{Header: symtab.Header{SymName: "foo", SymKind: symtab.KindObject}}))

	warnings := mergeImportedSymbol(syms, &symtab.FunctionSymbol{Header: symtab.Header{SymName: "foo", SymKind: symtab.KindFunction}})
	require.Len(t, warnings, 1)
	assert.NotContains(t, warnings[0].Message, "pedantic")
}

func TestImportWarningString(t *testing.T) {
	w := ImportWarning{Name: "foo", Message: "bar"}
	assert.Equal(t, "foo: bar", w.String())
}

func TestAssignObjectIDsIsDenseAndStable(t *testing.T) {
	syms := symtab.New()
	a := &symtab.ObjectSymbol{Header: symtab.Header{SymName: "a", SymKind: symtab.KindObject}}
	b := &symtab.ObjectSymbol{Header: symtab.Header{SymName: "b", SymKind: symtab.KindObject}}
	require.NoError(t, syms.Add(a))
	require.NoError(t, syms.Add(b))
	anon := &symtab.ObjectSymbol{Header: symtab.Header{SymKind: symtab.KindObject}}
	syms.AddAnonymous(anon)

	idx := assignObjectIDs(syms)
	assert.EqualValues(t, 1, idx[a])
	assert.EqualValues(t, 2, idx[b])
	assert.EqualValues(t, 3, idx[anon])
}
