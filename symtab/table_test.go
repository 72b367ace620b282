package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dr8co/t3c/token"
)

func TestAddThenFind(t *testing.T) {
	tab := New()
	sym := &ObjectSymbol{Header: Header{SymName: "lamp", SymKind: KindObject}}

	require.NoError(t, tab.Add(sym))
	assert.Same(t, sym, tab.Find("lamp"))
	assert.Equal(t, 1, tab.Len())
}

func TestAddDuplicateRejected(t *testing.T) {
	tab := New()
	first := &ObjectSymbol{Header: Header{SymName: "lamp", SymKind: KindObject}}
	second := &ObjectSymbol{Header: Header{SymName: "lamp", SymKind: KindObject}}
	require.NoError(t, tab.Add(first))

	err := tab.Add(second)
	require.Error(t, err)
	var dup *DuplicateSymbolError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "lamp", dup.Name)
}

func TestAddUpgradesExternalForwardReference(t *testing.T) {
	tab := New()
	stub := &ObjectSymbol{Header: Header{SymName: "lamp", SymKind: KindObject, External: true}}
	require.NoError(t, tab.Add(stub))

	real := &ObjectSymbol{Header: Header{SymName: "lamp", SymKind: KindObject}}
	require.NoError(t, tab.Add(real))
	assert.Same(t, real, tab.Find("lamp"))
}

func TestAddKindMismatch(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Add(&ObjectSymbol{Header: Header{SymName: "lamp", SymKind: KindObject}}))

	err := tab.Add(&FunctionSymbol{Header: Header{SymName: "lamp", SymKind: KindFunction}})
	require.Error(t, err)
	var mismatch *KindMismatchError
	require.ErrorAs(t, err, &mismatch)
}

func TestFindDeleteWeakRemovesWeakProperty(t *testing.T) {
	tab := New()
	weak := &PropertySymbol{Header: Header{SymName: "desc", SymKind: KindProperty}, Weak: true}
	require.NoError(t, tab.Add(weak))

	sym, ok := tab.FindDeleteWeak("desc")
	assert.False(t, ok)
	assert.Nil(t, sym)
	assert.Nil(t, tab.Find("desc"))
}

func TestResolveOrDeclareExternalDeclaresOnce(t *testing.T) {
	tab := New()
	calls := 0
	make := func() Symbol {
		calls++
		return &ObjectSymbol{Header: Header{SymName: "Floyd", SymKind: KindObject, External: true}}
	}

	first := tab.ResolveOrDeclareExternal("Floyd", make)
	second := tab.ResolveOrDeclareExternal("Floyd", make)
	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
}

func TestAnonymousObjectsTrackedSeparately(t *testing.T) {
	tab := New()
	a := &ObjectSymbol{Header: Header{SymKind: KindObject}}
	b := &ObjectSymbol{Header: Header{SymKind: KindObject}}
	tab.AddAnonymous(a)
	tab.AddAnonymous(b)

	assert.True(t, a.Anonymous)
	assert.Equal(t, []*ObjectSymbol{a, b}, tab.Anonymous())
	assert.Equal(t, 0, tab.Len(), "anonymous objects never occupy the named table")
}

func TestEnumerateIsNameSorted(t *testing.T) {
	tab := New()
	require.NoError(t, tab.Add(&ObjectSymbol{Header: Header{SymName: "zephyr", SymKind: KindObject}}))
	require.NoError(t, tab.Add(&ObjectSymbol{Header: Header{SymName: "alpha", SymKind: KindObject}}))

	var names []string
	tab.Enumerate(func(s Symbol) { names = append(names, s.Name()) })
	assert.Equal(t, []string{"alpha", "zephyr"}, names)
}

func TestMarkVocabPropertyFirstSeenOnly(t *testing.T) {
	tab := New()
	assert.True(t, tab.MarkVocabProperty("noun"))
	assert.False(t, tab.MarkVocabProperty("noun"))
	assert.True(t, tab.VocabProperties()["noun"])
}

func TestRemoveOnlyDeletesMatchingEntry(t *testing.T) {
	tab := New()
	sym := &ObjectSymbol{Header: Header{SymName: "lamp", SymKind: KindObject}}
	require.NoError(t, tab.Add(sym))

	tab.Remove(&ObjectSymbol{Header: Header{SymName: "lamp", SymKind: KindObject}})
	assert.NotNil(t, tab.Find("lamp"), "Remove must not delete a different instance under the same name")

	tab.Remove(sym)
	assert.Nil(t, tab.Find("lamp"))
}

func TestDuplicateSymbolErrorMessage(t *testing.T) {
	err := &DuplicateSymbolError{
		Name:     "lamp",
		Existing: &ObjectSymbol{Header: Header{SymKind: KindObject}},
		New:      &FunctionSymbol{Header: Header{SymKind: KindFunction}},
	}
	assert.Contains(t, err.Error(), "lamp")
}

func TestSymbolPosAndKind(t *testing.T) {
	sym := &ObjectSymbol{Header: Header{SymName: "lamp", SymKind: KindObject, SymPos: token.Pos{File: 2, Line: 5}}}
	assert.Equal(t, KindObject, sym.Kind())
	assert.Equal(t, token.Pos{File: 2, Line: 5}, sym.Pos())
	assert.Equal(t, "lamp", sym.Name())
}
