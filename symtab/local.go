package symtab

import "github.com/dr8co/t3c/token"

// LocalTable is the per-code-body variable resolver: a chain of scopes
// linked through Outer, with Resolve walking outward and promoting an
// outer hit to a free variable so the enclosing anonymous-function closure
// can capture it.
type LocalTable struct {
	Outer *LocalTable

	store map[string]*LocalSymbol
	numDefinitions int

	// FreeSymbols mirrors the outer-scope LocalSymbol for each variable
	// this scope captured by closing over it, in the order first resolved.
	FreeSymbols []*LocalSymbol

	// self, if non-nil, is the implicit `self` binding available inside a
	// method body.
	self *LocalSymbol
}

// NewLocalTable creates an empty top-level (non-nested) local table.
func NewLocalTable() *LocalTable {
	return &LocalTable{store: make(map[string]*LocalSymbol)}
}

// NewEnclosedLocalTable creates a local table for a nested anonymous
// function, chained to outer so Resolve can find and capture its locals.
func NewEnclosedLocalTable(outer *LocalTable) *LocalTable {
	t:= NewLocalTable()
	t.Outer = outer
	return t
}

// Define declares name as a plain local at the next available slot.
func (t *LocalTable) Define(name string, pos token.Pos) *LocalSymbol {
	sym:= &LocalSymbol{
		Header: Header{SymName: name, SymKind: KindLocal, SymPos: pos},
		Scope: ScopeLocal,
		Index: t.numDefinitions,
	}
	t.store[name] = sym
	t.numDefinitions++
	return sym
}

// DefineParam declares name as a formal parameter at the next available
// slot (parameters and locals share one index space: PARAM and LOCAL both
// draw from the numDefinitions counter).
func (t *LocalTable) DefineParam(name string, pos token.Pos) *LocalSymbol {
	sym:= t.Define(name, pos)
	sym.Scope = ScopeParam
	return sym
}

// DefineSelf installs the implicit `self` binding for a method body.
func (t *LocalTable) DefineSelf(pos token.Pos) *LocalSymbol {
	sym:= &LocalSymbol{
		Header: Header{SymName: "self", SymKind: KindLocal, SymPos: pos},
		Scope: ScopeSelf,
	}
	t.self = sym
	return sym
}

func (t *LocalTable) defineFree(original *LocalSymbol) *LocalSymbol {
	t.FreeSymbols = append(t.FreeSymbols, original)
	sym:= &LocalSymbol{
		Header: Header{SymName: original.SymName, SymKind: KindLocal, SymPos: original.SymPos},
		Scope: ScopeFree,
		Index: len(t.FreeSymbols) - 1,
	}
	t.store[original.SymName] = sym
	return sym
}

// Resolve looks up name in this scope, then outward, promoting any outer
// hit found below the top level to a free variable in every intervening
// scope so the closure chain can thread the capture down to where it's
// used.
func (t *LocalTable) Resolve(name string) (*LocalSymbol, bool) {
	if sym, ok:= t.store[name]; ok {
		return sym, true
	}
	if name == "self" && t.self != nil {
		return t.self, true
	}
	if t.Outer == nil {
		return nil, false
	}
	sym, ok:= t.Outer.Resolve(name)
	if !ok {
		return nil, false
	}
	if sym.Scope == ScopeLocal || sym.Scope == ScopeParam || sym.Scope == ScopeFree {
		free:= t.defineFree(sym)
		return free, true
	}
	return sym, true
}

// NumDefinitions reports how many local/param slots this scope has
// allocated, used to size the CodeBody's local-variable frame.
func (t *LocalTable) NumDefinitions() int { return t.numDefinitions }
