package symtab

import (
	"fmt"
	"sort"
)

// DuplicateSymbolError reports that [SymbolTable.Add] was asked to install
// a symbol whose name clashes with an existing entry and no resolution
// rule (forward-declaration upgrade, weak-property displacement) applies.
type DuplicateSymbolError struct {
	Name string
	Existing Symbol
	New Symbol
}

func (e *DuplicateSymbolError) Error() string {
	return fmt.Sprintf("symbol %q already defined as %s, cannot redefine as %s",
		e.Name, e.Existing.Kind(), e.New.Kind())
}

// KindMismatchError reports that a symbol was referenced as one kind and
// later (re)declared as an incompatible kind.
type KindMismatchError struct {
	Name string
	Existing Kind
	New Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("symbol %q used as %s, cannot redefine as %s", e.Name, e.Existing, e.New)
}

// SymbolTable is the global, program-scope symbol table: a hash map over interned names holding tagged-variant
// [Symbol] values, plus the small amount of cross-cutting state every
// object-body parse needs to consult — the active dictionary, the current
// `+` property, and the master anonymous-object list.
type SymbolTable struct {
	entries map[string]Symbol

	// vocabProps is the set of property names recognized as dictionary
	// (vocabulary) properties anywhere in the program so far.
	vocabProps map[string]bool

	// CurrentDictionary is the active dictionary object for vocabulary
	// merging, set by the most recently parsed `dictionary` statement (or
	// left nil if none has been declared).
	CurrentDictionary *ObjectSymbol

	// PlusProperty is the property symbol used for the "location" relation
	// in the `+` nesting stack — ordinarily named "location", but
	// resolved through the table rather than hardcoded so a project can
	// rename it.
	PlusProperty *PropertySymbol

	// anonymous holds symbols with no source name: written to the object
	// file for linking but never reachable via Find.
	anonymous []*ObjectSymbol

	// RootTemplates holds templates declared with `object template ...;`,
	// attached to the implicit root rather than to any named class.
	RootTemplates []*Template
}

// New creates an empty SymbolTable.
func New() *SymbolTable {
	return &SymbolTable{
		entries: make(map[string]Symbol),
		vocabProps: make(map[string]bool),
	}
}

// Find returns the symbol named name, or nil if there is none.
func (t *SymbolTable) Find(name string) Symbol {
	return t.entries[name]
}

// FindDeleteWeak looks up name; if the existing entry is a weak property
// symbol it is removed and FindDeleteWeak reports "no existing entry" (nil,
// false) so the caller may install a real one in its place.
// Any other existing entry is returned unchanged with ok=true.
func (t *SymbolTable) FindDeleteWeak(name string) (sym Symbol, ok bool) {
	existing, found:= t.entries[name]
	if !found {
		return nil, false
	}
	if p, isProp:= existing.(*PropertySymbol); isProp && p.Weak {
		delete(t.entries, name)
		return nil, false
	}
	return existing, true
}

// Add installs sym under its name. It fails with [DuplicateSymbolError] if
// the name clashes with an existing, non-external, non-weak entry of the
// same kind, and with [KindMismatchError] if any existing non-weak entry's
// kind (external or not) doesn't match sym's kind.
func (t *SymbolTable) Add(sym Symbol) error {
	name:= sym.Name()
	existing, found:= t.entries[name]
	if !found {
		t.entries[name] = sym
		return nil
	}

	if p, isProp:= existing.(*PropertySymbol); isProp && p.Weak {
		t.entries[name] = sym
		return nil
	}

	if existing.Kind() != sym.Kind() {
		return &KindMismatchError{Name: name, Existing: existing.Kind(), New: sym.Kind()}
	}

	if existing.IsExternal() {
		t.entries[name] = sym
		return nil
	}

	return &DuplicateSymbolError{Name: name, Existing: existing, New: sym}
}

// Remove deletes the entry named sym.Name(), if any.
func (t *SymbolTable) Remove(sym Symbol) {
	if t.entries[sym.Name()] == sym {
		delete(t.entries, sym.Name())
	}
}

// Enumerate calls visit once for every named symbol, in a stable
// (name-sorted) order so object-file output and tests are deterministic.
func (t *SymbolTable) Enumerate(visit func(Symbol)) {
	names:= make([]string, 0, len(t.entries))
	for name:= range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name:= range names {
		visit(t.entries[name])
	}
}

// Len returns the number of named symbols in the table.
func (t *SymbolTable) Len() int { return len(t.entries) }

// AddAnonymous records sym (which has no reachable name) in the master
// anonymous-object list, for object-file emission.
func (t *SymbolTable) AddAnonymous(sym *ObjectSymbol) {
	sym.Anonymous = true
	t.anonymous = append(t.anonymous, sym)
}

// Anonymous returns the master anonymous-object list in insertion order.
func (t *SymbolTable) Anonymous() []*ObjectSymbol { return t.anonymous }

// MarkVocabProperty records name as a recognized dictionary property,
// returning true if this is the first time it has been seen.
func (t *SymbolTable) MarkVocabProperty(name string) bool {
	if t.vocabProps[name] {
		return false
	}
	t.vocabProps[name] = true
	return true
}

// VocabProperties returns the set of recognized dictionary property names.
func (t *SymbolTable) VocabProperties() map[string]bool { return t.vocabProps }

// ResolveOrDeclareExternal looks up name; if absent, it installs and
// returns a fresh external stub of the given kind via make, recording the
// forward reference.
func (t *SymbolTable) ResolveOrDeclareExternal(name string, make func() Symbol) Symbol {
	if sym, ok:= t.entries[name]; ok {
		return sym
	}
	sym:= make()
	t.entries[name] = sym
	return sym
}
