// Package symtab implements the program-scope symbol table and the per-code-body local symbol table (component C3's
// variable resolver).
//
// Symbols are a tagged-variant type: every
// concrete kind embeds [Header], which carries the fields every symbol has
// regardless of kind, and callers dispatch on [Symbol.Kind()] or a Go type
// switch. Symbols never hold a typed pointer back to their IR node:
// cyclic object/class reference graphs call for arena-backed integer
// [Handle]s instead, which also keeps this package free of any
// dependency on the ir package that holds those nodes.
package symtab

import "github.com/dr8co/t3c/token"

// Kind tags which concrete symbol type a [Symbol] is.
type Kind int

const (
	KindObject Kind = iota
	KindProperty
	KindFunction
	KindBuiltinFunction
	KindEnum
	KindMetaclass
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindProperty:
		return "property"
	case KindFunction:
		return "function"
	case KindBuiltinFunction:
		return "builtin-function"
	case KindEnum:
		return "enum"
	case KindMetaclass:
		return "metaclass"
	case KindLocal:
		return "local"
	default:
		return "?"
	}
}

// Handle is a weak, arena-relative reference to an IR node owned by the
// parser: an index into a []*ir.ObjectStmt or []*ir.CodeBody slice kept
// alongside the symbol table. 0 is reserved to mean "no node".
type Handle int

// NoHandle is the null arena handle.
const NoHandle Handle = 0

// Symbol is the common interface every concrete symbol kind satisfies.
// Code that needs kind-specific fields type-switches on the concrete type.
type Symbol interface {
	Name() string
	Kind() Kind
	Pos() token.Pos
	IsExternal() bool
	SetExternal(bool)
	IsReferenced() bool
	MarkReferenced()
}

// Header is the common header embedded by every concrete symbol type,
// carrying the fields shared across all kinds ahead of each kind's own
// per-kind payload.
type Header struct {
	SymName string
	SymKind Kind
	SymPos token.Pos
	External bool
	Referenced bool
}

func (h *Header) Name() string { return h.SymName }
func (h *Header) Kind() Kind { return h.SymKind }
func (h *Header) Pos() token.Pos { return h.SymPos }
func (h *Header) IsExternal() bool { return h.External }
func (h *Header) SetExternal(v bool) { h.External = v }
func (h *Header) IsReferenced() bool { return h.Referenced }
func (h *Header) MarkReferenced() { h.Referenced = true }

// MetaclassTag identifies a built-in VM-level class an ObjectSymbol is an
// instance of, or the modifier target for `modify` applied to a metaclass.
type MetaclassTag string

const (
	// NoMetaclass marks an ordinary (non-intrinsic) object.
	NoMetaclass MetaclassTag = ""
	TadsObject MetaclassTag = "tads-object"
	GrammarProdMeta MetaclassTag = "grammar-production"
	DictionaryMeta MetaclassTag = "dictionary"
	IntrinsicClassModifier MetaclassTag = "intrinsic-class-modifier"
)

// ObjectSymbol is a symbol naming an object or class.
type ObjectSymbol struct {
	Header

	ObjID uint32 // runtime object ID, assigned at object-file write time
	IsClass bool
	Transient bool
	MetaclassTag MetaclassTag

	// StmtHandle is the arena handle of this symbol's *ir.ObjectStmt, or
	// NoHandle if none has been parsed yet (a still-external forward
	// reference).
	StmtHandle Handle

	// Superclasses are the superclass names as written, kept on the
	// symbol (not just the ObjectStmt) so a symbol-export file can
	// republish them without re-walking the IR.
	Superclasses []string

	// Vocab holds this object's vocabulary-property word lists, keyed by
	// property name, for dictionary merging at link time.
	Vocab map[string][]string

	// PendingDelete holds property names a `replace`-prefixed property in
	// a `modify` object queued for deletion from the base object's
	// property list at link time.
	PendingDelete map[string]bool

	// ModBase is the shadow symbol holding the immediately-prior
	// definition, set up by `modify`.
	ModBase *ObjectSymbol
	// Modified is true once at least one `modify` has been applied.
	Modified bool
	// ExtModify and ExtReplace select how link-time application of a
	// modify/replace chain proceeds when the base came from a separately
	// compiled module.
	ExtModify, ExtReplace bool

	// Templates lists the positional-initializer templates declared for
	// this class (empty for non-class objects and classes without a
	// `template` clause).
	Templates []*Template

	// Anonymous is true for a symbol with no source name, reachable only
	// through the symbol table's anonymous-object list.
	Anonymous bool
}

// PropertySymbol is a symbol naming a property.
type PropertySymbol struct {
	Header

	PropID uint16 // assigned on first reference, never reused
	Vocab bool // dictionary property
	// Weak marks a provisional definition, overwritable by a later real
	// definition imported from a symbol file.
	Weak bool
}

// FunctionSymbol is a symbol naming a function or multi-method variant.
type FunctionSymbol struct {
	Header

	NumFixedArgs int
	NumOptionalArgs int
	Varargs bool
	HasReturn bool

	IsMultimethod bool
	IsMultimethodBase bool
	// MultimethodTypes holds the formal type-annotation names used to
	// build this variant's decorated name, empty for the base symbol and
	// for ordinary (non-multimethod) functions.
	MultimethodTypes []string

	Extern bool
	ExtReplace bool

	// CodeHandle is the arena handle of this symbol's *ir.CodeBody, or
	// NoHandle for an `extern`-only declaration.
	CodeHandle Handle

	// ModBase chains to the symbol holding the shadowed previous
	// definition, set up by `modify function`.
	ModBase *FunctionSymbol
}

// EnumSymbol is a symbol naming an enumerator.
type EnumSymbol struct {
	Header

	EnumID int
	// IsToken marks `enum token` members, which grammar-rule parsing
	// checks even though one source comment calls the attribute
	// "no effect".
	IsToken bool
}

// MetaclassSymbol is a symbol naming a built-in VM-level class, e.g.
// "Dictionary" or "GrammarProd".
type MetaclassSymbol struct {
	Header
	Tag MetaclassTag
}

// LocalScope identifies where a local symbol's storage lives: a plain
// local slot, a parameter slot, the implicit `self` binding, or a
// captured free variable.
type LocalScope string

const (
	ScopeLocal LocalScope = "LOCAL"
	ScopeParam LocalScope = "PARAM"
	ScopeSelf LocalScope = "SELF"
	ScopeFree LocalScope = "FREE"
)

// LocalSymbol is a symbol naming a local variable or parameter inside a
// [CodeBody], resolved through [LocalTable] rather than the global table.
type LocalSymbol struct {
	Header
	Scope LocalScope
	Index int
}
