package ir

import (
	"strings"

	"github.com/dr8co/t3c/symtab"
)

// CodeBody is a function or method body: formals, local count, statement
// block, and the cross-reference fixup anchor the object-file writer walks
// at end-of-compile.
type CodeBody struct {
	base
	Params []*Identifier
	Varargs bool
	NumLocals int
	Body *BlockStatement

	// SelfReferenced is true if the body used `self`, `targetprop`,
	// `targetobj`, `definingobj`, or an implicit property/method call,
	// any of which require the method-context frame at link time.
	SelfReferenced bool
	// FullMethodContextReferenced is true if the body used `inherited`,
	// `replaced`, or `delegated`, which need the full invocation context
	// (not just `self`) to resolve.
	FullMethodContextReferenced bool
}

func (*CodeBody) codeBodyNode() {}
func (cb *CodeBody) String() string {
	params:= make([]string, 0, len(cb.Params))
	for _, p:= range cb.Params {
		params = append(params, p.Value)
	}
	return "(" + strings.Join(params, ", ") + ") " + cb.Body.String()
}

// PropValue is the value side of an [ObjectProp]: exactly one of Const
// (a folded or unfolded constant-shaped expression) or Code (a method or
// computed-property body) is set.
type PropValue struct {
	Const Expression
	Code *CodeBody
}

// ObjectProp is one property slot on an object.
type ObjectProp struct {
	base
	Prop *symtab.PropertySymbol
	Value PropValue

	// IsStatic marks a property initialized once at load time rather than
	// per-instance (TADS3 doesn't have this distinction at the object
	// level the way classes do for statics, but the field is here for the
	// object-file writer's static-initializer record and for any class
	// statics a future extension adds).
	IsStatic bool
	// IsOverwritable marks an implicitly-added slot (sourceTextOrder,
	// the `+` location property, a dictionary placeholder) that a later
	// explicit definition on the same object may replace without
	// triggering the duplicate-property error.
	IsOverwritable bool
	// Deleted marks a `replace`-prefixed property inside a `modify`
	// object: queues deletion of this property on the base object at link
	// time rather than just shadowing it.
	Deleted bool
	// VocabWords holds the bare single-quoted word list for a vocabulary
	// property; non-nil (even if empty) marks this as a vocab slot.
	VocabWords []string
}

func (op *ObjectProp) String() string {
	name:= "?"
	if op.Prop != nil {
		name = op.Prop.Name()
	}
	if op.Value.Code != nil {
		return name + op.Value.Code.String()
	}
	if op.Value.Const != nil {
		return name + " = " + op.Value.Const.String()
	}
	return name
}

// ObjectStmt is a top-level object definition. A
// `modify` produces two linked ObjectStmts: the synthetic base (holding the
// prior definition, unreachable by name) and the visible head (holding the
// new definition), connected through Sym.ModBase.
type ObjectStmt struct {
	base
	Sym *symtab.ObjectSymbol
	Superclasses []*Identifier
	Props []*ObjectProp
	IsClass bool
	IsTransient bool
	IsModified bool
	IsReplaced bool
}

func (*ObjectStmt) topLevelNode() {}
func (os *ObjectStmt) String() string {
	var out strings.Builder
	if os.IsTransient {
		out.WriteString("transient ")
	}
	if os.IsClass {
		out.WriteString("class ")
	}
	name:= "<anon>"
	if os.Sym != nil {
		name = os.Sym.Name()
	}
	out.WriteString(name)
	out.WriteString(": ")
	for i, sc:= range os.Superclasses {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(sc.Value)
	}
	out.WriteString(" {")
	for _, p:= range os.Props {
		out.WriteString(" ")
		out.WriteString(p.String())
		out.WriteString(";")
	}
	out.WriteString(" }")
	return out.String()
}

// FunctionStmt is a top-level `function`/`method`/`extern` definition, or
// one variant of a multi-method group.
type FunctionStmt struct {
	base
	Sym *symtab.FunctionSymbol
	Body *CodeBody // nil for `extern`-only declarations
	IsExtern bool
	IsReplace bool
}

func (*FunctionStmt) topLevelNode() {}
func (fs *FunctionStmt) String() string {
	name:= "<fn>"
	if fs.Sym != nil {
		name = fs.Sym.Name()
	}
	if fs.Body == nil {
		return "extern function " + name + ";"
	}
	return "function " + name + fs.Body.String()
}

// EnumStmt is a top-level `enum [token] a, b, c;` declaration.
type EnumStmt struct {
	base
	Names []*Identifier
	IsToken bool
}

func (*EnumStmt) topLevelNode() {}
func (es *EnumStmt) String() string {
	names:= make([]string, 0, len(es.Names))
	for _, n:= range es.Names {
		names = append(names, n.Value)
	}
	prefix:= "enum "
	if es.IsToken {
		prefix = "enum token "
	}
	return prefix + strings.Join(names, ", ") + ";"
}

// PropertyDecl is a top-level `property a, b, c;` forward declaration.
type PropertyDecl struct {
	base
	Names []*Identifier
}

func (*PropertyDecl) topLevelNode() {}
func (pd *PropertyDecl) String() string {
	names:= make([]string, 0, len(pd.Names))
	for _, n:= range pd.Names {
		names = append(names, n.Value)
	}
	return "property " + strings.Join(names, ", ") + ";"
}

// Export is an internal-to-external name publication.
type Export struct {
	base
	Internal *Identifier
	External string // defaults to Internal.Value when no `as` clause
}

func (*Export) topLevelNode() {}
func (e *Export) String() string {
	if e.External != e.Internal.Value {
		return "export " + e.Internal.Value + " as " + e.External + ";"
	}
	return "export " + e.Internal.Value + ";"
}
