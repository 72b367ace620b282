package symtab

import "github.com/dr8co/t3c/token"

// TemplateItemKind describes what an actual argument must look like to
// bind to a [TemplateItem].
type TemplateItemKind int

const (
	// ItemSStr matches a single-quoted vocabulary string actual.
	ItemSStr TemplateItemKind = iota
	// ItemDStr matches a double-quoted string actual.
	ItemDStr
	// ItemObj matches an object-reference (identifier) actual, used for
	// the `+` location's target-like template slots.
	ItemObj
	// ItemList matches a list-literal actual.
	ItemList
	// ItemAny matches any expression (used for alternation fallbacks).
	ItemAny
)

// TemplateItem is one positional slot in a [Template]: which token kind it
// expects, which property it binds to, and whether it is optional or part
// of an alternation group.
type TemplateItem struct {
	Match TemplateItemKind
	Target *PropertySymbol
	// IsAlt marks this item as one option of an alternation group shared
	// with the adjacent TemplateItem(s); the match algorithm accepts
	// whichever alternative's Match kind fits the actual.
	IsAlt bool
	// IsOpt marks this item (or alternation group) as skippable when no
	// actual remains to bind it.
	IsOpt bool
}

// Template is an ordered list of positional property-initializer slots
// attached to a class (or the anonymous root object), matched against an
// object definition's trailing positional arguments.
type Template struct {
	Pos token.Pos
	Items []TemplateItem
}

// StringTemplate describes how a double-quoted string embedding's `<<...>>`
// content is post-processed before being printed — e.g. routing a numeric
// embed through a pluralization or formatting function.
type StringTemplate struct {
	Pos token.Pos
	// Match is the literal token sequence recognized before the `:`
	// (e.g. the words making up a `<<one/many>>`-style template head).
	Match []string
	// Processor is the function symbol invoked with the embedded
	// expression's value to produce the substituted text.
	Processor *FunctionSymbol
}
