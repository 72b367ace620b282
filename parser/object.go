package parser

import (
	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

// objectDefOpts carries the modifiers accumulated by the top-level
// dispatcher before it hands off to the object-body parser.
type objectDefOpts struct {
	transient bool
	isClass bool
	isReplace bool
	isModify bool
	intrinsicClass bool
	plusDepth int
}

// parseObjectDefinition is the entry point for C5, the object-body parser:
// symbol resolution, superclass list, `+` location, template match,
// property list, and finalization, in order.
func (p *Parser) parseObjectDefinition(opts objectDefOpts) ir.TopLevel {
	tok:= p.curTok

	// `object template 'a' | "b" @c?;` attaches a template to the
	// implicit root rather than naming an object.
	if p.curIs(token.KwObject) && p.peekIs(token.KwTemplate) {
		p.nextToken()
		tmpl:= p.parseTemplateClause()
		if tmpl != nil {
			p.Syms.RootTemplates = append(p.Syms.RootTemplates, tmpl)
		}
		return nil
	}

	if !p.curIs(token.Ident) {
		p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedIdent, p.curTok.Literal)
		return nil
	}
	name:= p.curTok.Literal
	namePos:= p.curTok.Pos

	// --- step 1: resolve or synthesize the symbol -----------------------
	sym, prevStmtHandle:= p.resolveObjectSymbol(name, namePos, opts)
	if sym == nil {
		return nil
	}

	// --- step 2: parse the superclass list --------------------------------
	// `modify` never carries a superclass clause: `modify name { ... }`
	// goes straight from the name to the property list.
	var supers []*ir.Identifier
	var isRoot bool
	if opts.isModify {
		p.nextToken()
	} else {
		if !p.expectPeek(token.Colon, CodeExpectedColon) {
			return nil
		}
		p.nextToken()
		supers, isRoot = p.parseSuperclassList(sym)
	}

	stmt:= &ir.ObjectStmt{
		Sym: sym,
		Superclasses: supers,
		IsClass: opts.isClass,
		IsTransient: opts.transient,
		IsModified: opts.isModify,
		IsReplaced: opts.isReplace,
	}
	stmt.Token = tok

	// --- step 3: apply the `+` location rule -----------------------------
	if locProp:= p.applyPlusLocation(sym, opts.plusDepth); locProp != nil {
		stmt.Props = append(stmt.Props, locProp)
	}
	sym.IsClass = opts.isClass
	sym.Transient = opts.transient
	if opts.intrinsicClass {
		sym.MetaclassTag = symtab.IntrinsicClassModifier
	}

	// --- step 4/5: template instance, matched against the superclass chain
	if !p.curIs(token.LBrace) && !p.curIs(token.Semi) {
		actuals:= p.parseTemplateActuals()
		if len(actuals) > 0 {
			props:= p.matchTemplate(sym, supers, isRoot, actuals, namePos)
			stmt.Props = append(stmt.Props, props...)
		}
	}

	// --- step 6: property list -------------------------------------------
	if p.curIs(token.LBrace) {
		prevUnterm:= p.unterminated
		p.unterminated = &terminationInfo{pos: tok.Pos}
		p.nextToken()
		props:= p.parsePropertyList(sym, opts.isModify)
		stmt.Props = append(stmt.Props, props...)
		if p.unterminated.fired {
			p.Errs.Report(p.unterminated.pos, SevError, CodeUnterminatedObject)
		} else if p.curIs(token.RBrace) {
			p.nextToken()
		}
		p.unterminated = prevUnterm
	} else if p.curIs(token.Semi) {
		p.nextToken()
	}

	// --- step 7: finalize --------------------------------------------------
	p.finalizeObject(sym, stmt, opts)

	handle:= p.storeObjectStmt(stmt)
	sym.StmtHandle = handle
	if opts.isModify && prevStmtHandle != symtab.NoHandle {
		if base:= p.ObjectStmt(prevStmtHandle); base != nil {
			_ = base // retained for link-time `replaced` / inherited prior state
		}
	}

	return stmt
}

// resolveObjectSymbol resolves or declares sym's symbol: a named object
// that already exists must be external (upgrade in place) or the
// definition must be `modify`/`replace`. `modify` synthesizes a hidden
// shadow symbol carrying the previous definition.
func (p *Parser) resolveObjectSymbol(name string, pos token.Pos, opts objectDefOpts) (*symtab.ObjectSymbol, symtab.Handle) {
	existing:= p.Syms.Find(name)

	if existing == nil {
		sym:= &symtab.ObjectSymbol{Header: symtab.Header{SymName: name, SymKind: symtab.KindObject, SymPos: pos}}
		if err:= p.Syms.Add(sym); err != nil {
			p.Errs.Report(pos, SevError, CodeDuplicateSymbol, name)
		}
		return sym, symtab.NoHandle
	}

	obj, ok:= existing.(*symtab.ObjectSymbol)
	if !ok {
		p.Errs.Report(pos, SevError, CodeKindMismatch, name)
		return &symtab.ObjectSymbol{Header: symtab.Header{SymName: name, SymKind: symtab.KindObject, SymPos: pos}}, symtab.NoHandle
	}

	switch {
	case obj.IsExternal():
		obj.SetExternal(false)
		obj.SymPos = pos
		return obj, symtab.NoHandle

	case opts.isModify:
		// Synthesize a hidden shadow symbol: name begins with a space so
		// it is unreachable from source.
		shadow:= &symtab.ObjectSymbol{
			Header: symtab.Header{SymName: " " + name, SymKind: symtab.KindObject, SymPos: obj.SymPos},
			IsClass: obj.IsClass,
			Transient: obj.Transient,
			MetaclassTag: obj.MetaclassTag,
			StmtHandle: obj.StmtHandle,
			Superclasses: obj.Superclasses,
			Vocab: obj.Vocab,
		}
		prevHandle:= obj.StmtHandle
		obj.ModBase = shadow
		obj.Modified = true
		obj.SymPos = pos
		if obj.MetaclassTag != symtab.NoMetaclass {
			obj.MetaclassTag = symtab.IntrinsicClassModifier
		}
		return obj, prevHandle

	case opts.isReplace:
		obj.StmtHandle = symtab.NoHandle
		obj.ModBase = nil
		obj.Modified = false
		obj.SymPos = pos
		return obj, symtab.NoHandle

	default:
		p.Errs.Report(pos, SevError, CodeDuplicateSymbol, name)
		return obj, symtab.NoHandle
	}
}

// parseSuperclassList parses a comma-separated identifier list, each
// resolved to an ObjectSymbol, with cycle checking. The bare `object`
// keyword marks a root object.
func (p *Parser) parseSuperclassList(sym *symtab.ObjectSymbol) (supers []*ir.Identifier, isRoot bool) {
	for {
		if p.curIs(token.KwObject) {
			isRoot = true
			p.nextToken()
		} else if p.curIs(token.Ident) {
			name:= p.curTok.Literal
			pos:= p.curTok.Pos
			id:= &ir.Identifier{Value: name}
			id.Token = p.curTok

			if name == sym.Name() {
				p.Errs.Report(pos, SevError, CodeCircularClass, name)
			} else if p.superclassReachable(name, sym) {
				p.Errs.Report(pos, SevError, CodeCircularClass, name)
			} else {
				p.resolveSuperclassSymbol(name, pos)
			}

			supers = append(supers, id)
			sym.Superclasses = append(sym.Superclasses, name)
			p.nextToken()
		} else {
			break
		}
		if p.curIs(token.Comma) {
			p.nextToken()
			continue
		}
		break
	}
	return supers, isRoot
}

// superclassReachable reports whether sym is already a (transitive)
// superclass of candidate, in which case adding candidate as a superclass
// of sym would make sym its own ancestor; the caller reports that as
// CodeCircularClass.
func (p *Parser) superclassReachable(candidate string, sym *symtab.ObjectSymbol) bool {
	seen:= map[string]bool{}
	var walk func(name string) bool
	walk = func(name string) bool {
		if name == sym.Name() {
			return true
		}
		if seen[name] {
			return false
		}
		seen[name] = true
		obj, ok:= p.Syms.Find(name).(*symtab.ObjectSymbol)
		if !ok {
			return false
		}
		for _, sc:= range obj.Superclasses {
			if walk(sc) {
				return true
			}
		}
		return false
	}
	return walk(candidate)
}

func (p *Parser) resolveSuperclassSymbol(name string, pos token.Pos) *symtab.ObjectSymbol {
	if existing, ok:= p.Syms.Find(name).(*symtab.ObjectSymbol); ok {
		return existing
	}
	sym:= &symtab.ObjectSymbol{
		Header: symtab.Header{SymName: name, SymKind: symtab.KindObject, SymPos: pos, External: true},
	}
	_ = p.Syms.Add(sym)
	return sym
}

// applyPlusLocation implements the `+` nesting rule: an object preceded by
// N `+` tokens has its `location` property set to the most recently
// defined object at depth N-1, and becomes the new depth-N entry.
// Returns the synthesized `location` ObjectProp, or nil if depth is 0 or
// no object occupies depth N-1 yet.
func (p *Parser) applyPlusLocation(sym *symtab.ObjectSymbol, depth int) *ir.ObjectProp {
	var prop *ir.ObjectProp
	if depth > 0 && depth-1 < len(p.plusStack) && p.plusStack[depth-1] != nil {
		location:= p.plusStack[depth-1]
		if p.Syms.PlusProperty == nil {
			p.Syms.PlusProperty = p.defineOrUpgradeProperty("location", sym.Pos())
		}
		prop = &ir.ObjectProp{
			Prop: p.Syms.PlusProperty,
			Value: ir.PropValue{Const: &ir.Identifier{Value: location.Name()}},
			IsOverwritable: true,
		}
	}
	for len(p.plusStack) <= depth {
		p.plusStack = append(p.plusStack, nil)
	}
	p.plusStack[depth] = sym
	return prop
}

// parseTemplateActuals collects the raw positional-argument expressions
// between the superclass list and the opening brace.
func (p *Parser) parseTemplateActuals() []ir.Expression {
	var actuals []ir.Expression
	for !p.curIs(token.LBrace) && !p.curIs(token.Semi) && !p.curIs(token.EOF) {
		actuals = append(actuals, p.parsePrimary())
		if p.peekIs(token.Comma) {
			p.nextToken()
		}
		p.nextToken()
	}
	return actuals
}

// parsePrimary parses a single leaf expression without the full binary
// operator loop, for template-actual and propertyset-substitution leaves.
func (p *Parser) parsePrimary() ir.Expression {
	return p.parseExpression(precPrefix)
}

// finalizeObject fills in the implicit properties every object gets:
// empty vocab-property slots, sourceTextOrder, and a varargs construct
// stub for multiple-inheritance objects with no explicit constructor.
func (p *Parser) finalizeObject(sym *symtab.ObjectSymbol, stmt *ir.ObjectStmt, opts objectDefOpts) {
	if !sym.IsClass {
		for name:= range p.Syms.VocabProperties() {
			if p.hasExplicitProp(stmt, name) {
				continue
			}
			prop:= p.defineOrUpgradeProperty(name, sym.Pos())
			op:= &ir.ObjectProp{
				Prop: prop,
				Value: ir.PropValue{Const: &ir.ListLiteral{}},
				IsOverwritable: true,
				VocabWords: []string{},
			}
			stmt.Props = append(stmt.Props, op)
		}
	}

	if !opts.isClass && !opts.isModify {
		orderProp:= p.defineOrUpgradeProperty("sourceTextOrder", sym.Pos())
		p.sourceTextCounter++
		stmt.Props = append(stmt.Props, &ir.ObjectProp{
			Prop: orderProp,
			Value: ir.PropValue{Const: &ir.IntegerLiteral{Value: int64(p.sourceTextCounter)}},
			IsOverwritable: true,
		})
	}

	if len(sym.Superclasses) > 1 && !p.hasExplicitConstructor(stmt) {
		ctorProp:= p.defineOrUpgradeProperty("construct", sym.Pos())
		cb:= &ir.CodeBody{Varargs: true}
		stmt.Props = append(stmt.Props, &ir.ObjectProp{
			Prop: ctorProp,
			Value: ir.PropValue{Code: cb},
			IsOverwritable: true,
		})
	}
}

func (p *Parser) hasExplicitProp(stmt *ir.ObjectStmt, name string) bool {
	for _, prop:= range stmt.Props {
		if prop.Prop != nil && prop.Prop.Name() == name {
			return true
		}
	}
	return false
}

func (p *Parser) hasExplicitConstructor(stmt *ir.ObjectStmt) bool {
	return p.hasExplicitProp(stmt, "construct")
}

// parsePropertyList parses the `{ ... }` body of an object, dispatching on
// the property-list token. isModify gates the `replace` property prefix.
func (p *Parser) parsePropertyList(sym *symtab.ObjectSymbol, isModify bool) []*ir.ObjectProp {
	var props []*ir.ObjectProp
	var lastVocab *ir.ObjectProp
	for !p.curIs(token.RBrace) && !p.curIs(token.EOF) {
		if p.curIs(token.Semi) {
			p.nextToken()
			continue
		}

		if token.IsStatementStarter(p.curTok.Kind) {
			p.unterminated.fired = true
			return props
		}
		if p.curIs(token.Ident) && p.peekIs(token.Colon) {
			p.unterminated.fired = true
			return props
		}

		if p.curIs(token.KwPropertyset) {
			props = append(props, p.parsePropertysetBlock(sym)...)
			continue
		}

		if p.curIs(token.KwOperator) {
			if prop:= p.parseOperatorProp(sym); prop != nil {
				props = addProp(props, prop)
			}
			p.nextToken()
			continue
		}

		replacePrefix:= false
		if p.curIs(token.KwReplace) && isModify {
			replacePrefix = true
			p.nextToken()
		}

		if !p.curIs(token.Ident) && !p.curIs(token.SStr) {
			p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedIdent, p.curTok.Literal)
			p.nextToken()
			continue
		}

		if p.curIs(token.SStr) {
			// A bare vocabulary word list with no leading property name
			// reuses whichever vocab property was most recently active on
			// this object; linking merges it into the current dictionary.
			// With no vocab property yet on this object the words are dropped.
			words:= p.parseBareVocabList()
			if lastVocab != nil {
				lastVocab.VocabWords = append(lastVocab.VocabWords, words...)
			}
			continue
		}

		propName:= p.curTok.Literal
		propPos:= p.curTok.Pos
		propSym:= p.defineOrUpgradeProperty(propName, propPos)

		if dup:= p.findProp(props, propName); dup != nil && !dup.IsOverwritable {
			p.Errs.Report(propPos, SevError, CodeDuplicateProperty, propName)
		}

		var prop *ir.ObjectProp
		switch {
		case p.peekIs(token.LParen):
			p.nextToken()
			formals, _:= p.parseTypedFormals()
			cb:= p.parseCodeBodyFromFormals(formals)
			prop = &ir.ObjectProp{Prop: propSym, Value: ir.PropValue{Code: cb}, Deleted: replacePrefix}

		case p.peekIs(token.Assign):
			p.nextToken()
			p.nextToken()
			val:= p.parseExprOrDstr()
			folded:= foldConstants(val, p.Syms)
			if isConstantExpr(folded) {
				prop = &ir.ObjectProp{Prop: propSym, Value: ir.PropValue{Const: folded}, Deleted: replacePrefix}
			} else {
				body:= &ir.BlockStatement{Statements: []ir.Statement{&ir.ReturnStatement{Value: folded}}}
				prop = &ir.ObjectProp{Prop: propSym, Value: ir.PropValue{Code: &ir.CodeBody{Body: body}}, Deleted: replacePrefix}
			}
			if p.peekIs(token.Semi) {
				p.nextToken()
			}

		case p.peekIs(token.Colon):
			p.nextToken()
			p.nextToken()
			child:= p.parseNestedObjectChild(sym, propName)
			prop = &ir.ObjectProp{Prop: propSym, Value: ir.PropValue{Const: child}, Deleted: replacePrefix}

		case propSym.Vocab || p.curIsVocabStart():
			propSym.Vocab = true
			p.Syms.MarkVocabProperty(propName)
			p.nextToken()
			words:= p.parseBareVocabList()
			prop = &ir.ObjectProp{Prop: propSym, VocabWords: words, Value: ir.PropValue{Const: &ir.ListLiteral{}}, Deleted: replacePrefix}
			props = addProp(props, prop)
			lastVocab = prop
			if replacePrefix {
				if sym.PendingDelete == nil {
					sym.PendingDelete = make(map[string]bool)
				}
				sym.PendingDelete[propName] = true
			}
			continue

		default:
			// bare method shorthand `propName { ... }`
			if p.peekIs(token.LBrace) {
				p.nextToken()
				cb:= &ir.CodeBody{Body: p.parseBlockStatement()}
				prop = &ir.ObjectProp{Prop: propSym, Value: ir.PropValue{Code: cb}, Deleted: replacePrefix}
			} else {
				p.Errs.Report(p.peekTok.Pos, SevError, CodeExpectedColon, p.peekTok.Literal)
				p.nextToken()
				continue
			}
		}

		if replacePrefix {
			if sym.PendingDelete == nil {
				sym.PendingDelete = make(map[string]bool)
			}
			sym.PendingDelete[propName] = true
		}
		props = addProp(props, prop)
		p.nextToken()
	}
	return props
}

func (p *Parser) curIsVocabStart() bool { return p.peekIs(token.SStr) }

func (p *Parser) findProp(props []*ir.ObjectProp, name string) *ir.ObjectProp {
	for _, pr:= range props {
		if pr.Prop != nil && pr.Prop.Name() == name {
			return pr
		}
	}
	return nil
}

func addProp(props []*ir.ObjectProp, prop *ir.ObjectProp) []*ir.ObjectProp {
	for i, existing:= range props {
		if existing.Prop == prop.Prop && existing.IsOverwritable {
			props[i] = prop
			return props
		}
	}
	return append(props, prop)
}

// parseBareVocabList parses a bare (unbracketed) list of single-quoted
// strings, as for vocabulary properties.
func (p *Parser) parseBareVocabList() []string {
	var words []string
	for p.curIs(token.SStr) {
		words = append(words, p.curTok.Literal)
		if p.peekIs(token.Comma) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	return words
}

// parseNestedObjectChild implements the nested-object property form
// `propName: superclasses { ... }`: an anonymous child
// object, auto-installing `lexicalParent` back to the enclosing object.
func (p *Parser) parseNestedObjectChild(parent *symtab.ObjectSymbol, propName string) *ir.Identifier {
	childSym:= &symtab.ObjectSymbol{Header: symtab.Header{SymKind: symtab.KindObject, SymPos: p.curTok.Pos}}
	p.Syms.AddAnonymous(childSym)

	supers, isRoot:= p.parseSuperclassList(childSym)

	stmt:= &ir.ObjectStmt{Sym: childSym, Superclasses: supers}
	stmt.Token = p.curTok

	lexParentProp:= p.defineOrUpgradeProperty("lexicalParent", p.curTok.Pos)
	selfRef:= &ir.Identifier{Value: parent.Name()}
	stmt.Props = append(stmt.Props, &ir.ObjectProp{
		Prop: lexParentProp,
		Value: ir.PropValue{Const: selfRef},
		IsOverwritable: true,
	})

	if p.curIs(token.LBrace) {
		p.nextToken()
		props:= p.parsePropertyList(childSym, false)
		stmt.Props = append(stmt.Props, props...)
		if p.curIs(token.RBrace) {
			p.nextToken()
		}
	}
	_ = isRoot

	p.finalizeObject(childSym, stmt, objectDefOpts{})
	handle:= p.storeObjectStmt(stmt)
	childSym.StmtHandle = handle

	ref:= &ir.Identifier{Value: "<anon:" + propName + ">"}
	return ref
}

// isConstantExpr reports whether expr needs no CodeBody wrapper: only a
// small set of literal shapes qualify.
func isConstantExpr(expr ir.Expression) bool {
	switch expr.(type) {
	case *ir.IntegerLiteral, *ir.FloatLiteral, *ir.BoolLiteral, *ir.NilLiteral,
		*ir.StringLiteral, *ir.VocabLiteral, *ir.ListLiteral, *ir.Identifier:
		return true
	default:
		return false
	}
}
