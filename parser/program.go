package parser

import (
	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

// parseTopLevel dispatches on the current token: function/method/extern/
// intrinsic/transient/class/replace/modify/property/export/dictionary/
// grammar/enum/object, with a bare identifier or `+` run also routing to
// the object-body parser.
func (p *Parser) parseTopLevel() ir.TopLevel {
	if p.curIs(token.Semi) {
		p.nextToken()
		return nil
	}

	if token.IsStatementStarter(p.curTok.Kind) || p.curTok.Kind == token.Ident || p.curTok.Kind == token.Plus {
		p.Errs.ReleaseSuppression()
	}

	switch p.curTok.Kind {
	case token.KwFunction, token.KwMethod:
		return p.parseFunction(false)
	case token.KwExtern:
		return p.parseExtern()
	case token.KwIntrinsic:
		return p.parseIntrinsic()
	case token.KwClass:
		return p.parseClassObject()
	case token.KwReplace:
		return p.parseReplace()
	case token.KwModify:
		return p.parseModify()
	case token.KwProperty:
		return p.parsePropertyDecl()
	case token.KwExport:
		return p.parseExport()
	case token.KwDictionary:
		return p.parseDictionaryStmt()
	case token.KwGrammar:
		return p.parseGrammar()
	case token.KwEnum:
		return p.parseEnum()
	case token.KwTransient:
		return p.parseObjectOrFunction(0)
	case token.KwObject, token.Ident:
		return p.parseObjectOrFunction(0)
	case token.Plus:
		depth:= 0
		for p.curIs(token.Plus) {
			depth++
			p.nextToken()
		}
		return p.parseObjectOrFunction(depth)
	case token.EOF:
		return nil
	default:
		p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedFunctionOrObject, p.curTok.Literal)
		p.nextToken()
		return nil
	}
}

// parseObjectOrFunction handles the ambiguous `IDENT ...` top-level
// production: a bare name followed by `(` is a function definition,
// otherwise it is an object definition (possibly `transient`, possibly
// preceded by depth `+` tokens).
func (p *Parser) parseObjectOrFunction(plusDepth int) ir.TopLevel {
	transient:= false
	if p.curIs(token.KwTransient) {
		transient = true
		p.nextToken()
	}

	if p.curIs(token.Ident) && p.peekIs(token.LParen) {
		return p.parseFunction(false)
	}

	return p.parseObjectDefinition(objectDefOpts{
		transient: transient,
		plusDepth: plusDepth,
	})
}

// parseFunction implements "Function parsing": multi-method
// synthesis when any formal carries a type annotation, redefinition rules,
// and `replace`.
func (p *Parser) parseFunction(isReplace bool) ir.TopLevel {
	tok:= p.curTok
	if !p.expectPeek(token.Ident, CodeExpectedIdent) {
		return nil
	}
	name:= p.curTok.Literal
	namePos:= p.curTok.Pos

	if !p.expectPeek(token.LParen, CodeExpectedRParen) {
		return nil
	}

	formals, types:= p.parseTypedFormals()
	isMultimethod:= false
	for _, t:= range types {
		if t != "" {
			isMultimethod = true
			break
		}
	}

	var sym *symtab.FunctionSymbol
	declName:= name
	if isMultimethod {
		base:= p.ensureMultimethodBase(name, namePos)
		declName = decoratedMultimethodName(name, types)
		sym = &symtab.FunctionSymbol{
			Header: symtab.Header{SymName: declName, SymKind: symtab.KindFunction, SymPos: namePos},
			NumFixedArgs: len(formals),
			IsMultimethod: true,
			MultimethodTypes: types,
		}
		_ = base
	} else {
		sym = p.resolveOrDefineFunction(name, namePos, isReplace)
		if sym == nil {
			return nil
		}
	}

	cb:= p.parseCodeBodyFromFormals(formals)
	if p.curIs(token.RBrace) {
		p.nextToken() // past the body's closing brace
	}
	sym.CodeHandle = p.storeCodeBody(cb)
	sym.HasReturn = true
	sym.Extern = false

	if err:= p.Syms.Add(sym); err != nil {
		if _, dup:= err.(*symtab.DuplicateSymbolError); dup && !isReplace {
			p.Errs.Report(namePos, SevError, CodeDuplicateSymbol, declName)
		}
	}

	fs:= &ir.FunctionStmt{Sym: sym, Body: cb, IsReplace: isReplace}
	fs.Token = tok
	return fs
}

func (p *Parser) resolveOrDefineFunction(name string, pos token.Pos, isReplace bool) *symtab.FunctionSymbol {
	existing:= p.Syms.Find(name)
	if existing == nil {
		return &symtab.FunctionSymbol{Header: symtab.Header{SymName: name, SymKind: symtab.KindFunction, SymPos: pos}}
	}
	fn, ok:= existing.(*symtab.FunctionSymbol)
	if !ok {
		p.Errs.Report(pos, SevError, CodeKindMismatch, name)
		return &symtab.FunctionSymbol{Header: symtab.Header{SymName: name, SymKind: symtab.KindFunction, SymPos: pos}}
	}
	if fn.IsExternal() || isReplace {
		if isReplace && !fn.IsExternal() {
			// Collapse the modBase chain of the function being replaced:
			// the old concrete definition becomes unreachable.
			fn.ModBase = nil
		}
		fn.SetExternal(false)
		fn.SymPos = pos
		return fn
	}
	p.Errs.Report(pos, SevError, CodeDuplicateSymbol, name)
	return fn
}

// ensureMultimethodBase installs (or finds) the external base symbol a
// multi-method group dispatches through.
func (p *Parser) ensureMultimethodBase(name string, pos token.Pos) *symtab.FunctionSymbol {
	existing:= p.Syms.Find(name)
	if fn, ok:= existing.(*symtab.FunctionSymbol); ok {
		return fn
	}
	base:= &symtab.FunctionSymbol{
		Header: symtab.Header{SymName: name, SymKind: symtab.KindFunction, SymPos: pos, External: true},
		Varargs: true,
		HasReturn: true,
		IsMultimethodBase: true,
	}
	_ = p.Syms.Add(base)
	return base
}

func decoratedMultimethodName(name string, types []string) string {
	out:= name
	for _, t:= range types {
		if t == "" {
			t = "_"
		}
		out += "$" + t
	}
	return out
}

// parseTypedFormals parses a formal list that may carry `name: Type`
// annotations, with curTok already on
// `(`. Returns the plain identifiers and a parallel type-name slice (empty
// string where no annotation was given).
func (p *Parser) parseTypedFormals() (formals []*ir.Identifier, types []string) {
	if p.peekIs(token.RParen) {
		p.nextToken()
		return nil, nil
	}
	p.nextToken()
	for {
		id:= &ir.Identifier{Value: p.curTok.Literal}
		id.Token = p.curTok
		formals = append(formals, id)
		typ:= ""
		if p.peekIs(token.Colon) {
			p.nextToken()
			p.nextToken()
			typ = p.curTok.Literal
		}
		types = append(types, typ)
		if p.peekIs(token.Comma) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expectPeek(token.RParen, CodeExpectedRParen)
	return formals, types
}

// parseCodeBodyFromFormals parses the `{ ... }` (or `= expr`) body
// following an already-parsed formal list, installing a fresh local scope
// seeded with those formals.
func (p *Parser) parseCodeBodyFromFormals(formals []*ir.Identifier) *ir.CodeBody {
	tok:= p.curTok
	cb:= &ir.CodeBody{Params: formals}
	cb.Token = tok

	outer:= p.locals
	p.locals = symtab.NewEnclosedLocalTable(outer)
	for _, f:= range formals {
		p.locals.DefineParam(f.Value, f.Pos())
	}

	if p.peekIs(token.Assign) {
		p.nextToken()
		p.nextToken()
		expr:= p.parseExpression(precLowest)
		cb.Body = &ir.BlockStatement{Statements: []ir.Statement{&ir.ReturnStatement{Value: expr}}}
		if p.peekIs(token.Semi) {
			p.nextToken()
		}
	} else if p.expectPeek(token.LBrace, CodeExpectedRBrace) {
		cb.Body = p.parseBlockStatement()
	}

	cb.NumLocals = p.locals.NumDefinitions()
	p.locals = outer
	return cb
}

// parseExtern implements "Extern": a declaration-only symbol
// with no code body.
func (p *Parser) parseExtern() ir.TopLevel {
	tok:= p.curTok
	p.nextToken()
	if p.curIs(token.KwFunction) || p.curIs(token.KwMethod) {
		p.nextToken()
	}
	if !p.curIs(token.Ident) {
		p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedIdent, p.curTok.Literal)
		return nil
	}
	name:= p.curTok.Literal
	pos:= p.curTok.Pos

	if p.peekIs(token.LParen) {
		p.nextToken()
		formals, types:= p.parseTypedFormals()
		_ = types
		sym:= &symtab.FunctionSymbol{
			Header: symtab.Header{SymName: name, SymKind: symtab.KindFunction, SymPos: pos, External: true},
			NumFixedArgs: len(formals),
			Extern: true,
		}
		if existing:= p.Syms.Find(name); existing == nil {
			_ = p.Syms.Add(sym)
		}
		if p.peekIs(token.Semi) {
			p.nextToken()
		}
		fs:= &ir.FunctionStmt{Sym: sym, IsExtern: true}
		fs.Token = tok
		return fs
	}

	// `extern object Name;`
	sym:= &symtab.ObjectSymbol{Header: symtab.Header{SymName: name, SymKind: symtab.KindObject, SymPos: pos, External: true}}
	if existing:= p.Syms.Find(name); existing == nil {
		_ = p.Syms.Add(sym)
	}
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	return nil
}

// parseIntrinsic handles both `intrinsic 'fnset-name' { f1(...); f2(...); }`
// and `intrinsic class Name: Base { ... }` (an IntrinsicClassModifier,
// handled by the object-body parser once `modify` is layered on it).
func (p *Parser) parseIntrinsic() ir.TopLevel {
	tok:= p.curTok
	if p.peekIs(token.KwClass) {
		p.nextToken()
		return p.parseObjectDefinition(objectDefOpts{intrinsicClass: true})
	}
	p.nextToken() // skip the fnset name literal
	if p.expectPeek(token.LBrace, CodeExpectedRBrace) {
		depth:= 1
		for depth > 0 && !p.curIs(token.EOF) {
			p.nextToken()
			if p.curIs(token.LBrace) {
				depth++
			} else if p.curIs(token.RBrace) {
				depth--
			}
		}
	}
	_ = tok
	return nil
}

func (p *Parser) parseClassObject() ir.TopLevel {
	p.nextToken()
	return p.parseObjectDefinition(objectDefOpts{isClass: true})
}

func (p *Parser) parseReplace() ir.TopLevel {
	p.nextToken()
	if p.curIs(token.KwFunction) || p.curIs(token.KwMethod) {
		p.nextToken()
		return p.parseFunction(true)
	}
	return p.parseObjectDefinition(objectDefOpts{isReplace: true})
}

func (p *Parser) parseModify() ir.TopLevel {
	p.nextToken()
	if p.curIs(token.KwFunction) || p.curIs(token.KwMethod) {
		p.nextToken()
		return p.parseModifyFunction()
	}
	return p.parseObjectDefinition(objectDefOpts{isModify: true})
}

// parseModifyFunction implements "Modify function": splice a
// fresh empty-named base symbol carrying the old CodeBody into modBase.
func (p *Parser) parseModifyFunction() ir.TopLevel {
	tok:= p.curTok
	if !p.expectPeek(token.Ident, CodeExpectedIdent) {
		return nil
	}
	name:= p.curTok.Literal
	pos:= p.curTok.Pos

	existing, _:= p.Syms.Find(name).(*symtab.FunctionSymbol)
	if existing == nil {
		p.Errs.Report(pos, SevError, CodeKindMismatch, name)
		existing = &symtab.FunctionSymbol{Header: symtab.Header{SymName: name, SymKind: symtab.KindFunction, SymPos: pos, External: true}}
		_ = p.Syms.Add(existing)
	}

	base:= &symtab.FunctionSymbol{
		Header: symtab.Header{SymName: " " + name, SymKind: symtab.KindFunction, SymPos: existing.SymPos},
		NumFixedArgs: existing.NumFixedArgs,
		CodeHandle: existing.CodeHandle,
		ModBase: existing.ModBase,
	}
	existing.ModBase = base

	if !p.expectPeek(token.LParen, CodeExpectedRParen) {
		return nil
	}
	formals, _:= p.parseTypedFormals()
	cb:= p.parseCodeBodyFromFormals(formals)
	existing.CodeHandle = p.storeCodeBody(cb)
	existing.SymPos = pos

	fs:= &ir.FunctionStmt{Sym: existing, Body: cb}
	fs.Token = tok
	return fs
}

func (p *Parser) parsePropertyDecl() ir.TopLevel {
	tok:= p.curTok
	decl:= &ir.PropertyDecl{}
	decl.Token = tok
	for {
		if !p.expectPeek(token.Ident, CodeExpectedIdent) {
			break
		}
		name:= p.curTok.Literal
		pos:= p.curTok.Pos
		id:= &ir.Identifier{Value: name}
		id.Token = p.curTok
		decl.Names = append(decl.Names, id)
		p.defineOrUpgradeProperty(name, pos)
		if p.peekIs(token.Comma) {
			p.nextToken()
			continue
		}
		break
	}
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	return decl
}

// defineOrUpgradeProperty resolves name to a PropertySymbol, assigning a
// fresh property ID on first reference.
func (p *Parser) defineOrUpgradeProperty(name string, pos token.Pos) *symtab.PropertySymbol {
	if existing, ok:= p.Syms.Find(name).(*symtab.PropertySymbol); ok {
		return existing
	}
	sym:= &symtab.PropertySymbol{
		Header: symtab.Header{SymName: name, SymKind: symtab.KindProperty, SymPos: pos},
		PropID: p.nextPropID(),
	}
	_ = p.Syms.Add(sym)
	return sym
}

func (p *Parser) nextPropID() uint16 {
	id:= p.propIDCounter
	p.propIDCounter++
	return id
}

func (p *Parser) parseExport() ir.TopLevel {
	tok:= p.curTok
	if !p.expectPeek(token.Ident, CodeExpectedIdent) {
		return nil
	}
	internal:= &ir.Identifier{Value: p.curTok.Literal}
	internal.Token = p.curTok
	external:= internal.Value
	if p.peekIs(token.Ident) && p.peekTok.Literal == "as" {
		p.nextToken()
		if !p.expectPeek(token.Ident, CodeExpectedIdent) {
			return nil
		}
		external = p.curTok.Literal
	}
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	e:= &ir.Export{Internal: internal, External: external}
	e.Token = tok
	return e
}

func (p *Parser) parseDictionaryStmt() ir.TopLevel {
	tok:= p.curTok
	if !p.expectPeek(token.Ident, CodeExpectedIdent) {
		return nil
	}
	name:= p.curTok.Literal
	pos:= p.curTok.Pos
	sym, _:= p.Syms.Find(name).(*symtab.ObjectSymbol)
	if sym == nil {
		sym = &symtab.ObjectSymbol{
			Header: symtab.Header{SymName: name, SymKind: symtab.KindObject, SymPos: pos},
			MetaclassTag: symtab.DictionaryMeta,
		}
		_ = p.Syms.Add(sym)
	}
	p.Syms.CurrentDictionary = sym
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	d:= &ir.DictionaryStmt{Sym: sym}
	d.Token = tok
	return d
}

func (p *Parser) parseEnum() ir.TopLevel {
	tok:= p.curTok
	isToken:= false
	if p.peekIs(token.KwToken) {
		isToken = true
		p.nextToken()
	}
	es:= &ir.EnumStmt{IsToken: isToken}
	es.Token = tok
	for {
		if !p.expectPeek(token.Ident, CodeExpectedIdent) {
			break
		}
		name:= p.curTok.Literal
		pos:= p.curTok.Pos
		id:= &ir.Identifier{Value: name}
		id.Token = p.curTok
		es.Names = append(es.Names, id)

		if p.Syms.Find(name) == nil {
			sym:= &symtab.EnumSymbol{
				Header: symtab.Header{SymName: name, SymKind: symtab.KindEnum, SymPos: pos},
				EnumID: p.nextEnumID(),
				IsToken: isToken,
			}
			_ = p.Syms.Add(sym)
		}
		if p.peekIs(token.Comma) {
			p.nextToken()
			continue
		}
		break
	}
	if p.peekIs(token.Semi) {
		p.nextToken()
	}
	return es
}

func (p *Parser) nextEnumID() int {
	id:= p.enumIDCounter
	p.enumIDCounter++
	return id
}
