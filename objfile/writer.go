package objfile

import (
	"bytes"
	"fmt"
	"io"

	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/symtab"
)

// xref is one symbol cross-reference record: propID on the owning object
// resolves (at link time) to targetObjID.
type xref struct {
	ownerObjID uint32
	propID uint16
	targetObjID uint32
}

// Write serializes prog and syms as a compiled object file to w, in the
// order lists: signature/version, build-config, fnset/meta name
// lists, symbols, anonymous objects, nonsym ID list, cross-references,
// grammar productions, named-grammar rules, and exports.
//
// resolveStmt dereferences an arena handle back to its *ir.ObjectStmt,
// the parser's own arena, not reachable from ir.Program alone, since
// nested anonymous objects are never appended to Program.TopLevels.
func Write(w io.Writer, prog *ir.Program, syms *symtab.SymbolTable, resolveStmt func(symtab.Handle) *ir.ObjectStmt, cfg *BuildConfig, fnsets, metas []string) error {
	var out bytes.Buffer
	writeMagic(&out, Magic)
	writeUint32(&out, Version)

	if err:= writeBuildConfig(&out, cfg); err != nil {
		return err
	}

	writeUint32(&out, uint32(len(fnsets)))
	for _, n:= range fnsets {
		writeString(&out, n)
	}
	writeUint32(&out, uint32(len(metas)))
	for _, n:= range metas {
		writeString(&out, n)
	}

	objIdx:= assignObjectIDs(syms)

	var namedSyms []symtab.Symbol
	syms.Enumerate(func(s symtab.Symbol) { namedSyms = append(namedSyms, s) })

	// reserved per-stream index slot counts: one symbol-index slot per named
	// object symbol, and one dictionary-index slot per dictionary /
	// grammar-production object, so a linker can address them by a compact
	// integer instead of a name lookup.
	symIdxSlots, dictIdxSlots:= countIndexSlots(namedSyms)
	writeUint32(&out, symIdxSlots)
	writeUint32(&out, dictIdxSlots)

	writeUint32(&out, uint32(len(namedSyms)))
	for _, s:= range namedSyms {
		if err:= writeSymbol(&out, s, objIdx); err != nil {
			return err
		}
	}

	anon:= syms.Anonymous()
	writeUint32(&out, uint32(len(anon)))
	var anonXrefs []xref
	for _, a:= range anon {
		if err:= writeSymbol(&out, a, objIdx); err != nil {
			return err
		}
		anonXrefs = append(anonXrefs, collectXrefs(a, resolveStmt, syms, objIdx)...)
	}

	nonsym:= nonsymbolObjectIDs(anon, objIdx)
	writeUint32(&out, uint32(len(nonsym)))
	for _, id:= range nonsym {
		writeUint32(&out, id)
	}

	var xrefs []xref
	for _, s:= range namedSyms {
		obj, ok:= s.(*symtab.ObjectSymbol)
		if !ok {
			continue
		}
		xrefs = append(xrefs, collectXrefs(obj, resolveStmt, syms, objIdx)...)
	}
	writeUint32(&out, uint32(len(xrefs)))
	for _, x:= range xrefs {
		writeUint32(&out, x.ownerObjID)
		writeUint16(&out, x.propID)
		writeUint32(&out, x.targetObjID)
	}

	writeUint32(&out, uint32(len(anonXrefs)))
	for _, x:= range anonXrefs {
		writeUint32(&out, x.ownerObjID)
		writeUint16(&out, x.propID)
		writeUint32(&out, x.targetObjID)
	}

	prods:= grammarProds(prog)
	writeUint32(&out, uint32(len(prods)))
	for _, gp:= range prods {
		writeGrammarProd(&out, gp, objIdx, syms)
	}

	var named []*ir.GrammarProd
	for _, gp:= range prods {
		if gp.NamedRule != "" {
			named = append(named, gp)
		}
	}
	writeUint32(&out, uint32(len(named)))
	for _, gp:= range named {
		writeUint32(&out, objIdx[gp.Sym])
		writeString(&out, gp.NamedRule)
	}

	exports:= exportList(prog)
	writeUint32(&out, uint32(len(exports)))
	for _, e:= range exports {
		writeString(&out, e.Internal.Value)
		writeString(&out, e.External)
	}

	_, err:= w.Write(out.Bytes())
	return err
}

func writeBuildConfig(out *bytes.Buffer, cfg *BuildConfig) error {
	if cfg == nil {
		writeUint32(out, 0)
		return nil
	}
	var body bytes.Buffer
	idBytes, err:= cfg.BuildID.MarshalBinary()
	if err != nil {
		return fmt.Errorf("objfile: encoding build id: %w", err)
	}
	body.Write(idBytes)
	writeString(&body, cfg.CompilerVersion)
	writeBytes(out, body.Bytes())
	return nil
}

// assignObjectIDs gives every named and anonymous object symbol a stable,
// dense runtime object ID, in symbol-table enumeration order followed by
// anonymous-list order, so output is deterministic across runs.
func assignObjectIDs(syms *symtab.SymbolTable) map[*symtab.ObjectSymbol]uint32 {
	idx:= make(map[*symtab.ObjectSymbol]uint32)
	var next uint32 = 1
	syms.Enumerate(func(s symtab.Symbol) {
		if obj, ok:= s.(*symtab.ObjectSymbol); ok {
			obj.ObjID = next
			idx[obj] = next
			next++
		}
	})
	for _, a:= range syms.Anonymous() {
		a.ObjID = next
		idx[a] = next
		next++
	}
	return idx
}

func countIndexSlots(syms []symtab.Symbol) (symSlots, dictSlots uint32) {
	for _, s:= range syms {
		obj, ok:= s.(*symtab.ObjectSymbol)
		if !ok {
			continue
		}
		symSlots++
		if obj.MetaclassTag == symtab.DictionaryMeta || obj.MetaclassTag == symtab.GrammarProdMeta {
			dictSlots++
		}
	}
	return symSlots, dictSlots
}

func writeSymbol(out *bytes.Buffer, s symtab.Symbol, objIdx map[*symtab.ObjectSymbol]uint32) error {
	writeByte(out, byte(wireKind(s.Kind())))
	writeString(out, s.Name())

	switch sym:= s.(type) {
	case *symtab.ObjectSymbol:
		writeUint32(out, objIdx[sym])
		var flags objFlag
		if sym.IsClass {
			flags |= objFlagClass
		}
		if sym.Transient {
			flags |= objFlagTransient
		}
		if sym.IsExternal() {
			flags |= objFlagExternal
		}
		if sym.Modified {
			flags |= objFlagModified
		}
		if sym.Anonymous {
			flags |= objFlagAnonymous
		}
		writeByte(out, byte(flags))
		writeString(out, string(sym.MetaclassTag))
		writeUint16(out, uint16(len(sym.Superclasses)))
		for _, sc:= range sym.Superclasses {
			writeString(out, sc)
		}

	case *symtab.PropertySymbol:
		writeUint16(out, sym.PropID)
		var flags propFlag
		if sym.Vocab {
			flags |= propFlagVocab
		}
		if sym.Weak {
			flags |= propFlagWeak
		}
		writeByte(out, byte(flags))

	case *symtab.FunctionSymbol:
		var flags fnFlag
		if sym.Extern {
			flags |= fnFlagExtern
		}
		if sym.Varargs {
			flags |= fnFlagVarargs
		}
		if sym.HasReturn {
			flags |= fnFlagHasReturn
		}
		if sym.IsMultimethod {
			flags |= fnFlagMultimethod
		}
		if sym.IsMultimethodBase {
			flags |= fnFlagMultimethodBase
		}
		writeByte(out, byte(flags))
		writeUint16(out, uint16(sym.NumFixedArgs))
		writeUint16(out, uint16(sym.NumOptionalArgs))
		writeUint16(out, uint16(len(sym.MultimethodTypes)))
		for _, t:= range sym.MultimethodTypes {
			writeString(out, t)
		}

	case *symtab.EnumSymbol:
		writeUint32(out, uint32(sym.EnumID))
		b:= byte(0)
		if sym.IsToken {
			b = 1
		}
		writeByte(out, b)

	case *symtab.MetaclassSymbol:
		writeString(out, string(sym.Tag))

	case *symtab.LocalSymbol:
		// Locals never reach the global symbol table, but the kind byte
		// above is still valid wire data for a reader encountering one.

	default:
		return fmt.Errorf("objfile: unknown symbol kind %T", s)
	}
	return nil
}

func wireKind(k symtab.Kind) symKind {
	switch k {
	case symtab.KindObject:
		return symKindObject
	case symtab.KindProperty:
		return symKindProperty
	case symtab.KindFunction:
		return symKindFunction
	case symtab.KindBuiltinFunction:
		return symKindBuiltinFunction
	case symtab.KindEnum:
		return symKindEnum
	case symtab.KindMetaclass:
		return symKindMetaclass
	default:
		return symKindLocal
	}
}

// nonsymbolObjectIDs lists anonymous objects that are not dictionary or
// grammar-production carriers — plain nested-object children with no other
// symbol-file role beyond their ID, 's "nonsym object-id list".
func nonsymbolObjectIDs(anon []*symtab.ObjectSymbol, objIdx map[*symtab.ObjectSymbol]uint32) []uint32 {
	var ids []uint32
	for _, a:= range anon {
		if a.MetaclassTag == symtab.NoMetaclass {
			ids = append(ids, objIdx[a])
		}
	}
	return ids
}

// collectXrefs walks obj's property list for Const *ir.Identifier values
// that name another object symbol, the weak by-name references the parser
// leaves behind for a linker to resolve into object IDs.
func collectXrefs(obj *symtab.ObjectSymbol, resolveStmt func(symtab.Handle) *ir.ObjectStmt, syms *symtab.SymbolTable, objIdx map[*symtab.ObjectSymbol]uint32) []xref {
	stmt:= resolveStmt(obj.StmtHandle)
	if stmt == nil {
		return nil
	}
	var out []xref
	for _, prop:= range stmt.Props {
		ident, ok:= prop.Value.Const.(*ir.Identifier)
		if !ok || prop.Prop == nil {
			continue
		}
		target, ok:= syms.Find(ident.Value).(*symtab.ObjectSymbol)
		if !ok {
			continue
		}
		out = append(out, xref{ownerObjID: objIdx[obj], propID: prop.Prop.PropID, targetObjID: objIdx[target]})
	}
	return out
}

func grammarProds(prog *ir.Program) []*ir.GrammarProd {
	var out []*ir.GrammarProd
	for _, tl:= range prog.TopLevels {
		if gp, ok:= tl.(*ir.GrammarProd); ok {
			out = append(out, gp)
		}
	}
	return out
}

func writeGrammarProd(out *bytes.Buffer, gp *ir.GrammarProd, objIdx map[*symtab.ObjectSymbol]uint32, syms *symtab.SymbolTable) {
	writeUint32(out, objIdx[gp.Sym])
	writeUint32(out, 0) // flag word: reserved, no production-level flags defined yet
	writeUint32(out, uint32(len(gp.Alts)))
	for _, alt:= range gp.Alts {
		writeInt16(out, int16(alt.Score))
		writeInt16(out, int16(alt.Badness))
		writeUint32(out, identObjID(alt.Processor, syms, objIdx))
		writeUint32(out, identObjID(alt.Dictionary, syms, objIdx))
		writeUint32(out, uint32(len(alt.Tokens)))
		for _, t:= range alt.Tokens {
			writeGrammarToken(out, t, syms, objIdx)
		}
	}
}

func identObjID(id *ir.Identifier, syms *symtab.SymbolTable, objIdx map[*symtab.ObjectSymbol]uint32) uint32 {
	if id == nil {
		return 0
	}
	if obj, ok:= syms.Find(id.Value).(*symtab.ObjectSymbol); ok {
		return objIdx[obj]
	}
	return 0
}

func writeGrammarToken(out *bytes.Buffer, t ir.GrammarToken, syms *symtab.SymbolTable, objIdx map[*symtab.ObjectSymbol]uint32) {
	switch t.Kind {
	case ir.GramLiteral:
		writeUint16(out, uint16(gtkLiteral))
		writeString(out, t.Literal)
	case ir.GramSubProd:
		writeUint16(out, uint16(gtkSubProd))
		writeUint32(out, identObjID(t.SubProd, syms, objIdx))
	case ir.GramTokenType:
		writeUint16(out, uint16(gtkTokenType))
		writeUint32(out, uint32(t.EnumID))
	case ir.GramPartOfSpeech:
		writeUint16(out, uint16(gtkPartOfSpeech))
		writeUint16(out, uint16(len(t.PartsOfSpeech)))
		for _, tag:= range t.PartsOfSpeech {
			writeString(out, tag)
		}
	case ir.GramPartOfSpeechList:
		writeUint16(out, uint16(gtkPartOfSpeechList))
		writeUint16(out, uint16(len(t.PartsOfSpeech)))
		for _, tag:= range t.PartsOfSpeech {
			writeString(out, tag)
		}
	default:
		writeUint16(out, uint16(gtkStar))
	}
}

func exportList(prog *ir.Program) []*ir.Export {
	var out []*ir.Export
	for _, tl:= range prog.TopLevels {
		if e, ok:= tl.(*ir.Export); ok {
			out = append(out, e)
		}
	}
	return out
}
