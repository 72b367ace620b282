package objfile

import (
	"fmt"
	"io"

	"github.com/dr8co/t3c/symtab"
)

// ImportWarning is one non-fatal diagnostic from [ReadSymbols]: a pedantic
// reimport notice or a symbol-mismatch warning that didn't stop the read.
type ImportWarning struct {
	Name string
	Message string
}

func (w ImportWarning) String() string { return w.Name + ": " + w.Message }

// ReadSymbols reads a symbol-export file (or the symbol-record prefix of a
// full object file) from r and installs its symbols into syms, returning
// any pedantic/mismatch warnings encountered along the way.
func ReadSymbols(r io.Reader, syms *symtab.SymbolTable) ([]ImportWarning, error) {
	if err:= readEitherMagic(r); err != nil {
		return nil, err
	}
	version, err:= readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("objfile: reading version: %w", err)
	}
	if version > Version {
		return nil, fmt.Errorf("objfile: symbol file version %d newer than this reader's %d", version, Version)
	}

	if _, err:= readBytes(r); err != nil { // build-config, discarded
		return nil, fmt.Errorf("objfile: reading build config: %w", err)
	}

	if _, err:= readStringList(r); err != nil { // fnset names
		return nil, fmt.Errorf("objfile: reading fnset names: %w", err)
	}
	if _, err:= readStringList(r); err != nil { // meta names
		return nil, fmt.Errorf("objfile: reading meta names: %w", err)
	}
	if _, err:= readUint32(r); err != nil { // symIdxTable-count
		return nil, fmt.Errorf("objfile: reading symIdxTable count: %w", err)
	}
	if _, err:= readUint32(r); err != nil { // dictIdxTable-count
		return nil, fmt.Errorf("objfile: reading dictIdxTable count: %w", err)
	}

	symCount, err:= readUint32(r)
	if err != nil {
		return nil, fmt.Errorf("objfile: reading symbol count: %w", err)
	}

	var warnings []ImportWarning
	for i:= uint32(0); i < symCount; i++ {
		sym, err:= readSymbolRecord(r)
		if err != nil {
			return warnings, fmt.Errorf("objfile: reading symbol %d: %w", i, err)
		}
		warnings = append(warnings, mergeImportedSymbol(syms, sym)...)
	}
	return warnings, nil
}

func readEitherMagic(r io.Reader) error {
	buf:= make([]byte, len(SymbolMagic))
	if _, err:= io.ReadFull(r, buf[:len(Magic)]); err != nil {
		return fmt.Errorf("objfile: reading magic: %w", err)
	}
	if string(buf[:len(Magic)]) == Magic {
		return nil
	}
	rest:= len(SymbolMagic) - len(Magic)
	if rest > 0 {
		if _, err:= io.ReadFull(r, buf[len(Magic):]); err != nil {
			return fmt.Errorf("objfile: reading magic: %w", err)
		}
	}
	if string(buf) == SymbolMagic {
		return nil
	}
	return fmt.Errorf("objfile: unrecognized magic %q", buf)
}

func readStringList(r io.Reader) ([]string, error) {
	n, err:= readUint32(r)
	if err != nil {
		return nil, err
	}
	out:= make([]string, 0, n)
	for i:= uint32(0); i < n; i++ {
		s, err:= readString(r)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func readSymbolRecord(r io.Reader) (symtab.Symbol, error) {
	kindByte, err:= readByte(r)
	if err != nil {
		return nil, err
	}
	name, err:= readString(r)
	if err != nil {
		return nil, err
	}

	switch symKind(kindByte) {
	case symKindObject:
		objID, err:= readUint32(r)
		if err != nil {
			return nil, err
		}
		flags, err:= readByte(r)
		if err != nil {
			return nil, err
		}
		tag, err:= readString(r)
		if err != nil {
			return nil, err
		}
		n, err:= readUint16(r)
		if err != nil {
			return nil, err
		}
		supers:= make([]string, 0, n)
		for i:= uint16(0); i < n; i++ {
			s, err:= readString(r)
			if err != nil {
				return nil, err
			}
			supers = append(supers, s)
		}
		f:= objFlag(flags)
		return &symtab.ObjectSymbol{
			Header: symtab.Header{SymName: name, SymKind: symtab.KindObject, External: f&objFlagExternal != 0},
			ObjID: objID,
			IsClass: f&objFlagClass != 0,
			Transient: f&objFlagTransient != 0,
			Modified: f&objFlagModified != 0,
			Anonymous: f&objFlagAnonymous != 0,
			MetaclassTag: symtab.MetaclassTag(tag),
			Superclasses: supers,
		}, nil

	case symKindProperty:
		propID, err:= readUint16(r)
		if err != nil {
			return nil, err
		}
		flags, err:= readByte(r)
		if err != nil {
			return nil, err
		}
		f:= propFlag(flags)
		return &symtab.PropertySymbol{
			Header: symtab.Header{SymName: name, SymKind: symtab.KindProperty},
			PropID: propID,
			Vocab: f&propFlagVocab != 0,
			Weak: f&propFlagWeak != 0,
		}, nil

	case symKindFunction:
		flags, err:= readByte(r)
		if err != nil {
			return nil, err
		}
		fixed, err:= readUint16(r)
		if err != nil {
			return nil, err
		}
		optional, err:= readUint16(r)
		if err != nil {
			return nil, err
		}
		n, err:= readUint16(r)
		if err != nil {
			return nil, err
		}
		types:= make([]string, 0, n)
		for i:= uint16(0); i < n; i++ {
			t, err:= readString(r)
			if err != nil {
				return nil, err
			}
			types = append(types, t)
		}
		f:= fnFlag(flags)
		return &symtab.FunctionSymbol{
			Header: symtab.Header{SymName: name, SymKind: symtab.KindFunction, External: f&fnFlagExtern != 0},
			Extern: f&fnFlagExtern != 0,
			Varargs: f&fnFlagVarargs != 0,
			HasReturn: f&fnFlagHasReturn != 0,
			IsMultimethod: f&fnFlagMultimethod != 0,
			IsMultimethodBase: f&fnFlagMultimethodBase != 0,
			NumFixedArgs: int(fixed),
			NumOptionalArgs: int(optional),
			MultimethodTypes: types,
		}, nil

	case symKindEnum:
		enumID, err:= readUint32(r)
		if err != nil {
			return nil, err
		}
		b, err:= readByte(r)
		if err != nil {
			return nil, err
		}
		return &symtab.EnumSymbol{
			Header: symtab.Header{SymName: name, SymKind: symtab.KindEnum},
			EnumID: int(enumID),
			IsToken: b != 0,
		}, nil

	case symKindMetaclass:
		tag, err:= readString(r)
		if err != nil {
			return nil, err
		}
		return &symtab.MetaclassSymbol{
			Header: symtab.Header{SymName: name, SymKind: symtab.KindMetaclass},
			Tag: symtab.MetaclassTag(tag),
		}, nil

	default:
		return nil, fmt.Errorf("objfile: unrecognized symbol kind byte %d for %q", kindByte, name)
	}
}

// mergeImportedSymbol installs sym into syms, downgrading a clash to a
// pedantic warning when the reimport is idempotent (same kind, same
// external-ness) and otherwise surfacing it as a plain warning rather than
// aborting the whole read.
func mergeImportedSymbol(syms *symtab.SymbolTable, sym symtab.Symbol) []ImportWarning {
	existing:= syms.Find(sym.Name())
	if existing == nil {
		_ = syms.Add(sym)
		return nil
	}
	if existing.Kind() == sym.Kind() && existing.IsExternal() == sym.IsExternal() {
		return []ImportWarning{{Name: sym.Name(), Message: "pedantic: reimport of already-known symbol"}}
	}
	if err:= syms.Add(sym); err != nil {
		return []ImportWarning{{Name: sym.Name(), Message: err.Error()}}
	}
	return nil
}
