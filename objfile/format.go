// Package objfile implements the object-file writer and reader (component
// C6): the binary linker-input format a compiled translation unit is
// serialized to, and the companion symbol-export reader used to pull
// already-compiled symbols into a later translation unit.
//
// The encoding uses fixed-width records via encoding/binary, big-endian
// throughout, sized for symbol/cross-reference/grammar records rather than
// bytecode instructions.
package objfile

import "github.com/google/uuid"

// Magic is the fixed object-file signature written at the start of every
// file this package produces.
const Magic = "TADS3.ObjectFile"

// SymbolMagic is the signature used for symbol-export files, which share
// every other part of the layout.
const SymbolMagic = "TADS3.SymbolExport"

// Version is incremented whenever a wire-incompatible change is made to
// the record layout below.
const Version uint32 = 1

// BuildConfig is the opaque build-config blob every file carries: a random
// per-build session identifier and the compiler version string that
// produced it.
type BuildConfig struct {
	BuildID uuid.UUID
	CompilerVersion string
}

// symKind mirrors symtab.Kind()'s wire encoding: a one-byte discriminator
// prefixing every symbol record.
type symKind byte

const (
	symKindObject symKind = iota
	symKindProperty
	symKindFunction
	symKindBuiltinFunction
	symKindEnum
	symKindMetaclass
	symKindLocal
)

// grammarTokenKind mirrors ir.GrammarTokenKind's wire encoding.
type grammarTokenKind uint16

const (
	gtkLiteral grammarTokenKind = iota
	gtkSubProd
	gtkTokenType
	gtkPartOfSpeech
	gtkPartOfSpeechList
	gtkStar
)

// objFlag bits pack an ObjectSymbol's boolean attributes into one byte.
type objFlag byte

const (
	objFlagClass objFlag = 1 << iota
	objFlagTransient
	objFlagExternal
	objFlagModified
	objFlagAnonymous
)

// propFlag bits pack a PropertySymbol's boolean attributes.
type propFlag byte

const (
	propFlagVocab propFlag = 1 << iota
	propFlagWeak
)

// fnFlag bits pack a FunctionSymbol's boolean attributes.
type fnFlag byte

const (
	fnFlagExtern fnFlag = 1 << iota
	fnFlagVarargs
	fnFlagHasReturn
	fnFlagMultimethod
	fnFlagMultimethodBase
)
