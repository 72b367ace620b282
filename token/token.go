// Package token defines the lexical token kinds consumed by the t3c parser.
//
// A Token is the smallest unit the parser reasons about: an identifier, a
// literal, an operator, a delimiter, or a reserved word, each tagged with
// the source position it came from. Tokens are produced by something
// implementing [parser.RawTokenSource] — ordinarily the [lexer] package —
// and consumed one at a time (with lookahead and pushback) by the parser's
// token source adapter.
//
// Double-quoted strings may embed `<<expr>>` substitutions; the lexer
// reports these as a [DstrStart]/[DstrMid]/[DstrEnd] subsequence around the
// embedded expression's own tokens rather than as a single String token.
package token

import "fmt"

// Kind identifies the category of a [Token].
type Kind int

//go:generate stringer -type=Kind
const (
	// Illegal marks a character sequence the lexer could not tokenize.
	Illegal Kind = iota
	// EOF marks the end of input. It is a normal terminator at program
	// scope, but an error (UnexpectedEOF) when a grammar rule requires
	// more input mid-construct.
	EOF

	// Ident is an identifier: a class, object, property, function, local,
	// or enumerator name.
	Ident
	// Int is an integer literal.
	Int
	// Float is a floating-point literal.
	Float
	// SStr is a single-quoted (vocabulary) string literal.
	SStr
	// DStr is a double-quoted string literal with no embedded expression.
	DStr
	// DstrStart begins a double-quoted string that contains one or more
	// `<<expr>>` embeddings; Literal holds the text before the first `<<`.
	DstrStart
	// DstrMid holds the literal text between one embedded expression's
	// `>>` and the next embedding's `<<` (or the closing quote).
	DstrMid
	// DstrEnd closes a double-quoted string that had embeddings.
	DstrEnd

	// Operators.
	Assign
	Plus
	Minus
	Star
	Slash
	Percent
	Bang
	Amp
	Pipe
	Caret
	Tilde
	Lt
	Gt
	Le
	Ge
	Eq
	Ne
	AndAnd
	OrOr
	ShL
	ShR
	Arrow     // ->
	DotDotDot // ...
	Question
	At // @ (template-instance "plus" marker reuse point; also used by '+' object nesting is its own Plus token repeated N times)

	// Delimiters.
	Comma
	Colon
	Semi
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Dot

	// Reserved words.
	KwFunction
	KwMethod
	KwExtern
	KwIntrinsic
	KwClass
	KwObject
	KwModify
	KwReplace
	KwTransient
	KwProperty
	KwPropertyset
	KwExport
	KwDictionary
	KwGrammar
	KwEnum
	KwToken
	KwTemplate
	KwOperator
	KwReplaced
	KwInherited
	KwDelegated
	KwSelf
	KwTargetprop
	KwTargetobj
	KwDefiningobj
	KwNew
	KwNil
	KwTrue
	KwList
	KwIf
	KwElse
	KwWhile
	KwDo
	KwFor
	KwForeach
	KwBreak
	KwContinue
	KwReturn
	KwLocal
	KwSwitch
	KwCase
	KwDefault
	KwTry
	KwCatch
	KwFinally
	KwThrow
)

// Pos is a source location: a file descriptor (an index into the compiler's
// source-file table, matching the object file's eventual needs) and a
// 1-based line number.
type Pos struct {
	File int
	Line int
}

// String renders a position as "file:line" for diagnostics.
func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.File, p.Line) }

// Token is a single lexical unit together with its source position.
type Token struct {
	Kind    Kind
	Literal string
	Pos     Pos
}

// IsEOF reports whether t is the end-of-file token.
func (t Token) IsEOF() bool { return t.Kind == EOF }

// keywords maps reserved-word spellings to their Kind.
var keywords = map[string]Kind{
	"function":    KwFunction,
	"method":      KwMethod,
	"extern":      KwExtern,
	"intrinsic":   KwIntrinsic,
	"class":       KwClass,
	"object":      KwObject,
	"modify":      KwModify,
	"replace":     KwReplace,
	"transient":   KwTransient,
	"property":    KwProperty,
	"propertyset": KwPropertyset,
	"export":      KwExport,
	"dictionary":  KwDictionary,
	"grammar":     KwGrammar,
	"enum":        KwEnum,
	"token":       KwToken,
	"template":    KwTemplate,
	"operator":    KwOperator,
	"replaced":    KwReplaced,
	"inherited":   KwInherited,
	"delegated":   KwDelegated,
	"self":        KwSelf,
	"targetprop":  KwTargetprop,
	"targetobj":   KwTargetobj,
	"definingobj": KwDefiningobj,
	"new":         KwNew,
	"nil":         KwNil,
	"true":        KwTrue,
	"list":        KwList,
	"if":          KwIf,
	"else":        KwElse,
	"while":       KwWhile,
	"do":          KwDo,
	"for":         KwFor,
	"foreach":     KwForeach,
	"break":       KwBreak,
	"continue":    KwContinue,
	"return":      KwReturn,
	"local":       KwLocal,
	"switch":      KwSwitch,
	"case":        KwCase,
	"default":     KwDefault,
	"try":         KwTry,
	"catch":       KwCatch,
	"finally":     KwFinally,
	"throw":       KwThrow,
}

// LookupIdent returns the reserved-word Kind for ident, or Ident if ident
// is not a reserved word.
func LookupIdent(ident string) Kind {
	if k, ok := keywords[ident]; ok {
		return k
	}
	return Ident
}

// statementStarters is the set of token kinds that begin a new top-level
// (or, nested, a new object) definition. The object-body parser consults
// this set to detect a missing closing brace inside an object body.
var statementStarters = map[Kind]bool{
	KwFunction:    true,
	KwMethod:      true,
	KwExtern:      true,
	KwIntrinsic:   true,
	KwClass:       true,
	KwObject:      true,
	KwModify:      true,
	KwReplace:     true,
	KwTransient:   true,
	KwProperty:    true,
	KwExport:      true,
	KwDictionary:  true,
	KwGrammar:     true,
	KwEnum:        true,
}

// IsStatementStarter reports whether k can begin a new top-level statement.
func IsStatementStarter(k Kind) bool { return statementStarters[k] }
