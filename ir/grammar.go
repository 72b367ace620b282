package ir

import (
	"strings"

	"github.com/dr8co/t3c/symtab"
)

// GrammarTokenKind identifies what one slot of a grammar alternative
// matches.
type GrammarTokenKind int

const (
	// GramLiteral matches a literal vocabulary word.
	GramLiteral GrammarTokenKind = iota
	// GramSubProd matches a nested named production.
	GramSubProd
	// GramTokenType matches a lexical token-type enumerator (e.g. a
	// numeric or quoted-string token produced by the game's own tokenizer,
	// as opposed to the compiler's lexer).
	GramTokenType
	// GramPartOfSpeech matches a single part-of-speech-tagged word.
	GramPartOfSpeech
	// GramPartOfSpeechList matches any of several part-of-speech tags.
	GramPartOfSpeechList
	// GramStar matches the "any remaining words" wildcard.
	GramStar
)

// GrammarToken is one ordered slot of a [GrammarAlt].
type GrammarToken struct {
	Kind GrammarTokenKind

	// Literal holds the matched word for GramLiteral.
	Literal string
	// SubProd names the nested production for GramSubProd.
	SubProd *Identifier
	// EnumID holds the `enum token` value for GramTokenType.
	EnumID int
	// Prop names the match-bound property for GramPartOfSpeech /
	// GramPartOfSpeechList.
	Prop *symtab.PropertySymbol
	// PartsOfSpeech holds the tag list for GramPartOfSpeechList (a single
	// entry for GramPartOfSpeech).
	PartsOfSpeech []string
}

func (t GrammarToken) String() string {
	switch t.Kind {
	case GramLiteral:
		return "'" + t.Literal + "'"
	case GramSubProd:
		return t.SubProd.Value
	case GramTokenType:
		return "<token>"
	case GramPartOfSpeech, GramPartOfSpeechList:
		return strings.Join(t.PartsOfSpeech, "|")
	default:
		return "*"
	}
}

// GrammarAlt is one alternative of a [GrammarProd]: an ordered token list
// plus the scoring and dictionary-binding metadata the natural-language
// parser uses to rank competing matches.
type GrammarAlt struct {
	Score int
	Badness int
	Processor *Identifier // object reference, resolved via symtab
	Dictionary *Identifier
	Tokens []GrammarToken
}

func (a *GrammarAlt) String() string {
	parts:= make([]string, 0, len(a.Tokens))
	for _, t:= range a.Tokens {
		parts = append(parts, t.String())
	}
	return strings.Join(parts, " ")
}

// GrammarProd is a top-level `grammar <name>(<tag>): alt1 | alt2 | ...;`
// production definition.
type GrammarProd struct {
	base
	Sym *symtab.ObjectSymbol
	Name *Identifier
	Tag string // the parenthesized match-tag, distinguishing overloads of the same production name
	Alts []*GrammarAlt

	// NamedRule, if non-empty, registers this production under an
	// additional natural-language-parser rule name distinct from Name.
	NamedRule string
}

func (*GrammarProd) topLevelNode() {}
func (gp *GrammarProd) String() string {
	var out strings.Builder
	out.WriteString("grammar ")
	out.WriteString(gp.Name.Value)
	out.WriteString("(")
	out.WriteString(gp.Tag)
	out.WriteString("): ")
	for i, alt:= range gp.Alts {
		if i > 0 {
			out.WriteString(" | ")
		}
		out.WriteString(alt.String())
	}
	out.WriteString(";")
	return out.String()
}

// DictionaryStmt is a top-level `dictionary <name>;` declaration, activating
// Sym as the current dictionary for subsequent vocabulary-property merging.
type DictionaryStmt struct {
	base
	Sym *symtab.ObjectSymbol
}

func (*DictionaryStmt) topLevelNode() {}
func (ds *DictionaryStmt) String() string { return "dictionary " + ds.Sym.Name() + ";" }
