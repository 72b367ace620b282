package parser

import (
	"strconv"

	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

// parseGrammar parses a top-level grammar production:
//
//	grammar name(tag): tok tok ... [@badness(n)] [: Processor] [-> Dict]
//	 | tok tok ...
//	 as "ruleName"
//	 ;
//
// Each alternative is a space-separated token list terminated by `|`, `:`,
// `->`, `;`, or `as`.
//
// curTok is on `grammar` when this is called.
func (p *Parser) parseGrammar() ir.TopLevel {
	tok:= p.curTok
	if !p.expectPeek(token.Ident, CodeExpectedIdent) {
		return nil
	}
	name:= &ir.Identifier{Value: p.curTok.Literal}
	name.Token = p.curTok

	if !p.expectPeek(token.LParen, CodeExpectedRParen) {
		return nil
	}
	tag:= ""
	if p.peekIs(token.Ident) {
		p.nextToken()
		tag = p.curTok.Literal
	}
	p.expectPeek(token.RParen, CodeExpectedRParen)
	p.expectPeek(token.Colon, CodeExpectedColon)
	p.nextToken()

	sym:= p.resolveGrammarSymbol(name.Value, tok.Pos)
	prod:= &ir.GrammarProd{Sym: sym, Name: name, Tag: tag}
	prod.Token = tok

	for {
		prod.Alts = append(prod.Alts, p.parseGrammarAlt())
		if p.curIs(token.Pipe) {
			p.nextToken()
			continue
		}
		break
	}

	if p.curIs(token.Ident) && p.curTok.Literal == "as" {
		p.nextToken()
		if p.curIs(token.DStr) || p.curIs(token.SStr) {
			prod.NamedRule = p.curTok.Literal
			p.nextToken()
		}
	}
	if p.curIs(token.Semi) {
		p.nextToken()
	}
	return prod
}

func (p *Parser) resolveGrammarSymbol(name string, pos token.Pos) *symtab.ObjectSymbol {
	sym:= p.Syms.ResolveOrDeclareExternal(name, func() symtab.Symbol {
		return &symtab.ObjectSymbol{
			Header: symtab.Header{SymName: name, SymKind: symtab.KindObject, SymPos: pos, External: true},
			MetaclassTag: symtab.GrammarProdMeta,
		}
	})
	obj, ok:= sym.(*symtab.ObjectSymbol)
	if !ok {
		p.Errs.Report(pos, SevError, CodeKindMismatch, name)
		return &symtab.ObjectSymbol{Header: symtab.Header{SymName: name, SymKind: symtab.KindObject, SymPos: pos}}
	}
	return obj
}

// parseGrammarAlt parses one `|`-separated alternative: its token list,
// then any trailing badness/score modifier, processor class, and
// dictionary binding.
func (p *Parser) parseGrammarAlt() *ir.GrammarAlt {
	alt:= &ir.GrammarAlt{}
	for p.grammarTokenStarts() {
		alt.Tokens = append(alt.Tokens, p.parseGrammarToken())
	}

	for p.curIs(token.At) {
		p.nextToken()
		if !p.curIs(token.Ident) {
			break
		}
		kind:= p.curTok.Literal
		p.nextToken()
		n:= 0
		if p.curIs(token.LParen) {
			p.nextToken()
			if p.curIs(token.Int) {
				n, _ = strconv.Atoi(p.curTok.Literal)
				p.nextToken()
			}
			if p.curIs(token.RParen) {
				p.nextToken()
			}
		}
		switch kind {
		case "badness":
			alt.Badness = n
		case "score":
			alt.Score = n
		}
	}

	if p.curIs(token.Colon) {
		p.nextToken()
		if p.curIs(token.Ident) {
			alt.Processor = &ir.Identifier{Value: p.curTok.Literal}
			alt.Processor.Token = p.curTok
			p.nextToken()
		}
	}
	if p.curIs(token.Arrow) {
		p.nextToken()
		if p.curIs(token.Ident) {
			alt.Dictionary = &ir.Identifier{Value: p.curTok.Literal}
			alt.Dictionary.Token = p.curTok
			p.nextToken()
		}
	}
	return alt
}

func (p *Parser) grammarTokenStarts() bool {
	switch p.curTok.Kind {
	case token.SStr, token.Star, token.LParen:
		return true
	case token.Ident:
		// `as` introduces the rule name, not a sub-production reference.
		return p.curTok.Literal != "as"
	default:
		return false
	}
}

// parseGrammarToken parses one grammar-alternative slot: a literal word, a
// nested-production reference, a parenthesized part-of-speech tag (or tag
// list, `|`-separated), or the `*` wildcard.
func (p *Parser) parseGrammarToken() ir.GrammarToken {
	switch {
	case p.curIs(token.SStr):
		lit:= p.curTok.Literal
		p.nextToken()
		return ir.GrammarToken{Kind: ir.GramLiteral, Literal: lit}

	case p.curIs(token.Star):
		p.nextToken()
		return ir.GrammarToken{Kind: ir.GramStar}

	case p.curIs(token.LParen):
		p.nextToken()
		var tags []string
		for p.curIs(token.Ident) {
			tags = append(tags, p.curTok.Literal)
			if p.peekIs(token.Pipe) {
				p.nextToken()
				p.nextToken()
				continue
			}
			break
		}
		p.expectPeek(token.RParen, CodeExpectedRParen)
		p.nextToken()
		if len(tags) == 1 {
			return ir.GrammarToken{Kind: ir.GramPartOfSpeech, PartsOfSpeech: tags}
		}
		return ir.GrammarToken{Kind: ir.GramPartOfSpeechList, PartsOfSpeech: tags}

	case p.curIs(token.Ident):
		if sym, ok:= p.Syms.Find(p.curTok.Literal).(*symtab.EnumSymbol); ok && sym.IsToken {
			id:= &ir.Identifier{Value: sym.Name()}
			id.Token = p.curTok
			p.nextToken()
			return ir.GrammarToken{Kind: ir.GramTokenType, EnumID: sym.EnumID}
		}
		id:= &ir.Identifier{Value: p.curTok.Literal}
		id.Token = p.curTok
		p.nextToken()
		return ir.GrammarToken{Kind: ir.GramSubProd, SubProd: id}

	default:
		p.Errs.Report(p.curTok.Pos, SevError, CodeExpectedIdent, p.curTok.Literal)
		p.nextToken()
		return ir.GrammarToken{}
	}
}
