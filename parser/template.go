package parser

import (
	"github.com/dr8co/t3c/ir"
	"github.com/dr8co/t3c/symtab"
	"github.com/dr8co/t3c/token"
)

// parseTemplateClause parses `template item (, item)*;`, one property per
// positional slot, optionally alternated with `|` and marked optional with
// a trailing `?`; `@` marks an object-valued (ItemObj) slot rather than
// the default any-value slot.
//
// curTok is on `template` when this is called.
func (p *Parser) parseTemplateClause() *symtab.Template {
	tok:= p.curTok
	tmpl:= &symtab.Template{Pos: tok.Pos}
	p.nextToken()

	for {
		item, ok:= p.parseTemplateItem()
		if !ok {
			break
		}
		alt:= []symtab.TemplateItem{item}
		for p.curIs(token.Pipe) {
			p.nextToken()
			next, ok:= p.parseTemplateItem()
			if !ok {
				break
			}
			alt = append(alt, next)
		}
		if len(alt) > 1 {
			for i:= range alt {
				alt[i].IsAlt = true
			}
		}
		tmpl.Items = append(tmpl.Items, alt...)
		if p.curIs(token.Comma) {
			p.nextToken()
			continue
		}
		break
	}
	if p.curIs(token.Semi) {
		p.nextToken()
	}
	return tmpl
}

// parseTemplateItem parses one `[@]propName[?]` slot naming the target
// property and its expected actual-value kind.
func (p *Parser) parseTemplateItem() (symtab.TemplateItem, bool) {
	kind:= symtab.ItemAny
	if p.curIs(token.At) {
		kind = symtab.ItemObj
		p.nextToken()
	}
	if !p.curIs(token.Ident) {
		return symtab.TemplateItem{}, false
	}
	prop:= p.defineOrUpgradeProperty(p.curTok.Literal, p.curTok.Pos)
	p.nextToken()
	opt:= false
	if p.curIs(token.Question) {
		opt = true
		p.nextToken()
	}
	return symtab.TemplateItem{Match: kind, Target: prop, IsOpt: opt}, true
}

// templateKindOf classifies an already-parsed actual expression the way
// the match algorithm needs to, for comparison against a TemplateItem's
// Match kind.
func templateKindOf(actual ir.Expression) symtab.TemplateItemKind {
	switch actual.(type) {
	case *ir.VocabLiteral:
		return symtab.ItemSStr
	case *ir.StringLiteral, *ir.DstrExpression:
		return symtab.ItemDStr
	case *ir.ListLiteral:
		return symtab.ItemList
	case *ir.Identifier:
		return symtab.ItemObj
	default:
		return symtab.ItemAny
	}
}

// collectTemplates walks supers (in order) and, for each, its own
// templates then its ancestors' recursively, matching
// "walk the superclass list in order ... then recurse into its
// ancestors." A later match in a subclass overrides an earlier match from
// a more distant ancestor, so templates are collected nearest-first (each
// class's own templates ahead of its ancestors', root templates last) and
// the caller prefers the first successful match.
func (p *Parser) collectTemplates(supers []*ir.Identifier, isRoot bool) []*symtab.Template {
	var out []*symtab.Template
	seen:= map[string]bool{}
	var walk func(name string)
	walk = func(name string) {
		if seen[name] {
			return
		}
		seen[name] = true
		obj, ok:= p.Syms.Find(name).(*symtab.ObjectSymbol)
		if !ok {
			return
		}
		out = append(out, obj.Templates...)
		for _, sc:= range obj.Superclasses {
			walk(sc)
		}
	}
	for _, s:= range supers {
		walk(s.Value)
	}
	if isRoot {
		out = append(out, p.Syms.RootTemplates...)
	}
	return out
}

// matchTemplate pairs actuals with template items by token-kind
// compatibility, honoring alternation and optionality, and binds each
// actual to its property as an ObjectProp.
func (p *Parser) matchTemplate(sym *symtab.ObjectSymbol, supers []*ir.Identifier, isRoot bool, actuals []ir.Expression, pos token.Pos) []*ir.ObjectProp {
	candidates:= p.collectTemplates(supers, isRoot)
	if len(candidates) == 0 {
		p.Errs.Report(pos, SevWarning, CodeUndescribedTemplate, sym.Name())
		return nil
	}

	for _, tmpl:= range candidates {
		if props, ok:= tryMatchTemplate(tmpl, actuals); ok {
			return props
		}
	}
	p.Errs.Report(pos, SevError, CodeTemplateMismatch, sym.Name())
	return nil
}

func tryMatchTemplate(tmpl *symtab.Template, actuals []ir.Expression) ([]*ir.ObjectProp, bool) {
	var props []*ir.ObjectProp
	ai:= 0
	i:= 0
	for i < len(tmpl.Items) {
		group:= []symtab.TemplateItem{tmpl.Items[i]}
		for i+1 < len(tmpl.Items) && tmpl.Items[i+1].IsAlt && tmpl.Items[i].IsAlt {
			i++
			group = append(group, tmpl.Items[i])
		}
		i++

		if ai >= len(actuals) {
			if allOptional(group) {
				continue
			}
			return nil, false
		}

		actual:= actuals[ai]
		kind:= templateKindOf(actual)
		matched:= false
		for _, item:= range group {
			if item.Match == symtab.ItemAny || item.Match == kind {
				props = append(props, &ir.ObjectProp{Prop: item.Target, Value: ir.PropValue{Const: actual}})
				ai++
				matched = true
				break
			}
		}
		if !matched {
			if allOptional(group) {
				continue
			}
			return nil, false
		}
	}
	if ai != len(actuals) {
		return nil, false
	}
	return props, true
}

func allOptional(group []symtab.TemplateItem) bool {
	for _, it:= range group {
		if !it.IsOpt {
			return false
		}
	}
	return true
}
