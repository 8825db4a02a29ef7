// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package parser

import "github.com/jboynton/jsconvert/entry"

// parseIdentifier reads one identifier token at pos and resolves it to
// either a keyword construction or a plain identifier (call, label,
// declarable attribute, or resolved/unresolved variable reference).
func (p *Parser) parseIdentifier(container entry.ID, pos, inset int) entry.ID {
	token := p.cur.NextToken(pos)
	end := pos + len(token)
	nextCh, _ := p.cur.NextChar(end)
	nextIsCall := nextCh == '('

	parentKind := p.doc.Get(container).Kind

	if kind, ok := p.kw.Resolve(token, nextIsCall); ok {
		if kind == entry.KindModifier && nextIsCall {
			if parentKind == entry.KindClasss {
				kind = entry.KindMethod
			} else {
				kind = entry.KindFunction
			}
		}
		// "super(...)"/"this(...)" called as a function (constructor
		// delegation) needs call structure (a Constructor arg list), not
		// the plain VariableType leaf this/super otherwise resolve to.
		if kind == entry.KindVariableType && nextIsCall {
			p.pos = end
			return p.buildCallable(container, entry.KindFunction, token, pos, end, inset)
		}
		p.pos = end
		return p.buildKeyword(container, kind, token, pos, end, inset)
	}

	// Not a keyword: generic identifier dispatch.
	switch {
	case nextCh == '(':
		p.pos = end
		kind := entry.KindFunction
		if parentKind == entry.KindClasss {
			kind = entry.KindMethod
		}
		return p.buildCallable(container, kind, token, pos, end, inset)

	case nextCh == ':' && parentKind != entry.KindExpression &&
		parentKind != entry.KindObjectType && parentKind != entry.KindTernaryExpression:
		p.pos = end
		return p.doc.Add(entry.Entry{Kind: entry.KindLabel, Name: token, Offs: pos, Pos: end, Inset: inset})

	case parentKind.IsDeclarable():
		p.pos = end
		return p.doc.Add(entry.Entry{Kind: entry.KindAttribute, Name: "", Value: token, Offs: pos, Pos: end, Inset: inset})

	case (token == "get" || token == "set") && parentKind == entry.KindClasss:
		p.pos = end
		return p.buildCallable(container, entry.KindMethod, token, pos, end, inset)

	default:
		p.pos = end
		if _, declared := p.doc.Resolve(container, token); declared {
			return p.doc.Add(entry.Entry{Kind: entry.KindVariableType, Name: token, Offs: pos, Pos: end, Inset: inset})
		}
		return p.doc.Add(entry.Entry{Kind: entry.KindGlobalType, Name: token, Offs: pos, Pos: end, Inset: inset})
	}
}

// buildCallable parses a Function/Method declaration: name, a Constructor
// parameter list container, and a StatementBlock body. A named Function
// declares a binding in its enclosing container; the Constructor's own
// parameter declarations are re-registered on the function/method entry
// itself so that the body's Parent-chain Resolve walk — which passes
// through the function, not its sibling Constructor — finds them.
func (p *Parser) buildCallable(container entry.ID, kind entry.Kind, name string, offs, afterName, inset int) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: kind, Name: name, Offs: offs, Inset: inset})
	if name != "" && kind == entry.KindFunction && container != entry.NoID {
		p.doc.Declare(container, name, id)
	}

	ch, pos := p.cur.NextChar(afterName)
	if ch == '(' {
		p.pos = pos
		params := p.parseBracketed(id, entry.KindConstructor, '(', ')', pos, inset)
		p.doc.AppendChild(id, params)
		for _, child := range p.doc.Children(params) {
			ce := p.doc.Get(child)
			switch ce.Kind {
			case entry.KindAttribute, entry.KindDeclaration:
				if pname, ok := ce.Value.(string); ok && pname != "" {
					p.doc.Declare(id, pname, child)
				}
			}
		}
	}
	ch, pos = p.cur.NextChar(p.pos)
	if ch == '{' {
		p.pos = pos
		body := p.parseBracketed(id, entry.KindStatementBlock, '{', '}', pos, inset)
		p.doc.AppendChild(id, body)
	}
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}
