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

// buildKeyword constructs the entry (and, for statement-shaped keywords,
// its structural children) for a resolved keyword token. Each keyword's
// construction logic lives in one switch case here instead of a separate
// per-keyword type.
func (p *Parser) buildKeyword(container entry.ID, kind entry.Kind, token string, offs, afterToken, inset int) entry.ID {
	switch token {
	case "var", "let", "const":
		return p.buildDeclaration(container, token, offs, afterToken, inset)
	case "extends":
		return p.buildExtends(offs, afterToken, inset)
	case "true":
		p.pos = afterToken
		return p.doc.Add(entry.Entry{Kind: entry.KindBooleanType, Name: token, Value: true, Offs: offs, Pos: afterToken, Inset: inset})
	case "false":
		p.pos = afterToken
		return p.doc.Add(entry.Entry{Kind: entry.KindBooleanType, Name: token, Value: false, Offs: offs, Pos: afterToken, Inset: inset})
	case "if", "while", "switch":
		return p.buildCondition(token, offs, afterToken, inset)
	case "catch":
		if kind == entry.KindCondition {
			return p.buildCondition(token, offs, afterToken, inset)
		}
		return p.buildBodiedStatement(token, offs, afterToken, inset)
	case "else":
		return p.buildElse(offs, afterToken, inset)
	case "for":
		return p.buildFor(offs, afterToken, inset)
	case "do":
		return p.buildDo(offs, afterToken, inset)
	case "try", "finally":
		return p.buildBodiedStatement(token, offs, afterToken, inset)
	case "throw", "return":
		return p.buildOptionalExprStatement(token, offs, afterToken, inset)
	case "case", "default":
		return p.buildCase(offs, afterToken, inset, token)
	case "class":
		return p.buildClass(offs, afterToken, inset)
	case "function":
		return p.buildFunctionKeyword(container, offs, afterToken, inset)
	case "import":
		return p.buildImport(offs, afterToken, inset)
	case "constructor":
		return p.buildCallable(container, entry.KindMethod, "constructor", offs, afterToken, inset)
	default:
		p.pos = afterToken
		return p.doc.Add(entry.Entry{Kind: kind, Name: token, Offs: offs, Pos: afterToken, Inset: inset})
	}
}

// buildDeclaration handles var/let/const: a single Declaration leaf whose
// Name is the keyword and Value is the declared identifier.
func (p *Parser) buildDeclaration(container entry.ID, keyword string, offs, afterToken, inset int) entry.ID {
	ch, pos := p.cur.NextChar(afterToken)
	name := ""
	end := afterToken
	if isIdentStart(ch) {
		name = p.cur.NextToken(pos)
		end = pos + len(name)
	}
	p.pos = end
	id := p.doc.Add(entry.Entry{Kind: entry.KindDeclaration, Name: keyword, Value: name, IsVariable: true, Offs: offs, Pos: end, Inset: inset})
	if name != "" {
		p.doc.Declare(container, name, id)
	}
	return id
}

func (p *Parser) buildExtends(offs, afterToken, inset int) entry.ID {
	ch, pos := p.cur.NextChar(afterToken)
	name := ""
	end := afterToken
	if isIdentStart(ch) {
		name = p.cur.NextToken(pos)
		end = pos + len(name)
	}
	p.pos = end
	return p.doc.Add(entry.Entry{Kind: entry.KindDeclaration, Name: "extends", Value: name, Offs: offs, Pos: end, Inset: inset})
}

// buildCondition handles if/while/switch/catch: a parenthesized head
// Expression followed by either a braced StatementBlock or (for brace-less
// single-statement bodies, e.g. `if (a) return a;`) one dispatched entry.
func (p *Parser) buildCondition(token string, offs, afterToken, inset int) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: entry.KindCondition, Name: token, Offs: offs, Inset: inset})
	ch, pos := p.cur.NextChar(afterToken)
	if ch == '(' {
		p.pos = pos
		head := p.parseBracketed(id, entry.KindExpression, '(', ')', pos, inset+1)
		p.doc.AppendChild(id, head)
		ch, pos = p.cur.NextChar(p.pos)
	}
	p.appendBracedOrSingleBody(id, ch, pos, inset)
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}

// appendBracedOrSingleBody appends a StatementBlock body if ch=='{', a
// single dispatched statement if ch starts one, or nothing if ch is a
// statement terminator/closing delimiter (used by do/while tails).
func (p *Parser) appendBracedOrSingleBody(container entry.ID, ch byte, pos, inset int) {
	switch {
	case ch == '{':
		p.pos = pos
		body := p.parseBracketed(container, entry.KindStatementBlock, '{', '}', pos, inset+1)
		p.doc.AppendChild(container, body)
	case ch == 0 || ch == ';' || ch == '}' || ch == ')':
		// empty body, e.g. the trailing while(cond); of a do-while loop
	default:
		body := p.dispatchEntry(container, entry.NoID, ch, pos, inset+1)
		if body != entry.NoID {
			p.doc.AppendChild(container, body)
		}
	}
}

func (p *Parser) buildElse(offs, afterToken, inset int) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: entry.KindStatement, Name: "else", Offs: offs, Inset: inset})
	ch, pos := p.cur.NextChar(afterToken)
	p.appendBracedOrSingleBody(id, ch, pos, inset)
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}

// buildFor builds a ForCondition container (init;cond;update) whose three
// clauses are parsed generically by packContainer's flat loop, plus the
// loop body.
func (p *Parser) buildFor(offs, afterToken, inset int) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: entry.KindStatement, Name: "for", Offs: offs, Inset: inset})
	ch, pos := p.cur.NextChar(afterToken)
	if ch == '(' {
		p.pos = pos
		fc := p.parseBracketed(id, entry.KindForCondition, '(', ')', pos, inset+1)
		p.doc.AppendChild(id, fc)
		ch, pos = p.cur.NextChar(p.pos)
	}
	p.appendBracedOrSingleBody(id, ch, pos, inset)
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}

// buildDo builds the `do { ... }` half of a do-while loop; the trailing
// `while (cond);` is a separate, subsequent sibling entry in the same
// enclosing container, matching lang.py's KW_do._next.
func (p *Parser) buildDo(offs, afterToken, inset int) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: entry.KindStatement, Name: "do", Offs: offs, Inset: inset})
	ch, pos := p.cur.NextChar(afterToken)
	if ch == '{' {
		p.pos = pos
		body := p.parseBracketed(id, entry.KindStatementBlock, '{', '}', pos, inset+1)
		p.doc.AppendChild(id, body)
	}
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}

func (p *Parser) buildBodiedStatement(token string, offs, afterToken, inset int) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: entry.KindStatement, Name: token, Offs: offs, Inset: inset})
	ch, pos := p.cur.NextChar(afterToken)
	p.appendBracedOrSingleBody(id, ch, pos, inset)
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}

func (p *Parser) buildOptionalExprStatement(token string, offs, afterToken, inset int) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: entry.KindStatement, Name: token, Offs: offs, Inset: inset})
	ch, pos := p.cur.NextChar(afterToken)
	if ch != 0 && ch != ';' && ch != '}' {
		child := p.dispatchEntry(id, entry.NoID, ch, pos, inset+1)
		if child != entry.NoID {
			p.doc.AppendChild(id, child)
		}
	} else {
		p.pos = pos
	}
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}

// buildCase handles `case EXPR:` by reusing the generic container loop to
// parse EXPR up to the terminating ':'.
func (p *Parser) buildCase(offs, afterToken, inset int, token string) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: entry.KindStatement, Name: token, Offs: offs, Inset: inset})
	p.pos = afterToken
	p.packContainer(id, ':')
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}

// buildClass handles `class Name [extends Base] { members }`.
func (p *Parser) buildClass(offs, afterToken, inset int) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: entry.KindClasss, Offs: offs, Inset: inset})
	ch, pos := p.cur.NextChar(afterToken)
	if isIdentStart(ch) {
		name := p.cur.NextToken(pos)
		pos += len(name)
		e := p.doc.Get(id)
		e.Name = name
		p.doc.Set(id, e)
	}
	ch, pos = p.cur.NextChar(pos)
	if isIdentStart(ch) {
		if tok := p.cur.NextToken(pos); tok == "extends" {
			afterExtends := pos + len(tok)
			ext := p.buildExtends(pos, afterExtends, inset+1)
			p.doc.AppendChild(id, ext)
			ch, pos = p.cur.NextChar(p.pos)
		}
	}
	if ch == '{' {
		begin := p.doc.Add(entry.Entry{Kind: entry.KindBegin, Name: "{", Offs: pos, Pos: pos + 1, Inset: inset + 1})
		p.doc.AppendChild(id, begin)
		p.pos = pos + 1
		p.packContainer(id, '}')
	} else {
		p.pos = pos
	}
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}

func (p *Parser) buildFunctionKeyword(container entry.ID, offs, afterToken, inset int) entry.ID {
	ch, pos := p.cur.NextChar(afterToken)
	name := ""
	if isIdentStart(ch) {
		name = p.cur.NextToken(pos)
		pos += len(name)
	}
	p.pos = pos
	return p.buildCallable(container, entry.KindFunction, name, offs, pos, inset)
}

// buildImport handles `import {a, b} from 'module';` and `import x from
// 'module';` as a flat ImportBlock container: an explicit "import" Keyword
// leaf followed by whatever the generic container loop parses up to the
// terminating ';'. The braces of a named-specifier list are classified as
// an ObjectType, the same as an object literal, since the shapes coincide.
func (p *Parser) buildImport(offs, afterToken, inset int) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: entry.KindImportBlock, Name: "import", Offs: offs, Inset: inset})
	kwEntry := p.doc.Add(entry.Entry{Kind: entry.KindKeyword, Name: "import", Offs: offs, Pos: offs + 6, Inset: inset + 1})
	p.doc.AppendChild(id, kwEntry)
	p.pos = afterToken
	p.packContainer(id, ';')
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}

// liftTernary handles a '?' encountered after an already-parsed expression:
// the entry that was about to be appended as the next sibling (last) is
// detached and becomes the condition child of a new TernaryExpression,
// followed by a single dispatched then-expression, an End(":") marker, and
// a single dispatched else-expression (`a ? b : c`, `(a) ? b : c`);
// compound multi-token branches are not lifted further.
func (p *Parser) liftTernary(container, last entry.ID, qpos, inset int) entry.ID {
	offs := qpos
	if last != entry.NoID {
		offs = p.doc.Get(last).Offs
	}
	ternary := p.doc.Add(entry.Entry{Kind: entry.KindTernaryExpression, Name: "?", Offs: offs, Inset: inset})
	if last != entry.NoID {
		p.doc.RemoveEntry(container, last)
		e := p.doc.Get(last)
		e.Parent = ternary
		p.doc.Set(last, e)
		p.doc.AppendChild(ternary, last)
	}

	ch, pos := p.cur.NextChar(p.pos)
	if thenExpr := p.dispatchEntry(ternary, entry.NoID, ch, pos, inset+1); thenExpr != entry.NoID {
		p.doc.AppendChild(ternary, thenExpr)
	}

	ch, pos = p.cur.NextChar(p.pos)
	if ch == ':' {
		p.pos = pos + 1
		end := p.doc.Add(entry.Entry{Kind: entry.KindEnd, Name: ":", Offs: pos, Pos: pos + 1, Inset: inset + 1})
		p.doc.AppendChild(ternary, end)
	}

	ch, pos = p.cur.NextChar(p.pos)
	if elseExpr := p.dispatchEntry(ternary, entry.NoID, ch, pos, inset+1); elseExpr != entry.NoID {
		p.doc.AppendChild(ternary, elseExpr)
	}

	e := p.doc.Get(ternary)
	e.Pos = p.pos
	p.doc.Set(ternary, e)
	return ternary
}

// demoteLambda handles an '=>' encountered after an already-parsed
// variable or parenthesized expression (last): last is removed from its
// container and becomes the parameter list of a new Lambda, whose body is
// a StatementBlock (if `{`) or a single dispatched expression.
func (p *Parser) demoteLambda(container, last entry.ID, arrowPos, inset int) entry.ID {
	offs := arrowPos
	if last != entry.NoID {
		offs = p.doc.Get(last).Offs
		p.doc.RemoveEntry(container, last)
	}
	lambda := p.doc.Add(entry.Entry{Kind: entry.KindLambda, Name: "=>", Offs: offs, Inset: inset})
	if last != entry.NoID {
		e := p.doc.Get(last)
		if e.Kind == entry.KindExpression {
			e.Kind = entry.KindConstructor
		}
		e.Parent = lambda
		p.doc.Set(last, e)
		p.doc.AppendChild(lambda, last)
	}

	ch, pos := p.cur.NextChar(p.pos)
	p.appendBracedOrSingleBody(lambda, ch, pos, inset)

	e := p.doc.Get(lambda)
	e.Pos = p.pos
	p.doc.Set(lambda, e)
	return lambda
}
