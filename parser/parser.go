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

// Package parser builds the flat entry sequence (package entry) from ES6
// source text: a recursive-descent walk driven by a per-container "pack"
// loop that dispatches on the next printable character, using Go switch
// statements on that character (dispatchEntry) and on the resolved keyword
// kind (buildKeyword) instead of per-kind virtual methods.
package parser

import (
	"errors"
	"strings"

	"github.com/jboynton/jsconvert/cursor"
	"github.com/jboynton/jsconvert/entry"
)

// ErrNoEdit is returned by Parse when the document's first entry is a
// comment whose trimmed body is exactly "no-edit"; conversion must be
// skipped for that file, not treated as a failure.
var ErrNoEdit = errors.New("jsconvert: source carries a no-edit marker")

// Parser walks source text and appends entries to a Document. It is
// single-use: construct one per document via Parse.
type Parser struct {
	doc *entry.Document
	cur cursor.Cursor
	kw  *Keywords
	pos int
}

// Parse builds the flat entry sequence for source using the given keyword
// registry (nil selects DefaultKeywords). Malformed source is swallowed:
// the returned Document holds whatever was built before the failure, and
// err is nil unless the no-edit marker is present.
func Parse(source string, kw *Keywords) (*entry.Document, error) {
	if kw == nil {
		kw = DefaultKeywords()
	}
	doc := entry.NewDocument(source)
	root := doc.Add(entry.Entry{Kind: entry.KindRootEntry, Inset: -1})
	p := &Parser{doc: doc, cur: cursor.New(source), kw: kw}

	func() {
		defer func() { _ = recover() }() // parse errors are swallowed, partial tree kept
		p.packContainer(root, 0)
	}()

	if children := doc.Children(root); len(children) > 0 {
		first := doc.Get(children[0])
		if first.Kind == entry.KindComment && strings.TrimSpace(first.Name) == "no-edit" {
			return doc, ErrNoEdit
		}
	}
	return doc, nil
}

func fail(format string) { panic(errors.New(format)) }

// packContainer reads entries into container until stopCh is consumed (0
// means read to end of input, used for the root and for a function/class
// body parsed standalone). It owns the only mutable mid-loop state: the
// last entry appended, needed for extension ('.') and the '-'-vs-negative
// number disambiguation.
func (p *Parser) packContainer(container entry.ID, stopCh byte) {
	inset := p.doc.Get(container).Inset + 1
	last := entry.NoID
	for {
		ch, pos := p.cur.NextChar(p.pos)
		if ch == 0 {
			p.pos = pos
			return
		}
		if stopCh != 0 && ch == stopCh {
			p.pos = pos + 1
			p.appendEnd(container, ch, pos, inset)
			return
		}
		switch ch {
		case ';', ',':
			p.pos = pos + 1
			sep := p.doc.Add(entry.Entry{Kind: entry.KindSeparator, Name: string(ch), Offs: pos, Pos: pos + 1, Inset: inset})
			p.doc.AppendChild(container, sep)
			last = entry.NoID
			continue
		case '.':
			if last != entry.NoID && p.doc.Get(last).Kind.IsExtendable() {
				p.pos = pos + 1
				if next := p.packExtension(container, last, inset); next != entry.NoID {
					last = next
				}
				continue
			}
		}
		child := p.dispatchEntry(container, last, ch, pos, inset)
		if child == entry.NoID {
			// Nothing recognized at pos; advance one byte to guarantee
			// forward progress rather than looping (best-effort parser).
			if p.pos <= pos {
				p.pos = pos + 1
			}
			continue
		}
		p.doc.AppendChild(container, child)
		last = child
	}
}

// appendEnd creates the closing delimiter entry for container, choosing
// the Extendable End subtype when the container kind allows `foo().bar`
// style chaining after it.
func (p *Parser) appendEnd(container entry.ID, ch byte, pos, inset int) {
	kind := entry.KindEnd
	switch p.doc.Get(container).Kind {
	case entry.KindExpression:
		kind = entry.KindExpressionEnd
	case entry.KindObjectType:
		kind = entry.KindObjectEnd
	case entry.KindArrayType:
		kind = entry.KindArrayEnd
	case entry.KindConstructor, entry.KindLambda:
		kind = entry.KindFunctionEnd
	}
	end := p.doc.Add(entry.Entry{Kind: kind, Name: string(ch), Offs: pos, Pos: pos + 1, Inset: inset})
	p.doc.AppendChild(container, end)
}

// packExtension consumes the entry immediately following a '.' and wires
// it as head's Extended successor rather than as a direct child of
// container — see entry.Document.Sequence. It returns the new successor
// (entry.NoID if none was built) so that a further '.' extends it in turn.
func (p *Parser) packExtension(container, head entry.ID, inset int) entry.ID {
	ch, pos := p.cur.NextChar(p.pos)
	if ch == 0 {
		return entry.NoID
	}
	next := p.dispatchEntry(container, entry.NoID, ch, pos, inset)
	if next == entry.NoID {
		return entry.NoID
	}
	e := p.doc.Get(head)
	e.Extended = next
	p.doc.Set(head, e)
	n := p.doc.Get(next)
	n.Parent = head
	p.doc.Set(next, n)
	return next
}

// dispatchEntry dispatches on the character at pos to build exactly one
// entry there (and, for containers, fully packs it), leaving p.pos just
// past it. Returns entry.NoID if pos is unrecognized.
func (p *Parser) dispatchEntry(container, last entry.ID, ch byte, pos, inset int) entry.ID {
	parentKind := p.doc.Get(container).Kind

	switch {
	case ch == '\'' || ch == '"' || ch == '`':
		return p.parseStringLiteral(ch, pos, inset)

	case ch == '{':
		if parentKind == entry.KindExpression || parentKind == entry.KindImportBlock ||
			(last != entry.NoID && p.doc.Get(last).Kind == entry.KindAssignment) {
			return p.parseBracketed(container, entry.KindObjectType, '{', '}', pos, inset)
		}
		return p.parseBracketed(container, entry.KindStatementBlock, '{', '}', pos, inset)

	case ch == '(':
		return p.parseBracketed(container, entry.KindExpression, '(', ')', pos, inset)

	case ch == '[':
		return p.parseBracketed(container, entry.KindArrayType, '[', ']', pos, inset)

	case ch == '?':
		p.pos = pos + 1
		return p.liftTernary(container, last, pos, inset)

	case isDigit(ch) || (ch == '-' && last != entry.NoID && !p.doc.Get(last).Kind.IsExtendable() && p.afterIsDigit(pos)):
		return p.parseNumber(pos, inset)

	case strings.IndexByte(cursor.Operators, ch) >= 0:
		return p.parseOperator(container, last, pos, inset)

	case ch == ':':
		p.pos = pos + 1
		return p.doc.Add(entry.Entry{Kind: entry.KindSeparator, Name: ":", Offs: pos, Pos: pos + 1, Inset: inset})

	case ch == ')' || ch == '}' || ch == ']':
		// A close-delimiter reached without the matching open (malformed
		// or already consumed by our caller's stopCh check) terminates
		// this container's packing rather than looping forever.
		fail("unexpected close delimiter")
		return entry.NoID

	case ch == '@':
		return p.parseAnnotation(pos, inset)

	case isIdentStart(ch):
		return p.parseIdentifier(container, pos, inset)

	default:
		p.pos = pos + 1
		return p.doc.Add(entry.Entry{Kind: entry.KindCode, Name: string(ch), Offs: pos, Pos: pos + 1, Inset: inset})
	}
}

func (p *Parser) afterIsDigit(pos int) bool {
	return pos+1 < len(p.cur.Source) && isDigit(p.cur.Source[pos+1])
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func isIdentStart(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool { return isIdentStart(b) || isDigit(b) }

func (p *Parser) parseStringLiteral(quote byte, pos, inset int) entry.ID {
	i := pos + 1
	for i < len(p.cur.Source) {
		if p.cur.Source[i] == quote && !p.cur.IsEscaped(i) {
			i++
			break
		}
		i++
	}
	val := p.cur.Source[pos+1 : min(i-1, len(p.cur.Source))]
	p.pos = i
	return p.doc.Add(entry.Entry{Kind: entry.KindStringType, Name: string(quote), Value: val, Offs: pos, Pos: i, Inset: inset})
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// parseBracketed creates a new container entry at pos with kind k, packs
// a leading Begin, recursively packs its body up to close, and appends
// the matching End. The container is NOT appended to its parent here —
// the caller does that, after dispatchEntry returns — except when it is
// itself the direct target of an extension (handled by packExtension the
// same way).
func (p *Parser) parseBracketed(_ entry.ID, k entry.Kind, open, close byte, pos, parentInset int) entry.ID {
	id := p.doc.Add(entry.Entry{Kind: k, Name: string(open), Offs: pos, Inset: parentInset})
	begin := p.doc.Add(entry.Entry{Kind: entry.KindBegin, Name: string(open), Offs: pos, Pos: pos + 1, Inset: parentInset + 1})
	p.doc.AppendChild(id, begin)
	p.pos = pos + 1
	p.packContainer(id, close)
	e := p.doc.Get(id)
	e.Pos = p.pos
	p.doc.Set(id, e)
	return id
}

func (p *Parser) parseNumber(pos, inset int) entry.ID {
	i := pos
	if p.cur.Source[i] == '-' {
		i++
	}
	sawDot := false
	for i < len(p.cur.Source) {
		c := p.cur.Source[i]
		if isDigit(c) {
			i++
			continue
		}
		if c == '.' && !sawDot && i+1 < len(p.cur.Source) && isDigit(p.cur.Source[i+1]) {
			sawDot = true
			i++
			continue
		}
		break
	}
	text := p.cur.Source[pos:i]
	p.pos = i
	return p.doc.Add(entry.Entry{Kind: entry.KindNumberType, Name: text, Value: text, Offs: pos, Pos: i, Inset: inset})
}

func (p *Parser) parseAnnotation(pos, inset int) entry.ID {
	i := pos + 1
	for i < len(p.cur.Source) && p.cur.Source[i] > ' ' {
		i++
	}
	text := p.cur.Source[pos:i]
	p.pos = i
	return p.doc.Add(entry.Entry{Kind: entry.KindAnnotation, Name: text, Offs: pos, Pos: i, Inset: inset})
}

// parseOperator reads the greedy operator run at pos and classifies it as
// a comparison, assignment, increment, or plain operator entry.
func (p *Parser) parseOperator(container, last entry.ID, pos, inset int) entry.ID {
	op := p.cur.NextOp(pos)
	end := pos + len(op)

	switch {
	case op == "=>":
		p.pos = end
		return p.demoteLambda(container, last, pos, inset)

	case op == "#*":
		i := strings.Index(p.cur.Source[pos:], "*/")
		var text string
		if i < 0 {
			text = p.cur.Source[pos:]
			p.pos = len(p.cur.Source)
		} else {
			text = p.cur.Source[pos : pos+i+2]
			p.pos = pos + i + 2
		}
		return p.doc.Add(entry.Entry{Kind: entry.KindComment, Name: strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")), Offs: pos, Pos: p.pos, Inset: inset})

	case op == "##":
		nl := strings.IndexByte(p.cur.Source[pos:], '\n')
		var text string
		if nl < 0 {
			text = p.cur.Source[pos:]
			p.pos = len(p.cur.Source)
		} else {
			text = p.cur.Source[pos : pos+nl]
			p.pos = pos + nl
		}
		return p.doc.Add(entry.Entry{Kind: entry.KindComment, Name: strings.TrimSpace(strings.TrimPrefix(text, "//")), Offs: pos, Pos: p.pos, Inset: inset})

	case isCompare(op):
		p.pos = end
		return p.doc.Add(entry.Entry{Kind: entry.KindCompare, Name: op, Offs: pos, Pos: end, Inset: inset})

	case op == "++" || op == "--":
		p.pos = end
		return p.doc.Add(entry.Entry{Kind: entry.KindIncrement, Name: op, Offs: pos, Pos: end, Inset: inset})

	case strings.HasSuffix(op, "=") && !isCompare(op) && op != "=":
		p.pos = end
		return p.doc.Add(entry.Entry{Kind: entry.KindAssignment, Name: op, Offs: pos, Pos: end, Inset: inset})

	case op == "=":
		p.pos = end
		return p.doc.Add(entry.Entry{Kind: entry.KindAssignment, Name: op, Offs: pos, Pos: end, Inset: inset})

	case op == "/" && (len(p.doc.Children(container)) == 0 ||
		(last != entry.NoID && p.doc.Get(last).Kind == entry.KindAssignment)):
		return p.parseRegex(pos, inset)

	default:
		p.pos = end
		return p.doc.Add(entry.Entry{Kind: entry.KindOperator, Name: op, Offs: pos, Pos: end, Inset: inset})
	}
}

func isCompare(op string) bool {
	_, ok := cursor.Compares[op]
	return ok
}

func (p *Parser) parseRegex(pos, inset int) entry.ID {
	i := pos + 1
	for i < len(p.cur.Source) && !(p.cur.Source[i] == '/' && !p.cur.IsEscaped(i)) {
		i++
	}
	if i < len(p.cur.Source) {
		i++ // closing '/'
	}
	for i < len(p.cur.Source) && isIdentPart(p.cur.Source[i]) {
		i++ // trailing flags
	}
	text := p.cur.Source[pos:i]
	p.pos = i
	return p.doc.Add(entry.Entry{Kind: entry.KindRegExpression, Name: text, Offs: pos, Pos: i, Inset: inset})
}
