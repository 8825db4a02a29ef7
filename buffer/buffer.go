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

// Package buffer implements the mutable emission buffer that rules write
// into while walking an entry.Document's flat, source-ordered sequence: a
// token list plus indentation bookkeeping, with sub-buffers that share a
// single heading/import registry across a whole conversion.
package buffer

import (
	"strings"

	"github.com/jboynton/jsconvert/entry"
	"github.com/jboynton/jsconvert/parser"
)

// HeadingBuffer accumulates text emitted before the main body — a module
// docstring or coding-declaration line — shared by a root Buffer and every
// sub-buffer spawned from it.
type HeadingBuffer struct {
	lines []string
}

// Add appends one heading line.
func (h *HeadingBuffer) Add(line string) { h.lines = append(h.lines, line) }

// Render joins the accumulated heading lines, one per line.
func (h *HeadingBuffer) Render() string {
	if len(h.lines) == 0 {
		return ""
	}
	return strings.Join(h.lines, "\n") + "\n"
}

// ImportMap deduplicates and orders `from module import name` statements
// accumulated by InsertImportStatement across an entire conversion,
// regardless of which sub-buffer requested them.
type ImportMap struct {
	order   []string
	names   map[string][]string
	seen    map[string]map[string]struct{}
	plain   []string
	plainOK map[string]struct{}
}

func newImportMap() *ImportMap {
	return &ImportMap{
		names:   make(map[string][]string),
		seen:    make(map[string]map[string]struct{}),
		plainOK: make(map[string]struct{}),
	}
}

// Add registers that `name` must be imported from `module`. Calling it
// repeatedly with the same pair is a no-op after the first.
func (m *ImportMap) Add(module, name string) {
	if _, ok := m.seen[module]; !ok {
		m.seen[module] = make(map[string]struct{})
		m.order = append(m.order, module)
	}
	if _, ok := m.seen[module][name]; ok {
		return
	}
	m.seen[module][name] = struct{}{}
	m.names[module] = append(m.names[module], name)
}

// AddModule registers a bare `import module` statement.
func (m *ImportMap) AddModule(module string) {
	if _, ok := m.plainOK[module]; ok {
		return
	}
	m.plainOK[module] = struct{}{}
	m.plain = append(m.plain, module)
}

// Render produces the import statement lines: every bare `import module`
// line first, then the `from module import ...` lines, each group in
// first-use order.
func (m *ImportMap) Render() []string {
	var lines []string
	for _, module := range m.plain {
		lines = append(lines, "import "+module)
	}
	for _, module := range m.order {
		names := m.names[module]
		lines = append(lines, "from "+module+" import "+strings.Join(names, ", "))
	}
	return lines
}

// Buffer is the mutable token stream a rule set writes Python source into.
// A root Buffer owns a document's whole Sequence(); sub-buffers (from
// GetSubBuffer) walk a narrower slice of entry ids but share the same
// heading and import registry so that helper injection from deep inside a
// nested expression still surfaces its imports at the top of the file.
type Buffer struct {
	doc *entry.Document
	seq []entry.ID
	pos int

	tokens []string
	indent int

	heading     *HeadingBuffer
	imports     *ImportMap
	headerAt    int
	headerTaken bool
}

// New creates a root Buffer over doc's full, extension-aware sequence.
func New(doc *entry.Document) *Buffer {
	return &Buffer{
		doc:     doc,
		seq:     doc.Sequence(),
		heading: &HeadingBuffer{},
		imports: newImportMap(),
	}
}

// Document returns the buffer's backing document.
func (b *Buffer) Document() *entry.Document { return b.doc }

// Len returns the number of entries in this buffer's sequence.
func (b *Buffer) Len() int { return len(b.seq) }

// Pos returns the current cursor position into the sequence.
func (b *Buffer) Pos() int { return b.pos }

// SeekPos moves the cursor to an absolute position.
func (b *Buffer) SeekPos(pos int) { b.pos = pos }

// Peek returns the entry id at pos+offset without moving the cursor, or
// entry.NoID if out of range.
func (b *Buffer) Peek(offset int) entry.ID {
	i := b.pos + offset
	if i < 0 || i >= len(b.seq) {
		return entry.NoID
	}
	return b.seq[i]
}

// Current returns the entry id at the cursor, or entry.NoID at end.
func (b *Buffer) Current() entry.ID { return b.Peek(0) }

// Next advances the cursor by one and returns the new current entry id.
func (b *Buffer) Next() entry.ID {
	b.pos++
	return b.Current()
}

// Prev moves the cursor back by one and returns the new current entry id.
func (b *Buffer) Prev() entry.ID {
	b.pos--
	return b.Current()
}

// AtEnd reports whether the cursor has consumed the whole sequence.
func (b *Buffer) AtEnd() bool { return b.pos >= len(b.seq) }

// GetSlice returns the sub-range [from,to) of the buffer's sequence.
func (b *Buffer) GetSlice(from, to int) []entry.ID {
	if from < 0 {
		from = 0
	}
	if to > len(b.seq) {
		to = len(b.seq)
	}
	if from >= to {
		return nil
	}
	return append([]entry.ID(nil), b.seq[from:to]...)
}

// GetSubBuffer returns a new Buffer walking exactly ids, sharing this
// buffer's document, heading, and import registry — the Go analogue of the
// original's sub-buffers that "share heading, import_map" with their root.
func (b *Buffer) GetSubBuffer(ids []entry.ID) *Buffer {
	return &Buffer{
		doc:     b.doc,
		seq:     ids,
		heading: b.heading,
		imports: b.imports,
		indent:  b.indent,
	}
}

// Add appends literal text to the output verbatim.
func (b *Buffer) Add(text string) {
	if text == "" {
		return
	}
	b.tokens = append(b.tokens, text)
}

// Space appends a single space, unless the buffer is empty or already ends
// in whitespace.
func (b *Buffer) Space() {
	if len(b.tokens) == 0 {
		return
	}
	last := b.tokens[len(b.tokens)-1]
	if last == "" || strings.HasSuffix(last, " ") || strings.HasSuffix(last, "\n") {
		return
	}
	b.tokens = append(b.tokens, " ")
}

// Trim removes trailing whitespace (not newlines) from the most recently
// emitted text.
func (b *Buffer) Trim() {
	for len(b.tokens) > 0 {
		last := b.tokens[len(b.tokens)-1]
		trimmed := strings.TrimRight(last, " \t")
		if trimmed == last {
			return
		}
		if trimmed == "" {
			b.tokens = b.tokens[:len(b.tokens)-1]
			continue
		}
		b.tokens[len(b.tokens)-1] = trimmed
		return
	}
}

// Indent changes the current indentation level by delta (each level is
// four spaces in NewLine's output); negative values dedent. It never goes below zero.
func (b *Buffer) Indent(delta int) {
	b.indent += delta
	if b.indent < 0 {
		b.indent = 0
	}
}

// IndentLevel returns the current indent depth.
func (b *Buffer) IndentLevel() int { return b.indent }

// NewLine starts a new output line at the current indent level.
func (b *Buffer) NewLine() {
	b.Trim()
	b.tokens = append(b.tokens, "\n"+strings.Repeat("    ", b.indent))
}

// AppendEntry emits the verbatim text of a leaf entry — the fallback used
// when no rule claims an entry, matching DefaultRule's pass-through
// behavior.
func (b *Buffer) AppendEntry(id entry.ID) {
	if id == entry.NoID {
		return
	}
	e := b.doc.Get(id)
	if e.Kind == entry.KindStringType {
		text, _ := e.Value.(string)
		b.Add("\"" + strings.ReplaceAll(text, "\"", "\\\"") + "\"")
		return
	}
	if v, ok := e.Value.(string); ok && v != "" && (e.Kind == entry.KindDeclaration || e.Kind == entry.KindAttribute) {
		// The declared name lives in Value; Name is the keyword, if any.
		b.Add(strings.TrimSpace(e.Name + " " + v))
		return
	}
	b.Add(e.Name)
}

// AppendBuffer splices another buffer's emitted tokens onto the end of
// this one's, e.g. after recursively formatting a sub-buffer.
func (b *Buffer) AppendBuffer(other *Buffer) {
	b.tokens = append(b.tokens, other.tokens...)
}

// InsertCode appends raw, already-formatted Python text verbatim — for
// literal fragments a rule wants to emit without re-parsing.
func (b *Buffer) InsertCode(code string) { b.Add(code) }

// InsertPrefix writes name, rewritten through altmap if name has an entry
// there (e.g. "this" -> "self"), otherwise written unchanged.
func (b *Buffer) InsertPrefix(name string, altmap map[string]string) {
	if alt, ok := altmap[name]; ok {
		b.Add(alt)
		return
	}
	b.Add(name)
}

// InsertFunction parses a helper snippet of JS source with the same
// recursive-descent parser used for whole files, then hands the resulting
// ephemeral Document to format (supplied by the caller, typically
// transpiler.FormatCode bound to the active rule set, since buffer cannot
// import rules without creating an import cycle) and emits the result
// verbatim.
func (b *Buffer) InsertFunction(src string, format func(*entry.Document) string) error {
	doc, err := parser.Parse(src, nil)
	if err != nil {
		return err
	}
	b.Add(format(doc))
	return nil
}

// InsertImportStatement registers `from module import name` to be rendered
// at MarkHeaderOffset/Render time, deduplicated across the whole document.
func (b *Buffer) InsertImportStatement(module, name string) {
	b.imports.Add(module, name)
}

// InsertModuleImport registers a bare `import module` statement.
func (b *Buffer) InsertModuleImport(module string) {
	b.imports.AddModule(module)
}

// Heading returns the buffer's shared heading accumulator.
func (b *Buffer) Heading() *HeadingBuffer { return b.heading }

// MarkHeaderOffset records the current output length as the point where
// accumulated imports should be spliced in once emission finishes.
func (b *Buffer) MarkHeaderOffset() {
	if b.headerTaken {
		return
	}
	b.headerAt = len(b.tokens)
	b.headerTaken = true
}

// Render produces the final Python source: heading, then any imports
// spliced at the marked header offset (or at the very top if none was
// marked), then the emitted body.
func (b *Buffer) Render() string {
	imports := b.imports.Render()
	var out strings.Builder
	out.WriteString(b.heading.Render())

	at := b.headerAt
	if !b.headerTaken {
		at = 0
	}
	for i, tok := range b.tokens {
		if i == at && len(imports) > 0 {
			for _, line := range imports {
				out.WriteString(line)
				out.WriteString("\n")
			}
			if at > 0 {
				out.WriteString("\n")
			}
		}
		out.WriteString(tok)
	}
	if at >= len(b.tokens) && len(imports) > 0 {
		for _, line := range imports {
			out.WriteString(line)
			out.WriteString("\n")
		}
	}
	return out.String()
}
