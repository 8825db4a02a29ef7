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

// Package transpiler is the public translation API: parse source into an
// entry.Document, then either dump it as a human-readable tree
// (ToDomString) or render it through a rule set's trie (FormatCode), and
// the file-level wrapper (Convert) that ties parsing, formatting, and the
// no-edit marker together for one input file.
package transpiler

import (
	"fmt"
	"os"
	"strings"

	"github.com/jboynton/jsconvert/buffer"
	"github.com/jboynton/jsconvert/entry"
	"github.com/jboynton/jsconvert/parser"
	"github.com/jboynton/jsconvert/rules"
)

// ErrNoEdit is returned by Convert when the source carries a no-edit
// marker comment; callers should treat this as "skip", not a failure.
// It is parser.ErrNoEdit under the hood so errors.Is works across the
// package boundary.
var ErrNoEdit = parser.ErrNoEdit

// ToDomString renders doc as a human-readable tree: one line per entry in
// storage order, indented by (Inset-1) levels, naming the entry's Kind,
// Name (if any), and source span. It never consults a rule set and is
// deterministic for a given Document — calling it twice on the same
// parse produces byte-identical output.
func ToDomString(doc *entry.Document) string {
	var b strings.Builder
	for id := entry.ID(1); id < entry.ID(doc.Len()); id++ {
		e := doc.Get(id)
		inset := e.Inset - 1
		if inset < 0 {
			inset = 0
		}
		b.WriteString(strings.Repeat("    ", inset))
		b.WriteString(e.Kind.String())
		if e.Name != "" {
			b.WriteString(" ")
			b.WriteString(e.Name)
		}
		fmt.Fprintf(&b, " [%d:%d]\n", e.Offs, e.Pos)
	}
	return b.String()
}

// FormatCode renders doc through t's rule set, returning the target
// language source it produces.
func FormatCode(doc *entry.Document, t *rules.Trie) string {
	buf := buffer.New(doc)
	t.Format(buf)
	return buf.Render()
}

// ListRules returns one descriptive line per rule registered in t, in
// trie order: the (Kind, Name) path it matches (or "<default>" for the
// fallback rule) and the Go type implementing it.
func ListRules(t *rules.Trie) []string {
	var out []string
	for _, e := range t.List() {
		path := "<default>"
		if len(e.Path) > 0 {
			path = strings.Join(e.Path, "/")
		}
		out = append(out, fmt.Sprintf("%-40s %T", path, e.Rule))
	}
	return out
}

// Convert reads the JS source at inPath, parses it, and writes the rule
// set t's rendering to outPath. If dom is true, outPath instead receives
// ToDomString's tree dump and t is not consulted. A no-edit marker in the
// source returns ErrNoEdit and writes nothing.
func Convert(inPath, outPath string, t *rules.Trie, dom bool) error {
	src, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", inPath, err)
	}

	doc, err := parser.Parse(string(src), nil)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", inPath, err)
	}

	var out string
	if dom {
		out = ToDomString(doc)
	} else {
		out = FormatCode(doc, t)
	}

	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}
	return nil
}
