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

package rules

import (
	"sort"

	"github.com/jboynton/jsconvert/buffer"
	"github.com/jboynton/jsconvert/entry"
)

const any = "ANY"

// node is one level of the trie. A path alternates Kind and Name checks on
// successive entries, so depth 0 is keyed by Kind, depth 1 by that entry's
// Name, depth 2 by the next entry's Kind, and so on for however many
// entries a rule's path spans.
type node struct {
	children map[string]*node
	any      *node
	rules    []Rule
}

func newNode() *node {
	return &node{children: make(map[string]*node)}
}

// Trie dispatches an entry at a buffer's cursor to the first rule whose
// registered path matches, built once at rule-set load time from an
// ordered []Rule list — never mutated or re-discovered at runtime.
type Trie struct {
	root    *node
	defRule Rule
}

// NewTrie builds a Trie from rules in registration order. Rules with a nil
// Path() are collected as the fallback default (only the first one found
// is kept; later ones are ignored).
func NewTrie(ruleList []Rule) *Trie {
	t := &Trie{root: newNode()}
	for _, r := range ruleList {
		path := r.Path()
		if len(path) == 0 {
			if t.defRule == nil {
				t.defRule = r
			}
			continue
		}
		t.insert(path, r)
	}
	return t
}

func (t *Trie) insert(path []string, r Rule) {
	n := t.root
	for _, step := range path {
		if step == any {
			if n.any == nil {
				n.any = newNode()
			}
			n = n.any
		} else {
			child, ok := n.children[step]
			if !ok {
				child = newNode()
				n.children[step] = child
			}
			n = child
		}
	}
	n.rules = append(n.rules, r)
}

// Dispatch tries every rule whose path matches the entries at and after
// buf's current cursor position, returning the first nonzero consumed
// count. A path is a walk across *successive* entries in the buffer's flat
// sequence: level 0 matches the current entry's Kind, level 1 matches that
// same entry's Name, level 2 matches the Kind of the entry one position
// further on, and so on, exactly as transpiler.py's RuleBucket/AnyBucket
// descend buffer.entries one CodeEntry at a time. ANY at any level matches
// whatever is there without narrowing it. Matching always recurses toward
// the deepest (longest) registered path before trying rules registered
// higher up at a shorter prefix, and exact children are tried before ANY
// children at each level — this is what lets a path span more than one
// entry, e.g. an End entry immediately followed by a trailing while(cond)
// Condition entry. If nothing in the trie matches, the default rule (if
// any) is tried; otherwise Dispatch returns 0 and the caller falls back to
// a verbatim AppendEntry.
func (t *Trie) Dispatch(buf *buffer.Buffer) int {
	if buf.Current() == entry.NoID {
		return 0
	}
	if n := t.matchAt(t.root, buf, 0); n != 0 {
		return n
	}
	if t.defRule != nil {
		return t.defRule.Apply(buf, t)
	}
	return 0
}

// matchAt tries to continue a path match from n at the given level (an
// even level checks a Kind, the following odd level checks that same
// entry's Name, then level+1 moves on to the next entry), recursing into
// deeper nodes before falling back to rules registered at n itself.
func (t *Trie) matchAt(n *node, buf *buffer.Buffer, level int) int {
	id := buf.Peek(level / 2)
	if id != entry.NoID {
		e := buf.Document().Get(id)
		key := e.Kind.String()
		if level%2 == 1 {
			key = e.Name
		}

		var next []*node
		if c, ok := n.children[key]; ok {
			next = append(next, c)
		}
		if n.any != nil {
			next = append(next, n.any)
		}
		for _, c := range next {
			if r := t.matchAt(c, buf, level+1); r != 0 {
				return r
			}
		}
	}
	return t.tryRules(n, buf)
}

func (t *Trie) tryRules(n *node, buf *buffer.Buffer) int {
	for _, r := range n.rules {
		if c := r.Apply(buf, t); c != 0 {
			return c
		}
	}
	return 0
}

// Entry pairs a registered rule with the path it was registered under, for
// introspection (the `-list-rules` CLI flag).
type Entry struct {
	Path []string
	Rule Rule
}

// List walks the whole trie and returns every registered rule alongside
// the path it was inserted under, in a stable (path) order. The default
// rule, if any, is included with a nil Path.
func (t *Trie) List() []Entry {
	var out []Entry
	var walk func(n *node, path []string)
	walk = func(n *node, path []string) {
		for _, r := range n.rules {
			out = append(out, Entry{Path: append([]string(nil), path...), Rule: r})
		}
		keys := make([]string, 0, len(n.children))
		for k := range n.children {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(n.children[k], append(path, k))
		}
		if n.any != nil {
			walk(n.any, append(path, any))
		}
	}
	walk(t.root, nil)
	if t.defRule != nil {
		out = append(out, Entry{Path: nil, Rule: t.defRule})
	}
	return out
}

// Format drives buf's cursor to the end of its sequence, dispatching each
// entry through the trie and falling back to a verbatim AppendEntry when
// nothing (including any default rule) claims it — guaranteeing forward
// progress on every iteration.
func (t *Trie) Format(buf *buffer.Buffer) {
	for !buf.AtEnd() {
		before := buf.Pos()
		if n := t.Dispatch(buf); n == 0 {
			buf.AppendEntry(buf.Current())
			buf.Next()
		}
		if buf.Pos() <= before {
			buf.Next() // guarantee progress even if a rule misbehaved
		}
	}
}
