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

// Package rules defines the rule ABI a target-language package (jsrules,
// pyrules) implements, and the trie that dispatches a run of consecutive
// entries to the first matching rule.
package rules

import "github.com/jboynton/jsconvert/buffer"

// Rule converts entries at the current buffer cursor into output text. A
// Rule that does not recognize what it finds there must leave the buffer
// untouched and return 0; the trie tries the next candidate. A nonzero
// return is the number of entries (starting at the cursor) the rule
// consumed; the rule itself moves the buffer cursor past them, since
// Dispatch and Format do not advance it on a rule's behalf. t is the rule
// set's own Trie, handed back to the rule so it can recursively format a
// sub-buffer (a container's children, a bracketed sub-expression) with
// the same rule set rather than needing a separate global registry.
type Rule interface {
	// Path names a walk across successive entries, alternating each
	// entry's Kind and Name: []string{"Declaration", "var"} matches one
	// Declaration entry named "var"; []string{"Condition"} matches any
	// Condition entry (Name-agnostic); []string{"End", "ANY",
	// "Condition", "while"} matches an End entry of any Name immediately
	// followed by a Condition entry named "while". "ANY" at any position matches without
	// narrowing. A DefaultRule returns nil.
	Path() []string
	Apply(buf *buffer.Buffer, t *Trie) int
}

// BasicRule is a Rule built from a path and a closure.
type BasicRule struct {
	path []string
	fn   func(buf *buffer.Buffer, t *Trie) int
}

// NewRule constructs a BasicRule. path's components are matched against an
// entry's Kind.String() and Name in order; use "ANY" for a wildcard at a
// given level.
func NewRule(path []string, fn func(buf *buffer.Buffer, t *Trie) int) *BasicRule {
	return &BasicRule{path: path, fn: fn}
}

func (r *BasicRule) Path() []string { return r.path }

func (r *BasicRule) Apply(buf *buffer.Buffer, t *Trie) int { return r.fn(buf, t) }

// DefaultRule is tried only when no trie path matched anything at all,
// mirroring transpiler.py's DefaultRule. A rule set's default is typically
// a verbatim pass-through via buffer.AppendEntry.
type DefaultRule struct {
	fn func(buf *buffer.Buffer, t *Trie) int
}

// NewDefaultRule constructs a DefaultRule.
func NewDefaultRule(fn func(buf *buffer.Buffer, t *Trie) int) *DefaultRule {
	return &DefaultRule{fn: fn}
}

func (r *DefaultRule) Path() []string { return nil }

func (r *DefaultRule) Apply(buf *buffer.Buffer, t *Trie) int { return r.fn(buf, t) }
