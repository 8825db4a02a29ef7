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

// Package jsrules is the built-in identity rule set: it renders an
// entry.Document back out as JavaScript, unchanged in meaning from the
// source it was parsed from. It exists to exercise the rule ABI with the
// simplest possible target language and to give FormatCode a "render back
// to JS" mode for round-trip diagnostics, distinct from pyrules'
// cross-language lowering.
package jsrules

import (
	"strings"

	"github.com/jboynton/jsconvert/buffer"
	"github.com/jboynton/jsconvert/entry"
	"github.com/jboynton/jsconvert/rules"
)

const wild = "ANY"

// New builds the identity rule set's trie.
func New() *rules.Trie {
	return rules.NewTrie([]rules.Rule{
		extenderRule("VariableType", false),
		extenderRule("GlobalType", false),
		extenderRule("NumberType", false),
		extenderRule("BooleanType", false),
		extenderRule("StringType", false),
		extenderRule("FunctionEnd", true),
		extenderRule("ObjectEnd", true),
		extenderRule("ArrayEnd", true),
		extenderRule("ExpressionEnd", true),
		mathRule(),
		operatorRule(),
		compareRule(),
		spacedKeywordRule(),
		rules.NewDefaultRule(func(buf *buffer.Buffer, t *rules.Trie) int {
			buf.AppendEntry(buf.Current())
			buf.Space()
			buf.Next()
			return 1
		}),
	})
}

// extenderRule renders an extendable entry's own text, then either a '.'
// (when it chains into an Extended successor) or a single space. trim
// strips trailing whitespace first, for closing delimiters like `}` and
// `]` that must hug what follows.
func extenderRule(kindName string, trim bool) *rules.BasicRule {
	return rules.NewRule([]string{kindName, wild}, func(buf *buffer.Buffer, t *rules.Trie) int {
		doc := buf.Document()
		id := buf.Current()
		e := doc.Get(id)

		if trim {
			buf.Trim()
		}
		buf.AppendEntry(id)
		if e.Extended != entry.NoID {
			buf.Add(".")
		} else {
			buf.Add(" ")
		}
		buf.SeekPos(buf.Pos() + 1)
		return 1
	})
}

// mathRule renders the built-in `Math` global, following it with a '.'
// only when it chains into a member access rather than standing alone.
func mathRule() *rules.BasicRule {
	return rules.NewRule([]string{"GlobalType", "Math"}, func(buf *buffer.Buffer, t *rules.Trie) int {
		doc := buf.Document()
		id := buf.Current()
		e := doc.Get(id)

		buf.Add(e.Name)
		if e.Extended != entry.NoID {
			buf.Add(".")
		}
		buf.SeekPos(buf.Pos() + 1)
		return 1
	})
}

// operatorRule handles the operator families that need spacing different
// from the generic default: '!' hugs what follows with no leading space,
// and every other operator gets a space on both sides.
func operatorRule() *rules.BasicRule {
	return rules.NewRule([]string{"Operator", wild}, func(buf *buffer.Buffer, t *rules.Trie) int {
		id := buf.Current()
		e := buf.Document().Get(id)

		if e.Name == "!" {
			buf.Trim()
			buf.Add("!")
			buf.SeekPos(buf.Pos() + 1)
			return 1
		}

		buf.Space()
		buf.Add(e.Name)
		buf.Space()
		buf.SeekPos(buf.Pos() + 1)
		return 1
	})
}

// compareRule renders a comparison operator with a single trailing space.
func compareRule() *rules.BasicRule {
	return rules.NewRule([]string{"Compare", wild}, func(buf *buffer.Buffer, t *rules.Trie) int {
		id := buf.Current()
		e := buf.Document().Get(id)
		buf.Add(e.Name + " ")
		buf.SeekPos(buf.Pos() + 1)
		return 1
	})
}

// spacedModifiers names the leaves spacedKeywordRule emits followed by a
// space, mirroring Rule2's name list. The rule is registered on the
// Modifier kind, so a listed name that the keyword registry resolves to
// another kind never reaches it.
var spacedModifiers = map[string]struct{}{
	"do": {}, "case": {}, "try": {}, "default": {}, "export": {},
	"extends": {}, "new": {}, "catch": {}, "finally": {}, "instanceof": {},
}

func spacedKeywordRule() *rules.BasicRule {
	return rules.NewRule([]string{"Modifier", wild}, func(buf *buffer.Buffer, t *rules.Trie) int {
		id := buf.Current()
		e := buf.Document().Get(id)
		if _, ok := spacedModifiers[strings.ToLower(e.Name)]; !ok {
			return 0
		}
		buf.AppendEntry(id)
		buf.Add(" ")
		buf.SeekPos(buf.Pos() + 1)
		return 1
	})
}
