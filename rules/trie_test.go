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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jboynton/jsconvert/buffer"
	"github.com/jboynton/jsconvert/entry"
	"github.com/jboynton/jsconvert/parser"
)

func TestTrieExactKindAndNameWinsOverAny(t *testing.T) {
	var got []string
	ruleList := []Rule{
		NewRule([]string{any}, func(buf *buffer.Buffer, rt *Trie) int {
			got = append(got, "any-kind")
			buf.Next()
			return 1
		}),
		NewRule([]string{"Declaration", any}, func(buf *buffer.Buffer, rt *Trie) int {
			got = append(got, "decl-any-name")
			buf.Next()
			return 1
		}),
		NewRule([]string{"Declaration", "var"}, func(buf *buffer.Buffer, rt *Trie) int {
			got = append(got, "decl-var")
			buf.Next()
			return 1
		}),
	}
	trie := NewTrie(ruleList)

	doc, err := parser.Parse("var x = 1;", nil)
	require.NoError(t, err)
	buf := buffer.New(doc)

	n := trie.Dispatch(buf)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"decl-var"}, got)
}

func TestTrieFallsBackToDefaultRule(t *testing.T) {
	var defaultCalled bool
	ruleList := []Rule{
		NewRule([]string{"Declaration", "let"}, func(buf *buffer.Buffer, rt *Trie) int {
			return 1
		}),
		NewDefaultRule(func(buf *buffer.Buffer, rt *Trie) int {
			defaultCalled = true
			buf.AppendEntry(buf.Current())
			buf.Next()
			return 1
		}),
	}
	trie := NewTrie(ruleList)

	doc, err := parser.Parse("var x = 1;", nil)
	require.NoError(t, err)
	buf := buffer.New(doc)

	n := trie.Dispatch(buf)
	assert.Equal(t, 1, n)
	assert.True(t, defaultCalled)
}

func TestTrieDecliningRuleFallsThrough(t *testing.T) {
	calls := 0
	ruleList := []Rule{
		NewRule([]string{"Declaration", "var"}, func(buf *buffer.Buffer, rt *Trie) int {
			calls++
			return 0 // declines
		}),
		NewRule([]string{"Declaration", any}, func(buf *buffer.Buffer, rt *Trie) int {
			calls++
			buf.Next()
			return 1
		}),
	}
	trie := NewTrie(ruleList)

	doc, err := parser.Parse("var x = 1;", nil)
	require.NoError(t, err)
	buf := buffer.New(doc)

	n := trie.Dispatch(buf)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, calls)
}

// buildTwoLeafDoc constructs a RootEntry with two leaf children so a test
// can control exactly what Sequence() produces, without routing through
// the JS parser.
func buildTwoLeafDoc(k1, n1, k2, n2 string) *entry.Document {
	doc := entry.NewDocument("")
	root := doc.Add(entry.Entry{Kind: entry.KindRootEntry, Inset: -1})
	a := doc.Add(entry.Entry{Kind: kindByName(k1), Name: n1})
	doc.AppendChild(root, a)
	b := doc.Add(entry.Entry{Kind: kindByName(k2), Name: n2})
	doc.AppendChild(root, b)
	return doc
}

func kindByName(name string) entry.Kind {
	for k := entry.Kind(0); k < 64; k++ {
		if k.String() == name {
			return k
		}
	}
	panic("unknown kind: " + name)
}

func TestTrieMatchesAcrossConsecutiveEntries(t *testing.T) {
	var got []string
	ruleList := []Rule{
		NewRule([]string{"End", any, "Condition", "while"}, func(buf *buffer.Buffer, rt *Trie) int {
			got = append(got, "end-while")
			return 2
		}),
		NewRule([]string{"End", any}, func(buf *buffer.Buffer, rt *Trie) int {
			got = append(got, "end-any")
			buf.Next()
			return 1
		}),
	}
	trie := NewTrie(ruleList)

	doc := buildTwoLeafDoc("End", "", "Condition", "while")
	buf := buffer.New(doc)

	n := trie.Dispatch(buf)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"end-while"}, got)
}

func TestTrieShorterPathWinsWhenLongerPathDoesNotMatch(t *testing.T) {
	var got []string
	ruleList := []Rule{
		NewRule([]string{"End", any, "Condition", "if"}, func(buf *buffer.Buffer, rt *Trie) int {
			got = append(got, "end-if")
			return 2
		}),
		NewRule([]string{"End", any}, func(buf *buffer.Buffer, rt *Trie) int {
			got = append(got, "end-any")
			buf.Next()
			return 1
		}),
	}
	trie := NewTrie(ruleList)

	doc := buildTwoLeafDoc("End", "", "Condition", "while")
	buf := buffer.New(doc)

	n := trie.Dispatch(buf)
	assert.Equal(t, 1, n)
	assert.Equal(t, []string{"end-any"}, got)
}

func TestTrieFormatFallsBackWhenNothingMatches(t *testing.T) {
	trie := NewTrie(nil)
	doc, err := parser.Parse("var x = 1;", nil)
	require.NoError(t, err)
	buf := buffer.New(doc)
	trie.Format(buf)
	assert.True(t, buf.AtEnd())
}
