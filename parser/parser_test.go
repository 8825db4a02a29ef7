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

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jboynton/jsconvert/entry"
)

func kindsOf(doc *entry.Document, ids []entry.ID) []entry.Kind {
	out := make([]entry.Kind, len(ids))
	for i, id := range ids {
		out[i] = doc.Get(id).Kind
	}
	return out
}

func TestParseVarDeclaration(t *testing.T) {
	doc, err := Parse("var x = 1;", nil)
	require.NoError(t, err)

	children := doc.Children(entry.RootID)
	require.GreaterOrEqual(t, len(children), 3)

	decl := doc.Get(children[0])
	assert.Equal(t, entry.KindDeclaration, decl.Kind)
	assert.Equal(t, "var", decl.Name)
	assert.Equal(t, "x", decl.Value)

	assert.Equal(t, entry.KindAssignment, doc.Get(children[1]).Kind)
	assert.Equal(t, entry.KindNumberType, doc.Get(children[2]).Kind)
}

func TestParseNoEditMarker(t *testing.T) {
	_, err := Parse("// no-edit\nvar x = 1;", nil)
	assert.ErrorIs(t, err, ErrNoEdit)
}

func TestParseIfElse(t *testing.T) {
	doc, err := Parse(`if (a) { b(); } else { c(); }`, nil)
	require.NoError(t, err)

	children := doc.Children(entry.RootID)
	require.Len(t, children, 2)

	ifCond := doc.Get(children[0])
	assert.Equal(t, entry.KindCondition, ifCond.Kind)
	assert.Equal(t, "if", ifCond.Name)

	elseStmt := doc.Get(children[1])
	assert.Equal(t, entry.KindStatement, elseStmt.Kind)
	assert.Equal(t, "else", elseStmt.Name)
}

func TestParseRegexVsDivision(t *testing.T) {
	doc, err := Parse(`var r = /abc/g;`, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	var foundRegex bool
	for _, id := range children {
		if doc.Get(id).Kind == entry.KindRegExpression {
			foundRegex = true
		}
	}
	assert.True(t, foundRegex, "expected a RegExpression entry for /abc/g")

	doc2, err := Parse(`var q = a / b;`, nil)
	require.NoError(t, err)
	var foundOperator bool
	for _, id := range doc2.Children(entry.RootID) {
		if doc2.Get(id).Kind == entry.KindOperator && doc2.Get(id).Name == "/" {
			foundOperator = true
		}
	}
	assert.True(t, foundOperator, "expected a plain '/' Operator entry for division")
}

func TestParseObjectVsBlock(t *testing.T) {
	doc, err := Parse(`var o = { a: 1 };`, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	// children[2] is the object literal value of the assignment.
	require.GreaterOrEqual(t, len(children), 3)
	assert.Equal(t, entry.KindObjectType, doc.Get(children[2]).Kind)

	doc2, err := Parse(`if (a) { b(); }`, nil)
	require.NoError(t, err)
	condID := doc2.Children(entry.RootID)[0]
	parts := doc2.Children(condID)
	require.Len(t, parts, 2) // head Expression, body StatementBlock
	assert.Equal(t, entry.KindStatementBlock, doc2.Get(parts[1]).Kind)
}

func TestParseTernaryLifting(t *testing.T) {
	doc, err := Parse(`var x = a ? b : c;`, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	require.GreaterOrEqual(t, len(children), 3)
	ternary := doc.Get(children[2])
	assert.Equal(t, entry.KindTernaryExpression, ternary.Kind)

	parts := doc.Children(children[2])
	kinds := kindsOf(doc, parts)
	require.GreaterOrEqual(t, len(kinds), 3)
	assert.Equal(t, entry.KindGlobalType, kinds[0]) // condition "a"
}

func TestParseTernaryLiftingParenthesized(t *testing.T) {
	doc, err := Parse(`var x = (a) ? b : c;`, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	ternary := doc.Get(children[2])
	assert.Equal(t, entry.KindTernaryExpression, ternary.Kind)
	parts := doc.Children(children[2])
	require.NotEmpty(t, parts)
	assert.Equal(t, entry.KindExpression, doc.Get(parts[0]).Kind)
}

func TestParseLambdaDemotion(t *testing.T) {
	doc, err := Parse(`var f = x => x + 1;`, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	lambda := doc.Get(children[2])
	assert.Equal(t, entry.KindLambda, lambda.Kind)

	doc2, err := Parse(`var g = (a, b) => { return a + b; };`, nil)
	require.NoError(t, err)
	c2 := doc2.Children(entry.RootID)
	lambda2 := doc2.Get(c2[2])
	assert.Equal(t, entry.KindLambda, lambda2.Kind)
	params := doc2.Children(c2[2])
	require.NotEmpty(t, params)
	assert.Equal(t, entry.KindConstructor, doc2.Get(params[0]).Kind)
}

func TestParseExtensionChain(t *testing.T) {
	doc, err := Parse(`a.b.c();`, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	require.NotEmpty(t, children)
	head := doc.Get(children[0])
	assert.Equal(t, entry.KindGlobalType, head.Kind)
	require.NotEqual(t, entry.NoID, head.Extended)

	mid := doc.Get(head.Extended)
	assert.Equal(t, "b", mid.Name)
	require.NotEqual(t, entry.NoID, mid.Extended)

	tail := doc.Get(mid.Extended)
	assert.Equal(t, entry.KindFunction, tail.Kind)

	// The extended entries must not also appear as direct children of the
	// root, to keep a single path to each node.
	for _, id := range children {
		assert.NotEqual(t, head.Extended, id)
		assert.NotEqual(t, mid.Extended, id)
	}
}

func TestParseForLoop(t *testing.T) {
	doc, err := Parse(`for (let i = 0; i < n; i++) { sum += i; }`, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	require.Len(t, children, 1)
	forStmt := doc.Get(children[0])
	assert.Equal(t, entry.KindStatement, forStmt.Kind)
	assert.Equal(t, "for", forStmt.Name)

	parts := doc.Children(children[0])
	require.Len(t, parts, 2)
	assert.Equal(t, entry.KindForCondition, doc.Get(parts[0]).Kind)
	assert.Equal(t, entry.KindStatementBlock, doc.Get(parts[1]).Kind)
}

func TestParseClassWithExtendsAndConstructor(t *testing.T) {
	src := `class Dog extends Animal {
  constructor(name) {
    super(name);
  }
  bark() {
    return this.name;
  }
}`
	doc, err := Parse(src, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	require.Len(t, children, 1)
	cls := doc.Get(children[0])
	assert.Equal(t, entry.KindClasss, cls.Kind)
	assert.Equal(t, "Dog", cls.Name)

	members := doc.Children(children[0])
	require.GreaterOrEqual(t, len(members), 3) // extends, Begin, constructor, bark...
	extendsEntry := doc.Get(members[0])
	assert.Equal(t, entry.KindDeclaration, extendsEntry.Kind)
	assert.Equal(t, "extends", extendsEntry.Name)
	assert.Equal(t, "Animal", extendsEntry.Value)
}

func TestParseFunctionDeclarationAndParamScope(t *testing.T) {
	doc, err := Parse(`function add(a, b) { return a + b; }`, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	require.Len(t, children, 1)
	fn := doc.Get(children[0])
	assert.Equal(t, entry.KindFunction, fn.Kind)
	assert.Equal(t, "add", fn.Name)

	parts := doc.Children(children[0])
	require.Len(t, parts, 2)
	body := parts[1]
	bodyChildren := doc.Children(body)
	require.GreaterOrEqual(t, len(bodyChildren), 2)
	assert.Equal(t, entry.KindBegin, doc.Get(bodyChildren[0]).Kind)
	returnStmt := doc.Get(bodyChildren[1])
	assert.Equal(t, entry.KindStatement, returnStmt.Kind)
	assert.Equal(t, "return", returnStmt.Name)

	for _, param := range []string{"a", "b"} {
		_, declared := doc.Resolve(body, param)
		assert.True(t, declared, "parameter %q should be in scope inside the body", param)
	}
}

func TestParseSwitchCase(t *testing.T) {
	src := `switch (x) {
  case 1:
    y();
    break;
  default:
    z();
}`
	doc, err := Parse(src, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	require.Len(t, children, 1)
	sw := doc.Get(children[0])
	assert.Equal(t, entry.KindCondition, sw.Kind)
	assert.Equal(t, "switch", sw.Name)
}

func TestParseImportStatement(t *testing.T) {
	doc, err := Parse(`import { Foo, Bar } from "./mod.js";`, nil)
	require.NoError(t, err)
	children := doc.Children(entry.RootID)
	require.Len(t, children, 1)
	imp := doc.Get(children[0])
	assert.Equal(t, entry.KindImportBlock, imp.Kind)
}

func TestParsePartialOnMalformedSource(t *testing.T) {
	doc, err := Parse(`function f( { `, nil)
	require.NoError(t, err) // parse errors are swallowed, not surfaced
	assert.NotNil(t, doc)
}
