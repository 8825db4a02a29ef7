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

package pyrules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jboynton/jsconvert/buffer"
	"github.com/jboynton/jsconvert/parser"
)

func format(t *testing.T, src string) string {
	t.Helper()
	doc, err := parser.Parse(src, nil)
	require.NoError(t, err)
	buf := buffer.New(doc)
	New().Format(buf)
	return buf.Render()
}

func TestThisBecomesSelf(t *testing.T) {
	out := format(t, "class A { constructor(){ this.x = 1; } }")
	assert.Contains(t, out, "self.x = 1")
	assert.NotContains(t, out, "this.x")
}

func TestNullAndUndefinedBecomeNone(t *testing.T) {
	out := format(t, "var a = null; var b = undefined;")
	assert.Contains(t, out, "None")
}

func TestLogicalOperatorsLower(t *testing.T) {
	out := format(t, "var c = a && b || c;")
	assert.Contains(t, out, "and")
	assert.Contains(t, out, "or")
}

func TestObjectLiteralKeysAreQuoted(t *testing.T) {
	out := format(t, "var o = {a: 1, b: 2};")
	assert.Contains(t, out, `"a"`)
	assert.Contains(t, out, `"b"`)
}

func TestArrowFunctionBecomesLambda(t *testing.T) {
	out := format(t, "var f = (a, b) => a + b;")
	assert.Contains(t, out, "lambda a, b:")
}

func TestImportStatementLowersToFromImport(t *testing.T) {
	out := format(t, `import { a, b } from "./util.js";`)
	assert.Contains(t, out, "from util import")
}

func TestInstanceofLowersToIsinstanceCall(t *testing.T) {
	out := format(t, "var ok = x instanceof Foo;")
	assert.Contains(t, out, "isinstance(x, Foo)")
	assert.NotContains(t, out, "isinstance Foo")
}

func TestDoWhileLowersTrailingCondition(t *testing.T) {
	out := format(t, "do { x += 1; } while (x < 10);")
	assert.Contains(t, out, "while True:")
	assert.Contains(t, out, "if not (")
	assert.Contains(t, out, "x < 10")
	assert.NotContains(t, out, "if not (True)")
}
