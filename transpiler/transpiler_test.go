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

package transpiler

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jboynton/jsconvert/parser"
	"github.com/jboynton/jsconvert/pyrules"
)

func formatPython(t *testing.T, src string) string {
	t.Helper()
	doc, err := parser.Parse(src, nil)
	require.NoError(t, err)
	return FormatCode(doc, pyrules.New())
}

func TestFormatCodeScenarios(t *testing.T) {
	cases := []struct {
		name     string
		src      string
		contains []string
	}{
		{
			name:     "var declaration",
			src:      "var x = 1;",
			contains: []string{"x = 1"},
		},
		{
			name:     "strict-equal if",
			src:      "if (a === b) { return a; }",
			contains: []string{"if a is b:", "return a"},
		},
		{
			name:     "c-style for loop",
			src:      "for (let i = 0; i < n; i++) { s += i; }",
			contains: []string{"i = 0", "while i < n:", "s += i", "i += 1"},
		},
		{
			name: "class with super call",
			src:  "class C extends B { constructor(x){ super(x); this.x = x; } }",
			contains: []string{
				"class C(B):",
				"def __init__(self, x):",
				"super().__init__(x)",
				"self.x = x",
			},
		},
		{
			name:     "Math.max whitelist",
			src:      "Math.max(a,b);",
			contains: []string{"max(a, b)"},
		},
		{
			name: "switch lowering",
			src:  "switch(k){case 1: a=1; break; default: a=0;}",
			contains: []string{
				"while True:",
				"k == 1:",
				"a = 1",
				"else:",
				"a = 0",
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			out := formatPython(t, c.src)
			for _, want := range c.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestToDomStringIsDeterministic(t *testing.T) {
	doc, err := parser.Parse("function f(a,b){ return a+b; }", nil)
	require.NoError(t, err)

	first := ToDomString(doc)
	second := ToDomString(doc)
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first)
}

func TestConvertSkipsNoEditMarker(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.js")
	out := filepath.Join(dir, "out.py")
	require.NoError(t, os.WriteFile(in, []byte("// no-edit\nvar x = 1;"), 0o644))

	err := Convert(in, out, pyrules.New(), false)
	assert.ErrorIs(t, err, ErrNoEdit)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConvertWritesFormattedOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.js")
	out := filepath.Join(dir, "out.py")
	require.NoError(t, os.WriteFile(in, []byte("var x = 1;"), 0o644))

	require.NoError(t, Convert(in, out, pyrules.New(), false))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(got), "x = 1")
}

func TestConvertDomMode(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.js")
	out := filepath.Join(dir, "out.dom")
	require.NoError(t, os.WriteFile(in, []byte("var x = 1;"), 0o644))

	require.NoError(t, Convert(in, out, nil, true))
	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(got), "Declaration")
}

func TestListRulesReturnsNonEmpty(t *testing.T) {
	names := ListRules(pyrules.New())
	assert.NotEmpty(t, names)
}
