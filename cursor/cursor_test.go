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

package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextCharSkipsWhitespace(t *testing.T) {
	c := New("   \n\tabc")
	ch, pos := c.NextChar(0)
	assert.Equal(t, byte('a'), ch)
	assert.Equal(t, 5, pos)
}

func TestNextCharAtEnd(t *testing.T) {
	c := New("   ")
	ch, pos := c.NextChar(0)
	assert.Equal(t, byte(0), ch)
	assert.Equal(t, 3, pos)
}

func TestNextOpCoalescesComments(t *testing.T) {
	assert.Equal(t, "#*", New("/* hi */").NextOp(0))
	assert.Equal(t, "##", New("// hi").NextOp(0))
	assert.Equal(t, "===", New("=== b").NextOp(0))
	assert.Equal(t, "+=", New("+= 1").NextOp(0))
}

func TestIsEscaped(t *testing.T) {
	src := `a\"b\\"c`
	c := New(src)
	assert.True(t, c.IsEscaped(2))  // \" escaped
	assert.False(t, c.IsEscaped(6)) // \\"  - quote preceded by even backslashes
}

func TestNextTokenNumeric(t *testing.T) {
	c := New("3.14 + x")
	assert.Equal(t, "3.14", c.NextToken(0))
}

func TestNextTokenIdentifier(t *testing.T) {
	c := New("foo.bar")
	assert.Equal(t, "foo", c.NextToken(0))
}

func TestNextTokenStopsAtOperator(t *testing.T) {
	c := New("x+1")
	assert.Equal(t, "x", c.NextToken(0))
}
