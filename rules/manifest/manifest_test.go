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

package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRuleEntries(t *testing.T) {
	src := []byte(`
rule(
    name = "decl_var",
    path = ["Declaration", "var"],
)

rule(
    name = "identifier_chain",
    path = ["VariableType", "ANY"],
)
`)
	specs, err := Parse("rules.manifest", src)
	require.NoError(t, err)
	require.Len(t, specs, 2)
	assert.Equal(t, "decl_var", specs[0].Name)
	assert.Equal(t, []string{"Declaration", "var"}, specs[0].Path)
	assert.Equal(t, []string{"VariableType", "ANY"}, specs[1].Path)
}

func TestFormatRoundTripsThroughParse(t *testing.T) {
	specs := []RuleSpec{
		{Name: "decl_var", Path: []string{"Declaration", "var"}},
		{Name: "compare", Path: []string{"Compare", "ANY"}},
	}

	out := Format(specs)
	reparsed, err := Parse("rules.manifest", out)
	require.NoError(t, err)
	assert.Equal(t, specs, reparsed)
}

func TestParseIgnoresNonRuleCalls(t *testing.T) {
	src := []byte(`
comment(name = "not a rule")
rule(name = "only_one", path = ["Statement", "ANY"])
`)
	specs, err := Parse("rules.manifest", src)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "only_one", specs[0].Name)
}
