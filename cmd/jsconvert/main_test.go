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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jboynton/jsconvert/pyrules"
	"github.com/jboynton/jsconvert/rules/manifest"
)

func TestResolveRuleSet(t *testing.T) {
	for _, name := range []string{"", "py", "python", "js", "javascript"} {
		_, err := resolveRuleSet(name)
		assert.NoError(t, err)
	}
	_, err := resolveRuleSet("cobol")
	assert.Error(t, err)
}

func TestManifestEntriesRoundTripsThroughFormat(t *testing.T) {
	entries := manifestEntries(pyrules.New())
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.NotEmpty(t, e.Name)
	}

	specs := manifest.FromTrieEntries(entries)
	out := manifest.Format(specs)
	assert.Contains(t, string(out), "rule(")
}
