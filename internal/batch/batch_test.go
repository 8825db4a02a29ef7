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

package batch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jboynton/jsconvert/pyrules"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConvertWalksMatchingFiles(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeFile(t, filepath.Join(in, "a.js"), "var x = 1;")
	writeFile(t, filepath.Join(in, "sub", "b.js"), "var y = 2;")
	writeFile(t, filepath.Join(in, "c.txt"), "not js")

	result, err := Convert(in, out, pyrules.New(), "", "", nil)
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.Empty(t, result.Failed())

	got, err := os.ReadFile(filepath.Join(out, "sub", "b.py"))
	require.NoError(t, err)
	assert.Contains(t, string(got), "y = 2")
}

func TestConvertExcludesPattern(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeFile(t, filepath.Join(in, "a.js"), "var x = 1;")
	writeFile(t, filepath.Join(in, "vendor", "b.js"), "var y = 2;")

	result, err := Convert(in, out, pyrules.New(), "", "vendor/**", nil)
	require.NoError(t, err)
	require.Len(t, result.Files, 1)
	assert.Equal(t, filepath.Join(in, "a.js"), result.Files[0].InPath)
}

func TestConvertCollectsPerFileErrorsWithoutAborting(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()

	writeFile(t, filepath.Join(in, "good.js"), "var x = 1;")
	writeFile(t, filepath.Join(in, "skip.js"), "// no-edit\nvar y = 2;")

	result, err := Convert(in, out, pyrules.New(), "", "", nil)
	require.NoError(t, err)
	require.Len(t, result.Files, 2)
	assert.Len(t, result.Failed(), 1)
}
