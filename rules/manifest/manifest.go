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

// Package manifest reads and writes a Starlark-syntax listing of a rule
// set's registered (name, path) pairs — a `rules.manifest` file a rule-set
// author can review or regenerate without touching Go source. It reuses
// buildtools' `build` package, the parser/printer Bazel tooling uses for
// BUILD and MODULE.bazel files, purely for Starlark's
// call-expression grammar; it never touches Python or JS source, since
// Starlark shares syntax with those languages but not semantics.
package manifest

import (
	"fmt"

	"github.com/bazelbuild/buildtools/build"
)

// RuleSpec is one `rule(name = "...", path = [...])` entry.
type RuleSpec struct {
	Name string
	Path []string
}

// Parse reads a rules.manifest file's contents, returning one RuleSpec per
// top-level `rule(...)` call.
func Parse(filename string, data []byte) ([]RuleSpec, error) {
	f, err := build.ParseDefault(filename, data)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", filename, err)
	}

	var specs []RuleSpec
	for _, stmt := range f.Stmt {
		call, ok := stmt.(*build.CallExpr)
		if !ok {
			continue
		}
		ident, ok := call.X.(*build.Ident)
		if !ok || ident.Name != "rule" {
			continue
		}
		spec, ok := parseRuleArgs(call.List)
		if ok {
			specs = append(specs, spec)
		}
	}
	return specs, nil
}

func parseRuleArgs(args []build.Expr) (RuleSpec, bool) {
	var spec RuleSpec
	var haveName bool
	for _, arg := range args {
		assign, ok := arg.(*build.AssignExpr)
		if !ok {
			continue
		}
		ident, ok := assign.LHS.(*build.Ident)
		if !ok {
			continue
		}
		switch ident.Name {
		case "name":
			if s, ok := assign.RHS.(*build.StringExpr); ok {
				spec.Name = s.Value
				haveName = true
			}
		case "path":
			list, ok := assign.RHS.(*build.ListExpr)
			if !ok {
				continue
			}
			for _, elem := range list.List {
				if s, ok := elem.(*build.StringExpr); ok {
					spec.Path = append(spec.Path, s.Value)
				}
			}
		}
	}
	return spec, haveName
}

// Format renders specs back out as a rules.manifest file, in the order
// given.
func Format(specs []RuleSpec) []byte {
	f := &build.File{Type: build.TypeDefault}
	for _, spec := range specs {
		pathElems := make([]build.Expr, len(spec.Path))
		for i, p := range spec.Path {
			pathElems[i] = &build.StringExpr{Value: p}
		}
		call := &build.CallExpr{
			X: &build.Ident{Name: "rule"},
			List: []build.Expr{
				&build.AssignExpr{
					LHS: &build.Ident{Name: "name"},
					Op:  "=",
					RHS: &build.StringExpr{Value: spec.Name},
				},
				&build.AssignExpr{
					LHS: &build.Ident{Name: "path"},
					Op:  "=",
					RHS: &build.ListExpr{List: pathElems},
				},
			},
		}
		f.Stmt = append(f.Stmt, call)
	}
	return build.Format(f)
}

// FromTrieEntries builds a manifest from a rule set's trie listing,
// keeping each entry's Name as the caller supplied it (the CLI names
// entries by their Go rule type, since the Rule interface carries no
// separate human name) and naming an entry with an empty Name "default".
func FromTrieEntries(entries []TrieEntry) []RuleSpec {
	specs := make([]RuleSpec, 0, len(entries))
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "default"
		}
		specs = append(specs, RuleSpec{Name: name, Path: e.Path})
	}
	return specs
}

// TrieEntry is the minimal shape FromTrieEntries needs from a
// rules.Trie.List() result, decoupling this package from importing rules
// directly (rules already imports buffer/entry; manifest stays a leaf
// package consumed by cmd/jsconvert, which does the adapting).
type TrieEntry struct {
	Name string
	Path []string
}
