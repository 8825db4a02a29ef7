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

// Package batch converts every matching file under a directory tree in
// parallel: each file owns its own Document and Buffer and shares no
// mutable state with its siblings, so conversions are dispatched one
// goroutine per file with no synchronization beyond collecting results.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/jboynton/jsconvert/internal/collections"
	"github.com/jboynton/jsconvert/internal/diag"
	"github.com/jboynton/jsconvert/rules"
	"github.com/jboynton/jsconvert/transpiler"
)

// DefaultPattern selects every .js file in a directory tree.
const DefaultPattern = "**/*.js"

// FileResult records the outcome of converting one file.
type FileResult struct {
	InPath  string
	OutPath string
	Err     error
}

// Result aggregates a whole batch run.
type Result struct {
	Files []FileResult
}

// Failed returns the subset of Files whose conversion did not succeed.
func (r *Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Convert walks inDir for files matching pattern (DefaultPattern if
// empty), excluding any that also match exclude (ignored if empty), and
// converts each into outDir using t, preserving the relative path with a
// .py extension. Files are converted concurrently, one goroutine per
// file, bounded by GOMAXPROCS; a failure on one file never cancels the
// others — every attempted file gets an entry in the returned Result.
func Convert(inDir, outDir string, t *rules.Trie, pattern, exclude string, log *diag.Logger) (*Result, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(inDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("globbing %s under %s: %w", pattern, inDir, err)
	}
	// A pattern containing brace or alternation groups can match the same
	// path more than once; dedup before fanning out conversions.
	matches = collections.ToSet(matches).SortedValues(strings.Compare)

	var inputs []string
	for _, m := range matches {
		if exclude != "" {
			rel, err := filepath.Rel(inDir, m)
			if err == nil {
				if ok, _ := doublestar.Match(exclude, filepath.ToSlash(rel)); ok {
					continue
				}
			}
		}
		inputs = append(inputs, m)
	}

	results := make([]FileResult, len(inputs))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			rel, err := filepath.Rel(inDir, in)
			if err != nil {
				rel = filepath.Base(in)
			}
			out := filepath.Join(outDir, strings.TrimSuffix(rel, filepath.Ext(rel))+".py")
			results[i] = FileResult{InPath: in, OutPath: out}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				results[i].Err = err
				return nil
			}
			if err := transpiler.Convert(in, out, t, false); err != nil {
				results[i].Err = err
				if log != nil {
					log.Errorf("%v", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait() // per-file errors are collected in results, never propagated here

	return &Result{Files: results}, nil
}
