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

// jsconvert is the CLI driver: convert a single JS file, a whole
// directory tree, or dump a file's entry tree, with an interactive
// prompt loop when no input path is given on the command line.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jboynton/jsconvert/internal/batch"
	"github.com/jboynton/jsconvert/internal/diag"
	"github.com/jboynton/jsconvert/jsrules"
	"github.com/jboynton/jsconvert/pyrules"
	"github.com/jboynton/jsconvert/rules"
	"github.com/jboynton/jsconvert/rules/manifest"
	"github.com/jboynton/jsconvert/transpiler"
)

func main() {
	rulesFlag := flag.String("rules", "py", "rule set to translate with: \"py\" (default) or \"js\" (identity)")
	out := flag.String("out", "", "output path (defaults to the input path with its extension swapped)")
	dom := flag.Bool("dom", false, "dump the parsed entry tree instead of converting")
	batchDir := flag.String("batch", "", "convert every matching file under this directory tree")
	pattern := flag.String("pattern", "", "doublestar glob selecting files under -batch (default **/*.js)")
	exclude := flag.String("exclude", "", "doublestar glob excluding files under -batch")
	listRules := flag.Bool("list-rules", false, "print the selected rule set's registered rules and exit")
	dumpManifest := flag.Bool("dump-manifest", false, "print the selected rule set as a rules.manifest Starlark file and exit")
	flag.Parse()

	ruleSet, err := resolveRuleSet(*rulesFlag)
	if err != nil {
		log.Fatalf("jsconvert: %v", err)
	}

	if *listRules {
		for _, line := range transpiler.ListRules(ruleSet) {
			fmt.Println(line)
		}
		return
	}

	if *dumpManifest {
		os.Stdout.Write(manifest.Format(manifest.FromTrieEntries(manifestEntries(ruleSet))))
		return
	}

	if *batchDir != "" {
		outDir := *out
		if outDir == "" {
			outDir = *batchDir
		}
		logger := diag.New(*batchDir, nil)
		result, err := batch.Convert(*batchDir, outDir, ruleSet, *pattern, *exclude, logger)
		if err != nil {
			log.Fatalf("jsconvert: %v", err)
		}
		fmt.Printf("converted %d file(s), %d failed\n", len(result.Files), len(result.Failed()))
		for _, f := range result.Failed() {
			fmt.Printf("  %s: %v\n", f.InPath, f.Err)
		}
		return
	}

	if flag.NArg() > 0 {
		in := flag.Arg(0)
		outPath := *out
		if outPath == "" {
			outPath = defaultOutPath(in, *dom)
		}
		if err := runOne(in, outPath, ruleSet, *dom); err != nil {
			log.Fatalf("jsconvert: %v", err)
		}
		return
	}

	promptLoop(ruleSet)
}

// manifestEntries adapts a rule set's trie listing into the shape
// rules/manifest needs, naming each entry by its Go rule type (the Rule
// interface carries no separate human name, per manifest.FromTrieEntries'
// own doc comment).
func manifestEntries(t *rules.Trie) []manifest.TrieEntry {
	list := t.List()
	out := make([]manifest.TrieEntry, 0, len(list))
	for _, e := range list {
		name := fmt.Sprintf("%T", e.Rule)
		if i := strings.LastIndexByte(name, '.'); i >= 0 {
			name = name[i+1:]
		}
		out = append(out, manifest.TrieEntry{Name: name, Path: e.Path})
	}
	return out
}

func resolveRuleSet(name string) (*rules.Trie, error) {
	switch strings.ToLower(name) {
	case "", "py", "python":
		return pyrules.New(), nil
	case "js", "javascript":
		return jsrules.New(), nil
	default:
		return nil, fmt.Errorf("unknown rule set %q", name)
	}
}

func defaultOutPath(in string, dom bool) string {
	ext := ".py"
	if dom {
		ext = ".dom"
	}
	return strings.TrimSuffix(in, filepath.Ext(in)) + ext
}

func runOne(in, out string, ruleSet *rules.Trie, dom bool) error {
	if err := transpiler.Convert(in, out, ruleSet, dom); err != nil {
		if errors.Is(err, transpiler.ErrNoEdit) {
			fmt.Printf("export not allowed: %s\n", in)
			return nil
		}
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

// promptLoop is the interactive fallback used when no input path is
// given on the command line: ask for a file, an optional output path,
// convert, and ask whether to continue.
func promptLoop(ruleSet *rules.Trie) {
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("Input file: ")
		if !scanner.Scan() {
			return
		}
		in := strings.TrimSpace(scanner.Text())
		if in == "" {
			return
		}

		fmt.Print("Output file (blank for default): ")
		scanner.Scan()
		out := strings.TrimSpace(scanner.Text())
		if out == "" {
			out = defaultOutPath(in, false)
		}

		if err := runOne(in, out, ruleSet, false); err != nil {
			fmt.Printf("error: %v\n", err)
		}

		fmt.Print("Continue? (Y/N): ")
		if !scanner.Scan() {
			return
		}
		answer := strings.ToUpper(strings.TrimSpace(scanner.Text()))
		if answer != "Y" {
			return
		}
	}
}
