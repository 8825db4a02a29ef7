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

import "github.com/jboynton/jsconvert/entry"

// jsKeywords is the set of words reserved by ES6, plus "undefined". Any
// word in this set that has no dedicated Kind below resolves to a generic
// Modifier.
var jsKeywords = map[string]struct{}{
	"abstract": {}, "arguments": {}, "as": {}, "await": {}, "boolean": {}, "break": {}, "byte": {}, "case": {}, "catch": {},
	"char": {}, "class": {}, "const": {}, "continue": {}, "constructor": {}, "debugger": {}, "default": {}, "delete": {}, "do": {},
	"double": {}, "else": {}, "enum": {}, "eval": {}, "export": {}, "extends": {}, "false": {}, "final": {},
	"finally": {}, "float": {}, "for": {}, "from": {}, "function": {}, "goto": {}, "if": {}, "implements": {}, "import": {},
	"in": {}, "instanceof": {}, "int": {}, "interface": {}, "let": {}, "long": {}, "native": {}, "new": {}, "null": {}, "of": {},
	"package": {}, "private": {}, "protected": {}, "public": {}, "return": {}, "short": {}, "static": {},
	"super": {}, "switch": {}, "synchronized": {}, "this": {}, "throw": {}, "throws": {}, "transient": {},
	"true": {}, "try": {}, "typeof": {}, "var": {}, "void": {}, "volatile": {}, "while": {}, "with": {}, "yield": {}, "undefined": {},
}

// primaryKind maps reserved words to a dedicated entry kind. Words absent
// from this map but present in jsKeywords fall back to Modifier.
var primaryKind = map[string]entry.Kind{
	"export":      entry.KindModifier,
	"import":      entry.KindImportBlock,
	"from":        entry.KindKeyword,
	"default":     entry.KindModifier,
	"if":          entry.KindCondition,
	"else":        entry.KindStatement,
	"for":         entry.KindStatement,
	"do":          entry.KindStatement,
	"while":       entry.KindCondition,
	"switch":      entry.KindCondition,
	"case":        entry.KindStatement,
	"extends":     entry.KindDeclaration,
	"break":       entry.KindKeyword,
	"continue":    entry.KindKeyword,
	"function":    entry.KindFunction,
	"var":         entry.KindDeclaration,
	"let":         entry.KindDeclaration,
	"const":       entry.KindDeclaration,
	"true":        entry.KindBooleanType,
	"false":       entry.KindBooleanType,
	"constructor": entry.KindMethod,
	"new":         entry.KindKeyword,
	"this":        entry.KindVariableType,
	"super":       entry.KindVariableType,
	"try":         entry.KindStatement,
	"catch":       entry.KindCondition,
	"finally":     entry.KindStatement,
	"throw":       entry.KindStatement,
	"null":        entry.KindKeyword,
	"return":      entry.KindStatement,
	"class":       entry.KindClasss,
	"typeof":      entry.KindKeyword,
	"instanceof":  entry.KindKeyword,
	"undefined":   entry.KindKeyword,
}

// functionalKind names keywords that are arbitrated by a following '(':
// the primary kind applies only when the next printable character after
// the keyword is '(', otherwise the alternate (if any) is used, matching
// Keywords.get_code_instance's "functional" attribute check.
var functionalKind = map[string]struct{}{
	"catch":       {},
	"for":         {},
	"constructor": {},
}

// altKind is the alternate entry kind used when a functional keyword is
// NOT followed by '('. "catch" has a real alternate (optional-binding
// catch); "for" and "constructor" have none, so a non-'(' appearance of
// those words falls through to identifier dispatch.
var altKind = map[string]entry.Kind{
	"catch": entry.KindStatement,
}

// Keywords resolves a keyword token to the entry kind the parser should
// construct, consulting the functional/alternate arbitration rules when
// a name is ambiguous. Its tables are unexported, so DefaultKeywords is
// the only populated registry available outside this package; Parse uses
// it when passed nil.
type Keywords struct {
	primary    map[string]entry.Kind
	functional map[string]struct{}
	alt        map[string]entry.Kind
}

// DefaultKeywords returns the registry seeded from the ES6 reserved word
// list.
func DefaultKeywords() *Keywords {
	return &Keywords{primary: primaryKind, functional: functionalKind, alt: altKind}
}

// Resolve looks up name, returning the entry kind to construct and
// whether name names a keyword at all. nextIsCall reports whether the
// next printable character following the keyword token is '('.
func (k *Keywords) Resolve(name string, nextIsCall bool) (entry.Kind, bool) {
	kind, hasPrimary := k.primary[name]
	if hasPrimary {
		if _, functional := k.functional[name]; functional && !nextIsCall {
			if alt, ok := k.alt[name]; ok {
				return alt, true
			}
			return entry.KindInvalid, false
		}
		return kind, true
	}
	if _, reserved := jsKeywords[name]; reserved {
		return entry.KindModifier, true
	}
	return entry.KindInvalid, false
}

// IsReserved reports whether name is any ES6 reserved word, dedicated
// kind or not.
func IsReserved(name string) bool {
	_, ok := jsKeywords[name]
	return ok
}
