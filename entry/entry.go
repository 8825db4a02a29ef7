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

// Package entry defines the flat entry model produced by the parser: the
// typed, span-bearing units that the rule dispatcher walks left to right.
package entry

import "strconv"

// ID identifies an Entry within a Document's flat entry slice. The zero
// value is never a valid entry id; the root entry is always id 1.
type ID int

// NoID marks the absence of an entry reference (no parent, no extension).
const NoID ID = -1

// Kind is the closed set of entry kinds a document may contain.
type Kind byte

const (
	KindInvalid Kind = iota

	// Leaves
	KindCode
	KindSeparator
	KindBegin
	KindEnd
	KindKeyword
	KindModifier
	KindOperator
	KindCompare
	KindDeclaration
	KindAttribute
	KindLabel
	KindAnnotation
	KindComment
	KindRegExpression
	KindNameType
	KindGlobalType

	// Extendable
	KindVariableType
	KindStringType
	KindNumberType
	KindBooleanType
	KindFunctionEnd
	KindExpressionEnd
	KindObjectEnd
	KindArrayEnd

	// Containers
	KindRootEntry
	KindStatementBlock
	KindExpression
	KindConstructor
	KindLambda
	KindObjectType
	KindArrayType
	KindClasss
	KindForCondition
	KindImportBlock

	// Statements
	KindFunction
	KindMethod
	KindStatement
	KindCondition
	KindAssignment
	KindIncrement
	KindTernaryExpression

	// Reserved: the parser never produces it and no rule set renders it.
	KindTemplateLiteral
)

// String returns the kind's name from kindNames, or "Unknown" for a value
// outside the declared set.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

var kindNames = map[Kind]string{
	KindCode:              "Code",
	KindSeparator:          "Separator",
	KindBegin:              "Begin",
	KindEnd:                "End",
	KindKeyword:            "Keyword",
	KindModifier:           "Modifier",
	KindOperator:           "Operator",
	KindCompare:            "Compare",
	KindDeclaration:        "Declaration",
	KindAttribute:          "Attribute",
	KindLabel:              "Label",
	KindAnnotation:         "Annotation",
	KindComment:            "Comment",
	KindRegExpression:      "RegExpression",
	KindNameType:           "NameType",
	KindGlobalType:         "GlobalType",
	KindVariableType:       "VariableType",
	KindStringType:         "StringType",
	KindNumberType:         "NumberType",
	KindBooleanType:        "BooleanType",
	KindFunctionEnd:        "FunctionEnd",
	KindExpressionEnd:      "ExpressionEnd",
	KindObjectEnd:          "ObjectEnd",
	KindArrayEnd:           "ArrayEnd",
	KindRootEntry:          "RootEntry",
	KindStatementBlock:     "StatementBlock",
	KindExpression:         "Expression",
	KindConstructor:        "Constructor",
	KindLambda:             "Lambda",
	KindObjectType:         "ObjectType",
	KindArrayType:          "ArrayType",
	KindClasss:             "Classs",
	KindForCondition:       "ForCondition",
	KindImportBlock:        "ImportBlock",
	KindFunction:           "Function",
	KindMethod:             "Method",
	KindStatement:          "Statement",
	KindCondition:          "Condition",
	KindAssignment:         "Assignment",
	KindIncrement:          "Increment",
	KindTernaryExpression:  "TernaryExpression",
	KindTemplateLiteral:    "TemplateLiteral",
}

// flags describe the per-kind tagging mixins (Leaf, Extendable,
// Declarable, Container) plus the functional arbitration flag used by the
// keyword registry.
type flags struct {
	isLeaf       bool
	isExtendable bool
	isDeclarable bool
	isContainer  bool // owns a lexical scope
	hasChildren  bool // may have entries attached via AppendChild, broader than isContainer
	functional   bool
}

var kindFlags = map[Kind]flags{
	KindCode:          {isLeaf: true},
	KindSeparator:     {isLeaf: true},
	KindBegin:         {isLeaf: true},
	KindEnd:           {isLeaf: true},
	KindKeyword:       {isLeaf: true},
	KindModifier:      {isLeaf: true},
	KindOperator:      {isLeaf: true},
	KindCompare:       {isLeaf: true},
	KindDeclaration:   {isLeaf: true, isDeclarable: true},
	KindAttribute:     {isLeaf: true, isDeclarable: true},
	KindLabel:         {isLeaf: true},
	KindAnnotation:    {isLeaf: true},
	KindComment:       {isLeaf: true},
	KindRegExpression: {isLeaf: true},
	KindNameType:      {isLeaf: true},

	// GlobalType (an undeclared identifier, e.g. a bare reference to `Math`
	// or `document`) is a leaf, unlike VariableType, but is extendable like
	// it so that `foo.bar` chains starting from an unresolved name still parse
	// as a single extension chain rather than a stray '.' Code token.
	KindGlobalType: {isLeaf: true, isExtendable: true},

	KindVariableType: {isExtendable: true},
	KindStringType:   {isExtendable: true},
	KindNumberType:   {isExtendable: true},
	KindBooleanType:  {isExtendable: true},
	KindFunctionEnd:  {isExtendable: true},
	KindExpressionEnd: {isExtendable: true},
	KindObjectEnd:    {isExtendable: true},
	KindArrayEnd:     {isExtendable: true},

	KindRootEntry:      {isContainer: true, hasChildren: true},
	KindStatementBlock: {isContainer: true, hasChildren: true},
	KindExpression:     {isContainer: true, hasChildren: true},
	KindConstructor:    {isContainer: true, isDeclarable: true, hasChildren: true},
	KindLambda:         {isContainer: true, hasChildren: true},
	KindObjectType:     {isContainer: true, hasChildren: true},
	KindArrayType:      {isContainer: true, hasChildren: true},
	KindClasss:         {isContainer: true, hasChildren: true},
	KindForCondition:   {isContainer: true, hasChildren: true},
	KindImportBlock:    {isContainer: true, hasChildren: true},

	// Statements: structurally hold children (a head/body) but do not
	// themselves own a lexical scope — the nested StatementBlock/
	// Expression/Constructor does that instead.
	KindFunction:          {isDeclarable: true, hasChildren: true},
	KindMethod:            {isDeclarable: true, hasChildren: true},
	KindStatement:         {hasChildren: true},
	KindCondition:         {hasChildren: true},
	KindAssignment:        {},
	KindIncrement:         {},
	KindTernaryExpression: {hasChildren: true},

	KindTemplateLiteral: {isLeaf: true},
}

// IsLeaf reports whether entries of kind k are leaves (no children).
func (k Kind) IsLeaf() bool { return kindFlags[k].isLeaf }

// IsExtendable reports whether entries of kind k may carry an Extended link.
func (k Kind) IsExtendable() bool { return kindFlags[k].isExtendable }

// IsDeclarable reports whether entries of kind k may own Declaration children.
func (k Kind) IsDeclarable() bool { return kindFlags[k].isDeclarable }

// HasChildren reports whether entries of kind k may have entries attached
// via Document.AppendChild. This is broader than IsContainer: Function,
// Method, Statement, Condition, and TernaryExpression hold structural
// children (a head and/or body) without owning a lexical scope themselves.
func (k Kind) HasChildren() bool { return kindFlags[k].hasChildren }

// IsContainer reports whether entries of kind k own a lexical scope.
func (k Kind) IsContainer() bool { return kindFlags[k].isContainer }

// SetFunctional marks a kind as arbitrated-by-call-site. The keyword
// registry (parser.Keywords) keeps its own set of functional names and
// does not read this flag.
func SetFunctional(k Kind) {
	f := kindFlags[k]
	f.functional = true
	kindFlags[k] = f
}

// IsFunctional reports whether kind k has been marked by SetFunctional.
func (k Kind) IsFunctional() bool { return kindFlags[k].functional }

func init() {
	SetFunctional(KindFunctionEnd)
}

// Entry is a single node of the flat, ordered entry sequence. It identifies
// a contiguous substring of the source (Offs..Pos) and its structural
// relationships to neighboring entries.
type Entry struct {
	Kind Kind
	Name string

	Offs int
	Pos  int

	Parent   ID
	Extended ID
	Inset    int

	// IsVariable is set on Declaration entries with name var/let/const.
	IsVariable bool

	// Value carries kind-specific literal payload (numbers, booleans,
	// string contents) for kinds where Name alone is insufficient.
	Value any
}

// containerState is the mutable bookkeeping a Container entry accrues while
// the parser packs its children.
type containerState struct {
	Children     []ID
	Scope        string
	Declarations map[string]ID
}

// Document owns every Entry parsed from one source file plus the container
// bookkeeping keyed by entry id. A Document is built in a single downward
// pass by the parser and is read-only once FormatCode/ToDomString consume
// it — see transpiler package.
type Document struct {
	Source  string
	entries []Entry
	conts   map[ID]*containerState
	scopeN  map[ID]int // next child-index per container, for scope tags
}

// NewDocument allocates an empty Document over the given source text.
// Entry id 0 is never used; ids start at 1 so the zero value of ID never
// aliases a real entry.
func NewDocument(source string) *Document {
	return &Document{
		Source:  source,
		entries: make([]Entry, 1, 64),
		conts:   make(map[ID]*containerState),
		scopeN:  make(map[ID]int),
	}
}

// Add appends a new entry and returns its id.
func (d *Document) Add(e Entry) ID {
	// Id 0 is never a real entry, so an unset (zero) link means "none".
	if e.Parent == 0 {
		e.Parent = NoID
	}
	if e.Extended == 0 {
		e.Extended = NoID
	}
	d.entries = append(d.entries, e)
	id := ID(len(d.entries) - 1)
	if e.Kind.HasChildren() {
		d.conts[id] = &containerState{Declarations: map[string]ID{}}
	}
	return id
}

// Get returns the entry for id. Panics on an out-of-range id: every id a
// caller holds must have come from this Document.
func (d *Document) Get(id ID) Entry { return d.entries[id] }

// Set overwrites the entry stored at id, used by the parser to rewrite
// Parent/Extended links during extension normalization, ternary lifting,
// and lambda demotion.
func (d *Document) Set(id ID, e Entry) { d.entries[id] = e }

// Len returns the number of entries in the document, including the unused
// id 0 slot.
func (d *Document) Len() int { return len(d.entries) }

// Children returns the direct children of a container entry in source
// order. Returns nil for non-container entries or unknown ids.
func (d *Document) Children(id ID) []ID {
	if c, ok := d.conts[id]; ok {
		return c.Children
	}
	return nil
}

// AppendChild records child as belonging to container parent, and sets
// child's Parent field. This is the only way children accumulate onto a
// container; RemoveEntry is the only way they are removed.
func (d *Document) AppendChild(parent, child ID) {
	c := d.conts[parent]
	c.Children = append(c.Children, child)
	e := d.entries[child]
	e.Parent = parent
	d.entries[child] = e
}

// RemoveEntry detaches child from its container's child list. Only the
// explicit-argument form is implemented; there is no form that removes a
// "current" entry.
func (d *Document) RemoveEntry(parent, child ID) bool {
	c, ok := d.conts[parent]
	if !ok {
		return false
	}
	for i, id := range c.Children {
		if id == child {
			c.Children = append(c.Children[:i], c.Children[i+1:]...)
			return true
		}
	}
	return false
}

// NextScopeTag allocates the next monotonically increasing scope tag for a
// child of container parent, e.g. parent's own tag + "_3".
func (d *Document) NextScopeTag(parent ID) string {
	n := d.scopeN[parent] + 1
	d.scopeN[parent] = n
	parentScope := ""
	if c, ok := d.conts[parent]; ok {
		parentScope = c.Scope
	}
	return parentScope + "_" + strconv.Itoa(n)
}

// SetScope records the scope tag assigned to a container entry.
func (d *Document) SetScope(id ID, tag string) {
	if c, ok := d.conts[id]; ok {
		c.Scope = tag
	}
}

// Scope returns the scope tag of a container entry, or "" if id is not a
// container or has not been assigned one yet (true of the root).
func (d *Document) Scope(id ID) string {
	if c, ok := d.conts[id]; ok {
		return c.Scope
	}
	return ""
}

// Declare records that name is declared by entry decl within container id.
func (d *Document) Declare(id ID, name string, decl ID) {
	if c, ok := d.conts[id]; ok {
		c.Declarations[name] = decl
	}
}

// Resolve walks up the container chain from start looking for a
// declaration of name, returning the scope tag of the innermost declaring
// container, or "" if the name is undeclared or declared only at the root.
func (d *Document) Resolve(start ID, name string) (scope string, ok bool) {
	id := start
	for id != NoID {
		e := d.entries[id]
		if c := d.conts[id]; c != nil {
			if _, declared := c.Declarations[name]; declared {
				if id == RootID {
					return "", true
				}
				return c.Scope, true
			}
		}
		id = e.Parent
	}
	return "", false
}

// RootID is the entry id of the single RootEntry container every Document
// is parsed into.
const RootID ID = 1

// Sequence returns the document's descendants (excluding the root entry
// itself) in the flat, source-ordered, extension-aware sequence the
// emission buffer walks. It is a depth-first, pre-order traversal over
// Children that inlines each Extendable entry's Extended successor
// immediately after that entry's own subtree, computed once synthetic
// reparenting (ternary lifting, lambda demotion) has already settled
// Parent/Children for the whole document.
func (d *Document) Sequence() []ID {
	return d.ChildrenSequence(RootID)
}

// SubtreeIDs returns id itself, followed by every descendant reachable
// from it (its Children, each recursively, and its Extended successor's
// own full subtree), in the same depth-first, extension-aware order
// Sequence uses. This is exactly the number of consecutive slots id
// occupies within the document's flat Sequence — rule sets use
// len(SubtreeIDs(id)) as the "entries consumed" count when a rule handles
// id and everything under/chained off it in one pass.
func (d *Document) SubtreeIDs(id ID) []ID {
	var seq []ID
	var visit func(id ID)
	visit = func(id ID) {
		seq = append(seq, id)
		for _, c := range d.Children(id) {
			visit(c)
		}
		if e := d.entries[id]; e.Extended != NoID {
			visit(e.Extended)
		}
	}
	visit(id)
	return seq
}

// ChildrenSequence returns the concatenation of SubtreeIDs for each direct
// child of container, i.e. the slice of Sequence that a container's own
// rule should hand to a sub-buffer when recursively formatting its body.
func (d *Document) ChildrenSequence(container ID) []ID {
	var seq []ID
	for _, c := range d.Children(container) {
		seq = append(seq, d.SubtreeIDs(c)...)
	}
	return seq
}
