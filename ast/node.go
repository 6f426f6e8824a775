// Package ast implements spec component 3's Node model: a tagged variant
// {scalar, sequence, mapping} with style, optional tag, a parent
// back-reference, an owning Document, and a visit-marker word used by the
// resolver/path-expression walkers to detect cycles without recursion
// state. It is grounded on a common ast.Node family shape (Token()/Type()/
// String() plus a release-to-pool lifecycle) adapted to the parent/
// document/visit-marker shape spec §3 names explicitly.
package ast

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fyparse/fyparse/token"
)

// Kind is the top-level variant discriminator (spec §3 Node).
type Kind int

const (
	ScalarKind Kind = iota
	SequenceKind
	MappingKind
)

func (k Kind) String() string {
	switch k {
	case SequenceKind:
		return "Sequence"
	case MappingKind:
		return "Mapping"
	default:
		return "Scalar"
	}
}

// Node is the common interface implemented by ScalarNode, SequenceNode and
// MappingNode.
type Node interface {
	Kind() Kind
	Token() *token.Token
	String() string
	Tag() *token.Token
	SetTag(*token.Token)
	AnchorName() string
	SetAnchorName(string)
	Parent() Node
	setParent(Node)
	Document() *Document
	setDocument(*Document)

	// visitMark/setVisitMark back a traversal's cycle-detection bit
	// without needing an out-of-band visited-set for the common case
	// (spec §3 "a visit-marker word").
	visitMark() uint64
	setVisitMark(uint64)
}

type base struct {
	tag    *token.Token
	anchor string
	parent Node
	doc    *Document
	mark   uint64
}

func (b *base) Tag() *token.Token      { return b.tag }
func (b *base) SetTag(t *token.Token)  { b.tag = t }
func (b *base) AnchorName() string     { return b.anchor }
func (b *base) SetAnchorName(s string) { b.anchor = s }
func (b *base) Parent() Node           { return b.parent }
func (b *base) setParent(n Node)       { b.parent = n }
func (b *base) Document() *Document    { return b.doc }
func (b *base) setDocument(d *Document) {
	b.doc = d
}
func (b *base) visitMark() uint64     { return b.mark }
func (b *base) setVisitMark(m uint64) { b.mark = m }

// ScalarNode is a leaf value (string/int/float/bool/null/infinity/nan) or,
// when IsAlias is set, an alias placeholder referencing an anchor by name
// (spec §3 "scalar -> scalar token (or alias style flag + alias token)").
type ScalarNode struct {
	base
	tok       *token.Token
	IsAlias   bool
	AliasName string
}

func NewScalar(tk *token.Token) *ScalarNode {
	return &ScalarNode{tok: tk}
}

func NewAlias(tk *token.Token, name string) *ScalarNode {
	return &ScalarNode{tok: tk, IsAlias: true, AliasName: name}
}

func (n *ScalarNode) Kind() Kind         { return ScalarKind }
func (n *ScalarNode) Token() *token.Token { return n.tok }

func (n *ScalarNode) String() string {
	if n.IsAlias {
		return "*" + n.AliasName
	}
	if n.tok == nil {
		return ""
	}
	return n.tok.Value
}

// SequenceNode is an ordered list of owned child nodes.
type SequenceNode struct {
	base
	Values   []Node
	IsFlow   bool
	StartTok *token.Token
	EndTok   *token.Token
}

func NewSequence(start, end *token.Token, isFlow bool, values ...Node) *SequenceNode {
	n := &SequenceNode{Values: values, IsFlow: isFlow, StartTok: start, EndTok: end}
	for _, v := range values {
		v.setParent(n)
	}
	return n
}

func (n *SequenceNode) Kind() Kind { return SequenceKind }
func (n *SequenceNode) Token() *token.Token {
	if n.StartTok != nil {
		return n.StartTok
	}
	return nil
}

func (n *SequenceNode) String() string {
	parts := make([]string, len(n.Values))
	for i, v := range n.Values {
		parts[i] = v.String()
	}
	if n.IsFlow {
		return "[" + strings.Join(parts, ", ") + "]"
	}
	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString("- ")
		sb.WriteString(p)
		sb.WriteString("\n")
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

// Append adds a child, wiring the parent back-reference (spec §4.3
// "an artificial BLOCK_SEQUENCE_START event is generated" feeds this).
func (n *SequenceNode) Append(v Node) {
	v.setParent(n)
	n.Values = append(n.Values, v)
}

// Pair is one key/value entry of a MappingNode, in insertion order.
type Pair struct {
	Key   Node
	Value Node
	Tok   *token.Token // the ':' token, if any (may be nil for merge expansion)
}

// MappingNode is an ordered list of node-pairs, both key and value owned.
type MappingNode struct {
	base
	Pairs    []*Pair
	IsFlow   bool
	StartTok *token.Token
	EndTok   *token.Token
}

func NewMapping(start, end *token.Token, isFlow bool, pairs ...*Pair) *MappingNode {
	n := &MappingNode{Pairs: pairs, IsFlow: isFlow, StartTok: start, EndTok: end}
	for _, p := range pairs {
		p.Key.setParent(n)
		p.Value.setParent(n)
	}
	return n
}

func (n *MappingNode) Kind() Kind { return MappingKind }
func (n *MappingNode) Token() *token.Token {
	if n.StartTok != nil {
		return n.StartTok
	}
	return nil
}

func (n *MappingNode) String() string {
	parts := make([]string, len(n.Pairs))
	for i, p := range n.Pairs {
		parts[i] = p.Key.String() + ": " + p.Value.String()
	}
	if n.IsFlow {
		return "{" + strings.Join(parts, ", ") + "}"
	}
	return strings.Join(parts, "\n")
}

// Append adds a key/value pair, wiring parent back-references.
func (n *MappingNode) Append(key, value Node, colon *token.Token) {
	key.setParent(n)
	value.setParent(n)
	n.Pairs = append(n.Pairs, &Pair{Key: key, Value: value, Tok: colon})
}

// Get returns the value for a structurally-equal simple-scalar key, or
// nil (spec §8: "lookup by any structurally equal key returns the same
// value").
func (n *MappingNode) Get(key string) Node {
	for _, p := range n.Pairs {
		if s, ok := p.Key.(*ScalarNode); ok && !s.IsAlias && s.tok != nil && s.tok.Value == key {
			return p.Value
		}
	}
	return nil
}

// TagDirective is a (handle, prefix) pair from a %TAG directive.
type TagDirective struct {
	Handle string
	Prefix string
}

// Document carries per-document state: YAML version, tag directives,
// start/end markers and explicit/implicit flags (spec §3 Document state).
// A fresh Document is forked for each document in a stream so directives
// never leak across a `---`.
type Document struct {
	VersionMajor    int
	VersionMinor    int
	ExplicitVersion bool
	TagDirectives   []TagDirective
	Root            Node

	// Anchors is the document's anchor table, populated by the builder
	// as it assembles the tree (spec §4.4 "the builder ... registers
	// anchors with the document"). The resolver keeps its own registry
	// for alias-chain validation/dereferencing; this is the builder's
	// record of what it saw while constructing the tree.
	Anchors map[string]Node

	StartTok *token.Token
	EndTok   *token.Token

	ExplicitStart bool
	ExplicitEnd   bool
	ImplicitStart bool
	ImplicitEnd   bool

	// generation increments on Reset and is used as the visitMark
	// "epoch" so a stale mark from a previous walk never reads as
	// already-visited.
	generation uint64
}

// NewDocument returns a document pre-seeded with YAML 1.1 defaults and the
// two built-in tag handles (`!` and `!!`), matching spec §3 "a default
// instance is forked per document."
func NewDocument() *Document {
	d := &Document{VersionMajor: 1, VersionMinor: 1, Anchors: map[string]Node{}}
	d.Reset()
	return d
}

// Reset restores default tag directives; called at each DOCUMENT-START
// per SPEC_FULL.md's "tag directive scoping across document boundaries"
// supplement.
func (d *Document) Reset() {
	d.TagDirectives = []TagDirective{
		{Handle: "!", Prefix: "!"},
		{Handle: "!!", Prefix: "tag:yaml.org,2002:"},
	}
	d.generation++
}

// ResolveTagHandle looks up a %TAG handle against the document's current
// directive table (spec §3 invariant: "Each tag reference resolves against
// a tag directive present in the current document state; unknown handles
// are errors").
func (d *Document) ResolveTagHandle(handle string) (string, bool) {
	for i := len(d.TagDirectives) - 1; i >= 0; i-- {
		if d.TagDirectives[i].Handle == handle {
			return d.TagDirectives[i].Prefix, true
		}
	}
	return "", false
}

// NextVisitEpoch returns a fresh, monotonically distinct mark value scoped
// to this document's generation, suitable for passing to SetVisited in a
// fresh traversal.
func (d *Document) NextVisitEpoch() uint64 {
	d.generation++
	return d.generation
}

// SetVisited/Visited expose the node's raw visit-marker word to walkers
// (resolver cycle detection, path-expression alias depth guards).
func SetVisited(n Node, mark uint64) { n.setVisitMark(mark) }
func Visited(n Node, mark uint64) bool {
	return n.visitMark() == mark
}

// Walk assigns a document+parent to every node reachable from root in a
// single traversal, per spec §4.4 "parent back-references are filled in a
// single traversal."
func Walk(doc *Document, root Node) {
	if root == nil {
		return
	}
	root.setDocument(doc)
	switch n := root.(type) {
	case *SequenceNode:
		for _, v := range n.Values {
			v.setParent(n)
			Walk(doc, v)
		}
	case *MappingNode:
		for _, p := range n.Pairs {
			p.Key.setParent(n)
			p.Value.setParent(n)
			Walk(doc, p.Key)
			Walk(doc, p.Value)
		}
	}
}

// Equal implements the structural comparison spec §3 requires for mapping
// key equality: style-neutral scalar comparison (content only, ignoring
// quoting style) and alias-name equivalence for unresolved aliases.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch an := a.(type) {
	case *ScalarNode:
		bn := b.(*ScalarNode)
		if an.IsAlias != bn.IsAlias {
			return false
		}
		if an.IsAlias {
			return an.AliasName == bn.AliasName
		}
		av, bv := "", ""
		if an.tok != nil {
			av = an.tok.Value
		}
		if bn.tok != nil {
			bv = bn.tok.Value
		}
		return av == bv
	case *SequenceNode:
		bn := b.(*SequenceNode)
		if len(an.Values) != len(bn.Values) {
			return false
		}
		for i := range an.Values {
			if !Equal(an.Values[i], bn.Values[i]) {
				return false
			}
		}
		return true
	case *MappingNode:
		bn := b.(*MappingNode)
		if len(an.Pairs) != len(bn.Pairs) {
			return false
		}
		for i := range an.Pairs {
			if !Equal(an.Pairs[i].Key, bn.Pairs[i].Key) || !Equal(an.Pairs[i].Value, bn.Pairs[i].Value) {
				return false
			}
		}
		return true
	}
	return false
}

// sortRank implements spec §9's stable total order: mappings < sequences
// < scalars; aliases sort before non-aliases; scalars compare by content;
// ties break by original insertion index (the caller's responsibility to
// preserve, since sort.SliceStable is used).
func sortRank(n Node) int {
	switch t := n.(type) {
	case *MappingNode:
		return 0
	case *SequenceNode:
		return 1
	case *ScalarNode:
		if t.IsAlias {
			return 2
		}
		return 3
	}
	return 4
}

// Compare orders two nodes per spec §9's sort rule, for callers that need
// a deterministic ordering over mixed node kinds (e.g. `!!set` key
// canonicalization, test fixtures).
func Compare(a, b Node) int {
	ra, rb := sortRank(a), sortRank(b)
	if ra != rb {
		return ra - rb
	}
	if as, ok := a.(*ScalarNode); ok {
		bs := b.(*ScalarNode)
		av, bv := as.String(), bs.String()
		return strings.Compare(av, bv)
	}
	return 0
}

// Dump renders a node tree as an indented debug listing (not a YAML
// emitter — the core treats emission as an external collaborator per
// spec §1 non-goals).
func Dump(n Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch t := n.(type) {
	case *ScalarNode:
		fmt.Fprintf(sb, "%s%s\n", indent, t.String())
	case *SequenceNode:
		fmt.Fprintf(sb, "%s- (seq len=%d)\n", indent, len(t.Values))
		for _, v := range t.Values {
			dump(sb, v, depth+1)
		}
	case *MappingNode:
		fmt.Fprintf(sb, "%s(map len=%d)\n", indent, len(t.Pairs))
		for _, p := range t.Pairs {
			fmt.Fprintf(sb, "%s  %s:\n", indent, p.Key.String())
			dump(sb, p.Value, depth+2)
		}
	}
}

// SeqIndex parses a decimal sequence index used by path components and
// path-expression seq-index leaves (spec §3 Path component "seq-index is
// an int >= 0").
func SeqIndex(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
