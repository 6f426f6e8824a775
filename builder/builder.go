// Package builder implements spec component 4.4: the document builder
// that consumes the parser's event stream one event at a time and
// assembles ast.Node trees, the way a decode pass walks
// a token stream into nodes generalized here into its own pipeline stage
// so the parser/builder split spec §2's dataflow table names ("bytes ->
// reader -> scanner -> token queue -> parser -> event stream -> {document
// builder, composer}") actually exists as two packages instead of one
// fused pass.
//
// Build keeps a stack of builder contexts {root, sequence, mapping},
// exactly spec §4.4's description: a mapping context tracks "have key?"
// and the pending key node; on SequenceEnd/MappingEnd the completed
// container is delivered to its parent context. Duplicate keys are
// detected by structural comparison (ast.Equal, spec §3) and reported at
// the key's source position. Tag/anchor tokens carried on a Start/Scalar/
// Alias event are applied to the node that event introduces, and anchors
// are registered into the owning ast.Document as they're seen. After a
// document's root completes, parent back-references are filled in one
// ast.Walk traversal; if the caller wants alias/merge-key resolution, it
// invokes the resolver package next (spec §4.4's "if configured to
// resolve, the resolver is invoked next" — kept a separate, opt-in step
// here rather than folded into Build, matching resolver's existing
// standalone-pass design).
package builder

import (
	"fmt"

	"github.com/fyparse/fyparse/ast"
	"github.com/fyparse/fyparse/parser"
	"github.com/fyparse/fyparse/token"
)

type frameKind int

const (
	frameRoot frameKind = iota
	frameSeq
	frameMap
)

type frame struct {
	kind frameKind

	seq  *ast.SequenceNode
	mapp *ast.MappingNode
	root ast.Node

	haveKey    bool
	pendingKey ast.Node

	// valueColon is the ':' token (if any) the parser attached to the
	// Start event that opened this frame, applied when this frame's
	// completed node is delivered to its parent.
	valueColon *token.Token
}

// Build parses toks and assembles one ast.Document per stream document,
// driving parser.New(toks).ParseEvents() and consuming its event stream.
func Build(toks token.Tokens) ([]*ast.Document, error) {
	events, err := parser.New(toks).ParseEvents()
	if err != nil {
		return nil, err
	}
	return build(events)
}

func build(events []parser.Event) ([]*ast.Document, error) {
	var docs []*ast.Document
	var stack []*frame
	var cur *ast.Document

	deliver := func(n ast.Node, colon *token.Token) error {
		top := stack[len(stack)-1]
		switch top.kind {
		case frameRoot:
			top.root = n
		case frameSeq:
			top.seq.Append(n)
		case frameMap:
			if !top.haveKey {
				top.pendingKey = n
				top.haveKey = true
				return nil
			}
			for _, p := range top.mapp.Pairs {
				if ast.Equal(p.Key, top.pendingKey) {
					pos := "?"
					if tk := top.pendingKey.Token(); tk != nil && tk.Position != nil {
						pos = tk.Position.String()
					}
					return fmt.Errorf("builder: duplicate mapping key %q at %s", top.pendingKey.String(), pos)
				}
			}
			top.mapp.Append(top.pendingKey, n, colon)
			top.haveKey = false
			top.pendingKey = nil
		}
		return nil
	}

	registerAnchor := func(name string, n ast.Node) {
		if name == "" || cur == nil {
			return
		}
		cur.Anchors[name] = n
	}

	for _, ev := range events {
		switch ev.Type {
		case parser.DocumentStartEvent:
			cur = ast.NewDocument()
			cur.TagDirectives = append(cur.TagDirectives, ev.TagDirectives...)
			cur.ExplicitStart = ev.ExplicitStart
			cur.ImplicitStart = !ev.ExplicitStart
			cur.StartTok = ev.Tok
			stack = []*frame{{kind: frameRoot}}

		case parser.DocumentEndEvent:
			root := stack[0].root
			cur.Root = root
			cur.ExplicitEnd = ev.ExplicitEnd
			cur.ImplicitEnd = !ev.ExplicitEnd
			cur.EndTok = ev.Tok
			if root != nil {
				ast.Walk(cur, root)
			}
			docs = append(docs, cur)
			stack = nil
			cur = nil

		case parser.SequenceStartEvent:
			seq := ast.NewSequence(ev.Tok, nil, ev.IsFlow)
			seq.SetAnchorName(ev.Anchor)
			seq.SetTag(ev.Tag)
			registerAnchor(ev.Anchor, seq)
			stack = append(stack, &frame{kind: frameSeq, seq: seq, valueColon: ev.Colon})

		case parser.SequenceEndEvent:
			top := stack[len(stack)-1]
			top.seq.EndTok = ev.Tok
			stack = stack[:len(stack)-1]
			if err := deliver(top.seq, top.valueColon); err != nil {
				return nil, err
			}

		case parser.MappingStartEvent:
			m := ast.NewMapping(ev.Tok, nil, ev.IsFlow)
			m.SetAnchorName(ev.Anchor)
			m.SetTag(ev.Tag)
			registerAnchor(ev.Anchor, m)
			stack = append(stack, &frame{kind: frameMap, mapp: m, valueColon: ev.Colon})

		case parser.MappingEndEvent:
			top := stack[len(stack)-1]
			top.mapp.EndTok = ev.Tok
			stack = stack[:len(stack)-1]
			if err := deliver(top.mapp, top.valueColon); err != nil {
				return nil, err
			}

		case parser.ScalarEvent:
			n := ast.NewScalar(ev.Tok)
			n.SetAnchorName(ev.Anchor)
			n.SetTag(ev.Tag)
			registerAnchor(ev.Anchor, n)
			if err := deliver(n, ev.Colon); err != nil {
				return nil, err
			}

		case parser.AliasEvent:
			n := ast.NewAlias(ev.Tok, ev.Tok.Value)
			n.SetAnchorName(ev.Anchor)
			n.SetTag(ev.Tag)
			if err := deliver(n, ev.Colon); err != nil {
				return nil, err
			}
		}
	}

	if len(docs) == 0 {
		docs = append(docs, ast.NewDocument())
	}
	return docs, nil
}
