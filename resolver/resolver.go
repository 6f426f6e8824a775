// Package resolver implements spec component 4.5: anchor registration,
// alias dereferencing with cycle detection, and merge-key (`<<`)
// expansion. It is grounded on a decode-time anchor handling
// (goccy's decoder keeps a `map[string]ast.Node` of anchors seen so far
// and substitutes on `*alias`) generalized into a standalone pass over
// an already-built ast.Document, since this spec treats resolution as
// its own component rather than something folded into struct decoding.
package resolver

import (
	"fmt"

	"github.com/fyparse/fyparse/ast"
)

// DefaultMaxAliasDepth bounds alias-chain-following recursion (spec §4.5
// "cycle detection with configurable max depth (default 16)").
const DefaultMaxAliasDepth = 16

// Resolver holds the anchor registry for one document tree.
type Resolver struct {
	anchors     map[string]ast.Node
	maxDepth    int
	expandMerge bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMaxAliasDepth overrides DefaultMaxAliasDepth.
func WithMaxAliasDepth(n int) Option {
	return func(r *Resolver) { r.maxDepth = n }
}

// WithMergeKeyExpansion toggles `<<` merge-key expansion (on by default).
func WithMergeKeyExpansion(enabled bool) Option {
	return func(r *Resolver) { r.expandMerge = enabled }
}

// New builds a Resolver ready to resolve doc.
func New(opts ...Option) *Resolver {
	r := &Resolver{anchors: map[string]ast.Node{}, maxDepth: DefaultMaxAliasDepth, expandMerge: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve walks doc, registering every anchor, verifying every alias
// dereferences to a known anchor within the configured depth, and
// expanding merge keys in mapping nodes. It mutates mapping nodes in
// place (merge expansion) but does not replace alias nodes themselves —
// callers needing the dereferenced value use Dereference, so that a
// document round-trips back to source faithfully (spec §8 round-trip
// property).
func (r *Resolver) Resolve(doc *ast.Document) error {
	r.collectAnchors(doc.Root)
	if err := r.checkAliases(doc.Root, 0); err != nil {
		return err
	}
	if r.expandMerge {
		if err := r.expandMerges(doc.Root, map[ast.Node]bool{}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) collectAnchors(n ast.Node) {
	if n == nil {
		return
	}
	if name := n.AnchorName(); name != "" {
		r.anchors[name] = n
	}
	switch t := n.(type) {
	case *ast.SequenceNode:
		for _, v := range t.Values {
			r.collectAnchors(v)
		}
	case *ast.MappingNode:
		for _, p := range t.Pairs {
			r.collectAnchors(p.Key)
			r.collectAnchors(p.Value)
		}
	}
}

func (r *Resolver) checkAliases(n ast.Node, depth int) error {
	if n == nil {
		return nil
	}
	if depth > r.maxDepth {
		return fmt.Errorf("resolver: alias depth exceeded %d", r.maxDepth)
	}
	switch t := n.(type) {
	case *ast.ScalarNode:
		if t.IsAlias {
			target, ok := r.anchors[t.AliasName]
			if !ok {
				return fmt.Errorf("resolver: undefined alias %q", t.AliasName)
			}
			return r.checkAliases(target, depth+1)
		}
	case *ast.SequenceNode:
		for _, v := range t.Values {
			if err := r.checkAliases(v, depth); err != nil {
				return err
			}
		}
	case *ast.MappingNode:
		for _, p := range t.Pairs {
			if err := r.checkAliases(p.Key, depth); err != nil {
				return err
			}
			if err := r.checkAliases(p.Value, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

// Lookup returns the node registered under anchor name, for callers
// (the path-expression evaluator's `*name` form) that need direct
// anchor-table access rather than dereferencing an existing alias node.
func (r *Resolver) Lookup(name string) (ast.Node, bool) {
	n, ok := r.anchors[name]
	return n, ok
}

// Dereference follows an alias node to its anchor target, following
// chains of aliases-to-aliases up to the configured max depth.
func (r *Resolver) Dereference(n ast.Node) (ast.Node, error) {
	depth := 0
	for {
		sc, ok := n.(*ast.ScalarNode)
		if !ok || !sc.IsAlias {
			return n, nil
		}
		if depth > r.maxDepth {
			return nil, fmt.Errorf("resolver: alias depth exceeded %d", r.maxDepth)
		}
		target, ok := r.anchors[sc.AliasName]
		if !ok {
			return nil, fmt.Errorf("resolver: undefined alias %q", sc.AliasName)
		}
		n = target
		depth++
	}
}

// isMergeKey reports whether a pair's key is the `<<` merge-key scalar.
func isMergeKey(n ast.Node) bool {
	sc, ok := n.(*ast.ScalarNode)
	return ok && !sc.IsAlias && sc.Token() != nil && sc.Token().Value == "<<"
}

// expandMerges rewrites every MappingNode containing a `<<` pair,
// folding in keys from the referenced mapping(s) that the mapping itself
// does not already define (spec §4.5 "merge-key (`<<`) expansion";
// existing keys always win over merged-in ones, matching the core schema
// merge-key rule).
func (r *Resolver) expandMerges(n ast.Node, seen map[ast.Node]bool) error {
	if n == nil || seen[n] {
		return nil
	}
	seen[n] = true
	switch t := n.(type) {
	case *ast.SequenceNode:
		for _, v := range t.Values {
			if err := r.expandMerges(v, seen); err != nil {
				return err
			}
		}
	case *ast.MappingNode:
		var merges []*ast.Pair
		kept := t.Pairs[:0:0]
		for _, p := range t.Pairs {
			if isMergeKey(p.Key) {
				merges = append(merges, p)
				continue
			}
			kept = append(kept, p)
		}
		t.Pairs = kept
		for _, p := range t.Pairs {
			if err := r.expandMerges(p.Value, seen); err != nil {
				return err
			}
		}
		for _, merge := range merges {
			sources, err := r.mergeSources(merge.Value)
			if err != nil {
				return err
			}
			for _, src := range sources {
				if err := r.expandMerges(src, seen); err != nil {
					return err
				}
				srcMap, ok := src.(*ast.MappingNode)
				if !ok {
					return fmt.Errorf("resolver: merge key value is not a mapping (%T)", src)
				}
				for _, sp := range srcMap.Pairs {
					if t.Get(keyString(sp.Key)) == nil {
						t.Append(sp.Key, sp.Value, sp.Tok)
					}
				}
			}
		}
	}
	return nil
}

func keyString(n ast.Node) string {
	if sc, ok := n.(*ast.ScalarNode); ok && sc.Token() != nil {
		return sc.Token().Value
	}
	return ""
}

// mergeSources resolves the value of a `<<` pair into the mapping(s) it
// names: either a single aliased mapping or a sequence of aliased
// mappings (spec glossary "Merge key").
func (r *Resolver) mergeSources(v ast.Node) ([]ast.Node, error) {
	resolved, err := r.Dereference(v)
	if err != nil {
		return nil, err
	}
	if seq, ok := resolved.(*ast.SequenceNode); ok {
		out := make([]ast.Node, 0, len(seq.Values))
		for _, item := range seq.Values {
			d, err := r.Dereference(item)
			if err != nil {
				return nil, err
			}
			out = append(out, d)
		}
		return out, nil
	}
	return []ast.Node{resolved}, nil
}
