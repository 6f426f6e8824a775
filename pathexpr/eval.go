package pathexpr

import (
	"fmt"
	"strings"

	"github.com/fyparse/fyparse/ast"
	"github.com/fyparse/fyparse/resolver"
)

// DefaultMaxDepth bounds alias-following recursion during evaluation
// (spec §4.8 "a per-evaluation depth counter ... bounds alias-following
// chains").
const DefaultMaxDepth = 16

// Evaluator runs a parsed Expr against a document.
type Evaluator struct {
	res      *resolver.Resolver
	maxDepth int
	// Warnings accumulates non-fatal diagnostics from the most recent
	// Eval call — currently only the documented PE_SIBLING-on-non-map-key
	// case (spec §4.8 Open Question: "treat as a parser warning").
	Warnings []string
}

// Option configures an Evaluator.
type Option func(*Evaluator)

func WithMaxDepth(n int) Option { return func(e *Evaluator) { e.maxDepth = n } }

// New builds an Evaluator. res resolves `*name` anchor lookups; it may
// be nil if the expression is known not to use alias forms.
func New(res *resolver.Resolver, opts ...Option) *Evaluator {
	e := &Evaluator{res: res, maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type evalCtx struct {
	root    ast.Node
	visited map[ast.Node]bool
}

// Eval evaluates expr against start, with root supplying ^ (root) and
// alias-path lookups. It returns an ordered, duplicate-free node list
// (spec §4.8 "evaluating E at n returns an ordered list with no
// duplicates").
func (e *Evaluator) Eval(root ast.Node, expr *Expr, start ast.Node) ([]ast.Node, error) {
	e.Warnings = nil
	ctx := &evalCtx{root: root, visited: map[ast.Node]bool{}}
	return e.eval(ctx, expr, start, 0)
}

func dedupe(nodes []ast.Node) []ast.Node {
	seen := make(map[ast.Node]bool, len(nodes))
	out := make([]ast.Node, 0, len(nodes))
	for _, n := range nodes {
		if n == nil || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

func (e *Evaluator) eval(ctx *evalCtx, expr *Expr, cur ast.Node, depth int) ([]ast.Node, error) {
	switch expr.Kind {
	case KindRoot:
		return []ast.Node{ctx.root}, nil
	case KindThis:
		return []ast.Node{cur}, nil
	case KindParent:
		if p := cur.Parent(); p != nil {
			return []ast.Node{p}, nil
		}
		return nil, nil
	case KindMapKey:
		return e.evalMapKey(expr, cur), nil
	case KindSeqIndex:
		s, ok := cur.(*ast.SequenceNode)
		if !ok || expr.Index < 0 || expr.Index >= len(s.Values) {
			return nil, nil
		}
		return []ast.Node{s.Values[expr.Index]}, nil
	case KindSeqSlice:
		s, ok := cur.(*ast.SequenceNode)
		if !ok {
			return nil, nil
		}
		start, end := expr.SliceStart, expr.SliceEnd
		if start < 0 {
			start = 0
		}
		if end > len(s.Values) {
			end = len(s.Values)
		}
		if start > end {
			start = end
		}
		out := make([]ast.Node, 0, end-start)
		for i := start; i < end; i++ {
			out = append(out, s.Values[i])
		}
		return out, nil
	case KindEveryChild:
		return everyChildren(cur), nil
	case KindEveryChildRecursive:
		return everyDescendantInclusive(cur), nil
	case KindAlias:
		return e.evalAlias(ctx, expr, depth)
	case KindAliasPath:
		n, err := e.evalInlinePath(ctx, expr.AliasPath)
		if err != nil {
			return nil, err
		}
		return []ast.Node{n}, nil
	case KindFilterScalar:
		return e.filterAtom(ctx, expr, cur, depth, func(n ast.Node) bool { return n.Kind() == ast.ScalarKind })
	case KindFilterCollection:
		return e.filterAtom(ctx, expr, cur, depth, func(n ast.Node) bool { return n.Kind() != ast.ScalarKind })
	case KindFilterSeq:
		return e.filterAtom(ctx, expr, cur, depth, func(n ast.Node) bool { return n.Kind() == ast.SequenceKind })
	case KindFilterMap:
		return e.filterAtom(ctx, expr, cur, depth, func(n ast.Node) bool { return n.Kind() == ast.MappingKind })
	case KindChain:
		ws := []ast.Node{cur}
		for _, child := range expr.Children {
			var next []ast.Node
			for _, n := range ws {
				r, err := e.eval(ctx, child, n, depth)
				if err != nil {
					return nil, err
				}
				next = append(next, r...)
			}
			ws = dedupe(next)
		}
		return ws, nil
	case KindMulti:
		var all []ast.Node
		for _, child := range expr.Children {
			r, err := e.eval(ctx, child, cur, depth)
			if err != nil {
				return nil, err
			}
			all = append(all, r...)
		}
		return dedupe(all), nil
	case KindSibling:
		return e.evalSibling(ctx, expr, cur, depth)
	case KindOr:
		for _, child := range expr.Children {
			r, err := e.eval(ctx, child, cur, depth)
			if err == nil && len(r) > 0 {
				return r, nil
			}
		}
		return nil, nil
	case KindAnd:
		var last []ast.Node
		for _, child := range expr.Children {
			r, err := e.eval(ctx, child, cur, depth)
			if err != nil || len(r) == 0 {
				return nil, nil
			}
			last = r
		}
		return last, nil
	}
	return nil, fmt.Errorf("pathexpr: unhandled expr kind %v", expr.Kind)
}

func (e *Evaluator) evalMapKey(expr *Expr, cur ast.Node) []ast.Node {
	m, ok := cur.(*ast.MappingNode)
	if !ok {
		return nil
	}
	if v := m.Get(expr.Key); v != nil {
		return []ast.Node{v}
	}
	if len(expr.Key) > 0 && (expr.Key[0] == '{' || expr.Key[0] == '[') {
		want := strings.TrimSpace(expr.Key)
		for _, p := range m.Pairs {
			if p.Key.Kind() != ast.ScalarKind && strings.TrimSpace(p.Key.String()) == want {
				return []ast.Node{p.Value}
			}
		}
	}
	return nil
}

func (e *Evaluator) evalAlias(ctx *evalCtx, expr *Expr, depth int) ([]ast.Node, error) {
	if depth+1 > e.maxDepth {
		return nil, fmt.Errorf("pathexpr: max depth exceeded")
	}
	if e.res == nil {
		return nil, fmt.Errorf("pathexpr: alias %q used with no resolver configured", expr.AliasName)
	}
	target, ok := e.res.Lookup(expr.AliasName)
	if !ok {
		return nil, fmt.Errorf("pathexpr: undefined alias %q", expr.AliasName)
	}
	if ctx.visited[target] {
		return nil, fmt.Errorf("pathexpr: cyclic reference via alias %q", expr.AliasName)
	}
	ctx.visited[target] = true
	resolved, err := e.res.Dereference(target)
	if err != nil {
		return nil, err
	}
	return []ast.Node{resolved}, nil
}

func (e *Evaluator) filterAtom(ctx *evalCtx, expr *Expr, cur ast.Node, depth int, pred func(ast.Node) bool) ([]ast.Node, error) {
	inner, err := e.eval(ctx, expr.Children[0], cur, depth)
	if err != nil {
		return nil, err
	}
	var out []ast.Node
	for _, n := range inner {
		if pred(n) {
			out = append(out, n)
		}
	}
	return out, nil
}

// evalSibling implements the `:` operator. Per the documented Open
// Question decision, applying it to a result that isn't reached through
// a mapping entry (i.e. whose parent isn't a MappingNode) is a
// non-fatal warning rather than a hard failure: the offending node is
// skipped and recorded in e.Warnings.
func (e *Evaluator) evalSibling(ctx *evalCtx, expr *Expr, cur ast.Node, depth int) ([]ast.Node, error) {
	leftNodes, err := e.eval(ctx, expr.Left, cur, depth)
	if err != nil {
		return nil, err
	}
	var out []ast.Node
	for _, n := range leftNodes {
		parent := n.Parent()
		mp, ok := parent.(*ast.MappingNode)
		if !ok {
			e.Warnings = append(e.Warnings, fmt.Sprintf(
				"pathexpr: sibling operator ':' applied to a node (kind=%v) not reached through a mapping entry; skipped", n.Kind()))
			continue
		}
		key, ok := siblingKeyText(expr.Right)
		if !ok {
			return nil, fmt.Errorf("pathexpr: sibling operator ':' right-hand side must be a map key")
		}
		if v := mp.Get(key); v != nil {
			out = append(out, v)
		}
	}
	return dedupe(out), nil
}

func siblingKeyText(expr *Expr) (string, bool) {
	if expr.Kind == KindMapKey {
		return expr.Key, true
	}
	return "", false
}

func everyChildren(n ast.Node) []ast.Node {
	switch t := n.(type) {
	case *ast.SequenceNode:
		out := make([]ast.Node, len(t.Values))
		copy(out, t.Values)
		return out
	case *ast.MappingNode:
		out := make([]ast.Node, len(t.Pairs))
		for i, p := range t.Pairs {
			out[i] = p.Value
		}
		return out
	default:
		return []ast.Node{n}
	}
}

func everyDescendantInclusive(n ast.Node) []ast.Node {
	out := []ast.Node{n}
	switch t := n.(type) {
	case *ast.SequenceNode:
		for _, v := range t.Values {
			out = append(out, everyDescendantInclusive(v)...)
		}
	case *ast.MappingNode:
		for _, p := range t.Pairs {
			out = append(out, everyDescendantInclusive(p.Value)...)
		}
	}
	return out
}

// evalInlinePath resolves a `*</path/...>` literal path, walking from
// root component-by-component using the same `/`-joined text the path
// context serializer produces (spec §4.8, §4.7 "Path text format").
func (e *Evaluator) evalInlinePath(ctx *evalCtx, text string) (ast.Node, error) {
	trimmed := strings.Trim(text, "/")
	if trimmed == "" {
		return ctx.root, nil
	}
	cur := ctx.root
	for _, part := range strings.Split(trimmed, "/") {
		switch t := cur.(type) {
		case *ast.MappingNode:
			v := t.Get(part)
			if v == nil {
				return nil, fmt.Errorf("pathexpr: inline alias path component %q not found", part)
			}
			cur = v
		case *ast.SequenceNode:
			idx, ok := ast.SeqIndex(part)
			if !ok || idx < 0 || idx >= len(t.Values) {
				return nil, fmt.Errorf("pathexpr: inline alias path index %q out of range", part)
			}
			cur = t.Values[idx]
		default:
			return nil, fmt.Errorf("pathexpr: inline alias path component %q applied to a scalar", part)
		}
	}
	return cur, nil
}
