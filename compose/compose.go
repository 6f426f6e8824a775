// Package compose implements spec components 4.6/4.7: it turns a
// resolved ast.Document into a value.Value tree, tracking a path
// context (the chain of map-keys/sequence-indices from the document
// root to the node currently being composed) so composition errors and
// downstream consumers can report *where* in the document they are.
//
// Grounded on a decode.go-style walk of ast.Node, carrying an
// carrying an analogous "path" of map/sequence steps for error
// messages; generalized here into a standalone composer decoupled from
// struct-decoding, per spec §4.6's composer/consumer split.
package compose

import (
	"fmt"
	"strings"

	"github.com/fyparse/fyparse/ast"
	"github.com/fyparse/fyparse/resolve"
	"github.com/fyparse/fyparse/resolver"
	"github.com/fyparse/fyparse/value"
	yamlv3 "go.yaml.in/yaml/v3"
)

// PathComponent is one step of a PathContext: either a mapping key or a
// sequence index.
type PathComponent struct {
	IsIndex bool
	Index   int
	Key     string
}

func (c PathComponent) String() string {
	if c.IsIndex {
		return fmt.Sprintf("[%d]", c.Index)
	}
	return "." + c.Key
}

// PathContext is the stack of PathComponents from the document root to
// the node currently being composed. It is exposed on Error so callers
// can render "$.a[2].b"-style locations.
type PathContext struct {
	components []PathComponent
}

func (p *PathContext) pushKey(key string) { p.components = append(p.components, PathComponent{Key: key}) }
func (p *PathContext) pushIndex(i int) {
	p.components = append(p.components, PathComponent{IsIndex: true, Index: i})
}
func (p *PathContext) pop() { p.components = p.components[:len(p.components)-1] }

// String renders the path in the spec's root-relative dotted/bracket
// notation, e.g. "$.servers[0].name".
func (p *PathContext) String() string {
	var b strings.Builder
	b.WriteString("$")
	for _, c := range p.components {
		b.WriteString(c.String())
	}
	return b.String()
}

// snapshot returns an independent copy of the current path, since the
// live PathContext keeps mutating as composition continues.
func (p *PathContext) snapshot() []PathComponent {
	out := make([]PathComponent, len(p.components))
	copy(out, p.components)
	return out
}

// Error reports a composition failure together with the path at which
// it occurred.
type Error struct {
	Path []PathComponent
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("$")
	for _, c := range e.Path {
		b.WriteString(c.String())
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Composer turns resolved ast.Documents into value.Value trees.
type Composer struct {
	res       *resolver.Resolver
	schema    resolve.Schema
	schemaSet bool
	path      PathContext
}

// Option configures a Composer.
type Option func(*Composer)

// WithSchema pins the core-schema scalar spelling table, overriding
// Compose's own per-document default (Schema11 for %YAML 1.1 documents)
// regardless of what each document declares.
func WithSchema(s resolve.Schema) Option {
	return func(c *Composer) { c.schema = s; c.schemaSet = true }
}

func New(res *resolver.Resolver, opts ...Option) *Composer {
	c := &Composer{res: res}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose converts doc's root into a value.Value. doc should already
// have been passed through a resolver.Resolver.Resolve call so aliases
// and merge keys are in place.
func (c *Composer) Compose(doc *ast.Document) (value.Value, error) {
	if !c.schemaSet && doc.VersionMinor == 1 {
		c.schema = resolve.Schema11
	}
	if doc.Root == nil {
		return value.Null(), nil
	}
	return c.composeNode(doc.Root)
}

func (c *Composer) fail(err error) error {
	return &Error{Path: c.path.snapshot(), Err: err}
}

func (c *Composer) composeNode(n ast.Node) (value.Value, error) {
	switch t := n.(type) {
	case *ast.ScalarNode:
		if t.IsAlias {
			if c.res == nil {
				return value.Value{}, c.fail(fmt.Errorf("alias *%s encountered with no resolver configured", t.AliasName))
			}
			target, err := c.res.Dereference(t)
			if err != nil {
				return value.Value{}, c.fail(err)
			}
			return c.composeNode(target)
		}
		return c.composeScalar(t), nil
	case *ast.SequenceNode:
		return c.composeSequence(t)
	case *ast.MappingNode:
		return c.composeMapping(t)
	default:
		return value.Value{}, c.fail(fmt.Errorf("compose: unsupported node kind %v", n.Kind()))
	}
}

func (c *Composer) composeSequence(n *ast.SequenceNode) (value.Value, error) {
	items := make([]value.Value, 0, len(n.Values))
	for i, v := range n.Values {
		c.path.pushIndex(i)
		cv, err := c.composeNode(v)
		c.path.pop()
		if err != nil {
			return value.Value{}, err
		}
		items = append(items, cv)
	}
	out := value.Sequence(items...)
	return out, nil
}

func (c *Composer) composeMapping(n *ast.MappingNode) (value.Value, error) {
	pairs := make([]value.Pair, 0, len(n.Pairs))
	for _, p := range n.Pairs {
		keyVal, err := c.composeNode(p.Key)
		if err != nil {
			return value.Value{}, err
		}
		c.path.pushKey(keyLabel(keyVal, p.Key))
		valVal, err := c.composeNode(p.Value)
		c.path.pop()
		if err != nil {
			return value.Value{}, err
		}
		pairs = append(pairs, value.Pair{Key: keyVal, Value: valVal})
	}
	return value.Mapping(pairs...), nil
}

// keyLabel renders a path component label for a mapping key. Scalar
// keys use their plain text; a non-scalar (sequence/mapping) key is
// serialized flow-oneline via go.yaml.in/yaml/v3 so the path stays a
// single readable segment (spec §4.7 "complex-key accumulation").
func keyLabel(v value.Value, keyNode ast.Node) string {
	if keyNode.Kind() == ast.ScalarKind {
		return v.String()
	}
	out, err := yamlv3.Marshal(flowOneLine(keyNode))
	if err != nil {
		return keyNode.String()
	}
	return "{" + strings.TrimSpace(strings.ReplaceAll(string(out), "\n", " ")) + "}"
}

// flowOneLine projects an ast.Node into plain Go data so yaml/v3 can
// render it; it's a narrow adapter used only for complex-key path
// labels, not a general-purpose encoder.
func flowOneLine(n ast.Node) interface{} {
	switch t := n.(type) {
	case *ast.ScalarNode:
		return t.String()
	case *ast.SequenceNode:
		out := make([]interface{}, len(t.Values))
		for i, v := range t.Values {
			out[i] = flowOneLine(v)
		}
		return out
	case *ast.MappingNode:
		out := make(yamlv3.MapSlice, len(t.Pairs))
		for i, p := range t.Pairs {
			out[i] = yamlv3.MapItem{Key: flowOneLine(p.Key), Value: flowOneLine(p.Value)}
		}
		return out
	}
	return nil
}

func (c *Composer) composeScalar(n *ast.ScalarNode) value.Value {
	tk := n.Token()
	if tk == nil {
		return value.String(n.String())
	}
	v := scalarValue(tk)
	if tag := n.Tag(); tag != nil {
		v.Tag = tag.Value
	}
	if v.Kind() == value.KindString && c.schema == resolve.Schema11 {
		if b, ok := resolve.Bool11(tk.Value); ok {
			return withTag(value.Bool(b), v.Tag)
		}
	}
	return v
}
