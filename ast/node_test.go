package ast_test

import (
	"testing"

	"github.com/fyparse/fyparse/ast"
	"github.com/fyparse/fyparse/token"
)

func scalar(v string) *ast.ScalarNode {
	return ast.NewScalar(token.String(v, v, &token.Position{}))
}

func TestSequenceAppendWiresParent(t *testing.T) {
	seq := ast.NewSequence(nil, nil, true)
	child := scalar("a")
	seq.Append(child)
	if child.Parent() != seq {
		t.Fatal("Append did not set child parent")
	}
}

func TestMappingGetByStructuralKey(t *testing.T) {
	m := ast.NewMapping(nil, nil, true)
	m.Append(scalar("name"), scalar("value"), nil)
	got := m.Get("name")
	if got == nil || got.String() != "value" {
		t.Fatalf("Get(name) = %v", got)
	}
	if m.Get("missing") != nil {
		t.Fatal("expected nil for missing key")
	}
}

func TestEqualScalarsIgnoreUnrelatedState(t *testing.T) {
	a := scalar("1")
	b := scalar("1")
	if !ast.Equal(a, b) {
		t.Fatal("expected structurally-equal scalars to compare equal")
	}
	c := scalar("2")
	if ast.Equal(a, c) {
		t.Fatal("expected different scalars to compare unequal")
	}
}

func TestEqualAlias(t *testing.T) {
	a := ast.NewAlias(token.Alias("*x", &token.Position{}), "x")
	b := ast.NewAlias(token.Alias("*x", &token.Position{}), "x")
	c := ast.NewAlias(token.Alias("*y", &token.Position{}), "y")
	if !ast.Equal(a, b) {
		t.Fatal("expected same-named aliases to compare equal")
	}
	if ast.Equal(a, c) {
		t.Fatal("expected different-named aliases to compare unequal")
	}
}

func TestWalkAssignsDocumentAndParents(t *testing.T) {
	doc := ast.NewDocument()
	inner := ast.NewMapping(nil, nil, true)
	inner.Append(scalar("k"), scalar("v"), nil)
	seq := ast.NewSequence(nil, nil, true, inner)
	doc.Root = seq
	ast.Walk(doc, seq)

	if inner.Document() != doc {
		t.Fatal("expected inner mapping to be assigned the document")
	}
	if inner.Parent() != seq {
		t.Fatal("expected inner mapping's parent to be the sequence")
	}
	if inner.Pairs[0].Value.Parent() != inner {
		t.Fatal("expected pair value's parent to be the mapping")
	}
}

func TestDocumentResolveTagHandle(t *testing.T) {
	doc := ast.NewDocument()
	if prefix, ok := doc.ResolveTagHandle("!!"); !ok || prefix != "tag:yaml.org,2002:" {
		t.Fatalf("expected default !! handle, got %q %v", prefix, ok)
	}
	doc.TagDirectives = append(doc.TagDirectives, ast.TagDirective{Handle: "!e!", Prefix: "tag:example.com,2000:"})
	if prefix, ok := doc.ResolveTagHandle("!e!"); !ok || prefix != "tag:example.com,2000:" {
		t.Fatalf("expected custom handle resolution, got %q %v", prefix, ok)
	}
	if _, ok := doc.ResolveTagHandle("!unknown!"); ok {
		t.Fatal("expected unknown handle to fail resolution")
	}
}

func TestCompareOrdersMappingsBeforeSequencesBeforeScalars(t *testing.T) {
	m := ast.NewMapping(nil, nil, true)
	s := ast.NewSequence(nil, nil, true)
	sc := scalar("x")
	if ast.Compare(m, s) >= 0 {
		t.Fatal("expected mapping to sort before sequence")
	}
	if ast.Compare(s, sc) >= 0 {
		t.Fatal("expected sequence to sort before scalar")
	}
}

func TestSeqIndex(t *testing.T) {
	if n, ok := ast.SeqIndex("3"); !ok || n != 3 {
		t.Fatalf("SeqIndex(3) = %d, %v", n, ok)
	}
	if _, ok := ast.SeqIndex("-1"); ok {
		t.Fatal("expected negative index to fail")
	}
	if _, ok := ast.SeqIndex("x"); ok {
		t.Fatal("expected non-numeric index to fail")
	}
}
