package pathexpr_test

import (
	"testing"

	"github.com/fyparse/fyparse/ast"
	"github.com/fyparse/fyparse/builder"
	"github.com/fyparse/fyparse/input"
	"github.com/fyparse/fyparse/pathexpr"
	"github.com/fyparse/fyparse/resolver"
	"github.com/fyparse/fyparse/scanner"
)

func parseDoc(t *testing.T, src string) *ast.Document {
	t.Helper()
	in := input.Open("mem", []byte(src), false, input.JSONOff)
	rd, err := input.NewReader(in)
	if err != nil {
		t.Fatal(err)
	}
	toks, err := scanner.New(rd, false, input.TabOff, 0).Scan()
	if err != nil {
		t.Fatal(err)
	}
	docs, err := builder.Build(toks)
	if err != nil {
		t.Fatal(err)
	}
	return docs[0]
}

func evalExpr(t *testing.T, res *resolver.Resolver, doc *ast.Document, exprText string) []ast.Node {
	t.Helper()
	expr, err := pathexpr.Parse(exprText)
	if err != nil {
		t.Fatalf("Parse(%q): %v", exprText, err)
	}
	ev := pathexpr.New(res)
	got, err := ev.Eval(doc.Root, expr, doc.Root)
	if err != nil {
		t.Fatalf("Eval(%q): %v", exprText, err)
	}
	return got
}

func TestMapKeyChain(t *testing.T) {
	doc := parseDoc(t, "a:\n  b: 1\n")
	got := evalExpr(t, nil, doc, "/a/b")
	if len(got) != 1 || got[0].String() != "1" {
		t.Fatalf("got %v", got)
	}
}

func TestSeqIndexAndSlice(t *testing.T) {
	doc := parseDoc(t, "items:\n  - 1\n  - 2\n  - 3\n  - 4\n")
	got := evalExpr(t, nil, doc, "/items/1")
	if len(got) != 1 || got[0].String() != "2" {
		t.Fatalf("index got %v", got)
	}
	got = evalExpr(t, nil, doc, "/items/1:3")
	if len(got) != 2 || got[0].String() != "2" || got[1].String() != "3" {
		t.Fatalf("slice got %v", got)
	}
}

func TestEveryChild(t *testing.T) {
	doc := parseDoc(t, "items:\n  - 1\n  - 2\n  - 3\n")
	got := evalExpr(t, nil, doc, "/items/*")
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestEveryChildRecursive(t *testing.T) {
	doc := parseDoc(t, "a:\n  b:\n    c: 1\n")
	got := evalExpr(t, nil, doc, "/**$")
	if len(got) == 0 {
		t.Fatal("expected at least one scalar descendant")
	}
	for _, n := range got {
		if n.Kind() != ast.ScalarKind {
			t.Fatalf("filter-scalar leaked a non-scalar: %v", n)
		}
	}
}

func TestAliasLookup(t *testing.T) {
	doc := parseDoc(t, "&a foo\n")
	r := resolver.New()
	if err := r.Resolve(doc); err != nil {
		t.Fatal(err)
	}
	got := evalExpr(t, r, doc, "*a")
	if len(got) != 1 || got[0].String() != "foo" {
		t.Fatalf("got %v", got)
	}
}

func TestMultiUnion(t *testing.T) {
	doc := parseDoc(t, "a: 1\nb: 2\nc: 3\n")
	got := evalExpr(t, nil, doc, "/a,/b")
	if len(got) != 2 || got[0].String() != "1" || got[1].String() != "2" {
		t.Fatalf("got %v", got)
	}
}

func TestSibling(t *testing.T) {
	doc := parseDoc(t, "a: 1\nb: 2\n")
	got := evalExpr(t, nil, doc, "/a:b")
	if len(got) != 1 || got[0].String() != "2" {
		t.Fatalf("got %v", got)
	}
}

func TestSiblingOnNonMapLeafWarns(t *testing.T) {
	doc := parseDoc(t, "items:\n  - 1\n  - 2\n")
	expr, err := pathexpr.Parse("/items/0:foo")
	if err != nil {
		t.Fatal(err)
	}
	ev := pathexpr.New(nil)
	got, err := ev.Eval(doc.Root, expr, doc.Root)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results for sibling on a sequence element, got %v", got)
	}
	if len(ev.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", ev.Warnings)
	}
}

func TestLogicalOr(t *testing.T) {
	doc := parseDoc(t, "b: 2\n")
	got := evalExpr(t, nil, doc, "(/a||/b)")
	if len(got) != 1 || got[0].String() != "2" {
		t.Fatalf("got %v", got)
	}
}

func TestLogicalAnd(t *testing.T) {
	doc := parseDoc(t, "a: 1\nb: 2\n")
	got := evalExpr(t, nil, doc, "(/a&&/b)")
	if len(got) != 1 || got[0].String() != "2" {
		t.Fatalf("got %v", got)
	}
	doc2 := parseDoc(t, "a: 1\n")
	got2 := evalExpr(t, nil, doc2, "(/a&&/b)")
	if len(got2) != 0 {
		t.Fatalf("expected empty result when one side fails, got %v", got2)
	}
}
