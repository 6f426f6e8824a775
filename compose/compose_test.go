package compose_test

import (
	"strings"
	"testing"

	"github.com/fyparse/fyparse/builder"
	"github.com/fyparse/fyparse/compose"
	"github.com/fyparse/fyparse/input"
	"github.com/fyparse/fyparse/resolver"
	"github.com/fyparse/fyparse/scanner"
	"github.com/fyparse/fyparse/value"
)

func composeOne(t *testing.T, src string) value.Value {
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
	doc := docs[0]
	r := resolver.New()
	if err := r.Resolve(doc); err != nil {
		t.Fatal(err)
	}
	v, err := compose.New(r).Compose(doc)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

func TestComposeScalarKinds(t *testing.T) {
	v := composeOne(t, "a: 1\nb: 1.5\nc: true\nd: null\ne: hello\n")
	m := v
	if got, _ := m.Get("a"); got.Int() != 1 {
		t.Fatalf("a = %v", got)
	}
	if got, _ := m.Get("b"); got.Float() != 1.5 {
		t.Fatalf("b = %v", got)
	}
	if got, _ := m.Get("c"); got.Kind() != value.KindBool || !got.Bool() {
		t.Fatalf("c = %v", got)
	}
	if got, _ := m.Get("d"); !got.IsNull() {
		t.Fatalf("d = %v", got)
	}
	if got, _ := m.Get("e"); got.Str() != "hello" {
		t.Fatalf("e = %v", got)
	}
}

func TestComposeSequence(t *testing.T) {
	v := composeOne(t, "- 1\n- 2\n- 3\n")
	if v.Kind() != value.KindSequence || v.Len() != 3 {
		t.Fatalf("got %v", v)
	}
	if v.Seq()[1].Int() != 2 {
		t.Fatalf("seq[1] = %v", v.Seq()[1])
	}
}

func TestComposeDereferencesAlias(t *testing.T) {
	v := composeOne(t, "a: &x 1\nb: *x\n")
	got, _ := v.Get("b")
	if got.Int() != 1 {
		t.Fatalf("b = %v", got)
	}
}

func TestComposeHexAndOctalIntegers(t *testing.T) {
	v := composeOne(t, "hex: 0x1F\noct: 0o17\n")
	if got, _ := v.Get("hex"); got.Int() != 31 {
		t.Fatalf("hex = %v", got)
	}
	if got, _ := v.Get("oct"); got.Int() != 15 {
		t.Fatalf("oct = %v", got)
	}
}

func TestComposeReportsPathOnError(t *testing.T) {
	in := input.Open("mem", []byte("a:\n  b: *missing\n"), false, input.JSONOff)
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
	doc := docs[0]
	// Skip Resolve so the unresolved alias surfaces from Compose itself,
	// with the path context attached to the error.
	r := resolver.New()
	_, err = compose.New(r).Compose(doc)
	if err == nil {
		t.Fatal("expected compose to fail on undefined alias")
	}
	if !strings.Contains(err.Error(), "$.a.b") {
		t.Fatalf("expected error to include path $.a.b, got %q", err.Error())
	}
}
