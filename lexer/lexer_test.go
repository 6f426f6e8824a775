package lexer_test

import (
	"strings"
	"testing"

	"github.com/fyparse/fyparse/lexer"
	"github.com/fyparse/fyparse/token"
)

func TestTokenizeSmoke(t *testing.T) {
	sources := []string{
		"null\n",
		"{}\n",
		"v: hi\n",
		"v: \"true\"\n",
		"v: false\n",
		"v: 10\n",
		"v: -10\n",
		"v: 4294967296\n",
		"v: \"10\"\n",
		"v: 0.1\n",
		"v: -0.1\n",
		"v: .inf\n",
		"v: -.inf\n",
		"v: .nan\n",
		"v: null\n",
		"v: \"\"\n",
		"v:\n- A\n- B\n",
		"v:\n- A\n- |-\n  B\n  C\n",
		"v:\n- A\n- 1\n- B:\n  - 2\n  - 3\n",
		"a:\n  b: c\n",
		"a: '-'\n",
		"123\n",
		"hello: world\n",
		"a: {x: 1}\n",
		"a: [1, 2]\n",
		"t2: 2018-01-09T10:40:47Z\n",
		"a: {b: c, d: e}\n",
		"a: <foo>\n",
		"a: \"1:1\"\n",
		"a: !!binary gIGC\n",
		"b: 2\na: 1\nd: 4\nc: 3\nsub:\n  e: 5\n",
		"a: 1.2.3.4\n",
		"a: 'b: c'\n",
		"a: 'Hello #comment'\n",
		"a: 100.5\n",
	}
	for _, src := range sources {
		toks := lexer.Tokenize(src)
		if len(toks) == 0 {
			t.Errorf("Tokenize(%q) returned no tokens", src)
		}
		toks.Dump()
	}
}

func TestTokenizeValueAndPosition(t *testing.T) {
	toks := lexer.Tokenize("test: value\n")
	var got []*token.Token
	for _, tk := range toks {
		if tk.Type == token.StreamStartType || tk.Type == token.StreamEndType {
			continue
		}
		got = append(got, tk)
	}
	want := []struct {
		value  string
		line   int
		column int
	}{
		{"test", 1, 1},
		{":", 1, 5},
		{"value", 1, 7},
	}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch, got %d want %d", len(got), len(want))
	}
	for i, tk := range got {
		if tk.Value != want[i].value {
			t.Errorf("token[%d].Value = %q, want %q", i, tk.Value, want[i].value)
		}
		if tk.Position == nil {
			t.Fatalf("token[%d].Position is nil", i)
		}
		if tk.Position.Line != want[i].line || tk.Position.Column != want[i].column {
			t.Errorf("token[%d] position = %d:%d, want %d:%d", i, tk.Position.Line, tk.Position.Column, want[i].line, want[i].column)
		}
	}
}

func TestTokenizeMultiLineFlowArray(t *testing.T) {
	src := "arr: [1, 2,\n  3]\n"
	toks := lexer.Tokenize(src)
	if len(toks) == 0 {
		t.Fatalf("Tokenize(%q) returned no tokens", src)
	}
	var values []string
	for _, tk := range toks {
		if tk.Type == token.StreamStartType || tk.Type == token.StreamEndType {
			continue
		}
		values = append(values, tk.Value)
	}
	joined := strings.Join(values, "|")
	for _, want := range []string{"arr", "1", "2", "3"} {
		if !strings.Contains(joined, want) {
			t.Errorf("Tokenize(%q) missing value %q, got %q", src, want, joined)
		}
	}
}
