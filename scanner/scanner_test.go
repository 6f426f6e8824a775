package scanner_test

import (
	"testing"

	"github.com/fyparse/fyparse/input"
	"github.com/fyparse/fyparse/scanner"
	"github.com/fyparse/fyparse/token"
)

func scan(t *testing.T, src string, jsonMode bool) token.Tokens {
	t.Helper()
	in := input.Open("mem", []byte(src), false, input.JSONOff)
	rd, err := input.NewReader(in)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	sc := scanner.New(rd, jsonMode, input.TabOff, 0)
	toks, err := sc.Scan()
	if err != nil {
		t.Fatalf("Scan(%q): %v", src, err)
	}
	return toks
}

func typesOf(toks token.Tokens) []token.Type {
	out := make([]token.Type, len(toks))
	for i, tk := range toks {
		out[i] = tk.Type
	}
	return out
}

func TestScanSimpleMapping(t *testing.T) {
	toks := scan(t, "key: value\n", false)
	want := []token.Type{token.StreamStartType, token.StringType, token.MappingValueType, token.StringType, token.StreamEndType}
	assertTypes(t, toks, want)
}

func TestScanSequence(t *testing.T) {
	toks := scan(t, "- a\n- b\n", false)
	want := []token.Type{token.StreamStartType, token.SequenceEntryType, token.StringType, token.SequenceEntryType, token.StringType, token.StreamEndType}
	assertTypes(t, toks, want)
}

func TestScanFlowCollection(t *testing.T) {
	toks := scan(t, "[1, 2, 3]\n", false)
	want := []token.Type{
		token.StreamStartType, token.SequenceStartType, token.IntegerType, token.CollectEntryType,
		token.IntegerType, token.CollectEntryType, token.IntegerType, token.SequenceEndType, token.StreamEndType,
	}
	assertTypes(t, toks, want)
}

func TestScanQuotedScalars(t *testing.T) {
	toks := scan(t, `k: "a\nb"`+"\n"+"k2: 'it''s'\n", false)
	var sq, dq *token.Token
	for _, tk := range toks {
		switch tk.Type {
		case token.DoubleQuoteType:
			dq = tk
		case token.SingleQuoteType:
			sq = tk
		}
	}
	if dq == nil || dq.Value != "a\nb" {
		t.Fatalf("double-quote decode = %+v", dq)
	}
	if sq == nil || sq.Value != "it's" {
		t.Fatalf("single-quote decode = %+v", sq)
	}
}

func TestScanComment(t *testing.T) {
	toks := scan(t, "a: 1 # trailing\n", false)
	found := false
	for _, tk := range toks {
		if tk.Type == token.CommentType && tk.Value == "trailing" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a Comment token with trimmed value")
	}
}

func TestScanAnchorAndAlias(t *testing.T) {
	toks := scan(t, "a: &x 1\nb: *x\n", false)
	var anchor, alias *token.Token
	for _, tk := range toks {
		switch tk.Type {
		case token.AnchorType:
			anchor = tk
		case token.AliasType:
			alias = tk
		}
	}
	if anchor == nil || anchor.Value != "x" {
		t.Fatalf("anchor = %+v", anchor)
	}
	if alias == nil || alias.Value != "x" {
		t.Fatalf("alias = %+v", alias)
	}
}

func TestScanMergeKey(t *testing.T) {
	toks := scan(t, "<<: *base\n", false)
	if toks[1].Type != token.MergeKeyType {
		t.Fatalf("expected MergeKeyType first, got %s", toks[1].Type)
	}
}

func TestScanDocumentMarkers(t *testing.T) {
	toks := scan(t, "---\na: 1\n...\n", false)
	want := []token.Type{token.StreamStartType, token.DocumentHeaderType, token.StringType, token.MappingValueType, token.IntegerType, token.DocumentEndType, token.StreamEndType}
	assertTypes(t, toks, want)
}

func TestScanLiteralBlockScalar(t *testing.T) {
	toks := scan(t, "k: |\n  line1\n  line2\n", false)
	var lit *token.Token
	for _, tk := range toks {
		if tk.Type == token.LiteralType {
			lit = tk
		}
	}
	if lit == nil || lit.Value != "line1\nline2\n" {
		t.Fatalf("literal value = %q", lit.Value)
	}
}

func TestScanFoldedBlockScalarChompStrip(t *testing.T) {
	toks := scan(t, "k: >-\n  a\n  b\n", false)
	var folded *token.Token
	for _, tk := range toks {
		if tk.Type == token.FoldedType {
			folded = tk
		}
	}
	if folded == nil || folded.Value != "a b" {
		t.Fatalf("folded value = %q", folded.Value)
	}
}

func TestScanTagDirectiveAndShorthand(t *testing.T) {
	toks := scan(t, "%TAG !e! tag:example.com,2000:\n---\n!e!foo bar\n", false)
	var td *token.Token
	for _, tk := range toks {
		if tk.Type == token.TagDirectiveType {
			td = tk
		}
	}
	if td == nil || td.TagHandle != "!e!" || td.TagPrefix != "tag:example.com,2000:" {
		t.Fatalf("tag directive = %+v", td)
	}
}

func TestScanJSONModeRejectsLeadingPlus(t *testing.T) {
	in := input.Open("mem", []byte(`{"a": +1}`), false, input.JSONOff)
	rd, _ := input.NewReader(in)
	sc := scanner.New(rd, true, input.TabOff, 0)
	if _, err := sc.Scan(); err == nil {
		t.Fatal("expected JSON mode to reject a leading '+' number")
	}
}

func TestScanJSONModeAcceptsStrictGrammar(t *testing.T) {
	toks := scan(t, `{"a": 1, "b": [true, false, null]}`, true)
	if toks.InvalidToken() != nil {
		t.Fatalf("unexpected invalid token: %+v", toks.InvalidToken())
	}
}

func assertTypes(t *testing.T, toks token.Tokens, want []token.Type) {
	t.Helper()
	if len(toks) != len(want) {
		t.Fatalf("token count = %d, want %d\ngot: %v\nwant: %v", len(toks), len(want), typesOf(toks), want)
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Fatalf("token[%d].Type = %s, want %s (full: %v)", i, toks[i].Type, w, typesOf(toks))
		}
	}
}
