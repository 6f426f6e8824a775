package printer_test

import (
	"strings"
	"testing"

	"github.com/fyparse/fyparse/lexer"
	"github.com/fyparse/fyparse/printer"
	"github.com/fyparse/fyparse/token"
)

func findToken(t *testing.T, tokens token.Tokens, value string) *token.Token {
	t.Helper()
	for _, tk := range tokens {
		if tk.Value == value {
			return tk
		}
	}
	t.Fatalf("no token with value %q in %d tokens", value, len(tokens))
	return nil
}

func Test_Printer_ErrorToken(t *testing.T) {
	yml := `---
text: aaaa
number: 10
bool: true
anchor: &x 1
alias: *x
`
	tokens := lexer.Tokenize(yml)
	if len(tokens) == 0 {
		t.Fatal("expected tokens, got none")
	}
	var p printer.Printer
	tk := findToken(t, tokens, "aaaa")
	out := p.PrintErrorToken(tk, false)
	if !strings.Contains(out, "> ") {
		t.Fatalf("expected current-line marker in output, got: %s", out)
	}
	if !strings.Contains(out, "^") {
		t.Fatalf("expected column caret in output, got: %s", out)
	}
	if !strings.Contains(out, "text: aaaa") {
		t.Fatalf("expected source line excerpt in output, got: %s", out)
	}
}

func Test_Printer_Anchor(t *testing.T) {
	yml := `anchor: &x 1
alias: *x`
	tokens := lexer.Tokenize(yml)
	var p printer.Printer
	got := p.PrintTokens(tokens)
	if got != yml {
		t.Fatalf("unexpected output: expect:[%s]\n actual:[%s]", yml, got)
	}
}

func Test_Printer_ErrorMessage(t *testing.T) {
	var p printer.Printer
	src := "message"
	msg := p.PrintErrorMessage(src, false)
	if msg != src {
		t.Fatal("uncolored message should pass through unchanged")
	}
	colored := p.PrintErrorMessage(src, true)
	if colored == src {
		t.Fatal("colored message should carry escape codes")
	}
}

func Test_Printer_ColoredOutputDoesNotPanic(t *testing.T) {
	yml := `text: aaaa
number: 10
anchor: &x 1
alias: *x
`
	tokens := lexer.Tokenize(yml)
	var p printer.Printer
	for _, tk := range tokens {
		p.PrintErrorToken(tk, true)
	}
}
