// Package lexer is the one-shot convenience wrapper cmd/ycat's kind of
// caller wants: scan a whole in-memory source string and get back its
// token queue, without assembling an input.Input/Reader/Scanner chain
// by hand. Grounded on a lexer.Lexer.Tokenize-style walk, kept as
// the same thin adapter shape but retargeted at the rewritten
// input/scanner pipeline (this module's scanner.Scanner.Init/Scan loop
// no longer exists post-rewrite).
package lexer

import (
	"github.com/fyparse/fyparse/input"
	"github.com/fyparse/fyparse/scanner"
	"github.com/fyparse/fyparse/token"
)

// Tokenize scans src as YAML (auto JSON-mode detection off, tabs
// disabled) and returns its token queue. Scan errors are reported as a
// trailing InvalidType token in the returned queue rather than a
// separate return value, matching scanner.Scanner.Scan's own
// poison-the-stream convention — callers needing the error value
// directly should drive input/scanner themselves instead of this
// convenience wrapper.
func Tokenize(src string) token.Tokens {
	in := input.Open("-", []byte(src), false, input.JSONOff)
	rd, err := input.NewReader(in)
	if err != nil {
		return nil
	}
	toks, _ := scanner.New(rd, false, input.TabOff, 0).Scan()
	return toks
}
