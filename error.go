package yaml

import (
	"fmt"

	"github.com/fyparse/fyparse/token"
)

// DecodeError reports a struct-decode failure at a path within the
// document (e.g. "$.servers[2].port"), mirroring compose.Error's
// path-carrying shape but for the reflect-binding stage rather than the
// value.Value composition stage.
type DecodeError struct {
	Path string
	Tok  *token.Token
	Err  error
}

func (e *DecodeError) Error() string {
	if e.Tok != nil && e.Tok.Position != nil {
		return fmt.Sprintf("%s: [%d:%d] %s", e.Path, e.Tok.Position.Line, e.Tok.Position.Column, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func newDecodeErr(path string, tok *token.Token, format string, args ...interface{}) *DecodeError {
	return &DecodeError{Path: path, Tok: tok, Err: fmt.Errorf(format, args...)}
}
