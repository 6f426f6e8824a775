// Package input implements spec component 4.1: immutable byte sources
// (file, memory, owned buffer, stream), UTF-8 decoding, lookahead, and
// line/column tracking. It is grounded on the position-tracking fields
// some yaml libraries keep inline inside their scanner (line/column/offset/
// indent bookkeeping in scanner.Scanner), pulled out here into their own
// component per spec §2's table.
package input

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/fyparse/fyparse/token"
)

// Origin names where an Input's bytes came from.
type Origin int

const (
	OriginMemory Origin = iota
	OriginFile
	OriginStdin
	OriginStream
	OriginOwnedBuffer
)

func (o Origin) String() string {
	switch o {
	case OriginFile:
		return "file"
	case OriginStdin:
		return "stdin"
	case OriginStream:
		return "stream"
	case OriginOwnedBuffer:
		return "owned-buffer"
	default:
		return "memory"
	}
}

// JSONMode selects how JSON-grammar restrictions (spec §4.2) are applied.
type JSONMode int

const (
	JSONAuto JSONMode = iota
	JSONForce
	JSONOff
)

// TabPolicy controls how tab characters participate in indent comparison.
type TabPolicy int

const (
	TabOff TabPolicy = iota
	TabAuto
	TabFixed
)

// Input is an immutable byte buffer with an origin tag and JSON-mode flag.
// Inputs are reference-counted (via plain Go GC — ref-count bookkeeping
// from the C original is unnecessary in a garbage collected target
// language, see DESIGN.md) and shared among every token built from them.
type Input struct {
	Name     string
	Origin   Origin
	JSON     JSONMode
	TabWidth int // used only when TabPolicy == TabFixed
	Tab      TabPolicy

	bytes []byte
	runes []rune
}

// Open constructs an Input from raw bytes. owned indicates the caller is
// transferring ownership of buf (spec §6 "owned byte slice (taken)");
// otherwise buf is borrowed and must outlive the Input and everything
// built from it, matching spec §5 "memory-source inputs do not copy."
func Open(name string, buf []byte, owned bool, jsonMode JSONMode) *Input {
	origin := OriginMemory
	if owned {
		origin = OriginOwnedBuffer
	}
	in := &Input{Name: name, Origin: origin, bytes: buf}
	in.JSON = resolveJSONMode(name, jsonMode)
	return in
}

// OpenFile reads path ("-" meaning stdin) fully into memory.
func OpenFile(path string, jsonMode JSONMode) (*Input, error) {
	if path == "-" {
		buf, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("input: read stdin: %w", err)
		}
		in := Open(path, buf, true, jsonMode)
		in.Origin = OriginStdin
		return in, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("input: read %s: %w", path, err)
	}
	in := Open(path, buf, true, jsonMode)
	in.Origin = OriginFile
	return in, nil
}

// OpenStream reads an already-open stream fully (spec §6 "already-open
// byte stream"). The stream's contents are copied; the Input does not
// retain r.
func OpenStream(name string, r io.Reader, jsonMode JSONMode) (*Input, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("input: read stream: %w", err)
	}
	in := Open(name, buf, true, jsonMode)
	in.Origin = OriginStream
	return in, nil
}

func resolveJSONMode(name string, mode JSONMode) JSONMode {
	if mode != JSONAuto {
		return mode
	}
	if len(name) >= 5 && name[len(name)-5:] == ".json" {
		return JSONForce
	}
	return JSONOff
}

// IsJSON reports whether JSON-grammar restrictions are in effect.
func (in *Input) IsJSON() bool { return in.JSON == JSONForce }

// Decode validates the buffer as UTF-8 and memoizes the decoded rune
// slice used by Reader. A BOM at byte 0 is consumed here so Reader never
// sees it (spec §4.1 "A BOM at column 0 is consumed").
func (in *Input) decode() error {
	if in.runes != nil {
		return nil
	}
	b := in.bytes
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		b = b[3:]
	}
	runes := make([]rune, 0, len(b))
	offset := 0
	for offset < len(b) {
		r, size := utf8.DecodeRune(b[offset:])
		if r == utf8.RuneError {
			if size == 0 {
				return fmt.Errorf("input: malformed UTF-8 at byte %d: partial character", offset)
			}
			if size == 1 {
				return fmt.Errorf("input: malformed UTF-8 at byte %d", offset)
			}
		}
		runes = append(runes, r)
		offset += size
	}
	in.runes = runes
	return nil
}

// Runes returns the fully decoded rune slice backing this Input.
func (in *Input) Runes() ([]rune, error) {
	if err := in.decode(); err != nil {
		return nil, err
	}
	return in.runes, nil
}

// Classify reports the character categories the scanner cares about, per
// spec §4.1 ("line-break, whitespace, blank, flow-indicator, URI, hex").
type CharClass struct {
	LineBreak      bool
	Whitespace     bool
	Blank          bool // whitespace or line-break
	FlowIndicator  bool
	URISafe        bool
	Hex            bool
}

func Classify(r rune) CharClass {
	lb := r == 0x0A || r == 0x0D || r == 0x85 || r == 0x2028 || r == 0x2029
	ws := r == ' ' || r == '\t'
	flow := r == ',' || r == '[' || r == ']' || r == '{' || r == '}'
	hex := (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
	uriSafe := hex || r == '-' || r == ';' || r == '/' || r == '?' || r == ':' || r == '@' ||
		r == '&' || r == '=' || r == '+' || r == '$' || r == ',' || r == '_' || r == '.' ||
		r == '!' || r == '~' || r == '*' || r == '\'' || r == '(' || r == ')' || r == '[' || r == ']' || r == '%'
	return CharClass{LineBreak: lb, Whitespace: ws, Blank: ws || lb, FlowIndicator: flow, URISafe: uriSafe, Hex: hex}
}

// Reader provides lazy peek/advance access over an Input with line/column
// tracking and a configurable tab policy (spec §4.1).
type Reader struct {
	in     *Input
	runes  []rune
	pos    int
	line   int
	column int
	offset int
}

// NewReader opens a reader at the beginning of in.
func NewReader(in *Input) (*Reader, error) {
	runes, err := in.Runes()
	if err != nil {
		return nil, err
	}
	return &Reader{in: in, runes: runes, line: 1, column: 1, offset: 0}, nil
}

// Reset rewinds the reader to the start of its input (spec §8: "a second
// pass through the same reader with `reset` produces identical token/event
// streams").
func (r *Reader) Reset() {
	r.pos, r.line, r.column, r.offset = 0, 1, 1, 0
}

// Input returns the Input this reader is attached to.
func (r *Reader) Input() *Input { return r.in }

// PeekChar returns the rune `offset` positions ahead without consuming
// it. It never advances position.
func (r *Reader) PeekChar(offset int) (rune, bool) {
	idx := r.pos + offset
	if idx < 0 || idx >= len(r.runes) {
		return 0, false
	}
	return r.runes[idx], true
}

// EnsureLookahead reports whether at least n runes remain from the
// current position.
func (r *Reader) EnsureLookahead(n int) bool {
	return r.pos+n <= len(r.runes)
}

// Advance consumes width runes, updating line/column/offset. Column
// counts code points; tab expansion for indent comparisons is the
// scanner's concern (it calls TabWidth/TabPolicy), not the reader's.
// CR, LF, CR-LF, NEL, LS and PS all terminate a line (spec §4.1); a
// lone '\n' immediately following a '\r' is treated as part of the same
// break rather than a second one.
func (r *Reader) Advance(width int) {
	for i := 0; i < width && r.pos < len(r.runes); i++ {
		c := r.runes[r.pos]
		prev := rune(0)
		if r.pos > 0 {
			prev = r.runes[r.pos-1]
		}
		r.pos++
		r.offset += utf8.RuneLen(c)
		switch {
		case c == '\n' && prev == '\r':
			// second half of a CR-LF pair: already counted.
		case c == '\n' || c == '\r' || c == 0x85 || c == 0x2028 || c == 0x2029:
			r.line++
			r.column = 1
		default:
			r.column++
		}
	}
}

// CurrentPosition returns the reader's current (line, column, byte-offset).
func (r *Reader) CurrentPosition() *token.Position {
	return &token.Position{Line: r.line, Column: r.column, Offset: r.offset}
}

// AtEOF reports whether the reader has consumed every rune.
func (r *Reader) AtEOF() bool { return r.pos >= len(r.runes) }

// FillAtom returns the decoded text for the half-open rune range
// [start, start+length) relative to the input's start (spec §4.1
// "fill-atom(start, length)").
func (r *Reader) FillAtom(start, length int) string {
	end := start + length
	if start < 0 {
		start = 0
	}
	if end > len(r.runes) {
		end = len(r.runes)
	}
	if start >= end {
		return ""
	}
	return string(r.runes[start:end])
}

// ExpandTabColumn maps a raw tab-containing column to its effective
// indent column under the reader's configured tab policy.
func ExpandTabColumn(policy TabPolicy, fixedWidth, rawColumn int) int {
	switch policy {
	case TabFixed:
		if fixedWidth <= 0 {
			fixedWidth = 8
		}
		return ((rawColumn-1)/fixedWidth+1)*fixedWidth + 1
	case TabAuto:
		return rawColumn // context-sensitive: caller decides per line
	default:
		return rawColumn
	}
}
