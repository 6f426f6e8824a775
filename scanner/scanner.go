// Package scanner implements spec component 4.2: a single-pass scanner
// that turns an input.Reader's rune stream into a token.Tokens queue. It
// is grounded on a scanner.Scanner/Context pair (indent
// bookkeeping fields, IndentState, per-line column tracking) but is
// restructured around input.Reader instead of an inline rune slice, and
// trades a buffer-then-flush Context for direct token
// emission, since token classification (token.New) is already
// JSON-mode-aware and side-effect free.
package scanner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fyparse/fyparse/input"
	"github.com/fyparse/fyparse/token"
)

// IndentState reports how a line's indent compares to the enclosing
// block context, mirroring a conventional IndentState design.
type IndentState int

const (
	IndentStateEqual IndentState = iota
	IndentStateUp
	IndentStateDown
)

// Scanner holds the scanner's state for a single input. It must be
// constructed with New; the zero value is not usable.
type Scanner struct {
	rd        *input.Reader
	jsonMode  bool
	tabPolicy input.TabPolicy
	tabWidth  int

	tokens token.Tokens

	// indentStack is the simple-key/indent-level stack described in spec
	// §4.2: its length (minus one) becomes a token's IndentLevel, and
	// popping it on a dedent is how block-scalar/plain-scalar content
	// boundaries are found.
	indentStack []int
	indentNum   int

	isFirstCharAtLine bool
	flowDepth         int
	lastIndentState   IndentState
}

// New constructs a Scanner reading from rd. jsonMode enables the JSON
// grammar restrictions from spec §4.2's JSON-mode specialization.
func New(rd *input.Reader, jsonMode bool, tabPolicy input.TabPolicy, tabWidth int) *Scanner {
	return &Scanner{
		rd:                rd,
		jsonMode:          jsonMode,
		tabPolicy:         tabPolicy,
		tabWidth:          tabWidth,
		indentStack:       []int{0},
		isFirstCharAtLine: true,
	}
}

func (s *Scanner) pos() *token.Position {
	p := s.rd.CurrentPosition()
	p.IndentNum = s.indentNum
	p.IndentLevel = len(s.indentStack) - 1
	return p
}

func isLineBreakRune(r rune) bool {
	return r == '\n' || r == '\r' || r == 0x85 || r == 0x2028 || r == 0x2029
}

func isBlankRune(r rune) bool {
	return r == ' ' || r == '\t'
}

// Scan tokenizes the whole input and returns the resulting queue. On a
// lexical error it still returns the tokens produced so far plus an
// InvalidType sentinel token (spec §7: "a failure inside the scanner
// poisons the stream"), alongside a non-nil error.
func (s *Scanner) Scan() (token.Tokens, error) {
	s.tokens = token.Tokens{}
	s.tokens.Add(token.StreamStart(s.pos()))

	for !s.rd.AtEOF() {
		if s.isFirstCharAtLine {
			if err := s.measureIndent(); err != nil {
				return s.fail(err)
			}
			if s.rd.AtEOF() {
				break
			}
		}
		if err := s.scanOne(); err != nil {
			return s.fail(err)
		}
	}
	s.tokens.Add(token.StreamEnd(s.pos()))
	return s.tokens, nil
}

func (s *Scanner) fail(err error) (token.Tokens, error) {
	s.tokens.Add(token.Invalid(err.Error(), "", s.pos()))
	return s.tokens, err
}

// measureIndent consumes leading spaces/tabs at the start of a line and
// updates the indent stack, per spec §4.2's indent-stack mechanics.
func (s *Scanner) measureIndent() error {
	col := 0
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok {
			break
		}
		if c == ' ' {
			col++
			s.rd.Advance(1)
			continue
		}
		if c == '\t' {
			if s.tabPolicy == input.TabOff {
				return fmt.Errorf("scanner: tab character not allowed in indentation at %s", s.rd.CurrentPosition())
			}
			col++
			s.rd.Advance(1)
			continue
		}
		break
	}
	s.indentNum = col
	s.isFirstCharAtLine = false

	if c, ok := s.rd.PeekChar(0); ok && isLineBreakRune(c) {
		// Blank line: don't disturb the indent stack.
		return nil
	}

	top := s.indentStack[len(s.indentStack)-1]
	switch {
	case s.flowDepth > 0:
		s.lastIndentState = IndentStateEqual
	case col > top:
		s.indentStack = append(s.indentStack, col)
		s.lastIndentState = IndentStateUp
	case col < top:
		for len(s.indentStack) > 1 && s.indentStack[len(s.indentStack)-1] > col {
			s.indentStack = s.indentStack[:len(s.indentStack)-1]
		}
		s.lastIndentState = IndentStateDown
	default:
		s.lastIndentState = IndentStateEqual
	}
	return nil
}

func (s *Scanner) advanceLine() {
	c, _ := s.rd.PeekChar(0)
	width := 1
	if c == '\r' {
		if n, ok := s.rd.PeekChar(1); ok && n == '\n' {
			width = 2
		}
	}
	s.rd.Advance(width)
	s.isFirstCharAtLine = true
}

// scanOne dispatches on the next rune, consuming and emitting exactly one
// token (or a run of tokens, for e.g. "---").
func (s *Scanner) scanOne() error {
	c, ok := s.rd.PeekChar(0)
	if !ok {
		return nil
	}

	switch {
	case isLineBreakRune(c):
		s.advanceLine()
		return nil
	case isBlankRune(c):
		s.rd.Advance(1)
		return nil
	case c == '#':
		return s.scanComment()
	case c == '%' && !s.jsonMode && s.atLineStart():
		return s.scanDirective()
	case c == '-' && s.matchesDocMarker("---"):
		s.tokens.Add(token.DocumentHeader(s.pos()))
		s.rd.Advance(3)
		return nil
	case c == '.' && s.matchesDocMarker("..."):
		s.tokens.Add(token.DocumentEnd(s.pos()))
		s.rd.Advance(3)
		return nil
	case c == '-' && !s.jsonMode && s.followedByBlankOrEOF(1):
		s.tokens.Add(token.SequenceEntry("-", s.pos()))
		s.rd.Advance(1)
		return nil
	case c == '?' && !s.jsonMode && s.flowDepth == 0 && s.followedByBlankOrEOF(1):
		s.tokens.Add(token.MappingKey(s.pos()))
		s.rd.Advance(1)
		return nil
	case c == ':' && s.followedByValueIndicatorBoundary():
		s.tokens.Add(token.MappingValue(s.pos()))
		s.rd.Advance(1)
		return nil
	case c == '[':
		s.flowDepth++
		s.tokens.Add(token.SequenceStart("[", s.pos()))
		s.rd.Advance(1)
		return nil
	case c == ']':
		s.flowDepth--
		s.tokens.Add(token.SequenceEnd("]", s.pos()))
		s.rd.Advance(1)
		return nil
	case c == '{':
		s.flowDepth++
		s.tokens.Add(token.MappingStart("{", s.pos()))
		s.rd.Advance(1)
		return nil
	case c == '}':
		s.flowDepth--
		s.tokens.Add(token.MappingEnd("}", s.pos()))
		s.rd.Advance(1)
		return nil
	case c == ',' && s.flowDepth > 0:
		s.tokens.Add(token.CollectEntry(",", s.pos()))
		s.rd.Advance(1)
		return nil
	case c == '&' && !s.jsonMode:
		return s.scanAnchor()
	case c == '*' && !s.jsonMode:
		return s.scanAlias()
	case c == '!' && !s.jsonMode:
		return s.scanTag()
	case c == '|' && !s.jsonMode && s.flowDepth == 0:
		return s.scanBlockScalar(token.StyleLiteral)
	case c == '>' && !s.jsonMode && s.flowDepth == 0:
		return s.scanBlockScalar(token.StyleFolded)
	case c == '\'' && !s.jsonMode:
		return s.scanSingleQuoted()
	case c == '"':
		return s.scanDoubleQuoted()
	default:
		return s.scanPlainScalar()
	}
}

// atLineStart reports whether nothing but indentation has been consumed
// on the current line (directives are only legal there).
func (s *Scanner) atLineStart() bool {
	return s.rd.CurrentPosition().Column-1 == s.indentNum
}

func (s *Scanner) matchesDocMarker(marker string) bool {
	if !s.atLineStart() {
		return false
	}
	for i, want := range marker {
		c, ok := s.rd.PeekChar(i)
		if !ok || c != want {
			return false
		}
	}
	return s.followedByBlankOrEOF(len(marker))
}

func (s *Scanner) followedByBlankOrEOF(offset int) bool {
	c, ok := s.rd.PeekChar(offset)
	if !ok {
		return true
	}
	return isBlankRune(c) || isLineBreakRune(c)
}

// followedByValueIndicatorBoundary implements the context-sensitive ':'
// rule (spec §4.2): a ':' only introduces a mapping value when followed
// by whitespace/EOF/newline in block context, or additionally by a flow
// terminator inside flow collections.
func (s *Scanner) followedByValueIndicatorBoundary() bool {
	next, ok := s.rd.PeekChar(1)
	if !ok || isBlankRune(next) || isLineBreakRune(next) {
		return true
	}
	if s.flowDepth > 0 && (next == ',' || next == ']' || next == '}') {
		return true
	}
	return false
}

func (s *Scanner) scanComment() error {
	start := s.pos()
	s.rd.Advance(1) // '#'
	var sb strings.Builder
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok || isLineBreakRune(c) {
			break
		}
		sb.WriteRune(c)
		s.rd.Advance(1)
	}
	s.tokens.Add(token.Comment(strings.TrimSpace(sb.String()), "#"+sb.String(), start))
	return nil
}

func (s *Scanner) scanDirective() error {
	start := s.pos()
	s.rd.Advance(1) // '%'
	name := s.readWord()
	switch name {
	case "YAML":
		s.skipBlanks()
		ver := s.readWord()
		s.tokens.Add(token.Directive(start))
		s.tokens.Add(token.String(ver, ver, s.pos()))
	case "TAG":
		s.skipBlanks()
		handle := s.readWord()
		s.skipBlanks()
		prefix := s.readWord()
		s.tokens.Add(token.TagDirective(handle, prefix, "%TAG "+handle+" "+prefix, start))
	default:
		s.tokens.Add(token.Directive(start))
	}
	s.skipToLineEnd()
	return nil
}

func (s *Scanner) readWord() string {
	var sb strings.Builder
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok || isBlankRune(c) || isLineBreakRune(c) {
			break
		}
		sb.WriteRune(c)
		s.rd.Advance(1)
	}
	return sb.String()
}

func (s *Scanner) skipBlanks() {
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok || !isBlankRune(c) {
			return
		}
		s.rd.Advance(1)
	}
}

func (s *Scanner) skipToLineEnd() {
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok || isLineBreakRune(c) {
			return
		}
		s.rd.Advance(1)
	}
}

func isNamePartRune(r rune) bool {
	return r != ' ' && r != '\t' && !isLineBreakRune(r) &&
		r != ',' && r != '[' && r != ']' && r != '{' && r != '}'
}

func (s *Scanner) scanAnchor() error {
	start := s.pos()
	s.rd.Advance(1) // '&'
	var sb strings.Builder
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok || !isNamePartRune(c) {
			break
		}
		sb.WriteRune(c)
		s.rd.Advance(1)
	}
	tk := token.Anchor("&"+sb.String(), start)
	tk.Value = sb.String()
	s.tokens.Add(tk)
	return nil
}

func (s *Scanner) scanAlias() error {
	start := s.pos()
	s.rd.Advance(1) // '*'
	var sb strings.Builder
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok || !isNamePartRune(c) {
			break
		}
		sb.WriteRune(c)
		s.rd.Advance(1)
	}
	tk := token.Alias("*"+sb.String(), start)
	tk.Value = sb.String()
	s.tokens.Add(tk)
	return nil
}

func (s *Scanner) scanTag() error {
	start := s.pos()
	s.rd.Advance(1) // '!'
	var sb strings.Builder
	sb.WriteByte('!')
	if c, ok := s.rd.PeekChar(0); ok && c == '!' {
		sb.WriteRune(c)
		s.rd.Advance(1)
	} else if c, ok := s.rd.PeekChar(0); ok && c == '<' {
		sb.WriteRune(c)
		s.rd.Advance(1)
		for {
			c, ok := s.rd.PeekChar(0)
			if !ok || c == '>' {
				break
			}
			sb.WriteRune(c)
			s.rd.Advance(1)
		}
		if c, ok := s.rd.PeekChar(0); ok && c == '>' {
			sb.WriteRune(c)
			s.rd.Advance(1)
		}
		tk := token.Tag(sb.String(), sb.String(), start)
		s.tokens.Add(tk)
		return nil
	}
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok || !isNamePartRune(c) {
			break
		}
		sb.WriteRune(c)
		s.rd.Advance(1)
	}
	value := sb.String()
	tk := token.Tag(value, value, start)
	if strings.HasPrefix(value, "!") && strings.Count(value, "!") >= 2 && !strings.HasPrefix(value, "!!") {
		handle, suffix := splitTagHandle(value)
		tk.TagHandle = handle
		tk.TagPrefix = suffix
	}
	s.tokens.Add(tk)
	return nil
}

// splitTagHandle splits a `!handle!suffix` tag reference into its handle
// (including both '!' delimiters) and suffix, per spec §4.2's tag-handle
// generalization of %TAG shorthand resolution.
func splitTagHandle(value string) (handle, suffix string) {
	idx := strings.Index(value[1:], "!")
	if idx < 0 {
		return "", value
	}
	split := idx + 2
	return value[:split], value[split:]
}

func (s *Scanner) scanSingleQuoted() error {
	start := s.pos()
	s.rd.Advance(1)
	var sb strings.Builder
	var raw strings.Builder
	raw.WriteByte('\'')
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok {
			return fmt.Errorf("scanner: unterminated single-quoted scalar at %s", start)
		}
		if c == '\'' {
			if n, ok2 := s.rd.PeekChar(1); ok2 && n == '\'' {
				sb.WriteByte('\'')
				raw.WriteString("''")
				s.rd.Advance(2)
				continue
			}
			raw.WriteByte('\'')
			s.rd.Advance(1)
			break
		}
		if isLineBreakRune(c) {
			sb.WriteByte(' ')
			raw.WriteRune(c)
			s.advanceLine()
			continue
		}
		sb.WriteRune(c)
		raw.WriteRune(c)
		s.rd.Advance(1)
	}
	s.tokens.Add(token.SingleQuote(sb.String(), raw.String(), start))
	return nil
}

var doubleQuoteEscapes = map[rune]rune{
	'n': '\n', 't': '\t', 'r': '\r', '"': '"', '\\': '\\', '0': 0,
	'a': '\a', 'b': '\b', 'f': '\f', 'v': '\v', 'e': 0x1B,
	'N': 0x85, '_': 0xA0, 'L': 0x2028, 'P': 0x2029,
}

func (s *Scanner) scanDoubleQuoted() error {
	start := s.pos()
	s.rd.Advance(1)
	var sb strings.Builder
	var raw strings.Builder
	raw.WriteByte('"')
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok {
			return fmt.Errorf("scanner: unterminated double-quoted scalar at %s", start)
		}
		if c == '"' {
			raw.WriteByte('"')
			s.rd.Advance(1)
			break
		}
		if c == '\\' {
			raw.WriteRune(c)
			s.rd.Advance(1)
			esc, ok := s.rd.PeekChar(0)
			if !ok {
				return fmt.Errorf("scanner: dangling escape in double-quoted scalar at %s", start)
			}
			raw.WriteRune(esc)
			s.rd.Advance(1)
			switch esc {
			case 'x', 'u', 'U':
				width := map[rune]int{'x': 2, 'u': 4, 'U': 8}[esc]
				hex := make([]rune, 0, width)
				for i := 0; i < width; i++ {
					hc, ok := s.rd.PeekChar(0)
					if !ok {
						return fmt.Errorf("scanner: truncated \\%c escape at %s", esc, start)
					}
					hex = append(hex, hc)
					raw.WriteRune(hc)
					s.rd.Advance(1)
				}
				v, err := strconv.ParseInt(string(hex), 16, 32)
				if err != nil {
					return fmt.Errorf("scanner: invalid \\%c escape at %s: %w", esc, start, err)
				}
				sb.WriteRune(rune(v))
			default:
				if isLineBreakRune(esc) {
					// escaped line break: line continuation, no char emitted
					continue
				}
				if r, ok := doubleQuoteEscapes[esc]; ok {
					sb.WriteRune(r)
				} else {
					return fmt.Errorf("scanner: unknown escape \\%c at %s", esc, start)
				}
			}
			continue
		}
		if isLineBreakRune(c) {
			sb.WriteByte(' ')
			raw.WriteRune(c)
			s.advanceLine()
			continue
		}
		sb.WriteRune(c)
		raw.WriteRune(c)
		s.rd.Advance(1)
	}
	s.tokens.Add(token.DoubleQuote(sb.String(), raw.String(), start))
	return nil
}

// scanBlockScalar implements literal (`|`) and folded (`>`) block
// scalars: header (optional explicit indent digit and chomp indicator in
// either order), then content lines kept while indented at least as far
// as the block's established indent (spec glossary "Chomping"/"Block
// scalar").
func (s *Scanner) scanBlockScalar(style token.ScalarStyle) error {
	start := s.pos()
	headerIndicator, _ := s.rd.PeekChar(0)
	s.rd.Advance(1)

	chomp := token.ChompClip
	explicitIndent := 0
	for i := 0; i < 2; i++ {
		c, ok := s.rd.PeekChar(0)
		if !ok {
			break
		}
		switch c {
		case '-':
			chomp = token.ChompStrip
			s.rd.Advance(1)
		case '+':
			chomp = token.ChompKeep
			s.rd.Advance(1)
		case '1', '2', '3', '4', '5', '6', '7', '8', '9':
			explicitIndent = int(c - '0')
			s.rd.Advance(1)
		default:
			i = 2
		}
	}
	s.skipToLineEnd()
	if c, ok := s.rd.PeekChar(0); ok && isLineBreakRune(c) {
		s.advanceLine()
	}

	baseIndent := s.indentNum
	blockIndent := -1
	if explicitIndent > 0 {
		blockIndent = baseIndent + explicitIndent
	}

	var lines []string
	for !s.rd.AtEOF() {
		c, _ := s.rd.PeekChar(0)
		if isLineBreakRune(c) {
			s.advanceLine()
			lines = append(lines, "")
			continue
		}
		if err := s.measureIndent(); err != nil {
			return err
		}
		if s.rd.AtEOF() {
			break
		}
		if c2, ok := s.rd.PeekChar(0); ok && isLineBreakRune(c2) {
			lines = append(lines, "")
			continue
		}
		lineIndent := s.indentNum
		if blockIndent < 0 {
			if lineIndent <= baseIndent {
				break
			}
			blockIndent = lineIndent
		}
		if lineIndent < blockIndent {
			break
		}
		var sb strings.Builder
		for lineIndent > blockIndent {
			sb.WriteByte(' ')
			lineIndent--
		}
		for {
			c, ok := s.rd.PeekChar(0)
			if !ok || isLineBreakRune(c) {
				break
			}
			sb.WriteRune(c)
			s.rd.Advance(1)
		}
		lines = append(lines, sb.String())
		if !s.rd.AtEOF() {
			if c, ok := s.rd.PeekChar(0); ok && isLineBreakRune(c) {
				s.advanceLine()
			}
		}
	}

	content := joinBlockLines(lines, style, chomp)
	tk := token.Literal(content, string(headerIndicator), start)
	if style == token.StyleFolded {
		tk = token.Folded(content, string(headerIndicator), start)
	}
	tk.Chomp = chomp
	tk.ContentIndent = blockIndent
	s.tokens.Add(tk)
	return nil
}

func joinBlockLines(lines []string, style token.ScalarStyle, chomp token.ChompMode) string {
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	var body string
	if style == token.StyleFolded {
		var sb strings.Builder
		for i, l := range lines {
			if i > 0 {
				if l == "" || lines[i-1] == "" {
					sb.WriteByte('\n')
				} else {
					sb.WriteByte(' ')
				}
			}
			sb.WriteString(l)
		}
		body = sb.String()
	} else {
		body = strings.Join(lines, "\n")
	}
	switch chomp {
	case token.ChompStrip:
		return body
	case token.ChompKeep:
		return body + "\n"
	default:
		if len(lines) == 0 {
			return body
		}
		return body + "\n"
	}
}

func isJSONScalar(raw string) bool {
	switch raw {
	case "true", "false", "null":
		return true
	}
	if raw == "" {
		return false
	}
	i := 0
	if raw[0] == '-' {
		i++
	}
	if i >= len(raw) || raw[i] < '0' || raw[i] > '9' {
		return false
	}
	for ; i < len(raw); i++ {
		c := raw[i]
		if (c < '0' || c > '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return false
		}
	}
	return true
}

func (s *Scanner) scanPlainScalar() error {
	start := s.pos()
	var sb strings.Builder
	for {
		c, ok := s.rd.PeekChar(0)
		if !ok || isLineBreakRune(c) {
			break
		}
		if s.flowDepth > 0 && (c == ',' || c == '[' || c == ']' || c == '{' || c == '}') {
			break
		}
		if c == ':' && s.followedByValueIndicatorBoundary() {
			break
		}
		if c == ' ' {
			if n, ok2 := s.rd.PeekChar(1); ok2 && n == '#' {
				break
			}
		}
		sb.WriteRune(c)
		s.rd.Advance(1)
	}
	raw := strings.TrimRight(sb.String(), " \t")
	if raw == "" {
		return fmt.Errorf("scanner: unexpected character %q at %s", firstRune(sb.String()), start)
	}
	if raw == "<<" {
		s.tokens.Add(token.MergeKey(start))
		return nil
	}
	if s.jsonMode && !isJSONScalar(raw) {
		return fmt.Errorf("scanner: %q is not a valid JSON scalar at %s", raw, start)
	}
	s.tokens.Add(token.New(raw, raw, start, s.jsonMode))
	return nil
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}
