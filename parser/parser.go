// Package parser implements spec component 4.3: a recursive-descent walk
// over a token.Tokens queue that emits a linear parser.Event stream rather
// than building ast.Node trees itself — tree assembly (spec §4.4's
// document builder) lives in the sibling `builder` package, which
// consumes exactly this event stream. Block structure (sequence/mapping
// nesting) is reconstructed from each token's source column, the same
// technique used via token.Position, rather than
// from the scanner's coarse indent-stack level, so that constructs like
// `- key: value` (content indented past the dash) nest correctly.
package parser

import (
	"fmt"

	"github.com/fyparse/fyparse/ast"
	"github.com/fyparse/fyparse/token"
)

// Parser walks a flat token queue and emits one Event stream covering
// every document in it (spec §4.3 states STREAM_START..DOCUMENT_END..
// STREAM_END).
type Parser struct {
	toks   []*token.Token
	idx    int
	events []Event

	// pending decoration peeled off an Anchor/Tag/':' token, applied to
	// whichever Start/Scalar/Alias event is emitted next.
	pendingAnchor string
	pendingTag    *token.Token
	pendingColon  *token.Token
}

// New filters stream framing and comments out of toks (spec's
// PARSE_COMMENTS option governs comment retention; the default parse
// path here discards them, matching the non-commented common case) and
// returns a ready-to-use Parser.
func New(toks token.Tokens) *Parser {
	filtered := make([]*token.Token, 0, len(toks))
	for _, tk := range toks {
		switch tk.Type {
		case token.StreamStartType, token.StreamEndType, token.CommentType:
			continue
		}
		filtered = append(filtered, tk)
	}
	return &Parser{toks: filtered}
}

func (p *Parser) peek() *token.Token {
	if p.idx >= len(p.toks) {
		return nil
	}
	return p.toks[p.idx]
}

func (p *Parser) peekAt(n int) *token.Token {
	idx := p.idx + n
	if idx < 0 || idx >= len(p.toks) {
		return nil
	}
	return p.toks[idx]
}

func (p *Parser) advance() *token.Token {
	tk := p.peek()
	p.idx++
	return tk
}

func (p *Parser) atEnd() bool { return p.peek() == nil }

// emit appends ev to the event stream, attaching any pending anchor/tag/
// colon decoration and clearing it so it isn't reapplied to a later event.
func (p *Parser) emit(ev Event) {
	if p.pendingAnchor != "" {
		ev.Anchor = p.pendingAnchor
		p.pendingAnchor = ""
	}
	if p.pendingTag != nil {
		ev.Tag = p.pendingTag
		p.pendingTag = nil
	}
	if p.pendingColon != nil {
		ev.Colon = p.pendingColon
		p.pendingColon = nil
	}
	p.events = append(p.events, ev)
}

// ParseEvents drives the state machine across every document in the token
// queue, returning the full event stream. An empty stream still yields a
// matched DocumentStart/DocumentEnd pair with no Root-bearing event in
// between, matching spec §8's "empty input resolves to a null scalar"
// property at the builder level (the builder turns the missing root into
// an explicit null document; compose turns that into a null node later).
func (p *Parser) ParseEvents() ([]Event, error) {
	for {
		more, err := p.parseOneDocument()
		if err != nil {
			return p.events, err
		}
		if !more {
			break
		}
	}
	return p.events, nil
}

// parseOneDocument consumes directives, an optional `---`, a root node
// and an optional `...`, emitting the document's framing events and
// returning whether more documents may follow.
func (p *Parser) parseOneDocument() (bool, error) {
	var tagDirectives []ast.TagDirective
	for !p.atEnd() {
		tk := p.peek()
		switch tk.Type {
		case token.DirectiveType:
			p.advance()
			if v := p.peek(); v != nil && v.Type == token.StringType {
				p.advance()
			}
			continue
		case token.TagDirectiveType:
			p.advance()
			tagDirectives = append(tagDirectives, ast.TagDirective{Handle: tk.TagHandle, Prefix: tk.TagPrefix})
			continue
		}
		break
	}

	explicitStart := false
	var startTok *token.Token
	if tk := p.peek(); tk != nil && tk.Type == token.DocumentHeaderType {
		explicitStart = true
		startTok = tk
		p.advance()
	}
	p.emit(Event{Type: DocumentStartEvent, Tok: startTok, TagDirectives: tagDirectives, ExplicitStart: explicitStart})

	if tk := p.peek(); tk == nil || tk.Type == token.DocumentHeaderType || tk.Type == token.DocumentEndType {
		// empty document: no root events
	} else if err := p.parseNode(); err != nil {
		return false, err
	}

	explicitEnd := false
	var endTok *token.Token
	if tk := p.peek(); tk != nil && tk.Type == token.DocumentEndType {
		explicitEnd = true
		endTok = tk
		p.advance()
	}
	p.emit(Event{Type: DocumentEndEvent, Tok: endTok, ExplicitEnd: explicitEnd})

	return !p.atEnd(), nil
}

// parseNode emits the event(s) for one node at the parser's current
// position, unbounded in indentation (spec §4.3's per-node dispatch).
func (p *Parser) parseNode() error {
	tk := p.peek()
	if tk == nil {
		return fmt.Errorf("parser: unexpected end of tokens")
	}
	switch tk.Type {
	case token.SequenceEntryType:
		return p.parseBlockSequence()
	case token.SequenceStartType:
		return p.parseFlowSequence()
	case token.MappingStartType:
		return p.parseFlowMapping()
	case token.AnchorType:
		p.advance()
		p.pendingAnchor = tk.Value
		return p.parseNode()
	case token.TagType:
		p.advance()
		p.pendingTag = tk
		return p.parseNode()
	case token.AliasType:
		p.advance()
		p.emit(Event{Type: AliasEvent, Tok: tk})
		return nil
	case token.MappingKeyType:
		return p.parseBlockMapping()
	case token.DocumentHeaderType, token.DocumentEndType:
		return fmt.Errorf("parser: unexpected %s at %s", tk.Type, tk.Position)
	default:
		if p.isMappingAhead() {
			return p.parseBlockMapping()
		}
		p.advance()
		p.emit(Event{Type: ScalarEvent, Tok: tk})
		return nil
	}
}

// parseKeyNode parses a mapping key without mapping-detection, so that
// `key: value` inside parseBlockMapping doesn't recurse into treating
// the key itself as the start of a nested mapping.
func (p *Parser) parseKeyNode() error {
	tk := p.peek()
	if tk == nil {
		return fmt.Errorf("parser: unexpected end of tokens in mapping key")
	}
	switch tk.Type {
	case token.AnchorType:
		p.advance()
		p.pendingAnchor = tk.Value
		return p.parseKeyNode()
	case token.TagType:
		p.advance()
		p.pendingTag = tk
		return p.parseKeyNode()
	case token.AliasType:
		p.advance()
		p.emit(Event{Type: AliasEvent, Tok: tk})
		return nil
	case token.SequenceStartType:
		return p.parseFlowSequence()
	case token.MappingStartType:
		return p.parseFlowMapping()
	default:
		p.advance()
		p.emit(Event{Type: ScalarEvent, Tok: tk})
		return nil
	}
}

func (p *Parser) isMappingAhead() bool {
	next := p.peekAt(1)
	return next != nil && next.Type == token.MappingValueType
}

func isTerminator(tk *token.Token) bool {
	if tk == nil {
		return true
	}
	switch tk.Type {
	case token.DocumentHeaderType, token.DocumentEndType:
		return true
	}
	return false
}

func nullToken(pos *token.Position) *token.Token {
	return &token.Token{Type: token.NullType, Position: pos}
}

func (p *Parser) parseBlockSequence() error {
	startTok := p.peek()
	col := startTok.Position.Column
	p.emit(Event{Type: SequenceStartEvent, Tok: startTok, IsFlow: false})
	for {
		cur := p.peek()
		if isTerminator(cur) || cur.Type != token.SequenceEntryType || cur.Position.Column != col {
			break
		}
		dash := p.advance()
		nxt := p.peek()
		if isTerminator(nxt) || nxt == nil || nxt.Position.Column <= col {
			p.emit(Event{Type: ScalarEvent, Tok: nullToken(dash.Position)})
			continue
		}
		if err := p.parseNode(); err != nil {
			return err
		}
	}
	p.emit(Event{Type: SequenceEndEvent})
	return nil
}

func (p *Parser) parseBlockMapping() error {
	startTok := p.peek()
	col := startTok.Position.Column
	p.emit(Event{Type: MappingStartEvent, Tok: startTok, IsFlow: false})
	for {
		cur := p.peek()
		if isTerminator(cur) || cur.Position.Column != col {
			break
		}
		var err error
		if cur.Type == token.MappingKeyType {
			p.advance()
			err = p.parseNode()
		} else {
			err = p.parseKeyNode()
		}
		if err != nil {
			return err
		}
		colonTok := p.peek()
		if colonTok == nil || colonTok.Type != token.MappingValueType {
			p.emit(Event{Type: ScalarEvent, Tok: nullToken(startTok.Position)})
			continue
		}
		p.advance()
		nxt := p.peek()
		p.pendingColon = colonTok
		if isTerminator(nxt) || nxt == nil || nxt.Position.Column <= col {
			p.emit(Event{Type: ScalarEvent, Tok: nullToken(colonTok.Position)})
		} else if err := p.parseNode(); err != nil {
			return err
		}
	}
	p.emit(Event{Type: MappingEndEvent})
	return nil
}

func (p *Parser) parseFlowSequence() error {
	startTok := p.advance() // '['
	p.emit(Event{Type: SequenceStartEvent, Tok: startTok, IsFlow: true})
	for {
		tk := p.peek()
		if tk == nil {
			return fmt.Errorf("parser: unterminated flow sequence starting at %s", startTok.Position)
		}
		if tk.Type == token.SequenceEndType {
			p.emit(Event{Type: SequenceEndEvent, Tok: p.advance()})
			return nil
		}
		if err := p.parseNode(); err != nil {
			return err
		}
		if tk := p.peek(); tk != nil && tk.Type == token.CollectEntryType {
			p.advance()
		}
	}
}

func (p *Parser) parseFlowMapping() error {
	startTok := p.advance() // '{'
	p.emit(Event{Type: MappingStartEvent, Tok: startTok, IsFlow: true})
	for {
		tk := p.peek()
		if tk == nil {
			return fmt.Errorf("parser: unterminated flow mapping starting at %s", startTok.Position)
		}
		if tk.Type == token.MappingEndType {
			p.emit(Event{Type: MappingEndEvent, Tok: p.advance()})
			return nil
		}
		var err error
		if tk.Type == token.MappingKeyType {
			p.advance()
			err = p.parseNode()
		} else {
			err = p.parseKeyNode()
		}
		if err != nil {
			return err
		}
		if nxt := p.peek(); nxt != nil && nxt.Type == token.MappingValueType {
			p.pendingColon = p.advance()
			if err := p.parseNode(); err != nil {
				return err
			}
		} else {
			p.emit(Event{Type: ScalarEvent, Tok: nullToken(tk.Position)})
		}
		if tk := p.peek(); tk != nil && tk.Type == token.CollectEntryType {
			p.advance()
		}
	}
}
