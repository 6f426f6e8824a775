package parser

import (
	"github.com/fyparse/fyparse/ast"
	"github.com/fyparse/fyparse/token"
)

// EventType discriminates one item of the event stream the parser's state
// machine emits (spec §4.3/§4.4: "bytes -> reader -> scanner -> token
// queue -> parser -> event stream -> {document builder, composer}").
type EventType int

const (
	DocumentStartEvent EventType = iota
	DocumentEndEvent
	SequenceStartEvent
	SequenceEndEvent
	MappingStartEvent
	MappingEndEvent
	ScalarEvent
	AliasEvent
)

func (t EventType) String() string {
	switch t {
	case DocumentStartEvent:
		return "DocumentStart"
	case DocumentEndEvent:
		return "DocumentEnd"
	case SequenceStartEvent:
		return "SequenceStart"
	case SequenceEndEvent:
		return "SequenceEnd"
	case MappingStartEvent:
		return "MappingStart"
	case MappingEndEvent:
		return "MappingEnd"
	case ScalarEvent:
		return "Scalar"
	case AliasEvent:
		return "Alias"
	}
	return "Unknown"
}

// Event is one item of the parser's output stream (spec §4.3's event
// stream feeding the document builder). Start/Scalar/Alias events carry
// whatever tag/anchor decoration the state machine peeled off the node
// they introduce; a value event occupying a mapping's value position also
// carries the ':' token on Colon, so the builder can attach it to the
// pair it assembles without threading mapping state back into the parser.
type Event struct {
	Type   EventType
	Tok    *token.Token
	Tag    *token.Token
	Anchor string
	IsFlow bool
	Colon  *token.Token

	// DocumentStartEvent only.
	TagDirectives []ast.TagDirective
	ExplicitStart bool

	// DocumentEndEvent only.
	ExplicitEnd bool
}
