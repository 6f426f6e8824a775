// Package token defines the typed token model produced by the scanner:
// each token carries its decoded and original text and a source position,
// plus parsed style hints (scalar style, chomping, indent) and Prev/Next
// links to its neighbors.
package token

import "fmt"

// Character is a single byte-sized YAML indicator character.
type Character byte

const (
	SequenceEntryCharacter Character = '-'
	MappingKeyCharacter    Character = '?'
	MappingValueCharacter  Character = ':'
	CollectEntryCharacter  Character = ','
	SequenceStartCharacter Character = '['
	SequenceEndCharacter   Character = ']'
	MappingStartCharacter  Character = '{'
	MappingEndCharacter    Character = '}'
	CommentCharacter       Character = '#'
	AnchorCharacter        Character = '&'
	AliasCharacter         Character = '*'
	TagCharacter           Character = '!'
	LiteralCharacter       Character = '|'
	FoldedCharacter        Character = '>'
	SingleQuoteCharacter   Character = '\''
	DoubleQuoteCharacter   Character = '"'
	DirectiveCharacter     Character = '%'
	SpaceCharacter         Character = ' '
	TabCharacter           Character = '\t'
	LineBreakCharacter     Character = '\n'
)

// Type enumerates every token variant the scanner can emit.
type Type int

const (
	UnknownType Type = iota
	StreamStartType
	StreamEndType
	DocumentHeaderType
	DocumentEndType
	DirectiveType
	TagDirectiveType
	SequenceEntryType
	MappingKeyType
	MappingValueType
	MergeKeyType
	CollectEntryType
	SequenceStartType
	SequenceEndType
	MappingStartType
	MappingEndType
	CommentType
	AnchorType
	AliasType
	TagType
	LiteralType
	FoldedType
	SingleQuoteType
	DoubleQuoteType
	SpaceType
	TabType
	NullType
	InfinityType
	NanType
	IntegerType
	FloatType
	StringType
	BoolType
	InvalidType
)

func (t Type) String() string {
	switch t {
	case UnknownType:
		return "Unknown"
	case StreamStartType:
		return "StreamStart"
	case StreamEndType:
		return "StreamEnd"
	case DocumentHeaderType:
		return "DocumentHeader"
	case DocumentEndType:
		return "DocumentEnd"
	case DirectiveType:
		return "Directive"
	case TagDirectiveType:
		return "TagDirective"
	case SequenceEntryType:
		return "SequenceEntry"
	case MappingKeyType:
		return "MappingKey"
	case MappingValueType:
		return "MappingValue"
	case MergeKeyType:
		return "MergeKey"
	case CollectEntryType:
		return "CollectEntry"
	case SequenceStartType:
		return "SequenceStart"
	case SequenceEndType:
		return "SequenceEnd"
	case MappingStartType:
		return "MappingStart"
	case MappingEndType:
		return "MappingEnd"
	case CommentType:
		return "Comment"
	case AnchorType:
		return "Anchor"
	case AliasType:
		return "Alias"
	case TagType:
		return "Tag"
	case LiteralType:
		return "Literal"
	case FoldedType:
		return "Folded"
	case SingleQuoteType:
		return "SingleQuote"
	case DoubleQuoteType:
		return "DoubleQuote"
	case SpaceType:
		return "Space"
	case TabType:
		return "Tab"
	case StringType:
		return "String"
	case BoolType:
		return "Bool"
	case IntegerType:
		return "Integer"
	case FloatType:
		return "Float"
	case NullType:
		return "Null"
	case InfinityType:
		return "Infinity"
	case NanType:
		return "Nan"
	case InvalidType:
		return "Invalid"
	}
	return ""
}

// ScalarStyle records how a scalar atom was written.
type ScalarStyle int

const (
	StylePlain ScalarStyle = iota
	StyleSingleQuoted
	StyleDoubleQuoted
	StyleLiteral
	StyleFolded
)

func (s ScalarStyle) String() string {
	switch s {
	case StyleSingleQuoted:
		return "SingleQuoted"
	case StyleDoubleQuoted:
		return "DoubleQuoted"
	case StyleLiteral:
		return "Literal"
	case StyleFolded:
		return "Folded"
	default:
		return "Plain"
	}
}

// ChompMode is the block-scalar trailing-newline policy (spec glossary
// "Chomping").
type ChompMode int

const (
	ChompClip ChompMode = iota
	ChompStrip
	ChompKeep
)

// CharacterType classifies a single rune the scanner just consumed.
type CharacterType int

const (
	CharacterTypeIndicator CharacterType = iota
	CharacterTypeWhiteSpace
	CharacterTypeMiscellaneous
	CharacterTypeEscaped
)

func (c CharacterType) String() string {
	switch c {
	case CharacterTypeIndicator:
		return "Indicator"
	case CharacterTypeWhiteSpace:
		return "WhiteSpace"
	case CharacterTypeMiscellaneous:
		return "Miscellaneous"
	case CharacterTypeEscaped:
		return "Escaped"
	}
	return ""
}

// Indicator groups characters into the YAML indicator families.
type Indicator int

const (
	NotIndicator Indicator = iota
	BlockStructureIndicator
	FlowCollectionIndicator
	CommentIndicator
	NodePropertyIndicator
	BlockScalarIndicator
	QuotedScalarIndicator
	DirectiveIndicator
	InvalidUseOfReservedIndicator
)

func (i Indicator) String() string {
	switch i {
	case NotIndicator:
		return "NotIndicator"
	case BlockStructureIndicator:
		return "BlockStructure"
	case FlowCollectionIndicator:
		return "FlowCollection"
	case CommentIndicator:
		return "Comment"
	case NodePropertyIndicator:
		return "NodeProperty"
	case BlockScalarIndicator:
		return "BlockScalar"
	case QuotedScalarIndicator:
		return "QuotedScalar"
	case DirectiveIndicator:
		return "Directive"
	case InvalidUseOfReservedIndicator:
		return "InvalidUseOfReserved"
	}
	return ""
}

// ReservedKeyword is a plain scalar spelling that resolves to a fixed type
// under the YAML core schema, independent of the configured schema version.
type ReservedKeyword string

const (
	Null             ReservedKeyword = "null"
	NullTilde        ReservedKeyword = "~"
	False            ReservedKeyword = "false"
	True             ReservedKeyword = "true"
	Infinity         ReservedKeyword = ".inf"
	NegativeInfinity ReservedKeyword = "-.inf"
	Nan              ReservedKeyword = ".nan"
)

// ReservedTagKeyword is one of the built-in `!!` secondary-namespace tags.
type ReservedTagKeyword string

const (
	IntegerTag    ReservedTagKeyword = "!!int"
	FloatTag      ReservedTagKeyword = "!!float"
	NullTag       ReservedTagKeyword = "!!null"
	BoolTag       ReservedTagKeyword = "!!bool"
	SequenceTag   ReservedTagKeyword = "!!seq"
	MappingTag    ReservedTagKeyword = "!!map"
	StringTag     ReservedTagKeyword = "!!str"
	BinaryTag     ReservedTagKeyword = "!!binary"
	OrderedMapTag ReservedTagKeyword = "!!omap"
	SetTag        ReservedTagKeyword = "!!set"
	MergeTag      ReservedTagKeyword = "!!merge"
)

// Position is a (byte offset, line, column) source mark plus indent
// bookkeeping, matching spec §6 diagnostics ("(byte_pos, line, column)").
type Position struct {
	Line        int
	Column      int
	Offset      int
	IndentNum   int
	IndentLevel int
}

func (p *Position) String() string {
	return fmt.Sprintf("[level:%d,line:%d,column:%d,offset:%d]", p.IndentLevel, p.Line, p.Column, p.Offset)
}

// Flags are precomputed atom classifications (spec §3 Atom).
type Flags struct {
	ContainsWhitespace bool
	ContainsLineBreak  bool
	Empty              bool
	StartsWithWS       bool
	EndsWithWS         bool
	StartsWithLB       bool
	EndsWithLB         bool
	TrailingLB         bool
	DecodedSizeHint    int
}

// Token is a variant over the scanner's output alphabet. It owns an atom
// (Value/Origin text plus Position) and may carry side-channel fields used
// by a handful of types (tag directive handle/prefix split, alias target
// name, chomp/indent hints for block scalars).
type Token struct {
	Type          Type
	CharacterType CharacterType
	Indicator     Indicator
	Style         ScalarStyle
	Chomp         ChompMode
	ContentIndent int
	Value         string
	Origin        string
	Position      *Position
	Flags         Flags

	// TagHandle/TagPrefix hold the split form of a %TAG directive or a
	// `!handle!suffix` tag reference.
	TagHandle string
	TagPrefix string

	// Error carries a scanner-time diagnostic for InvalidType tokens so the
	// parser can surface the original message without re-deriving it.
	Error string

	Next *Token
	Prev *Token
}

func (t *Token) NextType() Type {
	if t.Next != nil {
		return t.Next.Type
	}
	return UnknownType
}

func (t *Token) PreviousType() Type {
	if t.Prev != nil {
		return t.Prev.Type
	}
	return UnknownType
}

// Tokens is a doubly linked queue of tokens in source
// order (spec §5: "token emission is strictly in source order").
type Tokens []*Token

func (t *Tokens) add(tk *Token) {
	tokens := *t
	if len(tokens) == 0 {
		tokens = append(tokens, tk)
	} else {
		last := tokens[len(tokens)-1]
		last.Next = tk
		tk.Prev = last
		tokens = append(tokens, tk)
	}
	*t = tokens
}

// Add appends one or more tokens, linking Prev/Next pointers.
func (t *Tokens) Add(tks ...*Token) {
	for _, tk := range tks {
		t.add(tk)
	}
}

// InvalidToken returns the first InvalidType token in the queue, if any.
func (t Tokens) InvalidToken() *Token {
	for _, tk := range t {
		if tk.Type == InvalidType {
			return tk
		}
	}
	return nil
}

func (t Tokens) Dump() {
	for _, tk := range t {
		fmt.Printf("- %+v\n", tk)
	}
}

func isNumber(str string) (bool, bool) {
	if str == "-" || str == "." || str == "" {
		return false, false
	}
	isFloat := false
	isMultipleDot := false
	for idx, c := range str {
		switch c {
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			continue
		case '.':
			if isFloat {
				isMultipleDot = true
			}
			isFloat = true
			continue
		case '-', '+':
			if idx == 0 {
				continue
			}
		}
		return false, false
	}
	if isMultipleDot {
		return false, false
	}
	return true, isFloat
}

// New classifies a plain scalar's decoded text against the core-schema
// reserved keyword table and number grammar, constructing the scalar
// token that carries the resolved Type. jsonMode disables YAML-only
// spellings (`~`, `.inf`, `.nan`, leading `+`) per spec §4.2's JSON-mode
// specialization.
func New(value string, org string, pos *Position, jsonMode bool) *Token {
	if !jsonMode {
		if fn := reservedKeywordToken(ReservedKeyword(value)); fn != nil {
			return fn(value, org, pos)
		}
	} else {
		switch value {
		case string(True), string(False):
			return &Token{Type: BoolType, CharacterType: CharacterTypeMiscellaneous, Value: value, Origin: org, Position: pos}
		case string(Null):
			return &Token{Type: NullType, CharacterType: CharacterTypeMiscellaneous, Value: value, Origin: org, Position: pos}
		}
	}
	if ok, isFloat := isNumber(value); ok {
		if !(jsonMode && len(value) > 0 && value[0] == '+') {
			tk := &Token{
				Type:          IntegerType,
				CharacterType: CharacterTypeMiscellaneous,
				Value:         value,
				Origin:        org,
				Position:      pos,
			}
			if isFloat {
				tk.Type = FloatType
			}
			return tk
		}
	}
	return &Token{
		Type:          StringType,
		CharacterType: CharacterTypeMiscellaneous,
		Value:         value,
		Origin:        org,
		Position:      pos,
	}
}

func reservedKeywordToken(kw ReservedKeyword) func(string, string, *Position) *Token {
	switch kw {
	case Null, NullTilde:
		return func(value, org string, pos *Position) *Token {
			return &Token{Type: NullType, CharacterType: CharacterTypeMiscellaneous, Value: value, Origin: org, Position: pos}
		}
	case True, False:
		return func(value, org string, pos *Position) *Token {
			return &Token{Type: BoolType, CharacterType: CharacterTypeMiscellaneous, Value: value, Origin: org, Position: pos}
		}
	case Infinity, NegativeInfinity:
		return func(value, org string, pos *Position) *Token {
			return &Token{Type: InfinityType, CharacterType: CharacterTypeMiscellaneous, Value: value, Origin: org, Position: pos}
		}
	case Nan:
		return func(value, org string, pos *Position) *Token {
			return &Token{Type: NanType, CharacterType: CharacterTypeMiscellaneous, Value: value, Origin: org, Position: pos}
		}
	}
	return nil
}

var reservedTagTokens = map[ReservedTagKeyword]struct{}{
	IntegerTag: {}, FloatTag: {}, NullTag: {}, BoolTag: {}, SequenceTag: {},
	MappingTag: {}, StringTag: {}, BinaryTag: {}, OrderedMapTag: {}, SetTag: {}, MergeTag: {},
}

// IsBuiltinTag reports whether value (e.g. "!!str") names one of the
// fixed secondary-namespace tags that resolve without consulting the
// document's %TAG directive table.
func IsBuiltinTag(value string) bool {
	_, ok := reservedTagTokens[ReservedTagKeyword(value)]
	return ok
}

func simple(typ Type, ct CharacterType, ind Indicator, value string, pos *Position) *Token {
	return &Token{Type: typ, CharacterType: ct, Indicator: ind, Value: value, Origin: value, Position: pos}
}

func SequenceEntry(org string, pos *Position) *Token {
	return &Token{Type: SequenceEntryType, CharacterType: CharacterTypeIndicator, Indicator: BlockStructureIndicator, Value: string(SequenceEntryCharacter), Origin: org, Position: pos}
}

func MappingKey(pos *Position) *Token {
	return simple(MappingKeyType, CharacterTypeIndicator, BlockStructureIndicator, string(MappingKeyCharacter), pos)
}

func MappingValue(pos *Position) *Token {
	return simple(MappingValueType, CharacterTypeIndicator, BlockStructureIndicator, string(MappingValueCharacter), pos)
}

func CollectEntry(org string, pos *Position) *Token {
	return &Token{Type: CollectEntryType, CharacterType: CharacterTypeIndicator, Indicator: FlowCollectionIndicator, Value: string(CollectEntryCharacter), Origin: org, Position: pos}
}

func SequenceStart(org string, pos *Position) *Token {
	return &Token{Type: SequenceStartType, CharacterType: CharacterTypeIndicator, Indicator: FlowCollectionIndicator, Value: string(SequenceStartCharacter), Origin: org, Position: pos}
}

func SequenceEnd(org string, pos *Position) *Token {
	return &Token{Type: SequenceEndType, CharacterType: CharacterTypeIndicator, Indicator: FlowCollectionIndicator, Value: string(SequenceEndCharacter), Origin: org, Position: pos}
}

func MappingStart(org string, pos *Position) *Token {
	return &Token{Type: MappingStartType, CharacterType: CharacterTypeIndicator, Indicator: FlowCollectionIndicator, Value: string(MappingStartCharacter), Origin: org, Position: pos}
}

func MappingEnd(org string, pos *Position) *Token {
	return &Token{Type: MappingEndType, CharacterType: CharacterTypeIndicator, Indicator: FlowCollectionIndicator, Value: string(MappingEndCharacter), Origin: org, Position: pos}
}

func Comment(value string, org string, pos *Position) *Token {
	return &Token{Type: CommentType, CharacterType: CharacterTypeIndicator, Indicator: CommentIndicator, Value: value, Origin: org, Position: pos}
}

func Anchor(org string, pos *Position) *Token {
	return &Token{Type: AnchorType, CharacterType: CharacterTypeIndicator, Indicator: NodePropertyIndicator, Value: string(AnchorCharacter), Origin: org, Position: pos}
}

func Alias(org string, pos *Position) *Token {
	return &Token{Type: AliasType, CharacterType: CharacterTypeIndicator, Indicator: NodePropertyIndicator, Value: string(AliasCharacter), Origin: org, Position: pos}
}

func Tag(value string, org string, pos *Position) *Token {
	return &Token{Type: TagType, CharacterType: CharacterTypeIndicator, Indicator: NodePropertyIndicator, Value: value, Origin: org, Position: pos}
}

func Literal(value string, org string, pos *Position) *Token {
	return &Token{Type: LiteralType, CharacterType: CharacterTypeIndicator, Indicator: BlockScalarIndicator, Value: value, Origin: org, Position: pos, Style: StyleLiteral}
}

func Folded(value string, org string, pos *Position) *Token {
	return &Token{Type: FoldedType, CharacterType: CharacterTypeIndicator, Indicator: BlockScalarIndicator, Value: value, Origin: org, Position: pos, Style: StyleFolded}
}

func SingleQuote(value string, org string, pos *Position) *Token {
	return &Token{Type: SingleQuoteType, CharacterType: CharacterTypeIndicator, Indicator: QuotedScalarIndicator, Value: value, Origin: org, Position: pos, Style: StyleSingleQuoted}
}

func DoubleQuote(value string, org string, pos *Position) *Token {
	return &Token{Type: DoubleQuoteType, CharacterType: CharacterTypeIndicator, Indicator: QuotedScalarIndicator, Value: value, Origin: org, Position: pos, Style: StyleDoubleQuoted}
}

func String(value string, org string, pos *Position) *Token {
	return &Token{Type: StringType, CharacterType: CharacterTypeMiscellaneous, Value: value, Origin: org, Position: pos}
}

func Directive(pos *Position) *Token {
	return simple(DirectiveType, CharacterTypeIndicator, DirectiveIndicator, string(DirectiveCharacter), pos)
}

func TagDirective(handle, prefix, org string, pos *Position) *Token {
	return &Token{Type: TagDirectiveType, CharacterType: CharacterTypeMiscellaneous, Value: handle + " " + prefix, Origin: org, Position: pos, TagHandle: handle, TagPrefix: prefix}
}

func Space(pos *Position) *Token {
	return simple(SpaceType, CharacterTypeWhiteSpace, NotIndicator, string(SpaceCharacter), pos)
}

func Tab(pos *Position) *Token {
	return simple(TabType, CharacterTypeWhiteSpace, NotIndicator, string(TabCharacter), pos)
}

func MergeKey(pos *Position) *Token {
	return &Token{Type: MergeKeyType, CharacterType: CharacterTypeMiscellaneous, Value: "<<", Origin: "<<", Position: pos}
}

func DocumentHeader(pos *Position) *Token {
	return &Token{Type: DocumentHeaderType, CharacterType: CharacterTypeMiscellaneous, Value: "---", Origin: "---", Position: pos}
}

func DocumentEnd(pos *Position) *Token {
	return &Token{Type: DocumentEndType, CharacterType: CharacterTypeMiscellaneous, Value: "...", Origin: "...", Position: pos}
}

func StreamStart(pos *Position) *Token {
	return &Token{Type: StreamStartType, Position: pos}
}

func StreamEnd(pos *Position) *Token {
	return &Token{Type: StreamEndType, Position: pos}
}

// Invalid builds a sentinel token carrying a scanner-time diagnostic; the
// scanner appends one to its output queue and poisons the stream (spec
// §7: "a failure inside the scanner poisons the stream").
func Invalid(msg, org string, pos *Position) *Token {
	return &Token{Type: InvalidType, Value: org, Origin: org, Position: pos, Error: msg}
}
