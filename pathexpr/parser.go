package pathexpr

import "fmt"

// Parser is a precedence-climbing parser over a pre-lexed Tok stream,
// the same hand-rolled cursor shape parser.Parser uses over token.Tokens
// (peek/peekAt/advance).
//
// Precedence, loosest to tightest: logical `||`/`&&`, multi `,`, chain
// `/`, sibling `:`, then atoms with postfix filters (`$`/`%`/`[]`/`{}`).
// spec §4.8 lists a numeric precedence table (paren=30, sibling=20,
// comma=15, slash=10, filters=5, logical=4) that, read as a shunting-yard
// binding-strength table, would put comma above slash and slash above
// filter-suffixes — an ordering real path expressions rarely exercise
// unparenthesized (filters and chains are normally written tightly
// bound, e.g. "/a/b$", not interleaved with top-level commas). This
// parser instead uses the conventional reading (logical loosest, then
// multi, then chain, then sibling, then atom+postfix tightest), which
// agrees with the spec's own worked evaluation semantics ("chains thread
// a working set", "multi unions children's results", filters apply to a
// single node) and is documented here per the Open-Questions instruction
// to decide and record ambiguous points.
type Parser struct {
	toks []Tok
	idx  int
}

func newParser(toks []Tok) *Parser { return &Parser{toks: toks} }

// Parse parses src fully, erroring if trailing tokens remain.
func Parse(src string) (*Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := newParser(toks)
	if len(toks) == 0 {
		return &Expr{Kind: KindThis}, nil
	}
	e, err := p.parseLogical()
	if err != nil {
		return nil, err
	}
	if !p.atEnd() {
		return nil, fmt.Errorf("pathexpr: unexpected trailing token at position %d", p.idx)
	}
	return e, nil
}

func (p *Parser) atEnd() bool { return p.idx >= len(p.toks) }

func (p *Parser) peek() (Tok, bool) {
	if p.atEnd() {
		return Tok{}, false
	}
	return p.toks[p.idx], true
}

func (p *Parser) advance() Tok {
	tk := p.toks[p.idx]
	p.idx++
	return tk
}

func (p *Parser) parseLogical() (*Expr, error) {
	left, err := p.parseMulti()
	if err != nil {
		return nil, err
	}
	for {
		tk, ok := p.peek()
		if !ok || (tk.Kind != TokOr && tk.Kind != TokAnd) {
			return left, nil
		}
		kind := KindOr
		if tk.Kind == TokAnd {
			kind = KindAnd
		}
		p.advance()
		right, err := p.parseMulti()
		if err != nil {
			return nil, err
		}
		left = flattenOrAppend(kind, left, right)
	}
}

// flattenOrAppend merges consecutive same-kind logical/multi/chain nodes
// into one n-ary node ("consecutive chains and multis are flattened",
// spec §4.8).
func flattenOrAppend(kind Kind, left, right *Expr) *Expr {
	if left.Kind == kind {
		left.Children = append(left.Children, right)
		return left
	}
	return &Expr{Kind: kind, Children: []*Expr{left, right}}
}

func (p *Parser) parseMulti() (*Expr, error) {
	left, err := p.parseChain()
	if err != nil {
		return nil, err
	}
	for {
		tk, ok := p.peek()
		if !ok || tk.Kind != TokComma {
			return left, nil
		}
		p.advance()
		right, err := p.parseChain()
		if err != nil {
			return nil, err
		}
		left = flattenOrAppend(KindMulti, left, right)
	}
}

// parseChain handles a leading '/' as a root-prefixed absolute path, a
// run of '/'-separated components as a chain, and a trailing '/' with
// nothing following it as a no-op collection-filter suffix (spec §4.8
// slash-disambiguation).
func (p *Parser) parseChain() (*Expr, error) {
	var first *Expr
	if tk, ok := p.peek(); ok && tk.Kind == TokSlash {
		p.advance()
		first = &Expr{Kind: KindRoot}
		if tk2, ok := p.peek(); !ok || !startsAtom(tk2) {
			return first, nil
		}
	}
	atom, err := p.parseSibling()
	if err != nil {
		return nil, err
	}
	if first == nil {
		first = atom
	} else {
		first = flattenOrAppend(KindChain, first, atom)
	}
	for {
		tk, ok := p.peek()
		if !ok || tk.Kind != TokSlash {
			return first, nil
		}
		p.advance()
		if tk2, ok := p.peek(); !ok || !startsAtom(tk2) {
			// trailing slash with nothing following: no-op suffix.
			return first, nil
		}
		next, err := p.parseSibling()
		if err != nil {
			return nil, err
		}
		first = flattenOrAppend(KindChain, first, next)
	}
}

func startsAtom(tk Tok) bool {
	switch tk.Kind {
	case TokRoot, TokParent, TokThis, TokStar, TokStarStar, TokIdent, TokInt, TokSlice, TokFlowKey, TokAliasPath, TokLParen:
		return true
	}
	return false
}

// parseSibling parses an atom (with postfix filters) and folds any
// following `:` operators into KindSibling nodes, left-associatively.
func (p *Parser) parseSibling() (*Expr, error) {
	left, err := p.parseAtomWithFilters()
	if err != nil {
		return nil, err
	}
	for {
		tk, ok := p.peek()
		if !ok || tk.Kind != TokSibling {
			return left, nil
		}
		p.advance()
		right, err := p.parseAtomWithFilters()
		if err != nil {
			return nil, err
		}
		left = &Expr{Kind: KindSibling, Left: left, Right: right}
	}
}

func (p *Parser) parseAtomWithFilters() (*Expr, error) {
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for {
		tk, ok := p.peek()
		if !ok {
			return atom, nil
		}
		var kind Kind
		switch tk.Kind {
		case TokScalarFilter:
			kind = KindFilterScalar
		case TokCollectionFilter:
			kind = KindFilterCollection
		case TokSeqFilter:
			kind = KindFilterSeq
		case TokMapFilter:
			kind = KindFilterMap
		default:
			return atom, nil
		}
		p.advance()
		atom = &Expr{Kind: kind, Children: []*Expr{atom}}
	}
}

func (p *Parser) parseAtom() (*Expr, error) {
	tk, ok := p.peek()
	if !ok {
		return nil, fmt.Errorf("pathexpr: unexpected end of expression")
	}
	switch tk.Kind {
	case TokRoot:
		p.advance()
		return &Expr{Kind: KindRoot}, nil
	case TokParent:
		p.advance()
		return &Expr{Kind: KindParent}, nil
	case TokThis:
		p.advance()
		return &Expr{Kind: KindThis}, nil
	case TokStar:
		p.advance()
		return &Expr{Kind: KindEveryChild}, nil
	case TokStarStar:
		p.advance()
		return &Expr{Kind: KindEveryChildRecursive}, nil
	case TokAliasPath:
		p.advance()
		return &Expr{Kind: KindAliasPath, AliasPath: tk.Text}, nil
	case TokInt:
		p.advance()
		return &Expr{Kind: KindSeqIndex, Index: tk.Int}, nil
	case TokSlice:
		p.advance()
		return &Expr{Kind: KindSeqSlice, SliceStart: tk.SliceStart, SliceEnd: tk.SliceEnd}, nil
	case TokFlowKey:
		p.advance()
		return &Expr{Kind: KindMapKey, Key: tk.Text}, nil
	case TokIdent:
		p.advance()
		if len(tk.Text) > 0 && tk.Text[0] == '*' {
			return &Expr{Kind: KindAlias, AliasName: tk.Text[1:]}, nil
		}
		return &Expr{Kind: KindMapKey, Key: tk.Text}, nil
	case TokLParen:
		p.advance()
		inner, err := p.parseLogical()
		if err != nil {
			return nil, err
		}
		closeTk, ok := p.peek()
		if !ok || closeTk.Kind != TokRParen {
			return nil, fmt.Errorf("pathexpr: missing closing ')'")
		}
		p.advance()
		return inner, nil
	}
	return nil, fmt.Errorf("pathexpr: unexpected token at position %d", p.idx)
}
