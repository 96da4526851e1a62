package calc

import "strings"

// parser is a precedence-climbing parser over the host grammar:
//
//	assign   := or [ '=' assign ]
//	or       := and { '||' and }
//	and      := cmp { '&&' cmp }
//	cmp      := bitor { ('=='|'!='|'<'|'<='|'>'|'>=') bitor }
//	bitor    := bitand { '|' bitand }
//	bitand   := shift { '&' shift }
//	shift    := additive { ('<<'|'>>') additive }
//	additive := mult { ('+'|'-') mult }
//	mult     := power { ('*'|'/'|'//'|'%'|'@') power }
//	power    := unary [ '^' power ]
//	unary    := ('-'|'+'|'!'|'~') unary | postfix
//	postfix  := primary { '(' args ')' | '.' name | '[' assign ']' }
//	primary  := number | string | name | '(' assign ')' | '[' args ']' | lambda
//	lambda   := 'lambda' [ name { ',' name } ] ':' assign
type parser struct {
	toks  []token
	cur   int
	depth int
}

// maxDepth bounds the recursion of nested parentheses, prefix operators and
// right-associative chains so hostile input cannot exhaust the stack.
const maxDepth = 256

// descend enters one nesting level; every successful call must be paired with ascend.
func (p *parser) descend(tok token) error {
	if p.depth >= maxDepth {
		return syntaxErr(tok.pos, "expression nested too deeply")
	}
	p.depth++
	return nil
}

func (p *parser) ascend() {
	p.depth--
}

// parseHost parses src into a host syntax tree.
func parseHost(src string) (node, error) {
	if strings.TrimSpace(src) == "" {
		return nil, syntaxErr(0, "empty expression")
	}
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.parseAssign()
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, syntaxErr(tok.pos, "unexpected %s after expression", describe(tok))
	}
	return n, nil
}

func (p *parser) peek() token {
	return p.toks[p.cur]
}

func (p *parser) advance() token {
	tok := p.toks[p.cur]
	if tok.kind != tokEOF {
		p.cur++
	}
	return tok
}

func (p *parser) match(kinds ...tokenKind) (token, bool) {
	tok := p.peek()
	for _, k := range kinds {
		if tok.kind == k {
			p.advance()
			return tok, true
		}
	}
	return tok, false
}

func (p *parser) expect(kind tokenKind) (token, error) {
	tok := p.peek()
	if tok.kind != kind {
		return tok, syntaxErr(tok.pos, "expected %s, found %s", kind, describe(tok))
	}
	return p.advance(), nil
}

func (p *parser) parseAssign() (node, error) {
	left, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if tok, ok := p.match(tokAssign); ok {
		if err := p.descend(tok); err != nil {
			return nil, err
		}
		value, err := p.parseAssign()
		p.ascend()
		if err != nil {
			return nil, err
		}
		return &assignNode{at: tok.pos, target: left, value: value}, nil
	}
	return left, nil
}

// binaryLevels lists the left-associative levels from loosest to tightest.
var binaryLevels = [][]tokenKind{
	{tokOr},
	{tokAnd},
	{tokEq, tokNeq, tokLt, tokLe, tokGt, tokGe},
	{tokPipe},
	{tokAmp},
	{tokShl, tokShr},
	{tokPlus, tokMinus},
	{tokStar, tokSlash, tokFloorDiv, tokPercent, tokAt},
}

func (p *parser) parseBinary(level int) (node, error) {
	if level == len(binaryLevels) {
		return p.parsePower()
	}
	left, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		tok, ok := p.match(binaryLevels[level]...)
		if !ok {
			return left, nil
		}
		right, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{at: tok.pos, op: tok.kind, left: left, right: right}
	}
}

func (p *parser) parsePower() (node, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if tok, ok := p.match(tokCaret); ok {
		if err := p.descend(tok); err != nil {
			return nil, err
		}
		exp, err := p.parsePower()
		p.ascend()
		if err != nil {
			return nil, err
		}
		return &binaryNode{at: tok.pos, op: tokCaret, left: base, right: exp}, nil
	}
	return base, nil
}

func (p *parser) parseUnary() (node, error) {
	if tok, ok := p.match(tokMinus, tokPlus, tokNot, tokTilde); ok {
		if err := p.descend(tok); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		p.ascend()
		if err != nil {
			return nil, err
		}
		return &unaryNode{at: tok.pos, op: tok.kind, operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() (node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch tok.kind {
		case tokLParen:
			p.advance()
			if err := p.descend(tok); err != nil {
				return nil, err
			}
			args, err := p.parseArgs(tokRParen)
			p.ascend()
			if err != nil {
				return nil, err
			}
			n = &callNode{at: tok.pos, fn: n, args: args}
		case tokDot:
			p.advance()
			name, err := p.expect(tokIdent)
			if err != nil {
				return nil, err
			}
			n = &memberNode{at: tok.pos, target: n, name: name.text}
		case tokLBrack:
			p.advance()
			if err := p.descend(tok); err != nil {
				return nil, err
			}
			index, err := p.parseAssign()
			p.ascend()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(tokRBrack); err != nil {
				return nil, err
			}
			n = &indexNode{at: tok.pos, target: n, index: index}
		default:
			return n, nil
		}
	}
}

// parseArgs reads a comma-separated list up to and including the closing token.
func (p *parser) parseArgs(closing tokenKind) ([]node, error) {
	var args []node
	if _, ok := p.match(closing); ok {
		return args, nil
	}
	for {
		arg, err := p.parseAssign()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if _, ok := p.match(tokComma); ok {
			continue
		}
		if _, err := p.expect(closing); err != nil {
			return nil, err
		}
		return args, nil
	}
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.advance()
	switch tok.kind {
	case tokNumber:
		return &numberNode{at: tok.pos, value: tok.num}, nil
	case tokString:
		return &stringNode{at: tok.pos, text: tok.text}, nil
	case tokIdent:
		if tok.text == "lambda" {
			return p.parseLambda(tok)
		}
		return &nameNode{at: tok.pos, name: tok.text}, nil
	case tokLParen:
		if err := p.descend(tok); err != nil {
			return nil, err
		}
		inner, err := p.parseAssign()
		p.ascend()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(tokRParen); err != nil {
			return nil, err
		}
		return inner, nil
	case tokLBrack:
		if err := p.descend(tok); err != nil {
			return nil, err
		}
		items, err := p.parseArgs(tokRBrack)
		p.ascend()
		if err != nil {
			return nil, err
		}
		return &listNode{at: tok.pos, items: items}, nil
	case tokEOF:
		return nil, syntaxErr(tok.pos, "unexpected end of input")
	default:
		return nil, syntaxErr(tok.pos, "unexpected %s", describe(tok))
	}
}

func (p *parser) parseLambda(kw token) (node, error) {
	var params []string
	if p.peek().kind == tokIdent {
		for {
			name, err := p.expect(tokIdent)
			if err != nil {
				return nil, err
			}
			params = append(params, name.text)
			if _, ok := p.match(tokComma); !ok {
				break
			}
		}
	}
	if _, err := p.expect(tokColon); err != nil {
		return nil, err
	}
	if err := p.descend(kw); err != nil {
		return nil, err
	}
	body, err := p.parseAssign()
	p.ascend()
	if err != nil {
		return nil, err
	}
	return &lambdaNode{at: kw.pos, params: params, body: body}, nil
}

func describe(tok token) string {
	switch tok.kind {
	case tokNumber, tokIdent, tokString:
		return tok.kind.String() + " " + tok.text
	default:
		return tok.kind.String()
	}
}
