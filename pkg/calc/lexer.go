package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdent
	tokString
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokPercent
	tokCaret
	tokLParen
	tokRParen
	tokLBrack
	tokRBrack
	tokComma
	tokDot
	tokAssign
	tokEq
	tokNeq
	tokLt
	tokLe
	tokGt
	tokGe
	tokAnd
	tokOr
	tokNot
	tokFloorDiv
	tokAt
	tokAmp
	tokPipe
	tokTilde
	tokShl
	tokShr
	tokColon
)

var tokenNames = map[tokenKind]string{
	tokEOF:      "end of input",
	tokNumber:   "number",
	tokIdent:    "name",
	tokString:   "string",
	tokPlus:     "'+'",
	tokMinus:    "'-'",
	tokStar:     "'*'",
	tokSlash:    "'/'",
	tokPercent:  "'%'",
	tokCaret:    "'^'",
	tokLParen:   "'('",
	tokRParen:   "')'",
	tokLBrack:   "'['",
	tokRBrack:   "']'",
	tokComma:    "','",
	tokDot:      "'.'",
	tokAssign:   "'='",
	tokEq:       "'=='",
	tokNeq:      "'!='",
	tokLt:       "'<'",
	tokLe:       "'<='",
	tokGt:       "'>'",
	tokGe:       "'>='",
	tokAnd:      "'&&'",
	tokOr:       "'||'",
	tokNot:      "'!'",
	tokFloorDiv: "'//'",
	tokAt:       "'@'",
	tokAmp:      "'&'",
	tokPipe:     "'|'",
	tokTilde:    "'~'",
	tokShl:      "'<<'",
	tokShr:      "'>>'",
	tokColon:    "':'",
}

func (k tokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(k))
}

type token struct {
	kind tokenKind
	pos  int
	text string
	num  float64
}

// twoCharOps are matched before single characters so "**" wins over "*".
var twoCharOps = map[string]tokenKind{
	"**": tokCaret,
	"==": tokEq,
	"!=": tokNeq,
	"<=": tokLe,
	">=": tokGe,
	"&&": tokAnd,
	"||": tokOr,
	"//": tokFloorDiv,
	"<<": tokShl,
	">>": tokShr,
}

var oneCharOps = map[byte]tokenKind{
	'+': tokPlus,
	'-': tokMinus,
	'*': tokStar,
	'/': tokSlash,
	'%': tokPercent,
	'^': tokCaret,
	'(': tokLParen,
	')': tokRParen,
	'[': tokLBrack,
	']': tokRBrack,
	',': tokComma,
	'.': tokDot,
	'=': tokAssign,
	'<': tokLt,
	'>': tokGt,
	'!': tokNot,
	'@': tokAt,
	'&': tokAmp,
	'|': tokPipe,
	'~': tokTilde,
	':': tokColon,
}

type lexer struct {
	src string
	cur int
}

// lex splits src into tokens, always terminated by tokEOF.
func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skipSpace()
	if l.cur >= len(l.src) {
		return token{kind: tokEOF, pos: l.cur}, nil
	}

	start := l.cur
	c := l.src[l.cur]

	switch {
	case isDigit(c) || (c == '.' && l.cur+1 < len(l.src) && isDigit(l.src[l.cur+1])):
		return l.scanNumber()
	case c == '"' || c == '\'':
		return l.scanString()
	}

	if l.cur+1 < len(l.src) {
		if kind, ok := twoCharOps[l.src[l.cur:l.cur+2]]; ok {
			l.cur += 2
			return token{kind: kind, pos: start, text: l.src[start:l.cur]}, nil
		}
	}
	if kind, ok := oneCharOps[c]; ok {
		l.cur++
		return token{kind: kind, pos: start, text: l.src[start:l.cur]}, nil
	}

	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	if r == '_' || unicode.IsLetter(r) {
		return l.scanIdent(), nil
	}
	if r == utf8.RuneError && size <= 1 {
		return token{}, syntaxErr(start, "invalid UTF-8 byte")
	}
	return token{}, syntaxErr(start, "unexpected character %q", r)
}

func (l *lexer) skipSpace() {
	for l.cur < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.cur:])
		if !unicode.IsSpace(r) {
			return
		}
		l.cur += size
	}
}

func (l *lexer) scanNumber() (token, error) {
	start := l.cur
	for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
		l.cur++
	}
	if l.cur < len(l.src) && l.src[l.cur] == '.' {
		l.cur++
		for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
			l.cur++
		}
	}
	if l.cur < len(l.src) && (l.src[l.cur] == 'e' || l.src[l.cur] == 'E') {
		mark := l.cur
		l.cur++
		if l.cur < len(l.src) && (l.src[l.cur] == '+' || l.src[l.cur] == '-') {
			l.cur++
		}
		if l.cur >= len(l.src) || !isDigit(l.src[l.cur]) {
			// Not an exponent after all ("2e" is a number followed by a name).
			l.cur = mark
		} else {
			for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
				l.cur++
			}
		}
	}

	text := l.src[start:l.cur]
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) && math.IsInf(v, 0) {
			return token{}, &Error{Kind: KindInvalidOperation, Pos: start, Msg: fmt.Sprintf("number %s is out of range", text)}
		}
		if !errors.Is(err, strconv.ErrRange) {
			return token{}, syntaxErr(start, "malformed number %q", text)
		}
	}
	return token{kind: tokNumber, pos: start, text: text, num: v}, nil
}

func (l *lexer) scanString() (token, error) {
	start := l.cur
	quote := l.src[l.cur]
	l.cur++
	for l.cur < len(l.src) {
		c := l.src[l.cur]
		if c == '\\' {
			l.cur += 2
			continue
		}
		l.cur++
		if c == quote {
			return token{kind: tokString, pos: start, text: l.src[start:l.cur]}, nil
		}
	}
	return token{}, syntaxErr(start, "unterminated string")
}

func (l *lexer) scanIdent() token {
	start := l.cur
	for l.cur < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.cur:])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		l.cur += size
	}
	return token{kind: tokIdent, pos: start, text: l.src[start:l.cur]}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
