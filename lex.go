package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical token of an expression.
type Token struct {
	// Kind is the kind of the token.
	Kind TokenKind
	// Text is the source text of the token. For numbers it is the full run
	// of digits and decimal point; for every other kind it is one character.
	Text string
	// Pos is the column of the first rune of the token, counting from 1.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// TokenKind is the kind of a lexical token.
type TokenKind int8

const (
	tokenNone TokenKind = iota
	// TokenNum is a decimal number.
	TokenNum
	// TokenOp is one of the binary operators + - * /.
	TokenOp
	// TokenPercent is the postfix percent operator.
	TokenPercent
	// TokenOpen is an open parenthesis.
	TokenOpen
	// TokenClose is a close parenthesis.
	TokenClose
)

func (k TokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case TokenNum:
		return "Num"
	case TokenOp:
		return "Op"
	case TokenPercent:
		return "Percent"
	case TokenOpen:
		return "Open"
	case TokenClose:
		return "Close"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are binary operators.
const Operators = "+-*/"

var operstrs = [...]string{"+", "-", "*", "/"}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input. At the end of the input, the
// result is an empty token with io.EOF.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	for {
		tok := Token{Pos: l.rune}
		r, err := l.readRune()
		if err != nil {
			return Token{}, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, err
			}
			tok.Text = l.buf.String()
			tok.Kind = TokenNum
			return tok, nil
		case r == '%':
			tok.Text = "%"
			tok.Kind = TokenPercent
			return tok, nil
		case r == '(':
			tok.Text = "("
			tok.Kind = TokenOpen
			return tok, nil
		case r == ')':
			tok.Text = ")"
			tok.Kind = TokenClose
			return tok, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.Text = operstrs[k]
				tok.Kind = TokenOp
				return tok, nil
			}
			return tok, &CharError{Col: tok.Pos, Char: r}
		}
	}
}

// scanNum scans a maximal run of digits and decimal points into the buffer.
// A run with more than one point or without any digit is rejected.
func (l *lexer) scanNum() error {
	start := l.rune
	var dig, dot bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r != '.' && (r < '0' || r > '9') {
			l.unreadRune()
			break
		}
		if r == '.' {
			if dot {
				l.buf.WriteRune(r)
				return &CharError{Col: l.rune - 1, Char: r, Number: l.buf.String()}
			}
			dot = true
		} else {
			dig = true
		}
		l.buf.WriteRune(r)
	}
	if !dig {
		return &CharError{Col: start, Char: '.', Number: l.buf.String()}
	}
	return nil
}

// Tokenize splits src into tokens in source order. Whitespace separates
// tokens but is otherwise ignored. If any rune of src is not part of a valid
// token, the result is a nil slice and a *CharError naming the rune.
func Tokenize(src string) ([]Token, error) {
	l := lex(strings.NewReader(src))
	var toks []Token
	for {
		tok, err := l.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return toks, nil
			}
			return nil, err
		}
		toks = append(toks, tok)
	}
}
