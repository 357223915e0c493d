package calc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Expr = num | Expr '%' | Add | Sub | Mul | Div | '(' Expr ')'
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr
// Div = Expr '/' Expr
//
// A '-' at the start of the source or directly after '(' is read as "0-".

// Expr is a parsed expression in postfix order.
type Expr struct {
	// src is the source text after unary minus rewriting.
	src string
	// infix is the tokens of src in source order.
	infix []Token
	// postfix is the converted token sequence.
	postfix []Token
	// blank is whether the source contained only whitespace.
	blank bool
}

// Parse converts an infix expression into postfix form. Whitespace-only
// source produces an expression which evaluates to 0. Errors from
// tokenizing or from unbalanced parentheses are returned unchanged.
func Parse(src string) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return &Expr{src: src, blank: true}, nil
	}
	src = negate(src)
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	postfix, err := ToPostfix(toks)
	if err != nil {
		return nil, err
	}
	return &Expr{src: src, infix: toks, postfix: postfix}, nil
}

// negate rewrites a unary minus at the start of src or directly following an
// open parenthesis as a subtraction from zero. No other minus sign is
// touched, so "2*-3" remains an error. Leading whitespace is kept so that
// columns before the first minus sign are unchanged.
func negate(src string) string {
	i := strings.IndexFunc(src, func(r rune) bool { return !unicode.IsSpace(r) })
	if i >= 0 && src[i] == '-' {
		src = src[:i] + "0" + src[i:]
	}
	return strings.ReplaceAll(src, "(-", "(0-")
}

// Eval evaluates the expression.
func (e *Expr) Eval() (float64, error) {
	if e.blank {
		return 0, nil
	}
	return EvalPostfix(e.postfix)
}

// Tokens returns a copy of the expression's tokens in postfix order.
func (e *Expr) Tokens() []Token {
	return append([]Token(nil), e.postfix...)
}

// Infix returns a copy of the expression's tokens in source order. Their
// positions are columns of Source.
func (e *Expr) Infix() []Token {
	return append([]Token(nil), e.infix...)
}

// Source returns the text the expression was tokenized from, which differs
// from the text given to Parse when a unary minus was rewritten.
func (e *Expr) Source() string {
	return e.src
}

// String formats the expression in postfix notation with tokens separated
// by spaces.
func (e *Expr) String() string {
	var b strings.Builder
	for i, tok := range e.postfix {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

// precedence returns the binding strength of a binary operator, or 0 if op
// is not one.
func precedence(op string) int {
	switch op {
	case "*", "/":
		return 2
	case "+", "-":
		return 1
	default:
		return 0
	}
}

// badToken returns the error for a token that Tokenize would never have
// produced, pointing at its first rune.
func badToken(tok Token) error {
	r, _ := utf8.DecodeRuneInString(tok.Text)
	return &CharError{Col: tok.Pos, Char: r}
}

// ToPostfix reorders tokens from infix to postfix order using the
// shunting-yard algorithm. Operators of equal precedence group to the left.
// Parentheses are consumed; if they do not balance, the result is a
// *BracketError. Operands are not counted here, so a sequence like "1 +"
// converts successfully and fails only when evaluated. An operator other
// than + - * / or a token of unknown kind is a *CharError.
func ToPostfix(tokens []Token) ([]Token, error) {
	out := make([]Token, 0, len(tokens))
	var ops []Token
	for _, tok := range tokens {
		switch tok.Kind {
		case TokenNum, TokenPercent:
			out = append(out, tok)
		case TokenOp:
			p := precedence(tok.Text)
			if p == 0 {
				return nil, badToken(tok)
			}
			for len(ops) > 0 {
				top := ops[len(ops)-1]
				if top.Kind != TokenOp || precedence(top.Text) < p {
					break
				}
				out = append(out, top)
				ops = ops[:len(ops)-1]
			}
			ops = append(ops, tok)
		case TokenOpen:
			ops = append(ops, tok)
		case TokenClose:
			for {
				if len(ops) == 0 {
					return nil, &BracketError{Col: tok.Pos, Right: tok.Text}
				}
				top := ops[len(ops)-1]
				ops = ops[:len(ops)-1]
				if top.Kind == TokenOpen {
					break
				}
				out = append(out, top)
			}
		default:
			return nil, badToken(tok)
		}
	}
	for len(ops) > 0 {
		top := ops[len(ops)-1]
		ops = ops[:len(ops)-1]
		if top.Kind == TokenOpen {
			return nil, &BracketError{Col: top.Pos, Left: top.Text}
		}
		out = append(out, top)
	}
	return out, nil
}
