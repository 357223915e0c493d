package calc

import (
	"errors"
	"math"
	"strconv"
	"unicode/utf8"
)

// num parses the text of a number token. Numbers too large for float64
// become infinities, which are reported when they reach the result.
func num(tok Token) (float64, error) {
	r, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, badNumber(tok)
	}
	return r, nil
}

// badNumber locates the rune that makes the text of a number token invalid.
func badNumber(tok Token) error {
	col := tok.Pos
	dot := false
	for _, r := range tok.Text {
		switch {
		case '0' <= r && r <= '9':
		case r == '.' && !dot:
			dot = true
		default:
			return &CharError{Col: col, Char: r, Number: tok.Text}
		}
		col++
	}
	if tok.Text == "" {
		return &CharError{Col: tok.Pos, Char: utf8.RuneError}
	}
	// Only a lone point can get here.
	return &CharError{Col: tok.Pos, Char: '.', Number: tok.Text}
}

// EvalPostfix evaluates a sequence of tokens in postfix order, such as the
// result of ToPostfix. Each number is pushed to a value stack; "%" replaces
// the top value with one hundredth of it; each binary operator replaces the
// top two values with their combination. Exactly one value must remain.
//
// The error, if any, is an *OperandError when an operator lacks operands or
// values are left over, a *DivisionError when a divisor is zero, or a
// *ResultError when the result is not finite. Tokens that ToPostfix never
// produces are rejected rather than evaluated: a parenthesis is a
// *BracketError, and a malformed number, an unknown operator, or a token of
// unknown kind is a *CharError.
func EvalPostfix(postfix []Token) (float64, error) {
	stack := make([]float64, 0, len(postfix))
	for _, tok := range postfix {
		switch tok.Kind {
		case TokenNum:
			x, err := num(tok)
			if err != nil {
				return 0, err
			}
			stack = append(stack, x)
		case TokenPercent:
			if len(stack) == 0 {
				return 0, &OperandError{Col: tok.Pos, Op: tok.Text}
			}
			stack[len(stack)-1] /= 100
		case TokenOp:
			if precedence(tok.Text) == 0 {
				return 0, badToken(tok)
			}
			if len(stack) < 2 {
				return 0, &OperandError{Col: tok.Pos, Op: tok.Text, Have: len(stack)}
			}
			b := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			a := &stack[len(stack)-1]
			switch tok.Text {
			case "+":
				*a += b
			case "-":
				*a -= b
			case "*":
				*a *= b
			case "/":
				if b == 0 {
					return 0, &DivisionError{Col: tok.Pos, Dividend: *a}
				}
				*a /= b
			}
		case TokenOpen:
			return 0, &BracketError{Col: tok.Pos, Left: tok.Text}
		case TokenClose:
			return 0, &BracketError{Col: tok.Pos, Right: tok.Text}
		default:
			return 0, badToken(tok)
		}
	}
	if len(stack) != 1 {
		return 0, &OperandError{Col: end(postfix), Have: len(stack)}
	}
	r := stack[0]
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0, &ResultError{Value: r}
	}
	return r, nil
}

// end finds the column just past the rightmost token.
func end(toks []Token) int {
	col := 1
	for _, tok := range toks {
		if e := tok.Pos + utf8.RuneCountInString(tok.Text); e > col {
			col = e
		}
	}
	return col
}

// Eval parses and evaluates an infix expression. Empty or whitespace-only
// source evaluates to 0. The first error from any stage is returned as is;
// use KindOf to classify it.
func Eval(src string) (float64, error) {
	e, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return e.Eval()
}

// Format formats a result in plain decimal notation with the fewest digits
// that parse back to the same value, so Eval(Format(x)) == x for any finite
// x.
func Format(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
