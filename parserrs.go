package calc

import (
	"errors"
	"math"
	"strconv"
)

// Kind classifies the ways evaluating an expression can fail.
type Kind int8

const (
	// NoFailure is the Kind of a nil error or of errors which did not come
	// from this package.
	NoFailure Kind = iota
	// InvalidCharacter means the source contains a rune that cannot begin
	// or continue a token.
	InvalidCharacter
	// MismatchedParentheses means an open parenthesis has no matching close
	// parenthesis or vice versa.
	MismatchedParentheses
	// InvalidExpression means an operator is missing an operand, or operands
	// are left over with no operator to combine them.
	InvalidExpression
	// DivisionByZero means a divisor evaluated to zero.
	DivisionByZero
	// InvalidResult means the result is infinite or NaN.
	InvalidResult
)

func (k Kind) String() string {
	switch k {
	case NoFailure:
		return "NoFailure"
	case InvalidCharacter:
		return "InvalidCharacter"
	case MismatchedParentheses:
		return "MismatchedParentheses"
	case InvalidExpression:
		return "InvalidExpression"
	case DivisionByZero:
		return "DivisionByZero"
	case InvalidResult:
		return "InvalidResult"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// KindOf returns the kind of failure that err describes. If err is nil or
// does not wrap an error from this package, the result is NoFailure.
func KindOf(err error) Kind {
	var k interface{ Kind() Kind }
	if errors.As(err, &k) {
		return k.Kind()
	}
	return NoFailure
}

// CharError is an error indicating a rune which is not part of any valid
// token. It implements InputError.
type CharError struct {
	// Col is the position of the rune.
	Col int
	// Char is the offending rune.
	Char rune
	// Number is the text of the number being scanned up to and including
	// Char, if the rune was rejected while scanning a number. It is empty
	// otherwise.
	Number string
}

func (err *CharError) Error() string {
	if err.Number != "" {
		return errpos(err.Col, "invalid character "+strconv.QuoteRune(err.Char)+" in number "+strconv.Quote(err.Number))
	}
	return errpos(err.Col, "invalid character "+strconv.QuoteRune(err.Char))
}

func (err *CharError) Pos() int {
	return err.Col
}

func (err *CharError) Kind() Kind {
	return InvalidCharacter
}

// BracketError is an error indicating mismatched parentheses in the
// input. It implements InputError.
type BracketError struct {
	// Col is the position of the unmatched parenthesis.
	Col int
	// Left is "(" if the open parenthesis is the unmatched one.
	Left string
	// Right is ")" if the close parenthesis is the unmatched one.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Kind() Kind {
	return MismatchedParentheses
}

// OperandError is an error indicating an operator without enough operands,
// or an expression which leaves more than one value. It implements
// InputError.
type OperandError struct {
	// Col is the position of the operator, or of the end of the input if the
	// expression has too many or no operands.
	Col int
	// Op is the operator which lacked operands. It is empty when the error
	// is about the expression as a whole.
	Op string
	// Have is the number of operands available.
	Have int
}

func (err *OperandError) Error() string {
	if err.Op == "" {
		if err.Have == 0 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, strconv.Itoa(err.Have)+" values with no operator between them")
	}
	return errpos(err.Col, "missing operand for "+strconv.Quote(err.Op))
}

func (err *OperandError) Pos() int {
	return err.Col
}

func (err *OperandError) Kind() Kind {
	return InvalidExpression
}

// DivisionError is an error indicating a division by zero. It implements
// InputError.
type DivisionError struct {
	// Col is the position of the division operator.
	Col int
	// Dividend is the value that was to be divided.
	Dividend float64
}

func (err *DivisionError) Error() string {
	return errpos(err.Col, "division of "+strconv.FormatFloat(err.Dividend, 'g', -1, 64)+" by zero")
}

func (err *DivisionError) Pos() int {
	return err.Col
}

func (err *DivisionError) Kind() Kind {
	return DivisionByZero
}

// ResultError is an error indicating that an expression evaluated to an
// infinity or NaN.
type ResultError struct {
	// Value is the non-finite result.
	Value float64
}

func (err *ResultError) Error() string {
	switch {
	case math.IsNaN(err.Value):
		return "result is not a number"
	case math.IsInf(err.Value, 0):
		return "result is out of range"
	default:
		return "invalid result " + strconv.FormatFloat(err.Value, 'g', -1, 64)
	}
}

func (err *ResultError) Kind() Kind {
	return InvalidResult
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting
// from invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*CharError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*DivisionError)(nil)
)
