// Package keypad holds the state of a desk calculator: the expression being
// typed, the memory register, and whether the display shows a result or an
// error. All arithmetic is delegated to package calc.
package keypad

import (
	"errors"
	"log/slog"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zephyrtronium/calc"
)

// ErrNegativeRoot is returned by Sqrt when the expression is negative.
var ErrNegativeRoot = errors.New("square root of a negative number")

// ErrorText is what Display shows after a failed operation.
const ErrorText = "Error"

// Pad is the state of a calculator. The zero value is an empty pad with a
// zero memory register which discards logs. A Pad is not safe for concurrent
// use.
type Pad struct {
	expr   string
	memory float64
	// done is whether expr holds the result of the last operation, so that
	// typing a number starts over instead of extending it.
	done bool
	// failed is whether the last operation failed.
	failed bool
	log    *slog.Logger
}

// New creates an empty pad which logs evaluations to logger. A nil logger
// discards logs.
func New(logger *slog.Logger) *Pad {
	return &Pad{log: logger}
}

func (p *Pad) logger() *slog.Logger {
	if p.log == nil {
		p.log = slog.New(slog.DiscardHandler)
	}
	return p.log
}

// Expression returns the expression as typed so far.
func (p *Pad) Expression() string {
	return p.expr
}

// Display returns the text to show for the pad: the expression, "0" if it
// is empty, or ErrorText if the last operation failed.
func (p *Pad) Display() string {
	switch {
	case p.failed:
		return ErrorText
	case p.expr == "":
		return "0"
	default:
		return p.expr
	}
}

// Memory returns the value of the memory register.
func (p *Pad) Memory() float64 {
	return p.memory
}

// Type appends s to the expression. If the pad shows a result or an error,
// a leading digit, point, or open parenthesis in s starts a new expression,
// while anything else continues from the result.
func (p *Pad) Type(s string) {
	if s == "" {
		return
	}
	if p.failed {
		p.expr = ""
	}
	if p.done && startsOperand(s) {
		p.expr = ""
	}
	p.expr += s
	p.done = false
	p.failed = false
}

func startsOperand(s string) bool {
	c := s[0]
	return '0' <= c && c <= '9' || c == '.' || c == '('
}

// Backspace removes the last character of the expression. After a result,
// it edits the result text.
func (p *Pad) Backspace() {
	if p.failed {
		p.Clear()
		return
	}
	if p.expr == "" {
		return
	}
	_, n := utf8.DecodeLastRuneInString(p.expr)
	p.expr = p.expr[:len(p.expr)-n]
	p.done = false
}

// Clear empties the expression and clears any error, keeping memory.
func (p *Pad) Clear() {
	p.expr = ""
	p.done = false
	p.failed = false
}

// AllClear empties the expression and the memory register.
func (p *Pad) AllClear() {
	p.Clear()
	p.memory = 0
}

// eval evaluates the current expression. On failure, the expression is
// discarded and the pad shows an error.
func (p *Pad) eval() (float64, error) {
	r, err := calc.Eval(p.expr)
	if err != nil {
		p.logger().Debug("evaluation failed", slog.String("expr", p.expr), slog.String("kind", calc.KindOf(err).String()), slog.Any("err", err))
		p.fail()
		return 0, err
	}
	p.logger().Debug("evaluated", slog.String("expr", p.expr), slog.Float64("result", r))
	return r, nil
}

func (p *Pad) fail() {
	p.expr = ""
	p.done = false
	p.failed = true
}

// show replaces the expression with a result.
func (p *Pad) show(r float64) {
	p.expr = calc.Format(r)
	p.done = true
	p.failed = false
}

// Equals evaluates the expression and replaces it with the result.
func (p *Pad) Equals() (float64, error) {
	r, err := p.eval()
	if err != nil {
		return 0, err
	}
	p.show(r)
	return r, nil
}

// Sqrt evaluates the expression and replaces it with the square root of the
// result. Negative results fail with ErrNegativeRoot.
func (p *Pad) Sqrt() (float64, error) {
	r, err := p.eval()
	if err != nil {
		return 0, err
	}
	if r < 0 {
		p.logger().Debug("negative square root", slog.Float64("x", r))
		p.fail()
		return 0, ErrNegativeRoot
	}
	r = math.Sqrt(r)
	p.show(r)
	return r, nil
}

var trailingNum = regexp.MustCompile(`[0-9.]+$`)

// Percent divides the last number of the expression by 100 in place, so
// "200+50" becomes "200+0.5". It reports whether there was a number to
// convert.
func (p *Pad) Percent() bool {
	if p.failed {
		return false
	}
	loc := trailingNum.FindStringIndex(p.expr)
	if loc == nil {
		return false
	}
	n, err := strconv.ParseFloat(p.expr[loc[0]:], 64)
	if err != nil {
		return false
	}
	p.expr = p.expr[:loc[0]] + calc.Format(n/100)
	p.done = false
	return true
}

// MemoryAdd evaluates the expression and adds the result to memory. The
// expression is replaced by the result.
func (p *Pad) MemoryAdd() error {
	r, err := p.eval()
	if err != nil {
		return err
	}
	p.memory += r
	p.show(r)
	return nil
}

// MemorySub evaluates the expression and subtracts the result from memory.
// The expression is replaced by the result.
func (p *Pad) MemorySub() error {
	r, err := p.eval()
	if err != nil {
		return err
	}
	p.memory -= r
	p.show(r)
	return nil
}

// MemoryRecall enters the value of the memory register. If the expression
// is waiting for an operand, the value is appended; otherwise it replaces the
// expression. Negative values are parenthesized so they stay valid after an
// operator.
func (p *Pad) MemoryRecall() {
	s := calc.Format(p.memory)
	if p.memory < 0 {
		s = "(" + s + ")"
	}
	if p.failed || p.done || !wantsOperand(p.expr) {
		p.expr = ""
	}
	p.expr += s
	p.done = false
	p.failed = false
}

func wantsOperand(expr string) bool {
	expr = strings.TrimRight(expr, " ")
	if expr == "" {
		return true
	}
	return strings.ContainsRune(calc.Operators+"(", rune(expr[len(expr)-1]))
}

// MemoryClear sets the memory register to zero.
func (p *Pad) MemoryClear() {
	p.memory = 0
}
