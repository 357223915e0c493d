package calc_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/zephyrtronium/calc"
)

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"empty", "", 0},
		{"spaces", "   ", 0},
		{"num", "1", 1},
		{"decimal", "2.5", 2.5},
		{"leading-dot", ".5", 0.5},
		{"trailing-dot", "3.", 3},
		{"add", "4+5+6", 4 + 5 + 6},
		{"sub", "10-2-3", 5},
		{"mul", "4*5*6", 4 * 5 * 6},
		{"div", "8/4/2", 1},
		{"prec", "2+3*4", 14},
		{"paren", "(2+3)*4", 20},
		{"spaced", " 2 + 3 * 4 ", 14},
		{"nested", "((2))*((3)+(4))", 14},
		{"neg", "-5+2", -3},
		{"neg-paren", "(-5+2)*3", -9},
		{"neg-neg", "-(-5)", 5},
		{"percent", "50%", 0.5},
		{"percent-add", "50%+10", 10.5},
		{"add-percent", "10+50%", 10.5},
		{"percent-mul", "200*50%", 100},
		{"percent-paren", "(20+30)%", 0.5},
		{"percent-twice", "5000%%", 0.5},
		{"zero-dividend", "0/5", 0},
		{"fraction", "1/4", 0.25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src)
			if err != nil {
				t.Fatalf("%q: unexpected error: %v", c.src, err)
			}
			if r != c.r {
				t.Errorf("%q: wrong result: want %g, got %g", c.src, c.r, r)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		kind calc.Kind
	}{
		{"div-zero", "5/0", calc.DivisionByZero},
		{"div-zero-expr", "5/(2-2)", calc.DivisionByZero},
		{"div-zero-decimal", "1/0.0", calc.DivisionByZero},
		{"zero-div-zero", "0/0", calc.DivisionByZero},
		{"open", "(2+3", calc.MismatchedParentheses},
		{"close", "2+3)", calc.MismatchedParentheses},
		{"letter", "2+a", calc.InvalidCharacter},
		{"dots", "1.2.3", calc.InvalidCharacter},
		{"lone-dot", ".", calc.InvalidCharacter},
		{"dangling-op", "1+", calc.InvalidExpression},
		{"lonely-op", "*", calc.InvalidExpression},
		{"lonely-percent", "%", calc.InvalidExpression},
		{"percent-first", "%5", calc.InvalidExpression},
		{"two-nums", "1 2", calc.InvalidExpression},
		{"empty-parens", "()", calc.InvalidExpression},
		{"unary-after-op", "2*-3", calc.InvalidExpression},
		{"unary-plus", "+5", calc.InvalidExpression},
		{"overflow", strings.Repeat("9", 200) + "*" + strings.Repeat("9", 200), calc.InvalidResult},
		{"huge-literal", strings.Repeat("9", 400), calc.InvalidResult},
		{"inf-minus-inf", strings.Repeat("9", 400) + "-" + strings.Repeat("9", 400), calc.InvalidResult},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.Eval(c.src)
			if err == nil {
				t.Fatalf("%q: expected error, got %g", c.src, r)
			}
			if r != 0 {
				t.Errorf("%q: result %g alongside error", c.src, r)
			}
			if k := calc.KindOf(err); k != c.kind {
				t.Errorf("%q: want %v, got %v (%v)", c.src, c.kind, k, err)
			}
		})
	}
}

func TestEvalErrorTypes(t *testing.T) {
	_, err := calc.Eval("7/(1-1)")
	var de *calc.DivisionError
	if !errors.As(err, &de) {
		t.Fatalf("expected *DivisionError, got %#v", err)
	}
	if de.Col != 2 || de.Dividend != 7 {
		t.Errorf("wrong division error: %+v", de)
	}

	_, err = calc.Eval("1+")
	var oe *calc.OperandError
	if !errors.As(err, &oe) {
		t.Fatalf("expected *OperandError, got %#v", err)
	}
	if oe.Op != "+" || oe.Have != 1 || oe.Col != 2 {
		t.Errorf("wrong operand error: %+v", oe)
	}

	_, err = calc.Eval("1 2 3")
	if !errors.As(err, &oe) {
		t.Fatalf("expected *OperandError, got %#v", err)
	}
	if oe.Op != "" || oe.Have != 3 || oe.Col != 6 {
		t.Errorf("wrong operand error: %+v", oe)
	}

	_, err = calc.Eval("   2+a")
	var ce *calc.CharError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *CharError, got %#v", err)
	}
	if ce.Col != 6 || ce.Char != 'a' {
		t.Errorf("leading spaces moved the error: %+v", ce)
	}

	_, err = calc.Eval("  1+(2")
	var be *calc.BracketError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BracketError, got %#v", err)
	}
	if be.Col != 5 {
		t.Errorf("leading spaces moved the error: %+v", be)
	}

	_, err = calc.Eval(strings.Repeat("9", 400))
	var re *calc.ResultError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ResultError, got %#v", err)
	}
	if !math.IsInf(re.Value, 1) {
		t.Errorf("wrong result error: %+v", re)
	}
}

func TestKindOf(t *testing.T) {
	if k := calc.KindOf(nil); k != calc.NoFailure {
		t.Errorf("nil error has kind %v", k)
	}
	if k := calc.KindOf(errors.New("x")); k != calc.NoFailure {
		t.Errorf("foreign error has kind %v", k)
	}
	_, err := calc.Eval("5/0")
	wrapped := &wrapErr{err}
	if k := calc.KindOf(wrapped); k != calc.DivisionByZero {
		t.Errorf("wrapped error has kind %v", k)
	}
	names := map[calc.Kind]string{
		calc.NoFailure:             "NoFailure",
		calc.InvalidCharacter:      "InvalidCharacter",
		calc.MismatchedParentheses: "MismatchedParentheses",
		calc.InvalidExpression:     "InvalidExpression",
		calc.DivisionByZero:        "DivisionByZero",
		calc.InvalidResult:         "InvalidResult",
	}
	for k, s := range names {
		if k.String() != s {
			t.Errorf("wrong name for kind %d: want %q, got %q", k, s, k.String())
		}
	}
}

type wrapErr struct{ err error }

func (w *wrapErr) Error() string { return "wrapped: " + w.err.Error() }
func (w *wrapErr) Unwrap() error { return w.err }

func TestEvalIdempotent(t *testing.T) {
	srcs := []string{
		"2+3*4",
		"(2+3)*4",
		"-5+2",
		"1/3",
		"2/3*3",
		"0.1+0.2",
		"-1/7",
		"123456789*987654321",
		"1/1024/1024/1024/1024",
		"50%+10",
		"-(0)",
	}
	for _, src := range srcs {
		r, err := calc.Eval(src)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", src, err)
			continue
		}
		s := calc.Format(r)
		q, err := calc.Eval(s)
		if err != nil {
			t.Errorf("%q: re-evaluating %q: %v", src, s, err)
			continue
		}
		if q != r {
			t.Errorf("%q: %g formatted as %q re-evaluates to %g", src, r, s, q)
		}
	}
}

func TestFormat(t *testing.T) {
	cases := []struct {
		x    float64
		want string
	}{
		{0, "0"},
		{14, "14"},
		{-3, "-3"},
		{0.5, "0.5"},
		{10.5, "10.5"},
		{1e21, "1000000000000000000000"},
		{1e-7, "0.0000001"},
	}
	for _, c := range cases {
		if got := calc.Format(c.x); got != c.want {
			t.Errorf("Format(%g): want %q, got %q", c.x, c.want, got)
		}
	}
}

func TestExprReuse(t *testing.T) {
	e, err := calc.Parse("(1+2)*50%")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		r, err := e.Eval()
		if err != nil {
			t.Fatal(err)
		}
		if r != 1.5 {
			t.Errorf("evaluation %d: want 1.5, got %g", i, r)
		}
	}
}

func TestEvalPostfixDirect(t *testing.T) {
	toks, err := calc.Tokenize("3 4 + 2 *")
	if err != nil {
		t.Fatal(err)
	}
	r, err := calc.EvalPostfix(toks)
	if err != nil {
		t.Fatal(err)
	}
	if r != 14 {
		t.Errorf("want 14, got %g", r)
	}
	if _, err := calc.EvalPostfix(nil); calc.KindOf(err) != calc.InvalidExpression {
		t.Errorf("empty postfix: want InvalidExpression, got %v", err)
	}
}

func TestEvalPostfixBadTokens(t *testing.T) {
	one := calc.Token{Kind: calc.TokenNum, Text: "1", Pos: 1}
	cases := []struct {
		name string
		tok  calc.Token
		kind calc.Kind
		col  int
	}{
		{"letter", calc.Token{Kind: calc.TokenNum, Text: "x", Pos: 3}, calc.InvalidCharacter, 3},
		{"late letter", calc.Token{Kind: calc.TokenNum, Text: "12x", Pos: 3}, calc.InvalidCharacter, 5},
		{"two points", calc.Token{Kind: calc.TokenNum, Text: "1.2.3", Pos: 3}, calc.InvalidCharacter, 6},
		{"point", calc.Token{Kind: calc.TokenNum, Text: ".", Pos: 3}, calc.InvalidCharacter, 3},
		{"empty", calc.Token{Kind: calc.TokenNum, Text: "", Pos: 3}, calc.InvalidCharacter, 3},
		{"op", calc.Token{Kind: calc.TokenOp, Text: "^", Pos: 3}, calc.InvalidCharacter, 3},
		{"kind", calc.Token{Kind: calc.TokenKind(42), Text: "?", Pos: 3}, calc.InvalidCharacter, 3},
		{"open", calc.Token{Kind: calc.TokenOpen, Text: "(", Pos: 3}, calc.MismatchedParentheses, 3},
		{"close", calc.Token{Kind: calc.TokenClose, Text: ")", Pos: 3}, calc.MismatchedParentheses, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := calc.EvalPostfix([]calc.Token{one, c.tok})
			if k := calc.KindOf(err); k != c.kind {
				t.Fatalf("want kind %v, got %v (%v)", c.kind, k, err)
			}
			if r != 0 {
				t.Errorf("want 0 with error, got %g", r)
			}
			var ie calc.InputError
			if !errors.As(err, &ie) {
				t.Fatalf("expected InputError, got %#v", err)
			}
			if ie.Pos() != c.col {
				t.Errorf("want position %d, got %d", c.col, ie.Pos())
			}
		})
	}
}
