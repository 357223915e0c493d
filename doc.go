// Package calc implements a four-function calculator over float64.
//
// An expression is written the way you would type it into a desk calculator:
// digits, decimal points, "+ - * /", parentheses, and a postfix "%" which
// divides the value before it by 100. "2+3*4" is 14 and "10-2-3" is 5, since
// multiplication and division bind tighter than addition and subtraction and
// every operator groups to the left. A minus sign at the start of the
// expression or directly after "(" negates the number that follows it.
//
// Evaluation happens in three stages which can also be used on their own:
// Tokenize splits the source into tokens, ToPostfix reorders them into
// reverse Polish notation with the shunting-yard algorithm, and EvalPostfix
// runs the postfix sequence on a value stack. Parse performs the first two
// stages once so that an expression can be evaluated many times, and Eval
// does everything in one call.
//
// Every failure is a distinct error type carrying a Kind, so callers can tell
// a typo from a division by zero with KindOf.
package calc
