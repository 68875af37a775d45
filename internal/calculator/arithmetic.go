package calculator

import (
	"fmt"
	"math"
)

// Op is a pending binary operator, stored as the glyph shown on the keypad.
type Op string

const (
	OpAdd      Op = "+"
	OpSubtract Op = "-"
	OpMultiply Op = "×"
	OpDivide   Op = "÷"
)

// ParseOp accepts keypad glyphs and their ASCII spellings.
func ParseOp(s string) (Op, error) {
	switch s {
	case "+", "add":
		return OpAdd, nil
	case "-", "−", "subtract":
		return OpSubtract, nil
	case "×", "*", "x", "multiply":
		return OpMultiply, nil
	case "÷", "/", "divide":
		return OpDivide, nil
	}
	return "", fmt.Errorf("%w: unknown operator %q", ErrInvalidOperation, s)
}

// Name returns the operation name used in metrics and logs.
func (o Op) Name() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	}
	return "unknown"
}

func Add(a, b float64) float64 { return a + b }

func Subtract(a, b float64) float64 { return a - b }

func Multiply(a, b float64) float64 { return a * b }

// Divide fails with ErrDivisionByZero when b is exactly zero.
func Divide(a, b float64) (float64, error) {
	if b == 0 {
		return 0, fmt.Errorf("%w: %g / %g", ErrDivisionByZero, a, b)
	}
	return a / b, nil
}

// Percentage returns percent% of value.
func Percentage(value, percent float64) float64 {
	return value * percent / 100
}

func SquareRoot(v float64) (float64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%w: square root of negative number %g", ErrInvalidOperation, v)
	}
	return math.Sqrt(v), nil
}

func Power(base, exponent float64) float64 {
	return math.Pow(base, exponent)
}

func Reciprocal(v float64) (float64, error) {
	if v == 0 {
		return 0, fmt.Errorf("%w: reciprocal of zero", ErrInvalidOperation)
	}
	return 1 / v, nil
}

func Negate(v float64) float64 { return -v }

// CheckFinite rejects NaN and infinities.
func CheckFinite(v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %s", ErrInvalidResult, FormatNumber(v))
	}
	return v, nil
}

// Apply computes a op b. The result is not checked for finiteness.
func Apply(a, b float64, op Op) (float64, error) {
	switch op {
	case OpAdd:
		return Add(a, b), nil
	case OpSubtract:
		return Subtract(a, b), nil
	case OpMultiply:
		return Multiply(a, b), nil
	case OpDivide:
		return Divide(a, b)
	}
	return 0, fmt.Errorf("%w: unknown operator %q", ErrInvalidOperation, string(op))
}
