package calculator

import (
	"errors"
	"math"
	"testing"
)

func TestDivide(t *testing.T) {
	for _, a := range []float64{0, 1, -7.5, math.MaxFloat64} {
		if _, err := Divide(a, 0); !errors.Is(err, ErrDivisionByZero) {
			t.Fatalf("Divide(%g, 0): expected ErrDivisionByZero, got %v", a, err)
		}
	}

	got, err := Divide(1, 3)
	if err != nil {
		t.Fatalf("Divide(1, 3): %v", err)
	}
	if got != 1.0/3.0 {
		t.Fatalf("expected %v, got %v", 1.0/3.0, got)
	}

	// Exact comparison: a tiny divisor is not zero.
	if _, err := Divide(1, 1e-300); err != nil {
		t.Fatalf("expected tiny divisor to be accepted, got %v", err)
	}
}

func TestUnaryFailures(t *testing.T) {
	if _, err := SquareRoot(-4); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for sqrt(-4), got %v", err)
	}
	if _, err := Reciprocal(0); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation for 1/0, got %v", err)
	}
	if v, _ := SquareRoot(9); v != 3 {
		t.Fatalf("expected sqrt(9) = 3, got %v", v)
	}
	if v, _ := Reciprocal(4); v != 0.25 {
		t.Fatalf("expected 1/4 = 0.25, got %v", v)
	}
}

func TestTotalOperations(t *testing.T) {
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"add", Add(2, 3), 5},
		{"subtract", Subtract(2, 3), -1},
		{"multiply", Multiply(-4, 2.5), -10},
		{"percentage", Percentage(200, 15), 30},
		{"power", Power(2, 10), 1024},
		{"power negative exponent", Power(2, -1), 0.5},
		{"power fractional exponent", Power(9, 0.5), 3},
		{"negate", Negate(3), -3},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Fatalf("%s: expected %v, got %v", tt.name, tt.want, tt.got)
		}
	}
}

func TestCheckFinite(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := CheckFinite(v); !errors.Is(err, ErrInvalidResult) {
			t.Fatalf("CheckFinite(%v): expected ErrInvalidResult, got %v", v, err)
		}
	}
	if v, err := CheckFinite(42); err != nil || v != 42 {
		t.Fatalf("expected 42, got %v (%v)", v, err)
	}
}

func TestParseOp(t *testing.T) {
	tests := []struct {
		in   string
		want Op
	}{
		{"+", OpAdd},
		{"add", OpAdd},
		{"−", OpSubtract},
		{"-", OpSubtract},
		{"*", OpMultiply},
		{"x", OpMultiply},
		{"×", OpMultiply},
		{"/", OpDivide},
		{"÷", OpDivide},
	}
	for _, tt := range tests {
		got, err := ParseOp(tt.in)
		if err != nil {
			t.Fatalf("ParseOp(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseOp(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}

	if _, err := ParseOp("^"); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestApply(t *testing.T) {
	if v, err := Apply(6, 7, OpMultiply); err != nil || v != 42 {
		t.Fatalf("expected 42, got %v (%v)", v, err)
	}
	if _, err := Apply(6, 0, OpDivide); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
	if _, err := Apply(6, 7, Op("^")); !errors.Is(err, ErrInvalidOperation) {
		t.Fatalf("expected ErrInvalidOperation, got %v", err)
	}
}

func TestFriendlyMessage(t *testing.T) {
	if got := FriendlyMessage(ErrDivisionByZero); got == ErrDivisionByZero.Error() {
		t.Fatalf("expected a child-readable message, got %q", got)
	}
	if !IsCalculationError(ErrSyntax) {
		t.Fatal("expected ErrSyntax to be a calculation error")
	}
	if IsCalculationError(errors.New("disk full")) {
		t.Fatal("expected unrelated errors to be excluded")
	}
}
