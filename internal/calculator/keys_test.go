package calculator

import (
	"errors"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in   string
		want Key
	}{
		{"7", Key{Kind: KeyDigit, Digit: "7"}},
		{".", Key{Kind: KeyDot}},
		{",", Key{Kind: KeyDot}},
		{"±", Key{Kind: KeyToggleSign}},
		{"+/-", Key{Kind: KeyToggleSign}},
		{"%", Key{Kind: KeyPercent}},
		{"÷", Key{Kind: KeyOperator, Op: OpDivide}},
		{"*", Key{Kind: KeyOperator, Op: OpMultiply}},
		{"=", Key{Kind: KeyEquals}},
		{"enter", Key{Kind: KeyEquals}},
		{"C", Key{Kind: KeyClear}},
		{"AC", Key{Kind: KeyAllClear}},
		{"escape", Key{Kind: KeyAllClear}},
	}
	for _, tt := range tests {
		got, err := ParseKey(tt.in)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParseKey(%q): expected %+v, got %+v", tt.in, tt.want, got)
		}
	}

	for _, in := range []string{"", "12", "sqrt", "^"} {
		if _, err := ParseKey(in); !errors.Is(err, ErrInvalidOperation) {
			t.Fatalf("ParseKey(%q): expected ErrInvalidOperation, got %v", in, err)
		}
	}
}

func TestKeyString(t *testing.T) {
	for _, label := range []string{"4", ".", "±", "%", "×", "=", "C", "AC"} {
		k, err := ParseKey(label)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", label, err)
		}
		if got := k.String(); got != label {
			t.Fatalf("expected %q, got %q", label, got)
		}
	}
}
