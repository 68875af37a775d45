package calculator

import (
	"errors"
	"testing"
)

// pressAll feeds key labels to m and returns the last evaluation.
func pressAll(t *testing.T, m *Machine, labels ...string) Evaluation {
	t.Helper()
	var ev Evaluation
	for _, l := range labels {
		k, err := ParseKey(l)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", l, err)
		}
		ev = m.Press(k)
	}
	return ev
}

func TestDigitConcatenation(t *testing.T) {
	tests := []struct {
		keys []string
		want string
	}{
		{[]string{"0"}, "0"},
		{[]string{"0", "0", "7"}, "7"},
		{[]string{"1", "2", "3"}, "123"},
		{[]string{"9", "0", "0"}, "900"},
	}
	for _, tt := range tests {
		m := NewMachine()
		pressAll(t, m, tt.keys...)
		if got := m.Display(); got != tt.want {
			t.Fatalf("%v: expected %q, got %q", tt.keys, tt.want, got)
		}
	}
}

func TestDotIsIdempotentPerNumber(t *testing.T) {
	m := NewMachine()
	pressAll(t, m, ".", ".", "5", ".", "2")
	if got := m.Display(); got != "0.52" {
		t.Fatalf("expected 0.52, got %q", got)
	}

	pressAll(t, m, "+", ".", ".", "5")
	if got := m.Display(); got != "0.5" {
		t.Fatalf("expected a fresh 0.5 after an operator, got %q", got)
	}
}

func TestToggleSignAndPercent(t *testing.T) {
	m := NewMachine()
	pressAll(t, m, "±")
	if got := m.Display(); got != "0" {
		t.Fatalf("expected zero to stay unsigned, got %q", got)
	}

	pressAll(t, m, "5", "±")
	if got := m.Display(); got != "-5" {
		t.Fatalf("expected -5, got %q", got)
	}
	pressAll(t, m, "±")
	if got := m.Display(); got != "5" {
		t.Fatalf("expected 5, got %q", got)
	}

	pressAll(t, m, "0", "%")
	if got := m.Display(); got != "0.5" {
		t.Fatalf("expected 50%% to be 0.5, got %q", got)
	}
}

func TestEqualsChains(t *testing.T) {
	m := NewMachine()
	ev := pressAll(t, m, "5", "+", "3", "=")
	if got := m.Display(); got != "8" {
		t.Fatalf("expected 8, got %q", got)
	}
	if !ev.Performed || ev.Expression != "5 + 3" || ev.Result != 8 {
		t.Fatalf("unexpected evaluation %+v", ev)
	}

	pressAll(t, m, "+", "2", "=")
	if got := m.Display(); got != "10" {
		t.Fatalf("expected 10, got %q", got)
	}

	s := m.State()
	if s.FirstOperand != nil || s.PendingOp != "" || !s.Waiting {
		t.Fatalf("expected no pending operation after equals, got %+v", s)
	}
}

func TestOperatorFoldsPendingOperation(t *testing.T) {
	m := NewMachine()
	ev := pressAll(t, m, "2", "+", "3", "×")
	if !ev.Performed || ev.Result != 5 {
		t.Fatalf("expected 2 + 3 to be folded, got %+v", ev)
	}

	s := m.State()
	if s.Display != "5" || s.FirstOperand == nil || *s.FirstOperand != 5 || s.PendingOp != OpMultiply {
		t.Fatalf("unexpected state %+v", s)
	}

	pressAll(t, m, "4", "=")
	if got := m.Display(); got != "20" {
		t.Fatalf("expected 20, got %q", got)
	}
}

func TestEqualsWithoutOperationIsNoop(t *testing.T) {
	m := NewMachine()
	pressAll(t, m, "4", "2")
	if ev := pressAll(t, m, "="); ev.Performed {
		t.Fatalf("expected no evaluation, got %+v", ev)
	}
	if got := m.Display(); got != "42" {
		t.Fatalf("expected 42, got %q", got)
	}
}

func TestDivisionByZeroScenario(t *testing.T) {
	m := NewMachine()
	pressAll(t, m, "7", "+", "3", "=")
	if got := m.Display(); got != "10" {
		t.Fatalf("expected 10, got %q", got)
	}

	ev := pressAll(t, m, "÷", "0", "=")
	if !errors.Is(ev.Err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", ev.Err)
	}

	s := m.State()
	if s.Display != DivisionByZeroDisplay {
		t.Fatalf("expected %q, got %q", DivisionByZeroDisplay, s.Display)
	}
	if s.FirstOperand != nil || s.PendingOp != "" {
		t.Fatalf("expected operands cleared, got %+v", s)
	}

	pressAll(t, m, "4")
	if got := m.Display(); got != "4" {
		t.Fatalf("expected the next digit to replace the error, got %q", got)
	}
}

func TestNonFiniteResultShowsError(t *testing.T) {
	m := NewMachine()
	m.state.Display = "1e308"
	pressAll(t, m, "×")
	m.state.Display = "10"
	m.state.Waiting = false

	ev := pressAll(t, m, "=")
	if !errors.Is(ev.Err, ErrInvalidResult) {
		t.Fatalf("expected ErrInvalidResult, got %v", ev.Err)
	}
	if got := m.Display(); got != ErrorDisplay {
		t.Fatalf("expected %q, got %q", ErrorDisplay, got)
	}
}

func TestOperationOnErrorDisplay(t *testing.T) {
	m := NewMachine()
	pressAll(t, m, "1", "÷", "0", "=")

	// The error text parses as NaN, so the next result is not finite.
	ev := pressAll(t, m, "+", "1", "=")
	if !errors.Is(ev.Err, ErrInvalidResult) {
		t.Fatalf("expected ErrInvalidResult, got %v", ev.Err)
	}
	if got := m.Display(); got != ErrorDisplay {
		t.Fatalf("expected %q, got %q", ErrorDisplay, got)
	}
}

func TestClearAndAllClear(t *testing.T) {
	m := NewMachine()
	pressAll(t, m, "9", "+", "4", "C")

	s := m.State()
	if s.Display != "0" || s.FirstOperand == nil || s.PendingOp != OpAdd {
		t.Fatalf("expected C to reset the display only, got %+v", s)
	}

	pressAll(t, m, "AC")
	if s := m.State(); s != DefaultState() {
		t.Fatalf("expected default state, got %+v", s)
	}
}

func TestPendingOperationImpliesOperand(t *testing.T) {
	sequences := [][]string{
		{"1", "+", "2", "×", "3", "=", "÷", "0", "=", "5"},
		{"+", "+", "-", "=", "=", "C", "×"},
		{"9", "%", "±", ".", ".", "÷", "AC", "3", "-", "C", "="},
	}
	for _, seq := range sequences {
		m := NewMachine()
		for _, l := range seq {
			pressAll(t, m, l)
			s := m.State()
			if s.PendingOp != "" && s.FirstOperand == nil {
				t.Fatalf("%v: pending %q without an operand after %q", seq, s.PendingOp, l)
			}
		}
	}
}

func TestStateReturnsCopy(t *testing.T) {
	m := NewMachine()
	pressAll(t, m, "3", "+")

	s := m.State()
	*s.FirstOperand = 99
	if got := *m.State().FirstOperand; got != 3 {
		t.Fatalf("expected machine operand 3, got %v", got)
	}
}
