package calculator

import (
	"fmt"
	"strings"
)

// State is the running-calculator model.
//
// PendingOp != "" implies FirstOperand != nil, and Display never carries
// more than one decimal point.
type State struct {
	Display      string
	FirstOperand *float64
	PendingOp    Op
	Waiting      bool
}

// DefaultState is the state at session start and after AC.
func DefaultState() State {
	return State{Display: "0"}
}

// Evaluation reports the arithmetic step run by Operation or Equals.
type Evaluation struct {
	// Performed is false when the action only captured an operand or was a no-op.
	Performed  bool
	Op         Op
	Left       float64
	Right      float64
	Expression string
	Result     float64
	Err        error
}

// Machine applies key-press actions to a State. It is not safe for
// concurrent use; the session serializes access on its event loop.
type Machine struct {
	state State
}

func NewMachine() *Machine {
	return &Machine{state: DefaultState()}
}

// State returns a copy of the current state.
func (m *Machine) State() State {
	s := m.state
	if s.FirstOperand != nil {
		v := *s.FirstOperand
		s.FirstOperand = &v
	}
	return s
}

// Display returns the current display text.
func (m *Machine) Display() string {
	return m.state.Display
}

// Digit enters d ("0" through "9"). Anything else is ignored.
func (m *Machine) Digit(d string) {
	if !IsDigit(d) {
		return
	}
	if m.state.Waiting {
		m.state.Display = d
		m.state.Waiting = false
		return
	}
	if m.state.Display == "0" {
		m.state.Display = d
		return
	}
	m.state.Display += d
}

// Dot starts or extends a decimal fraction.
func (m *Machine) Dot() {
	if m.state.Waiting {
		m.state.Display = "0."
		m.state.Waiting = false
		return
	}
	if !strings.Contains(m.state.Display, ".") {
		m.state.Display += "."
	}
}

// ToggleSign flips the sign of a non-zero display value.
func (m *Machine) ToggleSign() {
	v := ParseNumber(m.state.Display)
	switch {
	case v > 0:
		m.state.Display = "-" + m.state.Display
	case v < 0:
		m.state.Display = m.state.Display[1:]
	}
}

// Percent divides the display value by 100.
func (m *Machine) Percent() {
	m.state.Display = FormatNumber(ParseNumber(m.state.Display) / 100)
}

// Operation applies op. The first operator captures the display as the
// left operand; later operators first fold the pending operation.
func (m *Machine) Operation(op Op) Evaluation {
	input := ParseNumber(m.state.Display)

	if m.state.FirstOperand == nil {
		m.state.FirstOperand = &input
		m.state.PendingOp = op
		m.state.Waiting = true
		return Evaluation{}
	}

	if m.state.PendingOp != "" {
		ev := m.compute(*m.state.FirstOperand, input, m.state.PendingOp)
		if ev.Err != nil {
			m.fail(ev.Err)
			return ev
		}
		result := ev.Result
		m.state = State{
			Display:      FormatNumber(result),
			FirstOperand: &result,
			PendingOp:    op,
			Waiting:      true,
		}
		return ev
	}

	m.state.PendingOp = op
	m.state.Waiting = true
	return Evaluation{}
}

// Equals completes the pending operation. No operator survives "=".
func (m *Machine) Equals() Evaluation {
	if m.state.FirstOperand == nil || m.state.PendingOp == "" {
		return Evaluation{}
	}

	ev := m.compute(*m.state.FirstOperand, ParseNumber(m.state.Display), m.state.PendingOp)
	if ev.Err != nil {
		m.fail(ev.Err)
		return ev
	}
	m.state = State{
		Display: FormatNumber(ev.Result),
		Waiting: true,
	}
	return ev
}

// Clear resets the display only.
func (m *Machine) Clear() {
	m.state.Display = "0"
}

// AllClear resets the whole state.
func (m *Machine) AllClear() {
	m.state = DefaultState()
}

func (m *Machine) compute(left, right float64, op Op) Evaluation {
	ev := Evaluation{
		Performed:  true,
		Op:         op,
		Left:       left,
		Right:      right,
		Expression: fmt.Sprintf("%s %s %s", FormatNumber(left), op, FormatNumber(right)),
	}
	v, err := Apply(left, right, op)
	if err == nil {
		v, err = CheckFinite(v)
	}
	ev.Result, ev.Err = v, err
	return ev
}

func (m *Machine) fail(err error) {
	m.state = State{
		Display: displayFor(err),
		Waiting: true,
	}
}

// IsDigit reports whether s is a single decimal digit.
func IsDigit(s string) bool {
	return len(s) == 1 && s[0] >= '0' && s[0] <= '9'
}
