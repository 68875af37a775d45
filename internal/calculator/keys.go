package calculator

import "fmt"

// KeyKind classifies a keypad key.
type KeyKind int

const (
	KeyDigit KeyKind = iota
	KeyDot
	KeyToggleSign
	KeyPercent
	KeyOperator
	KeyEquals
	KeyClear
	KeyAllClear
)

// Key is a parsed keypad press.
type Key struct {
	Kind  KeyKind
	Digit string
	Op    Op
}

func (k Key) String() string {
	switch k.Kind {
	case KeyDigit:
		return k.Digit
	case KeyDot:
		return "."
	case KeyToggleSign:
		return "±"
	case KeyPercent:
		return "%"
	case KeyOperator:
		return string(k.Op)
	case KeyEquals:
		return "="
	case KeyClear:
		return "C"
	case KeyAllClear:
		return "AC"
	}
	return "?"
}

// ParseKey maps a key label to a Key. Terminal-friendly spellings are
// accepted alongside the keypad glyphs.
func ParseKey(s string) (Key, error) {
	if IsDigit(s) {
		return Key{Kind: KeyDigit, Digit: s}, nil
	}
	switch s {
	case ".", ",":
		return Key{Kind: KeyDot}, nil
	case "±", "+/-", "neg", "n":
		return Key{Kind: KeyToggleSign}, nil
	case "%":
		return Key{Kind: KeyPercent}, nil
	case "=", "enter", "\r", "\n":
		return Key{Kind: KeyEquals}, nil
	case "C", "c", "clear":
		return Key{Kind: KeyClear}, nil
	case "AC", "ac", "allclear", "escape", "\x1b":
		return Key{Kind: KeyAllClear}, nil
	}
	if op, err := ParseOp(s); err == nil {
		return Key{Kind: KeyOperator, Op: op}, nil
	}
	return Key{}, fmt.Errorf("%w: unknown key %q", ErrInvalidOperation, s)
}

// Press applies k to the machine.
func (m *Machine) Press(k Key) Evaluation {
	switch k.Kind {
	case KeyDigit:
		m.Digit(k.Digit)
	case KeyDot:
		m.Dot()
	case KeyToggleSign:
		m.ToggleSign()
	case KeyPercent:
		m.Percent()
	case KeyOperator:
		return m.Operation(k.Op)
	case KeyEquals:
		return m.Equals()
	case KeyClear:
		m.Clear()
	case KeyAllClear:
		m.AllClear()
	}
	return Evaluation{}
}
