package calculator

import (
	"errors"
)

// Error taxonomy. Callers match with errors.Is; the wrapped message carries
// the operands for logs.
var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrInvalidOperation = errors.New("invalid operation")
	ErrSyntax           = errors.New("syntax error")
	ErrInvalidResult    = errors.New("invalid result")
)

// Display strings written by the state machine when an operation fails.
const (
	DivisionByZeroDisplay = "Error: Can't divide by 0!"
	ErrorDisplay          = "Error"
)

// FriendlyMessage maps err to the child-readable message shown by front ends.
func FriendlyMessage(err error) string {
	switch {
	case errors.Is(err, ErrDivisionByZero):
		return "No cookies to share! 🍪 Can't divide by zero!"
	case errors.Is(err, ErrInvalidOperation):
		return "Oops! That doesn't seem to be a valid operation. Please try again with +, -, ×, or ÷."
	case errors.Is(err, ErrInvalidResult):
		return "Number is too big! 📏 Try smaller numbers."
	case errors.Is(err, ErrSyntax):
		return "Check your input! 🧐 Something doesn't look right."
	default:
		return "Something went wrong! 🤔 Please try again."
	}
}

// displayFor returns the text the state machine shows for a failed step.
func displayFor(err error) string {
	if errors.Is(err, ErrDivisionByZero) {
		return DivisionByZeroDisplay
	}
	return ErrorDisplay
}

// IsCalculationError reports whether err belongs to the calculator taxonomy.
func IsCalculationError(err error) bool {
	return errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrInvalidOperation) ||
		errors.Is(err, ErrSyntax) ||
		errors.Is(err, ErrInvalidResult)
}
