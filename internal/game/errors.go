package game

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalAction marks an action that breaks the betting rules for the
	// current state. The state returned alongside it is the unchanged input.
	ErrIllegalAction = errors.New("illegal action")

	// ErrInvalidInput marks a configuration or caller bug, such as a table
	// without two funded seats.
	ErrInvalidInput = errors.New("invalid input")
)

func illegal(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIllegalAction, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
