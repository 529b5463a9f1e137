package dispatch

import (
	"errors"
	"fmt"

	"library/router/internal/domain"
)

var (
	// ErrRequiresTopLevel is returned when a route that only works in a
	// top-level window is requested from inside an embedding frame.
	ErrRequiresTopLevel = errors.New("not available in embedding")
	ErrNoRoute          = errors.New("no route matches path")
)

type NotAvailableError struct {
	View domain.ViewKind
	Path string
}

func (e *NotAvailableError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.View, ErrRequiresTopLevel, e.Path)
}

func (e *NotAvailableError) Unwrap() error {
	return ErrRequiresTopLevel
}
