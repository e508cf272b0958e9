package loom

import (
	"errors"
	"fmt"
)

// ErrHookOrder is returned when a component calls hook primitives in a
// different order or number than on its previous render. Hook cells are
// identified purely by call order, so such a mismatch would silently
// misalign state; the render pass fails instead, leaving the previously
// committed tree in place.
var ErrHookOrder = errors.New("hook order violation")

// ErrKeyCollision indicates that two sibling elements carry the same explicit
// key. The affected child list is reconciled as if unkeyed replacement of the
// whole level; the collision is also logged.
var ErrKeyCollision = errors.New("duplicate key among siblings")

// ErrRenderLoop is returned when state updates scheduled during commits keep
// requesting new passes and the tree never settles, typically an effect that
// unconditionally calls its own setter. The last completed pass remains
// committed.
var ErrRenderLoop = errors.New("render did not settle")

// ComponentError wraps a panic raised by a component function during a render
// pass. The pass is aborted and the previously committed tree stays
// authoritative.
type ComponentError struct {
	Component string
	Reason    any
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("component %s panicked: %v", e.Component, e.Reason)
}

// Unwrap returns the panic value if it was an error.
func (e *ComponentError) Unwrap() error {
	if err, ok := e.Reason.(error); ok {
		return err
	}
	return nil
}

func hookOrderErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrHookOrder, fmt.Sprintf(format, args...))
}
