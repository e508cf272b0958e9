package term

import "github.com/loomui/loom/pkg/ui"

// Event represents an event that can be read from the terminal.
type Event interface {
	isEvent()
}

// KeyEvent represents a key press.
type KeyEvent ui.Key

// K constructs a new KeyEvent.
func K(r rune, mods ...ui.Mod) KeyEvent {
	return KeyEvent(ui.K(r, mods...))
}

func (KeyEvent) isEvent() {}

func (e KeyEvent) String() string { return ui.Key(e).String() }

// MouseEvent represents a mouse event (either pressing or releasing).
type MouseEvent struct {
	Pos
	Down   bool
	Button int
	Mod    ui.Mod
}

func (MouseEvent) isEvent() {}

// CursorPosition represents a report of the current cursor position, in
// response to a cursor position request.
type CursorPosition Pos

func (CursorPosition) isEvent() {}

// PasteSetting indicates the start or finish of pasted text in bracketed
// paste mode.
type PasteSetting bool

func (PasteSetting) isEvent() {}

// NonfatalErrorEvent represents an error during event reading that the reader
// has recovered from.
type NonfatalErrorEvent struct {
	Err error
}

func (NonfatalErrorEvent) isEvent() {}

// FatalErrorEvent represents an error during event reading after which no
// more events can be read.
type FatalErrorEvent struct {
	Err error
}

func (FatalErrorEvent) isEvent() {}
