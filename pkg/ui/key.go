package ui

import "strings"

// Key represents a single keyboard input, typically assembled from a escape
// sequence.
type Key struct {
	Rune rune
	Mod  Mod
}

// K constructs a new Key.
func K(r rune, mods ...Mod) Key {
	var mod Mod
	for _, m := range mods {
		mod |= m
	}
	return Key{r, mod}
}

// Mod represents a modifier key.
type Mod byte

// Values for Mod.
const (
	// Shift is the shift modifier. It is only applied to special keys (e.g.
	// Shift-F1). For instance 'A' and '@' which are typically entered with the
	// shift key pressed, are not considered to be shift-modified.
	Shift Mod = 1 << iota
	// Alt is the alt modifier, traditionally known as the meta modifier.
	Alt
	Ctrl
)

// Special negative runes to represent function keys, used in the Rune field
// of the Key struct. This also has a few function names that are aliases for
// simple runes. See keyNames for mapping of these values to names.
const (
	// DefaultBindingRune is a special value to represent a default binding.
	DefaultBindingRune rune = iota - 23

	F12
	F11
	F10
	F9
	F8
	F7
	F6
	F5
	F4
	F3
	F2
	F1

	Up
	Down
	Right
	Left

	Home
	Insert
	Delete
	End
	PageUp
	PageDown

	// Alias for '\t'.
	Tab = '\t'
	// Alias for '\n'.
	Enter = '\n'
	// Alias for '\x7f'.
	Backspace = '\x7f'
)

var keyNames = map[rune]string{
	DefaultBindingRune: "Default",

	F12: "F12", F11: "F11", F10: "F10", F9: "F9", F8: "F8", F7: "F7",
	F6: "F6", F5: "F5", F4: "F4", F3: "F3", F2: "F2", F1: "F1",

	Up: "Up", Down: "Down", Right: "Right", Left: "Left",

	Home: "Home", Insert: "Insert", Delete: "Delete", End: "End",
	PageUp: "PageUp", PageDown: "PageDown",

	Tab: "Tab", Enter: "Enter", Backspace: "Backspace",
}

func (k Key) String() string {
	var sb strings.Builder
	if k.Mod&Ctrl != 0 {
		sb.WriteString("Ctrl-")
	}
	if k.Mod&Alt != 0 {
		sb.WriteString("Alt-")
	}
	if k.Mod&Shift != 0 {
		sb.WriteString("Shift-")
	}
	if name, ok := keyNames[k.Rune]; ok {
		sb.WriteString(name)
	} else {
		sb.WriteRune(k.Rune)
	}
	return sb.String()
}
