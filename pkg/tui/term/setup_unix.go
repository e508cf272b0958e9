//go:build unix

package term

import (
	"fmt"
	"os"

	"github.com/loomui/loom/pkg/sys"
)

// setup puts the terminal in the mode suitable for interactive rendering and
// event reading, and returns a function that restores the original state.
func setup(in, out *os.File) (func() error, error) {
	// All fds pointing to the same terminal are equivalent; use the input
	// file for changing termios.
	fd := int(in.Fd())
	term, err := sys.TermiosForFd(fd)
	if err != nil {
		return nil, fmt.Errorf("can't get terminal attribute: %w", err)
	}
	savedTermios := term.Copy()

	term.SetICanon(false)
	term.SetIExten(false)
	term.SetEcho(false)
	term.SetVMin(1)
	term.SetVTime(0)
	// Translating CR to NL, so that Enter is read as one rune regardless of
	// the terminal's newline convention.
	term.SetICRNL(true)

	if err := term.ApplyToFd(fd); err != nil {
		return nil, fmt.Errorf("can't set terminal attribute: %w", err)
	}

	// The writer does its own soft wrapping.
	out.WriteString("\033[?7l")

	restore := func() error {
		out.WriteString("\033[?7h" + showCursor)
		return savedTermios.ApplyToFd(fd)
	}
	return restore, nil
}
