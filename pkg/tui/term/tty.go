package term

import (
	"os"
	"os/signal"

	"github.com/loomui/loom/pkg/sys"
)

// TTY is the interface the app runtime uses to access the terminal: event
// reading, frame writing, mode setup and signal delivery, all behind one
// fakeable surface.
type TTY interface {
	// Setup sets up the terminal for rendering and event reading. It returns
	// a function that restores the original terminal state, and any error.
	Setup() (restore func(), err error)
	// Size returns the height and width of the terminal.
	Size() (h, w int)

	// ReadEvent reads a terminal event.
	ReadEvent() (Event, error)
	// CloseReader releases the resources of the underlying reader, aborting
	// any outstanding ReadEvent call with ErrStopped.
	CloseReader()

	// NotifySignals returns a channel of terminal-relevant signals, notably
	// SIGWINCH. It can be called only once per TTY.
	NotifySignals() <-chan os.Signal
	// StopSignals stops the delivery started by NotifySignals.
	StopSignals()

	Writer
}

type aTTY struct {
	in, out *os.File
	reader  Reader
	sigCh   chan os.Signal
	Writer
}

// NewTTY returns a TTY over the given input and output files.
func NewTTY(in, out *os.File) TTY {
	return &aTTY{in: in, out: out, Writer: NewWriter(out)}
}

// StdTTY is the TTY over the process's stdin and stdout.
func StdTTY() TTY { return NewTTY(os.Stdin, os.Stdout) }

func (t *aTTY) Setup() (func(), error) {
	restore, err := setup(t.in, t.out)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := restore(); err != nil {
			logger.Printf("failed to restore terminal properties: %v", err)
		}
	}, nil
}

func (t *aTTY) Size() (h, w int) {
	return sys.WinSize(t.out)
}

func (t *aTTY) ReadEvent() (Event, error) {
	if t.reader == nil {
		reader, err := NewReader(t.in)
		if err != nil {
			return nil, err
		}
		t.reader = reader
	}
	return t.reader.ReadEvent()
}

func (t *aTTY) CloseReader() {
	if t.reader != nil {
		t.reader.Close()
		t.reader = nil
	}
}

func (t *aTTY) NotifySignals() <-chan os.Signal {
	t.sigCh = sys.NotifySignals()
	return t.sigCh
}

func (t *aTTY) StopSignals() {
	if t.sigCh != nil {
		signal.Stop(t.sigCh)
		close(t.sigCh)
		t.sigCh = nil
	}
}
