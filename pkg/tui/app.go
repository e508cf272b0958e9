// Package tui runs loom element trees on a real terminal. An App owns the
// render root, re-layouts and repaints on every commit, and feeds terminal
// key events back into the components through UseInput.
package tui

import (
	"errors"
	"os"
	"sync"

	"github.com/loomui/loom/pkg/layout"
	"github.com/loomui/loom/pkg/logutil"
	"github.com/loomui/loom/pkg/loom"
	"github.com/loomui/loom/pkg/loom/host"
	"github.com/loomui/loom/pkg/sys"
	"github.com/loomui/loom/pkg/tui/term"
	"github.com/loomui/loom/pkg/ui"
)

var logger = logutil.GetLogger("[tui] ")

// ErrNotATerminal is returned by Run when the TTY is not an interactive
// terminal.
var ErrNotATerminal = errors.New("not a terminal")

// App runs an element tree on a terminal. The zero value is not useful; use
// NewApp.
type App struct {
	tty  term.TTY
	lp   *loop
	tree *host.Tree
	root *loom.Root

	// Whether Ctrl-C returns from Run. On by default.
	handleCtrlC bool
	// Whether the TTY defaulted to the process's stdio, in which case Run
	// first checks that stdin is actually a terminal.
	stdTTY bool

	mutex    sync.Mutex
	handlers []*inputRef
}

// AppSpec specifies the configuration of an App.
type AppSpec struct {
	// TTY to run on. Defaults to the standard input and output.
	TTY term.TTY
	// DisableCtrlC keeps Ctrl-C as an ordinary key event instead of
	// returning from Run.
	DisableCtrlC bool
}

// NewApp creates a new App from the given specification.
func NewApp(spec AppSpec) *App {
	tty := spec.TTY
	stdTTY := false
	if tty == nil {
		tty = term.StdTTY()
		stdTTY = true
	}
	a := &App{
		tty:         tty,
		lp:          newLoop(),
		tree:        host.NewTree(),
		handleCtrlC: !spec.DisableCtrlC,
		stdTTY:      stdTTY,
	}
	a.root = loom.NewRoot(a.tree)
	a.root.SetData(a)
	a.root.OnCommit(func() { a.lp.Redraw(false) })
	a.lp.HandleCb(a.handle)
	a.lp.RedrawCb(a.redraw)
	return a
}

// Run renders el and runs the event loop until Exit is called or a fatal
// terminal error occurs. It is not re-entrant.
func (a *App) Run(el loom.Element) error {
	if a.stdTTY && !sys.IsATTY(os.Stdin.Fd()) {
		return ErrNotATerminal
	}
	restore, err := a.tty.Setup()
	if err != nil {
		return err
	}
	defer restore()

	var wg sync.WaitGroup
	defer wg.Wait()

	// Relay input events.
	defer a.tty.CloseReader()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			event, err := a.tty.ReadEvent()
			if err == nil {
				a.lp.Input(event)
			} else if err == term.ErrStopped {
				return
			} else if term.IsReadErrorRecoverable(err) {
				a.lp.Input(term.NonfatalErrorEvent{Err: err})
			} else {
				a.lp.Input(term.FatalErrorEvent{Err: err})
				return
			}
		}
	}()

	// Relay signals.
	sigCh := a.tty.NotifySignals()
	defer a.tty.StopSignals()
	wg.Add(1)
	go func() {
		defer wg.Done()
		for sig := range sigCh {
			a.lp.Input(sig)
		}
	}()

	if err := a.root.Render(el); err != nil {
		return err
	}
	defer a.root.Unmount()
	return a.lp.Run()
}

// Exit makes Run return with the given error (possibly nil) after the final
// frame is painted. It can be called from any goroutine.
func (a *App) Exit(err error) {
	a.lp.Return(err)
}

// Render reconciles the tree towards a new top-level element. State updates
// from within components do not need this; it is for drivers that produce
// the top-level element themselves.
func (a *App) Render(el loom.Element) error {
	return a.root.Render(el)
}

func (a *App) handle(e event) {
	switch e := e.(type) {
	case os.Signal:
		if e == sys.SIGWINCH {
			a.lp.Redraw(true)
		}
	case term.KeyEvent:
		k := ui.Key(e)
		if a.handleCtrlC && k == ui.K('C', ui.Ctrl) {
			a.lp.Return(nil)
			return
		}
		a.dispatchKey(k)
	case term.NonfatalErrorEvent:
		logger.Printf("non-fatal error reading events: %v", e.Err)
	case term.FatalErrorEvent:
		a.lp.Return(e.Err)
	}
}

func (a *App) redraw(flag redrawFlag) {
	h, w := a.tty.Size()
	if w <= 0 {
		return
	}

	rootNode := a.tree.RootNode()
	_, mh := layout.Measure(rootNode)
	layout.Calculate(rootNode, w, min(mh, h))
	buf := paint(rootNode)

	if flag&finalRedraw != 0 {
		// Leave the final frame on the screen and park the cursor on a fresh
		// line below it.
		buf.Lines = append(buf.Lines, nil)
		buf.Dot = term.Pos{Line: len(buf.Lines) - 1, Col: 0}
		if err := a.tty.UpdateBuffer(buf, flag&fullRedraw != 0); err != nil {
			logger.Printf("final redraw: %v", err)
		}
		a.tty.ResetBuffer()
		return
	}
	if err := a.tty.UpdateBuffer(buf, flag&fullRedraw != 0); err != nil {
		logger.Printf("redraw: %v", err)
	}
}

func (a *App) addHandler(ref *inputRef) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	a.handlers = append(a.handlers, ref)
}

func (a *App) removeHandler(ref *inputRef) {
	a.mutex.Lock()
	defer a.mutex.Unlock()
	for i, h := range a.handlers {
		if h == ref {
			a.handlers = append(a.handlers[:i], a.handlers[i+1:]...)
			return
		}
	}
}

func (a *App) dispatchKey(k ui.Key) {
	a.mutex.Lock()
	handlers := make([]*inputRef, len(a.handlers))
	copy(handlers, a.handlers)
	a.mutex.Unlock()
	for _, ref := range handlers {
		ref.fn(k)
	}
}
