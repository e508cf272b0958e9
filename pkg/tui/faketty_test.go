package tui

import (
	"os"
	"strings"
	"sync"

	"github.com/loomui/loom/pkg/tui/term"
)

// fakeTTY implements term.TTY against in-memory buffers, recording every
// frame passed to UpdateBuffer.
type fakeTTY struct {
	eventCh   chan term.Event
	closeOnce sync.Once
	sigCh     chan os.Signal
	sigOnce   sync.Once

	mu   sync.Mutex
	bufs []*term.Buffer
	cur  *term.Buffer
}

func newFakeTTY() *fakeTTY {
	return &fakeTTY{
		eventCh: make(chan term.Event),
		sigCh:   make(chan os.Signal, 8),
		cur:     &term.Buffer{},
	}
}

// inject blocks until the app reads the event.
func (t *fakeTTY) inject(ev term.Event) { t.eventCh <- ev }

func (t *fakeTTY) Setup() (func(), error) { return func() {}, nil }

func (t *fakeTTY) Size() (h, w int) { return 24, 40 }

func (t *fakeTTY) ReadEvent() (term.Event, error) {
	ev, ok := <-t.eventCh
	if !ok {
		return nil, term.ErrStopped
	}
	return ev, nil
}

func (t *fakeTTY) CloseReader() {
	t.closeOnce.Do(func() { close(t.eventCh) })
}

func (t *fakeTTY) NotifySignals() <-chan os.Signal { return t.sigCh }

func (t *fakeTTY) StopSignals() {
	t.sigOnce.Do(func() { close(t.sigCh) })
}

func (t *fakeTTY) Buffer() *term.Buffer { return t.cur }

func (t *fakeTTY) ResetBuffer() { t.cur = &term.Buffer{} }

func (t *fakeTTY) UpdateBuffer(buf *term.Buffer, full bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bufs = append(t.bufs, buf)
	t.cur = buf
	return nil
}

func (t *fakeTTY) ClearScreen() {}
func (t *fakeTTY) ShowCursor()  {}
func (t *fakeTTY) HideCursor()  {}

// lastFrame renders the most recently written buffer as plain text, one line
// per buffer line.
func (t *fakeTTY) lastFrame() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.bufs) == 0 {
		return ""
	}
	return bufferText(t.bufs[len(t.bufs)-1])
}

func bufferText(buf *term.Buffer) string {
	lines := make([]string, len(buf.Lines))
	for i, line := range buf.Lines {
		var b strings.Builder
		for _, cell := range line {
			b.WriteString(cell.Text)
		}
		lines[i] = b.String()
	}
	return strings.Join(lines, "\n")
}
