//go:build unix

package term

import (
	"os"
	"testing"

	"github.com/loomui/loom/pkg/ui"
)

var eventTests = []struct {
	seq  string
	want Event
}{
	// Simple runes.
	{"a", K('a')},
	{"世", K('世')},
	// Control characters.
	{"\x01", K('A', ui.Ctrl)},
	{"\t", K(ui.Tab)},
	{"\r", K('\r')},
	{"\x7f", K(ui.Backspace)},
	// Alt-modified rune.
	{"\x1ba", K('a', ui.Alt)},
	// CSI-style sequences.
	{"\x1b[A", K(ui.Up)},
	{"\x1b[1;5A", K(ui.Up, ui.Ctrl)},
	{"\x1b[1;2A", K(ui.Up, ui.Shift)},
	{"\x1b[Z", K(ui.Tab, ui.Shift)},
	{"\x1b[3~", K(ui.Delete)},
	{"\x1b[3;5~", K(ui.Delete, ui.Ctrl)},
	{"\x1b[5~", K(ui.PageUp)},
	{"\x1b[3^", K(ui.Delete, ui.Ctrl)},
	{"\x1b[27;5;9~", K(ui.Tab, ui.Ctrl)},
	// G3-style sequences.
	{"\x1bOP", K(ui.F1)},
	{"\x1bOH", K(ui.Home)},
	// Bracketed paste markers.
	{"\x1b[200~", PasteSetting(true)},
	{"\x1b[201~", PasteSetting(false)},
	// SGR-style mouse event.
	{"\x1b[<0;33;11M", MouseEvent{Pos{11, 33}, true, 0, 0}},
	{"\x1b[<0;33;11m", MouseEvent{Pos{11, 33}, false, 0, 0}},
	// Cursor position report.
	{"\x1b[12;34R", CursorPosition{12, 34}},
}

func TestReadEvent(t *testing.T) {
	for _, test := range eventTests {
		t.Run(test.seq, func(t *testing.T) {
			rd, w := setupReader(t)
			w.WriteString(test.seq)
			got, err := rd.ReadEvent()
			if err != nil {
				t.Fatalf("ReadEvent(%q) -> error %v", test.seq, err)
			}
			if got != test.want {
				t.Errorf("ReadEvent(%q) -> %v, want %v", test.seq, got, test.want)
			}
		})
	}
}

func TestReadEvent_LoneEscape(t *testing.T) {
	rd, w := setupReader(t)
	w.WriteString("\x1b")
	got, err := rd.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent -> error %v", err)
	}
	if want := K('[', ui.Ctrl); got != want {
		t.Errorf("ReadEvent(ESC) -> %v, want %v", got, want)
	}
}

func TestReadEvent_BadSeqIsRecoverable(t *testing.T) {
	rd, w := setupReader(t)
	w.WriteString("\x1b[5")
	_, err := rd.ReadEvent()
	if err == nil {
		t.Fatal("ReadEvent of an incomplete CSI -> no error")
	}
	if !IsReadErrorRecoverable(err) {
		t.Errorf("error %v not recoverable", err)
	}

	// The reader keeps working after a bad sequence.
	w.WriteString("x")
	got, err := rd.ReadEvent()
	if err != nil || got != K('x') {
		t.Errorf("ReadEvent after bad sequence -> %v, %v", got, err)
	}
}

func TestCloseAbortsRead(t *testing.T) {
	rd, _ := setupReader(t)
	done := make(chan error, 1)
	go func() {
		_, err := rd.ReadEvent()
		done <- err
	}()
	rd.Close()
	if err := <-done; err != ErrStopped {
		t.Errorf("aborted ReadEvent -> %v, want ErrStopped", err)
	}
}

func setupReader(t *testing.T) (Reader, *os.File) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	rd, err := NewReader(r)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		rd.Close()
		r.Close()
		w.Close()
	})
	return rd, w
}
