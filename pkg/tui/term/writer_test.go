package term

import (
	"strings"
	"testing"
)

func plainCells(s string) []Cell {
	cells := make([]Cell, 0, len(s))
	for _, r := range s {
		cells = append(cells, Cell{Text: string(r)})
	}
	return cells
}

func TestWriter_FirstFrame(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)

	err := w.UpdateBuffer(&Buffer{
		Width: 10,
		Lines: [][]Cell{plainCells("line1")},
		Dot:   Pos{0, 5},
	}, false)
	if err != nil {
		t.Fatal(err)
	}
	want := hideCursor + "\r" + "line1" + "\r\033[5C" + showCursor
	if got := sb.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_DeltaRewritesOnlyChangedTail(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)
	w.UpdateBuffer(&Buffer{
		Width: 10,
		Lines: [][]Cell{plainCells("line1")},
		Dot:   Pos{0, 5},
	}, false)
	sb.Reset()

	w.UpdateBuffer(&Buffer{
		Width: 10,
		Lines: [][]Cell{plainCells("line2")},
		Dot:   Pos{0, 5},
	}, false)
	want := hideCursor + "\r" + "\033[4C" + "\033[K" + "2" + "\r\033[5C" + showCursor
	if got := sb.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestWriter_UnchangedLineIsSkipped(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)
	w.UpdateBuffer(&Buffer{
		Width: 10,
		Lines: [][]Cell{plainCells("same"), plainCells("old")},
		Dot:   Pos{1, 3},
	}, false)
	sb.Reset()

	w.UpdateBuffer(&Buffer{
		Width: 10,
		Lines: [][]Cell{plainCells("same"), plainCells("new")},
		Dot:   Pos{1, 3},
	}, false)
	got := sb.String()
	if strings.Contains(got, "same") {
		t.Errorf("unchanged line rewritten: %q", got)
	}
	if !strings.Contains(got, "new") {
		t.Errorf("changed line not written: %q", got)
	}
}

func TestWriter_ShrinkErasesOldLines(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)
	w.UpdateBuffer(&Buffer{
		Width: 10,
		Lines: [][]Cell{plainCells("a"), plainCells("b")},
		Dot:   Pos{1, 1},
	}, false)
	sb.Reset()

	w.UpdateBuffer(&Buffer{
		Width: 10,
		Lines: [][]Cell{plainCells("a")},
		Dot:   Pos{0, 1},
	}, false)
	if got := sb.String(); !strings.Contains(got, "\n\033[J\033[A") {
		t.Errorf("no erasure of the vacated lines in %q", got)
	}
}

func TestWriter_StyleSwitches(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)
	w.UpdateBuffer(&Buffer{
		Width: 10,
		Lines: [][]Cell{{
			{Text: "r", Style: "31"},
			{Text: "p", Style: ""},
		}},
		Dot: Pos{0, 2},
	}, false)
	got := sb.String()
	if !strings.Contains(got, "\033[0;31mr") {
		t.Errorf("styled cell not preceded by its SGR sequence: %q", got)
	}
	if !strings.Contains(got, "\033[0;mp") {
		t.Errorf("style not reset before plain cell: %q", got)
	}
}

func TestWriter_WidthChangeForcesFullRefresh(t *testing.T) {
	sb := &strings.Builder{}
	w := NewWriter(sb)
	w.UpdateBuffer(&Buffer{
		Width: 10,
		Lines: [][]Cell{plainCells("abc")},
		Dot:   Pos{0, 3},
	}, false)
	sb.Reset()

	w.UpdateBuffer(&Buffer{
		Width: 5,
		Lines: [][]Cell{plainCells("abc")},
		Dot:   Pos{0, 3},
	}, false)
	if got := sb.String(); !strings.Contains(got, " \033[J\r") {
		t.Errorf("no full erase after a width change: %q", got)
	}
}
