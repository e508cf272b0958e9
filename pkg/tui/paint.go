package tui

import (
	"sort"
	"strings"

	"github.com/loomui/loom/pkg/loom/host"
	"github.com/loomui/loom/pkg/tui/term"
	"github.com/loomui/loom/pkg/ui"
	"github.com/loomui/loom/pkg/wcwidth"
)

// A run of styled text at a fixed position, produced from one line of one
// text node.
type span struct {
	x     int
	cells []term.Cell
	width int
}

// paint renders a laid-out host tree into a terminal buffer. Boxes are
// purely structural; only text nodes produce cells. Text is clipped to its
// node's rectangle and to the buffer.
func paint(root *host.Node) *term.Buffer {
	w, h := root.Width, root.Height
	spans := make(map[int][]span)

	root.Walk(func(n *host.Node) bool {
		if n.Tag != "text" {
			return true
		}
		sgr := styleSGR(n)
		for i, line := range strings.Split(n.Text(), "\n") {
			y := n.Y + i
			if y < 0 || y >= h || i >= n.Height {
				continue
			}
			line = wcwidth.Trim(line, min(n.Width, w-n.X))
			if line == "" {
				continue
			}
			spans[y] = append(spans[y], makeSpan(n.X, line, sgr))
		}
		return false
	})

	buf := term.NewBuffer(w)
	buf.Lines = make([][]term.Cell, h)
	for y := 0; y < h; y++ {
		line := spans[y]
		sort.SliceStable(line, func(i, j int) bool { return line[i].x < line[j].x })
		var cells []term.Cell
		col := 0
		for _, sp := range line {
			if sp.x < col {
				// Overlapping spans; the earlier one wins.
				continue
			}
			for ; col < sp.x; col++ {
				cells = append(cells, term.Cell{Text: " "})
			}
			cells = append(cells, sp.cells...)
			col += sp.width
		}
		buf.Lines[y] = cells
	}
	if h > 0 {
		buf.Dot = term.Pos{Line: h - 1, Col: wcwidth.Of(textOfLine(buf.Lines[h-1]))}
	}
	return buf
}

func makeSpan(x int, line, sgr string) span {
	var cells []term.Cell
	for _, r := range line {
		cells = append(cells, term.Cell{Text: string(r), Style: sgr})
	}
	return span{x: x, cells: cells, width: wcwidth.Of(line)}
}

func textOfLine(cells []term.Cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(c.Text)
	}
	return b.String()
}

// styleSGR derives the SGR string of a text node from its "style" prop, a
// styling description like "red bg-blue bold".
func styleSGR(n *host.Node) string {
	desc := n.StrProp("style", "")
	if desc == "" {
		return ""
	}
	return ui.StyleFromStyling(ui.ParseStyling(desc)).SGR()
}
