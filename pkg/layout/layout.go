// Package layout assigns screen geometry to a host tree.
//
// The model is a small flow layout in the flexbox family. Boxes lay their
// children out along one axis ("direction" prop, "column" by default),
// sized by the children's intrinsic measure or an explicit "width"/"height"
// prop; leftover space along the axis is shared between children with a
// positive "flexGrow" prop, in proportion to it. Children stretch to the
// box's full extent on the cross axis unless sized explicitly. A "padding"
// prop insets a box's content uniformly.
//
// Text nodes measure to their widest line (in terminal cells, East Asian
// wide runes counting as two) by the number of lines.
package layout

import (
	"strings"

	"github.com/loomui/loom/pkg/loom/host"
	"github.com/loomui/loom/pkg/wcwidth"
)

// Calculate lays the tree out into a viewport of the given size. Geometry is
// written into the nodes; X and Y are absolute viewport coordinates.
func Calculate(root *host.Node, width, height int) {
	place(root, 0, 0, width, height)
}

func place(n *host.Node, x, y, w, h int) {
	n.X, n.Y, n.Width, n.Height = x, y, w, h
	if len(n.Children()) == 0 {
		return
	}

	pad := n.IntProp("padding", 0)
	cx, cy := x+pad, y+pad
	cw, ch := max(0, w-2*pad), max(0, h-2*pad)
	row := n.StrProp("direction", "column") == "row"

	children := n.Children()
	mains := make([]int, len(children))
	crosses := make([]int, len(children))
	total, growSum := 0, 0
	for i, c := range children {
		mw, mh := Measure(c)
		if row {
			mains[i], crosses[i] = mw, mh
		} else {
			mains[i], crosses[i] = mh, mw
		}
		total += mains[i]
		growSum += c.IntProp("flexGrow", 0)
	}

	// Share leftover main-axis space between the growing children.
	avail := ch
	if row {
		avail = cw
	}
	if extra := avail - total; extra > 0 && growSum > 0 {
		given := 0
		for i, c := range children {
			grow := c.IntProp("flexGrow", 0)
			if grow == 0 {
				continue
			}
			share := extra * grow / growSum
			mains[i] += share
			given += share
		}
		// Integer division leftover goes to the last grower.
		for i := len(children) - 1; i >= 0 && given < extra; i-- {
			if children[i].IntProp("flexGrow", 0) > 0 {
				mains[i] += extra - given
				break
			}
		}
	}

	pos := 0
	for i, c := range children {
		cross := crosses[i]
		if c.Tag != "text" && !hasExplicitCross(c, row) {
			// Stretch boxes to the container's cross extent.
			if row {
				cross = ch
			} else {
				cross = cw
			}
		}
		if row {
			place(c, cx+pos, cy, mains[i], min(cross, ch))
		} else {
			place(c, cx, cy+pos, min(cross, cw), mains[i])
		}
		pos += mains[i]
	}
}

func hasExplicitCross(n *host.Node, row bool) bool {
	key := "width"
	if row {
		key = "height"
	}
	_, ok := n.Props[key].(int)
	return ok
}

// Measure returns the intrinsic size of a node: explicit "width"/"height"
// props when present, otherwise the measured text extent for text nodes and
// the children's combined extent plus padding for boxes.
func Measure(n *host.Node) (w, h int) {
	if n.Tag == "text" {
		w, h = measureText(n.Text())
	} else {
		pad := n.IntProp("padding", 0)
		row := n.StrProp("direction", "column") == "row"
		for _, c := range n.Children() {
			cw, chh := Measure(c)
			if row {
				w += cw
				h = max(h, chh)
			} else {
				w = max(w, cw)
				h += chh
			}
		}
		w += 2 * pad
		h += 2 * pad
	}
	w = n.IntProp("width", w)
	h = n.IntProp("height", h)
	return w, h
}

func measureText(s string) (w, h int) {
	if s == "" {
		return 0, 1
	}
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		w = max(w, wcwidth.Of(line))
	}
	return w, len(lines)
}
