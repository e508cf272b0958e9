// Command todo renders a keyboard-driven todo list. Keys: j/k move the
// selection, a adds an item, d deletes the selected one, space toggles done,
// q quits.
package main

import (
	"fmt"
	"os"

	"github.com/loomui/loom/pkg/loom"
	"github.com/loomui/loom/pkg/tui"
	"github.com/loomui/loom/pkg/ui"
)

type item struct {
	id   int
	text string
	done bool
}

type model struct {
	items  []item
	sel    int
	nextID int
}

func (m model) clampSel() model {
	if m.sel >= len(m.items) {
		m.sel = len(m.items) - 1
	}
	if m.sel < 0 {
		m.sel = 0
	}
	return m
}

func main() {
	app := tui.NewApp(tui.AppSpec{})

	list := func(loom.Props) loom.Element {
		m, set := loom.UseStateLazy(func() model {
			return model{
				items: []item{
					{id: 0, text: "learn the key bindings"},
					{id: 1, text: "add an item"},
					{id: 2, text: "toggle it done"},
				},
				nextID: 3,
			}
		})
		tui.UseInput(func(k ui.Key) {
			switch k.Rune {
			case 'j':
				set.Update(func(m model) model {
					m.sel++
					return m.clampSel()
				})
			case 'k':
				set.Update(func(m model) model {
					m.sel--
					return m.clampSel()
				})
			case 'a':
				set.Update(func(m model) model {
					it := item{id: m.nextID, text: fmt.Sprintf("item %d", m.nextID)}
					m.nextID++
					m.items = append(append([]item(nil), m.items...), it)
					m.sel = len(m.items) - 1
					return m
				})
			case 'd':
				set.Update(func(m model) model {
					if len(m.items) == 0 {
						return m
					}
					items := append([]item(nil), m.items[:m.sel]...)
					m.items = append(items, m.items[m.sel+1:]...)
					return m.clampSel()
				})
			case ' ':
				set.Update(func(m model) model {
					if len(m.items) == 0 {
						return m
					}
					items := append([]item(nil), m.items...)
					items[m.sel].done = !items[m.sel].done
					m.items = items
					return m
				})
			case 'q':
				app.Exit(nil)
			}
		})

		rows := make([]loom.Element, 0, len(m.items)+2)
		rows = append(rows, loom.Text("todo", loom.Props{"style": "bold"}))
		for i, it := range m.items {
			mark := "[ ]"
			if it.done {
				mark = "[x]"
			}
			style := ""
			if i == m.sel {
				style = "inverse"
			}
			rows = append(rows, loom.Text(
				fmt.Sprintf("%s %s", mark, it.text),
				loom.Props{"key": it.id, "style": style},
			))
		}
		rows = append(rows, loom.Text("j/k move  a add  d delete  space toggle  q quit",
			loom.Props{"style": "dim"}))
		return loom.Box(nil, rows)
	}

	if err := app.Run(loom.C(list, nil)); err != nil {
		fmt.Fprintln(os.Stderr, "todo:", err)
		os.Exit(2)
	}
}
