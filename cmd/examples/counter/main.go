// Command counter renders a small keyboard-driven counter. Press + and - to
// change the count, q or Ctrl-C to quit.
package main

import (
	"fmt"
	"os"

	"github.com/loomui/loom/pkg/loom"
	"github.com/loomui/loom/pkg/tui"
	"github.com/loomui/loom/pkg/ui"
)

func main() {
	app := tui.NewApp(tui.AppSpec{})

	counter := func(loom.Props) loom.Element {
		n, set := loom.UseState(0)
		tui.UseInput(func(k ui.Key) {
			switch k.Rune {
			case '+':
				set.Update(func(n int) int { return n + 1 })
			case '-':
				set.Update(func(n int) int { return n - 1 })
			case 'q':
				app.Exit(nil)
			}
		})
		return loom.Box(nil,
			loom.Text(fmt.Sprintf("count: %d", n), loom.Props{"style": "bold"}),
			loom.Text("+/- to change, q to quit", loom.Props{"style": "dim"}),
		)
	}

	if err := app.Run(loom.C(counter, nil)); err != nil {
		fmt.Fprintln(os.Stderr, "counter:", err)
		os.Exit(2)
	}
}
