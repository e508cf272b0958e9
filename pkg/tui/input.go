package tui

import (
	"github.com/loomui/loom/pkg/loom"
	"github.com/loomui/loom/pkg/ui"
)

// inputRef keeps a stable identity for a component's input handler across
// renders while always pointing at the closure from the latest render.
type inputRef struct {
	fn func(ui.Key)
}

// UseInput subscribes the rendering component to terminal key events. The
// handler from the most recent render is called for every key; the
// subscription is dropped when the component unmounts. Outside an App (for
// instance under a bare test root) it is a no-op.
func UseInput(handler func(ui.Key)) {
	app, _ := loom.RootData().(*App)
	ref, _ := loom.UseState(&inputRef{})
	ref.fn = handler
	loom.UseEffect(func() func() {
		if app == nil {
			return nil
		}
		app.addHandler(ref)
		return func() { app.removeHandler(ref) }
	}, []any{})
}
