package loom_test

import (
	"fmt"
	"testing"

	"github.com/loomui/loom/pkg/loom"
	"github.com/loomui/loom/pkg/loom/loomtest"
)

func render(t *testing.T, r *loom.Root, el loom.Element) {
	t.Helper()
	if err := r.Render(el); err != nil {
		t.Fatalf("Render -> error %v", err)
	}
}

func TestMount(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	render(t, r, loom.Box(nil, loom.Text("a"), loom.Text("b")))

	if got, want := h.Describe(), `[box ["a" "b"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}
	if got := h.Count("create"); got != 3 {
		t.Errorf("got %d creates, want 3; ops: %v", got, h.Ops())
	}
	if got := h.Count("remove"); got != 0 {
		t.Errorf("got %d removes, want 0; ops: %v", got, h.Ops())
	}
}

func TestIdenticalRerenderIsQuiet(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	el := loom.Box(nil, loom.Text("a"), loom.Box(loom.Props{"width": 4}, loom.Text("b")))
	render(t, r, el)

	h.Reset()
	render(t, r, el)
	if ops := h.Ops(); len(ops) != 0 {
		t.Errorf("re-render of an identical tree touched the host: %v", ops)
	}
}

func TestCallbackPropsDoNotForceUpdates(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	onKey := func() {}
	render(t, r, loom.Box(loom.Props{"onKey": onKey}, loom.Text("a")))

	h.Reset()
	render(t, r, loom.Box(loom.Props{"onKey": onKey}, loom.Text("a")))
	if ops := h.Ops(); len(ops) != 0 {
		t.Errorf("re-render with an unchanged callback prop touched the host: %v", ops)
	}
}

func TestTextUpdateTouchesOnlyTheTextNode(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	render(t, r, loom.Box(nil, loom.Text("a")))

	h.Reset()
	render(t, r, loom.Box(nil, loom.Text("b")))
	if got, want := h.Ops(), []string{`update "b"`}; !equalOps(got, want) {
		t.Errorf("got ops %v, want %v", got, want)
	}
	if got, want := h.Describe(), `[box ["b"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}
}

func TestKeyedReorderMovesWithoutChurn(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	keyed := func(keys ...string) loom.Element {
		var children []any
		for _, k := range keys {
			children = append(children,
				loom.CreateElement(loom.HostType(loom.TextTag),
					loom.Props{"key": k, "text": k}))
		}
		return loom.Box(nil, children...)
	}
	render(t, r, keyed("a", "b", "c"))

	h.Reset()
	render(t, r, keyed("c", "a", "b"))
	if got := h.Count("create"); got != 0 {
		t.Errorf("reorder created %d nodes; ops: %v", got, h.Ops())
	}
	if got := h.Count("remove"); got != 0 {
		t.Errorf("reorder removed %d nodes; ops: %v", got, h.Ops())
	}
	if got, want := h.Describe(), `[box ["c" "a" "b"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}
}

func TestKeyedInsertInTheMiddle(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	keyed := func(keys ...string) loom.Element {
		var children []any
		for _, k := range keys {
			children = append(children,
				loom.CreateElement(loom.HostType(loom.TextTag),
					loom.Props{"key": k, "text": k}))
		}
		return loom.Box(nil, children...)
	}
	render(t, r, keyed("a", "c"))

	h.Reset()
	render(t, r, keyed("a", "b", "c"))
	if got := h.Count("create"); got != 1 {
		t.Errorf("got %d creates, want 1; ops: %v", got, h.Ops())
	}
	if got := h.Count("remove"); got != 0 {
		t.Errorf("got %d removes, want 0; ops: %v", got, h.Ops())
	}
	if got, want := h.Describe(), `[box ["a" "b" "c"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}
}

func TestKeyedStateFollowsKey(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	setters := map[string]*loom.Setter[int]{}
	item := func(p loom.Props) loom.Element {
		n, set := loom.UseState(0)
		setters[p["name"].(string)] = set
		return loom.Text(fmt.Sprintf("%s=%d", p["name"], n))
	}
	list := func(names ...string) loom.Element {
		var children []any
		for _, name := range names {
			children = append(children,
				loom.C(item, loom.Props{"key": name, "name": name}))
		}
		return loom.Box(nil, children...)
	}
	render(t, r, list("a", "b"))
	if err := setters["b"].Set(7); err != nil {
		t.Fatalf("Set -> error %v", err)
	}

	render(t, r, list("b", "a"))
	if got, want := h.Describe(), `[box ["b=7" "a=0"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}
}

func TestUnkeyedShrinkDeletesTail(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	render(t, r, loom.Box(nil, loom.Text("a"), loom.Text("b"), loom.Text("c")))

	h.Reset()
	render(t, r, loom.Box(nil, loom.Text("a")))
	if got := h.Count("remove"); got != 2 {
		t.Errorf("got %d removes, want 2; ops: %v", got, h.Ops())
	}
	if got, want := h.Describe(), `[box ["a"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}
}

func TestTypeChangeReplacesTheSlot(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	render(t, r, loom.Box(nil, loom.Box(nil, loom.Text("inner"))))

	h.Reset()
	render(t, r, loom.Box(nil, loom.Text("flat")))
	if got := h.Count("remove"); got != 1 {
		t.Errorf("got %d removes, want 1; ops: %v", got, h.Ops())
	}
	if got := h.Count("create"); got != 1 {
		t.Errorf("got %d creates, want 1; ops: %v", got, h.Ops())
	}
	if got, want := h.Describe(), `[box ["flat"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}
}

func TestDuplicateKeysFallBackToReplacement(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	dup := loom.Box(nil,
		loom.CreateElement(loom.HostType(loom.TextTag), loom.Props{"key": "k", "text": "a"}),
		loom.CreateElement(loom.HostType(loom.TextTag), loom.Props{"key": "k", "text": "b"}),
	)
	render(t, r, dup)
	if got, want := h.Describe(), `[box ["a" "b"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}

	// A second render with the same duplicate keys must stay consistent
	// even though per-key matching is impossible.
	h.Reset()
	render(t, r, dup)
	if got, want := h.Describe(), `[box ["a" "b"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}
	if got := h.Count("remove"); got != 2 {
		t.Errorf("got %d removes, want 2 (whole level replaced); ops: %v", got, h.Ops())
	}
}

func TestComponentRendersThrough(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	greeting := func(p loom.Props) loom.Element {
		return loom.Box(nil, loom.Text("hi "+p["name"].(string)))
	}
	render(t, r, loom.C(greeting, loom.Props{"name": "ada"}))
	if got, want := h.Describe(), `[box ["hi ada"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}

	h.Reset()
	render(t, r, loom.C(greeting, loom.Props{"name": "bob"}))
	if got, want := h.Ops(), []string{`update "hi bob"`}; !equalOps(got, want) {
		t.Errorf("got ops %v, want %v", got, want)
	}
}

func TestComponentRenderingNothing(t *testing.T) {
	h := loomtest.New()
	r := loom.NewRoot(h)
	maybe := func(p loom.Props) loom.Element {
		if p["show"].(bool) {
			return loom.Text("x")
		}
		return loom.Element{}
	}
	render(t, r, loom.Box(nil, loom.C(maybe, loom.Props{"show": false})))
	if got, want := h.Describe(), `[box]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}

	render(t, r, loom.Box(nil, loom.C(maybe, loom.Props{"show": true})))
	if got, want := h.Describe(), `[box ["x"]]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}

	render(t, r, loom.Box(nil, loom.C(maybe, loom.Props{"show": false})))
	if got, want := h.Describe(), `[box]`; got != want {
		t.Errorf("tree is %s, want %s", got, want)
	}
}

func equalOps(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
