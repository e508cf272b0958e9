package loom

import (
	"reflect"
	"sync"

	"github.com/petermattis/goid"
)

type hookKind uint8

const (
	stateHook hookKind = iota
	effectHook
)

func (k hookKind) String() string {
	if k == stateHook {
		return "state"
	}
	return "effect"
}

// hookCell is one call-order-indexed storage slot of a fiber. State cells
// hold the current value and a queue of updates to fold in on the next
// render; effect cells hold the last dependency list and the stored cleanup.
type hookCell struct {
	kind hookKind

	// State.
	initialized bool
	value       any
	queue       []func(any) any

	// Effect.
	deps    []any
	hasRun  bool
	cleanup func()
	// pending is set during a render pass when the dependencies changed, and
	// consumed after commit.
	pending func() func()
}

// The fiber currently being rendered, keyed by goroutine ID. Component
// functions run synchronously on the goroutine driving the render pass, so
// hook primitives find their cells here without any ambient global tree
// state.
var renderFrames sync.Map

type renderFrame struct {
	root  *Root
	fiber *fiber
	// Whether this is the first render of the fiber, during which new hook
	// cells are appended rather than read back.
	mount bool
}

func currentFrame() *renderFrame {
	v, ok := renderFrames.Load(goid.Get())
	if !ok {
		panic("loom: hook primitive called outside a component render")
	}
	return v.(*renderFrame)
}

func (fr *renderFrame) nextHook(kind hookKind) *hookCell {
	f := fr.fiber
	if fr.mount {
		cell := &hookCell{kind: kind}
		f.hooks = append(f.hooks, cell)
		f.hookCursor++
		return cell
	}
	if f.hookCursor >= len(f.hooks) {
		panic(hookOrderErrorf("render calls hook #%d but the previous render made only %d hook calls",
			f.hookCursor+1, len(f.hooks)))
	}
	cell := f.hooks[f.hookCursor]
	if cell.kind != kind {
		panic(hookOrderErrorf("hook #%d is %v, was %v on the previous render",
			f.hookCursor+1, kind, cell.kind))
	}
	f.hookCursor++
	return cell
}

// UseState returns a state value local to the rendering component, seeded
// with initial on the component's first render, along with a setter. The
// setter never changes the value seen by the current render; it enqueues the
// update and triggers a synchronous re-render, during which the queued
// updates are folded in enqueue order.
func UseState[T any](initial T) (T, *Setter[T]) {
	return useState(func() T { return initial })
}

// UseStateLazy is UseState with a lazily computed initial value; init is
// called only on the component's first render.
func UseStateLazy[T any](init func() T) (T, *Setter[T]) {
	return useState(init)
}

func useState[T any](init func() T) (T, *Setter[T]) {
	fr := currentFrame()
	cell := fr.nextHook(stateHook)
	if !cell.initialized {
		// A cell created by this pass is reachable only from the new
		// generation, so seeding it in place is safe.
		cell.value = init()
		cell.initialized = true
	}
	value := cell.value
	for _, update := range cell.queue {
		value = update(value)
	}
	// Cells of a reused fiber are shared with the committed tree, so the
	// resolved value is staged and written back only at commit. A failed
	// pass leaves the committed value and deps untouched.
	fr.root.stageState(cell, value, len(cell.queue))
	return value.(T), &Setter[T]{fr.root, cell}
}

// Setter updates a state cell created by UseState.
type Setter[T any] struct {
	root *Root
	cell *hookCell
}

// Set enqueues v as the cell's next value and synchronously re-renders. Any
// error from the triggered render pass is returned; the committed tree is
// unchanged when an error occurs.
func (s *Setter[T]) Set(v T) error {
	return s.root.enqueueUpdate(s.cell, func(any) any { return v })
}

// Update enqueues a function of the previous value and synchronously
// re-renders.
func (s *Setter[T]) Update(f func(T) T) error {
	return s.root.enqueueUpdate(s.cell, func(old any) any { return f(old.(T)) })
}

// UseEffect registers a side effect. When deps differ from the previous
// render (the first render always counts as different), the previously stored
// cleanup runs, then fn, after the commit that follows this render; fn's
// return value, if non-nil, is stored as the new cleanup and also runs when
// the component unmounts. A nil deps slice makes the effect run after every
// render.
func UseEffect(fn func() func(), deps []any) {
	fr := currentFrame()
	cell := fr.nextHook(effectHook)
	changed := !cell.hasRun || deps == nil || !depsEqual(cell.deps, deps)
	var pending func() func()
	if changed {
		pending = fn
	}
	fr.root.stageEffect(cell, deps, pending)
}

func depsEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// A hook-cell write staged by the in-flight pass. A state stage carries the
// resolved value and how many queue entries it consumed; updates enqueued
// after the fiber rendered stay in the queue for the next pass.
type stateStage struct {
	cell     *hookCell
	value    any
	consumed int
}

type effectStage struct {
	cell    *hookCell
	deps    []any
	pending func() func()
}

func (r *Root) stageState(cell *hookCell, value any, consumed int) {
	r.passStates = append(r.passStates, stateStage{cell, value, consumed})
}

func (r *Root) stageEffect(cell *hookCell, deps []any, pending func() func()) {
	r.passEffects = append(r.passEffects, effectStage{cell, deps, pending})
}

// applyHookStages publishes the pass's hook-cell writes. It runs during
// commit, after host mutations and before queued effects.
func (r *Root) applyHookStages() {
	for _, s := range r.passStates {
		s.cell.value = s.value
		s.cell.queue = s.cell.queue[s.consumed:]
	}
	r.passStates = r.passStates[:0]
	for _, s := range r.passEffects {
		s.cell.deps = s.deps
		s.cell.pending = s.pending
	}
	r.passEffects = r.passEffects[:0]
}

// RootData returns the data attached to the render root with SetData. It may
// only be called during a component render; embedding runtimes use it to give
// components access to their surrounding application.
func RootData() any {
	return currentFrame().root.data
}
