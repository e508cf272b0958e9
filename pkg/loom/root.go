// Package loom implements a reconciling renderer for terminal UIs.
//
// Application code describes the UI as a tree of immutable Elements, built
// with CreateElement or the Box, Text and C helpers. A Root reconciles
// successive descriptions into a minimal set of mutations against a host
// tree, which it manipulates through the Host interface. Between renders the
// Root keeps a persistent fiber tree; each render pass builds a new
// generation of that tree beside the committed one and swaps it in atomically
// at commit, so a reader of the host tree (typically the terminal painter)
// always observes a fully committed frame.
//
// Components are plain functions from Props to Element. Local state is held
// in hook cells addressed by call order (UseState, UseEffect), exactly as in
// the web frameworks that popularized this model; calling hooks conditionally
// is a programmer error that the Root detects and reports as ErrHookOrder.
//
// A Root is not safe for concurrent use. All renders, state updates and
// commits happen synchronously on the calling goroutine; event sources on
// other goroutines must hand off into the goroutine driving the Root.
package loom

import (
	"errors"
	"fmt"

	"github.com/petermattis/goid"

	"github.com/loomui/loom/pkg/logutil"
)

var logger = logutil.GetLogger("[loom] ")

// NodeRef identifies a node of the host tree. It is created by the Host and
// opaque to the reconciler.
type NodeRef any

// Host is the mutation interface to the external host tree. The Root calls
// it only during commit, in an order safe for consumers: a parent node exists
// before its children are placed, and a deleted slot is detached before its
// replacement is attached.
type Host interface {
	// Root returns the node under which top-level children are placed.
	Root() NodeRef
	// CreateNode creates a detached node. Text primitives are created with
	// the "text" tag and their content in the "text" prop.
	CreateNode(tag string, props Props) NodeRef
	// PlaceChild attaches child under parent so that it precedes before. A
	// nil before appends. If child is already attached it is moved.
	PlaceChild(parent, child, before NodeRef)
	// RemoveChild detaches child from parent, discarding its subtree.
	RemoveChild(parent, child NodeRef)
	// SetProps replaces the props of an existing node. Old props are passed
	// so the host can diff style-relevant entries.
	SetProps(node NodeRef, oldProps, newProps Props)
}

// Root owns one fiber arena and the current committed tree, and drives
// render passes over it. It is the render-root-scoped home of everything the
// reconciler would otherwise keep in globals.
type Root struct {
	host Host

	fibers   []*fiber
	freeList []fiberID

	// Index of the committed root fiber, or nilFiber before the first commit.
	current fiberID

	// The top-level element in force, re-reconciled by state updates.
	rootElement Element
	mounted     bool

	// Fibers allocated by the in-flight pass, for rollback on failure.
	passAllocs []fiberID
	// Subtrees of the current tree scheduled for deletion at commit.
	passDeletions []deletion
	// Hook-cell writes staged by the in-flight pass. Reused fibers share
	// their cells with the committed tree, so the pass never writes them
	// directly; commit publishes the stages, rollback discards them.
	passStates  []stateStage
	passEffects []effectStage

	// Synchronous scheduler state: a setter call during a pass marks
	// scheduled and the driving pass loops again instead of recursing.
	running   bool
	scheduled bool

	// Runs after every commit, before queued effects; the embedding runtime
	// uses it to trigger layout and paint.
	onCommit func()

	data any
}

type deletion struct {
	id fiberID
	// Host node the subtree's top-level host nodes hang under.
	parentHost NodeRef
}

// NewRoot returns a Root that renders into the given host tree.
func NewRoot(host Host) *Root {
	return &Root{host: host, current: nilFiber}
}

// OnCommit registers f to run after every commit, before queued effects.
func (r *Root) OnCommit(f func()) { r.onCommit = f }

// SetData attaches arbitrary data to the root, readable from components with
// RootData.
func (r *Root) SetData(data any) { r.data = data }

// Render reconciles the tree towards el. On the first call it mounts the
// tree; later calls diff against the committed tree. The pass is atomic: on
// error the previously committed tree remains authoritative and the host
// tree is untouched.
func (r *Root) Render(el Element) error {
	r.rootElement = el
	r.mounted = true
	return r.schedule()
}

// Unmount tears the tree down: hook cleanups run bottom-up (a child's
// cleanups before its parent's), host nodes are detached, and the arena is
// released. The Root can mount again afterwards.
func (r *Root) Unmount() {
	if r.current == nilFiber {
		return
	}
	r.runCleanups(r.current)
	root := r.get(r.current)
	for _, id := range r.hostChildren(r.current) {
		r.host.RemoveChild(root.hostRef, r.get(id).hostRef)
	}
	r.releaseTree(r.current)
	r.current = nilFiber
	r.mounted = false
	if r.onCommit != nil {
		r.onCommit()
	}
}

// enqueueUpdate implements the setter side of UseState.
func (r *Root) enqueueUpdate(cell *hookCell, update func(any) any) error {
	cell.queue = append(cell.queue, update)
	if !r.mounted {
		return nil
	}
	return r.schedule()
}

// Bound on the passes one schedule call may run back to back. An effect that
// unconditionally calls its own setter would otherwise keep the driving loop
// spinning forever; the tree is expected to settle far below this.
const maxPasses = 100

// schedule runs render passes until no more are requested. Each setter call
// requests exactly one full pass; there is deliberately no batching of
// multiple setter calls, each one re-renders synchronously. A setter fired
// from inside a pass (from an effect) marks scheduled and is served by the
// driving loop when the current pass finishes.
func (r *Root) schedule() error {
	r.scheduled = true
	if r.running {
		return nil
	}
	r.running = true
	defer func() { r.running = false }()
	for passes := 0; r.scheduled; passes++ {
		if passes == maxPasses {
			return fmt.Errorf("%w after %d passes", ErrRenderLoop, maxPasses)
		}
		r.scheduled = false
		if err := r.renderPass(); err != nil {
			return err
		}
	}
	return nil
}

// renderPass builds a new work-in-progress generation for the root element
// and commits it. The committed tree is never written to during the pass;
// failure discards the new generation wholesale.
func (r *Root) renderPass() (err error) {
	wip := &fiber{
		tag:       rootFiber,
		parent:    nilFiber,
		child:     nilFiber,
		sibling:   nilFiber,
		alternate: r.current,
		hostRef:   r.host.Root(),
		children:  []Element{r.rootElement},
	}
	wipID := r.alloc(wip)
	r.passAllocs = append(r.passAllocs[:0], wipID)
	r.passDeletions = r.passDeletions[:0]
	r.passStates = r.passStates[:0]
	r.passEffects = r.passEffects[:0]

	for next := wipID; next != nilFiber; {
		next, err = r.performUnit(next, wipID)
		if err != nil {
			logger.Printf("render pass failed: %v", err)
			r.rollback()
			return err
		}
	}

	r.commitRoot(wipID)
	return nil
}

func (r *Root) rollback() {
	for _, id := range r.passAllocs {
		r.release(id)
	}
	r.passAllocs = r.passAllocs[:0]
	r.passDeletions = r.passDeletions[:0]
	// Committed values and deps stay untouched, but the updates the failed
	// pass consumed are dropped with it: the error went back to the caller
	// that enqueued them, and replaying them against the same committed tree
	// would fail the same way on every later render.
	for _, s := range r.passStates {
		s.cell.queue = s.cell.queue[s.consumed:]
	}
	r.passStates = r.passStates[:0]
	r.passEffects = r.passEffects[:0]
}

// performUnit processes one fiber and returns the next one: its first child
// if any, otherwise the next sibling walking up towards the pass root.
func (r *Root) performUnit(id, wipRoot fiberID) (fiberID, error) {
	f := r.get(id)
	if f.tag == componentFiber {
		el, err := r.invokeComponent(f)
		if err != nil {
			return nilFiber, err
		}
		if el.IsZero() {
			f.children = nil
		} else {
			f.children = []Element{el}
		}
	}
	if err := r.reconcileChildren(id, f.children); err != nil {
		return nilFiber, err
	}

	if f.child != nilFiber {
		return f.child, nil
	}
	for cur := id; cur != wipRoot; {
		cf := r.get(cur)
		if cf.sibling != nilFiber {
			return cf.sibling, nil
		}
		cur = cf.parent
	}
	return nilFiber, nil
}

// invokeComponent runs the component function with the fiber's hook cells
// installed for the calling goroutine. Panics are recovered and surfaced as
// errors; a hook order mismatch is reported as ErrHookOrder.
func (r *Root) invokeComponent(f *fiber) (el Element, err error) {
	fr := &renderFrame{root: r, fiber: f, mount: f.alternate == nilFiber}
	gid := goid.Get()
	renderFrames.Store(gid, fr)
	defer renderFrames.Delete(gid)
	defer func() {
		if v := recover(); v != nil {
			if e, ok := v.(error); ok && errors.Is(e, ErrHookOrder) {
				err = e
				return
			}
			err = &ComponentError{Component: f.typ.String(), Reason: v}
		}
	}()

	f.hookCursor = 0
	el = f.typ.comp(f.props)
	if !fr.mount && f.hookCursor != len(f.hooks) {
		return Element{}, hookOrderErrorf(
			"render made %d hook calls, previous render made %d",
			f.hookCursor, len(f.hooks))
	}
	return el, nil
}

// debugString renders the committed fiber tree for logging.
func (r *Root) debugString() string {
	if r.current == nilFiber {
		return "<unmounted>"
	}
	var walk func(id fiberID, indent string) string
	walk = func(id fiberID, indent string) string {
		f := r.get(id)
		s := fmt.Sprintf("%s%v %v\n", indent, f.tag, f.typ)
		for c := f.child; c != nilFiber; c = r.get(c).sibling {
			s += walk(c, indent+"  ")
		}
		return s
	}
	return walk(r.current, "")
}
