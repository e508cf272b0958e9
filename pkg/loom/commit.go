package loom

import "reflect"

// commitRoot publishes the work-in-progress generation rooted at wipID:
// deletions are applied first (a replaced slot is torn down before its
// replacement attaches), then placements and updates parent before child,
// then the current pointer flips and the old generation is discarded.
// Queued effects run last, after the host tree reflects the commit.
func (r *Root) commitRoot(wipID fiberID) {
	for _, d := range r.passDeletions {
		r.commitDeletion(d)
	}
	r.passDeletions = r.passDeletions[:0]

	wip := r.get(wipID)
	r.commitLevel(wip.hostRef, r.hostChildren(wipID))

	old := r.current
	r.current = wipID
	if old != nilFiber {
		r.releaseTree(old)
	}
	r.clearTags(wipID)
	r.passAllocs = r.passAllocs[:0]
	r.applyHookStages()

	if r.onCommit != nil {
		r.onCommit()
	}
	r.runEffects(wipID)
}

// commitDeletion tears down one committed subtree: hook cleanups run
// post-order (a child's cleanup before its parent's), then the subtree's
// top-level host nodes are detached. The fibers themselves are released
// together with the rest of the old generation.
func (r *Root) commitDeletion(d deletion) {
	r.runCleanups(d.id)
	f := r.get(d.id)
	if f.hostRef != nil {
		r.host.RemoveChild(d.parentHost, f.hostRef)
		return
	}
	for _, cid := range r.hostChildren(d.id) {
		r.host.RemoveChild(d.parentHost, r.get(cid).hostRef)
	}
}

func (r *Root) runCleanups(id fiberID) {
	f := r.get(id)
	for c := f.child; c != nilFiber; c = r.get(c).sibling {
		r.runCleanups(c)
	}
	for _, cell := range f.hooks {
		if cell.kind != effectHook {
			continue
		}
		cell.pending = nil
		if cell.cleanup != nil {
			cell.cleanup()
			cell.cleanup = nil
		}
	}
}

// hostChildren returns the fibers under id that materialize host nodes,
// in tree order, looking through component fibers. A moved or component
// fiber propagates its reorder hint down to the nodes that actually move.
func (r *Root) hostChildren(id fiberID) []fiberID {
	var ids []fiberID
	var walk func(c fiberID, moved bool)
	walk = func(c fiberID, moved bool) {
		for ; c != nilFiber; c = r.get(c).sibling {
			f := r.get(c)
			if f.tag == hostFiber || f.tag == textFiber {
				f.moved = f.moved || moved
				ids = append(ids, c)
			} else {
				walk(f.child, moved || f.moved)
			}
		}
	}
	walk(r.get(id).child, false)
	return ids
}

// commitLevel applies mutations for the materialized children of one host
// node, then recurses. Nodes are created and updated left to right; the
// ordering pass runs right to left so that every placed or moved node can be
// anchored before an already final sibling.
func (r *Root) commitLevel(parentRef NodeRef, ids []fiberID) {
	for _, id := range ids {
		f := r.get(id)
		switch f.effect {
		case effectPlacement:
			f.hostRef = r.host.CreateNode(f.typ.Tag(), f.props)
		case effectUpdate:
			old := r.get(f.alternate)
			if !propsEqual(old.props, f.props) {
				r.host.SetProps(f.hostRef, old.props, f.props)
			}
		}
	}

	var next NodeRef
	for i := len(ids) - 1; i >= 0; i-- {
		f := r.get(ids[i])
		if f.effect == effectPlacement || f.moved {
			r.host.PlaceChild(parentRef, f.hostRef, next)
		}
		next = f.hostRef
	}

	for _, id := range ids {
		f := r.get(id)
		r.commitLevel(f.hostRef, r.hostChildren(id))
	}
}

func propsEqual(a, b Props) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !propValueEqual(av, bv) {
			return false
		}
	}
	return true
}

// propValueEqual is DeepEqual, except that function values compare by code
// pointer so callback props do not force a host update on every render. Two
// closures created at the same site compare equal regardless of what they
// capture.
func propValueEqual(a, b any) bool {
	if av := reflect.ValueOf(a); av.Kind() == reflect.Func {
		bv := reflect.ValueOf(b)
		return bv.Kind() == reflect.Func && av.Pointer() == bv.Pointer()
	}
	return reflect.DeepEqual(a, b)
}

func (r *Root) clearTags(id fiberID) {
	f := r.get(id)
	f.effect = effectNone
	f.moved = false
	// The previous generation is gone; the cross link dies with it.
	f.alternate = nilFiber
	for c := f.child; c != nilFiber; c = r.get(c).sibling {
		r.clearTags(c)
	}
}

// runEffects runs the effects queued by this pass in the pre-order their
// fibers were discovered.
func (r *Root) runEffects(id fiberID) {
	var pending []*hookCell
	var walk func(fiberID)
	walk = func(c fiberID) {
		for ; c != nilFiber; c = r.get(c).sibling {
			f := r.get(c)
			for _, cell := range f.hooks {
				if cell.kind == effectHook && cell.pending != nil {
					pending = append(pending, cell)
				}
			}
			walk(f.child)
		}
	}
	walk(id)

	for _, cell := range pending {
		fn := cell.pending
		cell.pending = nil
		if cell.cleanup != nil {
			cell.cleanup()
			cell.cleanup = nil
		}
		cell.cleanup = fn()
		cell.hasRun = true
	}
}
