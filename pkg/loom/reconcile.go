package loom

// reconcileChildren diffs the element children of the work-in-progress fiber
// wipID against the committed child fibers of its alternate, building the new
// child chain.
//
// Matching is per slot, siblings left to right: an element with a key matches
// the old child with the same key; an unkeyed element matches the old child
// at the same index, provided that child is also unkeyed. A match with
// identical type is reused (new fiber, alternate link, hooks carried over,
// Update tag); any other outcome allocates a fresh fiber with a Placement tag
// and schedules the displaced old child, if any, for deletion. Old children
// with no counterpart are deleted. Moves are therefore detected only through
// keys; an unkeyed reorder degrades to replacement churn.
func (r *Root) reconcileChildren(wipID fiberID, elements []Element) error {
	wip := r.get(wipID)

	var olds []fiberID
	if wip.alternate != nilFiber {
		for c := r.get(wip.alternate).child; c != nilFiber; c = r.get(c).sibling {
			olds = append(olds, c)
		}
	}

	if dup := duplicateKey(elements); dup != "" {
		// Reconciling by key is no longer well defined for this level. Fall
		// back to replacing the level wholesale: every old child is deleted
		// and every new child placed, so state in the subtree is lost but the
		// tree stays consistent.
		logger.Printf("%v: key %q (under %v); replacing the whole level",
			ErrKeyCollision, dup, wip.typ)
		olds = r.deleteAll(olds)
	}

	oldByKey := make(map[string]int)
	for i, id := range olds {
		if k := r.get(id).key; k != "" {
			oldByKey[k] = i
		}
	}

	used := make([]bool, len(olds))
	// Index into olds of the last reused child, for move detection: a keyed
	// reuse that jumps backwards over it has changed position.
	lastPlaced := -1
	prev := nilFiber

	for i, el := range elements {
		matchIdx := -1
		if el.Key != "" {
			if j, ok := oldByKey[el.Key]; ok && !used[j] {
				matchIdx = j
			}
		} else if i < len(olds) && !used[i] && r.get(olds[i]).key == "" {
			matchIdx = i
		}

		var id fiberID
		if matchIdx >= 0 && sameType(r.get(olds[matchIdx]).typ, el.Type) {
			used[matchIdx] = true
			id = r.reuseFiber(olds[matchIdx], el)
			if el.Key != "" && matchIdx < lastPlaced {
				r.get(id).moved = true
			} else if matchIdx > lastPlaced {
				lastPlaced = matchIdx
			}
		} else {
			if matchIdx >= 0 {
				// Same slot, different type: the old child is torn down and
				// replaced.
				used[matchIdx] = true
				r.scheduleDeletion(olds[matchIdx])
			}
			id = r.newFiber(el)
		}

		r.get(id).parent = wipID
		if prev == nilFiber {
			wip.child = id
		} else {
			r.get(prev).sibling = id
		}
		prev = id
	}

	for i, id := range olds {
		if !used[i] {
			r.scheduleDeletion(id)
		}
	}
	return nil
}

func duplicateKey(elements []Element) string {
	var seen map[string]bool
	for _, el := range elements {
		if el.Key == "" {
			continue
		}
		if seen == nil {
			seen = make(map[string]bool)
		}
		if seen[el.Key] {
			return el.Key
		}
		seen[el.Key] = true
	}
	return ""
}

func (r *Root) deleteAll(olds []fiberID) []fiberID {
	for _, id := range olds {
		r.scheduleDeletion(id)
	}
	return nil
}

// reuseFiber allocates a work-in-progress fiber for an element that matched a
// committed fiber. The committed fiber is left untouched; hooks are carried
// over by reference so state cells keep their identity.
func (r *Root) reuseFiber(oldID fiberID, el Element) fiberID {
	old := r.get(oldID)
	f := &fiber{
		tag:       old.tag,
		typ:       old.typ,
		key:       el.Key,
		props:     el.Props,
		children:  el.Children,
		parent:    nilFiber,
		child:     nilFiber,
		sibling:   nilFiber,
		alternate: oldID,
		hostRef:   old.hostRef,
		hooks:     old.hooks,
		effect:    effectUpdate,
	}
	id := r.alloc(f)
	r.passAllocs = append(r.passAllocs, id)
	return id
}

// newFiber allocates a fresh work-in-progress fiber for an element with no
// reusable counterpart.
func (r *Root) newFiber(el Element) fiberID {
	tag := componentFiber
	if !el.Type.IsComponent() {
		if el.Type.Tag() == TextTag {
			tag = textFiber
		} else {
			tag = hostFiber
		}
	}
	f := &fiber{
		tag:       tag,
		typ:       el.Type,
		key:       el.Key,
		props:     el.Props,
		children:  el.Children,
		parent:    nilFiber,
		child:     nilFiber,
		sibling:   nilFiber,
		alternate: nilFiber,
		effect:    effectPlacement,
	}
	id := r.alloc(f)
	r.passAllocs = append(r.passAllocs, id)
	return id
}

// scheduleDeletion records that the committed subtree oldID has no slot in
// the new tree. The committed fibers are not modified; commit consumes the
// deletion list before applying any placement or update.
func (r *Root) scheduleDeletion(oldID fiberID) {
	r.passDeletions = append(r.passDeletions, deletion{
		id:         oldID,
		parentHost: r.nearestHostRef(oldID),
	})
}

// nearestHostRef finds the host node the given committed fiber's materialized
// nodes are attached under.
func (r *Root) nearestHostRef(id fiberID) NodeRef {
	for p := r.get(id).parent; p != nilFiber; p = r.get(p).parent {
		if ref := r.get(p).hostRef; ref != nil {
			return ref
		}
	}
	return r.host.Root()
}
