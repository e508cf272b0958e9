package loom

// fiberID is a stable handle into a Root's fiber arena. Tree links between
// fibers are stored as IDs rather than pointers; parent and alternate are
// non-owning back references, child and sibling are the owning edges.
type fiberID int32

const nilFiber fiberID = -1

type fiberTag uint8

const (
	rootFiber fiberTag = iota
	hostFiber
	textFiber
	componentFiber
)

func (t fiberTag) String() string {
	switch t {
	case rootFiber:
		return "root"
	case hostFiber:
		return "host"
	case textFiber:
		return "text"
	case componentFiber:
		return "component"
	}
	return "bad"
}

// effectTag marks the host mutation a fiber needs at commit. Deletions are
// not tagged on old fibers (the current tree is never written to); they are
// collected in the Root's deletion list instead.
type effectTag uint8

const (
	effectNone effectTag = iota
	effectPlacement
	effectUpdate
)

func (t effectTag) String() string {
	switch t {
	case effectNone:
		return "none"
	case effectPlacement:
		return "placement"
	case effectUpdate:
		return "update"
	}
	return "bad"
}

// fiber is one unit of work, mirroring one element's slot in the tree across
// renders. A fiber belongs to exactly one generation (the current tree or the
// work-in-progress tree); its alternate links to its counterpart in the other
// generation.
type fiber struct {
	tag   fiberTag
	typ   ElementType
	key   string
	props Props

	// Element children to reconcile into child fibers. For a component fiber
	// this is the single element returned by the component function.
	children []Element

	parent    fiberID
	child     fiberID
	sibling   fiberID
	alternate fiberID

	// Identity of the corresponding host tree node. Nil for component fibers,
	// which are not materialized in the host tree.
	hostRef NodeRef

	// Hook cells in call order. Carried over by reference when the fiber is
	// reused, so state survives reconciliation.
	hooks      []*hookCell
	hookCursor int

	effect effectTag
	// moved is set when a keyed child is reused but its position among
	// siblings changed. It is an ordering hint for commit, not an effect tag.
	moved bool
}

func (r *Root) alloc(f *fiber) fiberID {
	if n := len(r.freeList); n > 0 {
		id := r.freeList[n-1]
		r.freeList = r.freeList[:n-1]
		r.fibers[id] = f
		return id
	}
	r.fibers = append(r.fibers, f)
	return fiberID(len(r.fibers) - 1)
}

func (r *Root) get(id fiberID) *fiber {
	return r.fibers[id]
}

func (r *Root) release(id fiberID) {
	r.fibers[id] = nil
	r.freeList = append(r.freeList, id)
}

// releaseTree returns a whole subtree to the arena.
func (r *Root) releaseTree(id fiberID) {
	for c := r.get(id).child; c != nilFiber; {
		next := r.get(c).sibling
		r.releaseTree(c)
		c = next
	}
	r.release(id)
}
