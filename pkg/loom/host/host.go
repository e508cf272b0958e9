// Package host provides the concrete host tree the terminal runtime renders
// into. A Tree implements loom.Host; the reconciler mutates it during commit
// and the layout and paint passes read it back between commits.
package host

import (
	"strings"

	"github.com/loomui/loom/pkg/loom"
)

// Node is one node of the rendered tree. Tag and Props mirror the element
// that produced the node; the geometry fields are filled in by the layout
// pass, in cells, relative to the top-left corner of the viewport.
type Node struct {
	Tag   string
	Props loom.Props

	X, Y          int
	Width, Height int

	parent   *Node
	children []*Node
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the node's children in order. The returned slice is owned
// by the node and must not be mutated.
func (n *Node) Children() []*Node { return n.children }

// Text returns the node's text content ("" for non-text nodes).
func (n *Node) Text() string {
	s, _ := n.Props["text"].(string)
	return s
}

// IntProp returns the named prop as an int, or def when absent or of another
// type.
func (n *Node) IntProp(key string, def int) int {
	if v, ok := n.Props[key].(int); ok {
		return v
	}
	return def
}

// StrProp returns the named prop as a string, or def when absent or of
// another type.
func (n *Node) StrProp(key, def string) string {
	if v, ok := n.Props[key].(string); ok {
		return v
	}
	return def
}

// BoolProp returns the named prop as a bool, or def when absent or of
// another type.
func (n *Node) BoolProp(key string, def bool) bool {
	if v, ok := n.Props[key].(bool); ok {
		return v
	}
	return def
}

// Walk calls f on n and its descendants in depth-first order. Returning
// false from f prunes the subtree below that node.
func (n *Node) Walk(f func(*Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(f)
	}
}

func (n *Node) detach(c *Node) {
	for i, x := range n.children {
		if x == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

// String renders the subtree for debugging, one node per line.
func (n *Node) String() string {
	var b strings.Builder
	var walk func(n *Node, indent string)
	walk = func(n *Node, indent string) {
		b.WriteString(indent)
		b.WriteString(n.Tag)
		if s := n.Text(); s != "" {
			b.WriteString(" ")
			b.WriteString(s)
		}
		b.WriteString("\n")
		for _, c := range n.children {
			walk(c, indent+"  ")
		}
	}
	walk(n, "")
	return strings.TrimSuffix(b.String(), "\n")
}

// Tree is a mutable node tree implementing loom.Host.
type Tree struct {
	root *Node
}

func NewTree() *Tree {
	return &Tree{root: &Node{Tag: "root"}}
}

// RootNode returns the tree's root node for layout and painting.
func (t *Tree) RootNode() *Node { return t.root }

func (t *Tree) Root() loom.NodeRef { return t.root }

func (t *Tree) CreateNode(tag string, props loom.Props) loom.NodeRef {
	return &Node{Tag: tag, Props: props}
}

func (t *Tree) PlaceChild(parent, child, before loom.NodeRef) {
	p, c := parent.(*Node), child.(*Node)
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = p
	if before == nil {
		p.children = append(p.children, c)
		return
	}
	b := before.(*Node)
	for i, n := range p.children {
		if n == b {
			p.children = append(p.children[:i],
				append([]*Node{c}, p.children[i:]...)...)
			return
		}
	}
	p.children = append(p.children, c)
}

func (t *Tree) RemoveChild(parent, child loom.NodeRef) {
	parent.(*Node).detach(child.(*Node))
}

func (t *Tree) SetProps(node loom.NodeRef, oldProps, newProps loom.Props) {
	node.(*Node).Props = newProps
}
