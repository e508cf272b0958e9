// Package loomtest provides a fake host tree for testing reconciliation.
// It records every mutation the reconciler performs, so tests can assert
// both on the final tree shape and on the exact operations taken to get
// there.
package loomtest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/loomui/loom/pkg/loom"
)

// Node is a node of the recorded host tree.
type Node struct {
	Tag      string
	Props    loom.Props
	Children []*Node
	parent   *Node
}

// Host implements loom.Host against an in-memory tree, logging one line per
// mutation.
type Host struct {
	root *Node
	ops  []string
}

func New() *Host {
	return &Host{root: &Node{Tag: "root"}}
}

func (h *Host) Root() loom.NodeRef { return h.root }

// RootNode returns the root of the recorded tree.
func (h *Host) RootNode() *Node { return h.root }

func (h *Host) CreateNode(tag string, props loom.Props) loom.NodeRef {
	n := &Node{Tag: tag, Props: props}
	h.log("create %s", describe(n))
	return n
}

func (h *Host) PlaceChild(parent, child, before loom.NodeRef) {
	p, c := parent.(*Node), child.(*Node)
	if c.parent != nil {
		c.parent.detach(c)
	}
	c.parent = p
	if before == nil {
		p.Children = append(p.Children, c)
	} else {
		b := before.(*Node)
		for i, n := range p.Children {
			if n == b {
				p.Children = append(p.Children[:i],
					append([]*Node{c}, p.Children[i:]...)...)
				break
			}
		}
	}
	h.log("place %s", describe(c))
}

func (h *Host) RemoveChild(parent, child loom.NodeRef) {
	parent.(*Node).detach(child.(*Node))
	h.log("remove %s", describe(child.(*Node)))
}

func (h *Host) SetProps(node loom.NodeRef, oldProps, newProps loom.Props) {
	n := node.(*Node)
	n.Props = newProps
	h.log("update %s", describe(n))
}

func (n *Node) detach(c *Node) {
	for i, x := range n.Children {
		if x == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.parent = nil
			return
		}
	}
}

func (h *Host) log(format string, args ...any) {
	h.ops = append(h.ops, fmt.Sprintf(format, args...))
}

// Ops returns the mutations recorded since the last Reset, one line each,
// e.g. `create text "a"` or `place box`.
func (h *Host) Ops() []string { return h.ops }

// Reset clears the op log. The tree is kept.
func (h *Host) Reset() { h.ops = nil }

// Count returns how many recorded ops are of the given kind ("create",
// "place", "remove" or "update").
func (h *Host) Count(kind string) int {
	n := 0
	for _, op := range h.ops {
		if strings.HasPrefix(op, kind+" ") {
			n++
		}
	}
	return n
}

// Describe renders the tree as a single line, e.g. `[box ["a" "b"]]`, for
// compact equality assertions.
func (h *Host) Describe() string {
	return describeChildren(h.root)
}

func describe(n *Node) string {
	if n.Tag == "text" {
		s, _ := n.Props["text"].(string)
		return fmt.Sprintf("%q", s)
	}
	props := ""
	if len(n.Props) > 0 {
		keys := make([]string, 0, len(n.Props))
		for k := range n.Props {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = fmt.Sprintf("%s=%v", k, n.Props[k])
		}
		props = "{" + strings.Join(parts, " ") + "}"
	}
	return n.Tag + props
}

func describeChildren(n *Node) string {
	parts := make([]string, len(n.Children))
	for i, c := range n.Children {
		s := describe(c)
		if len(c.Children) > 0 {
			s += " " + describeChildren(c)
		}
		parts[i] = s
	}
	return "[" + strings.Join(parts, " ") + "]"
}
