package binalyzer

import "github.com/scigolib/binalyzer/internal/core"

// Node is the public view of one bound template node: a named slot for
// offset, size, count, boundary, and padding, resolved lazily against
// the Binalyzer's data stream.
//
// spec.md's Design Notes describe the source exposing named children
// through dynamic attribute access (template.layout0.area0); Go has no
// equivalent, so Node exposes Child and ChildPath instead (see
// DESIGN.md).
type Node struct {
	t *core.Template
}

func newNode(t *core.Template) *Node {
	if t == nil {
		return nil
	}
	return &Node{t: t}
}

// Name returns the node's declared name, or "" if anonymous.
func (n *Node) Name() string { return n.t.Name }

// Children returns the node's immediate children, in document order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.t.Children))
	for i, c := range n.t.Children {
		out[i] = newNode(c)
	}
	return out
}

// Child returns the immediate child named name, or nil if there is
// none.
func (n *Node) Child(name string) *Node {
	return newNode(n.t.Child(name))
}

// ChildPath navigates a dot-separated path of child names, e.g.
// "layout0.area0".
func (n *Node) ChildPath(path string) *Node {
	return newNode(n.t.ChildPath(path))
}

// Parent returns the node's parent, or nil for the root.
func (n *Node) Parent() *Node {
	return newNode(n.t.Parent)
}

// AbsoluteAddress resolves the node's position in the bound stream.
func (n *Node) AbsoluteAddress() (uint64, error) { return n.t.AbsoluteAddress() }

// Size resolves the node's byte length.
func (n *Node) Size() (uint64, error) { return n.t.Size() }

// Boundary resolves the node's alignment boundary, 0 if unset.
func (n *Node) Boundary() (uint64, error) { return n.t.Boundary() }

// Count resolves the node's repeat count, 1 if unset (materialized
// count attributes expand into sibling nodes before Count is typically
// observed, so this mostly matters for introspection).
func (n *Node) Count() (uint64, error) { return n.t.Count() }

// Value reads the node's resolved byte region from the bound stream.
func (n *Node) Value() ([]byte, error) { return n.t.Value() }

// SetValue writes data into the node's resolved byte region. A write
// shorter than the node's size is zero-padded; longer writes are
// rejected.
func (n *Node) SetValue(data []byte) error { return n.t.SetValue(data) }

// IntegerValue decodes the node's own bytes as an unsigned integer
// using its declared byte order (little-endian by default).
func (n *Node) IntegerValue() (uint64, error) { return n.t.IntegerValue() }

// SetIntegerValue encodes value into the node's own bytes using its
// declared byte order and resolved size.
func (n *Node) SetIntegerValue(value uint64) error { return n.t.SetIntegerValue(value) }

// Walk calls fn for n and every descendant, in document order,
// stopping and propagating the first error fn returns.
func (n *Node) Walk(fn func(*Node) error) error {
	if err := fn(n); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := c.Walk(fn); err != nil {
			return err
		}
	}
	return nil
}

// template exposes the underlying core.Template to package-internal
// callers (the orchestrator) without making it part of the public API.
func (n *Node) template() *core.Template { return n.t }
