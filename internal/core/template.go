// Package core implements the declarative binary-layout engine: the
// template tree, its property slots, and the lazy resolver that turns a
// tree of offset/size/count/boundary/padding slots into concrete
// (absolute_address, size) pairs against a bound data stream.
package core

import "encoding/binary"

// defaultByteOrder is the byte order assumed when a node's ByteOrder
// field is unset (spec.md §3's attribute default).
func defaultByteOrder() binary.ByteOrder {
	return binary.LittleEndian
}

// AddressingMode selects how a node's offset attribute is interpreted.
type AddressingMode int

const (
	// AddressingRelative interprets offset as relative to the parent's
	// absolute_address. This is the default (spec.md §3).
	AddressingRelative AddressingMode = iota
	AddressingAbsolute
)

// SizingMode selects how a node's size is derived when no explicit size
// override is present.
type SizingMode int

const (
	SizingAuto SizingMode = iota
	SizingFix
	SizingStretch
)

// ReferenceResolver looks up another node in the tree by name, on behalf
// of a Reference or CustomProvider property. structures.SymbolTable is
// the production implementation; core depends only on this interface so
// it has no import on the structures package that builds the table.
type ReferenceResolver interface {
	Resolve(from *Template, ref string) (*Template, error)
}

// BindingContext is the (root, stream) pair shared by every node in a
// bound subtree (spec.md §5). A node with a nil context is detached: its
// derived properties still evaluate and Value reads it as an all-zero
// region, while SetValue, IntegerValue, SetIntegerValue and a signature
// check on it return a stream error.
type BindingContext struct {
	Root     *Template
	Stream   DataStream
	Resolver ReferenceResolver
}

// Template is one node of a layout tree: a named slot for offset, size,
// count, boundary and padding, plus whatever children the layout
// declares under it.
type Template struct {
	Name     string
	Parent   *Template
	Children []*Template

	// OffsetProperty is nil when the offset is derived (§4.2's
	// Derived-offset); non-nil (Literal or Reference) when the layout
	// gave an explicit offset, which always wins and is never subject
	// to boundary rounding (see DESIGN.md).
	OffsetProperty Property
	// SizeProperty is nil when size follows Sizing; non-nil when an
	// explicit literal or reference size overrides it.
	SizeProperty          Property
	CountProperty         Property
	BoundaryProperty      Property
	PaddingBeforeProperty Property
	PaddingAfterProperty  Property

	Addressing AddressingMode
	Sizing     SizingMode
	// ByteOrder is the default byte order used when this node's own
	// bytes are interpreted as an integer (Node.IntegerValue). nil
	// means little-endian, matching spec.md §3's attribute default.
	ByteOrder binary.ByteOrder

	// Signature, when non-empty, must match the node's own leading
	// bytes at attach time (spec.md §4.1's signature check).
	Signature []byte
	// Optional marks a node that is pruned from the tree, rather than
	// erroring, when its Signature fails to match (the "hint=optional"
	// attribute).
	Optional bool

	// Text seeds a node's byte region at bind time with literal
	// content (spec.md's element-text-content attribute, supplemented
	// from original_source/binalyzer_template_provider/xml.py).
	Text []byte

	ctx *BindingContext
}

// SetBindingContext attaches ctx to t and propagates it to every
// descendant, so a subtree shares one (root, stream) pair regardless of
// how deep it is bound into an existing tree.
func (t *Template) SetBindingContext(ctx *BindingContext) {
	t.ctx = ctx
	for _, c := range t.Children {
		c.SetBindingContext(ctx)
	}
}

// BindingContext returns the context last set on t via
// SetBindingContext, or nil if t is detached.
func (t *Template) BindingContext() *BindingContext {
	return t.ctx
}

// Child returns the immediate child named name, or nil.
func (t *Template) Child(name string) *Template {
	for _, c := range t.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildPath navigates a dot-separated path of child names starting at
// t, e.g. "layout0.area0" (spec.md §4.2's dotted-path reference form).
func (t *Template) ChildPath(path string) *Template {
	cur := t
	start := 0
	for i := 0; i <= len(path); i++ {
		if i == len(path) || path[i] == '.' {
			if cur == nil {
				return nil
			}
			segment := path[start:i]
			cur = cur.Child(segment)
			start = i + 1
		}
	}
	return cur
}

// PreviousSibling returns the sibling immediately before t under its
// parent, or nil if t is the first child or has no parent.
func (t *Template) PreviousSibling() *Template {
	if t.Parent == nil {
		return nil
	}
	for i, c := range t.Parent.Children {
		if c == t {
			if i == 0 {
				return nil
			}
			return t.Parent.Children[i-1]
		}
	}
	return nil
}

// NextSibling returns the sibling immediately after t under its parent,
// or nil if t is the last child or has no parent.
func (t *Template) NextSibling() *Template {
	if t.Parent == nil {
		return nil
	}
	for i, c := range t.Parent.Children {
		if c == t {
			if i == len(t.Parent.Children)-1 {
				return nil
			}
			return t.Parent.Children[i+1]
		}
	}
	return nil
}

// Root walks up to the tree root.
func (t *Template) Root() *Template {
	n := t
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// Clone returns a deep copy of t's structural shape (property slots,
// addressing/sizing mode, byte order, signature) with a new Name and no
// parent, for `count` materialization. Children are cloned recursively,
// keep their own names, and are linked to the clone. Property values
// are immutable/stateless (they take the template as an argument at
// resolve time rather than closing over it), so they can be shared
// between the original and the clone without aliasing bugs.
func (t *Template) Clone(name string) *Template {
	clone := &Template{
		Name:                  name,
		OffsetProperty:        t.OffsetProperty,
		SizeProperty:          t.SizeProperty,
		CountProperty:         t.CountProperty,
		BoundaryProperty:      t.BoundaryProperty,
		PaddingBeforeProperty: t.PaddingBeforeProperty,
		PaddingAfterProperty:  t.PaddingAfterProperty,
		Addressing:            t.Addressing,
		Sizing:                t.Sizing,
		ByteOrder:             t.ByteOrder,
		Signature:             t.Signature,
		Optional:              t.Optional,
		Text:                  t.Text,
	}
	for _, c := range t.Children {
		child := c.Clone(c.Name)
		child.Parent = clone
		clone.Children = append(clone.Children, child)
	}
	return clone
}
