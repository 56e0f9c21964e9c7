// Package binalyzer implements a declarative binary-layout engine: a
// template tree describing a binary format's offsets, sizes, and
// alignment is bound to a data stream, and every field's position and
// value are resolved lazily from that binding.
package binalyzer

import (
	"github.com/scigolib/binalyzer/internal/binder"
	"github.com/scigolib/binalyzer/internal/core"
	"github.com/scigolib/binalyzer/internal/structures"
	"github.com/scigolib/binalyzer/internal/utils"
)

// Binalyzer binds a template tree to a data stream.
type Binalyzer struct {
	root   *core.Template
	stream DataStream
}

// New constructs a Binalyzer with no template and no stream bound yet.
func New() *Binalyzer {
	return &Binalyzer{}
}

// SetData binds (or rebinds) the data stream. If a template is already
// set, the binding is rebuilt immediately.
func (b *Binalyzer) SetData(stream DataStream) error {
	b.stream = stream
	if b.root != nil {
		return b.bind()
	}
	return nil
}

// SetTemplate installs a pre-built template tree (typically from
// Bind/FromString/FromFile) as the root. If a stream is already set,
// the binding is rebuilt immediately.
func (b *Binalyzer) SetTemplate(root *core.Template) error {
	b.root = root
	if b.stream != nil {
		return b.bind()
	}
	return nil
}

// bind runs the full build-time pipeline against the current root and
// stream: attach a binding context, expand `count` attributes, then
// prune/validate `signature` nodes. Materialization can change which
// nodes exist, so the symbol table is rebuilt afterward to index the
// final tree.
func (b *Binalyzer) bind() error {
	st := structures.NewSymbolTable(b.root)
	b.root.SetBindingContext(&core.BindingContext{Root: b.root, Stream: b.stream, Resolver: st})

	if err := binder.Materialize(b.root); err != nil {
		return utils.WrapError("materialize", err)
	}

	st = structures.NewSymbolTable(b.root)
	b.root.SetBindingContext(&core.BindingContext{Root: b.root, Stream: b.stream, Resolver: st})

	if err := binder.SeedText(b.root); err != nil {
		return err
	}

	if err := binder.ApplySignatures(b.root); err != nil {
		return utils.WrapError("apply signatures", err)
	}
	return nil
}

// Root returns the bound tree's root node, or nil if no template has
// been set.
func (b *Binalyzer) Root() *Node {
	return newNode(b.root)
}

// Data returns the currently bound data stream, or nil.
func (b *Binalyzer) Data() DataStream {
	return b.stream
}
