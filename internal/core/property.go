package core

import (
	"encoding/binary"

	"github.com/scigolib/binalyzer/internal/utils"
)

// Property is one resolvable slot: offset, size, count, boundary, or
// padding. depth threads a recursion guard through mutually-recursive
// resolution (an offset may depend on a sibling's size, which may
// depend on its own offset, and so on); resolve rejects depth beyond
// utils.MaxRecursionDepth rather than looping forever over a cyclic
// attribute graph (spec.md §5/§7).
type Property interface {
	resolve(t *Template, depth int) (uint64, error)
}

func checkDepth(depth int) error {
	if depth > utils.MaxRecursionDepth {
		return utils.ErrRecursionDepth
	}
	return nil
}

// LiteralProperty is a fixed value taken directly from the layout, such
// as offset="128" or boundary="0x200". A literal never triggers
// boundary rounding: see DESIGN.md's note on
// original_source/binalyzer_template_provider/xml.py's
// RelativeOffsetValueProperty(ignore_boundary=True).
type LiteralProperty struct {
	Value uint64
}

func NewLiteralProperty(value uint64) *LiteralProperty {
	return &LiteralProperty{Value: value}
}

func (p *LiteralProperty) resolve(_ *Template, depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	return p.Value, nil
}

// ReferenceProperty reads another node's resolved value bytes and
// decodes them as an integer (spec.md §4.2's Reference property). The
// referenced node is located through the binding context's
// ReferenceResolver, honoring both a bare name and a dotted path.
type ReferenceProperty struct {
	RefName   string
	Converter ValueConverter
	ByteOrder binary.ByteOrder
}

// NewReferenceProperty builds a Reference property. A nil converter
// defaults to IntegerConverter, and a nil byteOrder defaults to little
// endian, matching spec.md §3's attribute defaults.
func NewReferenceProperty(refName string, converter ValueConverter, byteOrder binary.ByteOrder) *ReferenceProperty {
	if converter == nil {
		converter = IntegerConverter{}
	}
	if byteOrder == nil {
		byteOrder = binary.LittleEndian
	}
	return &ReferenceProperty{RefName: refName, Converter: converter, ByteOrder: byteOrder}
}

func (p *ReferenceProperty) resolve(t *Template, depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	referent, err := lookupReference(t, p.RefName)
	if err != nil {
		return 0, err
	}
	// Resolve the referent's region with the threaded depth first, so a
	// reference cycle trips the recursion guard before the provider read
	// below, which resolves from depth 0 again.
	if _, err := referent.absoluteAddress(depth + 1); err != nil {
		return 0, err
	}
	if _, err := referent.size(depth + 1); err != nil {
		return 0, err
	}
	data, err := StreamReadProvider{}.Provide(referent)
	if err != nil {
		return 0, utils.WrapError("resolve reference "+p.RefName, err)
	}
	return p.Converter.DecodeUint(data, p.ByteOrder)
}

// CustomProviderProperty is a derived property backed by a named,
// registered ValueProvider rather than a node's plain stream-read value
// (spec.md §4.1's custom provider, and the "leb128size"/"leb128u"
// providers supplemented from the original Python template provider). A
// blank RefName anchors the provider at t itself ("a reference without
// a name but with a converter denotes a derived property with no
// lookup"); a non-blank RefName anchors it at the named referent.
type CustomProviderProperty struct {
	RefName  string
	Provider ValueProvider
	Decode   bool // true: decode the scanned bytes (leb128u); false: return their count (leb128size)
}

func NewCustomProviderProperty(refName string, provider ValueProvider, decode bool) *CustomProviderProperty {
	return &CustomProviderProperty{RefName: refName, Provider: provider, Decode: decode}
}

func (p *CustomProviderProperty) resolve(t *Template, depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	target := t
	if p.RefName != "" {
		referent, err := lookupReference(t, p.RefName)
		if err != nil {
			return 0, err
		}
		target = referent
	}
	// As in ReferenceProperty: resolve the anchor's address with the
	// threaded depth before the provider resolves it again from depth 0.
	if _, err := target.absoluteAddress(depth + 1); err != nil {
		return 0, err
	}
	data, err := p.Provider.Provide(target)
	if err != nil {
		return 0, err
	}
	if !p.Decode {
		return uint64(len(data)), nil
	}
	return LEB128UnsignedConverter{}.DecodeUint(data, nil)
}

// DerivedRelativeOffsetProperty implements spec.md §4.2's Derived-offset
// (relative): previous_sibling.relative_offset + previous_sibling.size +
// previous_sibling.padding_after + self.padding_before, or 0 if there is
// no previous sibling; then rounded so the resulting absolute address
// is boundary-aligned, if a boundary is set.
type DerivedRelativeOffsetProperty struct{}

func (DerivedRelativeOffsetProperty) resolve(t *Template, depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}

	base, err := derivedOffsetBase(t, depth+1)
	if err != nil {
		return 0, err
	}

	boundary, err := t.boundary(depth + 1)
	if err != nil {
		return 0, err
	}
	if boundary == 0 {
		return base, nil
	}

	parentAddr := uint64(0)
	if t.Parent != nil {
		parentAddr, err = t.Parent.absoluteAddress(depth + 1)
		if err != nil {
			return 0, err
		}
	}

	candidate, err := utils.SafeAdd(parentAddr, base)
	if err != nil {
		return 0, err
	}
	rounded, err := utils.RoundUpToBoundary(candidate, boundary)
	if err != nil {
		return 0, err
	}
	return rounded - parentAddr, nil
}

func derivedOffsetBase(t *Template, depth int) (uint64, error) {
	prev := t.PreviousSibling()
	if prev == nil {
		return 0, nil
	}

	prevOffset, err := prev.relativeOffset(depth)
	if err != nil {
		return 0, err
	}
	prevSize, err := prev.size(depth)
	if err != nil {
		return 0, err
	}
	prevPadAfter, err := prev.paddingAfter(depth)
	if err != nil {
		return 0, err
	}
	selfPadBefore, err := t.paddingBefore(depth)
	if err != nil {
		return 0, err
	}

	sum, err := utils.SafeAdd(prevOffset, prevSize)
	if err != nil {
		return 0, err
	}
	sum, err = utils.SafeAdd(sum, prevPadAfter)
	if err != nil {
		return 0, err
	}
	return utils.SafeAdd(sum, selfPadBefore)
}

// DerivedAutoSizeProperty implements spec.md §4.2's Derived-size (auto):
// the natural extent needed to cover all children, rounded up to a
// boundary multiple when one is set.
type DerivedAutoSizeProperty struct{}

func (DerivedAutoSizeProperty) resolve(t *Template, depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}

	var extent uint64
	for _, c := range t.Children {
		offset, err := c.relativeOffset(depth + 1)
		if err != nil {
			return 0, err
		}
		size, err := c.size(depth + 1)
		if err != nil {
			return 0, err
		}
		padAfter, err := c.paddingAfter(depth + 1)
		if err != nil {
			return 0, err
		}
		end, err := utils.SafeAdd(offset, size)
		if err != nil {
			return 0, err
		}
		end, err = utils.SafeAdd(end, padAfter)
		if err != nil {
			return 0, err
		}
		if end > extent {
			extent = end
		}
	}

	boundary, err := t.boundary(depth + 1)
	if err != nil {
		return 0, err
	}
	if boundary == 0 {
		return extent, nil
	}
	return utils.RoundUpToBoundary(extent, boundary)
}

// DerivedStretchSizeProperty implements spec.md §4.2's Derived-size
// (stretch): fills the remaining space in the parent (parent.size -
// self.relative_offset - self.padding_after), or the stream length if
// the node is the root.
//
// DESIGN.md decision: when the node's *parent* is itself the root, its
// size is anchored directly to the stream length rather than resolved
// through the root's own (auto) derivation. Without this, a root sized
// by its children's extents and a stretch child sized by the root's
// extent form a direct cycle (see spec.md §8's boundary-alignment
// scenario, where the root has no explicit sizing and one child
// stretches to fill it).
type DerivedStretchSizeProperty struct{}

func (DerivedStretchSizeProperty) resolve(t *Template, depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}

	if t.Parent == nil {
		return streamLength(t), nil
	}

	var parentSize uint64
	var err error
	if t.Parent.Parent == nil {
		parentSize = streamLength(t)
	} else {
		parentSize, err = t.Parent.size(depth + 1)
		if err != nil {
			return 0, err
		}
	}

	rel, err := t.relativeOffset(depth + 1)
	if err != nil {
		return 0, err
	}
	padAfter, err := t.paddingAfter(depth + 1)
	if err != nil {
		return 0, err
	}

	used, err := utils.SafeAdd(rel, padAfter)
	if err != nil {
		return 0, err
	}
	if used >= parentSize {
		return 0, nil
	}
	return parentSize - used, nil
}

func streamLength(t *Template) uint64 {
	if t.ctx == nil || t.ctx.Stream == nil {
		return 0
	}
	n := t.ctx.Stream.Len()
	if n < 0 {
		return 0
	}
	return uint64(n)
}

func lookupReference(t *Template, ref string) (*Template, error) {
	if t.ctx == nil || t.ctx.Resolver == nil {
		return nil, utils.Referencef("%q: no binding context to resolve against", ref)
	}
	return t.ctx.Resolver.Resolve(t, ref)
}
