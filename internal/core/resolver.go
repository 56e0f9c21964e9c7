package core

import "github.com/scigolib/binalyzer/internal/utils"

// AbsoluteAddress resolves t's absolute_address: its own offset
// property under absolute addressing, or parent.absolute_address +
// relative_offset under relative addressing (spec.md §4.2, invariant
// 4). A node with no parent (the tree root) has an implicit parent
// address of 0.
func (t *Template) AbsoluteAddress() (uint64, error) {
	return t.absoluteAddress(0)
}

func (t *Template) absoluteAddress(depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}

	if t.Addressing == AddressingAbsolute {
		if t.OffsetProperty == nil {
			return 0, utils.Schemaf("node %q: absolute addressing requires an explicit offset", t.Name)
		}
		return t.OffsetProperty.resolve(t, depth+1)
	}

	parentAddr := uint64(0)
	if t.Parent != nil {
		pa, err := t.Parent.absoluteAddress(depth + 1)
		if err != nil {
			return 0, err
		}
		parentAddr = pa
	}

	rel, err := t.relativeOffset(depth + 1)
	if err != nil {
		return 0, err
	}
	return utils.SafeAdd(parentAddr, rel)
}

// RelativeOffset resolves t's relative_offset under relative
// addressing: the explicit offset property if one was given, or the
// derived sibling-chain computation otherwise.
func (t *Template) RelativeOffset() (uint64, error) {
	return t.relativeOffset(0)
}

func (t *Template) relativeOffset(depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	if t.OffsetProperty != nil {
		return t.OffsetProperty.resolve(t, depth+1)
	}
	return DerivedRelativeOffsetProperty{}.resolve(t, depth+1)
}

// Size resolves t's size: an explicit literal/reference override always
// wins; otherwise it follows t.Sizing.
func (t *Template) Size() (uint64, error) {
	return t.size(0)
}

func (t *Template) size(depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	if t.SizeProperty != nil {
		return t.SizeProperty.resolve(t, depth+1)
	}
	switch t.Sizing {
	case SizingFix:
		return 0, nil
	case SizingStretch:
		return DerivedStretchSizeProperty{}.resolve(t, depth+1)
	default:
		return DerivedAutoSizeProperty{}.resolve(t, depth+1)
	}
}

// Boundary resolves t's boundary, 0 if unset.
func (t *Template) Boundary() (uint64, error) {
	return t.boundary(0)
}

func (t *Template) boundary(depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	if t.BoundaryProperty == nil {
		return 0, nil
	}
	return t.BoundaryProperty.resolve(t, depth+1)
}

// PaddingBefore resolves t's padding-before, 0 if unset.
func (t *Template) PaddingBefore() (uint64, error) {
	return t.paddingBefore(0)
}

func (t *Template) paddingBefore(depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	if t.PaddingBeforeProperty == nil {
		return 0, nil
	}
	return t.PaddingBeforeProperty.resolve(t, depth+1)
}

// PaddingAfter resolves t's padding-after, 0 if unset.
func (t *Template) PaddingAfter() (uint64, error) {
	return t.paddingAfter(0)
}

func (t *Template) paddingAfter(depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	if t.PaddingAfterProperty == nil {
		return 0, nil
	}
	return t.PaddingAfterProperty.resolve(t, depth+1)
}

// Count resolves t's count, 1 if unset.
func (t *Template) Count() (uint64, error) {
	return t.count(0)
}

func (t *Template) count(depth int) (uint64, error) {
	if err := checkDepth(depth); err != nil {
		return 0, err
	}
	if t.CountProperty == nil {
		return 1, nil
	}
	return t.CountProperty.resolve(t, depth+1)
}

// Value reads t's resolved byte region, [absolute_address,
// absolute_address+size), from the bound stream. A detached node (no
// binding context, or no stream) reads as all zero.
func (t *Template) Value() ([]byte, error) {
	addr, err := t.AbsoluteAddress()
	if err != nil {
		return nil, err
	}
	size, err := t.Size()
	if err != nil {
		return nil, err
	}
	if err := utils.ValidateBufferSize(size, utils.MaxNodeSize, "node "+t.Name+" size"); err != nil {
		return nil, utils.WrapError("value", err)
	}

	buf := make([]byte, size)
	if t.ctx == nil || t.ctx.Stream == nil {
		return buf, nil
	}

	if size == 0 {
		return buf, nil
	}
	if _, err := t.ctx.Stream.ReadAt(buf, int64(addr)); err != nil {
		return nil, utils.WrapError("read value of "+t.Name, utils.Streamf("%v", err))
	}
	return buf, nil
}

// SetValue writes data into t's resolved byte region. A write shorter
// than the node's size is zero-padded; a write longer than the node's
// size is rejected rather than silently truncated.
func (t *Template) SetValue(data []byte) error {
	addr, err := t.AbsoluteAddress()
	if err != nil {
		return err
	}
	size, err := t.Size()
	if err != nil {
		return err
	}
	if uint64(len(data)) > size {
		return utils.Schemaf("node %q: value of %d bytes exceeds node size %d", t.Name, len(data), size)
	}
	if t.ctx == nil || t.ctx.Stream == nil {
		return utils.Streamf("node %q: not bound to a stream", t.Name)
	}

	buf := make([]byte, size)
	copy(buf, data)
	if _, err := t.ctx.Stream.WriteAt(buf, int64(addr)); err != nil {
		return utils.WrapError("write value of "+t.Name, utils.Streamf("%v", err))
	}
	return nil
}

// IntegerValue decodes t's own byte region as an unsigned integer using
// t.ByteOrder (little-endian if unset). Unlike Value, this reads
// directly off the bound stream through a pooled scratch buffer
// (utils.ReadUintAt) rather than allocating a fresh one per call.
func (t *Template) IntegerValue() (uint64, error) {
	addr, err := t.AbsoluteAddress()
	if err != nil {
		return 0, err
	}
	size, err := t.Size()
	if err != nil {
		return 0, err
	}
	if t.ctx == nil || t.ctx.Stream == nil {
		return 0, utils.Streamf("node %q: not bound to a stream", t.Name)
	}
	order := t.ByteOrder
	if order == nil {
		order = defaultByteOrder()
	}
	v, err := utils.ReadUintAt(t.ctx.Stream, int64(addr), int(size), order)
	if err != nil {
		return 0, utils.WrapError("read integer value of "+t.Name, err)
	}
	return v, nil
}

// SetIntegerValue encodes value into t's own byte region using
// t.ByteOrder (little-endian if unset) and t's resolved size, through a
// pooled scratch buffer (utils.WriteUintAt).
func (t *Template) SetIntegerValue(value uint64) error {
	addr, err := t.AbsoluteAddress()
	if err != nil {
		return err
	}
	size, err := t.Size()
	if err != nil {
		return err
	}
	if t.ctx == nil || t.ctx.Stream == nil {
		return utils.Streamf("node %q: not bound to a stream", t.Name)
	}
	order := t.ByteOrder
	if order == nil {
		order = defaultByteOrder()
	}
	if err := utils.WriteUintAt(t.ctx.Stream, int64(addr), int(size), order, value); err != nil {
		return utils.WrapError("write integer value of "+t.Name, err)
	}
	return nil
}

// MatchesSignature checks t's Signature against the bytes currently at
// its own absolute_address. A node with no signature always matches.
func (t *Template) MatchesSignature() (bool, error) {
	if len(t.Signature) == 0 {
		return true, nil
	}
	addr, err := t.AbsoluteAddress()
	if err != nil {
		return false, err
	}
	if t.ctx == nil || t.ctx.Stream == nil {
		return false, utils.Streamf("node %q: not bound to a stream for signature check", t.Name)
	}

	buf := make([]byte, len(t.Signature))
	if _, err := t.ctx.Stream.ReadAt(buf, int64(addr)); err != nil {
		if t.Optional {
			return false, nil
		}
		return false, utils.WrapError("signature check on "+t.Name, utils.Streamf("%v", err))
	}
	for i, b := range t.Signature {
		if buf[i] != b {
			return false, nil
		}
	}
	return true, nil
}
