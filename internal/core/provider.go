package core

import "github.com/scigolib/binalyzer/internal/utils"

// ValueProvider produces the raw bytes a converter decodes, given the
// template it is anchored to. spec.md §4.1 names two: the ordinary
// stream-read provider (a node's own [absolute_address, +size) region)
// and the LEB128 forward-scan provider shared by the "leb128size" and
// "leb128u" custom providers.
type ValueProvider interface {
	Provide(t *Template) ([]byte, error)
}

// StreamReadProvider reads a node's own resolved byte region: size bytes
// at absolute_address. This is what Template.Value uses, and what an
// ordinary Reference property reads from its referent before applying a
// converter.
type StreamReadProvider struct{}

func (StreamReadProvider) Provide(t *Template) ([]byte, error) {
	return t.Value()
}

// maxLEB128Bytes bounds the forward scan so a stream with no
// continuation-terminated byte within 10 groups (enough for a full
// 64-bit value) fails fast instead of scanning to EOF.
const maxLEB128Bytes = 10

// LEB128BytesProvider scans forward from a node's own absolute_address,
// one byte at a time, until a byte with its continuation bit (0x80)
// clear is found. It returns the consumed bytes; callers either take
// len(bytes) (the "leb128size" custom provider) or decode them with
// LEB128UnsignedConverter (the "leb128u" custom provider).
type LEB128BytesProvider struct{}

func (LEB128BytesProvider) Provide(t *Template) ([]byte, error) {
	addr, err := t.AbsoluteAddress()
	if err != nil {
		return nil, err
	}
	if t.ctx == nil || t.ctx.Stream == nil {
		return nil, nil
	}

	buf := make([]byte, 1)
	var out []byte
	for i := 0; i < maxLEB128Bytes; i++ {
		if _, err := t.ctx.Stream.ReadAt(buf, int64(addr)+int64(i)); err != nil {
			return nil, utils.Streamf("leb128 scan at %#x: %v", addr, err)
		}
		out = append(out, buf[0])
		if buf[0]&0x80 == 0 {
			return out, nil
		}
	}
	return nil, utils.Schemaf("leb128 scan at %#x: no terminating byte within %d bytes", addr, maxLEB128Bytes)
}
