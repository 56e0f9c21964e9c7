package core

import (
	"encoding/binary"

	"github.com/scigolib/binalyzer/internal/utils"
)

// ValueConverter turns the raw bytes a value provider reads into an
// unsigned integer, and back. Every converter named in spec.md §4.1 is a
// ValueConverter: the two fixed-width integer converters, the
// pass-through identity converter, and the LEB128 unsigned converter.
type ValueConverter interface {
	// DecodeUint interprets data as an unsigned integer. order is ignored
	// by converters that are not byte-order sensitive (identity, LEB128).
	DecodeUint(data []byte, order binary.ByteOrder) (uint64, error)

	// EncodeUint serializes value into exactly width bytes.
	EncodeUint(value uint64, width int, order binary.ByteOrder) ([]byte, error)
}

// IntegerConverter decodes/encodes a fixed-width two's-complement-free
// unsigned integer in the given byte order. Used for little/big endian
// offset, size, and reference fields.
type IntegerConverter struct{}

func (IntegerConverter) DecodeUint(data []byte, order binary.ByteOrder) (uint64, error) {
	if len(data) == 0 || len(data) > 8 {
		return 0, utils.Schemaf("integer converter: unsupported width %d", len(data))
	}
	return utils.DecodeUint(data, order), nil
}

func (IntegerConverter) EncodeUint(value uint64, width int, order binary.ByteOrder) ([]byte, error) {
	if width <= 0 || width > 8 {
		return nil, utils.Schemaf("integer converter: unsupported width %d", width)
	}
	buf := make([]byte, width)
	utils.EncodeUint(buf, order, value)
	return buf, nil
}

// IdentityConverter passes bytes through unchanged. It cannot interpret
// its data as an integer; it exists so callers that treat a node's
// content as opaque bytes (spec.md §4.1: "used when the value is a byte
// slice, not an integer") still go through the ValueConverter interface.
type IdentityConverter struct{}

func (IdentityConverter) DecodeUint(_ []byte, _ binary.ByteOrder) (uint64, error) {
	return 0, utils.Schemaf("identity converter does not decode an integer value")
}

func (IdentityConverter) EncodeUint(_ uint64, _ int, _ binary.ByteOrder) ([]byte, error) {
	return nil, utils.Schemaf("identity converter does not encode an integer value")
}

// LEB128UnsignedConverter decodes/encodes unsigned LEB128: little-endian
// base-128 groups of 7 bits, continuation signaled by the MSB of each
// byte. order is ignored; LEB128 has no byte-order variant.
type LEB128UnsignedConverter struct{}

func (LEB128UnsignedConverter) DecodeUint(data []byte, _ binary.ByteOrder) (uint64, error) {
	var result uint64
	var shift uint
	for _, b := range data {
		if shift >= 64 {
			return 0, utils.Schemaf("leb128: value exceeds 64 bits")
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, utils.Schemaf("leb128: truncated sequence, no terminating byte")
}

func (LEB128UnsignedConverter) EncodeUint(value uint64, _ int, _ binary.ByteOrder) ([]byte, error) {
	var out []byte
	for {
		b := byte(value & 0x7f)
		value >>= 7
		if value != 0 {
			b |= 0x80
		}
		out = append(out, b)
		if value == 0 {
			break
		}
	}
	return out, nil
}

// namedConverters resolves the `converter=` token of a reference
// expression (spec.md §6) to a ValueConverter. "little" and "big" select
// byte order on the default IntegerConverter rather than a distinct
// converter, so they are handled by the binder directly; only converters
// with no corresponding byte-order attribute live here.
var namedConverters = map[string]ValueConverter{
	"leb128u": LEB128UnsignedConverter{},
}

// ConverterByName looks up a converter by its reference-expression
// token. ok is false for "little"/"big", which the binder resolves to
// IntegerConverter plus an explicit byte order instead.
func ConverterByName(name string) (ValueConverter, bool) {
	c, ok := namedConverters[name]
	return c, ok
}
