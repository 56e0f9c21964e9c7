package utils

import "encoding/binary"

// ReaderAt is a simplified interface for io.ReaderAt.
type ReaderAt interface {
	ReadAt(p []byte, off int64) (n int, err error)
}

// WriterAt is a simplified interface for io.WriterAt.
type WriterAt interface {
	WriteAt(p []byte, off int64) (n int, err error)
}

// ReadUint64 reads a 64-bit value at specified offset.
func ReadUint64(r ReaderAt, offset int64, order binary.ByteOrder) (uint64, error) {
	buf := GetBuffer(8)
	defer ReleaseBuffer(buf)

	if _, err := r.ReadAt(buf, offset); err != nil {
		return 0, err
	}
	return order.Uint64(buf), nil
}

// ReadUintAt reads a size-byte unsigned integer at offset, using order
// for multi-byte interpretation. size must be between 1 and 8 inclusive.
// This backs a node's integer value read (Template.IntegerValue), where
// the field width is the node's resolved size rather than a fixed 4 or 8.
func ReadUintAt(r ReaderAt, offset int64, size int, order binary.ByteOrder) (uint64, error) {
	if size <= 0 || size > 8 {
		return 0, Schemaf("unsupported integer width %d", size)
	}

	buf := GetBuffer(size)
	defer ReleaseBuffer(buf)

	if _, err := r.ReadAt(buf, offset); err != nil {
		return 0, err
	}
	return DecodeUint(buf, order), nil
}

// WriteUintAt encodes value into size bytes using order and writes them
// at offset.
func WriteUintAt(w WriterAt, offset int64, size int, order binary.ByteOrder, value uint64) error {
	if size <= 0 || size > 8 {
		return Schemaf("unsupported integer width %d", size)
	}

	buf := GetBuffer(size)
	defer ReleaseBuffer(buf)

	EncodeUint(buf, order, value)
	_, err := w.WriteAt(buf, offset)
	return err
}

// DecodeUint decodes an unsigned integer of arbitrary byte width
// (1-8 bytes) from buf using order.
func DecodeUint(buf []byte, order binary.ByteOrder) uint64 {
	var full [8]byte
	if order == binary.LittleEndian {
		copy(full[:], buf)
		return binary.LittleEndian.Uint64(full[:])
	}
	copy(full[8-len(buf):], buf)
	return binary.BigEndian.Uint64(full[:])
}

// EncodeUint encodes value into buf (1-8 bytes wide) using order.
func EncodeUint(buf []byte, order binary.ByteOrder, value uint64) {
	var full [8]byte
	if order == binary.LittleEndian {
		binary.LittleEndian.PutUint64(full[:], value)
		copy(buf, full[:len(buf)])
		return
	}
	binary.BigEndian.PutUint64(full[:], value)
	copy(buf, full[8-len(buf):])
}
