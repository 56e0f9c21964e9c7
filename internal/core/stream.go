package core

import "io"

// DataStream is the byte-addressable backing store a template tree is
// bound to. It must support random read, random write, and length query
// (spec.md §5: "The stream must support random read, random write, and
// length query").
type DataStream interface {
	io.ReaderAt
	io.WriterAt
	// Len returns the current stream length in bytes.
	Len() int64
}
