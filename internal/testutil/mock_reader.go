// Package testutil provides in-memory stream doubles shared by the
// resolver, binder, and orchestrator test suites.
package testutil

import "errors"

// MockStream is an in-memory io.ReaderAt/io.WriterAt double that can be
// used to exercise the stream-error path of spec.md §4.3/§7 without a
// real file.
type MockStream struct {
	data []byte
}

// NewMockStream creates a new mock stream backed by a copy of data.
func NewMockStream(data []byte) *MockStream {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &MockStream{data: buf}
}

// ReadAt implements io.ReaderAt. Reads must fall entirely within the
// stream; a short or out-of-range read returns an error rather than
// silently zero-filling (zero-fill is a backed binding context's
// behavior, not a real stream's; see spec.md §4.1).
func (m *MockStream) ReadAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, errors.New("negative offset")
	}

	if off >= int64(len(m.data)) {
		return 0, errors.New("offset beyond EOF")
	}

	n = copy(p, m.data[off:])
	if n < len(p) {
		err = errors.New("short read")
	}
	return
}

// WriteAt implements io.WriterAt, growing the backing slice as needed.
func (m *MockStream) WriteAt(p []byte, off int64) (n int, err error) {
	if off < 0 {
		return 0, errors.New("negative offset")
	}

	end := off + int64(len(p))
	if end > int64(len(m.data)) {
		grown := make([]byte, end)
		copy(grown, m.data)
		m.data = grown
	}

	return copy(m.data[off:end], p), nil
}

// Len returns the current stream length.
func (m *MockStream) Len() int64 {
	return int64(len(m.data))
}

// Bytes returns the stream's current contents (not a copy).
func (m *MockStream) Bytes() []byte {
	return m.data
}
