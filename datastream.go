package binalyzer

import (
	"os"
	"sync"

	"github.com/scigolib/binalyzer/internal/core"
	"github.com/scigolib/binalyzer/internal/utils"
)

// DataStream is the byte-addressable backing store a Binalyzer's
// template tree is bound to (spec.md §5). It must support random read,
// random write, and length query.
type DataStream = core.DataStream

// ByteStream is a fixed-size, in-memory DataStream backed by a byte
// slice. Reads and writes outside the slice's bounds return an error;
// use BackedDataStream when out-of-range reads should zero-fill
// instead.
type ByteStream struct {
	mu   sync.RWMutex
	data []byte
}

// NewByteStream wraps data directly (no copy); callers that need an
// independent buffer should copy first.
func NewByteStream(data []byte) *ByteStream {
	return &ByteStream{data: data}
}

func (s *ByteStream) ReadAt(p []byte, off int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if off < 0 || off > int64(len(s.data)) {
		return 0, utils.Streamf("read at %d: out of range (len %d)", off, len(s.data))
	}
	n := copy(p, s.data[off:])
	if n < len(p) {
		return n, utils.Streamf("short read at %d: got %d of %d bytes", off, n, len(p))
	}
	return n, nil
}

func (s *ByteStream) WriteAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	end := off + int64(len(p))
	if off < 0 || end > int64(len(s.data)) {
		return 0, utils.Streamf("write at %d: out of range (len %d)", off, len(s.data))
	}
	return copy(s.data[off:end], p), nil
}

func (s *ByteStream) Len() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data))
}

// Bytes returns the stream's current contents (not a copy).
func (s *ByteStream) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// BackedDataStream is a growable, zero-filling DataStream: a read past
// the current end returns zeros instead of an error, and a write past
// the current end grows the backing buffer. It models spec.md §5's
// "backed" binding context, used when a template tree is constructed
// without a pre-existing stream (e.g. to synthesize a new binary from a
// layout alone).
type BackedDataStream struct {
	mu   sync.RWMutex
	data []byte
}

func NewBackedDataStream() *BackedDataStream {
	return &BackedDataStream{}
}

func (s *BackedDataStream) ReadAt(p []byte, off int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if off < 0 {
		return 0, utils.Streamf("read at %d: negative offset", off)
	}
	for i := range p {
		p[i] = 0
	}
	if off >= int64(len(s.data)) {
		return len(p), nil
	}
	copy(p, s.data[off:])
	return len(p), nil
}

func (s *BackedDataStream) WriteAt(p []byte, off int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if off < 0 {
		return 0, utils.Streamf("write at %d: negative offset", off)
	}
	end := off + int64(len(p))
	if end > int64(len(s.data)) {
		grown := make([]byte, end)
		copy(grown, s.data)
		s.data = grown
	}
	return copy(s.data[off:end], p), nil
}

func (s *BackedDataStream) Len() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.data))
}

// Bytes returns the stream's current contents (not a copy).
func (s *BackedDataStream) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// FileStream adapts an *os.File to DataStream for layouts bound
// directly to a file on disk.
type FileStream struct {
	f *os.File
}

func NewFileStream(f *os.File) *FileStream {
	return &FileStream{f: f}
}

func (s *FileStream) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

func (s *FileStream) WriteAt(p []byte, off int64) (int, error) {
	return s.f.WriteAt(p, off)
}

func (s *FileStream) Len() int64 {
	info, err := s.f.Stat()
	if err != nil {
		return 0
	}
	return info.Size()
}
