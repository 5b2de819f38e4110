package xls

import (
	"io"
	"os"
)

const scratchDrainChunk = 4096

// bodyStore is the append-only half of a streamAccumulator. Memory and
// scratch-file variants share identical append semantics; only Drain
// differs (a copy of the slice vs. the scratch file itself, rewound to its
// start), mirroring wsheet_get_data in the original C sources.
type bodyStore interface {
	Append(p []byte) error
	Size() int64
	Drain() (io.Reader, error)
	Close() error
}

type memoryBody struct {
	buf []byte
}

func (m *memoryBody) Append(p []byte) error {
	m.buf = append(m.buf, p...)
	return nil
}

func (m *memoryBody) Size() int64 { return int64(len(m.buf)) }

func (m *memoryBody) Drain() (io.Reader, error) {
	return newByteSliceReader(m.buf), nil
}

func (m *memoryBody) Close() error { return nil }

// scratchBody spills appended bytes to a temp file, opened lazily on first
// append, and drains it back as a single reader over that file; reads are
// not split into fixed-size chunks. Prepend is never routed
// here; the streamAccumulator keeps prepended header records in a separate
// always-in-memory buffer (see streamAccumulator.header).
type scratchBody struct {
	dir  string
	file *os.File
	size int64
}

func (s *scratchBody) Append(p []byte) error {
	if s.file == nil {
		f, err := os.CreateTemp(s.dir, "xlswriter-*.tmp")
		if err != nil {
			return err
		}
		s.file = f
	}
	n, err := s.file.Write(p)
	s.size += int64(n)
	return err
}

func (s *scratchBody) Size() int64 { return s.size }

func (s *scratchBody) Drain() (io.Reader, error) {
	if s.file == nil {
		return newByteSliceReader(nil), nil
	}
	if _, err := s.file.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	return s.file, nil
}

func (s *scratchBody) Close() error {
	if s.file == nil {
		return nil
	}
	name := s.file.Name()
	if err := s.file.Close(); err != nil {
		return err
	}
	return os.Remove(name)
}

func newByteSliceReader(b []byte) io.Reader {
	cp := make([]byte, len(b))
	copy(cp, b)
	return &sliceReader{data: cp}
}

type sliceReader struct {
	data []byte
	pos  int
}

func (r *sliceReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// streamAccumulator holds one BIFF substream. Appended records go to the
// body (memory or scratch-file); prepended records (BOF, DIMENSIONS,
// COLINFO, DEFCOLWIDTH — header-style records only known after the body is
// built) go to a dedicated in-memory header buffer. The final byte stream
// is header ++ body. Each Prepend call inserts at the very front, so
// successive prepends appear in reverse call order — exactly mirroring
// bw_prepend in the original sources.
type streamAccumulator struct {
	header []byte
	body   bodyStore
}

func newMemoryAccumulator() *streamAccumulator {
	return &streamAccumulator{body: &memoryBody{}}
}

func newScratchAccumulator(dir string) *streamAccumulator {
	return &streamAccumulator{body: &scratchBody{dir: dir}}
}

func (s *streamAccumulator) Append(p []byte) error {
	return s.body.Append(p)
}

func (s *streamAccumulator) Prepend(p []byte) {
	merged := make([]byte, 0, len(p)+len(s.header))
	merged = append(merged, p...)
	merged = append(merged, s.header...)
	s.header = merged
}

// Size is the total byte length of header plus body.
func (s *streamAccumulator) Size() int64 {
	return int64(len(s.header)) + s.body.Size()
}

// Drain returns the header followed by the body, as a sequence of readers:
// one for the header (omitted when it is empty) and one for the body,
// whether memory or scratch-file backed.
func (s *streamAccumulator) Drain() ([]io.Reader, error) {
	chunks := make([]io.Reader, 0, 2)
	if len(s.header) > 0 {
		chunks = append(chunks, newByteSliceReader(s.header))
	}
	bodyReader, err := s.body.Drain()
	if err != nil {
		return nil, err
	}
	chunks = append(chunks, bodyReader)
	return chunks, nil
}

func (s *streamAccumulator) Close() error {
	return s.body.Close()
}
