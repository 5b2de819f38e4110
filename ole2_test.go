package xls

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type bufferSink struct {
	buf    bytes.Buffer
	closed bool
}

func (b *bufferSink) Write(p []byte) (int, error) { return b.buf.Write(p) }
func (b *bufferSink) Close() error                { b.closed = true; return nil }

// Sector math (spec.md §8 property 8): big_blocks = ceil(booksize/512),
// list_blocks = (big_blocks/127)+1, root_start = big_blocks.
func TestOLE2SizesSectorMath(t *testing.T) {
	bookSize, bigBlocks, listBlocks, rootStart, err := ole2Sizes(5000)
	require.NoError(t, err)
	require.Equal(t, int64(5000), bookSize)
	require.Equal(t, int64(10), bigBlocks) // ceil(5000/512)
	require.Equal(t, int64(1), listBlocks)
	require.Equal(t, int64(10), rootStart)
}

func TestOLE2SizesEnforcesMinimumBookSize(t *testing.T) {
	bookSize, _, _, _, err := ole2Sizes(10)
	require.NoError(t, err)
	require.Equal(t, int64(ole2MinBookSize), bookSize)
}

func TestOLE2SizesRejectsOversizedWorkbook(t *testing.T) {
	_, _, _, _, err := ole2Sizes(ole2MaxBookSize + 1)
	require.ErrorIs(t, err, ErrWorkbookTooLarge)
}

func TestWriteOLE2ProducesMagicHeaderAndSectorAlignedOutput(t *testing.T) {
	sink := &bufferSink{}
	data := []byte("fake biff stream")
	require.NoError(t, writeOLE2(sink, bytes.NewReader(data), int64(len(data))))

	out := sink.buf.Bytes()
	require.True(t, len(out) >= ole2SectorSize)
	require.Equal(t, ole2Magic[:], out[:8])
	require.Equal(t, 0, len(out)%ole2SectorSize, "container size must be sector-aligned")
}

func TestWriteOLE2EmbedsBookStreamName(t *testing.T) {
	sink := &bufferSink{}
	data := []byte("fake biff stream")
	require.NoError(t, writeOLE2(sink, bytes.NewReader(data), int64(len(data))))

	require.True(t, strings.Contains(string(sink.buf.Bytes()), "B\x00o\x00o\x00k\x00"))
}

// Root Entry's PPS child pointer must reference property-storage index 1
// ("Book"), not -1 (which would leave the directory unnavigable by a
// strict OLE2-CFB reader).
func TestWriteOLE2PropertyStorageRootEntryChildPointsAtBook(t *testing.T) {
	buf := newOctetBuffer()
	require.NoError(t, writeOLE2PropertyStorage(&bufferSinkAdapter{buf: buf}, ole2MinBookSize))

	pps := buf.Bytes()
	// Each PPS entry is 128 bytes; the child-pointer field sits at offset
	// 76 (64-byte name + 2-byte name-length + type byte + color byte +
	// prev(4) + next(4)).
	child := le32(pps[76:80])
	require.Equal(t, uint32(1), child)
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

type bufferSinkAdapter struct {
	buf *octetBuffer
}

func (b *bufferSinkAdapter) Write(p []byte) (int, error) {
	b.buf.putRaw(p)
	return len(p), nil
}

func (b *bufferSinkAdapter) Close() error { return nil }
