package xls

import "io"

// OLE2 / Compound File Binary container assembly (spec.md §4.7), grounded
// on src/olewriter.c's ow_set_size/ow_calculate_sizes/ow_write_header/
// ow_write_property_storage/ow_write_big_block_depot, and generalized from
// the teacher's fixed-size cfb.go (which only ever wrote a single-FAT-
// sector, 4-entry-directory container) to the original's real sector math.
const (
	ole2SectorSize  = 512
	ole2MaxBookSize = 7087104 // ow_set_size's hard limit
	ole2MinBookSize = 4096    // ow_set_size forces at least one mini-stream-free sector run

	ole2EndOfChain  = 0xFFFFFFFE
	ole2FATSector   = 0xFFFFFFFD
	ole2FreeSector  = 0xFFFFFFFF
)

var ole2Magic = [8]byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// ole2Sizes computes the sector layout for a biffSize-byte BIFF stream:
// big_blocks = ceil(booksize/512), list_blocks = (big_blocks/127)+1,
// root_start = big_blocks (ow_calculate_sizes).
func ole2Sizes(biffSize int64) (bookSize, bigBlocks, listBlocks, rootStart int64, err error) {
	if biffSize > ole2MaxBookSize {
		return 0, 0, 0, 0, ErrWorkbookTooLarge
	}
	bookSize = biffSize
	if bookSize < ole2MinBookSize {
		bookSize = ole2MinBookSize
	}
	bigBlocks = (bookSize + ole2SectorSize - 1) / ole2SectorSize
	listBlocks = bigBlocks/127 + 1
	rootStart = bigBlocks
	return
}

// writeOLE2 streams biff (exactly biffSize bytes) into sink, wrapped in an
// OLE2 compound-document container holding a single "Book" stream — the
// same container shape Excel 97-2003 expects for a standalone .xls file.
func writeOLE2(sink Sink, biff io.Reader, biffSize int64) error {
	bookSize, bigBlocks, listBlocks, rootStart, err := ole2Sizes(biffSize)
	if err != nil {
		return err
	}

	if err := writeOLE2Header(sink, listBlocks, rootStart); err != nil {
		return err
	}
	if err := writeOLE2Data(sink, biff, biffSize, bookSize); err != nil {
		return err
	}
	if err := writeOLE2PropertyStorage(sink, bookSize); err != nil {
		return err
	}
	return writeOLE2BigBlockDepot(sink, bigBlocks, listBlocks, rootStart)
}

func writeOLE2Header(sink Sink, listBlocks, rootStart int64) error {
	buf := newOctetBuffer()
	buf.putRaw(ole2Magic[:])
	buf.putZero(16) // CLSID, always nil for a non-OLE-embedded document
	buf.putU16LE(0x003E)
	buf.putU16LE(0x0003)
	buf.putRaw([]byte{0xFE, 0xFF}) // byte-order mark, always little-endian on disk
	buf.putU16LE(0x0009)           // sector shift: 2^9 = 512
	buf.putU16LE(0x0006)           // mini sector shift: 2^6 = 64, unused (no mini stream)
	buf.putZero(6)
	buf.putU32LE(0) // reserved (csectDir in the legacy layout, always 0)
	buf.putU32LE(uint32(listBlocks))
	buf.putU32LE(uint32(rootStart))
	buf.putU32LE(0)      // transaction signature, unused
	buf.putU32LE(0x1000) // mini-stream cutoff, unused (no mini stream)
	buf.putU32LE(ole2EndOfChain)
	buf.putU32LE(0) // mini FAT sector count
	buf.putU32LE(ole2EndOfChain)
	buf.putU32LE(0) // DIFAT sector count: unused, list_blocks always fits the 109-slot table

	for i := int64(0); i < 109; i++ {
		if i < listBlocks {
			buf.putU32LE(uint32(rootStart + 1 + i))
		} else {
			buf.putU32LE(ole2FreeSector)
		}
	}

	_, err := sink.Write(buf.Bytes())
	return err
}

// writeOLE2Data streams the BIFF bytes, padded with zeros
// (ow_write_padding: pad to 4096 if the stream is shorter than that,
// otherwise pad only to the next 512-byte sector boundary — see DESIGN.md
// for why this threshold is kept as-is rather than "fixed").
func writeOLE2Data(sink Sink, biff io.Reader, biffSize, bookSize int64) error {
	if _, err := io.CopyN(sink, biff, biffSize); err != nil && err != io.EOF {
		return err
	}
	padding := bookSize - biffSize
	if rem := bookSize % ole2SectorSize; rem != 0 {
		padding += ole2SectorSize - rem
	}
	return writeZeroPadding(sink, padding)
}

func writeZeroPadding(sink Sink, n int64) error {
	if n <= 0 {
		return nil
	}
	zeros := make([]byte, 4096)
	for n > 0 {
		chunk := int64(len(zeros))
		if n < chunk {
			chunk = n
		}
		if _, err := sink.Write(zeros[:chunk]); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// writeOLE2Pps writes one 128-byte Property Storage entry (ow_write_pps).
// Names are stored as "simulated Unicode": each ASCII byte followed by a
// zero byte, exactly like the original (and like the teacher's
// stringToUTF16LE, which happens to coincide for ASCII input). Sibling
// pointers are always -1 (this container's directory is a flat 4-entry
// list, never a tree); child is the one pointer that varies, set by the
// caller to point at a PPS entry's first child (ow_write_pps's pps_dir).
func writeOLE2Pps(buf *octetBuffer, name string, objType byte, child int32, start uint32, size uint64) {
	nameBytes := make([]byte, 64)
	copy(nameBytes, utf16LEName(name))
	buf.putRaw(nameBytes)
	buf.putU16LE(uint16(len(name)*2 + 2))
	buf.putU8(objType)
	buf.putU8(1) // color flag: always "black" (balanced), matching the teacher's fixed layout
	buf.putU32LE(uint32(-1)) // previous sibling
	buf.putU32LE(uint32(-1)) // next sibling
	buf.putU32LE(uint32(child))
	buf.putZero(16) // CLSID
	buf.putU32LE(0) // state bits
	buf.putZero(8)  // creation time
	buf.putZero(8)  // modified time
	buf.putU32LE(start)
	buf.putU32LE(uint32(size))
	buf.putU32LE(0) // high 32 bits of the 64-bit size field
}

func writeOLE2PropertyStorage(sink Sink, bookSize int64) error {
	buf := newOctetBuffer()
	// Root Entry's child points at property-storage index 1, "Book" (the
	// only entry anything needs to reach); the rest have no children.
	writeOLE2Pps(buf, "Root Entry", 5, 1, ole2EndOfChain, 0)
	writeOLE2Pps(buf, "Book", 2, -1, 0, uint64(bookSize))
	writeOLE2Pps(buf, "", 0, -1, ole2EndOfChain, 0)
	writeOLE2Pps(buf, "", 0, -1, ole2EndOfChain, 0)
	_, err := sink.Write(buf.Bytes())
	return err
}

// writeOLE2BigBlockDepot writes the FAT: the data chain (0 -> 1 -> ... ->
// big_blocks-1 -> EOC), the property-storage sector's own EOC entry, the
// list_blocks FAT-sector self-markers, then padding to a whole number of
// FAT sectors (ow_write_big_block_depot).
func writeOLE2BigBlockDepot(sink Sink, bigBlocks, listBlocks, rootStart int64) error {
	buf := newOctetBuffer()
	for i := int64(1); i < bigBlocks; i++ {
		buf.putU32LE(uint32(i))
	}
	buf.putU32LE(ole2EndOfChain) // end of the data chain
	buf.putU32LE(ole2EndOfChain) // end of the property-storage (root_start) chain

	for i := int64(0); i < listBlocks; i++ {
		buf.putU32LE(ole2FATSector)
	}

	totalEntries := listBlocks * (ole2SectorSize / 4)
	written := int64(bigBlocks + 1 + listBlocks)
	for ; written < totalEntries; written++ {
		buf.putU32LE(ole2FreeSector)
	}

	_, err := sink.Write(buf.Bytes())
	return err
}
