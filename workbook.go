package xls

import (
	"io"
	"strconv"

	"github.com/sirupsen/logrus"
)

const (
	styleXFCount  = 15   // tmp_format style XFs written ahead of the cell XFs
	firstFontIdx  = 6    // fonts 0-4 are the five built-in tmp_format copies (index 4 is skipped by Excel, kept for parity)
	firstNumFmtIdx = 164 // 0xA4, the first index outside Excel's built-in number formats
	firstCellXF   = 16   // style XFs (0-14) + one tmp cell XF (15) precede user formats

	maxSheetNameLen = 31
)

// Workbook assembles worksheets, formats and the BIFF global substream into
// a single .xls stream and hands it to a Sink wrapped in an OLE2 container.
// Grounded on src/workbook.c's struct wbookctx and wbook_store_workbook.
type Workbook struct {
	log             *logrus.Logger
	scratchDir      string
	useScratch      bool
	epoch1904       bool
	codepage        uint16
	sheetNamePrefix string

	sheets    []*Worksheet
	formats   []*Format
	urlFormat *Format
	nextXF    int

	activeSheet int
	firstSheet  int

	closed bool
}

// New constructs a Workbook ready to receive sheets and formats.
func New(opts ...Option) *Workbook {
	w := &Workbook{
		log:             newSilentLogger(),
		codepage:        0x04E4,
		sheetNamePrefix: "Sheet",
		nextXF:          firstCellXF,
	}
	for _, opt := range opts {
		opt(w)
	}

	w.urlFormat = w.newFormatLocked()
	w.urlFormat.SetColor("blue")
	w.urlFormat.SetUnderline(true)

	return w
}

func (w *Workbook) newFormatLocked() *Format {
	xf := w.nextXF
	w.nextXF++
	f := newFormat(xf)
	w.formats = append(w.formats, f)
	return f
}

// AddFormat allocates a new cell format, pre-populated with the library's
// defaults (src/format.c fmt_new).
func (w *Workbook) AddFormat() *Format {
	return w.newFormatLocked()
}

// AddSheet appends a new worksheet. An empty name is auto-generated from
// sheetNamePrefix plus a 1-based index. Names longer than 31 characters
// (the BIFF8 sheet-name limit) are truncated, with a warning.
func (w *Workbook) AddSheet(name string) *Worksheet {
	idx := len(w.sheets)
	if name == "" {
		name = sheetAutoName(w.sheetNamePrefix, idx+1)
	}
	if len(name) > maxSheetNameLen {
		w.log.Warnf("xls: sheet name %q truncated to %d characters", name, maxSheetNameLen)
		name = name[:maxSheetNameLen]
	}

	var acc *streamAccumulator
	if w.useScratch {
		acc = newScratchAccumulator(w.scratchDir)
	} else {
		acc = newMemoryAccumulator()
	}

	s := newWorksheet(name, idx, w.activeSheet, w.firstSheet, w.urlFormat, acc, w.log)
	w.sheets = append(w.sheets, s)
	return s
}

func sheetAutoName(prefix string, n int) string {
	return prefix + strconv.Itoa(n)
}

// dedupFont returns the font index to use for f, registering a new one if
// no earlier format shares f's fontKey (fmt_gethash-equivalent dedup).
func dedupFont(seen map[fontKey]int, fonts *[]*Format, f *Format, next *int) int {
	key := f.fontKey()
	if idx, ok := seen[key]; ok {
		return idx
	}
	idx := *next
	*next++
	seen[key] = idx
	*fonts = append(*fonts, f)
	return idx
}

func dedupNumFormat(seen map[string]int, entries *[]*Format, f *Format, next *int) int {
	if f.numFormatStr == "" {
		return 0
	}
	key := f.numFormatKey()
	if idx, ok := seen[key]; ok {
		return idx
	}
	idx := *next
	*next++
	seen[key] = idx
	*entries = append(*entries, f)
	return idx
}

func (w *Workbook) storeCodepage(acc *streamAccumulator) error {
	buf := newOctetBuffer()
	buf.putU16LE(w.codepage)
	return writeRecord(acc, recCodepage, buf.Bytes())
}

func (w *Workbook) storeWindow1(acc *streamAccumulator) error {
	buf := newOctetBuffer()
	buf.putU16LE(0)
	buf.putU16LE(0x0069)
	buf.putU16LE(0x339F)
	buf.putU16LE(0x5D1B)
	buf.putU16LE(0x0038)
	buf.putU16LE(uint16(w.activeSheet))
	buf.putU16LE(uint16(w.firstSheet))
	buf.putU16LE(1)
	buf.putU16LE(0x0258)
	return writeRecord(acc, recWindow1, buf.Bytes())
}

func (w *Workbook) store1904(acc *streamAccumulator) error {
	v := uint16(0)
	if w.epoch1904 {
		v = 1
	}
	buf := newOctetBuffer()
	buf.putU16LE(v)
	return writeRecord(acc, recDateMode, buf.Bytes())
}

func (w *Workbook) storeStyle(acc *streamAccumulator) error {
	buf := newOctetBuffer()
	buf.putU16LE(0x8000) // ixfe, high bit set: built-in style
	buf.putU8(0)         // builtin id: 0 = Normal
	buf.putU8(0)
	return writeRecord(acc, recStyle, buf.Bytes())
}

// Close finalizes every worksheet, assembles the BIFF global substream,
// wraps the concatenated stream in an OLE2 container and writes it to sink.
// Calling Close a second time is a no-op returning nil (spec.md §8
// property 9: idempotent close).
func (w *Workbook) Close(sink Sink) error {
	if w.closed {
		return nil
	}
	w.closed = true

	for _, s := range w.sheets {
		if err := s.close(); err != nil {
			return err
		}
	}

	global := newMemoryAccumulator()
	writeBOF(global, bofTypeBook)
	// writeBOF prepends; on an empty header that is equivalent to append,
	// so the global BOF still ends up first.

	if err := w.storeCodepage(global); err != nil {
		return err
	}
	if err := w.storeWindow1(global); err != nil {
		return err
	}
	if err := w.store1904(global); err != nil {
		return err
	}

	// Fonts: the tmp_format (library-internal default) FONT record is
	// written five times at indices 0-4 (wbook_store_all_fonts), then each
	// distinct user font is deduped and assigned starting at index 6.
	tmp := newFormat(0)
	for i := 0; i < 5; i++ {
		if err := writeRecord(global, recFont, tmp.buildFontRecord()); err != nil {
			return err
		}
	}
	fontSeen := map[fontKey]int{}
	var fontOrder []*Format
	nextFont := firstFontIdx
	for _, f := range w.formats {
		f.fontIndex = dedupFont(fontSeen, &fontOrder, f, &nextFont)
	}
	for _, f := range fontOrder {
		if err := writeRecord(global, recFont, f.buildFontRecord()); err != nil {
			return err
		}
	}

	// Number formats: deduped starting at index 164.
	numFmtSeen := map[string]int{}
	var numFmtOrder []*Format
	nextNumFmt := firstNumFmtIdx
	for _, f := range w.formats {
		f.numFormat = dedupNumFormat(numFmtSeen, &numFmtOrder, f, &nextNumFmt)
	}
	for _, f := range numFmtOrder {
		if err := writeRecord(global, recFormat, buildFormatRecord(f.numFormatStr, f.numFormat)); err != nil {
			return err
		}
	}

	// XFs: fifteen style XFs (all copies of tmp_format, style=0xFFF5), one
	// tmp cell XF (style=0x0001), then each user format's cell XF.
	for i := 0; i < styleXFCount; i++ {
		if err := writeRecord(global, recXF, tmp.buildXFRecord(0xFFF5)); err != nil {
			return err
		}
	}
	if err := writeRecord(global, recXF, tmp.buildXFRecord(0x0001)); err != nil {
		return err
	}
	for _, f := range w.formats {
		if err := writeRecord(global, recXF, f.buildXFRecord(0x0001)); err != nil {
			return err
		}
	}

	if err := w.storeStyle(global); err != nil {
		return err
	}

	// Sheet offsets (wbook_calc_sheet_offsets): running = current global
	// size + every BOUNDSHEET record's own size + the final EOF, THEN each
	// sheet's offset is assigned in turn, advancing by that sheet's size.
	running := global.Size()
	for _, s := range w.sheets {
		running += int64(11 + len(s.name))
	}
	running += 4 // EOF
	for _, s := range w.sheets {
		s.offset = running
		running += s.acc.Size()
	}

	for _, s := range w.sheets {
		buf := newOctetBuffer()
		buf.putU32LE(uint32(s.offset))
		buf.putU16LE(0)
		buf.putU8(uint8(len(s.name)))
		buf.putRaw([]byte(s.name))
		if err := writeRecord(global, recBoundsheet, buf.Bytes()); err != nil {
			return err
		}
	}

	if err := writeEOF(global); err != nil {
		return err
	}

	var biffSize int64 = global.Size()
	for _, s := range w.sheets {
		biffSize += s.acc.Size()
	}

	readers := make([]io.Reader, 0, 1+len(w.sheets)*2)
	globalChunks, err := global.Drain()
	if err != nil {
		return err
	}
	readers = append(readers, globalChunks...)
	for _, s := range w.sheets {
		chunks, err := s.acc.Drain()
		if err != nil {
			return err
		}
		readers = append(readers, chunks...)
	}

	if err := writeOLE2(sink, io.MultiReader(readers...), biffSize); err != nil {
		w.log.Errorf("xls: close failed: %v", err)
		return err
	}

	for _, s := range w.sheets {
		_ = s.acc.Close()
	}
	_ = global.Close()

	return sink.Close()
}
