package xls

const (
	xlsRowMax = 65536
	xlsColMax = 256
	xlsStrMax = 255

	defaultCellXF = 0x0F
)

// colInfo is one COLINFO descriptor: a column range sharing a width.
type colInfo struct {
	firstCol, lastCol, width int
	xf, grbit                int
}

// rowInfo is a per-row height/format override, driving the ROW record.
type rowInfo struct {
	row, height int
	xf          int
}

// Worksheet holds one BIFF substream plus the state needed to finalize it
// (dimension tracking, selection rectangle, column overrides; ROW records
// are written as SetRow is called, not held here). Grounded
// on src/worksheet.c's struct wsheetctx and the xls_writef_*/wsheet_store_*
// functions.
type Worksheet struct {
	name          string
	index         int
	activeSheet   int
	firstSheet    int
	urlFormat     *Format
	acc           *streamAccumulator
	offset        int64 // absolute BOF offset within the final BIFF stream

	dimRowMin, dimRowMax int
	dimColMin, dimColMax int

	selFrow, selFcol, selLrow, selLcol int

	colInfos []colInfo

	closed bool
	log    logger
}

type logger interface {
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

func newWorksheet(name string, index, activeSheet, firstSheet int, urlFormat *Format, acc *streamAccumulator, log logger) *Worksheet {
	return &Worksheet{
		name:        name,
		index:       index,
		activeSheet: activeSheet,
		firstSheet:  firstSheet,
		urlFormat:   urlFormat,
		acc:         acc,
		dimRowMin:   xlsRowMax + 1,
		dimColMin:   xlsRowMax + 1,
		log:         log,
	}
}

func xfIndexOf(f *Format) uint16 {
	if f != nil {
		return uint16(f.xfIndex)
	}
	return defaultCellXF
}

func (s *Worksheet) trackExtent(row, col int) error {
	if row >= xlsRowMax || col >= xlsColMax {
		s.log.Errorf("xls: cell write at (%d,%d) on sheet %q rejected: out of range", row, col, s.name)
		return ErrOutOfRange
	}
	if row < s.dimRowMin {
		s.dimRowMin = row
	}
	if row > s.dimRowMax {
		s.dimRowMax = row
	}
	if col < s.dimColMin {
		s.dimColMin = col
	}
	if col > s.dimColMax {
		s.dimColMax = col
	}
	return nil
}

// WriteNumber emits a NUMBER record (spec.md §4.5).
func (s *Worksheet) WriteNumber(row, col int, v float64, f *Format) error {
	if err := s.trackExtent(row, col); err != nil {
		return err
	}
	buf := newOctetBuffer()
	buf.putU16LE(uint16(row))
	buf.putU16LE(uint16(col))
	buf.putU16LE(xfIndexOf(f))
	if err := buf.putDoubleLE(v); err != nil {
		return err
	}
	return writeRecord(s.acc, recNumber, buf.Bytes())
}

// WriteString emits a LABEL record, truncating to 255 bytes (spec.md §7
// StringTooLong: policy, not an error). A truncation is logged as a warning;
// no error is returned for it.
func (s *Worksheet) WriteString(row, col int, v string, f *Format) error {
	if err := s.trackExtent(row, col); err != nil {
		return err
	}
	str := v
	if len(str) > xlsStrMax {
		s.log.Warnf("xls: string at (%d,%d) on sheet %q truncated from %d to %d bytes", row, col, s.name, len(str), xlsStrMax)
		str = str[:xlsStrMax]
	}
	buf := newOctetBuffer()
	buf.putU16LE(uint16(row))
	buf.putU16LE(uint16(col))
	buf.putU16LE(xfIndexOf(f))
	buf.putU16LE(uint16(len(str)))
	buf.putRaw([]byte(str))
	return writeRecord(s.acc, recLabel, buf.Bytes())
}

// WriteBlank emits a BLANK record.
func (s *Worksheet) WriteBlank(row, col int, f *Format) error {
	if err := s.trackExtent(row, col); err != nil {
		return err
	}
	buf := newOctetBuffer()
	buf.putU16LE(uint16(row))
	buf.putU16LE(uint16(col))
	buf.putU16LE(xfIndexOf(f))
	return writeRecord(s.acc, recBlank, buf.Bytes())
}

// WriteFormula compiles expr and emits a FORMULA record (spec.md §4.5): the
// 8-byte result field is a placeholder since this module never evaluates
// formulas (spec.md §1 Non-goals).
func (s *Worksheet) WriteFormula(row, col int, expr string, f *Format) error {
	if err := s.trackExtent(row, col); err != nil {
		return err
	}
	ptg, err := compileFormula(expr)
	if err != nil {
		s.log.Errorf("xls: formula %q on sheet %q rejected: %v", expr, s.name, err)
		return err
	}

	buf := newOctetBuffer()
	buf.putU16LE(uint16(row))
	buf.putU16LE(uint16(col))
	buf.putU16LE(xfIndexOf(f))
	buf.putZero(8) // result placeholder; never evaluated
	buf.putU16LE(0x0000)
	buf.putU32LE(0) // chn
	buf.putU16LE(uint16(len(ptg)))
	buf.putRaw(ptg)
	return writeRecord(s.acc, recFormula, buf.Bytes())
}

// hlinkGUID is the 40-byte "StdHlink" GUID/header blob every BIFF HLINK
// record carries, taken verbatim from src/worksheet.c's wsheet_write_url.
var hlinkGUID = [40]byte{
	0xD0, 0xC9, 0xEA, 0x79, 0xF9, 0xBA, 0xCE, 0x11, 0x8C, 0x82,
	0x00, 0xAA, 0x00, 0x4B, 0xA9, 0x0B, 0x02, 0x00, 0x00, 0x00,
	0x03, 0x00, 0x00, 0x00, 0xE0, 0xC9, 0xEA, 0x79, 0xF9, 0xBA,
	0xCE, 0x11, 0x8C, 0x82, 0x00, 0xAA, 0x00, 0x4B, 0xA9, 0x0B,
}

// WriteURL writes a hyperlink: the visible label via WriteString, then the
// HLINK record (spec.md §4.8). If label is empty, url is shown as the
// label.
func (s *Worksheet) WriteURL(row, col int, url, label string, f *Format) error {
	display := label
	if display == "" {
		display = url
	}
	if f == nil {
		f = s.urlFormat
	}
	if err := s.WriteString(row, col, display, f); err != nil {
		return err
	}

	buf := newOctetBuffer()
	buf.putU16LE(uint16(row))
	buf.putU16LE(uint16(row))
	buf.putU16LE(uint16(col))
	buf.putU16LE(uint16(col))
	buf.putRaw(hlinkGUID[:])
	buf.putU32LE(uint32(len(url)))
	buf.putRaw([]byte(url))
	return writeRecord(s.acc, recHlink, buf.Bytes())
}

// SetColumn records (or updates) a COLINFO descriptor for [first,last].
func (s *Worksheet) SetColumn(first, last, width int) {
	for i := range s.colInfos {
		if s.colInfos[i].firstCol == first && s.colInfos[i].lastCol == last {
			s.colInfos[i].width = width
			return
		}
	}
	s.colInfos = append(s.colInfos, colInfo{firstCol: first, lastCol: last, width: width, xf: 0xF})
}

// SetRow writes a ROW record immediately, matching wsheet_set_row: the
// record lands wherever this call falls relative to any other writer call
// on the same sheet, not batched at Close. height < 0 means "format only,
// keep the default height" (the -1 convention, encoded on the wire as
// 0xFF).
func (s *Worksheet) SetRow(row, height int, f *Format) {
	ri := rowInfo{row: row, height: height, xf: int(xfIndexOf(f))}
	if err := s.writeRow(ri); err != nil {
		s.log.Errorf("xls: row %d on sheet %q failed to write: %v", row, s.name, err)
	}
}

// SetSelection sets the worksheet's active selection rectangle. Rows and
// columns are independently normalised at Close so first <= last on both
// axes — implementing the corrected three-way swap (DESIGN.md documents the
// original's `lcol = fcol` bug this replaces).
func (s *Worksheet) SetSelection(frow, fcol, lrow, lcol int) {
	s.selFrow, s.selFcol, s.selLrow, s.selLcol = frow, fcol, lrow, lcol
}

func (s *Worksheet) writeRow(ri rowInfo) error {
	height := ri.height
	if height < 0 {
		height = 0xFF
	} else {
		height *= 20
	}
	buf := newOctetBuffer()
	buf.putU16LE(uint16(ri.row))
	buf.putU16LE(0)
	buf.putU16LE(0)
	buf.putU16LE(uint16(height))
	buf.putU16LE(0)
	buf.putU16LE(0)
	buf.putU16LE(0x01C0)
	buf.putU16LE(uint16(ri.xf))
	return writeRecord(s.acc, recRow, buf.Bytes())
}

func (s *Worksheet) storeDimensions() {
	buf := newOctetBuffer()
	buf.putU16LE(uint16(s.dimRowMin))
	buf.putU16LE(uint16(s.dimRowMax))
	buf.putU16LE(uint16(s.dimColMin))
	buf.putU16LE(uint16(s.dimColMax))
	buf.putU16LE(0)
	prependRecord(s.acc, recDimensions, buf.Bytes())
}

func (s *Worksheet) storeColInfo(ci colInfo) {
	width := (float64(ci.width) + 0.72) * 256 // Excel's documented -0.72 fudge, inverted here
	buf := newOctetBuffer()
	buf.putU16LE(uint16(ci.firstCol))
	buf.putU16LE(uint16(ci.lastCol))
	buf.putU16LE(uint16(int(width)))
	buf.putU16LE(uint16(ci.xf))
	buf.putU16LE(uint16(ci.grbit))
	buf.putU8(0)
	prependRecord(s.acc, recColInfo, buf.Bytes())
}

func (s *Worksheet) storeDefColWidth() {
	buf := newOctetBuffer()
	buf.putU16LE(0x0008)
	prependRecord(s.acc, recDefColWidth, buf.Bytes())
}

func (s *Worksheet) storeWindow2() error {
	grbit := uint16(0x00B6)
	if s.activeSheet == s.index {
		grbit = 0x06B6
	}
	buf := newOctetBuffer()
	buf.putU16LE(grbit)
	buf.putU16LE(0)
	buf.putU16LE(0)
	buf.putU32LE(0)
	return writeRecord(s.acc, recWindow2, buf.Bytes())
}

func (s *Worksheet) storeSelection() error {
	frow, lrow := s.selFrow, s.selLrow
	if frow > lrow {
		frow, lrow = lrow, frow
	}
	fcol, lcol := s.selFcol, s.selLcol
	if fcol > lcol {
		fcol, lcol = lcol, fcol
	}

	buf := newOctetBuffer()
	buf.putU8(3)
	buf.putU16LE(uint16(frow))
	buf.putU16LE(uint16(fcol))
	buf.putU16LE(0)
	buf.putU16LE(1)
	buf.putU16LE(uint16(frow))
	buf.putU16LE(uint16(lrow))
	buf.putU8(uint8(fcol))
	buf.putU8(uint8(lcol))
	return writeRecord(s.acc, recSelection, buf.Bytes())
}

// close finalizes the worksheet: DIMENSIONS, COLINFO(s) and DEFCOLWIDTH are
// prepended in that call order — each prepend pushes the previous ones
// back, so the final byte order is BOF, DEFCOLWIDTH, COLINFO(s) (reversed),
// DIMENSIONS, then whatever ROW/cell records were already written in call
// order. WINDOW2, SELECTION and EOF are appended last.
func (s *Worksheet) close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.storeDimensions()

	if len(s.colInfos) > 0 {
		for _, ci := range s.colInfos {
			s.storeColInfo(ci)
		}
		s.storeDefColWidth()
	}

	writeBOF(s.acc, bofTypeSheet)

	if err := s.storeWindow2(); err != nil {
		return err
	}
	if err := s.storeSelection(); err != nil {
		return err
	}
	return writeEOF(s.acc)
}
