package xls

// writeRecord frames payload as a BIFF record (id:u16_le, length:u16_le,
// payload) and appends it to acc. The length field is always the real
// length of payload, measured here rather than hand-computed by each
// caller — this is what makes the record-framing invariant (the two bytes
// at offset 2 equal the number of bytes that follow) hold by construction,
// instead of needing to be maintained by every record builder individually.
func writeRecord(acc *streamAccumulator, id uint16, payload []byte) error {
	buf := newOctetBuffer()
	buf.putU16LE(id)
	buf.putU16LE(uint16(len(payload)))
	buf.putRaw(payload)
	return acc.Append(buf.Bytes())
}

// prependRecord frames payload the same way but inserts it at the front of
// acc's header, for records only known after the body has been written
// (BOF, DIMENSIONS, COLINFO, DEFCOLWIDTH).
func prependRecord(acc *streamAccumulator, id uint16, payload []byte) {
	buf := newOctetBuffer()
	buf.putU16LE(id)
	buf.putU16LE(uint16(len(payload)))
	buf.putRaw(payload)
	acc.Prepend(buf.Bytes())
}

// BIFF record identifiers used by this module.
const (
	recBOF         = 0x0809
	recEOF         = 0x000A
	recDimensions  = 0x0000
	recRow         = 0x0208
	recNumber      = 0x0203
	recLabel       = 0x0204
	recBlank       = 0x0201
	recFormula     = 0x0006
	recHlink       = 0x01B8
	recCodepage    = 0x0042
	recWindow1     = 0x003D
	recWindow2     = 0x023E
	recDateMode    = 0x0022
	recFont        = 0x0031
	recFormat      = 0x041E
	recXF          = 0x00E0
	recStyle       = 0x0093
	recBoundsheet  = 0x0085
	recSelection   = 0x001D
	recDefColWidth = 0x0055
	recColInfo     = 0x007D
)

// BOF payload constants, from the original library's g_BIFF_version and
// bw_store_bof: version field is a compile-time constant here, not mutable
// module state (spec.md §9 "Mutable global for BIFF version").
const (
	biffVersion   = 0x0500
	biffBuild     = 0x096C
	biffYear      = 0x07C9
	bofTypeBook   = 0x0005
	bofTypeSheet  = 0x0010
)

func writeBOF(acc *streamAccumulator, sheetType uint16) {
	buf := newOctetBuffer()
	buf.putU16LE(biffVersion)
	buf.putU16LE(sheetType)
	buf.putU16LE(biffBuild)
	buf.putU16LE(biffYear)
	prependRecord(acc, recBOF, buf.Bytes())
}

func writeEOF(acc *streamAccumulator) error {
	return writeRecord(acc, recEOF, nil)
}
